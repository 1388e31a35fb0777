// Package docs registra el documento OpenAPI servido en /swagger.
// Regenerar con: swag init -g cmd/api/main.go -o internal/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/patients": {
            "post": {"tags": ["patients"], "summary": "Registrar paciente", "responses": {"201": {"description": "Created"}, "400": {"description": "invalid input"}}}
        },
        "/patients/{patientID}": {
            "get": {"tags": ["patients"], "summary": "Obtener paciente", "parameters": [{"type": "string", "name": "patientID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "patient not found"}}},
            "patch": {"tags": ["patients"], "summary": "Actualizar contacto del paciente", "parameters": [{"type": "string", "name": "patientID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "invalid input"}, "404": {"description": "patient not found"}}}
        },
        "/patients/{patientID}/medications": {
            "post": {"tags": ["medications"], "summary": "Crear medicamento", "parameters": [{"type": "string", "name": "patientID", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "invalid input"}, "404": {"description": "patient not found"}}},
            "get": {"tags": ["medications"], "summary": "Listar medicamentos del paciente", "parameters": [{"type": "string", "name": "patientID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "patient not found"}}}
        },
        "/medications/{medicationID}": {
            "get": {"tags": ["medications"], "summary": "Obtener medicamento", "parameters": [{"type": "string", "name": "medicationID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "medication not found"}}},
            "patch": {"tags": ["medications"], "summary": "Editar medicamento", "parameters": [{"type": "string", "name": "medicationID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "invalid input"}, "404": {"description": "medication not found"}}},
            "delete": {"tags": ["medications"], "summary": "Borrar medicamento", "parameters": [{"type": "string", "name": "medicationID", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "medication not found"}}}
        },
        "/patients/{patientID}/adherence": {
            "post": {"tags": ["adherence"], "summary": "Registrar toma", "parameters": [{"type": "string", "name": "patientID", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "invalid input"}, "404": {"description": "medication not found for this patient"}}},
            "get": {"tags": ["adherence"], "summary": "Listar registros de adherencia", "parameters": [{"type": "string", "name": "patientID", "in": "path", "required": true}, {"type": "string", "name": "medication_id", "in": "query"}, {"type": "string", "name": "from", "in": "query"}, {"type": "string", "name": "to", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/patients/{patientID}/adherence/report": {
            "get": {"tags": ["adherence"], "summary": "Reporte de adherencia", "parameters": [{"type": "string", "name": "patientID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/adherence/{logID}": {
            "put": {"tags": ["adherence"], "summary": "Cambiar estado de un registro", "parameters": [{"type": "string", "name": "logID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "adherence log not found"}}},
            "delete": {"tags": ["adherence"], "summary": "Borrar registro de adherencia", "parameters": [{"type": "string", "name": "logID", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "adherence log not found"}}}
        },
        "/reminders/tasks": {
            "get": {"tags": ["reminders"], "summary": "Triggers registrados", "responses": {"200": {"description": "OK"}}}
        },
        "/reminders/resync": {
            "post": {"tags": ["reminders"], "summary": "Re-ejecutar el planner", "responses": {"200": {"description": "OK"}, "500": {"description": "roster unavailable"}}}
        },
        "/reminders/send": {
            "post": {"tags": ["reminders"], "summary": "Enviar recordatorio ahora", "responses": {"200": {"description": "OK"}, "404": {"description": "patient or medication not found"}, "422": {"description": "patient has no phone number"}, "502": {"description": "failed to send reminder"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Medication Adherence API",
	Description:      "Recordatorios de medicación por SMS y llamada, y seguimiento de adherencia.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
