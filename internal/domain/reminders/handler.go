package reminders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, p *Planner) {
	r.Route("/reminders", func(rr chi.Router) {
		rr.Get("/tasks", listTasksHandler(p))
		rr.Post("/resync", resyncHandler(p))
		rr.Post("/send", sendReminderHandler(p))
	})
}

type tasksResponse struct {
	Count int       `json:"count"`
	Keys  []TaskKey `json:"keys"`
}

type sendReminderRequest struct {
	PatientID    string `json:"patient_id"`
	MedicationID string `json:"medication_id"`
}

type sendReminderResponse struct {
	SMS   string `json:"sms"`
	Voice string `json:"voice"`
}

// listTasksHandler godoc
// @Summary Triggers registrados
// @Description Claves de los triggers diarios registrados en este proceso ("<paciente>-HH:MM-<offset>" o "-post").
// @Tags reminders
// @Produce json
// @Success 200 {object} tasksResponse
// @Router /reminders/tasks [get]
func listTasksHandler(p *Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keys := p.RegisteredTasks()
		if keys == nil {
			keys = []TaskKey{}
		}
		writeJSON(w, http.StatusOK, tasksResponse{Count: len(keys), Keys: keys})
	}
}

// resyncHandler godoc
// @Summary Re-ejecutar el planner
// @Description Recalcula el plan desde el roster actual. Solo registra claves nuevas; las existentes no se reprograman.
// @Tags reminders
// @Produce json
// @Success 200 {object} Summary
// @Failure 500 {string} string "roster unavailable"
// @Router /reminders/resync [post]
func resyncHandler(p *Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sum, err := p.Run(r.Context())
		if err != nil {
			http.Error(w, "roster unavailable", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, sum)
	}
}

// sendReminderHandler godoc
// @Summary Enviar recordatorio ahora
// @Description Recordatorio a demanda del cuidador: SMS y luego llamada de voz para un medicamento del paciente.
// @Tags reminders
// @Accept json
// @Produce json
// @Param payload body sendReminderRequest true "Paciente y medicamento"
// @Success 200 {object} sendReminderResponse
// @Failure 400 {string} string "invalid json / patient_id and medication_id required"
// @Failure 404 {string} string "patient or medication not found"
// @Failure 422 {string} string "patient has no phone number"
// @Failure 502 {string} string "failed to send reminder"
// @Router /reminders/send [post]
func sendReminderHandler(p *Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendReminderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.PatientID) == "" || strings.TrimSpace(req.MedicationID) == "" {
			http.Error(w, "patient_id and medication_id required", http.StatusBadRequest)
			return
		}

		res, err := p.SendNow(r.Context(), req.PatientID, req.MedicationID)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "patient or medication not found", http.StatusNotFound)
			case errors.Is(err, ErrMissingPhone):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				http.Error(w, "failed to send reminder", http.StatusBadGateway)
			}
			return
		}

		writeJSON(w, http.StatusOK, sendReminderResponse{
			SMS:   channelStatus(res.TextErr),
			Voice: channelStatus(res.CallErr),
		})
	}
}

func channelStatus(err error) string {
	if err != nil {
		return "failed"
	}
	return "sent"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
