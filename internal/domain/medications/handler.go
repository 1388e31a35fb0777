package medications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/patients/{patientID}/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc))
		mr.Get("/", listMedicationsHandler(svc))
	})

	r.Route("/medications/{medicationID}", func(mr chi.Router) {
		mr.Get("/", getMedicationHandler(svc))
		mr.Patch("/", updateMedicationHandler(svc))
		mr.Delete("/", deleteMedicationHandler(svc))
	})
}

type createMedicationRequest struct {
	Name      string   `json:"name"`
	Dosage    string   `json:"dosage"`
	Frequency string   `json:"frequency"`
	StartDate string   `json:"start_date"` // YYYY-MM-DD
	EndDate   string   `json:"end_date"`   // YYYY-MM-DD opcional
	Reminders []string `json:"reminders"`  // ["08:00","20:00"]
}

type updateMedicationRequest struct {
	Name      *string   `json:"name"`
	Dosage    *string   `json:"dosage"`
	Frequency *string   `json:"frequency"`
	StartDate *string   `json:"start_date"`
	EndDate   *string   `json:"end_date"` // null = quitar fecha de fin
	Reminders *[]string `json:"reminders"`
}

// medicationResponse representa un medicamento devuelto por la API.
type medicationResponse struct {
	ID        string     `json:"id"`
	PatientID string     `json:"patient_id"`
	Name      string     `json:"name"`
	Dosage    string     `json:"dosage"`
	Frequency string     `json:"frequency"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Reminders []string   `json:"reminders"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// createMedicationHandler godoc
// @Summary Crear medicamento
// @Description Registra un medicamento para el paciente. Los recordatorios deben ser "HH:MM" (00-23/00-59); se eliminan duplicados.
// @Tags medications
// @Accept json
// @Produce json
// @Param patientID path string true "ID del paciente"
// @Param payload body createMedicationRequest true "Datos del medicamento; fechas YYYY-MM-DD"
// @Success 201 {object} medicationResponse
// @Failure 400 {string} string "invalid json / fechas inválidas / recordatorio inválido"
// @Failure 404 {string} string "patient not found"
// @Router /patients/{patientID}/medications [post]
func createMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		start, err := time.Parse(dateLayout, strings.TrimSpace(req.StartDate))
		if err != nil {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		var end *time.Time
		if strings.TrimSpace(req.EndDate) != "" {
			t, err := time.Parse(dateLayout, strings.TrimSpace(req.EndDate))
			if err != nil {
				http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			end = &t
		}

		m, err := svc.Create(r.Context(), chi.URLParam(r, "patientID"), CreateInput{
			Name:      req.Name,
			Dosage:    req.Dosage,
			Frequency: req.Frequency,
			StartDate: start,
			EndDate:   end,
			Reminders: req.Reminders,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicationResponse(m))
	}
}

// listMedicationsHandler godoc
// @Summary Listar medicamentos del paciente
// @Tags medications
// @Produce json
// @Param patientID path string true "ID del paciente"
// @Success 200 {array} medicationResponse
// @Failure 404 {string} string "patient not found"
// @Failure 500 {string} string "internal error"
// @Router /patients/{patientID}/medications [get]
func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByPatient(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getMedicationHandler godoc
// @Summary Obtener medicamento
// @Tags medications
// @Produce json
// @Param medicationID path string true "ID del medicamento"
// @Success 200 {object} medicationResponse
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID} [get]
func getMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "medicationID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

// updateMedicationHandler godoc
// @Summary Editar medicamento
// @Description PATCH parcial. "end_date": null quita la fecha de fin. Cambios de horario no reprograman triggers ya registrados hasta reiniciar el servicio.
// @Tags medications
// @Accept json
// @Produce json
// @Param medicationID path string true "ID del medicamento"
// @Param payload body updateMedicationRequest true "Campos a modificar"
// @Success 200 {object} medicationResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID} [patch]
func updateMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		// Decodificamos a map primero para distinguir "end_date": null de "no enviado".
		var raw map[string]json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var req updateMedicationRequest
		b, _ := json.Marshal(raw)
		if err := json.Unmarshal(b, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Name:      req.Name,
			Dosage:    req.Dosage,
			Frequency: req.Frequency,
			Reminders: req.Reminders,
		}

		if req.StartDate != nil {
			t, err := time.Parse(dateLayout, strings.TrimSpace(*req.StartDate))
			if err != nil {
				http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.StartDate = &t
		}
		if v, exists := raw["end_date"]; exists {
			if string(v) == "null" {
				in.ClearEndDate = true
			} else if req.EndDate != nil {
				t, err := time.Parse(dateLayout, strings.TrimSpace(*req.EndDate))
				if err != nil {
					http.Error(w, "end_date must be YYYY-MM-DD or null", http.StatusBadRequest)
					return
				}
				in.EndDate = &t
			}
		}

		m, err := svc.Update(r.Context(), chi.URLParam(r, "medicationID"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

// deleteMedicationHandler godoc
// @Summary Borrar medicamento
// @Description Los registros de adherencia existentes se conservan.
// @Tags medications
// @Param medicationID path string true "ID del medicamento"
// @Success 204
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID} [delete]
func deleteMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "medicationID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toMedicationResponse(m Medication) medicationResponse {
	times := m.Reminders
	if times == nil {
		times = []string{}
	}
	return medicationResponse{
		ID:        m.ID,
		PatientID: m.PatientID,
		Name:      m.Name,
		Dosage:    m.Dosage,
		Frequency: m.Frequency,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Reminders: times,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrPatientNotFound):
		http.Error(w, "patient not found", http.StatusNotFound)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "medication not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
