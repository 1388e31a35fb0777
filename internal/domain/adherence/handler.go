package adherence

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/patients/{patientID}/adherence", func(ar chi.Router) {
		ar.Post("/", recordLogHandler(svc))
		ar.Get("/", listLogsHandler(svc))
		ar.Get("/report", reportHandler(svc))
	})

	r.Route("/adherence/{logID}", func(ar chi.Router) {
		ar.Put("/", updateLogHandler(svc))
		ar.Delete("/", deleteLogHandler(svc))
	})
}

type recordLogRequest struct {
	MedicationID string `json:"medication_id"`
	Status       Status `json:"status" enums:"taken,missed"`
	TakenAt      string `json:"taken_at"` // RFC3339 opcional; default ahora
}

type updateLogRequest struct {
	Status Status `json:"status" enums:"taken,missed"`
}

// logResponse representa un registro de adherencia devuelto por la API.
type logResponse struct {
	ID           string    `json:"id"`
	MedicationID string    `json:"medication_id"`
	PatientID    string    `json:"patient_id"`
	Status       Status    `json:"status"`
	TakenAt      time.Time `json:"taken_at"`
}

type reportResponse struct {
	PatientID   string        `json:"patient_id"`
	TotalLogs   int           `json:"total_logs"`
	TakenCount  int           `json:"taken_count"`
	MissedCount int           `json:"missed_count"`
	Logs        []logResponse `json:"logs"`
}

// recordLogHandler godoc
// @Summary Registrar toma
// @Description Registra una toma (taken) u omisión (missed) de un medicamento del paciente.
// @Tags adherence
// @Accept json
// @Produce json
// @Param patientID path string true "ID del paciente"
// @Param payload body recordLogRequest true "medication_id, status y taken_at (RFC3339, opcional)"
// @Success 201 {object} logResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "medication not found for this patient"
// @Router /patients/{patientID}/adherence [post]
func recordLogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordLogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var at *time.Time
		if v := strings.TrimSpace(req.TakenAt); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				http.Error(w, "taken_at must be RFC3339", http.StatusBadRequest)
				return
			}
			at = &t
		}

		l, err := svc.Record(r.Context(), chi.URLParam(r, "patientID"), RecordInput{
			MedicationID: req.MedicationID,
			Status:       req.Status,
			TakenAt:      at,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toLogResponse(l))
	}
}

// listLogsHandler godoc
// @Summary Listar registros de adherencia
// @Description Lista los registros del paciente, más recientes primero. Permite filtrar por medicamento y rango de fechas.
// @Tags adherence
// @Produce json
// @Param patientID path string true "ID del paciente"
// @Param medication_id query string false "Solo registros de este medicamento"
// @Param from query string false "taken_at mínimo (RFC3339)"
// @Param to query string false "taken_at máximo (RFC3339)"
// @Success 200 {array} logResponse
// @Failure 400 {string} string "Parámetros de filtro inválidos"
// @Failure 500 {string} string "internal error"
// @Router /patients/{patientID}/adherence [get]
func listLogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListByPatient(r.Context(), chi.URLParam(r, "patientID"), filter)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toLogResponses(items))
	}
}

// reportHandler godoc
// @Summary Reporte de adherencia
// @Description Totales de registros taken/missed del paciente (vista del cuidador).
// @Tags adherence
// @Produce json
// @Param patientID path string true "ID del paciente"
// @Success 200 {object} reportResponse
// @Failure 500 {string} string "internal error"
// @Router /patients/{patientID}/adherence/report [get]
func reportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := svc.Report(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reportResponse{
			PatientID:   rep.PatientID,
			TotalLogs:   rep.TotalLogs,
			TakenCount:  rep.TakenCount,
			MissedCount: rep.MissedCount,
			Logs:        toLogResponses(rep.Logs),
		})
	}
}

// updateLogHandler godoc
// @Summary Cambiar estado de un registro
// @Tags adherence
// @Accept json
// @Produce json
// @Param logID path string true "ID del registro"
// @Param payload body updateLogRequest true "Nuevo estado"
// @Success 200 {object} logResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "adherence log not found"
// @Router /adherence/{logID} [put]
func updateLogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateLogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		l, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "logID"), req.Status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toLogResponse(l))
	}
}

// deleteLogHandler godoc
// @Summary Borrar registro de adherencia
// @Tags adherence
// @Param logID path string true "ID del registro"
// @Success 204
// @Failure 404 {string} string "adherence log not found"
// @Router /adherence/{logID} [delete]
func deleteLogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "logID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{MedicationID: strings.TrimSpace(q.Get("medication_id"))}

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("from must be RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("to must be RFC3339")
		}
		filter.To = &t
	}
	return filter, nil
}

func toLogResponse(l Log) logResponse {
	return logResponse{
		ID:           l.ID,
		MedicationID: l.MedicationID,
		PatientID:    l.PatientID,
		Status:       l.Status,
		TakenAt:      l.TakenAt,
	}
}

func toLogResponses(items []Log) []logResponse {
	out := make([]logResponse, 0, len(items))
	for _, l := range items {
		out = append(out, toLogResponse(l))
	}
	return out
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrMedicationNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "adherence log not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
