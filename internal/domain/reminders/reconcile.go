package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medication-adherence/internal/ports/notify"
)

// Reconciliation es el resultado del post-check de un grupo.
type Reconciliation struct {
	Missed  []DoseItem
	Message string
	TextErr error
}

// DayWindow devuelve [inicio, fin] del día local de t.
func DayWindow(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

func PostCheckMessage(g Group, missed []DoseItem) string {
	if len(missed) == 0 {
		return fmt.Sprintf("Hi %s, you took all your medications scheduled at %s. Great job!", g.Patient.Name, g.Time)
	}
	return fmt.Sprintf("Hi %s, you missed the following medications scheduled at %s: %s.", g.Patient.Name, g.Time, itemLabels(missed))
}

// Reconcile compara las dosis esperadas del grupo contra los registros del día y avisa solo por SMS.
// Un error de consulta cuenta el medicamento como no tomado.
func (p *Planner) Reconcile(ctx context.Context, g Group) Reconciliation {
	from, to := DayWindow(p.now())
	log := p.log.With(map[string]any{
		"patient_id":    g.Patient.PatientID,
		"reminder_time": g.Time,
		"post_check":    true,
	})

	missed := make([]DoseItem, 0)
	for _, it := range g.Items {
		taken, err := p.hasTaken(ctx, g.Patient.PatientID, it.MedicationID, from, to)
		if err != nil {
			log.Error("adherence lookup failed", map[string]any{
				"medication_id": it.MedicationID,
				"error":         err,
			})
		}
		if !taken {
			missed = append(missed, it)
		}
	}
	p.obs.Reconciled(len(missed))

	rec := Reconciliation{
		Missed:  missed,
		Message: PostCheckMessage(g, missed),
	}

	dest := p.Destination(g.Patient.Phone)
	rec.TextErr = p.dispatcher.SendText(ctx, dest, rec.Message)
	p.obs.Dispatched(string(notify.ChannelSMS), rec.TextErr)
	if rec.TextErr != nil {
		log.Error("post-check sms failed", map[string]any{"phone": dest, "error": rec.TextErr})
		return rec
	}

	log.Info("post-check sms sent", map[string]any{"phone": dest, "missed": len(missed)})
	return rec
}

func (p *Planner) hasTaken(ctx context.Context, patientID, medicationID string, from, to time.Time) (bool, error) {
	if p.adherence == nil {
		return false, errors.New("adherence lookup not configured")
	}
	return p.adherence.HasTaken(ctx, patientID, medicationID, from, to)
}
