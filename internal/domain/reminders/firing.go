package reminders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medication-adherence/internal/ports/notify"
)

// DispatchResult reporta el resultado por canal de un disparo.
type DispatchResult struct {
	TextErr error
	CallErr error
}

func (r DispatchResult) OK() bool {
	return r.TextErr == nil && r.CallErr == nil
}

func itemLabels(items []DoseItem) string {
	labels := make([]string, 0, len(items))
	for _, it := range items {
		labels = append(labels, it.Label())
	}
	return strings.Join(labels, ", ")
}

// PreDoseMessage arma el mensaje combinado de un grupo.
func PreDoseMessage(g Group, offset int) string {
	list := itemLabels(g.Items)
	if offset == 0 {
		return fmt.Sprintf("Hi %s, it's time to take your medications: %s.", g.Patient.Name, list)
	}
	return fmt.Sprintf("Hi %s, your medications (%s) are due in %d minutes.", g.Patient.Name, list, offset)
}

func OnDemandMessage(e RosterEntry) string {
	return fmt.Sprintf("Hi %s, reminder: Take your medication - %s (%s)", e.Patient.Name, e.Name, e.Dosage)
}

// Destination aplica el prefijo de país a un teléfono local (solo dígitos).
// Si ya viene en formato internacional (+...), se respeta.
func (p *Planner) Destination(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return p.opts.CountryCode + phone
}

// FirePreDose envía SMS y, tras CallDelay, la llamada de voz con el mismo texto.
// Un fallo de SMS no impide el intento de llamada.
func (p *Planner) FirePreDose(ctx context.Context, g Group, offset int) DispatchResult {
	fields := map[string]any{
		"patient_id":    g.Patient.PatientID,
		"reminder_time": g.Time,
		"offset":        offset,
		"medications":   len(g.Items),
	}
	return p.deliver(ctx, g.Patient.Phone, PreDoseMessage(g, offset), fields)
}

// SendNow es el recordatorio a demanda (cuidador): misma secuencia SMS -> llamada.
// Devuelve error si el objetivo no existe (ErrNotFound) o si fallaron ambos canales.
func (p *Planner) SendNow(ctx context.Context, patientID, medicationID string) (DispatchResult, error) {
	if p.targets == nil {
		return DispatchResult{}, errors.New("reminders: target lookup not configured")
	}

	e, err := p.targets.ReminderTarget(ctx, patientID, medicationID)
	if err != nil {
		return DispatchResult{}, err
	}
	if strings.TrimSpace(e.Patient.Phone) == "" {
		return DispatchResult{}, ErrMissingPhone
	}

	res := p.deliver(ctx, e.Patient.Phone, OnDemandMessage(e), map[string]any{
		"patient_id":    e.Patient.PatientID,
		"medication_id": e.MedicationID,
		"on_demand":     true,
	})
	if res.TextErr != nil && res.CallErr != nil {
		return res, fmt.Errorf("send reminder: sms: %v; call: %w", res.TextErr, res.CallErr)
	}
	return res, nil
}

func (p *Planner) deliver(ctx context.Context, phone, message string, fields map[string]any) DispatchResult {
	to := p.Destination(phone)
	log := p.log.With(fields).With(map[string]any{"phone": to})

	var res DispatchResult

	res.TextErr = p.dispatcher.SendText(ctx, to, message)
	p.obs.Dispatched(string(notify.ChannelSMS), res.TextErr)
	if res.TextErr != nil {
		log.Error("reminder sms failed", map[string]any{"channel": notify.ChannelSMS, "error": res.TextErr})
	}

	if err := p.sleep(ctx, p.opts.CallDelay); err != nil {
		res.CallErr = fmt.Errorf("call not attempted: %w", err)
		log.Error("reminder call skipped", map[string]any{"channel": notify.ChannelVoice, "error": err})
		return res
	}

	res.CallErr = p.dispatcher.MakeVoiceCall(ctx, to, message)
	p.obs.Dispatched(string(notify.ChannelVoice), res.CallErr)
	if res.CallErr != nil {
		log.Error("reminder call failed", map[string]any{"channel": notify.ChannelVoice, "error": res.CallErr})
	}

	if res.OK() {
		log.Info("reminder sms and call sent", nil)
	}
	return res
}
