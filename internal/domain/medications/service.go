package medications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medication-adherence/internal/domain/patients"
	"medication-adherence/internal/domain/reminders"
	"medication-adherence/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("medication not found")
	ErrPatientNotFound = errors.New("patient not found")
)

// PatientLookup es lo único que necesitamos del módulo patients.
type PatientLookup interface {
	GetByID(ctx context.Context, id string) (patients.Patient, error)
}

type Service struct {
	repo     Repository
	patients PatientLookup
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, pats PatientLookup, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		patients: pats,
		log:      log.With(map[string]any{"component": "medications"}),
		now:      time.Now,
	}
}

var (
	_ reminders.RosterSource = (*Service)(nil)
	_ reminders.TargetLookup = (*Service)(nil)
)

type CreateInput struct {
	Name      string
	Dosage    string
	Frequency string
	StartDate time.Time
	EndDate   *time.Time
	Reminders []string
}

func (s *Service) Create(ctx context.Context, patientID string, in CreateInput) (Medication, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return Medication{}, ErrInvalidInput
	}
	if err := s.ensurePatient(ctx, patientID); err != nil {
		return Medication{}, err
	}

	name := strings.TrimSpace(in.Name)
	dosage := strings.TrimSpace(in.Dosage)
	freq := strings.TrimSpace(in.Frequency)
	if name == "" || dosage == "" || freq == "" || in.StartDate.IsZero() {
		return Medication{}, ErrInvalidInput
	}
	if err := checkWindow(in.StartDate, in.EndDate); err != nil {
		return Medication{}, err
	}
	times, err := reminders.ValidateReminderTimes(in.Reminders)
	if err != nil {
		return Medication{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.now()
	m := Medication{
		ID:        uuid.NewString(),
		PatientID: patientID,
		Name:      name,
		Dosage:    dosage,
		Frequency: freq,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Reminders: times,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

// UpdateInput: nil = no tocar. ClearEndDate quita la fecha de fin.
type UpdateInput struct {
	Name         *string
	Dosage       *string
	Frequency    *string
	StartDate    *time.Time
	EndDate      *time.Time
	ClearEndDate bool
	Reminders    *[]string
}

// Update edita un medicamento. Los triggers ya registrados no se reprograman hasta reiniciar el proceso.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Medication, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return Medication{}, err
	}

	for _, f := range []struct {
		src *string
		dst *string
	}{
		{in.Name, &m.Name},
		{in.Dosage, &m.Dosage},
		{in.Frequency, &m.Frequency},
	} {
		if f.src == nil {
			continue
		}
		v := strings.TrimSpace(*f.src)
		if v == "" {
			return Medication{}, ErrInvalidInput
		}
		*f.dst = v
	}

	if in.StartDate != nil {
		if in.StartDate.IsZero() {
			return Medication{}, ErrInvalidInput
		}
		m.StartDate = *in.StartDate
	}
	if in.ClearEndDate {
		m.EndDate = nil
	} else if in.EndDate != nil {
		end := *in.EndDate
		m.EndDate = &end
	}
	if err := checkWindow(m.StartDate, m.EndDate); err != nil {
		return Medication{}, err
	}

	if in.Reminders != nil {
		times, err := reminders.ValidateReminderTimes(*in.Reminders)
		if err != nil {
			return Medication{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		m.Reminders = times
	}

	m.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

// Delete borra el medicamento; sus registros de adherencia se conservan.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]Medication, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, ErrInvalidInput
	}
	if err := s.ensurePatient(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListByPatient(ctx, patientID)
}

// ListMedicationsWithPatients arma el roster del planner: cada medicamento con horarios
// junto al contacto de su paciente. Medicamentos huérfanos se omiten con un warn.
func (s *Service) ListMedicationsWithPatients(ctx context.Context) ([]reminders.RosterEntry, error) {
	meds, err := s.repo.ListScheduled(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scheduled medications: %w", err)
	}

	contacts := map[string]reminders.Contact{}
	out := make([]reminders.RosterEntry, 0, len(meds))
	for _, m := range meds {
		c, ok := contacts[m.PatientID]
		if !ok {
			p, err := s.patients.GetByID(ctx, m.PatientID)
			if errors.Is(err, patients.ErrNotFound) {
				s.log.Warn("medication without patient, skipped", map[string]any{
					"medication_id": m.ID,
					"patient_id":    m.PatientID,
				})
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("lookup patient %s: %w", m.PatientID, err)
			}
			c = contactOf(p)
			contacts[m.PatientID] = c
		}
		out = append(out, toRosterEntry(m, c))
	}
	return out, nil
}

// ReminderTarget resuelve un medicamento puntual del paciente para el recordatorio a demanda.
func (s *Service) ReminderTarget(ctx context.Context, patientID, medicationID string) (reminders.RosterEntry, error) {
	m, err := s.GetByID(ctx, medicationID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return reminders.RosterEntry{}, fmt.Errorf("%w: %w", reminders.ErrNotFound, err)
		}
		return reminders.RosterEntry{}, err
	}
	if m.PatientID != strings.TrimSpace(patientID) {
		return reminders.RosterEntry{}, fmt.Errorf("%w: %w", reminders.ErrNotFound, ErrNotFound)
	}
	p, err := s.patients.GetByID(ctx, m.PatientID)
	if err != nil {
		if errors.Is(err, patients.ErrNotFound) {
			return reminders.RosterEntry{}, fmt.Errorf("%w: %w", reminders.ErrNotFound, ErrPatientNotFound)
		}
		return reminders.RosterEntry{}, err
	}
	return toRosterEntry(m, contactOf(p)), nil
}

func (s *Service) ensurePatient(ctx context.Context, patientID string) error {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		if errors.Is(err, patients.ErrNotFound) {
			return ErrPatientNotFound
		}
		return err
	}
	return nil
}

func checkWindow(start time.Time, end *time.Time) error {
	if end != nil && end.Before(start) {
		return fmt.Errorf("%w: end_date before start_date", ErrInvalidInput)
	}
	return nil
}

func contactOf(p patients.Patient) reminders.Contact {
	return reminders.Contact{PatientID: p.ID, Name: p.Name, Phone: p.Phone}
}

func toRosterEntry(m Medication, c reminders.Contact) reminders.RosterEntry {
	times := make([]string, len(m.Reminders))
	copy(times, m.Reminders)
	return reminders.RosterEntry{
		MedicationID: m.ID,
		Name:         m.Name,
		Dosage:       m.Dosage,
		Reminders:    times,
		Patient:      c,
	}
}
