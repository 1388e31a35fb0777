package adherence

import (
	"context"
	"errors"
	"strings"
	"time"

	"medication-adherence/internal/domain/medications"
	"medication-adherence/internal/domain/reminders"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("adherence log not found")
	ErrMedicationNotFound = errors.New("medication not found for this patient")
)

// MedicationLookup se usa para verificar que el medicamento pertenece al paciente.
type MedicationLookup interface {
	GetByID(ctx context.Context, id string) (medications.Medication, error)
}

type Service struct {
	repo Repository
	meds MedicationLookup
	now  func() time.Time
}

func NewService(repo Repository, meds MedicationLookup) *Service {
	return &Service{
		repo: repo,
		meds: meds,
		now:  time.Now,
	}
}

var _ reminders.AdherenceLookup = (*Service)(nil)

type RecordInput struct {
	MedicationID string
	Status       Status
	TakenAt      *time.Time // default: ahora
}

func (s *Service) Record(ctx context.Context, patientID string, in RecordInput) (Log, error) {
	patientID = strings.TrimSpace(patientID)
	medID := strings.TrimSpace(in.MedicationID)
	if patientID == "" || medID == "" || !in.Status.Valid() {
		return Log{}, ErrInvalidInput
	}

	m, err := s.meds.GetByID(ctx, medID)
	if err != nil {
		if errors.Is(err, medications.ErrNotFound) {
			return Log{}, ErrMedicationNotFound
		}
		return Log{}, err
	}
	if m.PatientID != patientID {
		return Log{}, ErrMedicationNotFound
	}

	at := s.now()
	if in.TakenAt != nil && !in.TakenAt.IsZero() {
		at = *in.TakenAt
	}

	l := Log{
		ID:           uuid.NewString(),
		MedicationID: medID,
		PatientID:    patientID,
		Status:       in.Status,
		TakenAt:      at,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return Log{}, err
	}
	return l, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Log, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Log{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (Log, error) {
	if !status.Valid() {
		return Log{}, ErrInvalidInput
	}
	l, err := s.GetByID(ctx, id)
	if err != nil {
		return Log{}, err
	}
	l.Status = status
	if err := s.repo.Update(ctx, l); err != nil {
		return Log{}, err
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string, filter ListFilter) ([]Log, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByPatient(ctx, patientID, filter)
}

func (s *Service) ListByMedication(ctx context.Context, patientID, medicationID string) ([]Log, error) {
	medicationID = strings.TrimSpace(medicationID)
	if medicationID == "" {
		return nil, ErrInvalidInput
	}
	return s.ListByPatient(ctx, patientID, ListFilter{MedicationID: medicationID})
}

// HasTaken busca cualquier log "taken" en la ventana; un "missed" solo no cuenta.
func (s *Service) HasTaken(ctx context.Context, patientID, medicationID string, from, to time.Time) (bool, error) {
	if strings.TrimSpace(patientID) == "" || strings.TrimSpace(medicationID) == "" {
		return false, ErrInvalidInput
	}
	if to.Before(from) {
		return false, ErrInvalidInput
	}
	return s.repo.ExistsTaken(ctx, patientID, medicationID, from, to)
}

func (s *Service) Report(ctx context.Context, patientID string) (Report, error) {
	logs, err := s.ListByPatient(ctx, patientID, ListFilter{})
	if err != nil {
		return Report{}, err
	}

	rep := Report{PatientID: strings.TrimSpace(patientID), TotalLogs: len(logs), Logs: logs}
	for _, l := range logs {
		switch l.Status {
		case StatusTaken:
			rep.TakenCount++
		case StatusMissed:
			rep.MissedCount++
		}
	}
	return rep, nil
}
