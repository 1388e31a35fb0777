package adherence

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l Log) error
	Update(ctx context.Context, l Log) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Log, error)
	ListByPatient(ctx context.Context, patientID string, filter ListFilter) ([]Log, error)
	// ExistsTaken indica si hay algún log "taken" con TakenAt en [from, to].
	ExistsTaken(ctx context.Context, patientID, medicationID string, from, to time.Time) (bool, error)
}

type ListFilter struct {
	MedicationID string
	From         *time.Time
	To           *time.Time
}
