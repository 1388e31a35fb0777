package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"medication-adherence/internal/domain/adherence"
)

type adherenceRepo struct {
	mu   sync.RWMutex
	byID map[string]adherence.Log
}

func NewAdherenceRepo() adherence.Repository {
	return &adherenceRepo{
		byID: make(map[string]adherence.Log),
	}
}

func (r *adherenceRepo) Create(ctx context.Context, l adherence.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l.ID == "" {
		return errors.New("adherence log id required")
	}
	if _, exists := r.byID[l.ID]; exists {
		return errors.New("adherence log already exists")
	}
	r.byID[l.ID] = l
	return nil
}

func (r *adherenceRepo) Update(ctx context.Context, l adherence.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[l.ID]; !exists {
		return adherence.ErrNotFound
	}
	r.byID[l.ID] = l
	return nil
}

func (r *adherenceRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return adherence.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *adherenceRepo) GetByID(ctx context.Context, id string) (adherence.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byID[id]
	if !ok {
		return adherence.Log{}, adherence.ErrNotFound
	}
	return l, nil
}

func (r *adherenceRepo) ListByPatient(ctx context.Context, patientID string, filter adherence.ListFilter) ([]adherence.Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]adherence.Log, 0)
	for _, l := range r.byID {
		if l.PatientID != patientID {
			continue
		}
		if filter.MedicationID != "" && l.MedicationID != filter.MedicationID {
			continue
		}
		if filter.From != nil && l.TakenAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && l.TakenAt.After(*filter.To) {
			continue
		}
		out = append(out, l)
	}

	// Más reciente primero
	sort.Slice(out, func(i, j int) bool {
		return out[i].TakenAt.After(out[j].TakenAt)
	})
	return out, nil
}

func (r *adherenceRepo) ExistsTaken(ctx context.Context, patientID, medicationID string, from, to time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.byID {
		if l.PatientID != patientID || l.MedicationID != medicationID || l.Status != adherence.StatusTaken {
			continue
		}
		if l.TakenAt.Before(from) || l.TakenAt.After(to) {
			continue
		}
		return true, nil
	}
	return false, nil
}
