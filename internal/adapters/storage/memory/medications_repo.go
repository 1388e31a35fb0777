package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"medication-adherence/internal/domain/medications"
)

type medicationRepo struct {
	mu   sync.RWMutex
	byID map[string]medications.Medication
}

func NewMedicationRepo() medications.Repository {
	return &medicationRepo{
		byID: make(map[string]medications.Medication),
	}
}

func (r *medicationRepo) Create(ctx context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("medication id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return errors.New("medication already exists")
	}
	r.byID[m.ID] = cloneMedication(m)
	return nil
}

func (r *medicationRepo) Update(ctx context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[m.ID]; !exists {
		return medications.ErrNotFound
	}
	r.byID[m.ID] = cloneMedication(m)
	return nil
}

func (r *medicationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return medications.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *medicationRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return medications.Medication{}, medications.ErrNotFound
	}
	return cloneMedication(m), nil
}

func (r *medicationRepo) ListByPatient(ctx context.Context, patientID string) ([]medications.Medication, error) {
	return r.list(func(m medications.Medication) bool { return m.PatientID == patientID }), nil
}

func (r *medicationRepo) ListScheduled(ctx context.Context) ([]medications.Medication, error) {
	return r.list(func(m medications.Medication) bool { return len(m.Reminders) > 0 }), nil
}

func (r *medicationRepo) list(keep func(medications.Medication) bool) []medications.Medication {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.Medication, 0)
	for _, m := range r.byID {
		if keep(m) {
			out = append(out, cloneMedication(m))
		}
	}

	// Orden estable por created_at asc; el roster depende de este orden.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// cloneMedication evita compartir el slice de recordatorios con quien llama.
func cloneMedication(m medications.Medication) medications.Medication {
	if m.Reminders != nil {
		times := make([]string, len(m.Reminders))
		copy(times, m.Reminders)
		m.Reminders = times
	}
	if m.EndDate != nil {
		end := *m.EndDate
		m.EndDate = &end
	}
	return m
}
