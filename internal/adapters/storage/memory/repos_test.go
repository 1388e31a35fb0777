package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"medication-adherence/internal/domain/adherence"
	"medication-adherence/internal/domain/medications"
	"medication-adherence/internal/domain/patients"
)

func TestPatientRepo_NotFound(t *testing.T) {
	r := NewPatientRepo()
	if _, err := r.GetByID(context.Background(), "nope"); !errors.Is(err, patients.ErrNotFound) {
		t.Fatalf("expected patients.ErrNotFound, got %v", err)
	}
	if err := r.Update(context.Background(), patients.Patient{ID: "nope"}); !errors.Is(err, patients.ErrNotFound) {
		t.Fatalf("expected patients.ErrNotFound, got %v", err)
	}
}

func TestMedicationRepo_ListScheduled_OrderAndIsolation(t *testing.T) {
	r := NewMedicationRepo()
	ctx := context.Background()
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	_ = r.Create(ctx, medications.Medication{ID: "b", PatientID: "p1", Reminders: []string{"08:00"}, CreatedAt: t0.Add(time.Minute)})
	_ = r.Create(ctx, medications.Medication{ID: "a", PatientID: "p1", Reminders: []string{"08:00"}, CreatedAt: t0})
	_ = r.Create(ctx, medications.Medication{ID: "c", PatientID: "p2", CreatedAt: t0})

	got, err := r.ListScheduled(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("expected [a b] by created_at, got %+v", got)
	}

	// mutar el resultado no debe afectar al repo
	got[0].Reminders[0] = "23:59"
	m, _ := r.GetByID(ctx, "a")
	if m.Reminders[0] != "08:00" {
		t.Fatalf("expected stored reminders untouched, got %v", m.Reminders)
	}

	if err := r.Delete(ctx, "a"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := r.Delete(ctx, "a"); !errors.Is(err, medications.ErrNotFound) {
		t.Fatalf("expected medications.ErrNotFound, got %v", err)
	}
}

func TestAdherenceRepo_ExistsTaken_WindowBounds(t *testing.T) {
	r := NewAdherenceRepo()
	ctx := context.Background()

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1).Add(-time.Nanosecond)

	_ = r.Create(ctx, adherence.Log{ID: "1", PatientID: "p1", MedicationID: "m1", Status: adherence.StatusTaken, TakenAt: from.Add(-time.Nanosecond)})
	_ = r.Create(ctx, adherence.Log{ID: "2", PatientID: "p1", MedicationID: "m1", Status: adherence.StatusMissed, TakenAt: from.Add(time.Hour)})

	ok, err := r.ExistsTaken(ctx, "p1", "m1", from, to)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ok {
		t.Fatalf("expected false: taken log is before the window")
	}

	_ = r.Create(ctx, adherence.Log{ID: "3", PatientID: "p1", MedicationID: "m1", Status: adherence.StatusTaken, TakenAt: to})
	ok, _ = r.ExistsTaken(ctx, "p1", "m1", from, to)
	if !ok {
		t.Fatalf("expected true: taken log on the window edge")
	}

	logs, _ := r.ListByPatient(ctx, "p1", adherence.ListFilter{})
	if len(logs) != 3 || logs[0].ID != "3" {
		t.Fatalf("expected newest first, got %+v", logs)
	}
}
