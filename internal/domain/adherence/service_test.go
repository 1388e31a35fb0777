package adherence

import (
	"context"
	"errors"
	"testing"
	"time"

	"medication-adherence/internal/domain/medications"
)

type fakeRepo struct {
	logs []Log
}

func (r *fakeRepo) Create(ctx context.Context, l Log) error {
	r.logs = append(r.logs, l)
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, l Log) error {
	for i := range r.logs {
		if r.logs[i].ID == l.ID {
			r.logs[i] = l
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	for i := range r.logs {
		if r.logs[i].ID == id {
			r.logs = append(r.logs[:i], r.logs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (Log, error) {
	for _, l := range r.logs {
		if l.ID == id {
			return l, nil
		}
	}
	return Log{}, ErrNotFound
}

func (r *fakeRepo) ListByPatient(ctx context.Context, patientID string, filter ListFilter) ([]Log, error) {
	out := []Log{}
	for _, l := range r.logs {
		if l.PatientID != patientID {
			continue
		}
		if filter.MedicationID != "" && l.MedicationID != filter.MedicationID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeRepo) ExistsTaken(ctx context.Context, patientID, medicationID string, from, to time.Time) (bool, error) {
	for _, l := range r.logs {
		if l.PatientID == patientID && l.MedicationID == medicationID && l.Status == StatusTaken &&
			!l.TakenAt.Before(from) && !l.TakenAt.After(to) {
			return true, nil
		}
	}
	return false, nil
}

type fakeMeds map[string]medications.Medication

func (f fakeMeds) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	m, ok := f[id]
	if !ok {
		return medications.Medication{}, medications.ErrNotFound
	}
	return m, nil
}

var noon = time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local)

func newTestService() (*Service, *fakeRepo) {
	repo := &fakeRepo{}
	svc := NewService(repo, fakeMeds{
		"m1": {ID: "m1", PatientID: "p1", Name: "A", Dosage: "5mg"},
		"m2": {ID: "m2", PatientID: "p1", Name: "B", Dosage: "10mg"},
		"m9": {ID: "m9", PatientID: "p9", Name: "Z", Dosage: "1mg"},
	})
	svc.now = func() time.Time { return noon }
	return svc, repo
}

func TestRecord_DefaultsTakenAtToNow(t *testing.T) {
	svc, _ := newTestService()

	l, err := svc.Record(context.Background(), "p1", RecordInput{MedicationID: "m1", Status: StatusTaken})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !l.TakenAt.Equal(noon) {
		t.Fatalf("expected taken_at=now, got %v", l.TakenAt)
	}
}

func TestRecord_Validation(t *testing.T) {
	svc, _ := newTestService()

	cases := []struct {
		name      string
		patientID string
		in        RecordInput
		want      error
	}{
		{"bad status", "p1", RecordInput{MedicationID: "m1", Status: "late"}, ErrInvalidInput},
		{"no medication", "p1", RecordInput{Status: StatusTaken}, ErrInvalidInput},
		{"unknown medication", "p1", RecordInput{MedicationID: "nope", Status: StatusTaken}, ErrMedicationNotFound},
		{"other patient's medication", "p1", RecordInput{MedicationID: "m9", Status: StatusTaken}, ErrMedicationNotFound},
	}
	for _, tc := range cases {
		if _, err := svc.Record(context.Background(), tc.patientID, tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestHasTaken_OnlyTakenInsideWindowCounts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	yesterday := noon.AddDate(0, 0, -1)
	if _, err := svc.Record(ctx, "p1", RecordInput{MedicationID: "m1", Status: StatusTaken, TakenAt: &yesterday}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.Record(ctx, "p1", RecordInput{MedicationID: "m1", Status: StatusMissed}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 0, 1).Add(-time.Nanosecond)

	ok, err := svc.HasTaken(ctx, "p1", "m1", from, to)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ok {
		t.Fatalf("expected not taken: only a missed log today")
	}

	if _, err := svc.Record(ctx, "p1", RecordInput{MedicationID: "m1", Status: StatusTaken}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ok, _ = svc.HasTaken(ctx, "p1", "m1", from, to)
	if !ok {
		t.Fatalf("expected taken after a taken log today")
	}

	if _, err := svc.HasTaken(ctx, "p1", "m1", to, from); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for inverted window, got %v", err)
	}
}

func TestReport_Counts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, st := range []Status{StatusTaken, StatusTaken, StatusMissed} {
		if _, err := svc.Record(ctx, "p1", RecordInput{MedicationID: "m2", Status: st}); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}

	rep, err := svc.Report(ctx, "p1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rep.TotalLogs != 3 || rep.TakenCount != 2 || rep.MissedCount != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestUpdateStatusAndDelete(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	l, err := svc.Record(ctx, "p1", RecordInput{MedicationID: "m1", Status: StatusMissed})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	got, err := svc.UpdateStatus(ctx, l.ID, StatusTaken)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != StatusTaken {
		t.Fatalf("expected taken, got %s", got.Status)
	}
	if _, err := svc.UpdateStatus(ctx, l.ID, "bogus"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if err := svc.Delete(ctx, l.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(repo.logs) != 0 {
		t.Fatalf("expected log deleted, got %d", len(repo.logs))
	}
	if err := svc.Delete(ctx, l.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
