package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"medication-adherence/internal/domain/adherence"
	"medication-adherence/internal/domain/medications"
	"medication-adherence/internal/domain/patients"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

var (
	created = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	start   = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
)

var medicationCols = []string{
	"id", "patient_id", "name", "dosage", "frequency",
	"start_date", "end_date", "reminders", "created_at", "updated_at",
}

func TestMigrate_ExecutesSchema(t *testing.T) {
	db, mock := setupMock(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS patients").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), db))
}

func TestPatientsRepo_GetByID_NotFound(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPatientsRepo(db)

	mock.ExpectQuery("SELECT (.+) FROM patients WHERE id = \\$1").
		WithArgs("p1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "p1")
	assert.ErrorIs(t, err, patients.ErrNotFound)
}

func TestPatientsRepo_Update_NoRows(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPatientsRepo(db)

	mock.ExpectExec("UPDATE patients").
		WithArgs("p1", "Asha", "9876543210", created).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), patients.Patient{ID: "p1", Name: "Asha", Phone: "9876543210", UpdatedAt: created})
	assert.ErrorIs(t, err, patients.ErrNotFound)
}

func TestMedicationsRepo_Create_StoresReminderArray(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewMedicationsRepo(db)

	m := medications.Medication{
		ID: "m1", PatientID: "p1", Name: "A", Dosage: "5mg", Frequency: "daily",
		StartDate: start, Reminders: []string{"08:00", "20:00"},
		CreatedAt: created, UpdatedAt: created,
	}

	mock.ExpectExec("INSERT INTO medications").
		WithArgs("m1", "p1", "A", "5mg", "daily", start, nil, sqlmock.AnyArg(), created, created).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), m))
}

func TestMedicationsRepo_ListScheduled_ScansArrays(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewMedicationsRepo(db)

	end := start.AddDate(0, 1, 0)
	rows := sqlmock.NewRows(medicationCols).
		AddRow("m1", "p1", "A", "5mg", "daily", start, nil, "{08:00,20:00}", created, created).
		AddRow("m2", "p1", "B", "10mg", "daily", start, end, "{08:00}", created, created)

	mock.ExpectQuery("SELECT (.+) FROM medications WHERE cardinality\\(reminders\\) > 0").
		WillReturnRows(rows)

	got, err := repo.ListScheduled(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, []string{"08:00", "20:00"}, got[0].Reminders)
	assert.Nil(t, got[0].EndDate)
	require.NotNil(t, got[1].EndDate)
	assert.True(t, got[1].EndDate.Equal(end))
}

func TestMedicationsRepo_Delete_NotFound(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewMedicationsRepo(db)

	mock.ExpectExec("DELETE FROM medications WHERE id = \\$1").
		WithArgs("m1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "m1"), medications.ErrNotFound)
}

func TestAdherenceRepo_ExistsTaken(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewAdherenceRepo(db)

	from := start
	to := start.AddDate(0, 0, 1).Add(-time.Nanosecond)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("p1", "m1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ExistsTaken(context.Background(), "p1", "m1", from, to)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAdherenceRepo_ListByPatient_BuildsFilter(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewAdherenceRepo(db)

	from := start
	rows := sqlmock.NewRows([]string{"id", "medication_id", "patient_id", "status", "taken_at"}).
		AddRow("l1", "m1", "p1", "taken", created)

	mock.ExpectQuery("FROM adherence_logs WHERE patient_id = \\$1 AND medication_id = \\$2 AND taken_at >= \\$3 ORDER BY taken_at DESC").
		WithArgs("p1", "m1", from).
		WillReturnRows(rows)

	got, err := repo.ListByPatient(context.Background(), "p1", adherence.ListFilter{MedicationID: "m1", From: &from})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, adherence.StatusTaken, got[0].Status)
}
