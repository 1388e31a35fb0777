package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"medication-adherence/internal/domain/medications"

	"github.com/lib/pq"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

var _ medications.Repository = (*MedicationsRepo)(nil)

const medicationColumns = `
	id, patient_id,
	name, dosage, frequency,
	start_date, end_date,
	reminders,
	created_at, updated_at
`

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medications (`+medicationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		m.ID,
		m.PatientID,
		m.Name,
		m.Dosage,
		m.Frequency,
		m.StartDate,
		toNullDate(m.EndDate),
		pq.Array(reminderTimes(m.Reminders)),
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *MedicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medications
		SET
			name = $2,
			dosage = $3,
			frequency = $4,
			start_date = $5,
			end_date = $6,
			reminders = $7,
			updated_at = $8
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		m.Dosage,
		m.Frequency,
		m.StartDate,
		toNullDate(m.EndDate),
		pq.Array(reminderTimes(m.Reminders)),
		m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medications.ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medications WHERE id = $1`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medications.ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, medications.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+medicationColumns+` FROM medications WHERE id = $1`, id)
	m, err := scanMedication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return medications.Medication{}, medications.ErrNotFound
		}
		return medications.Medication{}, err
	}
	return m, nil
}

func (r *MedicationsRepo) ListByPatient(ctx context.Context, patientID string) ([]medications.Medication, error) {
	return r.list(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		WHERE patient_id = $1
		ORDER BY created_at ASC, id ASC
	`, strings.TrimSpace(patientID))
}

func (r *MedicationsRepo) ListScheduled(ctx context.Context) ([]medications.Medication, error) {
	return r.list(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		WHERE cardinality(reminders) > 0
		ORDER BY created_at ASC, id ASC
	`)
}

func (r *MedicationsRepo) list(ctx context.Context, query string, args ...any) ([]medications.Medication, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedication(s rowScanner) (medications.Medication, error) {
	var m medications.Medication
	var end sql.NullTime
	var times pq.StringArray
	if err := s.Scan(
		&m.ID,
		&m.PatientID,
		&m.Name,
		&m.Dosage,
		&m.Frequency,
		&m.StartDate,
		&end,
		&times,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return medications.Medication{}, err
	}
	if end.Valid {
		t := end.Time
		m.EndDate = &t
	}
	m.Reminders = []string(times)
	return m, nil
}

// reminders es NOT NULL: nil se guarda como '{}'.
func reminderTimes(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// end_date es DATE nullable
func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
