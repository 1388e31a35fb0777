package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"medication-adherence/internal/domain/adherence"
)

type AdherenceRepo struct {
	db *sql.DB
}

func NewAdherenceRepo(db *sql.DB) *AdherenceRepo {
	return &AdherenceRepo{db: db}
}

var _ adherence.Repository = (*AdherenceRepo)(nil)

func (r *AdherenceRepo) Create(ctx context.Context, l adherence.Log) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO adherence_logs (id, medication_id, patient_id, status, taken_at)
		VALUES ($1,$2,$3,$4,$5)
	`,
		l.ID,
		l.MedicationID,
		l.PatientID,
		string(l.Status),
		l.TakenAt,
	)
	return err
}

func (r *AdherenceRepo) Update(ctx context.Context, l adherence.Log) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE adherence_logs SET status = $2, taken_at = $3 WHERE id = $1
	`, l.ID, string(l.Status), l.TakenAt)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return adherence.ErrNotFound
	}
	return nil
}

func (r *AdherenceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM adherence_logs WHERE id = $1`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return adherence.ErrNotFound
	}
	return nil
}

func (r *AdherenceRepo) GetByID(ctx context.Context, id string) (adherence.Log, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return adherence.Log{}, adherence.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, medication_id, patient_id, status, taken_at
		FROM adherence_logs
		WHERE id = $1
	`, id)

	var l adherence.Log
	var status string
	if err := row.Scan(&l.ID, &l.MedicationID, &l.PatientID, &status, &l.TakenAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return adherence.Log{}, adherence.ErrNotFound
		}
		return adherence.Log{}, err
	}
	l.Status = adherence.Status(status)
	return l, nil
}

func (r *AdherenceRepo) ListByPatient(ctx context.Context, patientID string, filter adherence.ListFilter) ([]adherence.Log, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT id, medication_id, patient_id, status, taken_at
		FROM adherence_logs
		WHERE patient_id = $1
	`)

	args := []any{patientID}
	argN := 2

	if filter.MedicationID != "" {
		sb.WriteString(fmt.Sprintf(" AND medication_id = $%d", argN))
		args = append(args, filter.MedicationID)
		argN++
	}
	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND taken_at >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND taken_at <= $%d", argN))
		args = append(args, *filter.To)
	}
	sb.WriteString(" ORDER BY taken_at DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]adherence.Log, 0)
	for rows.Next() {
		var l adherence.Log
		var status string
		if err := rows.Scan(&l.ID, &l.MedicationID, &l.PatientID, &status, &l.TakenAt); err != nil {
			return nil, err
		}
		l.Status = adherence.Status(status)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *AdherenceRepo) ExistsTaken(ctx context.Context, patientID, medicationID string, from, to time.Time) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM adherence_logs
			WHERE patient_id = $1
			  AND medication_id = $2
			  AND status = 'taken'
			  AND taken_at BETWEEN $3 AND $4
		)
	`, patientID, medicationID, from, to).Scan(&ok)
	return ok, err
}
