package medications

import "time"

// Medication es un tratamiento de un paciente con sus horarios diarios de toma.
type Medication struct {
	ID        string
	PatientID string

	Name      string
	Dosage    string // "5mg", "2 comprimidos"
	Frequency string // texto libre: "dos veces al día"

	StartDate time.Time
	EndDate   *time.Time

	// Horarios "HH:MM" locales, sin fecha. Puede estar vacío (sin recordatorios).
	Reminders []string

	CreatedAt time.Time
	UpdatedAt time.Time
}
