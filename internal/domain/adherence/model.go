package adherence

import "time"

// Status del registro de una toma.
// @Enum taken, missed
type Status string

const (
	StatusTaken  Status = "taken"
	StatusMissed Status = "missed"
)

func (s Status) Valid() bool {
	return s == StatusTaken || s == StatusMissed
}

// Log es un evento de toma registrado por el paciente o su cuidador.
// Puede haber varios por (paciente, medicamento, día).
type Log struct {
	ID           string
	MedicationID string
	PatientID    string

	Status  Status
	TakenAt time.Time
}

// Report resume la adherencia histórica de un paciente.
type Report struct {
	PatientID   string
	TotalLogs   int
	TakenCount  int
	MissedCount int
	Logs        []Log
}
