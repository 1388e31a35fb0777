package reminders

import (
	"context"
	"time"
)

// Contact es el dato de contacto del paciente, referenciado (no poseído) por cada medicamento.
type Contact struct {
	PatientID string
	Name      string
	Phone     string // solo dígitos; el prefijo de país se aplica al despachar
}

// RosterEntry es un medicamento con sus horarios y el contacto de su paciente.
type RosterEntry struct {
	MedicationID string
	Name         string
	Dosage       string
	Reminders    []string // "HH:MM"
	Patient      Contact
}

// DoseItem es un medicamento dentro de un grupo.
type DoseItem struct {
	MedicationID string
	Name         string
	Dosage       string
}

func (d DoseItem) Label() string {
	return d.Name + " (" + d.Dosage + ")"
}

// Group agrupa los medicamentos de un paciente que comparten exactamente la misma hora.
type Group struct {
	Patient Contact
	Time    string
	Items   []DoseItem
}

type TaskKind string

const (
	TaskKindPreDose   TaskKind = "pre_dose"
	TaskKindPostCheck TaskKind = "post_check"
)

// PlannedTask es un trigger diario calculado por el planner.
type PlannedTask struct {
	Key    TaskKey
	Kind   TaskKind
	Offset int // minutos antes de la dosis (pre) o después (post)
	FireAt Clock
	Group  Group
}

// SkippedGroup registra un grupo que no se pudo planificar (sin teléfono, hora inválida).
type SkippedGroup struct {
	PatientID string
	Time      string
	Reason    string
}

type Summary struct {
	Groups            int `json:"groups"`
	Planned           int `json:"planned"`
	Registered        int `json:"registered"`
	AlreadyRegistered int `json:"already_registered"`
	SkippedGroups     int `json:"skipped_groups"`
	BindFailures      int `json:"bind_failures"`
}

// RosterSource entrega el roster completo; se consulta una vez por pasada del planner.
type RosterSource interface {
	ListMedicationsWithPatients(ctx context.Context) ([]RosterEntry, error)
}

// TargetLookup resuelve un medicamento puntual (recordatorio a demanda del cuidador).
type TargetLookup interface {
	ReminderTarget(ctx context.Context, patientID, medicationID string) (RosterEntry, error)
}

// AdherenceLookup indica si existe algún registro "taken" en la ventana [from, to].
type AdherenceLookup interface {
	HasTaken(ctx context.Context, patientID, medicationID string, from, to time.Time) (bool, error)
}

// Scheduler ejecuta job todos los días a la hora indicada.
type Scheduler interface {
	Every(at Clock, job func()) error
}

// Observer recibe eventos del motor (métricas). Puede ser nil.
type Observer interface {
	TaskRegistered(kind TaskKind)
	GroupSkipped(reason string)
	Dispatched(channel string, err error)
	Reconciled(missed int)
}

type nopObserver struct{}

func (nopObserver) TaskRegistered(TaskKind)  {}
func (nopObserver) GroupSkipped(string)      {}
func (nopObserver) Dispatched(string, error) {}
func (nopObserver) Reconciled(int)           {}
