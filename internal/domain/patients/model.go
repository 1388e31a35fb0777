package patients

import "time"

// Patient es el contacto de un paciente: a quién se le envían los recordatorios.
type Patient struct {
	ID    string
	Name  string
	Phone string // solo dígitos; el prefijo de país se agrega al despachar

	CreatedAt time.Time
	UpdatedAt time.Time
}
