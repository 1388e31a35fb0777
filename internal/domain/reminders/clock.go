package reminders

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidClock = errors.New("invalid reminder time")
)

const minutesPerDay = 24 * 60

// Clock es una hora local de pared (sin fecha). Se interpreta como recurrente diaria.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock acepta estrictamente "HH:MM" (00-23 / 00-59).
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	return Clock{Hour: h, Minute: m}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// CronSpec devuelve la expresión diaria "M H * * *".
func (c Clock) CronSpec() string {
	return fmt.Sprintf("%d %d * * *", c.Minute, c.Hour)
}

// Add desplaza el reloj delta minutos, envolviendo dentro del día.
func (c Clock) Add(deltaMinutes int) Clock {
	total := (c.Hour*60 + c.Minute + deltaMinutes) % minutesPerDay
	if total < 0 {
		total += minutesPerDay
	}
	return Clock{Hour: total / 60, Minute: total % 60}
}

// OffsetTime resta leadMinutes a base: OffsetTime("08:00", 15) == "07:45".
// Un lead negativo avanza el reloj (post-check: OffsetTime("08:00", -5) == "08:05").
// Si base no es "HH:MM" se devuelve tal cual; la validación ocurre al crear/editar medicamentos.
func OffsetTime(base string, leadMinutes int) string {
	c, err := ParseClock(base)
	if err != nil {
		return base
	}
	return c.Add(-leadMinutes).String()
}

// ValidateReminderTimes valida y normaliza una lista de recordatorios.
// Devuelve los tiempos en formato canónico, sin duplicados, respetando el orden.
func ValidateReminderTimes(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}

	for _, raw := range in {
		c, err := ParseClock(raw)
		if err != nil {
			return nil, err
		}
		s := c.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}
