package reminders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"medication-adherence/internal/platform/logger"
	"medication-adherence/internal/ports/notify"
)

var (
	ErrMissingPhone = errors.New("patient has no phone number")
	ErrNotFound     = errors.New("reminder target not found")
)

const (
	DefaultCountryCode = "+91"
	DefaultPostOffset  = 5
	DefaultFireTimeout = 2 * time.Minute
)

// DefaultPreOffsets son los minutos de anticipación de cada alerta previa a la dosis.
var DefaultPreOffsets = []int{15, 10, 5, 0}

type Options struct {
	PreOffsets  []int
	PostOffset  int
	CallDelay   time.Duration
	CountryCode string
	FireTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.PreOffsets == nil {
		o.PreOffsets = DefaultPreOffsets
	}
	if o.PostOffset <= 0 {
		o.PostOffset = DefaultPostOffset
	}
	if o.CallDelay < 0 {
		o.CallDelay = 0
	}
	if strings.TrimSpace(o.CountryCode) == "" {
		o.CountryCode = DefaultCountryCode
	}
	if o.FireTimeout <= 0 {
		o.FireTimeout = DefaultFireTimeout
	}
	return o
}

type Deps struct {
	Roster     RosterSource
	Targets    TargetLookup // opcional; solo para SendNow
	Adherence  AdherenceLookup
	Registry   TaskRegistry
	Scheduler  Scheduler
	Dispatcher notify.Dispatcher
	Logger     logger.Logger
	Observer   Observer
}

// Planner convierte el roster en triggers diarios deduplicados y ejecuta cada disparo.
type Planner struct {
	roster     RosterSource
	targets    TargetLookup
	adherence  AdherenceLookup
	registry   TaskRegistry
	scheduler  Scheduler
	dispatcher notify.Dispatcher
	log        logger.Logger
	obs        Observer
	opts       Options

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	// Una pasada a la vez: Has+Register no es atómico entre pasadas concurrentes.
	runMu sync.Mutex
}

func NewPlanner(deps Deps, opts Options) *Planner {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	obs := deps.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	registry := deps.Registry
	if registry == nil {
		registry = NewMemoryRegistry()
	}

	return &Planner{
		roster:     deps.Roster,
		targets:    deps.Targets,
		adherence:  deps.Adherence,
		registry:   registry,
		scheduler:  deps.Scheduler,
		dispatcher: deps.Dispatcher,
		log:        log.With(map[string]any{"component": "reminders"}),
		obs:        obs,
		opts:       opts.withDefaults(),
		now:        time.Now,
		sleep:      sleepCtx,
	}
}

// GroupRoster agrupa por (paciente, hora exacta). Orden: paciente, hora; dentro del grupo, orden del roster.
func GroupRoster(roster []RosterEntry) []Group {
	type groupKey struct {
		patientID string
		time      string
	}

	index := map[groupKey]int{}
	groups := make([]Group, 0)

	for _, med := range roster {
		for _, t := range med.Reminders {
			k := groupKey{patientID: med.Patient.PatientID, time: t}
			i, ok := index[k]
			if !ok {
				i = len(groups)
				index[k] = i
				groups = append(groups, Group{Patient: med.Patient, Time: t})
			}
			groups[i].Items = append(groups[i].Items, DoseItem{
				MedicationID: med.MedicationID,
				Name:         med.Name,
				Dosage:       med.Dosage,
			})
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Patient.PatientID != groups[j].Patient.PatientID {
			return groups[i].Patient.PatientID < groups[j].Patient.PatientID
		}
		return groups[i].Time < groups[j].Time
	})
	return groups
}

// Plan calcula la línea de tiempo sin registrar nada.
func (p *Planner) Plan(roster []RosterEntry) ([]PlannedTask, []SkippedGroup) {
	tasks := make([]PlannedTask, 0)
	skipped := make([]SkippedGroup, 0)

	for _, g := range GroupRoster(roster) {
		gt, err := p.planGroup(g)
		if err != nil {
			skipped = append(skipped, SkippedGroup{
				PatientID: g.Patient.PatientID,
				Time:      g.Time,
				Reason:    err.Error(),
			})
			continue
		}
		tasks = append(tasks, gt...)
	}
	return tasks, skipped
}

func (p *Planner) planGroup(g Group) ([]PlannedTask, error) {
	if strings.TrimSpace(g.Patient.Phone) == "" {
		return nil, ErrMissingPhone
	}
	at, err := ParseClock(g.Time)
	if err != nil {
		return nil, err
	}

	out := make([]PlannedTask, 0, len(p.opts.PreOffsets)+1)
	for _, offset := range p.opts.PreOffsets {
		out = append(out, PlannedTask{
			Key:    preDoseKey(g.Patient.PatientID, at, offset),
			Kind:   TaskKindPreDose,
			Offset: offset,
			FireAt: at.Add(-offset),
			Group:  g,
		})
	}
	out = append(out, PlannedTask{
		Key:    postCheckKey(g.Patient.PatientID, at),
		Kind:   TaskKindPostCheck,
		Offset: p.opts.PostOffset,
		FireAt: at.Add(p.opts.PostOffset),
		Group:  g,
	})
	return out, nil
}

// Run lee el roster una vez y registra los triggers que falten. Re-invocable:
// las keys ya registradas no se vuelven a enlazar (ediciones posteriores de horarios
// requieren reinicio del proceso).
func (p *Planner) Run(ctx context.Context) (Summary, error) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	if p.roster == nil || p.scheduler == nil {
		return Summary{}, errors.New("reminders: planner not configured")
	}

	roster, err := p.roster.ListMedicationsWithPatients(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list roster: %w", err)
	}

	groups := GroupRoster(roster)
	sum := Summary{Groups: len(groups)}

	for _, g := range groups {
		tasks, err := p.planGroup(g)
		if err != nil {
			sum.SkippedGroups++
			p.obs.GroupSkipped(skipReason(err))
			p.log.Warn("skipping reminder group", map[string]any{
				"patient_id":    g.Patient.PatientID,
				"reminder_time": g.Time,
				"medications":   len(g.Items),
				"error":         err,
			})
			continue
		}

		for _, t := range tasks {
			sum.Planned++
			if p.registry.Has(t.Key) {
				sum.AlreadyRegistered++
				continue
			}

			task := t
			if err := p.scheduler.Every(task.FireAt, func() { p.fire(task) }); err != nil {
				// No se registra la key: la próxima pasada reintenta el enlace.
				sum.BindFailures++
				p.log.Error("failed to bind reminder trigger", map[string]any{
					"task_key": string(task.Key),
					"fire_at":  task.FireAt.String(),
					"error":    err,
				})
				continue
			}
			p.registry.Register(task.Key)
			p.obs.TaskRegistered(task.Kind)
			sum.Registered++

			p.log.Debug("reminder trigger registered", map[string]any{
				"task_key": string(task.Key),
				"kind":     string(task.Kind),
				"fire_at":  task.FireAt.String(),
			})
		}
	}

	p.log.Info("reminder planning finished", map[string]any{
		"groups":             sum.Groups,
		"planned":            sum.Planned,
		"registered":         sum.Registered,
		"already_registered": sum.AlreadyRegistered,
		"skipped_groups":     sum.SkippedGroups,
		"bind_failures":      sum.BindFailures,
	})
	return sum, nil
}

// RegisteredTasks expone las keys vivas cuando el registry lo permite.
func (p *Planner) RegisteredTasks() []TaskKey {
	type lister interface{ Keys() []TaskKey }
	if l, ok := p.registry.(lister); ok {
		return l.Keys()
	}
	return nil
}

// fire ejecuta un disparo aislado: nunca propaga panics al scheduler.
func (p *Planner) fire(t PlannedTask) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("reminder trigger panicked", map[string]any{
				"task_key": string(t.Key),
				"panic":    fmt.Sprint(r),
			})
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), p.opts.FireTimeout)
	defer cancel()

	switch t.Kind {
	case TaskKindPreDose:
		p.FirePreDose(ctx, t.Group, t.Offset)
	case TaskKindPostCheck:
		p.Reconcile(ctx, t.Group)
	}
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingPhone):
		return "missing_phone"
	case errors.Is(err, ErrInvalidClock):
		return "invalid_time"
	default:
		return "other"
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
