package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"medication-adherence/internal/adapters/notify/logonly"
	"medication-adherence/internal/app"
	"medication-adherence/internal/domain/reminders"
	"medication-adherence/internal/platform/config"
	"medication-adherence/internal/platform/logger"
	"medication-adherence/internal/router"
)

// Context es lo que reciben los comandos en Run.
type Context struct {
	Ctx        context.Context
	ConfigPath string
	Out        io.Writer

	// Roster reemplaza al storage configurado (tests).
	Roster reminders.RosterSource
}

func (c *Context) load() (config.Config, reminders.RosterSource, func(), error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	if c.Roster != nil {
		return cfg, c.Roster, func() {}, nil
	}

	log := app.NewLogger(cfg)
	db, err := app.OpenStorage(c.Ctx, cfg, log)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	closeFn := func() {}
	if db != nil {
		closeFn = func() { _ = db.Close() }
	}
	return cfg, router.NewServices(db, log).Medications, closeFn, nil
}

type ValidateCmd struct {
	Times []string `arg:"" help:"Horarios a validar, p. ej. 08:00 20:30."`
}

func (cmd *ValidateCmd) Run(c *Context) error {
	out, err := reminders.ValidateReminderTimes(cmd.Times)
	if err != nil {
		return err
	}
	for _, t := range out {
		fmt.Fprintln(c.Out, t)
	}
	return nil
}

type PlanCmd struct {
	Patient string `help:"Filtrar por id de paciente."`
}

func (cmd *PlanCmd) Run(c *Context) error {
	cfg, roster, closeFn, err := c.load()
	if err != nil {
		return err
	}
	defer closeFn()

	entries, err := roster.ListMedicationsWithPatients(c.Ctx)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}
	if cmd.Patient != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.Patient.PatientID == cmd.Patient {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	p := reminders.NewPlanner(reminders.Deps{Logger: logger.Nop()}, app.PlannerOptions(cfg))
	tasks, skipped := p.Plan(entries)
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].FireAt.String() < tasks[j].FireAt.String()
	})

	tw := tabwriter.NewWriter(c.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIRE\tKIND\tPATIENT\tDOSE\tITEMS")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", t.FireAt, t.Kind, t.Group.Patient.PatientID, t.Group.Time, len(t.Group.Items))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, s := range skipped {
		fmt.Fprintf(c.Out, "skipped %s %s: %s\n", s.PatientID, s.Time, s.Reason)
	}
	return nil
}

type SyncCmd struct{}

// Run registra contra un scheduler que no dispara: sirve para verificar el roster y las claves.
func (cmd *SyncCmd) Run(c *Context) error {
	cfg, roster, closeFn, err := c.load()
	if err != nil {
		return err
	}
	defer closeFn()

	log := logger.Nop()
	p := reminders.NewPlanner(reminders.Deps{
		Roster:     roster,
		Scheduler:  inertScheduler{},
		Dispatcher: logonly.New(log),
		Logger:     log,
	}, app.PlannerOptions(cfg))

	sum, err := p.Run(c.Ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Out, "groups=%d registered=%d skipped=%d bind_failures=%d\n",
		sum.Groups, sum.Registered, sum.SkippedGroups, sum.BindFailures)
	for _, k := range p.RegisteredTasks() {
		fmt.Fprintln(c.Out, k)
	}
	return nil
}

type inertScheduler struct{}

func (inertScheduler) Every(reminders.Clock, func()) error { return nil }
