package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medication-adherence/internal/adapters/scheduler/cron"
	"medication-adherence/internal/app"
	"medication-adherence/internal/platform/config"
	"medication-adherence/internal/platform/logger"
	"medication-adherence/internal/platform/metrics"
	"medication-adherence/internal/router"
)

// @title Medication Adherence API
// @version 1.0
// @description Pacientes, medicamentos, registros de adherencia y recordatorios programados (SMS + voz).
// @BasePath /
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.NewFromEnv().Error("config error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	log := app.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := app.OpenStorage(ctx, cfg, log)
	if err != nil {
		log.Error("storage error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	svcs := router.NewServices(db, log)
	m := metrics.New()

	sched := cron.New(cron.Options{Location: time.Local, Logger: log})
	planner := app.NewPlanner(cfg, svcs, sched, app.NewDispatcher(cfg, log), m, log)

	// Un roster caído no impide levantar la API; se puede reintentar con /reminders/resync.
	if sum, err := planner.Run(ctx); err != nil {
		log.Error("initial reminder planning failed", map[string]any{"error": err.Error()})
	} else {
		log.Info("reminders planned", map[string]any{
			"groups":     sum.Groups,
			"registered": sum.Registered,
			"skipped":    sum.SkippedGroups,
		})
	}
	sched.Start()

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(router.Options{
			Services: svcs,
			Planner:  planner,
			Logger:   log,
			Metrics:  m,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.Addr()})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down", nil)
	case err := <-errCh:
		if err != nil {
			log.Error("server error", map[string]any{"error": err.Error()})
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", map[string]any{"error": err.Error()})
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		log.Warn("scheduler stop", map[string]any{"error": err.Error()})
	}
}
