// Package app arma las piezas comunes a cmd/api y cmd/medctl a partir de config.
package app

import (
	"context"
	"database/sql"

	"medication-adherence/internal/adapters/notify/logonly"
	"medication-adherence/internal/adapters/notify/twilio"
	pg "medication-adherence/internal/adapters/storage/postgres"
	"medication-adherence/internal/domain/reminders"
	"medication-adherence/internal/platform/config"
	"medication-adherence/internal/platform/logger"
	"medication-adherence/internal/ports/notify"
	"medication-adherence/internal/router"
)

func NewLogger(cfg config.Config) logger.Logger {
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.App.Name,
		Rotation: logger.Rotation{
			File:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
		},
	})
}

// OpenStorage devuelve nil si no hay DSN (modo in-memory). Con DSN abre y migra.
func OpenStorage(ctx context.Context, cfg config.Config, log logger.Logger) (*sql.DB, error) {
	if cfg.DB.DSN == "" {
		log.Warn("db.dsn not set, using in-memory storage", nil)
		return nil, nil
	}
	db, err := pg.Open(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("postgres storage ready", nil)
	return db, nil
}

// NewDispatcher usa Twilio con credenciales completas; si no, solo loguea.
func NewDispatcher(cfg config.Config, log logger.Logger) notify.Dispatcher {
	if !cfg.Twilio.Configured() {
		log.Warn("twilio not configured, notifications will only be logged", nil)
		return logonly.New(log)
	}
	return twilio.NewClient(twilio.Config{
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
		FromNumber: cfg.Twilio.FromNumber,
		Voice:      cfg.Twilio.Voice,
		Language:   cfg.Twilio.Language,
	})
}

func PlannerOptions(cfg config.Config) reminders.Options {
	return reminders.Options{
		PreOffsets:  cfg.Reminders.PreOffsets,
		PostOffset:  cfg.Reminders.PostOffset,
		CallDelay:   cfg.Reminders.CallDelay,
		CountryCode: cfg.Reminders.CountryCode,
	}
}

// NewPlanner conecta el planner a los services de dominio.
func NewPlanner(cfg config.Config, svcs router.Services, sched reminders.Scheduler, disp notify.Dispatcher, obs reminders.Observer, log logger.Logger) *reminders.Planner {
	return reminders.NewPlanner(reminders.Deps{
		Roster:     svcs.Medications,
		Targets:    svcs.Medications,
		Adherence:  svcs.Adherence,
		Scheduler:  sched,
		Dispatcher: disp,
		Logger:     log,
		Observer:   obs,
	}, PlannerOptions(cfg))
}
