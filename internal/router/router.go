package router

import (
	"database/sql"
	"net/http"

	mem "medication-adherence/internal/adapters/storage/memory"
	pg "medication-adherence/internal/adapters/storage/postgres"
	_ "medication-adherence/internal/docs"
	"medication-adherence/internal/domain/adherence"
	"medication-adherence/internal/domain/medications"
	"medication-adherence/internal/domain/patients"
	"medication-adherence/internal/domain/reminders"
	"medication-adherence/internal/middleware"
	"medication-adherence/internal/platform/logger"
	"medication-adherence/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Services agrupa los servicios de dominio que comparten la API y el planner.
type Services struct {
	Patients    *patients.Service
	Medications *medications.Service
	Adherence   *adherence.Service
}

// NewServices arma repos y services. Con db != nil usa Postgres; si no, in-memory.
func NewServices(db *sql.DB, log logger.Logger) Services {
	var (
		patientRepo    patients.Repository
		medicationRepo medications.Repository
		adherenceRepo  adherence.Repository
	)

	if db != nil {
		patientRepo = pg.NewPatientsRepo(db)
		medicationRepo = pg.NewMedicationsRepo(db)
		adherenceRepo = pg.NewAdherenceRepo(db)
	} else {
		patientRepo = mem.NewPatientRepo()
		medicationRepo = mem.NewMedicationRepo()
		adherenceRepo = mem.NewAdherenceRepo()
	}

	patientsSvc := patients.NewService(patientRepo)
	medicationsSvc := medications.NewService(medicationRepo, patientsSvc, log)
	return Services{
		Patients:    patientsSvc,
		Medications: medicationsSvc,
		Adherence:   adherence.NewService(adherenceRepo, medicationsSvc),
	}
}

type Options struct {
	Services Services
	Planner  *reminders.Planner

	Logger  logger.Logger
	Metrics *metrics.Metrics // puede ser nil (sin /metrics)
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	var rec middleware.HTTPRecorder
	if opts.Metrics != nil {
		rec = opts.Metrics
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(opts.Logger, rec))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Rutas por módulo
	patients.RegisterRoutes(r, opts.Services.Patients)
	medications.RegisterRoutes(r, opts.Services.Medications)
	adherence.RegisterRoutes(r, opts.Services.Adherence)
	if opts.Planner != nil {
		reminders.RegisterRoutes(r, opts.Planner)
	}

	return r
}
