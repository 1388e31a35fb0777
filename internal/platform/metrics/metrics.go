package metrics

import (
	"net/http"
	"strconv"
	"time"

	"medication-adherence/internal/domain/reminders"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los collectors del servicio sobre un registry propio.
type Metrics struct {
	reg *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	tasksRegistered *prometheus.CounterVec
	groupsSkipped   *prometheus.CounterVec
	dispatches      *prometheus.CounterVec
	missedDoses     prometheus.Counter
	reconciliations prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		tasksRegistered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reminder_tasks_registered_total",
				Help: "Daily reminder triggers registered",
			},
			[]string{"kind"},
		),
		groupsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reminder_groups_skipped_total",
				Help: "Reminder groups skipped during planning",
			},
			[]string{"reason"},
		),
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reminder_dispatch_total",
				Help: "Notification attempts by channel and result",
			},
			[]string{"channel", "status"},
		),
		missedDoses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reminder_missed_doses_total",
			Help: "Medications found without a taken log at post-dose check",
		}),
		reconciliations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reminder_reconciliations_total",
			Help: "Post-dose adherence checks executed",
		}),
	}

	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.tasksRegistered,
		m.groupsSkipped,
		m.dispatches,
		m.missedDoses,
		m.reconciliations,
	)
	return m
}

var _ reminders.Observer = (*Metrics)(nil)

func (m *Metrics) TaskRegistered(kind reminders.TaskKind) {
	m.tasksRegistered.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) GroupSkipped(reason string) {
	m.groupsSkipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) Dispatched(channel string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dispatches.WithLabelValues(channel, status).Inc()
}

func (m *Metrics) Reconciled(missed int) {
	m.reconciliations.Inc()
	m.missedDoses.Add(float64(missed))
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler expone /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry se expone para tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}
