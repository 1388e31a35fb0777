package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"medication-adherence/internal/domain/reminders"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserver_Counters(t *testing.T) {
	m := New()

	m.TaskRegistered(reminders.TaskKindPreDose)
	m.TaskRegistered(reminders.TaskKindPreDose)
	m.TaskRegistered(reminders.TaskKindPostCheck)
	m.GroupSkipped("missing_phone")
	m.Dispatched("sms", nil)
	m.Dispatched("voice", errors.New("boom"))
	m.Reconciled(2)
	m.Reconciled(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.tasksRegistered.WithLabelValues("pre_dose")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksRegistered.WithLabelValues("post_check")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.groupsSkipped.WithLabelValues("missing_phone")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatches.WithLabelValues("voice", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.reconciliations))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.missedDoses))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New()
	m.RecordHTTPRequest(http.MethodGet, "/health", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `http_requests_total{method="GET",route="/health",status_code="200"} 1`))
}
