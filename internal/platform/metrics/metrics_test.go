package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordConsoleOperation_LabelsOutcome(t *testing.T) {
	c := NewCollector()

	c.RecordConsoleOperation("companies", "submit", 10*time.Millisecond, nil)
	c.RecordConsoleOperation("companies", "submit", 10*time.Millisecond, errors.New("boom"))
	c.RecordConsoleOperation("companies", "submit", 10*time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.ConsoleOperations.WithLabelValues("companies", "submit", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ConsoleOperations.WithLabelValues("companies", "submit", StatusError)))
}

func TestHandler_ServesRegistry(t *testing.T) {
	c := NewCollector()
	c.RecordHTTPRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)
	c.SetActiveWorkspaces(3)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `sismog_http_requests_total{method="GET",path="/health",status_code="200"} 1`)
	assert.Contains(t, body, "sismog_active_workspaces 3")
}
