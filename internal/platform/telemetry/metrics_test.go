package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest_ByStatusClass(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))

	m.ObserveRequest(http.MethodGet, 200, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, 204, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, 404, 10*time.Millisecond)
	m.ObserveRequest(http.MethodPost, 0, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "4xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestErrors.WithLabelValues("POST")))
}

func TestRegister_Twice_Fails(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))
	assert.Error(t, m.Register(reg))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))
	m.ObserveRequest(http.MethodGet, 200, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "petlar_client_requests_total"))
}
