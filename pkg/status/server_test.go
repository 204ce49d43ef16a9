package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aichannel/pkg/logger"
	"aichannel/pkg/metrics"
)

type probeFunc func() bool

func (f probeFunc) Ready() bool { return f() }

func TestHealth(t *testing.T) {
	s := NewServer(logger.NewNop(), "127.0.0.1", 0, prometheus.NewRegistry(), nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body["version"], "aichannel/")
}

func TestHealthNotReady(t *testing.T) {
	s := NewServer(logger.NewNop(), "127.0.0.1", 0, prometheus.NewRegistry(), probeFunc(func() bool { return false }))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"starting"`)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)
	m.ObserveRoute("forwarded")

	s := NewServer(logger.NewNop(), "127.0.0.1", 0, reg, nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `aichannel_messages_routed_total{decision="forwarded"} 1`)
}
