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

func TestCollector(t *testing.T) {
	c := NewCollector()

	c.StorageOperation("get", time.Millisecond, nil)
	c.StorageOperation("get", time.Millisecond, errors.New("boom"))
	c.StorageRetry("get")
	c.Transition("assign", "ok")
	c.Transition("assign", "state")
	c.HTTPRequest("GET", "/jobs/:id", 200, time.Millisecond)
	c.HealthCheck("mongodb", true)
	c.CacheLookup("hit")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.storageOps.WithLabelValues("get", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.storageOps.WithLabelValues("get", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.storageRetries.WithLabelValues("get")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transitions.WithLabelValues("assign", "state")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.health.WithLabelValues("mongodb")))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "transport_job_transitions_total")
	assert.Contains(t, rec.Body.String(), "transport_http_requests_total")
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.StorageOperation("get", time.Millisecond, nil)
		c.StorageRetry("get")
		c.Transition("apply", "ok")
		c.HTTPRequest("GET", "/", 200, 0)
		c.HealthCheck("redis", false)
		c.CacheLookup("miss")
	})
	assert.Nil(t, c.Registry())
}
