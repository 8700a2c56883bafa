package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/teams", http.MethodGet, http.StatusOK, 5*time.Millisecond)
	m.RecordRequest("/api/teams", http.MethodGet, http.StatusOK, 7*time.Millisecond)
	m.RecordError("/api/teams/:id", http.MethodGet, "NOT_FOUND")
	m.RecordMutation("team_created")
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.RecordCacheLookup(false)

	require.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/teams", http.MethodGet, "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/api/teams/:id", http.MethodGet, "NOT_FOUND")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("team_created")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", http.MethodGet, http.StatusOK, time.Millisecond)
	m.RecordError("/", http.MethodGet, "X")
	m.RecordMutation("team_deleted")
	m.RecordCacheLookup(true)
}

func TestMetricsHandlerExposition(t *testing.T) {
	m := NewMetrics()
	m.RecordMutation("member_added")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(string(body), `team_mutations_total{event="member_added"} 1`))
}
