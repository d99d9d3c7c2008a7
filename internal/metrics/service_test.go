package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncEntriesAppended("runs", 3)
	s.IncEntriesAppended("runs", 1)
	s.IncMalformedEntries("balls")
	s.IncRankingsComputed(true)
	s.IncRankingsComputed(false)
	s.IncRankingsComputed(false)
	s.IncMotmSelected()

	assert.Equal(t, 4.0, testutil.ToFloat64(s.EntriesAppended.WithLabelValues("runs")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.MalformedEntries.WithLabelValues("balls")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.RankingsComputed.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.RankingsComputed.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.MotmSelected))
}

func TestMetricsHandler_ServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)
	s.IncStorageErrors()

	rr := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "cricket_storage_errors_total 1")
}
