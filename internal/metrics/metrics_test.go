package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("generate_pages", time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncStageResult("generate_pages", ResultSuccess)
	r.IncBuildOutcome(ResultSuccess)
	r.IncPageResult(PageRendered)
	r.AddBrokenLinks(2)
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveStageDuration("copy_static", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("copy_static", ResultSuccess)
	pr.IncBuildOutcome(ResultSuccess)
	pr.IncPageResult(PageRendered)
	pr.IncPageResult(PageRendered)
	pr.IncPageResult(PageCached)
	pr.AddBrokenLinks(3)
	pr.AddBrokenLinks(0)

	require.InDelta(t, 2, counterValue(t, pr.pageResults.WithLabelValues(string(PageRendered))), 0)
	require.InDelta(t, 1, counterValue(t, pr.pageResults.WithLabelValues(string(PageCached))), 0)
	require.InDelta(t, 3, counterValue(t, pr.brokenLinks), 0)
	require.InDelta(t, 1, counterValue(t, pr.stageResults.WithLabelValues("copy_static", string(ResultSuccess))), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)
}

func counterValue(t *testing.T, c prom.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncBuildOutcome(ResultFatal)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `sitegen_build_outcomes_total{outcome="fatal"} 1`)
}

func TestNewRegistry_IncludesRuntimeCollectors(t *testing.T) {
	reg := NewRegistry()
	NewPrometheusRecorder(reg)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["go_goroutines"])
}
