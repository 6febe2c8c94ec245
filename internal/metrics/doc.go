// Package metrics records build and page metrics.
//
// Components receive a Recorder and never check for nil; NoopRecorder is the
// default. When metrics are enabled the build uses a PrometheusRecorder
// registered on its own registry, which the preview server exposes at /metrics:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	mux.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
