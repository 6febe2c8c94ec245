package cli

import (
	"log/slog"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/buildcache"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/events"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// runtime holds the optional collaborators of a build: the page cache, the
// Prometheus registry and the event publisher.
type runtime struct {
	options  []build.Option
	registry *prom.Registry
	closers  []func() error
	logger   *slog.Logger
}

func newRuntime(cfg *config.Config, logger *slog.Logger) (*runtime, error) {
	rt := &runtime{logger: logger, options: []build.Option{build.WithLogger(logger)}}

	if cfg.Cache.Path != "" {
		store, err := buildcache.Open(cfg.Cache.Path)
		if err != nil {
			return nil, err
		}
		rt.options = append(rt.options, build.WithCache(store))
		rt.closers = append(rt.closers, store.Close)
		logger.Debug("Build cache enabled", logfields.Path(cfg.Cache.Path))
	}

	if cfg.Metrics.Enabled {
		rt.registry = metrics.NewRegistry()
		rt.options = append(rt.options, build.WithRecorder(metrics.NewPrometheusRecorder(rt.registry)))
	}

	if cfg.Events.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.Subject)
		if err != nil {
			// Builds still work without a broker.
			logger.Warn("Build events disabled", slog.String("url", cfg.Events.NATSURL), logfields.Error(err))
		} else {
			rt.options = append(rt.options, build.WithPublisher(pub))
			rt.closers = append(rt.closers, pub.Close)
		}
	}
	return rt, nil
}

// metricsHandler returns nil when metrics are disabled.
func (rt *runtime) metricsHandler() http.Handler {
	if rt.registry == nil {
		return nil
	}
	return metrics.HTTPHandler(rt.registry)
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.logger.Warn("Close failed", logfields.Error(err))
		}
	}
}
