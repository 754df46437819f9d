package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"hospital-triage/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog"
)

// PushJob is the job name used when pushing to a Pushgateway.
const PushJob = "hospital_triage"

// serveMetrics exposes the metrics registry on addr until ctx is cancelled.
// The returned channel is closed once the server has stopped.
func serveMetrics(ctx context.Context, addr string, logger zerolog.Logger) <-chan struct{} {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Info().Str("addr", addr).Msg("metrics server listening on /metrics")
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown failed")
		}
	}()

	return done
}

// pushMetrics sends the registry to a Pushgateway. Failures are logged only.
func pushMetrics(url string, logger zerolog.Logger) {
	if err := push.New(url, PushJob).Gatherer(metrics.Registry).Push(); err != nil {
		logger.Error().Err(err).Str("url", url).Msg("error pushing to Pushgateway")
		return
	}
	logger.Info().Str("url", url).Msg("metrics pushed to Pushgateway")
}
