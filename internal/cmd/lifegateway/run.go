package lifegateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	lifegateway "github.com/goliatone/go-lifegateway"
	"github.com/goliatone/go-lifegateway/adapters/prommetrics"
)

const metricsNamespace = "lifegateway"

// Run starts the gateway and serves callbacks until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	listener, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
	}
	return serve(ctx, cfg, listener)
}

func serve(ctx context.Context, cfg Config, listener net.Listener) error {
	logger := glog.NewLogger(
		glog.WithName("lifegateway"),
		glog.WithLevel(cfg.LogLevel),
		glog.WithLoggerTypeJSON(),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	provider, err := cfg.ConfigProvider()
	if err != nil {
		_ = listener.Close()
		return err
	}
	gw, err := lifegateway.Setup(ctx, cfg.Runtime(), provider,
		lifegateway.WithLoggerProvider(logger),
		lifegateway.WithMetricsRecorder(prommetrics.New(metricsNamespace, registry)),
	)
	if err != nil {
		_ = listener.Close()
		return fmt.Errorf("setup gateway: %w", err)
	}
	// Close drains the queue; signal cancellation must not abandon queued sends.
	gw.Start(context.WithoutCancel(ctx))

	srv := &http.Server{
		Handler:           newMux(cfg, gw.HTTPHandler(), registry),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("gateway listening", "addr", listener.Addr().String(), "path", cfg.GatewayPath)
		serveErr <- srv.Serve(listener)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("serve http: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown incomplete", "error", err)
	}
	if err := gw.Close(shutdownCtx); err != nil {
		logger.Warn("outbound queue drain incomplete", "error", err)
	}
	logger.Info("gateway stopped")
	return runErr
}

func newMux(cfg Config, gateway http.Handler, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(routePath(cfg.GatewayPath, "/gateway"), gateway)
	if path := strings.TrimSpace(cfg.MetricsPath); path != "" {
		mux.Handle(routePath(path, "/metrics"), prommetrics.HandlerFor(gatherer))
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func routePath(path, fallback string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return fallback
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}
