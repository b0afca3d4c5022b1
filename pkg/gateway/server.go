package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"nimbus-gw/nimbus/pkg/accounts"
	"nimbus-gw/nimbus/pkg/config"
	"nimbus-gw/nimbus/pkg/gateway/middleware"
	"nimbus-gw/nimbus/pkg/health"
	"nimbus-gw/nimbus/pkg/routing"
	"nimbus-gw/nimbus/pkg/telemetry/metrics"
	"nimbus-gw/nimbus/pkg/upstream"
)

// Server is the HTTP gateway server. It wires the middleware chain and
// the proxy, admin, health, and metrics endpoints, and owns graceful
// shutdown.
type Server struct {
	cfg       config.Config
	store     *accounts.Store
	tracker   *health.Tracker
	selector  *routing.Selector
	client    *upstream.Client
	collector *metrics.Collector
	registry  *prometheus.Registry

	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.Mutex
	isRunning    bool
}

// NewServer creates a gateway server over fully constructed components.
func NewServer(
	cfg config.Config,
	store *accounts.Store,
	tracker *health.Tracker,
	selector *routing.Selector,
	client *upstream.Client,
) *Server {
	s := &Server{
		cfg:          cfg,
		store:        store,
		tracker:      tracker,
		selector:     selector,
		client:       client,
		shutdownChan: make(chan struct{}),
	}

	if cfg.Telemetry.Metrics.Enabled {
		s.registry = prometheus.NewRegistry()
		s.collector = metrics.NewCollector(cfg.Telemetry.Metrics, s.registry)
	}

	return s
}

// Collector returns the metrics collector, or nil when metrics are
// disabled.
func (s *Server) Collector() *metrics.Collector {
	return s.collector
}

// setupRoutes builds the handler tree. The proxy is the catch-all; the
// operational endpoints are carved out ahead of it. Auth applies to the
// proxy and admin surfaces but not to probes or metrics.
func (s *Server) setupRoutes() http.Handler {
	proxy := NewProxyHandler(s.store, s.tracker, s.selector, s.client, s.collector, s.cfg)
	admin := NewAdminHandler(s.store, s.tracker, s.selector)

	auth := middleware.Auth(s.cfg.Auth)

	mux := http.NewServeMux()
	mux.Handle("/healthz", HealthzHandler{})
	mux.Handle("/readyz", NewReadyzHandler(s.store, s.tracker))
	if s.collector != nil {
		mux.Handle(s.cfg.Telemetry.Metrics.Path, metrics.Handler(s.registry))
	}
	mux.Handle("/admin/", auth(admin))
	mux.Handle("/", auth(proxy))

	// Outermost first: request id, then access log, then panic recovery.
	var handler http.Handler = mux
	handler = middleware.Recovery(handler)
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)
	return handler
}

// Start starts the HTTP server and blocks until shutdown via context
// cancellation, SIGINT/SIGTERM, or Shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.cfg.Server.ListenAddress,
		Handler:        s.setupRoutes(),
		ReadTimeout:    s.cfg.Server.ReadTimeout,
		WriteTimeout:   s.cfg.Server.WriteTimeout,
		IdleTimeout:    s.cfg.Server.IdleTimeout,
		MaxHeaderBytes: s.cfg.Server.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting gateway server",
			"address", s.cfg.Server.ListenAddress,
			"upstream", s.cfg.Upstream.BaseURL,
			"accounts", s.store.Len(),
			"strategy", s.selector.StrategyName(),
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server, waiting up to the
// configured shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown",
			"timeout", s.cfg.Server.ShutdownTimeout.String(),
		)

		shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		close(s.shutdownChan)
	})

	return shutdownErr
}
