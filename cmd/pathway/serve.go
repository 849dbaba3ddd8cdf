package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/atomic"

	"github.com/vango-dev/pathway/internal/config"
	"github.com/vango-dev/pathway/pkg/history"
	"github.com/vango-dev/pathway/pkg/history/remote"
	"github.com/vango-dev/pathway/pkg/middleware"
	"github.com/vango-dev/pathway/pkg/router"
)

func serveCmd(g *globals) *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Drive remote browser windows over WebSocket",
		Long: `Start an HTTP server whose WebSocket endpoint accepts remote windows.
Each connection gets its own router over the configured route table.

Endpoints:
  <wsPath>       remote window WebSocket (default /ws)
  <metricsPath>  Prometheus metrics (default /metrics)
  /healthz       liveness

With --watch the configuration file is reloaded on change; new
connections use the new route table.

Examples:
  pathway serve
  pathway serve --addr :9000 --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			logger, err := g.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Serve.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logger, watch)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the configuration file on change")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger, watch bool) error {
	s := newServer(cfg, logger)

	if watch && cfg.Path() != "" {
		go func() {
			if err := config.Watch(ctx, cfg.Path(), s.reload, logger); err != nil {
				logger.Error("configuration watch stopped", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           s.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving", "addr", cfg.Serve.Addr, "ws", cfg.Serve.WSPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// server hands every remote window a router over the current config.
type server struct {
	cfg    atomic.Pointer[config.Config]
	logger *slog.Logger
	mw     []router.Middleware
}

func newServer(cfg *config.Config, logger *slog.Logger) *server {
	s := &server{
		logger: logger,
		mw: []router.Middleware{
			middleware.OpenTelemetry(),
			middleware.Prometheus(),
		},
	}
	s.cfg.Store(cfg)
	return s
}

func (s *server) reload(cfg *config.Config) {
	s.cfg.Store(cfg)
}

func (s *server) handler() http.Handler {
	cfg := s.cfg.Load()

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if cfg.Serve.MetricsPath != "-" {
		r.Handle(cfg.Serve.MetricsPath, promhttp.Handler())
	}
	r.Handle(cfg.Serve.WSPath, remote.Handler(remote.Config{
		EventsPerSecond: cfg.Serve.EventsPerSecond,
		Logger:          s.logger,
		OnError: func(stage string, _ error) {
			middleware.RecordRemoteError(stage)
		},
	}, s.connect))

	return r
}

// connect runs before the connection's read loop starts.
func (s *server) connect(c *remote.Conn) {
	cfg := s.cfg.Load()
	logger := s.logger.With("conn", c.Href())

	opts, err := cfg.RouterOptions(func(st *router.RouteState) {
		logger.Debug("route callback", "route", st.Name, "path", displayPath(st.Path))
	})
	if err != nil {
		logger.Error("invalid router options", "error", err)
		_ = c.Close()
		return
	}
	if opts.Mode == history.ModeMemory {
		opts.Mode = history.ModeBrowser
	}
	opts.Window = c
	opts.Components = headlessComponents(cfg.ComponentKeys(), logger)
	opts.Middleware = s.mw
	opts.Logger = logger

	r, err := router.New(opts)
	if err != nil {
		logger.Error("router setup failed", "error", err)
		_ = c.Close()
		return
	}

	r.Subscribe(router.EventRouteChanged, func(e router.Event) {
		logger.Info("route changed",
			"route", e.To.Name,
			"path", displayPath(e.To.Path),
			"action", e.Action.String(),
		)
	})

	middleware.RecordRemoteConnect()
	go func() {
		<-c.Done()
		r.Close()
		middleware.RecordRemoteDisconnect()
	}()

	r.Mount(context.Background(), nil)
}
