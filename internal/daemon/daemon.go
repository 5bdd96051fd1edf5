package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lernpfad/lernpfad/internal/api"
	"github.com/lernpfad/lernpfad/internal/app/curriculum"
	"github.com/lernpfad/lernpfad/internal/app/engagement"
	"github.com/lernpfad/lernpfad/internal/domain"
	"github.com/lernpfad/lernpfad/internal/health"
	"github.com/lernpfad/lernpfad/internal/infra/clock"
)

// Daemon is the lernpfad runtime. It wires together all services.
type Daemon struct {
	Config     Config
	Log        *zap.Logger
	Store      domain.StateStore
	Clock      domain.Clock
	Engagement *engagement.Service
	Curriculum *curriculum.Service
	Health     *health.Checker
	Server     *api.Server
	cancel     context.CancelFunc
}

// Option customises a Daemon before its services are built.
type Option func(*options)

type options struct {
	clock domain.Clock
	log   *zap.Logger
	store domain.StateStore
}

// WithClock replaces the configured wall clock.
func WithClock(c domain.Clock) Option { return func(o *options) { o.clock = c } }

// WithLogger replaces the configured logger.
func WithLogger(l *zap.Logger) Option { return func(o *options) { o.log = l } }

// WithStore uses an already opened state store instead of cfg.Storage.
func WithStore(s domain.StateStore) Option { return func(o *options) { o.store = s } }

// New creates and initializes a Daemon from the on-disk config.
func New(opts ...Option) (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg, opts...)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config, opts ...Option) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	log := o.log
	if log == nil {
		l, err := NewLogger(cfg.Logging)
		if err != nil {
			return nil, err
		}
		log = l
	}

	clk := o.clock
	if clk == nil {
		c, err := clock.New(cfg.Clock.Timezone)
		if err != nil {
			return nil, err
		}
		clk = c
	}

	tracker, err := engagement.NewTracker(cfg.Engagement)
	if err != nil {
		return nil, fmt.Errorf("engagement: %w", err)
	}

	store := o.store
	if store == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s, err := OpenStore(ctx, cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
		}
		store = s
	}

	eng := engagement.NewService(tracker, store, clk, log)
	cur := curriculum.NewService(curriculum.NewTracker(cfg.Curriculum.CompletionThreshold), store, eng, log)

	dataDir := ""
	if cfg.Storage.Driver == "" || cfg.Storage.Driver == "sqlite" {
		dataDir = cfg.Storage.Dir
	}
	checker := health.NewChecker(store, dataDir, log.Named("health"))

	srv := api.NewServer(eng, cur, log)
	srv.SetHealth(checker)
	if len(cfg.API.CORSOrigins) > 0 {
		srv.SetCORSOrigins(cfg.API.CORSOrigins)
	}
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:     cfg,
		Log:        log,
		Store:      store,
		Clock:      clk,
		Engagement: eng,
		Curriculum: cur,
		Health:     checker,
		Server:     srv,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			d.Log.Info("shutdown signal received")
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	d.Log.Info("lernpfad serving",
		zap.String("addr", "http://"+addr),
		zap.String("store", d.Config.Storage.Driver),
		zap.String("timezone", d.Config.Clock.Timezone),
		zap.Bool("metrics", d.Config.Telemetry.Prometheus),
	)

	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			d.Log.Warn("close store", zap.Error(err))
		}
	}
	_ = d.Log.Sync()
}
