package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/phoneloc/internal/config"
	"github.com/roach88/phoneloc/internal/notify"
	"github.com/roach88/phoneloc/internal/provider"
	"github.com/roach88/phoneloc/internal/route"
	"github.com/roach88/phoneloc/internal/store"
)

// session is everything one command invocation needs: config, logger,
// the opened store and the provider over it.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	provider *provider.Provider
	notifier *notify.Notifier
	registry *prometheus.Registry
}

// openSession loads config, applies flag overrides and opens the store.
// Errors are reported through f and returned as ExitErrors.
func openSession(opts *RootOptions, f *OutputFormatter, storeOpts ...store.Option) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath, ".")
	if err != nil {
		_ = f.Error(ErrCodeConfig, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.DB = opts.Database
	}

	logger := newLogger(cfg.Log, opts.Verbose, f.ErrWriter)
	if cfg.File != "" {
		logger.Debug("config loaded", "file", cfg.File)
	}

	registry := prometheus.NewRegistry()
	metrics, err := notify.NewMetrics(registry)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to register metrics", err)
	}

	router := route.NewDefault()
	notifyOpts := []notify.Option{
		notify.WithRouter(router),
		notify.WithMetrics(metrics),
		notify.WithLogger(logger),
	}
	if cfg.BackupMarker != "" {
		notifyOpts = append(notifyOpts, notify.WithBackupMarker(&notify.FileMarker{Path: cfg.BackupMarker, Logger: logger}))
	}
	n := notify.New(notifyOpts...)

	all := append([]store.Option{
		store.WithDriver(cfg.Driver),
		store.WithChangeHook(n),
		store.WithLogger(logger),
	}, storeOpts...)
	st, err := store.Open(cfg.DB, all...)
	if err != nil {
		_ = f.Error(ErrCodeOpen, err.Error(), map[string]string{"db": cfg.DB})
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	return &session{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		provider: provider.New(st, provider.WithRouter(router), provider.WithLogger(logger)),
		notifier: n,
		registry: registry,
	}, nil
}

// Close writes the metrics textfile, if configured, and closes the store.
func (s *session) Close() error {
	if s.cfg.MetricsTextfile != "" {
		if err := prometheus.WriteToTextfile(s.cfg.MetricsTextfile, s.registry); err != nil {
			s.logger.Warn("failed to write metrics textfile", "path", s.cfg.MetricsTextfile, "error", err)
		}
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// newLogger builds the slog logger for a command. Verbose forces debug level.
func newLogger(cfg config.LogConfig, verbose bool, w io.Writer) *slog.Logger {
	level := cfg.Level
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}
