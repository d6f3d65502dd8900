package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/artpar/contractor/internal/shell/api"
	"github.com/artpar/contractor/internal/shell/pipeline"
	"github.com/artpar/contractor/internal/shell/render"
	"github.com/artpar/contractor/internal/shell/store"
	"github.com/artpar/contractor/internal/shell/workers"
)

// =============================================================================
// Exit Codes
// =============================================================================

const (
	ExitSuccess         = 0
	ExitConfigError     = 1
	ExitDatabaseError   = 2
	ExitTemplateError   = 3
	ExitHTTPServerError = 4
)

// =============================================================================
// Server
// =============================================================================

// Server represents the contractor application server.
type Server struct {
	config     *Config
	httpServer *http.Server
	store      store.TemplateStore
	sweeper    *workers.RetentionSweeper
	logger     *slog.Logger
}

// NewServer creates a new server with the given config.
func NewServer(cfg *Config, logger *slog.Logger) (*Server, error) {
	// Open the template database and seed built-in kinds
	s, err := store.NewSQLiteStore(cfg.Database.DSN)
	if err != nil {
		return nil, &ServerError{
			Op:       "NewServer",
			Err:      err,
			ExitCode: ExitDatabaseError,
		}
	}

	ctx := context.Background()
	if err := s.Seed(ctx); err != nil {
		s.Close()
		return nil, &ServerError{
			Op:       "NewServer",
			Err:      err,
			ExitCode: ExitTemplateError,
		}
	}

	// Load operator-supplied template definitions, if configured
	if cfg.Templates.Dir != "" {
		defs, err := store.LoadDefinitionsDir(cfg.Templates.Dir)
		if err != nil {
			s.Close()
			return nil, &ServerError{
				Op:       "NewServer",
				Err:      err,
				ExitCode: ExitTemplateError,
			}
		}
		for _, def := range defs {
			if err := s.Put(ctx, def); err != nil {
				s.Close()
				return nil, &ServerError{
					Op:       "NewServer",
					Err:      err,
					ExitCode: ExitTemplateError,
				}
			}
		}
		if len(defs) > 0 {
			logger.Info("loaded operator templates",
				"dir", cfg.Templates.Dir,
				"count", len(defs),
			)
		}
	}

	// Create the draft transformer
	var transformer pipeline.Transformer
	if cfg.Pipeline.Enabled {
		transformer = pipeline.NewRemoteChain(pipeline.Config{
			BaseURL: cfg.Pipeline.BaseURL,
			APIKey:  cfg.Pipeline.APIKey,
			Timeout: cfg.Pipeline.Timeout,
		}, pipeline.DefaultStages(), logger)
		logger.Info("pipeline enabled", "base_url", cfg.Pipeline.BaseURL)
	} else {
		transformer = pipeline.NewPassthrough()
		logger.Info("pipeline disabled, drafts render as assembled")
	}

	// Create the PDF renderer
	renderer := render.NewPDFRenderer(render.Config{
		OutputDir:   cfg.Render.OutputDir,
		FontDir:     cfg.Render.FontDir,
		FontRegular: cfg.Render.FontRegular,
		FontBold:    cfg.Render.FontBold,
	}, logger)

	// Create HTTP handler
	handler := api.NewHandler(s, transformer, renderer, logger)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Create the retention sweeper for rendered contracts
	var sweeper *workers.RetentionSweeper
	if cfg.Retention.Enabled {
		sweeper = workers.NewRetentionSweeper(workers.RetentionConfig{
			Dir:      cfg.Render.OutputDir,
			MaxAge:   cfg.Retention.MaxAge,
			Interval: cfg.Retention.Interval,
		}, logger)
	}

	return &Server{
		config:     cfg,
		httpServer: httpServer,
		store:      s,
		sweeper:    sweeper,
		logger:     logger,
	}, nil
}

// Start starts the server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if s.sweeper != nil {
		s.sweeper.Start()
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server",
			"address", s.config.Server.Address())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		s.logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		return &ServerError{
			Op:       "Start",
			Err:      err,
			ExitCode: ExitHTTPServerError,
		}
	case <-ctx.Done():
		s.logger.Info("context cancelled")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	if s.sweeper != nil {
		s.sweeper.Stop()
	}

	if err := s.store.Close(); err != nil {
		s.logger.Error("database close error", "error", err)
	}

	s.logger.Info("shutdown complete")
	return nil
}

// =============================================================================
// Server Error
// =============================================================================

// ServerError wraps server lifecycle errors with an exit code.
type ServerError struct {
	Op       string
	Err      error
	ExitCode int
}

func (e *ServerError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ServerError) Unwrap() error {
	return e.Err
}
