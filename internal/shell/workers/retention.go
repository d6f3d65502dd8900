// Package workers contains background workers for the contract service.
package workers

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// RetentionConfig configures the contract retention sweeper.
type RetentionConfig struct {
	// Dir is the directory holding rendered contract files.
	Dir string

	// MaxAge is how long a rendered contract is kept after creation.
	// Default: 30 days.
	MaxAge time.Duration

	// Interval is the time between sweep cycles.
	// Default: 1 hour.
	Interval time.Duration
}

// DefaultRetentionConfig returns the default configuration.
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		MaxAge:   30 * 24 * time.Hour,
		Interval: time.Hour,
	}
}

// RetentionSweeper periodically deletes rendered contract files older than
// the configured age. Generated PDFs are downloads, not a system of record;
// without a sweeper the output directory grows without bound.
type RetentionSweeper struct {
	config RetentionConfig
	logger *slog.Logger

	// Lifecycle management
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRetentionSweeper creates a new retention sweeper worker.
func NewRetentionSweeper(config RetentionConfig, logger *slog.Logger) *RetentionSweeper {
	if config.MaxAge == 0 {
		config.MaxAge = 30 * 24 * time.Hour
	}
	if config.Interval == 0 {
		config.Interval = time.Hour
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &RetentionSweeper{
		config: config,
		logger: logger.With("component", "retention_sweeper"),
	}
}

// Start begins the sweeper background goroutine.
func (s *RetentionSweeper) Start() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.wg.Add(1)
	go s.run()

	s.logger.Info("retention sweeper started",
		"dir", s.config.Dir,
		"max_age", s.config.MaxAge,
		"interval", s.config.Interval,
	)
}

// Stop gracefully stops the sweeper. It waits for an in-progress sweep
// to complete.
func (s *RetentionSweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info("retention sweeper stopped")
}

// run is the main loop that sweeps periodically.
func (s *RetentionSweeper) run() {
	defer s.wg.Done()

	// Run immediately on start
	s.runCycle()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runCycle()
		}
	}
}

// runCycle executes a single sweep over the output directory.
func (s *RetentionSweeper) runCycle() {
	removed, err := s.Sweep(time.Now())
	if err != nil {
		s.logger.Error("sweep failed", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Info("removed expired contracts", "count", removed)
	}
}

// Sweep deletes PDF files in the configured directory whose modification
// time is older than MaxAge relative to now. It returns the number of
// files removed. Non-PDF entries and subdirectories are left alone.
func (s *RetentionSweeper) Sweep(now time.Time) (int, error) {
	entries, err := os.ReadDir(s.config.Dir)
	if err != nil {
		// Nothing rendered yet.
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := now.Add(-s.config.MaxAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pdf") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(s.config.Dir, entry.Name())
		if err := os.Remove(path); err != nil {
			s.logger.Warn("failed to remove expired contract", "file", entry.Name(), "error", err)
			continue
		}
		removed++
	}

	return removed, nil
}

// SweepNow runs an immediate sweep. Useful after configuration changes or
// for manual triggering.
func (s *RetentionSweeper) SweepNow() (int, error) {
	return s.Sweep(time.Now())
}
