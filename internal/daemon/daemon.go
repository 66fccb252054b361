package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"logsnap/internal/config"
	"logsnap/internal/logging"
	"logsnap/internal/refresher"
	"logsnap/internal/scan"
	"logsnap/internal/store"
)

// Daemon owns the refresher lifecycle and enforces single-instance
// execution.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *store.Store
	refresher *refresher.Manager

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	State        string
	LastError    string
	LineCount    int
	RefreshedAt  time.Time
	Fraction     float64
	Interval     time.Duration
	DatabasePath string
	LockFilePath string
	PID          int
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, mgr *refresher.Manager, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || mgr == nil {
		return nil, errors.New("daemon requires config, store, and refresher")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "logsnapd.lock")
	return &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		store:     st,
		refresher: mgr,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock and launches the refresh loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another logsnap daemon instance is already running")
	}

	if err := d.refresher.Start(ctx); err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("start refresher: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("logsnap daemon started",
		logging.String("lock", d.lockPath),
		logging.String("database", d.store.Path()),
	)
	return nil
}

// Stop halts the refresh loop and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.refresher.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release lock failed",
			logging.Error(err),
			logging.String("lock", d.lockPath),
		)
	}
	d.running.Store(false)
	d.logger.Info("logsnap daemon stopped")
}

// Close releases resources; safe to call after Stop.
func (d *Daemon) Close() {
	d.Stop()
}

// RefreshNow runs one refresh cycle synchronously and returns the produced
// lines.
func (d *Daemon) RefreshNow(ctx context.Context) ([]scan.Line, error) {
	return d.refresher.RefreshNow(ctx)
}

// Snapshot returns the last stored snapshot without touching the
// filesystem.
func (d *Daemon) Snapshot() []scan.Line {
	return d.refresher.Snapshot()
}

// StoredLines reads the persisted generation from SQLite.
func (d *Daemon) StoredLines(ctx context.Context, limit int) ([]scan.Line, error) {
	return d.store.Lines(ctx, limit)
}

// NotifyConfigChanged forwards a reload request to the refresher.
func (d *Daemon) NotifyConfigChanged() {
	d.refresher.NotifyConfigChanged()
}

// Status reports current daemon state.
func (d *Daemon) Status() Status {
	summary := d.refresher.Status()
	return Status{
		Running:      d.running.Load(),
		State:        summary.State.String(),
		LastError:    summary.LastError,
		LineCount:    summary.LineCount,
		RefreshedAt:  summary.RefreshedAt,
		Fraction:     summary.Fraction,
		Interval:     summary.Interval,
		DatabasePath: d.store.Path(),
		LockFilePath: d.lockPath,
		PID:          os.Getpid(),
	}
}
