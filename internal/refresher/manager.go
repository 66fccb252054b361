package refresher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"logsnap/internal/config"
	"logsnap/internal/logging"
	"logsnap/internal/snapshot"
	"logsnap/internal/store"
	"logsnap/internal/tailer"
)

// State describes where the scheduler is in its lifecycle.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting down"
	default:
		return "unknown"
	}
}

// ConfigSource re-reads configuration when a reload is requested.
type ConfigSource func() (*config.Config, error)

// Manager owns the refresh loop and the state it publishes.
type Manager struct {
	source     tailer.FileSource
	snapshot   *snapshot.Store
	store      *store.Store
	logger     *slog.Logger
	loadConfig ConfigSource

	// refreshMu serializes refresh execution: the loop and synchronous
	// RefreshNow callers never overlap.
	refreshMu sync.Mutex

	mu       sync.Mutex
	cfg      *config.Config
	state    State
	lastErr  error
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopping bool

	wake   chan struct{}
	reload chan struct{}
}

// New constructs a Manager. loadConfig may be nil, in which case reload
// signals keep the current configuration.
func New(cfg *config.Config, source tailer.FileSource, snap *snapshot.Store, st *store.Store, logger *slog.Logger, loadConfig ConfigSource) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		source:     source,
		snapshot:   snap,
		store:      st,
		logger:     logging.NewComponentLogger(logger, "refresher"),
		loadConfig: loadConfig,
		cfg:        cfg,
		wake:       make(chan struct{}, 1),
		reload:     make(chan struct{}, 1),
	}
}

// Start launches the background refresh loop. It performs one immediate
// refresh so the snapshot is populated without waiting a full interval.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.stopping {
		m.mu.Unlock()
		return errors.New("refresher already shut down")
	}
	if m.running {
		m.mu.Unlock()
		return errors.New("refresher already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	go m.run(runCtx)
	return nil
}

// Stop requests shutdown and waits for the loop to exit. An in-flight
// refresh runs to completion. Stop is terminal; the Manager cannot be
// restarted afterwards.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.stopping = true
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.stopping = true
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

// Wake triggers a refresh on the loop without waiting for the interval.
func (m *Manager) Wake() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// NotifyConfigChanged asks the loop to reload configuration before its next
// tick. A refresh already in progress is never interrupted.
func (m *Manager) NotifyConfigChanged() {
	select {
	case m.reload <- struct{}{}:
	default:
	}
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()
	defer m.setState(StateShuttingDown)

	if _, err := m.runTick(ctx); err != nil {
		m.reportTickError(err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.reload:
			m.applyConfigReload()
			continue
		case <-m.wake:
		case <-time.After(m.interval()):
		}

		// Shutdown wins over a pending tick.
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, err := m.runTick(ctx); err != nil {
			m.reportTickError(err)
		}
	}
}

func (m *Manager) applyConfigReload() {
	if m.loadConfig == nil {
		return
	}
	cfg, err := m.loadConfig()
	if err != nil {
		m.logger.Warn("config reload failed; keeping previous configuration",
			logging.Error(err),
			logging.String(logging.FieldEventType, "config_reload_failed"),
			logging.String(logging.FieldErrorHint, "fix the config file and reload again"),
		)
		return
	}
	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
	m.logger.Info("configuration reloaded",
		logging.Float64(logging.FieldFraction, cfg.Tail.Fraction),
		logging.Duration(logging.FieldInterval, time.Duration(cfg.Tail.RefreshIntervalSeconds)*time.Second),
	)
}

func (m *Manager) interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Duration(m.cfg.Tail.RefreshIntervalSeconds) * time.Second
}

func (m *Manager) currentConfig() *config.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

func (m *Manager) setState(state State) {
	m.mu.Lock()
	// ShuttingDown is final.
	if m.state != StateShuttingDown {
		m.state = state
	}
	m.mu.Unlock()
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func (m *Manager) reportTickError(err error) {
	m.logger.Error("refresh abandoned for this tick",
		logging.Error(err),
		logging.String(logging.FieldEventType, "refresh_failed"),
		logging.String(logging.FieldErrorHint, "verify the watched log file and database are reachable"),
	)
}
