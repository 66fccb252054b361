// Package daemonrun hosts the logsnapd process runtime: signal handling,
// run logs, pid file, config watching, and component wiring.
package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"logsnap/internal/config"
	"logsnap/internal/daemon"
	"logsnap/internal/ipc"
	"logsnap/internal/logging"
	"logsnap/internal/refresher"
	"logsnap/internal/snapshot"
	"logsnap/internal/store"
	"logsnap/internal/tailer"
)

// Options configures daemon process runtime behavior.
type Options struct {
	ConfigPath string
	LogLevel   string
	SocketPath string
}

func (o Options) socketPath(cfg *config.Config) string {
	if o.SocketPath != "" {
		return o.SocketPath
	}
	return cfg.SocketPath()
}

// Run starts the logsnap daemon runtime loop and blocks until shutdown.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runID := uuid.NewString()
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("logsnapd-%s.log", runID))

	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logging.CleanupOldRunLogs(logger, cfg.Paths.LogDir, "logsnapd-*.log", cfg.Logging.RetentionDays, logPath)

	pidPath := filepath.Join(cfg.Paths.DataDir, "logsnapd.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open line store", logging.Error(err))
		return err
	}
	defer st.Close()

	reload := func() (*config.Config, error) {
		next, _, _, err := config.Load(opts.ConfigPath)
		return next, err
	}
	mgr := refresher.New(cfg, tailer.OSFileSource{}, snapshot.NewStore(), st, logger, reload)

	d, err := daemon.New(cfg, st, mgr, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	ipcServer, err := ipc.NewServer(signalCtx, opts.socketPath(cfg), d, logger, cancel)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	stopWatch := watchConfig(signalCtx, opts.ConfigPath, d, logger)
	defer stopWatch()

	hangup := make(chan os.Signal, 1)
	signal.Notify(hangup, syscall.SIGHUP)
	defer signal.Stop(hangup)
	go func() {
		for {
			select {
			case <-signalCtx.Done():
				return
			case <-hangup:
				logger.Info("SIGHUP received, reloading configuration")
				d.NotifyConfigChanged()
			}
		}
	}()

	if err := d.Start(signalCtx); err != nil {
		return err
	}

	logger.Info("logsnapd ready",
		logging.String("run_id", runID),
		logging.String("socket", opts.socketPath(cfg)),
		logging.String(logging.FieldPath, cfg.Watch.LogDir),
		logging.Duration(logging.FieldInterval, time.Duration(cfg.Tail.RefreshIntervalSeconds)*time.Second),
	)

	<-signalCtx.Done()
	logger.Info("logsnapd shutting down")
	d.Stop()
	return nil
}

// watchConfig triggers a daemon reload when the config file changes on
// disk. Editors replace rather than rewrite files, so watch the parent
// directory and filter events by name.
func watchConfig(ctx context.Context, configPath string, d *daemon.Daemon, logger *slog.Logger) func() {
	resolved, _, err := resolveWatchedConfig(configPath)
	if err != nil || resolved == "" {
		return func() {}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("config watch unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "reload with SIGHUP or `logsnap reload` instead"),
		)
		return func() {}
	}
	if err := watcher.Add(filepath.Dir(resolved)); err != nil {
		logger.Warn("config watch unavailable",
			logging.Error(err),
			logging.String(logging.FieldPath, resolved),
		)
		_ = watcher.Close()
		return func() {}
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != resolved {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				logger.Info("config file changed, reloading", logging.String(logging.FieldPath, resolved))
				d.NotifyConfigChanged()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watch error", logging.Error(err))
			}
		}
	}()

	return func() { _ = watcher.Close() }
}

func resolveWatchedConfig(path string) (string, bool, error) {
	if path != "" {
		expanded, err := config.ExpandPath(path)
		return expanded, true, err
	}
	defaultPath, err := config.DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if _, statErr := os.Stat(defaultPath); statErr != nil {
		return "", false, nil
	}
	return defaultPath, true, nil
}

func writePIDFile(path string) error {
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644)
}
