// Package daemonctl orchestrates logsnapd process lifecycle from the CLI:
// launching a detached daemon, waiting for its socket, and graceful stop.
package daemonctl

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"logsnap/internal/ipc"
)

// ErrDaemonNotRunning reports that no daemon answers on the socket.
var ErrDaemonNotRunning = errors.New("daemon is not running")

// LaunchOptions controls daemon process launch behavior.
type LaunchOptions struct {
	SocketPath string
	ConfigPath string
	LogLevel   string
}

type StartState string

const (
	StartStateStarted        StartState = "started"
	StartStateAlreadyRunning StartState = "already_running"
)

// StartResult captures daemon start orchestration state.
type StartResult struct {
	State    StartState
	Launched bool
	PID      int
}

// StopResult captures daemon stop orchestration state.
type StopResult struct {
	Acknowledged bool
	PID          int
}

// Launch starts a detached daemon process using the hidden `daemon`
// subcommand of the given executable.
func Launch(executablePath string, opts LaunchOptions) error {
	if strings.TrimSpace(executablePath) == "" {
		return fmt.Errorf("resolve executable: executable path is empty")
	}

	args := []string{"daemon"}
	if socket := strings.TrimSpace(opts.SocketPath); socket != "" {
		args = append(args, "--socket", socket)
	}
	if cfg := strings.TrimSpace(opts.ConfigPath); cfg != "" {
		args = append(args, "--config", cfg)
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		args = append(args, "--log-level", level)
	}

	proc := exec.Command(executablePath, args...)
	if err := proc.Start(); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}
	return proc.Process.Release()
}

// WaitForClient waits for IPC socket availability and returns a connected client.
func WaitForClient(socketPath string, timeout time.Duration) (*ipc.Client, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		client, err := ipc.Dial(socketPath)
		if err == nil {
			return client, nil
		}
		lastErr = err
		time.Sleep(200 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for daemon")
	}
	return nil, fmt.Errorf("daemon failed to start: %w", lastErr)
}

// EnsureStarted launches the daemon if needed and returns the resulting state.
func EnsureStarted(socketPath, executablePath string, opts LaunchOptions, waitTimeout time.Duration) (StartResult, error) {
	client, err := ipc.Dial(socketPath)
	launched := false
	if err != nil {
		if launchErr := Launch(executablePath, opts); launchErr != nil {
			return StartResult{}, launchErr
		}
		client, err = WaitForClient(socketPath, waitTimeout)
		if err != nil {
			return StartResult{}, err
		}
		launched = true
	}
	defer client.Close()

	pong, pingErr := client.Ping()
	if pingErr != nil {
		return StartResult{}, fmt.Errorf("daemon ping: %w", pingErr)
	}

	state := StartStateAlreadyRunning
	if launched {
		state = StartStateStarted
	}
	return StartResult{State: state, Launched: launched, PID: pong.PID}, nil
}

// Stop asks a running daemon to shut down and waits for the socket to
// disappear. Returns ErrDaemonNotRunning when the socket is unreachable.
func Stop(socketPath string, timeout time.Duration) (StopResult, error) {
	client, err := ipc.Dial(socketPath)
	if err != nil {
		return StopResult{}, ErrDaemonNotRunning
	}

	pid := 0
	if pong, pingErr := client.Ping(); pingErr == nil {
		pid = pong.PID
	}

	resp, stopErr := client.Stop()
	_ = client.Close()
	if stopErr != nil {
		return StopResult{PID: pid}, fmt.Errorf("stop daemon: %w", stopErr)
	}

	if err := WaitForShutdown(socketPath, timeout); err != nil {
		return StopResult{Acknowledged: resp.Stopping, PID: pid}, err
	}
	return StopResult{Acknowledged: resp.Stopping, PID: pid}, nil
}

// WaitForShutdown waits for daemon IPC to disappear.
func WaitForShutdown(socketPath string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		client, err := ipc.Dial(socketPath)
		if err != nil {
			return nil
		}
		_ = client.Close()
		lastErr = fmt.Errorf("daemon still running")
		time.Sleep(200 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("timeout waiting for shutdown")
	}
	return fmt.Errorf("daemon did not stop: %w", lastErr)
}

// ProcessInfo reports whether daemon IPC is reachable and the daemon PID.
func ProcessInfo(socketPath string) (bool, int, error) {
	client, err := ipc.Dial(socketPath)
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, os.ErrNotExist) {
			return false, 0, nil
		}
		return false, 0, nil
	}
	defer client.Close()
	pong, pingErr := client.Ping()
	if pingErr != nil {
		return true, 0, pingErr
	}
	return true, pong.PID, nil
}
