package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"logsnap/internal/daemonctl"
	"logsnap/internal/ipc"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	var startLogLevel string
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the logsnap daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.EnsureStarted(
				ctx.socketPath(),
				exe,
				daemonLaunchOptions(ctx, startLogLevel),
				10*time.Second,
			)
			if err != nil {
				return err
			}

			switch result.State {
			case daemonctl.StartStateStarted:
				fmt.Fprintf(stdout, "Daemon started (pid %d)\n", result.PID)
			case daemonctl.StartStateAlreadyRunning:
				fmt.Fprintln(stdout, "Daemon already running")
			}
			return nil
		},
	}
	startCmd.Flags().StringVar(&startLogLevel, "log-level", "", "Log level for the launched daemon (debug, info, warn, error)")

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the logsnap daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			result, err := daemonctl.Stop(ctx.socketPath(), 5*time.Second)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if result.PID > 0 {
				fmt.Fprintf(stdout, "Stopping daemon process (pid %d)...\n", result.PID)
			}
			fmt.Fprintln(stdout, "Daemon stopped")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and snapshot status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			client, err := ctx.dialClient()
			if err != nil {
				for _, line := range renderSectionHeader("Daemon Status", colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout, renderStatusLine("Daemon", statusWarn, "not running", colorize))
				return nil
			}
			defer client.Close()

			statusResp, err := client.Status()
			if err != nil {
				return fmt.Errorf("daemon status: %w", err)
			}

			for _, line := range renderSectionHeader("Daemon Status", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range statusLines(statusResp, colorize) {
				fmt.Fprintln(stdout, line)
			}
			return nil
		},
	}

	return []*cobra.Command{startCmd, stopCmd, statusCmd}
}

func statusLines(resp *ipc.StatusResponse, colorize bool) []string {
	lines := make([]string, 0, 8)

	runKind := statusOK
	runText := fmt.Sprintf("running (pid %d)", resp.PID)
	if !resp.Running {
		runKind = statusWarn
		runText = "not running"
	}
	lines = append(lines, renderStatusLine("Daemon", runKind, runText, colorize))
	lines = append(lines, renderStatusLine("State", statusInfo, resp.State, colorize))

	if resp.LastError != "" {
		lines = append(lines, renderStatusLine("Last error", statusError, resp.LastError, colorize))
	} else {
		lines = append(lines, renderStatusLine("Last error", statusOK, "none", colorize))
	}

	refreshed := "never"
	if !resp.RefreshedAt.IsZero() {
		refreshed = resp.RefreshedAt.Local().Format(time.RFC3339)
	}
	lines = append(lines, renderStatusLine("Snapshot lines", statusInfo, fmt.Sprintf("%d", resp.LineCount), colorize))
	lines = append(lines, renderStatusLine("Refreshed at", statusInfo, refreshed, colorize))
	lines = append(lines, renderStatusLine("Fraction", statusInfo, fmt.Sprintf("%.2f", resp.Fraction), colorize))
	lines = append(lines, renderStatusLine("Interval", statusInfo, (time.Duration(resp.IntervalSecs)*time.Second).String(), colorize))
	lines = append(lines, renderStatusLine("Database", statusInfo, resp.DatabasePath, colorize))
	return lines
}

func daemonExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	return exe, nil
}

func daemonLaunchOptions(ctx *commandContext, logLevel string) daemonctl.LaunchOptions {
	opts := daemonctl.LaunchOptions{LogLevel: logLevel}
	if ctx.socketFlag != nil {
		if socket := *ctx.socketFlag; socket != "" {
			opts.SocketPath = socket
		}
	}
	opts.ConfigPath = ctx.configPath()
	return opts
}
