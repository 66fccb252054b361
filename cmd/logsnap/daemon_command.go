package main

import (
	"github.com/spf13/cobra"

	"logsnap/internal/daemonrun"
)

func newDaemonRunCommand(ctx *commandContext) *cobra.Command {
	var logLevel string
	cmd := &cobra.Command{
		Use:          "daemon",
		Short:        "Run the logsnap daemon in the foreground (internal)",
		Hidden:       true,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var socket string
			if ctx.socketFlag != nil {
				socket = *ctx.socketFlag
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{
				ConfigPath: ctx.configPath(),
				LogLevel:   logLevel,
				SocketPath: socket,
			})
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	return cmd
}
