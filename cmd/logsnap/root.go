package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var socketFlag string
	var configFlag string

	ctx := newCommandContext(&socketFlag, &configFlag)

	rootCmd := &cobra.Command{
		Use:           "logsnap",
		Short:         "Logsnap CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&socketFlag, "socket", "", "Path to the logsnap daemon socket")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	for _, cmd := range newDaemonCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(newDaemonRunCommand(ctx))
	rootCmd.AddCommand(newLinesCommand(ctx))
	rootCmd.AddCommand(newRefreshCommand(ctx))
	rootCmd.AddCommand(newReloadCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
