package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"logsnap/internal/ipc"
)

func newReloadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Ask the daemon to re-read its configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := ctx.withClient(func(client *ipc.Client) error {
				_, callErr := client.Reload()
				return callErr
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reload requested")
			return nil
		},
	}
}
