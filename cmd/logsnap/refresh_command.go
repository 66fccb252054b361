package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"logsnap/internal/ipc"
)

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Trigger an immediate refresh of the log snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp *ipc.RefreshResponse
			err := ctx.withClient(func(client *ipc.Client) error {
				var callErr error
				resp, callErr = client.Refresh()
				return callErr
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Refreshed: %d lines captured\n", len(resp.Lines))
			return nil
		},
	}
}
