package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"logsnap/internal/ipc"
)

func newLinesCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var source string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "lines",
		Short: "Show the lines captured by the most recent refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			if source != "" && source != "snapshot" && source != "store" {
				return fmt.Errorf("invalid --source %q (expected snapshot or store)", source)
			}

			var resp *ipc.LinesResponse
			err := ctx.withClient(func(client *ipc.Client) error {
				var callErr error
				resp, callErr = client.Lines(ipc.LinesRequest{Limit: limit, Source: source})
				return callErr
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, resp.Lines)
			}

			stdout := cmd.OutOrStdout()
			if len(resp.Lines) == 0 {
				fmt.Fprintln(stdout, "No lines captured yet")
				return nil
			}

			// Tables for humans, one line per record for pipes.
			if shouldColorize(stdout) {
				rows := make([][]string, 0, len(resp.Lines))
				for _, line := range resp.Lines {
					rows = append(rows, []string{strconv.Itoa(line.Index), line.Text})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"#", "Line"},
					rows,
					[]columnAlignment{alignRight, alignLeft},
				))
				return nil
			}
			for _, line := range resp.Lines {
				fmt.Fprintf(stdout, "%d\t%s\n", line.Index, line.Text)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of lines to show (0 = all)")
	cmd.Flags().StringVar(&source, "source", "", "Line source: snapshot (in-memory, default) or store (SQLite)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit lines as JSON")
	return cmd
}
