package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"logsnap/internal/store"
)

// history reads the database directly so it works whether or not the daemon
// is up.
func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show metadata for recent refreshes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			st, err := store.Open(cfg)
			if err != nil {
				return fmt.Errorf("open line store: %w", err)
			}
			defer st.Close()

			history, err := st.RefreshHistory(cmd.Context(), limit)
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			if len(history) == 0 {
				fmt.Fprintln(stdout, "No refreshes recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(history))
			for _, meta := range history {
				rows = append(rows, []string{
					strconv.FormatInt(meta.ID, 10),
					meta.RefreshedAt.Local().Format(time.RFC3339),
					meta.FilePath,
					strconv.Itoa(meta.LineCount),
					strconv.Itoa(meta.MaxLineLength),
					fmt.Sprintf("%d+%d/%d", meta.Window.Offset, meta.Window.Length, meta.Window.TotalSize),
				})
			}
			fmt.Fprintln(stdout, renderTable(
				[]string{"ID", "Refreshed", "File", "Lines", "Max Line", "Window"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of refreshes to show")
	return cmd
}
