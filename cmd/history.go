package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/rally-cli/internal/adapters/render/scoreboard"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *app) *cobra.Command {
	var asJSON bool
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show finalized matches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summaries, err := app.service.History(cmd.Context())
			if err != nil {
				return err
			}
			if limit > 0 && len(summaries) > limit {
				summaries = summaries[:limit]
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}

			rendered, err := app.historyRenderer(summaries, scoreboard.RenderOptions{Now: app.now()})
			if err != nil {
				return fmt.Errorf("render history: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many matches (0 for all)")

	return cmd
}
