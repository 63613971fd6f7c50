package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/rally-cli/internal/adapters/render/scoreboard"
	"github.com/bnema/rally-cli/internal/application"
	"github.com/bnema/rally-cli/internal/domain"
	"github.com/spf13/cobra"
)

var errNotSaved = errors.New("action accepted but not saved")

func newMatchCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Start and score live matches",
	}

	cmd.AddCommand(
		newMatchStartCmd(app),
		newScoreActionCmd(app, "point <match-id> <side>", "Add a point for a side", application.ActionAddPoint),
		newScoreActionCmd(app, "remove-point <match-id> <side>", "Remove a point from a side", application.ActionRemovePoint),
		newScoreActionCmd(app, "advance <match-id>", "Confirm a won set and start the next one", application.ActionAdvanceSet),
		newScoreActionCmd(app, "undo <match-id>", "Revert the most recent scoring action", application.ActionUndo),
		newScoreActionCmd(app, "pause <match-id>", "Pause the match clock", application.ActionPause),
		newScoreActionCmd(app, "resume <match-id>", "Resume the match clock", application.ActionResume),
		newMatchFinalizeCmd(app),
		newMatchAbandonCmd(app),
		newMatchStatusCmd(app),
		newMatchListCmd(app),
	)

	return cmd
}

func newMatchStartCmd(app *app) *cobra.Command {
	var sideA, sideB string
	var doubles bool
	rules := app.config.Defaults

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new live match",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			participants := domain.Singles(domain.ParticipantID(sideA), domain.ParticipantID(sideB))
			if doubles {
				participants = domain.Doubles(domain.ParticipantID(sideA), domain.ParticipantID(sideB))
			}

			outcome, err := app.service.Start(cmd.Context(), application.StartMatchCommand{
				Participants: participants,
				Rules:        rules,
			})
			if err != nil {
				return err
			}

			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "started match %s\n", outcome.Session.MatchID); err != nil {
				return err
			}
			return writeOutcome(cmd, app, outcome)
		},
	}

	cmd.Flags().StringVar(&sideA, "side-a", "", "Player (or team, with --doubles) on side A")
	cmd.Flags().StringVar(&sideB, "side-b", "", "Player (or team, with --doubles) on side B")
	cmd.Flags().BoolVar(&doubles, "doubles", false, "Sides are teams instead of players")
	cmd.Flags().IntVar(&rules.TargetPoints, "target", rules.TargetPoints, "Points needed to win a set")
	cmd.Flags().IntVar(&rules.BestOfSets, "best-of", rules.BestOfSets, "Maximum number of sets (odd)")
	cmd.Flags().BoolVar(&rules.DeuceEnabled, "deuce", rules.DeuceEnabled, "Require a two-point lead at the target")
	_ = cmd.MarkFlagRequired("side-a")
	_ = cmd.MarkFlagRequired("side-b")

	return cmd
}

func newScoreActionCmd(app *app, use string, short string, action application.Action) *cobra.Command {
	positional := cobra.ExactArgs(1)
	if action.NeedsSide() {
		positional = cobra.ExactArgs(2)
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  positional,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := loadSession(cmd, app, args[0])
			if err != nil {
				return err
			}

			scoreCmd := application.ScoreCommand{MatchID: session.MatchID, Action: action}
			if action.NeedsSide() {
				side, err := resolveSide(session.Participants, args[1])
				if err != nil {
					return err
				}
				scoreCmd.Side = side
			}

			outcome, err := app.service.Execute(cmd.Context(), session, scoreCmd)
			if err != nil {
				return err
			}

			return writeOutcome(cmd, app, outcome)
		},
	}
}

func newMatchFinalizeCmd(app *app) *cobra.Command {
	var allowUndetermined bool

	cmd := &cobra.Command{
		Use:   "finalize <match-id>",
		Short: "Record the match result and close the live match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.service.ResolveID(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			summary, err := app.service.FinalizeByID(cmd.Context(), application.FinalizeCommand{
				MatchID:           id,
				AllowUndetermined: allowUndetermined,
			})
			if err != nil {
				if errors.Is(err, domain.ErrUndeterminedResult) {
					return fmt.Errorf("%w (pass --allow-undetermined to record it anyway)", err)
				}
				return err
			}

			rendered, err := app.historyRenderer([]domain.MatchSummary{summary}, scoreboard.RenderOptions{Now: app.now()})
			if err != nil {
				return fmt.Errorf("render summary: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&allowUndetermined, "allow-undetermined", false, "Record the match even if neither side leads on sets")

	return cmd
}

func newMatchAbandonCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "abandon <match-id>",
		Short: "Drop a live match without recording a result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.service.ResolveID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := app.service.Abandon(cmd.Context(), id); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "abandoned match %s\n", id)
			return err
		},
	}
}

func newMatchStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status <match-id>",
		Short: "Show the scoreboard of a live match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.service.ResolveID(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			status, err := app.service.GetStatus(cmd.Context(), id)
			if err != nil {
				return err
			}

			return writeStatusesOutput(cmd, app, []application.MatchStatus{status}, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newMatchListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show all live matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := app.service.ListLive(cmd.Context())
			if err != nil {
				return err
			}

			return writeStatusesOutput(cmd, app, statuses, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func loadSession(cmd *cobra.Command, app *app, raw string) (domain.LiveMatchSession, error) {
	id, err := app.service.ResolveID(cmd.Context(), raw)
	if err != nil {
		return domain.LiveMatchSession{}, err
	}

	return app.service.Load(cmd.Context(), id)
}

// resolveSide accepts a participant name or a side label (a, b, side_a,
// side_b). Names win, so a player called "b" on side A scores for side A.
func resolveSide(participants domain.Participants, raw string) (domain.Side, error) {
	name := strings.TrimSpace(raw)
	switch {
	case strings.EqualFold(name, string(participants.SideA)):
		return domain.SideA, nil
	case strings.EqualFold(name, string(participants.SideB)):
		return domain.SideB, nil
	}

	return domain.ParseSide(raw)
}

// writeOutcome prints the scoreboard after an accepted action. A save failure
// is an error here: the process exits and the in-memory state is lost.
func writeOutcome(cmd *cobra.Command, app *app, outcome application.Outcome) error {
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), app.boardRenderer(app.service.StatusOf(outcome.Session))); err != nil {
		return err
	}

	if outcome.PersistErr != nil {
		return fmt.Errorf("%w: %w", errNotSaved, outcome.PersistErr)
	}
	return nil
}

func writeStatusesOutput(cmd *cobra.Command, app *app, statuses []application.MatchStatus, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	rendered, err := app.statusRenderer(statuses, scoreboard.RenderOptions{Now: app.now()})
	if err != nil {
		return fmt.Errorf("render status: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
