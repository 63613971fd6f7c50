package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func Execute() error {
	return runRoot(newRootCmd())
}

// runRoot executes root and closes the wired storage afterwards, including
// when the command failed.
func runRoot(root *cobra.Command, app *app) (err error) {
	defer func() {
		if app == nil {
			return
		}
		if closeErr := app.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close storage: %w", closeErr)
		}
	}()

	return root.Execute()
}

// newRootCmd returns the command tree and the wired app. The app is nil when
// wiring failed, in which case every command except version reports the error.
func newRootCmd() (*cobra.Command, *app) {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "rally",
		Short:         "Score badminton-style racket matches from the terminal",
		Long:          "rally keeps score of live racket-sport matches: points per side, sets to a target with optional deuce, pause and resume, a bounded undo history, and a record of finalized matches.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.AddCommand(newVersionCmd())

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd, nil
	}

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if verbose {
			app.logLevel.Set(slog.LevelDebug)
		}
	}

	rootCmd.AddCommand(
		newMatchCmd(app),
		newHistoryCmd(app),
		newPlayCmd(app),
	)

	return rootCmd, app
}
