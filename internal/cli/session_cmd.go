package cli

import (
	"fmt"

	"github.com/alexanderramin/neurofit/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"s"},
		Short:   "Play workouts and review recorded sessions",
	}

	cmd.AddCommand(
		newSessionPlayCmd(app),
		newSessionListCmd(app),
		newSessionShowCmd(app),
	)

	return cmd
}

func newSessionPlayCmd(app *App) *cobra.Command {
	opts := playOptions{rate: 1}

	cmd := &cobra.Command{
		Use:   "play WORKOUT_ID",
		Short: "Play a workout session",
		Long: `Play a workout session in the terminal. Without a terminal, or with
--headless, the session starts immediately and prints one status line per
exercise change and per session minute.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.userID == "" {
				opts.userID = app.Config.UserID
			}
			return runPlay(cmd, app, args[0], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.rate, "rate", 1, "Playback rate (virtual seconds per wall second)")
	cmd.Flags().StringVar(&opts.userID, "user", "", "User the session is recorded for (default from NEUROFIT_USER)")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "Print status lines instead of the interactive player")
	cmd.Flags().BoolVar(&opts.noFeedback, "no-feedback", false, "Skip the post-session neurofeedback form")
	cmd.Flags().Var(&opts.ratings, "ratings", "Submit feedback without the form: exertion,cognitive,balance,coordination[,notes]")

	return cmd
}

func newSessionListCmd(app *App) *cobra.Command {
	var userID string
	var days int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if userID == "" {
				userID = app.Config.UserID
			}

			results, err := app.Progress.ListSessions(ctx, userID, days)
			if err != nil {
				return err
			}

			workouts, err := app.Workouts.List(ctx)
			if err != nil {
				return err
			}
			names := make(map[string]string, len(workouts))
			for _, w := range workouts {
				names[w.ID] = w.Name
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessionList(results, names))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User to list sessions for (default from NEUROFIT_USER)")
	cmd.Flags().IntVar(&days, "days", 7, "Number of recent days to show (0 for all)")

	return cmd
}

func newSessionShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show SESSION_ID",
		Short: "Show a recorded session with its neurofeedback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := app.Progress.GetSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessionResult(detail.Result, detail.Workout, detail.Feedback))
			return nil
		},
	}
}
