package cli

import (
	"fmt"

	"github.com/alexanderramin/neurofit/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newProgressCmd(app *App) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show completed workouts, activity time and streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				userID = app.Config.UserID
			}
			p, err := app.Progress.GetProgress(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUserProgress(p))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User to report on (default from NEUROFIT_USER)")

	return cmd
}
