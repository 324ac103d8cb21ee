package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alexanderramin/neurofit/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newWorkoutCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workout",
		Aliases: []string{"w"},
		Short:   "Manage the workout library",
	}

	cmd.AddCommand(
		newWorkoutImportCmd(app),
		newWorkoutListCmd(app),
		newWorkoutShowCmd(app),
		newWorkoutRemoveCmd(app),
	)

	return cmd
}

func newWorkoutImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a workout from a JSON or YAML file",
		Long: `Import a workout definition. FILE is tried as given first and then
relative to the workouts directory (NEUROFIT_WORKOUTS_DIR).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveWorkoutPath(app.Config.WorkoutsDir, args[0])
			if err != nil {
				return err
			}
			w, err := app.Workouts.Import(cmd.Context(), path)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImported(w))
			return nil
		},
	}
}

func newWorkoutListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List imported workouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			workouts, err := app.Workouts.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWorkoutList(workouts))
			return nil
		},
	}
}

func newWorkoutShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a workout timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.Workouts.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWorkoutDetail(w))
			return nil
		},
	}
}

func newWorkoutRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Remove a workout (recorded sessions are kept)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Workouts.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed workout %s\n", args[0])
			return nil
		},
	}
}

// resolveWorkoutPath returns name if it exists, otherwise name inside dir.
func resolveWorkoutPath(dir, name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	if dir != "" && !filepath.IsAbs(name) {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("reading workout file: %w", err)
		}
	}
	return "", fmt.Errorf("workout file %q not found", name)
}
