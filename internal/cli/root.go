package cli

import (
	"log/slog"

	"github.com/alexanderramin/neurofit/internal/config"
	"github.com/alexanderramin/neurofit/internal/player"
	"github.com/alexanderramin/neurofit/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Workouts service.WorkoutService
	Progress service.ProgressService
	Feedback service.FeedbackService

	Config config.Config
	Logger *slog.Logger

	// IsInteractive reports whether stdin is a terminal. Nil means never,
	// which forces headless playback and skips the feedback form.
	IsInteractive func() bool

	// PlayerOptions are appended after the options derived from Config.
	PlayerOptions []player.Option
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

// NewRootCmd creates the top-level "neurofit" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "neurofit",
		Short:         "Timed neuro-motor workout sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newWorkoutCmd(app),
		newSessionCmd(app),
		newProgressCmd(app),
	)

	return root
}
