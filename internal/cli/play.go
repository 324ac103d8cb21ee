package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/neurofit/internal/cli/formatter"
	"github.com/alexanderramin/neurofit/internal/domain"
	"github.com/alexanderramin/neurofit/internal/player"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// reportEvery is the session-time interval between headless status lines.
const reportEvery = 60.0

type playOptions struct {
	rate       float64
	userID     string
	headless   bool
	noFeedback bool
	ratings    ratingsValue
}

func runPlay(cmd *cobra.Command, app *App, workoutID string, opts playOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	w, err := app.Workouts.GetByID(ctx, workoutID)
	if err != nil {
		return err
	}

	headless := opts.headless || !app.interactive()
	logger := app.logger()
	if !headless && !app.Config.LogCalls {
		// Log lines would tear the TUI; warnings are shown in the view instead.
		logger = slog.New(slog.DiscardHandler)
	}

	p, err := player.New(*w, sessionPlayerOptions(ctx, app, opts.userID, logger)...)
	if err != nil {
		return err
	}
	if err := p.SetPlaybackRate(opts.rate); err != nil {
		return err
	}
	awaitPersist := sync.OnceValue(func() error { return <-p.Persisted() })

	interval := app.Config.TickInterval
	if headless {
		err = playHeadless(ctx, out, p, interval)
	} else {
		err = playInteractive(ctx, out, p, interval, awaitPersist)
	}
	if err != nil {
		return err
	}

	result, ok := p.Result()
	if !ok {
		s := p.Snapshot()
		fmt.Fprintf(out, "Session stopped at %s of %s. Nothing was recorded.\n",
			formatter.FormatClock(s.Elapsed), formatter.FormatClock(s.TotalDuration))
		return nil
	}

	persistErr := awaitPersist()
	fmt.Fprint(out, formatter.FormatCompletion(result, persistErr))
	fmt.Fprintf(out, "%s %s\n", formatter.Dim("session"), result.SessionID)

	return collectFeedback(ctx, out, app, p, opts, headless)
}

func sessionPlayerOptions(ctx context.Context, app *App, userID string, logger *slog.Logger) []player.Option {
	opts := []player.Option{
		player.WithContext(ctx),
		player.WithUserID(userID),
		player.WithLogger(logger),
		player.WithCaloriesPerMinute(app.Config.CaloriesPerMinute),
		player.WithPersistTimeout(app.Config.PersistTimeout),
	}
	if app.Progress != nil {
		opts = append(opts, player.WithProgressStore(app.Progress))
	}
	if app.Feedback != nil {
		opts = append(opts, player.WithFeedbackSink(app.Feedback))
	}
	return append(opts, app.PlayerOptions...)
}

// collectFeedback submits preset ratings or, on a terminal, asks for them.
// A failed submission is reported but does not fail the command.
func collectFeedback(ctx context.Context, out io.Writer, app *App, p *player.Player, opts playOptions, headless bool) error {
	if opts.noFeedback {
		return nil
	}

	var ratings domain.FeedbackRatings
	switch {
	case opts.ratings.ratings != nil:
		ratings = *opts.ratings.ratings
	case !headless && app.interactive():
		r, ok, err := runFeedbackForm(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		ratings = r
	default:
		return nil
	}

	if err := p.SubmitFeedback(ctx, ratings); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return err
		}
		fmt.Fprintln(out, formatter.StyleWarn.Render("! neurofeedback not saved: "+err.Error()))
		return nil
	}
	fmt.Fprintln(out, formatter.StyleGood.Render("✔")+" Neurofeedback recorded")
	return nil
}

// playHeadless starts the session immediately and reports until it completes
// or ctx is cancelled.
func playHeadless(ctx context.Context, out io.Writer, p *player.Player, interval time.Duration) error {
	if err := p.Start(); err != nil {
		return err
	}
	w := p.Workout()
	fmt.Fprintf(out, "%s %s  %s\n", formatter.Header("▶"), formatter.Bold(w.Name), formatter.Dim(p.SessionID()))

	rep := newHeadlessReporter(out, w)
	rep.observe(p.Snapshot())
	return player.NewDriver(p, interval, rep.observe).Run(ctx)
}

// headlessReporter prints a status line whenever the phase or exercise
// changes and once per reportEvery session seconds. It is only called from
// the driver goroutine.
type headlessReporter struct {
	out     io.Writer
	workout domain.WorkoutDefinition

	started  bool
	phase    domain.Phase
	exercise string
	bucket   int
}

func newHeadlessReporter(out io.Writer, w domain.WorkoutDefinition) *headlessReporter {
	return &headlessReporter{out: out, workout: w}
}

func (r *headlessReporter) observe(s domain.SessionState) {
	bucket := int(s.Elapsed / reportEvery)
	if r.started && s.Phase == r.phase && s.ActiveExerciseID == r.exercise && bucket == r.bucket {
		return
	}
	r.started = true
	r.phase, r.exercise, r.bucket = s.Phase, s.ActiveExerciseID, bucket

	name := ""
	if ex, ok := r.workout.ExerciseByID(s.ActiveExerciseID); ok {
		name = ex.Name
	}
	fmt.Fprintln(r.out, formatter.FormatStateLine(s, name))
}

// playInteractive runs the driver and the TUI side by side. Quitting the TUI
// stops the driver; completion leaves the TUI open until the user quits.
func playInteractive(ctx context.Context, out io.Writer, p *player.Player, interval time.Duration, awaitPersist func() error) error {
	if err := p.ShowInstructions(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	states := make(chan domain.SessionState, 1)
	drv := player.NewDriver(p, interval, func(s domain.SessionState) {
		publishLatest(states, s)
	})

	g, gctx := errgroup.WithContext(ctx)
	prog := tea.NewProgram(newPlayerModel(p, states, awaitPersist),
		tea.WithContext(gctx),
		tea.WithOutput(out),
	)
	g.Go(func() error {
		defer close(states)
		return drv.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("running player view: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// publishLatest replaces any unread state so the view only ever sees the
// newest one and the driver never blocks on a slow renderer.
func publishLatest(ch chan domain.SessionState, s domain.SessionState) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
