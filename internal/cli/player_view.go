package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/neurofit/internal/cli/formatter"
	"github.com/alexanderramin/neurofit/internal/domain"
	"github.com/alexanderramin/neurofit/internal/player"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	seekStep        = 15.0
	defaultViewWide = 60
	maxBarWidth     = 72
)

// playbackRates are the steps offered by the faster/slower keys.
var playbackRates = []float64{0.5, 1, 1.5, 2, 4, 8}

type stateMsg struct{ state domain.SessionState }

type persistedMsg struct{ err error }

// playerKeyMap satisfies help.KeyMap.
type playerKeyMap struct {
	Toggle  key.Binding
	Next    key.Binding
	Prev    key.Binding
	Forward key.Binding
	Back    key.Binding
	Faster  key.Binding
	Slower  key.Binding
	Retry   key.Binding
	Quit    key.Binding
}

func newPlayerKeyMap() playerKeyMap {
	return playerKeyMap{
		Toggle:  key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "start/pause")),
		Next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		Prev:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		Forward: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "+15s")),
		Back:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "-15s")),
		Faster:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
		Slower:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "slower")),
		Retry:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry save"), key.WithDisabled()),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k playerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Next, k.Prev, k.Forward, k.Back, k.Faster, k.Slower, k.Retry, k.Quit}
}

func (k playerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Quit},
		{k.Next, k.Prev, k.Forward, k.Back},
		{k.Faster, k.Slower, k.Retry},
	}
}

// playerModel renders one session. It reads state pushed by the driver and
// calls the player directly for controls.
type playerModel struct {
	player       *player.Player
	workout      domain.WorkoutDefinition
	states       <-chan domain.SessionState
	awaitPersist func() error

	state domain.SessionState
	keys  playerKeyMap
	bar   progress.Model
	help  help.Model

	notice       string
	awaitingSave bool
	persistDone  bool
	persistErr   error
	retrying     bool
	quitting     bool
}

func newPlayerModel(p *player.Player, states <-chan domain.SessionState, awaitPersist func() error) playerModel {
	bar := progress.New(
		progress.WithSolidFill(string(formatter.ColorGood)),
		progress.WithoutPercentage(),
		progress.WithWidth(defaultViewWide),
	)
	return playerModel{
		player:       p,
		workout:      p.Workout(),
		states:       states,
		awaitPersist: awaitPersist,
		state:        p.Snapshot(),
		keys:         newPlayerKeyMap(),
		bar:          bar,
		help:         help.New(),
	}
}

func waitForState(ch <-chan domain.SessionState) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg{state: s}
	}
}

func waitForPersist(await func() error) tea.Cmd {
	return func() tea.Msg {
		return persistedMsg{err: await()}
	}
}

func retryPersist(p *player.Player) tea.Cmd {
	return func() tea.Msg {
		return persistedMsg{err: p.RetryPersist(context.Background())}
	}
}

func (m playerModel) Init() tea.Cmd {
	return waitForState(m.states)
}

func (m playerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-4, 10), maxBarWidth)
		m.help.Width = msg.Width
		return m, nil

	case stateMsg:
		m.state = msg.state
		done := m.watchCompletion()
		return m, tea.Batch(waitForState(m.states), done)

	case persistedMsg:
		m.persistDone = true
		m.retrying = false
		m.persistErr = msg.err
		m.state = m.player.Snapshot()
		m.keys.Retry.SetEnabled(msg.err != nil)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m playerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Retry) {
		if !m.persistDone || m.persistErr == nil || m.retrying {
			return m, nil
		}
		m.retrying = true
		m.notice = ""
		return m, retryPersist(m.player)
	}

	var err error
	switch {
	case key.Matches(msg, m.keys.Toggle):
		switch m.state.Phase {
		case domain.PhaseIdle, domain.PhaseInstructions:
			err = m.player.Start()
		case domain.PhaseCompleted:
			return m, nil
		default:
			err = m.player.TogglePause()
		}
	case key.Matches(msg, m.keys.Next):
		err = m.player.SkipNext()
	case key.Matches(msg, m.keys.Prev):
		err = m.player.SkipPrevious()
	case key.Matches(msg, m.keys.Forward):
		err = m.player.Seek(m.state.Elapsed + seekStep)
	case key.Matches(msg, m.keys.Back):
		err = m.player.Seek(m.state.Elapsed - seekStep)
	case key.Matches(msg, m.keys.Faster):
		err = m.player.SetPlaybackRate(stepRate(m.state.PlaybackRate, 1))
	case key.Matches(msg, m.keys.Slower):
		err = m.player.SetPlaybackRate(stepRate(m.state.PlaybackRate, -1))
	default:
		return m, nil
	}

	m.notice = ""
	if err != nil {
		m.notice = err.Error()
	}
	m.state = m.player.Snapshot()
	done := m.watchCompletion()
	return m, done
}

// watchCompletion starts waiting for the persistence outcome the first time
// the session is seen completed.
func (m *playerModel) watchCompletion() tea.Cmd {
	if !m.state.Completed || m.awaitingSave {
		return nil
	}
	m.awaitingSave = true
	return waitForPersist(m.awaitPersist)
}

// stepRate returns the neighbouring rate in playbackRates. Rates between
// steps snap to the nearest step in the requested direction.
func stepRate(current float64, dir int) float64 {
	i := sort.SearchFloat64s(playbackRates, current)
	if dir > 0 {
		if i < len(playbackRates) && playbackRates[i] == current {
			i++
		}
		return playbackRates[min(i, len(playbackRates)-1)]
	}
	return playbackRates[max(i-1, 0)]
}

func (m playerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(formatter.Header(m.workout.Name) + "  " + formatter.PhasePill(m.state.Phase) + "\n\n")

	switch m.state.Phase {
	case domain.PhaseIdle, domain.PhaseInstructions:
		b.WriteString(m.instructionsView())
	default:
		b.WriteString(m.sessionView())
	}

	if m.notice != "" {
		b.WriteString("\n" + formatter.StyleBad.Render(m.notice) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys) + "\n")
	return b.String()
}

func (m playerModel) instructionsView() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d exercises, %s total.\n\n", len(m.workout.Exercises), formatter.FormatClock(m.workout.TotalDuration))
	for _, ex := range m.workout.Exercises {
		fmt.Fprintf(&b, "  %s  %s %s\n",
			formatter.Dim(formatter.FormatClock(ex.StartOffset)),
			formatter.PadRight(ex.Name, 24),
			formatter.IntensityBadge(ex.Intensity))
	}
	b.WriteString("\nFollow each movement at your own pace. Press " + formatter.Bold("space") + " to begin.\n")
	return b.String()
}

func (m playerModel) sessionView() string {
	var b strings.Builder
	s := m.state

	if ex, ok := m.workout.ExerciseByID(s.ActiveExerciseID); ok {
		remaining := ex.End() - s.Elapsed
		fmt.Fprintf(&b, "%s  %s  %s\n", formatter.Bold(ex.Name), formatter.IntensityBadge(ex.Intensity),
			formatter.Dim(formatter.FormatClock(remaining)+" left"))
	} else if !s.Completed {
		b.WriteString(formatter.Dim("Rest") + "\n")
	}
	if next, ok := m.nextExercise(); ok && !s.Completed {
		fmt.Fprintf(&b, "%s %s %s\n", formatter.Dim("up next"), next.Name,
			formatter.Dim("at "+formatter.FormatClock(next.StartOffset)))
	}
	b.WriteString("\n")

	b.WriteString(m.bar.ViewAs(s.Progress()) + "\n")
	fmt.Fprintf(&b, "%s / %s   %s %s   %s %.0f bpm   %s %.1f\n\n",
		formatter.Bold(formatter.FormatClock(s.Elapsed)), formatter.FormatClock(s.TotalDuration),
		formatter.Dim("rate"), formatter.FormatRate(s.PlaybackRate),
		formatter.StyleBad.Render("♥"), s.HeartRate,
		formatter.Dim("focus"), s.CognitiveScore)
	b.WriteString(formatter.RenderTimeline(m.workout, s.Elapsed, m.bar.Width) + "\n")

	if s.Completed {
		b.WriteString("\n" + m.completionView())
	} else if s.Warning != "" {
		b.WriteString("\n" + formatter.StyleWarn.Render("! "+s.Warning) + "\n")
	}
	return b.String()
}

func (m playerModel) completionView() string {
	switch {
	case !m.persistDone || m.retrying:
		return formatter.Dim("Saving progress…") + "\n"
	case m.persistErr != nil:
		return formatter.StyleWarn.Render("! progress not saved: "+m.persistErr.Error()) + "\n" +
			formatter.Dim("press r to retry") + "\n"
	default:
		return formatter.StyleGood.Render("✔ Progress saved") + "  " + formatter.Dim("press q to finish") + "\n"
	}
}

func (m playerModel) nextExercise() (domain.Exercise, bool) {
	exs := m.workout.Exercises
	i := sort.Search(len(exs), func(i int) bool { return exs[i].StartOffset > m.state.Elapsed })
	if i == len(exs) {
		return domain.Exercise{}, false
	}
	return exs[i], true
}
