// Package player drives a single timed workout session: it advances a virtual
// clock, tracks the active exercise, simulates biometric signals and emits a
// SessionResult once the timeline is exhausted.
package player

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/alexanderramin/neurofit/internal/domain"
	"github.com/google/uuid"
)

const (
	DefaultCaloriesPerMinute = 5.0
	DefaultPersistTimeout    = 10 * time.Second

	// restartWindow is how far into an exercise SkipPrevious restarts it
	// instead of jumping to the one before.
	restartWindow = 3.0
)

// ProgressStore accepts the finalized session record. Implementations must be
// idempotent on SessionID.
type ProgressStore interface {
	RecordSessionResult(ctx context.Context, r domain.SessionResult) error
}

// FeedbackSink accepts neurofeedback samples on a best-effort basis.
type FeedbackSink interface {
	Submit(ctx context.Context, s domain.NeurofeedbackSample) error
}

// Player owns the state of one session. All methods are safe for concurrent
// use; mutations are serialized so a tick never interleaves with a control.
type Player struct {
	mu sync.Mutex

	workout   domain.WorkoutDefinition
	sessionID string
	userID    string

	state     domain.SessionState
	activeIdx int

	heartRate Signal
	cognitive Signal

	store    ProgressStore
	feedback FeedbackSink
	logger   *slog.Logger
	now      func() time.Time
	ctx      context.Context

	caloriesPerMinute float64
	persistTimeout    time.Duration

	result    *domain.SessionResult
	persisted chan error
}

// Option configures a Player.
type Option func(*Player)

func WithProgressStore(s ProgressStore) Option { return func(p *Player) { p.store = s } }
func WithFeedbackSink(s FeedbackSink) Option   { return func(p *Player) { p.feedback = s } }
func WithHeartRateSignal(s Signal) Option      { return func(p *Player) { p.heartRate = s } }
func WithCognitiveSignal(s Signal) Option      { return func(p *Player) { p.cognitive = s } }
func WithSessionID(id string) Option           { return func(p *Player) { p.sessionID = id } }
func WithUserID(id string) Option              { return func(p *Player) { p.userID = id } }

func WithLogger(l *slog.Logger) Option {
	return func(p *Player) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithContext scopes the background save started on completion. Cancelling
// ctx abandons a save that is still in flight.
func WithContext(ctx context.Context) Option {
	return func(p *Player) {
		if ctx != nil {
			p.ctx = ctx
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Player) {
		if now != nil {
			p.now = now
		}
	}
}

func WithCaloriesPerMinute(c float64) Option {
	return func(p *Player) {
		if c > 0 {
			p.caloriesPerMinute = c
		}
	}
}

func WithPersistTimeout(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.persistTimeout = d
		}
	}
}

// New validates the workout and returns an idle player. The definition is
// copied; later changes by the caller do not affect the session.
func New(def domain.WorkoutDefinition, opts ...Option) (*Player, error) {
	def.Exercises = append([]domain.Exercise(nil), def.Exercises...)
	def.Normalize()
	if err := def.Validate(); err != nil {
		return nil, err
	}

	p := &Player{
		workout:           def,
		activeIdx:         -1,
		logger:            slog.New(slog.DiscardHandler),
		now:               time.Now,
		ctx:               context.Background(),
		caloriesPerMinute: DefaultCaloriesPerMinute,
		persistTimeout:    DefaultPersistTimeout,
		persisted:         make(chan error, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.sessionID == "" {
		p.sessionID = uuid.New().String()
	}
	if p.heartRate == nil {
		p.heartRate = NewHeartRateWalk(newRandSampler())
	}
	if p.cognitive == nil {
		p.cognitive = NewCognitiveEMA(newRandSampler())
	}

	p.state = domain.SessionState{
		Phase:         domain.PhaseIdle,
		TotalDuration: def.TotalDuration,
		PlaybackRate:  1,
		HeartRate:     RestingHeartRate,
	}
	return p, nil
}

// SessionID returns the id the result will be recorded under.
func (p *Player) SessionID() string { return p.sessionID }

// Workout returns the normalized workout definition.
func (p *Player) Workout() domain.WorkoutDefinition {
	w := p.workout
	w.Exercises = append([]domain.Exercise(nil), p.workout.Exercises...)
	return w
}

// Snapshot returns a copy of the current session state.
func (p *Player) Snapshot() domain.SessionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// ActiveExercise returns the exercise at the current position, if any.
func (p *Player) ActiveExercise() (domain.Exercise, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.activeIdx < 0 {
		return domain.Exercise{}, false
	}
	return p.workout.Exercises[p.activeIdx], true
}

// ShowInstructions moves an idle session to the instructions screen.
func (p *Player) ShowInstructions() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.state.Phase {
	case domain.PhaseIdle:
		p.state.Phase = domain.PhaseInstructions
		return nil
	case domain.PhaseInstructions:
		return nil
	default:
		return p.transitionError("show instructions")
	}
}

// Start begins playback from the top of the timeline.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Phase != domain.PhaseIdle && p.state.Phase != domain.PhaseInstructions {
		return p.transitionError("start")
	}
	p.state.Elapsed = 0
	p.state.IsRunning = true
	p.state.Phase = domain.PhaseRunning
	p.refreshActive()
	p.logger.Info("session started", "session_id", p.sessionID, "workout_id", p.workout.ID)
	return nil
}

// Tick advances the clock by delta wall seconds scaled by the playback rate.
// It has no effect unless the session is running or when delta is not positive.
func (p *Player) Tick(delta float64) domain.SessionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.IsRunning || !(delta > 0) {
		return p.state
	}

	p.state.Elapsed = math.Min(p.state.Elapsed+delta*p.state.PlaybackRate, p.workout.TotalDuration)
	p.refreshActive()
	p.state.HeartRate = p.heartRate.Next(p.state.HeartRate)
	p.state.CognitiveScore = p.cognitive.Next(p.state.CognitiveScore)

	if p.state.Elapsed >= p.workout.TotalDuration {
		p.complete()
	}
	return p.state
}

// Pause stops the clock. Pausing a paused session is a no-op.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.state.Phase {
	case domain.PhaseRunning:
		p.state.IsRunning = false
		p.state.Phase = domain.PhasePaused
		return nil
	case domain.PhasePaused:
		return nil
	default:
		return p.transitionError("pause")
	}
}

// Resume restarts the clock. Resuming a running session is a no-op.
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.state.Phase {
	case domain.PhasePaused:
		p.state.IsRunning = true
		p.state.Phase = domain.PhaseRunning
		return nil
	case domain.PhaseRunning:
		return nil
	default:
		return p.transitionError("resume")
	}
}

// TogglePause pauses a running session or resumes a paused one.
func (p *Player) TogglePause() error {
	if p.Snapshot().Phase == domain.PhasePaused {
		return p.Resume()
	}
	return p.Pause()
}

// SetPlaybackRate changes how many virtual seconds pass per wall second.
// Elapsed time is not rescaled.
func (p *Player) SetPlaybackRate(rate float64) error {
	if !(rate > 0) || math.IsInf(rate, 1) {
		return domain.NewValidationError("playback_rate", "must be a positive number, got %v", rate)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.PlaybackRate = rate
	return nil
}

// Seek jumps to the given offset in seconds, clamped to the timeline.
// Reaching the end completes the session.
func (p *Player) Seek(seconds float64) error {
	if math.IsNaN(seconds) {
		return domain.NewValidationError("seek", "offset is not a number")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireSeekable("seek"); err != nil {
		return err
	}
	p.seekLocked(seconds)
	return nil
}

// SeekToExercise jumps to the start of the exercise with the given id and
// updates the active exercise immediately.
func (p *Player) SeekToExercise(exerciseID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireSeekable("seek to exercise"); err != nil {
		return err
	}
	ex, ok := p.workout.ExerciseByID(exerciseID)
	if !ok {
		return domain.NewValidationError("exercise_id", "unknown exercise %q", exerciseID)
	}
	p.seekLocked(ex.StartOffset)
	return nil
}

// SkipNext jumps to the first exercise starting after the current position.
func (p *Player) SkipNext() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireSeekable("skip"); err != nil {
		return err
	}
	exs := p.workout.Exercises
	i := sort.Search(len(exs), func(i int) bool { return exs[i].StartOffset > p.state.Elapsed })
	if i == len(exs) {
		return domain.NewValidationError("skip", "no exercise after %.0fs", p.state.Elapsed)
	}
	p.seekLocked(exs[i].StartOffset)
	return nil
}

// SkipPrevious restarts the current exercise, or jumps to the previous one
// when the current exercise has only just begun.
func (p *Player) SkipPrevious() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.requireSeekable("skip"); err != nil {
		return err
	}
	exs := p.workout.Exercises
	cutoff := p.state.Elapsed - restartWindow
	i := sort.Search(len(exs), func(i int) bool { return exs[i].StartOffset > cutoff })
	if i == 0 {
		return domain.NewValidationError("skip", "no exercise before %.0fs", p.state.Elapsed)
	}
	p.seekLocked(exs[i-1].StartOffset)
	return nil
}

// Persisted delivers the outcome of the first persistence attempt. It
// receives exactly one value after completion and is never closed.
func (p *Player) Persisted() <-chan error {
	return p.persisted
}

// Result returns the finalized record once the session has completed.
func (p *Player) Result() (domain.SessionResult, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.result == nil {
		return domain.SessionResult{}, false
	}
	return *p.result, true
}

// RetryPersist sends the same result to the store again. The store is
// expected to deduplicate by session id.
func (p *Player) RetryPersist(ctx context.Context) error {
	p.mu.Lock()
	if p.result == nil {
		p.mu.Unlock()
		return domain.NewValidationError("session", "not completed yet")
	}
	result := *p.result
	p.mu.Unlock()

	return p.persist(ctx, result)
}

// SubmitFeedback records the user's post-session ratings along with the final
// simulated signals. Failures are logged and returned but never change state.
func (p *Player) SubmitFeedback(ctx context.Context, ratings domain.FeedbackRatings) error {
	if err := ratings.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	if !p.state.Completed {
		p.mu.Unlock()
		return domain.NewValidationError("session", "feedback is only accepted after completion")
	}
	sample := domain.NeurofeedbackSample{
		ID:             uuid.New().String(),
		SessionID:      p.sessionID,
		WorkoutID:      p.workout.ID,
		UserID:         p.userID,
		Ratings:        ratings,
		HeartRate:      p.state.HeartRate,
		CognitiveScore: p.state.CognitiveScore,
		RecordedAt:     p.now().UTC(),
	}
	sink := p.feedback
	p.mu.Unlock()

	if sink == nil {
		return nil
	}
	if err := sink.Submit(ctx, sample); err != nil {
		p.logger.Warn("neurofeedback not recorded", "session_id", p.sessionID, "error", err)
		return domain.AsPersistError("submitting neurofeedback", err)
	}
	return nil
}

// complete finalizes the session. Caller holds p.mu.
func (p *Player) complete() {
	p.state.Elapsed = p.workout.TotalDuration
	p.state.IsRunning = false
	p.state.Completed = true
	p.state.Phase = domain.PhaseCompleted
	p.refreshActive()

	result := domain.SessionResult{
		SessionID:           p.sessionID,
		WorkoutID:           p.workout.ID,
		UserID:              p.userID,
		TotalElapsed:        p.state.Elapsed,
		CaloriesEstimate:    p.state.Elapsed / 60 * p.caloriesPerMinute,
		FinalCognitiveScore: p.state.CognitiveScore,
		FinalHeartRate:      p.state.HeartRate,
		Status:              domain.SessionCompleted,
		CompletedAt:         p.now().UTC(),
	}
	p.result = &result
	p.logger.Info("session completed",
		"session_id", p.sessionID,
		"elapsed_s", result.TotalElapsed,
		"calories", result.CaloriesEstimate,
	)

	go func() {
		ctx, cancel := context.WithTimeout(p.ctx, p.persistTimeout)
		defer cancel()
		p.persisted <- p.persist(ctx, result)
	}()
}

func (p *Player) persist(ctx context.Context, result domain.SessionResult) error {
	if p.store == nil {
		return nil
	}
	err := p.store.RecordSessionResult(ctx, result)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state.Warning = "progress not saved: " + err.Error()
		p.logger.Warn("session result not recorded", "session_id", result.SessionID, "error", err)
		return domain.AsPersistError("recording session result", err)
	}
	p.state.Warning = ""
	return nil
}

// seekLocked moves the clock and completes when the end is reached. Caller holds p.mu.
func (p *Player) seekLocked(seconds float64) {
	p.state.Elapsed = clamp(seconds, 0, p.workout.TotalDuration)
	p.refreshActive()
	if p.state.Elapsed >= p.workout.TotalDuration {
		p.complete()
	}
}

func (p *Player) refreshActive() {
	p.activeIdx = p.workout.ExerciseIndexAt(p.state.Elapsed)
	if p.activeIdx < 0 {
		p.state.ActiveExerciseID = ""
		return
	}
	p.state.ActiveExerciseID = p.workout.Exercises[p.activeIdx].ID
}

func (p *Player) requireSeekable(op string) error {
	if p.state.Phase != domain.PhaseRunning && p.state.Phase != domain.PhasePaused {
		return p.transitionError(op)
	}
	return nil
}

func (p *Player) transitionError(op string) error {
	return domain.NewValidationError("state", "cannot %s while %s", op, p.state.Phase)
}
