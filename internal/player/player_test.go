package player

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/neurofit/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 4, 28, 9, 0, 0, 0, time.UTC)

type recordingStore struct {
	mu      sync.Mutex
	results []domain.SessionResult
	err     error
}

func (s *recordingStore) RecordSessionResult(_ context.Context, r domain.SessionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	return s.err
}

func (s *recordingStore) calls() []domain.SessionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SessionResult(nil), s.results...)
}

type recordingSink struct {
	samples []domain.NeurofeedbackSample
	err     error
}

func (s *recordingSink) Submit(_ context.Context, sample domain.NeurofeedbackSample) error {
	s.samples = append(s.samples, sample)
	return s.err
}

func sampleWorkout() domain.WorkoutDefinition {
	return domain.WorkoutDefinition{
		ID:            "wk-scenario",
		Name:          "Balance Flow",
		TotalDuration: 1200,
		Exercises: []domain.Exercise{
			{ID: "w1", Name: "Warm-up", StartOffset: 0, Duration: 600},
			{ID: "w2", Name: "Main", StartOffset: 600, Duration: 600},
		},
	}
}

func newTestPlayer(t *testing.T, def domain.WorkoutDefinition, opts ...Option) *Player {
	t.Helper()
	base := []Option{
		WithSessionID("sess-1"),
		WithUserID("user-1"),
		WithClock(func() time.Time { return fixedNow }),
		WithHeartRateSignal(NewHeartRateWalk(NewSequence(0.5))),
		WithCognitiveSignal(NewCognitiveEMA(NewSequence(0.8))),
	}
	p, err := New(def, append(base, opts...)...)
	require.NoError(t, err)
	return p
}

func startedPlayer(t *testing.T, opts ...Option) *Player {
	t.Helper()
	p := newTestPlayer(t, sampleWorkout(), opts...)
	require.NoError(t, p.Start())
	return p
}

func waitPersisted(t *testing.T, p *Player) error {
	t.Helper()
	select {
	case err := <-p.Persisted():
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("persistence outcome not delivered")
		return nil
	}
}

func TestNew_RejectsOverlappingExercises(t *testing.T) {
	def := sampleWorkout()
	def.Exercises[1].StartOffset = 590

	_, err := New(def)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNew_CopiesDefinition(t *testing.T) {
	def := sampleWorkout()
	p := newTestPlayer(t, def)
	def.Exercises[0].ID = "mutated"

	w := p.Workout()
	assert.Equal(t, "w1", w.Exercises[0].ID)
}

func TestNew_InitialState(t *testing.T) {
	p := newTestPlayer(t, sampleWorkout())
	s := p.Snapshot()

	assert.Equal(t, domain.PhaseIdle, s.Phase)
	assert.False(t, s.IsRunning)
	assert.Equal(t, 1.0, s.PlaybackRate)
	assert.Equal(t, RestingHeartRate, s.HeartRate)
	assert.Equal(t, 0.0, s.CognitiveScore)
	assert.Equal(t, "sess-1", p.SessionID())
}

func TestStart_FromIdleAndInstructions(t *testing.T) {
	p := newTestPlayer(t, sampleWorkout())
	require.NoError(t, p.ShowInstructions())
	assert.Equal(t, domain.PhaseInstructions, p.Snapshot().Phase)

	require.NoError(t, p.Start())
	s := p.Snapshot()
	assert.Equal(t, domain.PhaseRunning, s.Phase)
	assert.True(t, s.IsRunning)
	assert.Equal(t, "w1", s.ActiveExerciseID)

	err := p.Start()
	assert.ErrorIs(t, err, domain.ErrValidation, "start while running is rejected")
	assert.ErrorIs(t, p.ShowInstructions(), domain.ErrValidation)
}

func TestTick_NoEffectBeforeStart(t *testing.T) {
	p := newTestPlayer(t, sampleWorkout())
	before := p.Snapshot()
	p.Tick(10)
	assert.Equal(t, before, p.Snapshot())
}

// 600 one-second ticks move from w1 to w2 exactly at 600.
func TestTick_ExerciseBoundaryTransition(t *testing.T) {
	p := startedPlayer(t)

	for i := 1; i <= 600; i++ {
		s := p.Tick(1)
		if i < 600 {
			require.Equal(t, "w1", s.ActiveExerciseID, "tick %d", i)
		} else {
			assert.Equal(t, 600.0, s.Elapsed)
			assert.Equal(t, "w2", s.ActiveExerciseID)
		}
	}
	assert.False(t, p.Snapshot().Completed)
}

// A single tick covering the whole workout completes it and records the
// result exactly once.
func TestTick_SingleTickCompletesAndRecordsOnce(t *testing.T) {
	store := &recordingStore{}
	p := startedPlayer(t, WithProgressStore(store))

	s := p.Tick(1200)
	assert.Equal(t, 1200.0, s.Elapsed)
	assert.True(t, s.Completed)
	assert.False(t, s.IsRunning)
	assert.Equal(t, domain.PhaseCompleted, s.Phase)

	require.NoError(t, waitPersisted(t, p))
	calls := store.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, 1200.0, calls[0].TotalElapsed)
	assert.Equal(t, "sess-1", calls[0].SessionID)
	assert.Equal(t, "user-1", calls[0].UserID)
	assert.Equal(t, "wk-scenario", calls[0].WorkoutID)
	assert.Equal(t, 100.0, calls[0].CaloriesEstimate, "1200s at 5 kcal/min")
	assert.Equal(t, fixedNow, calls[0].CompletedAt)

	// further ticks do nothing and never re-record
	p.Tick(5)
	assert.Len(t, store.calls(), 1)
}

func TestTick_PlaybackRateScalesDelta(t *testing.T) {
	p := startedPlayer(t)
	require.NoError(t, p.SetPlaybackRate(2))

	s := p.Tick(10)
	assert.Equal(t, 20.0, s.Elapsed)
}

func TestSetPlaybackRate_DoesNotRescaleElapsed(t *testing.T) {
	p := startedPlayer(t)
	p.Tick(30)
	require.NoError(t, p.SetPlaybackRate(0.5))
	assert.Equal(t, 30.0, p.Snapshot().Elapsed)

	p.Tick(10)
	assert.Equal(t, 35.0, p.Snapshot().Elapsed)
}

func TestSetPlaybackRate_RejectsNonPositive(t *testing.T) {
	p := startedPlayer(t)
	for _, rate := range []float64{0, -1} {
		err := p.SetPlaybackRate(rate)
		assert.ErrorIs(t, err, domain.ErrValidation, "rate %v", rate)
	}
	assert.Equal(t, 1.0, p.Snapshot().PlaybackRate)
}

// Seeking to an unknown exercise changes nothing.
func TestSeekToExercise_UnknownIDLeavesStateUnchanged(t *testing.T) {
	p := startedPlayer(t)
	p.Tick(42)
	before := p.Snapshot()

	err := p.SeekToExercise("unknown-id")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	after := p.Snapshot()
	assert.Equal(t, before.Elapsed, after.Elapsed)
	assert.Equal(t, before.ActiveExerciseID, after.ActiveExerciseID)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("state changed (-before +after):\n%s", diff)
	}
}

func TestTick_NonPositiveDeltaIsNoop(t *testing.T) {
	p := startedPlayer(t)
	p.Tick(12)
	before := p.Snapshot()

	p.Tick(-5)
	p.Tick(0)
	assert.Equal(t, before, p.Snapshot())
}

func TestSeekThenTick_IsImmediate(t *testing.T) {
	p := startedPlayer(t)

	require.NoError(t, p.SeekToExercise("w2"))
	assert.Equal(t, "w2", p.Snapshot().ActiveExerciseID, "seek updates active exercise without a tick")
	assert.Equal(t, 600.0, p.Snapshot().Elapsed)

	s := p.Tick(0.001)
	assert.Equal(t, "w2", s.ActiveExerciseID)
}

func TestSeekToExercise_WhilePaused(t *testing.T) {
	p := startedPlayer(t)
	require.NoError(t, p.Pause())
	require.NoError(t, p.SeekToExercise("w2"))

	s := p.Snapshot()
	assert.Equal(t, domain.PhasePaused, s.Phase)
	assert.Equal(t, "w2", s.ActiveExerciseID)
}

func TestSeekToExercise_RejectedBeforeStart(t *testing.T) {
	p := newTestPlayer(t, sampleWorkout())
	assert.ErrorIs(t, p.SeekToExercise("w2"), domain.ErrValidation)
	assert.Equal(t, 0.0, p.Snapshot().Elapsed)
}

func TestSeek_PastEndCompletes(t *testing.T) {
	store := &recordingStore{}
	p := startedPlayer(t, WithProgressStore(store))

	require.NoError(t, p.Seek(5000))
	s := p.Snapshot()
	assert.Equal(t, 1200.0, s.Elapsed)
	assert.True(t, s.Completed)

	require.NoError(t, waitPersisted(t, p))
	assert.Len(t, store.calls(), 1)
}

func TestSeek_ClampsBelowZero(t *testing.T) {
	p := startedPlayer(t)
	p.Tick(100)
	require.NoError(t, p.Seek(-30))
	assert.Equal(t, 0.0, p.Snapshot().Elapsed)
	assert.Equal(t, "w1", p.Snapshot().ActiveExerciseID)
}

func TestPause_Idempotent(t *testing.T) {
	p := startedPlayer(t)
	p.Tick(15)

	require.NoError(t, p.Pause())
	once := p.Snapshot()
	require.NoError(t, p.Pause())
	twice := p.Snapshot()

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second pause changed state (-once +twice):\n%s", diff)
	}
	assert.False(t, twice.IsRunning)
	assert.Equal(t, 15.0, twice.Elapsed)
}

func TestPauseResume_KeepsElapsed(t *testing.T) {
	p := startedPlayer(t)
	p.Tick(10)
	require.NoError(t, p.Pause())
	p.Tick(50)
	assert.Equal(t, 10.0, p.Snapshot().Elapsed, "ticks while paused are ignored")

	require.NoError(t, p.Resume())
	require.NoError(t, p.Resume())
	p.Tick(5)
	assert.Equal(t, 15.0, p.Snapshot().Elapsed)
	assert.Equal(t, domain.PhaseRunning, p.Snapshot().Phase)
}

func TestTogglePause(t *testing.T) {
	p := startedPlayer(t)
	require.NoError(t, p.TogglePause())
	assert.Equal(t, domain.PhasePaused, p.Snapshot().Phase)
	require.NoError(t, p.TogglePause())
	assert.Equal(t, domain.PhaseRunning, p.Snapshot().Phase)
}

func TestPause_RejectedWhenIdleOrCompleted(t *testing.T) {
	p := newTestPlayer(t, sampleWorkout())
	assert.ErrorIs(t, p.Pause(), domain.ErrValidation)
	assert.ErrorIs(t, p.Resume(), domain.ErrValidation)

	require.NoError(t, p.Start())
	p.Tick(1200)
	_ = waitPersisted(t, p)
	assert.ErrorIs(t, p.Pause(), domain.ErrValidation)
	assert.ErrorIs(t, p.Resume(), domain.ErrValidation)
	assert.True(t, p.Snapshot().Completed, "completed is terminal")
}

func TestSkipNextAndPrevious(t *testing.T) {
	def := domain.WorkoutDefinition{
		ID:            "three",
		TotalDuration: 300,
		Exercises: []domain.Exercise{
			{ID: "a", StartOffset: 0, Duration: 100},
			{ID: "b", StartOffset: 100, Duration: 100},
			{ID: "c", StartOffset: 200, Duration: 100},
		},
	}
	p := newTestPlayer(t, def)
	require.NoError(t, p.Start())

	require.NoError(t, p.SkipNext())
	assert.Equal(t, "b", p.Snapshot().ActiveExerciseID)
	require.NoError(t, p.SkipNext())
	assert.Equal(t, "c", p.Snapshot().ActiveExerciseID)
	assert.ErrorIs(t, p.SkipNext(), domain.ErrValidation)

	p.Tick(50)
	require.NoError(t, p.SkipPrevious())
	assert.Equal(t, 200.0, p.Snapshot().Elapsed, "restarts the current exercise")
	require.NoError(t, p.SkipPrevious())
	assert.Equal(t, 100.0, p.Snapshot().Elapsed, "at the start, jumps to the previous one")
	require.NoError(t, p.SkipPrevious())
	assert.Equal(t, 0.0, p.Snapshot().Elapsed)
	assert.ErrorIs(t, p.SkipPrevious(), domain.ErrValidation)
}

func TestActiveExercise_GapIsEmpty(t *testing.T) {
	def := domain.WorkoutDefinition{
		ID:            "gapped",
		TotalDuration: 100,
		Exercises: []domain.Exercise{
			{ID: "a", StartOffset: 0, Duration: 40},
			{ID: "b", StartOffset: 60, Duration: 40},
		},
	}
	p := newTestPlayer(t, def)
	require.NoError(t, p.Start())

	s := p.Tick(50)
	assert.Empty(t, s.ActiveExerciseID)
	_, ok := p.ActiveExercise()
	assert.False(t, ok)

	s = p.Tick(10)
	assert.Equal(t, "b", s.ActiveExerciseID)
	ex, ok := p.ActiveExercise()
	require.True(t, ok)
	assert.Equal(t, "b", ex.ID)
}

func TestSignals_DeterministicSequence(t *testing.T) {
	// heart: u=1.0 → +4 each tick; cognitive: sample 100 → EMA toward 100
	p := newTestPlayer(t, sampleWorkout(),
		WithHeartRateSignal(NewHeartRateWalk(NewSequence(1.0))),
		WithCognitiveSignal(NewCognitiveEMA(NewSequence(1.0))),
	)
	require.NoError(t, p.Start())

	s := p.Tick(1)
	assert.Equal(t, 76.0, s.HeartRate)
	assert.Equal(t, 50.0, s.CognitiveScore)

	s = p.Tick(1)
	assert.Equal(t, 80.0, s.HeartRate)
	assert.Equal(t, 75.0, s.CognitiveScore)
}

func TestSignals_StayBounded(t *testing.T) {
	p := newTestPlayer(t, domain.WorkoutDefinition{ID: "long", TotalDuration: 100000},
		WithHeartRateSignal(NewHeartRateWalk(rand.New(rand.NewPCG(1, 2)))),
		WithCognitiveSignal(NewCognitiveEMA(rand.New(rand.NewPCG(3, 4)))),
	)
	require.NoError(t, p.Start())

	for i := 0; i < 5000; i++ {
		s := p.Tick(1)
		require.GreaterOrEqual(t, s.HeartRate, MinHeartRate)
		require.LessOrEqual(t, s.HeartRate, MaxHeartRate)
		require.GreaterOrEqual(t, s.CognitiveScore, 0.0)
		require.LessOrEqual(t, s.CognitiveScore, 100.0)
	}
}

func TestPersistFailure_IsNonFatal(t *testing.T) {
	store := &recordingStore{err: errors.New("store offline")}
	p := startedPlayer(t, WithProgressStore(store))

	s := p.Tick(1200)
	assert.True(t, s.Completed)

	err := waitPersisted(t, p)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersist)

	after := p.Snapshot()
	assert.Equal(t, domain.PhaseCompleted, after.Phase)
	assert.Contains(t, after.Warning, "store offline")

	result, ok := p.Result()
	require.True(t, ok, "result is kept in memory for retry")
	assert.Equal(t, "sess-1", result.SessionID)
}

// blockingStore holds every write until its context ends.
type blockingStore struct {
	entered chan struct{}
}

func (s *blockingStore) RecordSessionResult(ctx context.Context, _ domain.SessionResult) error {
	close(s.entered)
	<-ctx.Done()
	return ctx.Err()
}

func TestPersist_CancelledWithPlayerContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := &blockingStore{entered: make(chan struct{})}
	p := startedPlayer(t,
		WithProgressStore(store),
		WithContext(ctx),
		WithPersistTimeout(time.Hour),
	)

	p.Tick(1200)
	<-store.entered
	cancel()

	err := waitPersisted(t, p)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersist)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, p.Snapshot().Completed)
}

func TestRetryPersist(t *testing.T) {
	store := &recordingStore{err: errors.New("store offline")}
	p := startedPlayer(t, WithProgressStore(store))
	p.Tick(1200)
	require.Error(t, waitPersisted(t, p))

	store.mu.Lock()
	store.err = nil
	store.mu.Unlock()

	require.NoError(t, p.RetryPersist(context.Background()))
	assert.Empty(t, p.Snapshot().Warning)

	calls := store.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, calls[0], calls[1], "retry re-sends the identical record")
}

func TestRetryPersist_BeforeCompletion(t *testing.T) {
	p := startedPlayer(t)
	assert.ErrorIs(t, p.RetryPersist(context.Background()), domain.ErrValidation)
}

func TestSubmitFeedback(t *testing.T) {
	sink := &recordingSink{}
	p := startedPlayer(t, WithFeedbackSink(sink))

	err := p.SubmitFeedback(context.Background(), domain.DefaultFeedbackRatings())
	assert.ErrorIs(t, err, domain.ErrValidation, "feedback before completion is rejected")

	final := p.Tick(1200)
	_ = waitPersisted(t, p)

	require.NoError(t, p.SubmitFeedback(context.Background(), domain.DefaultFeedbackRatings()))
	require.Len(t, sink.samples, 1)
	sample := sink.samples[0]
	assert.Equal(t, "sess-1", sample.SessionID)
	assert.Equal(t, "wk-scenario", sample.WorkoutID)
	assert.Equal(t, 7, sample.Ratings.PerceivedExertion)
	assert.Equal(t, final.HeartRate, sample.HeartRate)
	assert.Equal(t, final.CognitiveScore, sample.CognitiveScore)
	assert.NotEmpty(t, sample.ID)
}

func TestSubmitFeedback_FailureDoesNotChangeState(t *testing.T) {
	sink := &recordingSink{err: errors.New("sink down")}
	p := startedPlayer(t, WithFeedbackSink(sink))
	p.Tick(1200)
	_ = waitPersisted(t, p)
	before := p.Snapshot()

	err := p.SubmitFeedback(context.Background(), domain.DefaultFeedbackRatings())
	assert.ErrorIs(t, err, domain.ErrPersist)
	assert.Equal(t, before, p.Snapshot())
}

func TestSubmitFeedback_InvalidRatings(t *testing.T) {
	p := startedPlayer(t)
	p.Tick(1200)
	_ = waitPersisted(t, p)

	r := domain.DefaultFeedbackRatings()
	r.PerceivedExertion = 0
	assert.ErrorIs(t, p.SubmitFeedback(context.Background(), r), domain.ErrValidation)
}

func TestCaloriesPerMinuteOption(t *testing.T) {
	p := startedPlayer(t, WithCaloriesPerMinute(8))
	p.Tick(1200)
	_ = waitPersisted(t, p)

	r, ok := p.Result()
	require.True(t, ok)
	assert.Equal(t, 160.0, r.CaloriesEstimate)
}
