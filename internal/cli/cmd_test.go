package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/neurofit/internal/config"
	"github.com/alexanderramin/neurofit/internal/domain"
	"github.com/alexanderramin/neurofit/internal/player"
	"github.com/alexanderramin/neurofit/internal/repository"
	"github.com/alexanderramin/neurofit/internal/service"
	"github.com/alexanderramin/neurofit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quickWorkoutYAML = `id: quick
name: Quick Check
total_duration: 60
exercises:
  - id: a
    name: Reach
    type: balance
    start_offset: 0
    duration: 30
    intensity: low
  - id: b
    name: Step
    type: neuro
    start_offset: 30
    duration: 30
    intensity: high
`

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	db := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(db)

	workoutRepo := repository.NewSQLiteWorkoutRepo(db)
	resultRepo := repository.NewSQLiteSessionResultRepo(db)
	progressRepo := repository.NewSQLiteUserProgressRepo(db)
	feedbackRepo := repository.NewSQLiteFeedbackRepo(db)

	return &App{
		Workouts: service.NewWorkoutService(workoutRepo, uow),
		Progress: service.NewProgressService(resultRepo, progressRepo, workoutRepo, feedbackRepo, uow),
		Feedback: service.NewFeedbackService(feedbackRepo),
		Config: config.Config{
			UserID:            "local",
			TickInterval:      time.Millisecond,
			CaloriesPerMinute: 5,
			PersistTimeout:    time.Second,
		},
	}
}

// writeQuickWorkout writes a one-minute workout file and returns its path.
func writeQuickWorkout(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quick.yaml")
	require.NoError(t, os.WriteFile(path, []byte(quickWorkoutYAML), 0o644))
	return path
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	return executeCmdContext(t, context.Background(), app, args...)
}

func executeCmdContext(t *testing.T, ctx context.Context, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return stripANSI(buf.String()), err
}

func importQuick(t *testing.T, app *App) {
	t.Helper()
	_, err := executeCmd(t, app, "workout", "import", writeQuickWorkout(t))
	require.NoError(t, err)
}

type failingStore struct{}

func (failingStore) RecordSessionResult(context.Context, domain.SessionResult) error {
	return errors.New("disk full")
}

// --- root ---

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app := testApp(t)

	output, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, output, "neurofit")
	assert.Contains(t, output, "workout")
	assert.Contains(t, output, "session")
}

// --- workout commands ---

func TestWorkoutImportListShow(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "workout", "import", writeQuickWorkout(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported Quick Check (1:00, 2 exercises) as quick")

	out, err = executeCmd(t, app, "workout", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "quick")
	assert.Contains(t, out, "Quick Check")

	out, err = executeCmd(t, app, "workout", "show", "quick")
	require.NoError(t, err)
	assert.Contains(t, out, "Reach")
	assert.Contains(t, out, "▲ HIGH")
}

func TestWorkoutImport_FallsBackToWorkoutsDir(t *testing.T) {
	app := testApp(t)
	app.Config.WorkoutsDir = filepath.Dir(writeQuickWorkout(t))

	out, err := executeCmd(t, app, "workout", "import", "quick.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported Quick Check")
}

func TestWorkoutImport_MissingFile(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "workout", "import", "does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestWorkoutImport_InvalidTimeline(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "workout", "import", filepath.Join("..", "importer", "testdata", "overlapping.yml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	out, err := executeCmd(t, app, "workout", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No workouts yet")
}

func TestWorkoutRemove(t *testing.T) {
	app := testApp(t)
	importQuick(t, app)

	out, err := executeCmd(t, app, "workout", "remove", "quick")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed workout quick")

	_, err = executeCmd(t, app, "workout", "show", "quick")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// --- session play ---

func TestSessionPlay_HeadlessRecordsProgressAndFeedback(t *testing.T) {
	app := testApp(t)
	importQuick(t, app)

	out, err := executeCmd(t, app, "session", "play", "quick",
		"--headless", "--rate", "1000", "--ratings", "7,6,8,7,steady")
	require.NoError(t, err)
	assert.Contains(t, out, "exercise=Reach")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "Session complete")
	assert.Contains(t, out, "progress saved")
	assert.Contains(t, out, "Neurofeedback recorded")

	ctx := context.Background()
	sessions, err := app.Progress.ListSessions(ctx, "local", 0)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 60.0, sessions[0].TotalElapsed)
	assert.InDelta(t, 5.0, sessions[0].CaloriesEstimate, 1e-9)

	out, err = executeCmd(t, app, "session", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Quick Check")

	out, err = executeCmd(t, app, "session", "show", sessions[0].SessionID)
	require.NoError(t, err)
	assert.Contains(t, out, "steady")

	out, err = executeCmd(t, app, "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "PROGRESS")
	assert.Contains(t, out, "1m")
}

func TestSessionPlay_NonInteractiveRunsHeadless(t *testing.T) {
	app := testApp(t)
	importQuick(t, app)

	out, err := executeCmd(t, app, "session", "play", "quick", "--rate", "1000", "--user", "ada")
	require.NoError(t, err)
	assert.Contains(t, out, "Session complete")
	assert.NotContains(t, out, "Neurofeedback")

	p, err := app.Progress.GetProgress(context.Background(), "ada")
	require.NoError(t, err)
	assert.Equal(t, 1, p.CompletedWorkouts)
}

func TestSessionPlay_StoreFailureIsReported(t *testing.T) {
	app := testApp(t)
	importQuick(t, app)
	app.PlayerOptions = []player.Option{player.WithProgressStore(failingStore{})}

	out, err := executeCmd(t, app, "session", "play", "quick", "--headless", "--rate", "1000")
	require.NoError(t, err)
	assert.Contains(t, out, "Session complete")
	assert.Contains(t, out, "progress not saved")
	assert.Contains(t, out, "disk full")
}

func TestSessionPlay_CancelledSessionIsNotRecorded(t *testing.T) {
	app := testApp(t)
	importQuick(t, app)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// At rate 1 the one-minute workout is still in its first second.
	time.AfterFunc(50*time.Millisecond, cancel)

	out, err := executeCmdContext(t, ctx, app, "session", "play", "quick", "--headless")
	require.NoError(t, err)
	assert.Contains(t, out, "exercise=Reach", "session was running before cancel")
	assert.Contains(t, out, "Session stopped at 0:00 of 1:00")
	assert.NotContains(t, out, "Session complete")

	sessions, err := app.Progress.ListSessions(context.Background(), "local", 0)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSessionPlay_RejectsBadRate(t *testing.T) {
	app := testApp(t)
	importQuick(t, app)

	for _, rate := range []string{"0", "-2"} {
		_, err := executeCmd(t, app, "session", "play", "quick", "--headless", "--rate", rate)
		assert.ErrorIs(t, err, domain.ErrValidation, "rate %s", rate)
	}

	sessions, err := app.Progress.ListSessions(context.Background(), "local", 0)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSessionPlay_RejectsBadRatingsFlag(t *testing.T) {
	app := testApp(t)
	importQuick(t, app)

	tests := []struct {
		name    string
		ratings string
		wantMsg string
	}{
		{"out of range", "11,6,8,7", "perceived_exertion"},
		{"too few", "7,6", "want exertion,cognitive,balance,coordination"},
		{"not a number", "7,6,x,7", "balance_stability"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCmd(t, app, "session", "play", "quick", "--headless", "--ratings", tt.ratings)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "--ratings")
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.NotContains(t, out, "Session complete")
		})
	}
}

func TestSessionPlay_UnknownWorkout(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "session", "play", "nope", "--headless")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// --- empty reports ---

func TestSessionListCmd_EmptyDB(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "session", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found.")
}

func TestProgressCmd_EmptyDB(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "No completed sessions for local")
}
