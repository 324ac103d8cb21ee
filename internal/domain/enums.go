package domain

// Intensity is the effort level of a single exercise.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// ValidIntensities is the canonical set of accepted intensity strings.
var ValidIntensities = map[string]bool{
	"low": true, "medium": true, "high": true,
}

// ValidExerciseTypes lists the exercise types the workout library knows about.
var ValidExerciseTypes = map[string]bool{
	"warmup": true, "main": true, "neuro": true,
	"balance": true, "coordination": true, "strength": true,
	"cardio": true, "cooldown": true, "stretch": true,
}

// Phase is the state of a session player.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseInstructions Phase = "instructions"
	PhaseRunning      Phase = "running"
	PhasePaused       Phase = "paused"
	PhaseCompleted    Phase = "completed"
)

// IsTerminal reports whether no further transitions are possible.
func (p Phase) IsTerminal() bool {
	return p == PhaseCompleted
}

// SessionStatus is the persisted outcome of a session.
type SessionStatus string

const (
	SessionCompleted SessionStatus = "completed"
)
