package player

import (
	"math/rand/v2"
	"sync"
)

const (
	RestingHeartRate = 72.0
	MinHeartRate     = 60.0
	MaxHeartRate     = 180.0
	heartRateStep    = 4.0 // uniform(-2,2) scaled by 2
)

// Signal produces the next value of a simulated measurement from the previous one.
type Signal interface {
	Next(prev float64) float64
}

// SignalFunc adapts a plain function to Signal.
type SignalFunc func(prev float64) float64

func (f SignalFunc) Next(prev float64) float64 { return f(prev) }

// Sampler yields values in [0, 1). *rand.Rand satisfies it.
type Sampler interface {
	Float64() float64
}

// RandomWalk moves by a uniform step in [-MaxStep, MaxStep] and clamps to [Min, Max].
type RandomWalk struct {
	MaxStep float64
	Min     float64
	Max     float64
	Rand    Sampler
}

// NewHeartRateWalk returns the bounded random walk used for simulated heart rate.
func NewHeartRateWalk(r Sampler) *RandomWalk {
	return &RandomWalk{MaxStep: heartRateStep, Min: MinHeartRate, Max: MaxHeartRate, Rand: r}
}

func (w *RandomWalk) Next(prev float64) float64 {
	step := (w.Rand.Float64()*2 - 1) * w.MaxStep
	return clamp(prev+step, w.Min, w.Max)
}

// PerformanceEMA averages the previous score with a fresh performance sample
// in [0, 100].
type PerformanceEMA struct {
	Rand Sampler
}

// NewCognitiveEMA returns the smoothing signal used for the cognitive score.
func NewCognitiveEMA(r Sampler) *PerformanceEMA {
	return &PerformanceEMA{Rand: r}
}

func (e *PerformanceEMA) Next(prev float64) float64 {
	sample := e.Rand.Float64() * 100
	return clamp((prev+sample)/2, 0, 100)
}

// Sequence replays fixed samples in order, wrapping around at the end.
// It is safe for concurrent use.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	pos    int
}

// NewSequence returns a Sampler cycling through values. An empty sequence yields 0.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

// newRandSampler returns a math/rand/v2 sampler seeded from the runtime.
func newRandSampler() Sampler {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
