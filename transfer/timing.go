package transfer

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Timing supplies the random parts of a simulated transfer.
type Timing interface {
	// Duration is drawn once per transfer.
	Duration() time.Duration
	// Increment is drawn once per tick and must be positive.
	Increment() int
}

// RandomTiming draws durations uniformly from [Min, Max) and increments
// uniformly from [1, MaxIncrement].
type RandomTiming struct {
	Min          time.Duration
	Max          time.Duration
	MaxIncrement int
}

func NewRandomTiming(minDuration, maxDuration time.Duration, maxIncrement int) RandomTiming {
	return RandomTiming{Min: minDuration, Max: maxDuration, MaxIncrement: maxIncrement}
}

// DefaultTiming is 500ms to 1500ms with increments of 1 to 10.
func DefaultTiming() RandomTiming {
	return NewRandomTiming(500*time.Millisecond, 1500*time.Millisecond, 10)
}

func (t RandomTiming) Duration() time.Duration {
	if t.Max <= t.Min {
		return t.Min
	}
	return t.Min + rand.N(t.Max-t.Min)
}

func (t RandomTiming) Increment() int {
	if t.MaxIncrement <= 1 {
		return 1
	}
	return 1 + rand.IntN(t.MaxIncrement)
}

// FixedTiming always returns the same duration and increment.
type FixedTiming struct {
	D    time.Duration
	Step int
}

func (t FixedTiming) Duration() time.Duration { return t.D }
func (t FixedTiming) Increment() int          { return t.Step }

// SequenceTiming replays increments in order, wrapping around at the end.
type SequenceTiming struct {
	D          time.Duration
	Increments []int

	mu  sync.Mutex
	pos int
}

func (t *SequenceTiming) Duration() time.Duration { return t.D }

func (t *SequenceTiming) Increment() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.Increments) == 0 {
		return 1
	}
	v := t.Increments[t.pos%len(t.Increments)]
	t.pos++
	return v
}
