package transfer

import (
	"context"
	"time"

	"github.com/moyoez/dropvault-go/types"
)

// DefaultTicks is the number of tick intervals a simulated duration is split into.
const DefaultTicks = 10

// Simulator is a Transferer that fakes a transfer with timed progress ticks.
// Each tick adds a random increment; the last tick is clamped to exactly 100.
type Simulator struct {
	timing Timing
	ticks  int
}

func NewSimulator(timing Timing) *Simulator {
	if timing == nil {
		timing = DefaultTiming()
	}
	return &Simulator{timing: timing, ticks: DefaultTicks}
}

var _ Transferer = (*Simulator)(nil)

func (s *Simulator) Transfer(ctx context.Context, entry types.FileEntry, report func(percent int)) error {
	interval := s.timing.Duration() / time.Duration(s.ticks)
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	progress := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		// a tick and a cancel can be ready together; cancel wins
		if err := ctx.Err(); err != nil {
			return err
		}

		step := s.timing.Increment()
		if step < 1 {
			step = 1
		}
		progress += step
		if progress >= Complete {
			report(Complete)
			return nil
		}
		report(progress)
	}
}
