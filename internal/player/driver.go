package player

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/neurofit/internal/domain"
)

// DefaultTickInterval is the wall-clock period between ticks.
const DefaultTickInterval = time.Second

// ErrDriverRunning is returned when Run is called on a driver that is already ticking.
var ErrDriverRunning = errors.New("driver already running")

// Driver is the single periodic task feeding ticks into a Player.
type Driver struct {
	player   *Player
	interval time.Duration
	observe  func(domain.SessionState)
	running  atomic.Bool
}

// NewDriver creates a driver ticking p every interval. observe, when non-nil,
// receives the state after every tick on the driver goroutine.
func NewDriver(p *Player, interval time.Duration, observe func(domain.SessionState)) *Driver {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Driver{player: p, interval: interval, observe: observe}
}

// Run ticks the player until the session completes or ctx is cancelled. The
// ticker is released on every return path, so no tick reaches the player
// after Run returns.
func (d *Driver) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrDriverRunning
	}
	defer d.running.Store(false)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			delta := now.Sub(last).Seconds()
			last = now

			state := d.player.Tick(delta)
			if d.observe != nil {
				d.observe(state)
			}
			if state.Completed {
				return nil
			}
		}
	}
}
