package thermal

import (
	"context"
	"fmt"
	"time"

	"github.com/banshee-data/tyre.report/internal/monitoring"
	"github.com/banshee-data/tyre.report/internal/timeutil"
)

// SupervisorState is the host-loop state around the read cycle.
type SupervisorState int

const (
	// StateRunning means the last cycle succeeded.
	StateRunning SupervisorState = iota
	// StateRecovering means one or more capture failures are being retried.
	StateRecovering
	// StateStopped means the retry budget is exhausted or the context ended.
	StateStopped
)

func (s SupervisorState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateRecovering:
		return "recovering"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// SupervisorConfig bounds the retry behaviour of the host loop.
type SupervisorConfig struct {
	// Interval between successful read cycles.
	Interval time.Duration
	// RetryBackoff is the pause after a failed cycle before retrying.
	RetryBackoff time.Duration
	// MaxRetries is the number of consecutive capture failures tolerated
	// before the supervisor gives up.
	MaxRetries int
}

// DefaultSupervisorConfig matches the 4Hz firmware loop: 250ms frames, 1s
// backoff, give up after 10 consecutive failures.
func DefaultSupervisorConfig() SupervisorConfig {
	return SupervisorConfig{
		Interval:     250 * time.Millisecond,
		RetryBackoff: time.Second,
		MaxRetries:   10,
	}
}

// Supervisor drives a Sensor in a bounded-retry loop. Capture errors move it
// from Running to Recovering; a success moves it back and resets the retry
// count; exhausting the retry budget moves it to Stopped and surfaces the
// last error. The sensor's own state self-heals across failed cycles, so the
// supervisor only has to decide when to stop asking.
type Supervisor struct {
	sensor *Sensor
	cfg    SupervisorConfig
	clock  timeutil.Clock

	state   SupervisorState
	retries int
}

// NewSupervisor wraps the sensor in a retry loop. A nil clock selects the
// real clock.
func NewSupervisor(sensor *Sensor, cfg SupervisorConfig, clock timeutil.Clock) *Supervisor {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Supervisor{
		sensor: sensor,
		cfg:    cfg,
		clock:  clock,
		state:  StateRunning,
	}
}

// State returns the current loop state. Only meaningful from the goroutine
// running the loop or after Run has returned.
func (sv *Supervisor) State() SupervisorState {
	return sv.state
}

// Run reads frames until the context ends or the retry budget is exhausted,
// delivering each successful result to sink. It returns nil on context
// cancellation and the final capture error when giving up.
func (sv *Supervisor) Run(ctx context.Context, sink func(*FrameResult)) error {
	for {
		if err := ctx.Err(); err != nil {
			sv.state = StateStopped
			return nil
		}

		result, err := sv.sensor.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				sv.state = StateStopped
				return nil
			}

			sv.retries++
			sv.state = StateRecovering
			monitoring.Logf("capture failed (attempt %d/%d): %v", sv.retries, sv.cfg.MaxRetries, err)

			if sv.retries >= sv.cfg.MaxRetries {
				sv.state = StateStopped
				return fmt.Errorf("giving up after %d consecutive capture failures: %w", sv.retries, err)
			}

			if !sv.sleep(ctx, sv.cfg.RetryBackoff) {
				sv.state = StateStopped
				return nil
			}
			continue
		}

		if sv.state == StateRecovering {
			monitoring.Logf("capture recovered after %d failed attempts", sv.retries)
		}
		sv.state = StateRunning
		sv.retries = 0

		if sink != nil {
			sink(result)
		}

		if !sv.sleep(ctx, sv.cfg.Interval) {
			sv.state = StateStopped
			return nil
		}
	}
}

// sleep pauses for d but wakes early on context cancellation. Returns false
// when the context ended.
func (sv *Supervisor) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-sv.clock.After(d):
		return true
	}
}
