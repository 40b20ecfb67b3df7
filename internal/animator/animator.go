// Package animator glides the displayed board position towards a new square over wall-clock time.
package animator

import (
	"context"
	"math"
	"sync"
	"time"
)

const (
	// MinDuration is the length of the shortest glide.
	MinDuration = 200 * time.Millisecond
	// PerSquare is added for every square travelled.
	PerSquare = 35 * time.Millisecond
	// MaxDuration caps long jumps.
	MaxDuration = 1200 * time.Millisecond
	// DefaultFrameInterval approximates a 60Hz display refresh.
	DefaultFrameInterval = 16 * time.Millisecond
)

// EaseOutCubic maps linear progress t in [0,1] onto a decelerating curve.
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// Duration returns how long a glide between two positions lasts.
func Duration(from, to float64) time.Duration {
	d := MinDuration + time.Duration(math.Abs(to-from)*float64(PerSquare))
	if d > MaxDuration {
		return MaxDuration
	}
	return d
}

// Sample returns the displayed position after elapsed time of a glide, and whether it has ended.
func Sample(from, to float64, elapsed, duration time.Duration) (float64, bool) {
	if duration <= 0 {
		return to, true
	}
	t := math.Min(1, float64(elapsed)/float64(duration))
	if t < 0 {
		t = 0
	}
	if t >= 1 {
		return to, true
	}
	return from + (to-from)*EaseOutCubic(t), false
}

// FrameFunc receives every displayed position. It runs on the animator goroutine.
type FrameFunc func(position float64)

// Animator runs at most one glide at a time. Starting a new glide cancels the one in flight
// and continues from whatever position is displayed at that moment.
type Animator struct {
	interval time.Duration
	now      func() time.Time
	onFrame  FrameFunc

	mu     sync.Mutex
	pos    float64
	target float64
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an idle animator positioned at 0.
func New(onFrame FrameFunc, interval time.Duration) *Animator {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	if onFrame == nil {
		onFrame = func(float64) {}
	}
	return &Animator{
		interval: interval,
		now:      time.Now,
		onFrame:  onFrame,
	}
}

// Position returns the displayed, possibly fractional, position.
func (a *Animator) Position() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pos
}

// Target returns the square the current glide heads to.
func (a *Animator) Target() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.target
}

// Running reports whether a glide is in flight.
func (a *Animator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done == nil {
		return false
	}
	select {
	case <-a.done:
		return false
	default:
		return true
	}
}

// Animate glides towards target. A glide already heading to target is left alone.
func (a *Animator) Animate(target int) {
	to := float64(target)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.target == to && a.done != nil {
		select {
		case <-a.done:
		default:
			return
		}
	}
	a.cancelLocked()
	a.gen++
	a.target = to
	if a.pos == to {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	a.cancel = cancel
	a.done = done
	go a.run(ctx, a.gen, done, a.pos, to, a.now())
}

// Jump cancels any glide and shows position immediately.
func (a *Animator) Jump(position float64) {
	a.mu.Lock()
	a.cancelLocked()
	a.gen++
	a.pos = position
	a.target = position
	a.mu.Unlock()

	a.onFrame(position)
}

// Stop cancels the glide in flight and waits for its goroutine to exit.
func (a *Animator) Stop() {
	a.mu.Lock()
	done := a.done
	a.cancelLocked()
	a.gen++
	a.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Wait blocks until the current glide ends or is cancelled.
func (a *Animator) Wait() {
	a.mu.Lock()
	done := a.done
	a.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (a *Animator) cancelLocked() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *Animator) run(ctx context.Context, gen uint64, done chan struct{}, from, to float64, start time.Time) {
	defer close(done)

	duration := Duration(from, to)
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pos, finished := Sample(from, to, a.now().Sub(start), duration)

			a.mu.Lock()
			if a.gen != gen {
				a.mu.Unlock()
				return
			}
			a.pos = pos
			a.mu.Unlock()

			a.onFrame(pos)
			if finished {
				return
			}
		}
	}
}
