/*
This file implements the per-room turn countdown. At most one armed timer
exists per room code; re-arming supersedes the previous timer and a
generation counter makes a superseded or cancelled timer's fire a no-op even
when it loses the race against Stop.
*/
package game

import (
	"sync"
	"time"
)

// DefaultTurnDuration is the per-turn countdown window.
const DefaultTurnDuration = 30 * time.Second

// TimerService schedules one-shot turn countdowns keyed by room code. The
// expire callback runs on the timer goroutine; it is expected to route back
// through the store's per-room serialization and Claim its generation there
// before touching any state, because a move that holds the room lock while
// the fire is in flight may re-arm and make the fire stale.
type TimerService struct {
	mu       sync.Mutex
	duration time.Duration
	seq      uint64
	armed    map[string]*armedTimer
	expire   func(code string, seq uint64)
}

type armedTimer struct {
	seq   uint64
	timer *time.Timer
}

// NewTimerService constructs a TimerService firing expire after duration.
func NewTimerService(duration time.Duration, expire func(code string, seq uint64)) *TimerService {
	return &TimerService{
		duration: duration,
		armed:    make(map[string]*armedTimer),
		expire:   expire,
	}
}

// Arm schedules the countdown for code, superseding any armed timer for the
// same code.
func (t *TimerService) Arm(code string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.armed[code]; ok {
		prev.timer.Stop()
	}

	t.seq++
	seq := t.seq
	t.armed[code] = &armedTimer{
		seq: seq,
		timer: time.AfterFunc(t.duration, func() {
			t.fire(code, seq)
		}),
	}
}

// Cancel stops the armed timer for code, if any. Called whenever a turn
// completes normally or the room is torn down.
func (t *TimerService) Cancel(code string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.armed[code]; ok {
		prev.timer.Stop()
		delete(t.armed, code)
	}
}

// StopAll cancels every armed timer. Used during shutdown.
func (t *TimerService) StopAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for code, entry := range t.armed {
		entry.timer.Stop()
		delete(t.armed, code)
	}
}

// Claim consumes the armed entry for code if seq is still its current
// generation. The callback calls it under the room lock; a false return means
// the timer was cancelled or superseded after firing and the expiry must be
// dropped.
func (t *TimerService) Claim(code string, seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, ok := t.armed[code]
	if !ok || current.seq != seq {
		return false
	}
	delete(t.armed, code)
	return true
}

// fire forwards an expiry to the callback. The entry stays armed so that the
// callback can Claim it once it holds the room lock; a cheap precheck here
// drops fires that are already known stale.
func (t *TimerService) fire(code string, seq uint64) {
	t.mu.Lock()
	current, ok := t.armed[code]
	stale := !ok || current.seq != seq
	t.mu.Unlock()
	if stale {
		return
	}

	t.expire(code, seq)
}

// Duration returns the configured countdown window.
func (t *TimerService) Duration() time.Duration {
	return t.duration
}
