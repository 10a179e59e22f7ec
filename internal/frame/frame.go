// Package frame drives the per-frame clock and confines scene mutation to
// the render thread.
package frame

import (
	"time"
)

// Context is handed to every updater once per rendered frame.
type Context struct {
	Frame   uint64
	Now     time.Time
	Delta   time.Duration
	DeltaMs float32
}

// maxDelta caps a single step so a stalled frame (window drag, breakpoint)
// does not teleport the camera through a wall.
const maxDelta = 100 * time.Millisecond

// Loop produces one Context per Tick.
type Loop struct {
	now   func() time.Time
	last  time.Time
	frame uint64
}

func NewLoop() *Loop {
	return &Loop{now: time.Now}
}

// Tick advances the clock. The first tick has a zero delta.
func (l *Loop) Tick() Context {
	now := l.now()
	var dt time.Duration
	if !l.last.IsZero() {
		dt = now.Sub(l.last)
	}
	if dt > maxDelta {
		dt = maxDelta
	}
	l.last = now
	l.frame++
	return Context{
		Frame:   l.frame,
		Now:     now,
		Delta:   dt,
		DeltaMs: float32(dt) / float32(time.Millisecond),
	}
}

// At builds a Context for a fixed step; used by tests and tools.
func At(frame uint64, deltaMs float32) Context {
	return Context{
		Frame:   frame,
		Delta:   time.Duration(deltaMs * float32(time.Millisecond)),
		DeltaMs: deltaMs,
	}
}
