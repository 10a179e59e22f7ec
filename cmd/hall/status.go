package main

import (
	"fmt"
	"strings"
	"time"

	"hall-of-fame/internal/frame"
)

// statusLine builds the window title: base name, frames per second and the
// number of assets that failed to load. It refreshes once a second.
type statusLine struct {
	base   string
	parts  []string
	frames int
	since  time.Duration
}

func newStatusLine(base string) *statusLine {
	return &statusLine{base: base}
}

func (s *statusLine) add(format string, args ...any) {
	s.parts = append(s.parts, fmt.Sprintf(format, args...))
}

// Frame counts one frame and returns a new title when one is due.
func (s *statusLine) Frame(fc frame.Context, failures int) (string, bool) {
	s.frames++
	s.since += fc.Delta
	if s.since < time.Second {
		return "", false
	}
	fps := float64(s.frames) / s.since.Seconds()
	s.frames, s.since = 0, 0

	s.parts = s.parts[:0]
	s.add("%s", s.base)
	s.add("FPS: %.0f", fps)
	if failures > 0 {
		s.add("%d assets failed", failures)
	}
	return strings.Join(s.parts, " | "), true
}
