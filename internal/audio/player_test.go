package audio

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"hall-of-fame/internal/frame"
	"hall-of-fame/internal/spotify"
)

type fakeStream struct {
	url    string
	paused bool
	closed bool
	ended  func()
}

func (s *fakeStream) SetPaused(p bool) { s.paused = p }
func (s *fakeStream) Close()           { s.closed = true }

type fakeBackend struct {
	opened  []*fakeStream
	volumes []float64
	err     error
}

func (b *fakeBackend) Open(ctx context.Context, url string, volume float64, ended func()) (Stream, error) {
	b.volumes = append(b.volumes, volume)
	if b.err != nil {
		return nil, b.err
	}
	s := &fakeStream{url: url, ended: ended}
	b.opened = append(b.opened, s)
	return s, nil
}

func preview(name string) *spotify.Track {
	return &spotify.Track{ID: name, Name: name, PreviewURL: "https://p.scdn.co/mp3-preview/" + name}
}

func newTestPlayer(b Backend) *Player {
	p := NewPlayer(b, frame.Immediate{})
	p.async = func(fn func()) { fn() }
	return p
}

func TestPlayPauseSameTrack(t *testing.T) {
	b := &fakeBackend{}
	p := newTestPlayer(b)
	a := preview("a")

	p.PlayPause(a)
	if st, ok := p.State().(Playing); !ok || st.URL != a.PreviewURL {
		t.Fatalf("state = %#v", p.State())
	}
	if len(b.opened) != 1 || b.volumes[0] != DefaultVolume {
		t.Fatalf("opened %d streams at %v", len(b.opened), b.volumes)
	}

	p.PlayPause(a)
	if _, ok := p.State().(Paused); !ok || !b.opened[0].paused {
		t.Errorf("second click should pause, state=%#v paused=%v", p.State(), b.opened[0].paused)
	}

	p.PlayPause(a)
	if _, ok := p.State().(Playing); !ok || b.opened[0].paused {
		t.Errorf("third click should resume, state=%#v paused=%v", p.State(), b.opened[0].paused)
	}
	if len(b.opened) != 1 {
		t.Errorf("resume should reuse the stream, opened %d", len(b.opened))
	}
}

func TestPlayPauseOtherTrack(t *testing.T) {
	tests := []struct {
		name  string
		pause bool
	}{
		{"from playing", false},
		{"from paused", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{}
			p := newTestPlayer(b)
			p.PlayPause(preview("a"))
			if tt.pause {
				p.PlayPause(preview("a"))
			}
			p.PlayPause(preview("b"))

			if st, ok := p.State().(Playing); !ok || st.URL != preview("b").PreviewURL {
				t.Fatalf("state = %#v", p.State())
			}
			if len(b.opened) != 2 || !b.opened[0].closed || b.opened[1].closed {
				t.Errorf("old stream should be closed and the new one open")
			}
		})
	}
}

func TestSongEnd(t *testing.T) {
	b := &fakeBackend{}
	p := newTestPlayer(b)
	ends := 0
	p.OnSongEnd(func() { ends++ })

	p.PlayPause(preview("a"))
	first := b.opened[0]
	p.PlayPause(preview("b"))

	first.ended()
	if ends != 0 {
		t.Error("an old stream ending should be ignored")
	}

	b.opened[1].ended()
	if ends != 1 {
		t.Fatalf("ends = %d", ends)
	}
	if _, ok := p.State().(Idle); !ok {
		t.Errorf("state after end = %#v", p.State())
	}

	// Same track again starts fresh rather than resuming.
	p.PlayPause(preview("b"))
	if len(b.opened) != 3 {
		t.Errorf("expected a new stream, opened %d", len(b.opened))
	}
}

func TestOpenFailure(t *testing.T) {
	b := &fakeBackend{err: errors.New("no device")}
	p := newTestPlayer(b)
	ends := 0
	p.OnSongEnd(func() { ends++ })

	p.PlayPause(preview("a"))
	if _, ok := p.State().(Idle); !ok || ends != 1 {
		t.Errorf("failed play should end the song, state=%#v ends=%d", p.State(), ends)
	}
}

func TestMissingPreviewIsSkipped(t *testing.T) {
	b := &fakeBackend{}
	p := newTestPlayer(b)
	p.PlayPause(&spotify.Track{ID: "x", Name: "no preview"})
	p.PlayPause(nil)
	if _, ok := p.State().(Idle); !ok || len(b.volumes) != 0 {
		t.Errorf("state=%#v opens=%d", p.State(), len(b.volumes))
	}
}

func TestPauseBeforeOpenLands(t *testing.T) {
	b := &fakeBackend{}
	p := newTestPlayer(b)
	var queued []func()
	p.async = func(fn func()) { queued = append(queued, fn) }

	p.PlayPause(preview("a"))
	p.PlayPause(preview("a"))
	queued[0]()
	if len(b.opened) != 1 || !b.opened[0].paused {
		t.Error("a stream opened after a pause should start paused")
	}

	p.PlayPause(preview("b"))
	p.Stop()
	queued[1]()
	if !b.opened[1].closed {
		t.Error("a stream opened after Stop should be closed right away")
	}
}

func TestGain(t *testing.T) {
	v, ok := gain(beep.Silence(1), 0.2).(*effects.Volume)
	if !ok {
		t.Fatal("expected an effects.Volume")
	}
	if got := math.Pow(v.Base, v.Volume); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("gain = %v", got)
	}
	if v := gain(beep.Silence(1), 0).(*effects.Volume); !v.Silent {
		t.Error("zero gain should be silent")
	}
}
