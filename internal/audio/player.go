// Package audio plays track previews. Player holds the play/pause state
// machine; Backend does the decoding and output.
package audio

import (
	"context"
	"log"

	"hall-of-fame/internal/frame"
	"hall-of-fame/internal/spotify"
)

// DefaultVolume is the linear gain previews play at.
const DefaultVolume = 0.2

// State is one of Idle, Playing or Paused.
type State interface{ isState() }

type Idle struct{}

type Playing struct{ URL string }

type Paused struct{ URL string }

func (Idle) isState()    {}
func (Playing) isState() {}
func (Paused) isState()  {}

// Stream is a preview that is being played.
type Stream interface {
	SetPaused(paused bool)
	Close()
}

// Backend opens previews.
type Backend interface {
	// Open fetches and decodes url and starts playing it at volume. ended
	// may be called from any goroutine once the stream runs out.
	Open(ctx context.Context, url string, volume float64, ended func()) (Stream, error)
}

// Player toggles previews on and off. Its methods run on the main thread;
// opening a stream happens in the background and lands through sched.
type Player struct {
	Volume float64

	backend Backend
	sched   frame.Scheduler
	async   func(func())

	state  State
	stream Stream
	// gen increases whenever a new stream is requested; callbacks from an
	// older stream are ignored.
	gen       uint64
	onSongEnd func()
}

func NewPlayer(backend Backend, sched frame.Scheduler) *Player {
	return &Player{
		Volume:  DefaultVolume,
		backend: backend,
		sched:   sched,
		async:   func(fn func()) { go fn() },
		state:   Idle{},
	}
}

// OnSongEnd sets the callback run when a preview finishes or fails to play.
func (p *Player) OnSongEnd(fn func()) { p.onSongEnd = fn }

func (p *Player) State() State { return p.state }

// PlayPause starts track, pauses it if it is the one playing, or resumes
// it if it is the one paused. Any other track replaces the current one.
func (p *Player) PlayPause(track *spotify.Track) {
	if track == nil {
		return
	}
	url := track.PreviewURL
	if url == "" {
		log.Printf("[Audio] %q has no preview", track.Name)
		return
	}

	switch st := p.state.(type) {
	case Idle:
		p.reset(url)
	case Playing:
		p.setPaused(true)
		if st.URL == url {
			p.state = Paused{URL: url}
			return
		}
		p.reset(url)
	case Paused:
		if st.URL == url {
			p.setPaused(false)
			p.state = Playing{URL: url}
			return
		}
		p.reset(url)
	}
}

// Stop closes the current stream without firing OnSongEnd.
func (p *Player) Stop() {
	p.gen++
	p.closeStream()
	p.state = Idle{}
}

func (p *Player) setPaused(paused bool) {
	if p.stream != nil {
		p.stream.SetPaused(paused)
	}
}

func (p *Player) closeStream() {
	if p.stream != nil {
		p.stream.Close()
		p.stream = nil
	}
}

func (p *Player) reset(url string) {
	p.closeStream()
	p.gen++
	gen := p.gen
	p.state = Playing{URL: url}
	volume := p.Volume

	p.async(func() {
		stream, err := p.backend.Open(context.Background(), url, volume, func() {
			p.sched.Post(func() { p.ended(gen) })
		})
		p.sched.Post(func() {
			if gen != p.gen {
				if stream != nil {
					stream.Close()
				}
				return
			}
			if err != nil {
				log.Printf("[Audio] play %s: %v", url, err)
				p.finish()
				return
			}
			p.stream = stream
			if _, paused := p.state.(Paused); paused {
				stream.SetPaused(true)
			}
		})
	})
}

func (p *Player) ended(gen uint64) {
	if gen != p.gen {
		return
	}
	p.closeStream()
	p.finish()
}

func (p *Player) finish() {
	p.gen++
	p.state = Idle{}
	if p.onSongEnd != nil {
		p.onSongEnd()
	}
}
