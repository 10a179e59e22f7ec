package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Source fetches encoded previews.
type Source interface {
	Get(ctx context.Context, ref string) ([]byte, error)
}

// Speaker plays mp3 previews through the system audio device.
type Speaker struct {
	source Source

	initOnce sync.Once
	initErr  error
}

func NewSpeaker(source Source) *Speaker {
	return &Speaker{source: source}
}

func (s *Speaker) init() error {
	s.initOnce.Do(func() {
		s.initErr = speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond))
	})
	return s.initErr
}

func (s *Speaker) Open(ctx context.Context, url string, volume float64, ended func()) (Stream, error) {
	if err := s.init(); err != nil {
		return nil, fmt.Errorf("audio: init speaker: %w", err)
	}
	data, err := s.source.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	decoded, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("audio: decode %s: %w", url, err)
	}

	var streamer beep.Streamer = decoded
	if format.SampleRate != sampleRate {
		streamer = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}
	ctrl := &beep.Ctrl{Streamer: beep.Seq(gain(streamer, volume), beep.Callback(ended))}
	speaker.Play(ctrl)
	return &speakerStream{ctrl: ctrl, source: decoded}, nil
}

// gain scales s by a linear factor.
func gain(s beep.Streamer, linear float64) beep.Streamer {
	if linear <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(linear)}
}

type speakerStream struct {
	ctrl   *beep.Ctrl
	source beep.StreamSeekCloser
	once   sync.Once
}

func (s *speakerStream) SetPaused(paused bool) {
	speaker.Lock()
	s.ctrl.Paused = paused
	speaker.Unlock()
}

// Close detaches the stream from the speaker; a closed stream never
// reports its end.
func (s *speakerStream) Close() {
	s.once.Do(func() {
		speaker.Lock()
		s.ctrl.Streamer = nil
		speaker.Unlock()
		s.source.Close()
	})
}
