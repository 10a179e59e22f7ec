// Package jukebox keeps the record player in step with preview playback and
// decides what each hall shows.
package jukebox

import (
	"context"
	"log"

	"hall-of-fame/internal/spotify"
)

// Hall indices, in the order the halls stand around the center.
const (
	Global = iota
	Regional
	Personal
)

// Turntable shows the track that is playing. A nil track parks it.
type Turntable interface {
	ChangeTrack(track *spotify.Track)
}

// Deck plays track previews.
type Deck interface {
	PlayPause(track *spotify.Track)
	Stop()
}

// Jukebox routes clicks on track slots to the deck and the turntable
// together. The turntable only moves when the deck does.
type Jukebox struct {
	turntable Turntable
	deck      Deck
}

func New(turntable Turntable, deck Deck) *Jukebox {
	return &Jukebox{turntable: turntable, deck: deck}
}

// Toggle plays track, pauses it if it is playing or swaps to it. A track
// without a preview is skipped and nothing changes.
func (j *Jukebox) Toggle(track *spotify.Track) {
	if track == nil {
		return
	}
	if track.PreviewURL == "" {
		log.Printf("[Jukebox] %q has no preview", track.Name)
		return
	}
	j.deck.PlayPause(track)
	j.turntable.ChangeTrack(track)
}

// Stop silences the deck and parks the turntable.
func (j *Jukebox) Stop() {
	j.deck.Stop()
	j.turntable.ChangeTrack(nil)
}

// SongEnded parks the turntable once the deck has stopped on its own.
func (j *Jukebox) SongEnded() {
	j.turntable.ChangeTrack(nil)
}

// Halls receives what Stock decides.
type Halls interface {
	Fill(ctx context.Context, hall int, tracks []spotify.Track)
	OfferLogin(ctx context.Context)
}

// Stock puts the two charts in the Global and Regional halls. The Personal
// hall gets the listener's own tops, or a login button without them.
func Stock(ctx context.Context, data *spotify.Data, halls Halls) {
	halls.Fill(ctx, Global, data.Global)
	halls.Fill(ctx, Regional, data.Regional)
	if data.HasPersonal() {
		halls.Fill(ctx, Personal, data.Personal)
		return
	}
	halls.OfferLogin(ctx)
}
