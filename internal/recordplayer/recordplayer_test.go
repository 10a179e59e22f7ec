package recordplayer

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"hall-of-fame/core"
	"hall-of-fame/internal/frame"
	"hall-of-fame/internal/spotify"
	"hall-of-fame/scene"
)

type fakeCovers struct {
	urls []string
	err  error
}

func (f *fakeCovers) FetchMaterials(ctx context.Context, urls []string) ([]*scene.Material, error) {
	f.urls = append(f.urls, urls...)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*scene.Material, len(urls))
	for i, u := range urls {
		out[i] = scene.NewMaterial("cover:"+u, core.ColorWhite)
	}
	return out, nil
}

type fakeModels struct {
	models map[string]*scene.Node
}

var errMissing = errors.New("missing")

func (f *fakeModels) Model(ctx context.Context, ref string) (*scene.Node, error) {
	if n, ok := f.models[ref]; ok {
		return n, nil
	}
	return nil, errMissing
}

func track(id string) *spotify.Track {
	return &spotify.Track{
		ID:    id,
		Name:  "Song " + id,
		Album: spotify.Album{Images: []spotify.Image{{URL: "https://i.scdn.co/" + id}}},
	}
}

func newTestPlayer(covers CoverSource) *Player {
	cam := scene.NewCamera(mgl32.DegToRad(45), 1, 0.1, 100)
	p := New(cam, covers, frame.Immediate{})
	p.async = func(fn func()) { fn() }
	return p
}

func albumName(p *Player) string {
	if p.album.Mesh == nil || p.album.Mesh.Material == nil {
		return ""
	}
	return p.album.Mesh.Material.Name
}

func TestChangeTrackTransitions(t *testing.T) {
	p := newTestPlayer(&fakeCovers{})

	p.ChangeTrack(nil)
	if _, ok := p.State().(NotPlaying); !ok || p.Notes.plays != 0 {
		t.Fatalf("nil while stopped should do nothing, state=%#v plays=%d", p.State(), p.Notes.plays)
	}

	p.ChangeTrack(track("a"))
	if st, ok := p.State().(Playing); !ok || st.TrackID != "a" {
		t.Fatalf("state = %#v, want Playing(a)", p.State())
	}
	if !p.AlbumMounted() || albumName(p) != "cover:https://i.scdn.co/a" {
		t.Errorf("album should show a's cover, mounted=%v material=%q", p.AlbumMounted(), albumName(p))
	}

	p.ChangeTrack(track("b"))
	if st, ok := p.State().(Playing); !ok || st.TrackID != "b" {
		t.Fatalf("state = %#v, want Playing(b)", p.State())
	}
	if p.Notes.plays != 1 {
		t.Errorf("switching tracks should not restart the notes, plays=%d", p.Notes.plays)
	}
	if albumName(p) != "cover:https://i.scdn.co/b" {
		t.Errorf("album material = %q", albumName(p))
	}

	p.ChangeTrack(track("b"))
	if _, ok := p.State().(NotPlaying); !ok {
		t.Fatalf("same track again should stop, state=%#v", p.State())
	}
	if p.AlbumMounted() {
		t.Error("album should be detached once stopped")
	}

	p.ChangeTrack(track("a"))
	p.ChangeTrack(nil)
	if _, ok := p.State().(NotPlaying); !ok {
		t.Errorf("nil while playing should stop, state=%#v", p.State())
	}
	if p.Notes.plays != 2 {
		t.Errorf("plays = %d, want 2", p.Notes.plays)
	}
}

func TestStaleCoverIsDiscarded(t *testing.T) {
	p := newTestPlayer(&fakeCovers{})
	var queued []func()
	p.async = func(fn func()) { queued = append(queued, fn) }

	p.ChangeTrack(track("a"))
	p.ChangeTrack(track("b"))
	if len(queued) != 2 {
		t.Fatalf("expected two fetches, got %d", len(queued))
	}

	// b's fetch lands first, then the late one for a.
	queued[1]()
	queued[0]()
	if albumName(p) != "cover:https://i.scdn.co/b" {
		t.Errorf("late fetch for a overwrote b, material=%q", albumName(p))
	}

	p.ChangeTrack(track("c"))
	p.ChangeTrack(nil)
	queued[2]()
	if p.AlbumMounted() {
		t.Error("a fetch finishing after stop should not remount the album")
	}
}

func TestCoverErrorLeavesAlbumDetached(t *testing.T) {
	p := newTestPlayer(&fakeCovers{err: errors.New("offline")})
	p.ChangeTrack(track("a"))
	if _, ok := p.State().(Playing); !ok {
		t.Errorf("playback state should not depend on the cover, got %#v", p.State())
	}
	if p.AlbumMounted() {
		t.Error("album should stay detached without a cover")
	}
}

func TestUpdateFollowsCamera(t *testing.T) {
	p := newTestPlayer(&fakeCovers{})
	p.camera.Position = mgl32.Vec3{1, 2, 3}

	p.Update(frame.At(1, 16))
	if want := (mgl32.Vec3{1, 0.8, -1}); !p.Root.Position().ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("position = %v, want %v", p.Root.Position(), want)
	}

	p.camera.SetYawPitch(math.Pi/2, 0)
	p.Update(frame.At(2, 16))
	if want := (mgl32.Vec3{-3, 0.8, 3}); !p.Root.Position().ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("turned left: position = %v, want %v", p.Root.Position(), want)
	}
}

func TestAlbumSpinsOnlyWhileMounted(t *testing.T) {
	p := newTestPlayer(&fakeCovers{})
	before := p.album.Transform.Rotation
	p.Update(frame.At(1, 100))
	if p.album.Transform.Rotation != before {
		t.Error("detached album should not spin")
	}

	p.ChangeTrack(track("a"))
	p.Update(frame.At(2, 100))
	if p.album.Transform.Rotation.ApproxEqual(before) {
		t.Error("mounted album should spin")
	}
}

func TestLoadFallsBackToPlaceholders(t *testing.T) {
	p := newTestPlayer(&fakeCovers{})
	oldNotes := p.Notes

	err := p.Load(context.Background(), &fakeModels{})
	if !errors.Is(err, errMissing) {
		t.Fatalf("Load error = %v, want wrapped errMissing", err)
	}
	if p.Root.Find("record-player:placeholder") == nil {
		t.Error("missing player model should mount a placeholder")
	}
	if p.Notes != oldNotes || oldNotes.Root.Parent != p.Root {
		t.Error("placeholder notes should stay mounted when the note model is missing")
	}
}

func TestLoadMountsModels(t *testing.T) {
	p := newTestPlayer(&fakeCovers{})
	player := scene.NewMeshNode("turntable", scene.CreateRegularPolygon(1, 6))
	note := scene.NewMeshNode("quaver", scene.CreateSphere(4, 8, 6))
	b, ok := note.Bounds()
	if !ok || b.Size().Len() <= 0 {
		t.Fatal("note bounds")
	}
	wantScale := noteExtent / b.Size().Len()

	err := p.Load(context.Background(), &fakeModels{models: map[string]*scene.Node{
		ModelRef:     player,
		NoteModelRef: note,
	}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if player.Parent != p.Root {
		t.Error("player model should hang off the root")
	}
	if p.Notes.Root.Parent != p.Root || len(p.Notes.notes) != NoteCount {
		t.Errorf("notes not mounted: parent=%v count=%d", p.Notes.Root.Parent, len(p.Notes.notes))
	}
	if s := note.Transform.Scale.X(); math.Abs(float64(s-wantScale)) > 1e-5 {
		t.Errorf("note model scale = %v", s)
	}
}

func TestNotesCycle(t *testing.T) {
	ns := NewNotes(placeholderNote(), 4, rand.New(rand.NewPCG(1, 2)))
	ns.Play()
	if len(ns.pending) != 4 {
		t.Fatalf("pending = %d", len(ns.pending))
	}

	step := frame.At(0, 50)
	for elapsed := 0; elapsed < CycleMs; elapsed += 50 {
		ns.Update(step)
	}
	if len(ns.pending) != 0 {
		t.Fatalf("every note should have started within one cycle, %d pending", len(ns.pending))
	}
	if ns.Active() == 0 {
		t.Fatal("expected live notes")
	}

	ns.Pause()
	for elapsed := 0; elapsed < 2*CycleMs; elapsed += 50 {
		ns.Update(step)
	}
	if n := ns.Active(); n != 0 {
		t.Errorf("paused notes should run out, %d still visible", n)
	}
	for _, n := range ns.notes {
		if n.node.Position() != (mgl32.Vec3{}) {
			t.Errorf("finished note should be back at its origin, at %v", n.node.Position())
		}
	}
}

func TestNoteLoops(t *testing.T) {
	n := newNote(scene.NewNode("n"))
	n.start()
	peak := float32(0)
	restarted := false
	for i := 0; i < 2*CycleMs/10; i++ {
		prev := n.elapsed
		n.update(10)
		peak = max(peak, n.scale)
		if n.elapsed < prev {
			restarted = true
		}
	}
	if peak <= 0.04 || peak > 0.1 {
		t.Errorf("peak scale = %v", peak)
	}
	if !restarted {
		t.Error("a playing note should restart after shrinking away")
	}
	if n.node.Position().Y() <= 0 {
		t.Error("note should drift up while alive")
	}
}
