// Package recordplayer animates the miniature record player that rides
// below the camera, spinning the cover of the track being played.
package recordplayer

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"hall-of-fame/core"
	"hall-of-fame/internal/frame"
	"hall-of-fame/internal/spotify"
	"hall-of-fame/scene"
)

const (
	ModelRef     = "models/record_player/scene.gltf"
	NoteModelRef = "models/note/scene.gltf"

	NoteCount = 9

	tilt = -0.4 * math.Pi
	// spinRate is the album's turn in radians per millisecond.
	spinRate = -0.0005
	// noteExtent is the diagonal a note model is normalized to before the
	// particle scale applies.
	noteExtent = 5
)

var notesOffset = mgl32.Vec3{0, 0.6, 0}

// State is the playback state: NotPlaying or Playing.
type State interface{ isState() }

type NotPlaying struct{}

type Playing struct{ TrackID string }

func (NotPlaying) isState() {}
func (Playing) isState()    {}

// ModelSource loads glTF scenes.
type ModelSource interface {
	Model(ctx context.Context, ref string) (*scene.Node, error)
}

// CoverSource resolves cover URLs to materials.
type CoverSource interface {
	FetchMaterials(ctx context.Context, urls []string) ([]*scene.Material, error)
}

// Player is the record player. All methods except Load run on the main
// thread.
type Player struct {
	Root  *scene.Node
	Notes *Notes

	camera *scene.Camera
	covers CoverSource
	sched  frame.Scheduler

	album *scene.Node
	state State
	// gen increases on every track change; a cover fetch only applies if
	// no change happened while it was in flight.
	gen   uint64
	async func(func())
}

func New(camera *scene.Camera, covers CoverSource, sched frame.Scheduler) *Player {
	p := &Player{
		Root:   scene.NewNode("record-player"),
		camera: camera,
		covers: covers,
		sched:  sched,
		state:  NotPlaying{},
		async:  func(fn func()) { go fn() },
	}

	light := scene.NewNode("record-player:light")
	light.Light = &scene.Light{
		Type:      scene.LightTypeDirectional,
		Direction: mgl32.Vec3{0, -1, 0},
		Color:     core.ColorWhite,
		Intensity: 0.2,
	}
	light.TranslateY(1)
	p.Root.AddChild(light)

	ring := scene.CreateRing(0.1, 0.75, 32, 2)
	ring.Material = scene.DefaultMaterial()
	p.album = scene.NewMeshNode("album", ring)
	p.album.RotateX(tilt)
	p.album.TranslateX(-0.2)
	p.album.TranslateZ(0.47)

	p.Notes = NewNotes(placeholderNote(), NoteCount, nil)
	p.Notes.Root.SetPosition(notesOffset)
	p.Root.AddChild(p.Notes.Root)
	return p
}

// Load fetches the player and note models and mounts them. A missing model
// is replaced with a simple stand-in; the error is still returned.
func (p *Player) Load(ctx context.Context, models ModelSource) error {
	var errs []error
	model, err := models.Model(ctx, ModelRef)
	if err != nil {
		errs = append(errs, err)
		model = placeholderPlayer()
	}
	model.RotateX(tilt)
	model.TranslateX(0.2)

	var notes *Notes
	if noteModel, err := models.Model(ctx, NoteModelRef); err != nil {
		errs = append(errs, err)
	} else {
		if b, ok := noteModel.Bounds(); ok && b.Size().Len() > 0 {
			noteModel.SetUniformScale(noteExtent / b.Size().Len())
		}
		notes = NewNotes(noteModel, NoteCount, nil)
		notes.Root.SetPosition(notesOffset)
	}

	doErr := p.sched.Do(ctx, func() {
		p.Root.AddChild(model)
		if notes != nil {
			p.Notes.Root.RemoveFromParent()
			p.Notes = notes
			p.Root.AddChild(notes.Root)
		}
	})
	if doErr != nil {
		return doErr
	}
	if len(errs) > 0 {
		return fmt.Errorf("record player: %w", errs[0])
	}
	return nil
}

func (p *Player) State() State { return p.state }

// ChangeTrack plays, swaps or stops. A nil track, or the track already
// playing, stops playback. Starting from silence also starts the notes;
// swapping tracks leaves them running.
func (p *Player) ChangeTrack(track *spotify.Track) {
	switch st := p.state.(type) {
	case NotPlaying:
		if track == nil {
			return
		}
		p.play(track)
		p.Notes.Play()
	case Playing:
		if track == nil || track.ID == st.TrackID {
			p.stop()
			return
		}
		p.play(track)
	}
}

func (p *Player) play(track *spotify.Track) {
	p.state = Playing{TrackID: track.ID}
	p.gen++
	gen := p.gen
	url := track.CoverURL()
	p.async(func() {
		mats, err := p.covers.FetchMaterials(context.Background(), []string{url})
		if err != nil {
			log.Printf("[RecordPlayer] cover for %s: %v", track.ID, err)
		}
		if len(mats) == 0 {
			return
		}
		p.sched.Post(func() {
			if gen != p.gen {
				return
			}
			p.album.Mesh = p.album.Mesh.WithMaterial(mats[0])
			if p.album.Parent == nil {
				p.Root.AddChild(p.album)
			}
		})
	})
}

func (p *Player) stop() {
	p.state = NotPlaying{}
	p.gen++
	p.Notes.Pause()
	p.album.RemoveFromParent()
}

// AlbumMounted reports whether the spinning cover is attached.
func (p *Player) AlbumMounted() bool { return p.album.Parent != nil }

// Update re-anchors the player below and ahead of the camera, spins the
// album and advances the notes.
func (p *Player) Update(fc frame.Context) {
	p.Root.SetPosition(p.camera.Position)
	p.Root.SetRotation(p.camera.Rotation())
	p.Root.TranslateY(-1.2)
	p.Root.TranslateZ(-4)

	if p.album.Parent != nil {
		p.album.RotateZ(spinRate * fc.DeltaMs)
	}
	p.Notes.Update(fc)
}

func placeholderPlayer() *scene.Node {
	base := scene.CreateRegularPolygon(1, 4)
	base.Material = scene.NewMaterial("record-player:placeholder", core.ColorHex(0x3a2a1a))
	base.Material.DoubleSided = true
	return scene.NewMeshNode("record-player:placeholder", base)
}

func placeholderNote() *scene.Node {
	ball := scene.CreateSphere(noteExtent/4, 12, 8)
	ball.Material = scene.NewBasicMaterial("note:placeholder", core.ColorWhite)
	return scene.NewMeshNode("note:placeholder", ball)
}
