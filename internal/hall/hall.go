// Package hall builds the rooms of the hall of fame: floor, walls, ten
// track slots and the end-wall title, rotated about the shared center where
// the three halls meet.
package hall

import (
	"context"
	"errors"
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"

	"hall-of-fame/internal/frame"
	"hall-of-fame/internal/text"
	"hall-of-fame/internal/wallpaper"
	"hall-of-fame/scene"
)

// Room dimensions in world units.
const (
	Width  = 5.0
	Length = 20.0
	Height = 4.0

	TrackSlotCount = 10
)

// Apothem is the distance from the shared center to the mouth of each hall.
// Three halls at 120° apart close a hexagon of side Width around it.
func Apothem() float32 {
	return float32(Width / (2 * math.Sqrt(3)))
}

// WallLength is the span of a side wall, from the hall mouth to the end.
func WallLength() float32 {
	return Length - Apothem()
}

// SlotZ is the depth of track slot i. Slots come in left/right pairs and
// step toward the mouth as i grows.
func SlotZ(i int) float32 {
	return WallLength() * (0.97 - float32(i/2)/5.5)
}

var ErrNoText = errors.New("hall: fonts not loaded")

// Config selects a hall's placement and end-wall title.
type Config struct {
	Rotation       float32
	Title          string
	TrackSlotCount int
}

// WallpaperSource provides wall and floor materials.
type WallpaperSource interface {
	Get(ctx context.Context, index int, hallWidth, hallHeight, wallLength float32) (wallpaper.Pair, error)
	HallFloor(ctx context.Context) (*scene.Material, error)
}

// CoverSource provides album cover materials in input order.
type CoverSource interface {
	FetchMaterials(ctx context.Context, urls []string) ([]*scene.Material, error)
}

// Deps are the collaborators a hall decorates itself with. Text may be set
// later with UseText, once fonts are loaded.
type Deps struct {
	Scheduler  frame.Scheduler
	Wallpapers WallpaperSource
	Covers     CoverSource
	Text       *text.Engine
}

// Hall is one room. Its nodes are created detached by New; attach Root to
// the scene on the main thread. Mutators block until the scheduler has
// applied their scene changes.
type Hall struct {
	cfg  Config
	deps Deps

	Root      *scene.Node
	floor     *scene.Node
	leftWall  *scene.Node
	rightWall *scene.Node
	endWall   *scene.Node
	title     *scene.Node
	slots     []*scene.Node
	login     *scene.Node

	spring  harmonica.Spring
	slide   slide
	stepAcc float64
}

// slide animates the end wall along z.
type slide struct {
	active   bool
	pos, vel float64
	target   float64
}

const springFPS = 60

func New(cfg Config, deps Deps) *Hall {
	if cfg.TrackSlotCount <= 0 || cfg.TrackSlotCount > TrackSlotCount {
		cfg.TrackSlotCount = TrackSlotCount
	}
	h := &Hall{
		cfg:    cfg,
		deps:   deps,
		Root:   scene.NewNode("hall:" + cfg.Title),
		spring: harmonica.NewSpring(harmonica.FPS(springFPS), 4.0, 1.0),
	}
	h.Root.RotateY(cfg.Rotation)

	a := Apothem()
	wallLen := WallLength()
	mid := (Length + a) / 2
	blank := scene.NewMaterial("hall-blank", scene.DefaultMaterial().Albedo)
	blank.DoubleSided = true

	floorMesh := scene.CreatePlane(Width, wallLen)
	floorMesh.Material = blank
	h.floor = scene.NewMeshNode("floor", floorMesh)
	h.floor.SetPosition(mgl32.Vec3{0, 0, mid})
	h.floor.RotateX(-math.Pi / 2)

	wallMesh := scene.CreatePlane(wallLen, Height)
	wallMesh.Material = blank

	h.leftWall = scene.NewMeshNode("wall:left", wallMesh)
	h.leftWall.SetPosition(mgl32.Vec3{Width / 2, Height / 2, mid})
	h.leftWall.RotateY(-math.Pi / 2)

	h.rightWall = scene.NewMeshNode("wall:right", wallMesh)
	h.rightWall.SetPosition(mgl32.Vec3{-Width / 2, Height / 2, mid})
	h.rightWall.RotateY(math.Pi / 2)

	endMesh := scene.CreatePlane(Width, Height)
	endMesh.Material = blank
	h.endWall = scene.NewMeshNode("wall:end", endMesh)
	h.endWall.SetPosition(mgl32.Vec3{0, Height / 2, Length})
	h.endWall.RotateY(math.Pi)

	h.title = scene.NewNode("title")
	h.title.SetPosition(mgl32.Vec3{0, 0.6, 0.01})
	h.endWall.AddChild(h.title)

	h.Root.AddChild(h.floor)
	h.Root.AddChild(h.leftWall)
	h.Root.AddChild(h.rightWall)
	h.Root.AddChild(h.endWall)

	h.slots = make([]*scene.Node, cfg.TrackSlotCount)
	for i := range h.slots {
		h.slots[i] = newSlot(i)
		h.Root.AddChild(h.slots[i])
	}
	return h
}

// newSlot places an empty anchor on the wall surface, facing into the room.
func newSlot(i int) *scene.Node {
	slot := scene.NewNode("slot")
	x := float32(Width/2 - 0.01)
	rot := float32(-math.Pi / 2)
	if i%2 == 1 {
		x, rot = -x, -rot
	}
	slot.SetPosition(mgl32.Vec3{x, 2, SlotZ(i)})
	slot.RotateY(rot)
	return slot
}

func (h *Hall) Config() Config { return h.cfg }

// UseText supplies the text engine once fonts are loaded.
func (h *Hall) UseText(e *text.Engine) { h.deps.Text = e }

// Walls returns the left, right and end walls for collision.
func (h *Hall) Walls() []*scene.Node {
	return []*scene.Node{h.leftWall, h.rightWall, h.endWall}
}

// Slots returns the track slot anchors in slot order.
func (h *Hall) Slots() []*scene.Node { return h.slots }

// EndWallZ is the end wall's current depth in hall space.
func (h *Hall) EndWallZ() float32 { return h.endWall.Position().Z() }

// Update advances the end-wall slide. Main thread only.
func (h *Hall) Update(fc frame.Context) {
	if !h.slide.active {
		return
	}
	h.stepAcc += fc.Delta.Seconds()
	step := 1.0 / springFPS
	for h.stepAcc >= step {
		h.slide.pos, h.slide.vel = h.spring.Update(h.slide.pos, h.slide.vel, h.slide.target)
		h.stepAcc -= step
	}
	if math.Abs(h.slide.pos-h.slide.target) < 1e-3 && math.Abs(h.slide.vel) < 1e-3 {
		h.slide = slide{pos: h.slide.target}
		h.stepAcc = 0
	}
	h.setEndWallZ(float32(h.slide.pos))
}

func (h *Hall) setEndWallZ(z float32) {
	p := h.endWall.Position()
	h.endWall.SetPosition(mgl32.Vec3{p.X(), p.Y(), z})
}

func (h *Hall) textEngine() (*text.Engine, error) {
	if h.deps.Text == nil {
		return nil, ErrNoText
	}
	return h.deps.Text, nil
}
