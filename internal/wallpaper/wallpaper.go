// Package wallpaper derives tiled wall and floor materials from a small set
// of source images, computing each one once.
package wallpaper

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/singleflight"

	"hall-of-fame/scene"
)

// TextureSource loads a decoded texture by reference.
type TextureSource interface {
	Texture(ctx context.Context, ref string) (*scene.Texture, error)
}

// Entry describes one wallpaper image. Width and Height give the pattern's
// aspect; Scale sets how many pattern repeats fit in one world unit.
type Entry struct {
	Source string
	Width  float32
	Height float32
	Scale  float32
}

// Pair holds the materials for the side walls and the end wall.
type Pair struct {
	Sides *scene.Material
	End   *scene.Material
}

// DefaultEntries are the three bundled wallpapers.
func DefaultEntries() []Entry {
	return []Entry{
		{Source: "images/wall1.png", Width: 300, Height: 325, Scale: 2},
		{Source: "images/wall2.png", Width: 240, Height: 458, Scale: 2},
		{Source: "images/wall3.png", Width: 400, Height: 400, Scale: 1},
	}
}

const (
	hallFloorSource   = "images/floor.jpg"
	centerFloorSource = "images/center_floor.png"
)

// Manager memoizes wallpaper pairs by index. The dimensions passed to the
// first Get for an index decide its tiling; later calls get the cached pair
// whatever they pass.
type Manager struct {
	src     TextureSource
	entries []Entry

	mu          sync.Mutex
	pairs       map[int]Pair
	hallFloor   *scene.Material
	centerFloor *scene.Material

	group singleflight.Group
}

func NewManager(src TextureSource, entries []Entry) *Manager {
	if entries == nil {
		entries = DefaultEntries()
	}
	return &Manager{
		src:     src,
		entries: entries,
		pairs:   make(map[int]Pair),
	}
}

// Len is the number of configured wallpapers.
func (m *Manager) Len() int { return len(m.entries) }

func (m *Manager) Get(ctx context.Context, index int, hallWidth, hallHeight, wallLength float32) (Pair, error) {
	if index < 0 || index >= len(m.entries) {
		return Pair{}, fmt.Errorf("wallpaper index %d out of range [0, %d)", index, len(m.entries))
	}
	if p, ok := m.cached(index); ok {
		return p, nil
	}

	v, err, _ := m.group.Do("wall:"+strconv.Itoa(index), func() (interface{}, error) {
		if p, ok := m.cached(index); ok {
			return p, nil
		}
		e := m.entries[index]
		tex, err := m.src.Texture(ctx, e.Source)
		if err != nil {
			return Pair{}, err
		}

		ratio := e.Height
		if ratio <= 0 {
			ratio = 1
		}
		vRepeat := e.Scale * (hallHeight * e.Width / ratio)

		sides := tex.Clone()
		sides.Repeat = mgl32.Vec2{e.Scale * wallLength, vRepeat}
		end := tex
		end.Repeat = mgl32.Vec2{e.Scale * hallWidth, vRepeat}

		p := Pair{
			Sides: scene.NewTexturedMaterial(fmt.Sprintf("wallpaper%d-sides", index), sides),
			End:   scene.NewTexturedMaterial(fmt.Sprintf("wallpaper%d-end", index), end),
		}
		m.mu.Lock()
		m.pairs[index] = p
		m.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return Pair{}, fmt.Errorf("wallpaper %d: %w", index, err)
	}
	return v.(Pair), nil
}

func (m *Manager) cached(index int) (Pair, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pairs[index]
	return p, ok
}

// HallFloor is the tiled wooden floor shared by every hall.
func (m *Manager) HallFloor(ctx context.Context) (*scene.Material, error) {
	return m.single(ctx, hallFloorSource, &m.hallFloor, func(tex *scene.Texture) *scene.Material {
		tex.Repeat = mgl32.Vec2{1, 5}
		return scene.NewTexturedMaterial("hall-floor", tex)
	})
}

// CenterFloor covers the triangle where the three halls meet.
func (m *Manager) CenterFloor(ctx context.Context) (*scene.Material, error) {
	return m.single(ctx, centerFloorSource, &m.centerFloor, func(tex *scene.Texture) *scene.Material {
		mat := scene.NewTexturedMaterial("center-floor", tex)
		mat.Transparent = true
		return mat
	})
}

func (m *Manager) single(ctx context.Context, source string, slot **scene.Material, build func(*scene.Texture) *scene.Material) (*scene.Material, error) {
	m.mu.Lock()
	if *slot != nil {
		mat := *slot
		m.mu.Unlock()
		return mat, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do(source, func() (interface{}, error) {
		m.mu.Lock()
		if *slot != nil {
			mat := *slot
			m.mu.Unlock()
			return mat, nil
		}
		m.mu.Unlock()

		tex, err := m.src.Texture(ctx, source)
		if err != nil {
			return nil, err
		}
		mat := build(tex)
		m.mu.Lock()
		*slot = mat
		m.mu.Unlock()
		return mat, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return v.(*scene.Material), nil
}
