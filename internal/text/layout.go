// Package text lays out word-wrapped labels and turns them into textured
// quads for the scene graph.
package text

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"hall-of-fame/scene"
)

// Rect is a line's glyph bounds in world units, y up, origin on the baseline.
type Rect struct {
	MinX, MinY, MaxX, MaxY float32
}

func (r Rect) Width() float32 { return r.MaxX - r.MinX }

// Line is one laid-out line of a label.
type Line struct {
	Text   string
	Bounds Rect
	// Offset places the line's baseline origin inside the label group.
	Offset mgl32.Vec2
}

// Engine measures and builds labels. It only exists once fonts are loaded,
// so no layout can run before them.
type Engine struct {
	fonts *Fonts
}

func NewEngine(fonts *Fonts) *Engine {
	return &Engine{fonts: fonts}
}

// Measure returns the bounds of s on a single line.
func (e *Engine) Measure(s string, opts Options) Rect {
	opts = opts.resolve()
	return e.measure(s, opts.Weight, opts.Size)
}

func (e *Engine) measure(s string, w Weight, size float32) Rect {
	b := e.fonts.pixelBounds(s, w)
	k := size / rasterPx
	return Rect{
		MinX: toFloat(b.Min.X) * k,
		MaxX: toFloat(b.Max.X) * k,
		MinY: -toFloat(b.Max.Y) * k,
		MaxY: -toFloat(b.Min.Y) * k,
	}
}

// Lines wraps text to opts.MaxWidth and positions every line.
func (e *Engine) Lines(text string, opts Options) []Line {
	opts = opts.resolve()
	width := func(s string) float32 { return e.measure(s, opts.Weight, opts.Size).Width() }

	rows := wrap(text, opts.MaxWidth, width)
	lines := make([]Line, len(rows))
	for i, row := range rows {
		b := e.measure(row, opts.Weight, opts.Size)
		lines[i] = Line{
			Text:   row,
			Bounds: b,
			Offset: mgl32.Vec2{anchorOffset(opts.Anchor, b), -LineHeight * opts.Size * float32(i)},
		}
	}
	return lines
}

// Layout builds a group with one textured quad per line. The group is
// detached; callers attach it on the thread that owns the scene.
func (e *Engine) Layout(text string, opts Options) *scene.Node {
	opts = opts.resolve()
	group := scene.NewNode("text:" + text)
	for _, line := range e.Lines(text, opts) {
		mesh := e.rasterize(line.Text, opts)
		if mesh == nil {
			continue
		}
		n := scene.NewMeshNode(line.Text, mesh)
		n.SetPosition(mgl32.Vec3{line.Offset.X(), line.Offset.Y(), 0})
		group.AddChild(n)
	}
	return group
}

// wrap breaks text greedily: the whole string if it fits, otherwise words
// are added to the current line until the next one would overflow. A word
// that is wider than maxWidth on its own gets a line to itself.
func wrap(text string, maxWidth float32, width func(string) float32) []string {
	var lines []string
	for {
		if width(text) <= maxWidth {
			return append(lines, text)
		}
		words := strings.Split(text, " ")
		current := words[0]
		next := 1
		for next < len(words) {
			candidate := current + " " + words[next]
			if width(candidate) > maxWidth {
				break
			}
			current = candidate
			next++
		}
		lines = append(lines, current)
		if next >= len(words) {
			return lines
		}
		text = strings.Join(words[next:], " ")
	}
}

func anchorOffset(a Anchor, b Rect) float32 {
	switch a {
	case AnchorCenter:
		return -(b.MaxX + b.MinX) / 2
	case AnchorRight:
		return -b.MaxX
	default:
		return -b.MinX
	}
}
