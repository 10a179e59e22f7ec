package text

import (
	"math"

	"hall-of-fame/core"
)

type Weight int

const (
	Regular Weight = iota
	Semibold
)

// Anchor selects which edge of each line sits on the group origin.
type Anchor int

const (
	AnchorLeft Anchor = iota
	AnchorCenter
	AnchorRight
)

// Shading selects the label material independently of the font weight.
type Shading int

const (
	// ShadingLit is a Phong material lit by the hall spotlights.
	ShadingLit Shading = iota
	// ShadingFlat ignores lighting.
	ShadingFlat
)

// DefaultSize is the glyph size in world units.
const DefaultSize = 0.1

// LineHeight is the baseline-to-baseline distance as a multiple of Size.
const LineHeight = 1.3

// Options configures one Layout call. The zero value of every field means
// "use the default"; see DefaultOptions.
type Options struct {
	Size     float32
	Weight   Weight
	Anchor   Anchor
	MaxWidth float32
	Color    core.Color
	Shading  Shading
}

func DefaultOptions() Options {
	return Options{
		Size:     DefaultSize,
		Weight:   Regular,
		Anchor:   AnchorLeft,
		MaxWidth: float32(math.Inf(1)),
		Color:    core.ColorWhite,
		Shading:  ShadingLit,
	}
}

func (o Options) resolve() Options {
	d := DefaultOptions()
	if o.Size <= 0 {
		o.Size = d.Size
	}
	if o.MaxWidth <= 0 {
		o.MaxWidth = d.MaxWidth
	}
	if o.Color == (core.Color{}) {
		o.Color = d.Color
	}
	return o
}
