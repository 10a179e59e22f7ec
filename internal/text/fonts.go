package text

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// rasterPx is the em size, in pixels, every face is rasterized at. World
// size is applied by scaling the quad, so texture detail is per-em constant.
const rasterPx = 64

// Fonts holds one face per weight. Faces are not safe for concurrent use;
// every access goes through mu.
type Fonts struct {
	mu    sync.Mutex
	faces map[Weight]font.Face
}

// DefaultFonts loads the Go fonts bundled with x/image.
func DefaultFonts() (*Fonts, error) {
	return LoadFonts(goregular.TTF, gobold.TTF)
}

// LoadFonts parses TTF/OTF data for the regular and semibold weights.
func LoadFonts(regular, semibold []byte) (*Fonts, error) {
	f := &Fonts{faces: make(map[Weight]font.Face, 2)}
	for w, data := range map[Weight][]byte{Regular: regular, Semibold: semibold} {
		face, err := newFace(data)
		if err != nil {
			return nil, fmt.Errorf("weight %d: %w", w, err)
		}
		f.faces[w] = face
	}
	return f, nil
}

func newFace(data []byte) (font.Face, error) {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    rasterPx,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// pixelBounds measures s in raster pixels, y down, origin on the baseline.
func (f *Fonts) pixelBounds(s string, w Weight) fixed.Rectangle26_6 {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, _ := font.BoundString(f.face(w), s)
	return b
}

func (f *Fonts) face(w Weight) font.Face {
	if face, ok := f.faces[w]; ok {
		return face
	}
	return f.faces[Regular]
}

func toFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
