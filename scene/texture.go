package scene

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	"github.com/go-gl/mathgl/mgl32"
)

// Image holds CPU-side pixel data shared by one or more textures.
// GLID is set by the OpenGL backend after upload; do not access directly.
type Image struct {
	Name   string
	Width  int
	Height int
	// Pixels in RGBA8 format (4 bytes per pixel, row-major, top-to-bottom).
	Pixels []byte
	// GLID is the OpenGL texture object ID, set lazily by the renderer.
	GLID uint32
}

// Texture samples an Image with its own tiling. Cloning a texture shares the
// image so differently tiled surfaces cost one upload.
type Texture struct {
	Image  *Image
	Repeat mgl32.Vec2
}

func NewTexture(img *Image) *Texture {
	return &Texture{Image: img, Repeat: mgl32.Vec2{1, 1}}
}

// Clone returns an independent texture sharing the same image.
func (t *Texture) Clone() *Texture {
	c := *t
	return &c
}

func (t *Texture) Name() string {
	if t.Image == nil {
		return ""
	}
	return t.Image.Name
}

// DecodeTexture decodes PNG or JPEG bytes into an RGBA8 texture.
func DecodeTexture(name string, data []byte) (*Texture, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", name, err)
	}
	return NewTexture(ImageFromRGBA(name, toRGBA(src))), nil
}

// ImageFromRGBA wraps an already decoded RGBA image.
func ImageFromRGBA(name string, rgba *image.RGBA) *Image {
	b := rgba.Bounds()
	return &Image{
		Name:   name,
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: rgba.Pix,
	}
}

// NewSolidTexture creates a 1x1 texture with the given RGBA color values (0–255).
func NewSolidTexture(name string, r, g, b, a uint8) *Texture {
	return NewTexture(&Image{
		Name:   name,
		Width:  1,
		Height: 1,
		Pixels: []byte{r, g, b, a},
	})
}

func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok && rgba.Stride == rgba.Rect.Dx()*4 && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	return rgba
}
