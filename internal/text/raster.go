package text

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"hall-of-fame/scene"
)

// rasterPad keeps antialiased edges from touching the texture border.
const rasterPad = 2

// rasterize draws one line into an RGBA texture and returns a quad sized to
// it in world units. Glyphs are white; the material carries the color.
func (e *Engine) rasterize(s string, opts Options) *scene.Mesh {
	f := e.fonts
	f.mu.Lock()
	face := f.face(opts.Weight)
	b, _ := font.BoundString(face, s)
	minX, minY := b.Min.X.Floor()-rasterPad, b.Min.Y.Floor()-rasterPad
	maxX, maxY := b.Max.X.Ceil()+rasterPad, b.Max.Y.Ceil()+rasterPad
	w, h := maxX-minX, maxY-minY
	if b.Max.X <= b.Min.X || w <= 0 || h <= 0 {
		f.mu.Unlock()
		return nil
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(-minX, -minY),
	}
	d.DrawString(s)
	f.mu.Unlock()

	tex := scene.NewTexture(scene.ImageFromRGBA("label:"+s, img))
	mat := scene.NewTexturedMaterial("label", tex)
	mat.Albedo = opts.Color
	mat.Transparent = true
	mat.Unlit = opts.Shading == ShadingFlat

	k := opts.Size / rasterPx
	mesh := scene.CreateRect(
		float32(minX)*k, -float32(maxY)*k,
		float32(maxX)*k, -float32(minY)*k,
	)
	mesh.Name = "label"
	mesh.Material = mat
	return mesh
}
