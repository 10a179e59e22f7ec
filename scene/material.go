package scene

import "hall-of-fame/core"

// Material describes surface appearance properties for a mesh (Phong).
type Material struct {
	Name      string
	Albedo    core.Color // base diffuse color (multiplied with albedo texture if set)
	Specular  core.Color // Phong specular highlight color
	Shininess float32    // Phong shininess exponent
	Unlit     bool       // skip lighting calculation — output raw albedo/texture color

	// Optional albedo texture; if set, it is multiplied with Albedo.
	// Uploaded by the renderer on first use.
	AlbedoTexture *Texture

	// Transparent meshes are drawn after opaque ones with alpha blending
	// and without depth writes. Opacity multiplies the final alpha.
	Transparent bool
	Opacity     float32

	// DoubleSided disables back-face culling.
	DoubleSided bool
}

// DefaultMaterial returns a plain white matte Phong material.
func DefaultMaterial() *Material {
	return NewMaterial("Default", core.ColorWhite)
}

// NewMaterial creates a Phong material with the given albedo color.
func NewMaterial(name string, albedo core.Color) *Material {
	return &Material{
		Name:      name,
		Albedo:    albedo,
		Specular:  core.Color{R: 0.07, G: 0.07, B: 0.07, A: 1},
		Shininess: 30,
		Opacity:   1,
	}
}

// NewTexturedMaterial creates a double-sided Phong material sampling tex.
func NewTexturedMaterial(name string, tex *Texture) *Material {
	m := NewMaterial(name, core.ColorWhite)
	m.AlbedoTexture = tex
	m.DoubleSided = true
	return m
}

// NewBasicMaterial creates an unlit material, the equivalent of a flat
// emissive label or marker.
func NewBasicMaterial(name string, color core.Color) *Material {
	m := NewMaterial(name, color)
	m.Unlit = true
	return m
}
