package core

import "github.com/go-gl/mathgl/mgl32"

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
)

// ColorHex converts a 0xRRGGBB value into an opaque Color.
func ColorHex(hex uint32) Color {
	return Color{
		R: float32((hex>>16)&0xff) / 255,
		G: float32((hex>>8)&0xff) / 255,
		B: float32(hex&0xff) / 255,
		A: 1,
	}
}

// Scale multiplies the RGB channels, leaving alpha untouched.
func (c Color) Scale(f float32) Color {
	return Color{R: c.R * f, G: c.G * f, B: c.B * f, A: c.A}
}

// Vertex is the interleaved layout uploaded to the GPU; field order matters.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
	Color    Color
}

// Axes used by local-space transforms. Cameras and models look down -Z.
var (
	AxisX   = mgl32.Vec3{1, 0, 0}
	AxisY   = mgl32.Vec3{0, 1, 0}
	AxisZ   = mgl32.Vec3{0, 0, 1}
	Forward = mgl32.Vec3{0, 0, -1}
)

type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix composes translation * rotation * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	translation := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translation.Mul4(t.Rotation.Mat4()).Mul4(scale)
}

func (t Transform) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(Forward)
}

func (t Transform) Right() mgl32.Vec3 {
	return t.Rotation.Rotate(AxisX)
}

func (t Transform) Up() mgl32.Vec3 {
	return t.Rotation.Rotate(AxisY)
}
