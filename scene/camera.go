package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"hall-of-fame/core"
)

// Camera is a perspective camera looking down its local -Z axis. Orientation
// is stored as yaw (about world Y) then pitch (about local X).
type Camera struct {
	Position    mgl32.Vec3
	Yaw         float32
	Pitch       float32
	FOV         float32 // vertical field of view in radians
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	// Cached matrices
	viewMatrix       mgl32.Mat4
	projectionMatrix mgl32.Mat4
	viewProjMatrix   mgl32.Mat4
	dirty            bool
}

func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
		dirty:       true,
	}
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
		c.dirty = true
	}
}

func (c *Camera) SetPosition(pos mgl32.Vec3) {
	c.Position = pos
	c.dirty = true
}

func (c *Camera) Translate(delta mgl32.Vec3) {
	c.Position = c.Position.Add(delta)
	c.dirty = true
}

// SetYawPitch sets the orientation; pitch is clamped short of straight up/down.
func (c *Camera) SetYawPitch(yaw, pitch float32) {
	const limit = math.Pi/2 - 0.001
	c.Yaw = yaw
	c.Pitch = mgl32.Clamp(pitch, -limit, limit)
	c.dirty = true
}

// Rotation returns the camera orientation as a quaternion.
func (c *Camera) Rotation() mgl32.Quat {
	return mgl32.QuatRotate(c.Yaw, core.AxisY).Mul(mgl32.QuatRotate(c.Pitch, core.AxisX))
}

func (c *Camera) Forward() mgl32.Vec3 {
	return c.Rotation().Rotate(core.Forward)
}

func (c *Camera) Right() mgl32.Vec3 {
	return c.Rotation().Rotate(core.AxisX)
}

func (c *Camera) Up() mgl32.Vec3 {
	return c.Rotation().Rotate(core.AxisY)
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewMatrix
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.projectionMatrix
}

func (c *Camera) ViewProjectionMatrix() mgl32.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewProjMatrix
}

func (c *Camera) updateMatrices() {
	p := c.Position
	c.viewMatrix = c.Rotation().Conjugate().Mat4().Mul4(mgl32.Translate3D(-p.X(), -p.Y(), -p.Z()))
	c.projectionMatrix = mgl32.Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
	c.viewProjMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
	c.dirty = false
}

// RayFromNDC returns a world-space ray from the camera through a point in
// normalized device coordinates ([-1,1] on both axes, +Y up).
func (c *Camera) RayFromNDC(ndc mgl32.Vec2) Ray {
	inv := c.ViewProjectionMatrix().Inv()
	far := inv.Mul4x1(mgl32.Vec4{ndc.X(), ndc.Y(), 1, 1})
	target := far.Vec3().Mul(1 / far.W())
	return Ray{Origin: c.Position, Direction: target.Sub(c.Position).Normalize()}
}

// NDCFromWindow converts window coordinates (origin top-left) to NDC.
func NDCFromWindow(x, y float64, width, height int) mgl32.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{
		float32(x/float64(width)*2 - 1),
		float32(-y/float64(height)*2 + 1),
	}
}
