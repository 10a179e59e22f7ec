// Package controls turns window input into first-person movement, wall
// collision and click picking.
package controls

import (
	"github.com/go-gl/mathgl/mgl32"

	"hall-of-fame/core"
	"hall-of-fame/scene"
)

// DefaultLookSpeed is radians of turn per pixel of cursor motion.
const DefaultLookSpeed = 0.002

// PointerLock is a mouse-look controller over a camera. While locked the
// cursor is captured and motion turns the camera; while unlocked motion is
// ignored so the cursor can be used for picking.
type PointerLock struct {
	Camera    *scene.Camera
	LookSpeed float32

	cursor   core.CursorLocker
	locked   bool
	onChange []func(locked bool)
}

func NewPointerLock(camera *scene.Camera, cursor core.CursorLocker) *PointerLock {
	return &PointerLock{
		Camera:    camera,
		LookSpeed: DefaultLookSpeed,
		cursor:    cursor,
	}
}

// OnChange registers fn to run after every lock or unlock.
func (p *PointerLock) OnChange(fn func(locked bool)) {
	p.onChange = append(p.onChange, fn)
}

func (p *PointerLock) Locked() bool { return p.locked }

func (p *PointerLock) Lock()   { p.set(true) }
func (p *PointerLock) Unlock() { p.set(false) }

func (p *PointerLock) set(locked bool) {
	if p.locked == locked {
		return
	}
	p.locked = locked
	if p.cursor != nil {
		p.cursor.SetCursorLocked(locked)
	}
	for _, fn := range p.onChange {
		fn(locked)
	}
}

// Look turns the camera by a cursor delta in pixels.
func (p *PointerLock) Look(dx, dy float64) {
	if !p.locked {
		return
	}
	c := p.Camera
	c.SetYawPitch(c.Yaw-float32(dx)*p.LookSpeed, c.Pitch-float32(dy)*p.LookSpeed)
}

// MoveRight strafes along the camera's horizontal right vector.
func (p *PointerLock) MoveRight(d float32) {
	p.Camera.Translate(horizontal(p.Camera.Right()).Mul(d))
}

// MoveForward walks along the camera's heading, ignoring pitch.
func (p *PointerLock) MoveForward(d float32) {
	p.Camera.Translate(horizontal(p.Camera.Forward()).Mul(d))
}

// horizontal drops the vertical component and renormalizes. A vertical
// vector yields zero.
func horizontal(v mgl32.Vec3) mgl32.Vec3 {
	v[1] = 0
	if v.Len() < 1e-6 {
		return mgl32.Vec3{}
	}
	return v.Normalize()
}
