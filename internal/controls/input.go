package controls

import (
	"github.com/go-gl/mathgl/mgl32"

	"hall-of-fame/core"
	"hall-of-fame/scene"
)

// Input implements core.InputHandler for the walk-through. While locked a
// click picks through the screen center; while unlocked it picks under the
// cursor and falls back to re-locking when nothing registered is hit.
type Input struct {
	Lock     *PointerLock
	Movement *Movement
	Picker   *Picker
	// Size reports the window size cursor positions are measured in.
	Size func() (width, height int)
	// OnKey, if set, sees every key press after movement handling.
	OnKey func(core.Key)
}

func (in *Input) KeyDown(k core.Key) {
	in.Movement.KeyDown(k)
	if in.OnKey != nil {
		in.OnKey(k)
	}
}

func (in *Input) KeyUp(k core.Key) { in.Movement.KeyUp(k) }

func (in *Input) PointerDown(x, y float64) {
	if in.Lock.Locked() {
		in.Picker.Pick(mgl32.Vec2{})
		return
	}
	w, h := in.Size()
	if in.Picker.Pick(scene.NDCFromWindow(x, y, w, h)) {
		return
	}
	in.Lock.Lock()
}

func (in *Input) PointerMove(dx, dy float64) { in.Lock.Look(dx, dy) }
