package core

// Key identifies the keyboard keys the walk-through reacts to. The platform
// layer translates native key codes into these values.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
	KeyM
)

func (k Key) String() string {
	switch k {
	case KeyW:
		return "W"
	case KeyA:
		return "A"
	case KeyS:
		return "S"
	case KeyD:
		return "D"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyEscape:
		return "Escape"
	case KeyM:
		return "M"
	default:
		return "Unknown"
	}
}

// InputHandler receives translated window events. All callbacks run on the
// main thread, between PollEvents and the frame update.
type InputHandler interface {
	KeyDown(key Key)
	KeyUp(key Key)
	// PointerDown reports a primary-button press at window coordinates.
	PointerDown(x, y float64)
	// PointerMove reports the cursor delta since the previous event.
	PointerMove(dx, dy float64)
}

// CursorLocker hides and captures the cursor for first-person look.
type CursorLocker interface {
	SetCursorLocked(locked bool)
}
