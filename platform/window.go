package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"hall-of-fame/core"
)

func init() {
	// GLFW and the GL context must stay on the main OS thread.
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	handler     core.InputHandler
	lastX       float64
	lastY       float64
	havePointer bool
	locked      bool
	onResize    func(width, height int)
}

type WindowConfig struct {
	Width      int
	Height     int
	Title      string
	Resizable  bool
	VSync      bool
	Fullscreen bool
	Samples    int
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     1280,
		Height:    720,
		Title:     "Hall of Fame",
		Resizable: true,
		VSync:     true,
		Samples:   4,
	}
}

// NewWindow creates a window with a current OpenGL 4.1 core context.
func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))
	if config.Samples > 0 {
		glfw.WindowHint(glfw.Samples, config.Samples)
	}

	monitor := (*glfw.Monitor)(nil)
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	fbw, fbh := handle.GetFramebufferSize()
	window := &Window{
		Handle: handle,
		Width:  fbw,
		Height: fbh,
		Title:  config.Title,
	}

	handle.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
		if window.onResize != nil {
			window.onResize(width, height)
		}
	})
	handle.SetKeyCallback(window.keyCallback)
	handle.SetMouseButtonCallback(window.mouseButtonCallback)
	handle.SetCursorPosCallback(window.cursorPosCallback)

	return window, nil
}

// SetInputHandler routes keyboard and pointer events to h.
func (w *Window) SetInputHandler(h core.InputHandler) {
	w.handler = h
}

// OnResize registers a framebuffer resize callback.
func (w *Window) OnResize(fn func(width, height int)) {
	w.onResize = fn
}

// SetCursorLocked implements core.CursorLocker.
func (w *Window) SetCursorLocked(locked bool) {
	if locked == w.locked {
		return
	}
	w.locked = locked
	w.havePointer = false
	if locked {
		w.Handle.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		if glfw.RawMouseMotionSupported() {
			w.Handle.SetInputMode(glfw.RawMouseMotion, glfw.True)
		}
		return
	}
	w.Handle.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
}

func (w *Window) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if w.handler == nil || action == glfw.Repeat {
		return
	}
	k := translateKey(key)
	if k == core.KeyUnknown {
		return
	}
	if action == glfw.Press {
		w.handler.KeyDown(k)
	} else {
		w.handler.KeyUp(k)
	}
}

func (w *Window) mouseButtonCallback(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if w.handler == nil || button != glfw.MouseButtonLeft || action != glfw.Press {
		return
	}
	x, y := win.GetCursorPos()
	w.handler.PointerDown(x, y)
}

func (w *Window) cursorPosCallback(_ *glfw.Window, x, y float64) {
	if !w.havePointer {
		w.lastX, w.lastY = x, y
		w.havePointer = true
		return
	}
	dx, dy := x-w.lastX, y-w.lastY
	w.lastX, w.lastY = x, y
	if w.handler != nil {
		w.handler.PointerMove(dx, dy)
	}
}

// WindowSize returns the window size in screen coordinates, which is the
// space cursor positions are reported in.
func (w *Window) WindowSize() (int, int) {
	return w.Handle.GetSize()
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func translateKey(key glfw.Key) core.Key {
	switch key {
	case glfw.KeyW:
		return core.KeyW
	case glfw.KeyA:
		return core.KeyA
	case glfw.KeyS:
		return core.KeyS
	case glfw.KeyD:
		return core.KeyD
	case glfw.KeyUp:
		return core.KeyUp
	case glfw.KeyDown:
		return core.KeyDown
	case glfw.KeyLeft:
		return core.KeyLeft
	case glfw.KeyRight:
		return core.KeyRight
	case glfw.KeyEscape:
		return core.KeyEscape
	case glfw.KeyM:
		return core.KeyM
	}
	return core.KeyUnknown
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}
