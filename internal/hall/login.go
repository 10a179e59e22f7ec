package hall

import (
	"context"

	"github.com/go-gl/mathgl/mgl32"

	"hall-of-fame/core"
	"hall-of-fame/internal/text"
	"hall-of-fame/scene"
)

// SpotifyGreen is the login button color.
var SpotifyGreen = core.ColorHex(0x1DB954)

// SetLoginButton pulls the end wall forward to the hall mouth and mounts a
// "Login to Spotify" button on it. The button node is returned for pick
// registration.
func (h *Hall) SetLoginButton(ctx context.Context) (*scene.Node, error) {
	eng, err := h.textEngine()
	if err != nil {
		return nil, err
	}
	button := newLoginButton(eng)
	err = h.deps.Scheduler.Do(ctx, func() {
		if h.login != nil {
			h.login.RemoveFromParent()
		}
		h.slide = slide{}
		h.setEndWallZ(Apothem())
		h.endWall.AddChild(button)
		h.login = button
	})
	if err != nil {
		return nil, err
	}
	return button, nil
}

// ClearLoginButton removes the button and slides the end wall back to the
// far end of the hall. The slide is driven by Update.
func (h *Hall) ClearLoginButton(ctx context.Context) error {
	return h.deps.Scheduler.Do(ctx, func() {
		if h.login == nil {
			return
		}
		h.login.RemoveFromParent()
		h.login = nil
		h.slide = slide{active: true, pos: float64(h.EndWallZ()), target: Length}
		h.stepAcc = 0
	})
}

// LoginButton is the mounted button, or nil.
func (h *Hall) LoginButton() *scene.Node { return h.login }

func newLoginButton(eng *text.Engine) *scene.Node {
	const w, ht = 2.4, 0.6

	button := scene.NewNode("login")
	button.SetPosition(mgl32.Vec3{0, -0.6, 0.02})

	bg := scene.CreatePlane(w, ht)
	bg.Material = scene.NewBasicMaterial("login-button", SpotifyGreen)
	button.AddChild(scene.NewMeshNode("login:bg", bg))

	label := eng.Layout("Login to Spotify", text.Options{
		Size:    0.2,
		Weight:  text.Semibold,
		Anchor:  text.AnchorCenter,
		Shading: text.ShadingFlat,
	})
	lines := eng.Lines("Login to Spotify", text.Options{Size: 0.2, Weight: text.Semibold, Anchor: text.AnchorCenter})
	if len(lines) > 0 {
		b := lines[0].Bounds
		label.SetPosition(mgl32.Vec3{0, -(b.MaxY + b.MinY) / 2, 0.01})
	}
	button.AddChild(label)
	return button
}
