package hall

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"hall-of-fame/internal/text"
)

// SetWallpaper dresses the walls with wallpaper index.
func (h *Hall) SetWallpaper(ctx context.Context, index int) error {
	pair, err := h.deps.Wallpapers.Get(ctx, index, Width, Height, WallLength())
	if err != nil {
		return fmt.Errorf("hall %q wallpaper: %w", h.cfg.Title, err)
	}
	return h.deps.Scheduler.Do(ctx, func() {
		h.leftWall.Mesh = h.leftWall.Mesh.WithMaterial(pair.Sides)
		h.rightWall.Mesh = h.rightWall.Mesh.WithMaterial(pair.Sides)
		h.endWall.Mesh = h.endWall.Mesh.WithMaterial(pair.End)
	})
}

// SetFloor lays the hall floor texture.
func (h *Hall) SetFloor(ctx context.Context) error {
	mat, err := h.deps.Wallpapers.HallFloor(ctx)
	if err != nil {
		return fmt.Errorf("hall %q floor: %w", h.cfg.Title, err)
	}
	return h.deps.Scheduler.Do(ctx, func() {
		h.floor.Mesh = h.floor.Mesh.WithMaterial(mat)
	})
}

// DrawEndWall writes "Top 10" above the hall title, both centered.
func (h *Hall) DrawEndWall(ctx context.Context) error {
	eng, err := h.textEngine()
	if err != nil {
		return err
	}
	heading := eng.Layout("Top 10", text.Options{Size: 0.5, Weight: text.Semibold, Anchor: text.AnchorCenter})
	heading.SetPosition(mgl32.Vec3{0, 0.5, 0})
	title := eng.Layout(h.cfg.Title, text.Options{Size: 0.3, Anchor: text.AnchorCenter, MaxWidth: Width - 0.5})
	return h.deps.Scheduler.Do(ctx, func() {
		h.title.ClearChildren()
		h.title.AddChild(heading)
		h.title.AddChild(title)
	})
}
