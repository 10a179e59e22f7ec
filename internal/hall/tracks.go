package hall

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"hall-of-fame/core"
	"hall-of-fame/internal/spotify"
	"hall-of-fame/internal/text"
	"hall-of-fame/scene"
)

// Slot layout, in slot space: x along the wall, y up, +z into the room.
const (
	coverSize  = 1.2
	coverY     = 0.3
	labelGap   = 0.05
	rankSize   = 0.15
	nameSize   = 0.1
	artistSize = 0.08
)

// SetTracks mounts up to one track per slot and returns the populated slot
// nodes, in track order, for pick registration. Slot contents are replaced
// as a whole. If some covers fail to load, those slots get the placeholder
// cover and the load error is returned along with the slots.
func (h *Hall) SetTracks(ctx context.Context, tracks []spotify.Track) ([]*scene.Node, error) {
	eng, err := h.textEngine()
	if err != nil {
		return nil, err
	}
	if len(tracks) > len(h.slots) {
		tracks = tracks[:len(h.slots)]
	}
	urls := make([]string, len(tracks))
	for i := range tracks {
		urls[i] = tracks[i].CoverURL()
	}
	mats, coverErr := h.deps.Covers.FetchMaterials(ctx, urls)
	if len(mats) != len(tracks) {
		return nil, fmt.Errorf("hall %q covers: got %d materials for %d tracks: %v", h.cfg.Title, len(mats), len(tracks), coverErr)
	}

	contents := make([][]*scene.Node, len(tracks))
	for i := range tracks {
		contents[i] = buildSlot(eng, i, &tracks[i], mats[i])
	}

	err = h.deps.Scheduler.Do(ctx, func() {
		for i, slot := range h.slots {
			slot.ClearChildren()
			if i >= len(contents) {
				continue
			}
			for _, n := range contents[i] {
				slot.AddChild(n)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	if coverErr != nil {
		coverErr = fmt.Errorf("hall %q covers: %w", h.cfg.Title, coverErr)
	}
	return h.slots[:len(tracks)], coverErr
}

// buildSlot returns the detached cover, labels and spotlight for one track.
func buildSlot(eng *text.Engine, i int, t *spotify.Track, cover *scene.Material) []*scene.Node {
	coverMesh := scene.CreatePlane(coverSize, coverSize)
	coverMesh.Material = cover
	coverNode := scene.NewMeshNode("cover", coverMesh)
	coverNode.SetPosition(mgl32.Vec3{0, coverY, 0})

	var top, bottom float32 = coverY + coverSize/2, coverY - coverSize/2

	rank := eng.Layout(strconv.Itoa(i+1), text.Options{Size: rankSize, Weight: text.Semibold})
	rank.SetPosition(mgl32.Vec3{-coverSize / 2, top + labelGap, 0.01})

	nameOpts := text.Options{Size: nameSize, Weight: text.Semibold, Anchor: text.AnchorCenter, MaxWidth: coverSize}
	nameLines := eng.Lines(t.Name, nameOpts)
	nameY := bottom - labelGap - firstLineTop(nameLines)
	name := eng.Layout(t.Name, nameOpts)
	name.SetPosition(mgl32.Vec3{0, nameY, 0.01})

	artistOpts := text.Options{Size: artistSize, Anchor: text.AnchorCenter, MaxWidth: coverSize}
	artistLines := eng.Lines(t.ArtistName(), artistOpts)
	artistY := nameY + blockBottom(nameLines) - labelGap - firstLineTop(artistLines)
	artist := eng.Layout(t.ArtistName(), artistOpts)
	artist.SetPosition(mgl32.Vec3{0, artistY, 0.01})

	light := scene.NewNode("spot")
	light.Light = scene.NewSpotLight(core.ColorWhite, 2, 6, 35, 0.4)
	light.SetPosition(mgl32.Vec3{0, coverY + 1.6, 1.6})
	aim := mgl32.Vec3{0, coverY, 0}.Sub(light.Position()).Normalize()
	light.Light.Direction = aim

	return []*scene.Node{coverNode, rank, name, artist, light}
}

// firstLineTop is the height of the first line above its baseline.
func firstLineTop(lines []text.Line) float32 {
	if len(lines) == 0 {
		return 0
	}
	return lines[0].Bounds.MaxY
}

// blockBottom is the lowest glyph extent of a laid-out block, relative to
// the first baseline (negative below it).
func blockBottom(lines []text.Line) float32 {
	var bottom float32
	for _, l := range lines {
		if y := l.Offset.Y() + l.Bounds.MinY; y < bottom {
			bottom = y
		}
	}
	return bottom
}
