package scene

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// DrawItem is one mesh node resolved for drawing this frame.
type DrawItem struct {
	Node  *Node
	Model mgl32.Mat4
	depth float32
}

// DrawList splits the visible meshes into the opaque pass and the
// transparent pass. Transparent items are sorted back to front.
type DrawList struct {
	Opaque      []DrawItem
	Transparent []DrawItem
	Culled      int
}

// BuildDrawList collects the scene's visible meshes for one frame. With cull
// set, meshes whose world AABB lies outside the camera frustum are skipped.
func BuildDrawList(s *Scene, cull bool) DrawList {
	var dl DrawList
	if s == nil || s.Camera == nil {
		return dl
	}
	frustum := FrustumFromVP(s.Camera.ViewProjectionMatrix())
	camPos := s.Camera.Position

	for _, node := range s.VisibleNodes() {
		model := node.WorldMatrix()
		if cull {
			box := ComputeAABB(node.Mesh, model)
			if !box.IntersectsFrustum(&frustum) {
				dl.Culled++
				continue
			}
		}
		item := DrawItem{Node: node, Model: model}
		if mat := node.Mesh.Material; mat != nil && (mat.Transparent || mat.Opacity < 1) {
			item.depth = model.Col(3).Vec3().Sub(camPos).LenSqr()
			dl.Transparent = append(dl.Transparent, item)
			continue
		}
		dl.Opaque = append(dl.Opaque, item)
	}

	sort.SliceStable(dl.Transparent, func(i, j int) bool {
		return dl.Transparent[i].depth > dl.Transparent[j].depth
	})
	return dl
}
