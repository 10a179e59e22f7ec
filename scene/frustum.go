package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Plane represents a half-space: ax + by + cz + d = 0
// Normal (a, b, c) points into the "inside" of the frustum.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// DistanceTo returns the signed distance from a point to the plane.
func (p Plane) DistanceTo(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumFromVP extracts the six frustum planes from a projection*view
// matrix (Gribb/Hartmann). mgl32 matrices are column-major and multiply
// column vectors, so the extraction uses the matrix rows directly.
func FrustumFromVP(vp mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)

	var f Frustum
	f.Planes[0] = normalizePlane(r3.Add(r0))
	f.Planes[1] = normalizePlane(r3.Sub(r0))
	f.Planes[2] = normalizePlane(r3.Add(r1))
	f.Planes[3] = normalizePlane(r3.Sub(r1))
	f.Planes[4] = normalizePlane(r3.Add(r2))
	f.Planes[5] = normalizePlane(r3.Sub(r2))
	return f
}

func normalizePlane(v mgl32.Vec4) Plane {
	n := v.Vec3()
	l := n.Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: v.W() / l}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl32.Vec3
}

func (box AABB) Size() mgl32.Vec3 {
	return box.Max.Sub(box.Min)
}

func (box AABB) Center() mgl32.Vec3 {
	return box.Min.Add(box.Max).Mul(0.5)
}

// Union returns the smallest box enclosing both boxes.
func (box AABB) Union(o AABB) AABB {
	return AABB{
		Min: mgl32.Vec3{min(box.Min.X(), o.Min.X()), min(box.Min.Y(), o.Min.Y()), min(box.Min.Z(), o.Min.Z())},
		Max: mgl32.Vec3{max(box.Max.X(), o.Max.X()), max(box.Max.Y(), o.Max.Y()), max(box.Max.Z(), o.Max.Z())},
	}
}

// IntersectsFrustum returns false if the AABB is completely outside the frustum.
// Uses the "p-vertex" test: for each plane, check the corner most aligned
// with the plane normal.
func (box AABB) IntersectsFrustum(f *Frustum) bool {
	for i := 0; i < 6; i++ {
		p := f.Planes[i]
		px := box.Max.X()
		if p.Normal.X() < 0 {
			px = box.Min.X()
		}
		py := box.Max.Y()
		if p.Normal.Y() < 0 {
			py = box.Min.Y()
		}
		pz := box.Max.Z()
		if p.Normal.Z() < 0 {
			pz = box.Min.Z()
		}
		if p.DistanceTo(mgl32.Vec3{px, py, pz}) < 0 {
			return false
		}
	}
	return true
}

// ComputeAABB computes the world-space AABB for a mesh transformed by worldMatrix.
func ComputeAABB(mesh *Mesh, worldMatrix mgl32.Mat4) AABB {
	if mesh.HasLocalAABB {
		return transformAABB(mesh.LocalAABB, worldMatrix)
	}
	if len(mesh.Vertices) == 0 {
		return AABB{}
	}
	return computeLocalAABB(mesh.Vertices, worldMatrix)
}

// transformAABB transforms a local AABB by testing all 8 corners.
func transformAABB(local AABB, m mgl32.Mat4) AABB {
	mn, mx := local.Min, local.Max
	var out AABB
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{mn.X(), mn.Y(), mn.Z()}
		if i&1 != 0 {
			corner[0] = mx.X()
		}
		if i&2 != 0 {
			corner[1] = mx.Y()
		}
		if i&4 != 0 {
			corner[2] = mx.Z()
		}
		wp := mgl32.TransformCoordinate(corner, m)
		if i == 0 {
			out = AABB{Min: wp, Max: wp}
			continue
		}
		out = out.extend(wp)
	}
	return out
}

func (box AABB) extend(p mgl32.Vec3) AABB {
	for k := 0; k < 3; k++ {
		if p[k] < box.Min[k] {
			box.Min[k] = p[k]
		}
		if p[k] > box.Max[k] {
			box.Max[k] = p[k]
		}
	}
	return box
}

// IntersectRay returns the entry distance of the ray into the box.
func (box AABB) IntersectRay(origin, dir mgl32.Vec3) (float32, bool) {
	tmin := float32(math.Inf(-1))
	tmax := float32(math.Inf(1))
	for k := 0; k < 3; k++ {
		if dir[k] == 0 {
			if origin[k] < box.Min[k] || origin[k] > box.Max[k] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[k]
		t1 := (box.Min[k] - origin[k]) * inv
		t2 := (box.Max[k] - origin[k]) * inv
		tmin = max(tmin, min(t1, t2))
		tmax = min(tmax, max(t1, t2))
	}
	if tmax < 0 || tmin > tmax {
		return 0, false
	}
	return tmin, true
}
