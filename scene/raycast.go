package scene

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray represents a ray in 3D space
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Intersection is one ray hit against a mesh triangle.
type Intersection struct {
	Distance float32
	Point    mgl32.Vec3
	Node     *Node
	FaceIdx  int
}

// Raycaster tests a ray against scene nodes. The zero value casts nowhere;
// use Set or SetFromCamera before intersecting.
type Raycaster struct {
	Ray  Ray
	Near float32
	Far  float32
}

func NewRaycaster() *Raycaster {
	return &Raycaster{Far: float32(math.Inf(1))}
}

// Set aims the raycaster; direction is normalized.
func (rc *Raycaster) Set(origin, direction mgl32.Vec3) {
	rc.Ray = Ray{Origin: origin, Direction: direction.Normalize()}
}

// SetFromCamera aims the raycaster through ndc from the camera.
func (rc *Raycaster) SetFromCamera(ndc mgl32.Vec2, cam *Camera) {
	rc.Ray = cam.RayFromNDC(ndc)
}

// IntersectObject tests one node and, optionally, its descendants.
func (rc *Raycaster) IntersectObject(n *Node, recursive bool) []Intersection {
	var hits []Intersection
	rc.intersect(n, recursive, &hits)
	sortHits(hits)
	return hits
}

// IntersectObjects tests every node and returns hits sorted nearest first.
func (rc *Raycaster) IntersectObjects(nodes []*Node, recursive bool) []Intersection {
	var hits []Intersection
	for _, n := range nodes {
		rc.intersect(n, recursive, &hits)
	}
	sortHits(hits)
	return hits
}

func (rc *Raycaster) intersect(n *Node, recursive bool, hits *[]Intersection) {
	if !n.Visible {
		return
	}
	if n.Mesh != nil {
		if hit, ok := rc.intersectMesh(n); ok {
			*hits = append(*hits, hit)
		}
	}
	if !recursive {
		return
	}
	for _, child := range n.Children {
		rc.intersect(child, true, hits)
	}
}

// intersectMesh: AABB broad phase, then Möller–Trumbore per triangle.
func (rc *Raycaster) intersectMesh(n *Node) (Intersection, bool) {
	world := n.WorldMatrix()
	box := ComputeAABB(n.Mesh, world)
	if t, ok := box.IntersectRay(rc.Ray.Origin, rc.Ray.Direction); !ok || t > rc.far() {
		return Intersection{}, false
	}

	closest := Intersection{Distance: float32(math.MaxFloat32)}
	found := false
	n.Mesh.Triangles(func(i int, a, b, c mgl32.Vec3) {
		v0 := mgl32.TransformCoordinate(a, world)
		v1 := mgl32.TransformCoordinate(b, world)
		v2 := mgl32.TransformCoordinate(c, world)
		t, hit := mollerTrumbore(rc.Ray, v0, v1, v2)
		if !hit || t < rc.Near || t > rc.far() || t >= closest.Distance {
			return
		}
		closest = Intersection{Distance: t, Point: rc.Ray.At(t), Node: n, FaceIdx: i}
		found = true
	})
	return closest, found
}

func (rc *Raycaster) far() float32 {
	if rc.Far <= 0 {
		return float32(math.Inf(1))
	}
	return rc.Far
}

// mollerTrumbore implements the Möller–Trumbore ray-triangle intersection
// algorithm. Both faces are hit.
func mollerTrumbore(ray Ray, v0, v1, v2 mgl32.Vec3) (float32, bool) {
	const epsilon = 0.0000001

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	if a > -epsilon && a < epsilon {
		return 0, false // parallel
	}

	f := 1.0 / a
	s := ray.Origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	return t, t > epsilon
}

func sortHits(hits []Intersection) {
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
}
