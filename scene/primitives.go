package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"hall-of-fame/core"
)

// CreatePlane generates a width×height rectangle in the XY plane facing +Z,
// centred on the origin. UVs span 0..1; tiling is a material property.
func CreatePlane(width, height float32) *Mesh {
	w, h := width/2, height/2
	n := core.AxisZ
	vertices := []core.Vertex{
		{Position: mgl32.Vec3{-w, -h, 0}, Normal: n, UV: mgl32.Vec2{0, 1}, Color: core.ColorWhite},
		{Position: mgl32.Vec3{w, -h, 0}, Normal: n, UV: mgl32.Vec2{1, 1}, Color: core.ColorWhite},
		{Position: mgl32.Vec3{w, h, 0}, Normal: n, UV: mgl32.Vec2{1, 0}, Color: core.ColorWhite},
		{Position: mgl32.Vec3{-w, h, 0}, Normal: n, UV: mgl32.Vec2{0, 0}, Color: core.ColorWhite},
	}
	indices := []uint32{0, 1, 2, 2, 3, 0}
	return CreateMeshFromData("Plane", vertices, indices)
}

// CreateRect generates a rectangle in the XY plane spanning [minX,maxX]×[minY,maxY].
func CreateRect(minX, minY, maxX, maxY float32) *Mesh {
	n := core.AxisZ
	vertices := []core.Vertex{
		{Position: mgl32.Vec3{minX, minY, 0}, Normal: n, UV: mgl32.Vec2{0, 1}, Color: core.ColorWhite},
		{Position: mgl32.Vec3{maxX, minY, 0}, Normal: n, UV: mgl32.Vec2{1, 1}, Color: core.ColorWhite},
		{Position: mgl32.Vec3{maxX, maxY, 0}, Normal: n, UV: mgl32.Vec2{1, 0}, Color: core.ColorWhite},
		{Position: mgl32.Vec3{minX, maxY, 0}, Normal: n, UV: mgl32.Vec2{0, 0}, Color: core.ColorWhite},
	}
	return CreateMeshFromData("Rect", vertices, []uint32{0, 1, 2, 2, 3, 0})
}

// CreateRing generates a flat annulus in the XY plane facing +Z.
func CreateRing(innerRadius, outerRadius float32, thetaSegments, phiSegments int) *Mesh {
	if thetaSegments < 3 {
		thetaSegments = 3
	}
	if phiSegments < 1 {
		phiSegments = 1
	}

	var vertices []core.Vertex
	var indices []uint32
	step := (outerRadius - innerRadius) / float32(phiSegments)

	for j := 0; j <= phiSegments; j++ {
		radius := innerRadius + float32(j)*step
		for i := 0; i <= thetaSegments; i++ {
			theta := float64(i) / float64(thetaSegments) * 2 * math.Pi
			x := radius * float32(math.Cos(theta))
			y := radius * float32(math.Sin(theta))
			vertices = append(vertices, core.Vertex{
				Position: mgl32.Vec3{x, y, 0},
				Normal:   core.AxisZ,
				UV:       mgl32.Vec2{(x/outerRadius + 1) / 2, 1 - (y/outerRadius+1)/2},
				Color:    core.ColorWhite,
			})
		}
	}

	stride := uint32(thetaSegments + 1)
	for j := 0; j < phiSegments; j++ {
		for i := 0; i < thetaSegments; i++ {
			a := uint32(j)*stride + uint32(i)
			b := a + stride
			indices = append(indices, a, b, b+1, a, b+1, a+1)
		}
	}
	return CreateMeshFromData("Ring", vertices, indices)
}

// CreateSphere generates a UV-sphere mesh
func CreateSphere(radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var vertices []core.Vertex
	var indices []uint32

	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * math.Pi / float64(rings)
		sinPhi := float32(math.Sin(phi))
		cosPhi := float32(math.Cos(phi))

		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2.0 * math.Pi / float64(segments)
			normal := mgl32.Vec3{sinPhi * float32(math.Cos(theta)), cosPhi, sinPhi * float32(math.Sin(theta))}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       mgl32.Vec2{float32(seg) / float32(segments), float32(ring) / float32(rings)},
				Color:    core.ColorWhite,
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)
			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	return CreateMeshFromData("Sphere", vertices, indices)
}

// CreateRegularPolygon generates a flat n-gon of the given circumradius in
// the XY plane, with the first vertex on +Y.
func CreateRegularPolygon(radius float32, sides int) *Mesh {
	if sides < 3 {
		sides = 3
	}
	vertices := []core.Vertex{{
		Normal: core.AxisZ,
		UV:     mgl32.Vec2{0.5, 0.5},
		Color:  core.ColorWhite,
	}}
	var indices []uint32
	for i := 0; i < sides; i++ {
		theta := math.Pi/2 + float64(i)*2*math.Pi/float64(sides)
		x := float32(math.Cos(theta))
		y := float32(math.Sin(theta))
		vertices = append(vertices, core.Vertex{
			Position: mgl32.Vec3{x * radius, y * radius, 0},
			Normal:   core.AxisZ,
			UV:       mgl32.Vec2{(x + 1) / 2, 1 - (y+1)/2},
			Color:    core.ColorWhite,
		})
		next := uint32(i+1)%uint32(sides) + 1
		indices = append(indices, 0, uint32(i+1), next)
	}
	return CreateMeshFromData("Polygon", vertices, indices)
}
