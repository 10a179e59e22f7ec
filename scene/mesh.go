package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"hall-of-fame/core"
)

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32

	// Cached local-space AABB (computed by CreateMeshFromData).
	LocalAABB    AABB
	HasLocalAABB bool

	// Material holds surface shading properties. If nil, DefaultMaterial() is used.
	Material *Material

	// GPUData is set by the renderer backend (e.g. *opengl.GPUMesh).
	GPUData interface{}
}

// CreateMeshFromData builds a Mesh and pre-computes its local-space AABB.
func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
	if len(vertices) > 0 {
		m.LocalAABB = computeLocalAABB(vertices, mgl32.Ident4())
		m.HasLocalAABB = true
	}
	return m
}

// WithMaterial returns a shallow copy of the mesh using mat. Geometry and
// GPU buffers are shared.
func (m *Mesh) WithMaterial(mat *Material) *Mesh {
	c := *m
	c.Material = mat
	return &c
}

// Triangles calls fn for every triangle of the mesh in local space.
func (m *Mesh) Triangles(fn func(i int, a, b, c mgl32.Vec3)) {
	if len(m.Indices) > 0 {
		for i := 0; i+2 < len(m.Indices); i += 3 {
			fn(i/3,
				m.Vertices[m.Indices[i]].Position,
				m.Vertices[m.Indices[i+1]].Position,
				m.Vertices[m.Indices[i+2]].Position)
		}
		return
	}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		fn(i/3, m.Vertices[i].Position, m.Vertices[i+1].Position, m.Vertices[i+2].Position)
	}
}

func computeLocalAABB(vertices []core.Vertex, m mgl32.Mat4) AABB {
	first := mgl32.TransformCoordinate(vertices[0].Position, m)
	box := AABB{Min: first, Max: first}
	for i := 1; i < len(vertices); i++ {
		box = box.extend(mgl32.TransformCoordinate(vertices[i].Position, m))
	}
	return box
}
