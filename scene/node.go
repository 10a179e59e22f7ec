package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"hall-of-fame/core"
)

// Node represents an object in the scene graph. A node attached to a scene
// must only be touched from the main thread; detached subtrees may be built
// anywhere and attached later.
type Node struct {
	ID        uuid.UUID
	Name      string
	Transform core.Transform
	Parent    *Node
	Children  []*Node
	Mesh      *Mesh
	Light     *Light
	Visible   bool

	// Cached world transform
	worldMatrixDirty bool
	worldMatrix      mgl32.Mat4
}

func NewNode(name string) *Node {
	return &Node{
		ID:               uuid.New(),
		Name:             name,
		Transform:        core.NewTransform(),
		Children:         make([]*Node, 0),
		Visible:          true,
		worldMatrixDirty: true,
	}
}

// NewMeshNode wraps a mesh in a fresh node.
func NewMeshNode(name string, mesh *Mesh) *Node {
	n := NewNode(name)
	n.Mesh = mesh
	return n
}

func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
	child.MarkWorldMatrixDirty()
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			child.MarkWorldMatrixDirty()
			return
		}
	}
}

// RemoveFromParent detaches n from its parent, if any.
func (n *Node) RemoveFromParent() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// ClearChildren detaches every child.
func (n *Node) ClearChildren() {
	for _, c := range n.Children {
		c.Parent = nil
		c.MarkWorldMatrixDirty()
	}
	n.Children = n.Children[:0]
}

func (n *Node) WorldMatrix() mgl32.Mat4 {
	if n.worldMatrixDirty {
		local := n.Transform.Matrix()
		if n.Parent != nil {
			n.worldMatrix = n.Parent.WorldMatrix().Mul4(local)
		} else {
			n.worldMatrix = local
		}
		n.worldMatrixDirty = false
	}
	return n.worldMatrix
}

func (n *Node) MarkWorldMatrixDirty() {
	n.worldMatrixDirty = true
	for _, child := range n.Children {
		child.MarkWorldMatrixDirty()
	}
}

func (n *Node) Position() mgl32.Vec3 {
	return n.Transform.Position
}

func (n *Node) SetPosition(pos mgl32.Vec3) {
	n.Transform.Position = pos
	n.MarkWorldMatrixDirty()
}

func (n *Node) SetRotation(rot mgl32.Quat) {
	n.Transform.Rotation = rot
	n.MarkWorldMatrixDirty()
}

func (n *Node) SetScale(scale mgl32.Vec3) {
	n.Transform.Scale = scale
	n.MarkWorldMatrixDirty()
}

func (n *Node) SetUniformScale(s float32) {
	n.SetScale(mgl32.Vec3{s, s, s})
}

// Translate moves the node in its parent's space.
func (n *Node) Translate(delta mgl32.Vec3) {
	n.Transform.Position = n.Transform.Position.Add(delta)
	n.MarkWorldMatrixDirty()
}

// TranslateOnAxis moves the node along a local-space axis.
func (n *Node) TranslateOnAxis(axis mgl32.Vec3, distance float32) {
	n.Translate(n.Transform.Rotation.Rotate(axis).Mul(distance))
}

func (n *Node) TranslateX(d float32) { n.TranslateOnAxis(core.AxisX, d) }
func (n *Node) TranslateY(d float32) { n.TranslateOnAxis(core.AxisY, d) }
func (n *Node) TranslateZ(d float32) { n.TranslateOnAxis(core.AxisZ, d) }

// Rotate applies a rotation about a local-space axis.
func (n *Node) Rotate(axis mgl32.Vec3, angle float32) {
	rotation := mgl32.QuatRotate(angle, axis)
	n.Transform.Rotation = n.Transform.Rotation.Mul(rotation).Normalize()
	n.MarkWorldMatrixDirty()
}

func (n *Node) RotateX(angle float32) { n.Rotate(core.AxisX, angle) }
func (n *Node) RotateY(angle float32) { n.Rotate(core.AxisY, angle) }
func (n *Node) RotateZ(angle float32) { n.Rotate(core.AxisZ, angle) }

func (n *Node) Forward() mgl32.Vec3 {
	return n.Transform.Forward()
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// WorldDirection transforms a local direction into world space.
func (n *Node) WorldDirection(local mgl32.Vec3) mgl32.Vec3 {
	d := n.WorldMatrix().Mul4x1(local.Vec4(0)).Vec3()
	if d.Len() == 0 {
		return d
	}
	return d.Normalize()
}

// Traverse visits all nodes in the graph
func (n *Node) Traverse(callback func(*Node)) {
	callback(n)
	for _, child := range n.Children {
		child.Traverse(callback)
	}
}

// Find finds a node by name
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// HasAncestor reports whether a is n or one of its ancestors.
func (n *Node) HasAncestor(a *Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == a {
			return true
		}
	}
	return false
}

// Clone deep-copies the hierarchy. Meshes are shared, lights are copied.
func (n *Node) Clone() *Node {
	c := NewNode(n.Name)
	c.Transform = n.Transform
	c.Mesh = n.Mesh
	c.Visible = n.Visible
	if n.Light != nil {
		l := *n.Light
		c.Light = &l
	}
	for _, child := range n.Children {
		c.AddChild(child.Clone())
	}
	return c
}

// Bounds returns the box enclosing every mesh below n, expressed in n's own
// local space (n's transform is not applied). ok is false if no mesh exists.
func (n *Node) Bounds() (box AABB, ok bool) {
	var walk func(node *Node, m mgl32.Mat4)
	walk = func(node *Node, m mgl32.Mat4) {
		if node.Mesh != nil && node.Mesh.HasLocalAABB {
			b := transformAABB(node.Mesh.LocalAABB, m)
			if ok {
				box = box.Union(b)
			} else {
				box, ok = b, true
			}
		}
		for _, child := range node.Children {
			walk(child, m.Mul4(child.Transform.Matrix()))
		}
	}
	walk(n, mgl32.Ident4())
	return box, ok
}
