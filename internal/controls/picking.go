package controls

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"hall-of-fame/scene"
)

// Picker routes clicks to handlers registered on scene nodes. A click on
// any descendant of a registered node activates that node.
type Picker struct {
	camera    *scene.Camera
	raycaster *scene.Raycaster

	nodes    map[uuid.UUID]*scene.Node
	handlers map[uuid.UUID]func()
	order    []*scene.Node
}

func NewPicker(camera *scene.Camera) *Picker {
	return &Picker{
		camera:    camera,
		raycaster: scene.NewRaycaster(),
		nodes:     make(map[uuid.UUID]*scene.Node),
		handlers:  make(map[uuid.UUID]func()),
	}
}

// Register sets fn as node's handler, replacing any previous one.
func (p *Picker) Register(node *scene.Node, fn func()) {
	if _, ok := p.nodes[node.ID]; !ok {
		p.order = append(p.order, node)
	}
	p.nodes[node.ID] = node
	p.handlers[node.ID] = fn
}

func (p *Picker) Unregister(node *scene.Node) {
	if _, ok := p.nodes[node.ID]; !ok {
		return
	}
	delete(p.nodes, node.ID)
	delete(p.handlers, node.ID)
	for i, n := range p.order {
		if n == node {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Target returns the registered node under ndc, or nil.
func (p *Picker) Target(ndc mgl32.Vec2) *scene.Node {
	if len(p.order) == 0 {
		return nil
	}
	p.raycaster.SetFromCamera(ndc, p.camera)
	hits := p.raycaster.IntersectObjects(p.order, true)
	if len(hits) == 0 {
		return nil
	}
	for n := hits[0].Node; n != nil; n = n.Parent {
		if _, ok := p.nodes[n.ID]; ok {
			return n
		}
	}
	return nil
}

// Pick runs the handler of the nearest registered node under ndc and
// reports whether one ran.
func (p *Picker) Pick(ndc mgl32.Vec2) bool {
	n := p.Target(ndc)
	if n == nil {
		return false
	}
	p.handlers[n.ID]()
	return true
}
