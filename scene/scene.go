package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"hall-of-fame/core"
)

// Scene manages a collection of nodes and the active camera
type Scene struct {
	Root     *Node
	Camera   *Camera
	Lights   []*Light
	Ambient  core.Color
	SkyColor core.Color
}

// Light types
const (
	LightTypeDirectional = iota
	LightTypePoint
	LightTypeSpot
)

// Light represents a light source. Scene-level lights use Position and
// Direction in world space. A light attached to a Node takes its position
// from the node and treats Direction as node-local.
type Light struct {
	Type      int
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Color     core.Color
	Intensity float32
	Range     float32
	SpotAngle float32 // outer cone half-angle in degrees
	Penumbra  float32 // 0..1 fraction of the cone that fades out
}

// NewSpotLight returns a spot light shining down the node's -Z axis.
func NewSpotLight(color core.Color, intensity, rangeDist, angleDeg, penumbra float32) *Light {
	return &Light{
		Type:      LightTypeSpot,
		Direction: core.Forward,
		Color:     color,
		Intensity: intensity,
		Range:     rangeDist,
		SpotAngle: angleDeg,
		Penumbra:  penumbra,
	}
}

// WorldLight is a light resolved into world space for one frame.
type WorldLight struct {
	Light
}

func NewScene() *Scene {
	return &Scene{
		Root:     NewNode("Root"),
		Lights:   make([]*Light, 0),
		Ambient:  core.Color{R: 0.2, G: 0.2, B: 0.2, A: 1.0},
		SkyColor: core.Color{R: 0.5, G: 0.7, B: 1.0, A: 1.0},
	}
}

func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

func (s *Scene) AddNode(node *Node) {
	s.Root.AddChild(node)
}

func (s *Scene) RemoveNode(node *Node) {
	s.Root.RemoveChild(node)
}

func (s *Scene) AddLight(light *Light) {
	s.Lights = append(s.Lights, light)
}

// VisibleNodes returns every mesh node whose whole ancestor chain is visible.
func (s *Scene) VisibleNodes() []*Node {
	var visible []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if !n.Visible {
			return
		}
		if n.Mesh != nil {
			visible = append(visible, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(s.Root)
	return visible
}

// CollectLights resolves scene-level lights plus lights attached to visible
// nodes into world space.
func (s *Scene) CollectLights() []WorldLight {
	out := make([]WorldLight, 0, len(s.Lights))
	for _, l := range s.Lights {
		if l != nil {
			out = append(out, WorldLight{*l})
		}
	}
	var walk func(n *Node)
	walk = func(n *Node) {
		if !n.Visible {
			return
		}
		if n.Light != nil {
			wl := WorldLight{*n.Light}
			wl.Position = n.WorldPosition()
			wl.Direction = n.WorldDirection(n.Light.Direction)
			out = append(out, wl)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(s.Root)
	return out
}
