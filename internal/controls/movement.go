package controls

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"hall-of-fame/core"
	"hall-of-fame/internal/frame"
	"hall-of-fame/scene"
)

const (
	// WallReach is how close a wall may get before movement toward it stops.
	WallReach = 2
	// msPerUnit converts frame milliseconds into walked distance.
	msPerUnit = 100
	// crosshairDistance is how far in front of the camera the marker floats.
	crosshairDistance = 1.5
)

// MovementState is the set of held direction keys.
type MovementState struct {
	Up, Down, Left, Right bool
}

// Intent is the normalized (right, forward) walking direction.
func (s MovementState) Intent() mgl32.Vec2 {
	v := mgl32.Vec2{boolF(s.Right) - boolF(s.Left), boolF(s.Up) - boolF(s.Down)}
	if l := v.Len(); l > 0 {
		v = v.Mul(1 / l)
	}
	return v
}

// Movement walks the camera through the halls without passing walls.
type Movement struct {
	State     MovementState
	Crosshair *scene.Node

	lock      *PointerLock
	walls     []*scene.Node
	raycaster *scene.Raycaster
}

func NewMovement(lock *PointerLock) *Movement {
	crosshair := scene.NewMeshNode("crosshair", scene.CreateSphere(0.01, 16, 8))
	crosshair.Mesh.Material = scene.NewBasicMaterial("crosshair", core.ColorWhite)
	return &Movement{
		Crosshair: crosshair,
		lock:      lock,
		raycaster: scene.NewRaycaster(),
	}
}

// AddWalls registers collision surfaces.
func (m *Movement) AddWalls(walls ...*scene.Node) {
	m.walls = append(m.walls, walls...)
}

func (m *Movement) KeyDown(k core.Key) { m.setKey(k, true) }
func (m *Movement) KeyUp(k core.Key)   { m.setKey(k, false) }

func (m *Movement) setKey(k core.Key, down bool) {
	switch k {
	case core.KeyW, core.KeyUp:
		m.State.Up = down
	case core.KeyS, core.KeyDown:
		m.State.Down = down
	case core.KeyA, core.KeyLeft:
		m.State.Left = down
	case core.KeyD, core.KeyRight:
		m.State.Right = down
	case core.KeyEscape:
		m.lock.Unlock()
	}
}

// Update moves the camera by the held keys for one frame, then parks the
// crosshair in front of it.
func (m *Movement) Update(fc frame.Context) {
	cam := m.lock.Camera
	// One snapshot serves all four probes.
	origin, heading := cam.Position, horizontal(cam.Forward())

	intent := m.resolve(origin, heading, m.State.Intent())
	m.lock.MoveRight(intent.X() * fc.DeltaMs / msPerUnit)
	m.lock.MoveForward(intent.Y() * fc.DeltaMs / msPerUnit)

	rot := cam.Rotation()
	m.Crosshair.SetPosition(cam.Position.Add(rot.Rotate(core.Forward).Mul(crosshairDistance)))
	m.Crosshair.SetRotation(rot)
}

// resolve zeroes every intent component that heads into a wall closer than
// WallReach. Probes run front, left, back, right: the heading turned a
// quarter left each time.
func (m *Movement) resolve(origin, heading mgl32.Vec3, intent mgl32.Vec2) mgl32.Vec2 {
	if heading.Len() == 0 || len(m.walls) == 0 {
		return intent
	}
	quarter := mgl32.QuatRotate(math.Pi/2, core.AxisY)
	dir := heading
	for probe := 0; probe < 4; probe++ {
		if m.blocked(origin, dir) {
			switch probe {
			case 0:
				if intent.Y() > 0 {
					intent[1] = 0
				}
			case 1:
				if intent.X() < 0 {
					intent[0] = 0
				}
			case 2:
				if intent.Y() < 0 {
					intent[1] = 0
				}
			case 3:
				if intent.X() > 0 {
					intent[0] = 0
				}
			}
		}
		dir = quarter.Rotate(dir)
	}
	return intent
}

func (m *Movement) blocked(origin, dir mgl32.Vec3) bool {
	m.raycaster.Set(origin, dir)
	hits := m.raycaster.IntersectObjects(m.walls, false)
	return len(hits) > 0 && hits[0].Distance < WallReach
}

func boolF(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
