package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"hall-of-fame/core"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func approxVec(a, b mgl32.Vec3) bool {
	return a.ApproxEqualThreshold(b, 1e-4)
}

func planeAt(z float32) *Node {
	n := NewMeshNode("plane", CreatePlane(2, 2))
	n.SetPosition(mgl32.Vec3{0, 0, z})
	return n
}

func TestRaycastHitsPlane(t *testing.T) {
	rc := NewRaycaster()
	rc.Set(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1})

	hits := rc.IntersectObject(planeAt(-3), false)
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if !approx(hits[0].Distance, 3) {
		t.Errorf("Distance: expected 3, got %v", hits[0].Distance)
	}
	if !approxVec(hits[0].Point, mgl32.Vec3{0, 0, -3}) {
		t.Errorf("Point: expected (0,0,-3), got %v", hits[0].Point)
	}
}

func TestRaycastMissesBehindOrAside(t *testing.T) {
	rc := NewRaycaster()
	rc.Set(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1})

	if hits := rc.IntersectObject(planeAt(3), false); len(hits) != 0 {
		t.Errorf("plane behind the origin should not be hit, got %d hits", len(hits))
	}

	aside := planeAt(-3)
	aside.SetPosition(mgl32.Vec3{5, 0, -3})
	if hits := rc.IntersectObject(aside, false); len(hits) != 0 {
		t.Errorf("plane off to the side should not be hit, got %d hits", len(hits))
	}
}

func TestRaycastRecursiveAndSorted(t *testing.T) {
	group := NewNode("group")
	near := planeAt(-3)
	far := planeAt(-5)
	group.AddChild(far)
	group.AddChild(near)

	rc := NewRaycaster()
	rc.Set(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1})

	if hits := rc.IntersectObjects([]*Node{group}, false); len(hits) != 0 {
		t.Errorf("non-recursive test of an empty group: expected 0 hits, got %d", len(hits))
	}

	hits := rc.IntersectObjects([]*Node{group}, true)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Node != near || hits[1].Node != far {
		t.Errorf("hits not sorted nearest first: %v, %v", hits[0].Distance, hits[1].Distance)
	}
}

func TestRaycastSkipsHiddenNodes(t *testing.T) {
	p := planeAt(-3)
	p.Visible = false

	rc := NewRaycaster()
	rc.Set(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1})
	if hits := rc.IntersectObject(p, true); len(hits) != 0 {
		t.Errorf("hidden node should not be hit, got %d hits", len(hits))
	}
}

func TestCameraForward(t *testing.T) {
	cam := NewCamera(mgl32.DegToRad(45), 16.0/9.0, 0.1, 100)
	if !approxVec(cam.Forward(), mgl32.Vec3{0, 0, -1}) {
		t.Errorf("default forward: expected -Z, got %v", cam.Forward())
	}

	cam.SetYawPitch(math.Pi/2, 0)
	if !approxVec(cam.Forward(), mgl32.Vec3{-1, 0, 0}) {
		t.Errorf("yaw +90°: expected -X, got %v", cam.Forward())
	}
}

func TestCameraRayFromNDCCenter(t *testing.T) {
	cam := NewCamera(mgl32.DegToRad(45), 1, 0.1, 100)
	cam.SetPosition(mgl32.Vec3{0, 2, 10})

	ray := cam.RayFromNDC(mgl32.Vec2{0, 0})
	if !approxVec(ray.Origin, cam.Position) {
		t.Errorf("Origin: expected %v, got %v", cam.Position, ray.Origin)
	}
	if !approxVec(ray.Direction, mgl32.Vec3{0, 0, -1}) {
		t.Errorf("Direction: expected -Z, got %v", ray.Direction)
	}
}

func TestNDCFromWindow(t *testing.T) {
	tests := []struct {
		x, y float64
		want mgl32.Vec2
	}{
		{0, 0, mgl32.Vec2{-1, 1}},
		{400, 300, mgl32.Vec2{0, 0}},
		{800, 600, mgl32.Vec2{1, -1}},
	}
	for _, tt := range tests {
		got := NDCFromWindow(tt.x, tt.y, 800, 600)
		if !got.ApproxEqual(tt.want) {
			t.Errorf("NDCFromWindow(%v, %v): expected %v, got %v", tt.x, tt.y, tt.want, got)
		}
	}
}

func TestWorldMatrixComposition(t *testing.T) {
	parent := NewNode("parent")
	parent.RotateY(math.Pi / 2)
	child := NewNode("child")
	child.SetPosition(mgl32.Vec3{0, 0, 1})
	parent.AddChild(child)

	if !approxVec(child.WorldPosition(), mgl32.Vec3{1, 0, 0}) {
		t.Errorf("WorldPosition: expected (1,0,0), got %v", child.WorldPosition())
	}

	parent.SetPosition(mgl32.Vec3{0, 3, 0})
	if !approxVec(child.WorldPosition(), mgl32.Vec3{1, 3, 0}) {
		t.Errorf("WorldPosition after parent move: expected (1,3,0), got %v", child.WorldPosition())
	}
}

func TestTranslateOnLocalAxis(t *testing.T) {
	n := NewNode("n")
	n.RotateY(math.Pi / 2)
	n.TranslateZ(-4)
	if !approxVec(n.Position(), mgl32.Vec3{-4, 0, 0}) {
		t.Errorf("TranslateZ(-4) after yaw 90°: expected (-4,0,0), got %v", n.Position())
	}
}

func TestNodeBounds(t *testing.T) {
	group := NewNode("group")
	if _, ok := group.Bounds(); ok {
		t.Errorf("empty group should report no bounds")
	}

	child := NewMeshNode("quad", CreatePlane(1, 1))
	child.SetPosition(mgl32.Vec3{0, 2, 0})
	group.AddChild(child)
	group.SetPosition(mgl32.Vec3{100, 100, 100})

	box, ok := group.Bounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	if !approx(box.Min.Y(), 1.5) || !approx(box.Max.Y(), 2.5) {
		t.Errorf("Bounds Y: expected [1.5, 2.5], got [%v, %v]", box.Min.Y(), box.Max.Y())
	}
}

func TestCloneSharesMeshes(t *testing.T) {
	root := NewNode("root")
	mesh := CreatePlane(1, 1)
	root.AddChild(NewMeshNode("child", mesh))

	c := root.Clone()
	if c.ID == root.ID {
		t.Errorf("clone must get a fresh ID")
	}
	if len(c.Children) != 1 || c.Children[0].Mesh != mesh {
		t.Errorf("clone should share the child's mesh")
	}
	if c.Children[0].Parent != c {
		t.Errorf("cloned child should be parented to the clone")
	}
}

func TestTextureCloneSharesImage(t *testing.T) {
	tex := NewSolidTexture("white", 255, 255, 255, 255)
	c := tex.Clone()
	c.Repeat = mgl32.Vec2{4, 2}

	if c.Image != tex.Image {
		t.Errorf("clone should share the image")
	}
	if tex.Repeat != (mgl32.Vec2{1, 1}) {
		t.Errorf("original repeat changed: %v", tex.Repeat)
	}
}

func TestCollectLightsFromNodes(t *testing.T) {
	s := NewScene()
	holder := NewNode("spot")
	holder.Light = NewSpotLight(core.ColorWhite, 1, 10, 30, 0.5)
	holder.SetPosition(mgl32.Vec3{1, 2, 3})
	holder.RotateY(math.Pi / 2)
	s.AddNode(holder)

	lights := s.CollectLights()
	if len(lights) != 1 {
		t.Fatalf("expected 1 light, got %d", len(lights))
	}
	if !approxVec(lights[0].Position, mgl32.Vec3{1, 2, 3}) {
		t.Errorf("Position: expected (1,2,3), got %v", lights[0].Position)
	}
	if !approxVec(lights[0].Direction, mgl32.Vec3{-1, 0, 0}) {
		t.Errorf("Direction: expected -X, got %v", lights[0].Direction)
	}

	holder.Visible = false
	if n := len(s.CollectLights()); n != 0 {
		t.Errorf("hidden light holder should not contribute, got %d", n)
	}
}

func TestBuildDrawListOrdersTransparentBackToFront(t *testing.T) {
	s := NewScene()
	s.SetCamera(NewCamera(mgl32.DegToRad(45), 1, 0.1, 100))

	glass := func(z float32) *Node {
		mat := NewMaterial("glass", core.ColorWhite)
		mat.Transparent = true
		n := NewMeshNode("glass", CreatePlane(1, 1).WithMaterial(mat))
		n.SetPosition(mgl32.Vec3{0, 0, z})
		return n
	}
	near, far := glass(-2), glass(-8)
	s.AddNode(near)
	s.AddNode(planeAt(-5))
	s.AddNode(far)

	dl := BuildDrawList(s, false)
	if len(dl.Opaque) != 1 {
		t.Fatalf("expected 1 opaque item, got %d", len(dl.Opaque))
	}
	if len(dl.Transparent) != 2 {
		t.Fatalf("expected 2 transparent items, got %d", len(dl.Transparent))
	}
	if dl.Transparent[0].Node != far || dl.Transparent[1].Node != near {
		t.Errorf("transparent items should be drawn farthest first")
	}
}

func TestBuildDrawListCullsOutsideFrustum(t *testing.T) {
	s := NewScene()
	s.SetCamera(NewCamera(mgl32.DegToRad(45), 1, 0.1, 100))
	s.AddNode(planeAt(-5))
	s.AddNode(planeAt(5)) // behind the camera

	dl := BuildDrawList(s, true)
	if len(dl.Opaque) != 1 || dl.Culled != 1 {
		t.Errorf("expected 1 drawn and 1 culled, got %d drawn and %d culled", len(dl.Opaque), dl.Culled)
	}
}
