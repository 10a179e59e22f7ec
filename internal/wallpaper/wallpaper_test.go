package wallpaper

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"hall-of-fame/scene"
)

type fakeSource struct {
	calls atomic.Int32
	delay time.Duration
	err   error
}

func (f *fakeSource) Texture(ctx context.Context, ref string) (*scene.Texture, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return scene.NewSolidTexture(ref, 200, 180, 160, 255), nil
}

func TestGetDerivesIndependentTilings(t *testing.T) {
	src := &fakeSource{}
	m := NewManager(src, nil)

	p, err := m.Get(context.Background(), 1, 5, 4, 18.5566)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	sides, end := p.Sides.AlbedoTexture, p.End.AlbedoTexture
	if sides == end {
		t.Fatal("sides and end must not share a texture")
	}
	if sides.Image != end.Image {
		t.Error("sides and end should share the decoded image")
	}

	v := float32(2 * (4 * 240.0 / 458.0))
	if !sides.Repeat.ApproxEqualThreshold(mgl32.Vec2{2 * 18.5566, v}, 1e-4) {
		t.Errorf("sides repeat: got %v", sides.Repeat)
	}
	if !end.Repeat.ApproxEqualThreshold(mgl32.Vec2{2 * 5, v}, 1e-4) {
		t.Errorf("end repeat: got %v", end.Repeat)
	}
	if !p.Sides.DoubleSided || !p.End.DoubleSided {
		t.Error("wall materials should be double sided")
	}
}

func TestGetIsMemoizedAndIgnoresLaterDimensions(t *testing.T) {
	src := &fakeSource{}
	m := NewManager(src, nil)

	first, err := m.Get(context.Background(), 0, 5, 4, 10)
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.Get(context.Background(), 0, 50, 40, 100)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("second Get should return the cached pair")
	}
	if got := second.Sides.AlbedoTexture.Repeat.X(); got != 20 {
		t.Errorf("dimensions of the first call should stick: repeat.x %v", got)
	}
	if src.calls.Load() != 1 {
		t.Errorf("expected 1 load, got %d", src.calls.Load())
	}
}

func TestGetCoalescesConcurrentRequests(t *testing.T) {
	src := &fakeSource{delay: 20 * time.Millisecond}
	m := NewManager(src, nil)

	var wg sync.WaitGroup
	pairs := make([]Pair, 8)
	for i := range pairs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := m.Get(context.Background(), 2, 5, 4, 18)
			if err != nil {
				t.Error(err)
			}
			pairs[i] = p
		}()
	}
	wg.Wait()

	if src.calls.Load() != 1 {
		t.Errorf("expected 1 load, got %d", src.calls.Load())
	}
	for _, p := range pairs[1:] {
		if p != pairs[0] {
			t.Fatal("concurrent callers received different pairs")
		}
	}
}

func TestGetErrors(t *testing.T) {
	boom := errors.New("boom")
	m := NewManager(&fakeSource{err: boom}, nil)

	if _, err := m.Get(context.Background(), 0, 5, 4, 18); !errors.Is(err, boom) {
		t.Errorf("expected wrapped load error, got %v", err)
	}
	if _, err := m.Get(context.Background(), 3, 5, 4, 18); err == nil {
		t.Error("expected an error for an out-of-range index")
	}
}

func TestFloors(t *testing.T) {
	src := &fakeSource{}
	m := NewManager(src, nil)

	floor, err := m.HallFloor(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if floor.AlbedoTexture.Repeat != (mgl32.Vec2{1, 5}) {
		t.Errorf("hall floor repeat: got %v", floor.AlbedoTexture.Repeat)
	}
	again, _ := m.HallFloor(context.Background())
	if again != floor {
		t.Error("hall floor should be memoized")
	}

	center, err := m.CenterFloor(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !center.Transparent {
		t.Error("center floor should be transparent")
	}
	if src.calls.Load() != 2 {
		t.Errorf("expected 2 loads, got %d", src.calls.Load())
	}
}
