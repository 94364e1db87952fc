package culling

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/go-gl/mathgl/mgl32"
)

type testCullable struct {
	box  common.AABB
	dist DistanceCulling
}

func (c testCullable) CullingDistance() DistanceCulling { return c.dist }
func (c testCullable) BoundingBox() common.AABB         { return c.box }

func TestDefaultDistanceCulling(t *testing.T) {
	if d := DefaultDistanceCulling().Distance; d != 1000 {
		t.Fatalf("default distance = %v, want 1000", d)
	}
	if d := (DistanceCulling{}).OrDefault().Distance; d != DefaultDistance {
		t.Fatalf("unset distance should fall back to default, got %v", d)
	}
	if d := (DistanceCulling{Distance: 200}).OrDefault().Distance; d != 200 {
		t.Fatalf("configured distance should be kept, got %v", d)
	}
}

func TestIsVisibleMonotonic(t *testing.T) {
	box := common.NewAABB(mgl32.Vec3{0, 2, 0}, mgl32.Vec3{15, 2, 15})
	dist := DistanceCulling{Distance: 200}

	// Walk the camera away from the box and check that once it becomes hidden it stays hidden.
	hidden := false
	for x := float32(0); x < 1000; x += 2.5 {
		visible := IsVisible(mgl32.Vec3{x, 1.7, x / 3}, box, dist)
		if hidden && visible {
			t.Fatalf("visibility flipped back on at x=%v", x)
		}
		if !visible {
			hidden = true
		}
	}
	if !hidden {
		t.Fatal("camera never left culling range")
	}
}

func TestIsVisibleUsesNearestPoint(t *testing.T) {
	// A large chunk whose center is far from the camera that is still inside it.
	box := common.NewAABB(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{500, 10, 500})
	cam := mgl32.Vec3{480, 5, -480}
	if d := box.DistanceTo(cam); d != 0 {
		t.Fatalf("distance from inside camera = %v, want 0", d)
	}
	if !IsVisible(cam, box, DistanceCulling{Distance: 1}) {
		t.Fatal("camera inside the box must see it regardless of center distance")
	}

	// Just outside the side face, the center is ~700 away but the face is 5 away.
	outside := mgl32.Vec3{505, 5, 0}
	if !IsVisible(outside, box, DistanceCulling{Distance: 10}) {
		t.Fatal("box should be visible when its nearest face is within range")
	}
	if IsVisible(outside, box, DistanceCulling{Distance: 4}) {
		t.Fatal("box should be hidden when its nearest face is out of range")
	}
}

func TestIsVisibleBoundaryInclusive(t *testing.T) {
	box := common.NewAABB(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	if !IsVisible(mgl32.Vec3{11, 0, 0}, box, DistanceCulling{Distance: 10}) {
		t.Fatal("distance equal to culling distance should be visible")
	}
}

func TestEvaluate(t *testing.T) {
	near := testCullable{box: common.NewAABB(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}), dist: DistanceCulling{Distance: 50}}
	far := testCullable{box: common.NewAABB(mgl32.Vec3{500, 0, 0}, mgl32.Vec3{1, 1, 1}), dist: DistanceCulling{Distance: 50}}
	farWide := testCullable{box: common.NewAABB(mgl32.Vec3{500, 0, 0}, mgl32.Vec3{1, 1, 1}), dist: DistanceCulling{Distance: 1000}}

	entities := []testCullable{near, far, farWide}
	visible, count := Evaluate(mgl32.Vec3{}, entities, nil)
	if count != 2 {
		t.Fatalf("visible count = %d, want 2", count)
	}
	want := []bool{true, false, true}
	for i := range want {
		if visible[i] != want[i] {
			t.Fatalf("visible[%d] = %v, want %v", i, visible[i], want[i])
		}
	}

	reused, _ := Evaluate(mgl32.Vec3{}, entities[:1], visible)
	if &reused[0] != &visible[0] {
		t.Fatal("Evaluate should reuse the provided slice when it has capacity")
	}
}
