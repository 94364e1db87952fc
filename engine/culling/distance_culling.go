package culling

import (
	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultDistance is the culling distance used when none is configured. It is large enough
// that entities in small scenes are always visible.
const DefaultDistance float32 = 1000.0

// DistanceCulling is the per-entity visibility policy: the maximum distance from the camera
// at which the entity is still drawn.
type DistanceCulling struct {
	Distance float32
}

// DefaultDistanceCulling returns a DistanceCulling using DefaultDistance.
//
// Returns:
//   - DistanceCulling: the default policy
func DefaultDistanceCulling() DistanceCulling {
	return DistanceCulling{Distance: DefaultDistance}
}

// OrDefault returns the receiver, or the default policy when the distance is unset.
func (d DistanceCulling) OrDefault() DistanceCulling {
	return DistanceCulling{Distance: common.Coalesce(d.Distance, DefaultDistance)}
}

// Cullable is the visibility capability shared by every drawable layer kind.
type Cullable interface {
	// CullingDistance returns the maximum view distance of the layer.
	//
	// Returns:
	//   - DistanceCulling: the layer's culling policy
	CullingDistance() DistanceCulling

	// BoundingBox returns the world-space bounding box used for the distance check.
	//
	// Returns:
	//   - common.AABB: the layer's bounding box
	BoundingBox() common.AABB
}

// IsVisible reports whether a box is within distance of the camera. The distance is measured
// to the nearest point of the box, so a camera inside the box always sees it.
//
// Parameters:
//   - cameraPos: world-space camera position
//   - box: world-space bounding box
//   - distance: the maximum view distance
//
// Returns:
//   - bool: true if the box is close enough to be drawn
func IsVisible(cameraPos mgl32.Vec3, box common.AABB, distance DistanceCulling) bool {
	return box.DistanceTo(cameraPos) <= distance.Distance
}

// IsCullableVisible applies IsVisible to a Cullable.
//
// Parameters:
//   - cameraPos: world-space camera position
//   - c: the entity to test
//
// Returns:
//   - bool: true if the entity is close enough to be drawn
func IsCullableVisible(cameraPos mgl32.Vec3, c Cullable) bool {
	return IsVisible(cameraPos, c.BoundingBox(), c.CullingDistance())
}

// Evaluate fills visible with the result of the distance check for every entity and
// returns how many passed. visible is resized to len(entities) when needed.
//
// Parameters:
//   - cameraPos: world-space camera position
//   - entities: the entities to test
//   - visible: reusable output slice
//
// Returns:
//   - []bool: the visibility flags, index-aligned with entities
//   - int: the number of visible entities
func Evaluate[C Cullable](cameraPos mgl32.Vec3, entities []C, visible []bool) ([]bool, int) {
	if cap(visible) < len(entities) {
		visible = make([]bool, len(entities))
	}
	visible = visible[:len(entities)]
	count := 0
	for i, e := range entities {
		visible[i] = IsCullableVisible(cameraPos, e)
		if visible[i] {
			count++
		}
	}
	return visible, count
}
