package common

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box expressed as a center and half-extents.
type AABB struct {
	Center      mgl32.Vec3
	HalfExtents mgl32.Vec3
}

// NewAABB creates an AABB from its center and half-extents.
//
// Parameters:
//   - center: the box center in world space
//   - halfExtents: the half size along each axis
//
// Returns:
//   - AABB: the bounding box
func NewAABB(center, halfExtents mgl32.Vec3) AABB {
	return AABB{Center: center, HalfExtents: halfExtents}
}

// NewAABBFromMinMax creates an AABB from its minimum and maximum corners.
//
// Parameters:
//   - lo: the minimum corner
//   - hi: the maximum corner
//
// Returns:
//   - AABB: the bounding box
func NewAABBFromMinMax(lo, hi mgl32.Vec3) AABB {
	return AABB{Center: lo.Add(hi).Mul(0.5), HalfExtents: hi.Sub(lo).Mul(0.5)}
}

// Min returns the minimum corner of the box.
func (b AABB) Min() mgl32.Vec3 {
	return b.Center.Sub(b.HalfExtents)
}

// Max returns the maximum corner of the box.
func (b AABB) Max() mgl32.Vec3 {
	return b.Center.Add(b.HalfExtents)
}

// Translate returns a copy of the box moved by offset.
//
// Parameters:
//   - offset: the translation to apply
//
// Returns:
//   - AABB: the translated box
func (b AABB) Translate(offset mgl32.Vec3) AABB {
	return AABB{Center: b.Center.Add(offset), HalfExtents: b.HalfExtents}
}

// PadXZ returns a copy of the box grown by r on every horizontal side.
//
// Parameters:
//   - r: the horizontal padding
//
// Returns:
//   - AABB: the padded box
func (b AABB) PadXZ(r float32) AABB {
	return AABB{Center: b.Center, HalfExtents: b.HalfExtents.Add(mgl32.Vec3{r, 0, r})}
}

// Corners returns the eight corners of the box.
func (b AABB) Corners() [8]mgl32.Vec3 {
	lo, hi := b.Min(), b.Max()
	var out [8]mgl32.Vec3
	for i := range out {
		c := lo
		if i&1 != 0 {
			c[0] = hi.X()
		}
		if i&2 != 0 {
			c[1] = hi.Y()
		}
		if i&4 != 0 {
			c[2] = hi.Z()
		}
		out[i] = c
	}
	return out
}

// NearestPoint returns the point on or inside the box closest to p.
// If p is inside the box, p itself is returned.
//
// Parameters:
//   - p: the query point
//
// Returns:
//   - mgl32.Vec3: the closest point of the box
func (b AABB) NearestPoint(p mgl32.Vec3) mgl32.Vec3 {
	lo, hi := b.Min(), b.Max()
	return mgl32.Vec3{
		mgl32.Clamp(p.X(), lo.X(), hi.X()),
		mgl32.Clamp(p.Y(), lo.Y(), hi.Y()),
		mgl32.Clamp(p.Z(), lo.Z(), hi.Z()),
	}
}

// DistanceTo returns the distance from p to the nearest point of the box. It is 0 when p is inside.
//
// Parameters:
//   - p: the query point
//
// Returns:
//   - float32: the euclidean distance to the box
func (b AABB) DistanceTo(p mgl32.Vec3) float32 {
	return p.Sub(b.NearestPoint(p)).Len()
}

// Contains reports whether p lies inside or on the boundary of the box.
func (b AABB) Contains(p mgl32.Vec3) bool {
	lo, hi := b.Min(), b.Max()
	return p.X() >= lo.X() && p.X() <= hi.X() &&
		p.Y() >= lo.Y() && p.Y() <= hi.Y() &&
		p.Z() >= lo.Z() && p.Z() <= hi.Z()
}

// Validate returns an error if any half-extent is not strictly positive and finite.
//
// Returns:
//   - error: nil when the box is well formed
func (b AABB) Validate() error {
	for i := range 3 {
		if !IsFinite(b.HalfExtents[i]) || b.HalfExtents[i] <= 0 {
			return fmt.Errorf("aabb half-extent %d must be positive, got %v", i, b.HalfExtents[i])
		}
	}
	return nil
}
