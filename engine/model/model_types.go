package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Axis selects which model-space axis a procedural primitive grows along.
type Axis int

const (
	// AxisY builds primitives standing on the XZ plane, growing along +Y.
	AxisY Axis = iota

	// AxisZ builds primitives lying on the XY plane, growing along +Z. This is the
	// convention of exported foliage assets, which are stood up with a -90° rotation about X.
	AxisZ
)

// meshBuilder accumulates flat-shaded triangles. Each triangle gets its own three vertices
// so the face normal is used for lighting, which gives foliage its low-poly look.
type meshBuilder struct {
	axis     Axis
	vertices []GPUVertex
	indices  []uint32
}

func newMeshBuilder(axis Axis) *meshBuilder {
	return &meshBuilder{axis: axis}
}

// orient maps a Y-up position or direction into the builder's axis convention.
func (b *meshBuilder) orient(v mgl32.Vec3) mgl32.Vec3 {
	if b.axis == AxisZ {
		return mgl32.Vec3{v.X(), -v.Z(), v.Y()}
	}
	return v
}

// triangle appends one counter-clockwise triangle given in Y-up space.
func (b *meshBuilder) triangle(p0, p1, p2 mgl32.Vec3, uv0, uv1, uv2 mgl32.Vec2, color mgl32.Vec4) {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if n.Len() > 0 {
		n = n.Normalize()
	}
	n = b.orient(n)
	tangent := b.orient(p1.Sub(p0))
	if tangent.Len() > 0 {
		tangent = tangent.Normalize()
	}

	base := uint32(len(b.vertices))
	uvs := [3]mgl32.Vec2{uv0, uv1, uv2}
	for i, p := range [3]mgl32.Vec3{p0, p1, p2} {
		uv := uvs[i]
		b.vertices = append(b.vertices, GPUVertex{
			Position: b.orient(p),
			Normal:   n,
			TexCoord: uv,
			Color:    color,
			Tangent:  [4]float32{tangent.X(), tangent.Y(), tangent.Z(), 1},
		})
	}
	b.indices = append(b.indices, base, base+1, base+2)
}

// quad appends two triangles spanning p0..p3 in counter-clockwise order.
func (b *meshBuilder) quad(p0, p1, p2, p3 mgl32.Vec3, color mgl32.Vec4) {
	b.triangle(p0, p1, p2, mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, mgl32.Vec2{1, 1}, color)
	b.triangle(p0, p2, p3, mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1}, mgl32.Vec2{0, 1}, color)
}

// ring returns segments points on a horizontal circle at height y.
func ring(segments int, radius, y float32) []mgl32.Vec3 {
	pts := make([]mgl32.Vec3, segments)
	for i := range segments {
		a := float32(i) / float32(segments) * 2 * math.Pi
		pts[i] = mgl32.Vec3{radius * cos32(a), y, -radius * sin32(a)}
	}
	return pts
}

// frustum appends the side wall between two rings, and caps the top with a fan when topRadius is 0.
func (b *meshBuilder) frustum(segments int, bottomRadius, topRadius, y0, y1 float32, color mgl32.Vec4) {
	bottom := ring(segments, bottomRadius, y0)
	if topRadius <= 0 {
		apex := mgl32.Vec3{0, y1, 0}
		for i := range segments {
			j := (i + 1) % segments
			u0, u1 := float32(i)/float32(segments), float32(i+1)/float32(segments)
			b.triangle(bottom[i], bottom[j], apex, mgl32.Vec2{u0, 0}, mgl32.Vec2{u1, 0}, mgl32.Vec2{(u0 + u1) / 2, 1}, color)
		}
		return
	}
	top := ring(segments, topRadius, y1)
	for i := range segments {
		j := (i + 1) % segments
		b.quad(bottom[i], bottom[j], top[j], top[i], color)
	}
}

// disc appends a fan closing a ring at height y. Facing down when down is true.
func (b *meshBuilder) disc(segments int, radius, y float32, down bool, color mgl32.Vec4) {
	pts := ring(segments, radius, y)
	center := mgl32.Vec3{0, y, 0}
	for i := range segments {
		j := (i + 1) % segments
		if down {
			b.triangle(center, pts[j], pts[i], mgl32.Vec2{0.5, 0.5}, mgl32.Vec2{1, 0}, mgl32.Vec2{0, 0}, color)
		} else {
			b.triangle(center, pts[i], pts[j], mgl32.Vec2{0.5, 0.5}, mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, color)
		}
	}
}

// dome appends a latitude/longitude ellipsoid cap from the equator at y0 upward.
// jitter, if non-nil, scales the radius of each ring point to roughen the surface.
func (b *meshBuilder) dome(segments, rings int, radius, height, y0 float32, fullSphere bool, jitter func(ringIdx, seg int) float32, color mgl32.Vec4) {
	startRing := 0
	if fullSphere {
		startRing = -rings
	}
	point := func(r, s int) mgl32.Vec3 {
		if r == rings || r == -rings {
			return mgl32.Vec3{0, y0 + height*float32(sign(r)), 0}
		}
		lat := float32(r) / float32(rings) * (math.Pi / 2)
		lon := float32(s%segments) / float32(segments) * 2 * math.Pi
		rr := radius * cos32(lat)
		if jitter != nil {
			rr *= jitter(r, s%segments)
		}
		return mgl32.Vec3{rr * cos32(lon), y0 + height*sin32(lat), -rr * sin32(lon)}
	}
	for r := startRing; r < rings; r++ {
		for s := range segments {
			p00, p01 := point(r, s), point(r, s+1)
			p10, p11 := point(r+1, s), point(r+1, s+1)
			switch {
			case r+1 == rings:
				b.triangle(p00, p01, p10, mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, mgl32.Vec2{0.5, 1}, color)
			case r == -rings:
				b.triangle(p00, p11, p10, mgl32.Vec2{0.5, 0}, mgl32.Vec2{1, 1}, mgl32.Vec2{0, 1}, color)
			default:
				b.quad(p00, p01, p11, p10, color)
			}
		}
	}
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}
