package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	barkColor     = mgl32.Vec4{0.36, 0.25, 0.16, 1}
	needleColor   = mgl32.Vec4{0.17, 0.36, 0.18, 1}
	leafColor     = mgl32.Vec4{0.25, 0.45, 0.2, 1}
	stoneColor    = mgl32.Vec4{0.5, 0.5, 0.48, 1}
	stemColor     = mgl32.Vec4{0.92, 0.88, 0.78, 1}
	capColor      = mgl32.Vec4{0.72, 0.16, 0.12, 1}
	capUnderColor = mgl32.Vec4{0.85, 0.78, 0.66, 1}
)

// NewTree builds a low-poly conifer: a trunk cylinder under three stacked cones. Roughly 20 units tall.
//
// Parameters:
//   - name: the model name
//   - axis: the up axis of the generated mesh
//
// Returns:
//   - Model: the tree model
func NewTree(name string, axis Axis) Model {
	b := newMeshBuilder(axis)
	b.frustum(8, 0.8, 0.6, 0, 5, barkColor)
	b.frustum(10, 5, 0, 4, 11, needleColor)
	b.disc(10, 5, 4, true, needleColor)
	b.frustum(10, 4, 0, 8, 15, needleColor)
	b.disc(10, 4, 8, true, needleColor)
	b.frustum(10, 2.8, 0, 12, 20, needleColor)
	b.disc(10, 2.8, 12, true, needleColor)
	return NewModel(WithName(name), WithMesh(b.vertices, b.indices))
}

// NewBush builds a squashed leafy dome about 5 units across.
//
// Parameters:
//   - name: the model name
//   - axis: the up axis of the generated mesh
//
// Returns:
//   - Model: the bush model
func NewBush(name string, axis Axis) Model {
	b := newMeshBuilder(axis)
	lumpy := func(r, s int) float32 {
		return 0.85 + 0.15*hashUnit(uint32(r+8), uint32(s))
	}
	b.dome(9, 3, 2.5, 2, 0, false, lumpy, leafColor)
	b.disc(9, 2.5*0.85, 0, true, leafColor)
	return NewModel(WithName(name), WithMesh(b.vertices, b.indices))
}

// NewRock builds an irregular boulder from a jittered low-resolution sphere.
// The seed picks the jitter so several rock variants can share a layer kind.
//
// Parameters:
//   - name: the model name
//   - axis: the up axis of the generated mesh
//   - seed: selects the jitter pattern
//
// Returns:
//   - Model: the rock model
func NewRock(name string, axis Axis, seed uint32) Model {
	b := newMeshBuilder(axis)
	jagged := func(r, s int) float32 {
		return 0.7 + 0.3*hashUnit(uint32(r+8)^seed, uint32(s)+seed*31)
	}
	b.dome(7, 3, 2, 1.4, 0.6, true, jagged, stoneColor)
	return NewModel(WithName(name), WithMesh(b.vertices, b.indices))
}

// NewMushroom builds a toadstool: a thin stem under a hemispherical cap.
//
// Parameters:
//   - name: the model name
//   - axis: the up axis of the generated mesh
//
// Returns:
//   - Model: the mushroom model
func NewMushroom(name string, axis Axis) Model {
	b := newMeshBuilder(axis)
	b.frustum(8, 1.2, 0.9, 0, 6, stemColor)
	b.dome(10, 3, 4, 3, 6, false, nil, capColor)
	b.disc(10, 4, 6, true, capUnderColor)
	return NewModel(WithName(name), WithMesh(b.vertices, b.indices))
}

// hashUnit maps two integers to [0, 1) with a small integer hash.
func hashUnit(a, b uint32) float32 {
	h := a*374761393 + b*668265263
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return float32(h&0xffffff) / float32(1<<24)
}

func cos32(a float32) float32 {
	return float32(math.Cos(float64(a)))
}

func sin32(a float32) float32 {
	return float32(math.Sin(float64(a)))
}

var groundColor = mgl32.Vec4{0.3, 0.42, 0.2, 1}

// NewGround builds a flat unit square centred on the origin, facing up. Scale it to the grid size.
//
// Parameters:
//   - name: the model name
//
// Returns:
//   - Model: the ground model
func NewGround(name string) Model {
	b := newMeshBuilder(AxisY)
	b.quad(
		mgl32.Vec3{-0.5, 0, 0.5},
		mgl32.Vec3{0.5, 0, 0.5},
		mgl32.Vec3{0.5, 0, -0.5},
		mgl32.Vec3{-0.5, 0, -0.5},
		groundColor,
	)
	return NewModel(WithName(name), WithMesh(b.vertices, b.indices))
}
