package grass

import (
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrInvalidExtents is returned when a chunk's half-extents are not positive finite numbers.
	ErrInvalidExtents = errors.New("grass half-extents must be positive and finite")

	// ErrInvalidRamp is returned when a color ramp has a channel outside [0, 1].
	ErrInvalidRamp = errors.New("grass color ramp channels must be in [0, 1]")

	// ErrInvalidScale is returned when the blade scale or height modifier is out of range.
	ErrInvalidScale = errors.New("grass scale must be positive and height modifier non-negative")
)

// ColorRamp is the three-stop gradient a blade is colored with, from base (h = 0) through middle (h = 0.5) to tip (h = 1).
type ColorRamp struct {
	Tip    mgl32.Vec3
	Middle mgl32.Vec3
	Base   mgl32.Vec3
}

// DefaultHealthyRamp is the ramp used where the growth map is fully favorable.
var DefaultHealthyRamp = ColorRamp{
	Tip:    mgl32.Vec3{0.66, 0.99, 0.34},
	Middle: mgl32.Vec3{0.40, 0.60, 0.30},
	Base:   mgl32.Vec3{0.22, 0.40, 0.255},
}

// DefaultUnhealthyRamp is the ramp used where the growth map is unfavorable.
var DefaultUnhealthyRamp = ColorRamp{
	Tip:    mgl32.Vec3{0.90, 0.95, 0.14},
	Middle: mgl32.Vec3{0.52, 0.57, 0.25},
	Base:   mgl32.Vec3{0.22, 0.40, 0.255},
}

// Validate reports a channel that is NaN or outside [0, 1].
//
// Returns:
//   - error: ErrInvalidRamp wrapped with the offending stop, or nil
func (c ColorRamp) Validate() error {
	stops := []struct {
		name  string
		color mgl32.Vec3
	}{{"tip", c.Tip}, {"middle", c.Middle}, {"base", c.Base}}
	for _, s := range stops {
		for _, ch := range s.color {
			if !common.IsFinite(ch) || ch < 0 || ch > 1 {
				return fmt.Errorf("%s %v: %w", s.name, s.color, ErrInvalidRamp)
			}
		}
	}
	return nil
}

// ChunkGrass is the complete description of one chunk's grass field. Every blade is derived from it
// and the blade index, so no per-blade data is ever stored.
type ChunkGrass struct {
	// ChunkXY is the world-space XZ position of the chunk centre.
	ChunkXY [2]float32
	// ChunkHalfExtents is the half size of the area blades are scattered over.
	ChunkHalfExtents [2]float32
	// NrInstances is the number of blades drawn for the chunk.
	NrInstances uint32

	Healthy   ColorRamp
	Unhealthy ColorRamp

	// GrowthTextureID selects the favorability texture registered with the grass Renderer.
	GrowthTextureID uint32
	// Scale is the nominal blade height.
	Scale float32
	// HeightModifier stretches every blade of the chunk vertically by 1 + HeightModifier on top of Scale.
	HeightModifier float32
	// Time is the animation clock in seconds.
	Time float32
}

// Validate reports a descriptor that cannot be rendered.
//
// Returns:
//   - error: ErrInvalidExtents, ErrInvalidRamp or ErrInvalidScale wrapped with context, or nil
func (d ChunkGrass) Validate() error {
	for _, e := range d.ChunkHalfExtents {
		if !common.IsFinite(e) || e <= 0 {
			return fmt.Errorf("chunk grass: %w, got %v", ErrInvalidExtents, d.ChunkHalfExtents)
		}
	}
	if err := d.Healthy.Validate(); err != nil {
		return fmt.Errorf("chunk grass: healthy %w", err)
	}
	if err := d.Unhealthy.Validate(); err != nil {
		return fmt.Errorf("chunk grass: unhealthy %w", err)
	}
	if !common.IsFinite(d.Scale) || d.Scale <= 0 {
		return fmt.Errorf("chunk grass: %w, scale %v", ErrInvalidScale, d.Scale)
	}
	if !common.IsFinite(d.HeightModifier) || d.HeightModifier < 0 {
		return fmt.Errorf("chunk grass: %w, height modifier %v", ErrInvalidScale, d.HeightModifier)
	}
	return nil
}

// Advance moves the animation clock forward. Negative steps are ignored so time never runs backwards.
//
// Parameters:
//   - dt: the elapsed time in seconds
func (d *ChunkGrass) Advance(dt float32) {
	if dt > 0 {
		d.Time += dt
	}
}

// Reach returns how far any part of a blade can extend horizontally past its root: half the blade
// width plus the largest wind lean.
//
// Returns:
//   - float32: the horizontal reach
func (d ChunkGrass) Reach() float32 {
	lean := math.Hypot(float64(swayAmpX1+swayAmpX2), float64(swayAmpZ1+swayAmpZ2))
	return bladeHalfWidth*d.Scale + float32(lean)
}

// Bounds returns the world-space box covering every blade of the chunk, swaying included.
//
// Returns:
//   - common.AABB: the grass bounding box
func (d ChunkGrass) Bounds() common.AABB {
	top := BladeHeight(d)
	return common.NewAABB(
		mgl32.Vec3{d.ChunkXY[0], top / 2, d.ChunkXY[1]},
		mgl32.Vec3{d.ChunkHalfExtents[0], top / 2, d.ChunkHalfExtents[1]},
	).PadXZ(d.Reach())
}
