package grass

import (
	"math"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/go-gl/mathgl/mgl32"
)

// The functions in this file are the CPU copies of the blade functions in assets/grass.wgsl.
// Both sides must produce the same values for the same inputs.

// Sway wave parameters: two travelling sines per axis.
const (
	swayAmpX1, swayFreqX1, swaySpeedX1 float32 = 0.15, 0.30, 1.5
	swayAmpX2, swayFreqX2, swaySpeedX2 float32 = 0.05, 0.70, 2.3
	swayAmpZ1, swayFreqZ1, swaySpeedZ1 float32 = 0.10, 0.25, 1.1
	swayAmpZ2, swayFreqZ2, swaySpeedZ2 float32 = 0.04, 0.60, 2.7
)

// pcg is the PCG-RXS-M-XS 32 bit output permutation used as an integer hash.
func pcg(v uint32) uint32 {
	state := v*747796405 + 2891336453
	word := ((state >> ((state >> 28) + 4)) ^ state) * 277803737
	return (word >> 22) ^ word
}

// unit maps a hash to [0, 1) using its top 24 bits, which a float32 holds exactly.
func unit(h uint32) float32 {
	return float32(h>>8) / 16777216.0
}

// bladeSeed mixes the blade index with the chunk position so neighbouring chunks do not repeat.
func bladeSeed(index uint32, chunkXY [2]float32) uint32 {
	return pcg(index ^ pcg(math.Float32bits(chunkXY[0])^pcg(math.Float32bits(chunkXY[1]))))
}

// Hash2 returns two independent uniform values in [0, 1) for a blade.
//
// Parameters:
//   - index: the blade index within the chunk
//   - chunkXY: the chunk position
//
// Returns:
//   - float32: the first value
//   - float32: the second value
func Hash2(index uint32, chunkXY [2]float32) (float32, float32) {
	h0 := bladeSeed(index, chunkXY)
	h1 := pcg(h0)
	return unit(h0), unit(h1)
}

// BladeOffset returns the blade root relative to the chunk centre. It always lies within the half-extents.
//
// Parameters:
//   - index: the blade index
//   - d: the chunk descriptor
//
// Returns:
//   - mgl32.Vec2: the XZ offset
func BladeOffset(index uint32, d ChunkGrass) mgl32.Vec2 {
	u, v := Hash2(index, d.ChunkXY)
	return mgl32.Vec2{
		(2*u - 1) * d.ChunkHalfExtents[0],
		(2*v - 1) * d.ChunkHalfExtents[1],
	}
}

// BladeWorldPosition returns the world-space root of a blade on the ground plane.
//
// Parameters:
//   - index: the blade index
//   - d: the chunk descriptor
//
// Returns:
//   - mgl32.Vec3: the root position with y = 0
func BladeWorldPosition(index uint32, d ChunkGrass) mgl32.Vec3 {
	off := BladeOffset(index, d)
	return mgl32.Vec3{d.ChunkXY[0] + off.X(), 0, d.ChunkXY[1] + off.Y()}
}

// BladeYaw returns the facing of a blade around world +Y in radians, in [0, 2π).
func BladeYaw(index uint32, d ChunkGrass) float32 {
	h := pcg(pcg(bladeSeed(index, d.ChunkXY)))
	return unit(h) * 2 * math.Pi
}

// BladeHeight returns the height shared by every blade of a chunk. Scale and HeightModifier are
// chunk-wide multipliers: Scale * (1 + HeightModifier).
func BladeHeight(d ChunkGrass) float32 {
	return d.Scale * (1 + d.HeightModifier)
}

// Sway returns the horizontal wind displacement of a point on a blade. h is the normalized height along
// the blade, so the root (h = 0) never moves and the lean grows smoothly towards the tip.
//
// Parameters:
//   - root: the XZ world position of the blade root
//   - t: the animation time in seconds
//   - h: the normalized height in [0, 1]
//
// Returns:
//   - mgl32.Vec2: the XZ displacement
func Sway(root mgl32.Vec2, t, h float32) mgl32.Vec2 {
	k := h * h
	x := swayAmpX1*sin32(root.X()*swayFreqX1+t*swaySpeedX1) + swayAmpX2*sin32(root.Y()*swayFreqX2+t*swaySpeedX2)
	z := swayAmpZ1*sin32(root.Y()*swayFreqZ1+t*swaySpeedZ1) + swayAmpZ2*sin32(root.X()*swayFreqZ2+t*swaySpeedZ2)
	return mgl32.Vec2{x * k, z * k}
}

// RampColor evaluates a ramp at normalized height h: base to middle over [0, 0.5], middle to tip over [0.5, 1].
// h is clamped to [0, 1], and so is the result.
//
// Parameters:
//   - ramp: the color ramp
//   - h: the normalized height
//
// Returns:
//   - mgl32.Vec3: the RGB color
func RampColor(ramp ColorRamp, h float32) mgl32.Vec3 {
	h = common.Clamp(h, 0, 1)
	var c mgl32.Vec3
	if h < 0.5 {
		c = mix(ramp.Base, ramp.Middle, h*2)
	} else {
		c = mix(ramp.Middle, ramp.Tip, (h-0.5)*2)
	}
	return saturate(c)
}

// BlendColor mixes the unhealthy and healthy ramps by the growth favorability in [0, 1].
//
// Parameters:
//   - d: the chunk descriptor holding both ramps
//   - h: the normalized height along the blade
//   - growth: the favorability sampled from the growth map
//
// Returns:
//   - mgl32.Vec3: the RGB color
func BlendColor(d ChunkGrass, h, growth float32) mgl32.Vec3 {
	return mix(RampColor(d.Unhealthy, h), RampColor(d.Healthy, h), common.Clamp(growth, 0, 1))
}

func mix(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func saturate(c mgl32.Vec3) mgl32.Vec3 {
	for i := range c {
		c[i] = common.Clamp(c[i], 0, 1)
	}
	return c
}

func sin32(a float32) float32 {
	return float32(math.Sin(float64(a)))
}
