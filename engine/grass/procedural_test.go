package grass

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testDescriptor() ChunkGrass {
	return ChunkGrass{
		ChunkXY:          [2]float32{-435, 15},
		ChunkHalfExtents: [2]float32{15, 15},
		NrInstances:      45000,
		Healthy:          DefaultHealthyRamp,
		Unhealthy:        DefaultUnhealthyRamp,
		GrowthTextureID:  1,
		Scale:            1.6,
		HeightModifier:   0.6,
	}
}

func TestRampColorEndpoints(t *testing.T) {
	r := DefaultHealthyRamp
	if got := RampColor(r, 0); !got.ApproxEqual(r.Base) {
		t.Fatalf("h=0 gives %v, want base %v", got, r.Base)
	}
	if got := RampColor(r, 0.5); !got.ApproxEqual(r.Middle) {
		t.Fatalf("h=0.5 gives %v, want middle %v", got, r.Middle)
	}
	if got := RampColor(r, 1); !got.ApproxEqualThreshold(r.Tip, 1e-6) {
		t.Fatalf("h=1 gives %v, want tip %v", got, r.Tip)
	}
	if got := RampColor(r, -3); !got.ApproxEqual(r.Base) {
		t.Fatalf("h below range gives %v, want base", got)
	}
	if got := RampColor(r, 7); !got.ApproxEqualThreshold(r.Tip, 1e-6) {
		t.Fatalf("h above range gives %v, want tip", got)
	}
}

func TestRampColorIsContinuous(t *testing.T) {
	ramps := []struct {
		name string
		ramp ColorRamp
	}{
		{"healthy", DefaultHealthyRamp},
		{"unhealthy", DefaultUnhealthyRamp},
		{"extreme", ColorRamp{Tip: mgl32.Vec3{1, 1, 1}, Middle: mgl32.Vec3{0, 0, 0}, Base: mgl32.Vec3{1, 0, 1}}},
	}
	const eps float32 = 1e-3
	// each segment spans half the range, so no channel can change faster than 2 per unit of h
	const maxStep = 2*eps + 1e-5

	for _, tt := range ramps {
		t.Run(tt.name, func(t *testing.T) {
			prev := RampColor(tt.ramp, 0)
			for i := 1; i <= 1000; i++ {
				h := float32(i) * eps
				cur := RampColor(tt.ramp, h)
				for c := range 3 {
					if d := float32(math.Abs(float64(cur[c] - prev[c]))); d > maxStep {
						t.Fatalf("channel %d jumps by %v between h=%v and h=%v", c, d, h-eps, h)
					}
					if cur[c] < 0 || cur[c] > 1 {
						t.Fatalf("channel %d = %v at h=%v is outside [0, 1]", c, cur[c], h)
					}
				}
				prev = cur
			}

			below := RampColor(tt.ramp, 0.5-1e-6)
			at := RampColor(tt.ramp, 0.5)
			if below.Sub(at).Len() > 1e-5 {
				t.Fatalf("discontinuity at h=0.5: %v vs %v", below, at)
			}
		})
	}
}

func TestBlendColor(t *testing.T) {
	d := testDescriptor()
	for _, h := range []float32{0, 0.25, 0.5, 0.9, 1} {
		if got, want := BlendColor(d, h, 1), RampColor(d.Healthy, h); !got.ApproxEqualThreshold(want, 1e-6) {
			t.Fatalf("growth 1 at h=%v: %v, want healthy %v", h, got, want)
		}
		if got, want := BlendColor(d, h, 0), RampColor(d.Unhealthy, h); !got.ApproxEqual(want) {
			t.Fatalf("growth 0 at h=%v: %v, want unhealthy %v", h, got, want)
		}
	}
	if got, want := BlendColor(d, 1, 4), RampColor(d.Healthy, 1); !got.ApproxEqualThreshold(want, 1e-6) {
		t.Fatalf("growth is not clamped: %v", got)
	}
}

func TestBladeOffsetsStayInsideChunk(t *testing.T) {
	tests := []struct {
		name string
		xy   [2]float32
		half [2]float32
	}{
		{"reference chunk", [2]float32{-435, 15}, [2]float32{15, 15}},
		{"origin", [2]float32{0, 0}, [2]float32{15, 15}},
		{"narrow", [2]float32{100, -250}, [2]float32{0.5, 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDescriptor()
			d.ChunkXY, d.ChunkHalfExtents = tt.xy, tt.half
			for i := uint32(0); i < 45000; i += 7 {
				off := BladeOffset(i, d)
				if abs32(off.X()) > tt.half[0] || abs32(off.Y()) > tt.half[1] {
					t.Fatalf("blade %d offset %v outside ±%v", i, off, tt.half)
				}
				world := BladeWorldPosition(i, d)
				if world.Y() != 0 || world.X() != tt.xy[0]+off.X() || world.Z() != tt.xy[1]+off.Y() {
					t.Fatalf("blade %d world position %v does not match offset %v", i, world, off)
				}
			}
		})
	}
}

func TestHashIsDeterministicAndSpread(t *testing.T) {
	xy := [2]float32{30, 60}
	var sumU, sumV float64
	const n = 20000
	for i := uint32(0); i < n; i++ {
		u, v := Hash2(i, xy)
		u2, v2 := Hash2(i, xy)
		if u != u2 || v != v2 {
			t.Fatalf("Hash2(%d) is not deterministic", i)
		}
		if u < 0 || u >= 1 || v < 0 || v >= 1 {
			t.Fatalf("Hash2(%d) = (%v, %v) outside [0, 1)", i, u, v)
		}
		sumU += float64(u)
		sumV += float64(v)
	}
	if mu := sumU / n; math.Abs(mu-0.5) > 0.02 {
		t.Fatalf("mean u = %v, want about 0.5", mu)
	}
	if mv := sumV / n; math.Abs(mv-0.5) > 0.02 {
		t.Fatalf("mean v = %v, want about 0.5", mv)
	}

	u0, v0 := Hash2(5, [2]float32{0, 0})
	u1, v1 := Hash2(5, [2]float32{30, 0})
	if u0 == u1 && v0 == v1 {
		t.Fatal("neighbouring chunks produced the same blade")
	}
}

func TestBladeHeightAndYaw(t *testing.T) {
	d := testDescriptor()
	for i := uint32(0); i < 5000; i++ {
		if y := BladeYaw(i, d); y < 0 || y >= 2*math.Pi {
			t.Fatalf("blade %d yaw %v outside [0, 2π)", i, y)
		}
	}

	tests := []struct {
		name           string
		scale          float32
		heightModifier float32
		want           float32
	}{
		{"demo grass", 1.6, 0.6, 2.56},
		{"no modifier", 1.6, 0, 1.6},
		{"larger modifier", 1.6, 1.2, 3.52},
		{"unit scale", 1, 0.5, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDescriptor()
			d.Scale, d.HeightModifier = tt.scale, tt.heightModifier
			h := BladeHeight(d)
			if math.Abs(float64(h-tt.want)) > 1e-5 {
				t.Fatalf("height = %v, want %v", h, tt.want)
			}
			if top := d.Bounds().Max().Y(); top != h {
				t.Fatalf("bounds top %v, want blade height %v", top, h)
			}
		})
	}

	// the modifier only ever makes the chunk's grass taller
	lower, higher := testDescriptor(), testDescriptor()
	lower.HeightModifier, higher.HeightModifier = 0.6, 1.2
	if BladeHeight(higher) <= BladeHeight(lower) {
		t.Fatalf("raising the modifier lowered the grass: %v <= %v", BladeHeight(higher), BladeHeight(lower))
	}
}

func TestSwayKeepsRootFixed(t *testing.T) {
	root := mgl32.Vec2{12, -40}
	for _, tm := range []float32{0, 0.5, 13.7, 1000} {
		if s := Sway(root, tm, 0); s.X() != 0 || s.Y() != 0 {
			t.Fatalf("root moves by %v at t=%v", s, tm)
		}
	}

	// continuous in time: small steps give small moves
	prev := Sway(root, 0, 1)
	for i := 1; i <= 1000; i++ {
		cur := Sway(root, float32(i)*0.01, 1)
		if cur.Sub(prev).Len() > 0.01 {
			t.Fatalf("tip jumps by %v at step %d", cur.Sub(prev).Len(), i)
		}
		prev = cur
	}

	tip := Sway(root, 3, 1)
	half := Sway(root, 3, 0.5)
	if !half.ApproxEqualThreshold(tip.Mul(0.25), 1e-6) {
		t.Fatalf("sway at h=0.5 is %v, want a quarter of the tip %v", half, tip)
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
