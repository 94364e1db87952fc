package grass

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestChunkGrassValidate(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	tests := []struct {
		name   string
		modify func(d *ChunkGrass)
		want   error
	}{
		{"valid", func(d *ChunkGrass) {}, nil},
		{"zero blades", func(d *ChunkGrass) { d.NrInstances = 0 }, nil},
		{"zero height modifier", func(d *ChunkGrass) { d.HeightModifier = 0 }, nil},
		{"zero extent", func(d *ChunkGrass) { d.ChunkHalfExtents[0] = 0 }, ErrInvalidExtents},
		{"negative extent", func(d *ChunkGrass) { d.ChunkHalfExtents[1] = -1 }, ErrInvalidExtents},
		{"nan extent", func(d *ChunkGrass) { d.ChunkHalfExtents[0] = nan }, ErrInvalidExtents},
		{"infinite extent", func(d *ChunkGrass) { d.ChunkHalfExtents[1] = inf }, ErrInvalidExtents},
		{"healthy channel above one", func(d *ChunkGrass) { d.Healthy.Tip = mgl32.Vec3{1.2, 0, 0} }, ErrInvalidRamp},
		{"unhealthy negative channel", func(d *ChunkGrass) { d.Unhealthy.Base = mgl32.Vec3{0, -0.1, 0} }, ErrInvalidRamp},
		{"nan channel", func(d *ChunkGrass) { d.Healthy.Middle = mgl32.Vec3{0, 0, nan} }, ErrInvalidRamp},
		{"zero scale", func(d *ChunkGrass) { d.Scale = 0 }, ErrInvalidScale},
		{"nan scale", func(d *ChunkGrass) { d.Scale = nan }, ErrInvalidScale},
		{"negative height modifier", func(d *ChunkGrass) { d.HeightModifier = -0.1 }, ErrInvalidScale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDescriptor()
			tt.modify(&d)
			err := d.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAdvanceNeverGoesBack(t *testing.T) {
	d := testDescriptor()
	d.Advance(0.5)
	d.Advance(-10)
	d.Advance(0)
	d.Advance(0.25)
	if d.Time != 0.75 {
		t.Fatalf("time = %v, want 0.75", d.Time)
	}
}

func TestChunkGrassBounds(t *testing.T) {
	d := testDescriptor()
	box := d.Bounds()
	reach := d.Reach()
	if reach <= 0 {
		t.Fatalf("reach = %v, want positive", reach)
	}
	if box.Min().X() > -450-reach || box.Max().X() < -420+reach || box.Min().Z() > 0-reach || box.Max().Z() < 30+reach {
		t.Fatalf("bounds %v to %v do not cover the chunk plus reach %v", box.Min(), box.Max(), reach)
	}
	tallest := BladeHeight(d)
	if box.Min().Y() != 0 || box.Max().Y() < tallest {
		t.Fatalf("bounds height [%v, %v], want [0, >= %v]", box.Min().Y(), box.Max().Y(), tallest)
	}

	// every blade, leaning as far as the wind takes it, stays inside the box
	for i := uint32(0); i < 2000; i++ {
		root := BladeWorldPosition(i, d)
		for _, tm := range []float32{0, 0.7, 3.1, 41.9} {
			lean := Sway(mgl32.Vec2{root.X(), root.Z()}, tm, 1)
			tip := mgl32.Vec3{root.X() + lean.X(), tallest, root.Z() + lean.Y()}
			if !box.Contains(tip) {
				t.Fatalf("blade %d tip %v at t=%v outside %v to %v", i, tip, tm, box.Min(), box.Max())
			}
		}
	}
}

func TestGPUChunkGrassLayout(t *testing.T) {
	d := testDescriptor()
	d.Time = 2.5
	g := NewGPUChunkGrass(d)
	if g.Size() != 112 {
		t.Fatalf("GPUChunkGrass size %d, want 112", g.Size())
	}
	buf := g.Marshal()
	if len(buf) != 112 {
		t.Fatalf("marshalled %d bytes, want 112", len(buf))
	}

	f32 := func(off int) float32 {
		return math.Float32frombits(uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24)
	}
	checks := []struct {
		name string
		off  int
		want float32
	}{
		{"chunk x", 0, -435},
		{"chunk z", 4, 15},
		{"half extent", 8, 15},
		{"healthy tip r", 16, d.Healthy.Tip[0]},
		{"scale", 28, 1.6},
		{"height modifier", 44, 0.6},
		{"time", 60, 2.5},
		{"unhealthy tip r", 64, d.Unhealthy.Tip[0]},
		{"unhealthy middle g", 84, d.Unhealthy.Middle[1]},
		{"unhealthy base b", 104, d.Unhealthy.Base[2]},
	}
	for _, c := range checks {
		if got := f32(c.off); got != c.want {
			t.Errorf("%s at offset %d = %v, want %v", c.name, c.off, got, c.want)
		}
	}
	count := uint32(buf[76]) | uint32(buf[77])<<8 | uint32(buf[78])<<16 | uint32(buf[79])<<24
	if count != 45000 {
		t.Fatalf("instance count = %d, want 45000", count)
	}
}
