package chunk

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/Carmen-Shannon/oxy-forest/engine/grass"
	"github.com/Carmen-Shannon/oxy-forest/engine/instancing"
	"github.com/Carmen-Shannon/oxy-forest/engine/model"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

func TestNewGridConfig(t *testing.T) {
	g := NewGridConfig(30, 30)
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if g.HalfExtents != [2]float32{450, 450} || g.MaxHeight != DefaultMaxHeight {
		t.Fatalf("grid = %+v", g)
	}
	if size := g.Size(); size != [2]float32{900, 900} {
		t.Fatalf("Size = %v", size)
	}
	if n := len(g.Chunks()); n != 900 {
		t.Fatalf("Chunks returned %d coordinates, want 900", n)
	}
	seen := map[Coord]bool{}
	for _, c := range g.Chunks() {
		if c.X < 0 || c.X >= 30 || c.Y < 0 || c.Y >= 30 || seen[c] {
			t.Fatalf("bad or repeated coordinate %v", c)
		}
		seen[c] = true
	}
}

func TestGridValidate(t *testing.T) {
	tests := []struct {
		name string
		grid GridConfig
		want error
	}{
		{"zero chunk", NewGridConfig(30, 0), instancing.ErrInvalidChunkSize},
		{"negative chunk", GridConfig{HalfExtents: [2]float32{1, 1}, ChunkSize: -2, MaxHeight: 4}, instancing.ErrInvalidChunkSize},
		{"no chunks", NewGridConfig(0, 30), ErrInvalidGrid},
		{"zero height", GridConfig{HalfExtents: [2]float32{1, 1}, ChunkSize: 2}, ErrInvalidGrid},
		{"nan extent", GridConfig{HalfExtents: [2]float32{float32(math.NaN()), 1}, ChunkSize: 2, MaxHeight: 4}, ErrInvalidGrid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.grid.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWorldOffsetAndBounds(t *testing.T) {
	g := NewGridConfig(30, 30)
	if off := g.WorldOffset(0, 0); off != (mgl32.Vec3{-450, 0, -450}) {
		t.Fatalf("WorldOffset(0, 0) = %v", off)
	}
	if off := g.WorldOffset(1, 16); off != (mgl32.Vec3{-420, 0, 30}) {
		t.Fatalf("WorldOffset(1, 16) = %v", off)
	}

	g.Center = [2]float32{100, -50}
	if off := g.WorldOffset(15, 15); off != (mgl32.Vec3{100, 0, -50}) {
		t.Fatalf("centred grid WorldOffset(15, 15) = %v", off)
	}

	box := NewGridConfig(30, 30).ChunkBounds(1, 16)
	if box.Min() != (mgl32.Vec3{-435, 0, 15}) || box.Max() != (mgl32.Vec3{-405, 4, 45}) {
		t.Fatalf("chunk box %v to %v", box.Min(), box.Max())
	}
}

func TestGridUV(t *testing.T) {
	g := NewGridConfig(30, 30)
	tests := []struct {
		x, z float32
		want mgl32.Vec2
	}{
		{0, 0, mgl32.Vec2{0.5, 0.5}},
		{-450, -450, mgl32.Vec2{0, 0}},
		{450, 225, mgl32.Vec2{1, 0.75}},
		{-1000, 2000, mgl32.Vec2{0, 1}},
	}
	for _, tt := range tests {
		if got := g.UV(tt.x, tt.z); got != tt.want {
			t.Errorf("UV(%v, %v) = %v, want %v", tt.x, tt.z, got, tt.want)
		}
	}
}

func TestChunkAddLayer(t *testing.T) {
	g := NewGridConfig(30, 30)
	c := NewChunk(2, 3, g)
	mat := material.NewMaterial(material.WithName("bark"))
	tree := model.NewTree("tree", model.AxisZ)

	l, err := c.AddLayer(60, mat, common.IdentityTransform(), instancing.WithModel(tree))
	if err != nil {
		t.Fatalf("AddLayer: %v", err)
	}
	if l.WorldOffset() != c.WorldOffset() {
		t.Fatal("layer should inherit the chunk offset")
	}
	// the canopy radius is 5 at scale 1, so the layer box must reach past the chunk edge
	lb, cb := l.BoundingBox(), c.BoundingBox()
	if math.Abs(float64(lb.Center.X()-cb.Center.X())) > 1e-3 || math.Abs(float64(lb.Center.Z()-cb.Center.Z())) > 1e-3 {
		t.Fatalf("layer box centred at %v, chunk box at %v", lb.Center, cb.Center)
	}
	if lb.HalfExtents.X() < cb.HalfExtents.X()+5 || lb.HalfExtents.Z() < cb.HalfExtents.Z()+5 {
		t.Fatalf("layer box half-extents %v not padded past the chunk's %v", lb.HalfExtents, cb.HalfExtents)
	}
	if _, err := c.AddLayer(10, mat, common.IdentityTransform(), instancing.WithModel(tree)); err != nil {
		t.Fatalf("second AddLayer: %v", err)
	}
	if _, err := c.AddLayer(10, mat, common.IdentityTransform()); !errors.Is(err, instancing.ErrMissingModel) {
		t.Fatalf("layer without a model: got %v", err)
	}

	if n := len(c.Layers()); n != 2 {
		t.Fatalf("chunk has %d layers, want 2", n)
	}
	if n := c.InstanceCount(); n != 70 {
		t.Fatalf("InstanceCount = %d, want 70", n)
	}
}

func TestChunkGrass(t *testing.T) {
	g := NewGridConfig(30, 30)
	c := NewChunk(1, 16, g)
	template := grass.ChunkGrass{
		NrInstances:    45000,
		Healthy:        grass.DefaultHealthyRamp,
		Unhealthy:      grass.DefaultUnhealthyRamp,
		Scale:          1.6,
		HeightModifier: 0.6,
	}

	d := c.GrassDescriptor(template)
	if d.ChunkXY != [2]float32{-420, 30} || d.ChunkHalfExtents != [2]float32{15, 15} {
		t.Fatalf("descriptor placed at %v with extents %v", d.ChunkXY, d.ChunkHalfExtents)
	}

	if c.GrassCount() != 0 || c.Grass() != nil {
		t.Fatal("new chunk should have no grass")
	}
	if _, err := c.AddGrass(d); err != nil {
		t.Fatalf("AddGrass: %v", err)
	}
	if _, err := c.AddGrass(d); !errors.Is(err, ErrDuplicateGrassLayer) {
		t.Fatalf("second AddGrass: got %v, want ErrDuplicateGrassLayer", err)
	}
	if c.GrassCount() != 45000 {
		t.Fatalf("GrassCount = %d, want 45000", c.GrassCount())
	}
	gb, cb := c.Grass().BoundingBox(), c.BoundingBox()
	if gb.Center.X() != cb.Center.X() || gb.Center.Z() != cb.Center.Z() || gb.Min().Y() != cb.Min().Y() {
		t.Fatalf("grass box %v to %v not anchored on the chunk box %v to %v", gb.Min(), gb.Max(), cb.Min(), cb.Max())
	}
	if want := cb.HalfExtents.X() + d.Reach(); gb.HalfExtents.X() != want || gb.HalfExtents.Z() != want {
		t.Fatalf("grass box half-extents %v, want %v", gb.HalfExtents, want)
	}

	// an invalid descriptor is rejected and does not occupy the grass slot
	other := NewChunk(0, 0, g)
	if _, err := other.AddGrass(template); !errors.Is(err, grass.ErrInvalidExtents) {
		t.Fatalf("template without extents: got %v", err)
	}
	if other.Grass() != nil {
		t.Fatal("rejected grass should not be stored")
	}
}

func TestInstancesPerChunk(t *testing.T) {
	g := NewGridConfig(30, 30)
	if n := g.InstancesPerChunk(1); n != 900 {
		t.Fatalf("density 1 gives %d, want 900", n)
	}
	if n := g.InstancesPerChunk(0.5); n != 450 {
		t.Fatalf("density 0.5 gives %d, want 450", n)
	}
	if n := g.InstancesPerChunk(-1); n != 0 {
		t.Fatalf("negative density gives %d, want 0", n)
	}
}
