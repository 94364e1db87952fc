package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/Carmen-Shannon/oxy-forest/engine/camera"
	"github.com/Carmen-Shannon/oxy-forest/engine/chunk"
	"github.com/Carmen-Shannon/oxy-forest/engine/culling"
	"github.com/Carmen-Shannon/oxy-forest/engine/grass"
	"github.com/Carmen-Shannon/oxy-forest/engine/instancing"
	"github.com/Carmen-Shannon/oxy-forest/engine/model"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/renderertest"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	testTree = model.NewTree("tree", model.AxisZ)
	testBark = material.NewMaterial(material.WithName("bark"))
)

func newTestCamera(pos mgl32.Vec3) camera.Camera {
	return camera.NewCamera(camera.WithController(camera.NewCameraController(camera.WithPosition(pos))))
}

func treeSpec(count uint32, distance float32) LayerSpec {
	return LayerSpec{
		Name:      "Tree",
		Model:     testTree,
		Material:  testBark,
		Transform: common.IdentityTransform().WithRotationX(-math.Pi / 2).WithScale(0.2),
		Count:     count,
		Culling:   culling.DistanceCulling{Distance: distance},
	}
}

func grassTemplate(blades uint32) grass.ChunkGrass {
	return grass.ChunkGrass{
		NrInstances:     blades,
		Healthy:         grass.DefaultHealthyRamp,
		Unhealthy:       grass.DefaultUnhealthyRamp,
		GrowthTextureID: 1,
		Scale:           1.6,
		HeightModifier:  0.6,
	}
}

// newTestScene builds and initializes a scene on a recording renderer.
func newTestScene(t *testing.T, grid chunk.GridConfig, cam camera.Camera, options ...SceneBuilderOption) (Scene, *renderertest.Recorder) {
	t.Helper()
	r := renderertest.NewRecorder()
	s := NewScene("forest", cam, r, grid, append([]SceneBuilderOption{WithSeed(42), WithBuildWorkers(4)}, options...)...)
	t.Cleanup(s.Release)

	s.GrassRenderer().AddGrowthTexture(1, grass.NewGrowthMap(16, 1))
	if err := s.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s, r
}

func TestNewScenePanicsWithoutCameraOrRenderer(t *testing.T) {
	expectPanic := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Fatalf("%s: expected a panic", name)
			}
		}()
		fn()
	}
	grid := chunk.NewGridConfig(2, 30)
	expectPanic("nil camera", func() { NewScene("s", nil, renderertest.NewRecorder(), grid) })
	expectPanic("nil renderer", func() { NewScene("s", newTestCamera(mgl32.Vec3{}), nil, grid) })
}

func TestBuildFullForestTotals(t *testing.T) {
	grid := chunk.NewGridConfig(30, 30)
	n := grid.InstancesPerChunk(1)
	s, _ := newTestScene(t, grid, newTestCamera(mgl32.Vec3{0, 5, 10}),
		WithLayers(treeSpec(n/15, 200)),
		WithGrass(grassTemplate(n*50), culling.DistanceCulling{Distance: 300}),
	)

	stats := s.Stats()
	if stats.Chunks != 900 {
		t.Fatalf("Chunks = %d, want 900", stats.Chunks)
	}
	if stats.Instances != 54000 {
		t.Fatalf("Instances = %d, want 54000", stats.Instances)
	}
	if stats.GrassBlades != 40500000 {
		t.Fatalf("GrassBlades = %d, want 40500000", stats.GrassBlades)
	}
	if stats.Layers != 1800 {
		t.Fatalf("Layers = %d, want 1800", stats.Layers)
	}

	c := s.Chunk(1, 16)
	if c == nil || c.Name() != "Chunk 1x16" {
		t.Fatalf("Chunk(1, 16) = %v", c)
	}
	for _, l := range c.Layers() {
		if !l.Builder().Built() {
			t.Fatal("Build should generate every chunk's instances")
		}
		if len(l.Builder().Build()) != 60 {
			t.Fatalf("chunk layer has %d records, want 60", len(l.Builder().Build()))
		}
	}
	if d := c.Grass().Descriptor(); d.ChunkXY != [2]float32{-420, 30} || d.NrInstances != 45000 {
		t.Fatalf("grass descriptor = %+v", d)
	}
	if s.Chunk(30, 0) != nil || s.Chunk(-1, 0) != nil {
		t.Fatal("out of range chunks should be nil")
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	s, _ := newTestScene(t, chunk.NewGridConfig(2, 30), newTestCamera(mgl32.Vec3{}), WithLayers(treeSpec(5, 100)))
	before := s.Chunks()
	if err := s.Build(); err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if len(s.Chunks()) != 4 || s.Chunks()[0] != before[0] {
		t.Fatal("second Build should keep the existing chunks")
	}
}

func TestBuildRejectsInvalidGrid(t *testing.T) {
	s := NewScene("s", newTestCamera(mgl32.Vec3{}), renderertest.NewRecorder(), chunk.NewGridConfig(3, 0))
	defer s.Release()
	if err := s.Build(); !errors.Is(err, instancing.ErrInvalidChunkSize) {
		t.Fatalf("got %v, want ErrInvalidChunkSize", err)
	}
	if err := s.Prepare(); !errors.Is(err, ErrNotBuilt) {
		t.Fatalf("Prepare: got %v, want ErrNotBuilt", err)
	}
	if err := s.DrawCalls(); !errors.Is(err, ErrNotBuilt) {
		t.Fatalf("DrawCalls: got %v, want ErrNotBuilt", err)
	}
}

func TestBuildSkipsInvalidLayers(t *testing.T) {
	broken := treeSpec(5, 100)
	broken.Model = nil
	s, _ := newTestScene(t, chunk.NewGridConfig(2, 30), newTestCamera(mgl32.Vec3{}),
		WithLayers(broken, treeSpec(5, 100)),
	)
	for _, c := range s.Chunks() {
		if len(c.Layers()) != 1 {
			t.Fatalf("%s has %d layers, want only the valid one", c.Name(), len(c.Layers()))
		}
	}
	if s.Stats().Instances != 20 {
		t.Fatalf("Instances = %d, want 20", s.Stats().Instances)
	}
}

func TestPlacementIsSeeded(t *testing.T) {
	grid := chunk.NewGridConfig(3, 30)
	a, _ := newTestScene(t, grid, newTestCamera(mgl32.Vec3{}), WithLayers(treeSpec(20, 100)))
	b, _ := newTestScene(t, grid, newTestCamera(mgl32.Vec3{}), WithLayers(treeSpec(20, 100)))

	bytesOf := func(s Scene, x, y int) string {
		return string(s.Chunk(x, y).Layers()[0].Builder().Bytes())
	}
	if bytesOf(a, 1, 2) != bytesOf(b, 1, 2) {
		t.Fatal("scenes with the same seed should place the same instances")
	}
	if bytesOf(a, 1, 2) == bytesOf(a, 2, 1) {
		t.Fatal("chunks should not share a placement")
	}
}

func TestInitRegistersPipelines(t *testing.T) {
	s, r := newTestScene(t, chunk.NewGridConfig(2, 30), newTestCamera(mgl32.Vec3{}))
	if r.Pipeline(instancing.DefaultPipelineKey) == nil || r.Pipeline(grass.DefaultPipelineKey) == nil {
		t.Fatal("Init should register the instancing and grass pipelines")
	}
	if err := s.Init(); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if len(r.MeshUploads) != 1 {
		t.Fatalf("mesh uploads after two Inits = %v, want only the grass blade", r.MeshUploads)
	}
}

func TestFrameDrawOrder(t *testing.T) {
	grid := chunk.NewGridConfig(2, 30)
	s, r := newTestScene(t, grid, newTestCamera(mgl32.Vec3{0, 5, 0}),
		WithLayers(treeSpec(10, 1000)),
		WithGrass(grassTemplate(100), culling.DistanceCulling{Distance: 1000}),
		WithGround(model.NewGround("ground"), material.NewMaterial(material.WithName("soil")), common.IdentityTransform().WithScale(60)),
	)

	s.Update(0.016, nil)
	if err := s.Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := s.DrawCalls(); err != nil {
		t.Fatalf("DrawCalls: %v", err)
	}

	if len(r.Draws) != 9 {
		t.Fatalf("got %d draws, want ground + 4 layers + 4 grass", len(r.Draws))
	}
	camLabel := s.Camera().BindGroupProvider().Label()
	for i, d := range r.Draws {
		if d.BindGroups[0] != camLabel {
			t.Fatalf("draw %d does not bind the camera first", i)
		}
		switch {
		case i == 0:
			if d.PipelineKey != instancing.DefaultPipelineKey || d.InstanceCount != 1 {
				t.Fatalf("first draw should be the ground, got %+v", d)
			}
		case i <= 4:
			if d.PipelineKey != instancing.DefaultPipelineKey || d.InstanceCount != 10 {
				t.Fatalf("draw %d should be a tree layer, got %+v", i, d)
			}
		default:
			if d.PipelineKey != grass.DefaultPipelineKey || d.InstanceCount != 100 {
				t.Fatalf("draw %d should be grass, got %+v", i, d)
			}
		}
	}
}

func TestDistanceCullingPerChunk(t *testing.T) {
	grid := chunk.NewGridConfig(10, 30)
	// camera above the middle of chunk (0, 0)
	s, r := newTestScene(t, grid, newTestCamera(mgl32.Vec3{-150, 2, -150}),
		WithLayers(treeSpec(10, 40)),
		WithGrass(grassTemplate(100), culling.DistanceCulling{Distance: 20}),
	)

	s.Update(0.016, nil)
	if err := s.Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := s.DrawCalls(); err != nil {
		t.Fatalf("DrawCalls: %v", err)
	}

	// trees reach the diagonal neighbour at about 21 units, grass only the edge neighbours at 15
	if v := s.Stats().VisibleLayers; v != 7 {
		t.Fatalf("VisibleLayers = %d, want 7", v)
	}
	if len(r.Draws) != 7 {
		t.Fatalf("got %d draws, want 7", len(r.Draws))
	}

	near := map[chunk.Coord]bool{{X: 0, Y: 0}: true, {X: 1, Y: 0}: true, {X: 0, Y: 1}: true, {X: 1, Y: 1}: true}
	for _, c := range s.Chunks() {
		l := c.Layers()[0]
		want := 0
		if near[c.Coord()] {
			want = 1
		}
		if n := r.InitBindGroupCount(l.BindGroupProvider().Label()); n != want {
			t.Fatalf("%s instance buffer allocated %d times, want %d", c.Name(), n, want)
		}
	}

	// moving far away hides everything
	s2, r2 := newTestScene(t, grid, newTestCamera(mgl32.Vec3{0, 500, 0}),
		WithLayers(treeSpec(10, 40)),
		WithGrass(grassTemplate(100), culling.DistanceCulling{Distance: 20}),
	)
	s2.Update(0.016, nil)
	if err := s2.DrawCalls(); err != nil {
		t.Fatalf("DrawCalls: %v", err)
	}
	if s2.Stats().VisibleLayers != 0 || len(r2.Draws) != 0 {
		t.Fatalf("camera 500 units up should see nothing, %d layers visible", s2.Stats().VisibleLayers)
	}
}

func TestUpdateAdvancesGrassTime(t *testing.T) {
	s, _ := newTestScene(t, chunk.NewGridConfig(2, 30), newTestCamera(mgl32.Vec3{}),
		WithGrass(grassTemplate(100), culling.DistanceCulling{}),
	)
	s.Update(0.5, nil)
	s.Update(0.25, nil)
	s.Update(-1, nil)

	if got := s.Time(); got != 0.75 {
		t.Fatalf("Time = %v, want 0.75", got)
	}
	for _, c := range s.Chunks() {
		if got := c.Grass().Descriptor().Time; got != 0.75 {
			t.Fatalf("%s grass time = %v, want 0.75", c.Name(), got)
		}
	}
}
