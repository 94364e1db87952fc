package grass

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/Carmen-Shannon/oxy-forest/engine/culling"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/renderertest"
	"github.com/go-gl/mathgl/mgl32"
)

func newTestGrass(t *testing.T) (*renderertest.Recorder, *Renderer) {
	t.Helper()
	r := renderertest.NewRecorder()
	if err := r.RegisterPipelines(NewPipeline(DefaultPipelineKey)); err != nil {
		t.Fatalf("RegisterPipelines: %v", err)
	}
	gr := NewRenderer(WithGrowthBounds([2]float32{0, 0}, [2]float32{450, 450}))
	gr.AddGrowthTexture(1, NewGrowthMap(16, 1))
	if err := gr.Init(r); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return r, gr
}

func TestBladeMeshShape(t *testing.T) {
	m := BladeMesh()
	if m != BladeMesh() {
		t.Fatal("BladeMesh should return the shared mesh")
	}
	if m.VertexCount() != 5 || m.IndexCount() != 9 {
		t.Fatalf("blade has %d vertices and %d indices, want 5 and 9", m.VertexCount(), m.IndexCount())
	}
	box := m.Bounds()
	if box.Min().Y() != 0 || box.Max().Y() != 1 {
		t.Fatalf("blade spans y [%v, %v], want [0, 1]", box.Min().Y(), box.Max().Y())
	}
	if box.Max().X() != 0.05 || box.Min().X() != -0.05 {
		t.Fatalf("blade spans x [%v, %v], want [-0.05, 0.05]", box.Min().X(), box.Max().X())
	}
}

func TestRendererInitOnce(t *testing.T) {
	r, gr := newTestGrass(t)
	if err := gr.Init(r); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if len(r.MeshUploads) != 1 || r.MeshUploads[0] != gr.MeshProvider().Label() {
		t.Fatalf("mesh uploads = %v", r.MeshUploads)
	}
	if len(r.TextureInits) != 1 {
		t.Fatalf("texture uploads = %d, want 1", len(r.TextureInits))
	}
	if _, err := gr.GrowthProvider(1); err != nil {
		t.Fatalf("growth texture 1: %v", err)
	}
	if _, err := gr.GrowthProvider(2); !errors.Is(err, ErrGrowthTextureNotFound) {
		t.Fatalf("growth texture 2: got %v, want ErrGrowthTextureNotFound", err)
	}
}

func TestRendererRejectsMalformedTexture(t *testing.T) {
	r := renderertest.NewRecorder()
	gr := NewRenderer()
	gr.AddGrowthTexture(1, common.TextureStagingData{Pixels: []byte{1, 2, 3}, Width: 4, Height: 4})
	if err := gr.Init(r); err == nil {
		t.Fatal("expected an error for a malformed growth texture")
	}
	if gr.Initialized() {
		t.Fatal("failed Init should leave the renderer uninitialized")
	}
}

func TestNewLayerRejectsInvalidDescriptor(t *testing.T) {
	d := testDescriptor()
	d.Scale = -1
	if _, err := NewLayer(d); !errors.Is(err, ErrInvalidScale) {
		t.Fatalf("got %v, want ErrInvalidScale", err)
	}
}

func TestLayerPrepareWritesEveryFrame(t *testing.T) {
	r, gr := newTestGrass(t)
	l, err := NewLayer(testDescriptor())
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}
	label := l.BindGroupProvider().Label()

	for range 3 {
		l.Update(0.1)
		if err := l.Prepare(r, gr); err != nil {
			t.Fatalf("Prepare: %v", err)
		}
	}

	if n := r.InitBindGroupCount(label); n != 1 {
		t.Fatalf("grass uniform allocated %d times, want 1", n)
	}
	writes := r.WritesTo(label)
	if len(writes) != 3 {
		t.Fatalf("got %d uniform writes, want 3", len(writes))
	}
	first := NewGPUChunkGrass(ChunkGrass{})
	if len(writes[0].Data) != first.Size() {
		t.Fatalf("uniform write is %d bytes", len(writes[0].Data))
	}
	if string(writes[0].Data) == string(writes[2].Data) {
		t.Fatal("time should change between frames")
	}

	want := testDescriptor()
	want.Time = l.Descriptor().Time
	packed := NewGPUChunkGrass(want)
	if string(writes[2].Data) != string(packed.Marshal()) {
		t.Fatal("last write does not match the current descriptor")
	}
}

func TestLayerDraw(t *testing.T) {
	r, gr := newTestGrass(t)
	l, err := NewLayer(testDescriptor(), WithName("Grass 0x0"))
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}
	cam := bind_group_provider.NewBindGroupProvider("camera_test")

	if err := l.Draw(r, cam); err == nil {
		t.Fatal("Draw before Prepare should fail")
	}
	if err := l.Prepare(r, gr); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := l.Draw(r, cam); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	if len(r.Draws) != 1 {
		t.Fatalf("got %d draws, want 1", len(r.Draws))
	}
	d := r.Draws[0]
	growth, _ := gr.GrowthProvider(1)
	if d.PipelineKey != DefaultPipelineKey || d.InstanceCount != 45000 || d.MeshLabel != gr.MeshProvider().Label() {
		t.Fatalf("draw = %+v", d)
	}
	want := []string{"camera_test", growth.Label(), l.BindGroupProvider().Label()}
	for i := range want {
		if d.BindGroups[i] != want[i] {
			t.Fatalf("bind group %d = %q, want %q", i, d.BindGroups[i], want[i])
		}
	}
}

func TestEmptyGrassDrawsNothing(t *testing.T) {
	r, gr := newTestGrass(t)
	d := testDescriptor()
	d.NrInstances = 0
	l, err := NewLayer(d)
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}
	if err := l.Prepare(r, gr); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := l.Draw(r, bind_group_provider.NewBindGroupProvider("camera_test")); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(r.Draws) != 0 {
		t.Fatalf("empty grass recorded %d draws", len(r.Draws))
	}
}

func TestUnknownGrowthTexture(t *testing.T) {
	r, gr := newTestGrass(t)
	d := testDescriptor()
	d.GrowthTextureID = 9
	l, err := NewLayer(d)
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}
	if err := l.Prepare(r, gr); !errors.Is(err, ErrGrowthTextureNotFound) {
		t.Fatalf("got %v, want ErrGrowthTextureNotFound", err)
	}
}

func TestGrassVisibility(t *testing.T) {
	l, err := NewLayer(testDescriptor(), WithDistanceCulling(culling.DistanceCulling{Distance: 300}))
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}
	if !l.Visible(mgl32.Vec3{-435, 2, 15}) {
		t.Fatal("camera above the chunk should see its grass")
	}
	if l.Visible(mgl32.Vec3{300, 2, 15}) {
		t.Fatal("camera 720 units away should not see the grass")
	}

	box := common.NewAABB(mgl32.Vec3{0, 2, 0}, mgl32.Vec3{15, 2, 15})
	l, err = NewLayer(testDescriptor(), WithBoundingBox(box))
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}
	if l.BoundingBox() != box {
		t.Fatal("explicit bounding box should win over the descriptor bounds")
	}
}

func TestGrowthMap(t *testing.T) {
	m := NewGrowthMap(256, 7)
	if !m.Valid() || m.Width != 256 || !m.Linear {
		t.Fatalf("growth map %dx%d valid=%v linear=%v", m.Width, m.Height, m.Valid(), m.Linear)
	}
	again := NewGrowthMap(256, 7)
	if string(m.Pixels) != string(again.Pixels) {
		t.Fatal("same seed should give the same map")
	}

	lo, hi := byte(255), byte(0)
	for i := 0; i < len(m.Pixels); i += 4 {
		v := m.Pixels[i]
		lo, hi = min(lo, v), max(hi, v)
		if m.Pixels[i+3] != 255 {
			t.Fatalf("pixel %d is not opaque", i/4)
		}
	}
	if hi-lo < 32 {
		t.Fatalf("growth map is nearly flat: [%d, %d]", lo, hi)
	}

	// at this size the octaves together move at most about 13 levels per pixel
	for y := 0; y < 256; y++ {
		for x := 1; x < 256; x++ {
			a := int(m.Pixels[(y*256+x-1)*4])
			b := int(m.Pixels[(y*256+x)*4])
			if d := a - b; d > 16 || d < -16 {
				t.Fatalf("jump of %d between pixels (%d,%d) and (%d,%d)", d, x-1, y, x, y)
			}
		}
	}

	if tiny := NewGrowthMap(0, 1); tiny.Width != 1 || !tiny.Valid() {
		t.Fatal("size 0 should clamp to a 1x1 map")
	}
}
