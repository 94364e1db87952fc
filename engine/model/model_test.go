package model

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/renderertest"
	"github.com/go-gl/mathgl/mgl32"
)

func TestPrimitivesAreWellFormed(t *testing.T) {
	tests := []struct {
		name  string
		model Model
	}{
		{"tree", NewTree("tree", AxisZ)},
		{"bush", NewBush("bush", AxisZ)},
		{"rock", NewRock("rock", AxisZ, 7)},
		{"mushroom", NewMushroom("mushroom", AxisY)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.model
			if m.IndexCount() == 0 || m.IndexCount()%3 != 0 {
				t.Fatalf("index count %d is not a positive multiple of 3", m.IndexCount())
			}
			if got, want := len(m.VertexData()), m.VertexCount()*64; got != want {
				t.Fatalf("vertex data is %d bytes, want %d", got, want)
			}
			if got, want := len(m.IndexData()), m.IndexCount()*4; got != want {
				t.Fatalf("index data is %d bytes, want %d", got, want)
			}
			if err := m.Bounds().Validate(); err != nil {
				t.Fatalf("bounds: %v", err)
			}
		})
	}
}

func TestAxisZTreeStandsUpAfterRotation(t *testing.T) {
	tree := NewTree("tree", AxisZ)
	b := tree.Bounds()
	if b.Max().Z() < 19 || b.Max().Y() > 6 {
		t.Fatalf("Z-up tree should be tall along +Z, got bounds %v..%v", b.Min(), b.Max())
	}

	m := common.IdentityTransform().WithRotationX(-math.Pi / 2).Mat4()
	top := m.Mul4x1(mgl32.Vec4{0, 0, b.Max().Z(), 1})
	if top.Y() < 19 {
		t.Fatalf("rotated tree top should be at +Y, got %v", top)
	}
}

func TestMushroomIsYUp(t *testing.T) {
	b := NewMushroom("mushroom", AxisY).Bounds()
	if b.Min().Y() < -1e-4 || b.Max().Y() < 8.9 {
		t.Fatalf("mushroom should stand on y=0 and reach y=9, got %v..%v", b.Min(), b.Max())
	}
}

func TestComputeBounds(t *testing.T) {
	verts := []GPUVertex{
		{Position: [3]float32{-1, 0, 2}},
		{Position: [3]float32{3, 4, -2}},
	}
	b := ComputeBounds(verts)
	if b.Center != (mgl32.Vec3{1, 2, 0}) || b.HalfExtents != (mgl32.Vec3{2, 2, 2}) {
		t.Fatalf("got center %v half %v", b.Center, b.HalfExtents)
	}
	if (ComputeBounds(nil) != common.AABB{}) {
		t.Fatal("empty vertex slice should give a zero box")
	}
}

func TestUploadIsIdempotent(t *testing.T) {
	r := renderertest.NewRecorder()
	m := NewRock("rock", AxisZ, 1)
	for range 3 {
		if err := m.Upload(r); err != nil {
			t.Fatalf("Upload: %v", err)
		}
	}
	if len(r.MeshUploads) != 1 {
		t.Fatalf("mesh uploaded %d times, want 1", len(r.MeshUploads))
	}
	if !m.Uploaded() {
		t.Fatal("model should report uploaded")
	}
	if m.MeshProvider().IndexCount() != m.IndexCount() {
		t.Fatalf("provider index count %d, want %d", m.MeshProvider().IndexCount(), m.IndexCount())
	}
}

func TestVertexMarshalLayout(t *testing.T) {
	v := GPUVertex{Position: [3]float32{1, 2, 3}, Color: [4]float32{0.5, 0.5, 0.5, 1}}
	if v.Size() != 64 {
		t.Fatalf("GPUVertex size %d, want 64", v.Size())
	}
	buf := MarshalVertices([]GPUVertex{v, v})
	if len(buf) != 128 {
		t.Fatalf("packed %d bytes, want 128", len(buf))
	}
	single := v.Marshal()
	for i := range single {
		if buf[64+i] != single[i] {
			t.Fatalf("second vertex differs from Marshal at byte %d", i)
		}
	}
}

func TestGroundFacesUp(t *testing.T) {
	g := NewGround("ground")
	if g.VertexCount() != 6 || g.IndexCount() != 6 {
		t.Fatalf("ground has %d vertices and %d indices, want 6 and 6", g.VertexCount(), g.IndexCount())
	}
	box := g.Bounds()
	if box.Min() != (mgl32.Vec3{-0.5, 0, -0.5}) || box.Max() != (mgl32.Vec3{0.5, 0, 0.5}) {
		t.Fatalf("ground spans %v to %v", box.Min(), box.Max())
	}
}
