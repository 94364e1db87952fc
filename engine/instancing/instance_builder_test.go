package instancing

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/go-gl/mathgl/mgl32"
)

func TestBuildProducesDeclaredCount(t *testing.T) {
	for _, count := range []uint32{0, 1, 60, 1000} {
		b := NewInstanceBuilder(count, common.IdentityTransform(), 30, WithSeed(1))
		if got := len(b.Build()); got != int(count) {
			t.Errorf("count %d: Build returned %d records", count, got)
		}
		if got := len(b.Bytes()); got != int(count)*64 {
			t.Errorf("count %d: Bytes returned %d bytes", count, got)
		}
	}
}

func TestBuildStaysInsideChunk(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize float32
		base      common.Transform
		opts      []InstanceBuilderOption
		wantY     float32
	}{
		{"identity", 30, common.IdentityTransform(), nil, 0},
		{"rotated and scaled", 30, common.IdentityTransform().WithRotationX(-math.Pi / 2).WithScale(0.2), nil, 0},
		{"yaw jitter", 12.5, common.IdentityTransform().WithScale(0.4), []InstanceBuilderOption{WithYawJitter(true)}, 0},
		{"translated base", 10, common.Transform{Translation: mgl32.Vec3{20, 0.5, -20}, Scale: mgl32.Vec3{1, 1, 1}}, nil, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewInstanceBuilder(1000, tt.base, tt.chunkSize, append(tt.opts, WithSeed(42))...)
			half := tt.chunkSize / 2
			for i, rec := range b.Build() {
				x, z := rec.Model[12], rec.Model[14]
				if abs(x) > half || abs(z) > half {
					t.Fatalf("record %d translation (%v, %v) outside ±%v", i, x, z, half)
				}
				if rec.Model[13] != tt.wantY {
					t.Fatalf("record %d should sit at y=%v, got %v", i, tt.wantY, rec.Model[13])
				}
			}
		})
	}
}

func TestBuildAppliesBaseTransform(t *testing.T) {
	base := common.IdentityTransform().WithRotationX(-math.Pi / 2).WithScale(2)
	b := NewInstanceBuilder(5, base, 10, WithSeed(3))
	for _, rec := range b.Build() {
		m := mgl32.Mat4(rec.Model)
		origin := m.Col(3).Vec3()
		up := m.Mul4x1(mgl32.Vec4{0, 0, 1, 1}).Vec3().Sub(origin)
		if up.Sub(mgl32.Vec3{0, 2, 0}).Len() > 1e-5 {
			t.Fatalf("model +Z should map to world +Y scaled by 2, got %v", up)
		}
	}
}

func TestHeightRange(t *testing.T) {
	b := NewInstanceBuilder(500, common.IdentityTransform(), 10, WithSeed(9), WithHeightRange(1, 3))
	for _, rec := range b.Build() {
		if y := rec.Model[13]; y < 1 || y > 3 {
			t.Fatalf("height %v outside [1, 3]", y)
		}
	}
}

func TestBuildIsCachedUntilInvalidate(t *testing.T) {
	b := NewInstanceBuilder(60, common.IdentityTransform(), 30, WithSeed(7))
	if b.Built() {
		t.Fatal("builder should not be built before the first Build")
	}

	first := b.Build()
	again := b.Build()
	if &first[0] != &again[0] {
		t.Fatal("second Build should return the cached slice")
	}
	snapshot := append([]GPUInstanceData(nil), first...)
	b.Build()
	for i := range snapshot {
		if snapshot[i] != first[i] {
			t.Fatalf("record %d changed without Invalidate", i)
		}
	}
	if b.Generation() != 0 {
		t.Fatalf("generation = %d before any Invalidate", b.Generation())
	}

	b.Invalidate()
	if b.Built() || b.Generation() != 1 {
		t.Fatalf("after Invalidate: built=%v generation=%d", b.Built(), b.Generation())
	}
	rebuilt := b.Build()
	if len(rebuilt) != 60 {
		t.Fatalf("rebuilt %d records", len(rebuilt))
	}
	if &rebuilt[0] == &first[0] {
		t.Fatal("Invalidate should force new records")
	}
	if b.Generation() != 1 {
		t.Fatalf("Build should not bump the generation, got %d", b.Generation())
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	a := NewInstanceBuilder(100, common.IdentityTransform(), 30, WithSeed(11)).Build()
	b := NewInstanceBuilder(100, common.IdentityTransform(), 30, WithSeed(11)).Build()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("record %d differs between builders with the same seed", i)
		}
	}
}

func TestCenteredPlacement(t *testing.T) {
	base := common.IdentityTransform()
	base.Translation = mgl32.Vec3{0, -0.01, 0}
	rec := NewInstanceBuilder(1, base, 900, WithCentered()).Build()[0]
	if rec.Model[12] != 0 || rec.Model[14] != 0 || rec.Model[13] != -0.01 {
		t.Fatalf("centered instance at (%v, %v, %v)", rec.Model[12], rec.Model[13], rec.Model[14])
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		builder InstanceBuilder
		want    error
	}{
		{"valid", NewInstanceBuilder(1, common.IdentityTransform(), 30), nil},
		{"zero chunk", NewInstanceBuilder(1, common.IdentityTransform(), 0), ErrInvalidChunkSize},
		{"negative chunk", NewInstanceBuilder(1, common.IdentityTransform(), -5), ErrInvalidChunkSize},
		{"nan chunk", NewInstanceBuilder(1, common.IdentityTransform(), float32(math.NaN())), ErrInvalidChunkSize},
		{"inverted heights", NewInstanceBuilder(1, common.IdentityTransform(), 30, WithHeightRange(2, 1)), ErrInvalidHeightRange},
		{"empty is fine", NewInstanceBuilder(0, common.IdentityTransform(), 30), nil},
		{"vertical lift", NewInstanceBuilder(1, common.Transform{Translation: mgl32.Vec3{0, -0.01, 0}}, 30), nil},
		{"translated along x", NewInstanceBuilder(1, common.Transform{Translation: mgl32.Vec3{20, 0, 0}}, 10), ErrBaseTranslation},
		{"translated along z", NewInstanceBuilder(1, common.Transform{Translation: mgl32.Vec3{0, 0, -3}}, 10), ErrBaseTranslation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder.Validate()
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

func TestInstanceMarshal(t *testing.T) {
	rec := GPUInstanceData{Model: mgl32.Ident4()}
	if rec.Size() != 64 {
		t.Fatalf("GPUInstanceData size %d, want 64", rec.Size())
	}
	packed := MarshalInstances([]GPUInstanceData{rec, rec})
	single := rec.Marshal()
	for i := range single {
		if packed[i] != single[i] || packed[64+i] != single[i] {
			t.Fatalf("packed records differ from Marshal at byte %d", i)
		}
	}
	if MarshalInstances(nil) != nil {
		t.Fatal("no records should pack to nil")
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestYawJitterSpinsAboutWorldUp(t *testing.T) {
	tests := []struct {
		name  string
		base  common.Transform
		up    mgl32.Vec4
		scale float32
	}{
		{"z-up model stood upright", common.IdentityTransform().WithRotationX(-math.Pi / 2).WithScale(0.2), mgl32.Vec4{0, 0, 1, 0}, 0.2},
		{"y-up model", common.IdentityTransform().WithScale(0.5), mgl32.Vec4{0, 1, 0, 0}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewInstanceBuilder(50, tt.base, 30, WithSeed(11), WithYawJitter(true))
			for i, rec := range b.Build() {
				got := mgl32.Mat4(rec.Model).Mul4x1(tt.up).Vec3()
				if !got.ApproxEqualThreshold(mgl32.Vec3{0, tt.scale, 0}, 1e-5) {
					t.Fatalf("instance %d: model up axis maps to %v, want straight up", i, got)
				}
			}
		})
	}
}
