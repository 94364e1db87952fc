package instancing

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrInvalidChunkSize is returned when a chunk size is not a positive finite number.
	ErrInvalidChunkSize = errors.New("chunk size must be positive and finite")

	// ErrInvalidHeightRange is returned when the vertical placement range is inverted or not finite.
	ErrInvalidHeightRange = errors.New("height range must be finite with min <= max")

	// ErrBaseTranslation is returned when the base transform moves instances horizontally off the chunk.
	ErrBaseTranslation = errors.New("base transform must not translate along X or Z")
)

// instanceBuilder is the implementation of the InstanceBuilder interface.
type instanceBuilder struct {
	mu *sync.Mutex

	instanceCount uint32
	base          common.Transform
	chunkSize     float32
	seed          uint64
	minHeight     float32
	maxHeight     float32
	yawJitter     bool
	centered      bool

	records    []GPUInstanceData
	bytes      []byte
	built      bool
	generation uint64
}

// InstanceBuilder produces the per-instance model matrices of one chunk layer.
// Instances are scattered uniformly over the chunk footprint, centred on the chunk origin, and
// share the base transform. The result is generated once and cached until Invalidate is called.
type InstanceBuilder interface {
	// InstanceCount returns the number of records Build produces.
	//
	// Returns:
	//   - uint32: the instance count
	InstanceCount() uint32

	// ChunkSize returns the edge length of the square footprint instances are scattered over.
	//
	// Returns:
	//   - float32: the chunk size
	ChunkSize() float32

	// BaseTransform returns the rotation and scale shared by every instance.
	//
	// Returns:
	//   - common.Transform: the base transform
	BaseTransform() common.Transform

	// HeightRange returns the vertical placement range.
	//
	// Returns:
	//   - float32: the lowest placement height
	//   - float32: the highest placement height
	HeightRange() (float32, float32)

	// Validate reports configuration errors.
	//
	// Returns:
	//   - error: ErrInvalidChunkSize, ErrInvalidHeightRange or ErrBaseTranslation wrapped with context, or nil
	Validate() error

	// Build returns the instance records, generating them on the first call after construction or Invalidate.
	// Later calls return the same slice. The slice must not be modified by the caller.
	//
	// Returns:
	//   - []GPUInstanceData: exactly InstanceCount records
	Build() []GPUInstanceData

	// Bytes returns the records packed for GPU upload, building them if needed.
	//
	// Returns:
	//   - []byte: InstanceCount*64 bytes, or nil for an empty builder
	Bytes() []byte

	// Built reports whether cached records are available.
	//
	// Returns:
	//   - bool: true between a Build and the next Invalidate
	Built() bool

	// Generation returns how many times the builder has been invalidated.
	// Consumers compare it with the generation they uploaded to detect a pending rebuild.
	//
	// Returns:
	//   - uint64: the generation counter
	Generation() uint64

	// Invalidate drops the cached records so the next Build regenerates them with a fresh placement.
	Invalidate()
}

var _ InstanceBuilder = &instanceBuilder{}

// NewInstanceBuilder creates an InstanceBuilder. Configuration is checked by Validate, not here,
// so callers can decide whether to reject or report a bad layer.
//
// Parameters:
//   - instanceCount: the number of instances to generate, 0 is allowed
//   - base: the rotation and scale applied to every instance, plus an optional vertical lift
//   - chunkSize: the edge length of the chunk footprint
//   - options: functional options to configure placement
//
// Returns:
//   - InstanceBuilder: the new builder
func NewInstanceBuilder(instanceCount uint32, base common.Transform, chunkSize float32, options ...InstanceBuilderOption) InstanceBuilder {
	b := &instanceBuilder{
		mu:            &sync.Mutex{},
		instanceCount: instanceCount,
		base:          base,
		chunkSize:     chunkSize,
		seed:          rand.Uint64(),
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

func (b *instanceBuilder) InstanceCount() uint32 {
	return b.instanceCount
}

func (b *instanceBuilder) ChunkSize() float32 {
	return b.chunkSize
}

func (b *instanceBuilder) BaseTransform() common.Transform {
	return b.base
}

func (b *instanceBuilder) HeightRange() (float32, float32) {
	return b.minHeight, b.maxHeight
}

func (b *instanceBuilder) Validate() error {
	if !common.IsFinite(b.chunkSize) || b.chunkSize <= 0 {
		return fmt.Errorf("instance builder: %w, got %v", ErrInvalidChunkSize, b.chunkSize)
	}
	if !common.IsFinite(b.minHeight) || !common.IsFinite(b.maxHeight) || b.minHeight > b.maxHeight {
		return fmt.Errorf("instance builder: %w, got [%v, %v]", ErrInvalidHeightRange, b.minHeight, b.maxHeight)
	}
	if t := b.base.Translation; t.X() != 0 || t.Z() != 0 {
		return fmt.Errorf("instance builder: %w, got %v", ErrBaseTranslation, t)
	}
	return nil
}

func (b *instanceBuilder) Build() []GPUInstanceData {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buildLocked()
	return b.records
}

func (b *instanceBuilder) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buildLocked()
	return b.bytes
}

func (b *instanceBuilder) Built() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.built
}

func (b *instanceBuilder) Generation() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generation
}

func (b *instanceBuilder) Invalidate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = nil
	b.bytes = nil
	b.built = false
	b.generation++
}

// buildLocked generates the records if the cache is empty. Caller must hold the mutex.
func (b *instanceBuilder) buildLocked() {
	if b.built {
		return
	}

	// each generation gets its own stream so an invalidated layer is reshuffled
	rng := rand.New(rand.NewPCG(b.seed, b.generation))
	half := b.chunkSize / 2
	rs := common.Transform{Rotation: b.base.Rotation, Scale: b.base.Scale}.Mat4()
	// only a vertical lift is taken from the base, placement stays on the chunk footprint
	origin := mgl32.Vec3{0, b.base.Translation.Y(), 0}

	records := make([]GPUInstanceData, b.instanceCount)
	for i := range records {
		var x, y, z float32
		if !b.centered {
			x = (rng.Float32()*2 - 1) * half
			z = (rng.Float32()*2 - 1) * half
			y = b.minHeight + rng.Float32()*(b.maxHeight-b.minHeight)
		}

		m := mgl32.Translate3D(origin.X()+x, origin.Y()+y, origin.Z()+z)
		if b.yawJitter {
			yaw := rng.Float32() * 2 * math.Pi
			m = m.Mul4(mgl32.HomogRotate3DY(yaw))
		}
		records[i] = GPUInstanceData{Model: m.Mul4(rs)}
	}

	b.records = records
	b.bytes = MarshalInstances(records)
	b.built = true
}
