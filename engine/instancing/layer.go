package instancing

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/Carmen-Shannon/oxy-forest/engine/culling"
	"github.com/Carmen-Shannon/oxy-forest/engine/model"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// defaultBoundsHeight is the height of the bounding box used when no chunk box is supplied.
const defaultBoundsHeight float32 = 4.0

var (
	// ErrMissingModel is returned when a layer is created without a mesh.
	ErrMissingModel = errors.New("instancing layer requires a model")

	// ErrMissingMaterial is returned when a layer is created without a material.
	ErrMissingMaterial = errors.New("instancing layer requires a material")
)

// layer is the implementation of the Layer interface.
type layer struct {
	mu *sync.Mutex

	name        string
	model       model.Model
	material    material.Material
	builder     InstanceBuilder
	culling     culling.DistanceCulling
	bounds      *common.AABB
	box         common.AABB
	worldOffset mgl32.Vec3
	pipelineKey string

	base           common.Transform
	instanceCount  uint32
	chunkSize      float32
	builderOptions []InstanceBuilderOption

	provider    bind_group_provider.BindGroupProvider
	uploaded    bool
	uploadedGen uint64
}

// Layer draws one kind of object, many times, across one chunk. Its instance records are
// generated once by an InstanceBuilder and kept in a GPU storage buffer that is only rewritten
// after the builder is invalidated. Mesh and material are shared with the same layer kind in
// every other chunk.
type Layer interface {
	culling.Cullable

	// Name retrieves the layer name, e.g. "Tree".
	//
	// Returns:
	//   - string: the layer name
	Name() string

	// InstanceCount returns the declared number of instances.
	//
	// Returns:
	//   - uint32: the instance count
	InstanceCount() uint32

	// Builder returns the instance builder owning the records.
	//
	// Returns:
	//   - InstanceBuilder: the builder
	Builder() InstanceBuilder

	// Model returns the shared mesh.
	//
	// Returns:
	//   - model.Model: the mesh
	Model() model.Model

	// Material returns the shared material.
	//
	// Returns:
	//   - material.Material: the material
	Material() material.Material

	// WorldOffset returns the chunk origin the instances are placed around.
	//
	// Returns:
	//   - mgl32.Vec3: the world-space offset
	WorldOffset() mgl32.Vec3

	// PipelineKey returns the key of the pipeline the layer draws with.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// BindGroupProvider returns the provider holding the instance storage buffer.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the instance provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Visible reports whether the layer is within its culling distance of the camera.
	//
	// Parameters:
	//   - cameraPos: the camera position for this frame
	//
	// Returns:
	//   - bool: true if the layer should be drawn
	Visible(cameraPos mgl32.Vec3) bool

	// Prepare uploads the shared mesh and material on first use and (re)creates the instance buffer
	// when the builder generation differs from the uploaded one. Otherwise it does nothing.
	// It must run before Draw in the same frame.
	//
	// Parameters:
	//   - r: the renderer owning the GPU resources
	//
	// Returns:
	//   - error: an error if a GPU resource could not be created
	Prepare(r renderer.Renderer) error

	// Draw records one instanced draw of the layer. Nothing is recorded for an empty layer.
	//
	// Parameters:
	//   - r: the renderer recording the draw
	//   - cameraProvider: the camera bind group, bound at group 0
	//
	// Returns:
	//   - error: an error if the draw could not be recorded
	Draw(r renderer.Renderer, cameraProvider bind_group_provider.BindGroupProvider) error

	// Release frees the instance buffer. Shared mesh and material resources are left alone.
	Release()
}

var _ Layer = &layer{}

// NewLayer creates an instancing layer and validates its configuration. An invalid layer is not returned.
//
// Parameters:
//   - instanceCount: the number of instances in the chunk, 0 is allowed
//   - mat: the material shared by all instances
//   - transform: the base rotation, scale and vertical lift of every instance
//   - chunkSize: the edge length of the chunk footprint
//   - options: functional options to configure the layer
//
// Returns:
//   - Layer: the new layer
//   - error: ErrInvalidChunkSize, ErrInvalidHeightRange, ErrBaseTranslation, ErrMissingModel or ErrMissingMaterial wrapped with the layer name
func NewLayer(instanceCount uint32, mat material.Material, transform common.Transform, chunkSize float32, options ...LayerBuilderOption) (Layer, error) {
	l := &layer{
		mu:            &sync.Mutex{},
		material:      mat,
		base:          transform,
		instanceCount: instanceCount,
		chunkSize:     chunkSize,
		culling:       culling.DefaultDistanceCulling(),
		pipelineKey:   DefaultPipelineKey,
	}
	for _, opt := range options {
		opt(l)
	}

	if l.model == nil {
		return nil, fmt.Errorf("layer %q: %w", l.name, ErrMissingModel)
	}
	if l.material == nil {
		return nil, fmt.Errorf("layer %q: %w", l.name, ErrMissingMaterial)
	}

	l.builder = NewInstanceBuilder(instanceCount, transform, chunkSize, l.builderOptions...)
	if err := l.builder.Validate(); err != nil {
		return nil, fmt.Errorf("layer %q: %w", l.name, err)
	}

	l.culling = l.culling.OrDefault()
	l.box = l.coverage()
	l.provider = bind_group_provider.NewBindGroupProvider("layer_" + uuid.NewString())
	return l, nil
}

// coverage widens the footprint box so it encloses every instance mesh, not just the placement points.
// The horizontal pad is the model's XZ radius under the base transform, which holds for any yaw.
func (l *layer) coverage() common.AABB {
	var footprint common.AABB
	if l.bounds != nil {
		footprint = *l.bounds
	} else {
		half := l.chunkSize / 2
		footprint = common.NewAABB(
			l.worldOffset.Add(mgl32.Vec3{0, defaultBoundsHeight / 2, 0}),
			mgl32.Vec3{half, defaultBoundsHeight / 2, half},
		)
	}

	rs := common.Transform{Rotation: l.base.Rotation, Scale: l.base.Scale}.Mat4()
	lift := l.base.Translation.Y()
	lowest, highest := l.builder.HeightRange()

	var radius float32
	bottom, top := float32(math.Inf(1)), float32(math.Inf(-1))
	for _, c := range l.model.Bounds().Corners() {
		p := rs.Mul4x1(c.Vec4(1)).Vec3()
		radius = max(radius, float32(math.Hypot(float64(p.X()), float64(p.Z()))))
		bottom = min(bottom, p.Y()+lift+lowest)
		top = max(top, p.Y()+lift+highest)
	}

	lo, hi := footprint.Min(), footprint.Max()
	return common.NewAABBFromMinMax(
		mgl32.Vec3{lo.X() - radius, min(lo.Y(), l.worldOffset.Y()+bottom), lo.Z() - radius},
		mgl32.Vec3{hi.X() + radius, max(hi.Y(), l.worldOffset.Y()+top), hi.Z() + radius},
	)
}

func (l *layer) Name() string {
	return l.name
}

func (l *layer) InstanceCount() uint32 {
	return l.instanceCount
}

func (l *layer) Builder() InstanceBuilder {
	return l.builder
}

func (l *layer) Model() model.Model {
	return l.model
}

func (l *layer) Material() material.Material {
	return l.material
}

func (l *layer) WorldOffset() mgl32.Vec3 {
	return l.worldOffset
}

func (l *layer) PipelineKey() string {
	return l.pipelineKey
}

func (l *layer) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return l.provider
}

func (l *layer) CullingDistance() culling.DistanceCulling {
	return l.culling
}

func (l *layer) BoundingBox() common.AABB {
	return l.box
}

func (l *layer) Visible(cameraPos mgl32.Vec3) bool {
	return culling.IsCullableVisible(cameraPos, l)
}

func (l *layer) Prepare(r renderer.Renderer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	gen := l.builder.Generation()
	if l.uploaded && gen == l.uploadedGen {
		return nil
	}
	if !l.uploaded {
		if err := l.model.Upload(r); err != nil {
			return fmt.Errorf("layer %q: %w", l.name, err)
		}
		if err := l.material.Init(r); err != nil {
			return fmt.Errorf("layer %q: %w", l.name, err)
		}
	}
	if l.instanceCount == 0 {
		l.uploaded, l.uploadedGen = true, gen
		return nil
	}

	data := l.builder.Bytes()
	l.provider.Release()
	if err := r.InitBindGroup(l.provider, BindGroupLayout(), map[int]uint64{
		BindingInstances: uint64(len(data)),
	}); err != nil {
		return fmt.Errorf("layer %q: failed to allocate instance buffer: %w", l.name, err)
	}

	uniform := GPULayerUniform{WorldOffset: l.worldOffset}
	r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: l.provider, Binding: BindingInstances, Data: data},
		{Provider: l.provider, Binding: BindingLayer, Data: uniform.Marshal()},
	})

	l.uploaded, l.uploadedGen = true, gen
	return nil
}

func (l *layer) Draw(r renderer.Renderer, cameraProvider bind_group_provider.BindGroupProvider) error {
	if l.instanceCount == 0 {
		return nil
	}
	err := r.DrawCall(l.pipelineKey, l.model.MeshProvider(), l.instanceCount, []bind_group_provider.BindGroupProvider{
		cameraProvider,
		l.material.BindGroupProvider(),
		l.provider,
	})
	if err != nil {
		return fmt.Errorf("layer %q: %w", l.name, err)
	}
	return nil
}

func (l *layer) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.provider.Release()
	l.uploaded = false
}
