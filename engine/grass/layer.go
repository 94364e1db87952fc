package grass

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/Carmen-Shannon/oxy-forest/engine/culling"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// layer is the implementation of the Layer interface.
type layer struct {
	mu *sync.Mutex

	name       string
	descriptor ChunkGrass
	culling    culling.DistanceCulling
	bounds     *common.AABB

	provider    bind_group_provider.BindGroupProvider
	growth      bind_group_provider.BindGroupProvider
	meshBGP     bind_group_provider.BindGroupProvider
	pipelineKey string
	allocated   bool
}

// Layer draws the grass field of one chunk. Blades are generated in the vertex shader from the chunk
// descriptor and the instance index, so the only per-chunk GPU state is one small uniform.
type Layer interface {
	culling.Cullable

	// Name retrieves the layer name.
	//
	// Returns:
	//   - string: the layer name
	Name() string

	// Descriptor returns a copy of the chunk descriptor, including the current animation time.
	//
	// Returns:
	//   - ChunkGrass: the descriptor
	Descriptor() ChunkGrass

	// InstanceCount returns the number of blades drawn.
	//
	// Returns:
	//   - uint32: the blade count
	InstanceCount() uint32

	// BindGroupProvider returns the provider holding the chunk uniform.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the chunk provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Visible reports whether the layer is within its culling distance of the camera.
	//
	// Parameters:
	//   - cameraPos: the camera position for this frame
	//
	// Returns:
	//   - bool: true if the layer should be drawn
	Visible(cameraPos mgl32.Vec3) bool

	// Update advances the animation clock. Negative steps are ignored.
	//
	// Parameters:
	//   - dt: the elapsed time in seconds
	Update(dt float32)

	// Prepare allocates the chunk uniform on first use and writes the descriptor every call so the
	// shader sees the current time. The grass renderer must be initialized first.
	//
	// Parameters:
	//   - r: the renderer owning the GPU resources
	//   - gr: the shared grass state
	//
	// Returns:
	//   - error: ErrGrowthTextureNotFound or an allocation error, wrapped with the layer name
	Prepare(r renderer.Renderer, gr *Renderer) error

	// Draw records one instanced draw of every blade. Nothing is recorded for an empty layer.
	//
	// Parameters:
	//   - r: the renderer recording the draw
	//   - cameraProvider: the camera bind group, bound at group 0
	//
	// Returns:
	//   - error: an error if the layer was not prepared or the draw could not be recorded
	Draw(r renderer.Renderer, cameraProvider bind_group_provider.BindGroupProvider) error

	// Release frees the chunk uniform. Shared grass resources are left alone.
	Release()
}

var _ Layer = &layer{}

// LayerBuilderOption is a functional option used to configure a grass Layer during construction.
type LayerBuilderOption func(*layer)

// WithName is an option builder that sets the layer name used in logs and errors.
//
// Parameters:
//   - name: the layer name
//
// Returns:
//   - LayerBuilderOption: a function that applies the name
func WithName(name string) LayerBuilderOption {
	return func(l *layer) {
		l.name = name
	}
}

// WithDistanceCulling is an option builder that sets the culling distance. A zero distance keeps the default.
//
// Parameters:
//   - dc: the distance culling descriptor
//
// Returns:
//   - LayerBuilderOption: a function that applies the culling option
func WithDistanceCulling(dc culling.DistanceCulling) LayerBuilderOption {
	return func(l *layer) {
		l.culling = dc
	}
}

// WithBoundingBox is an option builder that sets the world-space culling box, normally the owning chunk's box.
// Without it the box is derived from the descriptor.
//
// Parameters:
//   - box: the world-space bounding box
//
// Returns:
//   - LayerBuilderOption: a function that applies the bounding box
func WithBoundingBox(box common.AABB) LayerBuilderOption {
	return func(l *layer) {
		l.bounds = &box
	}
}

// NewLayer validates a chunk descriptor and creates its grass layer. An invalid descriptor is not spawned.
//
// Parameters:
//   - descriptor: the chunk grass descriptor
//   - options: functional options to configure the layer
//
// Returns:
//   - Layer: the new layer
//   - error: ErrInvalidExtents, ErrInvalidRamp or ErrInvalidScale wrapped with the layer name
func NewLayer(descriptor ChunkGrass, options ...LayerBuilderOption) (Layer, error) {
	l := &layer{
		mu:         &sync.Mutex{},
		name:       "Grass",
		descriptor: descriptor,
		culling:    culling.DefaultDistanceCulling(),
	}
	for _, opt := range options {
		opt(l)
	}
	if err := descriptor.Validate(); err != nil {
		return nil, fmt.Errorf("layer %q: %w", l.name, err)
	}
	l.culling = l.culling.OrDefault()
	l.provider = bind_group_provider.NewBindGroupProvider("grass_" + uuid.NewString())
	return l, nil
}

func (l *layer) Name() string {
	return l.name
}

func (l *layer) Descriptor() ChunkGrass {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.descriptor
}

func (l *layer) InstanceCount() uint32 {
	return l.descriptor.NrInstances
}

func (l *layer) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return l.provider
}

func (l *layer) CullingDistance() culling.DistanceCulling {
	return l.culling
}

func (l *layer) BoundingBox() common.AABB {
	if l.bounds != nil {
		return *l.bounds
	}
	return l.descriptor.Bounds()
}

func (l *layer) Visible(cameraPos mgl32.Vec3) bool {
	return culling.IsCullableVisible(cameraPos, l)
}

func (l *layer) Update(dt float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.descriptor.Advance(dt)
}

func (l *layer) Prepare(r renderer.Renderer, gr *Renderer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.allocated {
		growth, err := gr.GrowthProvider(l.descriptor.GrowthTextureID)
		if err != nil {
			return fmt.Errorf("layer %q: %w", l.name, err)
		}
		if err := r.InitBindGroup(l.provider, ChunkBindGroupLayout(), nil); err != nil {
			return fmt.Errorf("layer %q: failed to allocate grass uniform: %w", l.name, err)
		}
		l.growth = growth
		l.meshBGP = gr.MeshProvider()
		l.pipelineKey = gr.PipelineKey()
		l.allocated = true
	}

	uniform := NewGPUChunkGrass(l.descriptor)
	r.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: l.provider,
		Binding:  BindingChunk,
		Data:     uniform.Marshal(),
	}})
	return nil
}

func (l *layer) Draw(r renderer.Renderer, cameraProvider bind_group_provider.BindGroupProvider) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.descriptor.NrInstances == 0 {
		return nil
	}
	if !l.allocated {
		return fmt.Errorf("layer %q: drawn before Prepare", l.name)
	}
	err := r.DrawCall(l.pipelineKey, l.meshBGP, l.descriptor.NrInstances, []bind_group_provider.BindGroupProvider{
		cameraProvider,
		l.growth,
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
	l.allocated = false
}
