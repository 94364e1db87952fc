package grass

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/Carmen-Shannon/oxy-forest/engine/camera"
	"github.com/Carmen-Shannon/oxy-forest/engine/model"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultPipelineKey is the pipeline key grass layers draw with.
const DefaultPipelineKey = "forest_grass"

// ErrGrowthTextureNotFound is returned when a layer references a growth texture id that was never registered.
var ErrGrowthTextureNotFound = errors.New("growth texture not found")

// Renderer is the state shared by every grass layer: the blade mesh buffers, the growth textures and the
// pipeline key. All of it is created by Init and only read afterwards.
type Renderer struct {
	mu *sync.Mutex

	pipelineKey string
	center      [2]float32
	halfExtents [2]float32
	sampler     common.SamplerStagingData

	mesh     bind_group_provider.BindGroupProvider
	textures map[uint32]common.TextureStagingData
	growth   map[uint32]bind_group_provider.BindGroupProvider

	initialized bool
}

// RendererBuilderOption is a functional option used to configure a grass Renderer during construction.
type RendererBuilderOption func(*Renderer)

// WithPipelineKey is an option builder that overrides the pipeline key grass is drawn with.
//
// Parameters:
//   - key: a registered pipeline key
//
// Returns:
//   - RendererBuilderOption: a function that applies the pipeline key
func WithPipelineKey(key string) RendererBuilderOption {
	return func(r *Renderer) {
		r.pipelineKey = key
	}
}

// WithGrowthBounds is an option builder that sets the world-space area growth maps are stretched over,
// normally the whole chunk grid.
//
// Parameters:
//   - center: the XZ centre of the area
//   - halfExtents: the XZ half size of the area
//
// Returns:
//   - RendererBuilderOption: a function that applies the growth bounds
func WithGrowthBounds(center, halfExtents [2]float32) RendererBuilderOption {
	return func(r *Renderer) {
		r.center = center
		r.halfExtents = halfExtents
	}
}

// WithGrowthSampler is an option builder that sets how growth maps are filtered and addressed.
//
// Parameters:
//   - s: the sampler configuration
//
// Returns:
//   - RendererBuilderOption: a function that applies the sampler
func WithGrowthSampler(s common.SamplerStagingData) RendererBuilderOption {
	return func(r *Renderer) {
		r.sampler = s
	}
}

// NewRenderer creates the shared grass state. Growth textures are registered with AddGrowthTexture
// before Init uploads them.
//
// Parameters:
//   - options: functional options to configure the renderer
//
// Returns:
//   - *Renderer: the new grass renderer
func NewRenderer(options ...RendererBuilderOption) *Renderer {
	r := &Renderer{
		mu:          &sync.Mutex{},
		pipelineKey: DefaultPipelineKey,
		halfExtents: [2]float32{1, 1},
		sampler: common.SamplerStagingData{
			AddressModeU: wgpu.AddressModeClampToEdge,
			AddressModeV: wgpu.AddressModeClampToEdge,
			AddressModeW: wgpu.AddressModeClampToEdge,
		},
		mesh:     bind_group_provider.NewBindGroupProvider("grass_blade_mesh"),
		textures: make(map[uint32]common.TextureStagingData),
		growth:   make(map[uint32]bind_group_provider.BindGroupProvider),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// PipelineKey returns the key of the grass pipeline.
func (r *Renderer) PipelineKey() string {
	return r.pipelineKey
}

// MeshProvider returns the provider holding the shared blade vertex and index buffers.
func (r *Renderer) MeshProvider() bind_group_provider.BindGroupProvider {
	return r.mesh
}

// AddGrowthTexture registers a growth map under an id. Registering after Init has no effect on the GPU.
//
// Parameters:
//   - id: the id referenced by ChunkGrass.GrowthTextureID
//   - data: the RGBA texture, favorability in the red channel
func (r *Renderer) AddGrowthTexture(id uint32, data common.TextureStagingData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.textures[id] = data
}

// GrowthProvider returns the bind group of a growth texture.
//
// Parameters:
//   - id: the growth texture id
//
// Returns:
//   - bind_group_provider.BindGroupProvider: the growth bind group
//   - error: ErrGrowthTextureNotFound if the id was not registered before Init
func (r *Renderer) GrowthProvider(id uint32) (bind_group_provider.BindGroupProvider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.growth[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrGrowthTextureNotFound, id)
	}
	return p, nil
}

// Initialized reports whether Init has completed.
func (r *Renderer) Initialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized
}

// Init uploads the blade mesh and every registered growth texture. Calling it again is a no-op.
//
// Parameters:
//   - rr: the renderer owning the GPU resources
//
// Returns:
//   - error: an error if a texture is malformed or a GPU resource could not be created
func (r *Renderer) Init(rr renderer.Renderer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.initialized {
		return nil
	}

	blade := BladeMesh()
	if err := rr.InitMeshBuffers(r.mesh, blade.VertexData(), blade.IndexData(), blade.IndexCount()); err != nil {
		return fmt.Errorf("grass: failed to upload blade mesh: %w", err)
	}

	bounds := GPUGrowthBounds{Center: r.center, HalfExtents: r.halfExtents}
	ids := make([]uint32, 0, len(r.textures))
	for id := range r.textures {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		p := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("grass_growth_%d", id))
		if err := rr.InitTextureView(p, BindingGrowthTexture, r.textures[id]); err != nil {
			return fmt.Errorf("grass: growth texture %d: %w", id, err)
		}
		if err := rr.InitSampler(p, BindingGrowthSampler, r.sampler); err != nil {
			return fmt.Errorf("grass: growth sampler %d: %w", id, err)
		}
		if err := rr.InitBindGroup(p, GrowthBindGroupLayout(), nil); err != nil {
			return fmt.Errorf("grass: growth bind group %d: %w", id, err)
		}
		rr.WriteBuffers([]bind_group_provider.BufferWrite{{
			Provider: p,
			Binding:  BindingGrowthBounds,
			Data:     bounds.Marshal(),
		}})
		r.growth[id] = p
	}

	r.initialized = true
	return nil
}

// ShaderSource returns the complete WGSL module of the grass pipeline.
//
// Returns:
//   - string: the WGSL source
func ShaderSource() string {
	return camera.GPUCameraUniformSource + "\n" +
		model.GPUVertexSource + "\n" +
		grassSource
}

// NewPipeline creates the grass pipeline: camera at group 0, growth map at group 1 and the chunk
// uniform at group 2. Blades are single sided quads, so back faces are kept.
//
// Parameters:
//   - key: the pipeline key to register under
//
// Returns:
//   - pipeline.Pipeline: the pipeline description, ready for renderer.RegisterPipelines
func NewPipeline(key string) pipeline.Pipeline {
	src := ShaderSource()
	vs := shader.NewShader(key+"_vs", shader.ShaderTypeVertex, src,
		shader.WithVertexLayouts(model.VertexBufferLayout()),
		shader.WithBindGroupLayout(camera.Group, camera.BindGroupLayout()),
		shader.WithBindGroupLayout(GroupGrowth, GrowthBindGroupLayout()),
		shader.WithBindGroupLayout(GroupChunk, ChunkBindGroupLayout()),
	)
	fs := shader.NewShader(key+"_fs", shader.ShaderTypeFragment, src,
		shader.WithBindGroupLayout(camera.Group, camera.BindGroupLayout()),
	)
	return pipeline.NewPipeline(key,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithCullMode(wgpu.CullModeNone),
	)
}
