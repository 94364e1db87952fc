package material

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/bind_group_provider"
)

// material is the implementation of the Material interface.
type material struct {
	mu *sync.Mutex

	name           string
	baseColor      [4]float32
	diffuseTexture *common.ImportedTexture
	diffuseStaging *common.TextureStagingData
	sampler        common.SamplerStagingData

	bindGroupProvider bind_group_provider.BindGroupProvider
	initialized       bool
}

// Material is the surface description shared by every instance of a layer: a base color tint and an
// albedo texture. A single material is referenced by the matching layer in every chunk, so its GPU
// resources are created once and only read afterwards.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the RGBA tint multiplied with the albedo texture.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	BaseColor() [4]float32

	// DiffuseTexture retrieves the albedo texture reference, or nil if the material is untextured.
	//
	// Returns:
	//   - *common.ImportedTexture: the diffuse texture, or nil
	DiffuseTexture() *common.ImportedTexture

	// BindGroupProvider retrieves the bind group provider holding the material's GPU resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Initialized reports whether the GPU resources have been created.
	//
	// Returns:
	//   - bool: true after a successful Init
	Initialized() bool

	// Init creates the material uniform, albedo texture and sampler on the GPU. Calling Init again
	// after it succeeded is a no-op.
	//
	// Parameters:
	//   - r: the renderer used to create the resources
	//
	// Returns:
	//   - error: an error if the texture could not be decoded or a GPU resource could not be created
	Init(r renderer.Renderer) error
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// Untextured materials sample a 1x1 white texture so the base color is used as-is.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		mu:        &sync.Mutex{},
		baseColor: [4]float32{1, 1, 1, 1},
	}
	for _, opt := range options {
		opt(m)
	}
	if m.bindGroupProvider == nil {
		m.bindGroupProvider = bind_group_provider.NewBindGroupProvider("material_" + m.name)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [4]float32 {
	return m.baseColor
}

func (m *material) DiffuseTexture() *common.ImportedTexture {
	return m.diffuseTexture
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

func (m *material) Init(r renderer.Renderer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	staging := common.SolidTexture(255, 255, 255, 255)
	switch {
	case m.diffuseStaging != nil:
		staging = *m.diffuseStaging
	case m.diffuseTexture != nil:
		decoded, err := m.diffuseTexture.Decode()
		if err != nil {
			return fmt.Errorf("material %q: %w", m.name, err)
		}
		staging = decoded
	}

	if err := r.InitTextureView(m.bindGroupProvider, BindingAlbedo, staging); err != nil {
		return fmt.Errorf("material %q: failed to create albedo texture: %w", m.name, err)
	}
	if err := r.InitSampler(m.bindGroupProvider, BindingSampler, m.sampler); err != nil {
		return fmt.Errorf("material %q: failed to create sampler: %w", m.name, err)
	}
	if err := r.InitBindGroup(m.bindGroupProvider, BindGroupLayout(), nil); err != nil {
		return fmt.Errorf("material %q: failed to create bind group: %w", m.name, err)
	}

	uniform := GPUMaterialUniform{BaseColor: m.baseColor}
	r.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: m.bindGroupProvider,
		Binding:  BindingUniform,
		Data:     uniform.Marshal(),
	}})

	m.initialized = true
	return nil
}
