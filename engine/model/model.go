package model

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// model is the implementation of the Model interface.
type model struct {
	mu *sync.Mutex

	name                  string
	meshProvider          bind_group_provider.BindGroupProvider
	vertexData, indexData []byte
	indexCount            int
	vertexCount           int
	bounds                common.AABB
	uploaded              bool
}

// Model is a GPU-ready mesh: packed GPUVertex and uint32 index data plus the BindGroupProvider
// that holds its vertex and index buffers once uploaded. One model is shared by every chunk layer
// that draws it.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// MeshProvider retrieves the BindGroupProvider holding GPU mesh resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// VertexData returns the raw vertex data for this model's mesh.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the raw index data for this model's mesh.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// IndexCount returns the number of indices in the model's mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// VertexCount returns the number of vertices in the model's mesh.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// Bounds returns the model-space bounding box of the mesh.
	//
	// Returns:
	//   - common.AABB: the model-space bounds
	Bounds() common.AABB

	// Uploaded reports whether the mesh buffers have been created on the GPU.
	//
	// Returns:
	//   - bool: true after a successful Upload
	Uploaded() bool

	// Upload creates the vertex and index buffers on the GPU. Later calls are no-ops.
	//
	// Parameters:
	//   - r: the renderer used to create the buffers
	//
	// Returns:
	//   - error: an error if the buffers could not be created
	Upload(r renderer.Renderer) error
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{mu: &sync.Mutex{}}
	for _, opt := range options {
		opt(m)
	}
	if m.meshProvider == nil {
		m.meshProvider = bind_group_provider.NewBindGroupProvider("mesh_" + m.name)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) IndexCount() int {
	return m.indexCount
}

func (m *model) VertexCount() int {
	return m.vertexCount
}

func (m *model) Bounds() common.AABB {
	return m.bounds
}

func (m *model) Uploaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploaded
}

func (m *model) Upload(r renderer.Renderer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploaded {
		return nil
	}
	if err := r.InitMeshBuffers(m.meshProvider, m.vertexData, m.indexData, m.indexCount); err != nil {
		return fmt.Errorf("model %q: failed to upload mesh: %w", m.name, err)
	}
	m.uploaded = true
	return nil
}

// ComputeBounds returns the model-space AABB enclosing all vertex positions.
// An empty slice yields a zero box.
//
// Parameters:
//   - vertices: the vertices to bound
//
// Returns:
//   - common.AABB: the enclosing box
func ComputeBounds(vertices []GPUVertex) common.AABB {
	if len(vertices) == 0 {
		return common.AABB{}
	}
	lo := mgl32.Vec3(vertices[0].Position)
	hi := lo
	for _, v := range vertices[1:] {
		for i := range 3 {
			lo[i] = min(lo[i], v.Position[i])
			hi[i] = max(hi[i], v.Position[i])
		}
	}
	return common.NewAABB(lo.Add(hi).Mul(0.5), hi.Sub(lo).Mul(0.5))
}
