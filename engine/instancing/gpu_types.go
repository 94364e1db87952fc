package instancing

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// instancingSource holds the instance bind group declarations and the entry points of the instancing pipeline.
// It is compiled after the camera, material and vertex declarations.
//
//go:embed assets/instancing.wgsl
var instancingSource string

// Group is the bind group index of the per-layer instance resources.
const Group = 2

// Binding indices within the instance bind group.
const (
	BindingInstances = 0
	BindingLayer     = 1
)

// GPUInstanceData is the GPU-aligned representation of a single instance record.
// Matches the WGSL InstanceData struct layout exactly.
// Size: 64 bytes (mat4x4<f32>, column-major).
type GPUInstanceData struct {
	Model [16]float32 // offset 0: chunk-local model matrix
}

// Size returns the size of the GPUInstanceData struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (64)
func (g *GPUInstanceData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUInstanceData struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (g *GPUInstanceData) Marshal() []byte {
	buf := make([]byte, g.Size())
	common.PutFloat32s(buf, 0, g.Model[:]...)
	return buf
}

// MarshalInstances packs instance records into one contiguous storage buffer image.
//
// Parameters:
//   - records: the records to pack
//
// Returns:
//   - []byte: len(records)*64 bytes, or nil for no records
func MarshalInstances(records []GPUInstanceData) []byte {
	if len(records) == 0 {
		return nil
	}
	stride := records[0].Size()
	buf := make([]byte, len(records)*stride)
	for i := range records {
		common.PutFloat32s(buf, i*stride, records[i].Model[:]...)
	}
	return buf
}

// GPULayerUniform carries the per-layer values shared by all instances.
// Size: 16 bytes.
type GPULayerUniform struct {
	WorldOffset [3]float32 // offset  0: chunk origin in world space
	_pad        float32    // offset 12: padding to 16 bytes
}

// Size returns the size of the GPULayerUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (16)
func (g *GPULayerUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULayerUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (g *GPULayerUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	common.PutFloat32s(buf, 0, g.WorldOffset[:]...)
	return buf
}

// BindGroupLayout returns the layout of the instance bind group: the read-only instance array and the layer uniform.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the instance bind group layout
func BindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Instancing Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    BindingInstances,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeReadOnlyStorage,
					MinBindingSize: uint64((&GPUInstanceData{}).Size()),
				},
			},
			{
				Binding:    BindingLayer,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64((&GPULayerUniform{}).Size()),
				},
			},
		},
	}
}
