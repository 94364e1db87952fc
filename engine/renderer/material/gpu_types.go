package material

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// GPUMaterialSource is the WGSL declaration of the material bind group at group Group.
// Shaders that sample a material prepend it to their own source.
//
//go:embed assets/material.wgsl
var GPUMaterialSource string

// Group is the bind group index the material is bound at in every mesh pipeline.
const Group = 1

// Binding indices within the material bind group.
const (
	BindingUniform = 0
	BindingAlbedo  = 1
	BindingSampler = 2
)

// GPUMaterialUniform is the GPU-aligned representation of the material uniform.
// Size: 16 bytes (one vec4<f32>).
type GPUMaterialUniform struct {
	BaseColor [4]float32 // offset 0: RGBA tint
}

// Size returns the size of the GPUMaterialUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (16)
func (g *GPUMaterialUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (g *GPUMaterialUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	common.PutFloat32s(buf, 0, g.BaseColor[:]...)
	return buf
}

// BindGroupLayout returns the layout of the material bind group: the uniform, the albedo texture and its sampler.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the material bind group layout
func BindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Material Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    BindingUniform,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64((&GPUMaterialUniform{}).Size()),
				},
			},
			{
				Binding:    BindingAlbedo,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    BindingSampler,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}
