package grass

import (
	_ "embed"
	"encoding/binary"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/grass.wgsl
var grassSource string

// Bind group indices of the grass pipeline. Group 0 is the camera.
const (
	GroupGrowth = 1
	GroupChunk  = 2
)

// Binding indices within the growth bind group.
const (
	BindingGrowthBounds  = 0
	BindingGrowthTexture = 1
	BindingGrowthSampler = 2
)

// BindingChunk is the binding of the per-chunk uniform within GroupChunk.
const BindingChunk = 0

// GPUGrowthBounds maps world XZ positions into growth map UV space.
// Size: 16 bytes.
type GPUGrowthBounds struct {
	Center      [2]float32 // offset 0: world-space XZ centre of the grid
	HalfExtents [2]float32 // offset 8: world-space half size of the grid
}

// Size returns the size of the GPUGrowthBounds struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (16)
func (g *GPUGrowthBounds) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUGrowthBounds struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (g *GPUGrowthBounds) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := common.PutFloat32s(buf, 0, g.Center[:]...)
	common.PutFloat32s(buf, off, g.HalfExtents[:]...)
	return buf
}

// GPUChunkGrass is the GPU-aligned representation of a ChunkGrass descriptor.
// Matches the WGSL ChunkGrass struct: every vec3 is 16-byte aligned and carries a scalar in its fourth slot.
// Size: 112 bytes.
type GPUChunkGrass struct {
	ChunkXY          [2]float32 // offset   0
	ChunkHalfExtents [2]float32 // offset   8
	HealthyTip       [3]float32 // offset  16
	Scale            float32    // offset  28
	HealthyMiddle    [3]float32 // offset  32
	HeightModifier   float32    // offset  44
	HealthyBase      [3]float32 // offset  48
	Time             float32    // offset  60
	UnhealthyTip     [3]float32 // offset  64
	NrInstances      uint32     // offset  76
	UnhealthyMiddle  [3]float32 // offset  80
	_                float32    // offset  92
	UnhealthyBase    [3]float32 // offset  96
	_                float32    // offset 108
}

// NewGPUChunkGrass packs a descriptor for upload.
//
// Parameters:
//   - d: the chunk descriptor
//
// Returns:
//   - GPUChunkGrass: the GPU representation
func NewGPUChunkGrass(d ChunkGrass) GPUChunkGrass {
	return GPUChunkGrass{
		ChunkXY:          d.ChunkXY,
		ChunkHalfExtents: d.ChunkHalfExtents,
		HealthyTip:       d.Healthy.Tip,
		Scale:            d.Scale,
		HealthyMiddle:    d.Healthy.Middle,
		HeightModifier:   d.HeightModifier,
		HealthyBase:      d.Healthy.Base,
		Time:             d.Time,
		UnhealthyTip:     d.Unhealthy.Tip,
		NrInstances:      d.NrInstances,
		UnhealthyMiddle:  d.Unhealthy.Middle,
		UnhealthyBase:    d.Unhealthy.Base,
	}
}

// Size returns the size of the GPUChunkGrass struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (112)
func (g *GPUChunkGrass) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUChunkGrass struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 112-byte buffer ready for GPU upload
func (g *GPUChunkGrass) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := common.PutFloat32s(buf, 0, g.ChunkXY[0], g.ChunkXY[1], g.ChunkHalfExtents[0], g.ChunkHalfExtents[1])
	off = common.PutFloat32s(buf, off, g.HealthyTip[0], g.HealthyTip[1], g.HealthyTip[2], g.Scale)
	off = common.PutFloat32s(buf, off, g.HealthyMiddle[0], g.HealthyMiddle[1], g.HealthyMiddle[2], g.HeightModifier)
	off = common.PutFloat32s(buf, off, g.HealthyBase[0], g.HealthyBase[1], g.HealthyBase[2], g.Time)
	off = common.PutFloat32s(buf, off, g.UnhealthyTip[:]...)
	binary.LittleEndian.PutUint32(buf[off:], g.NrInstances)
	off += 4
	off = common.PutFloat32s(buf, off, g.UnhealthyMiddle[0], g.UnhealthyMiddle[1], g.UnhealthyMiddle[2], 0)
	common.PutFloat32s(buf, off, g.UnhealthyBase[0], g.UnhealthyBase[1], g.UnhealthyBase[2], 0)
	return buf
}

// GrowthBindGroupLayout returns the layout of the growth bind group: grid bounds, growth texture and sampler.
// The growth map is sampled per blade in the vertex stage.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the growth bind group layout
func GrowthBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Grass Growth Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    BindingGrowthBounds,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64((&GPUGrowthBounds{}).Size()),
				},
			},
			{
				Binding:    BindingGrowthTexture,
				Visibility: wgpu.ShaderStageVertex,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    BindingGrowthSampler,
				Visibility: wgpu.ShaderStageVertex,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}

// ChunkBindGroupLayout returns the layout of the per-chunk grass uniform.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the chunk bind group layout
func ChunkBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Grass Chunk Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    BindingChunk,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64((&GPUChunkGrass{}).Size()),
				},
			},
		},
	}
}
