// Package renderertest provides a recording renderer.Renderer for tests that exercise layers and
// scenes without a GPU device.
package renderertest

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// BindGroupInit records one InitBindGroup call.
type BindGroupInit struct {
	Label     string
	Overrides map[int]uint64
}

// Draw records one DrawCall.
type Draw struct {
	PipelineKey   string
	MeshLabel     string
	InstanceCount uint32
	BindGroups    []string
}

// Recorder is a renderer.Renderer that records every call. Pipelines must be registered before
// they can be drawn, mirroring the real renderer's cache.
type Recorder struct {
	mu *sync.Mutex

	pipelines map[string]pipeline.Pipeline

	MeshUploads    []string
	BindGroupInits []BindGroupInit
	TextureInits   []string
	SamplerInits   []string
	Writes         []bind_group_provider.BufferWrite
	Draws          []Draw
	Frames         int
	ClearColor     [3]float64
	PresentMode    renderer.PresentMode
	Width, Height  int

	stats, frameStats renderer.FrameStats
}

var _ renderer.Renderer = &Recorder{}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		mu:        &sync.Mutex{},
		pipelines: make(map[string]pipeline.Pipeline),
	}
}

func (r *Recorder) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelines[key]
}

func (r *Recorder) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		r.pipelines[p.PipelineKey()] = p
	}
	return nil
}

func (r *Recorder) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Width, r.Height = width, height
}

func (r *Recorder) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.MeshUploads = append(r.MeshUploads, provider.Label())
	provider.SetMesh(nil, nil, indexCount)
	return nil
}

func (r *Recorder) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.BindGroupInits = append(r.BindGroupInits, BindGroupInit{Label: provider.Label(), Overrides: bufferSizeOverrides})
	return nil
}

func (r *Recorder) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	if !stagingData.Valid() {
		return fmt.Errorf("texture data for %q binding %d does not match %dx%d RGBA", provider.Label(), bindingKey, stagingData.Width, stagingData.Height)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.TextureInits = append(r.TextureInits, provider.Label())
	return nil
}

func (r *Recorder) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.SamplerInits = append(r.SamplerInits, provider.Label())
	return nil
}

func (r *Recorder) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Writes = append(r.Writes, writes...)
}

func (r *Recorder) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frameStats = renderer.FrameStats{}
	return nil
}

func (r *Recorder) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pipelines[pipelineKey]; !ok {
		return fmt.Errorf("%w: %q", renderer.ErrPipelineNotFound, pipelineKey)
	}
	labels := make([]string, len(bindGroups))
	for i, bg := range bindGroups {
		labels[i] = bg.Label()
	}
	r.Draws = append(r.Draws, Draw{
		PipelineKey:   pipelineKey,
		MeshLabel:     meshProvider.Label(),
		InstanceCount: instanceCount,
		BindGroups:    labels,
	})
	r.frameStats.DrawCalls++
	r.frameStats.Instances += uint64(instanceCount)
	return nil
}

func (r *Recorder) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = r.frameStats
	r.Frames++
}

func (r *Recorder) Present() {}

func (r *Recorder) SetPresentMode(mode renderer.PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.PresentMode = mode
}

func (r *Recorder) SetClearColor(red, green, blue float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ClearColor = [3]float64{red, green, blue}
}

func (r *Recorder) Stats() renderer.FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// InitBindGroupCount returns how many InitBindGroup calls were made for a provider label.
func (r *Recorder) InitBindGroupCount(label string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.BindGroupInits {
		if b.Label == label {
			n++
		}
	}
	return n
}

// WritesTo returns the buffer writes targeting a provider label, in submission order.
func (r *Recorder) WritesTo(label string) []bind_group_provider.BufferWrite {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []bind_group_provider.BufferWrite
	for _, w := range r.Writes {
		if w.Provider.Label() == label {
			out = append(out, w)
		}
	}
	return out
}

// Reset clears the recorded calls but keeps registered pipelines.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.MeshUploads = nil
	r.BindGroupInits = nil
	r.TextureInits = nil
	r.SamplerInits = nil
	r.Writes = nil
	r.Draws = nil
}
