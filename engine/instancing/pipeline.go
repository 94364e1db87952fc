package instancing

import (
	"github.com/Carmen-Shannon/oxy-forest/engine/camera"
	"github.com/Carmen-Shannon/oxy-forest/engine/model"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/shader"
)

// DefaultPipelineKey is the pipeline key layers draw with unless WithPipelineKey overrides it.
const DefaultPipelineKey = "forest_instancing"

// ShaderSource returns the complete WGSL module of the instancing pipeline.
//
// Returns:
//   - string: the WGSL source
func ShaderSource() string {
	return camera.GPUCameraUniformSource + "\n" +
		material.GPUMaterialSource + "\n" +
		model.GPUVertexSource + "\n" +
		instancingSource
}

// NewPipeline creates the instanced mesh pipeline: camera at group 0, material at group 1 and
// the per-layer instance resources at group 2.
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
		shader.WithBindGroupLayout(Group, BindGroupLayout()),
	)
	fs := shader.NewShader(key+"_fs", shader.ShaderTypeFragment, src,
		shader.WithBindGroupLayout(camera.Group, camera.BindGroupLayout()),
		shader.WithBindGroupLayout(material.Group, material.BindGroupLayout()),
	)
	return pipeline.NewPipeline(key,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	)
}
