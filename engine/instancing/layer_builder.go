package instancing

import (
	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/Carmen-Shannon/oxy-forest/engine/culling"
	"github.com/Carmen-Shannon/oxy-forest/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// LayerBuilderOption is a functional option used to configure a Layer during construction.
type LayerBuilderOption func(*layer)

// WithName is an option builder that sets the layer name used in logs and errors.
//
// Parameters:
//   - name: the layer name
//
// Returns:
//   - LayerBuilderOption: a function that applies the name option to a layer
func WithName(name string) LayerBuilderOption {
	return func(l *layer) {
		l.name = name
	}
}

// WithModel is an option builder that sets the mesh drawn for every instance.
//
// Parameters:
//   - m: the shared mesh
//
// Returns:
//   - LayerBuilderOption: a function that applies the model option to a layer
func WithModel(m model.Model) LayerBuilderOption {
	return func(l *layer) {
		l.model = m
	}
}

// WithDistanceCulling is an option builder that sets the culling distance. A zero distance keeps the default.
//
// Parameters:
//   - dc: the distance culling descriptor
//
// Returns:
//   - LayerBuilderOption: a function that applies the culling option to a layer
func WithDistanceCulling(dc culling.DistanceCulling) LayerBuilderOption {
	return func(l *layer) {
		l.culling = dc
	}
}

// WithBoundingBox is an option builder that sets the world-space footprint used for distance culling,
// normally the owning chunk's box. The layer widens it to enclose its meshes.
//
// Parameters:
//   - box: the world-space bounding box
//
// Returns:
//   - LayerBuilderOption: a function that applies the bounding box to a layer
func WithBoundingBox(box common.AABB) LayerBuilderOption {
	return func(l *layer) {
		l.bounds = &box
	}
}

// WithWorldOffset is an option builder that sets the chunk origin the instances are placed around.
//
// Parameters:
//   - offset: the world-space chunk origin
//
// Returns:
//   - LayerBuilderOption: a function that applies the world offset to a layer
func WithWorldOffset(offset mgl32.Vec3) LayerBuilderOption {
	return func(l *layer) {
		l.worldOffset = offset
	}
}

// WithPipelineKey is an option builder that overrides the pipeline the layer draws with.
//
// Parameters:
//   - key: a registered pipeline key
//
// Returns:
//   - LayerBuilderOption: a function that applies the pipeline key to a layer
func WithPipelineKey(key string) LayerBuilderOption {
	return func(l *layer) {
		l.pipelineKey = key
	}
}

// WithBuilderOptions is an option builder that forwards placement options to the layer's InstanceBuilder.
//
// Parameters:
//   - options: the instance builder options
//
// Returns:
//   - LayerBuilderOption: a function that stores the builder options on a layer
func WithBuilderOptions(options ...InstanceBuilderOption) LayerBuilderOption {
	return func(l *layer) {
		l.builderOptions = append(l.builderOptions, options...)
	}
}
