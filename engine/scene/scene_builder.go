package scene

import (
	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/Carmen-Shannon/oxy-forest/engine/chunk"
	"github.com/Carmen-Shannon/oxy-forest/engine/culling"
	"github.com/Carmen-Shannon/oxy-forest/engine/grass"
	"github.com/Carmen-Shannon/oxy-forest/engine/instancing"
	"github.com/Carmen-Shannon/oxy-forest/engine/model"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// LayerSpec describes one kind of object scattered over every chunk of the scene.
type LayerSpec struct {
	// Name labels the layer in logs, e.g. "Tree".
	Name string
	// Model is the mesh drawn for every instance.
	Model model.Model
	// Material is shared by every instance of every chunk.
	Material material.Material
	// Transform is the base rotation and scale applied to every instance.
	Transform common.Transform
	// Count is the number of instances per chunk.
	Count uint32
	// Culling is the distance past which a chunk's layer is hidden. Zero uses the default.
	Culling culling.DistanceCulling
	// BuilderOptions are forwarded to every chunk's InstanceBuilder after the scene-derived seed.
	BuilderOptions []instancing.InstanceBuilderOption
}

func (ls LayerSpec) layerOptions(chunkName string, seed uint64) []instancing.LayerBuilderOption {
	builderOpts := append([]instancing.InstanceBuilderOption{instancing.WithSeed(seed)}, ls.BuilderOptions...)
	return []instancing.LayerBuilderOption{
		instancing.WithName(chunkName + " " + ls.Name),
		instancing.WithModel(ls.Model),
		instancing.WithDistanceCulling(ls.Culling),
		instancing.WithBuilderOptions(builderOpts...),
	}
}

// GroundSpec describes the single ground instance stretched under the whole grid.
type GroundSpec struct {
	Model     model.Model
	Material  material.Material
	Transform common.Transform
}

// layer builds the ground as a one-instance layer spanning the grid. It is never distance culled.
func (g GroundSpec) layer(grid chunk.GridConfig) (instancing.Layer, error) {
	size := grid.Size()
	edge := max(size[0], size[1])
	center := mgl32.Vec3{grid.Center[0], 0, grid.Center[1]}
	box := common.NewAABB(mgl32.Vec3{0, grid.MaxHeight / 2, 0},
		mgl32.Vec3{grid.HalfExtents[0], grid.MaxHeight / 2, grid.HalfExtents[1]}).Translate(center)

	return instancing.NewLayer(1, g.Material, g.Transform, edge,
		instancing.WithName("Ground"),
		instancing.WithModel(g.Model),
		instancing.WithWorldOffset(center),
		instancing.WithBoundingBox(box),
		instancing.WithBuilderOptions(instancing.WithCentered()),
	)
}

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithLayers adds object layers that Build places on every chunk, in order.
//
// Parameters:
//   - specs: the layer descriptions
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLayers(specs ...LayerSpec) SceneBuilderOption {
	return func(s *scene) {
		s.specs = append(s.specs, specs...)
	}
}

// WithGrass gives every chunk a grass layer built from the template. Chunk position and half-extents
// are filled in per chunk.
//
// Parameters:
//   - template: the shared grass settings
//   - dc: the grass culling distance, zero uses the default
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithGrass(template grass.ChunkGrass, dc culling.DistanceCulling) SceneBuilderOption {
	return func(s *scene) {
		s.grassTemplate = &template
		s.grassCulling = dc.OrDefault()
	}
}

// WithGround adds a single ground instance centred under the grid.
//
// Parameters:
//   - m: the ground mesh
//   - mat: the ground material
//   - transform: the ground rotation and scale
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithGround(m model.Model, mat material.Material, transform common.Transform) SceneBuilderOption {
	return func(s *scene) {
		s.ground = &GroundSpec{Model: m, Material: mat, Transform: transform}
	}
}

// WithBuildWorkers sets the number of goroutines generating instance records during Build.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of build workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBuildWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.buildWorkers = n
	}
}

// WithSeed makes object placement reproducible. Without it every run scatters differently.
//
// Parameters:
//   - seed: the scene seed
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSeed(seed uint64) SceneBuilderOption {
	return func(s *scene) {
		s.seed = seed
	}
}

// WithGrassRenderer replaces the default grass renderer, e.g. to change its pipeline key or sampler.
//
// Parameters:
//   - gr: the grass renderer
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithGrassRenderer(gr *grass.Renderer) SceneBuilderOption {
	return func(s *scene) {
		s.grassRenderer = gr
	}
}
