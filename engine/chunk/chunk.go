package chunk

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/Carmen-Shannon/oxy-forest/engine/grass"
	"github.com/Carmen-Shannon/oxy-forest/engine/instancing"
	"github.com/Carmen-Shannon/oxy-forest/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrDuplicateGrassLayer is returned when a second grass layer is added to a chunk.
var ErrDuplicateGrassLayer = errors.New("chunk already has a grass layer")

// chunk is the implementation of the Chunk interface.
type chunk struct {
	mu *sync.Mutex

	coord  Coord
	name   string
	grid   GridConfig
	offset mgl32.Vec3
	bounds common.AABB

	layers []instancing.Layer
	grass  grass.Layer
}

// Chunk is one square tile of the world. It owns the instancing layers and the optional grass layer
// placed on it, and gives them its world offset and bounding box. Chunks are created once at world
// setup and never resized.
type Chunk interface {
	// Coord returns the chunk's grid coordinates.
	//
	// Returns:
	//   - Coord: the grid position
	Coord() Coord

	// Name returns the chunk name, e.g. "Chunk 3x7".
	//
	// Returns:
	//   - string: the chunk name
	Name() string

	// WorldOffset returns the world-space chunk origin.
	//
	// Returns:
	//   - mgl32.Vec3: the origin on the ground plane
	WorldOffset() mgl32.Vec3

	// BoundingBox returns the chunk box shared by every layer for distance culling.
	//
	// Returns:
	//   - common.AABB: the world-space box
	BoundingBox() common.AABB

	// AddLayer creates an instancing layer on this chunk. The layer is placed at the chunk offset
	// and culled with the chunk box unless options override them.
	//
	// Parameters:
	//   - instanceCount: the number of instances
	//   - mat: the shared material
	//   - transform: the base rotation and scale of every instance
	//   - options: further layer options
	//
	// Returns:
	//   - instancing.Layer: the new layer
	//   - error: a validation error, the layer is not added
	AddLayer(instanceCount uint32, mat material.Material, transform common.Transform, options ...instancing.LayerBuilderOption) (instancing.Layer, error)

	// GrassDescriptor fills in the chunk position and half-extents of a grass template.
	//
	// Parameters:
	//   - template: the shared grass settings
	//
	// Returns:
	//   - grass.ChunkGrass: the descriptor for this chunk
	GrassDescriptor(template grass.ChunkGrass) grass.ChunkGrass

	// AddGrass creates the chunk's grass layer. Its culling box is the chunk box grown by the blades' reach.
	//
	// Parameters:
	//   - descriptor: the chunk grass descriptor
	//   - options: further grass layer options
	//
	// Returns:
	//   - grass.Layer: the new layer
	//   - error: ErrDuplicateGrassLayer or a validation error, the layer is not added
	AddGrass(descriptor grass.ChunkGrass, options ...grass.LayerBuilderOption) (grass.Layer, error)

	// Layers returns the instancing layers in the order they were added.
	//
	// Returns:
	//   - []instancing.Layer: the layers
	Layers() []instancing.Layer

	// Grass returns the grass layer, or nil.
	//
	// Returns:
	//   - grass.Layer: the grass layer
	Grass() grass.Layer

	// InstanceCount returns the number of instanced objects on the chunk.
	//
	// Returns:
	//   - uint64: the sum of all layer instance counts
	InstanceCount() uint64

	// GrassCount returns the number of grass blades on the chunk.
	//
	// Returns:
	//   - uint64: the blade count, 0 without grass
	GrassCount() uint64

	// Release frees the GPU resources of every layer.
	Release()
}

var _ Chunk = &chunk{}

// NewChunk creates an empty chunk at a grid position.
//
// Parameters:
//   - x: the chunk X coordinate
//   - y: the chunk Y coordinate
//   - grid: the grid the chunk belongs to
//
// Returns:
//   - Chunk: the new chunk
func NewChunk(x, y int, grid GridConfig) Chunk {
	return &chunk{
		mu:     &sync.Mutex{},
		coord:  Coord{X: x, Y: y},
		name:   fmt.Sprintf("Chunk %dx%d", x, y),
		grid:   grid,
		offset: grid.WorldOffset(x, y),
		bounds: grid.ChunkBounds(x, y),
	}
}

func (c *chunk) Coord() Coord {
	return c.coord
}

func (c *chunk) Name() string {
	return c.name
}

func (c *chunk) WorldOffset() mgl32.Vec3 {
	return c.offset
}

func (c *chunk) BoundingBox() common.AABB {
	return c.bounds
}

func (c *chunk) AddLayer(instanceCount uint32, mat material.Material, transform common.Transform, options ...instancing.LayerBuilderOption) (instancing.Layer, error) {
	opts := append([]instancing.LayerBuilderOption{
		instancing.WithName(c.name),
		instancing.WithWorldOffset(c.offset),
		instancing.WithBoundingBox(c.bounds),
	}, options...)

	l, err := instancing.NewLayer(instanceCount, mat, transform, c.grid.ChunkSize, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.layers = append(c.layers, l)
	return l, nil
}

func (c *chunk) GrassDescriptor(template grass.ChunkGrass) grass.ChunkGrass {
	d := template
	d.ChunkXY = [2]float32{c.offset.X(), c.offset.Z()}
	d.ChunkHalfExtents = [2]float32{c.grid.ChunkSize / 2, c.grid.ChunkSize / 2}
	return d
}

func (c *chunk) AddGrass(descriptor grass.ChunkGrass, options ...grass.LayerBuilderOption) (grass.Layer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.grass != nil {
		return nil, fmt.Errorf("%s: %w", c.name, ErrDuplicateGrassLayer)
	}
	box := c.bounds.PadXZ(descriptor.Reach())
	if top := grass.BladeHeight(descriptor); top > box.Max().Y() {
		hi := box.Max()
		box = common.NewAABBFromMinMax(box.Min(), mgl32.Vec3{hi.X(), top, hi.Z()})
	}
	opts := append([]grass.LayerBuilderOption{
		grass.WithName(c.name + " grass"),
		grass.WithBoundingBox(box),
	}, options...)

	l, err := grass.NewLayer(descriptor, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}
	c.grass = l
	return l, nil
}

func (c *chunk) Layers() []instancing.Layer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layers
}

func (c *chunk) Grass() grass.Layer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grass
}

func (c *chunk) InstanceCount() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n uint64
	for _, l := range c.layers {
		n += uint64(l.InstanceCount())
	}
	return n
}

func (c *chunk) GrassCount() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.grass == nil {
		return 0
	}
	return uint64(c.grass.InstanceCount())
}

func (c *chunk) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.layers {
		l.Release()
	}
	if c.grass != nil {
		c.grass.Release()
	}
}
