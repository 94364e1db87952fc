package chunk

import (
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/Carmen-Shannon/oxy-forest/engine/instancing"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultMaxHeight is the height of every chunk's bounding box unless the grid overrides it.
const DefaultMaxHeight float32 = 4.0

// ErrInvalidGrid is returned when the grid extents or height are not positive finite numbers.
var ErrInvalidGrid = errors.New("grid extents and max height must be positive and finite")

// Coord identifies a chunk by its integer grid position.
type Coord struct {
	X, Y int
}

// GridConfig describes the square tiling of the world into chunks.
type GridConfig struct {
	// Center is the world-space XZ centre of the grid.
	Center [2]float32
	// HalfExtents is the world-space XZ half size of the grid.
	HalfExtents [2]float32
	// ChunkSize is the edge length of one chunk.
	ChunkSize float32
	// MaxHeight is the height of the tallest object placed in any chunk.
	MaxHeight float32
}

// NewGridConfig builds a grid of side x side chunks centred at the origin.
//
// Parameters:
//   - sideChunks: the number of chunks along each axis
//   - chunkSize: the edge length of one chunk
//
// Returns:
//   - GridConfig: the grid configuration, to be checked with Validate
func NewGridConfig(sideChunks int, chunkSize float32) GridConfig {
	half := float32(sideChunks) * chunkSize / 2
	return GridConfig{
		HalfExtents: [2]float32{half, half},
		ChunkSize:   chunkSize,
		MaxHeight:   DefaultMaxHeight,
	}
}

// Validate reports a grid that cannot be tiled.
//
// Returns:
//   - error: instancing.ErrInvalidChunkSize or ErrInvalidGrid wrapped with context, or nil
func (g GridConfig) Validate() error {
	if !common.IsFinite(g.ChunkSize) || g.ChunkSize <= 0 {
		return fmt.Errorf("grid: %w, got %v", instancing.ErrInvalidChunkSize, g.ChunkSize)
	}
	for _, e := range g.HalfExtents {
		if !common.IsFinite(e) || e <= 0 {
			return fmt.Errorf("grid: %w, half-extents %v", ErrInvalidGrid, g.HalfExtents)
		}
	}
	if !common.IsFinite(g.MaxHeight) || g.MaxHeight <= 0 {
		return fmt.Errorf("grid: %w, max height %v", ErrInvalidGrid, g.MaxHeight)
	}
	return nil
}

// Side returns the number of chunks along X and along Z.
//
// Returns:
//   - int: chunks along X
//   - int: chunks along Z
func (g GridConfig) Side() (int, int) {
	if g.ChunkSize <= 0 {
		return 0, 0
	}
	nx := int(math.Round(float64(2 * g.HalfExtents[0] / g.ChunkSize)))
	nz := int(math.Round(float64(2 * g.HalfExtents[1] / g.ChunkSize)))
	return nx, nz
}

// Chunks enumerates every chunk coordinate, X-major.
//
// Returns:
//   - []Coord: the coordinates from (0, 0) to (side-1, side-1)
func (g GridConfig) Chunks() []Coord {
	nx, nz := g.Side()
	coords := make([]Coord, 0, nx*nz)
	for x := range nx {
		for y := range nz {
			coords = append(coords, Coord{X: x, Y: y})
		}
	}
	return coords
}

// Size returns the full XZ size of the grid.
//
// Returns:
//   - [2]float32: the grid width and depth
func (g GridConfig) Size() [2]float32 {
	return [2]float32{2 * g.HalfExtents[0], 2 * g.HalfExtents[1]}
}

// WorldOffset returns the world-space origin of a chunk. Instances and grass blades are scattered
// within ChunkSize/2 of it.
//
// Parameters:
//   - x: the chunk X coordinate
//   - y: the chunk Y coordinate
//
// Returns:
//   - mgl32.Vec3: the chunk origin on the ground plane
func (g GridConfig) WorldOffset(x, y int) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(x)*g.ChunkSize - g.HalfExtents[0] + g.Center[0],
		0,
		float32(y)*g.ChunkSize - g.HalfExtents[1] + g.Center[1],
	}
}

// ChunkBounds returns the tight world-space box of a chunk: its footprint and MaxHeight.
//
// Parameters:
//   - x: the chunk X coordinate
//   - y: the chunk Y coordinate
//
// Returns:
//   - common.AABB: the chunk box
func (g GridConfig) ChunkBounds(x, y int) common.AABB {
	half := g.ChunkSize / 2
	h := g.MaxHeight / 2
	return common.NewAABB(mgl32.Vec3{0, h, 0}, mgl32.Vec3{half, h, half}).Translate(g.WorldOffset(x, y))
}

// UV maps a world XZ position to growth map coordinates. The grid covers [0, 1]² and positions
// outside it are clamped to the edge.
//
// Parameters:
//   - x: the world X position
//   - z: the world Z position
//
// Returns:
//   - mgl32.Vec2: the texture coordinate
func (g GridConfig) UV(x, z float32) mgl32.Vec2 {
	u := (x - g.Center[0] + g.HalfExtents[0]) / (2 * g.HalfExtents[0])
	v := (z - g.Center[1] + g.HalfExtents[1]) / (2 * g.HalfExtents[1])
	return mgl32.Vec2{common.Clamp(u, 0, 1), common.Clamp(v, 0, 1)}
}

// InstancesPerChunk converts an object density per square unit into a per-chunk count.
//
// Parameters:
//   - density: objects per square world unit
//
// Returns:
//   - uint32: the number of objects on one chunk, 0 for a non-positive density
func (g GridConfig) InstancesPerChunk(density float32) uint32 {
	if !common.IsFinite(density) || density <= 0 {
		return 0
	}
	return uint32(g.ChunkSize * g.ChunkSize * density)
}
