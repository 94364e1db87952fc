package grass

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-forest/engine/model"
)

var (
	bladeOnce sync.Once
	blade     model.Model
)

// bladeHalfWidth is half the width of the unscaled blade at its base.
const bladeHalfWidth float32 = 0.05

// bladeVertices is a single straw: a narrow quad for the lower half topped by a triangle.
// V runs from the base (0) to the tip (1) and doubles as the normalized height in the shader.
var bladeVertices = [5]struct {
	pos [3]float32
	uv  [2]float32
}{
	{[3]float32{0, 1, 0}, [2]float32{0.5, 1}},
	{[3]float32{bladeHalfWidth, 0.5, 0}, [2]float32{1, 0.5}},
	{[3]float32{-bladeHalfWidth, 0.5, 0}, [2]float32{0, 0.5}},
	{[3]float32{bladeHalfWidth, 0, 0}, [2]float32{1, 0}},
	{[3]float32{-bladeHalfWidth, 0, 0}, [2]float32{0, 0}},
}

var bladeIndices = []uint32{0, 1, 2, 1, 3, 2, 2, 3, 4}

// BladeMesh returns the blade mesh shared by every grass layer. It is built on first use.
//
// Returns:
//   - model.Model: the shared 5-vertex, 3-triangle blade
func BladeMesh() model.Model {
	bladeOnce.Do(func() {
		vertices := make([]model.GPUVertex, len(bladeVertices))
		for i, v := range bladeVertices {
			vertices[i] = model.GPUVertex{
				Position: v.pos,
				Normal:   [3]float32{0, 1, 0},
				TexCoord: v.uv,
				Color:    [4]float32{1, 1, 1, 1},
				Tangent:  [4]float32{1, 0, 0, 1},
			}
		}
		blade = model.NewModel(
			model.WithName("grass_blade"),
			model.WithMesh(vertices, bladeIndices),
		)
	})
	return blade
}
