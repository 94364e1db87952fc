package grass

import (
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-forest/common"
)

// growthOctaves are the lattice resolutions and weights summed into the growth map.
var growthOctaves = []struct {
	cells  int
	weight float32
}{
	{4, 0.6},
	{11, 0.3},
	{29, 0.1},
}

// NewGrowthMap generates a smooth favorability texture from value noise. Red holds the favorability in [0, 1],
// which is what the grass shader samples. The texture is marked linear so it is not sRGB decoded.
//
// Parameters:
//   - size: the edge length in pixels, at least 1
//   - seed: the noise seed
//
// Returns:
//   - common.TextureStagingData: a size x size RGBA texture
func NewGrowthMap(size uint32, seed uint64) common.TextureStagingData {
	size = max(size, 1)
	rng := rand.New(rand.NewPCG(seed, 0x67726f77))

	lattices := make([][]float32, len(growthOctaves))
	for i, o := range growthOctaves {
		lattice := make([]float32, (o.cells+1)*(o.cells+1))
		for j := range lattice {
			lattice[j] = rng.Float32()
		}
		lattices[i] = lattice
	}

	pixels := make([]byte, int(size)*int(size)*4)
	for y := range int(size) {
		for x := range int(size) {
			u := (float32(x) + 0.5) / float32(size)
			v := (float32(y) + 0.5) / float32(size)
			var value float32
			for i, o := range growthOctaves {
				value += o.weight * sampleLattice(lattices[i], o.cells, u, v)
			}
			b := byte(common.Clamp(value, 0, 1)*255 + 0.5)
			p := (y*int(size) + x) * 4
			pixels[p], pixels[p+1], pixels[p+2], pixels[p+3] = b, b, b, 255
		}
	}

	return common.TextureStagingData{
		Pixels: pixels,
		Width:  size,
		Height: size,
		Linear: true,
	}
}

// sampleLattice bilinearly interpolates a (cells+1)² lattice at (u, v) in [0, 1] with smoothstep easing.
func sampleLattice(lattice []float32, cells int, u, v float32) float32 {
	fx, fy := u*float32(cells), v*float32(cells)
	x0, y0 := min(int(fx), cells-1), min(int(fy), cells-1)
	tx, ty := smooth(fx-float32(x0)), smooth(fy-float32(y0))

	stride := cells + 1
	a := lattice[y0*stride+x0]
	b := lattice[y0*stride+x0+1]
	c := lattice[(y0+1)*stride+x0]
	d := lattice[(y0+1)*stride+x0+1]

	top := a + (b-a)*tx
	bottom := c + (d-c)*tx
	return top + (bottom-top)*ty
}

func smooth(t float32) float32 {
	return t * t * (3 - 2*t)
}
