package material

import "github.com/Carmen-Shannon/oxy-forest/common"

// MaterialBuilderOption is a functional option used to configure a Material during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the material name. The name is also used as the GPU label.
//
// Parameters:
//   - name: the name of the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithBaseColor is an option builder that sets the RGBA tint of the material.
//
// Parameters:
//   - color: the RGBA base color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = color
	}
}

// WithDiffuseTexture is an option builder that sets an encoded albedo texture, decoded during Init.
//
// Parameters:
//   - tex: the imported texture for the albedo map
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse texture option to a material
func WithDiffuseTexture(tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseTexture = tex
	}
}

// WithDiffusePixels is an option builder that sets already decoded RGBA albedo pixels.
// It takes precedence over WithDiffuseTexture.
//
// Parameters:
//   - data: the RGBA pixels
//
// Returns:
//   - MaterialBuilderOption: a function that applies the pixel data to a material
func WithDiffusePixels(data common.TextureStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseStaging = &data
	}
}

// WithSampler is an option builder that overrides the default linear/repeat albedo sampler.
//
// Parameters:
//   - s: the sampler configuration
//
// Returns:
//   - MaterialBuilderOption: a function that applies the sampler option to a material
func WithSampler(s common.SamplerStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.sampler = s
	}
}
