package instancing

// InstanceBuilderOption is a functional option used to configure an InstanceBuilder during construction.
type InstanceBuilderOption func(*instanceBuilder)

// WithSeed makes placement deterministic. Builders with the same seed and inputs produce the same records.
//
// Parameters:
//   - seed: the random source seed
//
// Returns:
//   - InstanceBuilderOption: a function that applies the seed
func WithSeed(seed uint64) InstanceBuilderOption {
	return func(b *instanceBuilder) {
		b.seed = seed
	}
}

// WithHeightRange scatters instances vertically in [lo, hi] above the chunk origin. The default is flat at 0.
//
// Parameters:
//   - lo: the lowest offset
//   - hi: the highest offset
//
// Returns:
//   - InstanceBuilderOption: a function that applies the height range
func WithHeightRange(lo, hi float32) InstanceBuilderOption {
	return func(b *instanceBuilder) {
		b.minHeight = lo
		b.maxHeight = hi
	}
}

// WithYawJitter gives every instance a random rotation about world +Y on top of the base transform.
//
// Parameters:
//   - enabled: whether to randomize the facing
//
// Returns:
//   - InstanceBuilderOption: a function that applies the yaw jitter
func WithYawJitter(enabled bool) InstanceBuilderOption {
	return func(b *instanceBuilder) {
		b.yawJitter = enabled
	}
}

// WithCentered places every instance at the chunk origin instead of scattering them.
// Used for single-instance layers such as the ground plane.
//
// Returns:
//   - InstanceBuilderOption: a function that disables scattering
func WithCentered() InstanceBuilderOption {
	return func(b *instanceBuilder) {
		b.centered = true
	}
}
