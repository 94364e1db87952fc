package renderer

// RendererBackendType identifies the graphics API implementation used by a renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU renders through WebGPU (wgpu-native via cogentcore/webgpu).
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are delivered to the display.
type PresentMode int

const (
	// PresentModeVSync waits for the vertical blank (FIFO).
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents immediately without waiting for vertical blank.
	PresentModeUncapped
)

// MSAASampleCount is the number of samples per pixel used for multisample anti-aliasing.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisampling.
	MSAAOff MSAASampleCount = 1

	// MSAA4x uses four samples per pixel. This is the default.
	MSAA4x MSAASampleCount = 4
)

// FrameStats counts the work submitted during the most recent frame.
type FrameStats struct {
	DrawCalls int
	Instances uint64
}

// RendererBackend is the graphics API specific half of a renderer.
type RendererBackend interface {
	wgpuRendererBackend
}
