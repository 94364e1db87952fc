package camera

import "github.com/go-gl/mathgl/mgl32"

// Input is the per-frame input state a controller reads. input.State satisfies it.
type Input interface {
	// KeyPressed reports whether a key is currently held.
	//
	// Parameters:
	//   - key: a common.Key* code
	//
	// Returns:
	//   - bool: true while the key is held
	KeyPressed(key int) bool

	// MouseButtonPressed reports whether a mouse button is currently held.
	//
	// Parameters:
	//   - button: a common.MouseButton* code
	//
	// Returns:
	//   - bool: true while the button is held
	MouseButtonPressed(button int) bool

	// ConsumeMouseDelta returns the cursor movement since the previous call and resets it.
	//
	// Returns:
	//   - dx, dy: accumulated cursor movement in pixels
	ConsumeMouseDelta() (dx, dy float32)

	// SetCursorCaptured hides and locks the cursor while captured is true.
	//
	// Parameters:
	//   - captured: whether the cursor should be captured
	SetCursorCaptured(captured bool)
}

// CameraController is a free-fly controller: keyboard movement relative to the view direction,
// vertical movement along world +Y, and mouse look while the look button is held.
// The controller is the single writer of its velocity, yaw and pitch, all mutated through Update.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// SetPosition sets the camera's world-space position directly.
	//
	// Parameters:
	//   - pos: world-space coordinates
	SetPosition(pos mgl32.Vec3)

	// Yaw returns the rotation about world +Y in radians.
	//
	// Returns:
	//   - float32: yaw in radians
	Yaw() float32

	// Pitch returns the rotation above the horizon in radians, within [-π/2, π/2].
	//
	// Returns:
	//   - float32: pitch in radians
	Pitch() float32

	// SetRotation sets yaw and pitch. Pitch is clamped to [-π/2, π/2].
	//
	// Parameters:
	//   - yaw: rotation about world +Y in radians
	//   - pitch: rotation above the horizon in radians
	SetRotation(yaw, pitch float32)

	// LookAt points the camera at a world-space target from its current position.
	//
	// Parameters:
	//   - target: the point to look at
	LookAt(target mgl32.Vec3)

	// Forward returns the unit view direction.
	//
	// Returns:
	//   - mgl32.Vec3: the forward vector
	Forward() mgl32.Vec3

	// Right returns the unit horizontal right vector.
	//
	// Returns:
	//   - mgl32.Vec3: the right vector
	Right() mgl32.Vec3

	// Target returns the point one unit ahead of the camera.
	//
	// Returns:
	//   - mgl32.Vec3: position + forward
	Target() mgl32.Vec3

	// Velocity returns the current velocity in (right, up, forward) axis space.
	//
	// Returns:
	//   - mgl32.Vec3: the velocity
	Velocity() mgl32.Vec3

	// Enabled reports whether Update applies input.
	//
	// Returns:
	//   - bool: true when input is applied
	Enabled() bool

	// SetEnabled turns input handling on or off.
	//
	// Parameters:
	//   - enabled: whether Update applies input
	SetEnabled(enabled bool)

	// Update applies one frame of input: movement keys set velocity, otherwise friction decays it,
	// the position integrates velocity over dt, and mouse motion rotates while the look button is held.
	//
	// Parameters:
	//   - dt: frame time in seconds
	//   - input: the input state to read
	Update(dt float32, input Input)
}
