package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition sets the initial world-space position.
//
// Parameters:
//   - pos: the starting position
//
// Returns:
//   - CameraControllerOption: functional option to set the position
func WithPosition(pos mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.position = pos
	}
}

// WithLookAt orients the controller toward a target after the position is applied.
//
// Parameters:
//   - target: the point to look at
//
// Returns:
//   - CameraControllerOption: functional option to set the initial orientation
func WithLookAt(target mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.lookAt = &target
	}
}

// WithSensitivity sets the mouse look sensitivity.
//
// Parameters:
//   - sensitivity: radians per pixel per second
//
// Returns:
//   - CameraControllerOption: functional option to set the sensitivity
func WithSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.sensitivity = sensitivity
	}
}

// WithSpeeds sets the walk and run speeds in units per second.
//
// Parameters:
//   - walk: speed without the run key
//   - run: speed while the run key is held
//
// Returns:
//   - CameraControllerOption: functional option to set the movement speeds
func WithSpeeds(walk, run float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.walkSpeed = walk
		cc.runSpeed = run
	}
}

// WithFriction sets the fraction of velocity removed per frame when no movement key is held.
// Values are clamped to [0, 1] when applied.
//
// Parameters:
//   - friction: the per-frame velocity decay
//
// Returns:
//   - CameraControllerOption: functional option to set the friction
func WithFriction(friction float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.friction = friction
	}
}

// WithKeyBindings overrides the default movement keys.
//
// Parameters:
//   - bindings: the key and mouse bindings
//
// Returns:
//   - CameraControllerOption: functional option to set the bindings
func WithKeyBindings(bindings KeyBindings) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.keys = bindings
	}
}
