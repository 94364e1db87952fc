package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-forest/common"
	"github.com/go-gl/mathgl/mgl32"
)

// KeyBindings maps controller actions to key and mouse button codes.
type KeyBindings struct {
	Forward, Back, Left, Right, Up, Down int
	Run                                  int
	MouseLook                            int
}

// DefaultKeyBindings returns W/S/A/D for movement, E/Q for up/down, left shift to run
// and the right mouse button to look.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Forward:   common.KeyW,
		Back:      common.KeyS,
		Left:      common.KeyA,
		Right:     common.KeyD,
		Up:        common.KeyE,
		Down:      common.KeyQ,
		Run:       common.KeyLeftShift,
		MouseLook: common.MouseButtonRight,
	}
}

// velocities below this squared length snap to zero once friction takes over
const velocityEpsilonSq = 1e-6

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	enabled     bool
	sensitivity float32
	walkSpeed   float32
	runSpeed    float32
	friction    float32
	keys        KeyBindings

	position mgl32.Vec3
	velocity mgl32.Vec3
	yaw      float32
	pitch    float32

	looking bool
	lookAt  *mgl32.Vec3
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a free-fly controller with sensitivity 0.2, walk speed 10,
// run speed 30 and friction 0.3.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:          &sync.Mutex{},
		enabled:     true,
		sensitivity: 0.2,
		walkSpeed:   10.0,
		runSpeed:    30.0,
		friction:    0.3,
		keys:        DefaultKeyBindings(),
	}
	for _, option := range options {
		option(cc)
	}
	if cc.lookAt != nil {
		cc.lookAtLocked(*cc.lookAt)
		cc.lookAt = nil
	}
	return cc
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) SetPosition(pos mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = pos
}

func (cc *cameraControllerImpl) Yaw() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.yaw
}

func (cc *cameraControllerImpl) Pitch() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pitch
}

func (cc *cameraControllerImpl) SetRotation(yaw, pitch float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.yaw = yaw
	cc.pitch = common.Clamp(pitch, -math.Pi/2, math.Pi/2)
}

func (cc *cameraControllerImpl) LookAt(target mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.lookAtLocked(target)
}

func (cc *cameraControllerImpl) Forward() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return forward(cc.yaw, cc.pitch)
}

func (cc *cameraControllerImpl) Right() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return right(cc.yaw)
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position.Add(forward(cc.yaw, cc.pitch))
}

func (cc *cameraControllerImpl) Velocity() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.velocity
}

func (cc *cameraControllerImpl) Enabled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.enabled
}

func (cc *cameraControllerImpl) SetEnabled(enabled bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.enabled = enabled
}

func (cc *cameraControllerImpl) Update(dt float32, input Input) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if !cc.enabled || input == nil {
		return
	}

	var axis mgl32.Vec3
	if input.KeyPressed(cc.keys.Forward) {
		axis[2] += 1
	}
	if input.KeyPressed(cc.keys.Back) {
		axis[2] -= 1
	}
	if input.KeyPressed(cc.keys.Right) {
		axis[0] += 1
	}
	if input.KeyPressed(cc.keys.Left) {
		axis[0] -= 1
	}
	if input.KeyPressed(cc.keys.Up) {
		axis[1] += 1
	}
	if input.KeyPressed(cc.keys.Down) {
		axis[1] -= 1
	}

	if axis != (mgl32.Vec3{}) {
		speed := cc.walkSpeed
		if input.KeyPressed(cc.keys.Run) {
			speed = cc.runSpeed
		}
		cc.velocity = axis.Normalize().Mul(speed)
	} else {
		cc.velocity = cc.velocity.Mul(1 - common.Clamp(cc.friction, 0, 1))
		if cc.velocity.Dot(cc.velocity) < velocityEpsilonSq {
			cc.velocity = mgl32.Vec3{}
		}
	}

	f, r := forward(cc.yaw, cc.pitch), right(cc.yaw)
	cc.position = cc.position.
		Add(r.Mul(cc.velocity.X() * dt)).
		Add(mgl32.Vec3{0, cc.velocity.Y() * dt, 0}).
		Add(f.Mul(cc.velocity.Z() * dt))

	look := input.MouseButtonPressed(cc.keys.MouseLook)
	if look != cc.looking {
		input.SetCursorCaptured(look)
		cc.looking = look
	}
	dx, dy := input.ConsumeMouseDelta()
	if look && (dx != 0 || dy != 0) {
		cc.yaw -= dx * cc.sensitivity * dt
		cc.pitch = common.Clamp(cc.pitch-dy*cc.sensitivity*dt, -math.Pi/2, math.Pi/2)
	}
}

func (cc *cameraControllerImpl) lookAtLocked(target mgl32.Vec3) {
	dir := target.Sub(cc.position)
	if dir.Len() == 0 {
		return
	}
	dir = dir.Normalize()
	cc.pitch = common.Clamp(float32(math.Asin(float64(dir.Y()))), -math.Pi/2, math.Pi/2)
	cc.yaw = float32(math.Atan2(float64(-dir.X()), float64(-dir.Z())))
}

// forward returns the view direction for a yaw about +Y followed by a pitch about the local X axis.
func forward(yaw, pitch float32) mgl32.Vec3 {
	sy, cy := math.Sincos(float64(yaw))
	sp, cp := math.Sincos(float64(pitch))
	return mgl32.Vec3{float32(-sy * cp), float32(sp), float32(-cy * cp)}
}

// right returns the horizontal right vector for a yaw about +Y.
func right(yaw float32) mgl32.Vec3 {
	sy, cy := math.Sincos(float64(yaw))
	return mgl32.Vec3{float32(cy), 0, float32(-sy)}
}
