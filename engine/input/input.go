// Package input tracks held keys, held mouse buttons and cursor movement between frames.
// The window feeds it from platform callbacks and the camera controller reads it once per frame.
package input

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-forest/engine/camera"
)

// State is the input snapshot shared by the window and the frame loop. Events arrive on the
// window thread and are read during Update, so every access is guarded.
type State struct {
	mu *sync.Mutex

	keys    map[int]bool
	buttons map[int]bool

	hasCursor bool
	lastX     float64
	lastY     float64
	dx, dy    float64
	captured  bool
	onCapture func(captured bool)
}

var _ camera.Input = &State{}

// NewState creates an empty input state.
//
// Parameters:
//   - onCapture: called when the cursor capture mode changes, may be nil
//
// Returns:
//   - *State: the input state
func NewState(onCapture func(captured bool)) *State {
	return &State{
		mu:        &sync.Mutex{},
		keys:      make(map[int]bool),
		buttons:   make(map[int]bool),
		onCapture: onCapture,
	}
}

// SetKey records a key press or release.
//
// Parameters:
//   - key: the common.Key* code
//   - down: true on press, false on release
func (s *State) SetKey(key int, down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if down {
		s.keys[key] = true
	} else {
		delete(s.keys, key)
	}
}

// SetMouseButton records a mouse button press or release.
//
// Parameters:
//   - button: the common.MouseButton* code
//   - down: true on press, false on release
func (s *State) SetMouseButton(button int, down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if down {
		s.buttons[button] = true
	} else {
		delete(s.buttons, button)
	}
}

// MoveCursor records an absolute cursor position. The first position only sets the reference point.
//
// Parameters:
//   - x: the cursor X position in pixels
//   - y: the cursor Y position in pixels
func (s *State) MoveCursor(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasCursor {
		s.dx += x - s.lastX
		s.dy += y - s.lastY
	}
	s.lastX, s.lastY = x, y
	s.hasCursor = true
}

// Clear releases every key and button, e.g. when the window loses focus.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.keys)
	clear(s.buttons)
	s.dx, s.dy = 0, 0
}

// Captured reports whether the cursor is currently captured.
//
// Returns:
//   - bool: true while captured
func (s *State) Captured() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captured
}

func (s *State) KeyPressed(key int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key]
}

func (s *State) MouseButtonPressed(button int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buttons[button]
}

func (s *State) ConsumeMouseDelta() (float32, float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dx, dy := s.dx, s.dy
	s.dx, s.dy = 0, 0
	return float32(dx), float32(dy)
}

func (s *State) SetCursorCaptured(captured bool) {
	s.mu.Lock()
	if s.captured == captured {
		s.mu.Unlock()
		return
	}
	s.captured = captured
	// the platform warps the cursor when capture changes, which must not count as movement
	s.hasCursor = false
	s.dx, s.dy = 0, 0
	cb := s.onCapture
	s.mu.Unlock()

	if cb != nil {
		cb(captured)
	}
}
