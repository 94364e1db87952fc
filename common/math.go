package common

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a translation, rotation and scale triple. It is the template
// form used by instancing layers for the base transform applied to every instance.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// IdentityTransform returns a Transform with no translation, identity rotation and unit scale.
//
// Returns:
//   - Transform: the identity transform
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Mat4 composes the transform into a column-major model matrix, T * R * S.
// A zero rotation is treated as identity and a zero scale as unit scale.
//
// Returns:
//   - mgl32.Mat4: the composed model matrix
func (t Transform) Mat4() mgl32.Mat4 {
	rot := t.Rotation
	if rot == (mgl32.Quat{}) {
		rot = mgl32.QuatIdent()
	}
	s := Coalesce(t.Scale, mgl32.Vec3{1, 1, 1})
	translate := mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z())
	scale := mgl32.Scale3D(s.X(), s.Y(), s.Z())
	return translate.Mul4(rot.Normalize().Mat4()).Mul4(scale)
}

// WithScale returns a copy of the transform with a uniform scale applied.
//
// Parameters:
//   - s: the uniform scale factor
//
// Returns:
//   - Transform: the updated copy
func (t Transform) WithScale(s float32) Transform {
	t.Scale = mgl32.Vec3{s, s, s}
	return t
}

// WithRotationX returns a copy of the transform rotated about the X axis.
//
// Parameters:
//   - angle: the rotation angle in radians
//
// Returns:
//   - Transform: the updated copy
func (t Transform) WithRotationX(angle float32) Transform {
	t.Rotation = mgl32.QuatRotate(angle, mgl32.Vec3{1, 0, 0})
	return t
}

// Perspective creates a perspective projection matrix for the WebGPU clip space where depth is in [0, 1].
// mgl32.Perspective targets the OpenGL [-1, 1] depth range and cannot be used directly.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	out := mgl32.Ident4()
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	out[15] = 0.0
	return out
}

// PutFloat32s writes the values into buf as little-endian float32s starting at offset.
// The buffer must be large enough to hold len(values)*4 bytes past the offset.
//
// Parameters:
//   - buf: destination byte buffer
//   - offset: byte offset to start writing at
//   - values: the float values to write
//
// Returns:
//   - int: the offset just past the last written value
func PutFloat32s(buf []byte, offset int, values ...float32) int {
	for _, v := range values {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
		offset += 4
	}
	return offset
}

// Float32sToBytes packs the values into a new little-endian byte slice.
//
// Parameters:
//   - values: the float values to pack
//
// Returns:
//   - []byte: the packed bytes, or nil if values is empty
func Float32sToBytes(values []float32) []byte {
	if len(values) == 0 {
		return nil
	}
	buf := make([]byte, len(values)*4)
	PutFloat32s(buf, 0, values...)
	return buf
}

// Uint32sToBytes packs the values into a new little-endian byte slice.
//
// Parameters:
//   - values: the uint32 values to pack
//
// Returns:
//   - []byte: the packed bytes, or nil if values is empty
func Uint32sToBytes(values []uint32) []byte {
	if len(values) == 0 {
		return nil
	}
	buf := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
