package math3d

import (
	"math"

	"github.com/chewxy/math32"
)

// Square matrix shorthands.
type (
	Mat3[T Number] = Matrix[T, D3, D3]
	Mat4[T Number] = Matrix[T, D4, D4]
)

// Transforms use the row-vector convention: a point p maps to Mul(p, M),
// so composing A then B is Mul(A, B).
//
// Rotation layout for RotateZ:
// |  c  s  0 |
// | -s  c  0 |
// |  0  0  1 |

func sincos[T Float](angle T) (sin, cos T) {
	if f, ok := any(angle).(float32); ok {
		return T(math32.Sin(f)), T(math32.Cos(f))
	}
	s, c := math.Sincos(float64(angle))
	return T(s), T(c)
}

// RotateX creates a rotation around the X axis.
func RotateX[T Float](angle T) Mat3[T] {
	s, c := sincos(angle)
	return Mat3[T]{elems: []T{
		1, 0, 0,
		0, c, s,
		0, -s, c,
	}}
}

// RotateY creates a rotation around the Y axis.
func RotateY[T Float](angle T) Mat3[T] {
	s, c := sincos(angle)
	return Mat3[T]{elems: []T{
		c, 0, -s,
		0, 1, 0,
		s, 0, c,
	}}
}

// RotateZ creates a rotation around the Z axis.
func RotateZ[T Float](angle T) Mat3[T] {
	s, c := sincos(angle)
	return Mat3[T]{elems: []T{
		c, s, 0,
		-s, c, 0,
		0, 0, 1,
	}}
}

// ScaleMatrix creates a per-axis scaling matrix.
func ScaleMatrix[T Number](sx, sy, sz T) Mat3[T] {
	return Mat3[T]{elems: []T{
		sx, 0, 0,
		0, sy, 0,
		0, 0, sz,
	}}
}

// Translate creates a homogeneous translation matrix.
func Translate[T Number](tx, ty, tz T) Mat4[T] {
	return Mat4[T]{elems: []T{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		tx, ty, tz, 1,
	}}
}

// Homogeneous embeds a 3x3 linear transform in a 4x4 matrix.
func Homogeneous[T Number](m Mat3[T]) Mat4[T] {
	out := Identity[T, D4]()
	src := m.data()
	for i := range 3 {
		for j := range 3 {
			out.elems[i*4+j] = src[i*3+j]
		}
	}
	return out
}

// TransformPoint maps p through m as a point (w=1). No perspective divide
// is applied; the resulting w is dropped.
func TransformPoint[T Number](p Vector3[T], m Mat4[T]) Vector3[T] {
	return Vec4To3(Mul(Vec3To4(p, 1), m))
}
