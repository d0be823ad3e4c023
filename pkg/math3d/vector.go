package math3d

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
)

// Vector is a single-row matrix. All Matrix operations apply to it.
type Vector[T Number, N Dim] = Matrix[T, D1, N]

// Fixed-length vector shorthands.
type (
	Vector2[T Number] = Vector[T, D2]
	Vector3[T Number] = Vector[T, D3]
	Vector4[T Number] = Vector[T, D4]
)

// Vec2 creates a 2-component vector.
func Vec2[T Number](x, y T) Vector2[T] {
	return Vector2[T]{elems: []T{x, y}}
}

// Vec3 creates a 3-component vector.
func Vec3[T Number](x, y, z T) Vector3[T] {
	return Vector3[T]{elems: []T{x, y, z}}
}

// Vec4 creates a 4-component vector.
func Vec4[T Number](x, y, z, w T) Vector4[T] {
	return Vector4[T]{elems: []T{x, y, z, w}}
}

// VectorOf creates an N-component vector from elems.
func VectorOf[T Number, N Dim](elems ...T) (Vector[T, N], error) {
	return FromSlice[T, D1, N](elems)
}

func (m Matrix[T, _, _]) component(i int) T {
	d := m.data()
	if i >= len(d) {
		panic(fmt.Sprintf("math3d: component %d out of range for %d-element value", i, len(d)))
	}
	return d[i]
}

// The positional and color accessors name the same slots: X and R are
// component 0, Y and G component 1, Z and B component 2, W and A
// component 3. Each panics if the vector is too short.

func (m Matrix[T, _, _]) X() T { return m.component(0) }
func (m Matrix[T, _, _]) Y() T { return m.component(1) }
func (m Matrix[T, _, _]) Z() T { return m.component(2) }
func (m Matrix[T, _, _]) W() T { return m.component(3) }

func (m Matrix[T, _, _]) R() T { return m.component(0) }
func (m Matrix[T, _, _]) G() T { return m.component(1) }
func (m Matrix[T, _, _]) B() T { return m.component(2) }
func (m Matrix[T, _, _]) A() T { return m.component(3) }

// Dot returns the dot product a · b.
func Dot[T Float, N Dim](a, b Vector[T, N]) T {
	ad, bd := a.data(), b.data()
	var sum T
	for i := range ad {
		sum += ad[i] * bd[i]
	}
	return sum
}

// Cross returns the cross product a × b.
func Cross[T Float](a, b Vector3[T]) Vector3[T] {
	return Vec3(
		a.Y()*b.Z()-a.Z()*b.Y(),
		a.Z()*b.X()-a.X()*b.Z(),
		a.X()*b.Y()-a.Y()*b.X(),
	)
}

// Magnitude returns the Euclidean length of v.
func Magnitude[T Float, N Dim](v Vector[T, N]) T {
	var sum T
	for _, e := range v.data() {
		sum += e * e
	}
	return sqrt(sum)
}

// Normalize returns v divided by its magnitude. A zero vector yields
// ErrZeroMagnitude and a vector with a NaN or infinite component yields
// ErrNonFinite. Components are scaled by the largest absolute component
// first, so tiny or huge finite vectors still normalize.
func Normalize[T Float, N Dim](v Vector[T, N]) (Vector[T, N], error) {
	src := v.data()
	var peak T
	for _, e := range src {
		if f := float64(e); math.IsNaN(f) || math.IsInf(f, 0) {
			return Vector[T, N]{}, ErrNonFinite
		}
		peak = max(peak, e, -e)
	}
	if peak == 0 {
		return Vector[T, N]{}, ErrZeroMagnitude
	}

	out := zero[T, D1, N]()
	for i := range out.elems {
		out.elems[i] = src[i] / peak
	}
	mag := Magnitude(out)
	for i := range out.elems {
		out.elems[i] /= mag
	}
	return out, nil
}

func sqrt[T Float](v T) T {
	if f, ok := any(v).(float32); ok {
		return T(math32.Sqrt(f))
	}
	return T(math.Sqrt(float64(v)))
}

// leading copies the first N components of src, one element at a time.
func leading[T Number, N Dim](src []T) Vector[T, N] {
	out := zero[T, D1, N]()
	for i := range out.elems {
		out.elems[i] = src[i]
	}
	return out
}

// Vec4To3 drops the w component.
func Vec4To3[T Number](v Vector4[T]) Vector3[T] {
	return leading[T, D3](v.data())
}

// Vec4To2 keeps x and y.
func Vec4To2[T Number](v Vector4[T]) Vector2[T] {
	return leading[T, D2](v.data())
}

// Vec3To2 drops the z component.
func Vec3To2[T Number](v Vector3[T]) Vector2[T] {
	return leading[T, D2](v.data())
}

// Vec3To4 extends v with the given w, e.g. w=1 for a homogeneous point.
func Vec3To4[T Number](v Vector3[T], w T) Vector4[T] {
	return Vec4(v.X(), v.Y(), v.Z(), w)
}
