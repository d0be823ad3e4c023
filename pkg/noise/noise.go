// Package noise provides small deterministic procedural noise functions.
// Every function returns values in [-1, 1].
package noise

import (
	"github.com/chewxy/math32"
	"github.com/taigrr/tinyrender/pkg/math3d"
)

var (
	hashA = math3d.Vec2[float32](127.1, 311.7)
	hashB = math3d.Vec2[float32](269.5, 183.3)
)

const hashScale = 43758.5453123

func hash(p, k math3d.Vector2[float32]) float32 {
	v := math32.Sin(math3d.Dot(p, k)) * hashScale
	return -1 + 2*(v-math32.Floor(v))
}

// Hash21 is the GLSL sine hash
//
//	fract(sin(dot(p, vec2(127.1, 311.7))) * 43758.5453123)
//
// rescaled to [-1, 1], with fract(x) = x - floor(x).
func Hash21(p math3d.Vector2[float32]) float32 {
	return hash(p, hashA)
}

// Hash22 hashes p twice with independent constants.
func Hash22(p math3d.Vector2[float32]) math3d.Vector2[float32] {
	return math3d.Vec2(hash(p, hashA), hash(p, hashB))
}

// IntegerNoise1D is the libnoise integer hash. Arithmetic wraps at 32 bits.
func IntegerNoise1D(x int32) float32 {
	x = (x >> 13) ^ x
	x = (x*(x*x*60493+19990303) + 1376312589) & 0x7fffffff
	return 1 - float32(x)/1073741824
}

// Lerp interpolates linearly from a (t=0) to b (t=1).
func Lerp(a, b, t float32) float32 {
	return (1-t)*a + t*b
}

// Fade is the quintic smoothstep 6t⁵ - 15t⁴ + 10t³.
func Fade(t float32) float32 {
	return t * t * t * (t*(6*t-15) + 10)
}

// Perlin1D is one-dimensional gradient noise with gradients drawn from
// IntegerNoise1D at each integer lattice point. It is zero at every
// integer. The blend weight is x - floor(x), always in [0, 1), so the
// curve stays continuous and within [-1, 1] for negative x as well; a
// truncating fract would extrapolate between lattice points there.
func Perlin1D(x float32) float32 {
	x0 := math32.Floor(x)
	x1 := x0 + 1

	g0 := IntegerNoise1D(int32(x0))
	g1 := IntegerNoise1D(int32(x1))

	return Lerp(g0*(x-x0), g1*(x-x1), x-x0)
}

// FBM sums octaves of Perlin1D, doubling the frequency and halving the
// amplitude each octave, normalized by the total amplitude.
func FBM(x float32, octaves int) float32 {
	if octaves < 1 {
		return 0
	}

	var result, sum float32
	frequency, amplitude := float32(1), float32(1)
	for range octaves {
		result += Perlin1D(x*frequency) * amplitude
		sum += amplitude
		frequency *= 2
		amplitude /= 2
	}
	return result / sum
}
