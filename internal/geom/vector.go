package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

// Zero is the zero vector.
var Zero = r3.Vector{}

// IsZero reports whether all components of v are exactly zero.
func IsZero(v r3.Vector) bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// SafeNormalize returns v scaled to unit length. The zero vector is returned
// unchanged, as is a vector that is already unit length.
func SafeNormalize(v r3.Vector) r3.Vector {
	if IsZero(v) {
		return Zero
	}
	if v.IsUnit() {
		return v
	}
	return v.Normalize()
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Round rounds every component of v to the given number of decimal digits.
func Round(v r3.Vector, digits int) r3.Vector {
	p := math.Pow(10, float64(digits))
	round := func(x float64) float64 {
		r := math.Round(x*p) / p
		if r == 0 {
			// avoid printing -0
			return 0
		}
		return r
	}
	return r3.Vector{X: round(v.X), Y: round(v.Y), Z: round(v.Z)}
}

// IsFinite reports whether no component of v is NaN or infinite.
func IsFinite(v r3.Vector) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
