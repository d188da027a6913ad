package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

// Matrix is an orthonormal orientation. Rows hold the Right, Up and
// Backward axes expressed in the parent space.
type Matrix [3][3]float64

// Frame is a pose: an orientation plus an origin in world space.
type Frame struct {
	Orientation Matrix
	Origin      r3.Vector
}

// Identity returns the orientation aligned with the parent axes.
func Identity() Matrix {
	return Matrix{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// FromRows builds a matrix from the Right, Up and Backward axes.
func FromRows(right, up, backward r3.Vector) Matrix {
	return Matrix{
		{right.X, right.Y, right.Z},
		{up.X, up.Y, up.Z},
		{backward.X, backward.Y, backward.Z},
	}
}

// FromForwardUp builds an orthonormal orientation facing forward with the
// given up hint. The up hint is re-orthogonalized against forward. If the two
// are parallel the result is the identity.
func FromForwardUp(forward, up r3.Vector) Matrix {
	f := SafeNormalize(forward)
	right := SafeNormalize(f.Cross(up))
	if IsZero(f) || IsZero(right) {
		return Identity()
	}
	u := right.Cross(f)
	return FromRows(right, u, f.Mul(-1))
}

func (m Matrix) row(i int) r3.Vector {
	return r3.Vector{X: m[i][0], Y: m[i][1], Z: m[i][2]}
}

func (m Matrix) Right() r3.Vector    { return m.row(0) }
func (m Matrix) Left() r3.Vector     { return m.row(0).Mul(-1) }
func (m Matrix) Up() r3.Vector       { return m.row(1) }
func (m Matrix) Down() r3.Vector     { return m.row(1).Mul(-1) }
func (m Matrix) Backward() r3.Vector { return m.row(2) }
func (m Matrix) Forward() r3.Vector  { return m.row(2).Mul(-1) }

// Transpose returns the inverse rotation.
func (m Matrix) Transpose() Matrix {
	var t Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t[i][j] = m[j][i]
		}
	}
	return t
}

// Mul returns m·n. Applying the result to a row vector applies m first.
func (m Matrix) Mul(n Matrix) Matrix {
	var r Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				r[i][j] += m[i][k] * n[k][j]
			}
		}
	}
	return r
}

// Trace returns the sum of the diagonal.
func (m Matrix) Trace() float64 {
	return m[0][0] + m[1][1] + m[2][2]
}

// Orthonormalize re-derives Up and Right from Backward, removing drift
// accumulated by repeated integration.
func (m Matrix) Orthonormalize() Matrix {
	return FromForwardUp(m.Forward(), m.Up())
}

// Rotate maps v from the local space of m into the parent space.
func Rotate(v r3.Vector, m Matrix) r3.Vector {
	return r3.Vector{
		X: v.X*m[0][0] + v.Y*m[1][0] + v.Z*m[2][0],
		Y: v.X*m[0][1] + v.Y*m[1][1] + v.Z*m[2][1],
		Z: v.X*m[0][2] + v.Y*m[1][2] + v.Z*m[2][2],
	}
}

// RotateInverse maps v from the parent space into the local space of m.
func RotateInverse(v r3.Vector, m Matrix) r3.Vector {
	return Rotate(v, m.Transpose())
}

// AxisAngle returns the orientation obtained by rotating the identity by
// angle radians about axis, right-handed. A zero axis yields the identity.
func AxisAngle(axis r3.Vector, angle float64) Matrix {
	a := SafeNormalize(axis)
	if IsZero(a) || angle == 0 {
		return Identity()
	}
	return FromRows(
		RotateVector(r3.Vector{X: 1}, a, angle),
		RotateVector(r3.Vector{Y: 1}, a, angle),
		RotateVector(r3.Vector{Z: 1}, a, angle),
	)
}

// RotateVector rotates v about the unit axis by angle radians using
// Rodrigues' formula.
func RotateVector(v, axis r3.Vector, angle float64) r3.Vector {
	sin, cos := math.Sincos(angle)
	return v.Mul(cos).
		Add(axis.Cross(v).Mul(sin)).
		Add(axis.Mul(axis.Dot(v) * (1 - cos)))
}
