// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import "math"

// QuadMin finds the minimizer of the quadratic
//
//	q(x) = B(x-a)² + C(x-a) + D
//
// passing through (a,fa) and (b,fb) with q′(a) = fpa.
//
// It reports false when the interpolant is degenerate (b = a, B = 0) or any
// intermediate value overflows, so the caller can fall back to another trial point.
func QuadMin(a, fa, fpa, b, fb float64) (float64, bool) {
	d, c := fa, fpa
	db := b - a
	dd := db * db
	if dd == zero || !finite(dd) {
		return math.NaN(), false
	}
	bb := (fb - d - c*db) / dd
	if bb == zero || !finite(bb) {
		return math.NaN(), false
	}
	xmin := a - c/(two*bb)
	if !finite(xmin) {
		return math.NaN(), false
	}
	return xmin, true
}

// CubicMin finds the local minimizer of the cubic
//
//	f(x) = A(x-a)³ + B(x-a)² + C(x-a) + D
//
// passing through (a,fa), (b,fb) and (c,fc) with f′(a) = fpa.
//
// The leading coefficients solve
//
//	⎡A⎤   ⎡ dc²  -db² ⎤ ⎡ fb - fa - C·db ⎤
//	⎣B⎦ = ⎣-dc³   db³ ⎦ ⎣ fc - fa - C·dc ⎦ / (db·dc)²(db-dc)
//
// and the minimizer is a + (-B + √(B²-3AC)) / 3A.
// It reports false with a NaN placeholder when the points coincide, the root is complex
// or any value overflows.
func CubicMin(a, fa, fpa, b, fb, c, fc float64) (float64, bool) {
	cc := fpa
	db := b - a
	dc := c - a
	denom := (db * dc) * (db * dc) * (db - dc)
	if denom == zero || !finite(denom) {
		return math.NaN(), false
	}

	db2, dc2 := db*db, dc*dc
	db3, dc3 := db2*db, dc2*dc
	rb := fb - fa - cc*db
	rc := fc - fa - cc*dc

	aa := (dc2*rb - db2*rc) / denom
	bb := (-dc3*rb + db3*rc) / denom
	if aa == zero || !finite(aa) || !finite(bb) {
		return math.NaN(), false
	}

	radical := bb*bb - three*aa*cc
	if radical < zero || !finite(radical) {
		return math.NaN(), false
	}
	xmin := a + (-bb+math.Sqrt(radical))/(three*aa)
	if !finite(xmin) {
		return math.NaN(), false
	}
	return xmin, true
}
