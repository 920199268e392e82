// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"gonum.org/v1/gonum/floats"
)

// Along restricts a multivariate objective to the ray x + αd:
//
//	φ(α)  = f(x + αd)
//	φ′(α) = ∇f(x + αd)ᵀd
//
// grad follows the gonum convention of writing ∇f(x) into its first argument.
// x and dir are not copied and must not change while the returned functions are in use.
// The functions share a workspace and are not safe for concurrent use.
func Along(f func(x []float64) float64, grad func(g, x []float64), x, dir []float64) (phi, derphi Func) {
	if len(x) != len(dir) {
		panic("linesearch: dimension mismatch between location and direction")
	}
	n := len(x)
	xs := make([]float64, n)
	g := make([]float64, n)

	phi = func(alpha float64) float64 {
		floats.AddScaledTo(xs, x, alpha, dir)
		return f(xs)
	}
	if grad != nil {
		derphi = func(alpha float64) float64 {
			floats.AddScaledTo(xs, x, alpha, dir)
			grad(g, xs)
			return floats.Dot(g, dir)
		}
	}
	return
}
