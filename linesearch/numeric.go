// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"math"

	"github.com/curioloop/wolfe/numdiff"
)

// NumericDerphi approximates φ′ by central differences on α ≥ 0.
// At α = 0 a second order one-sided difference is used so φ is never evaluated at negative steps.
func NumericDerphi(phi Func) Func {
	bnd := numdiff.Bound{zero, math.Inf(1)}
	return func(alpha float64) float64 {
		return numdiff.Derivative(phi, alpha, bnd)
	}
}
