// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import "math"

// Armijo reports whether φ(α) ≤ φ(0) + c1·α·φ′(0).
func Armijo(c1, alpha, phi0, derphi0, phi float64) bool {
	return phi <= phi0+c1*alpha*derphi0
}

// Curvature reports whether |φ′(α)| ≤ -c2·φ′(0).
func Curvature(c2, derphi0, derphi float64) bool {
	return math.Abs(derphi) <= -c2*derphi0
}

// StrongWolfe checks both conditions at s and returns ErrArmijo or ErrCurvature
// for the first one violated.
func StrongWolfe(c1, c2, phi0, derphi0 float64, s Sample) error {
	if !Armijo(c1, s.Alpha, phi0, derphi0, s.Phi) {
		return ErrArmijo
	}
	if !Curvature(c2, derphi0, s.Derphi) {
		return ErrCurvature
	}
	return nil
}
