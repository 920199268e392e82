// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package functions provides scalar line-search test problems with analytic derivatives.
package functions

import (
	"fmt"
	"math"
	"slices"
)

// Problem is a scalar objective φ(α) restricted to a search direction.
type Problem struct {
	Name   string
	Phi    func(alpha float64) float64
	Derphi func(alpha float64) float64
	// Alpha1 is a suggested first trial step, zero means the searcher default.
	Alpha1 float64
}

var problems = []Problem{
	{
		// (α-2)², minimizer at 2.
		Name:   "quadratic",
		Phi:    func(s float64) float64 { return (s - 2) * (s - 2) },
		Derphi: func(s float64) float64 { return 2 * (s - 2) },
	},
	{
		// -α/(α²+2), minimizer at √2.
		Name:   "rational",
		Phi:    func(s float64) float64 { return -s / (s*s + 2) },
		Derphi: func(s float64) float64 { return (s*s - 2) / ((s*s + 2) * (s*s + 2)) },
		Alpha1: 10,
	},
	{
		Name:   "quartic",
		Phi:    func(s float64) float64 { return -s - math.Pow(s, 3) + math.Pow(s, 4) },
		Derphi: func(s float64) float64 { return -1 - 3*math.Pow(s, 2) + 4*math.Pow(s, 3) },
	},
	{
		Name:   "expquad",
		Phi:    func(s float64) float64 { return math.Exp(-4*s) + s*s },
		Derphi: func(s float64) float64 { return -4*math.Exp(-4*s) + 2*s },
	},
	{
		Name:   "sine",
		Phi:    func(s float64) float64 { return -math.Sin(10 * s) },
		Derphi: func(s float64) float64 { return -10 * math.Cos(10*s) },
	},
	{
		// (α-1)(α-2)(α-3) mirrored so that it descends at 0, local minimizer at 2-1/√3.
		Name:   "cubic",
		Phi:    func(s float64) float64 { return -(s - 1) * (s - 2) * (s - 3) },
		Derphi: func(s float64) float64 { return -(3*s*s - 12*s + 11) },
	},
}

// All returns every problem in a stable order.
func All() []Problem {
	return slices.Clone(problems)
}

// Names lists the problem names.
func Names() []string {
	names := make([]string, len(problems))
	for i, p := range problems {
		names[i] = p.Name
	}
	return names
}

// Lookup finds a problem by name.
func Lookup(name string) (Problem, error) {
	for _, p := range problems {
		if p.Name == name {
			return p, nil
		}
	}
	return Problem{}, fmt.Errorf("functions: unknown problem %q", name)
}
