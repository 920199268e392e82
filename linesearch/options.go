// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

const (
	defaultC1         = 1e-4
	defaultC2         = 0.9
	defaultMaxIter    = 10
	defaultAlpha1Init = 1.0
)

// Options configures a line search. The zero value is ready to use.
type Options struct {
	// Phi0 is φ(0). Evaluated when not set.
	Phi0 Scalar
	// Derphi0 is φ′(0). Evaluated when not set.
	Derphi0 Scalar
	// OldPhi0 is φ(0) of the previous outer iteration, used to guess the first step.
	OldPhi0 Scalar

	// C1 is the factor of the sufficient decrease (Armijo) condition.
	// If it is zero, it will be defaulted to 1e-4.
	C1 float64
	// C2 is the factor of the curvature condition.
	// If it is zero, it will be defaulted to 0.9.
	// The caller is responsible for 0 < C1 < C2 < 1.
	C2 float64

	// StepMax bounds the step length. Unset means unbounded.
	StepMax Scalar

	// ExtraCondition is an additional acceptance test applied to steps already
	// satisfying the strong Wolfe conditions. Nil accepts every such step.
	ExtraCondition func(alpha, phi float64) bool

	// MaxIter limits the outer iterations. If it is zero, the searcher default is used.
	MaxIter int
	// Alpha1Init is the first trial step. If it is zero, it will be defaulted to 1.
	Alpha1Init float64

	// Logger receives diagnostics. Nil disables logging.
	Logger *zerolog.Logger
}

// Validate checks 0 < C1 < C2 < 1 and the iteration and step settings.
// Searchers do not call it.
func (o *Options) Validate() error {
	c := o.resolve(defaultMaxIter)
	switch {
	case !(zero < c.c1 && c.c1 < c.c2 && c.c2 < one):
		return fmt.Errorf("%w: c1=%g and c2=%g do not satisfy 0 < c1 < c2 < 1", ErrBadInput, c.c1, c.c2)
	case o.MaxIter < 0:
		return fmt.Errorf("%w: negative iteration limit %d", ErrBadInput, o.MaxIter)
	case c.alpha1 <= zero || !finite(c.alpha1):
		return fmt.Errorf("%w: initial step must be positive, got %g", ErrBadInput, c.alpha1)
	case c.bounded && math.IsNaN(c.amax):
		return fmt.Errorf("%w: maximum step is NaN", ErrBadInput)
	}
	return nil
}

type config struct {
	c1, c2  float64
	amax    float64
	bounded bool
	extra   func(alpha, phi float64) bool
	maxIter int
	alpha1  float64
	log     *zerolog.Logger
}

var nopLogger = zerolog.Nop()

func acceptAll(float64, float64) bool { return true }

func (o *Options) resolve(maxIter int) config {
	if o == nil {
		o = new(Options)
	}
	c := config{
		c1: o.C1, c2: o.C2,
		amax: o.StepMax.Value, bounded: o.StepMax.Set,
		extra:   o.ExtraCondition,
		maxIter: o.MaxIter,
		alpha1:  o.Alpha1Init,
		log:     o.Logger,
	}
	if c.c1 == zero {
		c.c1 = defaultC1
	}
	if c.c2 == zero {
		c.c2 = defaultC2
	}
	if c.extra == nil {
		c.extra = acceptAll
	}
	if c.maxIter == 0 {
		c.maxIter = maxIter
	}
	if c.alpha1 == zero {
		c.alpha1 = defaultAlpha1Init
	}
	if c.log == nil {
		c.log = &nopLogger
	}
	return c
}

// initialStep guesses the first trial step from the previous decrease:
//
//	α₁ = 𝚖𝚒𝚗(1, 1.01 × 2(φ₀ - φ₀ᵒˡᵈ) / φ′₀)
//
// falling back to the configured initial step when the guess is unavailable or negative.
func (c *config) initialStep(phi0, derphi0 float64, old Scalar) float64 {
	alpha1 := c.alpha1
	if old.Set && derphi0 != zero {
		alpha1 = math.Min(one, 1.01*two*(phi0-old.Value)/derphi0)
	}
	if alpha1 < zero {
		alpha1 = c.alpha1
	}
	if c.bounded {
		alpha1 = math.Min(alpha1, c.amax)
	}
	return alpha1
}
