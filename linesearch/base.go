// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"errors"
	"fmt"
	"math"
)

const (
	zero  = 0.0
	half  = 0.5
	one   = 1.0
	two   = 2.0
	three = 3.0
)

// Func is a scalar function of the step length α along a search direction.
type Func func(alpha float64) float64

// Scalar is an optional float64 value.
type Scalar struct {
	Value float64
	Set   bool
}

// Known returns a Scalar holding v.
func Known(v float64) Scalar {
	return Scalar{Value: v, Set: true}
}

// Sample is one evaluated trial point (α, φ(α), φ′(α)).
type Sample struct {
	Alpha, Phi, Derphi float64
}

var noSample = Sample{math.NaN(), math.NaN(), math.NaN()}

// Bracket is an interval of step lengths known to contain a point satisfying
// the strong Wolfe conditions.
//
// Lo is the endpoint with the better function value, Hi is the other one.
// The interval may be oriented either way, Lo > Hi is allowed.
type Bracket struct {
	Lo, Hi       float64
	PhiLo, PhiHi float64
	DerphiLo     float64
}

// Status reports how a line search terminated.
type Status int

const (
	// Converged the step satisfies the strong Wolfe conditions.
	Converged Status = iota
	// ZoomFailed the zoom stage exhausted its iteration budget.
	ZoomFailed
	// RoundingError the trial step rounded to zero.
	RoundingError
	// ExceedStepMax no acceptable step exists below the maximum step.
	ExceedStepMax
	// MaxIterReached the outer loop ran out of iterations without a bracket.
	// The last trial step is returned but the curvature condition was not verified.
	MaxIterReached
	// Warning the Moré–Thuente search stopped on a tolerance or bound warning.
	Warning
	// BadInput the search was started with inconsistent arguments.
	BadInput
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case ZoomFailed:
		return "zoom-failed"
	case RoundingError:
		return "rounding-error"
	case ExceedStepMax:
		return "exceed-step-max"
	case MaxIterReached:
		return "max-iter-reached"
	case Warning:
		return "warning"
	case BadInput:
		return "bad-input"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

var (
	// ErrZoomFailed signifies the zoom stage could not find a conforming step.
	ErrZoomFailed = errors.New("linesearch: zoom failed to find a conforming step")
	// ErrRounding signifies the trial step slipped below machine precision.
	ErrRounding = errors.New("linesearch: rounding errors prevent the line search from converging")
	// ErrStepMax signifies no acceptable step exists below the maximum step.
	ErrStepMax = errors.New("linesearch: no acceptable step below the maximum step")
	// ErrMaxIter signifies the outer loop exhausted its iterations without verifying curvature.
	ErrMaxIter = errors.New("linesearch: iteration limit reached, curvature condition not verified")
	// ErrWarning signifies the Moré–Thuente search stopped with a warning.
	ErrWarning = errors.New("linesearch: search stopped with a warning")
	// ErrBadInput signifies the search was started with inconsistent arguments.
	ErrBadInput = errors.New("linesearch: invalid search arguments")

	// ErrArmijo signifies a step violates the sufficient decrease condition.
	ErrArmijo = errors.New("linesearch: sufficient decrease condition violated")
	// ErrCurvature signifies a step violates the strong curvature condition.
	ErrCurvature = errors.New("linesearch: curvature condition violated")
)

// Result contains the outcome of a line search.
type Result struct {
	// Alpha is the accepted step, NaN if no step was found.
	Alpha float64
	// Phi is φ(Alpha). It holds φ(0) when the search stagnated and NaN when zoom failed.
	Phi float64
	// Phi0 is φ(0) of the current search.
	Phi0 float64
	// Derphi is φ′(Alpha), NaN unless the curvature condition was verified.
	Derphi float64
	Status Status

	NumIter int // Outer iterations performed.
	NumEval int // Evaluations of φ.
	NumGrad int // Evaluations of φ′.

	reason string
}

// OK reports whether the step satisfies the strong Wolfe conditions.
func (r *Result) OK() bool {
	return r.Status == Converged
}

// Err describes why the search did not converge, nil if it did.
func (r *Result) Err() error {
	var err error
	switch r.Status {
	case Converged:
		return nil
	case ZoomFailed:
		err = ErrZoomFailed
	case RoundingError:
		err = ErrRounding
	case ExceedStepMax:
		err = ErrStepMax
	case MaxIterReached:
		err = ErrMaxIter
	case Warning:
		err = ErrWarning
	default:
		err = ErrBadInput
	}
	if r.reason != "" {
		return fmt.Errorf("%w: %s", err, r.reason)
	}
	return err
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
