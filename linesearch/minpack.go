// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"math"
)

const (
	p5         = 0.5
	p66        = 0.66
	xTrapLower = 1.1
	xTrapUpper = 4.0
)

const (
	stageArmijo = 1
	stageWolfe  = 2
)

// Task is the reverse-communication state of a MinpackSearch.
type Task int

const (
	TaskStart Task = 0
	TaskConv  Task = 1 << (4 + iota)
	TaskFG
	TaskError
	TaskWarn
)

const (
	TaskErrOverLower = TaskError | (1 + iota)
	TaskErrOverUpper
	TaskErrNegInitG
	TaskErrNegAlpha
	TaskErrNegBeta
	TaskErrNegEps
	TaskErrLower
	TaskErrUpper
	TaskWarnRoundErr = TaskWarn | (1 + iota)
	TaskWarnReachEps
	TaskWarnReachMax
	TaskWarnReachMin
)

func (t Task) String() string {
	switch t {
	case TaskStart:
		return "start"
	case TaskConv:
		return "convergence"
	case TaskFG:
		return "evaluate"
	case TaskErrOverLower:
		return "stp < lower"
	case TaskErrOverUpper:
		return "stp > upper"
	case TaskErrNegInitG:
		return "initial g >= 0"
	case TaskErrNegAlpha:
		return "alpha < 0"
	case TaskErrNegBeta:
		return "beta < 0"
	case TaskErrNegEps:
		return "eps < 0"
	case TaskErrLower:
		return "lower < 0"
	case TaskErrUpper:
		return "upper < lower"
	case TaskWarnRoundErr:
		return "rounding errors prevent progress"
	case TaskWarnReachEps:
		return "eps test satisfied"
	case TaskWarnReachMax:
		return "stp = upper"
	case TaskWarnReachMin:
		return "stp = lower"
	}
	return "unknown"
}

// SearchTol configures a MinpackSearch.
type SearchTol struct {
	// Alpha is a non-negative tolerance for the sufficient decrease condition.
	Alpha float64
	// Beta is a non-negative tolerance for the curvature condition.
	Beta float64
	// Eps is a non-negative relative tolerance for an acceptable step.
	// The search exits with a warning if the relative width of the interval is less than Eps.
	Eps float64
	// Lower is a non-negative lower bound for the step.
	Lower float64
	// Upper is a non-negative upper bound for the step.
	Upper float64
}

// endpoint is one end of the interval of uncertainty.
type endpoint struct {
	stp, f, g float64
}

// MinpackSearch (dcsrch) finds a step λ that satisfies:
//   - sufficient decrease condition: f(λ) ≤ f(0) + ɑλf′(0)
//   - curvature condition: |f′(λ)| ≤ β|f′(0)|
//
// Each call updates an interval with endpoints x and y chosen so that it contains
// a minimizer of the modified function
//
//	ψ(λ) = f(λ) - f(0) - ɑλf′(0)
//
// If ψ(λ) ≤ 0 and f′(λ) ≥ 0 for some step, then the interval is chosen so that it contains a minimizer of f.
//
// If ɑ is less than β and the function is bounded below, then there is always a step
// which satisfies both conditions. Otherwise the search stops with a warning and
// the step only satisfies the sufficient decrease condition.
//
// The caller drives the search: on TaskFG evaluate f and f′ at the returned step
// and call Iterate again.
//
// Reference: Moré, J.J. and D.J. Thuente: Line Search Algorithms with Guaranteed Sufficient
// Decrease. ACM Transactions on Mathematical Software 20(3) (1994), 286-307
type MinpackSearch struct {
	Tol SearchTol

	bracket bool
	stage   int
	f0, g0  float64
	x, y    endpoint
	width   [2]float64
	bound   [2]float64
}

// Init starts a search from f = f(0), g = f′(0) with the initial estimate stp.
func (s *MinpackSearch) Init(f, g, stp float64) (float64, Task) {
	tol := &s.Tol

	var task Task
	switch {
	case stp < tol.Lower:
		task = TaskErrOverLower
	case stp > tol.Upper:
		task = TaskErrOverUpper
	case g >= zero:
		task = TaskErrNegInitG
	case tol.Alpha < zero:
		task = TaskErrNegAlpha
	case tol.Beta < zero:
		task = TaskErrNegBeta
	case tol.Eps < zero:
		task = TaskErrNegEps
	case tol.Lower < zero:
		task = TaskErrLower
	case tol.Upper < tol.Lower:
		task = TaskErrUpper
	}
	if task&TaskError > 0 {
		return stp, task
	}

	s.bracket = false
	s.stage = stageArmijo
	s.f0, s.g0 = f, g
	s.width[0] = tol.Upper - tol.Lower
	s.width[1] = s.width[0] / p5

	s.x = endpoint{zero, f, g}
	s.y = endpoint{zero, f, g}
	s.bound[0] = zero
	s.bound[1] = stp + xTrapUpper*stp
	return stp, TaskFG
}

// Iterate consumes f = f(stp), g = f′(stp) and returns the next step to evaluate
// together with the new task.
func (s *MinpackSearch) Iterate(f, g, stp float64) (float64, Task) {
	tol := &s.Tol

	gTest := tol.Alpha * s.g0
	fTest := s.f0 + stp*gTest

	stpMin, stpMax := s.bound[0], s.bound[1]
	var task Task
	switch {
	case s.bracket && (stp <= stpMin || stp >= stpMax):
		task = TaskWarnRoundErr
	case s.bracket && stpMax-stpMin <= tol.Eps*stpMax:
		task = TaskWarnReachEps
	case stp == tol.Upper && f <= fTest && g <= gTest:
		task = TaskWarnReachMax
	case stp == tol.Lower && (f > fTest || g >= gTest):
		task = TaskWarnReachMin
	case f <= fTest && math.Abs(g) <= tol.Beta*(-s.g0):
		task = TaskConv
	}
	if task&(TaskWarn|TaskConv) > 0 {
		return stp, task
	}

	if s.stage == stageArmijo && f <= fTest && g >= zero {
		s.stage = stageWolfe
	}

	if s.stage == stageArmijo && f <= s.x.f && f > fTest {
		// Use the modified function ψ while no step with ψ ≤ 0 and f′ ≥ 0 has been seen.
		x := endpoint{s.x.stp, s.x.f - s.x.stp*gTest, s.x.g - gTest}
		y := endpoint{s.y.stp, s.y.f - s.y.stp*gTest, s.y.g - gTest}
		p := endpoint{stp, f - stp*gTest, g - gTest}
		stp = s.step(&x, &y, p)
		s.x = endpoint{x.stp, x.f + x.stp*gTest, x.g + gTest}
		s.y = endpoint{y.stp, y.f + y.stp*gTest, y.g + gTest}
	} else {
		stp = s.step(&s.x, &s.y, endpoint{stp, f, g})
	}

	// Decide if a bisection step is needed.
	if s.bracket {
		if math.Abs(s.y.stp-s.x.stp) >= p66*s.width[1] {
			stp = s.x.stp + p5*(s.y.stp-s.x.stp)
		}
		s.width[1] = s.width[0]
		s.width[0] = math.Abs(s.y.stp - s.x.stp)
	}

	if s.bracket {
		stpMin = math.Min(s.x.stp, s.y.stp)
		stpMax = math.Max(s.x.stp, s.y.stp)
	} else {
		stpMin = stp + xTrapLower*(stp-s.x.stp)
		stpMax = stp + xTrapUpper*(stp-s.x.stp)
	}
	s.bound[0], s.bound[1] = stpMin, stpMax

	stp = math.Min(math.Max(stp, tol.Lower), tol.Upper)

	// Fall back to the best step so far if further progress is impossible.
	if s.bracket && (stp <= stpMin || stp >= stpMax) || (s.bracket && stpMax-stpMin <= tol.Eps*stpMax) {
		stp = s.x.stp
	}
	return stp, TaskFG
}

// step (dcstep) computes a safeguarded trial step and updates the interval
// of uncertainty [x, y] given the new sample p.
//
// x holds the step with the least function value and its derivative must be
// negative in the direction of the step. If the minimizer is bracketed then
// p.stp lies strictly between x.stp and y.stp.
func (s *MinpackSearch) step(x, y *endpoint, p endpoint) float64 {

	stpmin, stpmax := s.bound[0], s.bound[1]
	sgnd := p.g * (x.g / math.Abs(x.g))

	var stpf float64
	switch {
	case p.f > x.f:
		// A higher function value. The minimum is bracketed.
		// If the cubic step is closer to x than the quadratic step, the cubic step is taken,
		// otherwise the average of the cubic and quadratic steps is taken.
		theta := three*(x.f-p.f)/(p.stp-x.stp) + x.g + p.g
		sc := math.Max(math.Max(math.Abs(theta), math.Abs(x.g)), math.Abs(p.g))
		gamma := sc * math.Sqrt((theta/sc)*(theta/sc)-(x.g/sc)*(p.g/sc))
		if p.stp < x.stp {
			gamma = -gamma
		}
		pp := (gamma - x.g) + theta
		q := ((gamma - x.g) + gamma) + p.g
		stpc := x.stp + pp/q*(p.stp-x.stp)
		stpq := x.stp + ((x.g/((x.f-p.f)/(p.stp-x.stp)+x.g))/two)*(p.stp-x.stp)
		if math.Abs(stpc-x.stp) < math.Abs(stpq-x.stp) {
			stpf = stpc
		} else {
			stpf = stpc + (stpq-stpc)/two
		}
		s.bracket = true

	case sgnd < zero:
		// A lower function value and derivatives of opposite sign. The minimum is bracketed.
		// If the cubic step is farther from p than the secant step, the cubic step is taken,
		// otherwise the secant step is taken.
		theta := three*(x.f-p.f)/(p.stp-x.stp) + x.g + p.g
		sc := math.Max(math.Max(math.Abs(theta), math.Abs(x.g)), math.Abs(p.g))
		gamma := sc * math.Sqrt((theta/sc)*(theta/sc)-(x.g/sc)*(p.g/sc))
		if p.stp > x.stp {
			gamma = -gamma
		}
		pp := (gamma - p.g) + theta
		q := ((gamma - p.g) + gamma) + x.g
		stpc := p.stp + pp/q*(x.stp-p.stp)
		stpq := p.stp + (p.g/(p.g-x.g))*(x.stp-p.stp)
		if math.Abs(stpc-p.stp) > math.Abs(stpq-p.stp) {
			stpf = stpc
		} else {
			stpf = stpq
		}
		s.bracket = true

	case math.Abs(p.g) < math.Abs(x.g):
		// A lower function value, derivatives of the same sign and the magnitude of the derivative decreases.
		// The cubic step is computed only if the cubic tends to infinity in the direction
		// of the step or if the minimum of the cubic is beyond p. Otherwise the cubic
		// step is defined to be the secant step.
		theta := three*(x.f-p.f)/(p.stp-x.stp) + x.g + p.g
		sc := math.Max(math.Max(math.Abs(theta), math.Abs(x.g)), math.Abs(p.g))
		// gamma = 0 only arises if the cubic does not tend to infinity in the direction of the step.
		gamma := sc * math.Sqrt(math.Max(zero, (theta/sc)*(theta/sc)-(x.g/sc)*(p.g/sc)))
		if p.stp > x.stp {
			gamma = -gamma
		}
		pp := (gamma - p.g) + theta
		q := (gamma + (x.g - p.g)) + gamma
		r := pp / q
		var stpc float64
		switch {
		case r < zero && gamma != zero:
			stpc = p.stp + r*(x.stp-p.stp)
		case p.stp > x.stp:
			stpc = stpmax
		default:
			stpc = stpmin
		}
		stpq := p.stp + (p.g/(p.g-x.g))*(x.stp-p.stp)
		if s.bracket {
			// If the cubic step is closer to p than the secant step, the cubic step is taken,
			// otherwise the secant step is taken.
			if math.Abs(stpc-p.stp) < math.Abs(stpq-p.stp) {
				stpf = stpc
			} else {
				stpf = stpq
			}
			if p.stp > x.stp {
				stpf = math.Min(p.stp+p66*(y.stp-p.stp), stpf)
			} else {
				stpf = math.Max(p.stp+p66*(y.stp-p.stp), stpf)
			}
		} else {
			// If the cubic step is farther from p than the secant step, the cubic step is taken,
			// otherwise the secant step is taken.
			if math.Abs(stpc-p.stp) > math.Abs(stpq-p.stp) {
				stpf = stpc
			} else {
				stpf = stpq
			}
			stpf = math.Min(stpmax, stpf)
			stpf = math.Max(stpmin, stpf)
		}

	default:
		// A lower function value, derivatives of the same sign and the magnitude of the derivative does not decrease.
		// If the minimum is not bracketed, the step is either stpmin or stpmax,
		// otherwise the cubic step is taken.
		switch {
		case s.bracket:
			theta := three*(p.f-y.f)/(y.stp-p.stp) + y.g + p.g
			sc := math.Max(math.Max(math.Abs(theta), math.Abs(y.g)), math.Abs(p.g))
			gamma := sc * math.Sqrt((theta/sc)*(theta/sc)-(y.g/sc)*(p.g/sc))
			if p.stp > y.stp {
				gamma = -gamma
			}
			pp := (gamma - p.g) + theta
			q := ((gamma - p.g) + gamma) + y.g
			stpf = p.stp + pp/q*(y.stp-p.stp)
		case p.stp > x.stp:
			stpf = stpmax
		default:
			stpf = stpmin
		}
	}

	// Update the interval which contains a minimizer.
	if p.f > x.f {
		*y = p
	} else {
		if sgnd < zero {
			*y = *x
		}
		*x = p
	}
	return stpf
}
