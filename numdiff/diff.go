package numdiff

import (
	"errors"
	"math"
)

var sqrtEps = math.Sqrt(math.Nextafter(1, 2) - 1)
var cubeEps = math.Pow(math.Nextafter(1, 2)-1, float64(1)/3)

type Method int

const (
	// Forward use the first order accuracy forward difference.
	Forward Method = iota
	// Central use central difference in interior points and the second order accuracy
	// forward or backward difference near the boundary.
	Central
)

// Bound is the closed interval [lower, upper] on which the function may be evaluated.
// A NaN end means unbounded on that side.
type Bound [2]float64

// Unbounded places no limit on evaluation points.
var Unbounded = Bound{math.Inf(-1), math.Inf(1)}

// ApproxSpec estimates the derivative of a scalar function of one variable by finite differences.
//
// # Reference:
//
//   - https://en.wikipedia.org/wiki/Finite_difference
//   - https://github.com/scipy/scipy/blob/main/scipy/optimize/_numdiff.py
//
// # License
//
//   - https://github.com/scipy/scipy/blob/main/LICENSE.txt
type ApproxSpec struct {
	// Function of which to estimate the derivative.
	Object func(x float64) float64
	// Finite difference method to use.
	Method Method
	// Lower and upper bound on the variable.
	// Nil means unbounded.
	Bound *Bound
	// Relative step size used to compute absolute step size.
	// The default absolute step size is computed as h = RelStep * sign(x0) * max(1, abs(x0)) with RelStep being selected automatically.
	// Otherwise, absolute step size is computed as h = RelStep * sign(x0) * abs(x0) when RelStep is provided.
	RelStep float64
	// Absolute step size to use, possibly adjusted to fit into the bound.
	// The RelStep is used when AbsStep is not provide.
	// For Central method the sign of AbsStep is ignored.
	AbsStep float64
	// Don't check if x0 is out of bound.
	NotChkBnd bool
}

// approxCtx holds the step chosen for one evaluation point.
type approxCtx struct {
	lb, ub  float64
	absStep float64
	oneSide bool
}

// Check the parameters and resolve the bound.
func (as *ApproxSpec) check(x0 float64) (ctx approxCtx, err error) {

	ctx.lb, ctx.ub = math.Inf(-1), math.Inf(1)

	switch {
	case as.Method != Forward && as.Method != Central:
		return ctx, errors.New("unknown method")
	case as.Object == nil:
		return ctx, errors.New("object function is required")
	case math.IsNaN(x0) || math.IsInf(x0, 0):
		return ctx, errors.New("x0 must be finite")
	}

	if b := as.Bound; b != nil {
		if !math.IsNaN(b[0]) {
			ctx.lb = b[0]
		}
		if !math.IsNaN(b[1]) {
			ctx.ub = b[1]
		}
		if ctx.lb > ctx.ub {
			return ctx, errors.New("invalid bound range")
		}
		if !as.NotChkBnd && (x0 < ctx.lb || x0 > ctx.ub) {
			return ctx, errors.New("x0 violates bound constraints")
		}
	}
	return ctx, nil
}

// Diff calculate approximation of the derivative at x0 by finite differences.
func (as *ApproxSpec) Diff(x0 float64) (float64, error) {

	ctx, err := as.check(x0)
	if err != nil {
		return math.NaN(), err
	}

	bnd := !(math.IsInf(ctx.lb, 0) && math.IsInf(ctx.ub, 0))

	ctx.absStep = as.absoluteStep(x0)
	as.adjustToBounds(x0, bnd, &ctx)

	if as.Method == Central {
		return as.approxCentral(x0, &ctx), nil
	}
	return as.approxForward(x0, &ctx), nil
}

// Derivative approximates f′(x) by central differences within the bound b.
// It returns NaN when x lies outside b.
func Derivative(f func(float64) float64, x float64, b Bound) float64 {
	as := ApproxSpec{Object: f, Method: Central, Bound: &b}
	d, err := as.Diff(x)
	if err != nil {
		return math.NaN()
	}
	return d
}

func (as *ApproxSpec) adjustToBounds(x0 float64, bnd bool, ctx *approxCtx) {
	if as.Method == Central {
		ctx.absStep = math.Abs(ctx.absStep)
		ctx.oneSide = false
	}

	if !bnd {
		return
	}

	h := ctx.absStep
	ld, ud := x0-ctx.lb, ctx.ub-x0

	if as.Method == Forward {
		x := x0 + h
		violated := x < ctx.lb || x > ctx.ub
		fitting := math.Abs(h) < math.Max(ld, ud)
		if violated && fitting {
			h = -h
		} else if !fitting {
			if ud >= ld {
				h = ud
			} else {
				h = -ld
			}
		}
	} else {
		central := ld >= h && ud >= h
		if !central {
			if ud >= ld {
				h = math.Min(h, 0.5*ud)
			} else {
				h = -math.Min(h, 0.5*ld)
			}
			ctx.oneSide = true
		}
		minDist := math.Min(ud, ld)
		if !central && math.Abs(h) <= minDist {
			h = minDist
			ctx.oneSide = false
		}
	}
	ctx.absStep = h
}

func (as *ApproxSpec) absoluteStep(x0 float64) float64 {
	var eps float64
	switch as.Method {
	case Forward:
		eps = sqrtEps
	case Central:
		eps = cubeEps
	default:
		panic("unknown method")
	}

	auto := math.Copysign(eps, x0) * math.Max(1.0, math.Abs(x0))

	abs, rel := as.AbsStep, as.RelStep
	if abs == 0 && rel == 0 {
		return auto
	}
	s := abs
	if s == 0 {
		s = math.Copysign(rel, x0) * math.Abs(x0)
	}
	if d := (x0 + s) - x0; d == 0 {
		s = auto
	}
	return s
}

func (as *ApproxSpec) approxForward(x0 float64, ctx *approxCtx) float64 {
	h := ctx.absStep
	f0 := as.Object(x0)
	f1 := as.Object(x0 + h)
	return (f1 - f0) / h
}

func (as *ApproxSpec) approxCentral(x0 float64, ctx *approxCtx) float64 {
	h := ctx.absStep
	d := 1.0 / (2 * h)
	if ctx.oneSide {
		f0 := as.Object(x0)
		f1 := as.Object(x0 + h)
		f2 := as.Object(x0 + 2*h)
		return (4*f1 - 3*f0 - f2) * d
	}
	f1 := as.Object(x0 - h)
	f2 := as.Object(x0 + h)
	return (f2 - f1) * d
}
