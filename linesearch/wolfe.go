// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"fmt"
	"math"
)

// Search finds a step α > 0 satisfying the strong Wolfe conditions:
//   - sufficient decrease condition: φ(α) ≤ φ(0) + c1·α·φ′(0)
//   - curvature condition: |φ′(α)| ≤ -c2·φ′(0)
//
// The trial step doubles from the initial guess until either it is acceptable
// or an interval containing an acceptable step is found, which is then narrowed by zoom.
// A nil derphi is replaced by a central difference of phi.
//
// Implements Algorithm 3.5 of Nocedal & Wright, Numerical Optimization (1999), pp. 59-61.
func Search(phi, derphi Func, opt *Options) Result {
	ev := newEvaluator(phi, derphi)
	if opt == nil {
		opt = new(Options)
	}

	c := opt.resolve(defaultMaxIter)

	phi0 := opt.Phi0.Value
	if !opt.Phi0.Set {
		phi0 = ev.f(zero)
	}
	derphi0 := opt.Derphi0.Value
	if !opt.Derphi0.Set {
		derphi0 = ev.g(zero)
	}

	r := Result{Phi0: phi0}
	r.Alpha, r.Phi, r.Derphi, r.Status = wolfeLoop(ev, phi0, derphi0, opt.OldPhi0, &c, &r)
	r.NumEval, r.NumGrad = ev.numEval, ev.numGrad

	log := c.log
	if r.Status == Converged {
		log.Debug().Float64("alpha", r.Alpha).Float64("phi", r.Phi).
			Int("evals", r.NumEval).Int("grads", r.NumGrad).
			Msg("line search converged")
	} else {
		log.Warn().Stringer("status", r.Status).Str("reason", r.reason).
			Float64("alpha", r.Alpha).Msg("line search did not converge")
	}
	return r
}

func wolfeLoop(ev *evaluator, phi0, derphi0 float64, old Scalar, c *config, r *Result) (alpha, phi, derphi float64, status Status) {

	alpha0 := zero
	alpha1 := c.initialStep(phi0, derphi0, old)
	phiA1 := ev.f(alpha1)
	phiA0, derphiA0 := phi0, derphi0

	log := c.log
	for i := 0; i < c.maxIter; i++ {
		r.NumIter = i + 1

		if alpha1 == zero {
			r.reason = "trial step rounded to zero"
			return math.NaN(), phi0, math.NaN(), RoundingError
		}
		if c.bounded && alpha0 > c.amax {
			r.reason = fmt.Sprintf("no solution less than or equal to amax: %g", c.amax)
			return math.NaN(), phi0, math.NaN(), ExceedStepMax
		}

		if !Armijo(c.c1, alpha1, phi0, derphi0, phiA1) || (phiA1 >= phiA0 && i > 0) {
			log.Debug().Int("iter", i).Float64("lo", alpha0).Float64("hi", alpha1).Msg("bracket found")
			br := Bracket{Lo: alpha0, Hi: alpha1, PhiLo: phiA0, PhiHi: phiA1, DerphiLo: derphiA0}
			return zoomResult(ev, br, phi0, derphi0, c, r)
		}

		derphiA1 := ev.g(alpha1)
		if Curvature(c.c2, derphi0, derphiA1) && c.extra(alpha1, phiA1) {
			return alpha1, phiA1, derphiA1, Converged
		}

		if derphiA1 >= zero {
			log.Debug().Int("iter", i).Float64("lo", alpha1).Float64("hi", alpha0).Msg("bracket found")
			br := Bracket{Lo: alpha1, Hi: alpha0, PhiLo: phiA1, PhiHi: phiA0, DerphiLo: derphiA1}
			return zoomResult(ev, br, phi0, derphi0, c, r)
		}

		alpha2 := two * alpha1
		if c.bounded {
			alpha2 = math.Min(alpha2, c.amax)
		}
		alpha0, phiA0, derphiA0 = alpha1, phiA1, derphiA1
		alpha1 = alpha2
		phiA1 = ev.f(alpha1)
		log.Trace().Int("iter", i).Float64("alpha", alpha1).Float64("phi", phiA1).Msg("step expanded")
	}

	// the loop ran out without accepting or bracketing a step
	r.reason = fmt.Sprintf("no bracket found within %d iterations", c.maxIter)
	return alpha1, phiA1, math.NaN(), MaxIterReached
}

func zoomResult(ev *evaluator, br Bracket, phi0, derphi0 float64, c *config, r *Result) (alpha, phi, derphi float64, status Status) {
	s, ok := zoom(br, ev, phi0, derphi0, c)
	if !ok {
		r.reason = fmt.Sprintf("bracket [%g, %g] not resolved within %d iterations", br.Lo, br.Hi, zoomMaxIter)
		return s.Alpha, s.Phi, s.Derphi, ZoomFailed
	}
	return s.Alpha, s.Phi, s.Derphi, Converged
}
