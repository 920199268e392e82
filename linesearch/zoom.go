// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

const (
	zoomMaxIter = 10
	zoomDelta1  = 0.2 // cubic interpolant check
	zoomDelta2  = 0.1 // quadratic interpolant check
)

// evaluator counts calls of φ and φ′.
type evaluator struct {
	phi, derphi      Func
	numEval, numGrad int
}

// newEvaluator approximates φ′ numerically from counted calls of φ when derphi is nil.
func newEvaluator(phi, derphi Func) *evaluator {
	if phi == nil {
		panic("linesearch: objective function is undefined")
	}
	e := &evaluator{phi: phi, derphi: derphi}
	if derphi == nil {
		e.derphi = NumericDerphi(e.f)
	}
	return e
}

func (e *evaluator) f(alpha float64) float64 {
	e.numEval++
	return e.phi(alpha)
}

func (e *evaluator) g(alpha float64) float64 {
	e.numGrad++
	return e.derphi(alpha)
}

// Zoom narrows br until it finds a step satisfying the strong Wolfe conditions
// relative to phi0 and derphi0, or reports false after 10 iterations.
// Only C1, C2, ExtraCondition and Logger of opt are consulted.
func Zoom(phi, derphi Func, br Bracket, phi0, derphi0 float64, opt *Options) (Sample, bool) {
	ev := newEvaluator(phi, derphi)
	c := opt.resolve(defaultMaxIter)
	return zoom(br, ev, phi0, derphi0, &c)
}

// zoom implements Algorithm 3.6 of Nocedal & Wright, Numerical Optimization (1999).
//
// Each trial step is the minimizer of a cubic through (lo, hi, rec) when it lies at least
// δ₁·|hi-lo| inside the bracket, else of a quadratic through (lo, hi) when it lies
// at least δ₂·|hi-lo| inside, else the midpoint.
func zoom(br Bracket, ev *evaluator, phi0, derphi0 float64, c *config) (Sample, bool) {

	aLo, aHi := br.Lo, br.Hi
	phiLo, phiHi, derphiLo := br.PhiLo, br.PhiHi, br.DerphiLo

	// the most recently discarded endpoint
	aRec, phiRec := zero, phi0

	log := c.log
	for i := 0; ; {
		dalpha := aHi - aLo
		a, b := aLo, aHi
		if dalpha < zero {
			a, b = aHi, aLo
		}

		var (
			aj  float64
			ok  bool
			how string
		)
		if i > 0 {
			cchk := zoomDelta1 * dalpha
			aj, ok = CubicMin(aLo, phiLo, derphiLo, aHi, phiHi, aRec, phiRec)
			ok = ok && aj <= b-cchk && aj >= a+cchk
			how = "cubic"
		}
		if !ok {
			qchk := zoomDelta2 * dalpha
			aj, ok = QuadMin(aLo, phiLo, derphiLo, aHi, phiHi)
			ok = ok && aj <= b-qchk && aj >= a+qchk
			how = "quadratic"
			if !ok {
				aj = aLo + half*dalpha
				how = "bisection"
			}
		}

		phiAj := ev.f(aj)
		log.Trace().Int("iter", i).Str("trial", how).
			Float64("lo", aLo).Float64("hi", aHi).
			Float64("alpha", aj).Float64("phi", phiAj).
			Msg("zoom trial")

		if !Armijo(c.c1, aj, phi0, derphi0, phiAj) || phiAj >= phiLo {
			aRec, phiRec = aHi, phiHi
			aHi, phiHi = aj, phiAj
		} else {
			derphiAj := ev.g(aj)
			if Curvature(c.c2, derphi0, derphiAj) && c.extra(aj, phiAj) {
				log.Debug().Int("iter", i).Float64("alpha", aj).Msg("zoom accepted step")
				return Sample{aj, phiAj, derphiAj}, true
			}
			if derphiAj*(aHi-aLo) >= zero {
				aRec, phiRec = aHi, phiHi
				aHi, phiHi = aLo, phiLo
			} else {
				aRec, phiRec = aLo, phiLo
			}
			aLo, phiLo, derphiLo = aj, phiAj, derphiAj
		}

		i++
		if i > zoomMaxIter {
			log.Debug().Float64("lo", aLo).Float64("hi", aHi).Msg("zoom failed to find a conforming step")
			return noSample, false
		}
	}
}
