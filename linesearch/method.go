// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"fmt"
	"math"
	"strings"
)

// Searcher finds a step length along a descent direction.
type Searcher interface {
	Search(phi, derphi Func, opt *Options) Result
}

// Method selects a line search algorithm.
type Method int

const (
	// NocedalWright is the bracketing and zoom search of Nocedal & Wright.
	NocedalWright Method = iota
	// MoreThuente is the safeguarded search of Moré & Thuente (MINPACK-2 dcsrch).
	MoreThuente
)

func (m Method) String() string {
	switch m {
	case NocedalWright:
		return "nocedal-wright"
	case MoreThuente:
		return "more-thuente"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod is the inverse of Method.String. It also accepts the short names "wolfe" and "minpack".
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nocedal-wright", "wolfe", "":
		return NocedalWright, nil
	case "more-thuente", "minpack":
		return MoreThuente, nil
	}
	return 0, fmt.Errorf("linesearch: unknown method %q", s)
}

// New returns the Searcher implementing m.
func New(m Method) Searcher {
	switch m {
	case NocedalWright:
		return nocedalWright{}
	case MoreThuente:
		return moreThuente{}
	}
	panic(fmt.Sprintf("linesearch: unknown method %d", int(m)))
}

type nocedalWright struct{}

func (nocedalWright) Search(phi, derphi Func, opt *Options) Result {
	return Search(phi, derphi, opt)
}

const (
	minpackEps     = 1e-14
	minpackLower   = 1e-8
	minpackUpper   = 50
	minpackMaxEval = 100
)

type moreThuente struct{}

// Search drives a MinpackSearch with forward evaluations of φ and φ′.
// MaxIter bounds the number of evaluations and defaults to 100.
// ExtraCondition is not consulted.
func (moreThuente) Search(phi, derphi Func, opt *Options) Result {
	ev := newEvaluator(phi, derphi)
	if opt == nil {
		opt = new(Options)
	}

	c := opt.resolve(minpackMaxEval)

	phi0 := opt.Phi0.Value
	if !opt.Phi0.Set {
		phi0 = ev.f(zero)
	}
	derphi0 := opt.Derphi0.Value
	if !opt.Derphi0.Set {
		derphi0 = ev.g(zero)
	}

	tol := SearchTol{
		Alpha: c.c1,
		Beta:  c.c2,
		Eps:   minpackEps,
		Lower: minpackLower,
		Upper: minpackUpper,
	}
	if c.bounded {
		tol.Upper = c.amax
	}

	stp := c.initialStep(phi0, derphi0, opt.OldPhi0)
	stp = math.Min(math.Max(stp, tol.Lower), tol.Upper)

	r := Result{Phi0: phi0, Alpha: math.NaN(), Phi: math.NaN(), Derphi: math.NaN()}
	ms := MinpackSearch{Tol: tol}
	stp, task := ms.Init(phi0, derphi0, stp)

	log := c.log
	for task == TaskFG && r.NumIter < c.maxIter {
		f, g := ev.f(stp), ev.g(stp)
		r.NumIter++
		log.Trace().Int("iter", r.NumIter).Float64("alpha", stp).Float64("phi", f).Float64("derphi", g).Msg("minpack trial")
		r.Alpha, r.Phi, r.Derphi = stp, f, g
		stp, task = ms.Iterate(f, g, stp)
		if task == TaskFG && math.IsInf(stp, 0) {
			task = TaskWarnRoundErr
		}
	}
	r.NumEval, r.NumGrad = ev.numEval, ev.numGrad

	switch {
	case task == TaskConv:
		r.Status = Converged
	case task&TaskError > 0:
		r.Status = BadInput
		r.reason = task.String()
	case task&TaskWarn > 0:
		r.Status = Warning
		r.reason = task.String()
	default:
		r.Status = MaxIterReached
		r.reason = fmt.Sprintf("no conforming step within %d evaluations", c.maxIter)
	}
	if r.Status != Converged {
		r.Derphi = math.NaN()
	}

	if r.Status == Converged {
		log.Debug().Float64("alpha", r.Alpha).Float64("phi", r.Phi).Int("evals", r.NumEval).Msg("line search converged")
	} else {
		log.Warn().Stringer("status", r.Status).Str("reason", r.reason).Msg("line search did not converge")
	}
	return r
}
