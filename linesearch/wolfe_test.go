// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/curioloop/wolfe/functions"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
)

func rational(s float64) float64    { return -s / (s*s + 2) }
func rationalDer(s float64) float64 { return (s*s - 2) / ((s*s + 2) * (s*s + 2)) }

var resultOpts = cmp.Options{
	cmpopts.EquateApprox(0, 1e-12),
	cmpopts.EquateNaNs(),
	cmpopts.IgnoreUnexported(Result{}),
}

func TestSearchAcceptsInitialStep(t *testing.T) {
	r := Search(rational, rationalDer, &Options{Alpha1Init: 10})
	want := Result{
		Alpha:   10,
		Phi:     -0.09803921568627451,
		Phi0:    0,
		Derphi:  0.009419454056132258,
		Status:  Converged,
		NumIter: 1,
		NumEval: 2,
		NumGrad: 2,
	}
	if diff := cmp.Diff(want, r, resultOpts); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
	if !r.OK() || r.Err() != nil {
		t.Fatalf("expect success, got %v", r.Err())
	}

	r = Search(rational, rationalDer, nil)
	if !r.OK() || r.Alpha != 1 {
		t.Fatalf("default options: got %+v", r)
	}
}

func TestSearchStrongWolfe(t *testing.T) {
	for _, p := range functions.All() {
		for _, old := range []Scalar{{}, Known(0.3), Known(0.7), Known(0.9)} {
			r := Search(p.Phi, p.Derphi, &Options{OldPhi0: old})
			if !r.OK() {
				t.Fatalf("%s old=%v: %v", p.Name, old, r.Err())
			}
			if r.Alpha <= 0 {
				t.Fatalf("%s old=%v: non positive step %g", p.Name, old, r.Alpha)
			}
			if ulpDiff(r.Phi0, p.Phi(0)) > 0 || ulpDiff(r.Phi, p.Phi(r.Alpha)) > 0 || ulpDiff(r.Derphi, p.Derphi(r.Alpha)) > 0 {
				t.Fatalf("%s old=%v: reported values do not match the step: %+v", p.Name, old, r)
			}
			if !wolfeConditionHold(r.Alpha, p.Phi, p.Derphi) {
				t.Fatalf("%s old=%v: strong Wolfe conditions do not hold at %g", p.Name, old, r.Alpha)
			}
		}
	}
}

func TestSearchKnownValues(t *testing.T) {
	var calls []float64
	phi := func(a float64) float64 {
		calls = append(calls, a)
		return quadratic(a)
	}
	r := Search(phi, quadraticDer, &Options{Phi0: Known(4), Derphi0: Known(-4), OldPhi0: Known(5)})
	if !r.OK() {
		t.Fatal(r.Err())
	}
	// α₁ = min(1, 1.01·2·(4-5)/-4)
	if len(calls) != 1 || !closeTo(calls[0], 0.505) || !closeTo(r.Alpha, 0.505) {
		t.Fatalf("expect a single trial at 0.505, got %v", calls)
	}
	if r.NumEval != 1 || r.NumGrad != 1 || r.Phi0 != 4 {
		t.Fatalf("supplied values must not be evaluated: %+v", r)
	}
}

func TestSearchStepExpansion(t *testing.T) {
	var calls []float64
	phi := func(a float64) float64 {
		calls = append(calls, a)
		return -a
	}
	der := func(float64) float64 { return -1 }

	r := Search(phi, der, &Options{StepMax: Known(5)})
	if r.Status != ZoomFailed || !errors.Is(r.Err(), ErrZoomFailed) {
		t.Fatalf("expect zoom failure, got %v", r.Err())
	}
	if diff := cmp.Diff([]float64{0, 1, 2, 4, 5}, calls[:5]); diff != "" {
		t.Fatalf("unexpected trial steps (-want +got):\n%s", diff)
	}
	for _, a := range calls {
		if a > 5 {
			t.Fatalf("trial step %g exceeds the maximum step", a)
		}
	}
	if !math.IsNaN(r.Alpha) || !math.IsNaN(r.Phi) || !math.IsNaN(r.Derphi) {
		t.Fatalf("expect NaN step, got %+v", r)
	}

	calls = nil
	r = Search(phi, der, nil)
	want := Result{
		Alpha:   1024,
		Phi:     -1024,
		Derphi:  math.NaN(),
		Status:  MaxIterReached,
		NumIter: 10,
		NumEval: 12,
		NumGrad: 11,
	}
	if diff := cmp.Diff(want, r, resultOpts); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
	if !errors.Is(r.Err(), ErrMaxIter) || r.OK() {
		t.Fatalf("expect iteration limit, got %v", r.Err())
	}
	for i := 2; i < len(calls); i++ {
		if calls[i] != 2*calls[i-1] {
			t.Fatalf("trial steps do not double: %v", calls)
		}
	}

	r = Search(phi, der, &Options{MaxIter: 3})
	if r.Status != MaxIterReached || r.Alpha != 8 || r.NumIter != 3 {
		t.Fatalf("expect stop at 8 after 3 iterations, got %+v", r)
	}
}

func TestSearchRoundingError(t *testing.T) {
	r := Search(quadratic, quadraticDer, &Options{OldPhi0: Known(quadratic(0))})
	if r.Status != RoundingError || !errors.Is(r.Err(), ErrRounding) {
		t.Fatalf("expect rounding error, got %v", r.Err())
	}
	if !math.IsNaN(r.Alpha) || r.Phi != 4 || r.Phi0 != 4 || !math.IsNaN(r.Derphi) {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestSearchExceedStepMax(t *testing.T) {
	r := Search(quadratic, quadraticDer, &Options{StepMax: Known(-1)})
	if r.Status != ExceedStepMax {
		t.Fatalf("expect exceed step max, got %v", r.Status)
	}
	err := r.Err()
	if !errors.Is(err, ErrStepMax) || !strings.Contains(err.Error(), "amax: -1") {
		t.Fatalf("unexpected error %v", err)
	}
	if !math.IsNaN(r.Alpha) || r.Phi != r.Phi0 {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestSearchExtraCondition(t *testing.T) {
	var seen []float64
	opt := Options{
		Alpha1Init: 10,
		ExtraCondition: func(alpha, phi float64) bool {
			seen = append(seen, alpha)
			return alpha <= 5
		},
	}
	r := Search(rational, rationalDer, &opt)
	if !r.OK() || !closeTo(r.Alpha, 4.512469414695687) {
		t.Fatalf("got %+v: %v", r, r.Err())
	}
	if seen[0] != 10 {
		t.Fatalf("expect the initial step to be rejected by the extra condition, got %v", seen)
	}
	for _, a := range seen {
		s := Sample{a, rational(a), rationalDer(a)}
		if err := StrongWolfe(defaultC1, defaultC2, 0, rationalDer(0), s); err != nil {
			t.Fatalf("extra condition consulted at %g: %v", a, err)
		}
	}

	opt.ExtraCondition = func(float64, float64) bool { return false }
	r = Search(rational, rationalDer, &opt)
	if r.Status != ZoomFailed || !math.IsNaN(r.Alpha) {
		t.Fatalf("expect zoom failure, got %+v", r)
	}
}

func TestSearchNumericDerivative(t *testing.T) {
	for _, p := range functions.All() {
		r := Search(p.Phi, nil, nil)
		if !r.OK() {
			t.Fatalf("%s: %v", p.Name, r.Err())
		}
		if !wolfeConditionHold(r.Alpha, p.Phi, p.Derphi) {
			t.Fatalf("%s: strong Wolfe conditions do not hold at %g", p.Name, r.Alpha)
		}
		if math.Abs(r.Derphi-p.Derphi(r.Alpha)) > 1e-6 {
			t.Fatalf("%s: derivative %g differs from %g", p.Name, r.Derphi, p.Derphi(r.Alpha))
		}
	}
}

func TestSearchLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	Search(rational, rationalDer, &Options{Logger: &logger})
	if !strings.Contains(buf.String(), "line search converged") {
		t.Fatalf("missing convergence record in %q", buf.String())
	}

	buf.Reset()
	Search(quadratic, quadraticDer, &Options{Logger: &logger, StepMax: Known(-1)})
	if !strings.Contains(buf.String(), `"status":"exceed-step-max"`) {
		t.Fatalf("missing failure record in %q", buf.String())
	}
}

func TestResultErr(t *testing.T) {
	for s, want := range map[Status]error{
		ZoomFailed:     ErrZoomFailed,
		RoundingError:  ErrRounding,
		ExceedStepMax:  ErrStepMax,
		MaxIterReached: ErrMaxIter,
		Warning:        ErrWarning,
		BadInput:       ErrBadInput,
	} {
		r := Result{Status: s}
		if r.OK() || !errors.Is(r.Err(), want) {
			t.Fatalf("%v: got %v want %v", s, r.Err(), want)
		}
	}
	if got := Status(42).String(); got != "Status(42)" {
		t.Fatalf("unexpected status name %q", got)
	}
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12*math.Max(1, math.Abs(b))
}

func TestNumericDerivativeCounts(t *testing.T) {
	for _, s := range []Searcher{New(NocedalWright), New(MoreThuente)} {
		var calls int
		phi := func(a float64) float64 {
			calls++
			return rational(a)
		}
		r := s.Search(phi, nil, nil)
		if !r.OK() {
			t.Fatalf("%T: %v", s, r.Err())
		}
		if r.NumGrad == 0 || r.NumEval <= r.NumGrad {
			t.Fatalf("%T: φ′ must be approximated by counted calls of φ, got %d evals and %d grads", s, r.NumEval, r.NumGrad)
		}
		if r.NumEval != calls {
			t.Fatalf("%T: counted %d evaluations of φ, got %d", s, calls, r.NumEval)
		}
	}
}
