// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// convergence/iteration policy constants
const (
	Rtol        = 1e-8
	MinIters    = 50
	IterPerCell = 10
	StallWindow = 20 // iterations without residual improvement before declaring a stall
)

// Result is the outcome of a PCG solve.
type Result struct {
	X         []float64 // best iterate found (the converged solution, or the best on stall)
	Iters     int
	Converged bool
	Stalled   bool // no residual-norm progress over StallWindow iterations
}

// Solve runs Jacobi-preconditioned conjugate gradient on sys (A·x=b),
// starting from x0 (the previous step's pressure), to
// relative tolerance Rtol, within a budget of max(IterPerCell*N, MinIters)
// iterations. Once iterating, convergence is accepted no earlier than
// iteration MinIters; an x0 that already meets the tolerance is returned
// with Iters=0. If the iteration stalls (no improvement in
// ∥r∥₂ over StallWindow consecutive iterations) the best iterate seen is
// returned with Stalled=true so the caller (the time-stepping controller)
// can cut Δt and retry.
func Solve(sys *System, x0 []float64) Result {
	n := sys.N
	x := append([]float64(nil), x0...)

	bNorm := la.VecNorm(sys.B)
	if bNorm == 0 {
		bNorm = 1
	}

	r := vecSub(sys.B, sys.MatVec(x))
	rNorm := la.VecNorm(r)

	best := append([]float64(nil), x...)
	bestRNorm := rNorm
	stallCount := 0

	if rNorm <= Rtol*bNorm {
		return Result{X: x, Iters: 0, Converged: true}
	}

	z := jacobiPrecond(sys.Diag, r)
	p := append([]float64(nil), z...)
	rz := dot(r, z)

	maxIter := IterPerCell * n
	if maxIter < MinIters {
		maxIter = MinIters
	}

	for it := 1; it <= maxIter; it++ {
		Ap := sys.MatVec(p)
		pAp := dot(p, Ap)
		if pAp == 0 || !isFiniteF(pAp) {
			break // breakdown: p is A-orthogonal to itself (degenerate system)
		}
		alpha := rz / pAp

		for i := 0; i < n; i++ {
			x[i] += alpha * p[i]
			r[i] -= alpha * Ap[i]
		}

		rNorm = la.VecNorm(r)
		if !isFiniteF(rNorm) {
			break
		}
		if rNorm < bestRNorm {
			bestRNorm = rNorm
			copy(best, x)
			stallCount = 0
		} else {
			stallCount++
		}

		if it >= MinIters && rNorm <= Rtol*bNorm {
			return Result{X: x, Iters: it, Converged: true}
		}
		if stallCount >= StallWindow {
			return Result{X: best, Iters: it, Converged: false, Stalled: true}
		}

		z = jacobiPrecond(sys.Diag, r)
		rzNew := dot(r, z)
		beta := rzNew / rz
		if !isFiniteF(beta) {
			break
		}
		for i := 0; i < n; i++ {
			p[i] = z[i] + beta*p[i]
		}
		rz = rzNew
	}

	if bestRNorm <= Rtol*bNorm {
		return Result{X: best, Iters: maxIter, Converged: true}
	}
	return Result{X: best, Iters: maxIter, Converged: false}
}

func jacobiPrecond(diag, r []float64) []float64 {
	z := make([]float64, len(r))
	for i := range r {
		d := diag[i]
		if d == 0 {
			z[i] = r[i]
			continue
		}
		z[i] = r[i] / d
	}
	return z
}

func vecSub(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func isFiniteF(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
