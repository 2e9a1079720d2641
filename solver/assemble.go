// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solver implements the pressure system assembly and iterative
// solve: a symmetric two-point-flux finite-volume system in the unknown
// cell pressures, built from the accumulation term, the lagged face
// transmissibilities of package flux and the well productivity-index
// contributions of package wells, solved by a Jacobi-preconditioned
// conjugate gradient. gofem's fem.Domain assembles the same way (Kb.Put
// per element, then a linear solve against the global Jacobian) but hands
// the triplet to a direct sparse solver (umfpack/mumps) via la.LinSol;
// this reservoir pressure system is symmetric positive (semi-)definite
// and small enough per step that an iterative Krylov solve avoids that
// external dependency.
package solver

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/resim/flux"
	"github.com/cpmech/resim/grid"
	"github.com/cpmech/resim/mporous"
	"github.com/cpmech/resim/wells"
)

// Entry is one (row,col,value) contribution to the assembled matrix,
// recorded alongside every la.Triplet.Put so the PCG solve (package-local,
// see pcg.go) has a plain-Go representation to multiply against without
// reaching back into the Triplet's internals.
type Entry struct {
	I, J int
	V    float64
}

// System is the assembled linear pressure system A·p = b together with its
// diagonal, kept separately since the Jacobi preconditioner needs it and
// extracting it back out of a *la.Triplet after assembly is more fragile
// than recording it on the way in.
type System struct {
	A       *la.Triplet
	Entries []Entry
	B       []float64
	Diag    []float64
	N       int
}

// MatVec computes y = A·x using the recorded entries (duplicate (i,j) pairs
// accumulate, matching la.Triplet's own convention).
func (s *System) MatVec(x []float64) []float64 {
	y := make([]float64, s.N)
	for _, e := range s.Entries {
		y[e.I] += e.V * x[e.J]
	}
	return y
}

// Assemble builds the pressure system for one IMPES step from the grid's
// current (start-of-step) state, the pre-built face list and the active
// wells:
//
//	a_ii += Vp·c_t/Δt + Σ_faces T_face      (accumulation + face self term)
//	a_ij -= T_face, a_ji -= T_face          (off-diagonal face coupling)
//	b_i  += Vp·c_t/Δt·p_i^n ∓ G_face       (known accumulation + gravity)
//	a_ii += PI_total, b_i += PI_total·BHP   (per completion, both control modes)
//
// with T_face = T_geo·(λw_up+λo_up) and G_face the per-phase gravity term
// from flux.Evaluate. The capillary head stays out of the pressure system:
// it is applied explicitly inside the saturation update, with the system's
// unknown being the water pressure.
//
// Rate-controlled wells are assembled identically to pressure-controlled
// ones: by the time Assemble runs, the engine's control step has already
// resolved each rate well's BHP for the step (wells.Well.BHP), so there is
// nothing left for the assembly to special-case.
//
// nwarn counts faces skipped because a non-finite operand surfaced while
// evaluating them, plus well completions skipped for a non-positive or
// non-finite PI_total or a non-finite BHP; an isolated anomaly does not
// abort the assembly.
func Assemble(g *grid.Grid, mdl *mporous.Model, faces []flux.Face, activeWells []*wells.Well, dtDays float64, gravityOn bool) (sys *System, nwarn int, err error) {
	if !(dtDays > 0) {
		return nil, 0, chk.Err("solver: time step must be positive: dt=%v", dtDays)
	}
	n := g.N()
	nnz := n + 4*len(faces) + len(activeWells)
	A := new(la.Triplet)
	A.Init(n, n, nnz)
	b := make([]float64, n)
	diag := make([]float64, n)
	entries := make([]Entry, 0, nnz)
	put := func(i, j int, v float64) {
		A.Put(i, j, v)
		entries = append(entries, Entry{I: i, J: j, V: v})
	}

	for id := 0; id < n; id++ {
		ct := mdl.Ct(g.Sw[id], g.So[id])
		if !isFinite(ct) || ct <= 0 {
			return nil, nwarn, chk.Err("solver: non-finite or non-positive total compressibility at cell %d: ct=%v", id, ct)
		}
		acc := g.PoreVolume(id) * ct / dtDays
		put(id, id, acc)
		diag[id] += acc
		b[id] += acc * g.P[id]
	}

	for _, f := range faces {
		ev := flux.Evaluate(f, mdl, g, gravityOn)
		if ev.Warn {
			nwarn++
			continue
		}
		t := f.Tgeo * ev.LambdaTUp
		if t <= 0 {
			continue
		}
		put(f.I, f.I, t)
		put(f.J, f.J, t)
		put(f.I, f.J, -t)
		put(f.J, f.I, -t)
		diag[f.I] += t
		diag[f.J] += t
		if ev.GravRHS != 0 {
			b[f.I] -= ev.GravRHS
			b[f.J] += ev.GravRHS
		}
	}

	for _, w := range activeWells {
		id := g.Index(w.I, w.J, w.K)
		pi0 := wells.PI0(g.Kx[id], g.Ky[id], g.Dx, g.Dy, g.Dz, w.Rw, w.Skin)
		if pi0 <= 0 || !isFinite(pi0) {
			continue // degenerate completion contributes nothing
		}
		var piTotal float64
		if w.Injector {
			piTotal = pi0 * mdl.KrwMax() / mdl.MuW
		} else {
			piTotal = pi0 * mdl.LambdaT(g.Sw[id])
		}
		if piTotal <= 0 || !isFinite(piTotal) || !isFinite(w.BHP) {
			nwarn++
			continue
		}
		put(id, id, piTotal)
		diag[id] += piTotal
		b[id] += piTotal * w.BHP
	}

	for id := 0; id < n; id++ {
		if !isFinite(b[id]) {
			return nil, nwarn, chk.Err("solver: non-finite right-hand side at cell %d", id)
		}
	}

	return &System{A: A, Entries: entries, B: b, Diag: diag, N: n}, nwarn, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
