// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cpmech/resim/flux"
	"github.com/cpmech/resim/solver"
	"github.com/cpmech/resim/wells"
)

// snapshot is the start-of-attempt rollback point.
type snapshot struct {
	p, sw, so []float64
	wellBHP   []float64
	wellLast  []float64
}

func (o *Engine) takeSnapshot() snapshot {
	s := snapshot{
		p:  append([]float64(nil), o.g.P...),
		sw: append([]float64(nil), o.g.Sw...),
		so: append([]float64(nil), o.g.So...),
	}
	for _, w := range o.wellList {
		s.wellBHP = append(s.wellBHP, w.BHP)
		s.wellLast = append(s.wellLast, w.LastTotalRate)
	}
	return s
}

func (o *Engine) restoreSnapshot(s snapshot) {
	copy(o.g.P, s.p)
	copy(o.g.Sw, s.sw)
	copy(o.g.So, s.so)
	for i, w := range o.wellList {
		w.BHP = s.wellBHP[i]
		w.LastTotalRate = s.wellLast[i]
	}
}

// Step advances the simulation by dtDays, sub-cycling internally: each
// sub-step is attempted at the largest size not yet rejected, halved on a
// stability violation or solver stall (up to MaxHalvings times per
// attempt), and grown back after acceptance, until the whole interval is
// covered. One history record is appended per Step call.
//
// If even the smallest sub-step keeps violating the limiters, the engine
// advances with the most recent self-consistent estimate anyway and
// reports a StabilityViolation (or SolverDidNotConverge when the pressure
// solve was the culprit) so the caller sees the degraded step rather than
// a silent no-op.
func (o *Engine) Step(dtDays float64) error {
	if !isFinite(dtDays) || dtDays < 0 {
		return errf(InvalidArgument, "time step must be finite and non-negative: dt=%v", dtDays)
	}
	if dtDays == 0 {
		return nil // no-op on state by contract
	}
	if !o.fluidsConfigured {
		return errf(NotInitialized, "fluid viscosities must be set before stepping (SetFluidProperties)")
	}

	var firstViolation error
	remaining := dtDays
	sub := dtDays
	for remaining > 1e-12*dtDays {
		if sub > remaining {
			sub = remaining
		}
		snap := o.takeSnapshot()
		accepted := false
		solverFailed := false
		for halving := 0; halving <= MaxHalvings; halving++ {
			ok, warned := o.tryStep(sub)
			if ok && !warned {
				accepted = true
				break
			}
			solverFailed = warned
			o.restoreSnapshot(snap)
			if halving < MaxHalvings {
				sub /= 2
			}
		}
		if !accepted {
			// halvings exhausted: take the smallest sub-step with the most
			// recent successful estimate and surface the violation
			if firstViolation == nil {
				kind := StabilityViolation
				if solverFailed {
					kind = SolverDidNotConverge
				}
				firstViolation = errf(kind, "step rejected after %d halvings (dt=%v of %v requested)", MaxHalvings, sub, dtDays)
			}
			ok, warned := o.tryStep(sub)
			if !ok && warned {
				// not even a degraded advance is possible (solver breakdown)
				o.restoreSnapshot(snap)
				break
			}
			// a limiter violation at the smallest sub-step is accepted as
			// the degraded advance; the state is still self-consistent
		}
		o.timeDays += sub
		remaining -= sub
		if sub < dtDays {
			sub *= 2
		}
	}
	o.appendHistory()
	return firstViolation
}

// tryStep attempts a single IMPES sub-step at dt and reports whether it
// satisfied every stability check. warned additionally flags a solver
// stall or assembly anomaly: the state is still self-consistent but the
// controller should treat the attempt as failed and cut dt.
func (o *Engine) tryStep(dt float64) (ok, warned bool) {
	p0 := append([]float64(nil), o.g.P...)
	sw0 := append([]float64(nil), o.g.Sw...)

	lastRates := make([]float64, len(o.wellList))
	for i, w := range o.wellList {
		lastRates[i] = w.LastTotalRate
	}

	o.updateWellControl(dt)

	sys, nwarn, aerr := solver.Assemble(o.g, o.mdl, o.faces, o.wellList, dt, o.mdl.GravityOn)
	o.FluxWarnings += nwarn
	if aerr != nil {
		return false, true
	}

	res := solver.Solve(sys, o.prevP)
	if !res.Converged {
		o.SolverStalls++
		return false, true
	}
	copy(o.g.P, res.X)
	copy(o.prevP, res.X)

	o.advanceSaturation(dt, sw0)

	maxDSw := floats.Distance(o.g.Sw, sw0, math.Inf(1))
	maxDP := floats.Distance(o.g.P, p0, math.Inf(1))

	maxRateChangeFrac := 0.0
	for i, w := range o.wellList {
		cur := o.currentWellRate(w)
		prev := lastRates[i]
		if math.Abs(prev) > 1e-9 {
			// the guard compares successive nonzero rates; a well coming
			// online from rest is not a rate "change" to damp
			frac := math.Abs(cur-prev) / math.Abs(prev)
			if frac > maxRateChangeFrac {
				maxRateChangeFrac = frac
			}
		}
		w.LastTotalRate = cur
	}

	if maxDSw > o.dSwMax || maxDP > o.dPMax || maxRateChangeFrac > o.rateChangeFrac {
		return false, false
	}
	return true, false
}

// updateWellControl resolves the effective BHP of every rate-controlled
// well for this sub-step, honoring the per-step BHP change cap.
func (o *Engine) updateWellControl(dt float64) {
	for _, w := range o.wellList {
		if w.Mode != wells.Rate {
			continue
		}
		id := o.g.Index(w.I, w.J, w.K)
		pi0 := wells.PI0(o.g.Kx[id], o.g.Ky[id], o.g.Dx, o.g.Dy, o.g.Dz, w.Rw, w.Skin)
		if pi0 <= 0 || !isFinite(pi0) {
			o.WellSkips++
			continue
		}
		pCell := o.g.P[id]
		var rateOf func(bhp float64) float64
		if w.Injector {
			// InjectorRate is negative (into the cell) under normal
			// injection; negate so rateOf is the positive injected
			// magnitude, monotonic in bhp, matching the positive rate
			// target the bisection below expects.
			lamInj := o.mdl.KrwMax() / o.mdl.MuW
			rateOf = func(bhp float64) float64 { return -wells.InjectorRate(pi0, lamInj, pCell, bhp) }
		} else {
			lamT := o.mdl.LambdaT(o.g.Sw[id])
			rateOf = func(bhp float64) float64 {
				q, _, _ := wells.ProducerRates(pi0, lamT, o.mdl.Fw(o.g.Sw[id]), pCell, bhp)
				return q
			}
		}
		target := w.TargetRate
		newBHP := wells.SolveBHPForRate(target, w.BHPMin, w.BHPMax, rateOf)
		newBHP = wells.DampBHP(newBHP, w.BHP, w.BHPMin, w.BHPMax)
		if isFinite(newBHP) {
			w.BHP = newBHP
		}
	}
}

// advanceSaturation performs the explicit water-saturation update: net
// water volume balance per cell from face fluxes and well perforation
// rates, then the hard clamp into [Swc, 1-Sor] with So kept as the exact
// complement.
func (o *Engine) advanceSaturation(dt float64, swStart []float64) {
	n := o.g.N()
	dVw := make([]float64, n)

	for _, f := range o.faces {
		ev := flux.Evaluate(f, o.mdl, o.g, o.mdl.GravityOn)
		if ev.Warn {
			o.FluxWarnings++
			continue
		}
		// ev.Fw is the water volumetric rate flowing INTO cell I (flux.Eval
		// doc comment); I gains it, J (the source) loses it.
		dVw[f.I] += ev.Fw
		dVw[f.J] -= ev.Fw
	}

	for _, w := range o.wellList {
		_, _, qWater, ok := o.phaseRates(w)
		if !ok {
			o.WellSkips++
			continue
		}
		// perforation rate convention: positive = out of the cell
		dVw[o.g.Index(w.I, w.J, w.K)] -= qWater
	}

	for id := 0; id < n; id++ {
		vp := o.g.PoreVolume(id)
		if vp <= 0 {
			continue
		}
		dSw := dt * dVw[id] / vp
		sw := swStart[id] + dSw
		sw = clampf(sw, o.swc, 1-o.sor)
		o.g.Sw[id] = sw
		o.g.So[id] = 1 - sw
	}
}

// currentWellRate returns the perforation's current total volumetric rate
// [m³/day] (positive = production, negative = injection) at the well's
// present BHP and cell state, for the per-step rate-change stability check.
func (o *Engine) currentWellRate(w *wells.Well) float64 {
	q, _, _, _ := o.phaseRates(w)
	return q
}

// phaseRates returns the perforation's current (total, oil, water)
// volumetric rates [m³/day] under the positive-is-production sign
// convention, at the well's present BHP and cell state. ok is false if the
// completion is degenerate (zero or non-finite PI) and the rates should
// not be trusted.
func (o *Engine) phaseRates(w *wells.Well) (qTotal, qOil, qWater float64, ok bool) {
	id := o.g.Index(w.I, w.J, w.K)
	pi0 := wells.PI0(o.g.Kx[id], o.g.Ky[id], o.g.Dx, o.g.Dy, o.g.Dz, w.Rw, w.Skin)
	if pi0 <= 0 || !isFinite(pi0) {
		return 0, 0, 0, false
	}
	pCell := o.g.P[id]
	if w.Injector {
		lamInj := o.mdl.KrwMax() / o.mdl.MuW
		q := wells.InjectorRate(pi0, lamInj, pCell, w.BHP)
		if !isFinite(q) {
			return 0, 0, 0, false
		}
		return q, 0, q, true
	}
	lamT := o.mdl.LambdaT(o.g.Sw[id])
	fw := o.mdl.Fw(o.g.Sw[id])
	q, qo, qw := wells.ProducerRates(pi0, lamT, fw, pCell, w.BHP)
	if !isFinite(q) {
		return 0, 0, 0, false
	}
	return q, qo, qw, true
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
