// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/resim/flux"
	"github.com/cpmech/resim/wells"
)

// Test_depletion01_pss drives a 1D slab depletion case: a homogeneous
// 20-cell slab at connate water drained by a single constant-BHP producer
// at the far end. After the early diffusive transient the decline is
// pseudo-steady-state: the rate decays monotonically and the average
// pressure follows BHP + (p0-BHP)·exp(-t/τ) with a single decay constant.
// The permeability is chosen so the depletion time constant
// τ = ΣVp·ct/J ≈ 17 d (J the series combination of the well PI and the
// L/3 linear-flow slab conductance) sits inside the 50-day horizon.
func Test_depletion01_pss(tst *testing.T) {
	chk.PrintTitle("depletion01")

	nx := 20
	dx, dy, dz := 10.0, 10.0, 10.0
	kSlab := 2.0
	p0, bhp := 300.0, 100.0
	rw := 0.1

	eng, err := New(nx, 1, 1)
	if err != nil {
		tst.Fatalf("New: %v", err)
	}
	must := func(e error) {
		if e != nil {
			tst.Fatalf("setup: %v", e)
		}
	}
	must(eng.SetCellDimensions(dx, dy, dz))
	must(eng.SetRelPermProps(0.1, 0.1, 2, 2))
	must(eng.SetFluidProperties(1.0, 0.5))
	must(eng.SetFluidDensities(800, 1000))
	must(eng.SetFluidCompressibilities(1e-4, 4.5e-5))
	must(eng.SetRockProperties(1e-5, 0, 1, 1))
	must(eng.SetInitialPressure(p0))
	must(eng.SetInitialSaturation(0.1))
	must(eng.SetPermeabilityRandomSeeded(kSlab, kSlab, 1))
	must(eng.AddWell(nx-1, 0, 0, bhp, rw, 0, false))

	for step := 0; step < 50; step++ {
		if err := eng.Step(1.0); err != nil && KindOf(err) != StabilityViolation {
			tst.Fatalf("Step %d: %v", step, err)
		}
	}

	hist := eng.GetRateHistory()
	if len(hist) != 50 {
		tst.Fatalf("expected 50 history records, got %d", len(hist))
	}

	// the rate declines monotonically once depletion is under way (the
	// tolerance absorbs iterative-solver noise in the tail)
	tol := 1e-4 * hist[0].TotalProductionLiquid
	for i := 1; i < len(hist); i++ {
		if hist[i].TotalProductionLiquid > hist[i-1].TotalProductionLiquid+tol {
			tst.Errorf("record %d: production rate increased during depletion: %v -> %v",
				i, hist[i-1].TotalProductionLiquid, hist[i].TotalProductionLiquid)
		}
	}

	// lumped PSS estimate of the decay constant, for scale
	phi, ct := 0.2, 0.9*1e-4+0.1*4.5e-5+1e-5
	ctot := float64(nx) * phi * dx * dy * dz * ct
	lamT := 1.0 // kro(Swc)/muo at connate water
	jWell := wells.PI0(kSlab, kSlab, dx, dy, dz, rw, 0) * lamT
	jSlab := 3 * flux.TransConstant * kSlab * lamT * dy * dz / (float64(nx) * dx)
	j := 1 / (1/jWell + 1/jSlab)
	tauPSS := ctot / j

	// exponential character: decay constants fitted over two disjoint late
	// windows must agree, and the terminal pressure must sit on the decline
	// extrapolated from the earlier window
	drawdown := func(t int) float64 { return hist[t-1].AvgReservoirPressure - bhp }
	tau1 := 15.0 / math.Log(drawdown(20)/drawdown(35))
	tau2 := 15.0 / math.Log(drawdown(35)/drawdown(50))
	if rel := math.Abs(tau1-tau2) / tau1; rel > 0.03 {
		tst.Errorf("decline is not single-exponential: tau[20,35]=%.2f d tau[35,50]=%.2f d (%.1f%% apart)", tau1, tau2, 100*rel)
	}
	if tau1 < 0.3*tauPSS || tau1 > 3*tauPSS {
		tst.Errorf("fitted decay constant %.2f d far from the lumped PSS estimate %.2f d", tau1, tauPSS)
	}
	pExtrap := bhp + drawdown(35)*math.Exp(-15.0/tau1)
	pSim := hist[49].AvgReservoirPressure
	if rel := math.Abs(pSim-pExtrap) / pExtrap; rel > 0.01 {
		tst.Errorf("terminal average pressure %.3f bar deviates %.4f from the PSS decline %.3f bar", pSim, rel, pExtrap)
	}

	// the producer cell may excurse toward but never below its BHP
	if pProd := eng.GetPressures()[nx-1]; pProd < bhp-1e-6 {
		tst.Errorf("producer cell pressure fell below BHP: %v < %v", pProd, bhp)
	}
}
