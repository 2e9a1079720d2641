// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// layerAvgSw returns the volume-averaged water saturation of layer k
// (uniform cells, so a plain average).
func layerAvgSw(eng *Engine, k int) float64 {
	nx, ny, _ := eng.GetDimensions()
	sw := eng.GetSatWater()
	var sum float64
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			sum += sw[i+nx*(j+ny*k)]
		}
	}
	return sum / float64(nx*ny)
}

// Test_gravity01_segregation drives a closed 10x10x10 box with uniform
// initial saturation and gravity on: water must segregate downward
// (k grows with depth), oil upward, with the total water volume conserved.
func Test_gravity01_segregation(tst *testing.T) {
	chk.PrintTitle("gravity01")

	nz := 10
	eng, err := New(10, 10, nz)
	if err != nil {
		tst.Fatalf("New: %v", err)
	}
	must := func(e error) {
		if e != nil {
			tst.Fatalf("setup: %v", e)
		}
	}
	must(eng.SetCellDimensions(10, 10, 5))
	must(eng.SetRelPermProps(0.1, 0.1, 2, 2))
	must(eng.SetFluidProperties(1.0, 0.5))
	must(eng.SetFluidDensities(800, 1000))
	must(eng.SetFluidCompressibilities(1e-4, 4.5e-5))
	must(eng.SetRockProperties(1e-5, 0, 1, 1))
	must(eng.SetInitialPressure(300))
	must(eng.SetInitialSaturation(0.5))
	iso := make([]float64, nz)
	for i := range iso {
		iso[i] = 100
	}
	must(eng.SetPermeabilityPerLayer(iso, iso, iso))
	eng.SetGravityEnabled(true)

	sumSw := func() float64 {
		var s float64
		for _, v := range eng.GetSatWater() {
			s += v
		}
		return s
	}

	sw0Total := sumSw()
	lastBottom := layerAvgSw(eng, nz-1)
	lastTop := layerAvgSw(eng, 0)

	for step := 0; step < 200; step++ {
		if err := eng.Step(1.0); err != nil && KindOf(err) != StabilityViolation {
			tst.Fatalf("Step %d: %v", step, err)
		}
		if (step+1)%10 == 0 {
			bottom := layerAvgSw(eng, nz-1)
			top := layerAvgSw(eng, 0)
			if bottom < lastBottom-1e-6 {
				tst.Errorf("step %d: bottom-layer Sw decreased: %v -> %v", step, lastBottom, bottom)
			}
			if top > lastTop+1e-6 {
				tst.Errorf("step %d: top-layer Sw increased: %v -> %v", step, lastTop, top)
			}
			lastBottom, lastTop = bottom, top
		}
	}

	if diff := lastBottom - lastTop; diff <= 0.2 {
		tst.Errorf("expected terminal bottom-top segregation > 0.2, got %v (bottom=%v top=%v)", diff, lastBottom, lastTop)
	}
	if rel := math.Abs(sumSw()-sw0Total) / sw0Total; rel > 1e-6 {
		tst.Errorf("water volume not conserved under closed-box segregation: relative drift %v", rel)
	}
}
