// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command resimrun drives the black-oil IMPES engine (package engine)
// through a canned depletion scenario and prints its rate history, the
// way gofem's main.go drives a finite-element simulation from a .sim file
// and prints a solver summary.
package main

import (
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/resim/engine"
)

func main() {

	nx := flag.Int("nx", 20, "number of cells along x")
	nsteps := flag.Int("nsteps", 50, "number of time steps")
	dt := flag.Float64("dt", 1.0, "time step size [days]")
	kSlab := flag.Float64("k", 2.0, "slab permeability [mD]")
	bhpProd := flag.Float64("bhp", 100.0, "producer BHP [bar]")
	verbose := flag.Bool("v", true, "print the rate-history table")
	flag.Parse()

	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			io.Pfred("ERROR: %v\n", err)
		}
	}()

	io.PfWhite("\nresim -- black-oil IMPES reservoir engine\n\n")

	eng, err := runSlabDepletion(*nx, *nsteps, *dt, *kSlab, *bhpProd)
	if err != nil {
		chk.Panic("scenario failed: %v", err)
	}

	if *verbose {
		printHistory(eng)
	}
}

// runSlabDepletion builds and advances a 1D slab depletion scenario: a
// single producer draining a homogeneous slab under constant BHP.
func runSlabDepletion(nx, nsteps int, dt, kSlab, bhpProd float64) (*engine.Engine, error) {
	eng, err := engine.New(nx, 1, 1)
	if err != nil {
		return nil, err
	}
	if err := eng.SetCellDimensions(10, 10, 10); err != nil {
		return nil, err
	}
	if err := eng.SetRelPermProps(0.1, 0.1, 2, 2); err != nil {
		return nil, err
	}
	if err := eng.SetFluidProperties(1.0, 0.5); err != nil {
		return nil, err
	}
	if err := eng.SetFluidDensities(800, 1000); err != nil {
		return nil, err
	}
	if err := eng.SetFluidCompressibilities(1e-4, 4.5e-5); err != nil {
		return nil, err
	}
	if err := eng.SetRockProperties(1e-5, 0, 1, 1); err != nil {
		return nil, err
	}
	if err := eng.SetInitialPressure(300); err != nil {
		return nil, err
	}
	if err := eng.SetInitialSaturation(0.1); err != nil {
		return nil, err
	}
	if err := eng.SetPermeabilityRandomSeeded(kSlab, kSlab, 1); err != nil {
		return nil, err
	}
	if err := eng.AddWell(nx-1, 0, 0, bhpProd, 0.1, 0, false); err != nil {
		return nil, err
	}
	for i := 0; i < nsteps; i++ {
		if err := eng.Step(dt); err != nil {
			if engine.KindOf(err) != engine.StabilityViolation {
				return eng, err
			}
			io.Pfyel("warning: %v\n", err)
		}
		if eng.StopRequested() {
			break
		}
	}
	return eng, nil
}

func printHistory(eng *engine.Engine) {
	io.Pforan("%10s %14s %14s %14s %14s\n", "time[d]", "qo[m3/d]", "qliq[m3/d]", "avgP[bar]", "avgSw")
	for _, h := range eng.GetRateHistory() {
		io.Pf("%10.2f %14.4f %14.4f %14.4f %14.4f\n", h.TimeDays, h.TotalProductionOil, h.TotalProductionLiquid, h.AvgReservoirPressure, h.AvgWaterSaturation)
	}
}
