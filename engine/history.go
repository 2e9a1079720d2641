// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "gonum.org/v1/gonum/floats"

// HistoryRecord is one accepted step's rate-history entry: the
// instantaneous total well rates at the recorded time, plus the grid-wide
// averages. Reservoir- and surface-condition fields differ only through
// the formation volume factors; with Bo=Bw=1 they are numerically equal by
// construction.
type HistoryRecord struct {
	TimeDays                       float64
	TotalProductionOil             float64 // [m³/day]
	TotalProductionLiquid          float64 // [m³/day]
	TotalProductionLiquidReservoir float64 // [m³/day]
	TotalInjection                 float64 // [m³/day]
	TotalInjectionReservoir        float64 // [m³/day]
	AvgReservoirPressure           float64 // [bar]
	AvgWaterSaturation             float64

	// VRR is the cumulative voidage replacement ratio to date: cumulative
	// reservoir-condition injection over cumulative reservoir-condition
	// liquid production. 0 until something has been produced.
	VRR float64
}

// appendHistory computes and appends one rate-history record for the step
// just accepted, updating the engine's running cumulative
// reservoir-condition totals behind VRR.
func (o *Engine) appendHistory() {
	var prodOil, prodLiq, inj float64
	for _, w := range o.wellList {
		qTotal, qOil, qWater, ok := o.phaseRates(w)
		if !ok {
			continue
		}
		if w.Injector {
			inj += -qTotal // qTotal is negative (into the cell) for a normal injector
		} else {
			prodOil += qOil
			prodLiq += qOil + qWater
		}
	}

	n := o.g.N()
	avgP := floats.Sum(o.g.P) / float64(n)
	avgSw := floats.Sum(o.g.Sw) / float64(n)

	lastTime := 0.0
	if len(o.history) > 0 {
		lastTime = o.history[len(o.history)-1].TimeDays
	}
	dt := o.timeDays - lastTime
	o.cumInjRes += inj * o.mdl.Bw * dt
	o.cumProdLiqRes += prodLiq * o.mdl.Bo * dt

	vrr := 0.0
	if o.cumProdLiqRes > 0 {
		vrr = o.cumInjRes / o.cumProdLiqRes
	}

	o.history = append(o.history, HistoryRecord{
		TimeDays:                       o.timeDays,
		TotalProductionOil:             prodOil,
		TotalProductionLiquid:          prodLiq,
		TotalProductionLiquidReservoir: prodLiq * o.mdl.Bo,
		TotalInjection:                 inj,
		TotalInjectionReservoir:        inj * o.mdl.Bw,
		AvgReservoirPressure:           avgP,
		AvgWaterSaturation:             avgSw,
		VRR:                            vrr,
	})
}
