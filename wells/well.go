// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wells implements the Peaceman well model: a flat,
// ordered container of perforations referring to grid cells by id only,
// each with a control mode (pressure or rate), productivity index, BHP
// bounds and rate targets.
package wells

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// ControlMode is the well control tag.
type ControlMode int

// well control modes
const (
	Pressure ControlMode = iota
	Rate
)

// validation bounds
const (
	BHPLo = -100.0
	BHPHi = 2000.0

	// rate-controlled wells need a control range that is not strangled
	MinInjectorBHPMax = 2000.0
	MinProducerBHPMin = 0.0
)

// Well is one perforation: a cell-indexed completion with its own control.
// A logical multi-layer "well" is represented as several Well records
// sharing (I,J) across different K; the engine treats each independently.
type Well struct {

	// location (immutable after add_well)
	I, J, K  int
	Injector bool

	// completion geometry
	Rw   float64 // wellbore radius [m]
	Skin float64 // skin factor

	// control
	Mode       ControlMode
	BHP        float64 // pressure-mode target, or current BHP for rate-mode
	TargetRate float64 // rate-mode target [m³/day]
	BHPMin     float64 // rate-mode lower bound [bar]
	BHPMax     float64 // rate-mode upper bound [bar]

	// runtime bookkeeping (mutated only by the engine)
	LastTotalRate float64 // most recently accepted total rate [m³/day], for the per-step rate-change check
}

// New validates and constructs a perforation. nx,ny,nz bound the cell
// indices; the well is not constructed if validation fails.
func New(i, j, k int, bhp, rw, skin float64, injector bool, nx, ny, nz int) (*Well, error) {
	if i < 0 || i >= nx || j < 0 || j >= ny || k < 0 || k >= nz {
		return nil, chk.Err("wells: perforation (%d,%d,%d) out of bounds (%d,%d,%d)", i, j, k, nx, ny, nz)
	}
	if !isFinite(bhp) || bhp < BHPLo || bhp > BHPHi {
		return nil, chk.Err("wells: BHP=%v out of range [%v,%v]", bhp, BHPLo, BHPHi)
	}
	if !(rw > 0) || !isFinite(rw) {
		return nil, chk.Err("wells: well radius must be finite and positive: rw=%v", rw)
	}
	if skin < 0 || !isFinite(skin) {
		return nil, chk.Err("wells: skin must be finite and non-negative: skin=%v", skin)
	}
	return &Well{
		I: i, J: j, K: k,
		Injector: injector,
		Rw:       rw,
		Skin:     skin,
		Mode:     Pressure,
		BHP:      bhp,
		BHPMin:   BHPLo,
		BHPMax:   BHPHi,
	}, nil
}

// SetRateControl switches the well to rate control with the given target
// and BHP bounds, widening the bounds where needed so the controller is
// never strangled.
func (w *Well) SetRateControl(target, bhpMin, bhpMax float64) error {
	if !isFinite(target) {
		return chk.Err("wells: rate target must be finite: target=%v", target)
	}
	if !isFinite(bhpMin) || !isFinite(bhpMax) || bhpMin >= bhpMax {
		return chk.Err("wells: invalid BHP bounds: min=%v max=%v", bhpMin, bhpMax)
	}
	if w.Injector && bhpMax < MinInjectorBHPMax {
		bhpMax = MinInjectorBHPMax
	}
	if !w.Injector && bhpMin > MinProducerBHPMin {
		bhpMin = MinProducerBHPMin
	}
	w.Mode = Rate
	w.TargetRate = target
	w.BHPMin = bhpMin
	w.BHPMax = bhpMax
	if w.BHP < w.BHPMin {
		w.BHP = w.BHPMin
	}
	if w.BHP > w.BHPMax {
		w.BHP = w.BHPMax
	}
	return nil
}

// SetPressureControl switches the well back to pressure control at bhp.
func (w *Well) SetPressureControl(bhp float64) error {
	if !isFinite(bhp) || bhp < BHPLo || bhp > BHPHi {
		return chk.Err("wells: BHP=%v out of range [%v,%v]", bhp, BHPLo, BHPHi)
	}
	w.Mode = Pressure
	w.BHP = bhp
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
