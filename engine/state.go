// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"github.com/cpmech/resim/grid"
	"github.com/cpmech/resim/wells"
)

// WellState is a read-only snapshot of one perforation, returned by
// GetWellState and accepted by LoadState.
type WellState struct {
	I, J, K    int
	Injector   bool
	Mode       wells.ControlMode
	BHP        float64
	TargetRate float64
	BHPMin     float64
	BHPMax     float64
	Rw         float64
	Skin       float64
	LastRate   float64
}

// GridState is the composite read-only view of the cell store.
type GridState struct {
	Nx, Ny, Nz          int
	Dx, Dy, Dz          float64
	Porosity            []float64
	PermX, PermY, PermZ []float64
	Pressure            []float64
	SatWater            []float64
	SatOil              []float64
}

// GetDimensions returns the grid extents.
func (o *Engine) GetDimensions() (nx, ny, nz int) { return o.g.Nx, o.g.Ny, o.g.Nz }

// GetTime returns the simulated time [days] accumulated so far.
func (o *Engine) GetTime() float64 { return o.timeDays }

// GetPressures returns a copy of the per-cell pressure field [bar].
func (o *Engine) GetPressures() []float64 { return append([]float64(nil), o.g.P...) }

// GetSatWater returns a copy of the per-cell water saturation field.
func (o *Engine) GetSatWater() []float64 { return append([]float64(nil), o.g.Sw...) }

// GetSatOil returns a copy of the per-cell oil saturation field.
func (o *Engine) GetSatOil() []float64 { return append([]float64(nil), o.g.So...) }

// GetPorosity returns a copy of the per-cell porosity field.
func (o *Engine) GetPorosity() []float64 { return append([]float64(nil), o.g.Phi...) }

// GetPermX returns a copy of the per-cell x-permeability field [mD].
func (o *Engine) GetPermX() []float64 { return append([]float64(nil), o.g.Kx...) }

// GetPermY returns a copy of the per-cell y-permeability field [mD].
func (o *Engine) GetPermY() []float64 { return append([]float64(nil), o.g.Ky...) }

// GetPermZ returns a copy of the per-cell z-permeability field [mD].
func (o *Engine) GetPermZ() []float64 { return append([]float64(nil), o.g.Kz...) }

// GetGridState returns a composite read-only snapshot of the cell store.
func (o *Engine) GetGridState() GridState {
	return GridState{
		Nx: o.g.Nx, Ny: o.g.Ny, Nz: o.g.Nz,
		Dx: o.g.Dx, Dy: o.g.Dy, Dz: o.g.Dz,
		Porosity: o.GetPorosity(),
		PermX:    o.GetPermX(),
		PermY:    o.GetPermY(),
		PermZ:    o.GetPermZ(),
		Pressure: o.GetPressures(),
		SatWater: o.GetSatWater(),
		SatOil:   o.GetSatOil(),
	}
}

// GetWellState returns a read-only snapshot of every perforation.
func (o *Engine) GetWellState() []WellState {
	out := make([]WellState, len(o.wellList))
	for i, w := range o.wellList {
		out[i] = WellState{
			I: w.I, J: w.J, K: w.K,
			Injector:   w.Injector,
			Mode:       w.Mode,
			BHP:        w.BHP,
			TargetRate: w.TargetRate,
			BHPMin:     w.BHPMin,
			BHPMax:     w.BHPMax,
			Rw:         w.Rw,
			Skin:       w.Skin,
			LastRate:   w.LastTotalRate,
		}
	}
	return out
}

// GetRateHistory returns a copy of the accumulated rate history.
func (o *Engine) GetRateHistory() []HistoryRecord {
	return append([]HistoryRecord(nil), o.history...)
}

// LoadState restores time, grid state, wells and rate history from a
// previously exported snapshot. The grid snapshot's dimensions must match
// this engine's.
func (o *Engine) LoadState(timeDays float64, gs GridState, ws []WellState, history []HistoryRecord) error {
	if gs.Nx != o.g.Nx || gs.Ny != o.g.Ny || gs.Nz != o.g.Nz {
		return errf(InvalidArgument, "grid state dimensions (%d,%d,%d) do not match engine (%d,%d,%d)", gs.Nx, gs.Ny, gs.Nz, o.g.Nx, o.g.Ny, o.g.Nz)
	}
	if !isFinite(timeDays) || timeDays < 0 {
		return errf(InvalidArgument, "time must be finite and non-negative: time=%v", timeDays)
	}
	snap := grid.Snapshot{
		Nx: gs.Nx, Ny: gs.Ny, Nz: gs.Nz,
		Dx: gs.Dx, Dy: gs.Dy, Dz: gs.Dz,
		Phi: gs.Porosity, Kx: gs.PermX, Ky: gs.PermY, Kz: gs.PermZ,
		P: gs.Pressure, Sw: gs.SatWater, So: gs.SatOil,
	}
	if err := o.g.Load(snap); err != nil {
		return errf(InvalidArgument, "%v", err)
	}
	o.rebuildFaces()
	copy(o.prevP, o.g.P)

	newWells := make([]*wells.Well, 0, len(ws))
	for _, w := range ws {
		nw, err := wells.New(w.I, w.J, w.K, w.BHP, w.Rw, w.Skin, w.Injector, o.g.Nx, o.g.Ny, o.g.Nz)
		if err != nil {
			return errf(InvalidArgument, "%v", err)
		}
		if w.Mode == wells.Rate {
			if err := nw.SetRateControl(w.TargetRate, w.BHPMin, w.BHPMax); err != nil {
				return errf(InvalidArgument, "%v", err)
			}
		}
		nw.LastTotalRate = w.LastRate
		newWells = append(newWells, nw)
	}
	o.wellList = newWells

	o.timeDays = timeDays
	o.history = append([]HistoryRecord(nil), history...)
	o.cumInjRes, o.cumProdLiqRes = 0, 0
	for i, h := range o.history {
		prev := 0.0
		if i > 0 {
			prev = o.history[i-1].TimeDays
		}
		dt := h.TimeDays - prev
		o.cumInjRes += h.TotalInjectionReservoir * dt
		o.cumProdLiqRes += h.TotalProductionLiquidReservoir * dt
	}
	return nil
}
