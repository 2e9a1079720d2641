// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine implements the IMPES time-stepping controller and the
// engine's external API: construction, between-step configuration,
// the IMPES step loop with rollback/sub-cycling, and read-only snapshot
// accessors. It is the orchestration layer that owns package grid's cell
// store, package wells' perforations, and drives package flux/solver each
// step.
package engine

import (
	"math"

	"github.com/cpmech/gosl/fun"

	"github.com/cpmech/resim/flux"
	"github.com/cpmech/resim/grid"
	"github.com/cpmech/resim/mconduct"
	"github.com/cpmech/resim/mporous"
	"github.com/cpmech/resim/mreten"
	"github.com/cpmech/resim/wells"
)

// default rel-perm/capillary endpoints and stability thresholds used to
// seed a freshly constructed Engine, so Step only needs fluid viscosities
// to be configured before it can run.
const (
	defaultSwc            = 0.1
	defaultSor            = 0.1
	defaultNw             = 2.0
	defaultNo             = 2.0
	defaultLambda         = 2.0
	defaultPe             = 0.0 // capillary pressure disabled until SetCapillaryParams is called
	defaultDSwMax         = 0.1
	defaultDPMax          = 75.0 // bar
	defaultRateChangeFrac = 0.75

	// MaxHalvings bounds the sub-stepping retries of a single sub-step.
	MaxHalvings = 6
)

// Engine owns the grid, the rock/fluid property model, the wells, and the
// append-only rate history for one reservoir simulation; callers only see
// copies of any of them.
type Engine struct {
	g *grid.Grid

	cnd mconduct.Model
	lrm mreten.Model
	mdl *mporous.Model

	faces []flux.Face // rebuilt whenever cell dimensions or permeabilities change

	wellList []*wells.Well

	// rel-perm / capillary parameters tracked here because mconduct/mreten
	// models are re-Init'd as a pair whenever either changes (mreten needs
	// Swc/Sor too)
	swc, sor, nw, no, pe, lam float64

	// well-control policy defaults applied by SetWellControlModes /
	// SetTargetWellRates / SetWellBHPLimits to wells added after the call
	// and, for SetTargetWellRates and SetWellBHPLimits, to every existing
	// rate-controlled well immediately
	injectorMode, producerMode wells.ControlMode
	qInjTarget, qProdTarget    float64
	bhpMin, bhpMax             float64

	// per-step stability thresholds
	dSwMax, dPMax, rateChangeFrac float64

	fluidsConfigured bool // SetFluidProperties called at least once

	timeDays float64
	history  []HistoryRecord

	// cumulative reservoir-condition totals behind the VRR field of
	// HistoryRecord
	cumInjRes, cumProdLiqRes float64

	stopReq bool

	// scratch retained across steps to avoid allocation churn
	prevP []float64

	// anomaly counters
	FluxWarnings int
	SolverStalls int
	WellSkips    int
}

// New constructs an nx*ny*nz engine with default geometry, rock/fluid
// endpoints and stability thresholds; fluid viscosities must still be set
// via SetFluidProperties before Step will run.
func New(nx, ny, nz int) (*Engine, error) {
	g, err := grid.New(nx, ny, nz)
	if err != nil {
		return nil, errf(InvalidArgument, "%v", err)
	}
	o := &Engine{
		g:             g,
		swc:           defaultSwc,
		sor:           defaultSor,
		nw:            defaultNw,
		no:            defaultNo,
		pe:            defaultPe,
		lam:           defaultLambda,
		injectorMode:  wells.Pressure,
		producerMode:  wells.Pressure,
		bhpMin:        wells.BHPLo,
		bhpMax:        wells.BHPHi,
		dSwMax:        defaultDSwMax,
		dPMax:         defaultDPMax,
		rateChangeFrac: defaultRateChangeFrac,
	}
	if err := o.reinitRockFluidModels(); err != nil {
		return nil, err
	}
	o.mdl.Bo, o.mdl.Bw = 1, 1
	o.rebuildFaces()
	o.prevP = append([]float64(nil), g.P...)
	return o, nil
}

// reinitRockFluidModels allocates fresh Corey/BrooksCorey models from the
// engine's current endpoint parameters and re-composes mdl around them,
// preserving the previously-set fluid/rock scalar properties.
func (o *Engine) reinitRockFluidModels() error {
	cnd, err := mconduct.New("corey")
	if err != nil {
		return errf(InternalInvariant, "%v", err)
	}
	if err := cnd.Init(fun.Prms{
		{N: "nw", V: o.nw}, {N: "no", V: o.no},
		{N: "swc", V: o.swc}, {N: "sor", V: o.sor},
	}); err != nil {
		return errf(ConfigConflict, "%v", err)
	}
	lrm, err := mreten.New("bc")
	if err != nil {
		return errf(InternalInvariant, "%v", err)
	}
	if err := lrm.Init(fun.Prms{
		{N: "lam", V: maxf(o.lam, 1e-6)}, {N: "pe", V: o.pe},
		{N: "swc", V: o.swc}, {N: "sor", V: o.sor},
	}); err != nil {
		return errf(ConfigConflict, "%v", err)
	}
	var prev *mporous.Model
	if o.mdl != nil {
		prev = o.mdl
	}
	o.cnd, o.lrm = cnd, lrm
	o.mdl = mporous.NewModel(cnd, lrm)
	if prev != nil {
		o.mdl.MuW, o.mdl.MuO = prev.MuW, prev.MuO
		o.mdl.RhoW, o.mdl.RhoO = prev.RhoW, prev.RhoO
		o.mdl.Cw, o.mdl.Co = prev.Cw, prev.Co
		o.mdl.CRock, o.mdl.DRef = prev.CRock, prev.DRef
		o.mdl.Bo, o.mdl.Bw = prev.Bo, prev.Bw
		o.mdl.GravityOn = prev.GravityOn
	}
	return nil
}

func (o *Engine) rebuildFaces() { o.faces = flux.BuildFaces(o.g) }

// --- configuration (callable only between steps) ---

// SetCellDimensions sets the uniform cell extents Δx,Δy,Δz [m].
func (o *Engine) SetCellDimensions(dx, dy, dz float64) error {
	if err := o.g.SetCellDimensions(dx, dy, dz); err != nil {
		return errf(InvalidArgument, "%v", err)
	}
	o.rebuildFaces()
	return nil
}

// SetInitialPressure broadcasts p0 [bar] to every cell.
func (o *Engine) SetInitialPressure(p0 float64) error {
	if err := o.g.SetInitialPressure(p0); err != nil {
		return errf(InvalidArgument, "%v", err)
	}
	copy(o.prevP, o.g.P)
	return nil
}

// SetInitialSaturation broadcasts sw0 (clamped into [Swc,1-Sor]) to every
// cell.
func (o *Engine) SetInitialSaturation(sw0 float64) error {
	if err := o.g.SetInitialSaturation(sw0, o.swc, o.sor); err != nil {
		return errf(InvalidArgument, "%v", err)
	}
	return nil
}

// SetFluidProperties sets the oil/water viscosities [cP], oil first.
func (o *Engine) SetFluidProperties(muO, muW float64) error {
	if !isFinite(muO) || !isFinite(muW) || muO <= 0 || muW <= 0 {
		return errf(InvalidArgument, "fluid viscosities must be finite and positive: muo=%v muw=%v", muO, muW)
	}
	o.mdl.MuO, o.mdl.MuW = muO, muW
	o.fluidsConfigured = true
	return nil
}

// SetFluidDensities sets the oil/water densities [kg/m³], oil first.
func (o *Engine) SetFluidDensities(rhoO, rhoW float64) error {
	if !isFinite(rhoO) || !isFinite(rhoW) || rhoO <= 0 || rhoW <= 0 {
		return errf(InvalidArgument, "fluid densities must be finite and positive: rhoo=%v rhow=%v", rhoO, rhoW)
	}
	o.mdl.RhoO, o.mdl.RhoW = rhoO, rhoW
	return nil
}

// SetFluidCompressibilities sets the oil/water compressibilities [1/bar],
// oil first.
func (o *Engine) SetFluidCompressibilities(cO, cW float64) error {
	if !isFinite(cO) || !isFinite(cW) || cO < 0 || cW < 0 {
		return errf(InvalidArgument, "fluid compressibilities must be finite and non-negative: co=%v cw=%v", cO, cW)
	}
	o.mdl.Co, o.mdl.Cw = cO, cW
	return nil
}

// SetRockProperties sets rock compressibility [1/bar], reference depth [m]
// and the oil/water formation volume factors.
func (o *Engine) SetRockProperties(cRock, dRef, bo, bw float64) error {
	if !isFinite(cRock) || cRock < 0 {
		return errf(InvalidArgument, "rock compressibility must be finite and non-negative: crock=%v", cRock)
	}
	if !isFinite(dRef) {
		return errf(InvalidArgument, "reference depth must be finite: dref=%v", dRef)
	}
	if !isFinite(bo) || bo <= 0 || !isFinite(bw) || bw <= 0 {
		return errf(InvalidArgument, "formation volume factors must be finite and positive: bo=%v bw=%v", bo, bw)
	}
	o.mdl.CRock, o.mdl.DRef, o.mdl.Bo, o.mdl.Bw = cRock, dRef, bo, bw
	return nil
}

// SetRelPermProps sets the Corey rel-perm endpoints and exponents,
// re-initialising both the rel-perm and capillary models (the latter also
// depends on Swc/Sor).
func (o *Engine) SetRelPermProps(swc, sor, nw, no float64) error {
	if !isFinite(swc) || !isFinite(sor) || swc < 0 || sor < 0 || swc+sor >= 1 {
		return errf(ConfigConflict, "Swc+Sor must be < 1: swc=%v sor=%v", swc, sor)
	}
	if !isFinite(nw) || !isFinite(no) || nw <= 0 || no <= 0 {
		return errf(InvalidArgument, "Corey exponents must be finite and positive: nw=%v no=%v", nw, no)
	}
	o.swc, o.sor, o.nw, o.no = swc, sor, nw, no
	return o.reinitRockFluidModels()
}

// SetCapillaryParams sets the Brooks-Corey entry pressure [bar] and
// pore-distribution index; Pe=0 disables capillary pressure.
func (o *Engine) SetCapillaryParams(pe, lam float64) error {
	if !isFinite(pe) || pe < 0 {
		return errf(InvalidArgument, "capillary entry pressure must be finite and non-negative: pe=%v", pe)
	}
	if pe > 0 && (!isFinite(lam) || lam <= 0) {
		return errf(InvalidArgument, "capillary pore-distribution index must be finite and positive: lam=%v", lam)
	}
	o.pe, o.lam = pe, lam
	return o.reinitRockFluidModels()
}

// SetGravityEnabled toggles the gravity head term in the flux kernel.
func (o *Engine) SetGravityEnabled(on bool) { o.mdl.GravityOn = on }

// SetStabilityParams sets the per-step CFL-like limiters: the maximum
// allowed saturation change, pressure change [bar] and well rate change
// fraction per sub-step.
func (o *Engine) SetStabilityParams(dSwMax, dPMax, rateChangeFrac float64) error {
	if !isFinite(dSwMax) || dSwMax <= 0 {
		return errf(InvalidArgument, "max saturation change must be finite and positive: dswmax=%v", dSwMax)
	}
	if !isFinite(dPMax) || dPMax <= 0 {
		return errf(InvalidArgument, "max pressure change must be finite and positive: dpmax=%v", dPMax)
	}
	if !isFinite(rateChangeFrac) || rateChangeFrac <= 0 {
		return errf(InvalidArgument, "max well rate change fraction must be finite and positive: rho=%v", rateChangeFrac)
	}
	o.dSwMax, o.dPMax, o.rateChangeFrac = dSwMax, dPMax, rateChangeFrac
	return nil
}

// SetPermeabilityRandom fills Kx=Ky uniformly in [min,max] and Kz=0.1·Kx
// per cell, clock-seeded.
func (o *Engine) SetPermeabilityRandom(min, max float64) error {
	if err := o.g.SetPermeabilityRandom(min, max); err != nil {
		return errf(InvalidArgument, "%v", err)
	}
	o.rebuildFaces()
	return nil
}

// SetPermeabilityRandomSeeded is the deterministic counterpart of
// SetPermeabilityRandom.
func (o *Engine) SetPermeabilityRandomSeeded(min, max float64, seed uint64) error {
	if err := o.g.SetPermeabilityRandomSeeded(min, max, seed); err != nil {
		return errf(InvalidArgument, "%v", err)
	}
	o.rebuildFaces()
	return nil
}

// SetPermeabilityPerLayer assigns uniform (kx,ky,kz) per k-layer.
func (o *Engine) SetPermeabilityPerLayer(kx, ky, kz []float64) error {
	if err := o.g.SetPermeabilityPerLayer(kx, ky, kz); err != nil {
		return errf(InvalidArgument, "%v", err)
	}
	o.rebuildFaces()
	return nil
}

// SetWellControlModes sets the default control mode newly-added injectors
// and producers start in.
func (o *Engine) SetWellControlModes(injector, producer wells.ControlMode) {
	o.injectorMode, o.producerMode = injector, producer
}

// SetTargetWellRates sets the default rate-mode targets [m³/day] applied to
// every rate-controlled well at the next control update.
func (o *Engine) SetTargetWellRates(qInj, qProd float64) error {
	if !isFinite(qInj) || !isFinite(qProd) {
		return errf(InvalidArgument, "well rate targets must be finite: qinj=%v qprod=%v", qInj, qProd)
	}
	o.qInjTarget, o.qProdTarget = qInj, qProd
	for _, w := range o.wellList {
		if w.Mode != wells.Rate {
			continue
		}
		if w.Injector {
			w.TargetRate = qInj
		} else {
			w.TargetRate = qProd
		}
	}
	return nil
}

// SetWellBHPLimits sets the default [bhp_min,bhp_max] bracket for wells
// added later and applies it immediately to every rate-controlled well;
// pressure-controlled wells keep their bounds.
func (o *Engine) SetWellBHPLimits(bhpMin, bhpMax float64) error {
	if !isFinite(bhpMin) || !isFinite(bhpMax) || bhpMin >= bhpMax {
		return errf(InvalidArgument, "invalid BHP bounds: min=%v max=%v", bhpMin, bhpMax)
	}
	o.bhpMin, o.bhpMax = bhpMin, bhpMax
	for _, w := range o.wellList {
		if w.Mode == wells.Rate {
			if err := w.SetRateControl(w.TargetRate, bhpMin, bhpMax); err != nil {
				return errf(InvalidArgument, "%v", err)
			}
		}
	}
	return nil
}

// AddWell validates and appends a perforation at (i,j,k), starting in the
// engine's configured default control mode for its injector/producer role.
func (o *Engine) AddWell(i, j, k int, bhp, rw, skin float64, injector bool) error {
	w, err := wells.New(i, j, k, bhp, rw, skin, injector, o.g.Nx, o.g.Ny, o.g.Nz)
	if err != nil {
		return errf(InvalidArgument, "%v", err)
	}
	mode := o.producerMode
	target := o.qProdTarget
	if injector {
		mode = o.injectorMode
		target = o.qInjTarget
	}
	if mode == wells.Rate {
		if err := w.SetRateControl(target, o.bhpMin, o.bhpMax); err != nil {
			return errf(InvalidArgument, "%v", err)
		}
	}
	o.wellList = append(o.wellList, w)
	return nil
}

// StopRequested reports whether the host has asked the engine to stop; it
// is consulted by the host at step boundaries, never by Step itself.
func (o *Engine) StopRequested() bool { return o.stopReq }

// RequestStop sets the stop flag consulted by StopRequested.
func (o *Engine) RequestStop() { o.stopReq = true }

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
