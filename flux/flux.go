// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flux implements the transmissibility and upwinded flux kernel of
// the two-phase finite-volume scheme: per-face geometric transmissibility,
// per-phase upwinded mobilities, and the capillary/gravity head
// contributions to each phase's driving potential. It is the finite-volume
// collapse of the upwind assembly pattern gofem's ele/seepage package
// builds at FEM integration points.
package flux

import (
	"math"

	"github.com/cpmech/resim/grid"
	"github.com/cpmech/resim/mporous"
)

// TransConstant converts [mD·m/cP] to [m³/day/bar]: the metric Darcy
// constant 0.008527, shared with the well productivity index.
const TransConstant = 8.527e-3

// GravityAccel is g, in SI units.
const GravityAccel = 9.81 // [m/s²]

// PaPerBar converts Pa to bar.
const PaPerBar = 1.0e5

// Face is a pre-computed internal face between two grid cells, built once
// at construction time and reused across steps; only the mobilities and
// heads change between steps, the geometry does not.
type Face struct {
	I, J int       // cell ids, I always the lower-index cell of the pair
	Axis grid.Axis // face orientation
	Tgeo float64   // geometric transmissibility [m³/day/bar/cP]
	Dz   float64   // vertical separation, center(J)-center(I); 0 off the z axis
}

// BuildFaces enumerates every internal face of g exactly once.
func BuildFaces(g *grid.Grid) []Face {
	var faces []Face
	n := g.N()
	for id := 0; id < n; id++ {
		for _, nb := range g.Neighbors(id) {
			if nb.Sign < 0 {
				continue // only emit each face once, from the lower-index cell
			}
			axis := nb.Axis
			var ki, kj float64
			switch axis {
			case grid.AxisX:
				ki, kj = g.Kx[id], g.Kx[nb.ID]
			case grid.AxisY:
				ki, kj = g.Ky[id], g.Ky[nb.ID]
			default:
				ki, kj = g.Kz[id], g.Kz[nb.ID]
			}
			tgeo := FaceTrans(ki, kj, nb.Area, nb.Dist)
			dz := 0.0
			if axis == grid.AxisZ {
				// k grows downward: the +k neighbor J sits Dz deeper than I
				dz = g.Dz
			}
			faces = append(faces, Face{I: id, J: nb.ID, Axis: axis, Tgeo: tgeo, Dz: dz})
		}
	}
	return faces
}

// FaceTrans returns the geometric transmissibility across a face with
// directional permeabilities ki,kj, cross-section area and center-to-center
// distance dist. Zero if either permeability is zero.
func FaceTrans(ki, kj, area, dist float64) float64 {
	if ki <= 0 || kj <= 0 || dist <= 0 {
		return 0
	}
	harmonic := 2 * ki * kj / (ki + kj)
	return TransConstant * harmonic * area / dist
}

// Eval is the per-face result of evaluating the flux kernel for one face
// at the current pressures and saturations. Ft/Fw/Fo are the volumetric
// rates [m³/day] flowing INTO cell I across the face (the symmetric
// contribution to J's balance is the negative of each); this is the
// standard two-point-flux convention T·(p_J-p_I) that the pressure
// assembly in package solver also uses for a_ii/a_jj/a_ij/a_ji.
type Eval struct {
	Ft, Fw, Fo           float64 // volumetric rate into I [m³/day]; rate into J is the negative
	LambdaTUp, LambdaWUp float64 // per-phase upwinded mobilities, λt = λw_up + λo_up [1/cP]
	GravRHS              float64 // Tgeo·(λw_up·ρw + λo_up·ρo)·g·Δz [m³/day], 0 off the z axis
	Warn                 bool    // non-finite operand encountered; flux forced to 0
}

// Evaluate computes the face flux given the rock/fluid model and the
// current grid state. Each phase carries its own gravity head (ρ_w vs ρ_o
// over the face's vertical separation), which is what drives
// counter-current segregation: under hydrostatic total-flow equilibrium
// the water potential still points down and the oil potential up. The
// water potential additionally carries the capillary head ΔP_c =
// Pc(Sw_J)-Pc(Sw_I), with the sign fixed by solving for the water pressure
// (P_o = P_w + P_c). gravityOn enables both gravity heads.
func Evaluate(f Face, mdl *mporous.Model, g *grid.Grid, gravityOn bool) Eval {
	pi, pj := g.P[f.I], g.P[f.J]
	swi, swj := g.Sw[f.I], g.Sw[f.J]

	if f.Tgeo <= 0 {
		return Eval{}
	}

	var dGravW, dGravO float64
	if gravityOn && f.Dz != 0 {
		dGravW = mdl.RhoW * GravityAccel * f.Dz / PaPerBar
		dGravO = mdl.RhoO * GravityAccel * f.Dz / PaPerBar
	}

	dpw := (pj - pi) - dGravW + (mdl.Pc(swj) - mdl.Pc(swi))
	dpo := (pj - pi) - dGravO

	if !isFinite(dpw) || !isFinite(dpo) {
		return Eval{Warn: true}
	}

	// both neighbors immobile: no flow at all across the face
	if mdl.LambdaT(swi) <= 0 && mdl.LambdaT(swj) <= 0 {
		return Eval{}
	}

	// phase-potential upwinding: each phase takes the mobility of its own
	// upstream cell. dpw >= 0 means water runs J->I, so J is upstream.
	lamWUp := mdl.LambdaW(swi)
	if dpw >= 0 {
		lamWUp = mdl.LambdaW(swj)
	}
	lamOUp := mdl.LambdaO(swi)
	if dpo >= 0 {
		lamOUp = mdl.LambdaO(swj)
	}

	fw := f.Tgeo * lamWUp * dpw
	fo := f.Tgeo * lamOUp * dpo
	ft := fw + fo

	if !isFinite(ft) || !isFinite(fw) || !isFinite(fo) {
		return Eval{Warn: true}
	}
	return Eval{
		Ft: ft, Fw: fw, Fo: fo,
		LambdaTUp: lamWUp + lamOUp,
		LambdaWUp: lamWUp,
		GravRHS:   f.Tgeo * (lamWUp*dGravW + lamOUp*dGravO),
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
