// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wells

import "math"

// PIConstant converts [mD·m/cP] to [m³/day/bar]: the metric Darcy
// constant, identical to the face-transmissibility conversion.
const PIConstant = 8.527e-3

const piEpsilon = 1e-9 // ε guarding the log() argument near unity

// EquivalentRadius returns Peaceman's equivalent drainage radius for an
// anisotropic 2D horizontal wellbore:
//
//	r_eq = 0.28 · √(√r·Δx² + √(1/r)·Δy²) / (r^(1/4) + r^(-1/4)),  r = kx/ky
func EquivalentRadius(kx, ky, dx, dy float64) float64 {
	r := kx / ky
	num := 0.28 * math.Sqrt(math.Sqrt(r)*dx*dx+math.Sqrt(1/r)*dy*dy)
	den := math.Pow(r, 0.25) + math.Pow(r, -0.25)
	return num / den
}

// PI0 returns the single-phase-equivalent Peaceman productivity index
// constant for a perforation, in [m³/day/bar]:
//
//	PI0 = C · 2π · √(kx·ky) · Δz / (ln(max(1+ε, r_eq/rw)) + skin)
func PI0(kx, ky, dx, dy, dz, rw, skin float64) float64 {
	if kx <= 0 || ky <= 0 {
		return 0 // zero-permeability perforation contributes nothing
	}
	req := EquivalentRadius(kx, ky, dx, dy)
	ratio := req / rw
	if ratio < 1+piEpsilon {
		ratio = 1 + piEpsilon
	}
	return PIConstant * 2 * math.Pi * math.Sqrt(kx*ky) * dz / (math.Log(ratio) + skin)
}

// ProducerRates returns the perforation's total, oil and water volumetric
// rates [m³/day] (positive = out of the cell) for a producer at the given
// cell pressure, BHP, total mobility and water fractional flow.
func ProducerRates(pi0, lambdaT, fw, pCell, bhp float64) (qTotal, qOil, qWater float64) {
	qTotal = pi0 * lambdaT * (pCell - bhp)
	qWater = qTotal * fw
	qOil = qTotal - qWater
	return
}

// InjectorRate returns a water injector's rate [m³/day] using the same
// signed convention as ProducerRates (positive = out of the cell), clamped
// to <= 0 so water only ever enters the cell: a BHP above the cell
// pressure (the normal injection case) drives q negative; a BHP that falls
// below the cell pressure would reverse-flow through an injector, which is
// clamped to 0 rather than allowed to produce.
func InjectorRate(pi0, lambdaWInj, pCell, bhp float64) float64 {
	q := pi0 * lambdaWInj * (pCell - bhp)
	if q > 0 {
		return 0
	}
	return q
}
