// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mporous implements the process-wide rock/fluid property model:
// it composes a relative-permeability model (mconduct) and a capillary
// pressure model (mreten) with the scalar fluid and rock properties
// (viscosities, densities, compressibilities, reference depth), and
// exposes the mobility/fractional-flow/total-compressibility
// quantities the flux kernel and pressure solver need.
package mporous

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"

	"github.com/cpmech/resim/mconduct"
	"github.com/cpmech/resim/mreten"
)

// Model is the rock/fluid property model shared by every cell and face.
type Model struct {

	// composed models
	Cnd mconduct.Model // relative permeability model
	Lrm mreten.Model   // capillary pressure model

	// fluid properties
	MuW, MuO   float64 // viscosities [cP]
	RhoW, RhoO float64 // densities [kg/m³]
	Cw, Co     float64 // compressibilities [1/bar]

	// rock properties
	CRock  float64 // rock compressibility [1/bar]
	DRef   float64 // reference depth [m]
	Bo, Bw float64 // formation volume factors [-]; 1.0 unless PVT is modelled

	// gravity
	GravityOn bool
}

// NewModel composes a rock/fluid property model from a relative
// permeability model and a capillary pressure model.
func NewModel(cnd mconduct.Model, lrm mreten.Model) *Model {
	return &Model{Cnd: cnd, Lrm: lrm, Bo: 1, Bw: 1}
}

// Init sets the scalar fluid/rock properties from named parameters.
func (o *Model) Init(prms fun.Prms) (err error) {
	o.Bo, o.Bw = 1, 1
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "muw":
			o.MuW = p.V
		case "muo":
			o.MuO = p.V
		case "rhow":
			o.RhoW = p.V
		case "rhoo":
			o.RhoO = p.V
		case "cw":
			o.Cw = p.V
		case "co":
			o.Co = p.V
		case "crock":
			o.CRock = p.V
		case "dref":
			o.DRef = p.V
		case "bo":
			o.Bo = p.V
		case "bw":
			o.Bw = p.V
		default:
			return chk.Err("mporous: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.MuW <= 0 || o.MuO <= 0 {
		return chk.Err("mporous: viscosities must be positive: muw=%v muo=%v", o.MuW, o.MuO)
	}
	return
}

// GetPrms gets (an example) of parameters.
func (o Model) GetPrms(example bool) fun.Prms {
	return fun.Prms{
		&fun.Prm{N: "muw", V: 0.5},
		&fun.Prm{N: "muo", V: 1.0},
		&fun.Prm{N: "rhow", V: 1000},
		&fun.Prm{N: "rhoo", V: 800},
		&fun.Prm{N: "cw", V: 4.5e-5},
		&fun.Prm{N: "co", V: 1.0e-4},
		&fun.Prm{N: "crock", V: 1.0e-5},
		&fun.Prm{N: "dref", V: 0},
		&fun.Prm{N: "bo", V: 1},
		&fun.Prm{N: "bw", V: 1},
	}
}

// Pc returns the capillary pressure Po-Pw at sw.
func (o *Model) Pc(sw float64) float64 { return o.Lrm.Pc(sw) }

// LambdaW returns the water mobility krw/muw [1/cP] at sw.
func (o *Model) LambdaW(sw float64) float64 { return o.Cnd.Krw(sw) / o.MuW }

// LambdaO returns the oil mobility kro/muo [1/cP] at sw.
func (o *Model) LambdaO(sw float64) float64 { return o.Cnd.Kro(sw) / o.MuO }

// LambdaT returns the total mobility λw+λo [1/cP] at sw.
func (o *Model) LambdaT(sw float64) float64 { return o.LambdaW(sw) + o.LambdaO(sw) }

// Fw returns the fractional flow of water at sw; 0 if both phases are
// immobile.
func (o *Model) Fw(sw float64) float64 {
	lt := o.LambdaT(sw)
	if lt <= 0 {
		return 0
	}
	return o.LambdaW(sw) / lt
}

// Ct returns the lagged total compressibility c_t = So·Co + Sw·Cw + Crock
// [1/bar] at the given (start-of-step) saturations.
func (o *Model) Ct(sw, so float64) float64 {
	return so*o.Co + sw*o.Cw + o.CRock
}

// KrwMax returns the water relative permeability endpoint (at Sw=1), used
// as the injection-phase mobility of a water injector: the invading phase
// displaces oil completely at the sandface.
func (o *Model) KrwMax() float64 { return o.Cnd.Krw(1.0) }
