// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mreten

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// pcMax is the numerical-safety clamp on the capillary pressure.
const pcMax = 500.0 // [bar]

// BrooksCorey implements the Brooks-Corey oil-water capillary pressure law
//   Pc(Sw) = Pe · Se^(-1/λ),   Se = clamp((Sw-Swc)/(1-Swc-Sor), 0, 1)
// clamped to [0, pcMax]. Pe == 0 disables the contribution entirely.
type BrooksCorey struct {

	// parameters
	λ    float64 // pore-size distribution index
	pe   float64 // capillary entry pressure [bar]
	swc  float64 // connate water saturation
	sor  float64 // residual oil saturation
}

// add model to factory
func init() {
	allocators["bc"] = func() Model { return new(BrooksCorey) }
}

// Init initialises model
func (o *BrooksCorey) Init(prms fun.Prms) (err error) {
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "lam":
			o.λ = p.V
		case "pe":
			o.pe = p.V
		case "swc":
			o.swc = p.V
		case "sor":
			o.sor = p.V
		default:
			return chk.Err("mreten: bc: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.λ <= 0 {
		return chk.Err("mreten: bc: lam must be positive: lam=%v", o.λ)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o BrooksCorey) GetPrms(example bool) fun.Prms {
	return fun.Prms{
		&fun.Prm{N: "lam", V: 2.0},
		&fun.Prm{N: "pe", V: 0.5},
		&fun.Prm{N: "swc", V: 0.1},
		&fun.Prm{N: "sor", V: 0.1},
	}
}

// effectiveSat returns Se = clamp((sw-swc)/(1-swc-sor), 0, 1).
func (o BrooksCorey) effectiveSat(sw float64) float64 {
	span := 1 - o.swc - o.sor
	if span <= 0 {
		return 0
	}
	se := (sw - o.swc) / span
	if se < 0 {
		return 0
	}
	if se > 1 {
		return 1
	}
	return se
}

// Pc computes the capillary pressure at the given water saturation,
// clamped to [0, pcMax]. Pe == 0 disables the contribution.
func (o BrooksCorey) Pc(sw float64) float64 {
	if o.pe == 0 {
		return 0
	}
	se := o.effectiveSat(sw)
	if se <= 0 {
		return pcMax
	}
	pc := o.pe * math.Pow(se, -1.0/o.λ)
	if pc < 0 {
		return 0
	}
	if pc > pcMax {
		return pcMax
	}
	return pc
}
