// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mconduct

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Corey implements the Corey relative permeability model
//   Se = clamp((Sw-Swc)/(1-Swc-Sor), 0, 1)
//   Krw(Sw) = Se^nw
//   Kro(Sw) = (1-Se)^no
type Corey struct {
	nw, no   float64 // Corey exponents
	swc, sor float64 // endpoints
}

// add model to factory
func init() {
	allocators["corey"] = func() Model { return new(Corey) }
}

// Init initialises model
func (o *Corey) Init(prms fun.Prms) (err error) {
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "nw":
			o.nw = p.V
		case "no":
			o.no = p.V
		case "swc":
			o.swc = p.V
		case "sor":
			o.sor = p.V
		default:
			return chk.Err("mconduct: corey: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.nw <= 0 || o.no <= 0 {
		return chk.Err("mconduct: corey: exponents must be positive: nw=%v no=%v", o.nw, o.no)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Corey) GetPrms(example bool) fun.Prms {
	return fun.Prms{
		&fun.Prm{N: "nw", V: 2.0},
		&fun.Prm{N: "no", V: 2.0},
		&fun.Prm{N: "swc", V: 0.1},
		&fun.Prm{N: "sor", V: 0.1},
	}
}

// EffectiveSat returns Se = clamp((sw-swc)/(1-swc-sor), 0, 1).
func (o Corey) EffectiveSat(sw float64) float64 {
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

// Krw returns the water relative permeability at sw.
func (o Corey) Krw(sw float64) float64 {
	return math.Pow(o.EffectiveSat(sw), o.nw)
}

// Kro returns the oil relative permeability at sw.
func (o Corey) Kro(sw float64) float64 {
	return math.Pow(1-o.EffectiveSat(sw), o.no)
}
