// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mreten implements capillary pressure (oil-water retention)
// models for oil-water flow in porous media.
package mreten

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Model defines an oil-water capillary pressure model: given the water
// saturation, it returns the capillary pressure Pc = Po - Pw.
type Model interface {
	Init(prms fun.Prms) error      // Init initialises this structure
	GetPrms(example bool) fun.Prms // GetPrms gets (an example of) parameters
	Pc(sw float64) float64         // Pc computes the capillary pressure at sw
}

// allocators holds all available models
var allocators = map[string]func() Model{}

// New allocates a capillary pressure model by name.
func New(name string) (Model, error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("mreten: model %q is not available in mreten database", name)
	}
	return allocator(), nil
}
