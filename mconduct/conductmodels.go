// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mconduct implements relative permeability models for oil-water
// flow in porous media.
package mconduct

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Model defines an oil-water relative permeability model.
type Model interface {
	Init(prms fun.Prms) error      // Init initialises this structure
	GetPrms(example bool) fun.Prms // gets (an example) of parameters
	Krw(sw float64) float64        // Krw returns the water relative permeability at sw
	Kro(sw float64) float64        // Kro returns the oil relative permeability at sw
}

// New allocates a relative permeability model by name.
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("mconduct: model %q is not available in mconduct database", name)
	}
	return allocator(), nil
}

// allocators holds all available models
var allocators = map[string]func() Model{}
