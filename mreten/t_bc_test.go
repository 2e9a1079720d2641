// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mreten

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_bc01(tst *testing.T) {

	chk.PrintTitle("bc01")

	mdl := new(BrooksCorey)
	prm := mdl.GetPrms(true)
	err := mdl.Init(prm)
	if err != nil {
		tst.Errorf("Init failed: %v\n", err)
		return
	}

	// at connate water, Se=0, Pc must clamp to pcMax
	pc := mdl.Pc(mdl.swc)
	chk.Float64(tst, "Pc(Swc)", 1e-12, pc, pcMax)

	// at 1-Sor, Se=1, Pc must equal Pe
	pc = mdl.Pc(1 - mdl.sor)
	chk.Float64(tst, "Pc(1-Sor)", 1e-12, pc, mdl.pe)

	// Pc is non-increasing in Sw over the mobile window
	prev := mdl.Pc(mdl.swc)
	for sw := mdl.swc; sw <= 1-mdl.sor; sw += 0.05 {
		cur := mdl.Pc(sw)
		if cur > prev+1e-9 {
			tst.Errorf("Pc must be non-increasing in Sw: Pc(%.3f)=%.6f > previous %.6f", sw, cur, prev)
		}
		prev = cur
	}
}

func Test_bc02_disabled(tst *testing.T) {

	chk.PrintTitle("bc02")

	mdl := new(BrooksCorey)
	prm := mdl.GetPrms(true)
	prm.Find("pe").V = 0
	err := mdl.Init(prm)
	if err != nil {
		tst.Errorf("Init failed: %v\n", err)
		return
	}

	for _, sw := range []float64{0.0, 0.2, 0.5, 0.9, 1.0} {
		if pc := mdl.Pc(sw); pc != 0 {
			tst.Errorf("Pe=0 must disable capillary pressure: Pc(%.2f)=%v", sw, pc)
		}
	}
}
