// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bltest

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// a Corey-style fractional flow curve, the same shape package mconduct/
// mporous produce, parameterized directly here so this package stays
// test-only and has no dependency on the engine.
func coreyFw(swc, sor, nw, no, muw, muo float64) func(sw float64) float64 {
	return func(sw float64) float64 {
		se := (sw - swc) / (1 - swc - sor)
		if se < 0 {
			se = 0
		}
		if se > 1 {
			se = 1
		}
		krw := math.Pow(se, nw)
		kro := math.Pow(1-se, no)
		lw := krw / muw
		lo := kro / muo
		if lw+lo <= 0 {
			return 0
		}
		return lw / (lw + lo)
	}
}

func Test_welge01_bracket(tst *testing.T) {
	chk.PrintTitle("welge01")

	fw := coreyFw(0.1, 0.1, 2, 2, 0.5, 1.0)
	pv := WelgeBreakthroughPV(fw, 0.1, 0.1)
	if pv <= 0 {
		tst.Fatalf("expected a positive breakthrough pore-volume, got %v", pv)
	}
	// with unfavorable mobility (water less viscous than oil here: muw<muo)
	// breakthrough should occur comfortably before 1 PV injected
	if pv > 1.0 {
		tst.Errorf("expected breakthrough before 1 PV injected for this mobility ratio, got %v", pv)
	}
}

func Test_welge02_monotone_in_viscosity_ratio(tst *testing.T) {
	chk.PrintTitle("welge02")

	// a more favorable water/oil viscosity ratio (more viscous water)
	// delays breakthrough relative to an unfavorable one
	unfavorable := WelgeBreakthroughPV(coreyFw(0.1, 0.1, 2, 2, 0.3, 1.0), 0.1, 0.1)
	favorable := WelgeBreakthroughPV(coreyFw(0.1, 0.1, 2, 2, 3.0, 1.0), 0.1, 0.1)
	if favorable <= unfavorable {
		tst.Errorf("expected more viscous water to delay breakthrough: favorable=%v unfavorable=%v", favorable, unfavorable)
	}
}

func Test_welge03_degenerate_span(tst *testing.T) {
	chk.PrintTitle("welge03")

	pv := WelgeBreakthroughPV(coreyFw(0.5, 0.5, 2, 2, 0.5, 1.0), 0.5, 0.5)
	if pv != 0 {
		tst.Errorf("expected 0 for a degenerate (zero-span) mobile window, got %v", pv)
	}
}
