// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bltest is test-only infrastructure: an analytical Buckley-Leverett
// breakthrough calculator via Welge's tangent construction, used solely by
// the engine package's BL-Case benchmark tests. It does not
// belong to the engine's public surface.
package bltest

// WelgeBreakthroughPV returns the analytical pore-volumes-injected at water
// breakthrough: the point of tangency from (swc,0) to the fractional-flow
// curve fw over [swc,1-sor], found by maximizing the secant slope
//
//	(fw(s) - fw(swc)) / (s - swc)
//
// over a fine sweep of s, which is equivalent to the classical
// shock-front/Welge tangent construction for an S-shaped
// (convex-then-concave) fw.
// PV_BT = 1 / fw'(s*) = (s* - swc) / (fw(s*) - fw(swc)).
func WelgeBreakthroughPV(fw func(sw float64) float64, swc, sor float64) float64 {
	const nSteps = 20000
	span := 1 - sor - swc
	if span <= 0 {
		return 0
	}
	fw0 := fw(swc)
	bestSlope := 0.0
	for i := 1; i <= nSteps; i++ {
		s := swc + span*float64(i)/float64(nSteps)
		slope := (fw(s) - fw0) / (s - swc)
		if slope > bestSlope {
			bestSlope = slope
		}
	}
	if bestSlope <= 0 {
		return 0
	}
	return 1 / bestSlope
}
