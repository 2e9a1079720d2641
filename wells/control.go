// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wells

// BHPDampingFraction bounds how far a rate-controlled well's BHP may move
// in a single step, expressed as a fraction of |bhp_max - bhp_min|.
// Tighter than the default well-rate-change guard since BHP excursions
// compound nonlinearly through the Peaceman rate.
const BHPDampingFraction = 0.2

const (
	bisectionTol     = 1e-6
	bisectionMaxIter = 60
)

// SolveBHPForRate finds the BHP in [bhpLo,bhpHi] at which rateOfBHP(bhp)
// equals target, by bisection. rateOfBHP must be monotonic over the
// bracket (true for the Peaceman linear-in-BHP rate law). If target lies
// outside the rates achievable over the bracket, the nearer bound is
// returned.
func SolveBHPForRate(target, bhpLo, bhpHi float64, rateOfBHP func(bhp float64) float64) float64 {
	fLo := rateOfBHP(bhpLo) - target
	fHi := rateOfBHP(bhpHi) - target
	if fLo == 0 {
		return bhpLo
	}
	if fHi == 0 {
		return bhpHi
	}
	if (fLo > 0) == (fHi > 0) {
		// target not bracketed: saturate at whichever bound gets closer
		if absf(fLo) < absf(fHi) {
			return bhpLo
		}
		return bhpHi
	}
	lo, hi := bhpLo, bhpHi
	for it := 0; it < bisectionMaxIter; it++ {
		mid := 0.5 * (lo + hi)
		fMid := rateOfBHP(mid) - target
		if absf(fMid) < bisectionTol || (hi-lo) < bisectionTol {
			return mid
		}
		if (fMid > 0) == (fLo > 0) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}

// DampBHP clamps a newly-solved BHP to within BHPDampingFraction of
// |bhpMax-bhpMin| away from the last-accepted BHP, preventing a single
// step from slamming a rate-controlled well's BHP from one bound to the
// other.
func DampBHP(newBHP, lastBHP, bhpMin, bhpMax float64) float64 {
	band := BHPDampingFraction * absf(bhpMax-bhpMin)
	if newBHP > lastBHP+band {
		return lastBHP + band
	}
	if newBHP < lastBHP-band {
		return lastBHP - band
	}
	return newBHP
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
