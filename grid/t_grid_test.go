// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_grid01_construction(tst *testing.T) {
	chk.PrintTitle("grid01")

	g, err := New(4, 3, 2)
	if err != nil {
		tst.Fatalf("New: %v", err)
	}
	if g.N() != 24 {
		tst.Errorf("expected 24 cells, got %d", g.N())
	}
	for id := 0; id < g.N(); id++ {
		chk.Float64(tst, "phi", 1e-15, g.Phi[id], DefaultPorosity)
		chk.Float64(tst, "kx", 1e-15, g.Kx[id], DefaultKHoriz)
		chk.Float64(tst, "kz", 1e-15, g.Kz[id], DefaultKVert)
		chk.Float64(tst, "sw+so", 1e-15, g.Sw[id]+g.So[id], 1)
	}

	if _, err := New(0, 3, 2); err == nil {
		tst.Errorf("expected error for non-positive dimension")
	}
}

func Test_grid02_indexing(tst *testing.T) {
	chk.PrintTitle("grid02")

	g, _ := New(4, 3, 2)
	for k := 0; k < 2; k++ {
		for j := 0; j < 3; j++ {
			for i := 0; i < 4; i++ {
				id := g.Index(i, j, k)
				ii, jj, kk := g.Coords(id)
				if ii != i || jj != j || kk != k {
					tst.Errorf("Coords(Index(%d,%d,%d)) = (%d,%d,%d)", i, j, k, ii, jj, kk)
				}
			}
		}
	}
}

func Test_grid03_neighbors(tst *testing.T) {
	chk.PrintTitle("grid03")

	g, _ := New(3, 3, 3)
	g.SetCellDimensions(1, 2, 4)

	// interior cell has 6 neighbors, corner cell 3
	if n := len(g.Neighbors(g.Index(1, 1, 1))); n != 6 {
		tst.Errorf("interior cell must have 6 neighbors, got %d", n)
	}
	if n := len(g.Neighbors(g.Index(0, 0, 0))); n != 3 {
		tst.Errorf("corner cell must have 3 neighbors, got %d", n)
	}

	// face geometry follows the axis
	for _, nb := range g.Neighbors(g.Index(1, 1, 1)) {
		switch nb.Axis {
		case AxisX:
			chk.Float64(tst, "x-face area", 1e-15, nb.Area, 2*4)
			chk.Float64(tst, "x-face dist", 1e-15, nb.Dist, 1)
		case AxisY:
			chk.Float64(tst, "y-face area", 1e-15, nb.Area, 1*4)
			chk.Float64(tst, "y-face dist", 1e-15, nb.Dist, 2)
		case AxisZ:
			chk.Float64(tst, "z-face area", 1e-15, nb.Area, 1*2)
			chk.Float64(tst, "z-face dist", 1e-15, nb.Dist, 4)
		}
	}
}

func Test_grid04_setters_validate(tst *testing.T) {
	chk.PrintTitle("grid04")

	g, _ := New(2, 2, 2)
	if err := g.SetCellDimensions(-1, 10, 10); err == nil {
		tst.Errorf("expected error for non-positive cell dimension")
	}
	if err := g.SetInitialPressure(math.Inf(-1)); err == nil {
		tst.Errorf("expected error for non-finite pressure")
	}

	// broadcast saturation clamps into the mobile window
	if err := g.SetInitialSaturation(0.0, 0.1, 0.1); err != nil {
		tst.Fatalf("SetInitialSaturation: %v", err)
	}
	for id := 0; id < g.N(); id++ {
		chk.Float64(tst, "sw clamped", 1e-15, g.Sw[id], 0.1)
		chk.Float64(tst, "so complement", 1e-15, g.So[id], 0.9)
	}
}

func Test_grid05_permeability_fills(tst *testing.T) {
	chk.PrintTitle("grid05")

	g, _ := New(3, 3, 3)
	if err := g.SetPermeabilityRandomSeeded(50, 150, 123); err != nil {
		tst.Fatalf("SetPermeabilityRandomSeeded: %v", err)
	}
	for id := 0; id < g.N(); id++ {
		if g.Kx[id] < 50 || g.Kx[id] > 150 {
			tst.Errorf("cell %d: Kx=%v outside [50,150]", id, g.Kx[id])
		}
		chk.Float64(tst, "ky=kx", 1e-15, g.Ky[id], g.Kx[id])
		chk.Float64(tst, "kz=kx/10", 1e-12, g.Kz[id], 0.1*g.Kx[id])
	}

	// same seed reproduces the same field
	g2, _ := New(3, 3, 3)
	g2.SetPermeabilityRandomSeeded(50, 150, 123)
	chk.Vector(tst, "seeded reproducible", 1e-15, g.Kx, g2.Kx)

	// per-layer fill
	kx := []float64{10, 20, 30}
	ky := []float64{11, 21, 31}
	kz := []float64{1, 2, 3}
	if err := g.SetPermeabilityPerLayer(kx, ky, kz); err != nil {
		tst.Fatalf("SetPermeabilityPerLayer: %v", err)
	}
	for k := 0; k < 3; k++ {
		id := g.Index(1, 1, k)
		chk.Float64(tst, "layer kx", 1e-15, g.Kx[id], kx[k])
		chk.Float64(tst, "layer ky", 1e-15, g.Ky[id], ky[k])
		chk.Float64(tst, "layer kz", 1e-15, g.Kz[id], kz[k])
	}
	if err := g.SetPermeabilityPerLayer(kx[:2], ky, kz); err == nil {
		tst.Errorf("expected error for wrong-length layer slice")
	}
}

func Test_grid06_snapshot_roundtrip(tst *testing.T) {
	chk.PrintTitle("grid06")

	g, _ := New(2, 2, 1)
	g.SetCellDimensions(5, 6, 7)
	g.P[2] = 250
	g.Sw[1] = 0.42
	g.So[1] = 0.58

	s := g.Snapshot()
	g2, _ := New(2, 2, 1)
	if err := g2.Load(s); err != nil {
		tst.Fatalf("Load: %v", err)
	}
	chk.Vector(tst, "pressure", 1e-15, g2.P, g.P)
	chk.Vector(tst, "sw", 1e-15, g2.Sw, g.Sw)
	chk.Float64(tst, "dx", 1e-15, g2.Dx, 5)

	g3, _ := New(3, 2, 1)
	if err := g3.Load(s); err == nil {
		tst.Errorf("expected dimension-mismatch error")
	}
}
