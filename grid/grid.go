// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid implements the dense, structure-of-arrays cell store for a
// 3D structured Cartesian reservoir grid: porosity, directional absolute
// permeabilities, pressure and the two-phase saturations, plus the cell
// geometry they are defined over.
package grid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/rnd"
)

// default cell properties used to fill a freshly constructed Grid
const (
	DefaultPorosity = 0.2   // [-]
	DefaultKHoriz   = 100.0 // [mD]
	DefaultKVert    = 10.0  // [mD]
	DefaultPressure = 300.0 // [bar]
	DefaultSw       = 0.3   // [-]
	minPermeability = 0.0
	maxFiniteSanity = 1.0e30 // guards against garbage magnitudes that pass the finiteness checks
)

// Axis identifies a grid direction.
type Axis int

// grid axes
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Neighbor describes one face-adjacent cell reached from a given cell.
type Neighbor struct {
	ID   int     // index of the neighbor cell
	Axis Axis    // direction of the face (x, y or z)
	Sign int     // -1 if the neighbor is at lower index, +1 if at higher index
	Area float64 // face cross-sectional area [m²]
	Dist float64 // center-to-center distance [m]
}

// Grid owns the parallel per-cell arrays and the immutable cell geometry
// for an nx*ny*nz structured grid. Cell id = i + nx*(j + ny*k).
type Grid struct {

	// geometry: Nx,Ny,Nz fixed at construction; Dx,Dy,Dz set by
	// SetCellDimensions or Load
	Nx, Ny, Nz int
	Dx, Dy, Dz float64

	// per-cell fields, length Nx*Ny*Nz
	Phi        []float64 // porosity [-]
	Kx, Ky, Kz []float64 // absolute permeability [mD]
	P          []float64 // pressure [bar]
	Sw, So     []float64 // water / oil saturation [-]
}

// New constructs a grid of nx*ny*nz cells with unit cell dimensions and the
// default rock/fluid state.
func New(nx, ny, nz int) (*Grid, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, chk.Err("grid: dimensions must be positive: nx=%d ny=%d nz=%d", nx, ny, nz)
	}
	n := nx * ny * nz
	o := &Grid{
		Nx: nx, Ny: ny, Nz: nz,
		Dx: 1, Dy: 1, Dz: 1,
		Phi: make([]float64, n),
		Kx:  make([]float64, n),
		Ky:  make([]float64, n),
		Kz:  make([]float64, n),
		P:   make([]float64, n),
		Sw:  make([]float64, n),
		So:  make([]float64, n),
	}
	for id := 0; id < n; id++ {
		o.Phi[id] = DefaultPorosity
		o.Kx[id] = DefaultKHoriz
		o.Ky[id] = DefaultKHoriz
		o.Kz[id] = DefaultKVert
		o.P[id] = DefaultPressure
		o.Sw[id] = DefaultSw
		o.So[id] = 1 - DefaultSw
	}
	return o, nil
}

// N returns the total number of cells.
func (o *Grid) N() int { return o.Nx * o.Ny * o.Nz }

// Index converts (i,j,k) cell coordinates into a flat cell id.
func (o *Grid) Index(i, j, k int) int { return i + o.Nx*(j+o.Ny*k) }

// Coords converts a flat cell id back into (i,j,k) cell coordinates.
func (o *Grid) Coords(id int) (i, j, k int) {
	i = id % o.Nx
	j = (id / o.Nx) % o.Ny
	k = id / (o.Nx * o.Ny)
	return
}

// InBounds reports whether (i,j,k) addresses a real cell.
func (o *Grid) InBounds(i, j, k int) bool {
	return i >= 0 && i < o.Nx && j >= 0 && j < o.Ny && k >= 0 && k < o.Nz
}

// SetCellDimensions sets the uniform cell extents (Δx,Δy,Δz), all > 0.
func (o *Grid) SetCellDimensions(dx, dy, dz float64) error {
	if !isFinitePositive(dx) || !isFinitePositive(dy) || !isFinitePositive(dz) {
		return chk.Err("grid: cell dimensions must be finite and positive: dx=%v dy=%v dz=%v", dx, dy, dz)
	}
	o.Dx, o.Dy, o.Dz = dx, dy, dz
	return nil
}

// SetInitialPressure broadcasts p0 [bar] to every cell.
func (o *Grid) SetInitialPressure(p0 float64) error {
	if !isFinite(p0) {
		return chk.Err("grid: initial pressure must be finite: p0=%v", p0)
	}
	for id := range o.P {
		o.P[id] = p0
	}
	return nil
}

// SetInitialSaturation broadcasts sw0, clamped into [swc, 1-sor], to every
// cell; So is kept as the complement so Sw+So=1 exactly.
func (o *Grid) SetInitialSaturation(sw0, swc, sor float64) error {
	if !isFinite(sw0) {
		return chk.Err("grid: initial water saturation must be finite: sw0=%v", sw0)
	}
	sw := clamp(sw0, swc, 1-sor)
	for id := range o.Sw {
		o.Sw[id] = sw
		o.So[id] = 1 - sw
	}
	return nil
}

// SetPermeabilityRandom fills Kx=Ky with a uniform random value in
// [min,max] per cell and Kz with a tenth of that value, using a
// clock-seeded source.
func (o *Grid) SetPermeabilityRandom(min, max float64) error {
	if err := checkPermRange(min, max); err != nil {
		return err
	}
	rnd.Init(0) // non-positive seed selects the clock
	o.fillPermeability(min, max)
	return nil
}

// SetPermeabilityRandomSeeded is the deterministic, seeded counterpart of
// SetPermeabilityRandom.
func (o *Grid) SetPermeabilityRandomSeeded(min, max float64, seed uint64) error {
	if err := checkPermRange(min, max); err != nil {
		return err
	}
	// fold the caller's seed into the positive int range; rnd treats
	// non-positive seeds as clock-seeded
	rnd.Init(int(seed%2147483646) + 1)
	o.fillPermeability(min, max)
	return nil
}

func checkPermRange(min, max float64) error {
	if !isFinitePositive(min) && min != 0 {
		return chk.Err("grid: permeability min must be finite and >= 0: min=%v", min)
	}
	if !isFinitePositive(max) || max < min {
		return chk.Err("grid: permeability max must be finite, > 0 and >= min: min=%v max=%v", min, max)
	}
	return nil
}

func (o *Grid) fillPermeability(min, max float64) {
	for id := range o.Kx {
		k := rnd.Float64(min, max)
		o.Kx[id] = k
		o.Ky[id] = k
		o.Kz[id] = 0.1 * k
	}
}

// SetPermeabilityPerLayer assigns uniform (kx,ky,kz) per k-layer from three
// length-Nz slices.
func (o *Grid) SetPermeabilityPerLayer(kx, ky, kz []float64) error {
	if len(kx) != o.Nz || len(ky) != o.Nz || len(kz) != o.Nz {
		return chk.Err("grid: per-layer permeability slices must have length Nz=%d: got %d,%d,%d", o.Nz, len(kx), len(ky), len(kz))
	}
	for layer := 0; layer < o.Nz; layer++ {
		if !isFinitePositive(kx[layer]) && kx[layer] != 0 {
			return chk.Err("grid: kx[%d]=%v is not finite and non-negative", layer, kx[layer])
		}
		if !isFinitePositive(ky[layer]) && ky[layer] != 0 {
			return chk.Err("grid: ky[%d]=%v is not finite and non-negative", layer, ky[layer])
		}
		if !isFinitePositive(kz[layer]) && kz[layer] != 0 {
			return chk.Err("grid: kz[%d]=%v is not finite and non-negative", layer, kz[layer])
		}
	}
	for k := 0; k < o.Nz; k++ {
		for j := 0; j < o.Ny; j++ {
			for i := 0; i < o.Nx; i++ {
				id := o.Index(i, j, k)
				o.Kx[id] = kx[k]
				o.Ky[id] = ky[k]
				o.Kz[id] = kz[k]
			}
		}
	}
	return nil
}

// PoreVolume returns φ(id)·Δx·Δy·Δz [m³].
func (o *Grid) PoreVolume(id int) float64 {
	return o.Phi[id] * o.Dx * o.Dy * o.Dz
}

// FaceArea returns the cross-sectional area of a face perpendicular to axis.
func (o *Grid) FaceArea(axis Axis) float64 {
	switch axis {
	case AxisX:
		return o.Dy * o.Dz
	case AxisY:
		return o.Dx * o.Dz
	default:
		return o.Dx * o.Dy
	}
}

// FaceDist returns the center-to-center distance across a face perpendicular
// to axis.
func (o *Grid) FaceDist(axis Axis) float64 {
	switch axis {
	case AxisX:
		return o.Dx
	case AxisY:
		return o.Dy
	default:
		return o.Dz
	}
}

// Neighbors yields up to 6 face-adjacent cells of id, in -x,+x,-y,+y,-z,+z
// order, skipping directions that fall outside the grid.
func (o *Grid) Neighbors(id int) []Neighbor {
	i, j, k := o.Coords(id)
	var out []Neighbor
	add := func(ii, jj, kk int, axis Axis, sign int) {
		if !o.InBounds(ii, jj, kk) {
			return
		}
		out = append(out, Neighbor{
			ID:   o.Index(ii, jj, kk),
			Axis: axis,
			Sign: sign,
			Area: o.FaceArea(axis),
			Dist: o.FaceDist(axis),
		})
	}
	add(i-1, j, k, AxisX, -1)
	add(i+1, j, k, AxisX, +1)
	add(i, j-1, k, AxisY, -1)
	add(i, j+1, k, AxisY, +1)
	add(i, j, k-1, AxisZ, -1)
	add(i, j, k+1, AxisZ, +1)
	return out
}

// Snapshot is a deep, detached copy of the cell arrays and geometry,
// suitable for a save/load round trip.
type Snapshot struct {
	Nx, Ny, Nz      int
	Dx, Dy, Dz      float64
	Phi, Kx, Ky, Kz []float64
	P, Sw, So       []float64
}

// Snapshot returns a copy of the current grid state.
func (o *Grid) Snapshot() Snapshot {
	return Snapshot{
		Nx: o.Nx, Ny: o.Ny, Nz: o.Nz,
		Dx: o.Dx, Dy: o.Dy, Dz: o.Dz,
		Phi: append([]float64(nil), o.Phi...),
		Kx:  append([]float64(nil), o.Kx...),
		Ky:  append([]float64(nil), o.Ky...),
		Kz:  append([]float64(nil), o.Kz...),
		P:   append([]float64(nil), o.P...),
		Sw:  append([]float64(nil), o.Sw...),
		So:  append([]float64(nil), o.So...),
	}
}

// Load restores the grid from a snapshot taken from a grid of identical
// dimensions.
func (o *Grid) Load(s Snapshot) error {
	if s.Nx != o.Nx || s.Ny != o.Ny || s.Nz != o.Nz {
		return chk.Err("grid: snapshot dimensions (%d,%d,%d) do not match grid (%d,%d,%d)", s.Nx, s.Ny, s.Nz, o.Nx, o.Ny, o.Nz)
	}
	o.Dx, o.Dy, o.Dz = s.Dx, s.Dy, s.Dz
	copy(o.Phi, s.Phi)
	copy(o.Kx, s.Kx)
	copy(o.Ky, s.Ky)
	copy(o.Kz, s.Kz)
	copy(o.P, s.P)
	copy(o.Sw, s.Sw)
	copy(o.So, s.So)
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isFinitePositive(v float64) bool {
	return isFinite(v) && v > minPermeability && v < maxFiniteSanity
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

