// Package model holds the data model shared by every solver
// component: the voxel grid, named domains, material and source
// records, and the concatenated solution-vector layout.
package model

import "fmt"

// Axis selects one of the three cartesian directions a voxel face can
// point along.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "?"
	}
}

// Grid describes the rectilinear voxel box: n cubes of size d centered
// at c. Voxel i is laid out as i = ix + iy*nx + iz*nx*ny.
type Grid struct {
	Nx, Ny, Nz int
	Dx, Dy, Dz float64
	Cx, Cy, Cz float64
}

// NumVoxels returns nx*ny*nz.
func (g Grid) NumVoxels() int { return g.Nx * g.Ny * g.Nz }

// NumFaces returns the size of the global, unreduced face index space
// 3*nx*ny*nz.
func (g Grid) NumFaces() int { return 3 * g.NumVoxels() }

// Index returns the linear voxel index for grid coordinates.
func (g Grid) Index(ix, iy, iz int) int { return ix + iy*g.Nx + iz*g.Nx*g.Ny }

// Coords returns the (ix, iy, iz) grid coordinates of linear voxel
// index i.
func (g Grid) Coords(i int) (ix, iy, iz int) {
	ix = i % g.Nx
	iy = (i / g.Nx) % g.Ny
	iz = i / (g.Nx * g.Ny)
	return
}

// InBounds reports whether (ix, iy, iz) addresses an existing voxel.
func (g Grid) InBounds(ix, iy, iz int) bool {
	return ix >= 0 && ix < g.Nx && iy >= 0 && iy < g.Ny && iz >= 0 && iz < g.Nz
}

// Neighbor returns the linear index of the voxel adjacent to i along
// axis a in the positive direction, and whether it exists.
func (g Grid) Neighbor(i int, a Axis) (j int, ok bool) {
	ix, iy, iz := g.Coords(i)
	switch a {
	case AxisX:
		ix++
	case AxisY:
		iy++
	case AxisZ:
		iz++
	}
	if !g.InBounds(ix, iy, iz) {
		return -1, false
	}
	return g.Index(ix, iy, iz), true
}

// Size returns the voxel side length along axis a.
func (g Grid) Size(a Axis) float64 {
	switch a {
	case AxisX:
		return g.Dx
	case AxisY:
		return g.Dy
	case AxisZ:
		return g.Dz
	default:
		return 0
	}
}

// FaceArea returns the area of the face perpendicular to axis a.
func (g Grid) FaceArea(a Axis) float64 {
	switch a {
	case AxisX:
		return g.Dy * g.Dz
	case AxisY:
		return g.Dx * g.Dz
	case AxisZ:
		return g.Dx * g.Dy
	default:
		return 0
	}
}

// VoxelVolume returns dx*dy*dz.
func (g Grid) VoxelVolume() float64 { return g.Dx * g.Dy * g.Dz }

// Center returns the world-space center of voxel i.
func (g Grid) Center(i int) [3]float64 {
	ix, iy, iz := g.Coords(i)
	return [3]float64{
		g.Cx - float64(g.Nx)*g.Dx/2 + (float64(ix)+0.5)*g.Dx,
		g.Cy - float64(g.Ny)*g.Dy/2 + (float64(iy)+0.5)*g.Dy,
		g.Cz - float64(g.Nz)*g.Dz/2 + (float64(iz)+0.5)*g.Dz,
	}
}

// Validate checks that the grid dimensions are usable.
func (g Grid) Validate() error {
	if g.Nx <= 0 || g.Ny <= 0 || g.Nz <= 0 {
		return fmt.Errorf("model: grid dimensions must be positive, got (%d,%d,%d)", g.Nx, g.Ny, g.Nz)
	}
	if g.Dx <= 0 || g.Dy <= 0 || g.Dz <= 0 {
		return fmt.Errorf("model: voxel size must be positive, got (%g,%g,%g)", g.Dx, g.Dy, g.Dz)
	}
	return nil
}
