/*
Copyright 2017-2020 Environmental Incentives, LLC.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package cohqt implements the raster modeling engine for the Colorado
// Habitat Exchange Habitat Quantification Tool: gridded surfaces of habitat
// quality and anthropogenic disturbance that are combined through
// distance-decay and multiplicative overlay models and summarized to
// project map units.
package cohqt

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"github.com/ctessum/sparse"
)

// Version is the tool version reported by the command line interface.
const Version = "1.2.0"

// Context carries the workspace identity and grid alignment that every
// surface in a run shares: cell size, extent origin, and spatial reference.
// All surfaces created from the same Context are snap-aligned by
// construction; surfaces from different Contexts may not be combined.
type Context struct {
	// Name identifies the workspace (usually the project name). It
	// prefixes artifact names in the Store.
	Name string

	// Nx and Ny are the number of grid columns and rows.
	Nx, Ny int

	// Dx is the cell size [m]. Cells are square.
	Dx float64

	// X0 and Y0 are the coordinates of the lower-left corner of the grid.
	X0, Y0 float64

	// SR is the spatial reference of the grid. It may be nil when all
	// inputs are already projected to the program's standard projection.
	SR *proj.SR
}

// NewContext creates a grid context with the given dimensions, cell
// size and origin.
func NewContext(name string, nx, ny int, dx, x0, y0 float64) (*Context, error) {
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("in cohqt.NewContext: invalid grid dimensions %d x %d", nx, ny)
	}
	if dx <= 0 {
		return nil, fmt.Errorf("in cohqt.NewContext: invalid cell size %g", dx)
	}
	return &Context{Name: name, Nx: nx, Ny: ny, Dx: dx, X0: x0, Y0: y0}, nil
}

// Extent returns the rectangular boundary of the grid.
func (c *Context) Extent() geom.Polygon {
	x1 := c.X0 + float64(c.Nx)*c.Dx
	y1 := c.Y0 + float64(c.Ny)*c.Dx
	return geom.Polygon{{
		{X: c.X0, Y: c.Y0}, {X: x1, Y: c.Y0},
		{X: x1, Y: y1}, {X: c.X0, Y: y1}, {X: c.X0, Y: c.Y0},
	}}
}

// CellCenter returns the center point of the cell at the given row and
// column. Rows count upward from Y0.
func (c *Context) CellCenter(row, col int) geom.Point {
	return geom.Point{
		X: c.X0 + (float64(col)+0.5)*c.Dx,
		Y: c.Y0 + (float64(row)+0.5)*c.Dx,
	}
}

// CellPolygon returns the boundary of the cell at the given row and column.
func (c *Context) CellPolygon(row, col int) geom.Polygon {
	x := c.X0 + float64(col)*c.Dx
	y := c.Y0 + float64(row)*c.Dx
	return geom.Polygon{{
		{X: x, Y: y}, {X: x + c.Dx, Y: y},
		{X: x + c.Dx, Y: y + c.Dx}, {X: x, Y: y + c.Dx}, {X: x, Y: y},
	}}
}

// Index returns the row and column of the cell containing point p.
// withinGrid is false if p falls outside the grid extent.
func (c *Context) Index(p geom.Point) (row, col int, withinGrid bool) {
	col = int(math.Floor((p.X - c.X0) / c.Dx))
	row = int(math.Floor((p.Y - c.Y0) / c.Dx))
	withinGrid = col >= 0 && col < c.Nx && row >= 0 && row < c.Ny
	return
}

// aligned reports whether two contexts describe the same snap grid.
func (c *Context) aligned(o *Context) bool {
	return c.Nx == o.Nx && c.Ny == o.Ny && c.Dx == o.Dx &&
		c.X0 == o.X0 && c.Y0 == o.Y0
}

// IsNoData reports whether v is the NoData sentinel. NoData is distinct
// from zero and does not participate in arithmetic unless a caller
// explicitly converts it first.
func IsNoData(v float64) bool { return math.IsNaN(v) }

// NoData is the sentinel value for cells with no data.
func NoData() float64 { return math.NaN() }

// Surface is a regular 2-D grid of floating point cells over the extent
// defined by its Context. Surfaces are immutable once published: every
// operation returns a new Surface and never modifies its inputs.
type Surface struct {
	Ctx  *Context
	Data *sparse.DenseArray // shape [Ny][Nx]
}

// NewSurface creates a surface with every cell set to NoData.
func NewSurface(ctx *Context) *Surface {
	s := &Surface{Ctx: ctx, Data: sparse.ZerosDense(ctx.Ny, ctx.Nx)}
	for i := range s.Data.Elements {
		s.Data.Elements[i] = math.NaN()
	}
	return s
}

// ConstantSurface creates a surface with every cell set to v.
func ConstantSurface(ctx *Context, v float64) *Surface {
	s := &Surface{Ctx: ctx, Data: sparse.ZerosDense(ctx.Ny, ctx.Nx)}
	if v != 0 {
		for i := range s.Data.Elements {
			s.Data.Elements[i] = v
		}
	}
	return s
}

// Get returns the value of the cell at the given row and column.
func (s *Surface) Get(row, col int) float64 { return s.Data.Get(row, col) }

// Set sets the value of the cell at the given row and column. It is only
// valid before the surface has been published to a Store. The element is
// written directly: DenseArray.Set skips zero values, which would leave a
// NoData cell NoData when it should become 0.
func (s *Surface) Set(row, col int, v float64) {
	s.Data.Elements[row*s.Ctx.Nx+col] = v
}

// Copy returns a deep copy of the surface sharing the same Context.
func (s *Surface) Copy() *Surface {
	return &Surface{Ctx: s.Ctx, Data: s.Data.Copy()}
}

// checkAlignment returns an error unless all surfaces share the snap grid
// of the first. Misaligned surfaces are a caller error, never silently
// resampled.
func checkAlignment(op string, surfaces ...*Surface) error {
	if len(surfaces) == 0 {
		return fmt.Errorf("in cohqt.%s: no surfaces given", op)
	}
	first := surfaces[0].Ctx
	for _, s := range surfaces[1:] {
		if !first.aligned(s.Ctx) {
			return fmt.Errorf("in cohqt.%s: surface alignment mismatch: "+
				"%dx%d cell %g at (%g,%g) vs %dx%d cell %g at (%g,%g)",
				op, first.Nx, first.Ny, first.Dx, first.X0, first.Y0,
				s.Ctx.Nx, s.Ctx.Ny, s.Ctx.Dx, s.Ctx.X0, s.Ctx.Y0)
		}
	}
	return nil
}
