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

package cohqt

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Cellwise map-algebra operations. Each returns a new Surface; inputs are
// never modified. NoData handling follows the program's map-algebra
// conventions: arithmetic between cells propagates NoData, while the
// statistics operations (Minimum, Mean) skip NoData cells.

// ReplaceNoData returns a copy of s with every NoData cell set to fill.
func ReplaceNoData(s *Surface, fill float64) *Surface {
	o := s.Copy()
	for i, v := range o.Data.Elements {
		if IsNoData(v) {
			o.Data.Elements[i] = fill
		}
	}
	return o
}

// Con evaluates test against each cell of cond and selects the
// corresponding cell from ifTrue where it passes and from ifFalse where it
// does not. NoData cells of cond always select from ifFalse.
func Con(cond *Surface, test func(float64) bool, ifTrue, ifFalse *Surface) (*Surface, error) {
	if err := checkAlignment("Con", cond, ifTrue, ifFalse); err != nil {
		return nil, err
	}
	o := NewSurface(cond.Ctx)
	for i, v := range cond.Data.Elements {
		if !IsNoData(v) && test(v) {
			o.Data.Elements[i] = ifTrue.Data.Elements[i]
		} else {
			o.Data.Elements[i] = ifFalse.Data.Elements[i]
		}
	}
	return o, nil
}

// Multiply returns the cellwise product of the given surfaces. A NoData
// cell in any input yields NoData in the output; callers that need NoData
// to mean "no effect" must resolve it with ReplaceNoData first.
func Multiply(surfaces ...*Surface) (*Surface, error) {
	if err := checkAlignment("Multiply", surfaces...); err != nil {
		return nil, err
	}
	o := surfaces[0].Copy()
	for _, s := range surfaces[1:] {
		floats.Mul(o.Data.Elements, s.Data.Elements)
	}
	return o, nil
}

// Add returns the cellwise sum a + b.
func Add(a, b *Surface) (*Surface, error) {
	if err := checkAlignment("Add", a, b); err != nil {
		return nil, err
	}
	o := a.Copy()
	floats.Add(o.Data.Elements, b.Data.Elements)
	return o, nil
}

// Subtract returns the cellwise difference a - b.
func Subtract(a, b *Surface) (*Surface, error) {
	if err := checkAlignment("Subtract", a, b); err != nil {
		return nil, err
	}
	o := a.Copy()
	floats.Sub(o.Data.Elements, b.Data.Elements)
	return o, nil
}

// Scale returns a copy of s with every data cell multiplied by k.
// NoData cells stay NoData.
func Scale(s *Surface, k float64) *Surface {
	o := s.Copy()
	for i, v := range o.Data.Elements {
		if !IsNoData(v) {
			o.Data.Elements[i] = v * k
		}
	}
	return o
}

// Minimum returns the cellwise minimum of the given surfaces, skipping
// NoData cells. A cell that is NoData in every input stays NoData.
func Minimum(surfaces ...*Surface) (*Surface, error) {
	return cellStatistics("Minimum", surfaces, func(acc, v float64) float64 {
		return math.Min(acc, v)
	}, nil)
}

// Mean returns the cellwise arithmetic mean of the given surfaces,
// skipping NoData cells. A cell that is NoData in every input stays
// NoData.
func Mean(surfaces ...*Surface) (*Surface, error) {
	return cellStatistics("Mean", surfaces, func(acc, v float64) float64 {
		return acc + v
	}, func(acc float64, n int) float64 {
		return acc / float64(n)
	})
}

func cellStatistics(op string, surfaces []*Surface, combine func(acc, v float64) float64,
	finish func(acc float64, n int) float64) (*Surface, error) {
	if err := checkAlignment(op, surfaces...); err != nil {
		return nil, err
	}
	o := NewSurface(surfaces[0].Ctx)
	n := len(o.Data.Elements)
	counts := make([]int, n)
	for _, s := range surfaces {
		for i, v := range s.Data.Elements {
			if IsNoData(v) {
				continue
			}
			if counts[i] == 0 {
				o.Data.Elements[i] = v
			} else {
				o.Data.Elements[i] = combine(o.Data.Elements[i], v)
			}
			counts[i]++
		}
	}
	if finish != nil {
		for i := 0; i < n; i++ {
			if counts[i] > 0 {
				o.Data.Elements[i] = finish(o.Data.Elements[i], counts[i])
			}
		}
	}
	return o, nil
}

// RemapRange maps cell values in [Lo, Hi] to Out. Ranges are evaluated in
// order; the first matching range wins, so shared boundaries belong to the
// earlier range.
type RemapRange struct {
	Lo, Hi, Out float64
}

// Reclassify maps each cell of s through the remap table. Cells matching
// no range become NoData; NoData cells stay NoData.
func Reclassify(s *Surface, remap []RemapRange) (*Surface, error) {
	if len(remap) == 0 {
		return nil, fmt.Errorf("in cohqt.Reclassify: empty remap table")
	}
	o := NewSurface(s.Ctx)
	for i, v := range s.Data.Elements {
		if IsNoData(v) {
			continue
		}
		for _, r := range remap {
			if v >= r.Lo && v <= r.Hi {
				o.Data.Elements[i] = r.Out
				break
			}
		}
	}
	return o, nil
}

// FocalMean returns, for each cell, the mean of the data cells within a
// circular neighborhood of the given radius [m] centered on the cell.
// NoData cells are skipped; a cell whose whole neighborhood is NoData
// stays NoData.
func FocalMean(s *Surface, radius float64) *Surface {
	ctx := s.Ctx
	rCells := int(radius / ctx.Dx)
	r2 := (radius / ctx.Dx) * (radius / ctx.Dx)

	// Offsets of cells within the circular neighborhood.
	type offset struct{ dr, dc int }
	var hood []offset
	for dr := -rCells; dr <= rCells; dr++ {
		for dc := -rCells; dc <= rCells; dc++ {
			if float64(dr*dr+dc*dc) <= r2 {
				hood = append(hood, offset{dr, dc})
			}
		}
	}

	o := NewSurface(ctx)
	for row := 0; row < ctx.Ny; row++ {
		for col := 0; col < ctx.Nx; col++ {
			var sum float64
			var n int
			for _, off := range hood {
				r, c := row+off.dr, col+off.dc
				if r < 0 || r >= ctx.Ny || c < 0 || c >= ctx.Nx {
					continue
				}
				v := s.Get(r, c)
				if IsNoData(v) {
					continue
				}
				sum += v
				n++
			}
			if n > 0 {
				o.Set(row, col, sum/float64(n))
			}
		}
	}
	return o
}

// ResampleNearest splits each cell into factor x factor subcells carrying
// the parent cell's value, returning a surface on a finer snap grid that
// shares the parent's extent.
func ResampleNearest(s *Surface, factor int) (*Surface, error) {
	if factor < 1 {
		return nil, fmt.Errorf("in cohqt.ResampleNearest: invalid factor %d", factor)
	}
	if factor == 1 {
		return s.Copy(), nil
	}
	ctx := s.Ctx
	fine := &Context{
		Name: ctx.Name,
		Nx:   ctx.Nx * factor, Ny: ctx.Ny * factor,
		Dx: ctx.Dx / float64(factor),
		X0: ctx.X0, Y0: ctx.Y0,
		SR: ctx.SR,
	}
	o := NewSurface(fine)
	for row := 0; row < fine.Ny; row++ {
		for col := 0; col < fine.Nx; col++ {
			o.Set(row, col, s.Get(row/factor, col/factor))
		}
	}
	return o, nil
}
