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

package zonal

import (
	"fmt"
	"math"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"

	cohqt "github.com/eanderson-ei/co-hqt"
)

// ResampleTargetDx is the cell size [m] surfaces are resampled to before
// zonal aggregation, so that small map units still contain cell centers.
const ResampleTargetDx = 5.

// MeanByZone computes the arithmetic mean of the surface within each
// zone's footprint and joins it to the zone's attribute record under the
// given field name, overwriting any prior value. NoData cells count as 0:
// on a quality surface NoData means no modeled effect, not a gap. The
// surface is resampled to targetDx (nearest neighbor) before aggregating
// when its native cells are coarser. A zone containing no resampled cell
// center is a configuration error.
func MeanByZone(zones []*Zone, s *cohqt.Surface, field string, targetDx float64) error {
	if len(zones) == 0 {
		return fmt.Errorf("in zonal.MeanByZone: no zones")
	}
	filled := cohqt.ReplaceNoData(s, 0)
	factor := 1
	if targetDx > 0 && s.Ctx.Dx > targetDx {
		factor = int(math.Ceil(s.Ctx.Dx / targetDx))
	}
	fine, err := cohqt.ResampleNearest(filled, factor)
	if err != nil {
		return fmt.Errorf("in zonal.MeanByZone: %v", err)
	}

	tree := rtree.NewTree(25, 50)
	for _, z := range zones {
		tree.Insert(z)
	}

	acc := make(map[*Zone]*stats.Stats, len(zones))
	ctx := fine.Ctx
	for r := 0; r < ctx.Ny; r++ {
		for c := 0; c < ctx.Nx; c++ {
			p := ctx.CellCenter(r, c)
			for _, zi := range tree.SearchIntersect(p.Bounds()) {
				z := zi.(*Zone)
				if p.Within(z.Polygonal) != geom.Inside {
					continue
				}
				a := acc[z]
				if a == nil {
					a = new(stats.Stats)
					acc[z] = a
				}
				a.Update(fine.Get(r, c))
			}
		}
	}

	for _, z := range zones {
		a := acc[z]
		if a == nil || a.Count() == 0 {
			return fmt.Errorf("in zonal.MeanByZone: map unit %d overlaps no cells of surface %s",
				z.ID, s.Ctx.Name)
		}
		z.SetAttr(field, a.Mean())
	}
	return nil
}
