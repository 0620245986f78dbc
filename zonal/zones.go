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

// Package zonal summarizes quality surfaces over map unit polygons and
// turns the per-unit statistics into functional acre credits and debits.
package zonal

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"

	cohqt "github.com/eanderson-ei/co-hqt"
)

// IDField is the attribute field holding each map unit's unique integer
// identifier.
const IDField = "Map_Unit_ID"

// AcresField is the attribute field holding each map unit's area in
// acres.
const AcresField = "Acres"

const squareMetersPerAcre = 4046.8564224

// Zone is one map unit polygon with its attribute record.
type Zone struct {
	geom.Polygonal
	ID int

	// Attrs is the zone's numeric attribute record. Field writes
	// overwrite prior values under the same name.
	Attrs map[string]float64
}

// SetAttr writes a field on the zone's attribute record, overwriting any
// prior value.
func (z *Zone) SetAttr(field string, v float64) {
	if z.Attrs == nil {
		z.Attrs = make(map[string]float64)
	}
	z.Attrs[field] = v
}

// Attr returns a field from the zone's attribute record.
func (z *Zone) Attr(field string) (float64, error) {
	v, ok := z.Attrs[field]
	if !ok {
		return 0, fmt.Errorf("in zonal.Zone.Attr: map unit %d has no field %q", z.ID, field)
	}
	return v, nil
}

// ReadZones reads map unit polygons from a shapefile. Every record must
// carry a unique integer in the identifier field; duplicate or missing
// identifiers are fatal.
func ReadZones(filename string) ([]*Zone, error) {
	d, err := shp.NewDecoder(filename)
	if err != nil {
		return nil, fmt.Errorf("in zonal.ReadZones: %v", err)
	}
	defer d.Close()

	var zones []*Zone
	seen := make(map[int]bool)
	for {
		g, fields, more := d.DecodeRowFields(IDField)
		if !more {
			break
		}
		id, err := strconv.Atoi(fields[IDField])
		if err != nil {
			return nil, fmt.Errorf("in zonal.ReadZones: %s: bad %s value %q",
				filename, IDField, fields[IDField])
		}
		if seen[id] {
			return nil, fmt.Errorf("in zonal.ReadZones: %s: duplicate %s %d",
				filename, IDField, id)
		}
		seen[id] = true
		p, ok := g.(geom.Polygonal)
		if !ok {
			return nil, fmt.Errorf("in zonal.ReadZones: %s: map unit %d is %T, not a polygon",
				filename, id, g)
		}
		zones = append(zones, &Zone{
			Polygonal: p,
			ID:    id,
			Attrs: make(map[string]float64),
		})
	}
	if err := d.Error(); err != nil {
		return nil, fmt.Errorf("in zonal.ReadZones: %s: %v", filename, err)
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("in zonal.ReadZones: %s contains no map units", filename)
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].ID < zones[j].ID })
	return zones, nil
}

// CalcAcres writes each zone's polygon area, converted to acres, to the
// Acres attribute field. Geometries are assumed to be in a meter-based
// projection.
func CalcAcres(zones []*Zone) {
	for _, z := range zones {
		z.SetAttr(AcresField, z.Area()/squareMetersPerAcre)
	}
}

// DetectHabitat reports whether any zone overlaps a data cell of the
// species range surface. Projects wholly outside a species' range skip
// that species' analysis.
func DetectHabitat(zones []*Zone, rng *cohqt.Surface) bool {
	ctx := rng.Ctx
	for _, z := range zones {
		b := z.Bounds()
		r0, c0, _ := ctx.Index(b.Min)
		r1, c1, _ := ctx.Index(b.Max)
		for r := min(r0, r1); r <= max(r0, r1); r++ {
			if r < 0 || r >= ctx.Ny {
				continue
			}
			for c := min(c0, c1); c <= max(c0, c1); c++ {
				if c < 0 || c >= ctx.Nx {
					continue
				}
				if cohqt.IsNoData(rng.Get(r, c)) || rng.Get(r, c) == 0 {
					continue
				}
				if ctx.CellCenter(r, c).Within(z.Polygonal) == geom.Inside {
					return true
				}
			}
		}
	}
	return false
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
