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

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
)

// Feature is a vector feature with the attribute values that were read
// alongside its geometry.
type Feature struct {
	Geom   geom.Geom
	Fields map[string]string
}

// ReadFeatures reads all features from a shapefile, keeping the named
// attribute fields.
func ReadFeatures(filename string, fieldNames ...string) ([]Feature, error) {
	d, err := shp.NewDecoder(filename)
	if err != nil {
		return nil, fmt.Errorf("in cohqt.ReadFeatures: opening %s: %v", filename, err)
	}
	defer d.Close()
	var feats []Feature
	for {
		g, fields, more := d.DecodeRowFields(fieldNames...)
		if !more {
			break
		}
		feats = append(feats, Feature{Geom: g, Fields: fields})
	}
	if err := d.Error(); err != nil {
		return nil, fmt.Errorf("in cohqt.ReadFeatures: reading %s: %v", filename, err)
	}
	return feats, nil
}

// Rasterize converts vector features to a presence surface at the
// context's cell size: cells touched by a feature are set to value and all
// other cells are NoData. Polygons claim a cell when they cover the
// majority of it, or, for features smaller than one cell, the cell
// containing the feature's centroid, so small pads are not lost between
// cell centers. Lines claim every cell they cross and points the cell
// containing them.
func Rasterize(ctx *Context, feats []geom.Geom, value float64) (*Surface, error) {
	o := NewSurface(ctx)
	for _, g := range feats {
		switch t := g.(type) {
		case geom.Point:
			rasterizePoint(o, t, value)
		case geom.MultiPoint:
			for _, p := range t {
				rasterizePoint(o, p, value)
			}
		case geom.LineString:
			rasterizeLine(o, t, value)
		case geom.MultiLineString:
			for _, l := range t {
				rasterizeLine(o, l, value)
			}
		case geom.Polygon:
			rasterizePolygon(o, t, value)
		case geom.MultiPolygon:
			for _, p := range t {
				rasterizePolygon(o, p, value)
			}
		case nil:
			// Null shape; skip.
		default:
			return nil, fmt.Errorf("in cohqt.Rasterize: unsupported geometry type %T", g)
		}
	}
	return o, nil
}

func rasterizePoint(o *Surface, p geom.Point, value float64) {
	if row, col, ok := o.Ctx.Index(p); ok {
		o.Set(row, col, value)
	}
}

func rasterizeLine(o *Surface, l geom.LineString, value float64) {
	for i := 0; i < len(l)-1; i++ {
		rasterizeSegment(o, l[i], l[i+1], value)
	}
	if len(l) == 1 {
		rasterizePoint(o, l[0], value)
	}
}

// rasterizeSegment marks every cell the segment a-b passes through by
// sampling the segment at quarter-cell intervals.
func rasterizeSegment(o *Surface, a, b geom.Point, value float64) {
	ctx := o.Ctx
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	step := ctx.Dx / 4
	n := int(length/step) + 1
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		p := geom.Point{X: a.X + t*dx, Y: a.Y + t*dy}
		if row, col, ok := ctx.Index(p); ok {
			o.Set(row, col, value)
		}
	}
}

func rasterizePolygon(o *Surface, p geom.Polygon, value float64) {
	ctx := o.Ctx
	b := p.Bounds()
	cellArea := ctx.Dx * ctx.Dx

	// Features smaller than a cell still claim the cell holding their
	// centroid.
	if p.Area() < cellArea {
		rasterizePoint(o, p.Centroid(), value)
		return
	}

	r0, c0, _ := ctx.Index(geom.Point{X: b.Min.X, Y: b.Min.Y})
	r1, c1, _ := ctx.Index(geom.Point{X: b.Max.X, Y: b.Max.Y})
	r0, c0 = clampIndex(r0, ctx.Ny), clampIndex(c0, ctx.Nx)
	r1, c1 = clampIndex(r1, ctx.Ny), clampIndex(c1, ctx.Nx)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			cell := ctx.CellPolygon(row, col)
			if cell.Intersection(p).Area() >= cellArea/2 {
				o.Set(row, col, value)
			}
		}
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
