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
	"testing"

	"github.com/ctessum/geom"
)

func TestRasterizePoint(t *testing.T) {
	ctx := &Context{Name: "r", Nx: 4, Ny: 4, Dx: 30}
	o, err := Rasterize(ctx, []geom.Geom{geom.Point{X: 45, Y: 75}}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := o.Get(2, 1); got != 1 {
		t.Errorf("cell holding point = %g; want 1", got)
	}
	if !IsNoData(o.Get(0, 0)) {
		t.Error("cell without features should be NoData")
	}

	// Points outside the grid are ignored.
	o, err = Rasterize(ctx, []geom.Geom{geom.Point{X: -10, Y: -10}}, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range o.Data.Elements {
		if !IsNoData(v) {
			t.Fatal("point outside the grid marked a cell")
		}
	}
}

func TestRasterizeLine(t *testing.T) {
	ctx := &Context{Name: "r", Nx: 4, Ny: 4, Dx: 30}
	line := geom.LineString{{X: 15, Y: 15}, {X: 105, Y: 15}}
	o, err := Rasterize(ctx, []geom.Geom{line}, 1)
	if err != nil {
		t.Fatal(err)
	}
	for col := 0; col < 4; col++ {
		if got := o.Get(0, col); got != 1 {
			t.Errorf("cell (0,%d) crossed by line = %g; want 1", col, got)
		}
	}
	if !IsNoData(o.Get(1, 0)) {
		t.Error("cell off the line should be NoData")
	}
}

func TestRasterizePolygonMajority(t *testing.T) {
	ctx := &Context{Name: "r", Nx: 4, Ny: 4, Dx: 30}
	// Covers all of cell (0,0) and 2/3 of cell (0,1).
	poly := geom.Polygon{{
		{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 30}, {X: 0, Y: 30},
	}}
	o, err := Rasterize(ctx, []geom.Geom{poly}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := o.Get(0, 0); got != 1 {
		t.Errorf("fully covered cell = %g; want 1", got)
	}
	if got := o.Get(0, 1); got != 1 {
		t.Errorf("majority covered cell = %g; want 1", got)
	}
	if !IsNoData(o.Get(0, 2)) {
		t.Error("uncovered cell should be NoData")
	}
}

func TestRasterizeSmallPolygon(t *testing.T) {
	ctx := &Context{Name: "r", Nx: 4, Ny: 4, Dx: 30}
	// Smaller than half a cell, but still claims its centroid cell.
	poly := geom.Polygon{{
		{X: 40, Y: 40}, {X: 44, Y: 40}, {X: 44, Y: 44}, {X: 40, Y: 44},
	}}
	o, err := Rasterize(ctx, []geom.Geom{poly}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := o.Get(1, 1); got != 1 {
		t.Errorf("centroid cell = %g; want 1", got)
	}
}

func TestRasterizeNilShape(t *testing.T) {
	ctx := &Context{Name: "r", Nx: 2, Ny: 2, Dx: 30}
	if _, err := Rasterize(ctx, []geom.Geom{nil}, 1); err != nil {
		t.Errorf("null shape should be skipped, got %v", err)
	}
}
