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
	"math"
	"testing"
)

func TestEucDistance(t *testing.T) {
	ctx := &Context{Name: "dist", Nx: 10, Ny: 10, Dx: 30}
	presence := NewSurface(ctx)
	presence.Set(5, 5, 1)

	o, err := EucDistance(presence, 1e6)
	if err != nil {
		t.Fatal(err)
	}
	if got := o.Get(5, 5); got != 0 {
		t.Errorf("distance at source = %g; want 0", got)
	}
	if got := o.Get(5, 8); math.Abs(got-90) > 1e-9 {
		t.Errorf("distance 3 cells east = %g; want 90", got)
	}
	if got := o.Get(2, 5); math.Abs(got-90) > 1e-9 {
		t.Errorf("distance 3 cells north = %g; want 90", got)
	}
	want := math.Hypot(3, 4) * 30
	if got := o.Get(8, 9); math.Abs(got-want) > 1e-9 {
		t.Errorf("diagonal distance = %g; want %g", got, want)
	}
}

func TestEucDistanceMaxDist(t *testing.T) {
	ctx := &Context{Name: "dist", Nx: 10, Ny: 1, Dx: 30}
	presence := NewSurface(ctx)
	presence.Set(0, 0, 1)

	o, err := EucDistance(presence, 100)
	if err != nil {
		t.Fatal(err)
	}
	if got := o.Get(0, 3); math.Abs(got-90) > 1e-9 {
		t.Errorf("distance within cap = %g; want 90", got)
	}
	if !IsNoData(o.Get(0, 4)) {
		t.Errorf("distance beyond cap = %g; want NoData", o.Get(0, 4))
	}
}

func TestEucDistanceMultipleSources(t *testing.T) {
	ctx := &Context{Name: "dist", Nx: 9, Ny: 1, Dx: 30}
	presence := NewSurface(ctx)
	presence.Set(0, 0, 1)
	presence.Set(0, 8, 1)

	o, err := EucDistance(presence, 1e6)
	if err != nil {
		t.Fatal(err)
	}
	// The middle cell is equidistant from both sources.
	if got := o.Get(0, 4); math.Abs(got-120) > 1e-9 {
		t.Errorf("distance at midpoint = %g; want 120", got)
	}
	// Each cell takes the nearer source.
	if got := o.Get(0, 6); math.Abs(got-60) > 1e-9 {
		t.Errorf("distance near second source = %g; want 60", got)
	}
}

func TestEucDistanceNoSources(t *testing.T) {
	ctx := &Context{Name: "dist", Nx: 4, Ny: 4, Dx: 30}
	o, err := EucDistance(NewSurface(ctx), 1e6)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range o.Data.Elements {
		if !IsNoData(v) {
			t.Fatal("surface with no sources should be all NoData")
		}
	}
}
