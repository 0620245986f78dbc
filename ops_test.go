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

func testCtx() *Context {
	return &Context{Name: "test", Nx: 4, Ny: 4, Dx: 30, X0: 0, Y0: 0}
}

// Setting an explicit 0 must clear NoData. DenseArray.Set drops zero
// writes, so Surface.Set writes the element directly; a regression here
// turns fully treated cover into NoData instead of 0.
func TestSetZero(t *testing.T) {
	s := NewSurface(testCtx())
	s.Set(0, 0, 0)
	if v := s.Get(0, 0); IsNoData(v) || v != 0 {
		t.Errorf("cell after Set(0, 0, 0) = %g; want 0", v)
	}
}

func TestFocalMeanZeroNeighborhood(t *testing.T) {
	s := ConstantSurface(testCtx(), 0)
	o := FocalMean(s, 45)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if v := o.Get(r, c); IsNoData(v) || v != 0 {
				t.Fatalf("mean of all-zero neighborhood at (%d,%d) = %g; want 0", r, c, v)
			}
		}
	}
}

func TestReplaceNoData(t *testing.T) {
	s := NewSurface(testCtx())
	s.Set(1, 1, 7)
	o := ReplaceNoData(s, 100)
	if got := o.Get(0, 0); got != 100 {
		t.Errorf("filled cell = %g; want 100", got)
	}
	if got := o.Get(1, 1); got != 7 {
		t.Errorf("data cell = %g; want 7", got)
	}
	if !IsNoData(s.Get(0, 0)) {
		t.Error("input surface was mutated")
	}
}

func TestCon(t *testing.T) {
	ctx := testCtx()
	cond := NewSurface(ctx)
	cond.Set(0, 0, 1)
	cond.Set(0, 1, 0)
	// (0, 2) stays NoData.
	a := ConstantSurface(ctx, 10)
	b := ConstantSurface(ctx, 20)

	o, err := Con(cond, func(v float64) bool { return v == 1 }, a, b)
	if err != nil {
		t.Fatal(err)
	}
	if got := o.Get(0, 0); got != 10 {
		t.Errorf("true cell = %g; want 10", got)
	}
	if got := o.Get(0, 1); got != 20 {
		t.Errorf("false cell = %g; want 20", got)
	}
	if got := o.Get(0, 2); got != 20 {
		t.Errorf("NoData cell = %g; want 20 (NoData fails the test)", got)
	}
}

func TestMultiplyPropagatesNoData(t *testing.T) {
	ctx := testCtx()
	a := ConstantSurface(ctx, 0.5)
	b := ConstantSurface(ctx, 0.5)
	b.Set(2, 2, math.NaN())

	o, err := Multiply(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if got := o.Get(0, 0); got != 0.25 {
		t.Errorf("product = %g; want 0.25", got)
	}
	if !IsNoData(o.Get(2, 2)) {
		t.Error("NoData did not propagate through multiplication")
	}
}

func TestMultiplyCommutative(t *testing.T) {
	ctx := testCtx()
	a := ConstantSurface(ctx, 0.3)
	b := ConstantSurface(ctx, 0.7)
	c := ConstantSurface(ctx, 0.9)

	x, err := Multiply(a, b, c)
	if err != nil {
		t.Fatal(err)
	}
	y, err := Multiply(c, a, b)
	if err != nil {
		t.Fatal(err)
	}
	for i := range x.Data.Elements {
		if math.Abs(x.Data.Elements[i]-y.Data.Elements[i]) > 1e-15 {
			t.Fatal("multiplication is order dependent")
		}
	}
}

func TestMinimumSkipsNoData(t *testing.T) {
	ctx := testCtx()
	a := ConstantSurface(ctx, 60)
	a.Set(0, 0, math.NaN())
	b := ConstantSurface(ctx, 80)
	b.Set(1, 1, math.NaN())
	b.Set(0, 0, math.NaN())

	o, err := Minimum(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if got := o.Get(2, 2); got != 60 {
		t.Errorf("minimum = %g; want 60", got)
	}
	if got := o.Get(1, 1); got != 60 {
		t.Errorf("minimum with one NoData input = %g; want 60", got)
	}
	if !IsNoData(o.Get(0, 0)) {
		t.Error("cell NoData in all inputs should stay NoData")
	}
}

func TestMean(t *testing.T) {
	ctx := testCtx()
	a := ConstantSurface(ctx, 0.2)
	b := ConstantSurface(ctx, 0.8)
	b.Set(3, 3, math.NaN())

	o, err := Mean(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if got := o.Get(0, 0); math.Abs(got-0.5) > 1e-15 {
		t.Errorf("mean = %g; want 0.5", got)
	}
	if got := o.Get(3, 3); math.Abs(got-0.2) > 1e-15 {
		t.Errorf("mean skipping NoData = %g; want 0.2", got)
	}
}

func TestScale(t *testing.T) {
	s := ConstantSurface(testCtx(), 80)
	s.Set(0, 0, math.NaN())
	o := Scale(s, 1./100)
	if got := o.Get(1, 1); got != 0.8 {
		t.Errorf("scaled = %g; want 0.8", got)
	}
	if !IsNoData(o.Get(0, 0)) {
		t.Error("NoData cell did not stay NoData")
	}
}

func TestReclassify(t *testing.T) {
	remap := []RemapRange{
		{Lo: 0, Hi: 1, Out: 100},
		{Lo: 1, Hi: 2, Out: 28},
	}
	s := NewSurface(testCtx())
	s.Set(0, 0, 0.5)
	s.Set(0, 1, 1) // shared boundary, first range wins
	s.Set(0, 2, 1.5)
	s.Set(0, 3, 5) // no matching range

	o, err := Reclassify(s, remap)
	if err != nil {
		t.Fatal(err)
	}
	if got := o.Get(0, 0); got != 100 {
		t.Errorf("remap(0.5) = %g; want 100", got)
	}
	if got := o.Get(0, 1); got != 100 {
		t.Errorf("remap(1) = %g; want 100", got)
	}
	if got := o.Get(0, 2); got != 28 {
		t.Errorf("remap(1.5) = %g; want 28", got)
	}
	if !IsNoData(o.Get(0, 3)) {
		t.Error("unmatched value should become NoData")
	}
	if !IsNoData(o.Get(1, 0)) {
		t.Error("NoData should stay NoData")
	}
}

func TestFocalMean(t *testing.T) {
	ctx := &Context{Name: "focal", Nx: 9, Ny: 9, Dx: 30}
	s := ConstantSurface(ctx, 10)
	o := FocalMean(s, 90)
	// A constant surface is unchanged by smoothing, even at edges.
	for r := 0; r < ctx.Ny; r++ {
		for c := 0; c < ctx.Nx; c++ {
			if got := o.Get(r, c); math.Abs(got-10) > 1e-12 {
				t.Fatalf("focal mean at (%d,%d) = %g; want 10", r, c, got)
			}
		}
	}
}

func TestResampleNearest(t *testing.T) {
	ctx := &Context{Name: "coarse", Nx: 2, Ny: 2, Dx: 30}
	s := NewSurface(ctx)
	s.Set(0, 0, 1)
	s.Set(0, 1, 2)
	s.Set(1, 0, 3)
	s.Set(1, 1, 4)

	o, err := ResampleNearest(s, 3)
	if err != nil {
		t.Fatal(err)
	}
	if o.Ctx.Nx != 6 || o.Ctx.Ny != 6 || o.Ctx.Dx != 10 {
		t.Fatalf("resampled grid is %dx%d at %g m", o.Ctx.Nx, o.Ctx.Ny, o.Ctx.Dx)
	}
	if got := o.Get(0, 0); got != 1 {
		t.Errorf("fine (0,0) = %g; want 1", got)
	}
	if got := o.Get(2, 5); got != 2 {
		t.Errorf("fine (2,5) = %g; want 2", got)
	}
	if got := o.Get(5, 1); got != 3 {
		t.Errorf("fine (5,1) = %g; want 3", got)
	}
	if got := o.Get(3, 3); got != 4 {
		t.Errorf("fine (3,3) = %g; want 4", got)
	}

	if _, err := ResampleNearest(s, 0); err == nil {
		t.Error("invalid factor did not fail")
	}
}

func TestAlignmentChecked(t *testing.T) {
	a := ConstantSurface(testCtx(), 1)
	other := &Context{Name: "other", Nx: 5, Ny: 5, Dx: 30}
	b := ConstantSurface(other, 1)
	if _, err := Multiply(a, b); err == nil {
		t.Error("misaligned surfaces did not fail")
	}
}
