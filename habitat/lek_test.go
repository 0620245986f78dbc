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

package habitat

import (
	"math"
	"testing"

	cohqt "github.com/eanderson-ei/co-hqt"
)

func lekAt(ctx *cohqt.Context, row, col int) *cohqt.Surface {
	s := cohqt.NewSurface(ctx)
	s.Set(row, col, 1)
	return s
}

func TestLekUpliftPre(t *testing.T) {
	ctx := testCtx()
	quality := cohqt.ConstantSurface(ctx, 0.3)
	s, err := LekUpliftPre(quality, lekAt(ctx, 4, 4))
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Get(4, 4); got != 1 {
		t.Errorf("quality at lek = %g; want 1", got)
	}
	if got := s.Get(0, 0); got != 0.3 {
		t.Errorf("quality off lek = %g; want 0.3", got)
	}
}

func TestLekUpliftPost(t *testing.T) {
	ctx := testCtx()
	quality := cohqt.ConstantSurface(ctx, 0.3)
	modifier := cohqt.ConstantSurface(ctx, 1.15)
	s, err := LekUpliftPost(quality, lekAt(ctx, 4, 4), modifier)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Get(4, 4); math.Abs(got-1.15) > 1e-12 {
		t.Errorf("quality at lek = %g; want 1.15", got)
	}
	if got := s.Get(0, 0); got != 0.3 {
		t.Errorf("quality off lek = %g; want 0.3", got)
	}
}

func TestLekUpliftModifier(t *testing.T) {
	ctx := testCtx()
	lek := lekAt(ctx, 4, 4)

	pre := cohqt.ConstantSurface(ctx, 0.6)
	post := cohqt.ConstantSurface(ctx, 0.75)
	uplift, err := Uplift(pre, post)
	if err != nil {
		t.Fatal(err)
	}

	// Order of accumulation must not matter.
	other := cohqt.ConstantSurface(ctx, 0.05)
	a, err := LekUpliftModifier(lek, uplift, other)
	if err != nil {
		t.Fatal(err)
	}
	b, err := LekUpliftModifier(lek, other, uplift)
	if err != nil {
		t.Fatal(err)
	}

	want := 1 + 0.15 + 0.05
	if got := a.Get(4, 4); math.Abs(got-want) > 1e-12 {
		t.Errorf("modifier at lek = %g; want %g", got, want)
	}
	want = 0.15 + 0.05
	if got := a.Get(0, 0); math.Abs(got-want) > 1e-12 {
		t.Errorf("modifier off lek = %g; want %g", got, want)
	}
	for i := range a.Data.Elements {
		if math.Abs(a.Data.Elements[i]-b.Data.Elements[i]) > 1e-12 {
			t.Fatal("uplift accumulation is order dependent")
		}
	}
}

func TestConiferPost(t *testing.T) {
	ctx := testCtx()

	// Uniform heavy cover scores zero habitat value.
	cover := cohqt.ConstantSurface(ctx, 50)
	s, err := ConiferPost(cover, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Get(5, 5); got != 0 {
		t.Errorf("score under heavy cover = %g; want 0", got)
	}

	// Treating every cell removes all cover: full habitat value.
	treatment := cohqt.ConstantSurface(ctx, 1)
	s, err = ConiferPost(cover, treatment)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Get(5, 5); got != 1 {
		t.Errorf("score after treatment = %g; want 1", got)
	}
}

func TestConiferRemapBoundaries(t *testing.T) {
	tests := []struct {
		cover, want float64
	}{
		{0, 100},
		{1, 100}, // shared boundary belongs to the earlier range
		{1.5, 28},
		{2.5, 14},
		{6, 3},
		{8.5, 1},
		{50, 0},
		{100, 0},
	}
	ctx := &cohqt.Context{Name: "remap", Nx: 1, Ny: 1, Dx: 30}
	for _, test := range tests {
		s := cohqt.NewSurface(ctx)
		s.Set(0, 0, test.cover)
		o, err := cohqt.Reclassify(s, coniferRemap)
		if err != nil {
			t.Fatal(err)
		}
		if got := o.Get(0, 0); got != test.want {
			t.Errorf("cover %g scores %g; want %g", test.cover, got, test.want)
		}
	}
}
