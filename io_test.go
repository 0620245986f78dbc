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
	"bytes"
	"math"
	"testing"
)

func TestSaveLoad(t *testing.T) {
	ctx := &Context{Name: "conifer", Nx: 3, Ny: 2, Dx: 30, X0: 100, Y0: 200}
	s := NewSurface(ctx)
	s.Set(0, 0, 1.5)
	s.Set(1, 2, 42)

	var buf bytes.Buffer
	if err := s.Save(&buf); err != nil {
		t.Fatal(err)
	}
	o, err := Load(&buf, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := o.Get(0, 0); got != 1.5 {
		t.Errorf("loaded (0,0) = %g; want 1.5", got)
	}
	if got := o.Get(1, 2); got != 42 {
		t.Errorf("loaded (1,2) = %g; want 42", got)
	}
	if !math.IsNaN(o.Get(0, 1)) {
		t.Error("NoData cell did not survive the round trip")
	}
}

func TestLoadAlignmentMismatch(t *testing.T) {
	ctx := &Context{Name: "a", Nx: 3, Ny: 2, Dx: 30}
	s := NewSurface(ctx)
	var buf bytes.Buffer
	if err := s.Save(&buf); err != nil {
		t.Fatal(err)
	}
	other := &Context{Name: "b", Nx: 3, Ny: 2, Dx: 10}
	if _, err := Load(&buf, other); err == nil {
		t.Error("loading into a misaligned grid did not fail")
	}
}
