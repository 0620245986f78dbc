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
)

// EucDistance computes, for every cell, the Euclidean distance [m] from
// the cell center to the nearest source cell of presence. Source cells are
// the data cells of presence (any non-NoData value); they get distance 0.
// Cells farther than maxDist from every source are NoData, bounding the
// analysis extent of the transform the same way a capped distance raster
// does.
func EucDistance(presence *Surface, maxDist float64) (*Surface, error) {
	if maxDist <= 0 {
		return nil, fmt.Errorf("in cohqt.EucDistance: invalid maximum distance %g", maxDist)
	}
	ctx := presence.Ctx
	nx, ny := ctx.Nx, ctx.Ny

	// Squared distance transform in cell units, computed separably:
	// first along columns, then along rows (Felzenszwalb & Huttenlocher).
	inf := math.Inf(1)
	g := make([]float64, nx*ny)
	for i, v := range presence.Data.Elements {
		if IsNoData(v) {
			g[i] = inf
		}
	}

	f := make([]float64, ny)
	d := make([]float64, ny)
	for col := 0; col < nx; col++ {
		for row := 0; row < ny; row++ {
			f[row] = g[row*nx+col]
		}
		dt1d(f, d)
		for row := 0; row < ny; row++ {
			g[row*nx+col] = d[row]
		}
	}
	if nx > len(f) {
		f = make([]float64, nx)
		d = make([]float64, nx)
	}
	for row := 0; row < ny; row++ {
		copy(f[:nx], g[row*nx:(row+1)*nx])
		dt1d(f[:nx], d[:nx])
		copy(g[row*nx:(row+1)*nx], d[:nx])
	}

	o := NewSurface(ctx)
	for i, d2 := range g {
		dist := math.Sqrt(d2) * ctx.Dx
		if dist <= maxDist {
			o.Data.Elements[i] = dist
		}
	}
	return o, nil
}

// dt1d computes the 1-D squared distance transform of f into d using the
// lower envelope of parabolas rooted at each finite sample. Samples at
// +Inf carry no parabola; a scanline with no finite sample transforms to
// all +Inf.
func dt1d(f, d []float64) {
	n := len(f)
	v := make([]int, n)       // locations of parabolas in the envelope
	z := make([]float64, n+1) // boundaries between parabolas
	k := -1                   // index of the rightmost parabola
	for q := 0; q < n; q++ {
		if math.IsInf(f[q], 1) {
			continue
		}
		if k < 0 {
			k = 0
			v[0] = q
			z[0] = math.Inf(-1)
			z[1] = math.Inf(1)
			continue
		}
		s := intersect(f, q, v[k])
		for s <= z[k] {
			k--
			s = intersect(f, q, v[k])
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}
	if k < 0 {
		for q := 0; q < n; q++ {
			d[q] = math.Inf(1)
		}
		return
	}
	j := 0
	for q := 0; q < n; q++ {
		for z[j+1] < float64(q) {
			j++
		}
		dq := float64(q - v[j])
		d[q] = dq*dq + f[v[j]]
	}
}

// intersect returns the horizontal position where the parabolas rooted at
// q and p cross.
func intersect(f []float64, q, p int) float64 {
	fq := float64(q)
	fp := float64(p)
	return ((f[q] + fq*fq) - (f[p] + fp*fp)) / (2*fq - 2*fp)
}
