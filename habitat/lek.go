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
	"fmt"

	cohqt "github.com/eanderson-ei/co-hqt"
)

// coniferRemap maps a focal mean percent conifer cover to a habitat
// suitability score on a 0-100 scale.
var coniferRemap = []cohqt.RemapRange{
	{Lo: 0, Hi: 1, Out: 100},
	{Lo: 1, Hi: 2, Out: 28},
	{Lo: 2, Hi: 3, Out: 14},
	{Lo: 3, Hi: 4, Out: 9},
	{Lo: 4, Hi: 5, Out: 6},
	{Lo: 5, Hi: 7, Out: 3},
	{Lo: 7, Hi: 8, Out: 2},
	{Lo: 8, Hi: 9, Out: 1},
	{Lo: 9, Hi: 100, Out: 0},
}

// coniferFocalRadius is the neighborhood radius [m] over which conifer
// cover is averaged before scoring.
const coniferFocalRadius = 400

// LekPresent reports whether a lek presence cell value marks a lek.
func LekPresent(v float64) bool { return !cohqt.IsNoData(v) && v != 0 }

// LekUpliftPre overrides the pre-project seasonal quality surface at lek
// cells: a cell with a lek is maximum quality regardless of modeled
// disturbance. Other cells pass through unchanged.
func LekUpliftPre(quality, lekPresence *cohqt.Surface) (*cohqt.Surface, error) {
	max := cohqt.ConstantSurface(quality.Ctx, 1)
	o, err := cohqt.Con(lekPresence, LekPresent, max, quality)
	if err != nil {
		return nil, fmt.Errorf("in habitat.LekUpliftPre: %v", err)
	}
	return o, nil
}

// LekUpliftPost overrides the post-project seasonal quality surface at
// lek cells with the lek uplift modifier value, crediting mitigation
// actions near the lek. Other cells pass through unchanged.
func LekUpliftPost(quality, lekPresence, modifier *cohqt.Surface) (*cohqt.Surface, error) {
	o, err := cohqt.Con(lekPresence, LekPresent, modifier, quality)
	if err != nil {
		return nil, fmt.Errorf("in habitat.LekUpliftPost: %v", err)
	}
	return o, nil
}

// Uplift returns the post-minus-pre improvement of a disturbance surface
// attributable to one mitigation action.
func Uplift(pre, post *cohqt.Surface) (*cohqt.Surface, error) {
	return cohqt.Subtract(post, pre)
}

// LekUpliftModifier accumulates the per-action uplift surfaces onto the
// lek presence surface. The accumulation is order independent.
func LekUpliftModifier(lekPresence *cohqt.Surface, uplifts ...*cohqt.Surface) (*cohqt.Surface, error) {
	o := cohqt.ReplaceNoData(lekPresence, 0)
	for _, u := range uplifts {
		var err error
		o, err = cohqt.Add(o, cohqt.ReplaceNoData(u, 0))
		if err != nil {
			return nil, fmt.Errorf("in habitat.LekUpliftModifier: %v", err)
		}
	}
	return o, nil
}

// ConiferPost projects the conifer cover modifier after treatment.
// Treated cells are overlaid as zero percent cover, the cover is averaged
// over a 400 m circular neighborhood, and the averaged cover is scored
// and rescaled to [0, 1]. A nil treatment surface scores the current
// cover unchanged.
func ConiferPost(cover, treatment *cohqt.Surface) (*cohqt.Surface, error) {
	treated := cover
	if treatment != nil {
		zero := cohqt.ConstantSurface(cover.Ctx, 0)
		var err error
		treated, err = cohqt.Con(treatment, func(v float64) bool { return v != 0 }, zero, cover)
		if err != nil {
			return nil, fmt.Errorf("in habitat.ConiferPost: %v", err)
		}
	}
	smoothed := cohqt.FocalMean(treated, coniferFocalRadius)
	scored, err := cohqt.Reclassify(smoothed, coniferRemap)
	if err != nil {
		return nil, fmt.Errorf("in habitat.ConiferPost: %v", err)
	}
	return cohqt.Scale(scored, 1./100), nil
}
