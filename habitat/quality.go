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

// Package habitat composes anthropogenic disturbance surfaces with
// species- and season-specific habitat modifier layers into seasonal
// habitat quality surfaces on a [0, 1] scale.
package habitat

import (
	"fmt"

	cohqt "github.com/eanderson-ei/co-hqt"
)

// Species identifies a modeled species.
type Species int

const (
	SageGrouse Species = iota
	MuleDeer
)

func (sp Species) String() string {
	switch sp {
	case SageGrouse:
		return "GrSG"
	case MuleDeer:
		return "Mule"
	}
	return fmt.Sprintf("Species(%d)", int(sp))
}

// Season identifies a seasonal habitat context.
type Season int

const (
	Winter Season = iota
	Breeding
	Summer
	Migration
)

func (s Season) String() string {
	switch s {
	case Winter:
		return "Winter"
	case Breeding:
		return "Breed"
	case Summer:
		return "Summer"
	case Migration:
		return "Migration"
	}
	return fmt.Sprintf("Season(%d)", int(s))
}

// Seasons returns the seasonal contexts modeled for the species.
func (sp Species) Seasons() []Season {
	switch sp {
	case SageGrouse:
		return []Season{Breeding, Summer, Winter}
	case MuleDeer:
		return []Season{Summer, Migration, Winter}
	}
	return nil
}

// Layer identifies a habitat modifier surface kind.
type Layer int

const (
	// Conifer is the conifer cover modifier.
	Conifer Layer = iota
	// LDI is the landscape disturbance index.
	LDI
	// LekDistance is the distance-to-lek modifier.
	LekDistance
	// Sage is the sagebrush cover modifier.
	Sage
	// SummerModifier, MigrationModifier and WinterModifier are the mule
	// deer seasonal range modifiers.
	SummerModifier
	MigrationModifier
	WinterModifier
)

func (l Layer) String() string {
	switch l {
	case Conifer:
		return "Conifer_Modifier"
	case LDI:
		return "LDI_Modifier"
	case LekDistance:
		return "Lek_Modifier"
	case Sage:
		return "Sage_Modifier"
	case SummerModifier:
		return "Summer_Modifier"
	case MigrationModifier:
		return "Migration_Modifier"
	case WinterModifier:
		return "Winter_Modifier"
	}
	return fmt.Sprintf("Layer(%d)", int(l))
}

// modifierSets lists the modifier layers that multiply into each species'
// seasonal quality surface, besides the composite disturbance surface.
var modifierSets = map[Species]map[Season][]Layer{
	SageGrouse: {
		Winter:   {Conifer, LDI},
		Breeding: {Conifer, LDI, LekDistance},
		Summer:   {Conifer, LDI, Sage},
	},
	MuleDeer: {
		Summer:    {LDI, SummerModifier},
		Migration: {LDI, MigrationModifier},
		Winter:    {LDI, WinterModifier},
	},
}

// ModifierSet returns the modifier layers required for the species and
// season.
func ModifierSet(sp Species, season Season) ([]Layer, error) {
	set, ok := modifierSets[sp][season]
	if !ok {
		return nil, fmt.Errorf("in habitat.ModifierSet: no modifier set for %v %v", sp, season)
	}
	return set, nil
}

// Modifiers holds the habitat modifier surfaces available to a run,
// keyed by layer kind.
type Modifiers map[Layer]*cohqt.Surface

// SeasonalQuality multiplies the composite disturbance surface by the
// species' seasonal modifier layers, and by the suitable-habitat mask if
// one is given. NoData in a modifier is resolved to 1 (no modification)
// before multiplying. The result is on a [0, 1] scale.
func SeasonalQuality(disturbance *cohqt.Surface, sp Species, season Season,
	mods Modifiers, suitableMask *cohqt.Surface) (*cohqt.Surface, error) {
	set, err := ModifierSet(sp, season)
	if err != nil {
		return nil, err
	}
	factors := []*cohqt.Surface{disturbance}
	for _, layer := range set {
		m, ok := mods[layer]
		if !ok || m == nil {
			return nil, fmt.Errorf("in habitat.SeasonalQuality: %v %v requires the %v layer",
				sp, season, layer)
		}
		factors = append(factors, cohqt.ReplaceNoData(m, 1))
	}
	if suitableMask != nil {
		factors = append(factors, cohqt.ReplaceNoData(suitableMask, 0))
	}
	o, err := cohqt.Multiply(factors...)
	if err != nil {
		return nil, fmt.Errorf("in habitat.SeasonalQuality: %v %v: %v", sp, season, err)
	}
	return o, nil
}

// AverageQuality returns the cellwise mean of the given seasonal quality
// surfaces.
func AverageQuality(seasonal ...*cohqt.Surface) (*cohqt.Surface, error) {
	if len(seasonal) == 0 {
		return nil, fmt.Errorf("in habitat.AverageQuality: no surfaces")
	}
	return cohqt.Mean(seasonal...)
}
