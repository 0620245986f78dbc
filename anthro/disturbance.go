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

package anthro

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	cohqt "github.com/eanderson-ei/co-hqt"
)

// Term selects which stage of a project a disturbance surface describes.
type Term int

const (
	// Pre is the pre-project (current conditions) term.
	Pre Term = iota
	// Post is the post-project (projected conditions) term.
	Post
	// LekModifier is the lek disturbance modifier term, computed from
	// proposed features only.
	LekModifier
)

// String returns the term's artifact-name prefix.
func (t Term) String() string {
	switch t {
	case Pre:
		return "Pre"
	case Post:
		return "Post"
	case LekModifier:
		return "LekDisturbanceModifier"
	}
	return fmt.Sprintf("Term(%d)", int(t))
}

// SubtypeDisturbance converts one subtype's presence raster into a
// disturbance surface on a 0-100 scale, where 100 is no disturbance.
//
// Subtypes with an indirect-effect distance d > 0 get a sigmoid
// distance-decay: full weighted effect at the feature, decaying to
// negligible beyond d. Cells beyond the distance transform's analysis
// extent take 100 (no effect). Subtypes with d = 0 but weight > 0 reduce
// only cells with direct presence. Subtypes with d = 0 and weight = 0 are
// inert: the returned surface is nil and the subtype contributes nothing.
func SubtypeDisturbance(presence *cohqt.Surface, dist, weight float64) (*cohqt.Surface, error) {
	if dist < 0 || weight < 0 || weight > 100 {
		return nil, fmt.Errorf("in anthro.SubtypeDisturbance: invalid parameters distance=%g weight=%g",
			dist, weight)
	}
	switch {
	case dist > 0:
		eucDist, err := cohqt.EucDistance(presence, dist)
		if err != nil {
			return nil, err
		}
		o := eucDist.Copy()
		half := dist / 2
		for i, v := range o.Data.Elements {
			if cohqt.IsNoData(v) {
				// Beyond the decay distance: no effect.
				o.Data.Elements[i] = 100
				continue
			}
			o.Data.Elements[i] = 100 - weight/(1+math.Exp((v/half-1)*5))
		}
		return o, nil
	case weight > 0:
		o := cohqt.ReplaceNoData(presence, 0)
		for i, v := range o.Data.Elements {
			o.Data.Elements[i] = 100 - v*weight
		}
		return o, nil
	default:
		return nil, nil
	}
}

// TypeDisturbance combines the subtype surfaces of one disturbance type
// into a single surface normalized to [0, 1]. The worst (minimum)
// disturbance among co-located subtypes dominates.
func TypeDisturbance(subtypeSurfaces []*cohqt.Surface) (*cohqt.Surface, error) {
	if len(subtypeSurfaces) == 0 {
		return nil, fmt.Errorf("in anthro.TypeDisturbance: no subtype surfaces; " +
			"types with no contributing subtypes must be skipped")
	}
	min, err := cohqt.Minimum(subtypeSurfaces...)
	if err != nil {
		return nil, err
	}
	return cohqt.Scale(min, 1./100), nil
}

// Compositor computes the composite anthropogenic disturbance surface for
// one term and species context.
type Compositor struct {
	// Table is the parameter lookup for the run.
	Table *Table

	// Prefix names the species context in published artifact names,
	// keeping contexts that share a Store from colliding.
	Prefix string

	// DistField and WeightField name the parameter table columns for the
	// species context being modeled.
	DistField, WeightField string

	// Background holds the species' fixed background index surfaces
	// (agriculture suitability, open water). They multiply into the
	// composite even when no disturbance type contributes.
	Background []*cohqt.Surface

	// Mask, if non-nil, limits features to cells where the mask is
	// nonzero before each subtype surface is computed.
	Mask *cohqt.Surface

	// Store, if non-nil, receives the intermediate subtype and type
	// surfaces under deterministic names.
	Store *cohqt.Store
}

// Disturbance builds the composite disturbance surface for the given term
// from the per-subtype presence rasters. Subtypes missing from presence
// (or mapped to nil) have no features in the analysis area and are
// skipped; types where every subtype is skipped are excluded from the
// composite entirely. The result is on a [0, 1] scale.
func (c *Compositor) Disturbance(term Term, presence map[string]*cohqt.Surface) (*cohqt.Surface, error) {
	for subtype := range presence {
		if _, err := c.Table.TypeOf(subtype); err != nil {
			return nil, fmt.Errorf("in anthro.Compositor.Disturbance: %v", err)
		}
	}

	var typeSurfaces []*cohqt.Surface
	var ctx *cohqt.Context
	for _, typ := range c.Table.UniqueTypes() {
		logrus.Infof("Evaluating %v %s disturbance", term, typ)
		var subtypeSurfaces []*cohqt.Surface
		for _, subtype := range c.Table.SubtypesOf(typ) {
			features, ok := presence[subtype]
			if !ok || features == nil {
				continue
			}
			ctx = features.Ctx
			dist, weight, err := c.Table.Lookup(subtype, c.DistField, c.WeightField)
			if err != nil {
				return nil, err
			}
			if c.Mask != nil {
				features, err = maskFeatures(features, c.Mask)
				if err != nil {
					return nil, err
				}
			}
			if dist > 0 {
				logrus.Infof("  Calculating direct and indirect effects of %s", subtype)
			} else if weight > 0 {
				logrus.Infof("  Calculating direct effects of %s", subtype)
			}
			s, err := SubtypeDisturbance(features, dist, weight)
			if err != nil {
				return nil, err
			}
			if s == nil {
				continue
			}
			if err := c.publish(fmt.Sprintf("%v_%s_Subtype_Disturbance", term, subtype), s); err != nil {
				return nil, err
			}
			subtypeSurfaces = append(subtypeSurfaces, s)
		}
		if len(subtypeSurfaces) == 0 {
			continue
		}
		logrus.Infof("   Combining effects of %s features", typ)
		typeSurface, err := TypeDisturbance(subtypeSurfaces)
		if err != nil {
			return nil, err
		}
		if err := c.publish(fmt.Sprintf("%v_%s_Type_Disturbance", term, typ), typeSurface); err != nil {
			return nil, err
		}
		typeSurfaces = append(typeSurfaces, typeSurface)
	}

	factors := append(typeSurfaces, c.Background...)
	if len(factors) == 0 {
		if ctx == nil {
			return nil, fmt.Errorf("in anthro.Compositor.Disturbance: no disturbance types " +
				"contribute and no background indices are configured")
		}
		// No disturbance modeled anywhere.
		return cohqt.ConstantSurface(ctx, 1), nil
	}
	return cohqt.Multiply(factors...)
}

func (c *Compositor) publish(name string, s *cohqt.Surface) error {
	if c.Store == nil {
		return nil
	}
	if c.Prefix != "" {
		name = c.Prefix + "_" + name
	}
	return c.Store.Put(name, s)
}

// maskFeatures keeps features only in cells inside the mask.
func maskFeatures(features, mask *cohqt.Surface) (*cohqt.Surface, error) {
	noData := cohqt.NewSurface(features.Ctx)
	return cohqt.Con(mask, func(v float64) bool { return v != 0 }, features, noData)
}

// MaskedDisturbance combines the two mule deer context composites into
// one surface. The open-context composite is forced to 1 (no effect)
// outside the open-habitat mask, then the more severe of the two
// composites wins per cell.
func MaskedDisturbance(pj, open, openMask *cohqt.Surface) (*cohqt.Surface, error) {
	ones := cohqt.ConstantSurface(open.Ctx, 1)
	openOnly, err := cohqt.Con(openMask, func(v float64) bool { return v == 1 }, open, ones)
	if err != nil {
		return nil, fmt.Errorf("in anthro.MaskedDisturbance: %v", err)
	}
	return cohqt.Minimum(openOnly, pj)
}
