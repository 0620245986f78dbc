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

// Package hqtutil wires the quantification pipeline together: it loads
// the layer catalog, parameter table, and project inputs, and drives the
// credit and debit analyses.
package hqtutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	cohqt "github.com/eanderson-ei/co-hqt"
	"github.com/eanderson-ei/co-hqt/habitat"
)

// Names of the baseline surfaces a layer catalog provides.
const (
	LayerAgIndex    = "Ag_Index"
	LayerWaterIndex = "Water_Index"

	LayerGrSGRange   = "GrSG_Range"
	LayerGrSGLDI     = "GrSG_LDI"
	LayerGrSGHabitat = "GrSG_Habitat"
	LayerConifer     = "Conifer_Cover"
	LayerLekPresence = "Lek_Presence"
	LayerLekModifier = "Lek_Modifier"
	LayerSage        = "Sage_Modifier"

	LayerMuleRange     = "Mule_Range"
	LayerMuleLDI       = "Mule_LDI"
	LayerMuleHabitat   = "Mule_Habitat"
	LayerMuleOpen      = "BWMD_Open"
	LayerMuleSummer    = "Summer_Modifier"
	LayerMuleMigration = "Migration_Modifier"
	LayerMuleWinter    = "Winter_Modifier"
)

// GridSpec defines the analysis grid a catalog's surfaces are aligned to.
type GridSpec struct {
	Name   string
	Nx, Ny int
	Dx     float64
	X0, Y0 float64
}

// Catalog is the baseline layer catalog: the analysis grid plus the
// fixed habitat and modifier surfaces, stored as one file per surface
// next to the catalog file.
type Catalog struct {
	Grid     GridSpec
	Surfaces map[string]string

	dir   string
	ctx   *cohqt.Context
	cache map[string]*cohqt.Surface
}

// ReadCatalog reads a TOML layer catalog. Surface paths are resolved
// relative to the catalog file.
func ReadCatalog(filename string) (*Catalog, error) {
	c := new(Catalog)
	if _, err := toml.DecodeFile(filename, c); err != nil {
		return nil, fmt.Errorf("in hqtutil.ReadCatalog: %s: %v", filename, err)
	}
	ctx, err := cohqt.NewContext(c.Grid.Name, c.Grid.Nx, c.Grid.Ny,
		c.Grid.Dx, c.Grid.X0, c.Grid.Y0)
	if err != nil {
		return nil, fmt.Errorf("in hqtutil.ReadCatalog: %s: %v", filename, err)
	}
	c.dir = filepath.Dir(filename)
	c.ctx = ctx
	c.cache = make(map[string]*cohqt.Surface)
	return c, nil
}

// Context returns the catalog's analysis grid.
func (c *Catalog) Context() *cohqt.Context { return c.ctx }

// Has reports whether the catalog provides the named surface.
func (c *Catalog) Has(name string) bool {
	_, ok := c.Surfaces[name]
	return ok
}

// Surface loads the named surface, checking its alignment against the
// catalog grid. Loaded surfaces are cached.
func (c *Catalog) Surface(name string) (*cohqt.Surface, error) {
	if s, ok := c.cache[name]; ok {
		return s, nil
	}
	path, ok := c.Surfaces[name]
	if !ok {
		return nil, fmt.Errorf("in hqtutil.Catalog.Surface: the layer catalog has no surface %q", name)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.dir, path)
	}
	s, err := cohqt.LoadFile(path, c.ctx)
	if err != nil {
		return nil, fmt.Errorf("in hqtutil.Catalog.Surface: %s: %v", name, err)
	}
	c.cache[name] = s
	return s, nil
}

// Modifiers assembles the habitat modifier set for the species from the
// catalog. The conifer modifier is derived from conifer cover by scoring
// the current canopy.
func (c *Catalog) Modifiers(sp habitat.Species) (habitat.Modifiers, error) {
	switch sp {
	case habitat.SageGrouse:
		cover, err := c.Surface(LayerConifer)
		if err != nil {
			return nil, err
		}
		conifer, err := habitat.ConiferPost(cover, nil)
		if err != nil {
			return nil, err
		}
		ldi, err := c.Surface(LayerGrSGLDI)
		if err != nil {
			return nil, err
		}
		lek, err := c.Surface(LayerLekModifier)
		if err != nil {
			return nil, err
		}
		sage, err := c.Surface(LayerSage)
		if err != nil {
			return nil, err
		}
		return habitat.Modifiers{
			habitat.Conifer:     conifer,
			habitat.LDI:         ldi,
			habitat.LekDistance: lek,
			habitat.Sage:        sage,
		}, nil
	case habitat.MuleDeer:
		ldi, err := c.Surface(LayerMuleLDI)
		if err != nil {
			return nil, err
		}
		summer, err := c.Surface(LayerMuleSummer)
		if err != nil {
			return nil, err
		}
		migration, err := c.Surface(LayerMuleMigration)
		if err != nil {
			return nil, err
		}
		winter, err := c.Surface(LayerMuleWinter)
		if err != nil {
			return nil, err
		}
		return habitat.Modifiers{
			habitat.LDI:               ldi,
			habitat.SummerModifier:    summer,
			habitat.MigrationModifier: migration,
			habitat.WinterModifier:    winter,
		}, nil
	}
	return nil, fmt.Errorf("in hqtutil.Catalog.Modifiers: unknown species %v", sp)
}

// checkOutputFile checks that the output file's directory exists.
func checkOutputFile(filename string) error {
	if filename == "" {
		return fmt.Errorf("in hqtutil: an output file must be specified")
	}
	dir := filepath.Dir(filename)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("in hqtutil: output directory %s does not exist", dir)
	}
	return nil
}
