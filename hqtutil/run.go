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

package hqtutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	cohqt "github.com/eanderson-ei/co-hqt"
	"github.com/eanderson-ei/co-hqt/anthro"
	"github.com/eanderson-ei/co-hqt/habitat"
	"github.com/eanderson-ei/co-hqt/zonal"
)

// SubtypeField is the attribute field on anthropogenic feature layers
// naming each feature's disturbance subtype.
const SubtypeField = "Subtype"

// Project holds everything one credit or debit analysis needs: the
// baseline layer catalog, the parameter table, the project map units,
// and the current and proposed anthropogenic features rasterized to
// presence surfaces by subtype.
type Project struct {
	Catalog *Catalog
	Table   *anthro.Table
	Zones   []*zonal.Zone

	// Current and Proposed hold presence surfaces keyed by subtype.
	// For a credit project Proposed is the surface disturbance to be
	// removed; for a debit project it is the new development.
	Current  map[string]*cohqt.Surface
	Proposed map[string]*cohqt.Surface

	// Treatment is the conifer treatment footprint (credit projects
	// only; nil otherwise).
	Treatment *cohqt.Surface

	Store *cohqt.Store

	OutputShapefile string
	OutputXLSX      string

	fields []string
}

// LoadProject reads all run inputs named in the configuration.
func LoadProject(cfg *viper.Viper) (*Project, error) {
	catalog, err := ReadCatalog(cast.ToString(cfg.Get("LayerCatalog")))
	if err != nil {
		return nil, err
	}
	ctx := catalog.Context()

	table, err := readTable(cast.ToString(cfg.Get("ParameterTable")),
		cast.ToString(cfg.Get("ParameterSheet")))
	if err != nil {
		return nil, err
	}

	zones, err := zonal.ReadZones(cast.ToString(cfg.Get("MapUnits")))
	if err != nil {
		return nil, err
	}

	current, err := loadPresence(ctx, cast.ToString(cfg.Get("CurrentAnthro")))
	if err != nil {
		return nil, err
	}
	proposed, err := loadPresence(ctx, cast.ToString(cfg.Get("ProposedAnthro")))
	if err != nil {
		return nil, err
	}

	var treatment *cohqt.Surface
	if path := cast.ToString(cfg.Get("ConiferTreatment")); path != "" {
		feats, err := cohqt.ReadFeatures(path)
		if err != nil {
			return nil, err
		}
		geoms := make([]geom.Geom, len(feats))
		for i, f := range feats {
			geoms[i] = f.Geom
		}
		treatment, err = cohqt.Rasterize(ctx, geoms, 1)
		if err != nil {
			return nil, err
		}
	}

	p := &Project{
		Catalog:         catalog,
		Table:           table,
		Zones:           zones,
		Current:         current,
		Proposed:        proposed,
		Treatment:       treatment,
		Store:           cohqt.NewStore(),
		OutputShapefile: cast.ToString(cfg.Get("OutputShapefile")),
		OutputXLSX:      cast.ToString(cfg.Get("OutputXLSX")),
	}
	if p.OutputShapefile != "" {
		if err := checkOutputFile(p.OutputShapefile); err != nil {
			return nil, err
		}
	}
	if p.OutputXLSX != "" {
		if err := checkOutputFile(p.OutputXLSX); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func readTable(path, sheet string) (*anthro.Table, error) {
	if path == "" {
		return nil, fmt.Errorf("in hqtutil.readTable: a parameter table must be specified")
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		if sheet == "" {
			sheet = "Anthro_Features"
		}
		return anthro.ReadTableXLSX(path, sheet)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("in hqtutil.readTable: %v", err)
	}
	defer f.Close()
	return anthro.ReadTableCSV(f)
}

// loadPresence reads an anthropogenic feature shapefile and rasterizes
// its features to presence surfaces grouped by subtype.
func loadPresence(ctx *cohqt.Context, filename string) (map[string]*cohqt.Surface, error) {
	o := make(map[string]*cohqt.Surface)
	if filename == "" {
		return o, nil
	}
	feats, err := cohqt.ReadFeatures(filename, SubtypeField)
	if err != nil {
		return nil, err
	}
	bySubtype := make(map[string][]geom.Geom)
	for _, f := range feats {
		subtype := f.Fields[SubtypeField]
		if subtype == "" {
			return nil, fmt.Errorf("in hqtutil.loadPresence: %s: feature with empty %s field",
				filename, SubtypeField)
		}
		bySubtype[subtype] = append(bySubtype[subtype], f.Geom)
	}
	for subtype, geoms := range bySubtype {
		s, err := cohqt.Rasterize(ctx, geoms, 1)
		if err != nil {
			return nil, fmt.Errorf("in hqtutil.loadPresence: %s: subtype %s: %v",
				filename, subtype, err)
		}
		o[subtype] = s
	}
	return o, nil
}

// RunCredit runs the full credit analysis: the proposed features are
// removed from current conditions and each species' functional acre
// benefit is joined to the map units.
func RunCredit(p *Project) error { return p.run(true) }

// RunDebit runs the full debit analysis: the proposed features are added
// to current conditions and each species' functional acre debit is
// joined to the map units.
func RunDebit(p *Project) error { return p.run(false) }

func (p *Project) run(credit bool) error {
	zonal.CalcAcres(p.Zones)
	p.addField(zonal.AcresField)

	merge := anthro.PostAddition
	if credit {
		merge = anthro.PostRemoval
	}
	post, err := anthro.MergePresence(p.Current, p.Proposed, merge)
	if err != nil {
		return err
	}

	grsgRange, err := p.Catalog.Surface(LayerGrSGRange)
	if err != nil {
		return err
	}
	if zonal.DetectHabitat(p.Zones, grsgRange) {
		if err := p.runSageGrouse(post, credit); err != nil {
			return err
		}
	} else {
		logrus.Info("Map units are outside greater sage-grouse range; skipping")
	}

	muleRange, err := p.Catalog.Surface(LayerMuleRange)
	if err != nil {
		return err
	}
	if zonal.DetectHabitat(p.Zones, muleRange) {
		if err := p.runMuleDeer(post, credit); err != nil {
			return err
		}
	} else {
		logrus.Info("Map units are outside mule deer range; skipping")
	}

	if p.OutputShapefile != "" {
		if err := zonal.WriteShapefile(p.OutputShapefile, p.Zones, p.fields); err != nil {
			return err
		}
	}
	if p.OutputXLSX != "" {
		if err := zonal.WriteXLSX(p.OutputXLSX, "Map_Units", p.Zones, p.fields); err != nil {
			return err
		}
	}
	return nil
}

func (p *Project) runSageGrouse(post map[string]*cohqt.Surface, credit bool) error {
	logrus.Info("Assessing greater sage-grouse habitat")
	c := p.Catalog

	ag, err := c.Surface(LayerAgIndex)
	if err != nil {
		return err
	}
	water, err := c.Surface(LayerWaterIndex)
	if err != nil {
		return err
	}
	comp := &anthro.Compositor{
		Table:       p.Table,
		Prefix:      "GrSG",
		DistField:   anthro.GrSGDist,
		WeightField: anthro.GrSGWeight,
		Background: []*cohqt.Surface{
			cohqt.ReplaceNoData(ag, 1),
			cohqt.ReplaceNoData(water, 1),
		},
		Store: p.Store,
	}
	preD, err := comp.Disturbance(anthro.Pre, p.Current)
	if err != nil {
		return err
	}
	postD, err := comp.Disturbance(anthro.Post, post)
	if err != nil {
		return err
	}
	if err := p.Store.Put("GrSG_Pre_Anthro_Disturbance", preD); err != nil {
		return err
	}
	if err := p.Store.Put("GrSG_Post_Anthro_Disturbance", postD); err != nil {
		return err
	}

	mods, err := c.Modifiers(habitat.SageGrouse)
	if err != nil {
		return err
	}
	// Conifer removal raises lek uplift rather than seasonal quality:
	// both terms' quality surfaces use the current-condition conifer
	// modifier, and the post-treatment modifier feeds only the uplift
	// delta below.
	coniferPost := mods[habitat.Conifer]
	if p.Treatment != nil {
		cover, err := c.Surface(LayerConifer)
		if err != nil {
			return err
		}
		coniferPost, err = habitat.ConiferPost(cover, p.Treatment)
		if err != nil {
			return err
		}
	}

	lek, err := c.Surface(LayerLekPresence)
	if err != nil {
		return err
	}
	var lekMod *cohqt.Surface
	if credit {
		upliftAnthro, err := habitat.Uplift(preD, postD)
		if err != nil {
			return err
		}
		upliftConifer, err := habitat.Uplift(mods[habitat.Conifer], coniferPost)
		if err != nil {
			return err
		}
		lekMod, err = habitat.LekUpliftModifier(lek, upliftAnthro, upliftConifer)
		if err != nil {
			return err
		}
	} else {
		// Debit projects discount lek cells by the disturbance from the
		// proposed features alone.
		lekComp := &anthro.Compositor{
			Table:       p.Table,
			Prefix:      "GrSG",
			DistField:   anthro.GrSGDist,
			WeightField: anthro.GrSGWeight,
			Store:       p.Store,
		}
		lekMod, err = lekComp.Disturbance(anthro.LekModifier, p.Proposed)
		if err != nil {
			return err
		}
	}

	var mask *cohqt.Surface
	if c.Has(LayerGrSGHabitat) {
		mask, err = c.Surface(LayerGrSGHabitat)
		if err != nil {
			return err
		}
	}

	var preSeasonal, postSeasonal []*cohqt.Surface
	for _, season := range habitat.SageGrouse.Seasons() {
		preQ, err := habitat.SeasonalQuality(preD, habitat.SageGrouse, season, mods, mask)
		if err != nil {
			return err
		}
		postQ, err := habitat.SeasonalQuality(postD, habitat.SageGrouse, season, mods, mask)
		if err != nil {
			return err
		}
		preQ, err = habitat.LekUpliftPre(preQ, lek)
		if err != nil {
			return err
		}
		postQ, err = habitat.LekUpliftPost(postQ, lek, lekMod)
		if err != nil {
			return err
		}
		if err := p.joinSeason(habitat.SageGrouse, season, preQ, postQ); err != nil {
			return err
		}
		preSeasonal = append(preSeasonal, preQ)
		postSeasonal = append(postSeasonal, postQ)
	}

	return p.finishSpecies(habitat.SageGrouse, preSeasonal, postSeasonal, credit)
}

func (p *Project) runMuleDeer(post map[string]*cohqt.Surface, credit bool) error {
	logrus.Info("Assessing mule deer habitat")
	c := p.Catalog

	water, err := c.Surface(LayerWaterIndex)
	if err != nil {
		return err
	}
	openMask, err := c.Surface(LayerMuleOpen)
	if err != nil {
		return err
	}
	bg := []*cohqt.Surface{cohqt.ReplaceNoData(water, 1)}

	pjComp := &anthro.Compositor{
		Table:       p.Table,
		Prefix:      "Mule_PJ",
		DistField:   anthro.MDPJDist,
		WeightField: anthro.MDPJWeight,
		Background:  bg,
		Store:       p.Store,
	}
	openComp := &anthro.Compositor{
		Table:       p.Table,
		Prefix:      "Mule_Open",
		DistField:   anthro.MDOpenDist,
		WeightField: anthro.MDOpenWeight,
		Background:  bg,
		Mask:        openMask,
		Store:       p.Store,
	}

	muleDisturbance := func(term anthro.Term, presence map[string]*cohqt.Surface) (*cohqt.Surface, error) {
		pj, err := pjComp.Disturbance(term, presence)
		if err != nil {
			return nil, err
		}
		open, err := openComp.Disturbance(term, presence)
		if err != nil {
			return nil, err
		}
		return anthro.MaskedDisturbance(pj, open, openMask)
	}

	preD, err := muleDisturbance(anthro.Pre, p.Current)
	if err != nil {
		return err
	}
	postD, err := muleDisturbance(anthro.Post, post)
	if err != nil {
		return err
	}
	if err := p.Store.Put("Mule_Pre_Anthro_Disturbance", preD); err != nil {
		return err
	}
	if err := p.Store.Put("Mule_Post_Anthro_Disturbance", postD); err != nil {
		return err
	}

	mods, err := c.Modifiers(habitat.MuleDeer)
	if err != nil {
		return err
	}
	var mask *cohqt.Surface
	if c.Has(LayerMuleHabitat) {
		mask, err = c.Surface(LayerMuleHabitat)
		if err != nil {
			return err
		}
	}

	var preSeasonal, postSeasonal []*cohqt.Surface
	for _, season := range habitat.MuleDeer.Seasons() {
		preQ, err := habitat.SeasonalQuality(preD, habitat.MuleDeer, season, mods, mask)
		if err != nil {
			return err
		}
		postQ, err := habitat.SeasonalQuality(postD, habitat.MuleDeer, season, mods, mask)
		if err != nil {
			return err
		}
		if err := p.joinSeason(habitat.MuleDeer, season, preQ, postQ); err != nil {
			return err
		}
		preSeasonal = append(preSeasonal, preQ)
		postSeasonal = append(postSeasonal, postQ)
	}

	return p.finishSpecies(habitat.MuleDeer, preSeasonal, postSeasonal, credit)
}

// joinSeason publishes a season's quality surfaces and joins their zonal
// means to the map units.
func (p *Project) joinSeason(sp habitat.Species, season habitat.Season, preQ, postQ *cohqt.Surface) error {
	preName := fmt.Sprintf("%v_Pre_%v", sp, season)
	postName := fmt.Sprintf("%v_Post_%v", sp, season)
	if err := p.Store.Put(preName, preQ); err != nil {
		return err
	}
	if err := p.Store.Put(postName, postQ); err != nil {
		return err
	}
	if err := zonal.MeanByZone(p.Zones, preQ, preName, zonal.ResampleTargetDx); err != nil {
		return err
	}
	if err := zonal.MeanByZone(p.Zones, postQ, postName, zonal.ResampleTargetDx); err != nil {
		return err
	}
	p.addField(preName)
	p.addField(postName)
	return nil
}

// finishSpecies averages the seasonal surfaces into the project-level
// quality and converts the pre-to-post change into functional acres.
func (p *Project) finishSpecies(sp habitat.Species, preSeasonal, postSeasonal []*cohqt.Surface, credit bool) error {
	preAvg, err := habitat.AverageQuality(preSeasonal...)
	if err != nil {
		return err
	}
	postAvg, err := habitat.AverageQuality(postSeasonal...)
	if err != nil {
		return err
	}
	preName := fmt.Sprintf("%v_Pre_Project", sp)
	postName := fmt.Sprintf("%v_Post_Project", sp)
	if err := zonal.MeanByZone(p.Zones, preAvg, preName, zonal.ResampleTargetDx); err != nil {
		return err
	}
	if err := zonal.MeanByZone(p.Zones, postAvg, postName, zonal.ResampleTargetDx); err != nil {
		return err
	}
	p.addField(preName)
	p.addField(postName)

	if credit {
		out := fmt.Sprintf("%v_Benefit", sp)
		if err := zonal.FunctionalAcres(p.Zones, postName, preName, out); err != nil {
			return err
		}
		p.addField(out)
		return nil
	}
	out := fmt.Sprintf("%v_Debits", sp)
	if err := zonal.FunctionalAcres(p.Zones, preName, postName, out); err != nil {
		return err
	}
	p.addField(out)
	return nil
}

func (p *Project) addField(name string) {
	for _, f := range p.fields {
		if f == name {
			return
		}
	}
	p.fields = append(p.fields, name)
}
