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

// Package anthro models anthropogenic surface disturbance: it converts
// rasterized disturbance features into per-subtype decay surfaces and
// combines them into composite disturbance indices per species context.
package anthro

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx"
)

// Standard parameter table column names for the supported species
// contexts. Each pairs an indirect-effect distance [m] with a direct
// weight in [0, 100].
const (
	GrSGDist     = "GrSG_Dist"
	GrSGWeight   = "GrSG_Weight"
	MDPJDist     = "MDP_Dist" // mule deer, pinyon-juniper context
	MDPJWeight   = "MDP_Weight"
	MDOpenDist   = "MDO_Dist" // mule deer, open-habitat context
	MDOpenWeight = "MDO_Weight"
)

// noTypeCode marks parameter rows whose subtype belongs to no disturbance
// type and is excluded from modeling.
const noTypeCode = "N/A"

// Table is the anthropogenic feature parameter lookup: one row per
// subtype, carrying the subtype's type classification and the
// distance/weight pair for each species context column.
type Table struct {
	subtypes []string                      // row order as read
	types    map[string]string             // subtype -> type
	values   map[string]map[string]float64 // column -> subtype -> value
}

// ReadTableCSV reads a parameter table from CSV data with a header row
// containing at least "Type" and "Subtype" plus numeric context columns.
func ReadTableCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("in anthro.ReadTableCSV: %v", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("in anthro.ReadTableCSV: table has no data rows")
	}
	return buildTable(rows)
}

// ReadTableXLSX reads a parameter table from the named sheet of an Excel
// workbook laid out like the CSV form.
func ReadTableXLSX(filename, sheet string) (*Table, error) {
	f, err := xlsx.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("in anthro.ReadTableXLSX: opening %s: %v", filename, err)
	}
	s, ok := f.Sheet[sheet]
	if !ok {
		return nil, fmt.Errorf("in anthro.ReadTableXLSX: no sheet %q in %s", sheet, filename)
	}
	var rows [][]string
	for _, row := range s.Rows {
		var cells []string
		for _, cell := range row.Cells {
			cells = append(cells, cell.Value)
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("in anthro.ReadTableXLSX: sheet %q has no data rows", sheet)
	}
	// Trailing empty cells are dropped by the reader; pad short rows back
	// out to the header width.
	for i, row := range rows[1:] {
		for len(row) < len(rows[0]) {
			row = append(row, "")
		}
		rows[i+1] = row
	}
	return buildTable(rows)
}

func buildTable(rows [][]string) (*Table, error) {
	header := rows[0]
	typeCol, subtypeCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "Type":
			typeCol = i
		case "Subtype":
			subtypeCol = i
		}
	}
	if typeCol < 0 || subtypeCol < 0 {
		return nil, fmt.Errorf("in anthro.buildTable: header must contain Type and Subtype columns, got %v", header)
	}

	t := &Table{
		types:  make(map[string]string),
		values: make(map[string]map[string]float64),
	}
	for i, name := range header {
		if i == typeCol || i == subtypeCol {
			continue
		}
		t.values[strings.TrimSpace(name)] = make(map[string]float64)
	}

	for ir, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("in anthro.buildTable: row %d has %d columns, want %d",
				ir+2, len(row), len(header))
		}
		subtype := strings.TrimSpace(row[subtypeCol])
		if subtype == "" {
			return nil, fmt.Errorf("in anthro.buildTable: row %d has empty Subtype", ir+2)
		}
		if _, ok := t.types[subtype]; ok {
			return nil, fmt.Errorf("in anthro.buildTable: duplicate Subtype %q", subtype)
		}
		t.subtypes = append(t.subtypes, subtype)
		t.types[subtype] = strings.TrimSpace(row[typeCol])
		for i, raw := range row {
			if i == typeCol || i == subtypeCol {
				continue
			}
			col := strings.TrimSpace(header[i])
			raw = strings.TrimSpace(raw)
			v := 0.0
			if raw != "" {
				var err error
				v, err = strconv.ParseFloat(raw, 64)
				if err != nil {
					return nil, fmt.Errorf("in anthro.buildTable: subtype %q column %q: %v",
						subtype, col, err)
				}
			}
			t.values[col][subtype] = v
		}
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) validate() error {
	for col, bySubtype := range t.values {
		isWeight := strings.HasSuffix(col, "_Weight")
		for subtype, v := range bySubtype {
			if v < 0 {
				return fmt.Errorf("in anthro.Table: subtype %q column %q: negative value %g",
					subtype, col, v)
			}
			if isWeight && v > 100 {
				return fmt.Errorf("in anthro.Table: subtype %q column %q: weight %g exceeds 100",
					subtype, col, v)
			}
		}
	}
	return nil
}

// Subtypes returns all subtype codes in table order.
func (t *Table) Subtypes() []string {
	return append([]string(nil), t.subtypes...)
}

// TypeOf returns the disturbance type the subtype belongs to.
func (t *Table) TypeOf(subtype string) (string, error) {
	typ, ok := t.types[subtype]
	if !ok {
		return "", fmt.Errorf("in anthro.Table.TypeOf: no parameter row for subtype %q", subtype)
	}
	return typ, nil
}

// UniqueTypes returns the distinct disturbance types in first-appearance
// order, excluding subtypes classified as N/A.
func (t *Table) UniqueTypes() []string {
	var types []string
	seen := make(map[string]bool)
	for _, subtype := range t.subtypes {
		typ := t.types[subtype]
		if typ == noTypeCode || seen[typ] {
			continue
		}
		seen[typ] = true
		types = append(types, typ)
	}
	return types
}

// SubtypesOf returns the subtypes belonging to the given type, in table
// order.
func (t *Table) SubtypesOf(typ string) []string {
	var subtypes []string
	for _, subtype := range t.subtypes {
		if t.types[subtype] == typ {
			subtypes = append(subtypes, subtype)
		}
	}
	return subtypes
}

// Lookup returns the distance and weight for a subtype in the context
// selected by the given column names. A subtype referenced by input
// features but absent from the table is a fatal input error.
func (t *Table) Lookup(subtype, distField, weightField string) (dist, weight float64, err error) {
	if _, ok := t.types[subtype]; !ok {
		return 0, 0, fmt.Errorf("in anthro.Table.Lookup: no parameter row for subtype %q", subtype)
	}
	distCol, ok := t.values[distField]
	if !ok {
		return 0, 0, fmt.Errorf("in anthro.Table.Lookup: no column %q", distField)
	}
	weightCol, ok := t.values[weightField]
	if !ok {
		return 0, 0, fmt.Errorf("in anthro.Table.Lookup: no column %q", weightField)
	}
	return distCol[subtype], weightCol[subtype], nil
}

// MaxDistance returns the largest indirect-effect distance in the given
// column, used to buffer the project area into the analysis area.
func (t *Table) MaxDistance(distField string) (float64, error) {
	col, ok := t.values[distField]
	if !ok {
		return 0, fmt.Errorf("in anthro.Table.MaxDistance: no column %q", distField)
	}
	var max float64
	for _, v := range col {
		if v > max {
			max = v
		}
	}
	return max, nil
}
