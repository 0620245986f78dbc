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

package zonal

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
	"github.com/tealeg/xlsx"
)

// WriteShapefile writes the zones and the named attribute fields to a
// shapefile. Every zone must carry every requested field.
func WriteShapefile(filename string, zones []*Zone, fields []string) error {
	shpFields := make([]goshp.Field, len(fields)+1)
	shpFields[0] = goshp.NumberField(IDField, 10)
	for i, f := range fields {
		shpFields[i+1] = goshp.FloatField(f, 14, 8)
	}

	filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".shp"
	e, err := shp.NewEncoderFromFields(filename, goshp.POLYGON, shpFields...)
	if err != nil {
		return fmt.Errorf("in zonal.WriteShapefile: %v", err)
	}
	for _, z := range zones {
		vals := make([]interface{}, len(fields)+1)
		vals[0] = z.ID
		for i, f := range fields {
			v, err := z.Attr(f)
			if err != nil {
				return fmt.Errorf("in zonal.WriteShapefile: %v", err)
			}
			vals[i+1] = v
		}
		if err := e.EncodeFields(z.Polygonal, vals...); err != nil {
			return fmt.Errorf("in zonal.WriteShapefile: map unit %d: %v", z.ID, err)
		}
	}
	e.Close()
	return nil
}

// WriteXLSX writes the zones' attribute records to a spreadsheet, one
// row per map unit, with the identifier in the first column.
func WriteXLSX(filename, sheetName string, zones []*Zone, fields []string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return fmt.Errorf("in zonal.WriteXLSX: %v", err)
	}

	header := sheet.AddRow()
	header.AddCell().SetString(IDField)
	for _, field := range fields {
		header.AddCell().SetString(field)
	}
	for _, z := range zones {
		row := sheet.AddRow()
		row.AddCell().SetInt(z.ID)
		for _, field := range fields {
			v, err := z.Attr(field)
			if err != nil {
				return fmt.Errorf("in zonal.WriteXLSX: %v", err)
			}
			row.AddCell().SetFloat(v)
		}
	}
	if err := f.Save(filename); err != nil {
		return fmt.Errorf("in zonal.WriteXLSX: %v", err)
	}
	return nil
}
