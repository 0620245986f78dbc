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
	"reflect"
	"strings"
	"testing"

	"github.com/kr/pretty"
)

const testTableCSV = `Type,Subtype,GrSG_Dist,GrSG_Weight,MDP_Dist,MDP_Weight,MDO_Dist,MDO_Weight
Urban,Urban,1500,100,800,100,800,100
Roads,Paved,1000,80,500,60,500,60
Roads,Unpaved,0,40,0,20,0,20
PowerLines,Transmission,800,50,0,0,0,0
N/A,Fence,0,0,0,0,0,0
`

func testTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := ReadTableCSV(strings.NewReader(testTableCSV))
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestReadTableCSV(t *testing.T) {
	tbl := testTable(t)

	wantSubtypes := []string{"Urban", "Paved", "Unpaved", "Transmission", "Fence"}
	if got := tbl.Subtypes(); !reflect.DeepEqual(got, wantSubtypes) {
		t.Errorf("Subtypes(): %v", pretty.Diff(got, wantSubtypes))
	}

	wantTypes := []string{"Urban", "Roads", "PowerLines"}
	if got := tbl.UniqueTypes(); !reflect.DeepEqual(got, wantTypes) {
		t.Errorf("UniqueTypes() = %v; want %v", got, wantTypes)
	}

	if got := tbl.SubtypesOf("Roads"); !reflect.DeepEqual(got, []string{"Paved", "Unpaved"}) {
		t.Errorf("SubtypesOf(Roads) = %v", got)
	}
}

func TestTableLookup(t *testing.T) {
	tbl := testTable(t)

	dist, weight, err := tbl.Lookup("Paved", GrSGDist, GrSGWeight)
	if err != nil {
		t.Fatal(err)
	}
	if dist != 1000 || weight != 80 {
		t.Errorf("Lookup(Paved) = %g, %g; want 1000, 80", dist, weight)
	}

	dist, weight, err = tbl.Lookup("Transmission", MDPJDist, MDPJWeight)
	if err != nil {
		t.Fatal(err)
	}
	if dist != 0 || weight != 0 {
		t.Errorf("Lookup(Transmission, MDP) = %g, %g; want 0, 0", dist, weight)
	}

	if _, _, err := tbl.Lookup("Pipelines", GrSGDist, GrSGWeight); err == nil {
		t.Error("Lookup of unknown subtype did not fail")
	}
}

func TestTableMaxDistance(t *testing.T) {
	tbl := testTable(t)
	got, err := tbl.MaxDistance(GrSGDist)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1500 {
		t.Errorf("MaxDistance(GrSG_Dist) = %g; want 1500", got)
	}
	got, err = tbl.MaxDistance(MDOpenDist)
	if err != nil {
		t.Fatal(err)
	}
	if got != 800 {
		t.Errorf("MaxDistance(MDO_Dist) = %g; want 800", got)
	}
}

func TestTableTypeOf(t *testing.T) {
	tbl := testTable(t)
	typ, err := tbl.TypeOf("Unpaved")
	if err != nil {
		t.Fatal(err)
	}
	if typ != "Roads" {
		t.Errorf("TypeOf(Unpaved) = %s; want Roads", typ)
	}
	if _, err := tbl.TypeOf("Pipelines"); err == nil {
		t.Error("TypeOf of unknown subtype did not fail")
	}
}

func TestReadTableCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "duplicate subtype",
			csv: `Type,Subtype,GrSG_Dist,GrSG_Weight
Urban,Urban,1500,100
Roads,Urban,1000,80
`,
		},
		{
			name: "negative distance",
			csv: `Type,Subtype,GrSG_Dist,GrSG_Weight
Urban,Urban,-5,100
`,
		},
		{
			name: "weight over 100",
			csv: `Type,Subtype,GrSG_Dist,GrSG_Weight
Urban,Urban,1500,120
`,
		},
		{
			name: "missing subtype column",
			csv: `Type,GrSG_Dist,GrSG_Weight
Urban,1500,100
`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := ReadTableCSV(strings.NewReader(test.csv)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
