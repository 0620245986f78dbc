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
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	cohqt "github.com/eanderson-ei/co-hqt"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage string
	defaultVal  interface{}
	flagsets    []*pflag.FlagSet
}

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	})

	// Options are the configuration options available to the tool.
	options = []struct {
		name, usage string
		defaultVal  interface{}
		flagsets    []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LayerCatalog",
			usage: `
              LayerCatalog specifies the location of the baseline layer
              catalog: a TOML file defining the analysis grid and the
              paths of the fixed habitat and modifier surfaces.`,
			defaultVal: "layers.toml",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "ParameterTable",
			usage: `
              ParameterTable specifies the location of the anthropogenic
              feature parameter table (CSV or XLSX), keyed by Subtype.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "ParameterSheet",
			usage: `
              ParameterSheet specifies the worksheet holding the parameter
              table when ParameterTable is an XLSX workbook.`,
			defaultVal: "Anthro_Features",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "MapUnits",
			usage: `
              MapUnits specifies the location of the project map unit
              polygon shapefile. Every map unit must carry a unique
              integer Map_Unit_ID.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "CurrentAnthro",
			usage: `
              CurrentAnthro specifies the location of the shapefile of
              existing anthropogenic features, classified by Subtype.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "ProposedAnthro",
			usage: `
              ProposedAnthro specifies the location of the shapefile of
              proposed features, classified by Subtype. On a credit
              project these are the features to be removed; on a debit
              project, the new development.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "ConiferTreatment",
			usage: `
              ConiferTreatment specifies the location of a polygon
              shapefile of proposed conifer treatment areas.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{creditCmd.Flags()},
		},
		{
			name: "OutputShapefile",
			usage: `
              OutputShapefile specifies the location for writing the map
              units with their computed attribute fields.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "OutputXLSX",
			usage: `
              OutputXLSX specifies the location for writing the map unit
              attribute table as a spreadsheet.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("COHQT")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.String(option.name, v, option.usage)
			case bool:
				set.Bool(option.name, v, option.usage)
			case float64:
				set.Float64(option.name, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(creditCmd)
	Root.AddCommand(debitCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("cohqt: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "cohqt",
	Short: "A habitat quantification tool for the Colorado Habitat Exchange.",
	Long: `cohqt quantifies greater sage-grouse and mule deer habitat on
credit and debit project sites. Use the subcommands specified below to
run an analysis.

Configuration can be changed by using a configuration file (and providing
the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format 'COHQT_var'
where 'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of the tool.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("CO HQT v%s\n", cohqt.Version)
	},
	DisableAutoGenTag: true,
}

var creditCmd = &cobra.Command{
	Use:   "credit",
	Short: "Quantify the habitat benefit of a credit project.",
	Long: `credit quantifies the functional acre benefit of restoring a
project site: proposed anthropogenic features are removed from current
conditions, habitat quality is modeled before and after, and the uplift
is summarized by map unit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := LoadProject(Cfg)
		if err != nil {
			return err
		}
		return RunCredit(p)
	},
	DisableAutoGenTag: true,
}

var debitCmd = &cobra.Command{
	Use:   "debit",
	Short: "Quantify the habitat impact of a debit project.",
	Long: `debit quantifies the functional acre impact of developing a
project site: proposed anthropogenic features are added to current
conditions, habitat quality is modeled before and after, and the loss is
summarized by map unit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := LoadProject(Cfg)
		if err != nil {
			return err
		}
		return RunDebit(p)
	},
	DisableAutoGenTag: true,
}
