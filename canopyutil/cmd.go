/*
Copyright © 2026 the canopy authors.
This file is part of canopy.

canopy is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

canopy is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with canopy.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package canopyutil holds the configuration and command-line interface
// of the canopy leaf gas exchange model.
package canopyutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/wusunlab/canopy"
	"github.com/wusunlab/canopy/radiation"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to canopy.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel specifies the logging verbosity: panic, fatal, error,
              warn, info, debug, or trace.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LeafFile",
			usage: `
              LeafFile specifies the location of the TOML leaf parameter file
              holding the photosynthesis parameters, the stomatal conductance
              model, the leaf geometry, and any solver setting overrides.`,
			shorthand:  "l",
			defaultVal: "leaf.toml",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Temperature",
			usage: `
              Temperature specifies the air temperature [K].`,
			defaultVal: 298.15,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Pressure",
			usage: `
              Pressure specifies the ambient pressure [Pa].`,
			defaultVal: 101325.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "RelativeHumidity",
			usage: `
              RelativeHumidity specifies the ambient relative humidity as a
              fraction between 0 and 1.`,
			defaultVal: 0.7,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "WindSpeed",
			usage: `
              WindSpeed specifies the wind speed at the leaf [m s-1].`,
			defaultVal: 2.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ShortwaveRadiation",
			usage: `
              ShortwaveRadiation specifies the shortwave radiation absorbed by
              the leaf [W m-2].`,
			defaultVal: 750.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "PPFD",
			usage: `
              PPFD specifies the photosynthetic photon flux density incident on
              the leaf [μmol m-2 s-1].`,
			defaultVal: 1500.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "CO2",
			usage: `
              CO2 specifies the ambient CO2 mixing ratio [μmol mol-1].`,
			defaultVal: 420.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "O2",
			usage: `
              O2 specifies the ambient O2 mixing ratio [μmol mol-1].`,
			defaultVal: 209460.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies which variables should be output,
              as a mapping from names to expressions over the leaf state
              variables, e.g. {"WUE": "Assimilation / (LatentHeat / 44000.0)"}.
              Leaf state variables may also be output directly by name.`,
			defaultVal: map[string]string{
				"LeafTemperature":     "LeafTemperature",
				"Assimilation":        "Assimilation",
				"StomatalConductance": "StomatalConductance",
				"LatentHeat":          "LatentHeat",
			},
			flagsets: []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "time",
			usage: `
              time specifies the instant of the sun position calculation in
              RFC3339 format, for example 2026-06-21T12:00:00Z. The default
              is the current time.`,
			shorthand:  "t",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{solarCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("CANOPY")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
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
	Root.AddCommand(runCmd)
	Root.AddCommand(solarCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and applies the configured log level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("canopy: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("canopy: problem parsing log level: %v", err)
	}
	logrus.SetLevel(level)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "canopy",
	Short: "A leaf-scale gas exchange model.",
	Long: `canopy solves the coupled energy balance, photosynthesis, and stomatal
conductance of a plant leaf.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'CANOPY_var' where 'var' is
the name of the variable to be set. Leaf biochemistry is specified separately
in a TOML leaf parameter file given by the LeafFile variable.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of canopy.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("canopy v%s\n", canopy.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd solves one leaf under the configured forcing and prints the
// requested output variables.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Solve the leaf energy balance and gas exchange.",
	Long: `run solves the coupled leaf energy balance and gas exchange for one
leaf under the configured environmental forcing, and prints the output
variables requested in OutputVariables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		leaf, err := LoadLeafConfig(Cfg.GetString("LeafFile"))
		if err != nil {
			return err
		}
		solver, err := leaf.NewSolver()
		if err != nil {
			return err
		}
		outputVars, err := checkOutputVars(GetStringMapString("OutputVariables", Cfg))
		if err != nil {
			return err
		}
		outputter, err := canopy.NewOutputter(outputVars, nil)
		if err != nil {
			return err
		}

		state, err := solver.Solve(environmentFromConfig(Cfg), leaf.Geometry)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"outerIterations": state.OuterIterations,
			"innerIterations": state.InnerIterations,
		}).Debug("solver converged")
		out, err := outputter.Output(state)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(out))
		for name := range out {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			cmd.Printf("%s: %g\n", name, out[name])
		}
		return nil
	},
	DisableAutoGenTag: true,
}

// solarCmd reports the sun position, sunrise, and sunset for a
// location, mainly as a forcing-preparation aid.
var solarCmd = &cobra.Command{
	Use:   "solar latitude longitude",
	Short: "Calculate the sun position for a location.",
	Long: `solar calculates the solar zenith and elevation angles, sunrise,
sunset, and day length for a latitude and longitude in degrees
(positive north and east) at the time given by --time.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, err := cast.ToFloat64E(args[0])
		if err != nil {
			return fmt.Errorf("canopy: problem parsing latitude: %v", err)
		}
		lon, err := cast.ToFloat64E(args[1])
		if err != nil {
			return fmt.Errorf("canopy: problem parsing longitude: %v", err)
		}
		when := time.Now().UTC()
		if ts := Cfg.GetString("time"); ts != "" {
			if when, err = time.Parse(time.RFC3339, ts); err != nil {
				return fmt.Errorf("canopy: problem parsing time: %v", err)
			}
		}

		pos := radiation.SunPosition(when, lat, lon)
		cmd.Printf("solar zenith angle: %.2f°\n", pos.Zenith*180/math.Pi)
		cmd.Printf("solar elevation angle: %.2f°\n", pos.Elevation*180/math.Pi)

		sunrise, err := radiation.Sunrise(when, lat, lon)
		switch err {
		case nil:
			sunset, _ := radiation.Sunset(when, lat, lon)
			dayLength, _ := radiation.DayLength(when, lat)
			cmd.Printf("sunrise: %s UTC\n", sunrise.Format("15:04"))
			cmd.Printf("sunset: %s UTC\n", sunset.Format("15:04"))
			cmd.Printf("day length: %s\n", dayLength.Round(time.Minute))
		case radiation.ErrPolarDay:
			cmd.Println("the sun does not set on this day")
		case radiation.ErrPolarNight:
			cmd.Println("the sun does not rise on this day")
		default:
			return err
		}
		return nil
	},
	DisableAutoGenTag: true,
}
