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

package canopyutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
	"github.com/wusunlab/canopy"
)

// TempDepConfig specifies one temperature response law in a leaf
// parameter file. Type selects the law: "q10", "arrhenius", or
// "enzyme_optimum". Fields not used by the selected law are ignored,
// and a zero TMin or TMax disables that bound.
type TempDepConfig struct {
	Type               string
	RefValue           float64
	RefTemp            float64
	Factor             float64
	ActivationEnergy   float64
	DeactivationEnergy float64
	Entropy            float64
	TMin               float64
	TMax               float64
}

// TempDependence builds the temperature response law this
// configuration describes.
func (c *TempDepConfig) TempDependence() (canopy.TempDependence, error) {
	r := canopy.TempRange{TMin: c.TMin, TMax: c.TMax}
	switch strings.ToLower(c.Type) {
	case "q10":
		return canopy.Q10{RefValue: c.RefValue, RefTemp: c.RefTemp,
			Factor: c.Factor, TempRange: r}, nil
	case "arrhenius":
		return canopy.Arrhenius{RefValue: c.RefValue, RefTemp: c.RefTemp,
			ActivationEnergy: c.ActivationEnergy, TempRange: r}, nil
	case "enzyme_optimum":
		return canopy.EnzymeOptimum{RefValue: c.RefValue, RefTemp: c.RefTemp,
			ActivationEnergy:   c.ActivationEnergy,
			DeactivationEnergy: c.DeactivationEnergy,
			Entropy:            c.Entropy, TempRange: r}, nil
	case "":
		return nil, fmt.Errorf("canopyutil: temperature response law type is not specified")
	}
	return nil, fmt.Errorf("canopyutil: unknown temperature response law type %q "+
		"(must be q10, arrhenius, or enzyme_optimum)", c.Type)
}

// PhotosynthesisConfig specifies the biochemical parameter set of a
// leaf in a parameter file.
type PhotosynthesisConfig struct {
	// Pathway is the photosynthetic pathway; only "C3" is implemented.
	Pathway string

	VCMax             TempDepConfig
	KC                TempDepConfig
	KO                TempDepConfig
	CompensationPoint TempDepConfig
	Respiration       TempDepConfig
	JMax              TempDepConfig

	// TriosePhosphate enables the substrate-limited assimilation rate
	// when present.
	TriosePhosphate *TempDepConfig

	Absorptance        float64
	SpectralCorrection float64
	Curvature          float64
	TPUAlpha           float64
}

// Parameters builds the photosynthesis parameter set this
// configuration describes.
func (c *PhotosynthesisConfig) Parameters() (*canopy.PhotosynthesisParameters, error) {
	p := &canopy.PhotosynthesisParameters{
		Absorptance:        c.Absorptance,
		SpectralCorrection: c.SpectralCorrection,
		Curvature:          c.Curvature,
		TPUAlpha:           c.TPUAlpha,
	}
	switch strings.ToUpper(c.Pathway) {
	case "C3", "":
		p.Pathway = canopy.C3
	case "C4":
		p.Pathway = canopy.C4
	case "CAM":
		p.Pathway = canopy.CAM
	case "C2":
		p.Pathway = canopy.C2
	default:
		return nil, fmt.Errorf("canopyutil: unknown photosynthetic pathway %q",
			c.Pathway)
	}

	var err error
	for _, td := range []struct {
		name string
		cfg  *TempDepConfig
		dst  *canopy.TempDependence
	}{
		{"VCMax", &c.VCMax, &p.VCMax},
		{"KC", &c.KC, &p.KC},
		{"KO", &c.KO, &p.KO},
		{"CompensationPoint", &c.CompensationPoint, &p.CompensationPoint},
		{"Respiration", &c.Respiration, &p.Respiration},
		{"JMax", &c.JMax, &p.JMax},
	} {
		if *td.dst, err = td.cfg.TempDependence(); err != nil {
			return nil, fmt.Errorf("canopyutil: %s: %v", td.name, err)
		}
	}
	if c.TriosePhosphate != nil {
		if p.TriosePhosphate, err = c.TriosePhosphate.TempDependence(); err != nil {
			return nil, fmt.Errorf("canopyutil: TriosePhosphate: %v", err)
		}
	}
	return p, nil
}

// StomataConfig selects and parameterizes a stomatal conductance model
// in a leaf parameter file. Model is "ballberry", "leuning", or
// "medlyn"; VPD0 applies to the Leuning model only.
type StomataConfig struct {
	Model string
	Slope float64
	GMin  float64
	VPD0  float64
}

// StomatalModel builds the stomatal conductance model this
// configuration describes.
func (c *StomataConfig) StomatalModel() (canopy.StomatalModel, error) {
	switch strings.ToLower(c.Model) {
	case "ballberry", "ball_berry":
		return canopy.BallBerry{Slope: c.Slope, GMin: c.GMin}, nil
	case "leuning":
		if c.VPD0 <= 0 {
			return nil, fmt.Errorf("canopyutil: the Leuning model requires a positive VPD0")
		}
		return canopy.Leuning{Slope: c.Slope, GMin: c.GMin, VPD0: c.VPD0}, nil
	case "medlyn":
		return canopy.Medlyn{Slope: c.Slope, GMin: c.GMin}, nil
	case "":
		return nil, fmt.Errorf("canopyutil: stomatal model is not specified")
	}
	return nil, fmt.Errorf("canopyutil: unknown stomatal model %q "+
		"(must be ballberry, leuning, or medlyn)", c.Model)
}

// LeafConfig holds the contents of a leaf parameter file.
type LeafConfig struct {
	Photosynthesis PhotosynthesisConfig
	Stomata        StomataConfig
	Geometry       canopy.LeafGeometry
	Solver         canopy.SolverConfig
}

// ReadLeafConfig decodes a TOML leaf parameter file. Solver settings
// not present in the file keep their recommended defaults.
func ReadLeafConfig(r io.Reader) (*LeafConfig, error) {
	c := LeafConfig{Solver: canopy.DefaultSolverConfig()}
	if _, err := toml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("canopyutil: problem reading leaf parameter file: %v", err)
	}
	return &c, nil
}

// LoadLeafConfig reads a TOML leaf parameter file from path, expanding
// any environment variables in the path first.
func LoadLeafConfig(path string) (*LeafConfig, error) {
	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		return nil, fmt.Errorf("canopyutil: problem opening leaf parameter file: %v", err)
	}
	defer f.Close()
	return ReadLeafConfig(f)
}

// NewSolver builds a ready-to-run solver from the configuration.
func (c *LeafConfig) NewSolver() (*canopy.Solver, error) {
	params, err := c.Photosynthesis.Parameters()
	if err != nil {
		return nil, err
	}
	stomata, err := c.Stomata.StomatalModel()
	if err != nil {
		return nil, err
	}
	return &canopy.Solver{Config: c.Solver, Params: params,
		Stomata: stomata}, nil
}

// environmentFromConfig assembles the environmental forcing from the
// flat configuration variables.
func environmentFromConfig(cfg *viper.Viper) canopy.EnvironmentState {
	return canopy.EnvironmentState{
		Temperature:        cfg.GetFloat64("Temperature"),
		Pressure:           cfg.GetFloat64("Pressure"),
		RelativeHumidity:   cfg.GetFloat64("RelativeHumidity"),
		WindSpeed:          cfg.GetFloat64("WindSpeed"),
		ShortwaveRadiation: cfg.GetFloat64("ShortwaveRadiation"),
		PPFD:               cfg.GetFloat64("PPFD"),
		CO2:                cfg.GetFloat64("CO2"),
		O2:                 cfg.GetFloat64("O2"),
	}
}

// checkOutputVars removes end lines and expands environment variables
// in the output variable expressions.
func checkOutputVars(vars map[string]string) (map[string]string, error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("there are no variables specified for output. Please fill in " +
			"the OutputVariables configuration and try again.")
	}
	for k, v := range vars {
		v = strings.Replace(v, "\r\n", " ", -1)
		v = strings.Replace(v, "\n", " ", -1)
		vars[os.ExpandEnv(k)] = os.ExpandEnv(v)
	}
	return vars, nil
}

// GetStringMapString returns a map[string]string from a viper
// configuration, accounting for the fact that it might be a json
// object if it was set from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) map[string]string {
	i := cfg.Get(varName)
	switch i.(type) {
	case map[string]string:
		return i.(map[string]string)
	case map[string]interface{}:
		return cast.ToStringMapString(i)
	case string:
		b := bytes.NewBuffer(([]byte)(i.(string)))
		d := json.NewDecoder(b)
		o := make(map[string]string)
		if err := d.Decode(&o); err != nil {
			panic(err)
		}
		return o
	default:
		panic(fmt.Errorf("invalid type for getStringMapString variable %s: %#v", varName, i))
	}
}
