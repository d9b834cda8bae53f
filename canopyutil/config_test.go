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
	"strings"
	"testing"

	"github.com/wusunlab/canopy"
)

func TestLoadLeafConfig(t *testing.T) {
	c, err := LoadLeafConfig("testdata/leaf_example.toml")
	if err != nil {
		t.Fatal(err)
	}

	if c.Geometry.Dimension != 0.05 {
		t.Errorf("leaf dimension = %g, want 0.05", c.Geometry.Dimension)
	}
	if c.Photosynthesis.VCMax.RefValue != 60 {
		t.Errorf("VCMax reference value = %g, want 60",
			c.Photosynthesis.VCMax.RefValue)
	}

	// Solver settings not in the file keep their defaults.
	def := canopy.DefaultSolverConfig()
	if c.Solver.InnerTolerance != def.InnerTolerance {
		t.Errorf("inner tolerance = %g, want the default %g",
			c.Solver.InnerTolerance, def.InnerTolerance)
	}
	if c.Solver.MaxOuterIterations != def.MaxOuterIterations {
		t.Errorf("outer iteration cap = %d, want the default %d",
			c.Solver.MaxOuterIterations, def.MaxOuterIterations)
	}
}

func TestLeafConfigSolve(t *testing.T) {
	c, err := LoadLeafConfig("testdata/leaf_example.toml")
	if err != nil {
		t.Fatal(err)
	}
	solver, err := c.NewSolver()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := solver.Stomata.(canopy.Medlyn); !ok {
		t.Fatalf("stomatal model has type %T, want canopy.Medlyn", solver.Stomata)
	}

	state, err := solver.Solve(canopy.EnvironmentState{
		Temperature:        298.15,
		Pressure:           101325,
		RelativeHumidity:   0.7,
		WindSpeed:          2,
		ShortwaveRadiation: 750,
		PPFD:               1500,
		CO2:                400,
		O2:                 209460,
	}, c.Geometry)
	if err != nil {
		t.Fatal(err)
	}
	if state.Assimilation < 5 || state.Assimilation > 30 {
		t.Errorf("assimilation from the example configuration = %g μmol m-2 s-1",
			state.Assimilation)
	}
}

func TestTempDepConfig(t *testing.T) {
	td, err := (&TempDepConfig{Type: "q10", RefValue: 1, RefTemp: 298.15,
		Factor: 2}).TempDependence()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := td.(canopy.Q10); !ok {
		t.Errorf("response law has type %T, want canopy.Q10", td)
	}

	// Type matching is case insensitive.
	td, err = (&TempDepConfig{Type: "Arrhenius", RefValue: 60,
		RefTemp: 298.15, ActivationEnergy: 65330}).TempDependence()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := td.(canopy.Arrhenius); !ok {
		t.Errorf("response law has type %T, want canopy.Arrhenius", td)
	}

	if _, err := (&TempDepConfig{Type: "exponential"}).TempDependence(); err == nil {
		t.Error("expected an error for an unknown response law type")
	}
	if _, err := (&TempDepConfig{}).TempDependence(); err == nil {
		t.Error("expected an error for a missing response law type")
	}
}

func TestStomataConfig(t *testing.T) {
	m, err := (&StomataConfig{Model: "ballberry", Slope: 9, GMin: 0.01}).StomatalModel()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.(canopy.BallBerry); !ok {
		t.Errorf("stomatal model has type %T, want canopy.BallBerry", m)
	}

	if _, err := (&StomataConfig{Model: "leuning", Slope: 9,
		GMin: 0.01}).StomatalModel(); err == nil {
		t.Error("expected an error for a Leuning model without VPD0")
	}
	m, err = (&StomataConfig{Model: "leuning", Slope: 9, GMin: 0.01,
		VPD0: 1500}).StomatalModel()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.(canopy.Leuning); !ok {
		t.Errorf("stomatal model has type %T, want canopy.Leuning", m)
	}

	if _, err := (&StomataConfig{Model: "jarvis"}).StomatalModel(); err == nil {
		t.Error("expected an error for an unknown stomatal model")
	}
}

func TestReadLeafConfigBadTOML(t *testing.T) {
	if _, err := ReadLeafConfig(strings.NewReader("[Photosynthesis")); err == nil {
		t.Error("expected an error for malformed TOML")
	}
}

func TestCheckOutputVars(t *testing.T) {
	if _, err := checkOutputVars(nil); err == nil {
		t.Error("expected an error for empty output variables")
	}

	vars, err := checkOutputVars(map[string]string{
		"WUE": "Assimilation /\n(LatentHeat / 44000.0)",
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(vars["WUE"], "\n") {
		t.Error("end lines not removed from output variable expressions")
	}
}
