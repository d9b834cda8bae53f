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

package canopy

import (
	"math"
	"sort"
	"testing"

	"gonum.org/v1/gonum/floats"
)

const testTolerance = 1e-3

// testEnv is the reference daytime scenario: a sunlit C3 leaf in a
// warm, moderately humid atmosphere.
func testEnv() EnvironmentState {
	return EnvironmentState{
		Temperature:        298.15,
		Pressure:           101325,
		RelativeHumidity:   0.7,
		WindSpeed:          2,
		ShortwaveRadiation: 750,
		PPFD:               1500,
		CO2:                400,
		O2:                 209460,
	}
}

func testGeom() LeafGeometry {
	return LeafGeometry{Dimension: 0.05, Emissivity: 0.97}
}

// testC3Params returns a typical C3 parameter set with temperature
// responses from Bernacchi et al. (2001), exercising all three
// response laws.
func testC3Params() *PhotosynthesisParameters {
	return &PhotosynthesisParameters{
		Pathway: C3,
		VCMax: Arrhenius{RefValue: 60, RefTemp: 298.15,
			ActivationEnergy: 65330},
		KC: Arrhenius{RefValue: 404.9, RefTemp: 298.15,
			ActivationEnergy: 79430},
		KO: Arrhenius{RefValue: 278.4, RefTemp: 298.15,
			ActivationEnergy: 36380},
		CompensationPoint: Arrhenius{RefValue: 42.75, RefTemp: 298.15,
			ActivationEnergy: 37830},
		Respiration: Q10{RefValue: 1.0, RefTemp: 298.15, Factor: 2},
		JMax: EnzymeOptimum{RefValue: 120, RefTemp: 298.15,
			ActivationEnergy: 43540, DeactivationEnergy: 152040,
			Entropy: 495},
		Absorptance:        0.8,
		SpectralCorrection: 0.15,
		Curvature:          0.7,
	}
}

func testSolver() *Solver {
	return &Solver{
		Config:  DefaultSolverConfig(),
		Params:  testC3Params(),
		Stomata: Medlyn{Slope: 4, GMin: 0.01},
	}
}

func TestSolveDaytime(t *testing.T) {
	s := testSolver()
	st, err := s.Solve(testEnv(), testGeom())
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(st.LeafTemperature-298.15) > 6 {
		t.Errorf("leaf temperature %g K is not within a few K of air temperature",
			st.LeafTemperature)
	}
	if st.Assimilation < 10 || st.Assimilation > 25 {
		t.Errorf("net assimilation = %g μmol m-2 s-1, want within [10, 25]",
			st.Assimilation)
	}
	if st.StomatalConductance < 0.1 || st.StomatalConductance > 0.4 {
		t.Errorf("stomatal conductance = %g mol m-2 s-1, want within [0.1, 0.4]",
			st.StomatalConductance)
	}
	if st.InternalCO2 >= 400 {
		t.Errorf("internal CO2 = %g μmol mol-1 not drawn below ambient",
			st.InternalCO2)
	}
	if math.Abs(st.EnergyBalanceResidual) >= testTolerance {
		t.Errorf("energy balance residual = %g W m-2 at convergence",
			st.EnergyBalanceResidual)
	}
}

// TestEnergyBalanceClosure checks that the converged fluxes close the
// energy balance.
func TestEnergyBalanceClosure(t *testing.T) {
	s := testSolver()
	st, err := s.Solve(testEnv(), testGeom())
	if err != nil {
		t.Fatal(err)
	}
	closure := st.NetRadiation - st.SensibleHeat - st.LatentHeat
	if math.Abs(closure) >= testTolerance {
		t.Errorf("|R_net - SH - LE| = %g W m-2, want < %g",
			math.Abs(closure), testTolerance)
	}
	if math.Abs(closure-st.EnergyBalanceResidual) > 1e-9 {
		t.Error("reported residual disagrees with the reported fluxes")
	}
}

// TestSolveIdempotent checks that restarting the solver from its own
// converged state converges within two outer iterations.
func TestSolveIdempotent(t *testing.T) {
	s := testSolver()
	// An inner tolerance much tighter than the outer tolerance keeps
	// the gas exchange fixed point from injecting noise into the
	// restarted residual.
	s.Config.InnerTolerance = 1e-7

	env := testEnv()
	geom := testGeom()
	first, err := s.Solve(env, geom)
	if err != nil {
		t.Fatal(err)
	}

	s.Config.InitialLeafTemperature = first.LeafTemperature
	s.Config.InitialCiFraction = first.InternalCO2 / env.CO2
	second, err := s.Solve(env, geom)
	if err != nil {
		t.Fatal(err)
	}
	if second.OuterIterations > 2 {
		t.Errorf("restart from the converged state took %d outer iterations, want ≤ 2",
			second.OuterIterations)
	}
	if math.Abs(second.LeafTemperature-first.LeafTemperature) > 0.01 {
		t.Errorf("restarted leaf temperature %g K differs from %g K",
			second.LeafTemperature, first.LeafTemperature)
	}
}

// TestSolveLightSweep runs the solver across a light gradient from
// darkness to full sun. The equilibrium leaf temperature must increase
// with the absorbed energy, and assimilation must rise from night
// respiration to a positive light-saturated rate.
func TestSolveLightSweep(t *testing.T) {
	s := testSolver()
	env := testEnv()
	geom := testGeom()

	ppfds := floats.Span(make([]float64, 6), 0, 2000)
	tleaf := make([]float64, len(ppfds))
	assim := make([]float64, len(ppfds))
	for i, ppfd := range ppfds {
		env.PPFD = ppfd
		env.ShortwaveRadiation = 0.5 * ppfd
		st, err := s.Solve(env, geom)
		if err != nil {
			t.Fatalf("PPFD = %g: %v", ppfd, err)
		}
		tleaf[i] = st.LeafTemperature
		assim[i] = st.Assimilation
	}

	if !sort.Float64sAreSorted(tleaf) {
		t.Errorf("leaf temperature not increasing with absorbed radiation: %v",
			tleaf)
	}
	if tleaf[len(tleaf)-1]-tleaf[0] < 5 {
		t.Errorf("leaf temperature span %g K over the light gradient is "+
			"implausibly small", tleaf[len(tleaf)-1]-tleaf[0])
	}
	if assim[0] >= 0 {
		t.Errorf("dark assimilation = %g, want negative (respiration)", assim[0])
	}
	// The response rises steeply while light limited, then flattens;
	// warming-driven respiration may trim the high-light tail slightly.
	if !(assim[0] < assim[1] && assim[1] < assim[2]) {
		t.Errorf("assimilation not increasing over the light-limited range: %v",
			assim)
	}
	if floats.Max(assim) < 10 {
		t.Errorf("light-saturated assimilation = %g μmol m-2 s-1, "+
			"implausibly low", floats.Max(assim))
	}
}

// TestSolveNight checks the dark boundary scenario: assimilation
// collapses to pure respiration and the stomata close to the
// conductance floor.
func TestSolveNight(t *testing.T) {
	s := testSolver()
	env := testEnv()
	env.PPFD = 0
	env.ShortwaveRadiation = 0

	st, err := s.Solve(env, testGeom())
	if err != nil {
		t.Fatal(err)
	}

	rd, err := s.Params.DarkRespiration(st.LeafTemperature)
	if err != nil {
		t.Fatal(err)
	}
	if different(st.Assimilation, -rd, 1e-6) {
		t.Errorf("night assimilation = %g, want -R_d = %g",
			st.Assimilation, -rd)
	}
	if st.StomatalConductance != 0.01 {
		t.Errorf("night stomatal conductance = %g, want the floor 0.01",
			st.StomatalConductance)
	}
	// Respiration pushes internal CO2 above ambient in the dark.
	if st.InternalCO2 <= env.CO2 {
		t.Errorf("night internal CO2 = %g ≤ ambient %g",
			st.InternalCO2, env.CO2)
	}
	// With no sky emission in the forcing, the leaf cools below air
	// temperature until sensible heat balances its own emission.
	if st.LeafTemperature >= env.Temperature {
		t.Errorf("night leaf temperature %g K not below air temperature",
			st.LeafTemperature)
	}
}

func TestSolveDidNotConverge(t *testing.T) {
	s := testSolver()
	s.Config.MaxOuterIterations = 2

	_, err := s.Solve(testEnv(), testGeom())
	dnc, ok := err.(*DidNotConvergeError)
	if !ok {
		t.Fatalf("error has type %T, want *DidNotConvergeError", err)
	}
	if dnc.Last == nil {
		t.Error("DidNotConvergeError does not carry the last iterate")
	}
	if dnc.Iterations < 2 {
		t.Errorf("DidNotConvergeError reports %d iterations", dnc.Iterations)
	}
}

// TestSolveInfeasible drives the internal CO2 below the compensation
// point by starving the leaf of ambient CO2 under full light.
func TestSolveInfeasible(t *testing.T) {
	s := testSolver()
	env := testEnv()
	env.CO2 = 45 // barely above the 25°C compensation point

	_, err := s.Solve(env, testGeom())
	inf, ok := err.(*InfeasibleError)
	if !ok {
		t.Fatalf("error has type %T, want *InfeasibleError", err)
	}
	if _, ok := inf.Cause.(*PhotorespirationError); !ok {
		t.Errorf("infeasibility cause has type %T, want *PhotorespirationError",
			inf.Cause)
	}
}

func TestSolveInvalidInput(t *testing.T) {
	s := testSolver()
	env := testEnv()
	env.RelativeHumidity = 1.3
	if _, err := s.Solve(env, testGeom()); err == nil {
		t.Error("expected an error for out-of-range relative humidity")
	}

	env = testEnv()
	geom := testGeom()
	geom.Dimension = -0.05
	if _, err := s.Solve(env, geom); err == nil {
		t.Error("expected an error for negative leaf dimension")
	}
}

func different(a, b, tolerance float64) bool {
	return 2*math.Abs(a-b)/math.Abs(a+b) > tolerance ||
		math.IsNaN(a) || math.IsNaN(b)
}
