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
	"fmt"
	"math"

	"github.com/wusunlab/canopy/moistair"
	"github.com/wusunlab/canopy/phys"
)

// SolverConfig holds the tolerances, iteration caps, and initial guess
// controls of the coupled leaf solver. There are no hidden global
// defaults; DefaultSolverConfig returns the recommended settings.
type SolverConfig struct {
	// InnerTolerance is the relative tolerance on the internal CO2
	// mixing ratio and assimilation rate in the gas exchange fixed
	// point.
	InnerTolerance float64

	// OuterTolerance is the absolute tolerance on the energy balance
	// residual [W m-2].
	OuterTolerance float64

	MaxInnerIterations int
	MaxOuterIterations int

	// MesophyllConductance is the mesophyll conductance to CO2
	// [mol m-2 s-1]; nonpositive disables the mesophyll leg.
	MesophyllConductance float64

	// BracketHalfWidth bounds the leaf temperature search to
	// air temperature ± this many K.
	BracketHalfWidth float64

	// InitialLeafTemperature warm-starts the outer iteration, e.g.
	// from a previous timestep's solution. Zero means start from air
	// temperature.
	InitialLeafTemperature float64

	// InitialCiFraction sets the initial internal CO2 as a fraction of
	// ambient CO2. Zero means the typical C3 operating point of 0.7.
	InitialCiFraction float64
}

// DefaultSolverConfig returns the recommended solver settings.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		InnerTolerance:     1e-4,
		OuterTolerance:     1e-3,
		MaxInnerIterations: 50,
		MaxOuterIterations: 100,
		BracketHalfWidth:   30,
	}
}

// Solver finds the self-consistent leaf temperature, internal CO2,
// stomatal conductance, and assimilation rate for one leaf. It owns
// the iteration and calls the photosynthesis and stomatal models as
// injected strategies; the models never reference each other.
//
// A Solver holds no state between calls and may be shared by
// concurrent goroutines.
type Solver struct {
	Config  SolverConfig
	Params  *PhotosynthesisParameters
	Stomata StomatalModel
}

// innerState holds the gas exchange fixed point at one leaf
// temperature.
type innerState struct {
	assim      float64
	gs         float64
	ci         float64
	iterations int
}

// errInnerExhausted marks an inner loop that ran out of iterations; the
// outer driver converts it into a DidNotConvergeError carrying the last
// iterate.
type errInnerExhausted struct{ last innerState }

func (e *errInnerExhausted) Error() string {
	return fmt.Sprintf("canopy: gas exchange loop exhausted after %d iterations",
		e.last.iterations)
}

// innerLoop solves the fixed point over (A_n, g_s, C_i) at fixed leaf
// temperature: assimilation from internal CO2, stomatal conductance
// from assimilation, and internal CO2 from the ambient value drawn
// down across the total conductance to CO2.
func (s *Solver) innerLoop(env EnvironmentState, leafTemp, gbw, eAir, ci0 float64) (innerState, error) {
	eLeaf, err := moistair.ESat(leafTemp)
	if err != nil {
		return innerState{}, err
	}
	hTerm := s.Stomata.HumidityTerm(eLeaf, eAir)

	st := innerState{ci: ci0}
	photorespiring := 0
	for st.iterations = 1; st.iterations <= s.Config.MaxInnerIterations; st.iterations++ {
		a, err := s.Params.Assimilate(env.PPFD, leafTemp, st.ci,
			env.Pressure, env.O2)
		if perr, ok := err.(*PhotorespirationError); ok {
			// A transient dip below the compensation point can be an
			// artifact of the iteration; restart just above it. Only a
			// persistent violation is infeasible.
			photorespiring++
			if photorespiring >= 3 {
				return st, &InfeasibleError{Cause: perr}
			}
			st.ci = perr.CompensationPoint * 1.01
			continue
		} else if err != nil {
			return st, err
		}

		cs := env.CO2 - a*co2BoundaryRatio/gbw
		if cs <= 0 {
			return st, &InfeasibleError{Cause: fmt.Errorf(
				"canopy: assimilation depletes CO2 at the leaf surface")}
		}
		gs := s.Stomata.Conductance(a, cs, hTerm)
		gtc := TotalConductanceCO2(gbw, gs, s.Config.MesophyllConductance)
		ciNew := env.CO2 - a/gtc

		ciConverged := math.Abs(ciNew-st.ci) <=
			s.Config.InnerTolerance*math.Max(math.Abs(st.ci), 1)
		aConverged := st.iterations > 1 && math.Abs(a-st.assim) <=
			s.Config.InnerTolerance*math.Max(math.Abs(st.assim), 1)
		st.assim, st.gs, st.ci = a, gs, ciNew
		if ciConverged && aConverged {
			return st, nil
		}
	}
	st.iterations = s.Config.MaxInnerIterations
	return st, &errInnerExhausted{last: st}
}

// Solve runs the coupled leaf energy balance and gas exchange solver
// for one leaf under one set of environmental conditions.
//
// On success it returns the converged LeafState. Failures are typed:
// *DidNotConvergeError carries the last iterate and iteration count
// when an iteration cap is exhausted, and *InfeasibleError reports
// forcings with no physical solution, including a persistent internal
// CO2 at or below the compensation point (reported with a
// *PhotorespirationError cause). Property-formula domain violations
// propagate unchanged.
func (s *Solver) Solve(env EnvironmentState, geom LeafGeometry) (*LeafState, error) {
	if s.Params == nil || s.Stomata == nil {
		return nil, fmt.Errorf("canopy: solver requires photosynthesis parameters and a stomatal model")
	}
	if err := env.Check(); err != nil {
		return nil, err
	}
	if err := geom.Check(); err != nil {
		return nil, err
	}
	cfg := s.Config

	gbh, err := BoundaryLayerConductanceHeat(env, geom)
	if err != nil {
		return nil, err
	}
	gbw, err := BoundaryLayerConductanceVapor(env, geom)
	if err != nil {
		return nil, err
	}
	eAir, err := moistair.VaporPressure(env.Temperature, env.RelativeHumidity)
	if err != nil {
		return nil, err
	}

	ciFrac := cfg.InitialCiFraction
	if ciFrac <= 0 {
		ciFrac = 0.7
	}
	ci := ciFrac * env.CO2

	// residual evaluates the energy balance imbalance at a candidate
	// leaf temperature, with the gas exchange fixed point converged at
	// that temperature. The inner loop warm-starts from the previous
	// temperature's internal CO2. Each call is one outer iteration.
	outerIterations := 0
	residual := func(T float64) (float64, innerState, error) {
		outerIterations++
		inner, err := s.innerLoop(env, T, gbw, eAir, ci)
		if err != nil {
			return 0, inner, err
		}
		ci = inner.ci
		gtw := TotalConductanceH2O(gbw, inner.gs)
		r, err := EnergyImbalance(env, geom, T, gbh, gtw)
		return r, inner, err
	}

	state := func(T, r float64, inner innerState) *LeafState {
		gtw := TotalConductanceH2O(gbw, inner.gs)
		rn, _ := NetRadiation(env, geom, T)
		sh, _ := SensibleHeatFlux(env, T, gbh)
		le, _ := LatentHeatFlux(env, T, gtw)
		return &LeafState{
			LeafTemperature:        T,
			InternalCO2:            inner.ci,
			Assimilation:           inner.assim,
			StomatalConductance:    inner.gs,
			BoundaryLayerCondHeat:  gbh,
			BoundaryLayerCondVapor: gbw,
			TotalConductanceVapor:  gtw,
			NetRadiation:           rn,
			SensibleHeat:           sh,
			LatentHeat:             le,
			EnergyBalanceResidual:  r,
			OuterIterations:        outerIterations,
			InnerIterations:        inner.iterations,
		}
	}

	// fail converts iteration-level errors into the typed terminal
	// results, attaching the last iterate for caller diagnosis.
	fail := func(T float64, inner innerState, err error) error {
		switch e := err.(type) {
		case *errInnerExhausted:
			return &DidNotConvergeError{
				Last:       state(T, 0, e.last),
				Iterations: outerIterations,
			}
		case *InfeasibleError:
			e.Last = state(T, 0, inner)
			return e
		}
		return err
	}

	T := cfg.InitialLeafTemperature
	if T <= 0 {
		T = env.Temperature
	}
	f, inner, err := residual(T)
	if err != nil {
		return nil, fail(T, inner, err)
	}
	if math.Abs(f) < cfg.OuterTolerance {
		return state(T, f, inner), nil
	}

	// Bracket the root. The residual decreases monotonically with leaf
	// temperature, so a sign change over the physical range is
	// necessary and sufficient for a solution to exist.
	lo := env.Temperature - cfg.BracketHalfWidth
	hi := env.Temperature + cfg.BracketHalfWidth
	flo, innerLo, err := residual(lo)
	if err != nil {
		return nil, fail(lo, innerLo, err)
	}
	if math.Abs(flo) < cfg.OuterTolerance {
		return state(lo, flo, innerLo), nil
	}
	fhi, innerHi, err := residual(hi)
	if err != nil {
		return nil, fail(hi, innerHi, err)
	}
	if math.Abs(fhi) < cfg.OuterTolerance {
		return state(hi, fhi, innerHi), nil
	}
	if flo < 0 || fhi > 0 {
		return nil, &InfeasibleError{
			Cause: fmt.Errorf("canopy: energy balance residual has no "+
				"root within %g K of air temperature", cfg.BracketHalfWidth),
			Last: state(T, f, inner),
		}
	}

	// Tighten the bracket with the initial iterate.
	if f > 0 {
		lo = T
	} else {
		hi = T
	}

	// Safeguarded secant iteration: a secant step is accepted when it
	// falls inside the current bracket, otherwise the step bisects.
	// The first candidate comes from a quasi-Newton step using the
	// analytical slope of the residual.
	prevT, prevF := T, f
	if d, derr := s.residualDerivative(env, geom, T, gbh,
		TotalConductanceH2O(gbw, inner.gs)); derr == nil && d < 0 {
		T = clamp(T-f/d, lo, hi)
	} else {
		T = 0.5 * (lo + hi)
	}
	if T == prevT {
		T = 0.5 * (lo + hi)
	}

	last := state(prevT, prevF, inner)
	for outerIterations < cfg.MaxOuterIterations {
		f, inner, err = residual(T)
		if err != nil {
			return nil, fail(T, inner, err)
		}
		if math.Abs(f) < cfg.OuterTolerance {
			return state(T, f, inner), nil
		}
		if f > 0 {
			lo = T
		} else {
			hi = T
		}
		last = state(T, f, inner)

		next := T - f*(T-prevT)/(f-prevF)
		if math.IsNaN(next) || next <= lo || next >= hi {
			next = 0.5 * (lo + hi)
		}
		prevT, prevF = T, f
		T = next
	}
	return nil, &DidNotConvergeError{Last: last, Iterations: outerIterations}
}

// residualDerivative estimates the slope of the energy balance
// residual with respect to leaf temperature, holding the conductances
// fixed: the longwave, sensible, and latent responses are all negative.
func (s *Solver) residualDerivative(env EnvironmentState, geom LeafGeometry,
	T, gbh, gtw float64) (float64, error) {
	cp, err := moistair.SpecificHeatMolar(env.Temperature, env.Pressure,
		env.RelativeHumidity)
	if err != nil {
		return 0, err
	}
	λ, err := moistair.LatentHeatVap(env.Temperature)
	if err != nil {
		return 0, err
	}
	esatPrime, err := moistair.ESatDeriv(T)
	if err != nil {
		return 0, err
	}
	return -(4*geom.Emissivity*phys.StefanBoltzmann*T*T*T +
		cp*gbh + λ*gtw*esatPrime/env.Pressure), nil
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
