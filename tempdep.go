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

	"github.com/wusunlab/canopy/phys"
)

// TempDependence is a temperature response law mapping leaf temperature
// to a scaled reaction rate. The set of laws is closed: Q10, Arrhenius,
// and EnzymeOptimum.
type TempDependence interface {
	// Evaluate returns the reaction rate at temperature T [K], in the
	// units of the law's reference value. Evaluating outside the law's
	// applicability range is an error rather than a silent
	// extrapolation.
	Evaluate(T float64) (float64, error)
}

// TempRange is the applicability range shared by all response laws.
// A zero value disables the corresponding bound.
type TempRange struct {
	TMin, TMax float64 // [K]
}

func (r TempRange) check(T float64) error {
	if err := phys.CheckTemperature(T); err != nil {
		return err
	}
	if (r.TMin > 0 && T < r.TMin) || (r.TMax > 0 && T > r.TMax) {
		return &phys.InvalidInputError{Quantity: "temperature", Value: T,
			Reason: "outside the applicability range of the " +
				"temperature response law"}
	}
	return nil
}

// Q10 is an exponential temperature response with a fixed rate ratio
// per 10 K.
type Q10 struct {
	RefValue float64 // rate at RefTemp
	RefTemp  float64 // [K]
	Factor   float64 // rate ratio per 10 K increase
	TempRange
}

// Evaluate implements TempDependence.
func (q Q10) Evaluate(T float64) (float64, error) {
	if err := q.check(T); err != nil {
		return 0, err
	}
	return q.RefValue * math.Pow(q.Factor, (T-q.RefTemp)/10), nil
}

// Arrhenius is the activation energy temperature response
//
//	k(T) = k_ref exp[(ΔH_a/R) (1/T_ref - 1/T)]
type Arrhenius struct {
	RefValue         float64 // rate at RefTemp
	RefTemp          float64 // [K]
	ActivationEnergy float64 // ΔH_a [J mol-1]
	TempRange
}

// Evaluate implements TempDependence.
func (a Arrhenius) Evaluate(T float64) (float64, error) {
	if err := a.check(T); err != nil {
		return 0, err
	}
	return a.RefValue * math.Exp(a.ActivationEnergy/phys.Rgas*
		(1/a.RefTemp-1/T)), nil
}

// EnzymeOptimum is the peaked Arrhenius response with high-temperature
// deactivation (Johnson et al. 1942; Medlyn et al. 2002 eq. 17).
type EnzymeOptimum struct {
	RefValue           float64 // rate at RefTemp
	RefTemp            float64 // [K]
	ActivationEnergy   float64 // ΔH_a [J mol-1]
	DeactivationEnergy float64 // ΔH_d [J mol-1]
	Entropy            float64 // ΔS [J mol-1 K-1]
	TempRange
}

// Evaluate implements TempDependence.
func (e EnzymeOptimum) Evaluate(T float64) (float64, error) {
	if err := e.check(T); err != nil {
		return 0, err
	}
	arrhenius := math.Exp(e.ActivationEnergy / phys.Rgas *
		(1/e.RefTemp - 1/T))
	deactRef := 1 + math.Exp((e.Entropy*e.RefTemp-e.DeactivationEnergy)/
		(phys.Rgas*e.RefTemp))
	deact := 1 + math.Exp((e.Entropy*T-e.DeactivationEnergy)/
		(phys.Rgas*T))
	return e.RefValue * arrhenius * deactRef / deact, nil
}
