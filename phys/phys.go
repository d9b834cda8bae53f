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

// Package phys holds physical constants shared by the canopy model
// components, following CODATA 2018 recommended values, and the error
// type used to report out-of-domain arguments to property formulas.
package phys

import "fmt"

// Physical constants.
const (
	// Rgas is the universal gas constant [J mol-1 K-1].
	Rgas = 8.31446261815324

	// StefanBoltzmann is the Stefan-Boltzmann constant [W m-2 K-4].
	StefanBoltzmann = 5.670374419e-8

	// Planck is the Planck constant [J s].
	Planck = 6.62607015e-34

	// LightSpeed is the speed of light in vacuum [m s-1].
	LightSpeed = 2.99792458e8

	// Boltzmann is the Boltzmann constant [J K-1].
	Boltzmann = 1.380649e-23

	// CelsiusZero is the zero of the Celsius scale [K].
	CelsiusZero = 273.15

	// TripleCelsius is the triple point of water [K].
	TripleCelsius = 273.16

	// AtmStd is the standard atmospheric pressure [Pa].
	AtmStd = 101325.

	// MolarMassDryAir is the molar mass of dry air [kg mol-1].
	MolarMassDryAir = 28.9647e-3

	// MolarMassWater is the molar mass of water [kg mol-1].
	MolarMassWater = 18.01528e-3
)

// InvalidInputError reports an out-of-domain argument to a property
// formula. Property formulas abort immediately on such errors; they
// indicate caller configuration mistakes rather than recoverable
// in-model conditions.
type InvalidInputError struct {
	Quantity string  // name of the offending argument
	Value    float64 // offending value
	Reason   string  // description of the domain violation
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("canopy: invalid input %s=%g: %s",
		e.Quantity, e.Value, e.Reason)
}

// CheckTemperature returns an error if T [K] is not a physical
// absolute temperature.
func CheckTemperature(T float64) error {
	if T <= 0 {
		return &InvalidInputError{"temperature", T,
			"absolute temperature must be positive"}
	}
	return nil
}

// CheckPressure returns an error if P [Pa] is not a physical pressure.
func CheckPressure(P float64) error {
	if P <= 0 {
		return &InvalidInputError{"pressure", P,
			"pressure must be positive"}
	}
	return nil
}

// CheckRelativeHumidity returns an error if RH is outside [0, 1].
func CheckRelativeHumidity(RH float64) error {
	if RH < 0 || RH > 1 {
		return &InvalidInputError{"relative humidity", RH,
			"relative humidity must be within [0, 1]"}
	}
	return nil
}
