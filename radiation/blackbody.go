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

// Package radiation calculates blackbody emission and solar geometry.
// It supplies the radiation inputs to the leaf energy balance but does
// not depend on any other canopy component.
package radiation

import (
	"math"

	"github.com/wusunlab/canopy/phys"
)

// StefanBoltzmann calculates the hemispherical emissive power of a
// blackbody [W m-2] when given temperature T [K].
func StefanBoltzmann(T float64) (float64, error) {
	if err := phys.CheckTemperature(T); err != nil {
		return 0, err
	}
	T2 := T * T
	return phys.StefanBoltzmann * T2 * T2, nil
}

// BlackbodyTemperature calculates the temperature [K] of a blackbody
// emitting the given hemispherical flux [W m-2]. It is the inverse of
// StefanBoltzmann.
func BlackbodyTemperature(flux float64) (float64, error) {
	if flux < 0 {
		return 0, &phys.InvalidInputError{Quantity: "flux", Value: flux,
			Reason: "blackbody emissive power must be nonnegative"}
	}
	return math.Sqrt(math.Sqrt(flux / phys.StefanBoltzmann)), nil
}

// Planck calculates blackbody spectral radiance [W sr-1 m-3] when given
// wavelength λ [m] and temperature T [K].
func Planck(λ, T float64) (float64, error) {
	if err := phys.CheckTemperature(T); err != nil {
		return 0, err
	}
	if λ <= 0 {
		return 0, &phys.InvalidInputError{Quantity: "wavelength",
			Value: λ, Reason: "wavelength must be positive"}
	}
	hc := phys.Planck * phys.LightSpeed
	λ2 := λ * λ
	return 2 * hc * phys.LightSpeed / (λ2 * λ2 * λ) /
		math.Expm1(hc/(λ*phys.Boltzmann*T)), nil
}
