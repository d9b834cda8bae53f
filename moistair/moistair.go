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

// Package moistair calculates thermophysical properties of water vapor,
// dry air, and moist air mixtures. All functions are closed-form fits
// taking temperature [K] and, where relevant, pressure [Pa] and relative
// humidity [0, 1]. They sit on the leaf solver's hot path and therefore
// do not allocate or iterate.
package moistair

import (
	"math"

	"github.com/wusunlab/canopy/phys"
)

const (
	// Specific heat of dry air at constant pressure [J kg-1 K-1].
	cpDryAir = 1006.

	// Specific heat of water vapor at constant pressure [J kg-1 K-1].
	cpWaterVapor = 1865.

	ln10 = math.Ln10
)

// eSat calculates saturation vapor pressure over liquid water [Pa]
// using the Goff-Gratch (1946) formulation, where T is temperature [K].
func eSat(T float64) float64 {
	u := 373.16 / T
	logE := -7.90298*(u-1) + 5.02808*math.Log10(u) -
		1.3816e-7*(math.Pow(10, 11.344*(1-1/u))-1) +
		8.1328e-3*(math.Pow(10, -3.49149*(u-1))-1) +
		math.Log10(1013.246)
	return 100 * math.Pow(10, logE) // hPa -> Pa
}

// ESat calculates saturation vapor pressure over liquid water [Pa]
// based on Goff-Gratch (1946) when given temperature T [K].
func ESat(T float64) (float64, error) {
	if err := phys.CheckTemperature(T); err != nil {
		return 0, err
	}
	return eSat(T), nil
}

// ESatIce calculates saturation vapor pressure over ice [Pa] based on
// Goff-Gratch (1946) when given temperature T [K].
func ESatIce(T float64) (float64, error) {
	if err := phys.CheckTemperature(T); err != nil {
		return 0, err
	}
	u := phys.TripleCelsius / T
	logE := -9.09718*(u-1) - 3.56654*math.Log10(u) +
		0.876793*(1-1/u) + math.Log10(6.1071)
	return 100 * math.Pow(10, logE), nil
}

// eSatDeriv is the analytical temperature derivative of eSat [Pa K-1].
func eSatDeriv(T float64) float64 {
	const Ts = 373.16
	u := Ts / T
	// d(log10 e)/dT, term by term from the Goff-Gratch expression.
	dLogE := 7.90298*Ts/(T*T) - 5.02808/(ln10*T) +
		1.3816e-7*ln10*11.344/Ts*math.Pow(10, 11.344*(1-1/u)) +
		8.1328e-3*ln10*3.49149*Ts/(T*T)*math.Pow(10, -3.49149*(u-1))
	return eSat(T) * ln10 * dLogE
}

// ESatDeriv calculates the temperature derivative of the saturation
// vapor pressure over liquid water [Pa K-1] when given temperature
// T [K].
func ESatDeriv(T float64) (float64, error) {
	if err := phys.CheckTemperature(T); err != nil {
		return 0, err
	}
	return eSatDeriv(T), nil
}

// VaporPressure calculates ambient water vapor pressure [Pa] when given
// temperature T [K] and relative humidity RH [0, 1].
func VaporPressure(T, RH float64) (float64, error) {
	if err := phys.CheckTemperature(T); err != nil {
		return 0, err
	}
	if err := phys.CheckRelativeHumidity(RH); err != nil {
		return 0, err
	}
	return RH * eSat(T), nil
}

// VaporPressureDeficit calculates the vapor pressure deficit [Pa] when
// given temperature T [K] and relative humidity RH [0, 1].
func VaporPressureDeficit(T, RH float64) (float64, error) {
	if err := phys.CheckTemperature(T); err != nil {
		return 0, err
	}
	if err := phys.CheckRelativeHumidity(RH); err != nil {
		return 0, err
	}
	return (1 - RH) * eSat(T), nil
}

// VaporMoleFraction calculates the mole fraction of water vapor in
// moist air [mol mol-1] when given temperature T [K], pressure P [Pa],
// and relative humidity RH [0, 1].
func VaporMoleFraction(T, P, RH float64) (float64, error) {
	if err := checkTPRH(T, P, RH); err != nil {
		return 0, err
	}
	return RH * eSat(T) / P, nil
}

// LatentHeatVap calculates the latent heat of vaporization of water
// [J mol-1] when given temperature T [K], using the linear fit of
// Allen et al. (1998).
func LatentHeatVap(T float64) (float64, error) {
	if err := phys.CheckTemperature(T); err != nil {
		return 0, err
	}
	return latentHeatVap(T), nil
}

func latentHeatVap(T float64) float64 {
	return (2.501e6 - 2361.*(T-phys.CelsiusZero)) * phys.MolarMassWater
}

// AirMolarConcentration calculates the molar concentration of air
// [mol m-3] from the ideal gas law when given temperature T [K] and
// pressure P [Pa].
func AirMolarConcentration(T, P float64) (float64, error) {
	if err := phys.CheckTemperature(T); err != nil {
		return 0, err
	}
	if err := phys.CheckPressure(P); err != nil {
		return 0, err
	}
	return P / (phys.Rgas * T), nil
}

// Density calculates moist air density [kg m-3] when given temperature
// T [K], pressure P [Pa], and relative humidity RH [0, 1].
func Density(T, P, RH float64) (float64, error) {
	if err := checkTPRH(T, P, RH); err != nil {
		return 0, err
	}
	return density(T, P, RH), nil
}

func density(T, P, RH float64) float64 {
	xv := RH * eSat(T) / P
	M := (1-xv)*phys.MolarMassDryAir + xv*phys.MolarMassWater
	return P / (phys.Rgas * T) * M
}

// DynamicViscosity calculates the dynamic viscosity of air
// [kg m-1 s-1] from Sutherland's law when given temperature T [K].
func DynamicViscosity(T float64) (float64, error) {
	if err := phys.CheckTemperature(T); err != nil {
		return 0, err
	}
	return dynamicViscosity(T), nil
}

func dynamicViscosity(T float64) float64 {
	return 1.458e-6 * T * math.Sqrt(T) / (T + 110.4)
}

// KinematicViscosity calculates the kinematic viscosity of moist air
// [m2 s-1] when given temperature T [K], pressure P [Pa], and relative
// humidity RH [0, 1].
func KinematicViscosity(T, P, RH float64) (float64, error) {
	if err := checkTPRH(T, P, RH); err != nil {
		return 0, err
	}
	return dynamicViscosity(T) / density(T, P, RH), nil
}

// SpecificHeatMass calculates the isobaric specific heat of moist air
// [J kg-1 K-1] when given temperature T [K], pressure P [Pa], and
// relative humidity RH [0, 1].
func SpecificHeatMass(T, P, RH float64) (float64, error) {
	if err := checkTPRH(T, P, RH); err != nil {
		return 0, err
	}
	return specificHeatMass(T, P, RH), nil
}

func specificHeatMass(T, P, RH float64) float64 {
	xv := RH * eSat(T) / P
	M := (1-xv)*phys.MolarMassDryAir + xv*phys.MolarMassWater
	q := xv * phys.MolarMassWater / M // specific humidity
	return (1-q)*cpDryAir + q*cpWaterVapor
}

// SpecificHeatMolar calculates the isobaric molar heat capacity of
// moist air [J mol-1 K-1] when given temperature T [K], pressure
// P [Pa], and relative humidity RH [0, 1].
func SpecificHeatMolar(T, P, RH float64) (float64, error) {
	if err := checkTPRH(T, P, RH); err != nil {
		return 0, err
	}
	xv := RH * eSat(T) / P
	return (1-xv)*cpDryAir*phys.MolarMassDryAir +
		xv*cpWaterVapor*phys.MolarMassWater, nil
}

// ThermalConductivity calculates the thermal conductivity of air
// [W m-1 K-1] when given temperature T [K], from a linear fit to the
// dry air data of Incropera et al. (2007).
func ThermalConductivity(T float64) (float64, error) {
	if err := phys.CheckTemperature(T); err != nil {
		return 0, err
	}
	return thermalConductivity(T), nil
}

func thermalConductivity(T float64) float64 {
	return 0.023807 + 7.1128e-5*(T-phys.CelsiusZero)
}

// ThermalDiffusivity calculates the thermal diffusivity of moist air
// [m2 s-1] when given temperature T [K], pressure P [Pa], and relative
// humidity RH [0, 1].
func ThermalDiffusivity(T, P, RH float64) (float64, error) {
	if err := checkTPRH(T, P, RH); err != nil {
		return 0, err
	}
	return thermalConductivity(T) /
		(density(T, P, RH) * specificHeatMass(T, P, RH)), nil
}

// PrandtlNumber calculates the Prandtl number of moist air [-] when
// given temperature T [K], pressure P [Pa], and relative humidity
// RH [0, 1].
func PrandtlNumber(T, P, RH float64) (float64, error) {
	if err := checkTPRH(T, P, RH); err != nil {
		return 0, err
	}
	return dynamicViscosity(T) * specificHeatMass(T, P, RH) /
		thermalConductivity(T), nil
}

// PsychrometricConstant calculates the psychrometric constant [Pa K-1]
// when given temperature T [K], pressure P [Pa], and relative humidity
// RH [0, 1], following Monteith and Unsworth (2013).
func PsychrometricConstant(T, P, RH float64) (float64, error) {
	if err := checkTPRH(T, P, RH); err != nil {
		return 0, err
	}
	ε := phys.MolarMassWater / phys.MolarMassDryAir
	λ := latentHeatVap(T) / phys.MolarMassWater // J kg-1
	return specificHeatMass(T, P, RH) * P / (ε * λ), nil
}

func checkTPRH(T, P, RH float64) error {
	if err := phys.CheckTemperature(T); err != nil {
		return err
	}
	if err := phys.CheckPressure(P); err != nil {
		return err
	}
	return phys.CheckRelativeHumidity(RH)
}
