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
	"github.com/wusunlab/canopy/moistair"
	"github.com/wusunlab/canopy/radiation"
)

// NetRadiation calculates the net radiation absorbed by the leaf
// [W m-2] at leaf temperature leafTemp [K]: the absorbed shortwave
// input less the leaf's own longwave emission.
func NetRadiation(env EnvironmentState, geom LeafGeometry, leafTemp float64) (float64, error) {
	emission, err := radiation.StefanBoltzmann(leafTemp)
	if err != nil {
		return 0, err
	}
	return env.ShortwaveRadiation - geom.Emissivity*emission, nil
}

// SensibleHeatFlux calculates the sensible heat flux from the leaf to
// the air [W m-2] when given leaf temperature leafTemp [K] and the
// boundary layer conductance to heat gbh [mol m-2 s-1].
func SensibleHeatFlux(env EnvironmentState, leafTemp, gbh float64) (float64, error) {
	cp, err := moistair.SpecificHeatMolar(env.Temperature, env.Pressure,
		env.RelativeHumidity)
	if err != nil {
		return 0, err
	}
	return cp * gbh * (leafTemp - env.Temperature), nil
}

// LatentHeatFlux calculates the latent heat flux from the leaf to the
// air [W m-2] when given leaf temperature leafTemp [K] and the total
// conductance to water vapor gtw [mol m-2 s-1]. The leaf interior is
// assumed saturated at leaf temperature.
func LatentHeatFlux(env EnvironmentState, leafTemp, gtw float64) (float64, error) {
	λ, err := moistair.LatentHeatVap(env.Temperature)
	if err != nil {
		return 0, err
	}
	eLeaf, err := moistair.ESat(leafTemp)
	if err != nil {
		return 0, err
	}
	eAir, err := moistair.VaporPressure(env.Temperature, env.RelativeHumidity)
	if err != nil {
		return 0, err
	}
	return λ * gtw * (eLeaf - eAir) / env.Pressure, nil
}

// EnergyImbalance calculates the residual of the leaf energy balance
// [W m-2],
//
//	R = R_net - SH - LE
//
// which a converged solution drives to zero. The residual decreases
// monotonically with leaf temperature over the physical range because
// longwave emission, sensible heat, and latent heat all increase with
// leaf temperature.
func EnergyImbalance(env EnvironmentState, geom LeafGeometry,
	leafTemp, gbh, gtw float64) (float64, error) {
	rn, err := NetRadiation(env, geom, leafTemp)
	if err != nil {
		return 0, err
	}
	sh, err := SensibleHeatFlux(env, leafTemp, gbh)
	if err != nil {
		return 0, err
	}
	le, err := LatentHeatFlux(env, leafTemp, gtw)
	if err != nil {
		return 0, err
	}
	return rn - sh - le, nil
}
