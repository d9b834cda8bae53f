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

	"github.com/wusunlab/canopy/moistair"
)

// Laminar flat-plate transfer correlation constants. The factor 1.4
// accounts for two-sided exchange and leaf flutter under field
// conditions (Campbell and Norman 1998, ch. 7).
const (
	flatPlateCoeff   = 0.664
	fieldEnhancement = 1.4
)

// boundaryLayerConductance evaluates the flat-plate correlation
//
//	g = 1.4 0.664 N^(1/3) c D sqrt(u / (d ν))
//
// where N is the dimensionless number (Prandtl or Schmidt), c the molar
// concentration of air [mol m-3], and D the relevant diffusivity
// [m2 s-1].
func boundaryLayerConductance(env EnvironmentState, geom LeafGeometry,
	number, diffusivity float64) (float64, error) {
	c, err := moistair.AirMolarConcentration(env.Temperature, env.Pressure)
	if err != nil {
		return 0, err
	}
	ν, err := moistair.KinematicViscosity(env.Temperature, env.Pressure,
		env.RelativeHumidity)
	if err != nil {
		return 0, err
	}
	return fieldEnhancement * flatPlateCoeff * math.Cbrt(number) * c *
		diffusivity * math.Sqrt(env.WindSpeed/(geom.Dimension*ν)), nil
}

// BoundaryLayerConductanceHeat calculates the leaf boundary layer
// conductance to heat [mol m-2 s-1].
func BoundaryLayerConductanceHeat(env EnvironmentState, geom LeafGeometry) (float64, error) {
	if err := geom.Check(); err != nil {
		return 0, err
	}
	pr, err := moistair.PrandtlNumber(env.Temperature, env.Pressure,
		env.RelativeHumidity)
	if err != nil {
		return 0, err
	}
	α, err := moistair.ThermalDiffusivity(env.Temperature, env.Pressure,
		env.RelativeHumidity)
	if err != nil {
		return 0, err
	}
	return boundaryLayerConductance(env, geom, pr, α)
}

// BoundaryLayerConductanceVapor calculates the leaf boundary layer
// conductance to water vapor [mol m-2 s-1].
func BoundaryLayerConductanceVapor(env EnvironmentState, geom LeafGeometry) (float64, error) {
	if err := geom.Check(); err != nil {
		return 0, err
	}
	sc, err := moistair.SchmidtNumber(moistair.H2O, env.Temperature,
		env.Pressure, env.RelativeHumidity)
	if err != nil {
		return 0, err
	}
	d, err := moistair.Diffusivity(moistair.H2O, env.Temperature, env.Pressure)
	if err != nil {
		return 0, err
	}
	return boundaryLayerConductance(env, geom, sc, d)
}
