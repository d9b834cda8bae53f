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

// Package canopy models the exchange of energy, water, and carbon
// between a plant leaf and the atmosphere. Its central component is a
// coupled solver that finds the mutually consistent leaf temperature,
// internal CO2 concentration, stomatal conductance, and net
// assimilation rate for a leaf in a given environment.
//
// All inputs and outputs are value types; every solver invocation is
// independent, so callers may fan out evaluations across goroutines
// without any locking.
package canopy

import "github.com/wusunlab/canopy/phys"

// Version gives the version number.
const Version = "0.2.0"

// EnvironmentState holds the ambient conditions for one evaluation.
// It is read-only to the model.
type EnvironmentState struct {
	Temperature        float64 `desc:"Air temperature" units:"K"`
	Pressure           float64 `desc:"Ambient pressure" units:"Pa"`
	RelativeHumidity   float64 `desc:"Relative humidity" units:"fraction"`
	WindSpeed          float64 `desc:"Wind speed" units:"m s-1"`
	ShortwaveRadiation float64 `desc:"Absorbed shortwave radiation" units:"W m-2"`
	PPFD               float64 `desc:"Photosynthetic photon flux density" units:"μmol m-2 s-1"`
	CO2                float64 `desc:"Ambient CO2 mixing ratio" units:"μmol mol-1"`
	O2                 float64 `desc:"Ambient O2 mixing ratio" units:"μmol mol-1"`
}

// Check returns an error if the environmental conditions are outside
// the model domain.
func (env *EnvironmentState) Check() error {
	if err := phys.CheckTemperature(env.Temperature); err != nil {
		return err
	}
	if err := phys.CheckPressure(env.Pressure); err != nil {
		return err
	}
	if err := phys.CheckRelativeHumidity(env.RelativeHumidity); err != nil {
		return err
	}
	if env.WindSpeed <= 0 {
		return &phys.InvalidInputError{Quantity: "wind speed",
			Value: env.WindSpeed,
			Reason: "wind speed must be positive for the forced " +
				"convection boundary layer formulation"}
	}
	if env.ShortwaveRadiation < 0 {
		return &phys.InvalidInputError{Quantity: "shortwave radiation",
			Value:  env.ShortwaveRadiation,
			Reason: "absorbed radiation must be nonnegative"}
	}
	if env.PPFD < 0 {
		return &phys.InvalidInputError{Quantity: "PPFD",
			Value: env.PPFD, Reason: "PPFD must be nonnegative"}
	}
	if env.CO2 <= 0 {
		return &phys.InvalidInputError{Quantity: "CO2",
			Value:  env.CO2,
			Reason: "ambient CO2 mixing ratio must be positive"}
	}
	if env.O2 <= 0 {
		return &phys.InvalidInputError{Quantity: "O2",
			Value:  env.O2,
			Reason: "ambient O2 mixing ratio must be positive"}
	}
	return nil
}

// LeafGeometry holds the static radiative and aerodynamic properties
// of a leaf.
type LeafGeometry struct {
	Dimension  float64 `desc:"Characteristic leaf dimension" units:"m"`
	Emissivity float64 `desc:"Longwave emissivity" units:"fraction"`
}

// Check returns an error if the leaf geometry is nonphysical.
func (geom *LeafGeometry) Check() error {
	if geom.Dimension <= 0 {
		return &phys.InvalidInputError{Quantity: "leaf dimension",
			Value:  geom.Dimension,
			Reason: "characteristic dimension must be positive"}
	}
	if geom.Emissivity < 0 || geom.Emissivity > 1 {
		return &phys.InvalidInputError{Quantity: "emissivity",
			Value:  geom.Emissivity,
			Reason: "emissivity must be within [0, 1]"}
	}
	return nil
}

// LeafState holds the self-consistent solution of the coupled leaf
// energy balance and gas exchange equations. It is created fresh by
// each solver invocation and never mutated afterwards.
type LeafState struct {
	LeafTemperature        float64 `desc:"Leaf temperature" units:"K"`
	InternalCO2            float64 `desc:"Internal CO2 mixing ratio" units:"μmol mol-1"`
	Assimilation           float64 `desc:"Net assimilation rate" units:"μmol m-2 s-1"`
	StomatalConductance    float64 `desc:"Stomatal conductance to water vapor" units:"mol m-2 s-1"`
	BoundaryLayerCondHeat  float64 `desc:"Boundary layer conductance to heat" units:"mol m-2 s-1"`
	BoundaryLayerCondVapor float64 `desc:"Boundary layer conductance to water vapor" units:"mol m-2 s-1"`
	TotalConductanceVapor  float64 `desc:"Total conductance to water vapor" units:"mol m-2 s-1"`
	NetRadiation           float64 `desc:"Net radiation" units:"W m-2"`
	SensibleHeat           float64 `desc:"Sensible heat flux" units:"W m-2"`
	LatentHeat             float64 `desc:"Latent heat flux" units:"W m-2"`
	EnergyBalanceResidual  float64 `desc:"Energy balance residual" units:"W m-2"`
	OuterIterations        int     `desc:"Leaf temperature iterations" units:"count"`
	InnerIterations        int     `desc:"Gas exchange iterations in the final outer step" units:"count"`
}
