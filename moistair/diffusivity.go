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

package moistair

import (
	"math"

	"github.com/wusunlab/canopy/phys"
)

// Gas enumerates the trace gases with tabulated binary diffusivities
// in air. Using an enumerated key rather than a free-form name makes
// unsupported-species lookups a typed error instead of a silent zero.
type Gas int

const (
	H2O Gas = iota
	CO2
	COS
	CH4
	CO
	O2
	O3
	N2O
	NO
	SO2
	NH3
)

var gasNames = map[Gas]string{
	H2O: "H2O",
	CO2: "CO2",
	COS: "COS",
	CH4: "CH4",
	CO:  "CO",
	O2:  "O2",
	O3:  "O3",
	N2O: "N2O",
	NO:  "NO",
	SO2: "SO2",
	NH3: "NH3",
}

func (g Gas) String() string {
	if name, ok := gasNames[g]; ok {
		return name
	}
	return "unknown gas"
}

// diffusivitySTP holds binary diffusivities in air [m2 s-1] at 273.15 K
// and 101325 Pa, from Massman (1998) table 2. The COS value is from
// Seibt et al. (2010). Constructed once; never mutated.
var diffusivitySTP = map[Gas]float64{
	H2O: 2.178e-5,
	CO2: 1.381e-5,
	COS: 1.337e-5,
	CH4: 1.952e-5,
	CO:  1.807e-5,
	O2:  1.820e-5,
	O3:  1.444e-5,
	N2O: 1.436e-5,
	NO:  1.802e-5,
	SO2: 1.089e-5,
	NH3: 1.978e-5,
}

// Diffusivity calculates the binary diffusivity of a gas in air
// [m2 s-1] when given temperature T [K] and pressure P [Pa], from the
// power-law temperature dependence of Massman (1998):
//
//	D = D_0 (P_0/P) (T/T_0)^1.81
func Diffusivity(gas Gas, T, P float64) (float64, error) {
	if err := phys.CheckTemperature(T); err != nil {
		return 0, err
	}
	if err := phys.CheckPressure(P); err != nil {
		return 0, err
	}
	d0, ok := diffusivitySTP[gas]
	if !ok {
		return 0, &phys.InvalidInputError{Quantity: "gas",
			Value: float64(gas), Reason: "no tabulated diffusivity"}
	}
	return d0 * (phys.AtmStd / P) *
		math.Pow(T/phys.CelsiusZero, 1.81), nil
}

// SchmidtNumber calculates the Schmidt number of a gas in moist air [-]
// when given temperature T [K], pressure P [Pa], and relative humidity
// RH [0, 1].
func SchmidtNumber(gas Gas, T, P, RH float64) (float64, error) {
	ν, err := KinematicViscosity(T, P, RH)
	if err != nil {
		return 0, err
	}
	d, err := Diffusivity(gas, T, P)
	if err != nil {
		return 0, err
	}
	return ν / d, nil
}
