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

import "github.com/ctessum/unit"

// moleDim is the amount-of-substance dimension for dimensioned flux
// outputs. The unit library reserves the bare "mol" symbol.
var moleDim = unit.NewDimension("mole")

// wattsPerM2 tags a heat flux [W m-2].
func wattsPerM2(v float64) *unit.Unit {
	return unit.New(v, unit.Dimensions{
		unit.MassDim: 1,
		unit.TimeDim: -3,
	})
}

// molePerM2PerS tags a molar flux or conductance [mol m-2 s-1].
func molePerM2PerS(v float64) *unit.Unit {
	return unit.New(v, unit.Dimensions{
		moleDim:        1,
		unit.LengthDim: -2,
		unit.TimeDim:   -1,
	})
}

// Fluxes returns the converged leaf fluxes and conductances as
// dimensioned quantities for dimension-checked composition downstream.
// Molar quantities are converted to SI base units (mol, not μmol).
func (ls *LeafState) Fluxes() map[string]*unit.Unit {
	return map[string]*unit.Unit{
		"NetRadiation":          wattsPerM2(ls.NetRadiation),
		"SensibleHeat":          wattsPerM2(ls.SensibleHeat),
		"LatentHeat":            wattsPerM2(ls.LatentHeat),
		"EnergyBalanceResidual": wattsPerM2(ls.EnergyBalanceResidual),
		"Assimilation":          molePerM2PerS(ls.Assimilation * 1e-6),
		"StomatalConductance":   molePerM2PerS(ls.StomatalConductance),
		"TotalConductanceVapor": molePerM2PerS(ls.TotalConductanceVapor),
	}
}
