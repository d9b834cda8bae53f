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

import "math"

// Ratios of diffusive resistances relative to water vapor for the
// series legs of the transport pathway. Boundary layer ratios follow
// the 2/3 power scaling of turbulent transport; stomatal ratios are
// molecular diffusivity ratios.
const (
	co2BoundaryRatio = 1.37 // CO2 : H2O, laminar boundary layer
	co2StomataRatio  = 1.60 // CO2 : H2O, stomatal pore
	cosBoundaryRatio = 1.56 // COS : H2O, laminar boundary layer (Stimler et al. 2010)
	cosStomataRatio  = 1.94 // COS : H2O, stomatal pore (Stimler et al. 2010)

	// minVPD keeps the humidity response of the Leuning and Medlyn
	// models finite as the air approaches saturation [Pa].
	minVPD = 1.0
)

// StomatalModel is an empirical closure mapping the assimilation rate
// to stomatal conductance. The set of models is closed: BallBerry,
// Leuning, and Medlyn. The humidityTerm argument is model specific:
// relative humidity at the leaf surface [0, 1] for BallBerry, and the
// leaf-to-air vapor pressure deficit [Pa] for Leuning and Medlyn.
//
// Every model enforces its minimum conductance as a floor, so the
// result is strictly positive for any assimilation rate, including the
// negative rates of dark respiration.
type StomatalModel interface {
	// Conductance returns stomatal conductance to water vapor
	// [mol m-2 s-1] when given the net assimilation rate
	// [μmol m-2 s-1] and the CO2 mixing ratio at the leaf surface
	// [μmol mol-1].
	Conductance(assim, co2Surface, humidityTerm float64) float64

	// HumidityTerm derives the model's humidity forcing from the
	// saturation vapor pressure at leaf temperature and the ambient
	// vapor pressure, both in Pa.
	HumidityTerm(eSatLeaf, eAir float64) float64
}

// BallBerry is the Ball et al. (1987) stomatal conductance model,
//
//	g_sw = max(m A_n h_s / C_s, g_min)
type BallBerry struct {
	Slope float64 // m [-]
	GMin  float64 // minimum conductance [mol m-2 s-1]
}

// Conductance implements StomatalModel. humidityTerm is the relative
// humidity at the leaf surface [0, 1].
func (b BallBerry) Conductance(assim, co2Surface, humidityTerm float64) float64 {
	return math.Max(b.Slope*assim*humidityTerm/co2Surface, b.GMin)
}

// HumidityTerm implements StomatalModel, returning the relative
// humidity at the leaf surface [0, 1].
func (b BallBerry) HumidityTerm(eSatLeaf, eAir float64) float64 {
	return math.Max(0, math.Min(1, eAir/eSatLeaf))
}

// Leuning is the Leuning (1995) stomatal conductance model,
//
//	g_sw = max(m A_n / [C_s (1 + D/D_0)], g_min)
type Leuning struct {
	Slope float64 // m [-]
	GMin  float64 // minimum conductance [mol m-2 s-1]
	VPD0  float64 // humidity response scale D_0 [Pa]
}

// Conductance implements StomatalModel. humidityTerm is the
// leaf-to-air vapor pressure deficit [Pa].
func (l Leuning) Conductance(assim, co2Surface, humidityTerm float64) float64 {
	vpd := math.Max(humidityTerm, minVPD)
	return math.Max(l.Slope*assim/(co2Surface*(1+vpd/l.VPD0)), l.GMin)
}

// HumidityTerm implements StomatalModel, returning the leaf-to-air
// vapor pressure deficit [Pa].
func (l Leuning) HumidityTerm(eSatLeaf, eAir float64) float64 {
	return eSatLeaf - eAir
}

// Medlyn is the Medlyn et al. (2011) optimal stomatal conductance
// model,
//
//	g_sw = max(1.6 (1 + g_1/sqrt(D)) A_n / C_s, g_min)
//
// with D in kPa and g_1 in kPa^0.5.
type Medlyn struct {
	Slope float64 // g_1 [kPa^0.5]
	GMin  float64 // minimum conductance [mol m-2 s-1]
}

// Conductance implements StomatalModel. humidityTerm is the
// leaf-to-air vapor pressure deficit [Pa].
func (m Medlyn) Conductance(assim, co2Surface, humidityTerm float64) float64 {
	vpdKPa := math.Max(humidityTerm, minVPD) * 1e-3
	return math.Max(co2StomataRatio*(1+m.Slope/math.Sqrt(vpdKPa))*
		assim/co2Surface, m.GMin)
}

// HumidityTerm implements StomatalModel, returning the leaf-to-air
// vapor pressure deficit [Pa].
func (m Medlyn) HumidityTerm(eSatLeaf, eAir float64) float64 {
	return eSatLeaf - eAir
}

// TotalConductanceH2O combines the boundary layer and stomatal
// conductances to water vapor [mol m-2 s-1] in series.
func TotalConductanceH2O(gb, gs float64) float64 {
	return gb * gs / (gb + gs)
}

// TotalConductanceCO2 calculates the total conductance to CO2
// [mol m-2 s-1] from the boundary layer and stomatal conductances to
// water vapor and the mesophyll conductance to CO2, each leg rescaled
// by its diffusivity ratio. A nonpositive mesophyll conductance means
// no mesophyll limitation.
func TotalConductanceCO2(gb, gs, gm float64) float64 {
	r := co2BoundaryRatio/gb + co2StomataRatio/gs
	if gm > 0 {
		r += 1 / gm
	}
	return 1 / r
}

// TotalConductanceCOS calculates the total conductance to carbonyl
// sulfide [mol m-2 s-1] from the boundary layer and stomatal
// conductances to water vapor, after Stimler et al. (2010).
func TotalConductanceCOS(gb, gs float64) float64 {
	return 1 / (cosBoundaryRatio/gb + cosStomataRatio/gs)
}
