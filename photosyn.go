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

// Pathway tags the photosynthetic carbon fixation pathway of a leaf.
type Pathway int

const (
	// C3 is the Calvin cycle pathway. It is the only implemented
	// pathway.
	C3 Pathway = iota
	// C4 is the Hatch-Slack pathway (declared, not implemented).
	C4
	// CAM is crassulacean acid metabolism (declared, not implemented).
	CAM
	// C2 is photorespiratory CO2-concentrating metabolism (declared,
	// not implemented).
	C2
)

func (p Pathway) String() string {
	switch p {
	case C3:
		return "C3"
	case C4:
		return "C4"
	case CAM:
		return "CAM"
	case C2:
		return "C2"
	}
	return "unknown pathway"
}

// PhotosynthesisParameters holds the biochemical parameter set of a
// leaf following the Farquhar et al. (1980) model.
type PhotosynthesisParameters struct {
	Pathway Pathway

	// Temperature response laws for the biochemical parameters. VCMax,
	// KC, KO, CompensationPoint, Respiration, and JMax are required;
	// TriosePhosphate is optional and enables the substrate-limited
	// rate when set.
	VCMax             TempDependence // Rubisco carboxylation capacity [μmol m-2 s-1]
	KC                TempDependence // Michaelis constant for CO2 [μmol mol-1]
	KO                TempDependence // Michaelis constant for O2 [mmol mol-1]
	CompensationPoint TempDependence // Γ* [μmol mol-1]
	Respiration       TempDependence // dark respiration R_d [μmol m-2 s-1]
	JMax              TempDependence // maximum electron transport [μmol m-2 s-1]
	TriosePhosphate   TempDependence // TPU rate T_p [μmol m-2 s-1], nil to disable

	Absorptance        float64 // leaf absorptance of PPFD [-]
	SpectralCorrection float64 // fraction of absorbed light lost to non-photosynthetic pigments [-]
	Curvature          float64 // θ, curvature of the electron transport light response [-]

	// CurvatureEpsilon is the threshold below which the light response
	// quadratic degenerates to its linear limit. The default 1e-6 is a
	// numerical stability choice, not a physical one.
	CurvatureEpsilon float64

	// TPUAlpha is the fraction of glycolate carbon not returned to the
	// chloroplast in the substrate-limited rate [-].
	TPUAlpha float64
}

func (p *PhotosynthesisParameters) curvatureEpsilon() float64 {
	if p.CurvatureEpsilon > 0 {
		return p.CurvatureEpsilon
	}
	return 1e-6
}

// electronTransport calculates the potential electron transport rate J
// [μmol m-2 s-1] as the smooth hyperbolic minimum of the light-limited
// electron supply i2 and the capacity jmax, with curvature θ. The
// smaller root of
//
//	θ J² - (i2 + jmax) J + i2 jmax = 0
//
// tends to the sharp minimum as θ -> 1; below CurvatureEpsilon the
// equation is solved in its degenerate linear form to avoid dividing
// by θ.
func (p *PhotosynthesisParameters) electronTransport(i2, jmax float64) float64 {
	θ := p.Curvature
	if θ < p.curvatureEpsilon() {
		return i2 * jmax / (i2 + jmax)
	}
	b := i2 + jmax
	return (b - math.Sqrt(b*b-4*θ*i2*jmax)) / (2 * θ)
}

// Assimilate calculates the net CO2 assimilation rate [μmol m-2 s-1]
// of a C3 leaf when given the incident PPFD [μmol m-2 s-1], leaf
// temperature [K], internal CO2 mixing ratio [μmol mol-1], ambient
// pressure [Pa], and ambient O2 mixing ratio [μmol mol-1].
//
// An internal CO2 at or below the compensation point returns a
// PhotorespirationError rather than a nonsensical rate.
func (p *PhotosynthesisParameters) Assimilate(ppfd, leafTemp, internalCO2,
	pressure, o2 float64) (float64, error) {
	if p.Pathway != C3 {
		return 0, &NotImplementedError{Pathway: p.Pathway}
	}
	if ppfd < 0 {
		return 0, &phys.InvalidInputError{Quantity: "PPFD", Value: ppfd,
			Reason: "PPFD must be nonnegative"}
	}
	if err := phys.CheckPressure(pressure); err != nil {
		return 0, err
	}

	vcmax, err := p.VCMax.Evaluate(leafTemp)
	if err != nil {
		return 0, err
	}
	kc, err := p.KC.Evaluate(leafTemp)
	if err != nil {
		return 0, err
	}
	ko, err := p.KO.Evaluate(leafTemp)
	if err != nil {
		return 0, err
	}
	γStar, err := p.CompensationPoint.Evaluate(leafTemp)
	if err != nil {
		return 0, err
	}
	rd, err := p.Respiration.Evaluate(leafTemp)
	if err != nil {
		return 0, err
	}
	jmax, err := p.JMax.Evaluate(leafTemp)
	if err != nil {
		return 0, err
	}

	// The Michaelis constants are tabulated as concentrations converted
	// to mixing ratios through the standard atmosphere, so they scale
	// with the inverse of ambient pressure. Γ* is a ratio of partial
	// pressures and needs no correction.
	pressureRatio := phys.AtmStd / pressure
	kc *= pressureRatio
	ko *= pressureRatio

	if internalCO2 <= γStar {
		return 0, &PhotorespirationError{
			InternalCO2:       internalCO2,
			CompensationPoint: γStar,
		}
	}

	// Electron transport limited rate (Farquhar et al. 1980 eq. 30;
	// von Caemmerer 2000 eq. 2.23).
	i2 := ppfd * p.Absorptance * (1 - p.SpectralCorrection) / 2
	j := p.electronTransport(i2, jmax)
	wj := j * (internalCO2 - γStar) / (4*internalCO2 + 8*γStar)

	// Rubisco limited rate (Farquhar et al. 1980 eq. 16). KO is
	// tabulated in mmol mol-1.
	wc := vcmax * (internalCO2 - γStar) /
		(internalCO2 + kc*(1+o2/(ko*1e3)))

	gross := math.Min(wj, wc)

	if p.TriosePhosphate != nil {
		tp, err := p.TriosePhosphate.Evaluate(leafTemp)
		if err != nil {
			return 0, err
		}
		denom := internalCO2 - (1+1.5*p.TPUAlpha)*γStar
		if denom <= 0 {
			return 0, &PhotorespirationError{
				InternalCO2:       internalCO2,
				CompensationPoint: (1 + 1.5*p.TPUAlpha) * γStar,
			}
		}
		wp := 3 * tp * (internalCO2 - γStar) / denom
		gross = math.Min(gross, wp)
	}

	return gross - rd, nil
}

// DarkRespiration calculates the dark respiration rate [μmol m-2 s-1]
// at leaf temperature T [K].
func (p *PhotosynthesisParameters) DarkRespiration(T float64) (float64, error) {
	return p.Respiration.Evaluate(T)
}
