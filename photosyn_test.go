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
	"testing"

	"github.com/wusunlab/canopy/phys"
)

func TestAssimilateLightResponse(t *testing.T) {
	p := testC3Params()

	// In the dark the net rate is pure respiration.
	a0, err := p.Assimilate(0, 298.15, 280, phys.AtmStd, 209460)
	if err != nil {
		t.Fatal(err)
	}
	rd, err := p.DarkRespiration(298.15)
	if err != nil {
		t.Fatal(err)
	}
	if different(a0, -rd, testTolerance) {
		t.Errorf("dark assimilation = %g, want -R_d = %g", a0, -rd)
	}

	// The light response increases strictly in the light-limited
	// region and saturates once Rubisco takes over.
	prev := a0
	for _, ppfd := range []float64{50, 100, 200, 300} {
		a, err := p.Assimilate(ppfd, 298.15, 280, phys.AtmStd, 209460)
		if err != nil {
			t.Fatal(err)
		}
		if a <= prev {
			t.Errorf("assimilation not increasing at PPFD = %g", ppfd)
		}
		prev = a
	}
	aSat, err := p.Assimilate(1500, 298.15, 280, phys.AtmStd, 209460)
	if err != nil {
		t.Fatal(err)
	}
	aHigh, err := p.Assimilate(2000, 298.15, 280, phys.AtmStd, 209460)
	if err != nil {
		t.Fatal(err)
	}
	if gain := aHigh - aSat; gain > 0.05*(aSat-a0) {
		t.Errorf("light response does not saturate: high-light gain %g", gain)
	}
}

func TestAssimilateCO2Response(t *testing.T) {
	p := testC3Params()

	var prev float64 = math.Inf(-1)
	for _, ci := range []float64{100, 200, 300, 500, 800} {
		a, err := p.Assimilate(1500, 298.15, ci, phys.AtmStd, 209460)
		if err != nil {
			t.Fatal(err)
		}
		if a <= prev {
			t.Errorf("assimilation not increasing at internal CO2 = %g", ci)
		}
		prev = a
	}

	// A saturating-light, typical-Ci operating point sits in the tens
	// of μmol m-2 s-1 for these parameters.
	a, err := p.Assimilate(1500, 298.15, 280, phys.AtmStd, 209460)
	if err != nil {
		t.Fatal(err)
	}
	if a < 8 || a > 30 {
		t.Errorf("assimilation = %g μmol m-2 s-1 at the reference "+
			"operating point", a)
	}
}

func TestAssimilatePhotorespiration(t *testing.T) {
	p := testC3Params()

	γStar, err := p.CompensationPoint.Evaluate(298.15)
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Assimilate(1500, 298.15, γStar*0.9, phys.AtmStd, 209460)
	perr, ok := err.(*PhotorespirationError)
	if !ok {
		t.Fatalf("error has type %T, want *PhotorespirationError", err)
	}
	if different(perr.CompensationPoint, γStar, testTolerance) {
		t.Errorf("reported compensation point = %g, want %g",
			perr.CompensationPoint, γStar)
	}

	// Just above the compensation point the net rate is slightly above
	// -R_d and finite.
	a, err := p.Assimilate(1500, 298.15, γStar*1.01, phys.AtmStd, 209460)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(a) || math.IsInf(a, 0) {
		t.Errorf("assimilation just above the compensation point = %g", a)
	}
}

func TestAssimilateTPULimitation(t *testing.T) {
	p := testC3Params()
	unlimited, err := p.Assimilate(1500, 298.15, 800, phys.AtmStd, 209460)
	if err != nil {
		t.Fatal(err)
	}

	// A low triose phosphate export capacity caps the rate at high CO2.
	p.TriosePhosphate = Q10{RefValue: 3, RefTemp: 298.15, Factor: 2}
	limited, err := p.Assimilate(1500, 298.15, 800, phys.AtmStd, 209460)
	if err != nil {
		t.Fatal(err)
	}
	if limited >= unlimited {
		t.Errorf("TPU limitation did not cap assimilation (%g >= %g)",
			limited, unlimited)
	}
	rd, err := p.DarkRespiration(298.15)
	if err != nil {
		t.Fatal(err)
	}
	if different(limited, 3*3-rd, 0.05) {
		t.Errorf("TPU-limited rate = %g, want about 3 T_p - R_d = %g",
			limited, 3*3-rd)
	}
}

func TestElectronTransportCurvature(t *testing.T) {
	p := testC3Params()

	// The hyperbolic minimum stays below both of its arguments.
	j := p.electronTransport(100, 120)
	if j >= 100 || j >= 120 {
		t.Errorf("electron transport rate %g exceeds a limiting rate", j)
	}

	// As θ -> 1 the smooth minimum tends to the sharp minimum.
	p.Curvature = 0.9999
	if j := p.electronTransport(100, 120); different(j, 100, 0.05) {
		t.Errorf("sharp-curvature electron transport = %g, want near 100", j)
	}

	// Below the curvature threshold the quadratic degenerates to
	// J = i2 jmax / (i2 + jmax).
	p.Curvature = 0
	j = p.electronTransport(100, 120)
	if different(j, 100.0*120/220, testTolerance) {
		t.Errorf("degenerate electron transport = %g, want %g",
			j, 100.0*120/220)
	}
}

func TestAssimilatePressureCorrection(t *testing.T) {
	p := testC3Params()

	sea, err := p.Assimilate(1500, 298.15, 280, phys.AtmStd, 209460)
	if err != nil {
		t.Fatal(err)
	}
	// At altitude the Michaelis constants grow as mixing ratios, so a
	// Rubisco-limited leaf at fixed internal CO2 assimilates less.
	alt, err := p.Assimilate(1500, 298.15, 280, 80000, 209460)
	if err != nil {
		t.Fatal(err)
	}
	if alt >= sea {
		t.Errorf("assimilation at 80 kPa (%g) not below sea level (%g)",
			alt, sea)
	}
}

func TestAssimilateNotImplemented(t *testing.T) {
	p := testC3Params()
	p.Pathway = C4
	_, err := p.Assimilate(1500, 298.15, 280, phys.AtmStd, 209460)
	nie, ok := err.(*NotImplementedError)
	if !ok {
		t.Fatalf("error has type %T, want *NotImplementedError", err)
	}
	if nie.Pathway != C4 {
		t.Errorf("NotImplementedError reports pathway %v", nie.Pathway)
	}
}
