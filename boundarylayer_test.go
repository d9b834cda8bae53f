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

import "testing"

// Field-scale leaf boundary layer conductances fall around
// 1-3 mol m-2 s-1 (Campbell and Norman 1998, ch. 7).
func TestBoundaryLayerConductanceHeat(t *testing.T) {
	env := testEnv()
	geom := testGeom()

	g, err := BoundaryLayerConductanceHeat(env, geom)
	if err != nil {
		t.Fatal(err)
	}
	if g < 0.8 || g > 1.6 {
		t.Errorf("heat conductance = %g mol m-2 s-1 for a 5 cm leaf at "+
			"2 m s-1, want around 1.2", g)
	}

	// g scales with sqrt(u) and 1/sqrt(d).
	env2 := env
	env2.WindSpeed = 8
	g4, err := BoundaryLayerConductanceHeat(env2, geom)
	if err != nil {
		t.Fatal(err)
	}
	if different(g4, 2*g, testTolerance) {
		t.Errorf("quadrupling wind speed scales conductance by %g, want 2",
			g4/g)
	}

	geom2 := geom
	geom2.Dimension = 0.2
	gd, err := BoundaryLayerConductanceHeat(env, geom2)
	if err != nil {
		t.Fatal(err)
	}
	if different(gd, g/2, testTolerance) {
		t.Errorf("quadrupling leaf dimension scales conductance by %g, want 0.5",
			gd/g)
	}
}

func TestBoundaryLayerConductanceVapor(t *testing.T) {
	env := testEnv()
	geom := testGeom()

	gh, err := BoundaryLayerConductanceHeat(env, geom)
	if err != nil {
		t.Fatal(err)
	}
	gv, err := BoundaryLayerConductanceVapor(env, geom)
	if err != nil {
		t.Fatal(err)
	}

	// Water vapor diffuses faster than heat in air, so g_bw exceeds
	// g_bh, but only by the (D_w/α)^(2/3) factor of about 1.1.
	if gv <= gh {
		t.Errorf("vapor conductance %g not above heat conductance %g", gv, gh)
	}
	if gv/gh > 1.25 {
		t.Errorf("vapor to heat conductance ratio = %g, want about 1.1", gv/gh)
	}
}

func TestBoundaryLayerConductanceInvalid(t *testing.T) {
	env := testEnv()
	geom := testGeom()
	geom.Dimension = 0
	if _, err := BoundaryLayerConductanceHeat(env, geom); err == nil {
		t.Error("expected an error for a zero leaf dimension")
	}

	geom = testGeom()
	env.WindSpeed = 0
	if err := env.Check(); err == nil {
		t.Error("expected an error for zero wind speed")
	}
}
