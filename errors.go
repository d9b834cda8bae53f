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

import "fmt"

// PhotorespirationError indicates that the internal CO2 mixing ratio is
// at or below the photorespiratory compensation point, where the
// Farquhar rate expressions have a vanishing or negative denominator
// and no physically meaningful assimilation rate exists.
type PhotorespirationError struct {
	InternalCO2       float64 // [μmol mol-1]
	CompensationPoint float64 // [μmol mol-1]
}

func (e *PhotorespirationError) Error() string {
	return fmt.Sprintf("canopy: photorespiration dominant: internal CO2 "+
		"(%g μmol mol-1) is at or below the compensation point (%g μmol mol-1)",
		e.InternalCO2, e.CompensationPoint)
}

// DidNotConvergeError indicates that the solver exhausted its iteration
// cap before meeting tolerance. Last holds the final iterate so that
// callers running batches can diagnose individual failures without
// aborting the batch.
type DidNotConvergeError struct {
	Last       *LeafState
	Iterations int
}

func (e *DidNotConvergeError) Error() string {
	return fmt.Sprintf("canopy: did not converge after %d iterations "+
		"(residual %g W m-2)", e.Iterations, e.Last.EnergyBalanceResidual)
}

// InfeasibleError indicates that the environmental forcing has no
// physical solution under the given parameters.
type InfeasibleError struct {
	Cause error
	Last  *LeafState // last iterate, if any
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("canopy: no feasible solution: %v", e.Cause)
}

func (e *InfeasibleError) Unwrap() error { return e.Cause }

// NotImplementedError indicates a declared but unimplemented
// photosynthetic pathway. The C4, CAM, and C2 pathways are explicit
// non-goals rather than silent fallbacks to C3.
type NotImplementedError struct {
	Pathway Pathway
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("canopy: photosynthetic pathway %v is declared "+
		"but not implemented", e.Pathway)
}
