// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lattice adapts in-memory cone/slice descriptions to the external
// lattice-solver subprocess (normaliz, or 4ti2 as an alternate backend) and
// streams its integer output back without materializing the whole result set.
package lattice

// Problem describes either the homogeneous cone
//
//	{ x in Z^d_>=0 : E x = 0, I x >= 0 }
//
// (when SliceVar < 0) or its strict slice at coordinate SliceVar
//
//	{ x in Z^d : E x = 0, I x >= 0, x[SliceVar] >= 1 }
//
// (when SliceVar >= 0). E and I are row-major matrices over Z with D columns.
type Problem struct {
	Dim      int       // d, ambient dimension
	Eq       [][]int64 // equality rows (E)
	Ineq     [][]int64 // inequality rows (I); includes x >= 0 implicitly for non-split coordinates
	SliceVar int       // -1 for the homogeneous problem, else the strict-slice coordinate
	// FreeSign marks coordinates that are not implicitly constrained to be
	// non-negative (used by reactions' variable-splitting encoding); for a
	// coordinate in FreeSign, the caller must have already emitted its
	// split (positive/negative part) columns, so this is purely documentary
	// at the Problem level and consumed by the caller, not the backend.
	FreeSign []bool
}

// Result is one row of a solver response: a Hilbert-basis generator, or (in
// strict-slice mode) a minimal inhomogeneous solution / module generator.
type Result struct {
	Vector []int64
}
