// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ibot implements the IBOT scheduler: iterative, priority-driven
// assignment of concentration exponents mu(p) to off-target polymers that
// maintains detailed balance across irreducible canonical reactions.
package ibot

import "math/big"

// unassigned is the sentinel value for an off-target polymer that has not
// yet been given an exponent (mu(p) = 0 prior to iteration).
var unassigned = big.NewRat(0, 1)

// Assignment is the partial map mu: PolymerBasis -> Q_>=0. On-target
// polymers are fixed at 1 from construction; off-targets start unassigned.
type Assignment struct {
	mu        []*big.Rat
	onTarget  []bool
	reachable []bool // false once a polymer is declared unreachable
}

// NewAssignment initializes mu(p) = 1 for on-target polymers and the
// unassigned sentinel for every off-target polymer.
func NewAssignment(onTarget []bool) *Assignment {
	a := &Assignment{
		mu:        make([]*big.Rat, len(onTarget)),
		onTarget:  append([]bool(nil), onTarget...),
		reachable: make([]bool, len(onTarget)),
	}
	for i, ot := range onTarget {
		if ot {
			a.mu[i] = big.NewRat(1, 1)
		} else {
			a.mu[i] = big.NewRat(0, 1)
		}
		a.reachable[i] = true
	}
	return a
}

// IsAssigned reports whether p has a positive exponent (on-target
// polymers are always assigned).
func (a *Assignment) IsAssigned(p int) bool {
	return a.onTarget[p] || a.mu[p].Sign() > 0
}

// Mu returns the current exponent for p (0 if unassigned).
func (a *Assignment) Mu(p int) *big.Rat { return a.mu[p] }

// Assign sets mu(p) = value. Only valid for a currently-unassigned off-target polymer.
func (a *Assignment) Assign(p int, value *big.Rat) {
	a.mu[p] = new(big.Rat).Set(value)
}

// MarkUnreachable records that p can never be assigned by any canonical
// reaction through off-target support. This is informational, not an error.
func (a *Assignment) MarkUnreachable(p int) { a.reachable[p] = false }

// Reachable reports whether p was (or still could be) reached.
func (a *Assignment) Reachable(p int) bool { return a.reachable[p] }
