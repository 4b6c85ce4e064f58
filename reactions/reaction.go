// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reactions builds the canonical-reaction cone from (A, polymer
// basis, on-target subset) and enumerates its Hilbert basis, or (in
// bounded-target mode) the minimal solutions of per-target strict slices.
package reactions

import (
	"github.com/david-soloveichik/TBNExplorer2/polybasis"
	"github.com/david-soloveichik/TBNExplorer2/tbnerr"
)

// Reaction is an integer vector r over the polymer basis index space.
// Negative entries are reactants (with multiplicity), positive entries
// are products. The no-catalyst invariant (disjoint supports) is
// enforced structurally: Reactants and Products never share an index.
type Reaction struct {
	R []int64
}

// Reactants returns the negative-support indices and their (positive) multiplicities.
func (r Reaction) Reactants() (idx []int, mult []int64) {
	for i, v := range r.R {
		if v < 0 {
			idx = append(idx, i)
			mult = append(mult, -v)
		}
	}
	return
}

// Products returns the positive-support indices and their multiplicities.
func (r Reaction) Products() (idx []int, mult []int64) {
	for i, v := range r.R {
		if v > 0 {
			idx = append(idx, i)
			mult = append(mult, v)
		}
	}
	return
}

// TotalReactants returns sum(-r_p) over negative entries: 1^T r^-.
func (r Reaction) TotalReactants() int64 {
	var s int64
	for _, v := range r.R {
		if v < 0 {
			s -= v
		}
	}
	return s
}

// TotalProducts returns sum(r_p) over positive entries: 1^T r^+.
func (r Reaction) TotalProducts() int64 {
	var s int64
	for _, v := range r.R {
		if v > 0 {
			s += v
		}
	}
	return s
}

// Render produces a human-readable "A + 2 B -> C" style rendering for error
// messages.
func (r Reaction) Render(basis *polybasis.Basis, names func(p polybasis.Polymer) string) string {
	ridx, rmult := r.Reactants()
	pidx, pmult := r.Products()
	render := func(idx []int, mult []int64) string {
		s := ""
		for k, i := range idx {
			if k > 0 {
				s += " + "
			}
			if mult[k] != 1 {
				s += itoa(mult[k]) + " "
			}
			s += names(basis.Polymers[i])
		}
		if s == "" {
			s = "(nothing)"
		}
		return s
	}
	return render(ridx, rmult) + " -> " + render(pidx, pmult)
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// errOnTargetImbalance builds the fatal detailed-balance error with the
// offending reaction rendered in human form.
func errOnTargetImbalance(rendered string) error {
	return tbnerr.New(tbnerr.OnTargetImbalance, "reactions",
		"on-target-only irreducible reaction is unbalanced (reactants != products): %s", rendered)
}
