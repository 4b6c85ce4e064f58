// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package filter implements constraint-driven filtering of polymer x
// concentration records.
package filter

import "sort"

// Record is one polymer x concentration row drawn from a .tbnpolymat artifact.
type Record struct {
	Monomers      []int64 // monomer multiplicities, indexed by column
	Concentration float64
}

// Constraint is one filter line: CONTAINS or EXACTLY over monomer indices.
type Constraint struct {
	Exact bool  // true for EXACTLY, false for CONTAINS
	Names []int // monomer column indices, repetitions raise the CONTAINS lower bound
}

// lowerBounds reduces a CONTAINS constraint's repeated names into a
// per-monomer minimum-multiplicity requirement.
func (c Constraint) lowerBounds(nMonomers int) []int64 {
	b := make([]int64, nMonomers)
	for _, idx := range c.Names {
		b[idx]++
	}
	return b
}

func (c Constraint) matches(r Record, nMonomers int) bool {
	if c.Exact {
		want := make([]int64, nMonomers)
		for _, idx := range c.Names {
			want[idx]++
		}
		for i := 0; i < nMonomers; i++ {
			if r.Monomers[i] != want[i] {
				return false
			}
		}
		return true
	}
	bounds := c.lowerBounds(nMonomers)
	for i, b := range bounds {
		if r.Monomers[i] < b {
			return false
		}
	}
	return true
}

// Spec is a full filter specification: constraints combine via logical OR,
// and the result set is truncated by count cap AND min-concentration
// floor AND percent-of-total floor, applied together.
type Spec struct {
	Constraints      []Constraint
	MaxCount         int     // 0 means unbounded
	MinConcentration float64 // 0 means unbounded
	MinPercentTotal  float64 // 0 means unbounded; percent of total concentration across all records
}

// Apply filters records by Spec and returns them in global descending
// concentration order, truncated per the combined caps.
func Apply(records []Record, nMonomers int, spec Spec) []Record {
	var total float64
	for _, r := range records {
		total += r.Concentration
	}

	var matched []Record
	for _, r := range records {
		if len(spec.Constraints) == 0 {
			matched = append(matched, r)
			continue
		}
		for _, c := range spec.Constraints {
			if c.matches(r, nMonomers) {
				matched = append(matched, r)
				break
			}
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Concentration > matched[j].Concentration
	})

	floor := spec.MinConcentration
	if spec.MinPercentTotal > 0 && total > 0 {
		pctFloor := spec.MinPercentTotal / 100 * total
		if pctFloor > floor {
			floor = pctFloor
		}
	}

	var out []Record
	for _, r := range matched {
		if floor > 0 && r.Concentration < floor {
			continue
		}
		out = append(out, r)
		if spec.MaxCount > 0 && len(out) >= spec.MaxCount {
			break
		}
	}
	return out
}
