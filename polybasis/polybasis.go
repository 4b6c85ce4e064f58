// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package polybasis builds the augmented matrix A', invokes the lattice
// oracle, projects out the fake singleton-star columns, and deduplicates
// the result at scale into the polymer basis.
package polybasis

import (
	"context"
	"sort"

	"github.com/cpmech/gosl/utl"
	"github.com/david-soloveichik/TBNExplorer2/lattice"
	"github.com/david-soloveichik/TBNExplorer2/matrix"
)

// Polymer is one element of the polymer basis: a non-negative integer
// multiplicity vector over the original n monomer columns.
type Polymer struct {
	X []int64
}

// Basis is the deduplicated, sorted, zero-free polymer basis.
type Basis struct {
	Polymers []Polymer
}

// Options configures one basis computation.
type Options struct {
	Backend lattice.Backend
	Debug   lattice.Options
	Shards  int // dedup shard count; 0 selects a sane default
}

// Build constructs A' from A, poses the Hilbert-basis problem to the
// lattice oracle, and post-processes the result into a Basis.
func Build(ctx context.Context, a *matrix.Matrix, opts Options) (*Basis, error) {
	n := a.Cols
	m := a.Rows()

	// Step 1-2: append -e_i for every row i lacking a singleton star column.
	hasUnitStar := make([]bool, m)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			if a.At(i, j) != -1 {
				continue
			}
			isUnitStar := true
			for k := 0; k < m; k++ {
				if k == i {
					continue
				}
				if a.At(k, j) != 0 {
					isUnitStar = false
					break
				}
			}
			if isUnitStar {
				hasUnitStar[i] = true
				break
			}
		}
	}
	var fakeCols []int
	for i := 0; i < m; i++ {
		if !hasUnitStar[i] {
			fakeCols = append(fakeCols, i)
		}
	}
	nPrime := n + len(fakeCols)

	// build A' equations: for each row i, sum_j A'[i][j] x[j] = 0
	eqs := make([][]int64, m)
	for i := 0; i < m; i++ {
		row := make([]int64, nPrime)
		for j := 0; j < n; j++ {
			row[j] = a.At(i, j)
		}
		eqs[i] = row
	}
	for k, i := range fakeCols {
		eqs[i][n+k] = -1
	}

	p := lattice.Problem{Dim: nPrime, Eq: eqs, SliceVar: -1}
	results, errs := opts.Backend.HilbertBasis(ctx, p, opts.Debug)

	shards := opts.Shards
	if shards <= 0 {
		shards = 8
	}
	dedup := newShardedDedup(shards)

	for r := range results {
		// project onto the first n coordinates, discarding fake-column multiplicity.
		proj := make([]int64, n)
		copy(proj, r.Vector[:n])
		if isZero(proj) {
			continue
		}
		dedup.add(proj)
	}
	if err := <-errs; err != nil {
		return nil, err
	}

	polys := dedup.collect()
	sort.Slice(polys, func(i, j int) bool { return lexLess(polys[i], polys[j]) })

	basis := &Basis{Polymers: make([]Polymer, len(polys))}
	for i, v := range polys {
		basis.Polymers[i] = Polymer{X: v}
	}
	return basis, nil
}

func isZero(v []int64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

func lexLess(a, b []int64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// SortUniqueInts is a thin wrapper over utl.IntSort/utl.IntUnique used by
// callers that need a deduplicated, sorted index list (e.g. on-target lookups).
func SortUniqueInts(xs []int) []int {
	utl.IntSort(xs)
	return utl.IntUnique(xs)
}
