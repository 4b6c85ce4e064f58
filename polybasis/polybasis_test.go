// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package polybasis

import (
	"context"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/david-soloveichik/TBNExplorer2/lattice"
	"github.com/david-soloveichik/TBNExplorer2/matrix"
)

// fakeBackend streams a fixed set of rows, ignoring the posed problem.
type fakeBackend struct {
	rows [][]int64
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) HilbertBasis(ctx context.Context, p lattice.Problem, opts lattice.Options) (<-chan lattice.Result, <-chan error) {
	results := make(chan lattice.Result, len(f.rows))
	errs := make(chan error, 1)
	for _, r := range f.rows {
		results <- lattice.Result{Vector: r}
	}
	close(results)
	close(errs)
	return results, errs
}

func (f *fakeBackend) StrictSliceBasis(ctx context.Context, p lattice.Problem, opts lattice.Options) (<-chan lattice.Result, <-chan error) {
	return f.HilbertBasis(ctx, p, opts)
}

func Test_build01_projects_and_dedups(tst *testing.T) {

	chk.PrintTitle("build01_projects_and_dedups")

	// one row lacking a unit-star column (row 1), so Build appends one fake
	// column; the fake column's multiplicity must be discarded after the
	// solve, collapsing [1,2] and [1,3] into the same basis element.
	a := &matrix.Matrix{BaseNames: []string{"s0", "s1"}, Cols: 1, Data: []int64{-1, 0}}

	backend := &fakeBackend{rows: [][]int64{
		{1, 2},
		{1, 3},
		{0, 5}, // projects to the all-zero vector, must be dropped
		{3, 0},
	}}

	basis, err := Build(context.Background(), a, Options{Backend: backend, Shards: 2})
	if err != nil {
		tst.Fatal(err)
	}
	if len(basis.Polymers) != 2 {
		tst.Fatalf("expected 2 distinct polymers, got %d: %v", len(basis.Polymers), basis.Polymers)
	}
	if basis.Polymers[0].X[0] != 1 || basis.Polymers[1].X[0] != 3 {
		tst.Fatalf("expected basis sorted [1] then [3], got %v, %v", basis.Polymers[0].X, basis.Polymers[1].X)
	}
}

func Test_shardedDedup01(tst *testing.T) {

	chk.PrintTitle("shardedDedup01")

	d := newShardedDedup(4)
	d.add([]int64{1, 0})
	d.add([]int64{1, 0})
	d.add([]int64{0, 1})

	got := d.collect()
	if len(got) != 2 {
		tst.Fatalf("expected 2 unique vectors, got %d: %v", len(got), got)
	}
}

func Test_sortUniqueInts01(tst *testing.T) {

	chk.PrintTitle("sortUniqueInts01")

	out := SortUniqueInts([]int{3, 1, 2, 1, 3})
	want := []int{1, 2, 3}
	if len(out) != len(want) {
		tst.Fatalf("expected %v, got %v", want, out)
	}
	for i := range want {
		if out[i] != want[i] {
			tst.Fatalf("expected %v, got %v", want, out)
		}
	}
}
