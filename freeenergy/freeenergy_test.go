// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package freeenergy

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/david-soloveichik/TBNExplorer2/matrix"
	"github.com/david-soloveichik/TBNExplorer2/polybasis"
)

func dimerMatrix() *matrix.Matrix {
	// monomer 0 carries a single a* site, monomer 1 a single a site; one
	// copy of each saturates every site.
	return &matrix.Matrix{BaseNames: []string{"a"}, Cols: 2, Data: []int64{-1, 1}}
}

func Test_evaluate01_saturated(tst *testing.T) {

	chk.PrintTitle("evaluate01_saturated")

	a := dimerMatrix()
	r, err := Evaluate(a, []int64{1, 1}, PenaltyParams{})
	if err != nil {
		tst.Fatal(err)
	}
	if r.Bonds != 1 {
		tst.Fatalf("expected 1 bond, got %d", r.Bonds)
	}
	if r.DeltaG != -1 {
		tst.Fatalf("expected DeltaG=-1, got %v", r.DeltaG)
	}
}

func Test_evaluate02_unsaturated(tst *testing.T) {

	chk.PrintTitle("evaluate02_unsaturated")

	a := dimerMatrix()
	r, err := Evaluate(a, []int64{1, 0}, PenaltyParams{})
	if err != nil {
		tst.Fatal(err)
	}
	if r.Bonds != 0 || r.DeltaG != 0 {
		tst.Fatalf("expected an unsaturated polymer to read Bonds=0, DeltaG=0, got %+v", r)
	}
	if r.UnpairedExcess == 0 {
		tst.Fatal("expected a nonzero unpaired excess for an unsaturated polymer")
	}
}

func Test_evaluate03_penalty(tst *testing.T) {

	chk.PrintTitle("evaluate03_penalty")

	a := dimerMatrix()
	penalty := PenaltyParams{Enabled: true, DGAssoc: 1.0, DHAssoc: 2.0, TempC: 37.0}
	r, err := Evaluate(a, []int64{1, 1}, penalty)
	if err != nil {
		tst.Fatal(err)
	}
	// at the reference temperature the penalty reduces exactly to DGAssoc
	// per monomer beyond the first, cancelling the -1 bond term here.
	if math.Abs(r.DeltaG-0.0) > 1e-9 {
		tst.Fatalf("expected DeltaG~0 at the reference temperature, got %v", r.DeltaG)
	}
}

func Test_evaluateAll01_preserves_order(tst *testing.T) {

	chk.PrintTitle("evaluateAll01_preserves_order")

	a := dimerMatrix()
	polys := []polybasis.Polymer{
		{X: []int64{1, 1}},
		{X: []int64{2, 2}},
		{X: []int64{3, 3}},
	}
	results, err := EvaluateAll(a, polys, PenaltyParams{})
	if err != nil {
		tst.Fatal(err)
	}
	if len(results) != 3 {
		tst.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []int64{1, 2, 3} {
		if results[i].Bonds != want {
			tst.Fatalf("result %d: expected %d bonds, got %d (order not preserved)", i, want, results[i].Bonds)
		}
	}
}
