// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ibot

import (
	"math"
	"math/big"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/david-soloveichik/TBNExplorer2/equil"
	"github.com/david-soloveichik/TBNExplorer2/polybasis"
)

func Test_synthesize01(tst *testing.T) {

	chk.PrintTitle("synthesize01")

	basis := &polybasis.Basis{Polymers: []polybasis.Polymer{
		{X: []int64{1, 0}}, // on-target, monomer 0 only
		{X: []int64{0, 1}}, // off-target, monomer 1 only, mu = 1
	}}
	assign := NewAssignment([]bool{true, false})
	assign.Assign(1, big.NewRat(1, 1))

	totals, err := SynthesizeMonomerConcentrations(basis, assign, 1e-6, equil.Molar, 2)
	if err != nil {
		tst.Fatal(err)
	}
	if len(totals) != 2 {
		tst.Fatalf("expected 2 monomer totals, got %d", len(totals))
	}
	// monomer 0 only comes from the on-target (exponent 1) polymer, scaled
	// by the water-density normalization; monomer 1 scales with the mole
	// fraction to the first power, i.e. the same weight, since mu=1 here too.
	if totals[0] <= 0 || totals[1] <= 0 {
		tst.Fatalf("expected positive synthesized concentrations, got %v", totals)
	}
	if math.IsNaN(totals[0]) || math.IsNaN(totals[1]) {
		tst.Fatal("synthesized concentrations must not be NaN")
	}
}
