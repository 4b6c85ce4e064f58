// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/david-soloveichik/TBNExplorer2/matrix"
)

func Test_parseTBN01_basic(tst *testing.T) {

	chk.PrintTitle("parseTBN01_basic")

	text := "a: s1 s2*\nb: s1*\n"
	tbn, err := ParseTBN(text, nil)
	if err != nil {
		tst.Fatal(err)
	}
	if len(tbn.Records) != 2 {
		tst.Fatalf("expected 2 monomer records, got %d", len(tbn.Records))
	}
	if tbn.Records[0].Name != "a" || len(tbn.Records[0].Sites) != 2 {
		tst.Fatalf("unexpected first record: %+v", tbn.Records[0])
	}
}

func Test_parseTBN02_expr_conc(tst *testing.T) {

	chk.PrintTitle("parseTBN02_expr_conc")

	text := "\\UNITS: nM\na: s1, {{2 * x + 1}}\n"
	tbn, err := ParseTBN(text, map[string]interface{}{"x": 4.0})
	if err != nil {
		tst.Fatal(err)
	}
	if tbn.Records[0].Conc == nil || *tbn.Records[0].Conc != 9 {
		tst.Fatalf("expected conc 9, got %v", tbn.Records[0].Conc)
	}
}

func Test_parseTBN03_conc_without_units(tst *testing.T) {

	chk.PrintTitle("parseTBN03_conc_without_units")

	if _, err := ParseTBN("a: s1, 5\n", nil); err == nil {
		tst.Fatal("expected an error for a concentration field with no \\UNITS: header")
	}
}

func Test_emitTBN01_roundtrip(tst *testing.T) {

	chk.PrintTitle("emitTBN01_roundtrip")

	m := &matrix.Matrix{
		BaseNames: []string{"s1", "s2"},
		Names:     []string{"a", "b"},
		Cols:      2,
		Data:      []int64{1, -1, -1, 0},
		HasConc:   true,
		Conc:      []float64{1.5, 2.5},
	}
	text := EmitTBN(m)
	vars := map[string]interface{}{}
	tbn, err := ParseTBN(text, vars)
	if err != nil {
		tst.Fatal(err)
	}
	if len(tbn.Records) != 2 {
		tst.Fatalf("expected 2 records after round-trip, got %d", len(tbn.Records))
	}
	if tbn.Records[0].Name != "a" || tbn.Records[1].Name != "b" {
		tst.Fatalf("expected names a, b in order, got %+v", tbn.Records)
	}
}

func Test_parseTBNPolys01_paragraphs(tst *testing.T) {

	chk.PrintTitle("parseTBNPolys01_paragraphs")

	// a single-token line is ambiguous between a monomer name and a one-site
	// raw binding-site list, so it carries both candidates; "n | " only
	// changes the repeat count, not what follows it.
	text := "s1\n2 | s2*\n# mu: 1.5\n\ns1\ns1\n"
	paras, err := ParseTBNPolys(text)
	if err != nil {
		tst.Fatal(err)
	}
	if len(paras) != 2 {
		tst.Fatalf("expected 2 paragraphs, got %d", len(paras))
	}
	if len(paras[0].Entries) != 2 || paras[0].Mu == nil || *paras[0].Mu != 1.5 {
		tst.Fatalf("unexpected first paragraph: %+v", paras[0])
	}
	if paras[0].Entries[0].Name != "s1" || len(paras[0].Entries[0].Sites) != 1 || paras[0].Entries[0].Sites[0].Base != "s1" {
		tst.Fatalf("unexpected name candidate entry: %+v", paras[0].Entries[0])
	}
	if paras[0].Entries[1].Count != 2 || paras[0].Entries[1].Name != "s2*" || len(paras[0].Entries[1].Sites) != 1 || paras[0].Entries[1].Sites[0].Base != "s2" || !paras[0].Entries[1].Sites[0].Star {
		tst.Fatalf("unexpected repeat-count entry: %+v", paras[0].Entries[1])
	}
	if len(paras[1].Entries) != 2 || paras[1].Mu != nil {
		tst.Fatalf("unexpected second paragraph: %+v", paras[1])
	}
}

func Test_parseTBNPolys02_monomer_name(tst *testing.T) {

	chk.PrintTitle("parseTBNPolys02_monomer_name")

	// a multi-token line never matches the site grammar as a whole, so it is
	// always a raw site list with no name candidate.
	paras, err := ParseTBNPolys("2 | s1 s2\n")
	if err != nil {
		tst.Fatal(err)
	}
	if len(paras) != 1 || paras[0].Entries[0].Count != 2 || paras[0].Entries[0].Name != "" || len(paras[0].Entries[0].Sites) != 2 {
		tst.Fatalf("unexpected paragraph: %+v", paras)
	}
}

func Test_emitTBNPolys01_mu_trailer(tst *testing.T) {

	chk.PrintTitle("emitTBNPolys01_mu_trailer")

	m := &matrix.Matrix{Names: []string{"", ""}, BaseNames: []string{"s1"}, Cols: 2, Data: []int64{1, 1}}
	mu := 3.0
	text := EmitTBNPolys(m, [][]int64{{1, 0}, {0, 2}}, []*float64{nil, &mu})

	paras, err := ParseTBNPolys(text)
	if err != nil {
		tst.Fatal(err)
	}
	if len(paras) != 2 {
		tst.Fatalf("expected 2 paragraphs, got %d", len(paras))
	}
	if paras[1].Mu == nil || *paras[1].Mu != 3.0 {
		tst.Fatalf("expected the mu trailer to round-trip, got %+v", paras[1])
	}
}

func Test_tbnPolymat01_roundtrip(tst *testing.T) {

	chk.PrintTitle("tbnPolymat01_roundtrip")

	pm := &PolyMat{
		MatrixHash: "abc123",
		Units:      "nM",
		NumCols:    2,
		HasEnergy:  true,
		HasConc:    true,
		Rows:       [][]int64{{1, 0}, {0, 2}},
		Energies:   []float64{-1.5, -3.0},
		Concs:      []float64{0.001234, 5.6},
	}
	text := EmitTBNPolymat(pm)
	got, err := ParseTBNPolymat(text, 2, true, true)
	if err != nil {
		tst.Fatal(err)
	}
	if got.MatrixHash != "abc123" || got.Units != "nM" {
		tst.Fatalf("unexpected header round-trip: %+v", got)
	}
	if len(got.Rows) != 2 || got.Rows[1][1] != 2 {
		tst.Fatalf("unexpected rows: %v", got.Rows)
	}
	if len(got.Energies) != 2 || got.Energies[0] != -1.5 {
		tst.Fatalf("unexpected energies: %v", got.Energies)
	}
}

func Test_tbnPolymat02_field_mismatch(tst *testing.T) {

	chk.PrintTitle("tbnPolymat02_field_mismatch")

	if _, err := ParseTBNPolymat("1 2 3\n", 2, false, false); err == nil {
		tst.Fatal("expected an error when the row has more fields than expected")
	}
}

func Test_formatConc01_significant_digits(tst *testing.T) {

	chk.PrintTitle("formatConc01_significant_digits")

	if got := formatConc(0); got != "0" {
		tst.Fatalf("expected 0 to format as \"0\", got %q", got)
	}
	if got := formatConc(1.23456); got != "1.23" {
		tst.Fatalf("expected 3 significant digits, got %q", got)
	}
}
