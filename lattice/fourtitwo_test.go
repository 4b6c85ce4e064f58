// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lattice

import (
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_parseFourTiTwoMatrix01(tst *testing.T) {

	chk.PrintTitle("parseFourTiTwoMatrix01")

	out := "2 3\n1 0 2\n0 1 0\n"
	results := make(chan Result, 4)
	err := parseFourTiTwoMatrix(strings.NewReader(out), results)
	close(results)
	if err != nil {
		tst.Fatal(err)
	}
	var rows [][]int64
	for r := range results {
		rows = append(rows, r.Vector)
	}
	if len(rows) != 2 {
		tst.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != 1 || rows[0][2] != 2 || rows[1][1] != 1 {
		tst.Fatalf("unexpected rows: %v", rows)
	}
}

func Test_writeFourTiTwoMatrices01(tst *testing.T) {

	chk.PrintTitle("writeFourTiTwoMatrices01")

	dir := tst.TempDir()
	p := Problem{
		Dim:      2,
		Eq:       [][]int64{{1, -1}},
		Ineq:     [][]int64{{1, 0}, {0, 1}},
		SliceVar: -1,
	}
	if err := writeFourTiTwoMatrices(dir+"/p", p); err != nil {
		tst.Fatal(err)
	}
}
