// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lattice

import (
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_streamSection01(tst *testing.T) {

	chk.PrintTitle("streamSection01")

	out := "some preamble\n" +
		"HilbertBasis\n" +
		"3\n" +
		"1 0 2\n" +
		"0 1 0\n" +
		"2 2 2\n" +
		"3 extreme rays\n"

	results := make(chan Result, 8)
	err := streamSection(strings.NewReader(out), "HilbertBasis", results)
	close(results)
	if err != nil {
		tst.Fatal(err)
	}

	var got [][]int64
	for r := range results {
		got = append(got, r.Vector)
	}
	if len(got) != 3 {
		tst.Fatalf("expected 3 rows, got %d", len(got))
	}
	want := [][]int64{{1, 0, 2}, {0, 1, 0}, {2, 2, 2}}
	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				tst.Fatalf("row %d mismatch: got %v want %v", i, got[i], want[i])
			}
		}
	}
}

func Test_streamSection_empty(tst *testing.T) {

	chk.PrintTitle("streamSection_empty")

	out := "Deg1Elements\n0\n"
	results := make(chan Result, 1)
	err := streamSection(strings.NewReader(out), "Deg1Elements", results)
	close(results)
	if err != nil {
		tst.Fatal(err)
	}
	n := 0
	for range results {
		n++
	}
	if n != 0 {
		tst.Fatalf("expected zero rows, got %d", n)
	}
}

func Test_streamSection_malformed(tst *testing.T) {

	chk.PrintTitle("streamSection_malformed")

	out := "HilbertBasis\n1\nnot-an-int 2\n"
	results := make(chan Result, 1)
	err := streamSection(strings.NewReader(out), "HilbertBasis", results)
	close(results)
	if err == nil {
		tst.Fatal("expected a malformed-row error")
	}
}
