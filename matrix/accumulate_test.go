// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package matrix

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_accumulate01(tst *testing.T) {

	chk.PrintTitle("accumulate01")

	recs := []MonomerRecord{
		{Name: "X", Sites: []BindingSite{{Base: "a"}, {Base: "b"}}},
		{Name: "Y", Sites: []BindingSite{{Base: "a", Star: true}}},
	}
	m, err := Build(recs, false)
	if err != nil {
		tst.Fatal(err)
	}

	x := []int64{2, 3} // 2 copies of X, 3 copies of Y
	signed, err := m.SumSigned(x)
	if err != nil {
		tst.Fatal(err)
	}
	// A = [[1,-1],[1,0]], x = [2,3] -> A x = [2-3, 2] = [-1, 2]; 1^T A x = 1
	if signed != 1 {
		tst.Fatalf("expected signed sum 1, got %d", signed)
	}

	abs, err := m.SumAbs(x)
	if err != nil {
		tst.Fatal(err)
	}
	// |A| = [[1,1],[1,0]], |A| x = [2+3, 2] = [5, 2]; 1^T = 7
	if abs != 7 {
		tst.Fatalf("expected abs sum 7, got %d", abs)
	}
}

func Test_accumulate_overflow(tst *testing.T) {

	chk.PrintTitle("accumulate_overflow")

	m := &Matrix{BaseNames: []string{"a"}, Names: []string{"X"}, Cols: 1, Data: []int64{2}}
	x := []int64{1 << 62}
	if _, err := m.SumAbs(x); err == nil {
		tst.Fatal("expected overflow error for a value near int64 range")
	}
}
