// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equil

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_units01_roundtrip(tst *testing.T) {

	chk.PrintTitle("units01_roundtrip")

	for _, u := range []Unit{NanoMolar, PicoMolar, MicroMolar, MilliMolar, Molar} {
		v := 42.5
		m, err := ToMolar(v, u)
		if err != nil {
			tst.Fatal(err)
		}
		back, err := FromMolar(m, u)
		if err != nil {
			tst.Fatal(err)
		}
		if math.Abs(back-v) > 1e-9 {
			tst.Fatalf("unit %v: round-trip mismatch: %v -> %v -> %v", u, v, m, back)
		}
	}
}

func Test_units02_conversion(tst *testing.T) {

	chk.PrintTitle("units02_conversion")

	m, err := ToMolar(1000, MilliMolar)
	if err != nil {
		tst.Fatal(err)
	}
	if math.Abs(m-1.0) > 1e-12 {
		tst.Fatalf("expected 1000 mM == 1 M, got %v", m)
	}
}

func Test_units03_unknown(tst *testing.T) {

	chk.PrintTitle("units03_unknown")

	if _, err := ToMolar(1, Unit("bogus")); err == nil {
		tst.Fatal("expected an error for an unknown unit")
	}
}
