// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tbnerr

import (
	"errors"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_kind01_string_and_exitcode(tst *testing.T) {

	chk.PrintTitle("kind01_string_and_exitcode")

	if ParseError.String() != "ParseError" {
		tst.Fatalf("unexpected kind name: %s", ParseError.String())
	}
	if ParseError.ExitCode() == 0 {
		tst.Fatal("expected ParseError to map to a nonzero exit code")
	}
	if CacheStale.ExitCode() != 0 {
		tst.Fatal("expected CacheStale to be non-fatal (exit code 0)")
	}
	if Kind(999).String() != "UnknownError" {
		tst.Fatalf("expected an unrecognized kind to render as UnknownError, got %s", Kind(999).String())
	}
}

func Test_new01_message(tst *testing.T) {

	chk.PrintTitle("new01_message")

	err := New(InvariantViolation, "matrix", "bad thing: %d", 42)
	if err.Kind != InvariantViolation || err.Component != "matrix" {
		tst.Fatalf("unexpected error fields: %+v", err)
	}
	want := "[InvariantViolation:matrix] bad thing: 42"
	if err.Error() != want {
		tst.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func Test_wrap01_unwrap(tst *testing.T) {

	chk.PrintTitle("wrap01_unwrap")

	cause := errors.New("underlying failure")
	err := Wrap(LatticeSolverError, "lattice", cause, "solver failed")
	if !errors.Is(err, cause) {
		tst.Fatal("expected errors.Is to find the wrapped cause via Unwrap")
	}

	te, ok := As(err)
	if !ok || te.Kind != LatticeSolverError {
		tst.Fatalf("expected As to recover the tagged error, got %+v, %v", te, ok)
	}
}
