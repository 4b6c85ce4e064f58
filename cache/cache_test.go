// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/david-soloveichik/TBNExplorer2/polybasis"
)

func Test_storeLoad01_roundtrip(tst *testing.T) {

	chk.PrintTitle("storeLoad01_roundtrip")

	dir := tst.TempDir()
	path := filepath.Join(dir, "basis.cache")

	basis := &polybasis.Basis{Polymers: []polybasis.Polymer{
		{X: []int64{1, 0}},
		{X: []int64{2, 3}},
	}}
	if err := Store(path, "deadbeef", basis); err != nil {
		tst.Fatal(err)
	}

	got, ok := Lookup(path, "deadbeef")
	if !ok {
		tst.Fatal("expected a cache hit for the matching hash")
	}
	if len(got.Polymers) != 2 {
		tst.Fatalf("expected 2 polymers, got %d", len(got.Polymers))
	}
	if got.Polymers[1].X[1] != 3 {
		tst.Fatalf("expected round-tripped value 3, got %d", got.Polymers[1].X[1])
	}

	if _, ok := Lookup(path, "wronghash"); ok {
		tst.Fatal("expected a cache miss when the hash does not match")
	}
}

func Test_load01_missing(tst *testing.T) {

	chk.PrintTitle("load01_missing")

	if _, ok := Load(filepath.Join(tst.TempDir(), "nope.cache")); ok {
		tst.Fatal("expected Load to report absence for a nonexistent path, not an error")
	}
}

func Test_load02_corrupted(tst *testing.T) {

	chk.PrintTitle("load02_corrupted")

	dir := tst.TempDir()
	path := filepath.Join(dir, "basis.cache")
	if err := os.WriteFile(path, []byte{0x01, 0x02, 0x03}, 0644); err != nil {
		tst.Fatal(err)
	}
	if _, ok := Load(path); ok {
		tst.Fatal("expected Load to treat truncated content as stale rather than panicking")
	}
}
