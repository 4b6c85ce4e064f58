// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cache implements the polymer-matrix artifact cache: a
// content-addressed, strictly hash-keyed reuse of a previously computed
// polymer basis when the monomer matrix is unchanged.
package cache

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/david-soloveichik/TBNExplorer2/polybasis"
	"github.com/david-soloveichik/TBNExplorer2/tbnerr"
)

// Artifact is the on-disk polymer-basis cache record for one matrix hash.
type Artifact struct {
	Hash  string
	Basis *polybasis.Basis
}

// Load reads an artifact from path. Corruption or parse failure triggers a
// CacheStale result (recompute silently) rather than a fatal error.
func Load(path string) (*Artifact, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false // readers tolerate absence
	}
	defer f.Close()

	art, err := decode(f)
	if err != nil {
		chk.Verbose = true
		return nil, false // CacheStale: recompute silently, caller logs
	}
	return art, true
}

// Lookup returns the cached basis iff the stored hash matches wantHash.
func Lookup(path, wantHash string) (*polybasis.Basis, bool) {
	art, ok := Load(path)
	if !ok || art.Hash != wantHash {
		return nil, false
	}
	return art.Basis, true
}

// Store rewrites the artifact at path with the new hash and basis, guarded
// by an advisory file lock for the duration of the write. path must be a
// dedicated binary-cache path, distinct from any human-readable
// .tbnpolymat artifact written alongside it: the two formats are
// incompatible and sharing a path makes every later Load fail and fall
// back to CacheStale.
func Store(path, hash string, basis *polybasis.Basis) error {
	unlock, err := acquireLock(path + ".lock")
	if err != nil {
		return tbnerr.Wrap(tbnerr.CacheStale, "cache", err, "cannot acquire artifact lock for %q", path)
	}
	defer unlock()

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return tbnerr.Wrap(tbnerr.CacheStale, "cache", err, "cannot create artifact %q", tmp)
	}
	if err := encode(f, &Artifact{Hash: hash, Basis: basis}); err != nil {
		f.Close()
		os.Remove(tmp)
		return tbnerr.Wrap(tbnerr.CacheStale, "cache", err, "cannot write artifact %q", tmp)
	}
	if err := f.Close(); err != nil {
		return tbnerr.Wrap(tbnerr.CacheStale, "cache", err, "cannot close artifact %q", tmp)
	}
	return os.Rename(tmp, path)
}

// encode writes a minimal self-describing binary form: hash length+bytes,
// then polymer count, then each polymer's length+values.
func encode(w io.Writer, art *Artifact) error {
	if err := writeString(w, art.Hash); err != nil {
		return err
	}
	n := len(art.Basis.Polymers)
	if err := writeUint64(w, uint64(n)); err != nil {
		return err
	}
	for _, p := range art.Basis.Polymers {
		if err := writeUint64(w, uint64(len(p.X))); err != nil {
			return err
		}
		for _, v := range p.X {
			if err := writeUint64(w, uint64(v)); err != nil {
				return err
			}
		}
	}
	return nil
}

func decode(r io.Reader) (*Artifact, error) {
	hash, err := readString(r)
	if err != nil {
		return nil, err
	}
	n, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	polys := make([]polybasis.Polymer, n)
	for i := range polys {
		d, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		vec := make([]int64, d)
		for j := range vec {
			v, err := readUint64(r)
			if err != nil {
				return nil, err
			}
			vec[j] = int64(v)
		}
		polys[i] = polybasis.Polymer{X: vec}
	}
	return &Artifact{Hash: hash, Basis: &polybasis.Basis{Polymers: polys}}, nil
}

func writeUint64(w io.Writer, v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

func writeString(w io.Writer, s string) error {
	if err := writeUint64(w, uint64(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func readString(r io.Reader) (string, error) {
	n, err := readUint64(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}
