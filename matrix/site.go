// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package matrix implements the monomer/matrix model: signed binding-site
// count vectors, the monomer matrix A, the star-limiting invariant, and
// the canonical column-permutation-invariant hash used by the artifact cache.
package matrix

import "strings"

// reservedChars forbidden in a binding-site or monomer name.
const reservedChars = ",>*|:\\"

// BindingSite is one occurrence of a named token, tagged star or unstar.
// "a" and "a*" are the complementary pair sharing the base name "a".
type BindingSite struct {
	Base string // base name, e.g. "a"
	Star bool   // true for "a*", false for "a"
}

// String renders the site the way it appears in a .tbn file.
func (s BindingSite) String() string {
	if s.Star {
		return s.Base + "*"
	}
	return s.Base
}

// ValidName reports whether name contains no reserved characters and is non-empty.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	if strings.ContainsAny(name, reservedChars) {
		return false
	}
	return strings.IndexFunc(name, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	}) < 0
}

// ParseSite splits a raw token like "a*" into its base name and star flag.
func ParseSite(tok string) (BindingSite, bool) {
	if tok == "" {
		return BindingSite{}, false
	}
	star := strings.HasSuffix(tok, "*")
	base := tok
	if star {
		base = tok[:len(tok)-1]
	}
	if !ValidName(base) {
		return BindingSite{}, false
	}
	return BindingSite{Base: base, Star: star}, true
}
