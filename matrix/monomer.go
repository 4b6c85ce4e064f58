// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package matrix

import "github.com/david-soloveichik/TBNExplorer2/tbnerr"

// MonomerRecord is the parsed form of one monomer line from a .tbn file,
// before it is reduced to a signed count vector.
type MonomerRecord struct {
	Name  string        // optional; "" if unnamed
	Sites []BindingSite // ordered occurrence list, in file order
	Conc  *float64      // nil if concentration units are not declared
}

// Vector reduces the monomer's raw site occurrence list to the signed count
// vector over baseNames: v[i] = (#unstar occurrences of site i) - (#star occurrences).
func (r MonomerRecord) Vector(index map[string]int, dim int) []int64 {
	v := make([]int64, dim)
	for _, s := range r.Sites {
		i, ok := index[s.Base]
		if !ok {
			continue // caller is expected to have pre-registered every base name
		}
		if s.Star {
			v[i]--
		} else {
			v[i]++
		}
	}
	return v
}

// BaseNames returns the distinct binding-site base names referenced across records,
// in first-seen order (this becomes the row ordering of the monomer matrix).
func BaseNames(records []MonomerRecord) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range records {
		for _, s := range r.Sites {
			if !seen[s.Base] {
				seen[s.Base] = true
				names = append(names, s.Base)
			}
		}
	}
	return names
}

// group is an internal accumulator used by Build while merging duplicate monomers.
type group struct {
	vector    []int64
	name      string
	conc      *float64
	col       int // stable column index, assigned in first-seen order
	hasConc   bool
}

// Build assigns a stable column index to each distinct monomer vector,
// collapsing duplicates when unitsDeclared is true (summing concentrations),
// and returns the resulting matrix together with the binding-site name order.
//
// Errors (all *tbnerr.Error with Kind InvariantViolation):
//   - duplicate vectors with conflicting non-empty names;
//   - one duplicate group carries concentrations while another does not;
//   - a summed concentration is negative;
//   - a token is used both as a monomer name and as a binding-site base name.
func Build(records []MonomerRecord, unitsDeclared bool) (*Matrix, error) {
	baseNames := BaseNames(records)
	index := make(map[string]int, len(baseNames))
	for i, n := range baseNames {
		index[n] = i
	}

	// a token must not serve double duty as both a monomer name and a site base name.
	for _, r := range records {
		if r.Name == "" {
			continue
		}
		if _, clash := index[r.Name]; clash {
			return nil, tbnerr.New(tbnerr.InvariantViolation, "matrix",
				"%q is used both as a monomer name and as a binding-site name", r.Name)
		}
	}

	key := func(v []int64) string {
		// byte-stable key independent of map iteration order.
		b := make([]byte, 0, 8*len(v))
		for _, x := range v {
			b = appendVarint(b, x)
		}
		return string(b)
	}

	groups := make(map[string]*group)
	var order []string
	seenConc := make(map[string]bool) // per group, whether any record had a concentration
	vecNames := make(map[string]string) // vector key -> first non-empty name, with or without units
	for recIdx, r := range records {
		v := r.Vector(index, len(baseNames))
		k := key(v)
		if r.Name != "" {
			if prev, ok := vecNames[k]; ok && prev != r.Name {
				return nil, tbnerr.New(tbnerr.InvariantViolation, "matrix",
					"monomer %q and %q have identical vectors but conflicting names", prev, r.Name)
			}
			vecNames[k] = r.Name
		}
		if !unitsDeclared {
			// without declared units, duplicates are kept distinct: each
			// record is its own column, disambiguated by its position.
			k = k + "#" + string(rune(recIdx))
		}
		g, exists := groups[k]
		if !exists {
			g = &group{vector: v, col: len(order)}
			groups[k] = g
			order = append(order, k)
		}
		if r.Name != "" {
			if g.name != "" && g.name != r.Name {
				return nil, tbnerr.New(tbnerr.InvariantViolation, "matrix",
					"monomer %q and %q have identical vectors but conflicting names", g.name, r.Name)
			}
			g.name = r.Name
		}
		if r.Conc != nil {
			if g.hasConc {
				sum := *g.conc + *r.Conc
				g.conc = &sum
			} else {
				c := *r.Conc
				g.conc = &c
				g.hasConc = true
			}
			seenConc[k] = true
		} else if seenConc[k] {
			return nil, tbnerr.New(tbnerr.InvariantViolation, "matrix",
				"monomer group for %q mixes concentrations and bare declarations", g.name)
		}
	}

	nConcGroups := 0
	for _, k := range order {
		if groups[k].hasConc {
			nConcGroups++
		}
	}
	if nConcGroups != 0 && nConcGroups != len(order) {
		return nil, tbnerr.New(tbnerr.InvariantViolation, "matrix",
			"some monomers carry concentrations and others do not")
	}

	n := len(order)
	m := &Matrix{BaseNames: baseNames, Cols: n}
	m.Data = make([]int64, len(baseNames)*n)
	m.Names = make([]string, n)
	m.HasConc = unitsDeclared
	if unitsDeclared {
		m.Conc = make([]float64, n)
	}
	for _, k := range order {
		g := groups[k]
		if g.hasConc && *g.conc < 0 {
			return nil, tbnerr.New(tbnerr.InvariantViolation, "matrix",
				"summed concentration for monomer %q is negative (%v)", g.name, *g.conc)
		}
		m.setColumn(g.col, g.vector)
		m.Names[g.col] = g.name
		if unitsDeclared && g.hasConc {
			m.Conc[g.col] = *g.conc
		}
	}
	return m, nil
}

func appendVarint(b []byte, x int64) []byte {
	u := uint64(x)
	for {
		c := byte(u & 0x7f)
		u >>= 7
		if u != 0 {
			b = append(b, c|0x80)
		} else {
			b = append(b, c)
			break
		}
	}
	return b
}
