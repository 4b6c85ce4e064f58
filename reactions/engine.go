// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reactions

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/david-soloveichik/TBNExplorer2/lattice"
	"github.com/david-soloveichik/TBNExplorer2/matrix"
	"github.com/david-soloveichik/TBNExplorer2/polybasis"
	"github.com/david-soloveichik/TBNExplorer2/tbnerr"
)

// Target classifies each polymer-basis index as on-target or off-target.
type Target struct {
	OnTarget []bool // length == len(basis.Polymers)
}

// NewTarget builds a Target from a list of on-target polymer vectors,
// matching each against the basis by exact vector equality. A mismatched
// input row (no equal basis element) is a hard error.
func NewTarget(basis *polybasis.Basis, onTargetVectors [][]int64) (*Target, error) {
	t := &Target{OnTarget: make([]bool, len(basis.Polymers))}
	for _, v := range onTargetVectors {
		found := -1
		for i, p := range basis.Polymers {
			if vecEqual(p.X, v) {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, tbnerr.New(tbnerr.InvariantViolation, "reactions",
				"on-target polymer %v does not match any polymer-basis element", v)
		}
		t.OnTarget[found] = true
	}
	return t, nil
}

func vecEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// buildB builds B[i][p] = x_p[i], the monomer-count matrix over the
// polymer basis.
func buildB(a *matrix.Matrix, basis *polybasis.Basis) [][]int64 {
	n := a.Cols
	p := len(basis.Polymers)
	b := make([][]int64, n)
	for i := 0; i < n; i++ {
		b[i] = make([]int64, p)
		for j, poly := range basis.Polymers {
			b[i][j] = poly.X[i]
		}
	}
	return b
}

// Options configures one canonical-reactions computation.
type Options struct {
	Backend lattice.Backend
	Debug   lattice.Options
}

// Enumerate poses the cone { r in Z^p : B r = 0, S r >= 0 } (S projecting
// onto off-target coordinates) and returns its Hilbert basis as canonical
// reactions, after running the detailed-balance pre-check.
func Enumerate(ctx context.Context, a *matrix.Matrix, basis *polybasis.Basis, target *Target, opts Options) ([]Reaction, error) {
	p := len(basis.Polymers)
	b := buildB(a, basis)

	eqs := make([][]int64, len(b))
	copy(eqs, b)

	var ineq [][]int64
	for j := 0; j < p; j++ {
		if target.OnTarget[j] {
			continue
		}
		row := make([]int64, p)
		row[j] = 1
		ineq = append(ineq, row)
	}

	prob := lattice.Problem{Dim: p, Eq: eqs, Ineq: ineq, SliceVar: -1}
	results, errs := opts.Backend.HilbertBasis(ctx, prob, opts.Debug)

	var reactions []Reaction
	for r := range results {
		reactions = append(reactions, Reaction{R: r.Vector})
	}
	if err := <-errs; err != nil {
		return nil, err
	}

	sort.Slice(reactions, func(i, j int) bool { return reactionLess(reactions[i], reactions[j]) })

	if err := checkDetailedBalance(reactions, target, basis); err != nil {
		return nil, err
	}
	return reactions, nil
}

func reactionLess(a, b Reaction) bool {
	for i := range a.R {
		if a.R[i] != b.R[i] {
			return a.R[i] < b.R[i]
		}
	}
	return false
}

// checkDetailedBalance verifies every irreducible canonical reaction whose
// support is entirely on-target satisfies 1^T r = 0.
func checkDetailedBalance(reactions []Reaction, target *Target, basis *polybasis.Basis) error {
	for _, r := range reactions {
		allOnTarget := true
		for i, v := range r.R {
			if v != 0 && !target.OnTarget[i] {
				allOnTarget = false
				break
			}
		}
		if !allOnTarget {
			continue
		}
		if r.TotalReactants() != r.TotalProducts() {
			rendered := r.Render(basis, func(p polybasis.Polymer) string { return vecLabel(p) })
			return errOnTargetImbalance(rendered)
		}
	}
	return nil
}

func vecLabel(p polybasis.Polymer) string {
	s := "("
	for i, v := range p.X {
		if i > 0 {
			s += ","
		}
		s += itoa(v)
	}
	return s + ")"
}

// EnumerateBounded implements bounded-target mode: for each
// undesired off-target polymer p_i, solves the strict-slice problem
// B r = 0, S r >= 0, r_{p_i} >= 1 via variable splitting (on-target
// coordinates split into free-sign positive/negative parts; off-target
// coordinates remain non-negative, implicitly enforcing S r >= 0), and
// unions the results. Per-target solves run concurrently; the union
// itself is a genuine barrier since on-target-only balance is only
// meaningful once every T_i has been collected.
func EnumerateBounded(ctx context.Context, a *matrix.Matrix, basis *polybasis.Basis, target *Target, undesired []int, opts Options) ([]Reaction, error) {
	p := len(basis.Polymers)
	b := buildB(a, basis)

	// variable splitting: on-target coordinate j becomes columns (j+, j-);
	// off-target coordinates are left as-is (already non-negative).
	var colOnTarget []int
	for j := 0; j < p; j++ {
		if target.OnTarget[j] {
			colOnTarget = append(colOnTarget, j)
		}
	}
	splitIndex := make(map[int][2]int) // on-target polymer index -> (plus col, minus col)
	dim := 0
	remap := make([]int, p) // off-target polymer index -> its single column
	for j := 0; j < p; j++ {
		if target.OnTarget[j] {
			continue
		}
		remap[j] = dim
		dim++
	}
	for _, j := range colOnTarget {
		plus := dim
		dim++
		minus := dim
		dim++
		splitIndex[j] = [2]int{plus, minus}
	}

	eqs := make([][]int64, len(b))
	for i, row := range b {
		newRow := make([]int64, dim)
		for j, v := range row {
			if target.OnTarget[j] {
				sp := splitIndex[j]
				newRow[sp[0]] += v
				newRow[sp[1]] -= v
			} else {
				newRow[remap[j]] = v
			}
		}
		eqs[i] = newRow
	}

	toColumn := func(polyIdx int) int {
		if target.OnTarget[polyIdx] {
			return splitIndex[polyIdx][0] // the r >= 1 slice pins the positive part
		}
		return remap[polyIdx]
	}

	out := make([][]Reaction, len(undesired))
	g, gctx := errgroup.WithContext(ctx)
	for k, polyIdx := range undesired {
		k, polyIdx := k, polyIdx
		g.Go(func() error {
			sliceVar := toColumn(polyIdx)
			prob := lattice.Problem{Dim: dim, Eq: eqs, SliceVar: sliceVar}
			results, errs := opts.Backend.StrictSliceBasis(gctx, prob, opts.Debug)
			var rs []Reaction
			for r := range results {
				rs = append(rs, unsplit(r.Vector, p, target, remap, splitIndex))
			}
			if err := <-errs; err != nil {
				return err
			}
			out[k] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var union []Reaction
	for _, rs := range out {
		for _, r := range rs {
			key := vectorKey(r.R)
			if seen[key] {
				continue
			}
			seen[key] = true
			union = append(union, r)
		}
	}
	sort.Slice(union, func(i, j int) bool { return reactionLess(union[i], union[j]) })

	if err := checkDetailedBalance(union, target, basis); err != nil {
		return nil, err
	}
	return union, nil
}

func unsplit(v []int64, p int, target *Target, remap []int, splitIndex map[int][2]int) Reaction {
	r := make([]int64, p)
	for j := 0; j < p; j++ {
		if target.OnTarget[j] {
			sp := splitIndex[j]
			r[j] = v[sp[0]] - v[sp[1]]
		} else {
			r[j] = v[remap[j]]
		}
	}
	return Reaction{R: r}
}

func vectorKey(v []int64) string {
	b := make([]byte, 8*len(v))
	for i, x := range v {
		b[8*i] = byte(x >> 56)
		b[8*i+1] = byte(x >> 48)
		b[8*i+2] = byte(x >> 40)
		b[8*i+3] = byte(x >> 32)
		b[8*i+4] = byte(x >> 24)
		b[8*i+5] = byte(x >> 16)
		b[8*i+6] = byte(x >> 8)
		b[8*i+7] = byte(x)
	}
	return string(b)
}
