// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package matrix

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"github.com/david-soloveichik/TBNExplorer2/tbnerr"
)

// Matrix is the monomer matrix A: an m x n integer matrix whose columns
// are monomer vectors in input order, stored row-major as a flat buffer
// (the same "one contiguous allocation" discipline gofem's la.MatAlloc uses
// for float64 matrices, here specialized to int64).
type Matrix struct {
	BaseNames []string  // row labels, in first-seen order; row i is site BaseNames[i]
	Names     []string  // column labels (monomer names, "" if unnamed)
	Cols      int       // n
	Data      []int64   // row-major, len == len(BaseNames)*Cols
	HasConc   bool      // true if concentration units were declared
	Conc      []float64 // length Cols when HasConc
}

// Rows returns m, the number of distinct binding-site base names.
func (mx *Matrix) Rows() int { return len(mx.BaseNames) }

// At returns A[i][j].
func (mx *Matrix) At(i, j int) int64 { return mx.Data[i*mx.Cols+j] }

func (mx *Matrix) set(i, j int, v int64) { mx.Data[i*mx.Cols+j] = v }

// setColumn writes v as column j's entries. Used only during construction.
func (mx *Matrix) setColumn(j int, v []int64) {
	for i, x := range v {
		mx.set(i, j, x)
	}
}

// Column returns monomer j's signed count vector.
func (mx *Matrix) Column(j int) []int64 {
	v := make([]int64, mx.Rows())
	for i := range v {
		v[i] = mx.At(i, j)
	}
	return v
}

// CheckStarLimiting returns nil iff min(A . c) >= 0 componentwise, where c is
// the monomer-concentration vector (or the all-ones vector when absent).
// On failure it returns an *tbnerr.Error naming the offending row.
func (mx *Matrix) CheckStarLimiting(c []float64) error {
	if c == nil {
		c = make([]float64, mx.Cols)
		for j := range c {
			c[j] = 1
		}
	}
	for i := 0; i < mx.Rows(); i++ {
		var sum float64
		for j := 0; j < mx.Cols; j++ {
			sum += float64(mx.At(i, j)) * c[j]
		}
		if sum < 0 {
			return tbnerr.New(tbnerr.InvariantViolation, "matrix",
				"star-limiting violated at binding site %q (row %d): A.c = %v < 0",
				mx.BaseNames[i], i, sum)
		}
	}
	return nil
}

// CanonicalHash computes a hash over the content-sorted column multiset plus
// the ordered binding-site name list. It is invariant under column
// permutation and sensitive to any change in the column multiset or the
// binding-site ordering, as required by the artifact cache.
func (mx *Matrix) CanonicalHash() string {
	h := sha256.New()

	// binding-site ordering matters and is hashed first, in order.
	for _, name := range mx.BaseNames {
		h.Write([]byte(name))
		h.Write([]byte{0})
	}

	// columns are order-independent: serialize each, sort the byte strings,
	// then hash them in sorted order.
	cols := make([][]byte, mx.Cols)
	for j := 0; j < mx.Cols; j++ {
		b := make([]byte, 8*mx.Rows())
		for i := 0; i < mx.Rows(); i++ {
			binary.BigEndian.PutUint64(b[8*i:], uint64(mx.At(i, j)))
		}
		cols[j] = b
	}
	sort.Slice(cols, func(a, b int) bool {
		return string(cols[a]) < string(cols[b])
	})
	for _, b := range cols {
		h.Write(b)
	}
	return hexEncode(h.Sum(nil))
}

func hexEncode(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, 2*len(b))
	for i, v := range b {
		out[2*i] = digits[v>>4]
		out[2*i+1] = digits[v&0xf]
	}
	return string(out)
}
