// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package matrix

import (
	"math/big"
	"math/bits"

	"github.com/david-soloveichik/TBNExplorer2/tbnerr"
)

// SumAbs computes 1^T |A| x for polymer vector x, detecting int64 overflow.
// On overflow it finishes the sum with arbitrary precision and returns an
// ArithmeticOverflow error reporting that exact value.
func (mx *Matrix) SumAbs(x []int64) (int64, error) {
	var sum int64
	var big64 *big.Int
	for i := 0; i < mx.Rows(); i++ {
		for j := 0; j < mx.Cols; j++ {
			a := mx.At(i, j)
			if a == 0 || x[j] == 0 {
				continue
			}
			term, overflow := mulAbsOverflow(a, x[j])
			if overflow {
				big64 = toBig(sum, big64)
				big64.Add(big64, big.NewInt(0).Mul(absInt64(a), absInt64(x[j])))
				continue
			}
			if big64 != nil {
				big64.Add(big64, big.NewInt(term))
				continue
			}
			next, ok := addOverflow(sum, term)
			if !ok {
				big64 = toBig(sum, big64)
				big64.Add(big64, big.NewInt(term))
				continue
			}
			sum = next
		}
	}
	if big64 != nil {
		return 0, tbnerr.New(tbnerr.ArithmeticOverflow, "matrix",
			"SumAbs exceeds int64 range; exact value is %v", big64.String())
	}
	return sum, nil
}

// SumSigned computes 1^T A x for polymer vector x. If a product or the
// running sum leaves int64 range it returns an ArithmeticOverflow error;
// unlike SumAbs, the error carries no exact value.
func (mx *Matrix) SumSigned(x []int64) (int64, error) {
	var sum int64
	var overflowed bool
	for i := 0; i < mx.Rows(); i++ {
		for j := 0; j < mx.Cols; j++ {
			a := mx.At(i, j)
			if a == 0 || x[j] == 0 {
				continue
			}
			term, mulOverflow := mulOverflow(a, x[j])
			if mulOverflow {
				overflowed = true
				continue
			}
			next, ok := addOverflow(sum, term)
			if !ok {
				overflowed = true
				continue
			}
			sum = next
		}
	}
	if overflowed {
		return 0, tbnerr.New(tbnerr.ArithmeticOverflow, "matrix", "SumSigned exceeds int64 range")
	}
	return sum, nil
}

func absInt64(x int64) *big.Int {
	if x < 0 {
		return big.NewInt(-x)
	}
	return big.NewInt(x)
}

func toBig(current int64, acc *big.Int) *big.Int {
	if acc != nil {
		return acc
	}
	return big.NewInt(current)
}

func mulOverflow(a, b int64) (int64, bool) {
	hi, lo := bits.Mul64(uint64(absI(a)), uint64(absI(b)))
	if hi != 0 {
		return 0, true
	}
	if lo > 1<<62 {
		return 0, true
	}
	r := int64(lo)
	if (a < 0) != (b < 0) {
		r = -r
	}
	return r, false
}

func mulAbsOverflow(a, b int64) (int64, bool) {
	hi, lo := bits.Mul64(uint64(absI(a)), uint64(absI(b)))
	if hi != 0 || lo > 1<<62 {
		return 0, true
	}
	return int64(lo), false
}

func absI(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

func addOverflow(a, b int64) (int64, bool) {
	r := a + b
	if (a > 0 && b > 0 && r < 0) || (a < 0 && b < 0 && r > 0) {
		return 0, false
	}
	return r, true
}
