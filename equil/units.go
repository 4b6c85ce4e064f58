// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package equil bridges monomer/polymer concentrations to the external
// equilibrium solver: unit conversion, staging input files, and parsing
// the solver's output back into the declared units.
package equil

import (
	"math/big"

	"github.com/david-soloveichik/TBNExplorer2/tbnerr"
)

// Unit is one of the declared concentration units.
type Unit string

const (
	NanoMolar  Unit = "nM"
	PicoMolar  Unit = "pM"
	MicroMolar Unit = "uM"
	MilliMolar Unit = "mM"
	Molar      Unit = "M"
)

// factor returns the exact rational multiplier to convert a value in Unit
// to Molar: Molar = value * factor.
func (u Unit) factor() (*big.Rat, error) {
	switch u {
	case Molar:
		return big.NewRat(1, 1), nil
	case MilliMolar:
		return big.NewRat(1, 1000), nil
	case MicroMolar:
		return big.NewRat(1, 1000000), nil
	case NanoMolar:
		return big.NewRat(1, 1000000000), nil
	case PicoMolar:
		return big.NewRat(1, 1000000000000), nil
	default:
		return nil, tbnerr.New(tbnerr.ParseError, "equil", "unknown concentration unit %q", u)
	}
}

// ToMolar converts a value expressed in u to Molar.
func ToMolar(v float64, u Unit) (float64, error) {
	f, err := u.factor()
	if err != nil {
		return 0, err
	}
	r := new(big.Rat).Mul(big.NewRat(0, 1).SetFloat64(v), f)
	out, _ := r.Float64()
	return out, nil
}

// FromMolar converts a value in Molar back to u.
func FromMolar(v float64, u Unit) (float64, error) {
	f, err := u.factor()
	if err != nil {
		return 0, err
	}
	inv := new(big.Rat).Inv(f)
	r := new(big.Rat).Mul(big.NewRat(0, 1).SetFloat64(v), inv)
	out, _ := r.Float64()
	return out, nil
}

// WaterDensityMolar is ρ_H2O = 55.14 M, the reference density used in
// mole-fraction conversion.
const WaterDensityMolar = 55.14
