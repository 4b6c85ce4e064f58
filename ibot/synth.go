// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ibot

import (
	"math"

	"github.com/david-soloveichik/TBNExplorer2/equil"
	"github.com/david-soloveichik/TBNExplorer2/polybasis"
)

// SynthesizeMonomerConcentrations implements `--generate-tbn c, units`:
// converts c to Molar c', computes the mole fraction f = c'/rho,
// and gives each monomer i total concentration
//
//	rho * sum_{p: mu(p) assigned} x_p[i] * f^mu(p)
//
// re-expressed in the requested unit. Only assigned polymers (on-target,
// or off-target with a positive exponent) contribute.
func SynthesizeMonomerConcentrations(basis *polybasis.Basis, assign *Assignment, c float64, unit equil.Unit, nMonomers int) ([]float64, error) {
	cMolar, err := equil.ToMolar(c, unit)
	if err != nil {
		return nil, err
	}
	f := cMolar / equil.WaterDensityMolar

	totalsMolar := make([]float64, nMonomers)
	for p, poly := range basis.Polymers {
		if !assign.IsAssigned(p) {
			continue
		}
		mu, _ := assign.Mu(p).Float64()
		weight := math.Pow(f, mu)
		for i, x := range poly.X {
			if x == 0 {
				continue
			}
			totalsMolar[i] += float64(x) * weight
		}
	}
	for i := range totalsMolar {
		totalsMolar[i] *= equil.WaterDensityMolar
	}

	out := make([]float64, nMonomers)
	for i, v := range totalsMolar {
		out[i], err = equil.FromMolar(v, unit)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
