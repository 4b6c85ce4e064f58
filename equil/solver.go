// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equil

import (
	"context"

	"github.com/david-soloveichik/TBNExplorer2/freeenergy"
	"github.com/david-soloveichik/TBNExplorer2/polybasis"
	"github.com/david-soloveichik/TBNExplorer2/tbnerr"
)

// Solver abstracts over the external equilibrium-concentration tool.
// Implementations return concentrations in Molar, keyed by polymer index
// in the same row order as the input; the caller (Run) performs the
// unit conversions on either side.
type Solver interface {
	Name() string
	Solve(ctx context.Context, polys []polybasis.Polymer, energies []freeenergy.Result, monomerConcMolar []float64, tempC float64) ([]float64, error)
}

// NewSolver resolves the configured equilibrium backend by name
// ("multistrand" or "pils"), consulting the corresponding environment
// variable when binPath is empty.
func NewSolver(name, binPath string) (Solver, error) {
	switch name {
	case "", "multistrand":
		path := binPath
		if path == "" {
			path = resolveEnv("TBN_EQUIL_PATH")
		}
		if path == "" {
			return nil, tbnerr.New(tbnerr.MissingSolver, "equil",
				"equilibrium solver binary not found: set TBN_EQUIL_PATH")
		}
		return &multistrandBackend{binPath: path}, nil
	case "pils":
		path := binPath
		if path == "" {
			path = resolveEnv("TBN_PILS_PATH")
		}
		if path == "" {
			return nil, tbnerr.New(tbnerr.MissingSolver, "equil",
				"alternate equilibrium solver binary not found: set TBN_PILS_PATH")
		}
		return &pilsBackend{binPath: path}, nil
	default:
		return nil, tbnerr.New(tbnerr.MissingSolver, "equil", "unknown equilibrium backend %q", name)
	}
}

// Run converts declared-unit monomer concentrations to Molar, invokes the
// solver at tempC (default handled by the caller), and converts the
// resulting polymer concentrations back to declared units.
func Run(ctx context.Context, solver Solver, polys []polybasis.Polymer, energies []freeenergy.Result,
	monomerConc []float64, unit Unit, tempC float64) ([]float64, error) {

	molarConc := make([]float64, len(monomerConc))
	for i, c := range monomerConc {
		m, err := ToMolar(c, unit)
		if err != nil {
			return nil, err
		}
		molarConc[i] = m
	}

	resultMolar, err := solver.Solve(ctx, polys, energies, molarConc, tempC)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(resultMolar))
	for i, m := range resultMolar {
		v, err := FromMolar(m, unit)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func resolveEnv(key string) string {
	return envLookup(key)
}
