// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command tbnexplorer2 is the primary driver: it parses a .tbn file,
// builds the monomer matrix, consults the artifact cache, computes the
// polymer basis (invoking the lattice oracle on a cache miss), and
// optionally evaluates free energies and equilibrium concentrations.
package main

import (
	"context"
	"os"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/david-soloveichik/TBNExplorer2/cache"
	"github.com/david-soloveichik/TBNExplorer2/equil"
	"github.com/david-soloveichik/TBNExplorer2/freeenergy"
	"github.com/david-soloveichik/TBNExplorer2/inp"
	"github.com/david-soloveichik/TBNExplorer2/lattice"
	"github.com/david-soloveichik/TBNExplorer2/matrix"
	"github.com/david-soloveichik/TBNExplorer2/polybasis"
	"github.com/david-soloveichik/TBNExplorer2/tbnerr"
)

func main() {
	exitCode := 0
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			io.PfRed("ERROR: %v\n", err)
			if te, ok := tbnerr.As(asError(err)); ok {
				exitCode = te.Kind.ExitCode()
			} else {
				exitCode = 1
			}
		}
		os.Exit(exitCode)
	}()

	fnamepath, _ := io.ArgToFilename(0, "", ".tbn", true)
	disableConc := io.ArgToBool(1, false)
	disableFreeEnergy := io.ArgToBool(2, false)
	friendlyBasis := io.ArgToBool(3, false)
	altSolver := io.ArgToBool(4, false)
	verbose := io.ArgToBool(5, true)
	debugPreserve := io.ArgToBool(6, false)

	if verbose {
		io.PfWhite("\nTBNExplorer2 -- Thermodynamic Binding Network analysis\n\n")
		io.Pf("%v\n", io.ArgsTable(
			"input file", "fnamepath", fnamepath,
			"disable concentrations", "disableConc", disableConc,
			"disable free energies", "disableFreeEnergy", disableFreeEnergy,
			"user-friendly basis", "friendlyBasis", friendlyBasis,
			"alternate lattice backend", "altSolver", altSolver,
			"debug preservation", "debugPreserve", debugPreserve,
		))
	}

	text, err := readFile(fnamepath)
	if err != nil {
		chk.Panic("cannot read %q:\n%v", fnamepath, err)
	}

	vars := inp.ParseVarArgs(trailingArgs(8))
	tbn, err := inp.ParseTBN(text, vars)
	if err != nil {
		chk.Panic("%v", err)
	}

	unitsDeclared := tbn.Units != ""
	a, err := matrix.Build(tbn.Records, unitsDeclared)
	if err != nil {
		chk.Panic("%v", err)
	}

	var concVec []float64
	if unitsDeclared && !disableConc {
		concVec = a.Conc
	}
	if err := a.CheckStarLimiting(concVec); err != nil {
		chk.Panic("%v", err)
	}

	hash := a.CanonicalHash()
	key := io.FnKey(fnamepath)
	artifactPath := key + ".tbnpolymat"
	cachePath := key + ".tbnpolymat.cache"

	var basis *polybasis.Basis
	if cached, ok := cache.Lookup(cachePath, hash); ok {
		basis = cached
		if verbose {
			io.PfGreen("artifact cache hit: reusing polymer basis for %s\n", hash)
		}
	} else {
		backendName := "normaliz"
		if altSolver {
			backendName = "4ti2"
		}
		backend, err := lattice.NewBackend(backendName, "")
		if err != nil {
			chk.Panic("%v", err)
		}
		debugOpts := lattice.Options{BaseName: key, Purpose: "polybasis"}
		if debugPreserve {
			debugOpts.DebugDir = "solver-inputs"
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		basis, err = polybasis.Build(ctx, a, polybasis.Options{Backend: backend, Debug: debugOpts})
		if err != nil {
			chk.Panic("%v", err)
		}
		if err := cache.Store(cachePath, hash, basis); err != nil {
			io.PfYel("warning: %v\n", err)
		}
	}

	var energies []freeenergy.Result
	if !disableFreeEnergy {
		polys := basis.Polymers
		energies, err = freeenergy.EvaluateAll(a, polys, freeenergy.PenaltyParams{})
		if err != nil {
			chk.Panic("%v", err)
		}
	}

	var concs []float64
	haveConcs := unitsDeclared && !disableConc && len(concVec) > 0
	if haveConcs {
		solver, err := equil.NewSolver("", "")
		if err != nil {
			io.PfYel("warning: equilibrium solver unavailable, skipping concentrations: %v\n", err)
			haveConcs = false
		} else {
			if energies == nil {
				energies, err = freeenergy.EvaluateAll(a, basis.Polymers, freeenergy.PenaltyParams{})
				if err != nil {
					chk.Panic("%v", err)
				}
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			concs, err = equil.Run(ctx, solver, basis.Polymers, energies, concVec, equil.Unit(tbn.Units), 37.0)
			cancel()
			if err != nil {
				chk.Panic("%v", err)
			}
		}
	}

	pm := &inp.PolyMat{MatrixHash: hash, Units: tbn.Units, NumCols: a.Cols, HasEnergy: !disableFreeEnergy, HasConc: haveConcs}
	for i, p := range basis.Polymers {
		pm.Rows = append(pm.Rows, p.X)
		if !disableFreeEnergy {
			pm.Energies = append(pm.Energies, energies[i].DeltaG)
		}
		if haveConcs {
			pm.Concs = append(pm.Concs, concs[i])
		}
	}
	writeText(artifactPath, inp.EmitTBNPolymat(pm))

	if friendlyBasis {
		var polys [][]int64
		for _, p := range basis.Polymers {
			polys = append(polys, p.X)
		}
		friendly := inp.EmitTBNPolys(a, polys, nil)
		writeText(key+".friendly.tbnpolys", friendly)
	}

	if verbose {
		io.PfGreen("\ndone: %d polymers in basis\n", len(basis.Polymers))
	}
}

func asError(v interface{}) error {
	if e, ok := v.(error); ok {
		return e
	}
	return nil
}

// trailingArgs returns the os.Args tail starting at position n (1-indexed
// against the fixed positional flags this driver consumes), i.e. the
// "name=value" tokens naming {{expr}} variables for ParseVarArgs.
func trailingArgs(n int) []string {
	if len(os.Args) <= n {
		return nil
	}
	return os.Args[n:]
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func writeText(path, content string) {
	os.WriteFile(path, []byte(content), 0644)
}
