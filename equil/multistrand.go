// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equil

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/io"
	"github.com/david-soloveichik/TBNExplorer2/freeenergy"
	"github.com/david-soloveichik/TBNExplorer2/polybasis"
	"github.com/david-soloveichik/TBNExplorer2/tbnerr"
)

// multistrandBackend writes a polymer matrix (one row per polymer,
// free-energy column appended) and a separate monomer-concentration file,
// matching the primary equilibrium solver's expected two-file layout.
type multistrandBackend struct {
	binPath string
}

func (b *multistrandBackend) Name() string { return "multistrand" }

func (b *multistrandBackend) Solve(ctx context.Context, polys []polybasis.Polymer, energies []freeenergy.Result,
	monomerConcMolar []float64, tempC float64) ([]float64, error) {

	dir, err := os.MkdirTemp("", "tbnexplorer2-equil-")
	if err != nil {
		return nil, tbnerr.Wrap(tbnerr.LatticeSolverError, "equil", err, "cannot create temp dir")
	}
	defer os.RemoveAll(dir)

	matPath := dir + "/polymat.txt"
	concPath := dir + "/monconc.txt"

	var mat bytes.Buffer
	for i, p := range polys {
		for _, v := range p.X {
			fmt.Fprintf(&mat, "%d ", v)
		}
		fmt.Fprintf(&mat, "%.10g\n", energies[i].DeltaG)
	}
	io.WriteFile(matPath, &mat)

	var conc bytes.Buffer
	for _, c := range monomerConcMolar {
		fmt.Fprintf(&conc, "%.10e\n", c)
	}
	io.WriteFile(concPath, &conc)

	cmd := exec.CommandContext(ctx, b.binPath, "-T", strconv.FormatFloat(tempC, 'f', -1, 64), matPath, concPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, tbnerr.Wrap(tbnerr.LatticeSolverTimeout, "equil", ctx.Err(), "equilibrium solver deadline exceeded")
		}
		return nil, tbnerr.New(tbnerr.LatticeSolverError, "equil",
			"equilibrium solver exited with error: %v; stderr: %s", err, stderr.String())
	}

	return parseConcentrationList(&stdout, len(polys))
}

// parseConcentrationList parses a whitespace-separated list of
// concentrations, accepting decimal or scientific notation including
// "0.00e0".
func parseConcentrationList(r *bytes.Buffer, n int) ([]float64, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	out := make([]float64, 0, n)
	for sc.Scan() {
		tok := strings.TrimSpace(sc.Text())
		if tok == "" {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, tbnerr.Wrap(tbnerr.LatticeSolverError, "equil", err, "malformed concentration token %q", tok)
		}
		out = append(out, v)
	}
	if err := sc.Err(); err != nil {
		return nil, tbnerr.Wrap(tbnerr.LatticeSolverError, "equil", err, "cannot read equilibrium solver output")
	}
	if len(out) != n {
		return nil, tbnerr.New(tbnerr.LatticeSolverError, "equil",
			"equilibrium solver returned %d concentrations, expected %d", len(out), n)
	}
	return out, nil
}
