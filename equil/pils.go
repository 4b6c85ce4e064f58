// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/cpmech/gosl/io"
	"github.com/david-soloveichik/TBNExplorer2/freeenergy"
	"github.com/david-soloveichik/TBNExplorer2/polybasis"
	"github.com/david-soloveichik/TBNExplorer2/tbnerr"
)

// pilsBackend writes a single row-augmented file (monomer concentrations
// prepended as a header row, followed by the polymer/free-energy matrix),
// the alternate equilibrium solver's expected layout.
type pilsBackend struct {
	binPath string
}

func (b *pilsBackend) Name() string { return "pils" }

func (b *pilsBackend) Solve(ctx context.Context, polys []polybasis.Polymer, energies []freeenergy.Result,
	monomerConcMolar []float64, tempC float64) ([]float64, error) {

	dir, err := os.MkdirTemp("", "tbnexplorer2-pils-")
	if err != nil {
		return nil, tbnerr.Wrap(tbnerr.LatticeSolverError, "equil", err, "cannot create temp dir")
	}
	defer os.RemoveAll(dir)

	combined := dir + "/input.txt"
	var buf bytes.Buffer
	for i, c := range monomerConcMolar {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "%.10e", c)
	}
	buf.WriteByte('\n')
	for i, p := range polys {
		for _, v := range p.X {
			fmt.Fprintf(&buf, "%d ", v)
		}
		fmt.Fprintf(&buf, "%.10g\n", energies[i].DeltaG)
	}
	io.WriteFile(combined, &buf)

	cmd := exec.CommandContext(ctx, b.binPath, "--temp", strconv.FormatFloat(tempC, 'f', -1, 64), combined)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, tbnerr.Wrap(tbnerr.LatticeSolverTimeout, "equil", ctx.Err(), "alternate equilibrium solver deadline exceeded")
		}
		return nil, tbnerr.New(tbnerr.LatticeSolverError, "equil",
			"alternate equilibrium solver exited with error: %v; stderr: %s", err, stderr.String())
	}

	return parseConcentrationList(&stdout, len(polys))
}
