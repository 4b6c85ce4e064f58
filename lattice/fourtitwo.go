// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lattice

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	goio "io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/io"
	"github.com/david-soloveichik/TBNExplorer2/tbnerr"
)

// fourtitwoBackend wraps 4ti2's "hilbert" (homogeneous cone) and "zsolve"
// (strict-slice inhomogeneous system) tools, the alternate lattice backend.
type fourtitwoBackend struct {
	binDir string
}

func (b *fourtitwoBackend) Name() string { return "4ti2" }

func (b *fourtitwoBackend) HilbertBasis(ctx context.Context, p Problem, opts Options) (<-chan Result, <-chan error) {
	return b.run(ctx, p, opts, "hilbert", ".hil")
}

func (b *fourtitwoBackend) StrictSliceBasis(ctx context.Context, p Problem, opts Options) (<-chan Result, <-chan error) {
	return b.run(ctx, p, opts, "zsolve", ".zinhom")
}

func (b *fourtitwoBackend) run(ctx context.Context, p Problem, opts Options, tool, outExt string) (<-chan Result, <-chan error) {
	results := make(chan Result, 64)
	errs := make(chan error, 1)

	go func() {
		defer close(results)
		defer close(errs)

		dir := opts.DebugDir
		preserve := dir != ""
		if !preserve {
			var err error
			dir, err = os.MkdirTemp("", "tbnexplorer2-4ti2-")
			if err != nil {
				errs <- tbnerr.Wrap(tbnerr.LatticeSolverError, "lattice", err, "cannot create temp dir")
				return
			}
			defer os.RemoveAll(dir)
		}
		base := opts.BaseName
		if base == "" {
			base = "problem"
		}
		if opts.Purpose != "" {
			base += "-" + opts.Purpose
		}
		stem := filepath.Join(dir, base)

		if err := writeFourTiTwoMatrices(stem, p); err != nil {
			errs <- err
			return
		}

		exe := filepath.Join(b.binDir, tool)
		cmd := exec.CommandContext(ctx, exe, stem)
		var stderrBuf strings.Builder
		cmd.Stderr = &stderrBuf
		if err := cmd.Run(); err != nil {
			if ctx.Err() != nil {
				errs <- tbnerr.Wrap(tbnerr.LatticeSolverTimeout, "lattice", ctx.Err(), "%s deadline exceeded", tool)
				return
			}
			errs <- tbnerr.New(tbnerr.LatticeSolverError, "lattice",
				"%s exited with error: %v; stderr: %s", tool, err, excerpt(stderrBuf.String()))
			return
		}

		f, err := os.Open(stem + outExt)
		if err != nil {
			errs <- tbnerr.Wrap(tbnerr.LatticeSolverError, "lattice", err, "missing %s output", tool)
			return
		}
		defer f.Close()
		if err := parseFourTiTwoMatrix(f, results); err != nil {
			errs <- tbnerr.Wrap(tbnerr.LatticeSolverError, "lattice", err, "malformed %s output", tool)
			return
		}
	}()

	return results, errs
}

// writeFourTiTwoMatrices writes the .mat (equation rows, then inequality
// rows) and .rel files 4ti2 expects; strict-slice mode additionally emits
// .lb to pin SliceVar >= 1. No .sign or .rhs file is written.
func writeFourTiTwoMatrices(stem string, p Problem) error {
	var mat bytes.Buffer
	rows := append(append([][]int64{}, p.Eq...), p.Ineq...)
	fmt.Fprintf(&mat, "%d %d\n", len(rows), p.Dim)
	for _, row := range rows {
		for j, v := range row {
			if j > 0 {
				mat.WriteByte(' ')
			}
			mat.WriteString(strconv.FormatInt(v, 10))
		}
		mat.WriteByte('\n')
	}
	io.WriteFile(stem+".mat", &mat)

	var rel bytes.Buffer
	fmt.Fprintf(&rel, "%d %d\n", 1, len(rows))
	for i := range rows {
		if i > 0 {
			rel.WriteByte(' ')
		}
		if i < len(p.Eq) {
			rel.WriteString("=")
		} else {
			rel.WriteString(">")
		}
	}
	rel.WriteByte('\n')
	io.WriteFile(stem+".rel", &rel)

	if p.SliceVar >= 0 {
		var lb bytes.Buffer
		fmt.Fprintf(&lb, "%d %d\n", 1, p.Dim)
		for j := 0; j < p.Dim; j++ {
			if j > 0 {
				lb.WriteByte(' ')
			}
			if j == p.SliceVar {
				lb.WriteString("1")
			} else {
				lb.WriteString("0")
			}
		}
		lb.WriteByte('\n')
		io.WriteFile(stem+".lb", &lb)
	}
	return nil
}

// parseFourTiTwoMatrix reads a 4ti2 "rows cols" matrix file and emits one
// Result per data row.
func parseFourTiTwoMatrix(r goio.Reader, out chan<- Result) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	first := true
	var cols int
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if first {
			first = false
			if len(fields) >= 2 {
				c, err := strconv.Atoi(fields[1])
				if err == nil {
					cols = c
				}
			}
			continue
		}
		vec := make([]int64, 0, cols)
		for _, f := range fields {
			x, err := strconv.ParseInt(f, 10, 64)
			if err != nil {
				return fmt.Errorf("malformed integer %q", f)
			}
			vec = append(vec, x)
		}
		out <- Result{Vector: vec}
	}
	return scanner.Err()
}
