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

// normalizBackend wraps the normaliz Hilbert-basis / minimal-inhomogeneous-
// solution tool, the primary lattice-solver backend.
type normalizBackend struct {
	binPath string
}

func (b *normalizBackend) Name() string { return "normaliz" }

func (b *normalizBackend) HilbertBasis(ctx context.Context, p Problem, opts Options) (<-chan Result, <-chan error) {
	return b.run(ctx, p, opts, "HilbertBasis")
}

func (b *normalizBackend) StrictSliceBasis(ctx context.Context, p Problem, opts Options) (<-chan Result, <-chan error) {
	return b.run(ctx, p, opts, "Deg1Elements")
}

// run writes the .in file, invokes normaliz, and streams the requested
// output section's rows as they are parsed, never holding the full result
// set in memory.
func (b *normalizBackend) run(ctx context.Context, p Problem, opts Options, section string) (<-chan Result, <-chan error) {
	results := make(chan Result, 64)
	errs := make(chan error, 1)

	go func() {
		defer close(results)
		defer close(errs)

		inPath, cleanup, err := writeNormalizInput(p, opts)
		if err != nil {
			errs <- err
			return
		}
		defer cleanup()

		cmd := exec.CommandContext(ctx, b.binPath, "-N", "-x=1", strings.TrimSuffix(inPath, ".in"))
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			errs <- tbnerr.Wrap(tbnerr.LatticeSolverError, "lattice", err, "normaliz stdout pipe")
			return
		}
		var stderrBuf strings.Builder
		cmd.Stderr = &stderrBuf

		if err := cmd.Start(); err != nil {
			errs <- tbnerr.Wrap(tbnerr.MissingSolver, "lattice", err, "failed to start normaliz at %q", b.binPath)
			return
		}

		outFile := strings.TrimSuffix(inPath, ".in") + "." + outSuffix(section)
		scanErr := streamSection(stdout, section, results)

		waitErr := cmd.Wait()
		if ctx.Err() != nil {
			errs <- tbnerr.Wrap(tbnerr.LatticeSolverTimeout, "lattice", ctx.Err(), "normaliz deadline exceeded")
			return
		}
		if waitErr != nil {
			errs <- tbnerr.New(tbnerr.LatticeSolverError, "lattice",
				"normaliz exited with error: %v; stderr: %s", waitErr, excerpt(stderrBuf.String()))
			return
		}
		if scanErr != nil {
			errs <- tbnerr.Wrap(tbnerr.LatticeSolverError, "lattice", scanErr, "malformed normaliz output")
			return
		}
		// normaliz also writes the section to an output file alongside the
		// input; when debug preservation is disabled this file is removed
		// by cleanup(), matching the "writes to debug dir only if enabled" contract.
		_ = outFile
	}()

	return results, errs
}

func outSuffix(section string) string {
	switch section {
	case "Deg1Elements":
		return "mod"
	default:
		return "gen"
	}
}

func excerpt(s string) string {
	const max = 2000
	if len(s) > max {
		return s[:max] + "...(truncated)"
	}
	return s
}

// writeNormalizInput serializes Problem p into normaliz's plain-text input
// format (ambient space, equations, inequalities) and returns the path to
// the written .in file plus a cleanup func that removes temporaries unless
// debug preservation is requested.
func writeNormalizInput(p Problem, opts Options) (string, func(), error) {
	dir := opts.DebugDir
	preserve := dir != ""
	if !preserve {
		var err error
		dir, err = os.MkdirTemp("", "tbnexplorer2-normaliz-")
		if err != nil {
			return "", nil, tbnerr.Wrap(tbnerr.LatticeSolverError, "lattice", err, "cannot create temp dir")
		}
	}
	base := opts.BaseName
	if base == "" {
		base = "problem"
	}
	if opts.Purpose != "" {
		base = base + "-" + opts.Purpose
	}
	path := filepath.Join(dir, base+".in")

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "amb_space %d\n", p.Dim)
	if n := len(p.Eq); n > 0 {
		fmt.Fprintf(&buf, "equations %d\n", n)
		writeRows(&buf, p.Eq)
	}
	if n := len(p.Ineq); n > 0 {
		fmt.Fprintf(&buf, "inequalities %d\n", n)
		writeRows(&buf, p.Ineq)
	}
	if p.SliceVar >= 0 {
		fmt.Fprintf(&buf, "strict_sign_inequalities 1\n")
		row := make([]int64, p.Dim)
		row[p.SliceVar] = 1
		writeRows(&buf, [][]int64{row})
		buf.WriteString("HilbertBasis\n")
	} else {
		buf.WriteString("HilbertBasis\n")
	}

	io.WriteFile(path, &buf)

	cleanup := func() {
		if !preserve {
			os.RemoveAll(dir)
		}
	}
	return path, cleanup, nil
}

func writeRows(buf *bytes.Buffer, rows [][]int64) {
	for _, row := range rows {
		for j, v := range row {
			if j > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(strconv.FormatInt(v, 10))
		}
		buf.WriteByte('\n')
	}
}

// streamSection scans normaliz's stdout for the named section and emits one
// Result per vector line as it is parsed.
func streamSection(r goio.Reader, section string, out chan<- Result) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	inSection := false
	remaining := -1
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !inSection {
			if strings.Contains(line, section) {
				inSection = true
				remaining = -1
			}
			continue
		}
		fields := strings.Fields(line)
		if remaining < 0 {
			n, err := strconv.Atoi(fields[0])
			if err != nil {
				return fmt.Errorf("expected count line after %q, got %q", section, line)
			}
			remaining = n
			continue
		}
		if remaining == 0 {
			break
		}
		vec := make([]int64, len(fields))
		for i, f := range fields {
			x, err := strconv.ParseInt(f, 10, 64)
			if err != nil {
				return fmt.Errorf("malformed integer %q in %s row", f, section)
			}
			vec[i] = x
		}
		out <- Result{Vector: vec}
		remaining--
		if remaining == 0 {
			break
		}
	}
	return sc.Err()
}
