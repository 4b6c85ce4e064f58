// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lattice

import (
	"context"

	"github.com/david-soloveichik/TBNExplorer2/tbnerr"
)

// Backend is the abstract interface over an external lattice-solver tool.
// Both concrete backends (normaliz, 4ti2) stream results through ch so the
// caller's working set is one result vector at a time plus a small buffer.
type Backend interface {
	// Name identifies the backend for error messages and debug file names.
	Name() string
	// HilbertBasis solves the homogeneous cone and streams its Hilbert basis.
	HilbertBasis(ctx context.Context, p Problem, opts Options) (<-chan Result, <-chan error)
	// StrictSliceBasis solves the strict-slice inhomogeneous system and
	// streams its minimal indecomposable solutions (module generators).
	StrictSliceBasis(ctx context.Context, p Problem, opts Options) (<-chan Result, <-chan error)
}

// Options configures one solver invocation.
type Options struct {
	DebugDir string // if non-empty, raw solver input/output is preserved here
	BaseName string // file-name stem used under DebugDir, e.g. the .tbn key
	Purpose  string // e.g. "polybasis", "canonical-reactions", "strict-slice-3"
}

// NewBackend resolves the configured backend by name ("normaliz" or "4ti2"),
// consulting the corresponding environment variable when binPath is empty.
// A non-empty binPath takes precedence over the environment.
func NewBackend(name, binPath string) (Backend, error) {
	switch name {
	case "", "normaliz":
		path := binPath
		if path == "" {
			path = resolveEnv("TBN_NORMALIZ_PATH")
		}
		if path == "" {
			return nil, tbnerr.New(tbnerr.MissingSolver, "lattice",
				"normaliz binary not found: set TBN_NORMALIZ_PATH")
		}
		return &normalizBackend{binPath: path}, nil
	case "4ti2":
		path := binPath
		if path == "" {
			path = resolveEnv("TBN_4TI2_PATH")
		}
		if path == "" {
			return nil, tbnerr.New(tbnerr.MissingSolver, "lattice",
				"4ti2 binary directory not found: set TBN_4TI2_PATH")
		}
		return &fourtitwoBackend{binDir: path}, nil
	default:
		return nil, tbnerr.New(tbnerr.MissingSolver, "lattice", "unknown lattice backend %q", name)
	}
}
