// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command tbnexplorer2-ibot additionally runs the canonical-reactions
// engine and the IBOT scheduler over a polymer basis, emitting an ordered
// .tbnpolys listing of assigned concentration exponents and, optionally, a
// synthesized .tbn with balanced monomer concentrations.
package main

import (
	"context"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/david-soloveichik/TBNExplorer2/equil"
	"github.com/david-soloveichik/TBNExplorer2/ibot"
	"github.com/david-soloveichik/TBNExplorer2/inp"
	"github.com/david-soloveichik/TBNExplorer2/lattice"
	"github.com/david-soloveichik/TBNExplorer2/matrix"
	"github.com/david-soloveichik/TBNExplorer2/polybasis"
	"github.com/david-soloveichik/TBNExplorer2/reactions"
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
	onTargetPath, _ := io.ArgToFilename(1, "", ".tbnpolys", false)
	bounded := io.ArgToBool(2, false)
	verbose := io.ArgToBool(3, true)
	generateConc := io.ArgToFloat(4, -1)
	generateUnits := io.ArgToString(5, "M")

	if verbose {
		io.PfWhite("\nTBNExplorer2 IBOT -- canonical reactions + exponent scheduling\n\n")
	}

	text, err := os.ReadFile(fnamepath)
	if err != nil {
		chk.Panic("cannot read %q:\n%v", fnamepath, err)
	}
	vars := inp.ParseVarArgs(trailingArgs(7))
	tbn, err := inp.ParseTBN(string(text), vars)
	if err != nil {
		chk.Panic("%v", err)
	}
	unitsDeclared := tbn.Units != ""
	a, err := matrix.Build(tbn.Records, unitsDeclared)
	if err != nil {
		chk.Panic("%v", err)
	}
	if err := a.CheckStarLimiting(a.Conc); err != nil {
		chk.Panic("%v", err)
	}

	backend, err := lattice.NewBackend("normaliz", "")
	if err != nil {
		chk.Panic("%v", err)
	}
	key := io.FnKey(fnamepath)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	basis, err := polybasis.Build(ctx, a, polybasis.Options{Backend: backend, Debug: lattice.Options{BaseName: key, Purpose: "polybasis"}})
	if err != nil {
		chk.Panic("%v", err)
	}

	onTargetVectors, err := readOnTargetVectors(onTargetPath, a)
	if err != nil {
		chk.Panic("%v", err)
	}
	target, err := reactions.NewTarget(basis, onTargetVectors)
	if err != nil {
		chk.Panic("%v", err)
	}

	reactOpts := reactions.Options{Backend: backend, Debug: lattice.Options{BaseName: key, Purpose: "canonical-reactions"}}
	var rs []reactions.Reaction
	if bounded {
		var undesired []int
		for i, ot := range target.OnTarget {
			if !ot {
				undesired = append(undesired, i)
			}
		}
		rs, err = reactions.EnumerateBounded(ctx, a, basis, target, undesired, reactOpts)
	} else {
		rs, err = reactions.Enumerate(ctx, a, basis, target, reactOpts)
	}
	if err != nil {
		chk.Panic("%v", err)
	}

	assign := ibot.NewAssignment(target.OnTarget)
	sched := ibot.NewScheduler(rs, assign)
	sched.Run()

	order := orderOutput(basis, target, assign)
	var polys [][]int64
	var mus []*float64
	for _, i := range order {
		if !target.OnTarget[i] && !assign.Reachable(i) && !bounded {
			// unreachable off-target polymers are dropped from the listing
			// outside bounded-target mode, where only the undesired set is
			// meaningfully scheduled.
			continue
		}
		polys = append(polys, basis.Polymers[i].X)
		if target.OnTarget[i] {
			mus = append(mus, nil)
			continue
		}
		if !assign.Reachable(i) {
			mus = append(mus, nil)
			continue
		}
		v, _ := assign.Mu(i).Float64()
		mus = append(mus, &v)
	}

	out := inp.EmitTBNPolys(a, polys, mus)
	os.WriteFile(key+".ibot.tbnpolys", []byte(out), 0644)

	if generateConc >= 0 {
		totals, err := ibot.SynthesizeMonomerConcentrations(basis, assign, generateConc, equil.Unit(generateUnits), a.Cols)
		if err != nil {
			chk.Panic("%v", err)
		}
		gen := &matrix.Matrix{BaseNames: a.BaseNames, Names: a.Names, Cols: a.Cols, Data: a.Data, HasConc: true, Conc: totals}
		// EmitTBN always declares Molar; the totals are in generateUnits.
		genText := strings.Replace(inp.EmitTBN(gen), "\\UNITS: M\n", "\\UNITS: "+generateUnits+"\n", 1)
		os.WriteFile(key+".generated.tbn", []byte(genText), 0644)
		if verbose {
			io.PfGreen("synthesized monomer concentrations written to %s.generated.tbn\n", key)
		}
	}

	if verbose {
		nUnreachable := 0
		for i := range basis.Polymers {
			if !target.OnTarget[i] && !assign.Reachable(i) {
				nUnreachable++
			}
		}
		io.PfGreen("\ndone: %d reactions, %d off-target polymers assigned, %d unreachable\n",
			len(rs), len(basis.Polymers)-len(onTargetVectors)-nUnreachable, nUnreachable)
	}
}

// orderOutput lists on-target polymers first, then off-target polymers
// sorted by mu ascending, ties broken by polymer-basis index order.
func orderOutput(basis *polybasis.Basis, target *reactions.Target, assign *ibot.Assignment) []int {
	n := len(basis.Polymers)
	var onT, offT []int
	for i := 0; i < n; i++ {
		if target.OnTarget[i] {
			onT = append(onT, i)
		} else {
			offT = append(offT, i)
		}
	}
	sort.SliceStable(offT, func(i, j int) bool {
		a, b := offT[i], offT[j]
		if !assign.Reachable(a) || !assign.Reachable(b) {
			return assign.Reachable(a) && !assign.Reachable(b)
		}
		c := assign.Mu(a).Cmp(assign.Mu(b))
		if c != 0 {
			return c < 0
		}
		return a < b
	})
	return append(onT, offT...)
}

func readOnTargetVectors(path string, a *matrix.Matrix) ([][]int64, error) {
	if path == "" {
		return nil, nil
	}
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, tbnerr.Wrap(tbnerr.ParseError, "ibot", err, "cannot read on-target file %q", path)
	}
	paras, err := inp.ParseTBNPolys(string(text))
	if err != nil {
		return nil, err
	}
	nameIndex := make(map[string]int, a.Cols)
	for i, name := range a.Names {
		if name != "" {
			nameIndex[name] = i
		}
	}
	baseIndex := make(map[string]int, a.Rows())
	for i, name := range a.BaseNames {
		baseIndex[name] = i
	}
	var vecs [][]int64
	for _, para := range paras {
		v := make([]int64, a.Cols)
		for _, e := range para.Entries {
			if idx, ok := nameIndex[e.Name]; e.Name != "" && ok {
				v[idx] += int64(e.Count)
				continue
			}
			col, err := matchMonomerBySites(a, baseIndex, e.Sites)
			if err != nil {
				return nil, err
			}
			v[col] += int64(e.Count)
		}
		vecs = append(vecs, v)
	}
	return vecs, nil
}

// matchMonomerBySites reduces a raw binding-site list to its signed site
// vector and finds the matrix column it identifies, for .tbnpolys entries
// that describe a monomer by its sites rather than by its declared name.
func matchMonomerBySites(a *matrix.Matrix, baseIndex map[string]int, sites []matrix.BindingSite) (int, error) {
	site := make([]int64, a.Rows())
	for _, s := range sites {
		i, ok := baseIndex[s.Base]
		if !ok {
			return 0, tbnerr.New(tbnerr.ParseError, "ibot", "on-target binding site %q not declared in the monomer matrix", s.Base)
		}
		if s.Star {
			site[i]--
		} else {
			site[i]++
		}
	}
	for j := 0; j < a.Cols; j++ {
		if vecEqual(a.Column(j), site) {
			return j, nil
		}
	}
	return 0, tbnerr.New(tbnerr.ParseError, "ibot", "on-target entry matches no declared monomer")
}

func vecEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
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

func asError(v interface{}) error {
	if e, ok := v.(error); ok {
		return e
	}
	return nil
}
