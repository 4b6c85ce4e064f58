// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command tbnfilter applies CONTAINS/EXACTLY constraints and count/
// concentration caps to a computed .tbnpolymat artifact, writing the
// surviving records back out in descending concentration order.
package main

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/david-soloveichik/TBNExplorer2/filter"
	"github.com/david-soloveichik/TBNExplorer2/inp"
	"github.com/david-soloveichik/TBNExplorer2/matrix"
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

	tbnPath, _ := io.ArgToFilename(0, "", ".tbn", true)
	polymatPath, _ := io.ArgToFilename(1, "", ".tbnpolymat", true)
	constraintsPath, _ := io.ArgToFilename(2, "", ".tbnfilter", false)
	maxCount := io.ArgToInt(3, 0)
	minConc := io.ArgToFloat(4, 0)
	minPercent := io.ArgToFloat(5, 0)
	verbose := io.ArgToBool(6, true)

	tbnText, err := os.ReadFile(tbnPath)
	if err != nil {
		chk.Panic("cannot read %q:\n%v", tbnPath, err)
	}
	tbn, err := inp.ParseTBN(string(tbnText), nil)
	if err != nil {
		chk.Panic("%v", err)
	}
	a, err := matrix.Build(tbn.Records, tbn.Units != "")
	if err != nil {
		chk.Panic("%v", err)
	}

	hasEnergy, hasConc := sniffPolymatColumns(polymatPath, a.Cols)
	polymatText, err := os.ReadFile(polymatPath)
	if err != nil {
		chk.Panic("cannot read %q:\n%v", polymatPath, err)
	}
	pm, err := inp.ParseTBNPolymat(string(polymatText), a.Cols, hasEnergy, hasConc)
	if err != nil {
		chk.Panic("%v", err)
	}

	var constraints []filter.Constraint
	if constraintsPath != "" {
		text, err := os.ReadFile(constraintsPath)
		if err != nil {
			chk.Panic("cannot read %q:\n%v", constraintsPath, err)
		}
		constraints, err = parseConstraints(string(text), a)
		if err != nil {
			chk.Panic("%v", err)
		}
	}

	records := make([]filter.Record, len(pm.Rows))
	for i, row := range pm.Rows {
		c := 0.0
		if hasConc {
			c = pm.Concs[i]
		}
		records[i] = filter.Record{Monomers: row, Concentration: c}
	}

	spec := filter.Spec{Constraints: constraints, MaxCount: maxCount, MinConcentration: minConc, MinPercentTotal: minPercent}
	kept := filter.Apply(records, a.Cols, spec)

	outPM := &inp.PolyMat{MatrixHash: pm.MatrixHash, Units: pm.Units, NumCols: a.Cols, HasEnergy: false, HasConc: hasConc}
	for _, r := range kept {
		outPM.Rows = append(outPM.Rows, r.Monomers)
		if hasConc {
			outPM.Concs = append(outPM.Concs, r.Concentration)
		}
	}

	key := io.FnKey(polymatPath)
	outPath := key + ".filtered.tbnpolymat"
	os.WriteFile(outPath, []byte(inp.EmitTBNPolymat(outPM)), 0644)

	if verbose {
		io.PfGreen("\n%d of %d records kept, written to %s\n", len(kept), len(records), outPath)
	}
}

// sniffPolymatColumns peeks at the first data row of a .tbnpolymat file to
// determine how many optional trailing columns it carries, since the
// header alone does not disambiguate row width.
func sniffPolymatColumns(path string, nMonomers int) (hasEnergy, hasConc bool) {
	f, err := os.Open(path)
	if err != nil {
		chk.Panic("cannot read %q:\n%v", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "\\") {
			continue
		}
		fields := strings.Fields(line)
		extra := len(fields) - nMonomers
		switch extra {
		case 2:
			return true, true
		case 1:
			return true, false
		default:
			return false, false
		}
	}
	return false, false
}

// parseConstraints reads lines of the form "CONTAINS name ..." or
// "EXACTLY name ...", resolving each monomer name against the matrix's
// column labels.
func parseConstraints(text string, a *matrix.Matrix) ([]filter.Constraint, error) {
	index := make(map[string]int, a.Cols)
	for j, name := range a.Names {
		if name != "" {
			index[name] = j
		}
	}

	var out []filter.Constraint
	sc := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, tbnerr.New(tbnerr.ParseError, "filter", "line %d: expected CONTAINS/EXACTLY followed by monomer names", lineNo)
		}
		var exact bool
		switch strings.ToUpper(fields[0]) {
		case "CONTAINS":
			exact = false
		case "EXACTLY":
			exact = true
		default:
			return nil, tbnerr.New(tbnerr.ParseError, "filter", "line %d: unknown constraint keyword %q", lineNo, fields[0])
		}
		var names []int
		for _, tok := range fields[1:] {
			if n, err := strconv.Atoi(tok); err == nil && n == 1 {
				continue
			}
			idx, ok := index[tok]
			if !ok {
				return nil, tbnerr.New(tbnerr.ParseError, "filter", "line %d: unknown monomer name %q", lineNo, tok)
			}
			names = append(names, idx)
		}
		out = append(out, filter.Constraint{Exact: exact, Names: names})
	}
	if err := sc.Err(); err != nil {
		return nil, tbnerr.Wrap(tbnerr.ParseError, "filter", err, "cannot read constraints file")
	}
	return out, nil
}

func asError(v interface{}) error {
	if e, ok := v.(error); ok {
		return e
	}
	return nil
}
