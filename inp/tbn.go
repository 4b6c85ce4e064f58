// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inp implements the .tbn / .tbnpolys / .tbnpolymat text formats,
// generalizing gofem's inp package (which reads JSON .sim files) to
// the line-oriented TBN grammars — the wire format here is a custom DSL,
// not JSON, so the parsers are hand-rolled scanners in the same spirit.
package inp

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/cpmech/gosl/io"
	"github.com/david-soloveichik/TBNExplorer2/matrix"
	"github.com/david-soloveichik/TBNExplorer2/tbnerr"
)

// TBN is the parsed form of a .tbn file.
type TBN struct {
	Units   string // "" if not declared, else one of nM/pM/uM/mM/M
	Records []matrix.MonomerRecord
}

// ParseTBN parses .tbn text, substituting any {{expr}} tokens in
// concentration fields against vars using safe arithmetic
// (+ - * / ** and parentheses, decimals).
func ParseTBN(text string, vars map[string]interface{}) (*TBN, error) {
	out := &TBN{}
	sc := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "\\UNITS:") {
			out.Units = strings.TrimSpace(strings.TrimPrefix(trimmed, "\\UNITS:"))
			continue
		}
		rec, err := parseMonomerLine(trimmed, out.Units != "", vars)
		if err != nil {
			return nil, tbnerr.Wrap(tbnerr.ParseError, "inp", err, "line %d: %q", lineNo, trimmed)
		}
		out.Records = append(out.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, tbnerr.Wrap(tbnerr.ParseError, "inp", err, "cannot read .tbn input")
	}
	return out, nil
}

// parseMonomerLine accepts the three monomer-line shapes from:
//
//	name: site ...[, conc]
//	site ... > name[, conc]
//	site ...[, conc]
func parseMonomerLine(line string, unitsDeclared bool, vars map[string]interface{}) (matrix.MonomerRecord, error) {
	var rec matrix.MonomerRecord

	body := line
	var concField string
	if idx := strings.LastIndexByte(line, ','); idx >= 0 {
		body = line[:idx]
		concField = strings.TrimSpace(line[idx+1:])
	}

	name := ""
	sitesPart := body
	if idx := strings.IndexByte(body, ':'); idx >= 0 {
		name = strings.TrimSpace(body[:idx])
		sitesPart = body[idx+1:]
	} else if idx := strings.IndexByte(body, '>'); idx >= 0 {
		sitesPart = body[:idx]
		name = strings.TrimSpace(body[idx+1:])
	}
	sitesPart = strings.TrimSpace(sitesPart)

	if name != "" && !matrix.ValidName(name) {
		return rec, tbnerr.New(tbnerr.ParseError, "inp", "invalid monomer name %q", name)
	}

	for _, tok := range strings.Fields(sitesPart) {
		site, ok := matrix.ParseSite(tok)
		if !ok {
			return rec, tbnerr.New(tbnerr.ParseError, "inp", "invalid binding-site token %q", tok)
		}
		rec.Sites = append(rec.Sites, site)
	}
	rec.Name = name

	if concField != "" {
		if !unitsDeclared {
			return rec, tbnerr.New(tbnerr.ParseError, "inp",
				"concentration given (%q) but no \\UNITS: header declared", concField)
		}
		v, err := evalConcExpr(concField, vars)
		if err != nil {
			return rec, err
		}
		rec.Conc = &v
	} else if unitsDeclared {
		return rec, tbnerr.New(tbnerr.ParseError, "inp",
			"\\UNITS: declared but monomer line has no concentration: %q", line)
	}

	return rec, nil
}

// ParseVarArgs turns trailing "name=value" CLI tokens into the vars map
// ParseTBN substitutes into {{expr}} fields, letting a driver's command
// line parametrize a .tbn file's concentrations. Tokens without '=' are
// ignored.
func ParseVarArgs(tokens []string) map[string]interface{} {
	vars := map[string]interface{}{}
	for _, tok := range tokens {
		if i := strings.IndexByte(tok, '='); i > 0 {
			vars[tok[:i]] = io.Atof(tok[i+1:])
		}
	}
	return vars
}

// evalConcExpr substitutes {{expr}} tokens with govaluate, a safe
// arithmetic-expression evaluator (operators + - * / ** , parentheses,
// decimals), then parses the resulting plain number.
func evalConcExpr(field string, vars map[string]interface{}) (float64, error) {
	field = strings.TrimSpace(field)
	if strings.HasPrefix(field, "{{") && strings.HasSuffix(field, "}}") {
		expr := strings.TrimSuffix(strings.TrimPrefix(field, "{{"), "}}")
		ev, err := govaluate.NewEvaluableExpression(expr)
		if err != nil {
			return 0, tbnerr.Wrap(tbnerr.ParseError, "inp", err, "invalid {{%s}} expression", expr)
		}
		result, err := ev.Evaluate(vars)
		if err != nil {
			return 0, tbnerr.Wrap(tbnerr.ParseError, "inp", err, "cannot evaluate {{%s}}", expr)
		}
		v, ok := result.(float64)
		if !ok {
			return 0, tbnerr.New(tbnerr.ParseError, "inp", "{{%s}} did not evaluate to a number", expr)
		}
		return v, nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, tbnerr.Wrap(tbnerr.ParseError, "inp", err, "invalid concentration %q", field)
	}
	return v, nil
}
