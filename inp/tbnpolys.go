// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/david-soloveichik/TBNExplorer2/matrix"
	"github.com/david-soloveichik/TBNExplorer2/tbnerr"
)

// PolyEntry is one line within a .tbnpolys paragraph: n copies of a named
// monomer or raw binding-site list. A multi-token line is always a raw site
// list (Name empty); a single-token line is ambiguous between the two
// readings, so both Name and the one-site Sites slice are populated and the
// caller, which knows the declared monomer names, resolves it.
type PolyEntry struct {
	Count int
	Name  string               // candidate monomer name; "" only for a multi-token site list
	Sites []matrix.BindingSite // raw site occurrences, always set
}

// PolysParagraph is one polymer's full .tbnpolys paragraph.
type PolysParagraph struct {
	Entries []PolyEntry
	Mu      *float64 // from a trailing "# mu: value" line, if present
}

// ParseTBNPolys parses a .tbnpolys document: one polymer per paragraph,
// paragraphs separated by at least one empty line.
func ParseTBNPolys(text string) ([]PolysParagraph, error) {
	var paragraphs []PolysParagraph
	var cur PolysParagraph
	flush := func() {
		if len(cur.Entries) > 0 || cur.Mu != nil {
			paragraphs = append(paragraphs, cur)
		}
		cur = PolysParagraph{}
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := sc.Text()
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			flush()
			continue
		}
		if strings.HasPrefix(trimmed, "# mu:") || strings.HasPrefix(trimmed, "# μ:") {
			valStr := strings.TrimSpace(trimmed[strings.IndexByte(trimmed, ':')+1:])
			v, err := strconv.ParseFloat(valStr, 64)
			if err != nil {
				return nil, tbnerr.Wrap(tbnerr.ParseError, "inp", err, "line %d: invalid mu trailer %q", lineNo, trimmed)
			}
			cur.Mu = &v
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		entry, err := parsePolysLine(trimmed)
		if err != nil {
			return nil, tbnerr.Wrap(tbnerr.ParseError, "inp", err, "line %d: %q", lineNo, trimmed)
		}
		cur.Entries = append(cur.Entries, entry)
	}
	flush()
	if err := sc.Err(); err != nil {
		return nil, tbnerr.Wrap(tbnerr.ParseError, "inp", err, "cannot read .tbnpolys input")
	}
	return paragraphs, nil
}

// parsePolysLine parses one "n | <name-or-sites>" line; the "n | " prefix
// is optional and defaults to 1.
func parsePolysLine(line string) (PolyEntry, error) {
	count := 1
	rest := line
	if idx := strings.IndexByte(line, '|'); idx >= 0 {
		cStr := strings.TrimSpace(line[:idx])
		n, err := strconv.Atoi(cStr)
		if err != nil {
			return PolyEntry{}, tbnerr.New(tbnerr.ParseError, "inp", "invalid repeat count %q", cStr)
		}
		count = n
		rest = strings.TrimSpace(line[idx+1:])
	}
	rest = strings.TrimSpace(rest)

	fields := strings.Fields(rest)
	if len(fields) == 1 {
		// a lone token reads equally well as a monomer name or a one-site
		// binding-site list; both candidate interpretations are recorded and
		// the caller, which knows the declared monomer names, picks the one
		// that resolves.
		if s, ok := matrix.ParseSite(fields[0]); ok {
			return PolyEntry{Count: count, Name: fields[0], Sites: []matrix.BindingSite{s}}, nil
		}
		return PolyEntry{}, tbnerr.New(tbnerr.ParseError, "inp", "invalid binding-site token %q", fields[0])
	}
	var sites []matrix.BindingSite
	for _, tok := range fields {
		s, ok := matrix.ParseSite(tok)
		if !ok {
			return PolyEntry{}, tbnerr.New(tbnerr.ParseError, "inp", "invalid binding-site token %q", tok)
		}
		sites = append(sites, s)
	}
	return PolyEntry{Count: count, Sites: sites}, nil
}

// EmitTBNPolys renders polymer vectors (by monomer multiplicity, against
// the matrix's monomer names) as a .tbnpolys document, optionally with
// "# μ: value" trailers.
func EmitTBNPolys(m *matrix.Matrix, polymers [][]int64, mus []*float64) string {
	var sb strings.Builder
	for pi, x := range polymers {
		first := true
		for j, count := range x {
			if count == 0 {
				continue
			}
			if !first {
				sb.WriteByte('\n')
			}
			first = false
			name := m.Names[j]
			if name == "" {
				name = siteList(m, j)
			}
			if count == 1 {
				fmt.Fprintf(&sb, "%s", name)
			} else {
				fmt.Fprintf(&sb, "%d | %s", count, name)
			}
		}
		if mus != nil && mus[pi] != nil {
			fmt.Fprintf(&sb, "\n# μ: %.10g", *mus[pi])
		}
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func siteList(m *matrix.Matrix, col int) string {
	var sb strings.Builder
	v := m.Column(col)
	first := true
	for i, x := range v {
		if x == 0 {
			continue
		}
		star := ""
		n := x
		if x < 0 {
			star = "*"
			n = -x
		}
		for k := int64(0); k < n; k++ {
			if !first {
				sb.WriteByte(' ')
			}
			first = false
			fmt.Fprintf(&sb, "%s%s", m.BaseNames[i], star)
		}
	}
	return sb.String()
}
