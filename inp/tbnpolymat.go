// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"bufio"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/david-soloveichik/TBNExplorer2/tbnerr"
)

// PolyMat is the parsed form of a .tbnpolymat artifact: header
// keywords plus body rows "c1 ... cn [deltaG] [concentration]".
type PolyMat struct {
	MatrixHash string
	Units      string
	Parameters map[string]string
	NumCols    int // n, the monomer-count width of each row
	HasEnergy  bool
	HasConc    bool
	Rows       [][]int64
	Energies   []float64
	Concs      []float64
}

// ParseTBNPolymat parses a .tbnpolymat artifact. numCols, hasEnergy, and
// hasConc are supplied by the caller (who knows the monomer count and
// which optional trailing columns were requested) since the header alone
// does not disambiguate row width.
func ParseTBNPolymat(text string, numCols int, hasEnergy, hasConc bool) (*PolyMat, error) {
	pm := &PolyMat{NumCols: numCols, HasEnergy: hasEnergy, HasConc: hasConc, Parameters: map[string]string{}}
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "\\MATRIX-HASH:") {
			pm.MatrixHash = strings.TrimSpace(strings.TrimPrefix(trimmed, "\\MATRIX-HASH:"))
			continue
		}
		if strings.HasPrefix(trimmed, "\\UNITS:") {
			pm.Units = strings.TrimSpace(strings.TrimPrefix(trimmed, "\\UNITS:"))
			continue
		}
		if strings.HasPrefix(trimmed, "\\PARAMETERS:") {
			for _, kv := range strings.Fields(strings.TrimPrefix(trimmed, "\\PARAMETERS:")) {
				if i := strings.IndexByte(kv, '='); i >= 0 {
					pm.Parameters[kv[:i]] = kv[i+1:]
				}
			}
			continue
		}
		fields := strings.Fields(trimmed)
		want := numCols
		if hasEnergy {
			want++
		}
		if hasConc {
			want++
		}
		if len(fields) != want {
			return nil, tbnerr.New(tbnerr.ParseError, "inp",
				"line %d: expected %d fields, got %d: %q", lineNo, want, len(fields), trimmed)
		}
		row := make([]int64, numCols)
		for i := 0; i < numCols; i++ {
			v, err := strconv.ParseInt(fields[i], 10, 64)
			if err != nil {
				return nil, tbnerr.Wrap(tbnerr.ParseError, "inp", err, "line %d: bad monomer count %q", lineNo, fields[i])
			}
			row[i] = v
		}
		pm.Rows = append(pm.Rows, row)
		idx := numCols
		if hasEnergy {
			v, err := strconv.ParseFloat(fields[idx], 64)
			if err != nil {
				return nil, tbnerr.Wrap(tbnerr.ParseError, "inp", err, "line %d: bad free energy %q", lineNo, fields[idx])
			}
			pm.Energies = append(pm.Energies, v)
			idx++
		}
		if hasConc {
			v, err := strconv.ParseFloat(fields[idx], 64)
			if err != nil {
				return nil, tbnerr.Wrap(tbnerr.ParseError, "inp", err, "line %d: bad concentration %q", lineNo, fields[idx])
			}
			pm.Concs = append(pm.Concs, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, tbnerr.Wrap(tbnerr.ParseError, "inp", err, "cannot read .tbnpolymat input")
	}
	return pm, nil
}

// EmitTBNPolymat renders a PolyMat back to .tbnpolymat text, formatting
// concentrations with at most 3 significant digits in the declared units,
// preferring plain decimal over scientific when the exponent lies in
// [-3, 3].
func EmitTBNPolymat(pm *PolyMat) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\\MATRIX-HASH: %s\n", pm.MatrixHash)
	if pm.Units != "" {
		fmt.Fprintf(&sb, "\\UNITS: %s\n", pm.Units)
	}
	if len(pm.Parameters) > 0 {
		keys := make([]string, 0, len(pm.Parameters))
		for k := range pm.Parameters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString("\\PARAMETERS:")
		for _, k := range keys {
			fmt.Fprintf(&sb, " %s=%s", k, pm.Parameters[k])
		}
		sb.WriteByte('\n')
	}
	for i, row := range pm.Rows {
		for j, v := range row {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d", v)
		}
		if pm.HasEnergy {
			fmt.Fprintf(&sb, " %.6g", pm.Energies[i])
		}
		if pm.HasConc {
			fmt.Fprintf(&sb, " %s", formatConc(pm.Concs[i]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// formatConc renders v with at most 3 significant digits, preferring plain
// decimal over scientific notation when the exponent lies in [-3, 3].
func formatConc(v float64) string {
	if v == 0 {
		return "0"
	}
	exp := int(math.Floor(math.Log10(math.Abs(v))))
	if exp >= -3 && exp <= 3 {
		s := strconv.FormatFloat(v, 'f', -1, 64)
		return roundSig(s, v, 3)
	}
	return strconv.FormatFloat(v, 'e', 2, 64)
}

// roundSig re-renders v with 3 significant digits in plain decimal form.
func roundSig(_ string, v float64, sig int) string {
	if v == 0 {
		return "0"
	}
	exp := int(math.Floor(math.Log10(math.Abs(v))))
	scale := math.Pow(10, float64(sig-1-exp))
	rounded := math.Round(v*scale) / scale
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
