// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"bytes"
	"fmt"

	"github.com/david-soloveichik/TBNExplorer2/matrix"
)

// EmitTBN renders a matrix back to .tbn text.
func EmitTBN(m *matrix.Matrix) string {
	var buf bytes.Buffer
	if m.HasConc {
		fmt.Fprintf(&buf, "\\UNITS: M\n")
	}
	for j := 0; j < m.Cols; j++ {
		v := m.Column(j)
		if m.Names[j] != "" {
			fmt.Fprintf(&buf, "%s:", m.Names[j])
		}
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
				fmt.Fprintf(&buf, " %s%s", m.BaseNames[i], star)
			}
		}
		if m.HasConc {
			fmt.Fprintf(&buf, ", %.10g", m.Conc[j])
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}
