package storage

import (
	"fmt"
	"strings"
)

// valuesClause renders the placeholder tuples of a multi-row INSERT:
// "($1,$2),($3,$4)" for rows=2, cols=2.
func valuesClause(rows, cols int) string {
	valueStrings := make([]string, 0, rows)
	for i := 0; i < rows; i++ {
		base := i * cols
		ph := make([]string, cols)
		for c := range ph {
			ph[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
	}
	return strings.Join(valueStrings, ",")
}
