package store

import (
	"fmt"
	"strings"

	"github.com/rxtech-lab/argo-pipeline/internal/types"
)

// timeColumn is the table column holding the row timestamp, named like the input column.
const timeColumn = types.ColumnDate

// tableColumn maps a record-set column to its SQL identifier.
type tableColumn struct {
	source     string
	identifier string
}

// tableSchema derives the table columns from the record-set schema. Identifiers keep
// the source casing and are always quoted. Both engines compare identifiers without
// regard to case, so names that differ only in case get a numeric suffix.
func tableSchema(rs *types.RecordSet) []tableColumn {
	used := map[string]bool{strings.ToLower(timeColumn): true}
	columns := make([]tableColumn, 0, len(rs.Columns))

	for _, name := range rs.NumericColumns() {
		base := strings.TrimSpace(name)
		if base == "" {
			base = "column"
		}

		identifier := base

		for i := 2; used[strings.ToLower(identifier)]; i++ {
			identifier = fmt.Sprintf("%s_%d", base, i)
		}

		used[strings.ToLower(identifier)] = true
		columns = append(columns, tableColumn{source: name, identifier: identifier})
	}

	return columns
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func createTableSQL(table string, columns []tableColumn, d dialect) string {
	defs := make([]string, 0, len(columns)+1)
	defs = append(defs, fmt.Sprintf("%s %s", quoteIdentifier(timeColumn), d.timestampType))

	for _, column := range columns {
		defs = append(defs, fmt.Sprintf("%s %s", quoteIdentifier(column.identifier), d.doubleType))
	}

	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdentifier(table), strings.Join(defs, ", "))
}
