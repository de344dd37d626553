package store

import "strings"

// buildUpsert renders a single bulk "INSERT ... VALUES (...), (...) ON
// CONFLICT(...) DO UPDATE SET ..." statement for rowCount rows of colCount
// columns each. conflictCols is the natural key; updateCols are the
// non-key columns re-assigned on conflict (excluded(col) syntax, sqlite's
// spelling of the upserted value).
func buildUpsert(table string, columns []string, conflictCols []string, rowCount int) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES ")

	placeholder := "(" + strings.Repeat("?, ", len(columns)-1) + "?)"
	rows := make([]string, rowCount)
	for i := range rows {
		rows[i] = placeholder
	}
	b.WriteString(strings.Join(rows, ", "))

	b.WriteString(" ON CONFLICT(")
	b.WriteString(strings.Join(conflictCols, ", "))
	b.WriteString(") DO UPDATE SET ")

	isConflictCol := make(map[string]bool, len(conflictCols))
	for _, c := range conflictCols {
		isConflictCol[c] = true
	}
	var sets []string
	for _, c := range columns {
		if isConflictCol[c] {
			continue
		}
		sets = append(sets, c+" = excluded."+c)
	}
	b.WriteString(strings.Join(sets, ", "))
	return b.String()
}
