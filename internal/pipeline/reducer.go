package pipeline

import (
	"sort"
	"strings"
	"time"
)

// excludedColumn reports whether a column never belongs in a reduced row:
// the auto-generated identifier and every betting-market field.
func excludedColumn(name string) bool {
	lower := strings.ToLower(name)
	if lower == "id" || lower == "asian_handicap_line" {
		return true
	}
	return strings.Contains(lower, "odds")
}

// Reduce projects a raw result set down to the rows handed to answer
// synthesis: null values and market fields are dropped, and when a date-like
// column is present the rows are stably sorted newest first. It is a pure
// function; the input result set is not modified.
func Reduce(rs *ResultSet) []Row {
	if rs == nil {
		return nil
	}

	out := make([]Row, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		reduced := make(Row, len(row))
		for _, col := range rs.Columns {
			v, ok := row[col]
			if !ok || v == nil || excludedColumn(col) {
				continue
			}
			reduced[col] = v
		}
		out = append(out, reduced)
	}

	if dateCol := dateColumn(rs); dateCol != "" {
		sort.SliceStable(out, func(i, j int) bool {
			return dateAfter(out[i][dateCol], out[j][dateCol])
		})
	}
	return out
}

// dateColumn returns the first selected column that looks like a date, or ""
// when the query selected none.
func dateColumn(rs *ResultSet) string {
	for _, col := range rs.Columns {
		if excludedColumn(col) {
			continue
		}
		lower := strings.ToLower(col)
		if lower == "date" || lower == "match_date" || strings.HasSuffix(lower, "_date") {
			return col
		}
		for _, row := range rs.Rows {
			if _, ok := row[col].(time.Time); ok {
				return col
			}
		}
	}
	return ""
}

// dateAfter orders values descending: true when a sorts before b. Rows
// missing the date value keep their place behind dated rows.
func dateAfter(a, b any) bool {
	ta, aOK := a.(time.Time)
	tb, bOK := b.(time.Time)
	switch {
	case aOK && bOK:
		return ta.After(tb)
	case aOK:
		return true
	case bOK:
		return false
	}
	if a == nil || b == nil {
		return a != nil && b == nil
	}
	sa, aOK := a.(string)
	sb, bOK := b.(string)
	if aOK && bOK {
		return sa > sb
	}
	return false
}
