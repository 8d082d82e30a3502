package pipeline

import "context"

// Row is one result row keyed by column name.
type Row map[string]any

// ResultSet carries query results with column names preserved in output order.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// RowQuerier executes one read statement against the relational store using a
// request-scoped connection and returns the full row set.
type RowQuerier interface {
	QueryRows(ctx context.Context, sqlText string) (*ResultSet, error)
}
