package datastore

import (
	"context"
	"slices"
)

// Store is a sink for run history rows. Records are column name to value
// maps; a batch is written completely or not at all where the backend allows.
type Store interface {
	Connect(ctx context.Context) error
	// CreateTable runs an idempotent CREATE TABLE statement.
	CreateTable(ctx context.Context, schema string) error
	BatchInsert(ctx context.Context, database, table string, records []map[string]any) error
	Close() error
}

// columnsOf returns every column used by records in sorted order, so rows
// with missing keys insert NULL instead of failing.
func columnsOf(records []map[string]any) []string {
	seen := make(map[string]struct{})
	var columns []string
	for _, record := range records {
		for col := range record {
			if _, ok := seen[col]; ok {
				continue
			}
			seen[col] = struct{}{}
			columns = append(columns, col)
		}
	}
	slices.Sort(columns)
	return columns
}
