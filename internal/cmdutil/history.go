package cmdutil

import (
	"context"
	"time"

	"github.com/lepinkainen/mixdl/internal/datastore"
	"github.com/lepinkainen/mixdl/internal/fetch"
)

// HistoryRow is one outcome of one run as stored in the history table.
type HistoryRow struct {
	RunID       string `db:"run_id"`
	Position    int    `db:"position"`
	Source      string `db:"source"`
	SourceTitle string `db:"source_title"`
	Tracklist   string `db:"tracklist"`
	Destination string `db:"destination"`
	DisplayName string `db:"display_name"`
	SearchText  string `db:"search_text"`
	Status      string `db:"status"`
	Detail      string `db:"detail"`
	Locator     string `db:"locator"`
	OutputPath  string `db:"output_path"`
	StartedAt   time.Time
	FinishedAt  time.Time
	Interrupted bool `db:"interrupted"`
}

// HistoryRows flattens a report into history rows, positions starting at 1.
func HistoryRows(r *fetch.RunReport) []HistoryRow {
	rows := make([]HistoryRow, 0, len(r.Outcomes))
	for i, o := range r.Outcomes {
		rows = append(rows, HistoryRow{
			RunID:       r.RunID,
			Position:    i + 1,
			Source:      r.Source,
			SourceTitle: r.SourceTitle,
			Tracklist:   r.Tracklist,
			Destination: r.Destination,
			DisplayName: o.Query.DisplayName,
			SearchText:  o.Query.SearchText,
			Status:      string(o.Status),
			Detail:      o.Detail,
			Locator:     o.Locator,
			OutputPath:  o.OutputPath,
			StartedAt:   r.StartedAt,
			FinishedAt:  r.FinishedAt,
			Interrupted: r.Interrupted,
		})
	}
	return rows
}

// RecordHistory appends the run's outcomes to the history store.
func RecordHistory(ctx context.Context, r *fetch.RunReport) error {
	return WriteToDatastore(ctx, HistoryRows(r), datastore.HistorySchema, datastore.HistoryTable, "run history", StructToMap[HistoryRow])
}
