package datastore

const (
	// HistoryDatabase is the Datasette database name runs are pushed to.
	HistoryDatabase = "mixdl"
	// HistoryTable holds one row per query outcome of every run.
	HistoryTable = "run_history"
)

// HistorySchema creates HistoryTable.
const HistorySchema = `CREATE TABLE IF NOT EXISTS run_history (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	source TEXT NOT NULL,
	source_title TEXT,
	tracklist TEXT,
	destination TEXT,
	display_name TEXT NOT NULL,
	search_text TEXT NOT NULL,
	status TEXT NOT NULL,
	detail TEXT,
	locator TEXT,
	output_path TEXT,
	started_at TEXT,
	finished_at TEXT,
	interrupted BOOLEAN,
	PRIMARY KEY (run_id, position)
)`
