package cache

const (
	// SearchTable caches search results per limit and search text.
	SearchTable = "search_cache"
	// SourceTable caches parsed source info per source reference.
	SourceTable = "source_cache"
)

// Sources maps the names accepted by `cache invalidate` to tables.
var Sources = map[string]string{
	"search": SearchTable,
	"source": SourceTable,
}

// tables are the only names ever interpolated into SQL.
var tables = []string{SearchTable, SourceTable}

// cached_at is unix seconds.
const tableSchemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_%[1]s_cached_at ON %[1]s(cached_at);
`
