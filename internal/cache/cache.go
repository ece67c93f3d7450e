package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/spf13/viper"
	_ "modernc.org/sqlite"
)

const (
	// DefaultCacheTTL is used when cache.ttl is unset or unparsable (30 days).
	DefaultCacheTTL = 720 * time.Hour
	DefaultDBFile   = "./cache.db"
)

// FetchFunc produces the value for a cache miss.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// CacheDB is a key/value cache of JSON documents, one SQLite table per kind.
// The single connection serialises access.
type CacheDB struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

var (
	globalMu    sync.Mutex
	globalCache *CacheDB
)

// GetGlobalCache returns the process-wide cache, opening cache.dbfile on
// first use.
func GetGlobalCache() (*CacheDB, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalCache != nil {
		return globalCache, nil
	}
	path := viper.GetString("cache.dbfile")
	if path == "" {
		path = DefaultDBFile
	}
	c, err := Open(path)
	if err != nil {
		return nil, err
	}
	globalCache = c
	return c, nil
}

// ResetGlobalCache closes the global cache so the next GetGlobalCache
// reopens it, possibly at a different path.
func ResetGlobalCache() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalCache == nil {
		return nil
	}
	err := globalCache.Close()
	globalCache = nil
	return err
}

// Open opens the database at path and creates every cache table.
func Open(path string) (*CacheDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to connect to cache database %s: %w", path, err), db.Close())
	}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf(tableSchemaTemplate, table)); err != nil {
			return nil, errors.Join(fmt.Errorf("failed to create cache table %s: %w", table, err), db.Close())
		}
	}
	return &CacheDB{db: db, path: path, now: time.Now}, nil
}

func (c *CacheDB) Path() string {
	return c.path
}

func (c *CacheDB) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// TTL returns the configured cache.ttl, falling back to DefaultCacheTTL.
func TTL() time.Duration {
	raw := viper.GetString("cache.ttl")
	if raw == "" {
		return DefaultCacheTTL
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil || ttl <= 0 {
		slog.Warn("Invalid cache TTL, using default", "ttl", raw, "default", DefaultCacheTTL)
		return DefaultCacheTTL
	}
	return ttl
}

// GetOrFetch returns the cached value for key or fetches and stores it.
// The boolean reports a cache hit. Cache failures only cost the cache:
// the value is fetched directly.
func GetOrFetch[T any](ctx context.Context, table, key string, fetch FetchFunc[T]) (T, bool, error) {
	return GetOrFetchIf(ctx, table, key, fetch, nil)
}

// GetOrFetchIf is GetOrFetch storing only values keep accepts. A nil keep
// stores everything.
func GetOrFetchIf[T any](ctx context.Context, table, key string, fetch FetchFunc[T], keep func(T) bool) (T, bool, error) {
	c, err := GetGlobalCache()
	if err != nil {
		slog.Warn("Cache unavailable, fetching directly", "error", err)
		v, err := fetch(ctx)
		return v, false, err
	}

	if data, hit, err := c.Get(ctx, table, key, TTL()); err != nil {
		slog.Warn("Cache read failed", "table", table, "key", key, "error", err)
	} else if hit {
		var v T
		if err := json.Unmarshal([]byte(data), &v); err == nil {
			slog.Debug("Cache hit", "table", table, "key", key)
			return v, true, nil
		}
		slog.Warn("Discarding undecodable cache entry", "table", table, "key", key)
	}

	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}
	if keep != nil && !keep(v) {
		return v, false, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("Value not cacheable", "table", table, "key", key, "error", err)
		return v, false, nil
	}
	if err := c.Set(ctx, table, key, string(data)); err != nil {
		slog.Warn("Cache write failed", "table", table, "key", key, "error", err)
	}
	return v, false, nil
}

// Get returns the value for key when it is younger than ttl.
func (c *CacheDB) Get(ctx context.Context, table, key string, ttl time.Duration) (string, bool, error) {
	if err := checkTable(table); err != nil {
		return "", false, err
	}

	var data string
	var cachedAt int64
	err := c.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT data, cached_at FROM %s WHERE cache_key = ?`, table), key,
	).Scan(&data, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query cache: %w", err)
	}

	if age := c.now().Sub(time.Unix(cachedAt, 0)); age > ttl {
		slog.Debug("Cache expired", "table", table, "key", key, "age", age.Round(time.Second))
		return "", false, nil
	}
	return data, true, nil
}

// Set stores data under key, replacing any older entry.
func (c *CacheDB) Set(ctx context.Context, table, key, data string) error {
	if err := checkTable(table); err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (cache_key, data, cached_at) VALUES (?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET data = excluded.data, cached_at = excluded.cached_at`, table)
	if _, err := c.db.ExecContext(ctx, query, key, data, c.now().Unix()); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Has reports whether key is stored, expired or not.
func (c *CacheDB) Has(ctx context.Context, table, key string) bool {
	if checkTable(table) != nil {
		return false
	}
	var one int
	err := c.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT 1 FROM %s WHERE cache_key = ? LIMIT 1`, table), key,
	).Scan(&one)
	return err == nil
}

// Invalidate deletes every entry of table and returns how many were removed.
func (c *CacheDB) Invalidate(ctx context.Context, table string) (int64, error) {
	return c.deleteWhere(ctx, table, "1 = 1")
}

// ClearExpired deletes entries older than ttl and returns how many were removed.
func (c *CacheDB) ClearExpired(ctx context.Context, table string, ttl time.Duration) (int64, error) {
	return c.deleteWhere(ctx, table, "cached_at < ?", c.now().Add(-ttl).Unix())
}

func (c *CacheDB) deleteWhere(ctx context.Context, table, where string, args ...any) (int64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}

	res, err := c.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s`, table, where), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted rows: %w", err)
	}
	slog.Debug("Cache entries deleted", "table", table, "rows", n)
	return n, nil
}

func checkTable(table string) error {
	if !slices.Contains(tables, table) {
		return fmt.Errorf("invalid cache table name: %s", table)
	}
	return nil
}
