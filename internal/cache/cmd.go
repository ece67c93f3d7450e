package cache

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// InvalidateCacheCmd clears one cache table.
type InvalidateCacheCmd struct {
	Source string `arg:"" help:"Cache to invalidate: search, source" required:""`
}

func (i *InvalidateCacheCmd) Run(ctx context.Context) error {
	table, ok := Sources[i.Source]
	if !ok {
		names := slices.Sorted(maps.Keys(Sources))
		return fmt.Errorf("invalid cache source %q; valid sources are: %s", i.Source, strings.Join(names, ", "))
	}

	c, err := GetGlobalCache()
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	n, err := c.Invalidate(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	slog.Info("Cache invalidated", "source", i.Source, "database", c.Path(), "rows_deleted", n)
	return nil
}

// PruneCacheCmd removes entries older than cache.ttl from every table.
type PruneCacheCmd struct{}

func (p *PruneCacheCmd) Run(ctx context.Context) error {
	c, err := GetGlobalCache()
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	ttl := TTL()
	var total int64
	for _, table := range tables {
		n, err := c.ClearExpired(ctx, table, ttl)
		if err != nil {
			return fmt.Errorf("failed to prune %s: %w", table, err)
		}
		total += n
	}
	slog.Info("Cache pruned", "ttl", ttl, "rows_deleted", total)
	return nil
}
