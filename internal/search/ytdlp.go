package search

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/lepinkainen/mixdl/internal/cache"
	"github.com/lepinkainen/mixdl/internal/ratelimit"
	"github.com/lepinkainen/mixdl/internal/ytdl"
)

// DefaultSearchInterval spaces out consecutive yt-dlp searches.
const DefaultSearchInterval = time.Second

// YTDLPSearcher searches YouTube through yt-dlp's ytsearchN: pseudo-URL.
type YTDLPSearcher struct {
	runner   ytdl.Runner
	limiter  *ratelimit.Limiter
	useCache bool
}

// Option configures a YTDLPSearcher.
type Option func(*YTDLPSearcher)

// WithRunner replaces the yt-dlp runner.
func WithRunner(r ytdl.Runner) Option {
	return func(s *YTDLPSearcher) {
		s.runner = r
	}
}

// WithInterval sets the minimum spacing between searches.
func WithInterval(d time.Duration) Option {
	return func(s *YTDLPSearcher) {
		s.limiter = ratelimit.NewInterval("yt-dlp search", d)
	}
}

// WithCache stores non-empty results in the search cache table.
func WithCache(enabled bool) Option {
	return func(s *YTDLPSearcher) {
		s.useCache = enabled
	}
}

// NewYTDLPSearcher creates a searcher backed by the yt-dlp binary.
func NewYTDLPSearcher(opts ...Option) *YTDLPSearcher {
	s := &YTDLPSearcher{
		runner:  ytdl.DefaultRunner,
		limiter: ratelimit.NewInterval("yt-dlp search", DefaultSearchInterval),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search implements Provider.
func (s *YTDLPSearcher) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit < 1 {
		limit = 1
	}

	fetch := func(ctx context.Context) ([]Result, error) {
		return s.search(ctx, query, limit)
	}
	if !s.useCache {
		return fetch(ctx)
	}

	key := strconv.Itoa(limit) + ":" + query
	results, _, err := cache.GetOrFetchIf(ctx, cache.SearchTable, key, fetch, func(r []Result) bool {
		return len(r) > 0
	})
	return results, err
}

func (s *YTDLPSearcher) search(ctx context.Context, query string, limit int) ([]Result, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	cmd := ytdl.Base().
		FlatPlaylist().
		DumpSingleJSON()

	out, err := s.runner.Run(ctx, cmd, fmt.Sprintf("ytsearch%d:%s", limit, query))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	info, err := ytdl.ParseVideoInfo([]byte(out))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	results := make([]Result, 0, limit)
	for _, entry := range info.Entries {
		if len(results) == limit {
			break
		}
		locator := entry.Locator()
		if locator == "" {
			continue
		}
		results = append(results, Result{Locator: locator, Title: entry.Title})
	}
	return results, nil
}
