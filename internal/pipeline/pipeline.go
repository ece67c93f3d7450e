// Package pipeline runs one download job end to end: destination setup,
// locking, the fetch loop, tagging and reporting.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lepinkainen/mixdl/internal/cmdutil"
	"github.com/lepinkainen/mixdl/internal/config"
	"github.com/lepinkainen/mixdl/internal/fetch"
	"github.com/lepinkainen/mixdl/internal/fileutil"
	"github.com/lepinkainen/mixdl/internal/report"
	"github.com/lepinkainen/mixdl/internal/search"
	"github.com/lepinkainen/mixdl/internal/tagging"
	"github.com/lepinkainen/mixdl/internal/tracklist"
)

// Job is one resolved tracklist ready to be downloaded.
type Job struct {
	Source      string
	SourceTitle string
	// Tracklist names the extractor that produced Queries
	Tracklist string
	Queries   []tracklist.ResolvedQuery
	// NoTracklist reports a source without a tracklist; nothing is fetched
	NoTracklist bool
	// CoverURL is the mix artwork embedded into every tagged track
	CoverURL string
	// CoverPath is artwork already on disk; it takes precedence over CoverURL
	CoverPath string
	// OutputDir is the base directory; empty uses output_dir from config
	OutputDir string
	// Destination overrides the set folder derived from SourceTitle
	Destination string
	WriteJSON   bool
	Tag         bool
}

// Components are the collaborators a job runs with.
type Components struct {
	Matcher       fetch.Matcher
	Fetcher       fetch.Fetcher
	Delay         time.Duration
	Sleep         func(ctx context.Context, d time.Duration) error
	DownloadCover func(ctx context.Context, opts fileutil.CoverDownloadOptions) (string, error)
	RecordHistory func(ctx context.Context, r *fetch.RunReport) error
	Out           io.Writer
}

// NewComponents wires the yt-dlp backed search and fetch from the global config.
func NewComponents() *Components {
	searcher := search.NewYTDLPSearcher(search.WithCache(true))
	fetcher := fetch.NewYTDLPFetcher(
		fetch.WithAudio(config.AudioFormat, config.AudioQuality),
		fetch.WithOverwrite(config.OverwriteFiles),
		fetch.WithProgress(os.Stderr),
	)
	return &Components{
		Matcher:       search.NewMatcher(searcher),
		Fetcher:       fetcher,
		Delay:         config.Delay,
		DownloadCover: fileutil.DownloadCover,
		RecordHistory: cmdutil.RecordHistory,
		Out:           os.Stdout,
	}
}

// Run executes job. Only setup failures are returned; per-track failures
// live in the report.
func Run(ctx context.Context, job Job, c *Components) (*fetch.RunReport, error) {
	if job.NoTracklist {
		now := time.Now()
		r := &fetch.RunReport{
			RunID:       uuid.NewString(),
			Source:      job.Source,
			SourceTitle: job.SourceTitle,
			StartedAt:   now,
			FinishedAt:  now,
			NoTracklist: true,
		}
		slog.Warn("No tracklist found, nothing to download", "source", job.Source)
		if err := report.Print(c.out(), r); err != nil {
			slog.Error("Failed to print report", "error", err)
		}
		return r, nil
	}

	dest := &cmdutil.DestinationConfig{
		OutputDir:   job.OutputDir,
		Title:       job.SourceTitle,
		Destination: job.Destination,
		WriteJSON:   job.WriteJSON,
	}
	if err := cmdutil.SetupDestination(dest); err != nil {
		return nil, fmt.Errorf("failed to provision destination: %w", err)
	}

	lock, err := fileutil.LockDir(dest.Destination)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("Failed to release lock", "destination", dest.Destination, "error", err)
		}
	}()

	slog.Info("Starting downloads", "source", job.Source, "destination", dest.Destination, "tracks", len(job.Queries))

	coverPath := ""
	if job.CoverPath != "" && fileutil.FileExists(job.CoverPath) {
		coverPath = job.CoverPath
	} else if job.Tag && job.CoverURL != "" && c.DownloadCover != nil {
		coverPath, err = c.DownloadCover(ctx, fileutil.CoverDownloadOptions{
			URL:       job.CoverURL,
			OutputDir: dest.Destination,
			MaxWidth:  fileutil.DefaultCoverWidth,
		})
		if err != nil {
			slog.Warn("Failed to download cover", "source", job.Source, "error", err)
			coverPath = ""
		}
	}

	opts := []fetch.Option{fetch.WithDelay(c.Delay)}
	if c.Sleep != nil {
		opts = append(opts, fetch.WithSleep(c.Sleep))
	}
	if job.Tag {
		opts = append(opts, fetch.WithOutcomeHook(tagHook(job, coverPath)))
	}

	r := fetch.NewOrchestrator(c.Matcher, c.Fetcher, opts...).Run(ctx, job.Queries, dest.Destination)
	r.Source = job.Source
	r.SourceTitle = job.SourceTitle
	r.Tracklist = job.Tracklist

	if err := report.Print(c.out(), r); err != nil {
		slog.Error("Failed to print report", "error", err)
	}
	if err := report.WriteNote(r, dest.NotePath); err != nil {
		slog.Error("Failed to write report note", "path", dest.NotePath, "error", err)
	} else {
		slog.Info("Wrote report note", "path", dest.NotePath)
	}
	if dest.WriteJSON {
		if err := report.WriteJSON(r, dest.JSONOutput); err != nil {
			slog.Error("Failed to write JSON report", "path", dest.JSONOutput, "error", err)
		}
	}
	if c.RecordHistory != nil {
		// An interrupted run is still recorded.
		if err := c.RecordHistory(context.WithoutCancel(ctx), r); err != nil {
			slog.Warn("Failed to record run history", "error", err)
		}
	}
	return r, nil
}

func (c *Components) out() io.Writer {
	if c.Out == nil {
		return io.Discard
	}
	return c.Out
}

// tagHook tags freshly downloaded MP3s. Files that were already present keep
// their tags.
func tagHook(job Job, coverPath string) fetch.OutcomeFunc {
	return func(index, total int, o fetch.Outcome) {
		if o.Status != fetch.StatusDownloaded || o.Detail == fetch.DetailAlreadyPresent {
			return
		}
		if !strings.EqualFold(filepath.Ext(o.OutputPath), ".mp3") {
			return
		}
		meta := tagging.MetaFromDisplayName(o.Query.DisplayName)
		meta.Album = job.SourceTitle
		meta.TrackNumber = index + 1
		meta.TrackTotal = total
		meta.Comment = job.Source
		meta.CoverPath = coverPath
		if err := tagging.Write(o.OutputPath, meta); err != nil {
			slog.Warn("Failed to tag track", "track", o.Query.DisplayName, "path", o.OutputPath, "error", err)
		}
	}
}
