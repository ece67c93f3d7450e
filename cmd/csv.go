package cmd

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/lepinkainen/mixdl/internal/csvutil"
	"github.com/lepinkainen/mixdl/internal/pipeline"
	"github.com/lepinkainen/mixdl/internal/tracklist"
)

var readTrackTitles = csvutil.ReadTrackTitles

// CSVCmd downloads the tracks listed in a playlist export
type CSVCmd struct {
	File  string `arg:"" type:"existingfile" help:"CSV export with a track title column"`
	Title string `help:"Folder title (defaults to the file name)"`
	JSON  bool   `help:"Also write the run report as JSON"`
	NoTag bool   `help:"Do not write ID3 tags"`
}

func (c *CSVCmd) Run(ctx context.Context) error {
	titles, err := readTrackTitles(c.File)
	if err != nil {
		return err
	}

	title := c.Title
	if title == "" {
		base := filepath.Base(c.File)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	queries := newResolver().ResolveCandidates(tracklist.ExtractFromPlaylist(titles))
	slog.Info("CSV loaded", "file", c.File, "tracks", len(queries))

	job := pipeline.Job{
		Source:      c.File,
		SourceTitle: title,
		Tracklist:   "csv",
		Queries:     queries,
		NoTracklist: len(queries) == 0,
		WriteJSON:   c.JSON,
		Tag:         !c.NoTag,
	}
	return finish(runJob(ctx, job))
}
