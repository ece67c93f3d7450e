package cmd

import (
	"context"
	"log/slog"

	mixerrors "github.com/lepinkainen/mixdl/internal/errors"
	"github.com/lepinkainen/mixdl/internal/pipeline"
)

// MixCmd downloads the tracklist of one mix video
type MixCmd struct {
	URL   string `arg:"" help:"Mix video URL or ID"`
	JSON  bool   `help:"Also write the run report as JSON"`
	NoTag bool   `help:"Do not write ID3 tags or embed the cover"`
}

func (m *MixCmd) Run(ctx context.Context) error {
	info, err := newMixSource().Info(ctx, m.URL)
	if err != nil {
		return err
	}
	slog.Info("Source loaded", "source", m.URL, "title", info.Title)

	job := pipeline.Job{
		Source:      m.URL,
		SourceTitle: info.Title,
		CoverURL:    info.Thumbnail,
		WriteJSON:   m.JSON,
		Tag:         !m.NoTag,
	}

	queries, src, err := newResolver().Resolve(info.TracklistInput())
	switch {
	case mixerrors.IsNoTracklistError(err):
		job.NoTracklist = true
	case err != nil:
		return err
	default:
		job.Queries = queries
		job.Tracklist = src.String()
		slog.Info("Tracklist resolved", "source", m.URL, "tracklist", job.Tracklist, "tracks", len(queries))
	}

	return finish(runJob(ctx, job))
}
