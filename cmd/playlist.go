package cmd

import (
	"context"
	"log/slog"

	"github.com/lepinkainen/mixdl/internal/pipeline"
	"github.com/lepinkainen/mixdl/internal/tracklist"
)

// PlaylistCmd downloads one track per playlist item
type PlaylistCmd struct {
	Ref   string `arg:"" help:"Playlist URL or ID"`
	JSON  bool   `help:"Also write the run report as JSON"`
	NoTag bool   `help:"Do not write ID3 tags"`
}

func (p *PlaylistCmd) Run(ctx context.Context) error {
	info, err := newPlaylistSource().Info(ctx, p.Ref)
	if err != nil {
		return err
	}

	queries := newResolver().ResolveCandidates(tracklist.ExtractFromPlaylist(info.PlaylistTitles))
	slog.Info("Playlist loaded", "source", p.Ref, "title", info.Title, "tracks", len(queries))

	job := pipeline.Job{
		Source:      p.Ref,
		SourceTitle: info.Title,
		Tracklist:   tracklist.SourcePlaylist.String(),
		Queries:     queries,
		NoTracklist: len(queries) == 0,
		WriteJSON:   p.JSON,
		Tag:         !p.NoTag,
	}
	return finish(runJob(ctx, job))
}
