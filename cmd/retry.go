package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/lepinkainen/mixdl/internal/fileutil"
	"github.com/lepinkainen/mixdl/internal/pipeline"
	"github.com/lepinkainen/mixdl/internal/report"
)

// RetryCmd re-runs the tracks of a previous run that were not downloaded
type RetryCmd struct {
	Note  string `arg:"" help:"Run report note (mixdl-report.md) of a previous run" type:"existingfile"`
	JSON  bool   `help:"Also write the run report as JSON"`
	NoTag bool   `help:"Do not write ID3 tags"`
}

func (r *RetryCmd) Run(ctx context.Context) error {
	note, err := report.ReadNote(r.Note)
	if err != nil {
		return err
	}
	if len(note.Pending) == 0 {
		slog.Info("Nothing to retry", "note", r.Note, "source", note.Source)
		return nil
	}

	// The note lives inside its destination. The recorded path may be
	// relative to the working directory of the earlier run.
	dest, err := filepath.Abs(filepath.Dir(r.Note))
	if err != nil {
		return err
	}
	if note.Destination != "" && filepath.Clean(note.Destination) != dest {
		slog.Debug("Using note directory as destination", "recorded", note.Destination, "destination", dest)
	}
	slog.Info("Retrying tracks", "source", note.Source, "destination", dest, "tracks", len(note.Pending))

	job := pipeline.Job{
		Source:      note.Source,
		SourceTitle: note.SourceTitle,
		Tracklist:   "retry",
		Queries:     note.Pending,
		Destination: dest,
		CoverPath:   filepath.Join(dest, fileutil.CoverFilename),
		WriteJSON:   r.JSON,
		Tag:         !r.NoTag,
	}
	return finish(runJob(ctx, job))
}
