package cmd

import (
	"context"

	"github.com/lepinkainen/mixdl/internal/config"
	mixerrors "github.com/lepinkainen/mixdl/internal/errors"
	"github.com/lepinkainen/mixdl/internal/fetch"
	"github.com/lepinkainen/mixdl/internal/pipeline"
	"github.com/lepinkainen/mixdl/internal/source"
	"github.com/lepinkainen/mixdl/internal/tracklist"
	"github.com/lepinkainen/mixdl/internal/ytdl"
)

// Collaborators swapped in tests.
var (
	newMixSource = func() source.Provider {
		return source.Chain{
			source.NewYTDLPProvider(ytdl.DefaultRunner, true),
			source.NewNativeProvider(nil),
		}
	}
	newPlaylistSource = func() source.Provider {
		return source.NewPlaylistProvider(source.NewNativeProvider(nil), source.YTGetLister{})
	}
	runJob = func(ctx context.Context, job pipeline.Job) (*fetch.RunReport, error) {
		return pipeline.Run(ctx, job, pipeline.NewComponents())
	}
)

func newResolver() *tracklist.Resolver {
	return tracklist.NewResolver(
		tracklist.WithQualifier(config.Qualifier),
		tracklist.WithQualifierInFilename(config.QualifierInFilename),
	)
}

// finish turns an interrupted report into a StopProcessingError.
func finish(r *fetch.RunReport, err error) error {
	if err != nil {
		return err
	}
	if r != nil && r.Interrupted {
		return mixerrors.NewStopProcessingError(len(r.Skipped), len(r.Outcomes)+len(r.Skipped))
	}
	return nil
}
