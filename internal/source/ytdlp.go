package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/lepinkainen/mixdl/internal/cache"
	mixerrors "github.com/lepinkainen/mixdl/internal/errors"
	"github.com/lepinkainen/mixdl/internal/ytdl"
)

// YTDLPProvider reads metadata with yt-dlp --dump-single-json.
type YTDLPProvider struct {
	runner   ytdl.Runner
	useCache bool
}

// NewYTDLPProvider creates a provider. A nil runner uses the yt-dlp binary.
func NewYTDLPProvider(runner ytdl.Runner, useCache bool) *YTDLPProvider {
	if runner == nil {
		runner = ytdl.DefaultRunner
	}
	return &YTDLPProvider{runner: runner, useCache: useCache}
}

// Info implements Provider.
func (p *YTDLPProvider) Info(ctx context.Context, ref string) (*Info, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, mixerrors.NewSourceUnreachableError(ref, fmt.Errorf("empty source reference"))
	}

	fetch := func(ctx context.Context) (*Info, error) {
		return p.fetch(ctx, ref)
	}

	var (
		info *Info
		err  error
	)
	if p.useCache {
		info, _, err = cache.GetOrFetch(ctx, cache.SourceTable, ref, fetch)
	} else {
		info, err = fetch(ctx)
	}
	if err != nil {
		return nil, mixerrors.NewSourceUnreachableError(ref, err)
	}
	return info, nil
}

func (p *YTDLPProvider) fetch(ctx context.Context, ref string) (*Info, error) {
	cmd := ytdl.Base().
		SkipDownload().
		NoPlaylist().
		DumpSingleJSON()

	out, err := p.runner.Run(ctx, cmd, ref)
	if err != nil {
		return nil, err
	}

	v, err := ytdl.ParseVideoInfo([]byte(out))
	if err != nil {
		return nil, err
	}

	return &Info{
		Ref:             ref,
		Title:           v.Title,
		Description:     v.Description,
		Uploader:        v.Uploader,
		WebpageURL:      v.Locator(),
		Thumbnail:       v.Thumbnail,
		Chapters:        v.Chapters,
		CaptionMetadata: v.AutomaticCaptions,
	}, nil
}
