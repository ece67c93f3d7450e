// Package source reads mix and playlist metadata without downloading media.
package source

import (
	"context"
	"errors"
	"log/slog"

	mixerrors "github.com/lepinkainen/mixdl/internal/errors"
	"github.com/lepinkainen/mixdl/internal/tracklist"
)

// Info is the metadata of one source reference.
type Info struct {
	Ref             string                   `json:"ref"`
	Title           string                   `json:"title"`
	Description     string                   `json:"description"`
	Uploader        string                   `json:"uploader,omitempty"`
	WebpageURL      string                   `json:"webpage_url,omitempty"`
	Thumbnail       string                   `json:"thumbnail,omitempty"`
	Chapters        []tracklist.Chapter      `json:"chapters,omitempty"`
	CaptionMetadata []tracklist.CaptionEntry `json:"caption_metadata,omitempty"`
	// PlaylistTitles holds item titles when the reference is a playlist.
	PlaylistTitles []string `json:"playlist_titles,omitempty"`
}

// TracklistInput exposes the fields the resolver chooses from.
func (i *Info) TracklistInput() tracklist.Input {
	return tracklist.Input{
		Ref:             i.Ref,
		Description:     i.Description,
		Chapters:        i.Chapters,
		CaptionMetadata: i.CaptionMetadata,
	}
}

// Provider returns metadata for a source reference. Failures are
// SourceUnreachableError values.
type Provider interface {
	Info(ctx context.Context, ref string) (*Info, error)
}

// Chain tries providers in order and returns the first success.
type Chain []Provider

// Info implements Provider.
func (c Chain) Info(ctx context.Context, ref string) (*Info, error) {
	var errs []error
	for _, p := range c {
		info, err := p.Info(ctx, ref)
		if err == nil {
			return info, nil
		}
		if ctx.Err() != nil {
			return nil, mixerrors.NewSourceUnreachableError(ref, ctx.Err())
		}
		slog.Debug("Source provider failed, trying next", "source", ref, "error", err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		errs = append(errs, errors.New("no source providers configured"))
	}
	return nil, mixerrors.NewSourceUnreachableError(ref, errors.Join(errs...))
}
