package source

import (
	"context"
	"net/http"
	"time"

	"github.com/kkdai/youtube/v2"

	mixerrors "github.com/lepinkainen/mixdl/internal/errors"
)

// NativeProvider reads video metadata over YouTube's player API without
// the yt-dlp binary. It has no chapter or caption data, so only
// description tracklists resolve through it.
type NativeProvider struct {
	client *youtube.Client
}

// NewNativeProvider creates a provider. A nil httpClient uses a 30s timeout.
func NewNativeProvider(httpClient *http.Client) *NativeProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &NativeProvider{client: &youtube.Client{HTTPClient: httpClient}}
}

// Info implements Provider.
func (p *NativeProvider) Info(ctx context.Context, ref string) (*Info, error) {
	video, err := p.client.GetVideoContext(ctx, ref)
	if err != nil {
		return nil, mixerrors.NewSourceUnreachableError(ref, err)
	}

	info := &Info{
		Ref:         ref,
		Title:       video.Title,
		Description: video.Description,
		Uploader:    video.Author,
		WebpageURL:  watchURL(video.ID),
	}

	var bestWidth uint
	for _, thumb := range video.Thumbnails {
		if w := uint(thumb.Width); w >= bestWidth {
			bestWidth = w
			info.Thumbnail = thumb.URL
		}
	}
	return info, nil
}

// Playlist lists playlist items over the player API.
func (p *NativeProvider) Playlist(ctx context.Context, ref string) (string, []PlaylistItem, error) {
	playlist, err := p.client.GetPlaylistContext(ctx, ref)
	if err != nil {
		return "", nil, err
	}

	items := make([]PlaylistItem, 0, len(playlist.Videos))
	for _, entry := range playlist.Videos {
		if entry == nil {
			continue
		}
		items = append(items, PlaylistItem{ID: entry.ID, Title: entry.Title})
	}
	return playlist.Title, items, nil
}
