package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	ytget "github.com/ytget/ytdlp/v2"

	mixerrors "github.com/lepinkainen/mixdl/internal/errors"
)

const watchURLTemplate = "https://www.youtube.com/watch?v=%s"

// DefaultPlaylistName is used when no lister reports a playlist title.
const DefaultPlaylistName = "Unknown Playlist"

var playlistIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{10,}$`)

// PlaylistItem is one video of a playlist.
type PlaylistItem struct {
	ID    string
	Title string
}

// PlaylistLister lists the items of a playlist. The title may be empty.
type PlaylistLister interface {
	Playlist(ctx context.Context, ref string) (title string, items []PlaylistItem, err error)
}

// PlaylistListerFunc adapts a function to PlaylistLister.
type PlaylistListerFunc func(ctx context.Context, ref string) (string, []PlaylistItem, error)

// Playlist calls f.
func (f PlaylistListerFunc) Playlist(ctx context.Context, ref string) (string, []PlaylistItem, error) {
	return f(ctx, ref)
}

// ExtractPlaylistID returns the list= parameter of a playlist URL, or ref
// itself when it already looks like a bare playlist ID.
func ExtractPlaylistID(ref string) string {
	ref = strings.TrimSpace(ref)
	if u, err := url.Parse(ref); err == nil && u.Host != "" {
		return u.Query().Get("list")
	}
	if playlistIDPattern.MatchString(ref) {
		return ref
	}
	return ""
}

// YTGetLister pages through a playlist with the ytget innertube client.
type YTGetLister struct{}

// Playlist implements PlaylistLister. ytget does not report playlist titles.
func (YTGetLister) Playlist(ctx context.Context, ref string) (string, []PlaylistItem, error) {
	id := ExtractPlaylistID(ref)
	if id == "" {
		return "", nil, fmt.Errorf("could not extract playlist ID from %q", ref)
	}

	entries, err := ytget.New().GetPlaylistItemsAll(ctx, id, 0)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	items := make([]PlaylistItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, PlaylistItem{ID: e.VideoID, Title: e.Title})
	}
	return "", items, nil
}

// PlaylistProvider turns playlist items into an Info whose PlaylistTitles
// feed the playlist extractor.
type PlaylistProvider struct {
	listers []PlaylistLister
}

// NewPlaylistProvider tries listers in order until one returns items.
func NewPlaylistProvider(listers ...PlaylistLister) *PlaylistProvider {
	return &PlaylistProvider{listers: listers}
}

// Info implements Provider.
func (p *PlaylistProvider) Info(ctx context.Context, ref string) (*Info, error) {
	if ExtractPlaylistID(ref) == "" {
		return nil, mixerrors.NewSourceUnreachableError(ref, fmt.Errorf("not a playlist reference"))
	}

	var (
		errs  []error
		empty *Info
	)
	for _, lister := range p.listers {
		title, items, err := lister.Playlist(ctx, ref)
		if err != nil {
			slog.Debug("Playlist lister failed", "source", ref, "error", err)
			errs = append(errs, err)
			continue
		}
		if len(items) == 0 {
			slog.Debug("Playlist lister returned no items", "source", ref)
			if empty == nil {
				empty = playlistInfo(ref, title, nil)
			}
			continue
		}
		return playlistInfo(ref, title, items), nil
	}

	// Reachable but empty is not an error; the caller reports no tracklist.
	if empty != nil {
		return empty, nil
	}

	if len(errs) == 0 {
		errs = append(errs, errors.New("no playlist listers configured"))
	}
	return nil, mixerrors.NewSourceUnreachableError(ref, errors.Join(errs...))
}

func playlistInfo(ref, title string, items []PlaylistItem) *Info {
	if title == "" {
		title = DefaultPlaylistName
	}
	info := &Info{
		Ref:            ref,
		Title:          title,
		PlaylistTitles: make([]string, 0, len(items)),
	}
	if id := ExtractPlaylistID(ref); id != "" {
		info.WebpageURL = "https://www.youtube.com/playlist?list=" + id
	}
	for _, it := range items {
		info.PlaylistTitles = append(info.PlaylistTitles, it.Title)
	}
	return info
}

func watchURL(id string) string {
	if id == "" {
		return ""
	}
	return fmt.Sprintf(watchURLTemplate, id)
}
