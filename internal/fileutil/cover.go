package fileutil

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	// CoverFilename is the name of the mix artwork saved next to the tracks.
	CoverFilename = "cover.jpg"
	// DefaultCoverWidth bounds the artwork embedded into every track.
	DefaultCoverWidth = 600
)

// CoverDownloadOptions holds options for downloading cover images.
type CoverDownloadOptions struct {
	// URL is the source URL of the cover image
	URL string
	// OutputDir is the directory where the cover will be saved
	OutputDir string
	// MaxWidth bounds the saved image; larger images are scaled down
	MaxWidth int
	// Overwrite forces re-downloading even if the cover exists
	Overwrite bool
	// Client is used for the request; nil means a client with a 30s timeout
	Client *http.Client
}

// DownloadCover fetches the mix thumbnail and stores it as a JPEG.
// It returns an empty path when no URL is given.
func DownloadCover(ctx context.Context, opts CoverDownloadOptions) (string, error) {
	if opts.URL == "" {
		return "", nil
	}

	localPath := filepath.Join(opts.OutputDir, CoverFilename)
	if FileExists(localPath) && !opts.Overwrite {
		slog.Debug("Cover already exists, skipping download", "path", localPath)
		return localPath, nil
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	maxWidth := opts.MaxWidth
	if maxWidth <= 0 {
		maxWidth = DefaultCoverWidth
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build cover request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download cover: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d downloading cover from %s", resp.StatusCode, opts.URL)
	}

	img, err := imaging.Decode(resp.Body, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode cover: %w", err)
	}
	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	if err := EnsureDir(opts.OutputDir); err != nil {
		return "", err
	}
	if err := imaging.Save(img, localPath, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to save cover: %w", err)
	}

	slog.Info("Downloaded cover", "path", localPath)
	return localPath, nil
}
