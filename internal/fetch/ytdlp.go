package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/lepinkainen/mixdl/internal/fileutil"
	"github.com/lepinkainen/mixdl/internal/ytdl"
)

// YTDLPFetcher downloads the best audio stream and transcodes it with ffmpeg.
type YTDLPFetcher struct {
	runner    ytdl.Runner
	format    string
	quality   string
	overwrite bool
	progress  io.Writer
}

// FetcherOption configures a YTDLPFetcher.
type FetcherOption func(*YTDLPFetcher)

// WithFetchRunner replaces the yt-dlp runner.
func WithFetchRunner(r ytdl.Runner) FetcherOption {
	return func(f *YTDLPFetcher) {
		f.runner = r
	}
}

// WithAudio sets the target audio format and quality.
func WithAudio(format, quality string) FetcherOption {
	return func(f *YTDLPFetcher) {
		if format != "" {
			f.format = format
		}
		if quality != "" {
			f.quality = quality
		}
	}
}

// WithOverwrite re-downloads tracks whose file already exists.
func WithOverwrite(overwrite bool) FetcherOption {
	return func(f *YTDLPFetcher) {
		f.overwrite = overwrite
	}
}

// WithProgress draws a progress bar on w. Non-terminal writers are ignored.
func WithProgress(w *os.File) FetcherOption {
	return func(f *YTDLPFetcher) {
		if w != nil && (isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())) {
			f.progress = w
		}
	}
}

// NewYTDLPFetcher creates a fetcher producing 192 kbps MP3 by default.
func NewYTDLPFetcher(opts ...FetcherOption) *YTDLPFetcher {
	f := &YTDLPFetcher{
		runner:  ytdl.DefaultRunner,
		format:  "mp3",
		quality: "192",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// OutputPath is where a track named name ends up inside destination.
func (f *YTDLPFetcher) OutputPath(name, destination string) string {
	return filepath.Join(destination, fileutil.SanitizeFilename(name)+"."+f.format)
}

// Fetch implements Fetcher.
func (f *YTDLPFetcher) Fetch(ctx context.Context, locator, name, destination string) (Result, error) {
	target := f.OutputPath(name, destination)
	if fileutil.FileExists(target) && !f.overwrite {
		return Result{Path: target, AlreadyPresent: true}, nil
	}

	// yt-dlp treats % in the output template as a field reference.
	base := strings.ReplaceAll(strings.TrimSuffix(target, filepath.Ext(target)), "%", "%%")
	cmd := ytdl.Base().
		Format("bestaudio/best").
		ExtractAudio().
		AudioFormat(f.format).
		AudioQuality(f.quality).
		NoPlaylist().
		ForceOverwrites().
		Output(base + ".%(ext)s")

	if f.progress != nil {
		bar := progressbar.NewOptions64(-1,
			progressbar.OptionSetWriter(f.progress),
			progressbar.OptionSetDescription(truncate(name, 40)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		defer func() { _ = bar.Finish() }()

		cmd.ProgressFunc(250*time.Millisecond, func(update ytdlp.ProgressUpdate) {
			if update.TotalBytes > 0 {
				bar.ChangeMax64(int64(update.TotalBytes))
			}
			_ = bar.Set64(int64(update.DownloadedBytes))
		})
	}

	if _, err := f.runner.Run(ctx, cmd, locator); err != nil {
		return Result{}, err
	}

	if !fileutil.FileExists(target) {
		return Result{}, fmt.Errorf("yt-dlp finished but %s is missing", filepath.Base(target))
	}
	return Result{Path: target}, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
