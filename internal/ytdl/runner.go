package ytdl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lrstanley/go-ytdlp"

	mixerrors "github.com/lepinkainen/mixdl/internal/errors"
)

// Runner executes a prepared yt-dlp command against one target and returns stdout.
type Runner interface {
	Run(ctx context.Context, cmd *ytdlp.Command, target string) (string, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cmd *ytdlp.Command, target string) (string, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, cmd *ytdlp.Command, target string) (string, error) {
	return f(ctx, cmd, target)
}

type binaryRunner struct{}

func (binaryRunner) Run(ctx context.Context, cmd *ytdlp.Command, target string) (string, error) {
	res, err := cmd.Run(ctx, target)
	if err == nil {
		return res.Stdout, nil
	}

	var stderr string
	if res != nil {
		stderr = res.Stderr
	}
	if mixerrors.LooksRateLimited(stderr) || mixerrors.LooksRateLimited(err.Error()) {
		return "", fmt.Errorf("yt-dlp %s: %w", target, mixerrors.NewRateLimitError("yt-dlp hit 429 Too Many Requests"))
	}
	if stderr != "" {
		slog.Debug("yt-dlp stderr", "target", target, "stderr", stderr)
	}
	return "", fmt.Errorf("yt-dlp %s: %w", target, err)
}

// DefaultRunner invokes the yt-dlp binary found on PATH (or installed by Install).
var DefaultRunner Runner = binaryRunner{}

// Base returns a command with the flags every invocation shares.
func Base() *ytdlp.Command {
	return ytdlp.New().
		NoWarnings().
		IgnoreConfig()
}

// Install downloads a pinned yt-dlp build into the user cache if none is available.
func Install(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	return nil
}
