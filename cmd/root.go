package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/mixdl/internal/cache"
	"github.com/lepinkainen/mixdl/internal/config"
)

// Exit codes returned by Execute.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

// CLI represents the complete command structure for the mixdl application
type CLI struct {
	// Global flags
	OutputDir           string `help:"Base directory; each set gets its own folder below it"`
	Qualifier           string `help:"Text appended to every track title before searching (default \" Extended Mix\")"`
	NoQualifier         bool   `help:"Search for the bare track titles"`
	QualifierInFilename string `help:"Keep the qualifier in file names (true or false)" placeholder:"BOOL"`
	Delay               string `help:"Minimum pause between tracks, e.g. 2s"`
	Overwrite           bool   `help:"Re-download tracks whose file already exists"`
	Verbose             bool   `short:"v" help:"Enable debug logging"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 720h for 30 days)"`

	// History flags
	NoHistory bool   `help:"Do not record run history"`
	HistoryDB string `help:"Path to run history SQLite database file"`

	Mix       MixCmd       `cmd:"" help:"Download every track of a DJ mix"`
	Playlist  PlaylistCmd  `cmd:"" help:"Download the extended versions of a playlist's tracks"`
	CSV       CSVCmd       `cmd:"" name:"csv" help:"Download the extended versions of tracks in a CSV export"`
	Tracklist TracklistCmd `cmd:"" help:"Show the tracklist of a mix without downloading"`
	Retry     RetryCmd     `cmd:"" help:"Retry the tracks a previous run did not download"`
	Library   LibraryCmd   `cmd:"" help:"List downloaded tracks and their tags"`
	Cache     CacheCmd     `cmd:"" help:"Manage the search and source cache"`
	Doctor    DoctorCmd    `cmd:"" help:"Check for yt-dlp and ffmpeg"`
}

// CacheCmd groups the cache maintenance subcommands
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Clear one cache table"`
	Prune      cache.PruneCacheCmd      `cmd:"" help:"Remove expired cache entries"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(false)
	initConfig()

	var cli CLI

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	kctx := kong.Parse(&cli,
		kong.Name("mixdl"),
		kong.Description("Download the tracks of a DJ mix as separate audio files."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	if cli.Verbose {
		initLogging(true)
	}

	if err := updateGlobalConfig(&cli); err != nil {
		stop()
		slog.Error("Invalid configuration", "error", err)
		os.Exit(exitUsage)
	}

	err := kctx.Run()
	stop()
	if code := exitCode(err); code != exitOK {
		if code == exitInterrupted {
			slog.Warn("Interrupted", "error", err)
		} else {
			slog.Error("Command failed", "error", err)
		}
		os.Exit(code)
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	default:
		return exitFailure
	}
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	config.SetDefaults()

	// Cache defaults
	viper.SetDefault("cache.dbfile", cache.DefaultDBFile)
	viper.SetDefault("cache.ttl", "720h") // 30 days

	// History defaults
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.mode", "local")
	viper.SetDefault("history.dbfile", "./mixdl.db")

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range []string{
		"output_dir", "qualifier", "qualifier_in_filename", "delay", "overwrite",
		"audio.format", "audio.quality",
		"cache.dbfile", "cache.ttl",
		"history.enabled", "history.mode", "history.dbfile", "history.remote_url", "history.api_token",
	} {
		env := "MIXDL_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := viper.BindEnv(key, env); err != nil {
			slog.Error("Failed to bind environment variable", "key", key, "error", err)
		}
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(exitUsage)
		}
	}

	// Initialize global config
	config.InitConfig()
}

// updateGlobalConfig lets flags that were given override config values.
func updateGlobalConfig(cli *CLI) error {
	if cli.OutputDir != "" {
		viper.Set("output_dir", cli.OutputDir)
	}
	if cli.NoQualifier {
		viper.Set("qualifier", "")
	} else if cli.Qualifier != "" {
		viper.Set("qualifier", cli.Qualifier)
	}
	if cli.QualifierInFilename != "" {
		keep, err := strconv.ParseBool(cli.QualifierInFilename)
		if err != nil {
			return fmt.Errorf("invalid --qualifier-in-filename %q: %w", cli.QualifierInFilename, err)
		}
		viper.Set("qualifier_in_filename", keep)
	}
	if cli.Delay != "" {
		if _, err := config.ParseDelay(cli.Delay); err != nil {
			return err
		}
		viper.Set("delay", cli.Delay)
	}
	if cli.Overwrite {
		viper.Set("overwrite", true)
	}

	// Update cache config
	if cli.CacheDBFile != "" {
		viper.Set("cache.dbfile", cli.CacheDBFile)
	}
	if cli.CacheTTL != "" {
		viper.Set("cache.ttl", cli.CacheTTL)
	}

	// Update history config
	if cli.NoHistory {
		viper.Set("history.enabled", false)
	}
	if cli.HistoryDB != "" {
		viper.Set("history.dbfile", cli.HistoryDB)
	}

	config.InitConfig()
	return nil
}

func initLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	// Logs go to stderr so stdout stays clean for reports and JSON
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: level,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
