package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults shared by the CLI flags and config.yaml.
const (
	DefaultOutputDir    = "./downloads"
	DefaultQualifier    = " Extended Mix"
	DefaultDelay        = 2 * time.Second
	DefaultAudioFormat  = "mp3"
	DefaultAudioQuality = "192"
)

// Global configuration variables
var (
	// OutputDir is the base directory under which each set gets its own folder
	OutputDir = DefaultOutputDir
	// Qualifier is appended to every track title before searching
	Qualifier = DefaultQualifier
	// QualifierInFilename keeps the qualifier in the downloaded file name
	QualifierInFilename = true
	// Delay is the minimum pause between two consecutive tracks
	Delay = DefaultDelay
	// OverwriteFiles re-downloads tracks whose output file already exists
	OverwriteFiles bool
	// AudioFormat is the yt-dlp --audio-format target
	AudioFormat = DefaultAudioFormat
	// AudioQuality is the yt-dlp --audio-quality value
	AudioQuality = DefaultAudioQuality
)

// SetDefaults registers the default values with viper.
func SetDefaults() {
	viper.SetDefault("output_dir", DefaultOutputDir)
	viper.SetDefault("qualifier", DefaultQualifier)
	viper.SetDefault("qualifier_in_filename", true)
	viper.SetDefault("delay", DefaultDelay.String())
	viper.SetDefault("overwrite", false)
	viper.SetDefault("audio.format", DefaultAudioFormat)
	viper.SetDefault("audio.quality", DefaultAudioQuality)
}

// InitConfig loads the global configuration from viper
func InitConfig() {
	SetDefaults()

	OutputDir = viper.GetString("output_dir")
	Qualifier = viper.GetString("qualifier")
	QualifierInFilename = viper.GetBool("qualifier_in_filename")
	OverwriteFiles = viper.GetBool("overwrite")
	AudioFormat = viper.GetString("audio.format")
	AudioQuality = viper.GetString("audio.quality")

	Delay = DefaultDelay
	if raw := viper.GetString("delay"); raw != "" {
		d, err := ParseDelay(raw)
		if err != nil {
			slog.Warn("Invalid delay, using default", "delay", raw, "error", err)
		} else {
			Delay = d
		}
	}
}

// ParseDelay parses a non-negative duration such as "2s" or "500ms".
func ParseDelay(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid delay %q: %w", raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid delay %q: must not be negative", raw)
	}
	return d, nil
}
