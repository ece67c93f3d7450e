package cmdutil

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/lepinkainen/mixdl/internal/config"
	"github.com/lepinkainen/mixdl/internal/fileutil"
	"github.com/lepinkainen/mixdl/internal/report"
)

// DestinationConfig holds the per-run output locations shared by the
// download commands.
type DestinationConfig struct {
	// OutputDir is the base directory; empty falls back to config
	OutputDir string
	// Title names the set folder below OutputDir
	Title string
	// Destination overrides the computed set folder when non-empty
	Destination string
	NotePath    string
	JSONOutput  string
	WriteJSON   bool
}

// SetupDestination resolves the set folder and report paths and creates the
// folder. A failure here is fatal for the run.
func SetupDestination(cfg *DestinationConfig) error {
	if cfg.Destination == "" {
		baseDir := cfg.OutputDir
		if baseDir == "" {
			baseDir = viper.GetString("output_dir")
		}
		if baseDir == "" {
			baseDir = config.DefaultOutputDir
		}
		cfg.Destination = filepath.Join(baseDir, fileutil.SetFolderName(cfg.Title))
	}
	cfg.Destination = filepath.Clean(cfg.Destination)

	if cfg.NotePath == "" {
		cfg.NotePath = filepath.Join(cfg.Destination, report.NoteFileName)
	}
	if cfg.WriteJSON && cfg.JSONOutput == "" {
		cfg.JSONOutput = filepath.Join(cfg.Destination, report.JSONFileName)
	}

	return fileutil.EnsureDir(cfg.Destination)
}
