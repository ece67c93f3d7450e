package cmdutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestSetupDestinationUsesConfiguredOutputDir(t *testing.T) {
	t.Cleanup(viper.Reset)

	tempDir := t.TempDir()
	viper.Set("output_dir", filepath.Join(tempDir, "downloads"))

	cfg := &DestinationConfig{
		Title:     "Sunrise Set: Live @ Pier 9",
		WriteJSON: true,
	}

	err := SetupDestination(cfg)
	require.NoError(t, err)

	expected := filepath.Join(tempDir, "downloads", "Sunrise_Set_Live__Pier_9")
	require.Equal(t, expected, cfg.Destination)
	require.DirExists(t, cfg.Destination)
	require.Equal(t, filepath.Join(expected, "mixdl-report.md"), cfg.NotePath)
	require.Equal(t, filepath.Join(expected, "mixdl-report.json"), cfg.JSONOutput)
}

func TestSetupDestinationUsesProvidedOutputDir(t *testing.T) {
	t.Cleanup(viper.Reset)

	tempDir := t.TempDir()
	viper.Set("output_dir", filepath.Join(tempDir, "ignored"))

	cfg := &DestinationConfig{
		OutputDir: tempDir,
		Title:     "",
	}

	err := SetupDestination(cfg)
	require.NoError(t, err)

	require.Equal(t, filepath.Join(tempDir, "Unknown_Set"), cfg.Destination)
	require.DirExists(t, cfg.Destination)
	require.Empty(t, cfg.JSONOutput)
}

func TestSetupDestinationKeepsExplicitDestination(t *testing.T) {
	t.Cleanup(viper.Reset)

	dest := filepath.Join(t.TempDir(), "previous", "Set")
	cfg := &DestinationConfig{Destination: dest + "/", Title: "Other"}

	require.NoError(t, SetupDestination(cfg))
	require.Equal(t, dest, cfg.Destination)
	require.DirExists(t, dest)
}

func TestSetupDestinationFailsOnFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	blocker := filepath.Join(dir, "Set")
	require.NoError(t, writeFile(blocker))

	err := SetupDestination(&DestinationConfig{Destination: blocker})
	require.Error(t, err)
}
