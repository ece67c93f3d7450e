package testutil

import (
	"testing"
	"time"

	"github.com/lepinkainen/mixdl/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	OutputDir           string
	Qualifier           string
	QualifierInFilename bool
	Delay               time.Duration
	OverwriteFiles      bool
	AudioFormat         string
	AudioQuality        string
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		OutputDir:           config.OutputDir,
		Qualifier:           config.Qualifier,
		QualifierInFilename: config.QualifierInFilename,
		Delay:               config.Delay,
		OverwriteFiles:      config.OverwriteFiles,
		AudioFormat:         config.AudioFormat,
		AudioQuality:        config.AudioQuality,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.OutputDir = state.OutputDir
	config.Qualifier = state.Qualifier
	config.QualifierInFilename = state.QualifierInFilename
	config.Delay = state.Delay
	config.OverwriteFiles = state.OverwriteFiles
	config.AudioFormat = state.AudioFormat
	config.AudioQuality = state.AudioQuality
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfigOption is a functional option for configuring test config.
type SetTestConfigOption func(*ConfigState)

// WithOverwriteFiles sets the OverwriteFiles option.
func WithOverwriteFiles(v bool) SetTestConfigOption {
	return func(s *ConfigState) {
		s.OverwriteFiles = v
	}
}

// WithQualifier sets the search qualifier.
func WithQualifier(q string, inFilename bool) SetTestConfigOption {
	return func(s *ConfigState) {
		s.Qualifier = q
		s.QualifierInFilename = inFilename
	}
}

// WithOutputDir sets the base download directory.
func WithOutputDir(dir string) SetTestConfigOption {
	return func(s *ConfigState) {
		s.OutputDir = dir
	}
}

// SetTestConfig installs test defaults (no inter-track delay) plus any options,
// restoring the previous state when the test completes.
func SetTestConfig(t *testing.T, opts ...SetTestConfigOption) {
	t.Helper()

	saved := SaveConfigState()
	viper.Reset()

	state := ConfigState{
		OutputDir:           t.TempDir(),
		Qualifier:           config.DefaultQualifier,
		QualifierInFilename: true,
		Delay:               0,
		AudioFormat:         config.DefaultAudioFormat,
		AudioQuality:        config.DefaultAudioQuality,
	}
	for _, opt := range opts {
		opt(&state)
	}
	RestoreConfigState(state)

	t.Cleanup(func() {
		RestoreConfigState(saved)
		viper.Reset()
	})
}

// SetViperValue sets a viper configuration value and schedules cleanup.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)

	viper.Set(key, value)

	t.Cleanup(func() {
		// viper has no Unset, so an originally unset key keeps the test value
		if hadValue {
			viper.Set(key, oldValue)
		}
	})
}

// SetupTestCache points the cache at a database inside env.
func SetupTestCache(t *testing.T, env *TestEnv) string {
	t.Helper()

	cacheDir := env.Path("cache")
	env.MkdirAll("cache")

	SetViperValue(t, "cache.dbfile", env.Path("cache", "test-cache.db"))
	SetViperValue(t, "cache.ttl", "24h")

	return cacheDir
}

// SetupHistoryDB enables run history in a database inside env and returns its path.
func SetupHistoryDB(t *testing.T, env *TestEnv) string {
	t.Helper()

	dbPath := env.Path("history.db")

	SetViperValue(t, "history.enabled", true)
	SetViperValue(t, "history.dbfile", dbPath)

	return dbPath
}
