package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/mixdl/internal/cache"
	"github.com/lepinkainen/mixdl/internal/config"
	mixerrors "github.com/lepinkainen/mixdl/internal/errors"
	"github.com/lepinkainen/mixdl/internal/testutil"
)

func resetCmdState(t *testing.T) {
	t.Helper()
	testutil.SetTestConfig(t)
}

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	originalArgs := os.Args
	os.Args = append([]string{"mixdl"}, args...)
	t.Cleanup(func() { os.Args = originalArgs })

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("mixdl"),
		kong.Description("Download the tracks of a DJ mix as separate audio files."),
		kong.UsageOnError(),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
		kong.Exit(func(code int) {
			t.Fatalf("unexpected Kong exit %d", code)
		}),
	)

	return cli, ctx
}

func TestUpdateGlobalConfig(t *testing.T) {
	resetCmdState(t)

	cli := &CLI{
		OutputDir:           "/tmp/sets",
		Qualifier:           " (Club Mix)",
		QualifierInFilename: "false",
		Delay:               "5s",
		Overwrite:           true,
		CacheDBFile:         "/tmp/cache.db",
		CacheTTL:            "12h",
		NoHistory:           true,
		HistoryDB:           "/tmp/mixdl.db",
	}

	require.NoError(t, updateGlobalConfig(cli))

	assert.Equal(t, "/tmp/sets", config.OutputDir)
	assert.Equal(t, " (Club Mix)", config.Qualifier)
	assert.False(t, config.QualifierInFilename)
	assert.Equal(t, 5*time.Second, config.Delay)
	assert.True(t, config.OverwriteFiles)
	assert.Equal(t, "/tmp/cache.db", viper.GetString("cache.dbfile"))
	assert.Equal(t, "12h", viper.GetString("cache.ttl"))
	assert.False(t, viper.GetBool("history.enabled"))
	assert.Equal(t, "/tmp/mixdl.db", viper.GetString("history.dbfile"))
}

func TestUpdateGlobalConfig_OverwriteFromConfigFile(t *testing.T) {
	resetCmdState(t)
	viper.Set("overwrite", true)

	require.NoError(t, updateGlobalConfig(&CLI{}))
	assert.True(t, config.OverwriteFiles)
}

func TestUpdateGlobalConfig_UnsetFlagsKeepConfig(t *testing.T) {
	resetCmdState(t)
	viper.Set("output_dir", "/music")
	viper.Set("qualifier", " (Original Mix)")
	viper.Set("history.enabled", true)

	require.NoError(t, updateGlobalConfig(&CLI{}))

	assert.Equal(t, "/music", config.OutputDir)
	assert.Equal(t, " (Original Mix)", config.Qualifier)
	assert.True(t, config.QualifierInFilename)
	assert.False(t, config.OverwriteFiles)
	assert.True(t, viper.GetBool("history.enabled"))
}

func TestUpdateGlobalConfig_NoQualifier(t *testing.T) {
	resetCmdState(t)

	require.NoError(t, updateGlobalConfig(&CLI{NoQualifier: true, Qualifier: " ignored"}))
	assert.Equal(t, "", config.Qualifier)
}

func TestUpdateGlobalConfig_InvalidValues(t *testing.T) {
	resetCmdState(t)

	err := updateGlobalConfig(&CLI{QualifierInFilename: "sometimes"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--qualifier-in-filename")

	err = updateGlobalConfig(&CLI{Delay: "-2s"})
	require.Error(t, err)
}

func TestInitConfigWritesDefaults(t *testing.T) {
	resetCmdState(t)
	env := testutil.NewTestEnv(t)
	env.Chdir(".")

	initConfig()

	assert.True(t, env.FileExists("config.yaml"))
	assert.Equal(t, "./downloads", viper.GetString("output_dir"))
	assert.Equal(t, "./cache.db", viper.GetString("cache.dbfile"))
	assert.Equal(t, "720h", viper.GetString("cache.ttl"))
	assert.True(t, viper.GetBool("history.enabled"))
	assert.Equal(t, "./mixdl.db", viper.GetString("history.dbfile"))
	assert.Equal(t, 2*time.Second, config.Delay)
}

func TestInitConfigReadsEnvironment(t *testing.T) {
	resetCmdState(t)
	env := testutil.NewTestEnv(t)
	env.Chdir(".")
	t.Setenv("MIXDL_OUTPUT_DIR", "/srv/music")
	t.Setenv("MIXDL_HISTORY_MODE", "remote")
	t.Setenv("MIXDL_DELAY", "3s")

	initConfig()

	assert.Equal(t, "/srv/music", config.OutputDir)
	assert.Equal(t, "remote", viper.GetString("history.mode"))
	assert.Equal(t, 3*time.Second, config.Delay)
}

func TestInitLogging(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		t.Run(fmt.Sprintf("verbose=%v", verbose), func(t *testing.T) {
			require.NotPanics(t, func() {
				initLogging(verbose)
			})
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitFailure, exitCode(errors.New("boom")))
	assert.Equal(t, exitFailure, exitCode(mixerrors.NewSourceUnreachableError("x", errors.New("404"))))
	assert.Equal(t, exitInterrupted, exitCode(mixerrors.NewStopProcessingError(1, 3)))
	assert.Equal(t, exitInterrupted, exitCode(fmt.Errorf("search: %w", context.Canceled)))
}

func TestCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, ctx := parseCLI(t, "--delay", "1s", "mix", "https://youtu.be/abc", "--json", "--no-tag")
	assert.Equal(t, "mix <url>", ctx.Command())
	assert.Equal(t, "https://youtu.be/abc", cli.Mix.URL)
	assert.True(t, cli.Mix.JSON)
	assert.True(t, cli.Mix.NoTag)
	assert.Equal(t, "1s", cli.Delay)

	cli, ctx = parseCLI(t, "cache", "invalidate", "search")
	assert.Equal(t, "cache invalidate <source>", ctx.Command())
	assert.Equal(t, "search", cli.Cache.Invalidate.Source)

	_, ctx = parseCLI(t, "doctor", "--install")
	assert.Equal(t, "doctor", ctx.Command())
}

func TestCommandStructure(t *testing.T) {
	cli := &CLI{}

	assert.IsType(t, MixCmd{}, cli.Mix)
	assert.IsType(t, PlaylistCmd{}, cli.Playlist)
	assert.IsType(t, CSVCmd{}, cli.CSV)
	assert.IsType(t, RetryCmd{}, cli.Retry)
	assert.IsType(t, cache.InvalidateCacheCmd{}, cli.Cache.Invalidate)
	assert.IsType(t, cache.PruneCacheCmd{}, cli.Cache.Prune)
}
