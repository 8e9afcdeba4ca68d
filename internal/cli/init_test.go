package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bolasblack/boxfetch/internal/config"
	"github.com/bolasblack/boxfetch/internal/util"
)

func TestWriteInitConfig(t *testing.T) {
	env := util.NewTestEnv()
	var out bytes.Buffer
	cfg := config.DefaultConfig()
	cfg.SourceURL = "https://sub.example.com/config"

	require.NoError(t, writeInitConfig(env, &out, "/home/u/.boxfetch.toml", cfg, false))

	assert.Contains(t, out.String(), "✓ Created /home/u/.boxfetch.toml")
	loaded, err := config.LoadConfig(env, "/home/u/.boxfetch.toml")
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestWriteInitConfig_RefusesOverwrite(t *testing.T) {
	env := util.NewTestEnv()
	require.NoError(t, afero.WriteFile(env.Fs, "/c/.boxfetch.toml", []byte("# mine\n"), 0o644))

	err := writeInitConfig(env, &bytes.Buffer{}, "/c/.boxfetch.toml", config.DefaultConfig(), false)
	assert.ErrorContains(t, err, "already exists")

	data, _ := afero.ReadFile(env.Fs, "/c/.boxfetch.toml")
	assert.Equal(t, "# mine\n", string(data))
}

func TestWriteInitConfig_Force(t *testing.T) {
	env := util.NewTestEnv()
	require.NoError(t, afero.WriteFile(env.Fs, "/c/.boxfetch.toml", []byte("# mine\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, writeInitConfig(env, &out, "/c/.boxfetch.toml", config.DefaultConfig(), true))

	assert.Contains(t, out.String(), "Set source_url")
	data, _ := afero.ReadFile(env.Fs, "/c/.boxfetch.toml")
	assert.Contains(t, string(data), "interval_minutes = 60")
}

func TestWriteInitConfig_Invalid(t *testing.T) {
	env := util.NewTestEnv()
	cfg := config.DefaultConfig()
	cfg.Directory = "relative"

	err := writeInitConfig(env, &bytes.Buffer{}, "/c/.boxfetch.toml", cfg, false)
	assert.Error(t, err)

	_, statErr := env.Fs.Stat("/c/.boxfetch.toml")
	assert.Error(t, statErr)
}

func TestValidateInterval(t *testing.T) {
	assert.NoError(t, validateInterval("1"))
	assert.NoError(t, validateInterval("60"))
	assert.Error(t, validateInterval("0"))
	assert.Error(t, validateInterval("-3"))
	assert.Error(t, validateInterval("ten"))
}
