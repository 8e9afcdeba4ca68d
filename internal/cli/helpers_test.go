package cli

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bolasblack/boxfetch/internal/sudo"
	"github.com/bolasblack/boxfetch/internal/util"
)

// newFlagCmd returns a command with override flags parsed from args.
func newFlagCmd(t *testing.T, args ...string) (*cobra.Command, *overrides) {
	t.Helper()
	var o overrides
	cmd := &cobra.Command{Use: "test"}
	o.register(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd, &o
}

func TestOverridesApply(t *testing.T) {
	cmd, o := newFlagCmd(t, "--url", "https://x/y", "--interval", "5", "--elevation", "sudo")

	env := util.NewTestEnv()
	require.NoError(t, afero.WriteFile(env.Fs, "/c/.boxfetch.toml", []byte("source_url = 'https://file'\nfilename = 'a.json'\n"), 0o644))

	cfg, err := loadConfig(cmd, env, "/c/.boxfetch.toml", o)
	require.NoError(t, err)

	assert.Equal(t, "https://x/y", cfg.SourceURL)
	assert.Equal(t, "a.json", cfg.Filename, "unset flags keep file values")
	assert.Equal(t, 5, cfg.IntervalMinutes)
	assert.Equal(t, sudo.ModeSudo, cfg.Elevation)
}

func TestLoadConfig_MissingFileNeedsURL(t *testing.T) {
	cmd, o := newFlagCmd(t)
	env := util.NewTestEnv()

	_, err := loadConfig(cmd, env, "/missing/.boxfetch.toml", o)
	assert.EqualError(t, err, ErrMsgConfigNotFound)
}

func TestLoadConfig_MissingFileWithURL(t *testing.T) {
	cmd, o := newFlagCmd(t, "--url", "https://x/y")
	env := util.NewTestEnv()

	cfg, err := loadConfig(cmd, env, "/missing/.boxfetch.toml", o)
	require.NoError(t, err)
	assert.Equal(t, "https://x/y", cfg.SourceURL)
	assert.Equal(t, util.DefaultDirectory, cfg.Directory)
	assert.Equal(t, sudo.ModeSu, cfg.Elevation)
}

func TestLoadConfig_InvalidOverride(t *testing.T) {
	cmd, o := newFlagCmd(t, "--url", "https://x/y", "--filename", "../../etc/passwd")
	env := util.NewTestEnv()

	_, err := loadConfig(cmd, env, "/missing/.boxfetch.toml", o)
	assert.ErrorContains(t, err, "invalid settings")
}

func TestLockPath(t *testing.T) {
	path := lockPath()
	assert.Contains(t, path, util.AppName)
	assert.Contains(t, path, util.LockFilename)
}
