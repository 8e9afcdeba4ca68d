package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bolasblack/boxfetch/internal/config"
	"github.com/bolasblack/boxfetch/internal/util"
)

var fetchOverrides overrides

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the configuration once and write it now",
	Long: `Download the subscription once and write it to <directory>/<filename>
through the configured elevation mode. Exits non-zero on any failure.`,
	RunE: runFetch,
}

func init() {
	fetchOverrides.register(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	env := newEnv()

	cfg, err := loadConfig(cmd, env, configPath, &fetchOverrides)
	if err != nil {
		return err
	}
	env.Log = newLogger(os.Stderr, cfg)

	return fetchOnce(cmd.Context(), env, os.Stdout, cfg)
}

// fetchOnce runs a single sync and reports it on out.
func fetchOnce(ctx context.Context, env *util.Env, out io.Writer, cfg config.Config) error {
	if cfg.SourceURL == "" {
		return fmt.Errorf(ErrMsgNoSourceURL)
	}

	a := newApp(env, cfg)
	if cfg.Elevation.Elevated() {
		progressStep(out, "Checking root access via %s...\n", cfg.Elevation)
	}
	a.controller.Init(ctx)

	progressStep(out, "Downloading %s...\n", cfg.SourceURL)
	result, err := a.controller.RunOnce(ctx)
	if err != nil {
		progressFail(out, "%v\n", err)
		return err
	}
	if !result.OK() {
		progressFail(out, "%s\n", a.controller.Status())
		return fmt.Errorf("sync failed: %s", result)
	}

	progressDone(out, "%s\n", a.controller.Status())
	return nil
}
