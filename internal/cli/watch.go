package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bolasblack/boxfetch/internal/config"
	boxsync "github.com/bolasblack/boxfetch/internal/sync"
	"github.com/bolasblack/boxfetch/internal/util"
)

var watchOverrides overrides

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the configuration in sync until interrupted",
	Long: `Enable periodic sync: download and write the configuration every
interval (immediately first, unless run_on_start is false) until SIGINT or
SIGTERM. Failed syncs are logged and retried at the same cadence.
Send SIGHUP to sync immediately. Only one watcher runs at a time.`,
	RunE: runWatch,
}

func init() {
	watchOverrides.register(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	env := newEnv()

	cfg, err := loadConfig(cmd, env, configPath, &watchOverrides)
	if err != nil {
		return err
	}
	env.Log = newLogger(os.Stderr, cfg)

	release, err := acquireLock(env, lockPath())
	if err != nil {
		return err
	}
	defer release()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	return watch(ctx, env, os.Stdout, cfg, hup)
}

// watch enables periodic sync and blocks until ctx is done. Each value on
// trigger runs one extra sync immediately.
func watch(ctx context.Context, env *util.Env, out io.Writer, cfg config.Config, trigger <-chan os.Signal, opts ...boxsync.SchedulerOption) error {
	a := newApp(env, cfg, opts...)
	defer a.controller.Close()

	state := a.controller.Init(ctx)
	if cfg.Elevation.Elevated() {
		fmt.Fprintln(out, renderPermission(out, state))
	}

	if err := a.controller.SetEnabled(ctx, true); err != nil {
		return fmt.Errorf("cannot enable periodic sync: %w", err)
	}
	progressDone(out, "%s\n", a.controller.Status())

	for {
		select {
		case <-ctx.Done():
			boxsync.RenderBanner(a.scheduler.Status(), out)
			progress(out, "Stopping...\n")
			return nil
		case <-trigger:
			env.Log.Info("sync requested by signal")
			if _, err := a.controller.RunOnce(ctx); err != nil {
				env.Log.Error("manual sync refused", "err", err)
				continue
			}
			progress(out, "%s\n", a.controller.Status())
			boxsync.RenderBanner(a.scheduler.Status(), out)
		}
	}
}
