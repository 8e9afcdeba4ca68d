package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/bolasblack/boxfetch/internal/config"
	"github.com/bolasblack/boxfetch/internal/controller"
	"github.com/bolasblack/boxfetch/internal/fetch"
	"github.com/bolasblack/boxfetch/internal/sudo"
	boxsync "github.com/bolasblack/boxfetch/internal/sync"
	"github.com/bolasblack/boxfetch/internal/util"
	"github.com/bolasblack/boxfetch/internal/writer"
)

// Common error messages for CLI commands.
const (
	ErrMsgConfigNotFound = "configuration not found: run 'boxfetch init' or pass --url"
	ErrMsgNoSourceURL    = "no subscription URL: set source_url in the config or pass --url"
)

// overrides are per-command flags that take precedence over the config file.
type overrides struct {
	url       string
	filename  string
	directory string
	interval  int
	elevation string
}

func (o *overrides) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.url, "url", "", "subscription URL to download")
	cmd.Flags().StringVar(&o.filename, "filename", util.DefaultFilename, "file name written inside --directory")
	cmd.Flags().StringVar(&o.directory, "directory", util.DefaultDirectory, "privileged directory to write to")
	cmd.Flags().IntVar(&o.interval, "interval", config.DefaultIntervalMinutes, "minutes between syncs")
	cmd.Flags().StringVar(&o.elevation, "elevation", string(sudo.ModeSu), "elevation mode: su, sudo, direct or none")
}

// apply copies every flag the user set explicitly onto cfg.
func (o *overrides) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.SourceURL = o.url
	}
	if flags.Changed("filename") {
		cfg.Filename = o.filename
	}
	if flags.Changed("directory") {
		cfg.Directory = o.directory
	}
	if flags.Changed("interval") {
		cfg.IntervalMinutes = o.interval
	}
	if flags.Changed("elevation") {
		cfg.Elevation = sudo.Mode(o.elevation)
	}
}

// loadConfig loads the config file and applies flag overrides. A missing
// file is only an error when the flags don't name a source URL either.
func loadConfig(cmd *cobra.Command, env *util.Env, path string, o *overrides) (config.Config, error) {
	cfg, err := config.LoadConfig(env, path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return config.Config{}, err
		}
		if !cmd.Flags().Changed("url") {
			return config.Config{}, errors.New(ErrMsgConfigNotFound)
		}
		cfg = config.DefaultConfig()
	}

	o.apply(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

// newEnv returns the OS environment; with --debug, output of elevated
// commands is echoed to stderr.
func newEnv() *util.Env {
	env := util.NewOsEnv(os.Stderr)
	if debug {
		env.Cmd = util.NewStreamingCommandRunner(os.Stderr, os.Stderr)
	}
	return env
}

// newLogger builds the engine logger; --debug wins over log_level.
func newLogger(w io.Writer, cfg config.Config) *log.Logger {
	level := cfg.Level()
	if debug {
		level = log.DebugLevel
	}
	return util.NewLogger(w, level)
}

// app is the wired engine for one command invocation.
type app struct {
	scheduler  *boxsync.Scheduler
	controller *controller.Controller
}

// newApp wires executor, fetcher, writer, syncer, scheduler and
// controller from cfg.
func newApp(env *util.Env, cfg config.Config, opts ...boxsync.SchedulerOption) *app {
	executor := sudo.NewExecutor(cfg.Elevation, env.Cmd)
	fetcher := fetch.New(
		fetch.WithTimeout(cfg.FetchTimeout()),
		fetch.WithLogger(env.Log.With("component", "fetch")),
		fetch.WithUserAgent(util.AppName+"/"+Version),
	)
	w := writer.New(executor, writer.WithStaging(env.Fs, os.TempDir()))
	syncer := boxsync.NewSyncer(fetcher, w, env.Log)

	opts = append([]boxsync.SchedulerOption{
		boxsync.WithLogger(env.Log),
		boxsync.WithRunOnStart(cfg.ShouldRunOnStart()),
	}, opts...)
	scheduler := boxsync.NewScheduler(syncer, opts...)

	ctrl := controller.New(cfg.Elevation, sudo.NewProber(executor), syncer, scheduler,
		controller.SettingsFromConfig(cfg), controller.WithLogger(env.Log))

	return &app{scheduler: scheduler, controller: ctrl}
}

// lockPath returns where the watch lock lives: the user cache dir, or the
// temp dir where there is none (root shells on Android have no $HOME).
func lockPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, util.AppName, util.LockFilename)
}

// progress writes a progress message if not in quiet mode.
// Delegates to util.Progress for shared implementation.
var progress = util.Progress

// progressStep writes a progress message with → prefix (step in progress).
// Delegates to util.ProgressStep for shared implementation.
var progressStep = util.ProgressStep

// progressDone writes a progress message with ✓ prefix (step completed).
// Delegates to util.ProgressDone for shared implementation.
var progressDone = util.ProgressDone

// progressFail writes a progress message with ✗ prefix.
var progressFail = util.ProgressFail
