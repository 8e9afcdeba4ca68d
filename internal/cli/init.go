package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bolasblack/boxfetch/internal/config"
	"github.com/bolasblack/boxfetch/internal/sudo"
	"github.com/bolasblack/boxfetch/internal/util"
)

var (
	initOverrides overrides
	initForce     bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a boxfetch configuration file",
	Long: `Create a configuration file at --config (default .boxfetch.toml in the
current directory). When stdin is a terminal and --url is not given, the
settings are asked for interactively; otherwise they come from flags.`,
	RunE: runInit,
}

func init() {
	initOverrides.register(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing configuration file")
}

func runInit(cmd *cobra.Command, args []string) error {
	env := util.NewOsEnv(os.Stderr)

	cfg := config.DefaultConfig()
	initOverrides.apply(cmd, &cfg)

	if term.IsTerminal(int(os.Stdin.Fd())) && !cmd.Flags().Changed("url") {
		if err := promptConfig(&cfg); err != nil {
			return fmt.Errorf("configuration cancelled: %w", err)
		}
	}

	return writeInitConfig(env, os.Stdout, configPath, cfg, initForce)
}

// writeInitConfig validates cfg and saves it to path.
func writeInitConfig(env *util.Env, out io.Writer, path string, cfg config.Config, force bool) error {
	if _, err := env.Fs.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if err := config.SaveConfig(env, path, cfg); err != nil {
		return err
	}

	progressDone(out, "Created %s\n", path)
	if cfg.SourceURL == "" {
		fmt.Fprintln(out, "Set source_url in this file before running 'boxfetch fetch'.")
	} else {
		fmt.Fprintln(out, "Run 'boxfetch probe' to check permissions, then 'boxfetch watch'.")
	}
	return nil
}

// promptConfig asks for the settings with an interactive form.
func promptConfig(cfg *config.Config) error {
	interval := strconv.Itoa(cfg.IntervalMinutes)

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Subscription URL").
				Description("e.g. a Sub Store download link for sing-box").
				Value(&cfg.SourceURL).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("a subscription URL is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("File name").
				Value(&cfg.Filename).
				Validate(config.ValidateFilename),
			huh.NewInput().
				Title("Directory").
				Value(&cfg.Directory),
			huh.NewInput().
				Title("Interval (minutes)").
				Value(&interval).
				Validate(validateInterval),
			huh.NewSelect[sudo.Mode]().
				Title("Elevation").
				Options(huh.NewOptions(sudo.Modes...)...).
				Value(&cfg.Elevation),
		),
	).Run()
	if err != nil {
		return err
	}

	cfg.IntervalMinutes, _ = strconv.Atoi(interval)
	return nil
}

func validateInterval(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	if n < 1 {
		return errors.New("interval must be at least 1 minute")
	}
	return nil
}
