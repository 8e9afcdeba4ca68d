package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/bolasblack/boxfetch/internal/config"
	"github.com/bolasblack/boxfetch/internal/sudo"
	"github.com/bolasblack/boxfetch/internal/util"
)

var probeOverrides overrides

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check whether privileged writes are possible",
	Long: `Run 'id' through the configured elevation mode and report whether it
executed as root. Exits non-zero unless root was granted.`,
	RunE: runProbe,
}

func init() {
	probeOverrides.register(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	env := newEnv()

	cfg, err := config.LoadConfig(env, configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		cfg = config.DefaultConfig()
	}
	probeOverrides.apply(cmd, &cfg)
	if _, err := sudo.ParseMode(string(cfg.Elevation)); err != nil {
		return err
	}
	env.Log = newLogger(os.Stderr, cfg)

	return probe(cmd.Context(), env, os.Stdout, cfg.Elevation)
}

// probe reports the permission state for mode on out.
func probe(ctx context.Context, env *util.Env, out io.Writer, mode sudo.Mode) error {
	if !mode.Elevated() {
		progressDone(out, "Elevation %q needs no root check\n", mode)
		return nil
	}

	progressStep(out, "Checking root access via %s...\n", mode)
	state := sudo.NewProber(sudo.NewExecutor(mode, env.Cmd)).Probe(ctx)

	fmt.Fprintln(out, renderPermission(out, state))
	if !state.Granted() {
		return fmt.Errorf("privileged writes unavailable: %s", state)
	}
	return nil
}

// renderPermission colors the state for terminals; lipgloss strips the
// styling when out is not a TTY.
func renderPermission(out io.Writer, state sudo.PermissionState) string {
	renderer := lipgloss.NewRenderer(out)
	green := renderer.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	red := renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	yellow := renderer.NewStyle().Foreground(lipgloss.Color("3"))

	switch state.Kind {
	case sudo.PermissionGranted:
		return green.Render("✓ " + state.String())
	case sudo.PermissionDenied:
		return red.Render("✗ " + state.String())
	default:
		return yellow.Render("⚠ " + state.String())
	}
}
