// Package cli implements the boxfetch command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bolasblack/boxfetch/internal/config"
)

var (
	// Version, Commit, and Date are set at build time via ldflags
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Global flags.
var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "boxfetch",
	Short: "boxfetch - keep a sing-box config in sync with its subscription",
	Long: `boxfetch downloads a proxy configuration document from a subscription URL
(for example a Sub Store link rendered for sing-box) and writes it into a
privileged directory through su or sudo, once or on a fixed schedule.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetRootCmd returns the root command for documentation generation.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("boxfetch version %s\ncommit: %s\ndate: %s\n", Version, Commit, Date))

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.Filename, "path to the configuration file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", os.Getenv("BOXFETCH_DEBUG") != "", "enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(watchCmd)
}
