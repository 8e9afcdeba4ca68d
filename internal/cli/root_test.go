package cli

import (
	"testing"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	expectedCommands := []string{
		"init",
		"probe",
		"fetch",
		"watch",
	}

	actualCommands := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		actualCommands[cmd.Name()] = true
	}

	for _, expected := range expectedCommands {
		if !actualCommands[expected] {
			t.Errorf("expected subcommand %q not found in root command", expected)
		}
	}
}

func TestRootCommandInfo(t *testing.T) {
	if rootCmd.Use != "boxfetch" {
		t.Errorf("expected root command use to be 'boxfetch', got %q", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("root command should have a short description")
	}

	if rootCmd.Long == "" {
		t.Error("root command should have a long description")
	}
}

func TestGlobalFlags(t *testing.T) {
	for _, name := range []string{"config", "debug"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected global flag --%s", name)
		}
	}
}

func TestSyncCommandsHaveOverrideFlags(t *testing.T) {
	for _, cmd := range []string{"fetch", "watch", "init"} {
		c, _, err := rootCmd.Find([]string{cmd})
		if err != nil {
			t.Fatalf("find %s: %v", cmd, err)
		}
		for _, flag := range []string{"url", "filename", "directory", "interval", "elevation"} {
			if c.Flags().Lookup(flag) == nil {
				t.Errorf("%s: expected flag --%s", cmd, flag)
			}
		}
	}
}
