// Package sudo runs shell commands with elevated privileges and decides,
// from their output, whether elevation actually took effect.
package sudo

import (
	"context"
	"fmt"

	"github.com/bolasblack/boxfetch/internal/util"
)

// Mode selects how commands are elevated.
type Mode string

const (
	// ModeSu runs commands through `su -c`, as on rooted Android (Magisk, KernelSU).
	ModeSu Mode = "su"
	// ModeSudo runs commands through `sudo sh -c`.
	ModeSudo Mode = "sudo"
	// ModeDirect runs commands through `sh -c` without elevation.
	ModeDirect Mode = "direct"
	// ModeNone never runs anything; every command succeeds with empty output.
	ModeNone Mode = "none"
)

// Modes lists every supported elevation mode.
var Modes = []Mode{ModeSu, ModeSudo, ModeDirect, ModeNone}

// ParseMode validates an elevation mode name. Empty means ModeSu.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeSu, nil
	}
	for _, m := range Modes {
		if Mode(s) == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown elevation mode %q (want one of su, sudo, direct, none)", s)
}

// Elevated reports whether commands in this mode run as root.
func (m Mode) Elevated() bool {
	return m == ModeSu || m == ModeSudo
}

// Executor runs a single, fully formed shell command.
// The command is passed to the shell as-is; callers are responsible for quoting.
type Executor interface {
	Execute(ctx context.Context, command string) (output string, err error)
}

// ExecutionError reports a command that could not be spawned or exited non-zero.
type ExecutionError struct {
	Command string
	Output  string
	Err     error
}

func (e *ExecutionError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("command failed: %v: %s", e.Err, e.Output)
	}
	return fmt.Sprintf("command failed: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// ShellExecutor implements Executor on top of a util.CommandRunner.
type ShellExecutor struct {
	mode Mode
	cmd  util.CommandRunner
}

var _ Executor = (*ShellExecutor)(nil)

// NewExecutor creates an executor for the given mode.
func NewExecutor(mode Mode, cmd util.CommandRunner) *ShellExecutor {
	return &ShellExecutor{mode: mode, cmd: cmd}
}

// Execute runs command and returns its combined output.
// On failure the output is returned as well and also attached to the *ExecutionError.
func (e *ShellExecutor) Execute(ctx context.Context, command string) (string, error) {
	if e.mode == ModeNone {
		return "", nil
	}

	name, args := e.argv(command)
	out, err := e.cmd.Run(ctx, name, args...)
	output := string(out)
	if err != nil {
		return output, &ExecutionError{Command: command, Output: output, Err: err}
	}
	return output, nil
}

func (e *ShellExecutor) argv(command string) (string, []string) {
	switch e.mode {
	case ModeSudo:
		return "sudo", []string{"sh", "-c", command}
	case ModeDirect:
		return "sh", []string{"-c", command}
	default:
		return "su", []string{"-c", command}
	}
}
