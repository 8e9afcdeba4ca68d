package util

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Env contains environment dependencies that can be mocked for testing.
type Env struct {
	// Fs is the filesystem to use for file operations.
	Fs afero.Fs
	// Cmd is the command runner for executing external commands.
	Cmd CommandRunner
	// Log receives structured engine logs.
	Log *log.Logger
}

// NewEnv creates an Env with the given filesystem and a logger writing to w.
func NewEnv(fs afero.Fs, w io.Writer) *Env {
	return &Env{Fs: fs, Cmd: NewCommandRunner(), Log: NewLogger(w, log.InfoLevel)}
}

// NewOsEnv creates an Env backed by the real filesystem.
func NewOsEnv(w io.Writer) *Env {
	return NewEnv(afero.NewOsFs(), w)
}

// NewTestEnv creates an Env with in-memory filesystem, mock command runner
// and a discarding logger (for testing).
func NewTestEnv() *Env {
	return &Env{
		Fs:  afero.NewMemMapFs(),
		Cmd: NewMockCommandRunner(),
		Log: NewLogger(io.Discard, log.DebugLevel),
	}
}

// WithCommandRunner returns a copy with the given command runner.
func (e *Env) WithCommandRunner(cmd CommandRunner) *Env {
	return &Env{Fs: e.Fs, Cmd: cmd, Log: e.Log}
}
