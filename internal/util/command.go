package util

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"sync"
)

// CommandRunner executes external commands.
type CommandRunner interface {
	// Run executes a command and returns combined stdout/stderr.
	Run(ctx context.Context, name string, args ...string) (output []byte, err error)
}

// DefaultCommandRunner implements CommandRunner with os/exec.
// When stdout/stderr are set, output is also streamed to them while captured.
type DefaultCommandRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewCommandRunner creates a DefaultCommandRunner that only captures output.
func NewCommandRunner() *DefaultCommandRunner {
	return &DefaultCommandRunner{}
}

// NewStreamingCommandRunner creates a DefaultCommandRunner that also streams
// output to stdout and stderr.
func NewStreamingCommandRunner(stdout, stderr io.Writer) *DefaultCommandRunner {
	return &DefaultCommandRunner{stdout: stdout, stderr: stderr}
}

func (r *DefaultCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	combined := &lockedBuffer{}
	cmd.Stdout = teeWriter(combined, r.stdout)
	cmd.Stderr = teeWriter(combined, r.stderr)

	err := cmd.Run()
	return combined.Bytes(), err
}

// teeWriter returns buf itself when w is nil, so exec shares one pipe for
// both streams.
func teeWriter(buf *lockedBuffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

// lockedBuffer is written from the stdout and stderr copy goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Bytes()
}
