// Package writer places file content into a privileged location by running
// a generated shell command through an elevated executor.
package writer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/bolasblack/boxfetch/internal/sudo"
)

// ErrPermissionDenied is returned when command output shows a denied write.
var ErrPermissionDenied = errors.New("insufficient permission to write file, check that root access is fully granted")

// WriteError is any other write failure.
type WriteError struct {
	Path   string
	Reason string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %s", e.Path, e.Reason)
}

func (e *WriteError) Unwrap() error { return e.Err }

const (
	// DefaultInlineLimit is the largest payload sent inside the command line.
	// Linux caps a single argv string at 128 KiB and base64 grows data by 4/3.
	DefaultInlineLimit = 64 << 10
	// DefaultFileMode is applied to written files.
	DefaultFileMode os.FileMode = 0o644
)

// Writer writes content to privileged destinations through a sudo.Executor.
type Writer struct {
	exec        sudo.Executor
	fs          afero.Fs
	stagingDir  string
	inlineLimit int
	mode        os.FileMode
}

// Option configures a Writer.
type Option func(*Writer)

// WithStaging sets where large payloads are staged before the privileged copy.
func WithStaging(fs afero.Fs, dir string) Option {
	return func(w *Writer) {
		w.fs = fs
		w.stagingDir = dir
	}
}

// WithInlineLimit sets the payload size above which content is staged.
func WithInlineLimit(n int) Option {
	return func(w *Writer) { w.inlineLimit = n }
}

// WithFileMode sets the permission bits of written files.
func WithFileMode(mode os.FileMode) Option {
	return func(w *Writer) { w.mode = mode }
}

// New creates a Writer.
func New(exec sudo.Executor, opts ...Option) *Writer {
	w := &Writer{
		exec:        exec,
		fs:          afero.NewOsFs(),
		stagingDir:  os.TempDir(),
		inlineLimit: DefaultInlineLimit,
		mode:        DefaultFileMode,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write replaces dest with content.
// Returns ErrPermissionDenied or a *WriteError on failure.
func (w *Writer) Write(ctx context.Context, content string, dest string) error {
	if err := ValidatePath(dest); err != nil {
		return &WriteError{Path: dest, Reason: err.Error(), Err: err}
	}

	command, cleanup, err := w.command([]byte(content), dest)
	if err != nil {
		return &WriteError{Path: dest, Reason: "failed to stage content", Err: err}
	}
	defer cleanup()

	output, err := w.exec.Execute(ctx, command)
	switch sudo.Interpret(output, err) {
	case sudo.OutcomePermissionDenied:
		return ErrPermissionDenied
	case sudo.OutcomeFailed:
		return &WriteError{Path: dest, Reason: err.Error(), Err: err}
	default:
		return nil
	}
}

func (w *Writer) command(content []byte, dest string) (string, func(), error) {
	if len(content) <= w.inlineLimit {
		return InlineCommand(content, dest, w.mode), func() {}, nil
	}

	staged, err := w.stage(content)
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = w.fs.Remove(staged) }
	return StagedCommand(staged, dest, w.mode), cleanup, nil
}

func (w *Writer) stage(content []byte) (string, error) {
	if err := w.fs.MkdirAll(w.stagingDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create staging dir: %w", err)
	}
	f, err := afero.TempFile(w.fs, w.stagingDir, "boxfetch-*.staged")
	if err != nil {
		return "", fmt.Errorf("failed to create staging file: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		_ = w.fs.Remove(f.Name())
		return "", fmt.Errorf("failed to write staging file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = w.fs.Remove(f.Name())
		return "", fmt.Errorf("failed to close staging file: %w", err)
	}
	return f.Name(), nil
}
