// Package util provides shared helpers for the CLI and the sync engine:
// command execution, test doubles, logging and progress output.
package util

import (
	"fmt"
	"io"
)

// Progress writes a progress message if w is not nil (quiet mode passes nil).
func Progress(w io.Writer, format string, args ...any) {
	if w != nil {
		_, _ = fmt.Fprintf(w, format, args...)
	}
}

// ProgressStep writes a progress message with → prefix (step in progress).
func ProgressStep(w io.Writer, format string, args ...any) {
	Progress(w, "→ "+format, args...)
}

// ProgressDone writes a progress message with ✓ prefix (step completed).
func ProgressDone(w io.Writer, format string, args ...any) {
	Progress(w, "✓ "+format, args...)
}

// ProgressFail writes a progress message with ✗ prefix (step failed).
func ProgressFail(w io.Writer, format string, args ...any) {
	Progress(w, "✗ "+format, args...)
}
