package sudo

import (
	"errors"
	"strings"
)

// Some su implementations exit 0 even when the wrapped command failed,
// so output text is the only reliable signal. Everything that sniffs
// output lives in this file.
const (
	// PermissionDeniedMarker marks a denied write. Matched case-sensitively.
	PermissionDeniedMarker = "Permission denied"
	// RootIdentityMarker is what `id` prints for uid 0.
	RootIdentityMarker = "uid=0("
)

// Outcome classifies the result of one executed command.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomePermissionDenied
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomePermissionDenied:
		return "permission denied"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Interpret classifies output and err from Executor.Execute.
// The permission marker wins over the exit status, including a successful one.
func Interpret(output string, err error) Outcome {
	if strings.Contains(output, PermissionDeniedMarker) {
		return OutcomePermissionDenied
	}
	var execErr *ExecutionError
	if errors.As(err, &execErr) && strings.Contains(execErr.Output, PermissionDeniedMarker) {
		return OutcomePermissionDenied
	}
	if err != nil {
		return OutcomeFailed
	}
	return OutcomeOK
}

// IsRootIdentity reports whether identity output belongs to uid 0.
func IsRootIdentity(output string) bool {
	return strings.Contains(output, RootIdentityMarker)
}
