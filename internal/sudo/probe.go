package sudo

import (
	"context"
	"fmt"
)

// IdentityCommand is run through the executor to probe for root.
const IdentityCommand = "id"

// PermissionKind is the probed elevation status.
type PermissionKind int

const (
	PermissionUnknown PermissionKind = iota
	PermissionGranted
	PermissionDenied
	PermissionProbeFailed
)

// PermissionState is the result of one probe. Reason is set for PermissionProbeFailed.
type PermissionState struct {
	Kind   PermissionKind
	Reason string
}

// Granted reports whether elevated rights were available at probe time.
func (s PermissionState) Granted() bool { return s.Kind == PermissionGranted }

func (s PermissionState) String() string {
	switch s.Kind {
	case PermissionGranted:
		return "root granted"
	case PermissionDenied:
		return "root not granted"
	case PermissionProbeFailed:
		return fmt.Sprintf("root check failed: %s", s.Reason)
	default:
		return "root status unknown"
	}
}

// Prober checks whether the executor currently runs as root.
// The result is a point-in-time answer; nothing caches or refreshes it.
type Prober struct {
	exec Executor
}

// NewProber creates a Prober using exec.
func NewProber(exec Executor) *Prober {
	return &Prober{exec: exec}
}

// Probe runs the identity command once.
func (p *Prober) Probe(ctx context.Context) PermissionState {
	output, err := p.exec.Execute(ctx, IdentityCommand)
	if err != nil {
		return PermissionState{Kind: PermissionProbeFailed, Reason: err.Error()}
	}
	if IsRootIdentity(output) {
		return PermissionState{Kind: PermissionGranted}
	}
	return PermissionState{Kind: PermissionDenied}
}
