package sync

import "fmt"

// ResultKind tags the outcome of one sync.
type ResultKind int

const (
	Success ResultKind = iota
	FetchFailure
	WritePermissionDenied
	WriteFailure
)

func (k ResultKind) String() string {
	switch k {
	case Success:
		return "success"
	case FetchFailure:
		return "fetch failure"
	case WritePermissionDenied:
		return "write permission denied"
	case WriteFailure:
		return "write failure"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// Result is the outcome of one Syncer.Run. It is handed to the caller or
// logged, never stored.
type Result struct {
	Kind ResultKind
	// Path is the destination path. Empty when the fetch failed.
	Path string
	// StatusCode is the HTTP status for a FetchFailure caused by a response.
	StatusCode int
	// Reason is a human readable failure description.
	Reason string
	// Err is the underlying error, if any.
	Err error
}

// OK reports whether the sync succeeded.
func (r Result) OK() bool { return r.Kind == Success }

func (r Result) String() string {
	switch r.Kind {
	case Success:
		return fmt.Sprintf("saved to %s", r.Path)
	case FetchFailure:
		return fmt.Sprintf("fetch failed: %s", r.Reason)
	case WritePermissionDenied:
		return fmt.Sprintf("write to %s denied: %s", r.Path, r.Reason)
	default:
		return fmt.Sprintf("write to %s failed: %s", r.Path, r.Reason)
	}
}
