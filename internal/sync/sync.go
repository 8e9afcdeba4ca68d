// Package sync keeps a privileged configuration file in step with a remote
// document: Syncer performs one fetch-then-write, Scheduler repeats it on a
// fixed cadence until stopped.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bolasblack/boxfetch/internal/fetch"
	"github.com/bolasblack/boxfetch/internal/writer"
)

// Config describes one sync target. It is fixed for the lifetime of a
// scheduler run; changing it means Stop and Start again.
type Config struct {
	SourceURL string
	Filename  string
	Directory string
	Interval  time.Duration
}

// DestinationPath is Directory joined with Filename.
func (c Config) DestinationPath() string {
	return filepath.Join(c.Directory, c.Filename)
}

// Validate checks the fields a Syncer cannot work without.
func (c Config) Validate() error {
	if c.SourceURL == "" {
		return fmt.Errorf("source URL is required")
	}
	if c.Filename == "" {
		return fmt.Errorf("filename is required")
	}
	if c.Directory == "" {
		return fmt.Errorf("directory is required")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	return nil
}

// Writer places content at a destination path.
// *writer.Writer is the production implementation.
type Writer interface {
	Write(ctx context.Context, content string, dest string) error
}

// Runner performs a single sync. *Syncer implements it; the scheduler
// accepts the interface so tests can count invocations.
type Runner interface {
	Run(ctx context.Context, cfg Config) Result
}

// Syncer composes a fetcher and a writer. Manual and periodic callers share
// one Syncer so they also share its per-path gate.
type Syncer struct {
	fetcher fetch.Fetcher
	writer  Writer
	gate    *pathGate
	log     *log.Logger
}

var _ Runner = (*Syncer)(nil)

// NewSyncer creates a Syncer. A nil logger discards logs.
func NewSyncer(fetcher fetch.Fetcher, w Writer, logger *log.Logger) *Syncer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Syncer{
		fetcher: fetcher,
		writer:  w,
		gate:    newPathGate(),
		log:     logger,
	}
}

// Run fetches cfg.SourceURL and writes it to cfg.DestinationPath.
// A failed fetch never reaches the writer. Concurrent runs for the same
// destination are serialized.
func (s *Syncer) Run(ctx context.Context, cfg Config) Result {
	dest := cfg.DestinationPath()
	unlock := s.gate.lock(dest)
	defer unlock()

	s.log.Debug("fetching config", "url", cfg.SourceURL)
	content, err := s.fetcher.Fetch(ctx, cfg.SourceURL)
	if err != nil {
		result := Result{Kind: FetchFailure, Reason: err.Error(), Err: err}
		var fetchErr *fetch.FetchError
		if errors.As(err, &fetchErr) {
			result.StatusCode = fetchErr.StatusCode
		}
		return result
	}

	s.log.Debug("writing config", "path", dest, "bytes", len(content))
	if err := s.writer.Write(ctx, content, dest); err != nil {
		if errors.Is(err, writer.ErrPermissionDenied) {
			return Result{Kind: WritePermissionDenied, Path: dest, Reason: err.Error(), Err: err}
		}
		return Result{Kind: WriteFailure, Path: dest, Reason: err.Error(), Err: err}
	}
	return Result{Kind: Success, Path: dest}
}
