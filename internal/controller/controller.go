// Package controller holds what the user asked for (source, destination,
// interval, enabled) and drives the one periodic scheduler accordingly.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bolasblack/boxfetch/internal/config"
	"github.com/bolasblack/boxfetch/internal/sudo"
	boxsync "github.com/bolasblack/boxfetch/internal/sync"
)

// Settings is the user intent for a sync target.
type Settings struct {
	SourceURL string
	Filename  string
	Directory string
	Interval  time.Duration
}

func (s Settings) syncConfig() boxsync.Config {
	return boxsync.Config{
		SourceURL: s.SourceURL,
		Filename:  s.Filename,
		Directory: s.Directory,
		Interval:  s.Interval,
	}
}

// SettingsFromConfig converts a loaded config file into Settings.
func SettingsFromConfig(cfg config.Config) Settings {
	return Settings{
		SourceURL: cfg.SourceURL,
		Filename:  cfg.Filename,
		Directory: cfg.Directory,
		Interval:  cfg.Interval(),
	}
}

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError explains why a sync or periodic run was refused.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Prober reports elevated permission. *sudo.Prober implements it.
type Prober interface {
	Probe(ctx context.Context) sudo.PermissionState
}

// Scheduler is the subset of *boxsync.Scheduler the controller drives.
type Scheduler interface {
	Start(ctx context.Context, cfg boxsync.Config) error
	Stop()
	Running() bool
	Status() boxsync.Status
}

// Controller owns exactly one scheduler. All methods are safe for
// concurrent use.
type Controller struct {
	mode      sudo.Mode
	prober    Prober
	runner    boxsync.Runner
	scheduler Scheduler
	log       *log.Logger

	mu         sync.Mutex
	settings   Settings
	enabled    bool
	permission sudo.PermissionState
	// runCtx is the context periodic runs are started with.
	runCtx context.Context
	status string
	// statusTick is the scheduler tick count when status was last set;
	// later periodic results take precedence over it.
	statusTick int
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New creates a disabled Controller. runner is used for manual syncs and
// must be the same Runner the scheduler wraps, so both share one path gate.
func New(mode sudo.Mode, prober Prober, runner boxsync.Runner, scheduler Scheduler, settings Settings, opts ...Option) *Controller {
	c := &Controller{
		mode:      mode,
		prober:    prober,
		runner:    runner,
		scheduler: scheduler,
		log:       log.New(io.Discard),
		settings:  settings,
		runCtx:    context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init probes elevated permission once. Without elevation there is nothing
// to probe and permission is treated as granted.
func (c *Controller) Init(ctx context.Context) sudo.PermissionState {
	var state sudo.PermissionState
	if c.mode.Elevated() {
		state = c.prober.Probe(ctx)
		c.log.Info("permission probed", "mode", c.mode, "state", state)
	} else {
		state = sudo.PermissionState{Kind: sudo.PermissionGranted}
		c.log.Debug("permission probe skipped", "mode", c.mode)
	}

	c.mu.Lock()
	c.permission = state
	c.mu.Unlock()
	return state
}

// Permission returns the state recorded by Init.
func (c *Controller) Permission() sudo.PermissionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.permission
}

// Settings returns the current settings.
func (c *Controller) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// Enabled reports whether periodic sync was requested and accepted.
func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// SetEnabled turns periodic sync on or off. Enabling validates the
// settings and permission first; on failure periodic sync stays off and a
// *ValidationError is returned. Enabling while enabled restarts the run.
// ctx bounds the periodic run, not just this call.
func (c *Controller) SetEnabled(ctx context.Context, enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !enabled {
		c.scheduler.Stop()
		if c.enabled {
			c.status = "Periodic sync disabled."
		}
		c.enabled = false
		return nil
	}

	c.runCtx = ctx
	return c.startLocked()
}

// SetConfig replaces the settings. A change while enabled stops the
// current run and starts a new one; if the new settings fail validation
// periodic sync is left disabled.
func (c *Controller) SetConfig(ctx context.Context, settings Settings) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := settings != c.settings
	c.settings = settings
	if !c.enabled || !changed {
		return nil
	}

	c.log.Info("settings changed, restarting periodic sync")
	c.scheduler.Stop()
	c.runCtx = ctx
	return c.startLocked()
}

func (c *Controller) startLocked() error {
	if err := c.validateLocked(); err != nil {
		c.scheduler.Stop()
		c.enabled = false
		c.status = err.Error()
		return err
	}

	if err := c.scheduler.Start(c.runCtx, c.settings.syncConfig()); err != nil {
		c.enabled = false
		c.status = err.Error()
		return fmt.Errorf("failed to start periodic sync: %w", err)
	}
	c.enabled = true
	c.statusTick = 0
	c.status = fmt.Sprintf("Periodic sync enabled, updating every %s.", formatInterval(c.settings.Interval))
	return nil
}

// RunOnce performs one sync now, applying the same checks as SetEnabled
// except the interval. A refused run is returned as a *ValidationError.
func (c *Controller) RunOnce(ctx context.Context) (boxsync.Result, error) {
	c.mu.Lock()
	if err := c.validateRunLocked(); err != nil {
		c.status = err.Error()
		c.mu.Unlock()
		return boxsync.Result{}, err
	}
	cfg := c.settings.syncConfig()
	c.status = "Downloading config..."
	c.mu.Unlock()

	c.log.Info("manual sync", "url", cfg.SourceURL, "path", cfg.DestinationPath())
	result := c.runner.Run(ctx, cfg)

	c.mu.Lock()
	c.status = describeResult(result)
	if c.enabled {
		c.statusTick = c.scheduler.Status().TickCount
	}
	c.mu.Unlock()
	return result, nil
}

// Close stops periodic sync.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheduler.Stop()
	c.enabled = false
}

// Status returns a one-line human readable description of the latest
// state. A periodic result newer than the last manual action wins.
func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.enabled {
		st := c.scheduler.Status()
		if st.LastResult != nil && st.TickCount > c.statusTick {
			text := describeResult(*st.LastResult)
			if !st.NextRunAt.IsZero() {
				text += fmt.Sprintf(" Next sync at %s.", st.NextRunAt.Format(time.DateTime))
			}
			return text
		}
	}
	if c.status == "" {
		return "Idle."
	}
	return c.status
}

func (c *Controller) validateLocked() error {
	if err := c.validateRunLocked(); err != nil {
		return err
	}
	if c.settings.Interval < time.Minute {
		return &ValidationError{Field: "interval", Message: "Interval must be at least 1 minute."}
	}
	return nil
}

func (c *Controller) validateRunLocked() error {
	if c.settings.SourceURL == "" {
		return &ValidationError{Field: "source_url", Message: "Enter a subscription URL first."}
	}
	if err := config.ValidateFilename(c.settings.Filename); err != nil {
		return &ValidationError{Field: "filename", Message: fmt.Sprintf("Invalid filename: %v.", err)}
	}
	if c.mode.Elevated() && !c.permission.Granted() {
		return &ValidationError{
			Field:   "permission",
			Message: fmt.Sprintf("Root permission not available (%s); cannot write to %s.", c.permission, c.settings.Directory),
		}
	}
	return nil
}

func describeResult(r boxsync.Result) string {
	switch r.Kind {
	case boxsync.Success:
		return fmt.Sprintf("Config downloaded and saved to %s.", r.Path)
	case boxsync.WritePermissionDenied:
		return fmt.Sprintf("Operation failed: permission denied writing %s.", r.Path)
	default:
		return fmt.Sprintf("Operation failed: %s.", r.Reason)
	}
}

func formatInterval(d time.Duration) string {
	if d%time.Minute == 0 {
		m := int(d / time.Minute)
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	}
	return d.String()
}
