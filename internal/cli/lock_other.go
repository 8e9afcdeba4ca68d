//go:build !unix

package cli

import (
	"errors"

	"github.com/bolasblack/boxfetch/internal/util"
)

// ErrAlreadyRunning is returned when another watcher holds the lock.
var ErrAlreadyRunning = errors.New("another boxfetch watch is already running")

// acquireLock is a no-op where flock is unavailable.
func acquireLock(env *util.Env, path string) (func(), error) {
	env.Log.Warn("single-instance lock unsupported on this platform", "path", path)
	return func() {}, nil
}
