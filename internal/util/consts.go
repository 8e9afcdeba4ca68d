package util

// AppName is the binary and log prefix name.
const AppName = "boxfetch"

// Application-level paths.
const (
	// DefaultDirectory is where the box module reads sing-box configuration from.
	DefaultDirectory = "/data/adb/box/sing-box"
	// DefaultFilename is the configuration file written when none is given.
	DefaultFilename = "config.json"
	// LockFilename is the single-instance lock held by a running watcher.
	LockFilename = "watch.lock"
)
