package watcher

import "os"

// envDaemonMarker marks the re-executed child so it can tell it is the
// detached copy and finish the daemon setup instead of spawning again.
const envDaemonMarker = "OVERSEER_DAEMONIZED"

// InDaemon reports whether this process is the detached copy.
func InDaemon() bool {
	return os.Getenv(envDaemonMarker) == "1"
}
