//go:build !linux

package watcher

import "github.com/SublimeIbanez/Overseer/internal/errors"

// Daemonize is unsupported off Linux; run in the foreground under a
// service manager instead.
func Daemonize(string) (child bool, err error) {
	return false, errors.OS("daemon mode is only supported on linux", nil)
}
