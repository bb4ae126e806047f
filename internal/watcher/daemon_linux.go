//go:build linux

package watcher

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/SublimeIbanez/Overseer/internal/errors"
)

// Daemonize detaches the process from its controlling terminal by
// re-executing itself in a new session with stdout and stderr redirected
// to logPath. The parent call returns child=false and should exit; the
// detached copy returns child=true after finishing its setup (clear
// umask, chdir to /).
func Daemonize(logPath string) (child bool, err error) {
	if InDaemon() {
		unix.Umask(0)
		if err := os.Chdir("/"); err != nil {
			return true, errors.OS("chdir to / failed", err)
		}
		return true, nil
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return false, errors.IO("open daemon log", err)
	}
	defer logFile.Close()

	exe, err := os.Executable()
	if err != nil {
		return false, errors.OS("resolve executable path", err)
	}

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Env = append(os.Environ(), envDaemonMarker+"=1")
	cmd.Stdin = nil
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return false, errors.OS("spawn daemon process", err)
	}
	return false, nil
}
