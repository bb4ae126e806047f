//go:build linux

package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/SublimeIbanez/Overseer/internal/errors"
)

// One inotify record is SizeofInotifyEvent plus a name of up to NAME_MAX
// bytes; this buffer fits a healthy batch of them.
const readBufSize = 5120

// linuxBackend implements Backend on a single inotify descriptor. Watched
// directories are registered with IN_MODIFY|IN_CREATE and all pending
// records are drained from the one descriptor per read.
type linuxBackend struct {
	logger  *slog.Logger
	watches map[string]int
	wdPaths map[int]string
	events  chan Event
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup
	fd      int
	mu      sync.RWMutex
}

func newLinuxBackend(logger *slog.Logger, opts Options) (Backend, error) {
	opts.setDefaults()

	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC | unix.IN_NONBLOCK)
	if err != nil {
		return nil, errors.OS("inotify init failed", err)
	}

	return &linuxBackend{
		logger:  logger,
		fd:      fd,
		watches: make(map[string]int),
		wdPaths: make(map[int]string),
		events:  make(chan Event, opts.EventBuffer),
		errors:  make(chan error, 1),
		done:    make(chan struct{}),
	}, nil
}

// Watch registers path with the shared inotify descriptor.
func (b *linuxBackend) Watch(path string) error {
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.PathNotFound(path)
		}
		return errors.IO("stat failed", err)
	}
	if !info.IsDir() {
		return errors.NotADirectory(path)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.watches[path]; exists {
		return nil
	}

	wd, err := unix.InotifyAddWatch(b.fd, path, unix.IN_MODIFY|unix.IN_CREATE)
	if err != nil {
		return errors.OS("inotify add watch failed", err)
	}

	b.watches[path] = wd
	b.wdPaths[wd] = path
	b.logger.Debug("added watch", "path", path, "wd", wd)

	return nil
}

// Start reads records until the context is cancelled.
func (b *linuxBackend) Start(ctx context.Context) error {
	b.wg.Add(1)
	go b.readEvents(ctx)

	<-ctx.Done()
	return nil
}

// readEvents drains the inotify descriptor. The descriptor is non-blocking
// and polled so shutdown is noticed promptly.
func (b *linuxBackend) readEvents(ctx context.Context) {
	defer b.wg.Done()

	buf := make([]byte, readBufSize)
	pollFds := []unix.PollFd{{Fd: int32(b.fd), Events: unix.POLLIN}}

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.done:
			return
		default:
		}

		n, err := unix.Poll(pollFds, 250)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			b.fail(errors.OS("inotify poll failed", err))
			return
		}
		if n == 0 {
			continue
		}

		n, err = unix.Read(b.fd, buf)
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			b.fail(errors.OS("inotify read failed", err))
			return
		}
		if n < unix.SizeofInotifyEvent {
			continue
		}

		if err := b.parseEvents(buf[:n]); err != nil {
			b.fail(err)
			return
		}
	}
}

// parseEvents walks a batch of raw records and emits one Event each.
func (b *linuxBackend) parseEvents(buf []byte) error {
	offset := 0
	for offset < len(buf) {
		//nolint:gosec // G103: raw inotify record layout
		raw := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
		offset += unix.SizeofInotifyEvent + int(raw.Len)

		b.mu.RLock()
		dir, ok := b.wdPaths[int(raw.Wd)]
		b.mu.RUnlock()
		if !ok {
			continue
		}

		name := ""
		if raw.Len > 0 {
			nameBytes := buf[offset-int(raw.Len) : offset]
			name = string(nameBytes[:clen(nameBytes)])
			if !utf8.ValidString(name) {
				return errors.Decode("event name is not valid utf-8", nil)
			}
		}

		b.emit(Event{
			Kind: DecodeMask(raw.Mask),
			Name: name,
			Path: filepath.Join(dir, name),
			Time: time.Now(),
		})
	}
	return nil
}

func (b *linuxBackend) emit(ev Event) {
	select {
	case b.events <- ev:
	case <-b.done:
	}
}

func (b *linuxBackend) fail(err error) {
	select {
	case b.errors <- err:
	case <-b.done:
	}
}

// Events returns the events channel.
func (b *linuxBackend) Events() <-chan Event {
	return b.events
}

// Errors returns the errors channel.
func (b *linuxBackend) Errors() <-chan error {
	return b.errors
}

// Stop stops the backend.
func (b *linuxBackend) Stop() error {
	close(b.done)
	b.wg.Wait()

	var closeErr error
	if b.fd >= 0 {
		closeErr = unix.Close(b.fd)
	}

	close(b.events)
	close(b.errors)

	if closeErr != nil {
		return errors.OS("inotify close failed", closeErr)
	}
	return nil
}

// clen returns the length of a null-terminated byte slice.
func clen(n []byte) int {
	for i := 0; i < len(n); i++ {
		if n[i] == 0 {
			return i
		}
	}
	return len(n)
}

// newFallbackBackend is a stub that should never be called on Linux.
func newFallbackBackend(_ *slog.Logger, _ Options) (Backend, error) {
	return nil, errors.OS("fallback backend not available on linux", nil)
}
