//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

const evKey = 0x01

// Linux input-event-codes.h
const (
	KeyEsc = 1
	KeyF4  = 62
)

// WatchExitKeys watches evdev devices under /dev/input/event* and calls onExit
// once when any of keys is pressed. Without input devices it logs and
// returns.
func WatchExitKeys(ctx context.Context, l logger, keys []uint16, onExit func()) {
	if onExit == nil || len(keys) == 0 {
		return
	}

	// input_event = timeval + u16 type + u16 code + s32 value
	tvSize := binary.Size(unix.Timeval{})
	eventSize := tvSize + 2 + 2 + 4

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if l != nil {
			l.Infof("input", "no evdev devices found, exit keys disabled")
		}
		return
	}

	wanted := make(map[uint16]struct{}, len(keys))
	for _, k := range keys {
		wanted[k] = struct{}{}
	}

	var once sync.Once
	trigger := func(code uint16) {
		once.Do(func() {
			if l != nil {
				l.Infof("input", "exit key %d pressed", code)
			}
			onExit()
		})
	}

	for _, path := range paths {
		go readExitKeys(ctx, path, tvSize, eventSize, wanted, trigger)
	}
}

func readExitKeys(ctx context.Context, path string, tvSize, eventSize int, wanted map[uint16]struct{}, trigger func(uint16)) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer f.Close() //nolint:errcheck

	buf := make([]byte, eventSize*64)
	for {
		if ctx.Err() != nil {
			return
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}

		for off := 0; off+eventSize <= n; off += eventSize {
			rec := buf[off : off+eventSize]
			typ := binary.LittleEndian.Uint16(rec[tvSize:])
			code := binary.LittleEndian.Uint16(rec[tvSize+2:])
			value := int32(binary.LittleEndian.Uint32(rec[tvSize+4:]))
			if _, ok := wanted[code]; ok && typ == evKey && value == 1 {
				trigger(code)
				return
			}
		}
	}
}
