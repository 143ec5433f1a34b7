//go:build !linux

package system

import "context"

const (
	KeyEsc = 1
	KeyF4  = 62
)

// WatchExitKeys is a no-op outside linux.
func WatchExitKeys(ctx context.Context, l logger, keys []uint16, onExit func()) {
	if l != nil {
		l.Infof("input", "exit keys are only supported on linux")
	}
}
