//go:build unix

package main

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// redirectStdIO appends stdout and stderr to path and marks the start of the
// run so that crash traces of consecutive runs can be told apart.
func redirectStdIO(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open stdio log: %w", err)
	}
	defer f.Close() //nolint:errcheck

	// panics are written straight to fd 2
	for _, std := range []*os.File{os.Stdout, os.Stderr} {
		if err := unix.Dup2(int(f.Fd()), int(std.Fd())); err != nil {
			return fmt.Errorf("redirect %s: %w", std.Name(), err)
		}
	}

	fmt.Printf("--- bannercast %s started %s ---\n", version, time.Now().Format(time.RFC3339))
	return nil
}
