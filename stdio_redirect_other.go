//go:build !unix

package main

import (
	"fmt"
	"os"
	"time"
)

// Without dup2 only writes through os.Stdout and os.Stderr are captured;
// runtime panics still go to the original stderr.
func redirectStdIO(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open stdio log: %w", err)
	}
	os.Stdout = f
	os.Stderr = f

	fmt.Printf("--- bannercast %s started %s ---\n", version, time.Now().Format(time.RFC3339))
	return nil
}
