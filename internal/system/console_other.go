//go:build !linux

package system

import "errors"

var errNoConsole = errors.New("virtual terminal control is only available on linux")

func setConsoleMode(int) error { return errNoConsole }

func writeVT(string) error { return errNoConsole }
