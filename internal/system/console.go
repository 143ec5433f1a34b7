// Package system controls the local console when the overlay is shown full
// screen on a kiosk display.
package system

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Console switches the virtual terminal into graphics mode for the lifetime
// of a kiosk session so that neither the cursor nor console text bleeds
// through the framebuffer.
type Console struct {
	Logger logger

	entered bool
}

// Enter sets KD_GRAPHICS and hides the cursor. Failures are logged and
// returned but leave the console usable.
func (c *Console) Enter() error {
	err := setConsoleMode(kdGraphicsMode)
	c.log(err, "KD_GRAPHICS set", "KD_GRAPHICS failed: %v")
	if err == nil {
		c.entered = true
	}
	cerr := writeVT(hideCursor)
	c.log(cerr, "cursor hidden", "hide cursor failed: %v")
	if err != nil {
		return err
	}
	return cerr
}

// Leave shows the cursor and restores text mode. It is safe to call when
// Enter failed.
func (c *Console) Leave() error {
	cerr := writeVT(showCursor)
	c.log(cerr, "cursor shown", "show cursor failed: %v")
	if !c.entered {
		return cerr
	}
	c.entered = false
	err := setConsoleMode(kdTextMode)
	c.log(err, "KD_TEXT set", "KD_TEXT failed: %v")
	if err != nil {
		return err
	}
	return cerr
}

func (c *Console) log(err error, ok, failed string) {
	if c.Logger == nil {
		return
	}
	if err != nil {
		c.Logger.Errorf("tty", failed, err)
		return
	}
	c.Logger.Infof("tty", "%s", ok)
}

const (
	kdTextMode     = 0x00
	kdGraphicsMode = 0x01

	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
)
