package render

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"reflect"
	"sync/atomic"
	"time"

	fb "github.com/gonutz/framebuffer"
	xdraw "golang.org/x/image/draw"

	"github.com/rook-computer/bannercast/internal/present"
)

const DefaultFBDevice = "/dev/fb0"

// FBRenderer shows a frame source full screen on a Linux framebuffer,
// drawing into an offscreen logical canvas that is scaled to the device.
type FBRenderer struct {
	Device string
	Banner *BannerRenderer
	Logger interface {
		Debugf(string, string, ...interface{})
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}

	fbDev   *fb.Device
	canvas  *image.RGBA
	running atomic.Bool
	started time.Time
	last    *present.Presentation
}

func NewFBRenderer(device string, banner *BannerRenderer) *FBRenderer {
	if device == "" {
		device = DefaultFBDevice
	}
	return &FBRenderer{Device: device, Banner: banner}
}

func (r *FBRenderer) Start(ctx context.Context) error {
	if r.Banner == nil {
		return fmt.Errorf("framebuffer %s: no banner renderer", r.Device)
	}
	dev, err := fb.Open(r.Device)
	if err != nil {
		return fmt.Errorf("open framebuffer %s: %w", r.Device, err)
	}
	r.fbDev = dev
	if r.Logger != nil {
		bounds := dev.Bounds()
		r.Logger.Infof("fb", "framebuffer open, bounds=%dx%d", bounds.Dx(), bounds.Dy())
	}

	r.canvas = image.NewRGBA(image.Rectangle{Max: CanvasSize()})
	r.started = time.Now()
	r.running.Store(true)
	return nil
}

func (r *FBRenderer) Stop() error {
	r.running.Store(false)
	if r.fbDev != nil {
		r.fbDev.Close()
		r.fbDev = nil
	}
	return nil
}

// Redraw renders p at the given animation offset and pushes it to the
// device. Unchanged static frames are skipped.
func (r *FBRenderer) Redraw(p present.Presentation, offset float64) {
	if !r.running.Load() || r.fbDev == nil {
		return
	}
	if !p.Timing.Animated() && r.last != nil && reflect.DeepEqual(*r.last, p) {
		return
	}
	r.last = &p

	draw.Draw(r.canvas, r.canvas.Bounds(), image.NewUniform(KioskBackground), image.Point{}, draw.Src)
	frame := r.Banner.Render(p, CanvasSize(), offset)
	draw.Draw(r.canvas, r.canvas.Bounds(), frame, image.Point{}, draw.Over)
	blitToFB(r.fbDev, r.canvas)

	if r.Logger != nil {
		r.Logger.Debugf("fb", "redraw done, animation=%s offset=%.3f", p.Timing.Animation, offset)
	}
}

// RunLoop continuously redraws at ~30 FPS until the context is done.
func (r *FBRenderer) RunLoop(ctx context.Context, src FrameSource) {
	ticker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p := src.Presentation()
			r.Redraw(p, p.Timing.Offset(time.Since(r.started).Seconds()))
		}
	}
}

// blitToFB scales the canvas onto the whole device.
func blitToFB(dev *fb.Device, canvas *image.RGBA) {
	if dev == nil {
		return
	}
	xdraw.ApproxBiLinear.Scale(dev, dev.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)
}
