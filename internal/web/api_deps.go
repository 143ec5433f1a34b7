package web

import (
	"errors"
	"image"

	"golang.org/x/time/rate"

	"github.com/rook-computer/bannercast/internal/banner"
	"github.com/rook-computer/bannercast/internal/editor"
	"github.com/rook-computer/bannercast/internal/livesync"
	"github.com/rook-computer/bannercast/internal/present"
	"github.com/rook-computer/bannercast/internal/state"
)

// ConfigEditor abstracts the editing context used by the API.
//
// The concrete implementation is *editor.Editor.
type ConfigEditor interface {
	Snapshot() state.Snapshot
	Update(fn func(cfg *banner.Config)) state.Snapshot
	Replace(cfg banner.Config) state.Snapshot
	Reset() state.Snapshot
	Set(field, raw string) (state.Snapshot, error)
	ShareQuery() string
	ShareURL(base string) (string, error)
}

// sysLogger matches the logging shape used across the application.
// It is intentionally tiny so callers can pass existing loggers without adapters.
type sysLogger interface {
	Debugf(component string, format string, args ...interface{})
	Infof(component string, format string, args ...interface{})
	Warnf(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopSysLogger struct{}

func (noopSysLogger) Debugf(string, string, ...interface{}) {}
func (noopSysLogger) Infof(string, string, ...interface{})  {}
func (noopSysLogger) Warnf(string, string, ...interface{})  {}
func (noopSysLogger) Errorf(string, string, ...interface{}) {}

// Rasterizer renders a presentation to an image.
type Rasterizer interface {
	Render(p present.Presentation, size image.Point, offset float64) *image.RGBA
}

type APIV1Deps struct {
	Editor   ConfigEditor
	Renderer Rasterizer

	// Bus backs the WebSocket bridge. Without it the bridge answers 503.
	Bus *livesync.Bus

	// PublicURL is the base for share links; see ServerConfig.PublicURL.
	PublicURL string

	// Inbound limits how fast one browser connection may publish updates.
	Inbound      rate.Limit
	InboundBurst int

	Logger sysLogger
}

const (
	defaultInboundRate  = 30
	defaultInboundBurst = 10
)

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Editor == nil {
		out.Editor = editor.New("", nil, nil)
	}
	if out.Renderer == nil {
		out.Renderer = NoopRasterizer{Err: errors.New("renderer not configured")}
	}
	if out.Inbound == 0 {
		out.Inbound = defaultInboundRate
	}
	if out.InboundBurst <= 0 {
		out.InboundBurst = defaultInboundBurst
	}
	if out.Logger == nil {
		out.Logger = noopSysLogger{}
	}
	return out
}

// NoopRasterizer renders nothing; the snapshot route reports Err.
type NoopRasterizer struct{ Err error }

func (NoopRasterizer) Render(present.Presentation, image.Point, float64) *image.RGBA {
	return nil
}

func (n NoopRasterizer) err() error {
	if n.Err != nil {
		return n.Err
	}
	return errors.New("renderer not configured")
}
