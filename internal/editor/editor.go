// Package editor is the editing context: it owns the live configuration,
// applies form changes to it and broadcasts every new snapshot.
package editor

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/rook-computer/bannercast/internal/banner"
	"github.com/rook-computer/bannercast/internal/livesync"
	"github.com/rook-computer/bannercast/internal/state"
	"github.com/rook-computer/bannercast/internal/urlcodec"
)

var ErrUnknownField = errors.New("unknown field")

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

type Editor struct {
	store    *state.Store
	endpoint *livesync.Endpoint
	logger   Logger

	// serializes store writes with their broadcast so that overlays see
	// snapshots in version order
	mu sync.Mutex
}

// New creates the editor from its own launch query. endpoint may be nil or
// inert, in which case changes are only kept locally.
func New(launchQuery string, endpoint *livesync.Endpoint, logger Logger) *Editor {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Editor{
		store:    state.NewStore(urlcodec.Decode(launchQuery)),
		endpoint: endpoint,
		logger:   logger,
	}
}

// Follow mirrors updates published on the channel by other editors (for
// example a browser tab talking to the WebSocket bridge) without
// re-broadcasting them.
func (e *Editor) Follow() bool {
	return e.endpoint.Subscribe(func(cfg banner.Config) {
		e.mu.Lock()
		defer e.mu.Unlock()
		snap := e.store.Replace(cfg.Clamp())
		e.logger.Infof("editor", "adopted external update v%d", snap.Version)
	})
}

func (e *Editor) Config() banner.Config {
	return e.store.Config()
}

func (e *Editor) Snapshot() state.Snapshot {
	return e.store.Snapshot()
}

// Update applies fn, clamps the result to the editor limits, stores it and
// broadcasts it.
func (e *Editor) Update(fn func(cfg *banner.Config)) state.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := e.store.Update(func(cfg *banner.Config) {
		fn(cfg)
		*cfg = cfg.Clamp()
	})
	e.endpoint.PublishConfig(snap.Config)
	return snap
}

// Replace swaps in cfg wholesale (clamped) and broadcasts it.
func (e *Editor) Replace(cfg banner.Config) state.Snapshot {
	return e.Update(func(c *banner.Config) { *c = cfg })
}

// Reset restores the defaults and broadcasts them.
func (e *Editor) Reset() state.Snapshot {
	return e.Replace(banner.Default())
}

// Set applies one form widget change. Raw values use the form's text
// representation; numbers must parse and enums must be valid literals.
func (e *Editor) Set(field, raw string) (state.Snapshot, error) {
	apply, err := setter(field, raw)
	if err != nil {
		return e.Snapshot(), err
	}
	return e.Update(apply), nil
}

func setter(field, raw string) (func(*banner.Config), error) {
	text := func(dst func(*banner.Config) *string) (func(*banner.Config), error) {
		return func(c *banner.Config) { *dst(c) = raw }, nil
	}
	integer := func(dst func(*banner.Config) *int) (func(*banner.Config), error) {
		v, err := number(field, raw)
		if err != nil {
			return nil, err
		}
		v = math.Max(math.MinInt32, math.Min(math.MaxInt32, math.Round(v)))
		return func(c *banner.Config) { *dst(c) = int(v) }, nil
	}
	boolean := func(dst func(*banner.Config) *bool) (func(*banner.Config), error) {
		var v bool
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "1", "on":
			v = true
		case "false", "0", "off", "":
			v = false
		default:
			return nil, fmt.Errorf("%s: %q is not a boolean", field, raw)
		}
		return func(c *banner.Config) { *dst(c) = v }, nil
	}

	switch field {
	case "message":
		return text(func(c *banner.Config) *string { return &c.Message })
	case "caption":
		return text(func(c *banner.Config) *string { return &c.Caption })
	case "fontFamily":
		return text(func(c *banner.Config) *string { return &c.FontFamily })
	case "textColor":
		return text(func(c *banner.Config) *string { return &c.TextColor })
	case "outlineColor":
		return text(func(c *banner.Config) *string { return &c.OutlineColor })
	case "backgroundColor":
		return text(func(c *banner.Config) *string { return &c.BackgroundColor })
	case "shadowColor":
		return text(func(c *banner.Config) *string { return &c.ShadowColor })
	case "gradientFrom":
		return text(func(c *banner.Config) *string { return &c.GradientFrom })
	case "gradientTo":
		return text(func(c *banner.Config) *string { return &c.GradientTo })
	case "fontSize":
		return integer(func(c *banner.Config) *int { return &c.FontSize })
	case "fontWeight":
		return integer(func(c *banner.Config) *int { return &c.FontWeight })
	case "letterSpacing":
		return integer(func(c *banner.Config) *int { return &c.LetterSpacing })
	case "outlineWidth":
		return integer(func(c *banner.Config) *int { return &c.OutlineWidth })
	case "paddingY":
		return integer(func(c *banner.Config) *int { return &c.PaddingY })
	case "speed":
		return integer(func(c *banner.Config) *int { return &c.Speed })
	case "dropShadow":
		return boolean(func(c *banner.Config) *bool { return &c.DropShadow })
	case "uppercase":
		return boolean(func(c *banner.Config) *bool { return &c.Uppercase })
	case "gradient":
		return boolean(func(c *banner.Config) *bool { return &c.Gradient })
	case "backgroundOpacity":
		v, err := number(field, raw)
		if err != nil {
			return nil, err
		}
		return func(c *banner.Config) { c.BackgroundOpacity = v }, nil
	case "animation":
		a, ok := banner.ParseAnimation(raw)
		if !ok {
			return nil, fmt.Errorf("%s: %q is not one of static, marquee, bounce", field, raw)
		}
		return func(c *banner.Config) { c.Animation = a }, nil
	case "textAlign":
		a, ok := banner.ParseAlign(raw)
		if !ok {
			return nil, fmt.Errorf("%s: %q is not one of left, center, right", field, raw)
		}
		return func(c *banner.Config) { c.TextAlign = a }, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
}

func number(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s: %q is not a number", field, raw)
	}
	return v, nil
}

// ShareQuery encodes the current configuration.
func (e *Editor) ShareQuery() string {
	return urlcodec.Encode(e.Config())
}

// ShareURL returns base (normally the overlay page URL) carrying the
// current configuration.
func (e *Editor) ShareURL(base string) (string, error) {
	return urlcodec.ShareURL(base, e.Config())
}

// Close releases the live channel.
func (e *Editor) Close() {
	e.endpoint.Close()
}
