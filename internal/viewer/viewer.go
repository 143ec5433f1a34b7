// Package viewer is the overlay context: it renders from the configuration
// in its launch URL and, when live, replaces it wholesale with every
// snapshot the editor broadcasts.
package viewer

import (
	"sync"

	"github.com/rook-computer/bannercast/internal/banner"
	"github.com/rook-computer/bannercast/internal/livesync"
	"github.com/rook-computer/bannercast/internal/present"
	"github.com/rook-computer/bannercast/internal/state"
	"github.com/rook-computer/bannercast/internal/urlcodec"
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

// Frame is one derived presentation together with the store version it was
// derived from.
type Frame struct {
	Version      uint64
	Config       banner.Config
	Presentation present.Presentation
}

type Viewer struct {
	store    *state.Store
	endpoint *livesync.Endpoint
	logger   Logger

	mu      sync.RWMutex
	current Frame
	changes chan Frame
}

// New builds the overlay from launchQuery and starts listening on endpoint.
// A nil or inert endpoint leaves the overlay static.
func New(launchQuery string, endpoint *livesync.Endpoint, logger Logger) *Viewer {
	if logger == nil {
		logger = noopLogger{}
	}
	v := &Viewer{
		store:    state.NewStore(urlcodec.Decode(launchQuery)),
		endpoint: endpoint,
		logger:   logger,
		changes:  make(chan Frame, 1),
	}
	v.current = frameOf(v.store.Snapshot())

	if endpoint.Subscribe(v.apply) {
		logger.Infof("viewer", "listening for live updates")
	}
	return v
}

func frameOf(snap state.Snapshot) Frame {
	return Frame{
		Version:      snap.Version,
		Config:       snap.Config,
		Presentation: present.Derive(snap.Config),
	}
}

// apply replaces the whole configuration; fields are never merged.
func (v *Viewer) apply(cfg banner.Config) {
	frame := frameOf(v.store.Replace(cfg.Normalize()))

	v.mu.Lock()
	v.current = frame
	v.mu.Unlock()

	// keep only the latest frame for slow readers
	select {
	case <-v.changes:
	default:
	}
	select {
	case v.changes <- frame:
	default:
	}
}

// Current returns the frame the overlay shows now.
func (v *Viewer) Current() Frame {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Presentation returns the presentation the overlay shows now.
func (v *Viewer) Presentation() present.Presentation {
	return v.Current().Presentation
}

// Changes yields the newest frame after each live update. Intermediate
// frames are dropped when the reader falls behind.
func (v *Viewer) Changes() <-chan Frame {
	return v.changes
}

// Live reports whether the overlay receives live updates.
func (v *Viewer) Live() bool {
	return v.endpoint.Live()
}

// Close stops listening.
func (v *Viewer) Close() {
	v.endpoint.Close()
}
