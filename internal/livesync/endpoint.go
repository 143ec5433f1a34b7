package livesync

import (
	"sync"

	"github.com/rook-computer/bannercast/internal/banner"
)

// Logger matches the logging shape used across the application.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

// Endpoint is what the editor and overlay contexts hold. When the channel
// could not be opened it is inert: Publish and Subscribe do nothing and the
// context keeps working from its URL-decoded state.
type Endpoint struct {
	ch     *Channel
	logger Logger

	mu         sync.Mutex
	subscribed bool
	closed     bool
	wg         sync.WaitGroup
}

// Connect opens name on bus. It never fails.
func Connect(bus *Bus, name string, logger Logger) *Endpoint {
	if logger == nil {
		logger = noopLogger{}
	}
	e := &Endpoint{logger: logger}

	ch, err := bus.Open(name)
	if err != nil {
		logger.Errorf("livesync", "channel %q unavailable, live updates disabled: %v", name, err)
		return e
	}
	e.ch = ch
	return e
}

// Live reports whether the endpoint is attached to a channel.
func (e *Endpoint) Live() bool {
	return e != nil && e.ch != nil
}

// Publish sends env, fire-and-forget.
func (e *Endpoint) Publish(env Envelope) {
	if !e.Live() {
		return
	}
	if err := e.ch.Publish(env); err != nil {
		e.logger.Errorf("livesync", "publish on %q: %v", e.ch.Name(), err)
	}
}

// PublishConfig broadcasts cfg as an overlay:update envelope.
func (e *Endpoint) PublishConfig(cfg banner.Config) {
	e.Publish(UpdateEnvelope(cfg))
}

// Subscribe starts delivering update payloads to fn from a single
// goroutine, in arrival order. Only the first call has an effect. fn must
// not call Close.
func (e *Endpoint) Subscribe(fn func(cfg banner.Config)) bool {
	if !e.Live() || fn == nil {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.subscribed || e.closed {
		return false
	}
	e.subscribed = true

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		for env := range e.ch.Messages() {
			if env.Type != TypeUpdate || env.Payload == nil {
				continue
			}
			fn(*env.Payload)
		}
	}()
	return true
}

// Close releases the channel and waits for the delivery goroutine.
func (e *Endpoint) Close() {
	if e == nil {
		return
	}
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	if e.ch != nil {
		e.ch.Close()
	}
	e.wg.Wait()
}
