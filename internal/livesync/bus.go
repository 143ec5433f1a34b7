// Package livesync is the live editing transport: an in-process registry of
// named broadcast channels that carry full configuration snapshots from an
// editor to any number of overlays.
package livesync

import (
	"errors"
	"sync"

	"github.com/rook-computer/bannercast/internal/banner"
)

const (
	// TypeUpdate is the only envelope type overlays act on.
	TypeUpdate = "overlay:update"

	// DefaultChannel is the channel name shared by the editor and overlays.
	DefaultChannel = "floating-text-overlay"

	defaultQueueSize = 64
)

var (
	ErrBusClosed   = errors.New("livesync: bus closed")
	ErrEmptyName   = errors.New("livesync: empty channel name")
	ErrNilBus      = errors.New("livesync: no bus")
	ErrChannelGone = errors.New("livesync: channel closed")
)

// Envelope is the wire message. Payload is always a complete configuration.
type Envelope struct {
	Type    string         `json:"type"`
	Payload *banner.Config `json:"payload,omitempty"`
}

// UpdateEnvelope wraps cfg in an overlay:update envelope.
func UpdateEnvelope(cfg banner.Config) Envelope {
	return Envelope{Type: TypeUpdate, Payload: &cfg}
}

// Bus holds at most one topic per channel name. Topics live as long as at
// least one Channel handle is open on them.
type Bus struct {
	QueueSize int

	mu     sync.Mutex
	topics map[string]*topic
	closed bool
}

func NewBus() *Bus {
	return &Bus{QueueSize: defaultQueueSize, topics: make(map[string]*topic)}
}

type topic struct {
	name    string
	mu      sync.Mutex
	members map[*Channel]struct{}
}

// Open returns a new handle on the named channel.
func (b *Bus) Open(name string) (*Channel, error) {
	if b == nil {
		return nil, ErrNilBus
	}
	if name == "" {
		return nil, ErrEmptyName
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBusClosed
	}
	if b.topics == nil {
		b.topics = make(map[string]*topic)
	}

	t, ok := b.topics[name]
	if !ok {
		t = &topic{name: name, members: make(map[*Channel]struct{})}
		b.topics[name] = t
	}

	size := b.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	ch := &Channel{bus: b, topic: t, queue: make(chan Envelope, size)}

	t.mu.Lock()
	t.members[ch] = struct{}{}
	t.mu.Unlock()
	return ch, nil
}

// Subscribers returns the number of open handles on name.
func (b *Bus) Subscribers(name string) int {
	b.mu.Lock()
	t, ok := b.topics[name]
	b.mu.Unlock()
	if !ok {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.members)
}

// Close closes every open handle and refuses new ones.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	var handles []*Channel
	for _, t := range b.topics {
		t.mu.Lock()
		for ch := range t.members {
			handles = append(handles, ch)
		}
		t.mu.Unlock()
	}
	b.mu.Unlock()

	for _, ch := range handles {
		ch.Close()
	}
}

func (b *Bus) release(ch *Channel) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := ch.topic
	t.mu.Lock()
	delete(t.members, ch)
	empty := len(t.members) == 0
	t.mu.Unlock()

	if empty && b.topics[t.name] == t {
		delete(b.topics, t.name)
	}
}

// Channel is one handle on a named topic. A handle never receives its own
// messages.
type Channel struct {
	bus   *Bus
	topic *topic
	queue chan Envelope

	// guarded by topic.mu
	closed  bool
	dropped uint64
}

// Name returns the channel name.
func (c *Channel) Name() string { return c.topic.name }

// Publish delivers env to every other handle on the topic without blocking.
// A receiver whose queue is full misses the message.
func (c *Channel) Publish(env Envelope) error {
	t := c.topic
	t.mu.Lock()
	defer t.mu.Unlock()

	if c.closed {
		return ErrChannelGone
	}
	for member := range t.members {
		if member == c || member.closed {
			continue
		}
		select {
		case member.queue <- copyEnvelope(env):
		default:
			member.dropped++
		}
	}
	return nil
}

// Messages returns the receive queue. It is closed by Close.
func (c *Channel) Messages() <-chan Envelope { return c.queue }

// Dropped returns how many messages this handle missed because its queue
// was full.
func (c *Channel) Dropped() uint64 {
	c.topic.mu.Lock()
	defer c.topic.mu.Unlock()
	return c.dropped
}

// Close releases the handle. It is safe to call more than once.
func (c *Channel) Close() {
	c.topic.mu.Lock()
	if c.closed {
		c.topic.mu.Unlock()
		return
	}
	c.closed = true
	close(c.queue)
	c.topic.mu.Unlock()

	c.bus.release(c)
}

func copyEnvelope(env Envelope) Envelope {
	if env.Payload != nil {
		p := *env.Payload
		env.Payload = &p
	}
	return env
}
