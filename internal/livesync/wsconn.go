package livesync

import (
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

var (
	pingInterval = 30 * time.Second
	pingTimeout  = 5 * time.Second
	writeTimeout = 2 * time.Second
)

const (
	// a full configuration is well under a kilobyte
	maxEnvelopeBytes = 64 << 10

	sendQueueSize = 8
)

// ErrConnClosed is returned by Send after Close.
var ErrConnClosed = errors.New("livesync: connection closed")

var upgrader = websocket.Upgrader{
	// Browser sources and capture tools load the overlay from arbitrary
	// origins (file://, OBS, localhost on another port).
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServerConn is the server end of a browser on a live channel. It carries
// envelopes only. Outbound envelopes are queued and written by one goroutine
// that also pings the browser; a browser that falls behind loses the oldest
// queued snapshots, never the newest.
type ServerConn struct {
	wc *websocket.Conn

	queue     chan Envelope
	done      chan struct{}
	closeOnce sync.Once
	dropped   atomic.Uint64
}

// NewServerConn upgrades the request and starts the writer.
func NewServerConn(w http.ResponseWriter, req *http.Request) (*ServerConn, error) {
	wc, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		return nil, err
	}

	wc.SetReadLimit(maxEnvelopeBytes)
	wc.SetReadDeadline(time.Now().Add(pingInterval + pingTimeout)) //nolint:errcheck
	wc.SetPongHandler(func(string) error {
		return wc.SetReadDeadline(time.Now().Add(pingInterval + pingTimeout))
	})

	c := newServerConn(wc)
	go c.writeLoop()
	return c, nil
}

func newServerConn(wc *websocket.Conn) *ServerConn {
	return &ServerConn{
		wc:    wc,
		queue: make(chan Envelope, sendQueueSize),
		done:  make(chan struct{}),
	}
}

// Close closes the connection. Safe to call more than once.
func (c *ServerConn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.wc != nil {
			c.wc.Close() //nolint:errcheck
		}
	})
}

// RemoteAddr returns the remote address.
func (c *ServerConn) RemoteAddr() net.Addr {
	return c.wc.RemoteAddr()
}

// Dropped returns how many queued envelopes were discarded for newer ones.
func (c *ServerConn) Dropped() uint64 {
	return c.dropped.Load()
}

// Send queues env for the browser without blocking. Only one goroutine may
// send.
func (c *ServerConn) Send(env Envelope) error {
	for {
		select {
		case <-c.done:
			return ErrConnClosed
		default:
		}

		select {
		case c.queue <- env:
			return nil
		default:
		}

		// full: every envelope is a complete snapshot, so the oldest one
		// is the cheapest to lose
		select {
		case <-c.queue:
			c.dropped.Add(1)
		default:
		}
	}
}

// Receive reads one envelope. Only one goroutine may receive.
func (c *ServerConn) Receive() (Envelope, error) {
	var env Envelope
	if err := c.wc.ReadJSON(&env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

// writeLoop ends the connection on the first failed write, which also
// unblocks Receive.
func (c *ServerConn) writeLoop() {
	defer c.Close()

	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case env := <-c.queue:
			c.wc.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if err := c.wc.WriteJSON(env); err != nil {
				return
			}

		case <-pingTicker.C:
			if err := c.wc.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}
