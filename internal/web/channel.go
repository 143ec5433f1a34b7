package web

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/rook-computer/bannercast/internal/livesync"
)

// handleChannel bridges one browser to a live channel. Each connection
// holds its own handle, so browsers receive updates from the editor and
// from other browsers but never their own.
func handleChannel(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/channel/")
	if name == "" || strings.Contains(name, "/") {
		writeAPIError(w, http.StatusNotFound, "not_found", "channel name required")
		return
	}
	if deps.Bus == nil {
		writeAPIError(w, http.StatusServiceUnavailable, "live_unavailable", "live channel not configured")
		return
	}

	ch, err := deps.Bus.Open(name)
	if err != nil {
		writeAPIError(w, http.StatusServiceUnavailable, "live_unavailable", err.Error())
		return
	}
	defer ch.Close()

	conn, err := livesync.NewServerConn(w, r)
	if err != nil {
		// the upgrader has already answered
		deps.Logger.Errorf("web", "channel %s: upgrade: %v", name, err)
		return
	}
	defer conn.Close()

	id := uuid.New()
	deps.Logger.Infof("web", "channel %s: client %s connected from %v", name, id, conn.RemoteAddr())
	defer func() {
		deps.Logger.Infof("web", "channel %s: client %s disconnected", name, id)
		if n := conn.Dropped(); n > 0 {
			deps.Logger.Debugf("web", "channel %s: client %s skipped %d stale updates", name, id, n)
		}
	}()

	forwardDone := make(chan struct{})
	go func() {
		defer close(forwardDone)
		// a closed queue (bus shutdown) or a failed write ends the read
		// loop too
		defer conn.Close()
		for env := range ch.Messages() {
			if err := conn.Send(env); err != nil {
				return
			}
		}
	}()

	limiter := rate.NewLimiter(deps.Inbound, deps.InboundBurst)
	for {
		env, err := conn.Receive()
		if err != nil {
			break
		}
		if env.Type != livesync.TypeUpdate || env.Payload == nil {
			continue
		}
		if !limiter.Allow() {
			deps.Logger.Warnf("web", "channel %s: client %s over rate limit, update dropped", name, id)
			continue
		}
		*env.Payload = env.Payload.Normalize()
		if err := ch.Publish(env); err != nil {
			break
		}
		deps.Logger.Debugf("web", "channel %s: client %s published an update", name, id)
	}

	ch.Close()
	conn.Close()
	<-forwardDone
}
