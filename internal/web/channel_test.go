package web

import (
	"bytes"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/bannercast/internal/banner"
	"github.com/rook-computer/bannercast/internal/livesync"
	"github.com/rook-computer/bannercast/internal/logger"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func dialChannel(t *testing.T, env *testEnv, name string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(env.srv.URL, "http") + "/api/v1/channel/" + name
	c, res, err := websocket.DefaultDialer.Dial(u, nil) //nolint:bodyclose
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, res.StatusCode)
	t.Cleanup(func() { c.Close() })
	return c
}

func readEnvelope(t *testing.T, c *websocket.Conn) livesync.Envelope {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env livesync.Envelope
	require.NoError(t, c.ReadJSON(&env))
	return env
}

func waitSubscribers(t *testing.T, bus *livesync.Bus, name string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return bus.Subscribers(name) == n
	}, 2*time.Second, 5*time.Millisecond)
}

func TestChannelForwardsEditorUpdates(t *testing.T) {
	env := newTestEnv(t, nil)
	c := dialChannel(t, env, livesync.DefaultChannel)
	waitSubscribers(t, env.bus, livesync.DefaultChannel, 2)

	res := env.do(t, http.MethodPatch, "/api/v1/config", `{"message":"On air"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)

	msg := readEnvelope(t, c)
	require.Equal(t, livesync.TypeUpdate, msg.Type)
	require.Equal(t, "On air", msg.Payload.Message)
}

func TestChannelPublishesBrowserUpdates(t *testing.T) {
	env := newTestEnv(t, nil)
	sender := dialChannel(t, env, livesync.DefaultChannel)
	receiver := dialChannel(t, env, livesync.DefaultChannel)
	waitSubscribers(t, env.bus, livesync.DefaultChannel, 3)

	// ignored: not an update, or no payload
	require.NoError(t, sender.WriteJSON(map[string]string{"type": "chat"}))
	require.NoError(t, sender.WriteJSON(map[string]string{"type": livesync.TypeUpdate}))

	cfg := banner.Default()
	cfg.Message = "from browser"
	cfg.Animation = "spin"
	require.NoError(t, sender.WriteJSON(livesync.UpdateEnvelope(cfg)))

	msg := readEnvelope(t, receiver)
	require.Equal(t, "from browser", msg.Payload.Message)
	require.Equal(t, banner.AnimationStatic, msg.Payload.Animation)
}

func TestChannelScopedByName(t *testing.T) {
	env := newTestEnv(t, nil)
	other := dialChannel(t, env, "studio-b")
	waitSubscribers(t, env.bus, "studio-b", 1)

	env.do(t, http.MethodPatch, "/api/v1/config", `{"message":"elsewhere"}`)

	require.NoError(t, other.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var msg livesync.Envelope
	require.Error(t, other.ReadJSON(&msg))
}

func TestChannelRateLimit(t *testing.T) {
	var logs lockedBuffer
	env := newTestEnv(t, func(d *APIV1Deps) {
		d.Inbound = 0.001
		d.InboundBurst = 1
		d.Logger = logger.NewWriter(logger.Debug, &logs)
	})
	sender := dialChannel(t, env, livesync.DefaultChannel)
	receiver := dialChannel(t, env, livesync.DefaultChannel)
	waitSubscribers(t, env.bus, livesync.DefaultChannel, 3)

	for _, text := range []string{"first", "second"} {
		cfg := banner.Default()
		cfg.Message = text
		require.NoError(t, sender.WriteJSON(livesync.UpdateEnvelope(cfg)))
	}

	require.Equal(t, "first", readEnvelope(t, receiver).Payload.Message)

	require.NoError(t, receiver.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var msg livesync.Envelope
	require.Error(t, receiver.ReadJSON(&msg))

	// the accepted update is a debug line, the dropped one a warning
	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "WAR [web] channel "+livesync.DefaultChannel)
	}, 2*time.Second, 10*time.Millisecond)
	require.Contains(t, logs.String(), "published an update")
	require.NotContains(t, logs.String(), "ERR")
}

func TestChannelReleasedOnDisconnect(t *testing.T) {
	env := newTestEnv(t, nil)
	c := dialChannel(t, env, "studio-c")
	waitSubscribers(t, env.bus, "studio-c", 1)

	c.Close()
	waitSubscribers(t, env.bus, "studio-c", 0)
}

func TestChannelWithoutBus(t *testing.T) {
	env := newTestEnv(t, func(d *APIV1Deps) { d.Bus = nil })

	res := env.do(t, http.MethodGet, "/api/v1/channel/"+livesync.DefaultChannel, "")
	require.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	require.Equal(t, "live_unavailable", decodeJSON[apiError](t, res).Error)

	res = env.do(t, http.MethodGet, "/api/v1/channel/", "")
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}
