package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rook-computer/bannercast/internal/editor"
)

func TestHTTPServerLifecycle(t *testing.T) {
	s := NewHTTPServer("127.0.0.1:0")
	s.API = APIV1Config{Deps: APIV1Deps{Editor: editor.New("message=Up", nil, nil)}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))

	addr := s.ListenAddr()
	require.NotNil(t, addr)

	res, err := http.Get("http://" + addr.String() + "/api/v1/config")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "Up", decodeJSON[configResponse](t, res).Config.Message)

	cancel()
	require.NoError(t, s.Wait())
	require.NoError(t, s.Stop())
	require.Error(t, s.Start(context.Background()))
}

func TestDevCORS(t *testing.T) {
	h := WithDevCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/config", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/config", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
