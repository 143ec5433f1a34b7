package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rook-computer/bannercast/internal/banner"
	"github.com/rook-computer/bannercast/internal/editor"
	"github.com/rook-computer/bannercast/internal/present"
	"github.com/rook-computer/bannercast/internal/render"
	"github.com/rook-computer/bannercast/internal/state"
	"github.com/rook-computer/bannercast/internal/urlcodec"
)

const (
	maxBodyBytes    = 64 << 10
	minSnapshotSide = 16
	maxSnapshotSide = 3840
	defaultQRSize   = 256
)

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type configResponse struct {
	Version uint64        `json:"version"`
	Config  banner.Config `json:"config"`
}

type shareResponse struct {
	Query string `json:"query"`
	URL   string `json:"url"`
}

type presentationResponse struct {
	Config       banner.Config        `json:"config"`
	Presentation present.Presentation `json:"presentation"`
	CSS          present.Stylesheet   `json:"css"`
}

type optionsResponse struct {
	FontFamilies []string                `json:"fontFamilies"`
	Animations   []banner.Animation      `json:"animations"`
	Aligns       []banner.Align          `json:"aligns"`
	Limits       map[string]banner.Range `json:"limits"`
	Fields       []string                `json:"fields"`
}

type fieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func apiV1Router(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	mux := http.NewServeMux()
	mux.HandleFunc("/config", func(w http.ResponseWriter, r *http.Request) { handleConfig(w, r, deps) })
	mux.HandleFunc("/config/reset", func(w http.ResponseWriter, r *http.Request) { handleConfigReset(w, r, deps) })
	mux.HandleFunc("/config/field", func(w http.ResponseWriter, r *http.Request) { handleConfigField(w, r, deps) })
	mux.HandleFunc("/share", func(w http.ResponseWriter, r *http.Request) { handleShare(w, r, deps) })
	mux.HandleFunc("/share.png", func(w http.ResponseWriter, r *http.Request) { handleShareQR(w, r, deps) })
	mux.HandleFunc("/decode", handleDecode)
	mux.HandleFunc("/presentation", handlePresentation)
	mux.HandleFunc("/snapshot.png", func(w http.ResponseWriter, r *http.Request) { handleSnapshot(w, r, deps) })
	mux.HandleFunc("/options", handleOptions)
	mux.HandleFunc("/channel/", func(w http.ResponseWriter, r *http.Request) { handleChannel(w, r, deps) })
	return mux
}

func writeConfig(w http.ResponseWriter, snap state.Snapshot) {
	writeJSON(w, http.StatusOK, configResponse{Version: snap.Version, Config: snap.Config})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeAPIError(w, http.StatusRequestEntityTooLarge, "body_too_large", err.Error())
			return nil, false
		}
		writeAPIError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return nil, false
	}
	return body, true
}

// decodeConfig decodes body over base.
func decodeConfig(body []byte, base banner.Config) (banner.Config, error) {
	cfg := base
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&cfg); err != nil {
		return banner.Config{}, err
	}
	return cfg, nil
}

func handleConfig(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	switch r.Method {
	case http.MethodGet:
		writeConfig(w, deps.Editor.Snapshot())

	case http.MethodPut:
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		cfg, err := decodeConfig(body, banner.Default())
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_config", err.Error())
			return
		}
		writeConfig(w, deps.Editor.Replace(cfg))

	case http.MethodPatch:
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		// validate against the current value before merging under the
		// editor's lock
		if _, err := decodeConfig(body, deps.Editor.Snapshot().Config); err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_config", err.Error())
			return
		}
		snap := deps.Editor.Update(func(cfg *banner.Config) {
			if merged, err := decodeConfig(body, *cfg); err == nil {
				*cfg = merged
			}
		})
		writeConfig(w, snap)

	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func handleConfigReset(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeConfig(w, deps.Editor.Reset())
}

func handleConfigField(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var req fieldRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	snap, err := deps.Editor.Set(req.Field, req.Value)
	if err != nil {
		if errors.Is(err, editor.ErrUnknownField) {
			writeAPIError(w, http.StatusNotFound, "unknown_field", err.Error())
			return
		}
		writeAPIError(w, http.StatusBadRequest, "invalid_value", err.Error())
		return
	}
	writeConfig(w, snap)
}

// overlayBase returns the overlay page URL that share links point at.
func overlayBase(r *http.Request, deps APIV1Deps) string {
	if deps.PublicURL != "" {
		return strings.TrimRight(deps.PublicURL, "/") + "/overlay"
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return (&url.URL{Scheme: scheme, Host: r.Host, Path: "/overlay"}).String()
}

func handleShare(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	link, err := deps.Editor.ShareURL(overlayBase(r, deps))
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "share_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, shareResponse{Query: deps.Editor.ShareQuery(), URL: link})
}

func handleShareQR(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	size, err := intParam(r.URL.Query(), "size", defaultQRSize, 64, 1024)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_size", err.Error())
		return
	}
	link, err := deps.Editor.ShareURL(overlayBase(r, deps))
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "share_failed", err.Error())
		return
	}
	png, err := render.QRCodePNG(link, size)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "qr_failed", err.Error())
		return
	}
	writePNG(w, png)
}

func handleDecode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, urlcodec.Decode(r.URL.RawQuery))
}

func handlePresentation(w http.ResponseWriter, r *http.Request) {
	var cfg banner.Config
	switch r.Method {
	case http.MethodGet:
		cfg = urlcodec.Decode(r.URL.RawQuery)
	case http.MethodPost:
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		decoded, err := decodeConfig(body, banner.Default())
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_config", err.Error())
			return
		}
		cfg = decoded.Normalize()
	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	p := present.Derive(cfg)
	writeJSON(w, http.StatusOK, presentationResponse{Config: cfg, Presentation: p, CSS: p.CSS()})
}

// hasConfigQuery reports whether values carry at least one configuration
// field, as opposed to only rendering parameters.
func hasConfigQuery(values url.Values) bool {
	for _, name := range urlcodec.FieldNames() {
		if _, ok := values[name]; ok {
			return true
		}
	}
	return false
}

func handleSnapshot(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	query := r.URL.Query()

	width, err := intParam(query, "width", render.CanvasWidth, minSnapshotSide, maxSnapshotSide)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_size", err.Error())
		return
	}
	height, err := intParam(query, "height", render.CanvasHeight, minSnapshotSide, maxSnapshotSide)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_size", err.Error())
		return
	}
	at := 0.0
	if raw := query.Get("at"); raw != "" {
		at, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_time", "at must be a number of seconds")
			return
		}
	}

	cfg := deps.Editor.Snapshot().Config
	if hasConfigQuery(query) {
		cfg = urlcodec.DecodeValues(query)
	}
	p := present.Derive(cfg)

	img := deps.Renderer.Render(p, image.Pt(width, height), p.Timing.Offset(at))
	if img == nil {
		msg := "renderer not configured"
		if n, ok := deps.Renderer.(NoopRasterizer); ok {
			msg = n.err().Error()
		}
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", msg)
		return
	}
	png, err := render.EncodePNG(img)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	writePNG(w, png)
}

func handleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, optionsResponse{
		FontFamilies: banner.FontFamilies,
		Animations:   banner.AnimationModes,
		Aligns:       []banner.Align{banner.AlignLeft, banner.AlignCenter, banner.AlignRight},
		Limits: map[string]banner.Range{
			"fontSize":      banner.Limits.FontSize,
			"fontWeight":    banner.Limits.FontWeight,
			"letterSpacing": banner.Limits.LetterSpacing,
			"outlineWidth":  banner.Limits.OutlineWidth,
			"paddingY":      banner.Limits.PaddingY,
			"speed":         banner.Limits.Speed,
		},
		Fields: urlcodec.FieldNames(),
	})
}

func intParam(values url.Values, name string, def, lo, hi int) (int, error) {
	raw := values.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, &paramError{Name: name, Lo: lo, Hi: hi}
	}
	return v, nil
}

type paramError struct {
	Name   string
	Lo, Hi int
}

func (e *paramError) Error() string {
	return fmt.Sprintf("%s must be an integer between %d and %d", e.Name, e.Lo, e.Hi)
}

func writePNG(w http.ResponseWriter, byts []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(byts)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(byts)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
