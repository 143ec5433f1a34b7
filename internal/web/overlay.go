package web

import (
	"html/template"
	"net/http"
	"sync"

	"github.com/rook-computer/bannercast/internal/assets"
	"github.com/rook-computer/bannercast/internal/banner"
	"github.com/rook-computer/bannercast/internal/present"
	"github.com/rook-computer/bannercast/internal/urlcodec"
)

type overlayPage struct {
	Title   string
	Message string
	Caption string

	CaptionVisible bool

	Container  template.CSS
	Box        template.CSS
	Background template.CSS
	Text       template.CSS
	CaptionCSS template.CSS

	Live    bool
	Channel string
}

var (
	overlayOnce sync.Once
	overlayTmpl *template.Template
	overlayErr  error
)

func overlayTemplate() (*template.Template, error) {
	overlayOnce.Do(func() {
		src, err := assets.OverlayTemplate()
		if err != nil {
			overlayErr = err
			return
		}
		overlayTmpl, overlayErr = template.New("overlay").Parse(src)
	})
	return overlayTmpl, overlayErr
}

// newOverlayPage lays out the static markup for cfg. The animation goes on
// the text for marquee and on the whole box for bounce.
func newOverlayPage(cfg banner.Config, channel string, live bool) overlayPage {
	p := present.Derive(cfg)
	css := p.CSS()

	box := css.Box.String()
	text := css.Text.String()
	switch p.Timing.Animation {
	case banner.AnimationBounce:
		box += "; " + css.Animation.String()
	case banner.AnimationMarquee:
		text += "; " + css.Animation.String()
	}

	return overlayPage{
		Title:          "bannercast overlay",
		Message:        p.Message,
		Caption:        p.Caption.Text,
		CaptionVisible: p.Caption.Visible,
		Container:      template.CSS(css.Container.String()),
		Box:            template.CSS(box),
		Background:     template.CSS(css.Background.String()),
		Text:           template.CSS(text),
		CaptionCSS:     template.CSS(css.Caption.String()),
		Live:           live,
		Channel:        channel,
	}
}

// OverlayHandler serves the overlay page for the configuration in the
// request's query. When live is set the page follows channel.
func OverlayHandler(channel string, live bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
			return
		}
		tmpl, err := overlayTemplate()
		if err != nil {
			writeAPIError(w, http.StatusInternalServerError, "template_failed", err.Error())
			return
		}

		page := newOverlayPage(urlcodec.Decode(r.URL.RawQuery), channel, live)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := tmpl.Execute(w, page); err != nil {
			// headers are gone; nothing useful left to send
			return
		}
	})
}
