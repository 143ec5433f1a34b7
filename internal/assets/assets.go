package assets

import (
	"embed"
	"io/fs"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Fonts used by the rasteriser. Browsers use the configured font family
// instead.
var (
	FontRegularTTF = goregular.TTF
	FontBoldTTF    = gobold.TTF
)

//go:embed web
var webFS embed.FS

// WebUI is an embedded filesystem rooted at internal/assets/web.
// It contains the editor page (index.html), its script and the overlay
// page template.
var WebUI fs.FS

func init() {
	// Embed paths include the leading directory; strip it for serving at '/'.
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	WebUI = sub
}

// OverlayTemplate returns the overlay page template source.
func OverlayTemplate() (string, error) {
	b, err := fs.ReadFile(WebUI, "overlay.html.tmpl")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
