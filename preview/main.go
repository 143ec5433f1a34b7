// Command preview renders an overlay configuration without a server: a PNG
// frame, the derived CSS and the share link.
package main

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v2"

	"github.com/rook-computer/bannercast/internal/banner"
	"github.com/rook-computer/bannercast/internal/present"
	"github.com/rook-computer/bannercast/internal/preset"
	"github.com/rook-computer/bannercast/internal/render"
	"github.com/rook-computer/bannercast/internal/urlcodec"
)

type options struct {
	Query  string  `help:"configuration as an overlay query string" xor:"source"`
	Preset string  `help:"configuration from a YAML preset" type:"existingfile" xor:"source"`
	Out    string  `help:"write the rendered frame to this PNG file" short:"o" type:"path"`
	Width  int     `help:"frame width" default:"1920"`
	Height int     `help:"frame height" default:"1080"`
	At     float64 `help:"animation time in seconds"`
	CSS    bool    `name:"css" help:"print the derived CSS as YAML"`
	Share  string  `help:"print the share link for this overlay base URL" placeholder:"URL"`
	QR     string  `name:"qr" help:"write a QR code of the share link to this PNG file" type:"path"`
}

func main() {
	var opts options
	parser, err := kong.New(&opts,
		kong.Description("Render a bannercast overlay offline."),
		kong.UsageOnError())
	if err != nil {
		panic(err)
	}
	_, err = parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "ERR:", err)
		os.Exit(1)
	}
}

func loadConfig(opts options) (banner.Config, error) {
	if opts.Preset != "" {
		return preset.Load(opts.Preset)
	}
	return urlcodec.Decode(opts.Query), nil
}

func run(opts options, stdout io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	p := present.Derive(cfg)

	if opts.Out != "" {
		if opts.Width < 1 || opts.Height < 1 {
			return fmt.Errorf("invalid frame size %dx%d", opts.Width, opts.Height)
		}
		r, err := render.NewBannerRenderer()
		if err != nil {
			return err
		}
		img := r.Render(p, image.Pt(opts.Width, opts.Height), p.Timing.Offset(opts.At))
		byts, err := render.EncodePNG(img)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.Out, byts, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s (%dx%d)\n", opts.Out, opts.Width, opts.Height)
	}

	if opts.CSS {
		if err := printCSS(stdout, p.CSS()); err != nil {
			return err
		}
	}

	if opts.Share != "" || opts.QR != "" {
		base := opts.Share
		if base == "" {
			base = "http://localhost:8080/overlay"
		}
		link, err := urlcodec.ShareURL(base, cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, link)

		if opts.QR != "" {
			byts, err := render.QRCodePNG(link, 256)
			if err != nil {
				return err
			}
			if err := os.WriteFile(opts.QR, byts, 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

func printCSS(w io.Writer, sheet present.Stylesheet) error {
	blocks := yaml.MapSlice{
		{Key: "container", Value: sheet.Container.String()},
		{Key: "box", Value: sheet.Box.String()},
		{Key: "background", Value: sheet.Background.String()},
		{Key: "text", Value: sheet.Text.String()},
		{Key: "caption", Value: sheet.Caption.String()},
		{Key: "animation", Value: sheet.Animation.String()},
	}
	byts, err := yaml.Marshal(blocks)
	if err != nil {
		return err
	}
	_, err = w.Write(byts)
	return err
}
