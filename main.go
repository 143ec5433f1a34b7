package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/rook-computer/bannercast/internal/app"
	"github.com/rook-computer/bannercast/internal/editor"
	"github.com/rook-computer/bannercast/internal/livesync"
	"github.com/rook-computer/bannercast/internal/logger"
	"github.com/rook-computer/bannercast/internal/render"
	"github.com/rook-computer/bannercast/internal/system"
	"github.com/rook-computer/bannercast/internal/viewer"
	"github.com/rook-computer/bannercast/internal/web"
)

var version = "v0.0.0"

var cli struct {
	Version     bool   `help:"print version"`
	Config      string `help:"server settings file (YAML)" type:"path"`
	Listen      string `help:"HTTP listen address, overrides the settings file and ${env}" placeholder:"ADDR"`
	Dev         bool   `help:"enable permissive CORS for a separately served UI"`
	StaticDir   string `help:"serve the editor UI from this directory instead of the embedded copy" type:"path"`
	PublicURL   string `help:"externally reachable base URL used for share links"`
	Query       string `help:"initial configuration as an overlay query string"`
	Channel     string `help:"live update channel name" default:"floating-text-overlay"`
	Preset      string `help:"load the configuration from this YAML preset" type:"path"`
	WatchPreset bool   `help:"reload the preset when the file changes"`
	Kiosk       bool   `help:"show the overlay full screen on the framebuffer"`
	FBDevice    string `name:"fb-device" help:"framebuffer device for --kiosk" default:"/dev/fb0"`
	LogLevel    string `help:"debug, info, warn or error" default:"info"`
	LogFile     string `help:"also write the log to this file" type:"path"`
	StdioLog    string `help:"redirect stdout and stderr (including panics) to this file" env:"BANNERCAST_STDIO_LOG" type:"path"`
}

func main() {
	parser, err := kong.New(&cli,
		kong.Description("bannercast "+version+": floating text overlay with a live editor"),
		kong.UsageOnError(),
		kong.Vars{"env": web.EnvListenAddr})
	if err != nil {
		panic(err)
	}
	_, err = parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if cli.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	// best effort: keep crash output even when the console is in graphics mode
	if cli.StdioLog != "" {
		if err := redirectStdIO(cli.StdioLog); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	if err := run(); err != nil {
		fmt.Printf("ERR: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	level, err := logger.ParseLevel(cli.LogLevel)
	if err != nil {
		return err
	}
	log, err := logger.New(level, cli.LogFile)
	if err != nil {
		return err
	}
	defer log.Close() //nolint:errcheck

	serverConf, err := web.LoadServerConfig(cli.Config, ":8080")
	if err != nil {
		return err
	}
	if cli.Listen != "" {
		serverConf.ListenAddr = cli.Listen
	}
	if cli.Dev {
		serverConf.DevMode = true
	}
	if cli.StaticDir != "" {
		serverConf.StaticDir = cli.StaticDir
	}
	if cli.PublicURL != "" {
		serverConf.PublicURL = cli.PublicURL
	}

	log.Debugf("main", "server settings: listen=%s dev=%v staticDir=%q publicURL=%q",
		serverConf.ListenAddr, serverConf.DevMode, serverConf.StaticDir, serverConf.PublicURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := livesync.NewBus()
	defer bus.Close()

	ed := editor.New(cli.Query, livesync.Connect(bus, cli.Channel, log), log)
	defer ed.Close()
	ed.Follow()

	rasterizer, err := render.NewBannerRenderer()
	if err != nil {
		return err
	}

	server := web.NewHTTPServer(serverConf.ListenAddr)
	server.DevMode = serverConf.DevMode
	server.StaticDir = serverConf.StaticDir
	server.API = web.APIV1Config{
		Deps: web.APIV1Deps{
			Editor:    ed,
			Renderer:  rasterizer,
			Bus:       bus,
			PublicURL: serverConf.PublicURL,
			Logger:    log,
		},
		Channel: cli.Channel,
	}

	a := app.New(ed, server)
	a.Logger = log
	a.PresetPath = cli.Preset
	a.WatchPreset = cli.WatchPreset

	if cli.Kiosk {
		fbr := render.NewFBRenderer(cli.FBDevice, rasterizer)
		fbr.Logger = log

		// the preset is applied by Run, which the viewer picks up live
		v := viewer.New(ed.ShareQuery(), livesync.Connect(bus, cli.Channel, log), log)
		defer v.Close()

		a.Render = fbr
		a.Viewer = v
		a.Console = &system.Console{Logger: log}
		a.ExitKeys = []uint16{system.KeyF4}
	}

	log.Infof("main", "bannercast %s starting", version)
	err = a.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	log.Infof("main", "stopped")
	return err
}
