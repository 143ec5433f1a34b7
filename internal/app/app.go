// Package app wires the editor, the HTTP surface, the preset file and the
// optional kiosk display into one process lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/rook-computer/bannercast/internal/editor"
	"github.com/rook-computer/bannercast/internal/preset"
	"github.com/rook-computer/bannercast/internal/render"
	"github.com/rook-computer/bannercast/internal/system"
	"github.com/rook-computer/bannercast/internal/viewer"
	"github.com/rook-computer/bannercast/internal/web"
)

// Console is switched into graphics mode while the kiosk display runs.
type Console interface {
	Enter() error
	Leave() error
}

type App struct {
	Editor *editor.Editor
	Web    *web.HTTPServer
	Logger Logger

	// PresetPath is loaded into the editor on start. With WatchPreset the
	// file is reloaded whenever it changes.
	PresetPath  string
	WatchPreset bool

	// Kiosk shows Viewer full screen through Render. Both must be set.
	Render   render.Renderer
	Viewer   *viewer.Viewer
	Console  Console
	ExitKeys []uint16

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(ed *editor.Editor, webServer *web.HTTPServer) *App {
	return &App{Editor: ed, Web: webServer, Logger: NoopLogger{}, exitCh: make(chan error, 1)}
}

// Exit requests the app to stop running. Run returns err.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Run blocks until ctx is done, Exit is called or a component fails.
func (app *App) Run(ctx context.Context) error {
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	if app.Editor == nil || app.Web == nil {
		return errors.New("app: editor and web server are required")
	}

	if app.PresetPath != "" {
		if err := app.loadPreset(); err != nil {
			return err
		}
	}

	var watcher *preset.Watcher
	if app.PresetPath != "" && app.WatchPreset {
		watcher = &preset.Watcher{FilePath: app.PresetPath}
		if err := watcher.Initialize(); err != nil {
			return fmt.Errorf("watch preset: %w", err)
		}
		defer watcher.Close()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	if err := app.Web.Start(gctx); err != nil {
		return err
	}
	app.Logger.Infof("app", "listening on %s", app.Web.ListenAddr())

	var exitErr error
	g.Go(func() error {
		select {
		case <-gctx.Done():
		case exitErr = <-app.exitCh:
			cancel()
		}
		return nil
	})

	g.Go(func() error {
		// unblocks once gctx is done and the server has shut down
		if err := app.Web.Wait(); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if watcher != nil {
		g.Go(func() error {
			app.followPreset(gctx, watcher)
			return nil
		})
	}

	if app.Render != nil && app.Viewer != nil {
		g.Go(func() error {
			return app.runKiosk(gctx)
		})
	}

	err := g.Wait()
	if err != nil {
		return err
	}
	if exitErr != nil {
		return exitErr
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

func (app *App) loadPreset() error {
	cfg, err := preset.Load(app.PresetPath)
	if err != nil {
		return err
	}
	snap := app.Editor.Replace(cfg)
	app.Logger.Infof("preset", "loaded %s (v%d)", app.PresetPath, snap.Version)
	return nil
}

func (app *App) followPreset(ctx context.Context, w *preset.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-w.Watch():
			if !ok {
				return
			}
			// a broken file keeps the current configuration
			if err := app.loadPreset(); err != nil {
				app.Logger.Errorf("preset", "reload failed: %v", err)
			}
		}
	}
}

func (app *App) runKiosk(ctx context.Context) error {
	if err := app.Render.Start(ctx); err != nil {
		app.Logger.Errorf("app", "renderer start error: %v", err)
		return fmt.Errorf("kiosk: %w", err)
	}
	defer app.Render.Stop() //nolint:errcheck

	if app.Console != nil {
		_ = app.Console.Enter()
		defer func() { _ = app.Console.Leave() }()
	}

	system.WatchExitKeys(ctx, app.Logger, app.ExitKeys, func() { app.Exit(nil) })

	app.Logger.Infof("app", "kiosk display running")
	app.Render.RunLoop(ctx, app.Viewer)
	return nil
}

// Logger interface and implementations
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}
