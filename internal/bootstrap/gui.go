// Package bootstrap assembles the shell: window, stores, session engine,
// shell UI view, and the command surface.
package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/webdeck/webdeck/assets"
	"github.com/webdeck/webdeck/internal/app/messaging"
	"github.com/webdeck/webdeck/internal/app/shell"
	"github.com/webdeck/webdeck/internal/config"
	"github.com/webdeck/webdeck/internal/infrastructure/download"
	"github.com/webdeck/webdeck/internal/infrastructure/state"
	"github.com/webdeck/webdeck/internal/logging"
	"github.com/webdeck/webdeck/pkg/webkit"
)

const dirPerm = 0755

// shellUIBase is the origin the embedded tab-strip document runs under.
const shellUIBase = "webdeck://ui/"

// App holds the assembled shell components.
type App struct {
	Config   *config.Config
	Window   *webkit.Window
	ShellUI  *webkit.WebView
	Sessions *shell.SessionManager
	Resize   *shell.ResizeSynchronizer
	Handler  *messaging.Handler
	Geometry *state.GeometryStore

	stopWatch func()
}

// Run assembles the shell and blocks in the GUI main loop until quit.
func Run(ctx context.Context) int {
	app, err := New(ctx)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("bootstrap failed")
		return 1
	}
	defer app.Close()

	webkit.RunMainLoop()
	return 0
}

// New wires the shell without entering the main loop.
func New(ctx context.Context) (*App, error) {
	log := logging.FromContext(ctx)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	dataDir, err := config.GetDataDir()
	if err != nil {
		return nil, err
	}
	configDir, err := config.GetConfigDir()
	if err != nil {
		return nil, err
	}

	// Directory setup has no ordering constraints among its parts.
	g, _ := errgroup.WithContext(ctx)
	for _, dir := range []string{filepath.Join(dataDir, "webdata"), configDir} {
		g.Go(func() error { return os.MkdirAll(dir, dirPerm) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	geometry := state.NewGeometryStore(dataDir, *log)
	platforms := state.NewPlatformStore(dataDir)

	window, err := webkit.NewWindow(cfg.Window.Title, cfg.Window.DefaultWidth, cfg.Window.DefaultHeight)
	if err != nil {
		return nil, err
	}
	if saved, ok := geometry.Load(); ok {
		window.SetInnerSize(saved.Width, saved.Height)
		window.SetPosition(saved.X, saved.Y)
		log.Info().
			Int("width", saved.Width).
			Int("height", saved.Height).
			Msg("window geometry restored")
	}

	mediator := newMediator(cfg, window)
	sessions := shell.NewSessionManager(ctx, window, dataDir, cfg.UserAgent, mediator)
	resize := shell.NewResizeSynchronizer(ctx, window, sessions, geometry)
	resize.Start()

	shellUI, err := newShellUI(window, dataDir)
	if err != nil {
		return nil, err
	}

	handler := messaging.NewHandler(ctx, sessions, platforms, func(event messaging.Event) {
		payload, err := json.Marshal(event)
		if err != nil {
			log.Error().Err(err).Str("type", event.Type).Msg("failed to encode event")
			return
		}
		// The shell UI is only safely reachable from the main loop.
		webkit.PostToMainLoop(func() {
			script := fmt.Sprintf("window.__webdeckEvent(%s)", payload)
			if err := shellUI.EvaluateJavaScript(script); err != nil {
				log.Warn().Err(err).Str("type", event.Type).Msg("failed to post event to shell UI")
			}
		})
	})
	shellUI.RegisterScriptMessageHandler(handler.Handle)

	app := &App{
		Config:   cfg,
		Window:   window,
		ShellUI:  shellUI,
		Sessions: sessions,
		Resize:   resize,
		Handler:  handler,
		Geometry: geometry,
	}

	app.stopWatch, err = config.Watch(func(fresh *config.Config) {
		log.Info().Msg("configuration reloaded")
		app.Config = fresh
	})
	if err != nil {
		log.Warn().Err(err).Msg("config watch unavailable")
	}

	window.Show()
	return app, nil
}

// Close releases background resources.
func (a *App) Close() {
	if a.stopWatch != nil {
		a.stopWatch()
	}
}

// newShellUI creates the shell's own webview: trusted tab-strip content
// covering the whole window, beneath the child sessions. Unlike the
// children it tracks the full window size and is never hidden.
func newShellUI(window *webkit.Window, dataDir string) (*webkit.WebView, error) {
	view, err := webkit.NewWebView(&webkit.Config{
		DataDir: filepath.Join(dataDir, "webdata", "main"),
	})
	if err != nil {
		return nil, err
	}

	window.AttachView(view)

	width, height := window.InnerSize()
	if err := view.SetBounds(0, 0, width, height); err != nil {
		return nil, err
	}
	window.ConnectResize(func(w, h int) {
		_ = view.SetBounds(0, 0, w, h)
	})

	if err := view.LoadHTML(assets.ShellUI, shellUIBase); err != nil {
		return nil, err
	}
	if err := view.Show(); err != nil {
		return nil, err
	}
	return view, nil
}

func newMediator(cfg *config.Config, window *webkit.Window) *download.Mediator {
	policy := download.PolicyAuto
	var prompt download.SavePrompt

	if cfg.Downloads.Policy == string(download.PolicyInteractive) {
		policy = download.PolicyInteractive
		prompt = func(suggested string) <-chan download.PromptResult {
			result := make(chan download.PromptResult, 1)
			go func() {
				path, accepted := webkit.SaveFileDialog(window, suggested)
				result <- download.PromptResult{Path: path, Accepted: accepted}
			}()
			return result
		}
	}

	downloadsDir := cfg.Downloads.Dir
	if downloadsDir == "" {
		downloadsDir = os.Getenv("XDG_DOWNLOAD_DIR")
	}

	return download.NewMediator(policy, downloadsDir, prompt)
}
