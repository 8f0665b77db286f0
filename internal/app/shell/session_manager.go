// Package shell supervises the lifecycle and placement of per-platform
// embedded browser sessions inside the host window.
package shell

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/webdeck/webdeck/internal/domain/layout"
	"github.com/webdeck/webdeck/internal/domain/session"
	"github.com/webdeck/webdeck/internal/logging"
	"github.com/webdeck/webdeck/pkg/webkit"
)

// DownloadMediator resolves destinations for downloads initiated by a
// session's content and observes their completion.
type DownloadMediator interface {
	HandleRequest(ctx context.Context, req *webkit.DownloadRequest)
	HandleFinished(ctx context.Context, result webkit.DownloadResult)
}

// SessionManager owns the set of materialized child sessions, keyed by
// platform ID. All mutation goes through its public operations; the
// internal map is guarded by a whole-registry lock since command dispatch
// may not be serialized in every host.
type SessionManager struct {
	window    *webkit.Window
	dataRoot  string
	userAgent string
	mediator  DownloadMediator
	logger    zerolog.Logger

	// onNewTarget receives the destination URL whenever a session's
	// content requests a new top-level navigation target. The in-place
	// request is always denied; the shell decides what to do with it.
	onNewTarget func(targetURL string)

	mu    sync.Mutex
	views map[string]*webkit.WebView
}

// NewSessionManager creates a registry bound to the host window. dataRoot
// is the application-local data directory under which per-session storage
// partitions live (dataRoot/webdata/<storage_key>).
func NewSessionManager(ctx context.Context, window *webkit.Window, dataRoot, userAgent string, mediator DownloadMediator) *SessionManager {
	logger := *logging.FromContext(logging.WithComponent(ctx, "session-manager"))

	return &SessionManager{
		window:    window,
		dataRoot:  dataRoot,
		userAgent: userAgent,
		mediator:  mediator,
		logger:    logger,
		views:     make(map[string]*webkit.WebView),
	}
}

// SetNewTargetHandler registers the callback for denied new-window
// navigation requests.
func (m *SessionManager) SetNewTargetHandler(fn func(targetURL string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onNewTarget = fn
}

// CreateOrShow materializes the session for platformID if needed and makes
// it the only visible one. Repeated calls with the same ID are idempotent
// beyond re-asserting bounds and visibility. The host window itself is
// never hidden.
func (m *SessionManager) CreateOrShow(ctx context.Context, platformID, rawURL string) error {
	if m.window == nil {
		return ErrHostWindowMissing
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Hide every other session first so at most one child is visible.
	for id, view := range m.views {
		if id == platformID {
			continue
		}
		if err := view.Hide(); err != nil {
			m.logger.Warn().Err(err).Str("platform_id", id).Msg("failed to hide session")
		}
	}

	bounds := m.currentBounds()

	if view, ok := m.views[platformID]; ok {
		m.applyBounds(platformID, view, bounds)
		if err := view.Show(); err != nil {
			m.logger.Warn().Err(err).Str("platform_id", platformID).Msg("failed to show session")
		}
		m.logger.Debug().Str("platform_id", platformID).Msg("session re-shown")
		return nil
	}

	normalized, err := session.NormalizeURL(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidURL, rawURL, err)
	}

	storageKey := session.ResolveStorageKey(platformID, normalized)
	dataDir := filepath.Join(m.dataRoot, "webdata", storageKey)

	view, err := webkit.NewWebView(&webkit.Config{
		UserAgent: m.userAgent,
		DataDir:   dataDir,
		StoreID:   session.StoreIdentifier(storageKey),
	})
	if err != nil {
		return fmt.Errorf("create session %q: %w", platformID, err)
	}

	hookCtx := logging.WithPlatformID(logging.WithURL(ctx, normalized), platformID)
	m.wireHooks(hookCtx, platformID, view)
	m.window.AttachView(view)
	m.applyBounds(platformID, view, bounds)

	if err := view.LoadURI(normalized); err != nil {
		m.logger.Warn().Err(err).Str("platform_id", platformID).Msg("initial load failed")
	}
	if err := view.Show(); err != nil {
		m.logger.Warn().Err(err).Str("platform_id", platformID).Msg("failed to show session")
	}

	m.views[platformID] = view

	m.logger.Info().
		Str("platform_id", platformID).
		Str("storage_key", storageKey).
		Str("url", normalized).
		Msg("session created")
	return nil
}

// Destroy tears down the session for platformID and removes it from the
// registry. No-op when absent.
func (m *SessionManager) Destroy(platformID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	view, ok := m.views[platformID]
	if !ok {
		return
	}
	delete(m.views, platformID)

	if err := view.Destroy(); err != nil {
		m.logger.Warn().Err(err).Str("platform_id", platformID).Msg("failed to destroy session")
	}
	m.logger.Info().Str("platform_id", platformID).Msg("session destroyed")
}

// HideAll hides every session, leaving the host window untouched. Used
// when the shell UI needs the full window.
func (m *SessionManager) HideAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, view := range m.views {
		if err := view.Hide(); err != nil {
			m.logger.Warn().Err(err).Str("platform_id", id).Msg("failed to hide session")
		}
	}
}

// Reload reloads the session's current content in place. No-op when
// absent.
func (m *SessionManager) Reload(platformID string) {
	m.mu.Lock()
	view, ok := m.views[platformID]
	m.mu.Unlock()
	if !ok {
		return
	}

	if err := view.Reload(); err != nil {
		m.logger.Warn().Err(err).Str("platform_id", platformID).Msg("failed to reload session")
	}
}

// ApplyBounds pushes new bounds to every registered session. Called by the
// resize synchronizer; per-view failures are logged and swallowed.
func (m *SessionManager) ApplyBounds(bounds layout.Bounds) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, view := range m.views {
		m.applyBounds(id, view, bounds)
	}
}

// Lookup returns the live view for platformID, if any. Intended for tests
// and diagnostics.
func (m *SessionManager) Lookup(platformID string) (*webkit.WebView, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	view, ok := m.views[platformID]
	return view, ok
}

// Len returns the number of materialized sessions.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.views)
}

func (m *SessionManager) currentBounds() layout.Bounds {
	width, height := m.window.InnerSize()
	return layout.ComputeBounds(width, height, m.window.ScaleFactor())
}

func (m *SessionManager) applyBounds(platformID string, view *webkit.WebView, b layout.Bounds) {
	err := view.SetBounds(b.Position.X, b.Position.Y, b.Size.Width, b.Size.Height)
	if err != nil {
		m.logger.Warn().Err(err).Str("platform_id", platformID).Msg("failed to position session")
	}
}

// wireHooks connects a session's engine callbacks. ctx carries the
// session's platform ID and URL as log fields, so mediator and load logs
// are attributable without re-threading identifiers.
func (m *SessionManager) wireHooks(ctx context.Context, platformID string, view *webkit.WebView) {
	log := logging.FromContext(ctx)

	if m.mediator != nil {
		view.RegisterDownloadRequestedHandler(func(req *webkit.DownloadRequest) {
			m.mediator.HandleRequest(ctx, req)
		})
		view.RegisterDownloadFinishedHandler(func(result webkit.DownloadResult) {
			m.mediator.HandleFinished(ctx, result)
		})
	}

	view.RegisterLoadChangedHandler(func(event webkit.LoadEvent) {
		switch event {
		case webkit.LoadStarted:
			log.Debug().Msg("load started")
		case webkit.LoadFinished:
			log.Info().Msg("load finished")
		}
	})

	view.RegisterCreateHandler(func(targetURL string) {
		m.logger.Debug().
			Str("platform_id", platformID).
			Str("url", targetURL).
			Msg("new navigation target denied in place")
		m.mu.Lock()
		handler := m.onNewTarget
		m.mu.Unlock()
		if handler != nil {
			handler(targetURL)
		}
	})
}
