//go:build !webkit_cgo

package webkit

import (
	"sync"
	"sync/atomic"
)

var (
	viewIDCounter uint64
	viewMu        sync.RWMutex
	viewRegistry  = make(map[uint64]*WebView)
)

// WebView is the non-CGO stand-in for an embedded WebKit view. It records
// every lifecycle and placement operation in memory so the session engine
// can be exercised without a display server.
type WebView struct {
	id  uint64
	cfg *Config

	mu         sync.RWMutex
	uri        string
	x, y       int
	width      int
	height     int
	visible    bool
	destroyed  bool
	loadCount  int
	reloads    int
	onDownload func(*DownloadRequest)
	onFinished func(DownloadResult)
	onCreate   func(targetURI string)
	onScript   func(payload string)
	onLoad     func(LoadEvent)
	evaluated  []string
}

// NewWebView creates a stub WebView.
func NewWebView(cfg *Config) (*WebView, error) {
	if cfg == nil {
		cfg = GetDefaultConfig()
	}

	id := atomic.AddUint64(&viewIDCounter, 1)
	wv := &WebView{id: id, cfg: cfg}

	viewMu.Lock()
	viewRegistry[id] = wv
	viewMu.Unlock()

	return wv, nil
}

// ID returns the process-unique view identifier.
func (w *WebView) ID() uint64 { return w.id }

// DataDir returns the storage partition directory the view was created with.
func (w *WebView) DataDir() string { return w.cfg.DataDir }

// LoadURI starts loading the given URI.
func (w *WebView) LoadURI(uri string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return ErrWebViewDestroyed
	}
	w.uri = uri
	w.loadCount++
	return nil
}

// URI returns the last loaded URI.
func (w *WebView) URI() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.uri
}

// SetBounds positions and sizes the view within the host window, in
// physical pixels.
func (w *WebView) SetBounds(x, y, width, height int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return ErrWebViewDestroyed
	}
	w.x, w.y, w.width, w.height = x, y, width, height
	return nil
}

// Bounds returns the last applied position and size.
func (w *WebView) Bounds() (x, y, width, height int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.x, w.y, w.width, w.height
}

// Show makes the view visible.
func (w *WebView) Show() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return ErrWebViewDestroyed
	}
	w.visible = true
	return nil
}

// Hide makes the view invisible without destroying it.
func (w *WebView) Hide() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return ErrWebViewDestroyed
	}
	w.visible = false
	return nil
}

// IsVisible reports current visibility.
func (w *WebView) IsVisible() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.visible
}

// Reload reloads the current content in place.
func (w *WebView) Reload() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return ErrWebViewDestroyed
	}
	w.reloads++
	return nil
}

// Destroy tears the view down. Further operations fail with
// ErrWebViewDestroyed.
func (w *WebView) Destroy() error {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return nil
	}
	w.destroyed = true
	w.visible = false
	w.mu.Unlock()

	viewMu.Lock()
	delete(viewRegistry, w.id)
	viewMu.Unlock()
	return nil
}

// IsDestroyed reports whether Destroy has run.
func (w *WebView) IsDestroyed() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.destroyed
}

// RegisterDownloadRequestedHandler sets the callback invoked when content
// starts a download. The callback runs on its own goroutine so it may
// block on a prompt; the decision is delivered through the request.
func (w *WebView) RegisterDownloadRequestedHandler(fn func(*DownloadRequest)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onDownload = fn
}

// RegisterDownloadFinishedHandler sets the callback invoked when a
// download completes, successfully or not.
func (w *WebView) RegisterDownloadFinishedHandler(fn func(DownloadResult)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onFinished = fn
}

// RegisterCreateHandler sets the callback invoked when content requests a
// new top-level navigation target. The in-place request is always denied;
// the callback carries the destination URI outward.
func (w *WebView) RegisterCreateHandler(fn func(targetURI string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onCreate = fn
}

// RegisterScriptMessageHandler sets the callback for messages posted by
// the view's content through the shell bridge.
func (w *WebView) RegisterScriptMessageHandler(fn func(payload string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onScript = fn
}

// RegisterLoadChangedHandler sets the callback for page-load transitions.
func (w *WebView) RegisterLoadChangedHandler(fn func(LoadEvent)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onLoad = fn
}

// LoadHTML loads an HTML document directly, with baseURI as its origin.
func (w *WebView) LoadHTML(html, baseURI string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return ErrWebViewDestroyed
	}
	w.uri = baseURI
	w.loadCount++
	return nil
}

// EvaluateJavaScript runs a script in the view's content. The stub
// records scripts for inspection.
func (w *WebView) EvaluateJavaScript(script string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return ErrWebViewDestroyed
	}
	w.evaluated = append(w.evaluated, script)
	return nil
}

// EvaluatedScripts returns scripts passed to EvaluateJavaScript. Test
// helper.
func (w *WebView) EvaluatedScripts() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]string{}, w.evaluated...)
}

// SimulateScriptMessage delivers a script message from content. Test
// helper.
func (w *WebView) SimulateScriptMessage(payload string) {
	w.mu.RLock()
	handler := w.onScript
	w.mu.RUnlock()
	if handler != nil {
		handler(payload)
	}
}

// ReloadCount returns how many reloads were requested. Test helper.
func (w *WebView) ReloadCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.reloads
}

// SimulateDownload delivers a download request and blocks until a
// destination is committed or the download cancelled, returning the
// outcome ("" when cancelled). Like the real backend, the handler runs on
// its own goroutine and may decide after returning. Test helper.
func (w *WebView) SimulateDownload(uri, suggestedFilename, mimeType string) (dest string, accepted bool) {
	w.mu.RLock()
	handler := w.onDownload
	w.mu.RUnlock()
	if handler == nil {
		return "", false
	}

	accepted = true
	req := newDownloadRequest(uri, suggestedFilename, mimeType,
		func(path string) { dest = path },
		func() { accepted = false })
	go handler(req)
	<-req.Decided()

	if !accepted {
		return "", false
	}
	return dest, true
}

// SimulateDownloadFinished delivers a completion event. Test helper.
func (w *WebView) SimulateDownloadFinished(result DownloadResult) {
	w.mu.RLock()
	handler := w.onFinished
	w.mu.RUnlock()
	if handler != nil {
		handler(result)
	}
}

// SimulateLoadChanged delivers a page-load transition. Test helper.
func (w *WebView) SimulateLoadChanged(event LoadEvent) {
	w.mu.RLock()
	handler := w.onLoad
	w.mu.RUnlock()
	if handler != nil {
		handler(event)
	}
}

// SimulateCreate delivers a new-target navigation request. Test helper.
func (w *WebView) SimulateCreate(targetURI string) {
	w.mu.RLock()
	handler := w.onCreate
	w.mu.RUnlock()
	if handler != nil {
		handler(targetURI)
	}
}

// ResetWebViewStubsForTesting clears the stub view registry between tests.
func ResetWebViewStubsForTesting() {
	viewMu.Lock()
	viewRegistry = make(map[uint64]*WebView)
	viewMu.Unlock()
	atomic.StoreUint64(&viewIDCounter, 0)
}
