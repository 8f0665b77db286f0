//go:build webkit_cgo

package webkit

/*
#cgo pkg-config: webkitgtk-6.0 gtk4 javascriptcoregtk-6.0
#include <stdlib.h>
#include <gtk/gtk.h>
#include <webkit/webkit.h>
#include <jsc/jsc.h>

extern void goDownloadDecideDestination(unsigned long viewID, WebKitDownload* download, char* suggested);
extern void goDownloadFinished(unsigned long viewID, WebKitDownload* download, int success);
extern void goCreateDenied(unsigned long viewID, char* target);
extern void goLoadChanged(unsigned long viewID, int finished);

// The signal arrives on the GLib main context, which must stay free to
// service the save dialog. The Go side dispatches the decision handler on
// its own goroutine and commits the destination (or cancels) back through
// the main loop, so TRUE is returned here: a destination will be set.
static gboolean on_decide_destination(WebKitDownload* download, gchar* suggested, gpointer data) {
	goDownloadDecideDestination((unsigned long)data, download, (char*)suggested);
	return TRUE;
}

static void download_ref(WebKitDownload* download)   { g_object_ref(download); }
static void download_unref(WebKitDownload* download) { g_object_unref(download); }

static const char* download_mime_type(WebKitDownload* download) {
	WebKitURIResponse* resp = webkit_download_get_response(download);
	if (resp == NULL) {
		return NULL;
	}
	return webkit_uri_response_get_mime_type(resp);
}

static void on_load_changed(WebKitWebView* view, WebKitLoadEvent event, gpointer data) {
	(void)view;
	if (event == WEBKIT_LOAD_STARTED) {
		goLoadChanged((unsigned long)data, 0);
	} else if (event == WEBKIT_LOAD_FINISHED) {
		goLoadChanged((unsigned long)data, 1);
	}
}

static void on_download_finished(WebKitDownload* download, gpointer data) {
	goDownloadFinished((unsigned long)data, download, 1);
}

static void on_download_failed(WebKitDownload* download, GError* error, gpointer data) {
	(void)error;
	goDownloadFinished((unsigned long)data, download, 0);
}

static void on_download_started(WebKitNetworkSession* session, WebKitDownload* download, gpointer data) {
	(void)session;
	g_signal_connect(download, "decide-destination", G_CALLBACK(on_decide_destination), data);
	g_signal_connect(download, "finished", G_CALLBACK(on_download_finished), data);
	g_signal_connect(download, "failed", G_CALLBACK(on_download_failed), data);
}

// The create signal fires when content asks for a new top-level target
// (window.open, target=_blank). The request is always denied in place;
// the destination URI is surfaced to Go so the shell can decide.
static GtkWidget* on_create(WebKitWebView* view, WebKitNavigationAction* action, gpointer data) {
	(void)view;
	WebKitURIRequest* req = webkit_navigation_action_get_request(action);
	goCreateDenied((unsigned long)data, (char*)webkit_uri_request_get_uri(req));
	return NULL;
}

extern void goScriptMessage(unsigned long viewID, char* payload);

static void on_script_message(WebKitUserContentManager* ucm, JSCValue* value, gpointer data) {
	(void)ucm;
	char* payload = jsc_value_to_string(value);
	goScriptMessage((unsigned long)data, payload);
	g_free(payload);
}

static void register_script_bridge(WebKitWebView* view, unsigned long view_id) {
	WebKitUserContentManager* ucm = webkit_web_view_get_user_content_manager(view);
	webkit_user_content_manager_register_script_message_handler(ucm, "webdeck", NULL);
	g_signal_connect(ucm, "script-message-received::webdeck", G_CALLBACK(on_script_message), (gpointer)view_id);
}

static WebKitWebView* new_partitioned_webview(const char* data_dir, const char* cache_dir, unsigned long view_id) {
	WebKitNetworkSession* session = webkit_network_session_new(data_dir, cache_dir);
	WebKitCookieManager* cookies = webkit_network_session_get_cookie_manager(session);
	gchar* cookie_db = g_build_filename(data_dir, "cookies.db", NULL);
	webkit_cookie_manager_set_persistent_storage(cookies, cookie_db, WEBKIT_COOKIE_PERSISTENT_STORAGE_SQLITE);
	g_free(cookie_db);

	g_signal_connect(session, "download-started", G_CALLBACK(on_download_started), (gpointer)view_id);

	WebKitWebView* view = WEBKIT_WEB_VIEW(g_object_new(WEBKIT_TYPE_WEB_VIEW,
		"network-session", session,
		NULL));
	g_signal_connect(view, "create", G_CALLBACK(on_create), (gpointer)view_id);
	g_signal_connect(view, "load-changed", G_CALLBACK(on_load_changed), (gpointer)view_id);
	register_script_bridge(view, view_id);
	return view;
}

static void set_download_destination(WebKitDownload* download, const char* path) {
	webkit_download_set_destination(download, path);
}

static const char* download_destination(WebKitDownload* download) {
	return webkit_download_get_destination(download);
}

static const char* download_uri(WebKitDownload* download) {
	WebKitURIRequest* req = webkit_download_get_request(download);
	return webkit_uri_request_get_uri(req);
}
*/
import "C"

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

var (
	viewIDCounter uint64
	viewMu        sync.RWMutex
	viewRegistry  = make(map[uint64]*WebView)
)

// WebView wraps a WebKitGTK WebView bound to its own network session, so
// each view gets an isolated storage partition rooted at Config.DataDir.
type WebView struct {
	id   uint64
	cfg  *Config
	view *C.WebKitWebView

	mu         sync.RWMutex
	destroyed  bool
	visible    bool
	x, y       int
	width      int
	height     int
	onDownload func(*DownloadRequest)
	onFinished func(DownloadResult)
	onCreate   func(targetURI string)
	onScript   func(payload string)
	onLoad     func(LoadEvent)
}

// NewWebView creates a WebView with a persistent per-partition network
// session. Must run on the main loop.
func NewWebView(cfg *Config) (*WebView, error) {
	if cfg == nil {
		cfg = GetDefaultConfig()
	}
	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = cfg.DataDir + "/cache"
	}

	id := atomic.AddUint64(&viewIDCounter, 1)

	cData := C.CString(cfg.DataDir)
	cCache := C.CString(cacheDir)
	defer C.free(unsafe.Pointer(cData))
	defer C.free(unsafe.Pointer(cCache))

	view := C.new_partitioned_webview(cData, cCache, C.ulong(id))
	if view == nil {
		return nil, ErrWebViewNotInitialized
	}

	if cfg.UserAgent != "" {
		settings := C.webkit_web_view_get_settings(view)
		cUA := C.CString(cfg.UserAgent)
		C.webkit_settings_set_user_agent(settings, cUA)
		C.free(unsafe.Pointer(cUA))
	}

	wv := &WebView{id: id, cfg: cfg, view: view}

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
	cURI := C.CString(uri)
	defer C.free(unsafe.Pointer(cURI))
	C.webkit_web_view_load_uri(w.view, cURI)
	return nil
}

// URI returns the view's current URI.
func (w *WebView) URI() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.destroyed {
		return ""
	}
	return C.GoString(C.webkit_web_view_get_uri(w.view))
}

// SetBounds positions and sizes the view within the host window's fixed
// container. GTK works in logical units; callers pass physical pixels and
// the window converts using its scale factor.
func (w *WebView) SetBounds(x, y, width, height int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return ErrWebViewDestroyed
	}
	w.x, w.y, w.width, w.height = x, y, width, height

	widget := (*C.GtkWidget)(unsafe.Pointer(w.view))
	parent := C.gtk_widget_get_parent(widget)
	if parent != nil {
		scale := float64(C.gtk_widget_get_scale_factor(widget))
		if scale <= 0 {
			scale = 1
		}
		C.gtk_fixed_move((*C.GtkFixed)(unsafe.Pointer(parent)), widget,
			C.double(float64(x)/scale), C.double(float64(y)/scale))
		C.gtk_widget_set_size_request(widget,
			C.int(float64(width)/scale), C.int(float64(height)/scale))
	}
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
	C.gtk_widget_set_visible((*C.GtkWidget)(unsafe.Pointer(w.view)), C.gboolean(1))
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
	C.gtk_widget_set_visible((*C.GtkWidget)(unsafe.Pointer(w.view)), C.gboolean(0))
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
	C.webkit_web_view_reload(w.view)
	return nil
}

// Destroy removes the view from its parent and drops the native handle.
func (w *WebView) Destroy() error {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return nil
	}
	w.destroyed = true
	w.visible = false
	widget := (*C.GtkWidget)(unsafe.Pointer(w.view))
	parent := C.gtk_widget_get_parent(widget)
	if parent != nil {
		C.gtk_fixed_remove((*C.GtkFixed)(unsafe.Pointer(parent)), widget)
	}
	w.view = nil
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
// starts a download. The callback runs on its own goroutine: download
// signals arrive on the GLib main context, and a handler blocking on a
// save prompt there would stall the loop the prompt needs.
func (w *WebView) RegisterDownloadRequestedHandler(fn func(*DownloadRequest)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onDownload = fn
}

// RegisterDownloadFinishedHandler sets the callback invoked on completion.
func (w *WebView) RegisterDownloadFinishedHandler(fn func(DownloadResult)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onFinished = fn
}

// RegisterCreateHandler sets the callback invoked when content requests a
// new top-level navigation target.
func (w *WebView) RegisterCreateHandler(fn func(targetURI string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onCreate = fn
}

// RegisterScriptMessageHandler sets the callback for messages posted by
// the view's content through the shell bridge
// (window.webkit.messageHandlers.webdeck.postMessage).
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
	cHTML := C.CString(html)
	cBase := C.CString(baseURI)
	defer C.free(unsafe.Pointer(cHTML))
	defer C.free(unsafe.Pointer(cBase))
	C.webkit_web_view_load_html(w.view, cHTML, cBase)
	return nil
}

// EvaluateJavaScript runs a script in the view's content, discarding the
// result.
func (w *WebView) EvaluateJavaScript(script string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return ErrWebViewDestroyed
	}
	cScript := C.CString(script)
	defer C.free(unsafe.Pointer(cScript))
	C.webkit_web_view_evaluate_javascript(w.view, cScript, C.gssize(len(script)), nil, nil, nil, nil, nil)
	return nil
}

func lookupView(id uint64) *WebView {
	viewMu.RLock()
	defer viewMu.RUnlock()
	return viewRegistry[id]
}

//export goDownloadDecideDestination
func goDownloadDecideDestination(viewID C.ulong, download *C.WebKitDownload, suggested *C.char) {
	w := lookupView(uint64(viewID))
	if w == nil {
		return
	}
	w.mu.RLock()
	handler := w.onDownload
	w.mu.RUnlock()
	if handler == nil {
		return
	}

	mimeType := ""
	if m := C.download_mime_type(download); m != nil {
		mimeType = C.GoString(m)
	}

	// The download must outlive the signal emission: the decision lands
	// later, from the handler's goroutine via the main loop.
	C.download_ref(download)

	req := newDownloadRequest(
		C.GoString(C.download_uri(download)),
		C.GoString(suggested),
		mimeType,
		func(path string) {
			PostToMainLoop(func() {
				cPath := C.CString(path)
				C.set_download_destination(download, cPath)
				C.free(unsafe.Pointer(cPath))
				C.download_unref(download)
			})
		},
		func() {
			PostToMainLoop(func() {
				C.webkit_download_cancel(download)
				C.download_unref(download)
			})
		},
	)
	go handler(req)
}

//export goDownloadFinished
func goDownloadFinished(viewID C.ulong, download *C.WebKitDownload, success C.int) {
	w := lookupView(uint64(viewID))
	if w == nil {
		return
	}
	w.mu.RLock()
	handler := w.onFinished
	w.mu.RUnlock()
	if handler == nil {
		return
	}

	handler(DownloadResult{
		URI:         C.GoString(C.download_uri(download)),
		Destination: C.GoString(C.download_destination(download)),
		Success:     success != 0,
	})
}

//export goScriptMessage
func goScriptMessage(viewID C.ulong, payload *C.char) {
	w := lookupView(uint64(viewID))
	if w == nil {
		return
	}
	w.mu.RLock()
	handler := w.onScript
	w.mu.RUnlock()
	if handler != nil {
		handler(C.GoString(payload))
	}
}

//export goLoadChanged
func goLoadChanged(viewID C.ulong, finished C.int) {
	w := lookupView(uint64(viewID))
	if w == nil {
		return
	}
	w.mu.RLock()
	handler := w.onLoad
	w.mu.RUnlock()
	if handler == nil {
		return
	}

	if finished != 0 {
		handler(LoadFinished)
	} else {
		handler(LoadStarted)
	}
}

//export goCreateDenied
func goCreateDenied(viewID C.ulong, target *C.char) {
	w := lookupView(uint64(viewID))
	if w == nil {
		return
	}
	w.mu.RLock()
	handler := w.onCreate
	w.mu.RUnlock()
	if handler != nil {
		handler(C.GoString(target))
	}
}
