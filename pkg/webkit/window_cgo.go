//go:build webkit_cgo

package webkit

/*
#cgo pkg-config: gtk4
#include <gtk/gtk.h>
#include <gdk/gdk.h>

extern void goWindowResized(unsigned long winID, int width, int height);
extern int goWindowCloseRequested(unsigned long winID);

static void on_surface_layout(GdkSurface* surface, int width, int height, gpointer data) {
	(void)surface;
	goWindowResized((unsigned long)data, width, height);
}

static gboolean on_close_request(GtkWindow* window, gpointer data) {
	(void)window;
	// Geometry capture happens synchronously inside the Go handler, before
	// the surface is torn down.
	goWindowCloseRequested((unsigned long)data);
	return FALSE;
}

static GtkWindow* new_host_window(const char* title, int width, int height, unsigned long win_id) {
	GtkWindow* window = GTK_WINDOW(gtk_window_new());
	gtk_window_set_title(window, title);
	gtk_window_set_default_size(window, width, height);
	g_signal_connect(window, "close-request", G_CALLBACK(on_close_request), (gpointer)win_id);
	return window;
}

static void connect_layout(GtkWindow* window, unsigned long win_id) {
	GdkSurface* surface = gtk_native_get_surface(GTK_NATIVE(window));
	if (surface != NULL) {
		g_signal_connect(surface, "layout", G_CALLBACK(on_surface_layout), (gpointer)win_id);
	}
}

static double window_scale(GtkWindow* window) {
	GdkSurface* surface = gtk_native_get_surface(GTK_NATIVE(window));
	if (surface == NULL) {
		return 0.0;
	}
	return (double)gdk_surface_get_scale_factor(surface);
}
*/
import "C"

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

var (
	winIDCounter uint64
	winMu        sync.RWMutex
	winRegistry  = make(map[uint64]*Window)
)

// Window wraps the host GTK window. Child views live inside a GtkFixed so
// the session engine can place them at absolute positions below the tab
// strip.
type Window struct {
	id     uint64
	window *C.GtkWindow
	fixed  *C.GtkFixed

	mu       sync.RWMutex
	width    int
	height   int
	onResize []func(width, height int)
	onClose  []func()
}

// NewWindow creates the host window with a fixed-layout child container.
// Must run on the main loop.
func NewWindow(title string, width, height int) (*Window, error) {
	InitMainThread()

	id := atomic.AddUint64(&winIDCounter, 1)

	cTitle := C.CString(title)
	defer C.free(unsafe.Pointer(cTitle))

	window := C.new_host_window(cTitle, C.int(width), C.int(height), C.ulong(id))
	if window == nil {
		return nil, ErrWindowDestroyed
	}

	fixed := (*C.GtkFixed)(unsafe.Pointer(C.gtk_fixed_new()))
	C.gtk_window_set_child(window, (*C.GtkWidget)(unsafe.Pointer(fixed)))

	w := &Window{id: id, window: window, fixed: fixed, width: width, height: height}

	winMu.Lock()
	winRegistry[id] = w
	winMu.Unlock()

	return w, nil
}

// SetTitle updates the window title.
func (w *Window) SetTitle(title string) {
	cTitle := C.CString(title)
	defer C.free(unsafe.Pointer(cTitle))
	C.gtk_window_set_title(w.window, cTitle)
}

// AttachView parents a WebView into the window's fixed container.
func (w *Window) AttachView(view *WebView) {
	C.gtk_fixed_put(w.fixed, (*C.GtkWidget)(unsafe.Pointer(view.view)), 0, 0)
}

// InnerSize returns the window's content area in physical pixels.
func (w *Window) InnerSize() (width, height int) {
	w.mu.RLock()
	logicalW, logicalH := w.width, w.height
	w.mu.RUnlock()

	scale := w.ScaleFactor()
	if scale <= 0 {
		scale = 1
	}
	return int(float64(logicalW) * scale), int(float64(logicalH) * scale)
}

// OuterPosition returns the window's screen position. Wayland does not
// expose global coordinates; (0,0) is reported there.
func (w *Window) OuterPosition() (x, y int) {
	return 0, 0
}

// ScaleFactor returns the display scale factor, or 0 when the surface is
// not yet realized.
func (w *Window) ScaleFactor() float64 {
	return float64(C.window_scale(w.window))
}

// SetInnerSize resizes the window content area.
func (w *Window) SetInnerSize(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
	C.gtk_window_set_default_size(w.window, C.int(width), C.int(height))
}

// SetPosition is a no-op under GTK4/Wayland, where clients cannot place
// their own windows. Kept so restored geometry can be applied on ports
// that allow it.
func (w *Window) SetPosition(x, y int) {
	_, _ = x, y
}

// Show presents the window and hooks surface-level layout events, which
// only exist once the window is realized.
func (w *Window) Show() {
	C.gtk_window_present(w.window)
	C.connect_layout(w.window, C.ulong(w.id))
}

// ConnectResize registers a callback for window resize events.
func (w *Window) ConnectResize(fn func(width, height int)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onResize = append(w.onResize, fn)
}

// ConnectCloseRequest registers a callback fired synchronously when the
// window is asked to close, before any teardown.
func (w *Window) ConnectCloseRequest(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onClose = append(w.onClose, fn)
}

func lookupWindow(id uint64) *Window {
	winMu.RLock()
	defer winMu.RUnlock()
	return winRegistry[id]
}

//export goWindowResized
func goWindowResized(winID C.ulong, width, height C.int) {
	w := lookupWindow(uint64(winID))
	if w == nil {
		return
	}
	w.mu.Lock()
	w.width, w.height = int(width), int(height)
	handlers := append([]func(int, int){}, w.onResize...)
	w.mu.Unlock()

	physW, physH := w.InnerSize()
	for _, fn := range handlers {
		fn(physW, physH)
	}
}

//export goWindowCloseRequested
func goWindowCloseRequested(winID C.ulong) C.int {
	w := lookupWindow(uint64(winID))
	if w == nil {
		return 0
	}
	w.mu.RLock()
	handlers := append([]func(){}, w.onClose...)
	w.mu.RUnlock()

	for _, fn := range handlers {
		fn()
	}
	return 0
}
