//go:build !webkit_cgo

package webkit

import "sync"

// Window is the non-CGO stand-in for the host application window. Tests
// drive it through the Emit helpers.
type Window struct {
	mu        sync.RWMutex
	title     string
	width     int
	height    int
	x, y      int
	scale     float64
	visible   bool
	destroyed bool
	onResize  []func(width, height int)
	onClose   []func()
	attached  []*WebView
}

// NewWindow constructs a stub window with the given initial inner size.
func NewWindow(title string, width, height int) (*Window, error) {
	return &Window{
		title:  title,
		width:  width,
		height: height,
		scale:  1.0,
	}, nil
}

// SetTitle updates the window title.
func (w *Window) SetTitle(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.title = title
}

// AttachView parents a WebView into the window.
func (w *Window) AttachView(view *WebView) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.attached = append(w.attached, view)
}

// AttachedViews returns the views parented into the window. Test helper.
func (w *Window) AttachedViews() []*WebView {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]*WebView{}, w.attached...)
}

// InnerSize returns the window's content area in physical pixels.
func (w *Window) InnerSize() (width, height int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.width, w.height
}

// OuterPosition returns the window's screen position.
func (w *Window) OuterPosition() (x, y int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.x, w.y
}

// ScaleFactor returns the display scale factor, or 0 when unknown.
func (w *Window) ScaleFactor() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.scale
}

// SetInnerSize resizes the window content area.
func (w *Window) SetInnerSize(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
}

// SetPosition moves the window.
func (w *Window) SetPosition(x, y int) {
	w.mu.Lock()
	w.x, w.y = x, y
	w.mu.Unlock()
}

// Show presents the window.
func (w *Window) Show() {
	w.mu.Lock()
	w.visible = true
	w.mu.Unlock()
}

// IsVisible reports whether the window is presented.
func (w *Window) IsVisible() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.visible
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

// SetScaleFactorForTesting overrides the reported display scale.
func (w *Window) SetScaleFactorForTesting(scale float64) {
	w.mu.Lock()
	w.scale = scale
	w.mu.Unlock()
}

// EmitResize applies a new inner size and fires resize callbacks. Test
// helper standing in for the compositor.
func (w *Window) EmitResize(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	handlers := append([]func(int, int){}, w.onResize...)
	w.mu.Unlock()

	for _, fn := range handlers {
		fn(width, height)
	}
}

// EmitCloseRequest fires close-request callbacks. Test helper.
func (w *Window) EmitCloseRequest() {
	w.mu.RLock()
	handlers := append([]func(){}, w.onClose...)
	w.mu.RUnlock()

	for _, fn := range handlers {
		fn()
	}
}
