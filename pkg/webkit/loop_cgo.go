//go:build webkit_cgo

package webkit

import (
	"runtime"

	"github.com/diamondburned/gotk4/pkg/glib/v2"
)

var mainLoop *glib.MainLoop

// InitMainThread locks the current goroutine to the OS thread for GTK
// operations. Must be called before any GTK work.
func InitMainThread() {
	runtime.LockOSThread()
}

// RunMainLoop enters the GLib main loop and blocks until quit.
func RunMainLoop() {
	if mainLoop == nil {
		mainLoop = glib.NewMainLoop(nil, false)
	}
	mainLoop.Run()
}

// QuitMainLoop stops the GLib main loop.
func QuitMainLoop() {
	if mainLoop != nil {
		mainLoop.Quit()
	}
}

// PostToMainLoop schedules fn on the GLib main loop. Window and view
// handles are only safely mutable from that loop.
func PostToMainLoop(fn func()) {
	glib.IdleAdd(func() bool {
		fn()
		return false
	})
}
