//go:build webkit_cgo

package webkit

/*
#cgo pkg-config: gtk4
#include <stdlib.h>
#include <gtk/gtk.h>

extern void goSaveDialogDone(unsigned long token, char* path, int accepted);

static void on_save_done(GObject* source, GAsyncResult* res, gpointer data) {
	GtkFileDialog* dialog = GTK_FILE_DIALOG(source);
	GFile* file = gtk_file_dialog_save_finish(dialog, res, NULL);
	if (file == NULL) {
		goSaveDialogDone((unsigned long)data, NULL, 0);
		return;
	}
	char* path = g_file_get_path(file);
	goSaveDialogDone((unsigned long)data, path, 1);
	g_free(path);
	g_object_unref(file);
}

static void run_save_dialog(GtkWindow* parent, const char* suggested, unsigned long token) {
	GtkFileDialog* dialog = gtk_file_dialog_new();
	gtk_file_dialog_set_initial_name(dialog, suggested);
	gtk_file_dialog_save(dialog, parent, NULL, on_save_done, (gpointer)token);
}
*/
import "C"

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

var (
	saveTokenCounter uint64
	savePendingMu    sync.Mutex
	savePending      = make(map[uint64]chan saveOutcome)
)

type saveOutcome struct {
	path     string
	accepted bool
}

// SaveFileDialog presents a native save prompt and blocks until the user
// responds. The dialog itself runs on the main loop; the caller must not
// be on it, or the completion callback can never run.
func SaveFileDialog(win *Window, suggestedFilename string) (path string, accepted bool) {
	token := atomic.AddUint64(&saveTokenCounter, 1)
	result := make(chan saveOutcome, 1)

	savePendingMu.Lock()
	savePending[token] = result
	savePendingMu.Unlock()

	PostToMainLoop(func() {
		cSuggested := C.CString(suggestedFilename)
		defer C.free(unsafe.Pointer(cSuggested))
		C.run_save_dialog(win.window, cSuggested, C.ulong(token))
	})

	outcome := <-result
	return outcome.path, outcome.accepted
}

//export goSaveDialogDone
func goSaveDialogDone(token C.ulong, path *C.char, accepted C.int) {
	savePendingMu.Lock()
	result, ok := savePending[uint64(token)]
	delete(savePending, uint64(token))
	savePendingMu.Unlock()
	if !ok {
		return
	}

	outcome := saveOutcome{accepted: accepted != 0}
	if path != nil {
		outcome.path = C.GoString(path)
	}
	result <- outcome
}
