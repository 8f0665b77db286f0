//go:build !webkit_cgo

package webkit

import "sync"

var (
	dialogMu     sync.Mutex
	dialogScript []SaveDialogResult
)

// SaveDialogResult is a scripted reply for the stub save dialog.
type SaveDialogResult struct {
	Path     string
	Accepted bool
}

// SaveFileDialog is the non-CGO save prompt. It replays results scripted
// via ScriptSaveDialogForTesting; with no script it cancels, since no
// user exists to ask.
func SaveFileDialog(win *Window, suggestedFilename string) (path string, accepted bool) {
	_ = win
	_ = suggestedFilename

	dialogMu.Lock()
	defer dialogMu.Unlock()
	if len(dialogScript) == 0 {
		return "", false
	}
	next := dialogScript[0]
	dialogScript = dialogScript[1:]
	return next.Path, next.Accepted
}

// ScriptSaveDialogForTesting queues replies for SaveFileDialog.
func ScriptSaveDialogForTesting(results ...SaveDialogResult) {
	dialogMu.Lock()
	defer dialogMu.Unlock()
	dialogScript = append(dialogScript, results...)
}
