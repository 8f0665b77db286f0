// Package assets holds the shell UI embedded at compile time.
package assets

import _ "embed"

// ShellUI is the tab-strip document loaded into the shell's own webview.
// It owns tab rendering and talks to the session engine over the webdeck
// script-message bridge.
//
//go:embed ui/index.html
var ShellUI string
