package webkit

import "errors"

var (
	ErrWebViewNotInitialized = errors.New("webkit: WebView not initialized")
	ErrWebViewDestroyed      = errors.New("webkit: WebView destroyed")
	ErrWindowDestroyed       = errors.New("webkit: Window destroyed")
	ErrInvalidURL            = errors.New("webkit: invalid URL")
)
