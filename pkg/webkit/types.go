package webkit

import "sync"

// Config holds per-WebView configuration.
type Config struct {
	// UserAgent string for the WebView.
	UserAgent string

	// DataDir is the directory for persistent data (cookies, localStorage,
	// cache) backing this view's storage partition.
	DataDir string

	// CacheDir is the directory for the HTTP cache. Defaults to a cache
	// subdirectory of DataDir when empty.
	CacheDir string

	// StoreID is the fixed-length storage-store identifier for ports whose
	// webview API keys partitions by a 16-byte value. Ignored by the
	// WebKitGTK backend, which partitions by DataDir.
	StoreID [16]byte
}

// GetDefaultConfig returns a Config with sensible defaults.
func GetDefaultConfig() *Config {
	return &Config{
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
	}
}

// DownloadRequest describes a download initiated by a view's content.
// The handler decides the destination (or cancels) before the transfer
// proceeds. The decision may land after the handler returns; the first
// of SetDestination or Cancel wins and later calls are ignored.
type DownloadRequest struct {
	// URI the download was triggered from.
	URI string

	// SuggestedFilename is the content-disposition-derived default name.
	// Empty when the response carried none.
	SuggestedFilename string

	// MimeType is the response's media type, when known. Empty before the
	// response headers arrive.
	MimeType string

	decideOnce     sync.Once
	decided        chan struct{}
	setDestination func(path string)
	cancel         func()
}

func newDownloadRequest(uri, suggested, mimeType string, set func(path string), cancel func()) *DownloadRequest {
	return &DownloadRequest{
		URI:               uri,
		SuggestedFilename: suggested,
		MimeType:          mimeType,
		decided:           make(chan struct{}),
		setDestination:    set,
		cancel:            cancel,
	}
}

// SetDestination commits an absolute destination path for the download.
func (r *DownloadRequest) SetDestination(path string) {
	r.decideOnce.Do(func() {
		if r.setDestination != nil {
			r.setDestination(path)
		}
		close(r.decided)
	})
}

// Cancel denies the download. No file is written.
func (r *DownloadRequest) Cancel() {
	r.decideOnce.Do(func() {
		if r.cancel != nil {
			r.cancel()
		}
		close(r.decided)
	})
}

// Decided is closed once a destination has been committed or the download
// cancelled.
func (r *DownloadRequest) Decided() <-chan struct{} {
	return r.decided
}

// DownloadResult reports a finished transfer.
type DownloadResult struct {
	URI         string
	Destination string
	Success     bool
}

// LoadEvent identifies a page-load lifecycle transition.
type LoadEvent int

const (
	// LoadStarted fires when a new top-level load begins.
	LoadStarted LoadEvent = iota

	// LoadFinished fires when the load completes, whether or not it
	// succeeded.
	LoadFinished
)
