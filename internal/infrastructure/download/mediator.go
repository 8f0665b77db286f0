// Package download mediates download requests from untrusted web content.
package download

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	dldomain "github.com/webdeck/webdeck/internal/domain/download"
	"github.com/webdeck/webdeck/pkg/webkit"
)

// Policy selects how a download's destination is resolved.
type Policy string

const (
	// PolicyAuto saves to the downloads directory with a collision-free
	// name, without asking. The shipped default.
	PolicyAuto Policy = "auto"

	// PolicyInteractive asks through a native save prompt and denies the
	// download when the user cancels.
	PolicyInteractive Policy = "interactive"
)

// PromptResult is the outcome of a save-file prompt.
type PromptResult struct {
	Path     string
	Accepted bool
}

// SavePrompt presents a native save dialog with a suggested filename and
// delivers exactly one result on the returned channel. The prompt runs on
// the main loop; the channel is the rendezvous for the handler goroutine
// blocked on it.
type SavePrompt func(suggestedFilename string) <-chan PromptResult

// Mediator resolves destinations for download requests and observes their
// completion. It never retries and never cleans up partial files; that is
// the underlying download implementation's job.
type Mediator struct {
	policy       Policy
	downloadsDir string
	prompt       SavePrompt
	exists       func(path string) bool
}

// NewMediator creates a mediator. downloadsDir falls back to
// <home>/Downloads when empty. prompt is required only for
// PolicyInteractive.
func NewMediator(policy Policy, downloadsDir string, prompt SavePrompt) *Mediator {
	if downloadsDir == "" {
		downloadsDir = defaultDownloadsDir()
	}

	return &Mediator{
		policy:       policy,
		downloadsDir: downloadsDir,
		prompt:       prompt,
		exists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
	}
}

// HandleRequest resolves a destination for the request, or cancels it.
// Under the interactive policy this blocks until the prompt completes.
// The webkit backend invokes it on a dedicated goroutine: download
// signals arrive on the GLib main context, which must stay free to
// present the prompt.
func (m *Mediator) HandleRequest(ctx context.Context, req *webkit.DownloadRequest) {
	log := zerolog.Ctx(ctx)

	filename := m.deriveFilename(req)

	switch m.policy {
	case PolicyInteractive:
		if m.prompt == nil {
			log.Error().Str("filename", filename).Msg("interactive policy without prompt, denying download")
			req.Cancel()
			return
		}

		result := <-m.prompt(filename)
		if !result.Accepted {
			log.Info().Str("filename", filename).Msg("download cancelled by user")
			req.Cancel()
			return
		}

		log.Info().Str("destination", result.Path).Msg("download destination chosen")
		req.SetDestination(result.Path)

	default:
		path := dldomain.UniquePath(m.downloadsDir, filename, m.exists)
		log.Info().
			Str("url", req.URI).
			Str("destination", path).
			Msg("download accepted")
		req.SetDestination(path)
	}
}

// HandleFinished observes a completed transfer. Log only: failures surface
// nowhere else, and partial files are left to the download implementation.
func (m *Mediator) HandleFinished(ctx context.Context, result webkit.DownloadResult) {
	log := zerolog.Ctx(ctx)

	if result.Success {
		log.Info().
			Str("url", result.URI).
			Str("destination", result.Destination).
			Msg("download finished")
		return
	}

	log.Warn().
		Str("url", result.URI).
		Str("destination", result.Destination).
		Msg("download failed")
}

// deriveFilename walks the fallback chain: suggested destination from the
// content-disposition header, then the URL's trailing path segment, then a
// fixed default. A name with no extension gets one from the response's
// media type when that is known.
func (m *Mediator) deriveFilename(req *webkit.DownloadRequest) string {
	var name string
	if req.SuggestedFilename != "" {
		// Some engines report the suggestion as a full path or file:// URI.
		name = dldomain.ExtractFilenameFromDestination(req.SuggestedFilename)
	} else {
		name = dldomain.ExtractFilenameFromURI(req.URI)
	}

	if filepath.Ext(name) == "" {
		name += dldomain.ExtensionFromMimeType(req.MimeType)
	}
	return name
}

// SetExistsForTesting overrides the filesystem probe.
func (m *Mediator) SetExistsForTesting(exists func(path string) bool) {
	m.exists = exists
}

func defaultDownloadsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, "Downloads")
}
