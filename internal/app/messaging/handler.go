// Package messaging dispatches script messages from the shell UI to the
// session engine.
package messaging

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/webdeck/webdeck/internal/app/shell"
	"github.com/webdeck/webdeck/internal/infrastructure/state"
	"github.com/webdeck/webdeck/internal/logging"
)

// Message represents a script message from the shell UI webview.
type Message struct {
	Type       string `json:"type"`
	PlatformID string `json:"platformId"`
	URL        string `json:"url"`
	// TopOffset is informational: the strip height is owned by the
	// layout package, not the UI.
	TopOffset float64 `json:"topOffset"`
	// Payload carries the opaque platform-list document.
	Payload json.RawMessage `json:"payload"`
}

// Event is a notification posted back to the shell UI.
type Event struct {
	Type    string `json:"type"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
	Payload string `json:"payload,omitempty"`
}

// EventPoster delivers events to the shell UI, marshaled onto the main
// loop by the caller.
type EventPoster func(Event)

// Handler processes incoming command messages.
type Handler struct {
	ctx       context.Context
	sessions  *shell.SessionManager
	platforms *state.PlatformStore
	post      EventPoster
	logger    zerolog.Logger
}

// NewHandler creates a message handler bound to the session manager and
// the platform store.
func NewHandler(ctx context.Context, sessions *shell.SessionManager, platforms *state.PlatformStore, post EventPoster) *Handler {
	h := &Handler{
		ctx:       ctx,
		sessions:  sessions,
		platforms: platforms,
		post:      post,
		logger:    *logging.FromContext(logging.WithComponent(ctx, "messaging")),
	}

	sessions.SetNewTargetHandler(func(targetURL string) {
		h.emit(Event{Type: "new_tab_request", URL: targetURL})
	})

	return h
}

// Handle processes one incoming script message.
func (h *Handler) Handle(payload string) {
	var msg Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		h.logger.Error().Err(err).Msg("failed to unmarshal message")
		return
	}

	switch msg.Type {
	case "create_or_show":
		h.handleCreateOrShow(msg)
	case "destroy":
		h.sessions.Destroy(msg.PlatformID)
	case "hide_all":
		h.sessions.HideAll()
	case "reload":
		h.sessions.Reload(msg.PlatformID)
	case "load_platforms":
		h.handleLoadPlatforms()
	case "save_platforms":
		h.handleSavePlatforms(msg)
	default:
		h.logger.Warn().Str("type", msg.Type).Msg("unknown message type")
	}
}

func (h *Handler) handleCreateOrShow(msg Message) {
	if err := h.sessions.CreateOrShow(h.ctx, msg.PlatformID, msg.URL); err != nil {
		h.logger.Error().Err(err).Str("platform_id", msg.PlatformID).Msg("create_or_show failed")
		h.emit(Event{Type: "command_error", Error: err.Error()})
	}
}

func (h *Handler) handleLoadPlatforms() {
	data, err := h.platforms.Load()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load platforms")
		h.emit(Event{Type: "command_error", Error: err.Error()})
		return
	}
	h.emit(Event{Type: "platforms", Payload: string(data)})
}

func (h *Handler) handleSavePlatforms(msg Message) {
	if err := h.platforms.Save(msg.Payload); err != nil {
		h.logger.Error().Err(err).Msg("failed to save platforms")
		h.emit(Event{Type: "command_error", Error: err.Error()})
	}
}

func (h *Handler) emit(event Event) {
	if h.post != nil {
		h.post(event)
	}
}
