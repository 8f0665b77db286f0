package messaging

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdeck/webdeck/internal/app/shell"
	"github.com/webdeck/webdeck/internal/infrastructure/state"
	"github.com/webdeck/webdeck/pkg/webkit"
)

func newTestHandler(t *testing.T) (*Handler, *shell.SessionManager, *[]Event) {
	t.Helper()
	webkit.ResetWebViewStubsForTesting()

	win, err := webkit.NewWindow("test", 1000, 800)
	require.NoError(t, err)
	win.SetScaleFactorForTesting(2.0)

	ctx := zerolog.Nop().WithContext(context.Background())
	sessions := shell.NewSessionManager(ctx, win, t.TempDir(), "", nil)
	platforms := state.NewPlatformStore(t.TempDir())

	var events []Event
	h := NewHandler(ctx, sessions, platforms, func(e Event) {
		events = append(events, e)
	})
	return h, sessions, &events
}

func TestHandleCreateOrShow(t *testing.T) {
	h, sessions, _ := newTestHandler(t)

	h.Handle(`{"type":"create_or_show","platformId":"chatgpt","url":"chat.openai.com","topOffset":76}`)

	view, ok := sessions.Lookup("chatgpt")
	require.True(t, ok)
	assert.True(t, view.IsVisible())
	assert.Equal(t, "https://chat.openai.com", view.URI())
}

func TestHandleCreateOrShowInvalidURLEmitsError(t *testing.T) {
	h, sessions, events := newTestHandler(t)

	h.Handle(`{"type":"create_or_show","platformId":"bad","url":"https://exa mple.com/%zz"}`)

	assert.Equal(t, 0, sessions.Len())
	require.Len(t, *events, 1)
	assert.Equal(t, "command_error", (*events)[0].Type)
}

func TestHandleDestroyAndHideAll(t *testing.T) {
	h, sessions, _ := newTestHandler(t)

	h.Handle(`{"type":"create_or_show","platformId":"a","url":"https://a.example.com"}`)
	h.Handle(`{"type":"create_or_show","platformId":"b","url":"https://b.example.com"}`)

	h.Handle(`{"type":"hide_all"}`)
	viewA, _ := sessions.Lookup("a")
	viewB, _ := sessions.Lookup("b")
	assert.False(t, viewA.IsVisible())
	assert.False(t, viewB.IsVisible())

	h.Handle(`{"type":"destroy","platformId":"a"}`)
	assert.Equal(t, 1, sessions.Len())

	// Destroying an absent session is still success.
	h.Handle(`{"type":"destroy","platformId":"a"}`)
	assert.Equal(t, 1, sessions.Len())
}

func TestHandleReload(t *testing.T) {
	h, sessions, _ := newTestHandler(t)

	h.Handle(`{"type":"create_or_show","platformId":"a","url":"https://a.example.com"}`)
	h.Handle(`{"type":"reload","platformId":"a"}`)

	view, _ := sessions.Lookup("a")
	assert.Equal(t, 1, view.ReloadCount())
}

func TestPlatformsRoundTrip(t *testing.T) {
	h, _, events := newTestHandler(t)

	h.Handle(`{"type":"save_platforms","payload":[{"id":"chatgpt"}]}`)
	h.Handle(`{"type":"load_platforms"}`)

	require.Len(t, *events, 1)
	assert.Equal(t, "platforms", (*events)[0].Type)
	assert.JSONEq(t, `[{"id":"chatgpt"}]`, (*events)[0].Payload)
}

func TestNewTargetRequestEmitsEvent(t *testing.T) {
	h, sessions, events := newTestHandler(t)

	h.Handle(`{"type":"create_or_show","platformId":"a","url":"https://a.example.com"}`)
	view, _ := sessions.Lookup("a")

	view.SimulateCreate("https://example.com/opened")

	require.NotEmpty(t, *events)
	last := (*events)[len(*events)-1]
	assert.Equal(t, "new_tab_request", last.Type)
	assert.Equal(t, "https://example.com/opened", last.URL)
}

func TestMalformedAndUnknownMessagesAreIgnored(t *testing.T) {
	h, sessions, events := newTestHandler(t)

	h.Handle(`{not json`)
	h.Handle(`{"type":"bogus"}`)

	assert.Equal(t, 0, sessions.Len())
	assert.Empty(t, *events)
}
