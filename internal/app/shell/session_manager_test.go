package shell

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdeck/webdeck/pkg/webkit"
)

func newTestManager(t *testing.T) (*SessionManager, *webkit.Window) {
	t.Helper()
	webkit.ResetWebViewStubsForTesting()

	win, err := webkit.NewWindow("test", 1000, 800)
	require.NoError(t, err)
	win.SetScaleFactorForTesting(2.0)

	ctx := zerolog.Nop().WithContext(context.Background())
	mgr := NewSessionManager(ctx, win, t.TempDir(), "", nil)
	return mgr, win
}

func TestCreateOrShowCreatesVisibleSessionWithBounds(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.CreateOrShow(ctx, "chatgpt", "https://chat.openai.com"))

	view, ok := mgr.Lookup("chatgpt")
	require.True(t, ok)
	assert.True(t, view.IsVisible())
	assert.Equal(t, "https://chat.openai.com", view.URI())

	x, y, w, h := view.Bounds()
	assert.Equal(t, 0, x)
	assert.Equal(t, 152, y)
	assert.Equal(t, 1000, w)
	assert.Equal(t, 648, h)
}

func TestCreateOrShowIsIdempotent(t *testing.T) {
	mgr, win := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.CreateOrShow(ctx, "chatgpt", "https://chat.openai.com"))

	// The window changed between calls; the second call re-asserts bounds.
	win.SetInnerSize(1200, 900)
	require.NoError(t, mgr.CreateOrShow(ctx, "chatgpt", "https://chat.openai.com"))

	assert.Equal(t, 1, mgr.Len())

	view, ok := mgr.Lookup("chatgpt")
	require.True(t, ok)
	assert.True(t, view.IsVisible())

	_, _, w, h := view.Bounds()
	assert.Equal(t, 1200, w)
	assert.Equal(t, 748, h)
}

func TestCreateOrShowIsExclusive(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.CreateOrShow(ctx, "a", "https://a.example.com"))
	require.NoError(t, mgr.CreateOrShow(ctx, "b", "https://b.example.com"))

	viewA, _ := mgr.Lookup("a")
	viewB, _ := mgr.Lookup("b")
	assert.False(t, viewA.IsVisible())
	assert.True(t, viewB.IsVisible())

	// Showing A again flips visibility back.
	require.NoError(t, mgr.CreateOrShow(ctx, "a", "https://a.example.com"))
	assert.True(t, viewA.IsVisible())
	assert.False(t, viewB.IsVisible())
}

func TestCreateOrShowNormalizesURL(t *testing.T) {
	mgr, _ := newTestManager(t)

	require.NoError(t, mgr.CreateOrShow(context.Background(), "claude", "claude.ai"))

	view, ok := mgr.Lookup("claude")
	require.True(t, ok)
	assert.Equal(t, "https://claude.ai", view.URI())
}

func TestCreateOrShowInvalidURL(t *testing.T) {
	mgr, _ := newTestManager(t)

	err := mgr.CreateOrShow(context.Background(), "bad", "https://exa mple.com/%zz")
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.Equal(t, 0, mgr.Len())
}

func TestCreateOrShowHostWindowMissing(t *testing.T) {
	ctx := zerolog.Nop().WithContext(context.Background())
	mgr := NewSessionManager(ctx, nil, t.TempDir(), "", nil)

	err := mgr.CreateOrShow(context.Background(), "chatgpt", "https://chat.openai.com")
	assert.ErrorIs(t, err, ErrHostWindowMissing)
}

func TestTransientSessionsPartitionByHost(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.CreateOrShow(ctx, "tmp-1", "https://example.com/article"))

	view, ok := mgr.Lookup("tmp-1")
	require.True(t, ok)
	assert.Contains(t, view.DataDir(), "webdata")
	assert.Contains(t, view.DataDir(), "url-example.com")
}

func TestDestroyRemovesSession(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.CreateOrShow(ctx, "chatgpt", "https://chat.openai.com"))
	view, _ := mgr.Lookup("chatgpt")

	mgr.Destroy("chatgpt")

	assert.Equal(t, 0, mgr.Len())
	assert.True(t, view.IsDestroyed())

	// Re-creating yields a fresh session, not the torn-down one.
	require.NoError(t, mgr.CreateOrShow(ctx, "chatgpt", "https://chat.openai.com"))
	fresh, ok := mgr.Lookup("chatgpt")
	require.True(t, ok)
	assert.NotEqual(t, view.ID(), fresh.ID())
	assert.False(t, fresh.IsDestroyed())
}

func TestDestroyAbsentIsNoOp(t *testing.T) {
	mgr, _ := newTestManager(t)
	mgr.Destroy("never-created")
	assert.Equal(t, 0, mgr.Len())
}

func TestHideAll(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.CreateOrShow(ctx, "a", "https://a.example.com"))
	require.NoError(t, mgr.CreateOrShow(ctx, "b", "https://b.example.com"))

	mgr.HideAll()

	viewA, _ := mgr.Lookup("a")
	viewB, _ := mgr.Lookup("b")
	assert.False(t, viewA.IsVisible())
	assert.False(t, viewB.IsVisible())
}

func TestReload(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, mgr.CreateOrShow(ctx, "chatgpt", "https://chat.openai.com"))
	mgr.Reload("chatgpt")
	mgr.Reload("absent") // no-op

	view, _ := mgr.Lookup("chatgpt")
	assert.Equal(t, 1, view.ReloadCount())
}

func TestLoadTransitionsAreLoggedPerPlatform(t *testing.T) {
	webkit.ResetWebViewStubsForTesting()

	win, err := webkit.NewWindow("test", 1000, 800)
	require.NoError(t, err)

	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())
	mgr := NewSessionManager(ctx, win, t.TempDir(), "", nil)

	require.NoError(t, mgr.CreateOrShow(ctx, "chatgpt", "https://chat.openai.com"))
	view, ok := mgr.Lookup("chatgpt")
	require.True(t, ok)

	buf.Reset()
	view.SimulateLoadChanged(webkit.LoadStarted)
	view.SimulateLoadChanged(webkit.LoadFinished)

	out := buf.String()
	assert.Contains(t, out, "load started")
	assert.Contains(t, out, "load finished")
	assert.Contains(t, out, `"platform_id":"chatgpt"`)
	assert.Contains(t, out, `"url":"https://chat.openai.com"`)
}

func TestNewTargetRequestsAreSurfacedOutward(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	var got []string
	mgr.SetNewTargetHandler(func(targetURL string) {
		got = append(got, targetURL)
	})

	require.NoError(t, mgr.CreateOrShow(ctx, "chatgpt", "https://chat.openai.com"))
	view, _ := mgr.Lookup("chatgpt")

	view.SimulateCreate("https://example.com/popup")
	assert.Equal(t, []string{"https://example.com/popup"}, got)
}
