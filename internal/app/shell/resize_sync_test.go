package shell

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdeck/webdeck/pkg/webkit"
)

type recordingSink struct {
	width, height int
	x, y          int
	calls         int
}

func (r *recordingSink) SaveGeometry(width, height, x, y int) {
	r.width, r.height, r.x, r.y = width, height, x, y
	r.calls++
}

func newTestSynchronizer(t *testing.T) (*ResizeSynchronizer, *SessionManager, *webkit.Window, *recordingSink) {
	t.Helper()
	webkit.ResetWebViewStubsForTesting()

	win, err := webkit.NewWindow("test", 1000, 800)
	require.NoError(t, err)
	win.SetScaleFactorForTesting(2.0)

	ctx := zerolog.Nop().WithContext(context.Background())
	mgr := NewSessionManager(ctx, win, t.TempDir(), "", nil)
	sink := &recordingSink{}
	rs := NewResizeSynchronizer(ctx, win, mgr, sink)
	rs.Start()
	return rs, mgr, win, sink
}

func TestResizeFansOutToAllSessions(t *testing.T) {
	_, mgr, win, _ := newTestSynchronizer(t)

	ctx := context.Background()
	require.NoError(t, mgr.CreateOrShow(ctx, "a", "https://a.example.com"))
	require.NoError(t, mgr.CreateOrShow(ctx, "b", "https://b.example.com"))

	win.EmitResize(1400, 1000)

	for _, id := range []string{"a", "b"} {
		view, ok := mgr.Lookup(id)
		require.True(t, ok)
		x, y, w, h := view.Bounds()
		assert.Equal(t, 0, x)
		assert.Equal(t, 152, y)
		assert.Equal(t, 1400, w)
		assert.Equal(t, 848, h)
	}
}

func TestResizeClampsShortWindow(t *testing.T) {
	rs, mgr, win, _ := newTestSynchronizer(t)

	now := time.Unix(1000, 0)
	rs.SetClockForTesting(func() time.Time { return now })

	require.NoError(t, mgr.CreateOrShow(context.Background(), "a", "https://a.example.com"))

	win.EmitResize(1000, 200)

	view, _ := mgr.Lookup("a")
	_, _, w, h := view.Bounds()
	assert.Equal(t, 1000, w)
	assert.Equal(t, 48, h)

	now = now.Add(5 * time.Millisecond)
	win.EmitResize(1000, 100)
	// Dropped by the throttle: bounds unchanged.
	_, _, _, h = view.Bounds()
	assert.Equal(t, 48, h)
}

func TestResizeThrottleCollapsesBursts(t *testing.T) {
	rs, mgr, win, _ := newTestSynchronizer(t)

	now := time.Unix(1000, 0)
	rs.SetClockForTesting(func() time.Time { return now })

	require.NoError(t, mgr.CreateOrShow(context.Background(), "a", "https://a.example.com"))
	view, _ := mgr.Lookup("a")

	// A burst within one 16 ms window: exactly one applied update.
	win.EmitResize(1100, 800)
	_, _, appliedW, _ := view.Bounds()
	assert.Equal(t, 1100, appliedW)

	now = now.Add(5 * time.Millisecond)
	win.EmitResize(1200, 800)
	now = now.Add(5 * time.Millisecond)
	win.EmitResize(1300, 800)

	_, _, w, _ := view.Bounds()
	assert.Equal(t, 1100, w, "burst events within the throttle window must be dropped")

	// Past the window the next event applies.
	now = now.Add(16 * time.Millisecond)
	win.EmitResize(1300, 800)
	_, _, w, _ = view.Bounds()
	assert.Equal(t, 1300, w)
}

func TestCloseRequestCapturesGeometrySynchronously(t *testing.T) {
	_, _, win, sink := newTestSynchronizer(t)

	win.SetPosition(24, 48)
	win.EmitCloseRequest()

	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, 1000, sink.width)
	assert.Equal(t, 800, sink.height)
	assert.Equal(t, 24, sink.x)
	assert.Equal(t, 48, sink.y)
}
