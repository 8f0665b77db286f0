package shell

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/webdeck/webdeck/internal/domain/layout"
	"github.com/webdeck/webdeck/internal/logging"
	"github.com/webdeck/webdeck/pkg/webkit"
)

// resizeThrottle caps bounds recomputation at roughly 60 updates per
// second. Raw OS resize events can arrive far faster, and repositioning
// every child on each one visibly lags.
const resizeThrottle = 16 * time.Millisecond

// GeometrySink receives the host window's final geometry when the window
// is asked to close. The capture is synchronous: deferring it risks
// reading already-torn-down state.
type GeometrySink interface {
	SaveGeometry(width, height, x, y int)
}

// ResizeSynchronizer keeps every registered session's bounds in sync with
// the host window, throttling bursts of resize events.
type ResizeSynchronizer struct {
	window   *webkit.Window
	registry *SessionManager
	sink     GeometrySink
	logger   zerolog.Logger

	// now is injectable so throttle behavior is testable.
	now func() time.Time

	mu          sync.Mutex
	lastApplied time.Time
}

// NewResizeSynchronizer wires the synchronizer but does not subscribe yet;
// call Start once handlers may fire.
func NewResizeSynchronizer(ctx context.Context, window *webkit.Window, registry *SessionManager, sink GeometrySink) *ResizeSynchronizer {
	return &ResizeSynchronizer{
		window:   window,
		registry: registry,
		sink:     sink,
		logger:   *logging.FromContext(logging.WithComponent(ctx, "resize-sync")),
		now:      time.Now,
	}
}

// Start subscribes to the host window's resize and close-request events.
func (s *ResizeSynchronizer) Start() {
	s.window.ConnectResize(s.handleResize)
	s.window.ConnectCloseRequest(s.handleCloseRequest)
	s.logger.Debug().Msg("window event listeners registered")
}

// handleResize recomputes bounds and fans them out, dropping events that
// arrive within the throttle window of the last applied update.
func (s *ResizeSynchronizer) handleResize(width, height int) {
	s.mu.Lock()
	now := s.now()
	if now.Sub(s.lastApplied) < resizeThrottle {
		s.mu.Unlock()
		return
	}
	s.lastApplied = now
	s.mu.Unlock()

	bounds := layout.ComputeBounds(width, height, s.window.ScaleFactor())

	s.logger.Debug().
		Int("width", width).
		Int("height", height).
		Int("child_y", bounds.Position.Y).
		Int("child_height", bounds.Size.Height).
		Msg("applying resize")

	s.registry.ApplyBounds(bounds)
}

// handleCloseRequest captures the window geometry for persistence while
// the window still exists.
func (s *ResizeSynchronizer) handleCloseRequest() {
	if s.sink == nil {
		return
	}

	width, height := s.window.InnerSize()
	x, y := s.window.OuterPosition()
	s.sink.SaveGeometry(width, height, x, y)

	s.logger.Info().
		Int("width", width).
		Int("height", height).
		Int("x", x).
		Int("y", y).
		Msg("window geometry captured on close")
}

// SetClockForTesting overrides the throttle clock.
func (s *ResizeSynchronizer) SetClockForTesting(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
