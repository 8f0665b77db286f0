// Package layout computes child-view placement inside the host window.
package layout

import "math"

const (
	// TabStripLogicalHeight is the height of the tab strip in logical (CSS)
	// pixels. Single source of truth shared by session creation and the
	// resize synchronizer.
	TabStripLogicalHeight = 76.0

	// DefaultScaleFactor is assumed when the display scale cannot be
	// determined. High-density displays are the common case.
	DefaultScaleFactor = 2.0
)

// Point is a physical-pixel position inside the host window.
type Point struct {
	X int
	Y int
}

// Size is a physical-pixel extent.
type Size struct {
	Width  int
	Height int
}

// Bounds is a child view's position and size in physical pixels.
type Bounds struct {
	Position Point
	Size     Size
}

// ComputeBounds maps the host window's physical size and display scale to
// the bounds of a child view placed below the tab strip. The height clamps
// to zero when the window is shorter than the strip.
func ComputeBounds(winWidth, winHeight int, scale float64) Bounds {
	if scale <= 0 {
		scale = DefaultScaleFactor
	}

	stripHeight := int(math.Round(TabStripLogicalHeight * scale))

	height := winHeight - stripHeight
	if height < 0 {
		height = 0
	}

	return Bounds{
		Position: Point{X: 0, Y: stripHeight},
		Size:     Size{Width: winWidth, Height: height},
	}
}
