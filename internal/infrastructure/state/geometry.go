// Package state persists the shell's boundary documents: window geometry
// and the user's platform list.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// File permission constants
const (
	dirPerm  = 0755
	filePerm = 0644
)

const geometryFile = "window_state.json"

// WindowGeometry is the persisted host-window placement.
type WindowGeometry struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	X      int `json:"x"`
	Y      int `json:"y"`
}

// GeometryStore reads geometry once at startup and writes it once at
// close-requested time.
type GeometryStore struct {
	dir    string
	logger zerolog.Logger
}

// NewGeometryStore creates a store rooted at the app-local data dir.
func NewGeometryStore(dataDir string, logger zerolog.Logger) *GeometryStore {
	return &GeometryStore{
		dir:    dataDir,
		logger: logger.With().Str("component", "geometry-store").Logger(),
	}
}

// Load returns the saved geometry, or ok=false when none exists or the
// document does not parse.
func (s *GeometryStore) Load() (WindowGeometry, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, geometryFile))
	if err != nil {
		return WindowGeometry{}, false
	}

	var g WindowGeometry
	if err := json.Unmarshal(data, &g); err != nil {
		s.logger.Warn().Err(err).Msg("discarding unparseable window state")
		return WindowGeometry{}, false
	}

	s.logger.Debug().
		Int("width", g.Width).
		Int("height", g.Height).
		Msg("window state loaded")
	return g, true
}

// Save writes the geometry document, creating the data dir if needed.
// Failures are logged, not returned: losing window placement must not
// block shutdown.
func (s *GeometryStore) Save(g WindowGeometry) {
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		s.logger.Warn().Err(err).Msg("failed to create state directory")
		return
	}

	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode window state")
		return
	}

	if err := os.WriteFile(filepath.Join(s.dir, geometryFile), data, filePerm); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write window state")
		return
	}

	s.logger.Debug().
		Int("width", g.Width).
		Int("height", g.Height).
		Msg("window state saved")
}

// SaveGeometry implements the resize synchronizer's GeometrySink.
func (s *GeometryStore) SaveGeometry(width, height, x, y int) {
	s.Save(WindowGeometry{Width: width, Height: height, X: x, Y: y})
}
