package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometryStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewGeometryStore(dir, zerolog.Nop())

	_, ok := store.Load()
	assert.False(t, ok, "no saved state yet")

	store.SaveGeometry(1280, 800, 100, 50)

	g, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, WindowGeometry{Width: 1280, Height: 800, X: 100, Y: 50}, g)
}

func TestGeometryStoreCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	store := NewGeometryStore(dir, zerolog.Nop())

	store.Save(WindowGeometry{Width: 800, Height: 600})

	_, err := os.Stat(filepath.Join(dir, "window_state.json"))
	assert.NoError(t, err)
}

func TestGeometryStoreRejectsCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "window_state.json"), []byte("{not json"), 0644))

	store := NewGeometryStore(dir, zerolog.Nop())
	_, ok := store.Load()
	assert.False(t, ok)
}

func TestPlatformStoreDefaultsToEmptyList(t *testing.T) {
	store := NewPlatformStore(t.TempDir())

	data, err := store.Load()
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestPlatformStoreSavesEmptyPayloadAsEmptyList(t *testing.T) {
	store := NewPlatformStore(t.TempDir())

	require.NoError(t, store.Save(nil))

	data, err := store.Load()
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestPlatformStoreRoundTripsOpaqueBytes(t *testing.T) {
	store := NewPlatformStore(filepath.Join(t.TempDir(), "data"))

	doc := []byte(`[{"id":"chatgpt","url":"https://chat.openai.com","anything":true}]`)
	require.NoError(t, store.Save(doc))

	data, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, doc, data, "document is stored verbatim, no schema enforced")
}
