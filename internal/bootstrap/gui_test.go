package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdeck/webdeck/pkg/webkit"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	webkit.ResetWebViewStubsForTesting()

	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmp, "cache"))

	app, err := New(context.Background())
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}

func TestNewAssemblesShell(t *testing.T) {
	app := newTestApp(t)

	assert.True(t, app.Window.IsVisible())
	require.NotNil(t, app.ShellUI)
	assert.True(t, app.ShellUI.IsVisible())

	// The shell UI covers the whole window and tracks resizes.
	width, height := app.Window.InnerSize()
	x, y, w, h := app.ShellUI.Bounds()
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
	assert.Equal(t, width, w)
	assert.Equal(t, height, h)

	app.Window.EmitResize(900, 700)
	_, _, w, h = app.ShellUI.Bounds()
	assert.Equal(t, 900, w)
	assert.Equal(t, 700, h)
}

func TestScriptMessageDrivesSessions(t *testing.T) {
	app := newTestApp(t)

	app.ShellUI.SimulateScriptMessage(`{"type":"create_or_show","platformId":"chat","url":"chat.example.com"}`)
	require.Equal(t, 1, app.Sessions.Len())

	view, ok := app.Sessions.Lookup("chat")
	require.True(t, ok)
	assert.Equal(t, "https://chat.example.com", view.URI())

	app.ShellUI.SimulateScriptMessage(`{"type":"destroy","platformId":"chat"}`)
	assert.Equal(t, 0, app.Sessions.Len())
}

func TestEventsReachShellUI(t *testing.T) {
	app := newTestApp(t)

	app.ShellUI.SimulateScriptMessage(`{"type":"load_platforms"}`)

	scripts := app.ShellUI.EvaluatedScripts()
	require.NotEmpty(t, scripts)
	last := scripts[len(scripts)-1]
	assert.True(t, strings.HasPrefix(last, "window.__webdeckEvent("))
	assert.Contains(t, last, `"platforms"`)
}

func TestCommandErrorsAreReported(t *testing.T) {
	app := newTestApp(t)

	app.ShellUI.SimulateScriptMessage(`{"type":"create_or_show","platformId":"bad","url":"not a url"}`)
	assert.Equal(t, 0, app.Sessions.Len())

	scripts := app.ShellUI.EvaluatedScripts()
	require.NotEmpty(t, scripts)
	assert.Contains(t, scripts[len(scripts)-1], `"command_error"`)
}

func TestGeometryRestoredOnStartup(t *testing.T) {
	webkit.ResetWebViewStubsForTesting()

	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmp, "cache"))

	dataDir := filepath.Join(tmp, "data", "webdeck")
	require.NoError(t, os.MkdirAll(dataDir, 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dataDir, "window_state.json"),
		[]byte(`{"width":1111,"height":777,"x":10,"y":20}`), 0644))

	app, err := New(context.Background())
	require.NoError(t, err)
	t.Cleanup(app.Close)

	width, height := app.Window.InnerSize()
	assert.Equal(t, 1111, width)
	assert.Equal(t, 777, height)
	x, y := app.Window.OuterPosition()
	assert.Equal(t, 10, x)
	assert.Equal(t, 20, y)
}
