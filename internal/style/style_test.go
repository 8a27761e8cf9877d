package style

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDefaultCSS_HasPanelClasses(t *testing.T) {
	css := DefaultCSS()
	require.NotEmpty(t, css)

	for _, class := range []string{
		"window.wspanel",
		".workspace",
		".workspace:disabled",
		".workspace-icon",
		".power",
		".clock",
	} {
		assert.Contains(t, css, class)
	}

	assert.Equal(t, strings.Count(css, "{"), strings.Count(css, "}"), "braces should be balanced")
}

func TestEmbedded(t *testing.T) {
	css, found := Embedded("default")
	assert.True(t, found)
	assert.Equal(t, DefaultCSS(), css)

	_, found = Embedded("default.css")
	assert.True(t, found)

	css, found = Embedded("nonexistent")
	assert.False(t, found)
	assert.Empty(t, css)
}

func TestProcessImports(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "colors.css"), []byte(".clock { color: red; }"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "loop.css"), []byte(`@import "loop.css";`), 0o644))

	tests := []struct {
		name     string
		css      string
		contains []string
	}{
		{
			name:     "relative file",
			css:      `@import "colors.css";`,
			contains: []string{"/* imported: colors.css */", ".clock { color: red; }"},
		},
		{
			name:     "url syntax",
			css:      `@import url('colors.css');`,
			contains: []string{".clock { color: red; }"},
		},
		{
			name:     "bundled fallback",
			css:      `@import "default.css";`,
			contains: []string{"/* imported (embedded): default.css */", ".workspace"},
		},
		{
			name:     "missing",
			css:      `@import "nope.css";`,
			contains: []string{"/* import failed: nope.css"},
		},
		{
			name:     "circular",
			css:      `@import "loop.css";`,
			contains: []string{"circular import prevented"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ProcessImports(tt.css, dir, nil)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestStylesheet_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.css")
	require.NoError(t, os.WriteFile(path, []byte(".clock { color: red; }"), 0o644))

	sheet, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ".clock { color: red; }", sheet.CSS)

	changed, err := sheet.Reload()
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(path, []byte(".clock { color: blue; }"), 0o644))
	changed, err = sheet.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, sheet.CSS, "blue")
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.css"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCompose(t *testing.T) {
	assert.Equal(t, DefaultCSS(), Compose(nil))
	assert.Equal(t, DefaultCSS(), Compose(&Stylesheet{Path: "/x.css"}))

	out := Compose(&Stylesheet{Path: "/home/u/style.css", CSS: ".power { margin: 0; }"})
	assert.True(t, strings.HasPrefix(out, DefaultCSS()))
	assert.True(t, strings.HasSuffix(out, ".power { margin: 0; }"))
	assert.Contains(t, out, "/home/u/style.css")
}

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "style.css")
	require.NoError(t, os.WriteFile(path, []byte("a {}"), 0o644))

	var changes atomic.Int32
	w, err := NewWatcher(path, func() { changes.Add(1) }, testLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	require.NoError(t, w.Start(), "second start is a no-op")
	defer w.Stop()

	// Other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.css"), []byte("b {}"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("a { color: red; }"), 0o644))

	assert.Eventually(t, func() bool {
		return changes.Load() > 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.css")
	w, err := NewWatcher(path, nil, testLogger())
	require.NoError(t, err)
	require.NoError(t, w.Start())

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
