package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leeforge/genico/media/ico"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedAssets(t *testing.T) {
	r, err := New("", "")
	require.NoError(t, err)

	index, err := r.Index()
	require.NoError(t, err)
	assert.Contains(t, string(index), `name="file"`)

	favicon, err := r.Favicon()
	require.NoError(t, err)
	entries, err := ico.ReadDir(favicon)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	css, ctype, err := r.Asset("style.css")
	require.NoError(t, err)
	assert.NotEmpty(t, css)
	assert.Equal(t, "text/css; charset=utf-8", ctype)

	_, ctype, err = r.Asset("genico.ico")
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", ctype)
}

func TestErrorPageEscapesAndJoins(t *testing.T) {
	r, err := New("", "")
	require.NoError(t, err)

	page, err := r.Error("image must be square (1:1)", "<script>x</script>")
	require.NoError(t, err)

	body := string(page)
	assert.Contains(t, body, "image must be square (1:1)<br>&lt;script&gt;x&lt;/script&gt;")
	assert.NotContains(t, body, "{{ error_message }}")
}

func TestRenderLiteralPlaceholders(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html"),
		[]byte("<p>{{ a }} {{a}} {{ b }} {{ a }}</p>"), 0o644))

	r, err := New(dir, "")
	require.NoError(t, err)

	out, err := r.Render("page.html", Context{"a": "1"})
	require.NoError(t, err)
	assert.Equal(t, "<p>1 {{a}} {{ b }} 1</p>", string(out))
}

func TestMissingAssets(t *testing.T) {
	r, err := New("", "")
	require.NoError(t, err)

	for _, name := range []string{"nope.css", "../go.mod", "", "/"} {
		_, _, err := r.Asset(name)
		assert.ErrorIs(t, err, ErrNotFound, name)
	}

	_, err = New(filepath.Join(t.TempDir(), "missing"), "")
	assert.Error(t, err)

	r, err = New(t.TempDir(), "")
	require.NoError(t, err)
	_, err = r.Favicon()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/css; charset=utf-8", ContentType("a/b/STYLE.CSS"))
	assert.Equal(t, "application/octet-stream", ContentType("app.js"))
}
