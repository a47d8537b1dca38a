package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer(Options{})

	out, err := r.Render("Load on **miss**.\n\n- [x] cached")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>miss</strong>")
	assert.Contains(t, out, `type="checkbox"`)
}

func TestRenderer_Linkify(t *testing.T) {
	out, err := NewRenderer(Options{}).Render("see https://example.com/docs")
	require.NoError(t, err)
	assert.Contains(t, out, `<a href="https://example.com/docs">`)
}

func TestRenderer_RawHTML(t *testing.T) {
	safe, err := NewRenderer(Options{}).Render("<script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, safe, "<script>")

	unsafe, err := NewRenderer(Options{AllowUnsafe: true}).Render("<b>bold</b>")
	require.NoError(t, err)
	assert.Contains(t, unsafe, "<b>bold</b>")
}

func TestRenderer_Empty(t *testing.T) {
	out, err := NewRenderer(Options{}).Render("")
	require.NoError(t, err)
	assert.Empty(t, out)
}
