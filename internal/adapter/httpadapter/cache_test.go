package httpadapter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/campus-tree-forest/internal/viz"
)

func TestRenderCache_GetPut(t *testing.T) {
	c := newRenderCache(2)

	_, ok := c.get("a")
	assert.False(t, ok)

	c.put("a", []byte("<svg>a</svg>"))
	got, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "<svg>a</svg>", string(got))
}

func TestRenderCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newRenderCache(2)
	c.put("a", []byte("a"))
	c.put("b", []byte("b"))

	// Touch a so b becomes the oldest.
	_, _ = c.get("a")
	c.put("c", []byte("c"))

	assert.Equal(t, 2, c.len())
	_, ok := c.get("b")
	assert.False(t, ok)
	_, ok = c.get("a")
	assert.True(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)
}

func TestRenderCache_Overwrite(t *testing.T) {
	c := newRenderCache(2)
	c.put("a", []byte("old"))
	c.put("a", []byte("new"))

	got, _ := c.get("a")
	assert.Equal(t, "new", string(got))
	assert.Equal(t, 1, c.len())
}

func TestRenderCache_MinimumCapacity(t *testing.T) {
	c := newRenderCache(0)
	c.put("a", []byte("a"))
	c.put("b", []byte("b"))
	assert.Equal(t, 1, c.len())
}

func TestRenderKey(t *testing.T) {
	q := viz.Query{Search: "qu", Sort: viz.SortHeight}

	assert.Equal(t, renderKey(1, q, ""), renderKey(1, q, ""))
	assert.NotEqual(t, renderKey(1, q, ""), renderKey(2, q, ""), "generation")
	assert.NotEqual(t, renderKey(1, q, ""), renderKey(1, q, "Quercus"), "focus")
	assert.NotEqual(t,
		renderKey(1, viz.Query{Search: `a"|"b`}, ""),
		renderKey(1, viz.Query{Search: "a"}, "b"),
		"separator in search")
}
