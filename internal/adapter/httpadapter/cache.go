package httpadapter

import (
	"container/list"
	"strconv"
	"sync"

	"github.com/couchcryptid/campus-tree-forest/internal/viz"
)

// renderCache keeps the most recently rendered SVG documents. Keys include
// the dataset generation, so a reload never serves a stale forest.
type renderCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front is most recently used; values are *rendered
	byKey    map[string]*list.Element
}

type rendered struct {
	key string
	svg []byte
}

func newRenderCache(capacity int) *renderCache {
	return &renderCache{
		capacity: max(capacity, 1),
		order:    list.New(),
		byKey:    make(map[string]*list.Element),
	}
}

// renderKey identifies one rendering of one dataset.
func renderKey(generation int64, q viz.Query, focus string) string {
	return strconv.FormatInt(generation, 10) + "|" + string(q.Sort) + "|" + strconv.Quote(q.Search) + "|" + strconv.Quote(focus)
}

func (c *renderCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.byKey[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*rendered).svg, true
}

func (c *renderCache) put(key string, svg []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.byKey[key]; ok {
		el.Value.(*rendered).svg = svg
		c.order.MoveToFront(el)
		return
	}

	c.byKey[key] = c.order.PushFront(&rendered{key: key, svg: svg})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.byKey, oldest.Value.(*rendered).key)
	}
}

func (c *renderCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
