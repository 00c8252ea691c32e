// Package cache implements the single-flight render cache: a bounded LRU
// of rendered PNG bytes keyed by request fingerprint, where concurrent
// identical requests collapse onto one in-flight render and all callers
// observe its result (spec §4.5/§5/§9; mirrors the original's moka
// get_with semantics from renderer/src/web/mod.rs).
package cache

import (
	"container/list"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/seismic-render/renderer/internal/render"
)

type entry struct {
	key   render.Fingerprint
	value []byte
}

// RenderCache is the bounded LRU + single-flight render cache.
type RenderCache struct {
	capacity int

	mu    sync.Mutex
	ll    *list.List
	items map[render.Fingerprint]*list.Element

	group singleflight.Group
}

// New builds a RenderCache holding at most capacity entries.
func New(capacity int) *RenderCache {
	return &RenderCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[render.Fingerprint]*list.Element),
	}
}

// GetOrRender returns the cached bytes for fp. On a miss it invokes
// renderFn at most once across all concurrently-waiting callers sharing
// fp, caches the result, and returns it to every waiter.
func (c *RenderCache) GetOrRender(fp render.Fingerprint, renderFn func() ([]byte, error)) ([]byte, error) {
	if v, ok := c.get(fp); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(string(fp[:]), func() (interface{}, error) {
		if v, ok := c.get(fp); ok {
			return v, nil
		}
		b, err := renderFn()
		if err != nil {
			return nil, err
		}
		c.put(fp, b)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *RenderCache) get(fp render.Fingerprint) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[fp]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*entry).value, true
}

func (c *RenderCache) put(fp render.Fingerprint, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[fp]; ok {
		el.Value.(*entry).value = value
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&entry{key: fp, value: value})
	c.items[fp] = el

	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*entry).key)
		}
	}
}

// Len reports the number of entries currently cached.
func (c *RenderCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
