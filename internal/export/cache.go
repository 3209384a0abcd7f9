package export

import (
	"bytes"
	"container/list"
	"context"
	"sync"

	"penguinlens/pkg/platform/sentinel"
)

// Cache stores encoded exports by key. Get returns sentinel.ErrNotFound on a
// miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, body []byte) error
}

// MemoryCache is a bounded in-process LRU cache. It stores and hands out
// copies, so callers may modify the slices they pass in or get back.
type MemoryCache struct {
	mu      sync.Mutex
	max     int
	order   *list.List
	entries map[string]*list.Element
}

type memoryEntry struct {
	key  string
	body []byte
}

// DefaultMemoryEntries bounds the memory cache when no size is configured.
const DefaultMemoryEntries = 256

// NewMemoryCache returns a cache holding at most max entries.
func NewMemoryCache(max int) *MemoryCache {
	if max <= 0 {
		max = DefaultMemoryEntries
	}
	return &MemoryCache{
		max:     max,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c.order.MoveToFront(el)
	return bytes.Clone(el.Value.(*memoryEntry).body), nil
}

func (c *MemoryCache) Set(_ context.Context, key string, body []byte) error {
	body = bytes.Clone(body)
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		el.Value.(*memoryEntry).body = body
		c.order.MoveToFront(el)
		return nil
	}
	c.entries[key] = c.order.PushFront(&memoryEntry{key: key, body: body})
	for c.order.Len() > c.max {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*memoryEntry).key)
	}
	return nil
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
