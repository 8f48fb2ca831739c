package nullability

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"ktmeta/internal/schema"
)

// Cache memoizes decoded function lists per declaring type.
//
// Concurrent misses for the same key are collapsed so the decode runs once;
// the list is published only after it is complete, and the first published
// list for a key is the one every later reader sees. Failed decodes are not
// stored, so the next query retries.
type Cache struct {
	entries sync.Map // string -> []schema.Function
	group   singleflight.Group
	decodes atomic.Int64
}

// NewCache returns an empty cache.
func NewCache() *Cache { return &Cache{} }

// Get returns the cached function list for key.
func (c *Cache) Get(key string) ([]schema.Function, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}
	return v.([]schema.Function), true
}

// Load returns the cached list for key, running decode on a miss.
func (c *Cache) Load(key string, decode func() ([]schema.Function, error)) ([]schema.Function, error) {
	if fns, ok := c.Get(key); ok {
		return fns, nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		// A previous flight may have finished between Get and Do.
		if fns, ok := c.Get(key); ok {
			return fns, nil
		}
		c.decodes.Add(1)
		fns, err := decode()
		if err != nil {
			return nil, err
		}
		actual, _ := c.entries.LoadOrStore(key, fns)
		return actual, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]schema.Function), nil
}

// Len returns the number of cached declaring types.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.entries.Range(func(k, _ any) bool {
		c.entries.Delete(k)
		return true
	})
}

// Decodes returns how many decodes the cache has started.
func (c *Cache) Decodes() int64 { return c.decodes.Load() }
