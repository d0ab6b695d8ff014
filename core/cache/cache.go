// Package cache provides the LRU caches shared between documents, most
// notably the content cache in front of URI docuverse fetches.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache is a generic LRU cache interface.
type Cache[K comparable, V any] interface {
	// Get retrieves a value from the cache.
	Get(key K) (V, bool)

	// Put stores a value in the cache.
	Put(key K, value V)

	// Remove removes a value from the cache.
	Remove(key K)

	// Clear removes all entries from the cache.
	Clear()

	// Len returns the number of entries in the cache.
	Len() int

	// Stats returns cache statistics.
	Stats() Stats
}

// Stats contains cache statistics.
type Stats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	Size       int
	MaxSize    int
	TotalBytes int64
}

// HitRatio returns hits over lookups, or 0 before the first lookup.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Config contains cache configuration options.
type Config struct {
	// MaxSize is the maximum number of entries (0 = unlimited).
	MaxSize int

	// MaxBytes bounds the summed entry sizes (0 = unlimited). Only caches
	// created with a size function honour it.
	MaxBytes int64

	// TTL is the time-to-live for entries (0 = no expiration).
	TTL time.Duration

	// OnEvict is called when an entry is evicted or removed.
	OnEvict func(key, value any)
}

// DefaultConfig returns a default cache configuration.
func DefaultConfig() Config {
	return Config{
		MaxSize: 128,
	}
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	size      int64
	expiresAt time.Time
}

// lruCache is a thread-safe LRU cache implementation.
type lruCache[K comparable, V any] struct {
	mu        sync.Mutex
	config    Config
	sizeOf    func(V) int64
	now       func() time.Time
	entries   map[K]*list.Element
	evictList *list.List
	bytes     int64
	stats     Stats
}

// NewLRUCache creates a new LRU cache bounded by entry count.
func NewLRUCache[K comparable, V any](config Config) Cache[K, V] {
	return newLRU[K, V](config, nil)
}

// NewSizedCache creates an LRU cache bounded by entry count and by the
// summed sizes reported by sizeOf. A value larger than MaxBytes is never
// cached.
func NewSizedCache[K comparable, V any](config Config, sizeOf func(V) int64) Cache[K, V] {
	return newLRU[K, V](config, sizeOf)
}

func newLRU[K comparable, V any](config Config, sizeOf func(V) int64) *lruCache[K, V] {
	if config.MaxSize < 0 {
		config.MaxSize = 0
	}
	if config.MaxBytes < 0 {
		config.MaxBytes = 0
	}
	return &lruCache[K, V]{
		config:    config,
		sizeOf:    sizeOf,
		now:       time.Now,
		entries:   make(map[K]*list.Element),
		evictList: list.New(),
	}
}

// Get retrieves a value from the cache.
func (c *lruCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	ent, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}

	e := ent.Value.(*entry[K, V])
	if c.expired(e) {
		c.removeElement(ent)
		c.stats.Misses++
		return zero, false
	}

	c.evictList.MoveToFront(ent)
	c.stats.Hits++
	return e.value, true
}

// Put stores a value in the cache.
func (c *lruCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var size int64
	if c.sizeOf != nil {
		size = c.sizeOf(value)
		if c.config.MaxBytes > 0 && size > c.config.MaxBytes {
			if ent, ok := c.entries[key]; ok {
				c.removeElement(ent)
			}
			return
		}
	}

	if ent, ok := c.entries[key]; ok {
		e := ent.Value.(*entry[K, V])
		c.bytes += size - e.size
		e.value, e.size = value, size
		e.expiresAt = c.deadline()
		c.evictList.MoveToFront(ent)
	} else {
		e := &entry[K, V]{key: key, value: value, size: size, expiresAt: c.deadline()}
		c.entries[key] = c.evictList.PushFront(e)
		c.bytes += size
	}

	for c.overCapacity() {
		c.removeOldest()
	}
}

// Remove removes a value from the cache.
func (c *lruCache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.entries[key]; ok {
		c.removeElement(ent)
	}
}

// Clear removes all entries from the cache without calling OnEvict.
func (c *lruCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*list.Element)
	c.evictList.Init()
	c.bytes = 0
}

// Len returns the number of entries in the cache.
func (c *lruCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

// Stats returns cache statistics.
func (c *lruCache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = c.evictList.Len()
	s.MaxSize = c.config.MaxSize
	s.TotalBytes = c.bytes
	return s
}

func (c *lruCache[K, V]) deadline() time.Time {
	if c.config.TTL <= 0 {
		return time.Time{}
	}
	return c.now().Add(c.config.TTL)
}

func (c *lruCache[K, V]) expired(e *entry[K, V]) bool {
	return !e.expiresAt.IsZero() && c.now().After(e.expiresAt)
}

func (c *lruCache[K, V]) overCapacity() bool {
	if c.evictList.Len() == 0 {
		return false
	}
	if c.config.MaxSize > 0 && c.evictList.Len() > c.config.MaxSize {
		return true
	}
	return c.sizeOf != nil && c.config.MaxBytes > 0 && c.bytes > c.config.MaxBytes
}

func (c *lruCache[K, V]) removeOldest() {
	if ent := c.evictList.Back(); ent != nil {
		c.removeElement(ent)
		c.stats.Evictions++
	}
}

func (c *lruCache[K, V]) removeElement(ent *list.Element) {
	c.evictList.Remove(ent)
	e := ent.Value.(*entry[K, V])
	delete(c.entries, e.key)
	c.bytes -= e.size

	if c.config.OnEvict != nil {
		c.config.OnEvict(e.key, e.value)
	}
}

// ContentCache maps resource locations to their fetched content. It is
// safe for concurrent use and can be shared by many documents.
type ContentCache struct {
	cache Cache[string, []byte]
}

// NewContentCache creates a content cache; MaxBytes in config bounds the
// total cached payload.
func NewContentCache(config Config) *ContentCache {
	return &ContentCache{
		cache: NewSizedCache[string, []byte](config, func(b []byte) int64 { return int64(len(b)) }),
	}
}

// NewDefaultContentCache creates a content cache with default settings.
func NewDefaultContentCache() *ContentCache {
	cfg := DefaultConfig()
	cfg.MaxBytes = 64 << 20
	return NewContentCache(cfg)
}

// Get returns the cached content for location.
func (c *ContentCache) Get(location string) ([]byte, bool) {
	return c.cache.Get(location)
}

// Put caches content for location.
func (c *ContentCache) Put(location string, content []byte) {
	c.cache.Put(location, content)
}

// Remove drops location from the cache.
func (c *ContentCache) Remove(location string) {
	c.cache.Remove(location)
}

// Clear empties the cache.
func (c *ContentCache) Clear() {
	c.cache.Clear()
}

// Len returns the number of cached locations.
func (c *ContentCache) Len() int {
	return c.cache.Len()
}

// Stats returns cache statistics.
func (c *ContentCache) Stats() Stats {
	return c.cache.Stats()
}
