package cache

import "LFUCache/lfucache/data"

// Absent is returned by GetOrAbsent when the key is not cached.
const Absent = -1

// maxPrealloc bounds the up-front allocation for very large capacities.
const maxPrealloc = 4096

// Stats holds the cache's operation counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Option configures an LFUCache.
type Option func(*LFUCache)

// WithOnEvicted registers a callback run once for every evicted entry,
// after the displacing Set has completed.
func WithOnEvicted(fn func(key, value int)) Option {
	return func(c *LFUCache) {
		c.onEvicted = fn
	}
}

// LFUCache 是一个 LFU 缓存, 频率相同时淘汰最久未访问的条目。非并发安全。
type LFUCache struct {
	capacity int    // 最大条目数
	clock    uint64 // 逻辑时钟, 每次访问加 1
	arena    *arena
	index    index
	queue    *priorityQueue
	stats    Stats

	onEvicted func(key, value int)
}

// NewLFUCache creates an LFUCache holding at most capacity entries.
// A capacity of zero or less yields a cache that never stores anything.
func NewLFUCache(capacity int, opts ...Option) *LFUCache {
	if capacity < 0 {
		capacity = 0
	}
	hint := capacity
	if hint > maxPrealloc {
		hint = maxPrealloc
	}
	a := newArena(hint)
	c := &LFUCache{
		capacity: capacity,
		arena:    a,
		index:    make(index, hint),
		queue:    newPriorityQueue(a, hint),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get looks up a key's value and counts the access.
func (c *LFUCache) Get(key int) (int, bool) {
	h, ok := c.index.find(key)
	if !ok {
		c.stats.Misses++
		return 0, false
	}
	c.stats.Hits++
	e := c.touch(h)
	return e.Value, true
}

// GetOrAbsent is Get with the miss reported as Absent.
// A stored value equal to Absent cannot be told apart from a miss; use Get
// when -1 is a legitimate value.
func (c *LFUCache) GetOrAbsent(key int) int {
	if v, ok := c.Get(key); ok {
		return v
	}
	return Absent
}

// Set stores value under key. An existing entry is updated in place and
// counts as an access; a new key at capacity first evicts the entry with the
// lowest frequency, the least recently used among ties.
func (c *LFUCache) Set(key, value int) {
	if c.capacity == 0 {
		return
	}

	if h, ok := c.index.find(key); ok {
		c.arena.at(h).Value = value
		c.touch(h)
		return
	}

	c.clock++
	e := data.Entry{Key: key, Value: value, Recency: c.clock}

	var (
		h       handle
		victim  data.Entry
		evicted bool
	)
	if len(c.index) >= c.capacity {
		h, evicted = c.queue.extractMin()
	}
	if evicted {
		victim = *c.arena.at(h)
		c.index.remove(victim.Key)
		c.stats.Evictions++
		c.arena.reuse(h, e)
	} else {
		h = c.arena.alloc(e)
	}
	c.index.insert(key, h)
	c.queue.insert(h)

	if evicted && c.onEvicted != nil {
		c.onEvicted(victim.Key, victim.Value)
	}
}

// Victim returns the key Set would evict next if the cache were full.
func (c *LFUCache) Victim() (int, bool) {
	h, ok := c.queue.peekMin()
	if !ok {
		return 0, false
	}
	return c.arena.at(h).Key, true
}

// Contains reports whether key is cached without counting an access.
func (c *LFUCache) Contains(key int) bool {
	return c.index.contains(key)
}

// Len returns the number of cache entries
func (c *LFUCache) Len() int {
	return len(c.index)
}

// Cap returns the fixed capacity.
func (c *LFUCache) Cap() int {
	return c.capacity
}

// Stats returns a snapshot of the counters.
func (c *LFUCache) Stats() Stats {
	return c.stats
}

// touch bumps frequency and recency of the entry behind h and re-homes it in the queue.
func (c *LFUCache) touch(h handle) *data.Entry {
	c.clock++
	e := c.arena.at(h)
	e.Touch(c.clock)
	c.queue.fix(h)
	return e
}
