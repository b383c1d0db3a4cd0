package cache

import (
	"encoding/binary"
	"hash/fnv"
	"sync"

	"LFUCache/lfucache/interfaces"
)

// SyncCache 为 LFUCache 添加并发特性。
// Get mutates the eviction order, so every operation takes the one exclusive lock.
type SyncCache struct {
	mu  sync.Mutex // 互斥锁
	lfu *LFUCache
}

// ShardedCache 分片缓存, 由多个 SyncCache 组成, 不同的 goroutine 可以访问不同的分片。
// Eviction order is kept per shard.
type ShardedCache struct {
	shards []*SyncCache
}

// NewSyncCache creates a lock-guarded LFU cache.
func NewSyncCache(capacity int, opts ...Option) *SyncCache {
	return &SyncCache{lfu: NewLFUCache(capacity, opts...)}
}

// NewShardedCache splits capacity across numShards shards; the shard
// capacities sum to capacity. A positive capacity never yields a shard of
// capacity zero, so numShards is reduced to capacity when it is larger.
func NewShardedCache(numShards, capacity int, opts ...Option) *ShardedCache {
	if capacity < 0 {
		capacity = 0
	}
	if capacity > 0 && numShards > capacity {
		numShards = capacity
	}
	if numShards < 1 {
		numShards = 1
	}
	shards := make([]*SyncCache, numShards)
	per, rest := capacity/numShards, capacity%numShards
	for i := 0; i < numShards; i++ {
		n := per
		if i < rest {
			n++
		}
		shards[i] = NewSyncCache(n, opts...)
	}
	return &ShardedCache{shards: shards}
}

func (c *SyncCache) Get(key int) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lfu.Get(key)
}

func (c *SyncCache) GetOrAbsent(key int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lfu.GetOrAbsent(key)
}

func (c *SyncCache) Set(key, value int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lfu.Set(key, value)
}

func (c *SyncCache) Contains(key int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lfu.Contains(key)
}

func (c *SyncCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lfu.Len()
}

func (c *SyncCache) Cap() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lfu.Cap()
}

func (c *SyncCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lfu.Stats()
}

// GetShard 根据键计算对应的分片
func (s *ShardedCache) GetShard(key int) *SyncCache {
	return s.shards[s.GetShardID(key)]
}

// GetShardID 根据键计算对应的分片 ID
func (s *ShardedCache) GetShardID(key int) int {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(key))
	h := fnv.New32a()
	h.Write(buf[:])
	return int(h.Sum32() % uint32(len(s.shards)))
}

// NumShards returns the number of shards.
func (s *ShardedCache) NumShards() int {
	return len(s.shards)
}

func (s *ShardedCache) Get(key int) (int, bool) {
	return s.GetShard(key).Get(key)
}

// Set 向分片缓存中添加数据
func (s *ShardedCache) Set(key, value int) {
	s.GetShard(key).Set(key, value)
}

func (s *ShardedCache) Contains(key int) bool {
	return s.GetShard(key).Contains(key)
}

// Len sums the shard sizes; concurrent writers may make it stale.
func (s *ShardedCache) Len() int {
	n := 0
	for _, shard := range s.shards {
		n += shard.Len()
	}
	return n
}

func (s *ShardedCache) Stats() Stats {
	var st Stats
	for _, shard := range s.shards {
		ss := shard.Stats()
		st.Hits += ss.Hits
		st.Misses += ss.Misses
		st.Evictions += ss.Evictions
	}
	return st
}

var (
	_ interfaces.EvictionPolicy = (*LFUCache)(nil)
	_ interfaces.EvictionPolicy = (*SyncCache)(nil)
	_ interfaces.EvictionPolicy = (*ShardedCache)(nil)
)
