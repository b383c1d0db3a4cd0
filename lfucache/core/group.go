package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"golang.org/x/sync/singleflight"

	"LFUCache/lfucache/cache"
	"LFUCache/lfucache/interfaces"
)

// ErrLoad wraps every failure returned by a Group's Getter.
var ErrLoad = errors.New("load failed")

// A Group is a read-through front over an LFU cache.
// 缓存未命中时调用 getter 获取源数据, 并写回缓存。
type Group struct {
	name      string
	getter    interfaces.Getter // 缓存未命中时获取源数据的回调(callback)。
	maincache *cache.SyncCache
	// 使用 singleflight.Group 确保每个键同时只被加载一次
	loader singleflight.Group
}

// NewGroup create a new instance of Group
func NewGroup(name string, capacity int, getter interfaces.Getter, opts ...cache.Option) *Group {
	if getter == nil {
		panic("nil Getter")
	}
	return &Group{
		name:      name,
		getter:    getter,
		maincache: cache.NewSyncCache(capacity, opts...),
	}
}

// Name returns the group's name.
func (g *Group) Name() string {
	return g.name
}

// Get returns the value for key from the cache, loading it on a miss.
func (g *Group) Get(ctx context.Context, key int) (int, error) {
	if v, ok := g.maincache.Get(key); ok {
		log.Printf("[LFUCache] %s: cache hit for key %d", g.name, key)
		return v, nil
	}

	log.Printf("[LFUCache] %s: cache miss for key %d, loading...", g.name, key)
	return g.load(ctx, key)
}

// load 使用 g.loader.DoChan 包裹起来, 确保并发场景下针对相同的 key, getter 只会调用一次。
func (g *Group) load(ctx context.Context, key int) (int, error) {
	// 共享的加载不随单个调用方取消
	loadCtx := context.WithoutCancel(ctx)
	ch := g.loader.DoChan(strconv.Itoa(key), func() (interface{}, error) {
		return g.getLocally(loadCtx, key)
	})

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(int), nil
	}
}

// getLocally 调用用户回调函数 g.getter.Get() 获取源数据, 并添加到缓存中。
func (g *Group) getLocally(ctx context.Context, key int) (int, error) {
	v, err := g.getter.Get(ctx, key)
	if err != nil {
		log.Printf("[LFUCache] %s: failed to load key %d: %v", g.name, key, err)
		return 0, fmt.Errorf("%w: key %d: %w", ErrLoad, key, err)
	}
	g.populateCache(key, v)
	return v, nil
}

func (g *Group) populateCache(key, value int) {
	g.maincache.Set(key, value)
}

// Cache exposes the underlying cache, e.g. for metrics collection.
func (g *Group) Cache() *cache.SyncCache {
	return g.maincache
}
