package cache

import "LFUCache/lfucache/data"

// handle 是条目在 arena 中的下标, 在条目被淘汰前保持不变。
type handle int

// arena owns every live entry; the index and the heap refer to entries by handle.
// pos[h] is the heap position of entries[h], -1 when not queued; only the
// priority queue writes it.
type arena struct {
	entries []data.Entry
	pos     []int
}

func newArena(hint int) *arena {
	return &arena{
		entries: make([]data.Entry, 0, hint),
		pos:     make([]int, 0, hint),
	}
}

func (a *arena) at(h handle) *data.Entry {
	return &a.entries[h]
}

// alloc stores e in a fresh slot.
func (a *arena) alloc(e data.Entry) handle {
	a.entries = append(a.entries, e)
	a.pos = append(a.pos, -1)
	return handle(len(a.entries) - 1)
}

// reuse overwrites the slot of an entry that has already left the heap.
func (a *arena) reuse(h handle, e data.Entry) {
	a.entries[h] = e
	a.pos[h] = -1
}

// index maps a key to the handle of its entry.
type index map[int]handle

func (ix index) contains(key int) bool {
	_, ok := ix[key]
	return ok
}

func (ix index) find(key int) (handle, bool) {
	h, ok := ix[key]
	return h, ok
}

func (ix index) insert(key int, h handle) {
	ix[key] = h
}

func (ix index) remove(key int) {
	delete(ix, key)
}
