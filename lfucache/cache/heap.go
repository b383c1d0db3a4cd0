package cache

import "container/heap"

// priorityQueue implements heap.Interface over entry handles.
// The minimum is the eviction candidate: lowest frequency, then oldest recency.
type priorityQueue struct {
	arena *arena
	items []handle
}

func newPriorityQueue(a *arena, hint int) *priorityQueue {
	pq := &priorityQueue{
		arena: a,
		items: make([]handle, 0, hint),
	}
	heap.Init(pq)
	return pq
}

func (pq *priorityQueue) Len() int { return len(pq.items) }

func (pq *priorityQueue) Less(i, j int) bool {
	return pq.arena.at(pq.items[i]).Less(pq.arena.at(pq.items[j]))
}

func (pq *priorityQueue) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
	pq.arena.pos[pq.items[i]] = i
	pq.arena.pos[pq.items[j]] = j
}

func (pq *priorityQueue) Push(x interface{}) {
	h := x.(handle)
	pq.arena.pos[h] = len(pq.items)
	pq.items = append(pq.items, h)
}

func (pq *priorityQueue) Pop() interface{} {
	old := pq.items
	n := len(old)
	h := old[n-1]
	pq.items = old[0 : n-1]
	pq.arena.pos[h] = -1
	return h
}

// insert queues the entry behind h.
func (pq *priorityQueue) insert(h handle) {
	heap.Push(pq, h)
}

// remove takes h out of the queue from any position.
func (pq *priorityQueue) remove(h handle) {
	if i := pq.arena.pos[h]; i >= 0 {
		heap.Remove(pq, i)
	}
}

// fix restores heap order after the entry behind h changed its frequency or recency.
func (pq *priorityQueue) fix(h handle) {
	heap.Fix(pq, pq.arena.pos[h])
}

func (pq *priorityQueue) peekMin() (handle, bool) {
	if len(pq.items) == 0 {
		return 0, false
	}
	return pq.items[0], true
}

func (pq *priorityQueue) extractMin() (handle, bool) {
	if len(pq.items) == 0 {
		return 0, false
	}
	return heap.Pop(pq).(handle), true
}
