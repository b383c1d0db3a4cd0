package interfaces

// EvictionPolicy is the surface shared by the LFU cache and its concurrent fronts.
type EvictionPolicy interface {
	Get(key int) (value int, ok bool)
	Set(key, value int)
	Contains(key int) bool
	Len() int
}
