package catalog

import "sync/atomic"

// Cache holds the compiled forest behind an atomic pointer. It is rebuilt
// after every catalog mutation and read on every login; readers observe
// either the previous forest or the fully compiled new one, never a partial
// tree.
type Cache struct {
	forest atomic.Value // []*Node
}

func NewCache() *Cache {
	c := &Cache{}
	c.forest.Store([]*Node{})
	return c
}

// Swap replaces the snapshot with a freshly compiled forest.
func (c *Cache) Swap(forest []*Node) {
	if forest == nil {
		forest = []*Node{}
	}
	c.forest.Store(forest)
}

// Forest returns the current snapshot. Callers must not mutate it.
func (c *Cache) Forest() []*Node {
	return c.forest.Load().([]*Node)
}

// AllowedPaths resolves the caller's permission codes against the snapshot.
func (c *Cache) AllowedPaths(codes []string) []string {
	return ResolveAllowedPaths(c.Forest(), codes)
}
