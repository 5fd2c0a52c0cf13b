package catalog

import "sync/atomic"

// Snapshot publishes the current catalog to concurrent readers. Readers take
// one catalog with Current and use it for a whole computation.
type Snapshot struct {
	ptr atomic.Pointer[Catalog]
}

func NewSnapshot(c *Catalog) *Snapshot {
	s := &Snapshot{}
	s.ptr.Store(c)
	return s
}

func (s *Snapshot) Current() *Catalog {
	return s.ptr.Load()
}

// Swap installs next and returns the catalog it replaced.
func (s *Snapshot) Swap(next *Catalog) *Catalog {
	return s.ptr.Swap(next)
}
