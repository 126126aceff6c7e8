package bitmask

import "sync"

// maxPerKey bounds how many free masks are retained for a given word-count.
// Releases beyond this bound are dropped rather than grown without limit,
// since encode/decode is bursty and an unbounded freelist would just
// relocate the allocation churn it exists to avoid.
const maxPerKey = 64

// Pool hands out zeroed Masks keyed by word-count and accepts them back for
// reuse. Unlike a sync.Pool, a Pool here keeps an explicit bounded freelist
// per key: masks are not reclaimed by the GC between a burst of releases and
// the next acquire, which matters because encode/decode bursts are exactly
// when reuse pays off most.
//
// Safe for concurrent Acquire/Release from multiple goroutines.
type Pool struct {
	mu   sync.Mutex
	free map[int][]*Mask
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{free: make(map[int][]*Mask)}
}

// Acquire returns a zeroed mask with w words, reusing a freed instance if
// one is available for that key.
func (p *Pool) Acquire(w int) *Mask {
	p.mu.Lock()
	slot := p.free[w]
	var m *Mask
	if n := len(slot); n > 0 {
		m = slot[n-1]
		slot[n-1] = nil
		p.free[w] = slot[:n-1]
	}
	p.mu.Unlock()

	if m == nil {
		return NewMask(w)
	}
	return m
}

// Release zeroes m and returns it to the pool for its word-count. If the
// key's freelist is already at capacity, m is dropped to let the GC reclaim
// it instead of growing the freelist without bound.
func (p *Pool) Release(m *Mask) {
	if m == nil {
		return
	}
	m.Reset()

	w := m.Words()
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.free[w]) >= maxPerKey {
		return
	}
	p.free[w] = append(p.free[w], m)
}

// Occupancy returns the number of free masks currently held for each
// word-count key, for reporting pool occupancy as a metric.
func (p *Pool) Occupancy() map[int]int {
	p.mu.Lock()
	defer p.mu.Unlock()

	occ := make(map[int]int, len(p.free))
	for w, slot := range p.free {
		occ[w] = len(slot)
	}
	return occ
}

// defaultPool is the process-wide mask pool used by generated codec code
// that does not carry its own Pool reference.
var defaultPool = NewPool()

// Acquire returns a zeroed mask with w words from the default pool.
func Acquire(w int) *Mask { return defaultPool.Acquire(w) }

// Release returns m to the default pool.
func Release(m *Mask) { defaultPool.Release(m) }
