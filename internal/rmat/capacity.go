package rmat

import "sync"

// CapacityGate is a counting semaphore bounding aggregate in-flight edges
// to a ceiling derived from the RAM budget. It backs the unsorted
// coordinator's dual-queue path: a producer that would push a batch past
// the ceiling waits for the writer to drain prior batches.
//
// The reference implementation's accumulate uses strict "<" against the
// ceiling, so a single batch at or above the ceiling can never be admitted
// and the producer deadlocks forever. This port closes that gap: a batch
// at or above the ceiling is admitted on its own once the gate is fully
// drained, rather than waiting on a condition that can never hold.
type CapacityGate struct {
	mu      sync.Mutex
	cond    *sync.Cond
	ceiling uint64
	current uint64
}

// NewCapacityGate returns a gate with the given ceiling and zero in-flight
// edges.
func NewCapacityGate(ceiling uint64) *CapacityGate {
	g := &CapacityGate{ceiling: ceiling}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Accumulate blocks until admitting n edges keeps the in-flight total
// strictly below the ceiling, then admits them. An n at or above the
// ceiling is admitted alone once the gate is empty, rather than blocking
// forever.
func (g *CapacityGate) Accumulate(n uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for {
		if g.current+n < g.ceiling {
			g.current += n
			return
		}
		if n >= g.ceiling && g.current == 0 {
			g.current = n
			return
		}
		g.cond.Wait()
	}
}

// Dissipate releases n previously accumulated edges and wakes all waiters.
func (g *CapacityGate) Dissipate(n uint64) {
	g.mu.Lock()
	g.current -= n
	g.mu.Unlock()
	g.cond.Broadcast()
}
