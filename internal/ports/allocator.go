package ports

import "fmt"

// PoolExhaustedError is returned by Allocate once the pool is empty. It
// aborts the compilation that hit it; no partial topology is emitted.
type PoolExhaustedError struct {
	// Size is the total number of distinct ports the pool started with,
	// all of which have been handed out.
	Size int
}

func (e *PoolExhaustedError) Error() string {
	return fmt.Sprintf("port pool exhausted after %d allocations", e.Size)
}

// Allocator hands out ports from a finite pool, each at most once. One
// allocator serves exactly one compilation pass.
type Allocator struct {
	pool []int
	next int
}

// NewAllocator copies the pool and returns a fresh allocator over it.
// Duplicate entries are dropped, keeping the first occurrence, so no two
// allocated roles can ever hold the same port value.
func NewAllocator(pool []int) *Allocator {
	seen := make(map[int]bool, len(pool))
	distinct := make([]int, 0, len(pool))
	for _, p := range pool {
		if !seen[p] {
			seen[p] = true
			distinct = append(distinct, p)
		}
	}
	return &Allocator{pool: distinct}
}

// Allocate returns the next unused port from the pool.
func (a *Allocator) Allocate() (int, error) {
	if a.next >= len(a.pool) {
		return 0, &PoolExhaustedError{Size: len(a.pool)}
	}
	p := a.pool[a.next]
	a.next++
	return p, nil
}

// Remaining returns how many ports are still available.
func (a *Allocator) Remaining() int {
	return len(a.pool) - a.next
}
