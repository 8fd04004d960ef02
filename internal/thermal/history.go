package thermal

// ring is a bounded FIFO: Add overwrites the oldest entry once the buffer is
// full. Used for the persistence span buffer and the confidence history.
type ring[T any] struct {
	items    []T
	capacity int
	head     int // next write position
	size     int
}

func newRing[T any](capacity int) *ring[T] {
	return &ring[T]{
		items:    make([]T, capacity),
		capacity: capacity,
	}
}

// Add stores v, evicting the oldest entry when at capacity.
func (r *ring[T]) Add(v T) {
	r.items[r.head] = v
	r.head = (r.head + 1) % r.capacity
	if r.size < r.capacity {
		r.size++
	}
}

// Len returns the number of stored entries.
func (r *ring[T]) Len() int {
	return r.size
}

// Items returns the stored entries ordered oldest first.
func (r *ring[T]) Items() []T {
	out := make([]T, 0, r.size)
	start := (r.head - r.size + r.capacity) % r.capacity
	for i := 0; i < r.size; i++ {
		out = append(out, r.items[(start+i)%r.capacity])
	}
	return out
}

// Reset discards all entries.
func (r *ring[T]) Reset() {
	r.head = 0
	r.size = 0
}
