package model

const defaultRingCap = 60

// Ring is a fixed-size ring buffer.
// When the buffer is full, new pushes overwrite the oldest entry.
type Ring[T any] struct {
	buf  []T
	head int // index of the next write position
	size int // number of valid entries
}

// NewRing creates a Ring with the given capacity.
// If capacity <= 0, defaultRingCap (60) is used.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = defaultRingCap
	}
	return &Ring[T]{
		buf: make([]T, capacity),
	}
}

// Push appends v, overwriting the oldest entry if full.
func (r *Ring[T]) Push(v T) {
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
	if r.size < len(r.buf) {
		r.size++
	}
}

// Len returns the number of valid entries.
func (r *Ring[T]) Len() int {
	return r.size
}

// Cap returns the buffer capacity.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}

// Clear resets the ring to empty.
func (r *Ring[T]) Clear() {
	var zero T
	for i := range r.buf {
		r.buf[i] = zero
	}
	r.head = 0
	r.size = 0
}

// Items returns the entries in chronological order (oldest first).
func (r *Ring[T]) Items() []T {
	out := make([]T, r.size)
	// oldest entry sits at (head - size + cap) % cap
	start := (r.head - r.size + len(r.buf)) % len(r.buf)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

// Latest returns up to n entries, newest first.
func (r *Ring[T]) Latest(n int) []T {
	if n > r.size {
		n = r.size
	}
	if n <= 0 {
		return nil
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = r.buf[(r.head-1-i+2*len(r.buf))%len(r.buf)]
	}
	return out
}

// LatencySeconds projects poll history into a float series for sparklines.
func LatencySeconds(points []PollPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Latency.Seconds()
	}
	return out
}
