package pubsub

// ring is a fixed size FIFO queue.
type ring[T any] struct {
	buf  []T
	head int
	n    int
}

func newRing[T any](size int) *ring[T] {
	return &ring[T]{buf: make([]T, size)}
}

func (r *ring[T]) len() int {
	return r.n
}

func (r *ring[T]) full() bool {
	return r.n == len(r.buf)
}

// push appends v, overwriting the oldest value when full. It reports
// whether a value was overwritten.
func (r *ring[T]) push(v T) bool {
	tail := (r.head + r.n) % len(r.buf)
	r.buf[tail] = v
	if r.n == len(r.buf) {
		r.head = (r.head + 1) % len(r.buf)
		return true
	}
	r.n++
	return false
}

func (r *ring[T]) pop() (v T, ok bool) {
	if r.n == 0 {
		return v, false
	}
	v = r.buf[r.head]
	var zero T
	r.buf[r.head] = zero
	r.head = (r.head + 1) % len(r.buf)
	r.n--
	return v, true
}
