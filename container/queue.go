package container

// Queue is a FIFO queue backed by a ring buffer, giving O(1) enqueue
// and dequeue. The buffer doubles in size when full.
type Queue[T any] struct {
	buf  []T
	head int // index of the front element
	size int
}

const queueMinCap = 8

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Enqueue adds item at the tail.
func (q *Queue[T]) Enqueue(item T) {
	if q.size == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.size)%len(q.buf)] = item
	q.size++
}

// Dequeue removes and returns the front item. Returns false if the
// queue is empty.
func (q *Queue[T]) Dequeue() (T, bool) {
	if q.size == 0 {
		var zero T
		return zero, false
	}
	item := q.buf[q.head]
	var zero T
	q.buf[q.head] = zero // release reference
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return item, true
}

// Front returns the front item without removing it. Returns false if
// the queue is empty.
func (q *Queue[T]) Front() (T, bool) {
	if q.size == 0 {
		var zero T
		return zero, false
	}
	return q.buf[q.head], true
}

// ToSlice returns the elements front-to-back.
func (q *Queue[T]) ToSlice() []T {
	result := make([]T, q.size)
	for i := 0; i < q.size; i++ {
		result[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	return result
}

// Len returns the number of elements.
func (q *Queue[T]) Len() int { return q.size }

// IsEmpty reports whether the queue has no elements.
func (q *Queue[T]) IsEmpty() bool { return q.size == 0 }

func (q *Queue[T]) grow() {
	newCap := len(q.buf) * 2
	if newCap < queueMinCap {
		newCap = queueMinCap
	}
	newBuf := make([]T, newCap)
	for i := 0; i < q.size; i++ {
		newBuf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = newBuf
	q.head = 0
}
