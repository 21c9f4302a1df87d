// Package container provides the linear collections used by the catalog
// for per-entity histories and system-wide logs: a singly linked list, a
// LIFO stack, a FIFO ring-buffer queue, and a growable array.
package container

// List is a singly linked sequence. Append walks to the tail, so it is
// O(n); Find and Remove are O(n) linear scans using a caller-supplied
// key projection.
type List[T any] struct {
	head *listNode[T]
	size int
}

type listNode[T any] struct {
	data T
	next *listNode[T]
}

// NewList creates an empty list.
func NewList[T any]() *List[T] {
	return &List[T]{}
}

// Append adds data at the tail.
func (l *List[T]) Append(data T) {
	n := &listNode[T]{data: data}
	if l.head == nil {
		l.head = n
	} else {
		cur := l.head
		for cur.next != nil {
			cur = cur.next
		}
		cur.next = n
	}
	l.size++
}

// Find returns the first element whose projected key equals key.
// The second return value reports whether a match was found.
func (l *List[T]) Find(key any, keyOf func(T) any) (T, bool) {
	for cur := l.head; cur != nil; cur = cur.next {
		if keyOf(cur.data) == key {
			return cur.data, true
		}
	}
	var zero T
	return zero, false
}

// Remove deletes the first element whose projected key equals key.
// Returns false if no element matched.
func (l *List[T]) Remove(key any, keyOf func(T) any) bool {
	if l.head == nil {
		return false
	}
	if keyOf(l.head.data) == key {
		l.head = l.head.next
		l.size--
		return true
	}
	for cur := l.head; cur.next != nil; cur = cur.next {
		if keyOf(cur.next.data) == key {
			cur.next = cur.next.next
			l.size--
			return true
		}
	}
	return false
}

// Filter returns all elements for which match reports true, in list order.
func (l *List[T]) Filter(match func(T) bool) []T {
	var result []T
	for cur := l.head; cur != nil; cur = cur.next {
		if match(cur.data) {
			result = append(result, cur.data)
		}
	}
	return result
}

// ToSlice returns the elements in list order.
func (l *List[T]) ToSlice() []T {
	result := make([]T, 0, l.size)
	for cur := l.head; cur != nil; cur = cur.next {
		result = append(result, cur.data)
	}
	return result
}

// Len returns the number of elements.
func (l *List[T]) Len() int { return l.size }

// IsEmpty reports whether the list has no elements.
func (l *List[T]) IsEmpty() bool { return l.size == 0 }
