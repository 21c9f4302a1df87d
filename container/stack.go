package container

// Stack is a LIFO stack backed by a slice. Push, Pop and Peek are
// amortized O(1).
type Stack[T any] struct {
	items []T
}

// NewStack creates an empty stack.
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// Push adds item on top of the stack.
func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes and returns the top item. Returns false if the stack
// is empty.
func (s *Stack[T]) Pop() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	top := s.items[len(s.items)-1]
	var zero T
	s.items[len(s.items)-1] = zero // release reference
	s.items = s.items[:len(s.items)-1]
	return top, true
}

// Peek returns the top item without removing it. Returns false if the
// stack is empty.
func (s *Stack[T]) Peek() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// ToSlice returns the elements most-recent-first.
func (s *Stack[T]) ToSlice() []T {
	result := make([]T, len(s.items))
	for i, item := range s.items {
		result[len(s.items)-1-i] = item
	}
	return result
}

// Len returns the number of elements.
func (s *Stack[T]) Len() int { return len(s.items) }

// IsEmpty reports whether the stack has no elements.
func (s *Stack[T]) IsEmpty() bool { return len(s.items) == 0 }
