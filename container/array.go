package container

import "fmt"

// OutOfRangeError is returned by indexed Array access outside [0, size).
// It indicates a caller logic error, not a data condition.
type OutOfRangeError struct {
	Index int
	Size  int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Size)
}

// Array is a growable array with O(1) indexed access and amortized O(1)
// append via capacity doubling. RemoveAt shifts subsequent elements left,
// so it is O(n).
type Array[T any] struct {
	data []T
	size int
}

const arrayInitialCap = 10

// NewArray creates an empty array with a small initial capacity.
func NewArray[T any]() *Array[T] {
	return &Array[T]{data: make([]T, arrayInitialCap)}
}

// Append adds item at the end, growing the backing store if full.
func (a *Array[T]) Append(item T) {
	if a.size >= len(a.data) {
		a.resize()
	}
	a.data[a.size] = item
	a.size++
}

// Get returns the element at index, or an OutOfRangeError.
func (a *Array[T]) Get(index int) (T, error) {
	if index < 0 || index >= a.size {
		var zero T
		return zero, &OutOfRangeError{Index: index, Size: a.size}
	}
	return a.data[index], nil
}

// Set replaces the element at index, or returns an OutOfRangeError.
func (a *Array[T]) Set(index int, item T) error {
	if index < 0 || index >= a.size {
		return &OutOfRangeError{Index: index, Size: a.size}
	}
	a.data[index] = item
	return nil
}

// RemoveAt deletes the element at index, compacting the remainder.
// Returns false if index is outside [0, size).
func (a *Array[T]) RemoveAt(index int) bool {
	if index < 0 || index >= a.size {
		return false
	}
	copy(a.data[index:], a.data[index+1:a.size])
	var zero T
	a.data[a.size-1] = zero // release reference
	a.size--
	return true
}

// FindIndex returns the index of the first element whose projected key
// equals that of item, or -1.
func (a *Array[T]) FindIndex(item T, keyOf func(T) any) int {
	for i := 0; i < a.size; i++ {
		if keyOf(a.data[i]) == keyOf(item) {
			return i
		}
	}
	return -1
}

// ToSlice returns the elements in insertion order.
func (a *Array[T]) ToSlice() []T {
	result := make([]T, a.size)
	copy(result, a.data[:a.size])
	return result
}

// Len returns the number of elements.
func (a *Array[T]) Len() int { return a.size }

// Cap returns the current capacity of the backing store.
func (a *Array[T]) Cap() int { return len(a.data) }

// IsEmpty reports whether the array has no elements.
func (a *Array[T]) IsEmpty() bool { return a.size == 0 }

func (a *Array[T]) resize() {
	newData := make([]T, len(a.data)*2)
	copy(newData, a.data[:a.size])
	a.data = newData
}
