package container

import (
	"errors"
	"testing"
)

func TestArray_AppendAndGet(t *testing.T) {
	a := NewArray[int]()
	for i := 0; i < 5; i++ {
		a.Append(i * 10)
	}

	for i := 0; i < 5; i++ {
		got, err := a.Get(i)
		if err != nil || got != i*10 {
			t.Errorf("Get(%d) = (%d, %v), want (%d, nil)", i, got, err, i*10)
		}
	}
	if a.Len() != 5 {
		t.Errorf("Len() = %d, want 5", a.Len())
	}
}

func TestArray_OutOfRange(t *testing.T) {
	a := NewArray[int]()
	a.Append(1)

	for _, idx := range []int{-1, 1, 99} {
		_, err := a.Get(idx)
		var oor *OutOfRangeError
		if !errors.As(err, &oor) {
			t.Errorf("Get(%d) error = %v, want OutOfRangeError", idx, err)
			continue
		}
		if oor.Index != idx || oor.Size != 1 {
			t.Errorf("Get(%d) error = %v, want index %d size 1", idx, oor, idx)
		}
		if err := a.Set(idx, 5); !errors.As(err, &oor) {
			t.Errorf("Set(%d) error = %v, want OutOfRangeError", idx, err)
		}
	}
}

func TestArray_Set(t *testing.T) {
	a := NewArray[string]()
	a.Append("old")
	if err := a.Set(0, "new"); err != nil {
		t.Fatalf("Set(0) error = %v", err)
	}
	got, _ := a.Get(0)
	if got != "new" {
		t.Errorf("Get(0) = %q, want %q", got, "new")
	}
}

func TestArray_CapacityDoubling(t *testing.T) {
	a := NewArray[int]()
	initialCap := a.Cap()
	for i := 0; i <= initialCap; i++ {
		a.Append(i)
	}
	if a.Cap() != initialCap*2 {
		t.Errorf("Cap() = %d after overflow, want %d", a.Cap(), initialCap*2)
	}
	// All elements survive the resize.
	for i := 0; i <= initialCap; i++ {
		got, err := a.Get(i)
		if err != nil || got != i {
			t.Errorf("Get(%d) = (%d, %v), want (%d, nil)", i, got, err, i)
		}
	}
}

func TestArray_RemoveAt(t *testing.T) {
	a := NewArray[int]()
	for i := 0; i < 5; i++ {
		a.Append(i)
	}

	if !a.RemoveAt(1) {
		t.Fatal("RemoveAt(1) should return true")
	}
	got := a.ToSlice()
	want := []int{0, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("ToSlice() returned %d elements, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("ToSlice()[%d] = %d, want %d (left-shifted)", i, got[i], w)
		}
	}

	if a.RemoveAt(99) {
		t.Error("RemoveAt(99) should return false")
	}
	if a.RemoveAt(-1) {
		t.Error("RemoveAt(-1) should return false")
	}
}

func TestArray_FindIndex(t *testing.T) {
	type loan struct{ user, isbn string }
	a := NewArray[loan]()
	a.Append(loan{"U1", "a"})
	a.Append(loan{"U2", "b"})

	keyOf := func(l loan) any { return l.user + "|" + l.isbn }
	if got := a.FindIndex(loan{"U2", "b"}, keyOf); got != 1 {
		t.Errorf("FindIndex = %d, want 1", got)
	}
	if got := a.FindIndex(loan{"U3", "c"}, keyOf); got != -1 {
		t.Errorf("FindIndex of absent = %d, want -1", got)
	}
}
