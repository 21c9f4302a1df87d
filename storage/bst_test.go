package storage

import (
	"math/rand"
	"sort"
	"testing"
)

func TestBST_InsertAndSearch(t *testing.T) {
	bst := NewBST(CompareValues)
	for _, k := range []int64{5, 3, 8, 1, 4} {
		bst.Insert(k, k*10)
	}

	if bst.Size() != 5 {
		t.Errorf("Size() = %d, want 5", bst.Size())
	}
	for _, k := range []int64{5, 3, 8, 1, 4} {
		got := bst.Search(k)
		if got != k*10 {
			t.Errorf("Search(%d) = %v, want %d", k, got, k*10)
		}
	}
	if got := bst.Search(int64(99)); got != nil {
		t.Errorf("Search(99) = %v, want nil", got)
	}
}

func TestBST_InOrderAscending(t *testing.T) {
	bst := NewBST(CompareValues)
	for _, k := range []int64{5, 3, 8, 1, 4} {
		bst.Insert(k, k)
	}

	got := bst.InOrder()
	want := []int64{1, 3, 4, 5, 8}
	if len(got) != len(want) {
		t.Fatalf("InOrder() returned %d elements, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("InOrder()[%d] = %v, want %d", i, got[i], w)
		}
	}
}

func TestBST_InsertDuplicateOverwrites(t *testing.T) {
	bst := NewBST(CompareValues)
	bst.Insert("dune", "first")
	bst.Insert("dune", "second")

	if bst.Size() != 1 {
		t.Errorf("Size() = %d, want 1 after duplicate insert", bst.Size())
	}
	if got := bst.Search("dune"); got != "second" {
		t.Errorf("Search(dune) = %v, want %q (most recent payload)", got, "second")
	}
}

func TestBST_SearchEmpty(t *testing.T) {
	bst := NewBST(CompareValues)
	if got := bst.Search(int64(1)); got != nil {
		t.Errorf("Search on empty tree = %v, want nil", got)
	}
	if got := bst.InOrder(); len(got) != 0 {
		t.Errorf("InOrder on empty tree = %v, want []", got)
	}
	if bst.Delete(int64(1)) {
		t.Error("Delete on empty tree should return false")
	}
}

func TestBST_Delete(t *testing.T) {
	bst := NewBST(CompareValues)
	for _, k := range []int64{10, 5, 15} {
		bst.Insert(k, k)
	}

	if !bst.Delete(int64(5)) {
		t.Fatal("Delete(5) should return true")
	}
	if bst.Size() != 2 {
		t.Errorf("Size() = %d, want 2 after delete", bst.Size())
	}
	if got := bst.Search(int64(5)); got != nil {
		t.Errorf("Search(5) after delete = %v, want nil", got)
	}
	if bst.Delete(int64(5)) {
		t.Error("second Delete(5) should return false")
	}
	if bst.Size() != 2 {
		t.Errorf("Size() = %d, want 2 after failed delete", bst.Size())
	}
}

func TestBST_DeleteTwoChildren(t *testing.T) {
	bst := NewBST(CompareValues)
	for _, k := range []int64{10, 5, 15, 12, 20} {
		bst.Insert(k, k)
	}

	if !bst.Delete(int64(10)) {
		t.Fatal("Delete(10) should return true")
	}
	// The deleted root is replaced by its in-order successor.
	if got := bst.root.key; got != int64(12) {
		t.Errorf("new root key = %v, want 12 (in-order successor)", got)
	}
	got := bst.InOrder()
	want := []int64{5, 12, 15, 20}
	if len(got) != len(want) {
		t.Fatalf("InOrder() returned %d elements, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("InOrder()[%d] = %v, want %d", i, got[i], w)
		}
	}
}

func TestBST_DeleteLeafAndSingleChild(t *testing.T) {
	bst := NewBST(CompareValues)
	for _, k := range []int64{10, 5, 15, 3} {
		bst.Insert(k, k)
	}

	// 3 is a leaf.
	if !bst.Delete(int64(3)) {
		t.Fatal("Delete(3) should return true")
	}
	// 5 now has no children; 15 has none either; delete 5 then give 15
	// a single child and delete it.
	if !bst.Delete(int64(5)) {
		t.Fatal("Delete(5) should return true")
	}
	bst.Insert(int64(20), int64(20))
	if !bst.Delete(int64(15)) {
		t.Fatal("Delete(15) should return true")
	}
	got := bst.InOrder()
	if len(got) != 2 || got[0] != int64(10) || got[1] != int64(20) {
		t.Errorf("InOrder() = %v, want [10 20]", got)
	}
}

func TestBST_SearchRange(t *testing.T) {
	bst := NewBST(CompareValues)
	for _, k := range []int64{5, 3, 8, 1, 4, 7, 9} {
		bst.Insert(k, k)
	}

	got := bst.SearchRange(int64(3), int64(7))
	want := []int64{3, 4, 5, 7}
	if len(got) != len(want) {
		t.Fatalf("SearchRange(3, 7) returned %d elements, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("SearchRange(3, 7)[%d] = %v, want %d", i, got[i], w)
		}
	}

	// Bounds are inclusive.
	got = bst.SearchRange(int64(1), int64(1))
	if len(got) != 1 || got[0] != int64(1) {
		t.Errorf("SearchRange(1, 1) = %v, want [1]", got)
	}

	// Empty range.
	got = bst.SearchRange(int64(100), int64(200))
	if len(got) != 0 {
		t.Errorf("SearchRange(100, 200) = %v, want []", got)
	}
}

func TestBST_SearchRangeMatchesInOrderSubset(t *testing.T) {
	bst := NewBST(CompareValues)
	rng := rand.New(rand.NewSource(42))
	keys := rng.Perm(200)
	for _, k := range keys {
		bst.Insert(int64(k), int64(k))
	}

	for _, bounds := range [][2]int64{{0, 199}, {50, 100}, {13, 13}, {150, 400}} {
		min, max := bounds[0], bounds[1]
		var want []int64
		for _, v := range bst.InOrder() {
			k := v.(int64)
			if k >= min && k <= max {
				want = append(want, k)
			}
		}
		got := bst.SearchRange(min, max)
		if len(got) != len(want) {
			t.Fatalf("SearchRange(%d, %d) returned %d elements, want %d", min, max, len(got), len(want))
		}
		for i, w := range want {
			if got[i] != w {
				t.Errorf("SearchRange(%d, %d)[%d] = %v, want %d", min, max, i, got[i], w)
			}
		}
	}
}

func TestBST_SearchPrefix(t *testing.T) {
	bst := NewBST(CompareValues)
	for _, k := range []string{"dune", "dracula", "dubliners", "emma", "hamlet"} {
		bst.Insert(k, k)
	}

	got := bst.SearchPrefix("du")
	want := []string{"dubliners", "dune"}
	if len(got) != len(want) {
		t.Fatalf("SearchPrefix(du) returned %d elements, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("SearchPrefix(du)[%d] = %v, want %q", i, got[i], w)
		}
	}

	if got := bst.SearchPrefix("zzz"); len(got) != 0 {
		t.Errorf("SearchPrefix(zzz) = %v, want []", got)
	}

	// Empty prefix matches everything, in key order.
	if got := bst.SearchPrefix(""); len(got) != 5 {
		t.Errorf("SearchPrefix(\"\") returned %d elements, want 5", len(got))
	}
}

func TestBST_SearchPrefixCompleteForStringKeys(t *testing.T) {
	// Adversarial insertion orders must not hide matches behind pruning.
	words := []string{
		"a", "ab", "abc", "abd", "ac", "b", "ba", "bab",
		"da", "db", "dune", "dunes", "duneland", "dup", "e",
	}
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 20; trial++ {
		bst := NewBST(CompareValues)
		perm := rng.Perm(len(words))
		for _, i := range perm {
			bst.Insert(words[i], words[i])
		}
		for _, prefix := range []string{"a", "ab", "b", "dune", "du", "x", ""} {
			var want []string
			for _, w := range words {
				if len(w) >= len(prefix) && w[:len(prefix)] == prefix {
					want = append(want, w)
				}
			}
			sort.Strings(want)
			got := bst.SearchPrefix(prefix)
			if len(got) != len(want) {
				t.Fatalf("trial %d: SearchPrefix(%q) returned %d elements, want %d (%v)",
					trial, prefix, len(got), len(want), got)
			}
			for i, w := range want {
				if got[i] != w {
					t.Errorf("trial %d: SearchPrefix(%q)[%d] = %v, want %q", trial, prefix, i, got[i], w)
				}
			}
		}
	}
}

func TestBST_InsertDeleteRoundTrip(t *testing.T) {
	bst := NewBST(CompareValues)
	rng := rand.New(rand.NewSource(1))
	keys := rng.Perm(500)
	for _, k := range keys {
		bst.Insert(int64(k), int64(k))
	}
	if bst.Size() != 500 {
		t.Fatalf("Size() = %d, want 500", bst.Size())
	}

	// Delete every third key; the rest must stay searchable and in order.
	deleted := make(map[int64]bool)
	for i := 0; i < 500; i += 3 {
		if !bst.Delete(int64(i)) {
			t.Fatalf("Delete(%d) should return true", i)
		}
		deleted[int64(i)] = true
	}
	if want := 500 - len(deleted); bst.Size() != want {
		t.Errorf("Size() = %d, want %d", bst.Size(), want)
	}

	prev := int64(-1)
	for _, v := range bst.InOrder() {
		k := v.(int64)
		if deleted[k] {
			t.Errorf("deleted key %d still present in traversal", k)
		}
		if k <= prev {
			t.Errorf("traversal not strictly ascending: %d after %d", k, prev)
		}
		prev = k
	}
	if got := len(bst.InOrder()); got != bst.Size() {
		t.Errorf("traversal length %d != Size() %d", got, bst.Size())
	}
}

func TestBST_SortedInsertionStillCorrect(t *testing.T) {
	// Worst case for an unbalanced tree: sorted insertion degrades to a
	// chain, but lookups must remain correct.
	bst := NewBST(CompareValues)
	const n = 500
	for i := int64(0); i < n; i++ {
		bst.Insert(i, i)
	}
	for i := int64(0); i < n; i++ {
		if got := bst.Search(i); got != i {
			t.Fatalf("Search(%d) = %v, want %d", i, got, i)
		}
	}
	if bst.Size() != n {
		t.Errorf("Size() = %d, want %d", bst.Size(), n)
	}
}
