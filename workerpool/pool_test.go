package workerpool

import (
	"math/rand"
	"sort"
	"testing"
)

func TestForVisitsEveryIndex(t *testing.T) {
	p := New()
	seen := make([]bool, 137)
	p.For(len(seen), func(i int) { seen[i] = true })
	for i, v := range seen {
		if !v {
			t.Fatalf("index %d not visited", i)
		}
	}
}

func TestSortIndicesSingleWorker(t *testing.T) {
	p := NewSized(1)
	values := []int{5, 3, 4, 1, 2, 0}
	perm := SortIndices(p, len(values), func(a, b int) bool { return values[a] < values[b] })
	assertSorted(t, values, perm)
}

func TestSortIndicesMultiWorker(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	values := make([]int, 1000)
	for i := range values {
		values[i] = r.Intn(1 << 20)
	}
	p := NewSized(8)
	perm := SortIndices(p, len(values), func(a, b int) bool { return values[a] < values[b] })
	assertSorted(t, values, perm)
}

func assertSorted(t *testing.T, values []int, perm []int) {
	t.Helper()
	if len(perm) != len(values) {
		t.Fatalf("perm length = %d, want %d", len(perm), len(values))
	}
	sortedValues := make([]int, len(perm))
	for i, idx := range perm {
		sortedValues[i] = values[idx]
	}
	if !sort.IntsAreSorted(sortedValues) {
		t.Fatalf("result not sorted: %v", sortedValues)
	}
	seen := make([]bool, len(values))
	for _, idx := range perm {
		if seen[idx] {
			t.Fatalf("index %d appears twice in permutation", idx)
		}
		seen[idx] = true
	}
}
