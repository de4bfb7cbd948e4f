package pqueue

import "fmt"

// Verify checks the heap order: no child orders before its parent, either
// under the comparator or, on ties, by push sequence. It returns an error
// describing the first violation found.
func (q *Queue[T]) Verify() error {
	n := len(q.heap)
	for i := 0; 2*i+1 < n; i++ {
		for _, c := range [2]int{2*i + 1, 2*i + 2} {
			if c < n && q.before(c, i) {
				return fmt.Errorf("heap order violated: position %d (%v) less than parent %d (%v)",
					c, q.heap[c], i, q.heap[i])
			}
		}
	}
	return nil
}

// VerifyIndex checks that the item index is a bijection onto the occupied heap
// positions.
func (q *Queue[T]) VerifyIndex() error {
	if len(q.index) != len(q.heap) || len(q.seq) != len(q.heap) {
		return fmt.Errorf("index size %d, sequence size %d, heap size %d", len(q.index), len(q.seq), len(q.heap))
	}
	for item, pos := range q.index {
		if pos < 0 || pos >= len(q.heap) {
			return fmt.Errorf("item %v indexed at %d, outside heap of size %d", item, pos, len(q.heap))
		}
		if q.heap[pos] != item {
			return fmt.Errorf("item %v indexed at %d, heap holds %v", item, pos, q.heap[pos])
		}
	}
	return nil
}
