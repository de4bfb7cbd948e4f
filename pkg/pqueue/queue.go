package pqueue

import "errors"

var (
	// ErrEmptyQueue is returned by [Queue.Pop] and [Queue.Peek] when the queue
	// holds no items.
	ErrEmptyQueue = errors.New("pop from empty queue")

	// ErrUnknownItem is returned by [Queue.DecreaseKey] and [Queue.IncreaseKey]
	// when the item is not in the queue.
	ErrUnknownItem = errors.New("item not in queue")

	// ErrDuplicateItem is returned by [Queue.Push] when the item is already
	// queued. An item occupies at most one heap position.
	ErrDuplicateItem = errors.New("item already in queue")
)

// Queue is an indexed min-heap of items ordered by an injected comparator.
//
// The zero value is not usable - use New to create a Queue.
type Queue[T comparable] struct {
	heap  []T
	index map[T]int         // item -> position in heap
	seq   map[T]uint64      // item -> push sequence, breaks ties
	next  uint64            // sequence of the next push
	less  func(a, b T) bool // strict order
}

// New creates a queue ordered by less and pushes items in order.
// Returns ErrDuplicateItem if items repeats an item.
func New[T comparable](less func(a, b T) bool, items ...T) (*Queue[T], error) {
	q := &Queue[T]{
		heap:  make([]T, 0, len(items)),
		index: make(map[T]int, len(items)),
		seq:   make(map[T]uint64, len(items)),
		less:  less,
	}
	for _, it := range items {
		if err := q.Push(it); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int { return len(q.heap) }

// IsEmpty reports whether the queue holds no items.
func (q *Queue[T]) IsEmpty() bool { return len(q.heap) == 0 }

// Contains reports whether item is queued.
func (q *Queue[T]) Contains(item T) bool {
	_, ok := q.index[item]
	return ok
}

// Position returns the heap position of item and true, or -1 and false if the
// item is not queued.
func (q *Queue[T]) Position(item T) (int, bool) {
	i, ok := q.index[item]
	if !ok {
		return -1, false
	}
	return i, true
}

// Push appends item and sifts it toward the root while it orders before its
// parent. Items that compare equal leave the queue in push order.
func (q *Queue[T]) Push(item T) error {
	if _, ok := q.index[item]; ok {
		return ErrDuplicateItem
	}
	q.seq[item] = q.next
	q.next++
	q.heap = append(q.heap, item)
	last := len(q.heap) - 1
	q.index[item] = last
	q.up(last)
	return nil
}

// Peek returns the minimum item without removing it.
func (q *Queue[T]) Peek() (T, error) {
	if len(q.heap) == 0 {
		var zero T
		return zero, ErrEmptyQueue
	}
	return q.heap[0], nil
}

// Pop removes and returns the minimum item. The last item takes the root
// position and sifts toward the leaves.
func (q *Queue[T]) Pop() (T, error) {
	if len(q.heap) == 0 {
		var zero T
		return zero, ErrEmptyQueue
	}
	top := q.heap[0]
	delete(q.index, top)
	delete(q.seq, top)

	n := len(q.heap) - 1
	if n == 0 {
		q.heap = q.heap[:0]
		return top, nil
	}

	last := q.heap[n]
	var zero T
	q.heap[n] = zero
	q.heap = q.heap[:n]
	q.heap[0] = last
	q.index[last] = 0
	q.down(0)
	return top, nil
}

// DecreaseKey restores heap order after the value behind item got smaller.
func (q *Queue[T]) DecreaseKey(item T) error {
	i, ok := q.index[item]
	if !ok {
		return ErrUnknownItem
	}
	q.up(i)
	return nil
}

// IncreaseKey restores heap order after the value behind item got larger.
func (q *Queue[T]) IncreaseKey(item T) error {
	i, ok := q.index[item]
	if !ok {
		return ErrUnknownItem
	}
	q.down(i)
	return nil
}

// Items returns a copy of the heap array in position order.
func (q *Queue[T]) Items() []T {
	out := make([]T, len(q.heap))
	copy(out, q.heap)
	return out
}

// before orders by the comparator, then by push sequence.
func (q *Queue[T]) before(i, j int) bool {
	a, b := q.heap[i], q.heap[j]
	if q.less(a, b) {
		return true
	}
	if q.less(b, a) {
		return false
	}
	return q.seq[a] < q.seq[b]
}

func (q *Queue[T]) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.before(i, parent) {
			break
		}
		q.swap(i, parent)
		i = parent
	}
}

func (q *Queue[T]) down(i int) {
	n := len(q.heap)
	for {
		left := 2*i + 1
		if left >= n {
			return
		}
		child := left
		if right := left + 1; right < n && q.before(right, left) {
			child = right
		}
		if !q.before(child, i) {
			return
		}
		q.swap(i, child)
		i = child
	}
}

func (q *Queue[T]) swap(i, j int) {
	q.heap[i], q.heap[j] = q.heap[j], q.heap[i]
	q.index[q.heap[i]] = i
	q.index[q.heap[j]] = j
}
