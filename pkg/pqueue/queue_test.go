package pqueue

import (
	"errors"
	"slices"
	"testing"
)

func byValue(values map[string]float64) func(a, b string) bool {
	return func(a, b string) bool { return values[a] < values[b] }
}

func TestNewInsertsInOrder(t *testing.T) {
	values := map[string]float64{"a": 3, "b": 1, "c": 2}
	q, err := New(byValue(values), "a", "b", "c")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if q.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", q.Len())
	}
	top, err := q.Peek()
	if err != nil || top != "b" {
		t.Errorf("Peek() = %q, %v, want b", top, err)
	}
	if err := q.Verify(); err != nil {
		t.Error(err)
	}
	if err := q.VerifyIndex(); err != nil {
		t.Error(err)
	}
}

func TestNewDuplicate(t *testing.T) {
	values := map[string]float64{"a": 1}
	if _, err := New(byValue(values), "a", "a"); !errors.Is(err, ErrDuplicateItem) {
		t.Errorf("New() error = %v, want ErrDuplicateItem", err)
	}
}

func TestPushThenPop(t *testing.T) {
	q, _ := New(byValue(map[string]float64{"x": 7}))
	if err := q.Push("x"); err != nil {
		t.Fatalf("Push() error: %v", err)
	}
	got, err := q.Pop()
	if err != nil {
		t.Fatalf("Pop() error: %v", err)
	}
	if got != "x" {
		t.Errorf("Pop() = %q, want x", got)
	}
	if !q.IsEmpty() {
		t.Error("queue should be empty")
	}
	if q.Contains("x") {
		t.Error("popped item should not be indexed")
	}
}

func TestPopEmpty(t *testing.T) {
	q, _ := New[int](func(a, b int) bool { return a < b })
	if _, err := q.Pop(); !errors.Is(err, ErrEmptyQueue) {
		t.Errorf("Pop() error = %v, want ErrEmptyQueue", err)
	}
	if _, err := q.Peek(); !errors.Is(err, ErrEmptyQueue) {
		t.Errorf("Peek() error = %v, want ErrEmptyQueue", err)
	}
}

func TestUnknownItem(t *testing.T) {
	q, _ := New[int](func(a, b int) bool { return a < b }, 1, 2)
	if err := q.DecreaseKey(9); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("DecreaseKey() error = %v, want ErrUnknownItem", err)
	}
	if err := q.IncreaseKey(9); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("IncreaseKey() error = %v, want ErrUnknownItem", err)
	}
}

func TestPopOrder(t *testing.T) {
	values := map[string]float64{"a": 5, "b": 4, "c": 3, "d": 2, "e": 1, "f": 0}
	q, _ := New(byValue(values), "a", "b", "c", "d", "e", "f")

	want := []string{"f", "e", "d", "c", "b", "a"}
	for _, w := range want {
		got, err := q.Pop()
		if err != nil {
			t.Fatalf("Pop() error: %v", err)
		}
		if got != w {
			t.Errorf("Pop() = %q, want %q", got, w)
		}
		if err := q.VerifyIndex(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDecreaseKeyMovesToRoot(t *testing.T) {
	values := map[string]float64{"a": 1, "b": 2, "c": 3, "d": 4, "e": 5}
	q, _ := New(byValue(values), "a", "b", "c", "d", "e")

	values["e"] = 0
	if err := q.DecreaseKey("e"); err != nil {
		t.Fatalf("DecreaseKey() error: %v", err)
	}
	if pos, _ := q.Position("e"); pos != 0 {
		t.Errorf("Position(e) = %d, want 0", pos)
	}
	if err := q.Verify(); err != nil {
		t.Error(err)
	}
}

func TestIncreaseKeyMovesDown(t *testing.T) {
	values := map[string]float64{"a": 1, "b": 2, "c": 3, "d": 4, "e": 5}
	q, _ := New(byValue(values), "a", "b", "c", "d", "e")

	values["a"] = 10
	if err := q.IncreaseKey("a"); err != nil {
		t.Fatalf("IncreaseKey() error: %v", err)
	}
	top, _ := q.Peek()
	if top != "b" {
		t.Errorf("Peek() = %q, want b", top)
	}
	if err := q.Verify(); err != nil {
		t.Error(err)
	}
	if err := q.VerifyIndex(); err != nil {
		t.Error(err)
	}
}

func TestPopPrefersRightOnlyWhenStrictlyLess(t *testing.T) {
	// root 0, left 1 and right 2 tie; the left child must be promoted.
	values := map[string]float64{"root": 0, "left": 1, "right": 1, "tail": 2}
	q, _ := New(byValue(values), "root", "left", "right", "tail")

	if _, err := q.Pop(); err != nil {
		t.Fatal(err)
	}
	top, _ := q.Peek()
	if top != "left" {
		t.Errorf("Peek() = %q, want left", top)
	}
}

func TestTiesDrainInPushOrder(t *testing.T) {
	values := map[int]float64{}
	q, _ := New[int](func(a, b int) bool { return values[a] < values[b] })
	for i := 0; i < 8; i++ {
		values[i] = 1
		_ = q.Push(i)
	}

	var got []int
	for !q.IsEmpty() {
		id, _ := q.Pop()
		got = append(got, id)
	}
	want := []int{0, 1, 2, 3, 4, 5, 6, 7}
	if !slices.Equal(got, want) {
		t.Errorf("drain order = %v, want %v", got, want)
	}
}

func TestDecreaseKeyIntoTieKeepsPushOrder(t *testing.T) {
	values := map[string]float64{"a": 1, "b": 1, "c": 5, "d": 1}
	q, _ := New(byValue(values), "a", "b", "c", "d")

	values["c"] = 1
	if err := q.DecreaseKey("c"); err != nil {
		t.Fatal(err)
	}

	var got []string
	for !q.IsEmpty() {
		id, _ := q.Pop()
		got = append(got, id)
	}
	want := []string{"a", "b", "c", "d"}
	if !slices.Equal(got, want) {
		t.Errorf("drain order = %v, want %v", got, want)
	}
}

func TestItemsIsCopy(t *testing.T) {
	q, _ := New[int](func(a, b int) bool { return a < b }, 3, 1, 2)
	items := q.Items()
	items[0] = 99
	if top, _ := q.Peek(); top != 1 {
		t.Errorf("Peek() = %d, want 1", top)
	}
}
