package pqueue_test

import (
	"fmt"

	"github.com/matzehuels/stoproute/pkg/pqueue"
)

func ExampleQueue_DecreaseKey() {
	// Priorities live outside the queue, keyed by item.
	dist := map[string]float64{"a": 4, "b": 2, "c": 9}
	q, _ := pqueue.New(func(x, y string) bool { return dist[x] < dist[y] }, "a", "b", "c")

	dist["c"] = 1
	_ = q.DecreaseKey("c")

	for !q.IsEmpty() {
		item, _ := q.Pop()
		fmt.Println(item, dist[item])
	}
	// Output:
	// c 1
	// b 2
	// a 4
}
