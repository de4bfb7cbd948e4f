// Package pqueue provides an indexed binary min-heap over item identities.
//
// # Overview
//
// A [Queue] orders opaque, comparable items with a caller-supplied comparator.
// The comparator usually reads a value table owned by the caller, keyed by the
// same item identity, so the queue itself never stores priorities. When the
// caller changes an item's value it tells the queue which way the value moved:
//
//   - [Queue.DecreaseKey]: the value got smaller, sift the item toward the root
//   - [Queue.IncreaseKey]: the value got larger, sift the item toward the leaves
//
// Both run in O(log n) because the queue keeps an item → position index next
// to the heap array.
//
// # Heap Layout
//
// The heap is an implicit binary tree in a slice: position i is the parent of
// positions 2i+1 and 2i+2. After every operation:
//
//  1. heap[i] ≤ heap[2i+1] and heap[i] ≤ heap[2i+2] under the comparator,
//     with equal items ordered by push sequence
//  2. the index maps exactly the occupied positions, one item per position
//
// [Queue.Verify] and [Queue.VerifyIndex] check these two properties. They are
// meant for tests and debugging and are never called by the queue itself.
//
// # Construction
//
// [New] inserts the initial items one at a time with [Queue.Push] rather than
// running a bulk heapify, so the initial items get push sequences in
// argument order.
//
// # Ties
//
// Every push records a sequence number, used as the secondary key. Items
// that compare equal are popped in the order they were pushed. Changing an
// item's value with [Queue.DecreaseKey] keeps its original sequence.
//
// # Concurrency
//
// A Queue is not safe for concurrent use.
package pqueue
