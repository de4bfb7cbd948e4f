// Package termination computes expected-cost value functions and routing
// policies over a directed graph under a stochastic termination model.
//
// # Model
//
// Every node carries a terminal cost: the cost paid if the process is forced
// to stop there. A traveller moving along the graph is stopped at each step
// with probability p. The expected cost of a node is the smallest expected
// terminal cost achievable by choosing where to move next; the routing policy
// is the successor that achieves it, or no successor when the node is
// stationary.
//
// # Algorithm
//
// The solvers run a single Dijkstra-like sweep in backward direction:
//
//  1. Seed detection selects nodes whose cost already dominates every
//     successor ([LocalMinima], [LexicographicMinima]).
//  2. Seeds enter an indexed priority queue with expected cost equal to their
//     terminal cost.
//  3. The node with the smallest tentative expected cost is accepted, its
//     routing decision is emitted, and every predecessor that is not yet
//     accepted is relaxed with
//
//     candidate = p·cost(a) + (1-p)·expected(a)
//
//     or exactly cost(a) when expected(a) equals cost(a).
//
// Nodes never reached from a seed stay [Far] and have no expected cost.
//
// # Variants
//
//   - [Solve]: constant probability p.
//   - [SolveContinuous]: p = rate·weight(q→a) per edge.
//   - [SolveLexicographic]: two costs compared lexicographically, the
//     fixed-point shortcut applied on vector equality.
//   - [SolveLexicographicPerComponent]: as above, with the shortcut applied
//     to each component on its own.
//
// # Determinism
//
// Ties between equal expected costs are resolved by queue insertion order.
// Seeds are queued in graph node order and predecessors are relaxed in
// predecessor insertion order, so a given graph always yields the same
// routes.
package termination
