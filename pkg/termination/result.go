package termination

import (
	"fmt"
	"slices"
)

// State is the solver state of a node.
type State uint8

const (
	// Far nodes have not been reached yet.
	Far State = iota
	// Considered nodes hold a tentative expected cost and sit in the queue.
	Considered
	// Accepted nodes hold their final expected cost.
	Accepted
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case Far:
		return "far"
	case Considered:
		return "considered"
	case Accepted:
		return "accepted"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a state name produced by MarshalText.
func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "far":
		*s = Far
	case "considered":
		*s = Considered
	case "accepted":
		*s = Accepted
	default:
		return fmt.Errorf("unknown state %q", b)
	}
	return nil
}

// Route is a routing decision: a traveller at From moves to To.
type Route struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Stats summarizes the work done by a solver run.
type Stats struct {
	Seeds        int `json:"seeds"`
	Accepted     int `json:"accepted"`
	Relaxations  int `json:"relaxations"`
	Pushes       int `json:"pushes"`
	DecreaseKeys int `json:"decrease_keys"`
}

// Result holds the output of a solver run. V is float64 for single-cost
// variants and [Pair] for the lexicographic ones.
type Result[V any] struct {
	// ExpectedCost holds the final value of every accepted node.
	ExpectedCost map[string]V `json:"expected_cost"`
	// Routes lists routing decisions in finalization order.
	Routes []Route `json:"routes"`
	// Stationary lists accepted nodes without a successor, in finalization order.
	Stationary []string `json:"stationary"`
	// Order lists all accepted nodes in finalization order.
	Order []string `json:"order"`
	// States holds the final state of every node.
	States map[string]State `json:"states"`
	Stats  Stats            `json:"stats"`
}

// Next returns the successor chosen for node, or "" and false if the node is
// stationary or was never accepted.
func (r *Result[V]) Next(node string) (string, bool) {
	for _, rt := range r.Routes {
		if rt.From == node {
			return rt.To, true
		}
	}
	return "", false
}

// NodesIn returns the nodes in state s, sorted by finalization order for
// accepted nodes and by ID otherwise.
func (r *Result[V]) NodesIn(s State) []string {
	if s == Accepted {
		return append([]string(nil), r.Order...)
	}
	var out []string
	for id, st := range r.States {
		if st == s {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}
