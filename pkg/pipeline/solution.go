package pipeline

import (
	"encoding/json"
	"fmt"
	"io"

	stio "github.com/matzehuels/stoproute/pkg/io"
	"github.com/matzehuels/stoproute/pkg/termination"
)

// Solution holds the result of one solver run. Exactly one of Scalar and
// Pair is set, depending on whether the variant is lexicographic.
type Solution struct {
	Variant string                                `json:"variant"`
	Scalar  *termination.Result[float64]          `json:"scalar,omitempty"`
	Pair    *termination.Result[termination.Pair] `json:"pair,omitempty"`
}

// Routes returns the routing decisions in finalization order.
func (s *Solution) Routes() []termination.Route {
	if s.Pair != nil {
		return s.Pair.Routes
	}
	return s.Scalar.Routes
}

// Stationary returns the accepted nodes without a successor.
func (s *Solution) Stationary() []string {
	if s.Pair != nil {
		return s.Pair.Stationary
	}
	return s.Scalar.Stationary
}

// Stats returns the solver counters.
func (s *Solution) Stats() termination.Stats {
	if s.Pair != nil {
		return s.Pair.Stats
	}
	return s.Scalar.Stats
}

// Unreached returns the nodes the solver never reached, sorted by ID.
func (s *Solution) Unreached() []string {
	if s.Pair != nil {
		return s.Pair.NodesIn(termination.Far)
	}
	return s.Scalar.NodesIn(termination.Far)
}

// Values returns the expected cost of every accepted node. For
// lexicographic variants this is the first component.
func (s *Solution) Values() map[string]float64 {
	if s.Scalar != nil {
		return s.Scalar.ExpectedCost
	}
	out := make(map[string]float64, len(s.Pair.ExpectedCost))
	for id, v := range s.Pair.ExpectedCost {
		out[id] = v[0]
	}
	return out
}

// WriteJSON writes the result file for this solution.
func (s *Solution) WriteJSON(w io.Writer, info stio.RunInfo) error {
	if s.Pair != nil {
		return stio.WriteResult(w, info, s.Pair)
	}
	return stio.WriteResult(w, info, s.Scalar)
}

func marshalSolution(s *Solution) ([]byte, error) {
	return json.Marshal(s)
}

func unmarshalSolution(data []byte) (*Solution, error) {
	var s Solution
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if (s.Scalar == nil) == (s.Pair == nil) {
		return nil, fmt.Errorf("solution must hold exactly one result")
	}
	return &s, nil
}
