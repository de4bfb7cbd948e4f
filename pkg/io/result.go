package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/stoproute/pkg/termination"
)

// RunInfo describes the parameters of a solver run.
type RunInfo struct {
	RunID       string  `json:"run_id"`
	Variant     string  `json:"variant"`
	Probability float64 `json:"probability,omitempty"`
	Rate        float64 `json:"rate,omitempty"`
	SinkPolicy  string  `json:"sink_policy"`
}

type resultDoc[V any] struct {
	RunInfo
	ExpectedCost map[string]V        `json:"expected_cost"`
	Routes       []termination.Route `json:"routes"`
	Stationary   []string            `json:"stationary"`
	Unreached    []string            `json:"unreached,omitempty"`
	Stats        termination.Stats   `json:"stats"`
}

// WriteResult encodes res with its run parameters as indented JSON. Nodes
// the solver never reached are listed under "unreached".
func WriteResult[V any](w io.Writer, info RunInfo, res *termination.Result[V]) error {
	doc := resultDoc[V]{
		RunInfo:      info,
		ExpectedCost: res.ExpectedCost,
		Routes:       res.Routes,
		Stationary:   res.Stationary,
		Unreached:    res.NodesIn(termination.Far),
		Stats:        res.Stats,
	}
	if doc.Routes == nil {
		doc.Routes = []termination.Route{}
	}
	if doc.Stationary == nil {
		doc.Stationary = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
