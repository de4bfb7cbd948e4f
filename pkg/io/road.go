package io

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/stoproute/pkg/digraph"

	errs "github.com/matzehuels/stoproute/pkg/errors"
)

const maxRoadLine = 4 << 20

// recordID is an identifier that may be encoded as a JSON string or number.
type recordID string

func (id *recordID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = recordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number: %s", b)
	}
	*id = recordID(n.String())
	return nil
}

type ref struct {
	Primary   recordID `json:"primary"`
	Secondary recordID `json:"secondary"`
}

type geoPoint struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type road struct {
	ID         ref     `json:"id"`
	Start      ref     `json:"startNodeId"`
	End        ref     `json:"endNodeId"`
	Length     float64 `json:"length"`
	SpeedLimit float64 `json:"speedLimit"`
	Geom       struct {
		Points []geoPoint `json:"points"`
	} `json:"geom"`
}

// ReadRoadNetwork decodes one road record per line from r and builds the
// directed road graph.
//
// Each road becomes an edge from its start to its end intersection weighing
// length/speedLimit. A later road between the same intersections replaces the
// weight. Intersections are placed at the mean of the first point of every
// road leaving them and the last point of every road entering them. Roads
// that start and end at the same intersection are ignored. Blank lines are
// skipped.
func ReadRoadNetwork(r io.Reader) (*digraph.Digraph, error) {
	g := digraph.New(digraph.Metadata{"kind": "roads"})
	type acc struct {
		lon, lat float64
		n        int
	}
	positions := map[string]*acc{}
	touch := func(id string, p geoPoint) {
		a, ok := positions[id]
		if !ok {
			a = &acc{}
			positions[id] = a
		}
		a.lon += p.Lon
		a.lat += p.Lat
		a.n++
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxRoadLine)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var rd road
		if err := json.Unmarshal([]byte(text), &rd); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "line %d", line)
		}
		from, to := string(rd.Start.Primary), string(rd.End.Primary)
		if err := errs.ValidateNodeID(from); err != nil {
			return nil, fmt.Errorf("line %d start: %w", line, err)
		}
		if err := errs.ValidateNodeID(to); err != nil {
			return nil, fmt.Errorf("line %d end: %w", line, err)
		}
		if from == to {
			continue
		}
		if rd.SpeedLimit <= 0 || rd.Length < 0 {
			return nil, errs.New(errs.ErrCodeInvalidFormat,
				"line %d: road %s needs a positive speed limit and non-negative length", line, rd.ID.Primary)
		}
		if len(rd.Geom.Points) == 0 {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "line %d: road %s has no geometry", line, rd.ID.Primary)
		}

		if _, err := g.EnsureNode(from); err != nil {
			return nil, err
		}
		if _, err := g.EnsureNode(to); err != nil {
			return nil, err
		}
		if err := g.AddEdge(digraph.Edge{From: from, To: to, Weight: rd.Length / rd.SpeedLimit}); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		touch(from, rd.Geom.Points[0])
		touch(to, rd.Geom.Points[len(rd.Geom.Points)-1])
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "read road network")
	}

	for _, n := range g.Nodes() {
		a := positions[n.ID]
		n.Pos = &digraph.Point{X: a.lon / float64(a.n), Y: a.lat / float64(a.n)}
	}
	return g, nil
}

// ImportRoadNetwork reads a road network file at path.
func ImportRoadNetwork(path string) (*digraph.Digraph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadRoadNetwork(f)
}
