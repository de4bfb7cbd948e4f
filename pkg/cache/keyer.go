package cache

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	// GraphKey identifies a loaded graph by the hash of its source.
	GraphKey(sourceHash string, opts GraphKeyOpts) string
	// SolveKey identifies a solver result.
	SolveKey(graphHash string, opts SolveKeyOpts) string
	// ArtifactKey identifies a rendered artifact of a result.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// GraphKeyOpts holds the load parameters that change the graph.
type GraphKeyOpts struct {
	Kind string `json:"kind"` // source format, e.g. "roads"
}

// SolveKeyOpts holds everything besides the graph that changes a result.
type SolveKeyOpts struct {
	CostHash       string  `json:"cost_hash"`
	Variant        string  `json:"variant"`
	Probability    float64 `json:"probability"`
	Rate           float64 `json:"rate"`
	SinkPolicy     string  `json:"sink_policy"`
	MaxRelaxations int     `json:"max_relaxations"`
}

// ArtifactKeyOpts holds the render parameters of an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Labels bool   `json:"labels"`
	Path   string `json:"path,omitempty"` // start node of a highlighted path
}

// DefaultKeyer hashes key inputs into "<kind>:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey implements Keyer.
func (DefaultKeyer) GraphKey(sourceHash string, opts GraphKeyOpts) string {
	return hashKey("graph", sourceHash, opts)
}

// SolveKey implements Keyer.
func (DefaultKeyer) SolveKey(graphHash string, opts SolveKeyOpts) string {
	return hashKey("solve", graphHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultHash, opts)
}
