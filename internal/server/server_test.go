package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stoproute/pkg/cache"
	errs "github.com/matzehuels/stoproute/pkg/errors"
	"github.com/matzehuels/stoproute/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewNullCache(), cache.NewDefaultKeyer(), logger)
	ts := httptest.NewServer(New(runner, logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestSolveInlineGraph(t *testing.T) {
	ts := newTestServer(t)

	body := `{
		"options": {"variant": "constant", "probability": 0.5},
		"graph": {
			"nodes": [
				{"id": "A", "cost": 20},
				{"id": "B", "cost": 10},
				{"id": "C", "cost": 0}
			],
			"edges": [
				{"from": "A", "to": "B"},
				{"from": "B", "to": "C"}
			]
		}
	}`
	resp := post(t, ts.URL+"/v1/solve", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("X-Run-ID"))

	var doc struct {
		RunID        string             `json:"run_id"`
		ExpectedCost map[string]float64 `json:"expected_cost"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, resp.Header.Get("X-Run-ID"), doc.RunID)
	assert.InDelta(t, 5.0, doc.ExpectedCost["A"], 1e-12)
	assert.InDelta(t, 0.0, doc.ExpectedCost["B"], 1e-12)
	assert.InDelta(t, 0.0, doc.ExpectedCost["C"], 1e-12)
}

func TestSolveGridDOT(t *testing.T) {
	ts := newTestServer(t)

	body := `{"options": {"cols": 3, "rows": 3, "callers": ["0,0"]}}`
	resp := post(t, ts.URL+"/v1/solve?format=dot", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/vnd.graphviz", resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "digraph"))
}

func TestSolveErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   string
	}{
		{"malformed", "", `{"options":`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown option", "", `{"options": {"colz": 3}}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"file source", "", `{"options": {"graph": "/etc/passwd"}}`, http.StatusUnprocessableEntity, "UNSUPPORTED"},
		{"bad variant", "", `{"options": {"cols": 2, "rows": 2, "callers": ["0,0"], "variant": "nope"}}`, http.StatusBadRequest, "INVALID_VARIANT"},
		{"bad format", "?format=gif", `{"options": {"cols": 2, "rows": 2, "callers": ["0,0"]}}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown caller", "", `{"options": {"cols": 2, "rows": 2, "callers": ["9,9"]}}`, http.StatusNotFound, "NODE_NOT_FOUND"},
		{"oversized grid", "", `{"options": {"cols": 1000000, "rows": 1000000, "callers": ["0,0"]}}`, http.StatusUnprocessableEntity, "LIMIT_EXCEEDED"},
		{"relaxation limit", "", `{"options": {"cols": 3, "rows": 3, "callers": ["0,0"], "max_relaxations": 1}}`, http.StatusUnprocessableEntity, "LIMIT_EXCEEDED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/solve"+tt.query, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, string(body.Code))
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(""))
	assert.Equal(t, http.StatusBadRequest, statusFor("INVALID_PROBABILITY"))
	assert.Equal(t, http.StatusNotFound, statusFor("NODE_NOT_FOUND"))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor("LIMIT_EXCEEDED"))
}

func TestWriteErrorBodyTooLarge(t *testing.T) {
	s := New(nil, log.New(io.Discard))
	err := errs.Wrap(errs.ErrCodeInvalidFormat, &http.MaxBytesError{Limit: MaxBodyBytes}, "decode request")

	rec := httptest.NewRecorder()
	s.writeError(rec, httptest.NewRequest(http.MethodPost, "/v1/solve", nil), err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var got errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "LIMIT_EXCEEDED", string(got.Code))
}
