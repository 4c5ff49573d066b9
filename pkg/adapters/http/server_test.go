package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/lorekeep/loom/pkg/adapters/http"
	"github.com/lorekeep/loom/pkg/adapters/memory"
	"github.com/lorekeep/loom/pkg/analyze"
	"github.com/lorekeep/loom/pkg/session"
	"github.com/lorekeep/loom/pkg/story"
)

func testGraph() *story.Graph {
	return &story.Graph{
		Nodes: []story.Node{
			{ID: "s", Label: "Start"},
			{ID: "m", Label: "Middle", Effects: []story.Effect{
				{VariableID: "trust", Operation: story.EffectAdd, Value: story.Number(10)},
			}},
			{ID: "e", Label: "Ending"},
		},
		Edges: []story.Edge{
			{ID: "e1", Source: "s", Target: "m", Kind: story.EdgeFlow},
			{ID: "e2", Source: "m", Target: "e", Kind: story.EdgeFlow},
		},
		Variables: []story.Variable{
			{ID: "trust", Name: "Trust", Kind: story.KindNumber, Default: story.Number(0), Current: story.Number(0)},
		},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	handler := httpadapter.NewHandler(
		memory.NewLoader(testGraph()),
		session.NewManager(memory.NewStore()),
	)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, body any, out any) int {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestServer_Graph(t *testing.T) {
	srv := newTestServer(t)

	var g story.Graph
	code := getJSON(t, srv.URL+"/graph", &g)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, g.Nodes, 3)
	assert.Len(t, g.Edges, 2)
}

func TestServer_Category(t *testing.T) {
	srv := newTestServer(t)

	var resp map[string]story.Category
	getJSON(t, srv.URL+"/graph/nodes/s/category", &resp)
	assert.Equal(t, story.CategoryStart, resp["category"])

	getJSON(t, srv.URL+"/graph/nodes/e/category", &resp)
	assert.Equal(t, story.CategoryEnd, resp["category"])
}

func TestServer_Conflicts(t *testing.T) {
	srv := newTestServer(t)

	var conflicts []analyze.Conflict
	code := getJSON(t, srv.URL+"/graph/conflicts", &conflicts)
	assert.Equal(t, http.StatusOK, code)

	// The terminal scene is reported by the dead-end rule.
	require.Len(t, conflicts, 1)
	assert.Equal(t, analyze.KindDeadEnd, conflicts[0].Kind)
	assert.Equal(t, []string{"e"}, conflicts[0].NodeIDs)
}

func TestServer_RunLifecycle(t *testing.T) {
	srv := newTestServer(t)

	var run httpadapter.RunResponse
	code := postJSON(t, srv.URL+"/runs/r1/reset", struct{}{}, &run)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "s", run.State.CurrentNodeID)
	require.Len(t, run.Available, 1)
	assert.Equal(t, "e1", run.Available[0].ID)

	var step httpadapter.StepResponse
	code = postJSON(t, srv.URL+"/runs/r1/step", httpadapter.StepRequest{EdgeID: "e1"}, &step)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, step.Stepped)
	assert.Equal(t, "m", step.State.CurrentNodeID)
	require.Len(t, step.State.Variables, 1)
	assert.True(t, step.State.Variables[0].Current.Equal(story.Number(10)))

	// Bogus edge: not an error, just no advance.
	code = postJSON(t, srv.URL+"/runs/r1/step", httpadapter.StepRequest{EdgeID: "nope"}, &step)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, step.Stepped)
	assert.Equal(t, "m", step.State.CurrentNodeID)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/runs/r1", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestServer_StepUnknownRun(t *testing.T) {
	srv := newTestServer(t)

	code := postJSON(t, srv.URL+"/runs/ghost/step", httpadapter.StepRequest{EdgeID: "e1"}, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServer_EvalConditions(t *testing.T) {
	srv := newTestServer(t)

	req := httpadapter.EvalConditionsRequest{
		Conditions: []story.Condition{
			{VariableID: "trust", Operator: story.OpGreaterEqual, Value: story.Number(5)},
		},
		Variables: []story.Variable{
			{ID: "trust", Kind: story.KindNumber, Current: story.Number(7)},
		},
	}
	var resp map[string]bool
	code := postJSON(t, srv.URL+"/eval/conditions", req, &resp)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp["result"])
}
