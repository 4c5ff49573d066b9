package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/loom/pkg/adapters/file"
	"github.com/lorekeep/loom/pkg/story"
)

const yamlGraph = `
nodes:
  - id: intro
    label: Intro
    content: "# A dark night"
    preconditions: []
    effects:
      - variableId: trust
        operation: set
        value: 0
    tags: [opening]
    hasChoice: false
  - id: gate
    label: The Gate
    preconditions:
      - variableId: trust
        operator: ">="
        value: 1
    effects: []
    tags: []
    hasChoice: true
edges:
  - id: e1
    source: intro
    target: gate
    kind: flow
    weight: 25
variables:
  - id: trust
    name: Trust
    kind: number
    defaultValue: 0
    currentValue: 0
pools: []
`

func TestLoader_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlGraph), 0o644))

	g, err := file.NewLoader(path).Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, g.Nodes, 2)
	assert.Len(t, g.Edges, 1)
	assert.Len(t, g.Variables, 1)

	gate, ok := g.NodeByID("gate")
	require.True(t, ok)
	require.Len(t, gate.Preconditions, 1)
	assert.Equal(t, story.OpGreaterEqual, gate.Preconditions[0].Operator)
	assert.True(t, gate.Preconditions[0].Value.Equal(story.Number(1)))

	intro, ok := g.NodeByID("intro")
	require.True(t, ok)
	require.Len(t, intro.Effects, 1)
	assert.Equal(t, story.EffectSet, intro.Effects[0].Operation)

	e, ok := g.EdgeByID("e1")
	require.True(t, ok)
	require.NotNil(t, e.Weight)
	assert.Equal(t, 25.0, *e.Weight)
}

func TestLoader_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	doc := `{
		"nodes": [{"id": "a", "label": "A", "preconditions": [], "effects": [], "tags": [], "hasChoice": false}],
		"edges": [],
		"variables": [{"id": "seen", "name": "Seen", "kind": "boolean", "defaultValue": false, "currentValue": true}],
		"pools": []
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	g, err := file.NewLoader(path).Load(context.Background())
	require.NoError(t, err)

	v, ok := g.VariableByID("seen")
	require.True(t, ok)
	assert.Equal(t, story.KindBool, v.Current.Kind())
	assert.True(t, v.Current.AsBool())
	assert.False(t, v.Default.AsBool())
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := file.NewLoader("/does/not/exist.yaml").Load(context.Background())
	assert.Error(t, err)
}

func TestLoader_DanglingReferencesStillLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.yaml")
	doc := `
nodes:
  - id: only
    label: Only
    preconditions: []
    effects: []
    tags: []
    hasChoice: false
edges:
  - id: broken
    source: only
    target: ghost
    kind: flow
variables: []
pools: []
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	g, err := file.NewLoader(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, g.Edges, 1)
	assert.Error(t, g.Validate())
}
