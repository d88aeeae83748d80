package recipe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRecipe = `
name: disk_triage
short_description: Collect and analyze disk artifacts.
description: |
  Copies the requested volumes and exports findings.
preflights:
  - name: SanityCheck
    args:
      project: "@project"
modules:
  - name: Collector
    runtime_name: collector-main
    wants: []
    args:
      volume_ids: "@volume_ids"
      all_volumes: "@all_volumes"
  - name: Analyzer
    wants: [collector-main]
    args:
      sketch: "@sketch_id"
args:
  - [project, "Cloud project to work in.", null]
  - [volume_ids, "Comma-separated volume IDs.", null]
  - [--all_volumes, "Copy all volumes instead.", false]
  - [--sketch_id, "Sketch to export to.", 1234]
`

func TestParse(t *testing.T) {
	r, err := Parse([]byte(sampleRecipe))
	require.NoError(t, err)

	assert.Equal(t, "disk_triage", r.Name)
	assert.Equal(t, "Collect and analyze disk artifacts.", r.ShortDescription)

	require.Len(t, r.Arguments, 4)
	assert.Equal(t, "project", r.Arguments[0].Name)
	assert.True(t, r.Arguments[0].Required())
	assert.Nil(t, r.Arguments[0].Default)

	allVolumes, ok := r.Argument("all_volumes")
	require.True(t, ok)
	assert.True(t, allVolumes.Optional)
	assert.Equal(t, false, allVolumes.Default)

	sketch, ok := r.Argument("sketch_id")
	require.True(t, ok)
	assert.Equal(t, 1234, sketch.Default)

	require.Len(t, r.Preflights, 1)
	assert.Equal(t, "SanityCheck", r.Preflights[0].RuntimeName)

	require.Len(t, r.Modules, 2)
	collector := r.Modules[0]
	assert.Equal(t, "Collector", collector.Name)
	assert.Equal(t, "collector-main", collector.RuntimeName)

	// runtime_name defaults to the module type name.
	analyzer := r.Modules[1]
	assert.Equal(t, "Analyzer", analyzer.RuntimeName)
	assert.Equal(t, []string{"collector-main"}, analyzer.Wants)
}

func TestParse_JSONDocument(t *testing.T) {
	// JSON is a subset of YAML and must parse through the same path.
	doc := `{"name": "minimal", "modules": [{"name": "Echo", "args": {"message": "hi"}}]}`
	r, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "minimal", r.Name)
	require.Len(t, r.Modules, 1)
	assert.Equal(t, "hi", r.Modules[0].Args["message"])
}

func TestParse_Malformed(t *testing.T) {
	cases := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{
			name:    "invalid yaml",
			doc:     "name: [unclosed",
			wantMsg: "malformed recipe",
		},
		{
			name:    "missing name",
			doc:     `{"modules": []}`,
			wantMsg: "name",
		},
		{
			name:    "unknown top-level field",
			doc:     `{"name": "x", "modules": [], "outputs": []}`,
			wantMsg: "malformed recipe",
		},
		{
			name:    "argument tuple too short",
			doc:     `{"name": "x", "modules": [], "args": [["only_name", "desc"]]}`,
			wantMsg: "malformed recipe",
		},
		{
			name:    "duplicate argument names",
			doc:     `{"name": "x", "modules": [], "args": [["a", "", null], ["--a", "", 1]]}`,
			wantMsg: `duplicate argument name "a"`,
		},
		{
			name: "duplicate runtime names",
			doc: `{"name": "x", "modules": [
				{"name": "Echo", "runtime_name": "e"},
				{"name": "Sleep", "runtime_name": "e"}]}`,
			wantMsg: `duplicate module runtime name "e"`,
		},
		{
			name:    "unknown wants reference",
			doc:     `{"name": "x", "modules": [{"name": "Echo", "wants": ["ghost"]}]}`,
			wantMsg: `unknown module "ghost"`,
		},
		{
			name:    "module wants itself",
			doc:     `{"name": "x", "modules": [{"name": "Echo", "wants": ["Echo"]}]}`,
			wantMsg: "wants itself",
		},
		{
			name: "preflight with wants",
			doc: `{"name": "x", "preflights": [{"name": "Check", "wants": ["Echo"]}],
				"modules": [{"name": "Echo"}]}`,
			wantMsg: "preflights run sequentially",
		},
		{
			name:    "wants may not reference a preflight",
			doc:     `{"name": "x", "preflights": [{"name": "Check"}], "modules": [{"name": "Echo", "wants": ["Check"]}]}`,
			wantMsg: `unknown module "Check"`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantMsg)
		})
	}
}

func TestParse_MalformedErrorType(t *testing.T) {
	_, err := Parse([]byte(`{"modules": []}`))
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.NotEmpty(t, malformed.Field)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleRecipe), 0o600))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "disk_triage", r.Name)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
