package dag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/orchid/internal/module"
	"github.com/vk/orchid/internal/node"
	"github.com/vk/orchid/internal/recipe"
	"github.com/vk/orchid/internal/registry"
	"github.com/vk/orchid/internal/state"
)

type noopModule struct{}

func (noopModule) SetUp(context.Context, module.Args, *state.State) error { return nil }
func (noopModule) Process(context.Context) error                          { return nil }
func (noopModule) CleanUp(context.Context) error                          { return nil }

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	reg.RegisterFactory("Noop", func(string) module.Module { return noopModule{} })
	return reg
}

func spec(typeName, runtimeName string, wants ...string) recipe.ModuleSpec {
	return recipe.ModuleSpec{
		Name:        typeName,
		RuntimeName: runtimeName,
		Wants:       wants,
		Args:        map[string]any{},
	}
}

func TestBuild(t *testing.T) {
	specs := []recipe.ModuleSpec{
		spec("Noop", "collector"),
		spec("Noop", "analyzer", "collector"),
		spec("Noop", "exporter", "collector", "analyzer"),
	}

	graph, err := Build(context.Background(), specs, testRegistry(t), nil)
	require.NoError(t, err)
	require.Equal(t, 3, graph.Len())

	collector, ok := graph.Node("collector")
	require.True(t, ok)
	analyzer, ok := graph.Node("analyzer")
	require.True(t, ok)
	exporter, ok := graph.Node("exporter")
	require.True(t, ok)

	assert.Equal(t, int32(0), collector.DepCount())
	assert.Equal(t, int32(1), analyzer.DepCount())
	assert.Equal(t, int32(2), exporter.DepCount())

	assert.ElementsMatch(t, []*node.Node{analyzer, exporter}, collector.Dependents)
	assert.Equal(t, []*node.Node{exporter}, analyzer.Dependents)
	assert.Empty(t, exporter.Dependents)

	// Nodes() preserves recipe declaration order.
	names := make([]string, 0, graph.Len())
	for _, n := range graph.Nodes() {
		names = append(names, n.RuntimeName)
	}
	assert.Equal(t, []string{"collector", "analyzer", "exporter"}, names)
}

func TestBuild_DuplicateWantsCollapse(t *testing.T) {
	specs := []recipe.ModuleSpec{
		spec("Noop", "a"),
		spec("Noop", "b", "a", "a"),
	}

	graph, err := Build(context.Background(), specs, testRegistry(t), nil)
	require.NoError(t, err)

	b, ok := graph.Node("b")
	require.True(t, ok)
	assert.Equal(t, int32(1), b.DepCount())
	assert.Len(t, b.Deps, 1)
}

func TestBuild_UnknownModuleType(t *testing.T) {
	_, err := Build(context.Background(), []recipe.ModuleSpec{
		spec("Ghost", "ghost"),
	}, testRegistry(t), nil)

	var unknown *registry.UnknownModuleTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Ghost", unknown.Name)
}

func TestBuild_UnknownDependency(t *testing.T) {
	_, err := Build(context.Background(), []recipe.ModuleSpec{
		spec("Noop", "a", "missing"),
	}, testRegistry(t), nil)

	var unknown *UnknownDependencyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "a", unknown.Module)
	assert.Equal(t, "missing", unknown.Want)
}

func TestBuild_SelfReference(t *testing.T) {
	_, err := Build(context.Background(), []recipe.ModuleSpec{
		spec("Noop", "a", "a"),
	}, testRegistry(t), nil)

	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"a", "a"}, cycle.Path)
}

func TestBuild_Cycle(t *testing.T) {
	_, err := Build(context.Background(), []recipe.ModuleSpec{
		spec("Noop", "a", "c"),
		spec("Noop", "b", "a"),
		spec("Noop", "c", "b"),
	}, testRegistry(t), nil)

	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	// The reported path starts and ends on the same node.
	require.GreaterOrEqual(t, len(cycle.Path), 4)
	assert.Equal(t, cycle.Path[0], cycle.Path[len(cycle.Path)-1])
	assert.ElementsMatch(t, []string{"a", "b", "c"}, cycle.Path[:len(cycle.Path)-1])
}

func TestBuild_CycleInLargerGraph(t *testing.T) {
	// An acyclic prefix must not mask a cycle further down.
	_, err := Build(context.Background(), []recipe.ModuleSpec{
		spec("Noop", "root"),
		spec("Noop", "x", "root", "y"),
		spec("Noop", "y", "x"),
	}, testRegistry(t), nil)

	var cycle *CycleError
	assert.ErrorAs(t, err, &cycle)
}

func TestBuild_ArgumentResolutionFailure(t *testing.T) {
	specs := []recipe.ModuleSpec{
		{
			Name:        "Noop",
			RuntimeName: "a",
			Args:        map[string]any{"value": "@undeclared"},
		},
	}

	_, err := Build(context.Background(), specs, testRegistry(t), map[string]cty.Value{})
	assert.ErrorContains(t, err, `module "a"`)
	assert.ErrorContains(t, err, "undeclared")
}

func TestInstantiate(t *testing.T) {
	bound := map[string]cty.Value{"project": cty.StringVal("p1")}

	n, err := Instantiate(recipe.ModuleSpec{
		Name:        "Noop",
		RuntimeName: "collector",
		Args:        map[string]any{"project": "@project"},
	}, testRegistry(t), bound)
	require.NoError(t, err)

	assert.Equal(t, "collector", n.RuntimeName)
	assert.Equal(t, "Noop", n.TypeName)
	assert.Equal(t, node.Pending, n.State())
	assert.True(t, cty.StringVal("p1").RawEquals(n.Args["project"]))
}
