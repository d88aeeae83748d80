package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/orchid/internal/cli"
	"github.com/vk/orchid/internal/executor"
	"github.com/vk/orchid/internal/node"
	"github.com/vk/orchid/internal/state"
)

const echoRecipe = `
name: echo_twice
args:
  - [greeting, "Message to print.", null]
modules:
  - name: Echo
    runtime_name: first
    args:
      message: "@greeting"
  - name: Echo
    runtime_name: second
    wants: [first]
    args:
      message: "again"
`

func writeRecipe(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_Success(t *testing.T) {
	// Arrange
	var out bytes.Buffer
	recipePath := writeRecipe(t, echoRecipe)

	// Act
	err := run(&out, []string{"-log-level", "error", recipePath, "greeting=hello"})

	// Assert
	require.NoError(t, err)
	rendered := out.String()
	assert.Contains(t, rendered, "first")
	assert.Contains(t, rendered, "second")
	assert.Contains(t, rendered, "succeeded")
	assert.Contains(t, rendered, "finished: success")
}

func TestRun_MissingArgument(t *testing.T) {
	// Arrange
	var out bytes.Buffer
	recipePath := writeRecipe(t, echoRecipe)

	// Act
	err := run(&out, []string{"-log-level", "error", recipePath})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "greeting")
}

func TestRun_PlanOnly(t *testing.T) {
	// Arrange
	var out bytes.Buffer
	recipePath := writeRecipe(t, echoRecipe)

	// Act
	err := run(&out, []string{"-plan", "-log-level", "error", recipePath, "greeting=hi"})

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "first (Echo):")
	assert.NotContains(t, out.String(), "finished:")
}

func TestRun_UnknownModuleType(t *testing.T) {
	// Arrange
	var out bytes.Buffer
	recipePath := writeRecipe(t, `
name: broken
modules:
  - name: DoesNotExist
`)

	// Act
	err := run(&out, []string{"-log-level", "error", recipePath})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DoesNotExist")
}

func TestRun_UsageWithoutArguments(t *testing.T) {
	// Arrange
	var out bytes.Buffer

	// Act
	err := run(&out, nil)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_BadFlag(t *testing.T) {
	// Arrange
	var out bytes.Buffer

	// Act
	err := run(&out, []string{"-bogus"})

	// Assert
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestRun_FailedRunReturnsExitError(t *testing.T) {
	// Arrange: a Sleep with an invalid duration fails during SetUp.
	var out bytes.Buffer
	recipePath := writeRecipe(t, `
name: failing
modules:
  - name: Sleep
    args:
      duration: "not-a-duration"
`)

	// Act
	err := run(&out, []string{"-log-level", "error", recipePath})

	// Assert
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Contains(t, out.String(), "failed")
}

func TestRenderReport(t *testing.T) {
	report := &executor.Report{
		RunID:  "run-123",
		Status: executor.StatusPartialFailure,
		Results: []executor.ModuleResult{
			{RuntimeName: "check", TypeName: "SanityCheck", Preflight: true, State: node.Succeeded},
			{RuntimeName: "collector", TypeName: "Collector", State: node.Failed, Error: "copy failed"},
			{RuntimeName: "analyzer", TypeName: "Analyzer", State: node.Skipped, Error: `dependency "collector" did not succeed`},
			{RuntimeName: "exporter", TypeName: "Exporter", State: node.Succeeded},
		},
		Errors: []state.ModuleError{
			{Module: "collector", Kind: state.KindProcess, Message: "copy failed"},
			{Module: "analyzer", Kind: state.KindSkipped, Message: `dependency "collector" did not succeed`},
		},
	}

	rendered := renderReport(report)

	assert.Contains(t, rendered, "check (preflight)")
	assert.Contains(t, rendered, "failed")
	assert.Contains(t, rendered, "skipped")
	assert.Contains(t, rendered, "2 error(s) recorded:")
	assert.Contains(t, rendered, "Run run-123 finished: partial_failure")
}
