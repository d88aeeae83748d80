package executor

import (
	"github.com/vk/orchid/internal/node"
	"github.com/vk/orchid/internal/state"
)

// Status is the overall outcome of a run.
type Status string

const (
	// StatusSuccess means every module succeeded.
	StatusSuccess Status = "success"
	// StatusPartialFailure means some modules succeeded while others
	// failed or were skipped.
	StatusPartialFailure Status = "partial_failure"
	// StatusFailure means no module succeeded, or a preflight failure
	// prevented the graph from starting.
	StatusFailure Status = "failure"
)

// ModuleResult is one module's terminal outcome.
type ModuleResult struct {
	// RuntimeName is the module's instance name.
	RuntimeName string
	// TypeName is the module type.
	TypeName string
	// Preflight marks results belonging to preflight modules.
	Preflight bool
	// State is the terminal state the module reached.
	State node.State
	// Error is the failure or skip cause, empty for succeeded modules.
	Error string
}

// Report is the complete run outcome handed back to the invoker: overall
// status, every module's terminal state in declaration order, and the
// ordered error sequence accumulated in shared state. The invoker always
// receives a full report, even under partial failure.
type Report struct {
	RunID   string
	Status  Status
	Results []ModuleResult
	Errors  []state.ModuleError
}

// buildReport assembles the final report from the terminal node states.
// The overall status is computed over graph modules; preflights gate the
// run but do not count toward partial success.
func (e *Executor) buildReport() *Report {
	report := &Report{
		RunID:  e.st.RunID(),
		Errors: e.st.Errors(),
	}

	for _, n := range e.preflights {
		report.Results = append(report.Results, moduleResult(n, true))
	}

	succeeded, failed := 0, 0
	for _, n := range e.graph.Nodes() {
		report.Results = append(report.Results, moduleResult(n, false))
		if n.State() == node.Succeeded {
			succeeded++
		} else {
			failed++
		}
	}

	switch {
	case e.preflightFailed || (failed > 0 && succeeded == 0):
		report.Status = StatusFailure
	case failed > 0:
		report.Status = StatusPartialFailure
	default:
		report.Status = StatusSuccess
	}
	return report
}

func moduleResult(n *node.Node, preflight bool) ModuleResult {
	result := ModuleResult{
		RuntimeName: n.RuntimeName,
		TypeName:    n.TypeName,
		Preflight:   preflight,
		State:       n.State(),
	}
	if n.Err != nil {
		result.Error = n.Err.Error()
	}
	return result
}
