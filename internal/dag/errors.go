package dag

import (
	"fmt"
	"strings"
)

// CycleError reports a dependency cycle, listing the runtime names along
// the cycle with the entry node repeated at the end.
type CycleError struct {
	Path []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Path, " -> "))
}

// UnknownDependencyError reports a wants entry that references no module in
// the recipe.
type UnknownDependencyError struct {
	Module string
	Want   string
}

// Error implements the error interface.
func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("module %q wants unknown module %q", e.Module, e.Want)
}
