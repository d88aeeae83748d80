package state

import "fmt"

// ErrorKind classifies how a module reached a failed or skipped outcome.
type ErrorKind string

const (
	// KindSetup marks a failure raised by a module's SetUp phase.
	KindSetup ErrorKind = "setup"
	// KindProcess marks a failure raised by a module's Process phase.
	KindProcess ErrorKind = "process"
	// KindCancelled marks a module stopped by run cancellation or timeout.
	KindCancelled ErrorKind = "cancelled"
	// KindSkipped marks a module that never ran because an ancestor failed.
	// It is recorded alongside true failures so the report can tell the two
	// apart.
	KindSkipped ErrorKind = "skipped"
)

// ModuleError records one module's failure or skip event.
type ModuleError struct {
	// Module is the runtime name of the module the error belongs to.
	Module string
	// Kind classifies the error.
	Kind ErrorKind
	// Message is the human-readable error text.
	Message string
}

// Error implements the error interface.
func (e ModuleError) Error() string {
	return fmt.Sprintf("module %s: %s: %s", e.Module, e.Kind, e.Message)
}
