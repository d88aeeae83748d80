package args

import "fmt"

// MissingArgumentError reports a required recipe argument that received
// neither an invoker-provided value nor a declared default.
type MissingArgumentError struct {
	Name string
}

// Error implements the error interface.
func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("missing required argument %q", e.Name)
}

// UnknownReferenceError reports an "@identifier" placeholder whose
// identifier does not match any declared recipe argument.
type UnknownReferenceError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("unknown argument reference %q", "@"+e.Name)
}
