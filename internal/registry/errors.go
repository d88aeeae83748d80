package registry

import "fmt"

// UnknownModuleTypeError reports a recipe module whose type name has no
// registered factory.
type UnknownModuleTypeError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownModuleTypeError) Error() string {
	return fmt.Sprintf("unknown module type %q", e.Name)
}
