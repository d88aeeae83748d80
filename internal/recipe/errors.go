package recipe

import "fmt"

// MalformedError reports a structural problem in a recipe document. It names
// the offending field so the invoker can fix the document; parsing never
// silently drops data.
type MalformedError struct {
	// Field is the document field the problem was found in.
	Field string
	// Reason describes the violation.
	Reason string
}

// Error implements the error interface.
func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed recipe: field %q: %s", e.Field, e.Reason)
}
