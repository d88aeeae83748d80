package recipe

import "fmt"

// validateModel enforces the invariants the schema cannot express: name
// uniqueness, wants reference integrity and the absence of self-wants.
func validateModel(r *Recipe) error {
	seenArgs := make(map[string]struct{}, len(r.Arguments))
	for _, arg := range r.Arguments {
		if _, dup := seenArgs[arg.Name]; dup {
			return &MalformedError{Field: "args", Reason: fmt.Sprintf("duplicate argument name %q", arg.Name)}
		}
		seenArgs[arg.Name] = struct{}{}
	}

	// Runtime names must be unique across preflights and graph modules:
	// both are instantiated from the same pool.
	known := make(map[string]struct{}, len(r.Preflights)+len(r.Modules))
	for _, spec := range append(append([]ModuleSpec{}, r.Preflights...), r.Modules...) {
		if _, dup := known[spec.RuntimeName]; dup {
			return &MalformedError{Field: "modules", Reason: fmt.Sprintf("duplicate module runtime name %q", spec.RuntimeName)}
		}
		known[spec.RuntimeName] = struct{}{}
	}

	for _, spec := range r.Preflights {
		if len(spec.Wants) > 0 {
			return &MalformedError{Field: "preflights", Reason: fmt.Sprintf("preflight %q declares wants; preflights run sequentially and cannot have dependencies", spec.RuntimeName)}
		}
	}

	// Wants may only reference graph modules, not preflights.
	graphNames := make(map[string]struct{}, len(r.Modules))
	for _, spec := range r.Modules {
		graphNames[spec.RuntimeName] = struct{}{}
	}
	for _, spec := range r.Modules {
		for _, want := range spec.Wants {
			if want == spec.RuntimeName {
				return &MalformedError{Field: "modules", Reason: fmt.Sprintf("module %q wants itself", spec.RuntimeName)}
			}
			if _, ok := graphNames[want]; !ok {
				return &MalformedError{Field: "modules", Reason: fmt.Sprintf("module %q wants unknown module %q", spec.RuntimeName, want)}
			}
		}
	}

	return nil
}
