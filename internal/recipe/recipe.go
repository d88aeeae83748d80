// Package recipe defines the parsed, immutable model of a declarative
// pipeline and the loader that produces it from a YAML or JSON document.
package recipe

// Argument is one recipe-level argument declaration. Optional arguments are
// declared with a "--" prefix on their name in the recipe document; the
// prefix is stripped during parsing.
type Argument struct {
	// Name is the argument name, without any optional-flag prefix.
	Name string
	// Description is the human-readable description from the declaration.
	Description string
	// Default is the declared default value. Conventionally nil for
	// required arguments.
	Default any
	// Optional is true when the declaration carried the "--" prefix.
	Optional bool
}

// Required reports whether the invoker must supply a value for the argument.
func (a Argument) Required() bool {
	return !a.Optional
}

// ModuleSpec is one module entry of a recipe: which module type to run,
// under which runtime name, after which other modules, and with which raw
// (unresolved) arguments.
type ModuleSpec struct {
	// Name is the module type, resolved through the registry.
	Name string
	// RuntimeName is the instance name, unique within the recipe. It
	// defaults to Name, and lets one module type be instantiated several
	// times under different names.
	RuntimeName string
	// Wants lists the runtime names this module depends on.
	Wants []string
	// Args holds the raw argument bindings. Values may contain "@name"
	// placeholders bound to recipe-level arguments at resolution time.
	Args map[string]any
}

// Recipe is the parsed representation of a pipeline. It is immutable once
// parsed and owned by exactly one orchestration run.
type Recipe struct {
	Name             string
	ShortDescription string
	Description      string
	// Arguments preserves declaration order from the document.
	Arguments []Argument
	// Preflights run sequentially before any graph module is dispatched.
	Preflights []ModuleSpec
	// Modules preserves declaration order from the document.
	Modules []ModuleSpec
}

// Argument returns the declaration for the named argument, if present.
func (r *Recipe) Argument(name string) (Argument, bool) {
	for _, arg := range r.Arguments {
		if arg.Name == name {
			return arg, true
		}
	}
	return Argument{}, false
}

// Module returns the module spec with the given runtime name, searching
// preflights and graph modules alike.
func (r *Recipe) Module(runtimeName string) (ModuleSpec, bool) {
	for _, spec := range r.Preflights {
		if spec.RuntimeName == runtimeName {
			return spec, true
		}
	}
	for _, spec := range r.Modules {
		if spec.RuntimeName == runtimeName {
			return spec, true
		}
	}
	return ModuleSpec{}, false
}
