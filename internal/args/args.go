// Package args binds recipe-level argument declarations to runtime values
// and substitutes "@name" placeholders inside module argument trees. All
// operations are pure: they can safely run before any module is
// instantiated, and resolving the same input twice yields identical output.
package args

import (
	"fmt"
	"regexp"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/orchid/internal/recipe"
)

// placeholderPattern matches a string that is exactly "@" followed by an
// identifier. Strings merely containing an "@" are literals and pass
// through untouched.
var placeholderPattern = regexp.MustCompile(`^@([A-Za-z_][A-Za-z0-9_]*)$`)

// Bind produces the bound argument mapping for a run: for every declared
// recipe argument the invoker-provided value wins, then the declared
// default, and a required argument with neither fails the run before any
// module starts. Provided values the recipe does not declare are ignored.
// No type coercion is performed beyond presence selection; a
// comma-separated string stays a string.
func Bind(r *recipe.Recipe, provided map[string]cty.Value) (map[string]cty.Value, error) {
	bound := make(map[string]cty.Value, len(r.Arguments))
	for _, arg := range r.Arguments {
		if value, ok := provided[arg.Name]; ok {
			bound[arg.Name] = value
			continue
		}
		if arg.Required() && arg.Default == nil {
			return nil, &MissingArgumentError{Name: arg.Name}
		}
		value, err := ToCty(arg.Default)
		if err != nil {
			return nil, fmt.Errorf("default for argument %q: %w", arg.Name, err)
		}
		bound[arg.Name] = value
	}
	return bound, nil
}

// Resolve substitutes every placeholder in a raw argument value, recursing
// through tuples and objects at any depth. Scalars that are not
// placeholders pass through unchanged.
func Resolve(raw any, bound map[string]cty.Value) (cty.Value, error) {
	value, err := ToCty(raw)
	if err != nil {
		return cty.NilVal, err
	}
	return cty.Transform(value, func(_ cty.Path, v cty.Value) (cty.Value, error) {
		if v.IsNull() || v.Type() != cty.String {
			return v, nil
		}
		name, ok := placeholderName(v.AsString())
		if !ok {
			return v, nil
		}
		substituted, ok := bound[name]
		if !ok {
			return cty.NilVal, &UnknownReferenceError{Name: name}
		}
		return substituted, nil
	})
}

// ResolveMap resolves every value of a module's raw argument mapping.
func ResolveMap(rawArgs map[string]any, bound map[string]cty.Value) (map[string]cty.Value, error) {
	resolved := make(map[string]cty.Value, len(rawArgs))
	for key, raw := range rawArgs {
		value, err := Resolve(raw, bound)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", key, err)
		}
		resolved[key] = value
	}
	return resolved, nil
}

func placeholderName(s string) (string, bool) {
	match := placeholderPattern.FindStringSubmatch(s)
	if match == nil {
		return "", false
	}
	return match[1], true
}
