package recipe

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// optionalPrefix marks an argument declaration as optional in the document.
const optionalPrefix = "--"

// document mirrors the on-disk recipe layout. JSON recipes parse through the
// same path since JSON is a subset of YAML.
type document struct {
	Name             string      `yaml:"name"`
	ShortDescription string      `yaml:"short_description"`
	Description      string      `yaml:"description"`
	Preflights       []moduleDoc `yaml:"preflights"`
	Modules          []moduleDoc `yaml:"modules"`
	Args             [][]any     `yaml:"args"`
}

type moduleDoc struct {
	Name        string         `yaml:"name"`
	RuntimeName string         `yaml:"runtime_name"`
	Wants       []string       `yaml:"wants"`
	Args        map[string]any `yaml:"args"`
}

// Load reads and parses the recipe document at path.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes, schema-validates and model-validates a recipe document.
// The returned Recipe is fully validated: argument and runtime names are
// unique, every wants entry references a known module, and no module wants
// itself.
func Parse(data []byte) (*Recipe, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedError{Field: "document", Reason: err.Error()}
	}
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedError{Field: "document", Reason: err.Error()}
	}

	recipe := &Recipe{
		Name:             doc.Name,
		ShortDescription: doc.ShortDescription,
		Description:      doc.Description,
	}

	for i, tuple := range doc.Args {
		arg, err := parseArgumentTuple(i, tuple)
		if err != nil {
			return nil, err
		}
		recipe.Arguments = append(recipe.Arguments, arg)
	}

	recipe.Preflights = buildModuleSpecs(doc.Preflights)
	recipe.Modules = buildModuleSpecs(doc.Modules)

	if err := validateModel(recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// parseArgumentTuple turns one [name, description, default] entry into an
// Argument declaration, stripping the optional-flag prefix.
func parseArgumentTuple(index int, tuple []any) (Argument, error) {
	field := fmt.Sprintf("args[%d]", index)
	if len(tuple) != 3 {
		return Argument{}, &MalformedError{Field: field, Reason: "argument declarations must be [name, description, default] tuples"}
	}

	name, ok := tuple[0].(string)
	if !ok || name == "" {
		return Argument{}, &MalformedError{Field: field, Reason: "argument name must be a non-empty string"}
	}
	description, ok := tuple[1].(string)
	if !ok {
		return Argument{}, &MalformedError{Field: field, Reason: "argument description must be a string"}
	}

	optional := strings.HasPrefix(name, optionalPrefix)
	if optional {
		name = strings.TrimPrefix(name, optionalPrefix)
		if name == "" {
			return Argument{}, &MalformedError{Field: field, Reason: "argument name must not be empty after the optional prefix"}
		}
	}

	return Argument{
		Name:        name,
		Description: description,
		Default:     tuple[2],
		Optional:    optional,
	}, nil
}

func buildModuleSpecs(docs []moduleDoc) []ModuleSpec {
	specs := make([]ModuleSpec, 0, len(docs))
	for _, m := range docs {
		runtimeName := m.RuntimeName
		if runtimeName == "" {
			runtimeName = m.Name
		}
		args := m.Args
		if args == nil {
			args = map[string]any{}
		}
		specs = append(specs, ModuleSpec{
			Name:        m.Name,
			RuntimeName: runtimeName,
			Wants:       m.Wants,
			Args:        args,
		})
	}
	return specs
}
