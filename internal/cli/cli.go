// Package cli translates command-line arguments into an app.Config. It is a
// thin collaborator: all orchestration semantics live in the engine
// packages; this layer only builds the invoker-provided argument mapping.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vk/orchid/internal/app"
)

// defaultsFile is probed when no -config flag is given.
const defaultsFile = "orchid.toml"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(arguments []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("orchid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Orchid - a recipe-driven module orchestration engine.

Usage:
  orchid [options] RECIPE_PATH [name=value ...]

Arguments:
  RECIPE_PATH
    Path to a recipe file (YAML or JSON).
  name=value
    Values for the recipe's declared arguments.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to a TOML defaults file. Defaults to ./orchid.toml when present.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 0, "Bound on concurrently running modules. 0 is unbounded.")
	timeoutFlag := flagSet.Duration("timeout", 0, "Per-run timeout, e.g. '30m'. 0 disables the timeout.")
	planFlag := flagSet.Bool("plan", false, "Print the execution plan and exit without running.")

	if err := flagSet.Parse(arguments); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}
	recipePath := flagSet.Arg(0)

	recipeArgs, err := parseArgumentPairs(flagSet.Args()[1:])
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	cfg := app.Config{
		RecipePath: recipePath,
		Arguments:  recipeArgs,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
		Workers:    *workersFlag,
		Timeout:    *timeoutFlag,
		PlanOnly:   *planFlag,
	}

	if err := applyDefaultsFile(flagSet, *configFlag, &cfg); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return config, false, nil
}

// parseArgumentPairs turns positional name=value pairs into the
// invoker-provided argument mapping consumed by the resolver.
func parseArgumentPairs(pairs []string) (map[string]string, error) {
	parsed := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid recipe argument %q: expected name=value", pair)
		}
		if _, dup := parsed[name]; dup {
			return nil, fmt.Errorf("recipe argument %q supplied more than once", name)
		}
		parsed[name] = value
	}
	return parsed, nil
}

// applyDefaultsFile overlays values from the TOML defaults file onto cfg
// for every setting the command line left untouched.
func applyDefaultsFile(flagSet *flag.FlagSet, path string, cfg *app.Config) error {
	explicit := path != ""
	if !explicit {
		path = defaultsFile
	}

	defaults, err := app.LoadDefaults(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return err
	}

	set := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["workers"] && defaults.Engine.Workers > 0 {
		cfg.Workers = defaults.Engine.Workers
	}
	if !set["timeout"] {
		timeout, err := defaults.ParsedTimeout()
		if err != nil {
			return err
		}
		if timeout > 0 {
			cfg.Timeout = timeout
		}
	}
	if !set["log-level"] && defaults.Log.Level != "" {
		cfg.LogLevel = defaults.Log.Level
	}
	if !set["log-format"] && defaults.Log.Format != "" {
		cfg.LogFormat = defaults.Log.Format
	}
	return nil
}
