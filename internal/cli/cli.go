package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/javelin/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("javelin", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Javelin - Build directive-annotated Java sources into runnable jars.

Usage:
  javelin [options] [SCRIPT]

Arguments:
  SCRIPT
    Path or URL of the source file, or '-' to read it from stdin.

Options:
`)
		flagSet.PrintDefaults()
	}

	mainFlag := flagSet.String("main", "", "Entry-point class to use, skipping discovery.")
	mFlag := flagSet.String("m", "", "Entry-point class to use (shorthand).")
	javaFlag := flagSet.String("java", "", "JDK version to build with, a number optionally followed by '+'.")
	depsFlag := flagSet.String("deps", "", "Additional dependencies to add, comma-separated group:artifact:version coordinates.")
	freshFlag := flagSet.Bool("fresh", false, "Force a rebuild even when a cached artifact is still usable.")
	nativeFlag := flagSet.Bool("native", false, "Also produce a native executable from the built jar.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Script path determined.", "path", path)

	if path == "" {
		slog.Debug("No script path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	mainClass := *mainFlag
	if mainClass == "" {
		mainClass = *mFlag
	}

	var extraDeps []string
	for _, dep := range strings.Split(*depsFlag, ",") {
		if dep = strings.TrimSpace(dep); dep != "" {
			extraDeps = append(extraDeps, dep)
		}
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
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ScriptPath:  path,
		Fresh:       *freshFlag,
		Native:      *nativeFlag,
		MainClass:   mainClass,
		JavaVersion: *javaFlag,
		ExtraDeps:   extraDeps,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
