package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/patchgrid/internal/app"
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
	flagSet := flag.NewFlagSet("patchgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
patchgrid - Applies ordered regular-expression patches to source files.

Usage:
  patchgrid [options] [PATCH_PATH]

Arguments:
  PATCH_PATH
    Path to a single .hcl file or a directory containing .hcl files.
    Without it the built-in patch set is used.

Options:
`)
		flagSet.PrintDefaults()
	}

	patchesFlag := flagSet.String("patches", "", "Path to the patch file or directory.")
	pFlag := flagSet.String("p", "", "Path to the patch file or directory (shorthand).")
	rootFlag := flagSet.String("root", ".", "Directory that patch targets are resolved against.")
	onlyFlag := flagSet.String("only", "", "Comma-separated patch names to run, in declared order.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Print unified diffs instead of writing files.")
	strictFlag := flagSet.Bool("strict", false, "Fail a patch when one of its rules does not match.")
	backupFlag := flagSet.Bool("backup", false, "Keep a .orig copy of every file before overwriting it.")
	keepGoingFlag := flagSet.Bool("keep-going", false, "Continue with the next patch after a failure.")
	listFlag := flagSet.Bool("list", false, "List the loaded patches and exit.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	switch {
	case *patchesFlag != "":
		path = *patchesFlag
	case *pFlag != "":
		path = *pFlag
	case flagSet.NArg() > 0:
		path = flagSet.Arg(0)
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "only one PATCH_PATH may be given"}
	}
	slog.Debug("Patch path determined.", "path", path)

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
		PatchPath: path,
		Root:      *rootFlag,
		Only:      splitList(*onlyFlag),
		DryRun:    *dryRunFlag,
		Strict:    *strictFlag,
		Backup:    *backupFlag,
		KeepGoing: *keepGoingFlag,
		List:      *listFlag,
		LogFormat: logFormat,
		LogLevel:  logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
