package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/stweave/stweave/internal/app"
	"github.com/stweave/stweave/internal/version"
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

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("stweave", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
stweave - analysis runs over spatial transcriptomics slides.

Usage:
  stweave [options] <command> [command options] [arguments]

Commands:
  init    Write a project file template for a set of slides.
  run     Train a project and save its artifacts.

Options:
`)
		flagSet.PrintDefaults()
	}

	debugFlag := flagSet.Bool("debug", false, "Verbose logging plus a stack dump on crashes.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	versionFlag := flagSet.Bool("version", false, "Print the version and exit.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if *versionFlag {
		fmt.Fprintf(output, "stweave %s\n", version.Version)
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	cfg := app.Config{
		Argv:      args,
		LogFormat: logFormat,
		Debug:     *debugFlag,
	}

	var err error
	switch rest[0] {
	case "init":
		err = parseInit(rest[1:], output, &cfg)
	case "run":
		err = parseRun(rest[1:], output, &cfg)
	default:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q (want 'init' or 'run')", rest[0])}
	}
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "command", config.Command)
	return config, false, nil
}

// parseInit handles `stweave init [options] [SLIDE ...]`.
func parseInit(args []string, output io.Writer, cfg *app.Config) error {
	flagSet := flag.NewFlagSet("stweave init", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Usage:
  stweave init [options] [SLIDE ...]

Writes a project file template. Slide arguments may be data files or
directories, which are scanned for .h5 files.

Options:
`)
		flagSet.PrintDefaults()
	}

	targetFlag := flagSet.String("target", "stweave.hcl", "Path of the project file to write.")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	cfg.Command = "init"
	cfg.Target = *targetFlag
	cfg.Slides = flagSet.Args()
	return nil
}

// parseRun handles `stweave run [options] PROJECT_FILE`.
func parseRun(args []string, output io.Writer, cfg *app.Config) error {
	flagSet := flag.NewFlagSet("stweave run", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Usage:
  stweave run [options] PROJECT_FILE

Trains the project and saves logs, the merged configuration, and session
checkpoints under the save path.

Options:
`)
		flagSet.PrintDefaults()
	}

	savePathFlag := flagSet.String("save-path", defaultSavePath(), "Directory for run artifacts.")
	sessionFlag := flagSet.String("session", "", "Path of a saved session document to restore.")
	monitorFlag := flagSet.String("monitor", "", "socket.io endpoint URL to stream log records to.")
	deviceFlag := flagSet.String("device", "", "Compute device for the run: cpu, cuda, or cuda:N.")
	seedFlag := flagSet.Int64("seed", 0, "Random seed for the run.")
	statusPortFlag := flagSet.Int("status-port", 0, "Port for the HTTP status server. 0 is disabled.")

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() == 0 {
		return fmt.Errorf("run: missing PROJECT_FILE argument")
	}
	if flagSet.NArg() > 1 {
		return fmt.Errorf("run: unexpected arguments after the project file: %s", strings.Join(flagSet.Args()[1:], " "))
	}

	cfg.Command = "run"
	cfg.ProjectFile = flagSet.Arg(0)
	cfg.SavePath = *savePathFlag
	cfg.SessionFile = *sessionFlag
	cfg.MonitorURL = *monitorFlag
	cfg.Device = *deviceFlag
	cfg.StatusPort = *statusPortFlag
	cfg.Seed = *seedFlag
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.SeedSet = true
		}
	})
	return nil
}

// defaultSavePath names a fresh artifact directory for this invocation. The
// timestamp avoids characters some filesystems reject.
func defaultSavePath() string {
	return fmt.Sprintf("stweave-%s", time.Now().Format("2006-01-02T15-04-05"))
}
