package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qaforge/reqtrace/internal/engine"
	"github.com/qaforge/reqtrace/internal/module"
	"github.com/qaforge/reqtrace/internal/report"
	"github.com/qaforge/reqtrace/internal/result"
	"github.com/qaforge/reqtrace/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	ConfigPath string
	SuitePath  string
	Database   string
	Export     string
	OutDir     string

	// TokenGenerator allows overriding the run token generator (for
	// testing). If nil, defaults to UUIDv7Generator.
	TokenGenerator engine.TokenGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions, factories FactoryResolver) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute all suite modules and report traceability",
		Long: `Execute every module declared in the suite manifest, sequentially and
fault-isolated, then derive requirement coverage, gaps, recommendations,
and the traceability matrix.

Exit codes:
  0 - Run completed, every executed module passed
  1 - Run completed, but at least one module failed or errored
  2 - Command error (bad inputs, invalid configuration)

Examples:
  reqtrace run --config config.yaml --suite suite.cue
  reqtrace run --config config.yaml --suite suite.cue --export json,csv --out ./reports
  reqtrace run --config config.yaml --suite suite.cue --db runs.db --verbose`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRun(opts, factories, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to YAML configuration (required)")
	cmd.Flags().StringVar(&opts.SuitePath, "suite", "", "path to CUE suite manifest (required)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "archive the run in this SQLite database")
	cmd.Flags().StringVar(&opts.Export, "export", "", "comma-separated export formats (json,csv)")
	cmd.Flags().StringVar(&opts.OutDir, "out", ".", "directory for exported files")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("suite")

	return cmd
}

func executeRun(opts *RunOptions, resolve FactoryResolver, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	inputs, err := loadRunInputs(opts.ConfigPath, opts.SuitePath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load run inputs", err)
	}

	tokens := opts.TokenGenerator
	if tokens == nil {
		tokens = engine.UUIDv7Generator{}
	}

	var factories module.FactorySet
	if resolve != nil {
		factories = resolve(inputs.Config)
	}

	orch, err := engine.NewOrchestrator(inputs.Config, inputs.Suite.Modules, factories,
		engine.WithLogger(logger),
		engine.WithTokenGenerator(tokens),
	)
	if err != nil {
		return WrapExitError(ExitCommandError, "initialization failed", err)
	}

	// Ctrl-C cancels between modules: collected results are kept and the
	// rest of the run is recorded as skipped.
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, cancelling run", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	run := orch.ExecuteAllTests(ctx)

	if opts.Database != "" {
		if err := archiveRun(ctx, opts.Database, run, logger); err != nil {
			return WrapExitError(ExitCommandError, "failed to archive run", err)
		}
	}

	if opts.Export != "" {
		if err := exportRun(orch, run, opts, cmd); err != nil {
			return err
		}
	}

	if opts.Format == "json" {
		data, err := report.JSON(run)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to serialize run", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), renderRunSummary(run))
	}

	if run.Summary.FailedModules > 0 {
		return NewExitError(ExitFailure,
			fmt.Sprintf("%d module(s) failed or errored", run.Summary.FailedModules))
	}
	return nil
}

// archiveRun persists the run in the SQLite archive.
func archiveRun(ctx context.Context, path string, run *result.Run, logger *slog.Logger) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing archive", "error", closeErr)
		}
	}()

	if err := st.SaveRun(ctx, run); err != nil {
		return err
	}
	logger.Info("run archived", "db", path, "token", run.Token)
	return nil
}

// exportRun writes the requested export files into the output directory as
// reqtrace-<token>.<format>.
func exportRun(orch *engine.Orchestrator, run *result.Run, opts *RunOptions, cmd *cobra.Command) error {
	formats := splitFormats(opts.Export)

	exports, err := orch.Export(formats)
	if err != nil {
		return WrapExitError(ExitCommandError, "export failed", err)
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return WrapExitError(ExitCommandError, "failed to create output directory", err)
	}

	for _, format := range formats {
		path := filepath.Join(opts.OutDir, fmt.Sprintf("reqtrace-%s.%s", run.Token, format))
		if err := os.WriteFile(path, exports[format], 0o644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write export", err)
		}
		if opts.Verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
		}
	}
	return nil
}

func splitFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
