package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/qaforge/reqtrace/internal/report"
	"github.com/qaforge/reqtrace/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database string
	Token    string
	Export   string
	OutDir   string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Re-export an archived run",
		Long: `Re-export an archived run from the SQLite archive.

The archive stores only the raw module results; coverage, gaps,
recommendations, and the traceability matrix are recomputed with the
current derivation rules before export.

Examples:
  reqtrace export --db runs.db --run 0190c2a6-... --export json,csv
  reqtrace export --db runs.db --run 0190c2a6-... --export csv --out ./reports`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite archive (required)")
	cmd.Flags().StringVar(&opts.Token, "run", "", "run token to export (required)")
	cmd.Flags().StringVar(&opts.Export, "export", "json,csv", "comma-separated export formats")
	cmd.Flags().StringVar(&opts.OutDir, "out", ".", "directory for exported files")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("run")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open archive", err)
	}
	defer st.Close()

	run, err := st.GetRun(cmd.Context(), opts.Token)
	if errors.Is(err, store.ErrRunNotFound) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run %s not found in %s", opts.Token, opts.Database))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return WrapExitError(ExitCommandError, "failed to create output directory", err)
	}

	for _, format := range splitFormats(opts.Export) {
		var data []byte
		switch format {
		case "json":
			data, err = report.JSON(run)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to serialize run", err)
			}
		case "csv":
			data = report.CSV(run.Matrix)
		default:
			return NewExitError(ExitCommandError, fmt.Sprintf("unsupported export format %q", format))
		}

		path := filepath.Join(opts.OutDir, fmt.Sprintf("reqtrace-%s.%s", run.Token, format))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write export", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	}

	return nil
}
