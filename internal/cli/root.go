package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qaforge/reqtrace/internal/config"
	"github.com/qaforge/reqtrace/internal/module"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// FactoryResolver builds the module implementations available to a run
// once its configuration is loaded. Suite manifests may declare modules
// outside the resolved set; those execute as skipped
// "implementation missing".
type FactoryResolver func(*config.Config) module.FactorySet

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the reqtrace CLI.
func NewRootCommand(factories FactoryResolver) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "reqtrace",
		Short: "reqtrace - test orchestration with requirement traceability",
		Long: "Runs registered test modules sequentially, maps their results onto a\n" +
			"requirement catalog, and exports coverage gaps and a traceability matrix.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewRunCommand(opts, factories))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
