package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qaforge/reqtrace/internal/config"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                     `json:"valid"`
	Errors []config.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var suitePath string

	cmd := &cobra.Command{
		Use:   "validate <config.yaml>",
		Short: "Validate configuration without executing anything",
		Long: `Validate a YAML configuration file and report every semantic problem
with its error code, without running any module.

With --suite, the suite manifest is compiled and merged first, exactly as
the run command would, so validate answers "would this run initialize?".

Exit codes:
  0 - Configuration is valid
  1 - Configuration has validation errors
  2 - Command error (unreadable file, malformed YAML or CUE)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], suitePath, cmd)
		},
	}

	cmd.Flags().StringVar(&suitePath, "suite", "", "merge this CUE suite manifest before validating")

	return cmd
}

func runValidate(opts *RootOptions, configPath, suitePath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	var cfg *config.Config
	if suitePath != "" {
		inputs, err := loadRunInputs(configPath, suitePath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load inputs", err)
		}
		cfg = inputs.Config
	} else {
		var err error
		cfg, err = config.LoadFile(configPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}
	}

	verrs := cfg.Validate()
	res := ValidationResult{Valid: len(verrs) == 0, Errors: verrs}

	if res.Valid {
		return formatter.SuccessText("Configuration is valid", res)
	}

	if opts.Format == "json" {
		if err := formatter.Success(res); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%d validation error(s):\n", len(verrs))
		for _, v := range verrs {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", v.Error())
		}
	}

	return NewExitError(ExitFailure, fmt.Sprintf("configuration has %d validation error(s)", len(verrs)))
}
