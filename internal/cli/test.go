package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qaforge/reqtrace/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter string // scenario filter (glob pattern on the file base name)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run conformance scenarios",
		Long: `Run conformance scenarios against the engine.

Each YAML file in the directory declares a requirement catalog, canned
module behavior, and expectations over the completed run. Every
expectation mismatch is reported.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, malformed scenarios)

Examples:
  reqtrace test ./scenarios
  reqtrace test ./scenarios --filter "billing-*"
  reqtrace test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runScenarios(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	files, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}
	if len(files) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no scenarios found in %s", scenariosDir))
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	h := harness.New()
	totals := TestResult{}

	for _, file := range files {
		s, err := harness.LoadScenario(file)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("invalid scenario %s", file), err)
		}

		res, err := h.Run(cmd.Context(), s)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("scenario %s failed to run", s.Name), err)
		}

		sr := ScenarioResult{Name: s.Name, Pass: res.Pass, Errors: res.Errors}
		totals.Scenarios = append(totals.Scenarios, sr)
		totals.Total++
		if res.Pass {
			totals.Passed++
		} else {
			totals.Failed++
		}

		if opts.Format != "json" {
			printScenarioResult(cmd, sr)
		}
	}

	if opts.Format == "json" {
		if err := formatter.Success(totals); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d/%d scenarios passed\n", totals.Passed, totals.Total)
	}

	if totals.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", totals.Failed))
	}
	return nil
}

func printScenarioResult(cmd *cobra.Command, sr ScenarioResult) {
	mark := passStyle.Render("PASS")
	if !sr.Pass {
		mark = failStyle.Render("FAIL")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, sr.Name)
	for _, msg := range sr.Errors {
		fmt.Fprintf(cmd.OutOrStdout(), "     %s\n", msg)
	}
}

// findScenarioFiles lists scenario YAML files, sorted, optionally filtered
// by a glob pattern on the base name (without extension).
func findScenarioFiles(dir, filter string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		if filter != "" {
			base := strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
			ok, err := filepath.Match(filter, base)
			if err != nil {
				return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
			}
			if !ok {
				continue
			}
		}
		files = append(files, filepath.Join(dir, name))
	}

	sort.Strings(files)
	return files, nil
}
