package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/qaforge/reqtrace/internal/result"
)

// Scenario defines a conformance scenario: the catalog and modules to run,
// and the expectations to check against the completed run.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden file
	// name for RunWithGolden.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Token is an optional fixed run token. Defaults to "scenario-" + Name
	// for deterministic golden comparison.
	Token string `yaml:"token,omitempty"`

	// Threshold is the success-rate threshold percent. Defaults to 90.
	Threshold int `yaml:"threshold,omitempty"`

	// Requirements is the catalog: requirement ID to description.
	Requirements map[string]string `yaml:"requirements"`

	// Modules declares the modules in registration order.
	Modules []ModuleSpec `yaml:"modules"`

	// Expect holds the assertions over the completed run.
	Expect Expectations `yaml:"expect"`
}

// ModuleSpec declares one module and its canned behavior.
//
// Exactly one of Report or Error should be set for a module that is meant
// to execute. A module with neither gets no implementation wired in, which
// exercises the skipped "implementation missing" path.
type ModuleSpec struct {
	Name         string   `yaml:"name"`
	Category     string   `yaml:"category"`
	Requirements []string `yaml:"requirements"`

	// Enabled defaults to true; use "enabled: false" to exercise skips.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Report is the canned report the module returns.
	Report *ReportSpec `yaml:"report,omitempty"`

	// Error makes the module return this error instead of a report.
	Error string `yaml:"error,omitempty"`
}

// ReportSpec is the canned module report.
type ReportSpec struct {
	Passed      bool `yaml:"passed"`
	TotalTests  int  `yaml:"totalTests"`
	PassedTests int  `yaml:"passedTests"`
	FailedTests int  `yaml:"failedTests"`

	// Coverage maps requirement IDs to "full" or "partial".
	Coverage map[string]result.CoverageLevel `yaml:"coverage,omitempty"`
}

// Expectations are subset assertions over the completed run. Zero-valued
// optional fields are not checked.
type Expectations struct {
	Score          *int `yaml:"score,omitempty"`
	Coverage       *int `yaml:"coverage,omitempty"`
	PassedModules  *int `yaml:"passedModules,omitempty"`
	FailedModules  *int `yaml:"failedModules,omitempty"`
	SkippedModules *int `yaml:"skippedModules,omitempty"`

	// Gaps is the exact expected gap list, in emission order.
	Gaps []GapSpec `yaml:"gaps,omitempty"`

	// Statuses maps requirement IDs to their expected matrix status.
	Statuses map[string]result.RequirementStatus `yaml:"statuses,omitempty"`

	// ModuleStatuses maps module names to their expected result status.
	ModuleStatuses map[string]result.Status `yaml:"moduleStatuses,omitempty"`

	// Recommendations is the expected recommendation category list, in
	// rule order.
	Recommendations []string `yaml:"recommendations,omitempty"`
}

// GapSpec is one expected gap.
type GapSpec struct {
	Requirement string          `yaml:"requirement"`
	Kind        result.GapKind  `yaml:"kind"`
	Severity    result.Severity `yaml:"severity"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation
// (catches typos like "expects:" vs "expect:").
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	if scenario.Token == "" {
		scenario.Token = "scenario-" + scenario.Name
	}
	if scenario.Threshold == 0 {
		scenario.Threshold = 90
	}

	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Requirements) == 0 {
		return fmt.Errorf("requirements catalog is required")
	}
	if len(s.Modules) == 0 {
		return fmt.Errorf("at least one module is required")
	}
	for i, m := range s.Modules {
		if m.Name == "" {
			return fmt.Errorf("module %d: name is required", i)
		}
		if m.Category == "" {
			return fmt.Errorf("module %q: category is required", m.Name)
		}
		if m.Report != nil && m.Error != "" {
			return fmt.Errorf("module %q: report and error are mutually exclusive", m.Name)
		}
	}
	return nil
}
