// Package config loads and validates the orchestrator configuration:
// environment settings, per-category enable flags, thresholds, and the
// requirement catalog source.
//
// Loading and validation are deliberately split. Load only fails on
// malformed input (unreadable file, broken YAML); semantically invalid
// values never make Load error. Validate returns the full list of semantic
// problems so callers can report all of them at once.
package config

import (
	"fmt"
)

// DefaultTimeoutMs is applied when the environment section omits a timeout.
const DefaultTimeoutMs = 10000

// Config is the validated-once configuration registry for a run.
// Read-only after Load; freely shareable by reference.
type Config struct {
	Environment    Environment     `koanf:"environment" json:"environment"`
	TestCategories map[string]bool `koanf:"testCategories" json:"testCategories"`
	Thresholds     Thresholds      `koanf:"thresholds" json:"thresholds"`

	// Requirements is the raw catalog source (reqID → description).
	// Compiled into a catalog.Catalog at initialization.
	Requirements map[string]string `koanf:"requirements" json:"requirements"`
}

// Environment holds the settings shared with every test module.
type Environment struct {
	APIURL        string `koanf:"apiUrl" json:"apiUrl"`
	SpreadsheetID string `koanf:"spreadsheetId" json:"spreadsheetId"`
	TimeoutMs     int    `koanf:"timeoutMs" json:"timeoutMs"`
	Retries       int    `koanf:"retries" json:"retries"`
}

// Thresholds holds the quality gates evaluated over a completed run.
type Thresholds struct {
	SuccessRatePercent int                   `koanf:"successRatePercent" json:"successRatePercent"`
	CoveragePercent    int                   `koanf:"coveragePercent" json:"coveragePercent"`
	Performance        PerformanceThresholds `koanf:"performance" json:"performance"`
}

// PerformanceThresholds bounds expected latencies, in milliseconds.
type PerformanceThresholds struct {
	APIResponseMs int   `koanf:"apiResponseMs" json:"apiResponseMs"`
	PageLoadMs    int   `koanf:"pageLoadMs" json:"pageLoadMs"`
	TotalRunMs    int64 `koanf:"totalRunMs" json:"totalRunMs"`
}

// Validation error codes (E001-E099).
const (
	ErrMissingAPIURL        = "E001" // environment.apiUrl is required
	ErrNoCategoriesEnabled  = "E002" // at least one test category must be enabled
	ErrNonPositiveThreshold = "E003" // thresholds must be positive
	ErrThresholdRange       = "E004" // percent thresholds must be <= 100
	ErrNonPositiveTimeout   = "E005" // environment.timeoutMs must be positive
	ErrNegativeRetries      = "E006" // environment.retries must be >= 0
	ErrEmptyCatalog         = "E007" // requirements catalog must be non-empty
)

// ValidationError is one semantic configuration problem.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks the configuration for semantic problems.
// Returns every error found (does not fail-fast); an empty slice means the
// configuration is usable.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.Environment.APIURL == "" {
		errs = append(errs, ValidationError{
			Field:   "environment.apiUrl",
			Message: "API URL is required",
			Code:    ErrMissingAPIURL,
		})
	}
	if c.Environment.TimeoutMs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "environment.timeoutMs",
			Message: fmt.Sprintf("timeout must be positive, got %d", c.Environment.TimeoutMs),
			Code:    ErrNonPositiveTimeout,
		})
	}
	if c.Environment.Retries < 0 {
		errs = append(errs, ValidationError{
			Field:   "environment.retries",
			Message: fmt.Sprintf("retries must not be negative, got %d", c.Environment.Retries),
			Code:    ErrNegativeRetries,
		})
	}

	if !c.anyCategoryEnabled() {
		errs = append(errs, ValidationError{
			Field:   "testCategories",
			Message: "at least one test category must be enabled",
			Code:    ErrNoCategoriesEnabled,
		})
	}

	errs = append(errs, validatePercent("thresholds.successRatePercent", c.Thresholds.SuccessRatePercent)...)
	errs = append(errs, validatePercent("thresholds.coveragePercent", c.Thresholds.CoveragePercent)...)

	if c.Thresholds.Performance.APIResponseMs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "thresholds.performance.apiResponseMs",
			Message: fmt.Sprintf("threshold must be positive, got %d", c.Thresholds.Performance.APIResponseMs),
			Code:    ErrNonPositiveThreshold,
		})
	}
	if c.Thresholds.Performance.PageLoadMs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "thresholds.performance.pageLoadMs",
			Message: fmt.Sprintf("threshold must be positive, got %d", c.Thresholds.Performance.PageLoadMs),
			Code:    ErrNonPositiveThreshold,
		})
	}
	if c.Thresholds.Performance.TotalRunMs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "thresholds.performance.totalRunMs",
			Message: fmt.Sprintf("threshold must be positive, got %d", c.Thresholds.Performance.TotalRunMs),
			Code:    ErrNonPositiveThreshold,
		})
	}

	if len(c.Requirements) == 0 {
		errs = append(errs, ValidationError{
			Field:   "requirements",
			Message: "requirement catalog must be non-empty",
			Code:    ErrEmptyCatalog,
		})
	}

	return errs
}

// CategoryEnabled reports whether a category is switched on.
// Categories absent from the map are disabled.
func (c *Config) CategoryEnabled(category string) bool {
	return c.TestCategories[category]
}

func (c *Config) anyCategoryEnabled() bool {
	for _, enabled := range c.TestCategories {
		if enabled {
			return true
		}
	}
	return false
}

func validatePercent(field string, v int) []ValidationError {
	switch {
	case v <= 0:
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("threshold must be positive, got %d", v),
			Code:    ErrNonPositiveThreshold,
		}}
	case v > 100:
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("percent threshold must be at most 100, got %d", v),
			Code:    ErrThresholdRange,
		}}
	}
	return nil
}
