package cli

import (
	"fmt"
	"os"

	"github.com/qaforge/reqtrace/internal/compiler"
	"github.com/qaforge/reqtrace/internal/config"
)

// RunInputs bundles everything a run needs: the environment/threshold
// configuration and the compiled suite manifest.
type RunInputs struct {
	Config *config.Config
	Suite  *compiler.Suite
}

// loadRunInputs reads the YAML configuration and the CUE suite manifest
// and merges them.
//
// The suite manifest is the catalog of record: its requirements replace
// whatever the configuration file carried, and every category its modules
// declare is switched on unless the configuration explicitly disables it.
// Semantic validation stays with the orchestrator; this only fails on
// unreadable or unparseable inputs.
func loadRunInputs(configPath, suitePath string) (*RunInputs, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}
	if _, err := os.Stat(suitePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("suite manifest not found: %s", suitePath)
	}

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	suite, err := compiler.LoadSuiteFile(suitePath)
	if err != nil {
		return nil, fmt.Errorf("compile suite: %w", err)
	}

	cfg.Requirements = suite.Requirements

	if cfg.TestCategories == nil {
		cfg.TestCategories = make(map[string]bool)
	}
	for _, d := range suite.Modules {
		if _, declared := cfg.TestCategories[d.Category]; !declared {
			cfg.TestCategories[d.Category] = true
		}
	}

	return &RunInputs{Config: cfg, Suite: suite}, nil
}
