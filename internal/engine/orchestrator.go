package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/qaforge/reqtrace/internal/catalog"
	"github.com/qaforge/reqtrace/internal/config"
	"github.com/qaforge/reqtrace/internal/coverage"
	"github.com/qaforge/reqtrace/internal/module"
	"github.com/qaforge/reqtrace/internal/report"
	"github.com/qaforge/reqtrace/internal/result"
)

// ConfigurationError aggregates the semantic configuration problems that
// made initialization abort. Configuration errors are the only run-fatal
// failures: they are raised before any module executes.
type ConfigurationError struct {
	Errors []config.ValidationError
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, v := range e.Errors {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// ErrNoRunYet is returned by accessors that need a completed run.
var ErrNoRunYet = errors.New("no run has been executed yet")

// Orchestrator is the programmatic API surface of the core: initialize,
// execute, project the traceability matrix, export. CLI and UI layers are
// thin shells over this type.
type Orchestrator struct {
	engine *Engine
	run    *result.Run
}

// NewOrchestrator validates the configuration, compiles the requirement
// catalog, registers every descriptor, and wires the engine.
//
// Any semantic configuration problem aborts initialization with a
// *ConfigurationError before a single module can run; registration
// problems (duplicate names, unknown requirement IDs) abort with the
// registry's error.
func NewOrchestrator(cfg *config.Config, descriptors []module.Descriptor, factories module.FactorySet, opts ...Option) (*Orchestrator, error) {
	if verrs := cfg.Validate(); len(verrs) > 0 {
		return nil, &ConfigurationError{Errors: verrs}
	}

	cat, err := catalog.New(cfg.Requirements)
	if err != nil {
		return nil, err
	}

	reg := module.NewRegistry(cat)
	for _, d := range descriptors {
		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}

	return &Orchestrator{
		engine: New(cfg, cat, reg, factories, opts...),
	}, nil
}

// ExecuteAllTests runs every registered module and retains the completed
// run for the matrix and export accessors.
func (o *Orchestrator) ExecuteAllTests(ctx context.Context) *result.Run {
	o.run = o.engine.ExecuteAll(ctx)
	return o.run
}

// TraceabilityMatrix recomputes the traceability matrix from the completed
// run's coverage map. Being a pure projection, calling it any number of
// times yields output identical to the matrix embedded in the run.
func (o *Orchestrator) TraceabilityMatrix() (result.Matrix, error) {
	if o.run == nil {
		return result.Matrix{}, ErrNoRunYet
	}
	return coverage.BuildMatrix(o.engine.catalog, o.run.Coverage), nil
}

// Export serializes the completed run into the requested formats
// ("json", "csv"). A serialization failure surfaces to the caller without
// touching the already-computed run.
func (o *Orchestrator) Export(formats []string) (map[string][]byte, error) {
	if o.run == nil {
		return nil, ErrNoRunYet
	}

	out := make(map[string][]byte, len(formats))
	for _, f := range formats {
		switch f {
		case "json":
			data, err := report.JSON(o.run)
			if err != nil {
				return nil, err
			}
			out[f] = data
		case "csv":
			out[f] = report.CSV(o.run.Matrix)
		default:
			return nil, &report.ExportError{Format: f, Reason: "unsupported format"}
		}
	}
	return out, nil
}
