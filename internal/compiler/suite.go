package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/qaforge/reqtrace/internal/catalog"
	"github.com/qaforge/reqtrace/internal/module"
)

// Suite is a compiled test-suite manifest: the requirement catalog and the
// module descriptors to register against it, in manifest order.
type Suite struct {
	Name         string
	Requirements map[string]string
	Modules      []module.Descriptor
}

// CompileSuite parses a CUE value into a Suite.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the suite struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`suite: { name: "smoke", ... }`)
//	s, err := CompileSuite(v.LookupPath(cue.ParsePath("suite")))
func CompileSuite(v cue.Value) (*Suite, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	suite := &Suite{}

	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return nil, &CompileError{
			Field:   "name",
			Message: "suite name is required",
			Pos:     v.Pos(),
		}
	}
	name, err := nameVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	suite.Name = name

	suite.Requirements, err = parseRequirements(v)
	if err != nil {
		return nil, err
	}
	if len(suite.Requirements) == 0 {
		return nil, &CompileError{
			Field:   "requirements",
			Message: "at least one requirement is required",
			Pos:     v.Pos(),
		}
	}

	suite.Modules, err = parseModules(v, suite.Requirements)
	if err != nil {
		return nil, err
	}
	if len(suite.Modules) == 0 {
		return nil, &CompileError{
			Field:   "modules",
			Message: "at least one module is required",
			Pos:     v.Pos(),
		}
	}

	return suite, nil
}

// LoadSuiteFile compiles a suite manifest from a .cue file on disk.
// The manifest's top-level struct must carry a "suite" field.
func LoadSuiteFile(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite manifest: %w", err)
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	suiteVal := v.LookupPath(cue.ParsePath("suite"))
	if !suiteVal.Exists() {
		return nil, &CompileError{
			Field:   "suite",
			Message: "manifest must declare a top-level suite field",
			Pos:     v.Pos(),
		}
	}

	return CompileSuite(suiteVal)
}

// parseRequirements extracts the requirement catalog. Every key must be a
// well-formed requirement ID (category.index).
func parseRequirements(v cue.Value) (map[string]string, error) {
	reqsVal := v.LookupPath(cue.ParsePath("requirements"))
	if !reqsVal.Exists() {
		return nil, &CompileError{
			Field:   "requirements",
			Message: "requirements catalog is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := reqsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	reqs := make(map[string]string)
	for iter.Next() {
		id := iter.Label()
		if !catalog.ValidID(id) {
			return nil, &CompileError{
				Field:   fmt.Sprintf("requirements.%q", id),
				Message: "requirement ID must be category.index (e.g. auth.1)",
				Pos:     iter.Value().Pos(),
			}
		}

		desc, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		reqs[id] = desc
	}

	return reqs, nil
}

// parseModules extracts module descriptors in manifest order.
func parseModules(v cue.Value, reqs map[string]string) ([]module.Descriptor, error) {
	modsVal := v.LookupPath(cue.ParsePath("modules"))
	if !modsVal.Exists() {
		return nil, &CompileError{
			Field:   "modules",
			Message: "modules block is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := modsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var descriptors []module.Descriptor
	for iter.Next() {
		name := iter.Label()
		d, err := parseModule(name, iter.Value(), reqs)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}

	return descriptors, nil
}

// parseModule parses one module descriptor.
func parseModule(name string, v cue.Value, reqs map[string]string) (module.Descriptor, error) {
	d := module.Descriptor{
		Name: name,
		// Modules run unless the manifest switches them off.
		Enabled: true,
	}

	catVal := v.LookupPath(cue.ParsePath("category"))
	if !catVal.Exists() {
		return d, &CompileError{
			Field:   fmt.Sprintf("modules.%s.category", name),
			Message: "module category is required",
			Pos:     v.Pos(),
		}
	}
	category, err := catVal.String()
	if err != nil {
		return d, formatCUEError(err)
	}
	d.Category = category

	reqsVal := v.LookupPath(cue.ParsePath("requirements"))
	if !reqsVal.Exists() {
		return d, &CompileError{
			Field:   fmt.Sprintf("modules.%s.requirements", name),
			Message: "module requirements are required",
			Pos:     v.Pos(),
		}
	}
	reqIter, err := reqsVal.List()
	if err != nil {
		return d, formatCUEError(err)
	}
	for reqIter.Next() {
		id, err := reqIter.Value().String()
		if err != nil {
			return d, formatCUEError(err)
		}
		if _, ok := reqs[id]; !ok {
			return d, &CompileError{
				Field:   fmt.Sprintf("modules.%s.requirements", name),
				Message: fmt.Sprintf("unknown requirement %q", id),
				Pos:     reqIter.Value().Pos(),
			}
		}
		d.Requirements = append(d.Requirements, id)
	}

	enabledVal := v.LookupPath(cue.ParsePath("enabled"))
	if enabledVal.Exists() {
		enabled, err := enabledVal.Bool()
		if err != nil {
			return d, formatCUEError(err)
		}
		d.Enabled = enabled
	}

	return d, nil
}
