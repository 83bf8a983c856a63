// Package harness provides a scenario-driven conformance framework for
// the execution engine.
//
// A scenario is a YAML file declaring a requirement catalog, a set of
// modules with canned reports (or canned errors), and expectations over
// the completed run: overall score, coverage percentage, gaps in order,
// per-requirement matrix statuses, and per-module statuses.
//
// Scenarios execute against the real engine with a fixed run token and a
// manual clock, so every run of a scenario produces an identical Run and
// identical exports. That determinism is what makes golden-file
// comparison of exported traceability matrices possible.
package harness
