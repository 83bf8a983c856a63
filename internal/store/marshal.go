package store

import (
	"encoding/json"
	"fmt"

	"github.com/qaforge/reqtrace/internal/result"
)

// The requirements list and coverage map are stored as JSON text columns.
// encoding/json writes map keys in sorted order, so the stored bytes are
// deterministic for a given module result.

func marshalRequirements(reqs []string) (string, error) {
	if reqs == nil {
		reqs = []string{}
	}
	data, err := json.Marshal(reqs)
	if err != nil {
		return "", fmt.Errorf("marshal requirements: %w", err)
	}
	return string(data), nil
}

func unmarshalRequirements(data string) ([]string, error) {
	var reqs []string
	if err := json.Unmarshal([]byte(data), &reqs); err != nil {
		return nil, fmt.Errorf("unmarshal requirements: %w", err)
	}
	return reqs, nil
}

func marshalCoverage(cov map[string]result.CoverageLevel) (string, error) {
	if cov == nil {
		cov = map[string]result.CoverageLevel{}
	}
	data, err := json.Marshal(cov)
	if err != nil {
		return "", fmt.Errorf("marshal coverage: %w", err)
	}
	return string(data), nil
}

func unmarshalCoverage(data string) (map[string]result.CoverageLevel, error) {
	var cov map[string]result.CoverageLevel
	if err := json.Unmarshal([]byte(data), &cov); err != nil {
		return nil, fmt.Errorf("unmarshal coverage: %w", err)
	}
	return cov, nil
}
