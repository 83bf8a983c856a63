package result

// Run is the complete outcome of one executeAllTests invocation.
//
// A Run owns every ephemeral structure of the execution: module results in
// registration order, the coverage map, gaps, recommendations, the
// traceability matrix, and the summary. It is assembled once by the engine
// and never mutated afterwards; exporters and the run archive treat it as
// read-only input.
type Run struct {
	// Token uniquely identifies this run (UUIDv7 in production, fixed
	// tokens in tests).
	Token string `json:"token"`

	// StartedAt is the wall-clock start in RFC 3339 format. Informational
	// only; nothing orders or compares runs by it.
	StartedAt string `json:"startedAt,omitempty"`

	// SuccessRateThreshold is the configured minimum overall score,
	// carried on the run so derived projections can be recomputed from an
	// archived run without the original configuration.
	SuccessRateThreshold int `json:"successRateThreshold"`

	// Results holds one ModuleResult per registered module, in
	// registration order.
	Results []ModuleResult `json:"results"`

	Coverage        CoverageMap      `json:"coverage"`
	Gaps            []Gap            `json:"gaps"`
	Recommendations []Recommendation `json:"recommendations"`
	Matrix          Matrix           `json:"matrix"`
	Summary         Summary          `json:"summary"`
}

// ResultFor returns the first module result in the given category, or nil.
func (r *Run) ResultFor(category string) *ModuleResult {
	for i := range r.Results {
		if r.Results[i].Category == category {
			return &r.Results[i]
		}
	}
	return nil
}
