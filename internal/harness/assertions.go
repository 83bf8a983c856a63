package harness

// evaluate checks every expectation in the scenario against the completed
// run, recording each mismatch on the result. Unset optional expectations
// are skipped.
func evaluate(res *Result, s *Scenario) {
	run := res.Run
	e := s.Expect

	if e.Score != nil && run.Summary.OverallScorePercent != *e.Score {
		res.AddError("score: got %d, want %d", run.Summary.OverallScorePercent, *e.Score)
	}
	if e.Coverage != nil && run.Matrix.CoveragePercentage != *e.Coverage {
		res.AddError("coverage: got %d, want %d", run.Matrix.CoveragePercentage, *e.Coverage)
	}
	if e.PassedModules != nil && run.Summary.PassedModules != *e.PassedModules {
		res.AddError("passedModules: got %d, want %d", run.Summary.PassedModules, *e.PassedModules)
	}
	if e.FailedModules != nil && run.Summary.FailedModules != *e.FailedModules {
		res.AddError("failedModules: got %d, want %d", run.Summary.FailedModules, *e.FailedModules)
	}
	if e.SkippedModules != nil && run.Summary.SkippedModules != *e.SkippedModules {
		res.AddError("skippedModules: got %d, want %d", run.Summary.SkippedModules, *e.SkippedModules)
	}

	if e.Gaps != nil {
		checkGaps(res, e.Gaps)
	}

	for id, want := range e.Statuses {
		found := false
		for _, rec := range run.Matrix.Records {
			if rec.RequirementID == id {
				found = true
				if rec.Status != want {
					res.AddError("status of %s: got %s, want %s", id, rec.Status, want)
				}
				break
			}
		}
		if !found {
			res.AddError("status of %s: requirement not in matrix", id)
		}
	}

	for name, want := range e.ModuleStatuses {
		found := false
		for _, mr := range run.Results {
			if mr.Name == name {
				found = true
				if mr.Status != want {
					res.AddError("module %s: got status %s, want %s", name, mr.Status, want)
				}
				break
			}
		}
		if !found {
			res.AddError("module %s: no result recorded", name)
		}
	}

	if e.Recommendations != nil {
		checkRecommendations(res, e.Recommendations)
	}
}

// checkGaps compares the exact gap list, in emission order.
func checkGaps(res *Result, want []GapSpec) {
	got := res.Run.Gaps
	if len(got) != len(want) {
		res.AddError("gaps: got %d, want %d", len(got), len(want))
		return
	}
	for i, w := range want {
		g := got[i]
		if g.RequirementID != w.Requirement || g.Kind != w.Kind || g.Severity != w.Severity {
			res.AddError("gap %d: got {%s %s %s}, want {%s %s %s}",
				i, g.RequirementID, g.Kind, g.Severity,
				w.Requirement, w.Kind, w.Severity)
		}
	}
}

// checkRecommendations compares recommendation categories in rule order.
func checkRecommendations(res *Result, want []string) {
	got := res.Run.Recommendations
	if len(got) != len(want) {
		res.AddError("recommendations: got %d, want %d", len(got), len(want))
		return
	}
	for i, w := range want {
		if got[i].Category != w {
			res.AddError("recommendation %d: got %q, want %q", i, got[i].Category, w)
		}
	}
}
