package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/qaforge/reqtrace/internal/result"
	"github.com/qaforge/reqtrace/internal/store"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boxStyle    = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// renderRunSummary formats a completed run for terminal output: score and
// counts, per-module lines, gaps, and recommendations.
func renderRunSummary(run *result.Run) string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render(fmt.Sprintf("RUN %s", run.Token)))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("started %s", run.StartedAt)))
	sb.WriteString("\n\n")

	scoreStyle := passStyle
	if run.Summary.OverallScorePercent < run.SuccessRateThreshold {
		scoreStyle = failStyle
	}
	sb.WriteString(fmt.Sprintf("Score:    %s (threshold %d%%)\n",
		scoreStyle.Render(fmt.Sprintf("%d%%", run.Summary.OverallScorePercent)),
		run.SuccessRateThreshold))
	sb.WriteString(fmt.Sprintf("Coverage: %d%% (%d/%d requirements)\n",
		run.Matrix.CoveragePercentage,
		run.Matrix.CoveredRequirements,
		run.Matrix.TotalRequirements))
	sb.WriteString(fmt.Sprintf("Modules:  %d passed, %d failed, %d skipped\n\n",
		run.Summary.PassedModules,
		run.Summary.FailedModules,
		run.Summary.SkippedModules))

	for _, mr := range run.Results {
		sb.WriteString(fmt.Sprintf("  %s %-20s %s\n",
			statusGlyph(mr.Status),
			mr.Name,
			moduleDetail(mr)))
	}

	if len(run.Gaps) > 0 {
		sb.WriteString("\n")
		sb.WriteString(headerStyle.Render("COVERAGE GAPS"))
		sb.WriteString("\n")
		for _, g := range run.Gaps {
			style := warnStyle
			if g.Severity == result.SeverityCritical {
				style = failStyle
			}
			sb.WriteString(fmt.Sprintf("  %s %s (%s): %s\n",
				style.Render(string(g.Severity)),
				g.RequirementID, g.Kind, g.Description))
		}
	}

	if len(run.Recommendations) > 0 {
		sb.WriteString("\n")
		sb.WriteString(headerStyle.Render("RECOMMENDATIONS"))
		sb.WriteString("\n")
		for _, rec := range run.Recommendations {
			sb.WriteString(fmt.Sprintf("  [%s] %s: %s\n", rec.Priority, rec.Category, rec.Issue))
			sb.WriteString(mutedStyle.Render(fmt.Sprintf("        %s", rec.Action)))
			sb.WriteString("\n")
		}
	}

	return boxStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

func statusGlyph(s result.Status) string {
	switch s {
	case result.StatusPassed:
		return passStyle.Render("✓")
	case result.StatusFailed, result.StatusError:
		return failStyle.Render("✗")
	default:
		return mutedStyle.Render("-")
	}
}

func moduleDetail(mr result.ModuleResult) string {
	switch mr.Status {
	case result.StatusSkipped:
		return mutedStyle.Render(fmt.Sprintf("skipped (%s)", mr.Reason))
	case result.StatusError:
		return failStyle.Render(mr.Error)
	default:
		return fmt.Sprintf("%d/%d tests in %dms", mr.PassedTests, mr.TotalTests, mr.DurationMs)
	}
}

// renderHistory formats the archive listing.
func renderHistory(infos []store.RunInfo) string {
	if len(infos) == 0 {
		return mutedStyle.Render("no archived runs")
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("%-38s %-22s %s", "TOKEN", "STARTED", "MODULES")))
	sb.WriteString("\n")
	for _, info := range infos {
		sb.WriteString(fmt.Sprintf("%-38s %-22s %d\n", info.Token, info.StartedAt, info.Modules))
	}
	return strings.TrimRight(sb.String(), "\n")
}
