package scoring

import (
	"fmt"

	"digivera_backend/internal/models"
)

// Scoring weights and caps. A single runaway counter is capped per category,
// and the combined deduction is capped so the score never drops below the
// floor: a "zero trust" score would read as an unbounded signal.
const (
	ExposureWeight = 5
	MentionWeight  = 10

	CategoryCap  = 30
	TotalCap     = 80
	MinScore     = 20
	PerfectScore = 100
)

// Result is the scorer output. Explanation is presentational only; nothing
// downstream branches on it.
type Result struct {
	Score       int
	Severity    models.AlertSeverity
	Explanation string
}

// Compute maps findings to a score, severity and explanation. It is a pure
// total function over non-negative counters: same input, same output, score
// always within [MinScore, PerfectScore].
func Compute(findings models.Findings) Result {
	exposureDeduction := capped(findings.PublicExposure*ExposureWeight, CategoryCap)
	mentionDeduction := capped(findings.PublicMentions*MentionWeight, CategoryCap)

	totalDeduction := capped(exposureDeduction+mentionDeduction, TotalCap)

	score := PerfectScore - totalDeduction
	if score < MinScore {
		score = MinScore
	}

	return Result{
		Score:       score,
		Severity:    severityFor(score),
		Explanation: explain(findings, score),
	}
}

func capped(value, limit int) int {
	if value > limit {
		return limit
	}
	return value
}

// severityFor applies the tier thresholds, inclusive on each lower bound
func severityFor(score int) models.AlertSeverity {
	switch {
	case score >= 80:
		return models.SeverityLow
	case score >= 50:
		return models.SeverityMedium
	default:
		return models.SeverityHigh
	}
}

func explain(findings models.Findings, score int) string {
	switch {
	case findings.PublicExposure > 0 && findings.PublicMentions > 0:
		return fmt.Sprintf(
			"Found %d public code exposure(s) and %d public mention(s). Risk score: %d/100.",
			findings.PublicExposure, findings.PublicMentions, score,
		)
	case findings.PublicExposure > 0:
		return fmt.Sprintf(
			"Found %d occurrence(s) of this identifier in public code. Risk score: %d/100.",
			findings.PublicExposure, score,
		)
	case findings.PublicMentions > 0:
		return fmt.Sprintf(
			"Found %d public mention(s) of this identifier. Risk score: %d/100.",
			findings.PublicMentions, score,
		)
	default:
		return fmt.Sprintf("No public exposure detected. Risk score: %d/100.", score)
	}
}
