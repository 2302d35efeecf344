// Package score computes security posture scores for application records.
//
// A score is a pure function of the record, the policy tables, and a clock
// reading. It combines two halves:
//
//   - Knowledge (0-50): how completely the application is described and how
//     recently its metadata was reviewed.
//   - Tooling (0-50): how well security tooling covers the four control
//     categories, weighted by integration depth, tool quality, and the
//     application's risk profile.
//
// The same record, policy, and clock always produce the same result, and
// scoring never mutates the record it reads.
package score

import (
	"time"

	"github.com/armorline/posture/policy"
	"github.com/armorline/posture/schema"
)

// Score ceilings for the two halves. The total is their sum, 0-100.
const (
	MaxKnowledgeScore = 50.0
	MaxToolScore      = 50.0
)

// Score evaluates one application against a policy at the given time.
func Score(app *schema.Application, pol *policy.Policy, now time.Time) *schema.ScoreResult {
	risk := resolveRisk(app, pol)
	knowledge, knowledgePts := scoreKnowledge(app, now)
	tools, toolPts := scoreTools(app, pol, risk.Weight)

	total := knowledgePts + toolPts
	return &schema.ScoreResult{
		KnowledgeScore: knowledgePts,
		ToolScore:      toolPts,
		TotalScore:     total,
		Grade:          gradeFor(total),
		ComputedAt:     now.UTC(),
		Breakdown: schema.Breakdown{
			Knowledge: knowledge,
			Risk:      risk,
			Tools:     tools,
		},
	}
}

func gradeFor(total float64) string {
	switch {
	case total >= 90:
		return "A"
	case total >= 80:
		return "B"
	case total >= 70:
		return "C"
	case total >= 60:
		return "D"
	default:
		return "F"
	}
}
