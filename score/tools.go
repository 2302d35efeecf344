package score

import (
	"fmt"

	"github.com/armorline/posture/policy"
	"github.com/armorline/posture/schema"
)

// The four control categories, always evaluated in this order.
const (
	CategorySAST        = "SAST"
	CategoryDAST        = "DAST"
	CategoryFirewall    = "Application Firewall"
	CategoryAPISecurity = "API Security"
)

const categoryCount = 4

// CategoryBasePoints is each category's share of the tool score ceiling
// before any weighting.
const CategoryBasePoints = MaxToolScore / categoryCount

// scoreTools evaluates coverage across the four categories. Each category
// starts from an equal share of the ceiling and is scaled by integration
// depth, tool quality class, and the risk weight. The risk weight also scales
// the attainable total, so riskier applications need deeper coverage to earn
// the same normalized score. API Security may be assessed not applicable and
// then earns its full share. The normalized result is clamped to the ceiling
// because managed tooling can overachieve its share.
func scoreTools(app *schema.Application, pol *policy.Policy, riskWeight float64) (schema.ToolBreakdown, float64) {
	tb := schema.ToolBreakdown{
		Categories: make([]schema.CategoryBreakdown, 0, categoryCount),
	}

	categories := []struct {
		name string
		sel  schema.ToolSelection
		na   bool
	}{
		{CategorySAST, app.Tools.SAST, false},
		{CategoryDAST, app.Tools.DAST, false},
		{CategoryFirewall, app.Tools.Firewall, false},
		{CategoryAPISecurity, app.Tools.APISecurity, app.Tools.APISecurity.NotApplicable},
	}

	for _, c := range categories {
		cb := scoreCategory(c.name, c.sel, c.na, pol, riskWeight)
		tb.TotalAchieved += cb.AchievedPoints
		tb.TotalPossible += cb.BasePoints * riskWeight
		tb.Categories = append(tb.Categories, cb)
	}

	if tb.TotalPossible == 0 {
		return tb, 0
	}
	pts := tb.TotalAchieved / tb.TotalPossible * MaxToolScore
	if pts > MaxToolScore {
		pts = MaxToolScore
	}
	return tb, pts
}

func scoreCategory(name string, sel schema.ToolSelection, na bool, pol *policy.Policy, riskWeight float64) schema.CategoryBreakdown {
	cb := schema.CategoryBreakdown{
		Category:   name,
		BasePoints: CategoryBasePoints,
		RiskWeight: riskWeight,
	}

	if na {
		cb.NotApplicable = true
		cb.AchievedPoints = cb.BasePoints * riskWeight
		cb.Note = "assessed not applicable, full credit"
		return cb
	}

	if !sel.Configured() {
		cb.Note = "no tool configured"
		return cb
	}

	class := pol.ToolQuality.Classify(sel.Tool)
	weight, effective := pol.IntegrationWeight(sel.IntegrationLevel)

	cb.Tool = sel.Tool
	cb.QualityClass = string(class)
	cb.QualityWeight = pol.ToolQuality.Weight(class)
	cb.IntegrationWeight = weight
	level := effective
	cb.IntegrationLevel = &level

	switch {
	case sel.IntegrationLevel == nil:
		cb.Note = fmt.Sprintf("integration level unset, treated as %d", effective)
	case *sel.IntegrationLevel != effective:
		cb.Note = fmt.Sprintf("integration level %d clamped to %d", *sel.IntegrationLevel, effective)
	}

	cb.AchievedPoints = cb.BasePoints * cb.IntegrationWeight * cb.QualityWeight * riskWeight
	return cb
}
