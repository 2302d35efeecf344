package score

import (
	"strings"
	"time"

	"github.com/armorline/posture/schema"
)

// Knowledge scoring constants:
//
//   - Each of the 8 metadata fields earns 5 points when filled (40 max).
//   - A metadata review inside the rolling window earns 10 more.
const (
	FieldPoints      = 5.0
	ReviewBonus      = 10.0
	ReviewWindowDays = 182
)

// scoreKnowledge measures how well the application is described. A field
// counts as filled when it has any non-whitespace content. The review bonus
// applies when the last review falls inside the rolling window ending at now;
// the window boundary is inclusive and a timestamp ahead of now still counts.
func scoreKnowledge(app *schema.Application, now time.Time) (schema.KnowledgeBreakdown, float64) {
	kb := schema.KnowledgeBreakdown{
		FieldsTotal:      schema.KnowledgeFieldCount,
		ReviewWindowDays: ReviewWindowDays,
	}

	for _, f := range app.KnowledgeFields() {
		if strings.TrimSpace(f.Value) == "" {
			kb.MissingFields = append(kb.MissingFields, f.Name)
			continue
		}
		kb.FieldsFilled++
	}
	kb.CompletenessPoints = float64(kb.FieldsFilled) * FieldPoints

	if app.MetadataLastReviewed != nil {
		reviewed := app.MetadataLastReviewed.UTC()
		kb.LastReviewed = &reviewed
		window := time.Duration(ReviewWindowDays) * 24 * time.Hour
		if now.Sub(reviewed) <= window {
			kb.ReviewedRecently = true
			kb.ReviewPoints = ReviewBonus
		}
	}

	return kb, kb.CompletenessPoints + kb.ReviewPoints
}
