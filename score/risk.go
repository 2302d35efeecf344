package score

import (
	"fmt"
	"strings"

	"github.com/armorline/posture/policy"
	"github.com/armorline/posture/schema"
)

// resolveRisk derives the application's risk weight. Every applicable factor
// is recorded, but the weight is the maximum single multiplier, never a
// product, and never below 1.0: risk raises the bar, it does not compound.
func resolveRisk(app *schema.Application, pol *policy.Policy) schema.RiskBreakdown {
	rb := schema.RiskBreakdown{Weight: 1.0}

	if app.IsExternal() {
		m := pol.RiskFactors.External
		rb.Factors = append(rb.Factors, fmt.Sprintf("externally facing (x%g)", m))
		if m > rb.Weight {
			rb.Weight = m
		}
	}

	data := strings.ToLower(app.DataTypes)
	for _, marker := range pol.RiskFactors.SortedMarkers() {
		if !strings.Contains(data, strings.ToLower(marker)) {
			continue
		}
		m := pol.RiskFactors.DataMarkers[marker]
		rb.Factors = append(rb.Factors, fmt.Sprintf("handles %s (x%g)", marker, m))
		if m > rb.Weight {
			rb.Weight = m
		}
	}

	return rb
}
