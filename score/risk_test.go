package score

import (
	"testing"

	"github.com/armorline/posture/policy"
	"github.com/armorline/posture/schema"
)

func TestResolveRisk(t *testing.T) {
	tests := []struct {
		name        string
		facing      string
		dataTypes   string
		wantWeight  float64
		wantFactors int
	}{
		{
			name:       "internal no sensitive data",
			facing:     schema.FacingInternal,
			dataTypes:  "build logs",
			wantWeight: 1.0,
		},
		{
			name:        "external only",
			facing:      schema.FacingExternal,
			dataTypes:   "public docs",
			wantWeight:  1.5,
			wantFactors: 1,
		},
		{
			name:        "pii only",
			facing:      schema.FacingInternal,
			dataTypes:   "customer PII and order history",
			wantWeight:  1.3,
			wantFactors: 1,
		},
		{
			name:        "external and pii takes the max",
			facing:      schema.FacingExternal,
			dataTypes:   "pii",
			wantWeight:  1.5,
			wantFactors: 2,
		},
		{
			name:        "pci outweighs pii",
			facing:      schema.FacingInternal,
			dataTypes:   "pii and pci cardholder data",
			wantWeight:  1.4,
			wantFactors: 2,
		},
		{
			name:       "blank facing is internal",
			facing:     "",
			dataTypes:  "telemetry",
			wantWeight: 1.0,
		},
	}

	pol := policy.Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &schema.Application{Facing: tt.facing, DataTypes: tt.dataTypes}
			rb := resolveRisk(app, pol)
			if !almostEqual(rb.Weight, tt.wantWeight) {
				t.Errorf("Weight = %v, want %v", rb.Weight, tt.wantWeight)
			}
			if len(rb.Factors) != tt.wantFactors {
				t.Errorf("Factors = %v, want %d entries", rb.Factors, tt.wantFactors)
			}
		})
	}
}

func TestResolveRiskNeverBelowOne(t *testing.T) {
	pol := policy.Default()
	pol.RiskFactors.External = 1.0
	pol.RiskFactors.DataMarkers = map[string]float64{"pii": 1.0}

	app := &schema.Application{Facing: schema.FacingExternal, DataTypes: "pii"}
	rb := resolveRisk(app, pol)
	if rb.Weight != 1.0 {
		t.Errorf("Weight = %v, want 1.0", rb.Weight)
	}
	if len(rb.Factors) != 2 {
		t.Errorf("Factors = %v, want both neutral factors recorded", rb.Factors)
	}
}

func TestResolveRiskMaxNotProduct(t *testing.T) {
	app := &schema.Application{
		Facing:    schema.FacingExternal,
		DataTypes: "pii, pci, phi",
	}
	pol := policy.Default()

	rb := resolveRisk(app, pol)
	if !almostEqual(rb.Weight, 1.5) {
		t.Errorf("Weight = %v, want the single largest multiplier 1.5", rb.Weight)
	}
}

func TestResolveRiskFactorOrderStable(t *testing.T) {
	app := &schema.Application{Facing: schema.FacingExternal, DataTypes: "pci pii"}
	pol := policy.Default()

	first := resolveRisk(app, pol)
	for i := 0; i < 20; i++ {
		next := resolveRisk(app, pol)
		if len(next.Factors) != len(first.Factors) {
			t.Fatalf("factor count changed between runs: %v vs %v", next.Factors, first.Factors)
		}
		for j := range next.Factors {
			if next.Factors[j] != first.Factors[j] {
				t.Fatalf("factor order changed between runs: %v vs %v", next.Factors, first.Factors)
			}
		}
	}
}
