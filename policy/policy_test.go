package policy

import (
	"reflect"
	"strings"
	"testing"
)

func validPolicy() *Policy {
	return &Policy{
		IntegrationLevels: map[int]float64{
			0: 0.0,
			1: 0.25,
			2: 0.5,
			3: 0.75,
			4: 1.0,
		},
		ToolQuality: ToolQuality{
			Weights: map[Class]float64{
				ClassManaged:           1.2,
				ClassApprovedUnmanaged: 1.0,
				ClassOther:             0.6,
			},
			Classification: map[string]Class{
				"snyk":      ClassManaged,
				"sonarqube": ClassApprovedUnmanaged,
			},
		},
		RiskFactors: RiskFactors{
			External: 1.5,
			DataMarkers: map[string]float64{
				"pii": 1.3,
				"pci": 1.4,
			},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Policy)
		wantTable string
	}{
		{
			name:   "valid policy",
			mutate: func(p *Policy) {},
		},
		{
			name:      "no levels",
			mutate:    func(p *Policy) { p.IntegrationLevels = nil },
			wantTable: "integration_levels",
		},
		{
			name:      "negative level",
			mutate:    func(p *Policy) { p.IntegrationLevels[-1] = 0.0 },
			wantTable: "integration_levels",
		},
		{
			name:      "weight above one",
			mutate:    func(p *Policy) { p.IntegrationLevels[2] = 1.5 },
			wantTable: "integration_levels",
		},
		{
			name:      "weight decreases",
			mutate:    func(p *Policy) { p.IntegrationLevels[3] = 0.4 },
			wantTable: "integration_levels",
		},
		{
			name:      "top weight below one",
			mutate:    func(p *Policy) { p.IntegrationLevels[4] = 0.9 },
			wantTable: "integration_levels",
		},
		{
			name:      "missing class weight",
			mutate:    func(p *Policy) { delete(p.ToolQuality.Weights, ClassOther) },
			wantTable: "tool_quality",
		},
		{
			name:      "zero class weight",
			mutate:    func(p *Policy) { p.ToolQuality.Weights[ClassOther] = 0 },
			wantTable: "tool_quality",
		},
		{
			name:      "unknown class in weights",
			mutate:    func(p *Policy) { p.ToolQuality.Weights["platinum"] = 2.0 },
			wantTable: "tool_quality",
		},
		{
			name: "class ordering violated",
			mutate: func(p *Policy) {
				p.ToolQuality.Weights[ClassApprovedUnmanaged] = 1.3
			},
			wantTable: "tool_quality",
		},
		{
			name: "classification names unknown class",
			mutate: func(p *Policy) {
				p.ToolQuality.Classification["mystery"] = "platinum"
			},
			wantTable: "tool_quality",
		},
		{
			name: "empty tool name in classification",
			mutate: func(p *Policy) {
				p.ToolQuality.Classification["  "] = ClassManaged
			},
			wantTable: "tool_quality",
		},
		{
			name:      "external below one",
			mutate:    func(p *Policy) { p.RiskFactors.External = 0.5 },
			wantTable: "risk_factors",
		},
		{
			name:      "marker below one",
			mutate:    func(p *Policy) { p.RiskFactors.DataMarkers["pii"] = 0.9 },
			wantTable: "risk_factors",
		},
		{
			name:      "empty marker",
			mutate:    func(p *Policy) { p.RiskFactors.DataMarkers[""] = 1.1 },
			wantTable: "risk_factors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPolicy()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantTable == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			cfgErr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("Validate() error type = %T, want *ConfigError", err)
			}
			if cfgErr.Table != tt.wantTable {
				t.Errorf("ConfigError.Table = %q, want %q", cfgErr.Table, tt.wantTable)
			}
		})
	}
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Table: "risk_factors", Reason: "external multiplier 0.5 must be at least 1.0"}
	got := err.Error()
	if !strings.Contains(got, "invalid scoring policy") || !strings.Contains(got, "risk_factors") {
		t.Errorf("Error() = %q, want policy table and reason named", got)
	}
}

func TestIntegrationWeight(t *testing.T) {
	p := validPolicy()
	three := 3
	ten := 10
	neg := -2

	tests := []struct {
		name          string
		level         *int
		wantWeight    float64
		wantEffective int
	}{
		{"nil maps to lowest", nil, 0.0, 0},
		{"defined level", &three, 0.75, 3},
		{"above range clamps to top", &ten, 1.0, 4},
		{"below range clamps to bottom", &neg, 0.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, eff := p.IntegrationWeight(tt.level)
			if w != tt.wantWeight || eff != tt.wantEffective {
				t.Errorf("IntegrationWeight() = (%v, %d), want (%v, %d)", w, eff, tt.wantWeight, tt.wantEffective)
			}
		})
	}
}

func TestIntegrationWeightSparseTable(t *testing.T) {
	p := validPolicy()
	p.IntegrationLevels = map[int]float64{0: 0.0, 2: 0.5, 5: 1.0}

	four := 4
	w, eff := p.IntegrationWeight(&four)
	if w != 0.5 || eff != 2 {
		t.Errorf("IntegrationWeight(4) = (%v, %d), want floor to (0.5, 2)", w, eff)
	}
}

func TestClassify(t *testing.T) {
	q := validPolicy().ToolQuality

	tests := []struct {
		tool string
		want Class
	}{
		{"snyk", ClassManaged},
		{"Snyk", ClassManaged},
		{"  SONARQUBE  ", ClassApprovedUnmanaged},
		{"homegrown-scanner", ClassOther},
		{"", ClassOther},
	}

	for _, tt := range tests {
		if got := q.Classify(tt.tool); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.tool, got, tt.want)
		}
	}
}

func TestWeightFallsBackToOther(t *testing.T) {
	q := validPolicy().ToolQuality
	if got := q.Weight("platinum"); got != 0.6 {
		t.Errorf("Weight(unknown class) = %v, want other-class weight 0.6", got)
	}
}

func TestSortedMarkers(t *testing.T) {
	r := RiskFactors{
		External:    1.5,
		DataMarkers: map[string]float64{"phi": 1.35, "pci": 1.4, "pii": 1.3},
	}
	want := []string{"pci", "phi", "pii"}
	if got := r.SortedMarkers(); !reflect.DeepEqual(got, want) {
		t.Errorf("SortedMarkers() = %v, want %v", got, want)
	}
}

func TestHolderSwap(t *testing.T) {
	base := validPolicy()
	h := NewHolder(base)
	if h.Current() != base {
		t.Fatal("Current() did not return the initial policy")
	}

	bad := validPolicy()
	bad.IntegrationLevels = nil
	if err := h.Swap(bad); err == nil {
		t.Error("Swap(invalid) = nil, want error")
	}
	if h.Current() != base {
		t.Error("failed swap replaced the active policy")
	}

	next := validPolicy()
	next.RiskFactors.External = 2.0
	if err := h.Swap(next); err != nil {
		t.Fatalf("Swap(valid) = %v, want nil", err)
	}
	if h.Current() != next {
		t.Error("Current() did not return the swapped policy")
	}
}
