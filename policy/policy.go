// Package policy holds the scoring configuration tables: integration level
// weights, tool quality classes, and risk factor multipliers.
//
// A Policy is an immutable value object. Load and validate it once at
// startup, then pass it into every scoring call; hot reload swaps whole
// policies through a Holder and never mutates one in place. Broken tables
// are a deployment bug, not a data bug, so validation fails fast with a
// ConfigError instead of letting the engine produce nonsense scores.
package policy

import (
	"fmt"
	"sort"
	"strings"
)

// Class buckets a tool name by how it is governed. Managed tools are operated
// centrally, approved unmanaged tools are vetted but team-run, everything
// else is other.
type Class string

// The three tool quality classes.
const (
	ClassManaged           Class = "managed"
	ClassApprovedUnmanaged Class = "approved_unmanaged"
	ClassOther             Class = "other"
)

// Policy is the full set of scoring tables.
type Policy struct {
	// IntegrationLevels maps an integration level to a weight in [0, 1].
	// Weights are non-decreasing with level and the highest level weighs
	// exactly 1.0.
	IntegrationLevels map[int]float64 `yaml:"integration_levels"`

	ToolQuality ToolQuality `yaml:"tool_quality"`
	RiskFactors RiskFactors `yaml:"risk_factors"`
}

// ToolQuality weights tool classes and classifies tool names into them.
type ToolQuality struct {
	// Weights requires an entry per class, with
	// managed >= approved_unmanaged >= other > 0.
	Weights map[Class]float64 `yaml:"weights"`

	// Classification maps a normalized (lowercased, trimmed) tool name to
	// its class. Names not listed classify as other.
	Classification map[string]Class `yaml:"classification"`
}

// RiskFactors holds the exposure and data-sensitivity multipliers. Every
// multiplier is at least 1.0; risk only ever raises the weight.
type RiskFactors struct {
	// External applies to externally facing applications.
	External float64 `yaml:"external"`

	// DataMarkers maps a sensitivity token (matched case-insensitively as a
	// substring of the record's data_types text) to its multiplier.
	DataMarkers map[string]float64 `yaml:"data_markers"`
}

// ConfigError describes an invalid scoring policy. Policies are validated at
// load time; the scoring engine never re-validates per call.
type ConfigError struct {
	Table  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid scoring policy: %s: %s", e.Table, e.Reason)
}

// Validate checks every table. It returns the first problem found as a
// *ConfigError and nil for a usable policy.
func (p *Policy) Validate() error {
	if err := p.validateIntegrationLevels(); err != nil {
		return err
	}
	if err := p.validateToolQuality(); err != nil {
		return err
	}
	return p.validateRiskFactors()
}

func (p *Policy) validateIntegrationLevels() error {
	if len(p.IntegrationLevels) == 0 {
		return &ConfigError{Table: "integration_levels", Reason: "no levels defined"}
	}

	levels := p.sortedLevels()
	prev := -1.0
	for _, lv := range levels {
		if lv < 0 {
			return &ConfigError{Table: "integration_levels", Reason: fmt.Sprintf("negative level %d", lv)}
		}
		w := p.IntegrationLevels[lv]
		if w < 0 || w > 1 {
			return &ConfigError{Table: "integration_levels", Reason: fmt.Sprintf("level %d weight %v outside [0, 1]", lv, w)}
		}
		if w < prev {
			return &ConfigError{Table: "integration_levels", Reason: fmt.Sprintf("weight decreases at level %d", lv)}
		}
		prev = w
	}

	top := levels[len(levels)-1]
	if p.IntegrationLevels[top] != 1.0 {
		return &ConfigError{Table: "integration_levels", Reason: fmt.Sprintf("highest level %d must weigh 1.0", top)}
	}
	return nil
}

func (p *Policy) validateToolQuality() error {
	for _, c := range []Class{ClassManaged, ClassApprovedUnmanaged, ClassOther} {
		w, ok := p.ToolQuality.Weights[c]
		if !ok {
			return &ConfigError{Table: "tool_quality", Reason: fmt.Sprintf("missing weight for class %q", c)}
		}
		if w <= 0 {
			return &ConfigError{Table: "tool_quality", Reason: fmt.Sprintf("class %q weight %v must be positive", c, w)}
		}
	}
	for c := range p.ToolQuality.Weights {
		if !validClass(c) {
			return &ConfigError{Table: "tool_quality", Reason: fmt.Sprintf("unknown class %q in weights", c)}
		}
	}

	w := p.ToolQuality.Weights
	if w[ClassManaged] < w[ClassApprovedUnmanaged] || w[ClassApprovedUnmanaged] < w[ClassOther] {
		return &ConfigError{Table: "tool_quality", Reason: "weights must satisfy managed >= approved_unmanaged >= other"}
	}

	for name, c := range p.ToolQuality.Classification {
		if strings.TrimSpace(name) == "" {
			return &ConfigError{Table: "tool_quality", Reason: "empty tool name in classification"}
		}
		if !validClass(c) {
			return &ConfigError{Table: "tool_quality", Reason: fmt.Sprintf("tool %q classified as unknown class %q", name, c)}
		}
	}
	return nil
}

func (p *Policy) validateRiskFactors() error {
	if p.RiskFactors.External < 1.0 {
		return &ConfigError{Table: "risk_factors", Reason: fmt.Sprintf("external multiplier %v must be at least 1.0", p.RiskFactors.External)}
	}
	for marker, m := range p.RiskFactors.DataMarkers {
		if strings.TrimSpace(marker) == "" {
			return &ConfigError{Table: "risk_factors", Reason: "empty data marker"}
		}
		if m < 1.0 {
			return &ConfigError{Table: "risk_factors", Reason: fmt.Sprintf("marker %q multiplier %v must be at least 1.0", marker, m)}
		}
	}
	return nil
}

func validClass(c Class) bool {
	switch c {
	case ClassManaged, ClassApprovedUnmanaged, ClassOther:
		return true
	}
	return false
}

// IntegrationWeight looks up the weight for an integration level. A nil level
// means unset and maps to the lowest defined level; out-of-range levels clamp
// to the nearest defined level; a level inside the range but not defined
// floors to the next defined level below it. The effective level used for the
// lookup is returned alongside the weight.
func (p *Policy) IntegrationWeight(level *int) (weight float64, effective int) {
	levels := p.sortedLevels()
	if len(levels) == 0 {
		return 0, 0
	}

	min, max := levels[0], levels[len(levels)-1]
	want := min
	if level != nil {
		want = *level
	}
	switch {
	case want <= min:
		want = min
	case want >= max:
		want = max
	default:
		// Floor to the nearest defined level at or below.
		for _, lv := range levels {
			if lv > want {
				break
			}
			effective = lv
		}
		want = effective
	}
	return p.IntegrationLevels[want], want
}

// MaxIntegrationLevel returns the highest defined level, or 0 for an empty
// table.
func (p *Policy) MaxIntegrationLevel() int {
	levels := p.sortedLevels()
	if len(levels) == 0 {
		return 0
	}
	return levels[len(levels)-1]
}

func (p *Policy) sortedLevels() []int {
	levels := make([]int, 0, len(p.IntegrationLevels))
	for lv := range p.IntegrationLevels {
		levels = append(levels, lv)
	}
	sort.Ints(levels)
	return levels
}

// Classify buckets a free-text tool name. Matching is an exact lookup on the
// normalized name; unknown names are ClassOther.
func (q ToolQuality) Classify(tool string) Class {
	name := strings.ToLower(strings.TrimSpace(tool))
	if c, ok := q.Classification[name]; ok {
		return c
	}
	return ClassOther
}

// Weight returns the multiplier for a class, falling back to the other-class
// weight for anything unrecognized.
func (q ToolQuality) Weight(c Class) float64 {
	if w, ok := q.Weights[c]; ok {
		return w
	}
	return q.Weights[ClassOther]
}

// SortedMarkers returns the data marker names in a stable order so scoring
// output never depends on map iteration order.
func (r RiskFactors) SortedMarkers() []string {
	markers := make([]string, 0, len(r.DataMarkers))
	for m := range r.DataMarkers {
		markers = append(markers, m)
	}
	sort.Strings(markers)
	return markers
}
