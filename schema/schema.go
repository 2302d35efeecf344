// Package schema defines the application security record and the score
// document computed from it.
//
// An application record (.app.json) is the stored snapshot of one software
// application's security metadata: descriptive fields, exposure and
// data-sensitivity attributes, and the tool integrations for the four
// scored categories. Records are owned by whatever system maintains them;
// this package only gives them a shape.
package schema

import (
	"strings"
	"time"
)

// Facing values for the exposure attribute. An empty Facing means unset and
// is treated like internal.
const (
	FacingInternal = "internal"
	FacingExternal = "external"
)

// Application is one application's stored security metadata record.
type Application struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`

	// The eight knowledge-sharing fields. Empty and whitespace-only values
	// count as unfilled.
	Description       string `json:"description,omitempty"`
	Owner             string `json:"owner,omitempty"`
	RepoURL           string `json:"repo_url,omitempty"`
	Language          string `json:"language,omitempty"`
	Framework         string `json:"framework,omitempty"`
	ServerEnvironment string `json:"server_environment,omitempty"`
	AuthProfiles      string `json:"auth_profiles,omitempty"`
	DataTypes         string `json:"data_types,omitempty"`

	// MetadataLastReviewed is set by the review operation, never by the
	// scoring engine.
	MetadataLastReviewed *time.Time `json:"metadata_last_reviewed,omitempty"`

	// Facing is "internal" or "external", compared case-insensitively.
	Facing string `json:"facing,omitempty"`

	Tools ToolProfile `json:"tools"`

	// Score holds the last persisted score when a collaborator chooses to
	// save one (posture score --write). The engine itself never sets it.
	Score *ScoreResult `json:"score,omitempty"`
}

// ToolProfile holds the tool configuration for the four scored categories.
type ToolProfile struct {
	SAST        ToolSelection `json:"sast"`
	DAST        ToolSelection `json:"dast"`
	Firewall    ToolSelection `json:"firewall"`
	APISecurity ToolSelection `json:"api_security"`
}

// ToolSelection describes one category's tool integration. A nil
// IntegrationLevel means unset, which is distinct from level 0.
// NotApplicable is honored only for the API Security category.
type ToolSelection struct {
	Tool             string `json:"tool,omitempty"`
	IntegrationLevel *int   `json:"integration_level,omitempty"`
	NotApplicable    bool   `json:"not_applicable,omitempty"`
}

// IsExternal reports whether the record is flagged as externally facing.
func (a *Application) IsExternal() bool {
	return strings.EqualFold(strings.TrimSpace(a.Facing), FacingExternal)
}

// Configured reports whether a category has a tool name set. Whitespace-only
// names count as unconfigured.
func (t ToolSelection) Configured() bool {
	return strings.TrimSpace(t.Tool) != ""
}

// KnowledgeField pairs a scored metadata field's name with its record value.
type KnowledgeField struct {
	Name  string
	Value string
}

// KnowledgeFieldCount is the number of metadata fields that feed the
// knowledge completeness score.
const KnowledgeFieldCount = 8

// KnowledgeFields returns the scored metadata fields in a fixed order.
// The order is part of the scoring contract: breakdowns list missing fields
// in this order so identical records always produce identical output.
func (a *Application) KnowledgeFields() []KnowledgeField {
	return []KnowledgeField{
		{"description", a.Description},
		{"owner", a.Owner},
		{"repo_url", a.RepoURL},
		{"language", a.Language},
		{"framework", a.Framework},
		{"server_environment", a.ServerEnvironment},
		{"auth_profiles", a.AuthProfiles},
		{"data_types", a.DataTypes},
	}
}

// ScoreResult is the outcome of one scoring run over a record snapshot.
// It is recomputed on demand and carries everything needed to audit the
// calculation by hand.
type ScoreResult struct {
	KnowledgeScore float64   `json:"knowledge_score"`
	ToolScore      float64   `json:"tool_score"`
	TotalScore     float64   `json:"total_score"`
	Grade          string    `json:"grade"`
	ComputedAt     time.Time `json:"computed_at"`
	Breakdown      Breakdown `json:"breakdown"`
}

// Breakdown is the full audit trail of a score.
type Breakdown struct {
	Knowledge KnowledgeBreakdown `json:"knowledge"`
	Risk      RiskBreakdown      `json:"risk"`
	Tools     ToolBreakdown      `json:"tools"`
}

// KnowledgeBreakdown explains the knowledge sharing sub-score.
type KnowledgeBreakdown struct {
	FieldsFilled       int        `json:"fields_filled"`
	FieldsTotal        int        `json:"fields_total"`
	CompletenessPoints float64    `json:"completeness_points"`
	MissingFields      []string   `json:"missing_fields,omitempty"`
	ReviewPoints       float64    `json:"review_points"`
	LastReviewed       *time.Time `json:"last_reviewed,omitempty"`
	ReviewedRecently   bool       `json:"reviewed_recently"`
	ReviewWindowDays   int        `json:"review_window_days"`
}

// RiskBreakdown explains the resolved risk weight. Factors lists every
// detected risk signal; the weight is the highest single multiplier, not a
// product.
type RiskBreakdown struct {
	Weight  float64  `json:"weight"`
	Factors []string `json:"factors,omitempty"`
}

// ToolBreakdown explains the tool usage sub-score. TotalPossible is the
// risk-adjusted ceiling the achieved points are normalized against.
type ToolBreakdown struct {
	Categories    []CategoryBreakdown `json:"categories"`
	TotalAchieved float64             `json:"total_achieved"`
	TotalPossible float64             `json:"total_possible"`
}

// CategoryBreakdown is the audit trail for one tool category.
type CategoryBreakdown struct {
	Category          string  `json:"category"`
	Tool              string  `json:"tool,omitempty"`
	IntegrationLevel  *int    `json:"integration_level,omitempty"`
	BasePoints        float64 `json:"base_points"`
	IntegrationWeight float64 `json:"integration_weight"`
	QualityClass      string  `json:"quality_class,omitempty"`
	QualityWeight     float64 `json:"quality_weight"`
	RiskWeight        float64 `json:"risk_weight"`
	AchievedPoints    float64 `json:"achieved_points"`
	NotApplicable     bool    `json:"not_applicable,omitempty"`
	Note              string  `json:"note,omitempty"`
}
