package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestKnowledgeFieldsOrder(t *testing.T) {
	app := &Application{
		Description:       "d",
		Owner:             "o",
		RepoURL:           "r",
		Language:          "l",
		Framework:         "f",
		ServerEnvironment: "s",
		AuthProfiles:      "a",
		DataTypes:         "t",
	}

	fields := app.KnowledgeFields()
	if len(fields) != KnowledgeFieldCount {
		t.Fatalf("KnowledgeFields() = %d fields, want %d", len(fields), KnowledgeFieldCount)
	}

	wantOrder := []string{
		"description", "owner", "repo_url", "language",
		"framework", "server_environment", "auth_profiles", "data_types",
	}
	for i, f := range fields {
		if f.Name != wantOrder[i] {
			t.Errorf("field %d = %q, want %q", i, f.Name, wantOrder[i])
		}
		if f.Value == "" {
			t.Errorf("field %q lost its value", f.Name)
		}
	}
}

func TestIsExternal(t *testing.T) {
	tests := []struct {
		facing string
		want   bool
	}{
		{"external", true},
		{"External", true},
		{"  EXTERNAL  ", true},
		{"internal", false},
		{"", false},
		{"dmz", false},
	}

	for _, tt := range tests {
		app := &Application{Facing: tt.facing}
		if got := app.IsExternal(); got != tt.want {
			t.Errorf("IsExternal() with Facing=%q = %v, want %v", tt.facing, got, tt.want)
		}
	}
}

func TestToolSelectionConfigured(t *testing.T) {
	level := 2
	tests := []struct {
		name string
		sel  ToolSelection
		want bool
	}{
		{"named tool", ToolSelection{Tool: "snyk"}, true},
		{"named with level", ToolSelection{Tool: "snyk", IntegrationLevel: &level}, true},
		{"empty", ToolSelection{}, false},
		{"whitespace name", ToolSelection{Tool: "  "}, false},
		{"level without tool", ToolSelection{IntegrationLevel: &level}, false},
	}

	for _, tt := range tests {
		if got := tt.sel.Configured(); got != tt.want {
			t.Errorf("%s: Configured() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// An unset integration level and an explicit level 0 mean different things
// and must survive the wire format.
func TestIntegrationLevelZeroVsUnset(t *testing.T) {
	zero := 0
	app := &Application{
		Tools: ToolProfile{
			SAST: ToolSelection{Tool: "snyk", IntegrationLevel: &zero},
			DAST: ToolSelection{Tool: "zap"},
		},
	}

	data, err := json.Marshal(app)
	if err != nil {
		t.Fatal(err)
	}
	round, err := ParseApplication(data)
	if err != nil {
		t.Fatal(err)
	}

	if round.Tools.SAST.IntegrationLevel == nil || *round.Tools.SAST.IntegrationLevel != 0 {
		t.Errorf("SAST level = %v, want explicit 0", round.Tools.SAST.IntegrationLevel)
	}
	if round.Tools.DAST.IntegrationLevel != nil {
		t.Errorf("DAST level = %v, want nil for unset", round.Tools.DAST.IntegrationLevel)
	}
}

func TestSaveAndLoad(t *testing.T) {
	reviewed := time.Date(2026, time.February, 1, 8, 0, 0, 0, time.UTC)
	level := 3
	app := &Application{
		ID:                   "app-42",
		Name:                 "billing",
		Company:              "acme",
		Description:          "invoicing",
		Facing:               FacingExternal,
		DataTypes:            "pii",
		MetadataLastReviewed: &reviewed,
		Tools: ToolProfile{
			SAST: ToolSelection{Tool: "snyk", IntegrationLevel: &level},
		},
	}

	path := filepath.Join(t.TempDir(), "billing"+RecordSuffix)
	if err := app.Save(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("saved record missing trailing newline")
	}
	if !strings.Contains(string(data), `"metadata_last_reviewed"`) {
		t.Error("saved record missing snake_case review timestamp")
	}

	loaded, err := LoadApplication(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.ID != "app-42" || loaded.Name != "billing" {
		t.Errorf("loaded identity = (%q, %q), want (app-42, billing)", loaded.ID, loaded.Name)
	}
	if loaded.MetadataLastReviewed == nil || !loaded.MetadataLastReviewed.Equal(reviewed) {
		t.Errorf("loaded review time = %v, want %v", loaded.MetadataLastReviewed, reviewed)
	}
	if loaded.Tools.SAST.IntegrationLevel == nil || *loaded.Tools.SAST.IntegrationLevel != 3 {
		t.Errorf("loaded SAST level = %v, want 3", loaded.Tools.SAST.IntegrationLevel)
	}
}

func TestParseApplicationRejectsBadJSON(t *testing.T) {
	if _, err := ParseApplication([]byte("{broken")); err == nil {
		t.Error("ParseApplication(malformed) = nil, want error")
	}
}

func TestIsRecordFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"billing.app.json", true},
		{"a.app.json", true},
		{"billing.json", false},
		{"billing.app.yaml", false},
		{"app.json", false},
	}

	for _, tt := range tests {
		if got := IsRecordFile(tt.name); got != tt.want {
			t.Errorf("IsRecordFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
