package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// RecordSuffix is the filename suffix for application record files.
const RecordSuffix = ".app.json"

// ParseApplication decodes an application record from JSON bytes.
func ParseApplication(data []byte) (*Application, error) {
	var app Application
	if err := json.Unmarshal(data, &app); err != nil {
		return nil, fmt.Errorf("invalid record JSON: %w", err)
	}
	return &app, nil
}

// LoadApplication reads and parses an application record file.
func LoadApplication(path string) (*Application, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}
	app, err := ParseApplication(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return app, nil
}

// Save writes the record as indented JSON, the same shape posture init
// scaffolds and posture score --write updates.
func (a *Application) Save(path string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

// IsRecordFile reports whether a filename looks like an application record.
func IsRecordFile(name string) bool {
	return strings.HasSuffix(name, RecordSuffix)
}
