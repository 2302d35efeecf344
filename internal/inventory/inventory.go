// Package inventory maintains a scored, in-memory view of a directory of
// application records.
package inventory

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/armorline/posture/policy"
	"github.com/armorline/posture/schema"
	"github.com/armorline/posture/score"
)

// Entry is a denormalized application summary for fast listing.
type Entry struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Company        string     `json:"company"`
	Grade          string     `json:"grade"`
	TotalScore     float64    `json:"total_score"`
	KnowledgeScore float64    `json:"knowledge_score"`
	ToolScore      float64    `json:"tool_score"`
	LastReviewed   *time.Time `json:"last_reviewed,omitempty"`
	Path           string     `json:"path"`
}

// ListOptions controls filtering and sorting of inventory listings.
type ListOptions struct {
	Company   string // filter by company name substring (case-insensitive)
	Name      string // filter by application name substring (case-insensitive)
	Grade     string // filter by grade letter
	SortField string // "score", "name", "company", "grade", "reviewed"
	SortDesc  bool
}

// CompanySummary aggregates the scored applications of one company.
type CompanySummary struct {
	Company      string  `json:"company"`
	Applications int     `json:"applications"`
	AverageScore float64 `json:"average_score"`
	WorstGrade   string  `json:"worst_grade"`
}

// Inventory scans a directory of application records and scores each one
// against the active policy.
type Inventory struct {
	mu      sync.RWMutex
	entries []Entry
	skipped []string
	dir     string
	pol     *policy.Holder
}

// New creates an inventory over a record directory. Scoring uses whatever
// policy the holder publishes at load time.
func New(dir string, pol *policy.Holder) *Inventory {
	return &Inventory{dir: dir, pol: pol}
}

// Load reads every record file in the directory and scores it as of now.
// Files that fail to parse are skipped and reported through Skipped.
func (inv *Inventory) Load(now time.Time) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	dirEntries, err := os.ReadDir(inv.dir)
	if err != nil {
		if os.IsNotExist(err) {
			inv.entries = nil
			inv.skipped = nil
			return nil
		}
		return fmt.Errorf("reading record dir: %w", err)
	}

	pol := inv.pol.Current()
	var entries []Entry
	var skipped []string
	for _, de := range dirEntries {
		if de.IsDir() || !schema.IsRecordFile(de.Name()) {
			continue
		}

		path := filepath.Join(inv.dir, de.Name())
		app, err := schema.LoadApplication(path)
		if err != nil {
			skipped = append(skipped, path)
			continue
		}

		res := score.Score(app, pol, now)
		entries = append(entries, Entry{
			ID:             app.ID,
			Name:           app.Name,
			Company:        app.Company,
			Grade:          res.Grade,
			TotalScore:     res.TotalScore,
			KnowledgeScore: res.KnowledgeScore,
			ToolScore:      res.ToolScore,
			LastReviewed:   res.Breakdown.Knowledge.LastReviewed,
			Path:           path,
		})
	}

	inv.entries = entries
	inv.skipped = skipped
	return nil
}

// List returns entries matching the given options. The default order is
// ascending total score, worst posture first.
func (inv *Inventory) List(opts ListOptions) []Entry {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	var filtered []Entry
	for _, e := range inv.entries {
		if opts.Company != "" && !strings.Contains(strings.ToLower(e.Company), strings.ToLower(opts.Company)) {
			continue
		}
		if opts.Name != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(opts.Name)) {
			continue
		}
		if opts.Grade != "" && !strings.EqualFold(e.Grade, opts.Grade) {
			continue
		}
		filtered = append(filtered, e)
	}

	sortEntries(filtered, opts.SortField, opts.SortDesc)
	return filtered
}

// Get re-reads the full record behind an entry and attaches a fresh score.
func (inv *Inventory) Get(id string, now time.Time) (*schema.Application, error) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	for _, e := range inv.entries {
		if e.ID != id {
			continue
		}
		app, err := schema.LoadApplication(e.Path)
		if err != nil {
			return nil, err
		}
		app.Score = score.Score(app, inv.pol.Current(), now)
		return app, nil
	}
	return nil, fmt.Errorf("application not found: %s", id)
}

// Companies groups entries by company, sorted by company name.
func (inv *Inventory) Companies() []CompanySummary {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	byCompany := make(map[string][]Entry)
	for _, e := range inv.entries {
		byCompany[e.Company] = append(byCompany[e.Company], e)
	}

	summaries := make([]CompanySummary, 0, len(byCompany))
	for company, entries := range byCompany {
		s := CompanySummary{Company: company, Applications: len(entries)}
		for _, e := range entries {
			s.AverageScore += e.TotalScore
			if e.Grade > s.WorstGrade {
				s.WorstGrade = e.Grade
			}
		}
		s.AverageScore /= float64(len(entries))
		summaries = append(summaries, s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Company < summaries[j].Company
	})
	return summaries
}

// Count returns the number of scored records.
func (inv *Inventory) Count() int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return len(inv.entries)
}

// Skipped returns the paths of record files the last Load could not parse.
func (inv *Inventory) Skipped() []string {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.skipped
}

func sortEntries(entries []Entry, field string, desc bool) {
	sort.Slice(entries, func(i, j int) bool {
		c := compareEntries(entries[i], entries[j], field)
		if c == 0 {
			c = strings.Compare(entries[i].ID, entries[j].ID)
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareEntries(a, b Entry, field string) int {
	switch field {
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "company":
		return strings.Compare(a.Company, b.Company)
	case "grade":
		return strings.Compare(a.Grade, b.Grade)
	case "reviewed":
		return compareReviewed(a.LastReviewed, b.LastReviewed)
	default: // "score" or empty: worst posture first
		switch {
		case a.TotalScore < b.TotalScore:
			return -1
		case a.TotalScore > b.TotalScore:
			return 1
		}
		return 0
	}
}

// compareReviewed orders never-reviewed records first, then oldest review
// first.
func compareReviewed(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case a.Before(*b):
		return -1
	case b.Before(*a):
		return 1
	}
	return 0
}
