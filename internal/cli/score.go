package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/armorline/posture/schema"
	"github.com/armorline/posture/score"
)

var (
	scoreJSON  bool
	scoreWrite bool
)

var scoreCmd = &cobra.Command{
	Use:   "score <file|directory>",
	Short: "Score application records",
	Long: `Scores an application record 0-100 and explains every point.

The total splits into two halves:
  Knowledge — how completely the application is described and how
              recently its metadata was reviewed (0-50).
  Tooling   — how well SAST, DAST, firewall, and API security coverage
              holds up against the application's risk profile (0-50).

Pass a single .app.json file or a directory to score every record in it.
Use --json for machine-readable output.
Use --write to save scores back into the record files.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Output JSON instead of formatted text")
	scoreCmd.Flags().BoolVar(&scoreWrite, "write", false, "Write scores back into the record files")
}

type scoreEntry struct {
	File    string              `json:"file"`
	Name    string              `json:"name"`
	Company string              `json:"company,omitempty"`
	Result  *schema.ScoreResult `json:"score"`
}

func runScore(cmd *cobra.Command, args []string) error {
	pol, err := loadPolicy()
	if err != nil {
		return err
	}

	files, err := collectRecordFiles(args[0])
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	var results []scoreEntry
	for _, f := range files {
		app, err := schema.LoadApplication(f)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipping %s: %v\n", f, err)
			continue
		}

		res := score.Score(app, pol, now)
		results = append(results, scoreEntry{
			File:    filepath.Base(f),
			Name:    app.Name,
			Company: app.Company,
			Result:  res,
		})

		if scoreWrite {
			app.Score = res
			if err := app.Save(f); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not write %s: %v\n", f, err)
			}
		}
	}

	if len(results) == 0 {
		return fmt.Errorf("no valid application records to score")
	}

	if scoreJSON {
		out, _ := json.MarshalIndent(results, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	out := cmd.OutOrStdout()
	if len(results) == 1 {
		printDetailedScore(out, results[0])
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tCOMPANY\tGRADE\tSCORE\tKNOWLEDGE\tTOOLING\n")
	fmt.Fprintf(w, "----\t-------\t-----\t-----\t---------\t-------\n")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.1f\t%.1f\n",
			r.Name, r.Company,
			r.Result.Grade, r.Result.TotalScore,
			r.Result.KnowledgeScore, r.Result.ToolScore,
		)
	}
	w.Flush()

	fmt.Fprintln(out)
	for _, r := range results {
		printDetailedScore(out, r)
		fmt.Fprintln(out)
	}
	return nil
}

// collectRecordFiles resolves a path argument to the record files it names.
func collectRecordFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && schema.IsRecordFile(e.Name()) {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", schema.RecordSuffix, path)
	}
	return files, nil
}

func printDetailedScore(out io.Writer, r scoreEntry) {
	res := r.Result
	title := r.Name
	if r.Company != "" {
		title = fmt.Sprintf("%s (%s)", r.Name, r.Company)
	}
	fmt.Fprintf(out, "SECURITY POSTURE: %s  [%s] %.1f/100\n", title, res.Grade, res.TotalScore)
	fmt.Fprintln(out, strings.Repeat("─", 60))

	kb := res.Breakdown.Knowledge
	fmt.Fprintf(out, "  Knowledge  %.1f/%.0f\n", res.KnowledgeScore, score.MaxKnowledgeScore)
	fmt.Fprintf(out, "    - %d/%d metadata fields filled (+%.1f)\n", kb.FieldsFilled, kb.FieldsTotal, kb.CompletenessPoints)
	if len(kb.MissingFields) > 0 {
		fmt.Fprintf(out, "    - missing: %s\n", strings.Join(kb.MissingFields, ", "))
	}
	switch {
	case kb.LastReviewed == nil:
		fmt.Fprintf(out, "    - metadata never reviewed\n")
	case kb.ReviewedRecently:
		fmt.Fprintf(out, "    - reviewed %s, within %d days (+%.1f)\n", kb.LastReviewed.Format("2006-01-02"), kb.ReviewWindowDays, kb.ReviewPoints)
	default:
		fmt.Fprintf(out, "    - last review %s is outside the %d-day window\n", kb.LastReviewed.Format("2006-01-02"), kb.ReviewWindowDays)
	}

	rb := res.Breakdown.Risk
	fmt.Fprintf(out, "  Risk       x%.2f\n", rb.Weight)
	for _, f := range rb.Factors {
		fmt.Fprintf(out, "    - %s\n", f)
	}

	tb := res.Breakdown.Tools
	fmt.Fprintf(out, "  Tooling    %.1f/%.0f\n", res.ToolScore, score.MaxToolScore)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, cb := range tb.Categories {
		tool, level, class := "-", "-", "-"
		if cb.Tool != "" {
			tool = cb.Tool
			class = cb.QualityClass
		}
		if cb.IntegrationLevel != nil {
			level = fmt.Sprintf("%d", *cb.IntegrationLevel)
		}
		fmt.Fprintf(w, "    %s\t%s\t%s\t%s\t%.1f\t%s\n",
			cb.Category, tool, level, class, cb.AchievedPoints, cb.Note)
	}
	w.Flush()
}
