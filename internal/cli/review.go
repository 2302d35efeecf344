package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/armorline/posture/schema"
	"github.com/armorline/posture/score"
)

var reviewAt string

var reviewCmd = &cobra.Command{
	Use:   "review <file>",
	Short: "Mark an application record as reviewed",
	Long: `Records a metadata review on an application record.

A recent review is worth 10 posture points; the clock resets every time
someone confirms the record still matches reality. The refreshed score
is written back into the record alongside the timestamp.

Use --at to backdate a review that happened off-line.`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVar(&reviewAt, "at", "", "Review timestamp in RFC 3339 (default: now)")
}

func runReview(cmd *cobra.Command, args []string) error {
	pol, err := loadPolicy()
	if err != nil {
		return err
	}

	app, err := schema.LoadApplication(args[0])
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	reviewed := now
	if reviewAt != "" {
		reviewed, err = time.Parse(time.RFC3339, reviewAt)
		if err != nil {
			return fmt.Errorf("parsing --at: %w", err)
		}
		reviewed = reviewed.UTC()
	}

	app.MetadataLastReviewed = &reviewed
	app.Score = score.Score(app, pol, now)
	if err := app.Save(args[0]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Marked %s as reviewed at %s\n", app.Name, reviewed.Format(time.RFC3339))
	fmt.Fprintf(cmd.OutOrStdout(), "Posture: [%s] %.1f/100 (knowledge %.1f, tooling %.1f)\n",
		app.Score.Grade, app.Score.TotalScore, app.Score.KnowledgeScore, app.Score.ToolScore)
	return nil
}
