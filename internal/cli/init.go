package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/armorline/posture/internal/setup"
	"github.com/armorline/posture/schema"
	"github.com/armorline/posture/score"
)

var (
	initOutput   string
	initName     string
	initCompany  string
	initDefaults bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an application record interactively",
	Long: `Walks through describing an application and writes the record
to <output>/<name>.app.json with a generated ID.

Use --defaults with --name to skip the prompts and emit a skeleton
record for editing by hand.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initOutput, "output", ".", "Directory to write the record into")
	initCmd.Flags().StringVar(&initName, "name", "", "Application name (skips the prompt)")
	initCmd.Flags().StringVar(&initCompany, "company", "", "Company name (skips the prompt)")
	initCmd.Flags().BoolVar(&initDefaults, "defaults", false, "Skip all prompts and write a skeleton record")
}

func runInit(cmd *cobra.Command, args []string) error {
	pol, err := loadPolicy()
	if err != nil {
		return err
	}

	wiz := setup.NewWizard(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), pol)
	wiz.Name = initName
	wiz.Company = initCompany
	wiz.Defaults = initDefaults

	now := time.Now().UTC()
	app, err := wiz.Run(now)
	if err != nil {
		return err
	}

	path := filepath.Join(initOutput, recordFilename(app.Name))
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := app.Save(path); err != nil {
		return err
	}

	res := score.Score(app, pol, now)
	fmt.Fprintf(cmd.OutOrStdout(), "\nRecord written to %s\n", path)
	fmt.Fprintf(cmd.OutOrStdout(), "Posture: [%s] %.1f/100 (knowledge %.1f, tooling %.1f)\n",
		res.Grade, res.TotalScore, res.KnowledgeScore, res.ToolScore)
	return nil
}

// recordFilename derives a safe file name from an application name.
func recordFilename(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		case r == ' ':
			return '-'
		}
		return -1
	}, slug)
	if slug == "" {
		slug = "application"
	}
	return slug + schema.RecordSuffix
}
