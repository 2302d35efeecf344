package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/armorline/posture/internal/inventory"
	"github.com/armorline/posture/policy"
)

var (
	invCompany   string
	invName      string
	invGrade     string
	invSort      string
	invDesc      bool
	invJSON      bool
	invByCompany bool
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory <directory>",
	Short: "List scored applications across a record directory",
	Long: `Scores every record in a directory and lists the results.

The default order puts the worst posture first, so the top of the list
is the work queue. Filters narrow by company, name, or grade; --by-company
rolls the portfolio up to one line per company.`,
	Args: cobra.ExactArgs(1),
	RunE: runInventory,
}

func init() {
	inventoryCmd.Flags().StringVar(&invCompany, "company", "", "Filter by company name substring")
	inventoryCmd.Flags().StringVar(&invName, "name", "", "Filter by application name substring")
	inventoryCmd.Flags().StringVar(&invGrade, "grade", "", "Filter by grade letter (A-F)")
	inventoryCmd.Flags().StringVar(&invSort, "sort", "score", "Sort by: score, name, company, grade, reviewed")
	inventoryCmd.Flags().BoolVar(&invDesc, "desc", false, "Sort descending")
	inventoryCmd.Flags().BoolVar(&invJSON, "json", false, "Output JSON instead of formatted table")
	inventoryCmd.Flags().BoolVar(&invByCompany, "by-company", false, "Aggregate to one line per company")
}

func runInventory(cmd *cobra.Command, args []string) error {
	pol, err := loadPolicy()
	if err != nil {
		return err
	}

	inv := inventory.New(args[0], policy.NewHolder(pol))
	if err := inv.Load(time.Now().UTC()); err != nil {
		return err
	}
	for _, path := range inv.Skipped() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipping %s: not a valid record\n", path)
	}

	out := cmd.OutOrStdout()

	if invByCompany {
		companies := inv.Companies()
		if invJSON {
			data, _ := json.MarshalIndent(companies, "", "  ")
			fmt.Fprintln(out, string(data))
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "COMPANY\tAPPS\tAVG SCORE\tWORST\n")
		fmt.Fprintf(w, "-------\t----\t---------\t-----\n")
		for _, c := range companies {
			fmt.Fprintf(w, "%s\t%d\t%.1f\t%s\n", c.Company, c.Applications, c.AverageScore, c.WorstGrade)
		}
		return w.Flush()
	}

	entries := inv.List(inventory.ListOptions{
		Company:   invCompany,
		Name:      invName,
		Grade:     invGrade,
		SortField: invSort,
		SortDesc:  invDesc,
	})

	if invJSON {
		data, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No records matched.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tCOMPANY\tGRADE\tSCORE\tKNOWLEDGE\tTOOLING\tREVIEWED\n")
	fmt.Fprintf(w, "----\t-------\t-----\t-----\t---------\t-------\t--------\n")
	for _, e := range entries {
		reviewed := "never"
		if e.LastReviewed != nil {
			reviewed = e.LastReviewed.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.1f\t%.1f\t%s\n",
			e.Name, e.Company, e.Grade, e.TotalScore, e.KnowledgeScore, e.ToolScore, reviewed)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d application(s)\n", len(entries))
	return nil
}
