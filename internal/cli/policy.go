package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/armorline/posture/policy"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect and validate scoring policies",
}

var policyValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check that a policy file is usable",
	Long: `Validates the tables of a scoring policy.

With no argument the active policy is checked: the --policy flag, the
POSTURE_POLICY environment variable, or the built-in default.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPolicyValidate,
}

var policyShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Print the tables of a policy",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPolicyShow,
}

func init() {
	policyCmd.AddCommand(policyValidateCmd)
	policyCmd.AddCommand(policyShowCmd)
}

func resolvePolicyArg(args []string) (*policy.Policy, error) {
	if len(args) == 1 {
		return policy.Load(args[0])
	}
	return loadPolicy()
}

func runPolicyValidate(cmd *cobra.Command, args []string) error {
	pol, err := resolvePolicyArg(args)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "policy valid: %d integration levels, %d classified tools, %d data markers\n",
		len(pol.IntegrationLevels), len(pol.ToolQuality.Classification), len(pol.RiskFactors.DataMarkers))
	return nil
}

func runPolicyShow(cmd *cobra.Command, args []string) error {
	pol, err := resolvePolicyArg(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(out, "INTEGRATION LEVELS")
	levels := make([]int, 0, len(pol.IntegrationLevels))
	for lv := range pol.IntegrationLevels {
		levels = append(levels, lv)
	}
	sort.Ints(levels)
	for _, lv := range levels {
		fmt.Fprintf(w, "  %d\tx%.2f\n", lv, pol.IntegrationLevels[lv])
	}
	w.Flush()

	fmt.Fprintln(out, "\nTOOL QUALITY")
	for _, c := range []policy.Class{policy.ClassManaged, policy.ClassApprovedUnmanaged, policy.ClassOther} {
		fmt.Fprintf(w, "  %s\tx%.2f\n", c, pol.ToolQuality.Weights[c])
	}
	w.Flush()

	if len(pol.ToolQuality.Classification) > 0 {
		fmt.Fprintln(out, "\nCLASSIFIED TOOLS")
		tools := make([]string, 0, len(pol.ToolQuality.Classification))
		for name := range pol.ToolQuality.Classification {
			tools = append(tools, name)
		}
		sort.Strings(tools)
		for _, name := range tools {
			fmt.Fprintf(w, "  %s\t%s\n", name, pol.ToolQuality.Classification[name])
		}
		w.Flush()
	}

	fmt.Fprintln(out, "\nRISK FACTORS")
	fmt.Fprintf(w, "  external\tx%.2f\n", pol.RiskFactors.External)
	for _, marker := range pol.RiskFactors.SortedMarkers() {
		fmt.Fprintf(w, "  data: %s\tx%.2f\n", marker, pol.RiskFactors.DataMarkers[marker])
	}
	return w.Flush()
}
