// Package cli implements the posture command line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/armorline/posture/policy"
)

const version = "0.4.0"

var policyPath string

var rootCmd = &cobra.Command{
	Use:   "posture",
	Short: "Score the security posture of your application portfolio",
	Long: `Posture turns application records into auditable security scores.

Each record describes an application: who owns it, what it is built on,
what data it handles, and which security tools cover it. Posture scores
the record 0-100 against a configurable policy and breaks the result
down so every point can be traced to a field or a tool.

Records are plain .app.json files, so they live in git next to the
applications they describe.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&policyPath, "policy", "", "Scoring policy file (default: built-in, or POSTURE_POLICY)")
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(initCmd)
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadPolicy resolves the active policy: the --policy flag, then the
// POSTURE_POLICY environment variable, then the built-in default.
func loadPolicy() (*policy.Policy, error) {
	path := policyPath
	if path == "" {
		path = os.Getenv("POSTURE_POLICY")
	}
	if path == "" {
		return policy.Default(), nil
	}
	return policy.Load(path)
}
