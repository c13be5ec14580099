package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/pytestgen/cmd/pytestgen/commands"
	"github.com/teranos/pytestgen/logger"
)

var rootCmd = &cobra.Command{
	Use:   "pytestgen",
	Short: "pytestgen - Convert declarative testcases to pytest files",
	Long: `pytestgen - Convert declarative API testcases to pytest files.

pytestgen transpiles YAML/JSON testcase and testsuite documents (plus
legacy HAR captures) into standalone pytest files runnable by the
HttpRunner framework. Cross-document references are resolved into a
dependency-ordered set of generated files with correct import wiring.

Examples:
  pytestgen make testcases/demo.yml    # Generate one testcase
  pytestgen make testcases/            # Generate a whole folder
  pytestgen make --watch testcases/    # Regenerate on change`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		if err := logger.Initialize(verbosity, jsonOutput); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json", false, "Log as JSON lines instead of console output")

	rootCmd.AddCommand(commands.MakeCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
