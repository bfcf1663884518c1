package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "interventionctl",
	Short: "Operator tooling for the intervention API",
	Long: `interventionctl runs maintenance tasks against the intervention database and
evaluates incidents with the escalation decision tree.

Examples:
  interventionctl migrate
  interventionctl assess --student stu-1 --domain hallways --demerit --occurrences 3`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&color.NoColor, "no-color", color.NoColor, "Disable colored output")
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newAssessCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
