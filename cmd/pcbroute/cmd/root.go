package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "pcbroute",
	Short: "route copper traces on a PCB",
	Long: `pcbroute routes copper traces between pads of a PCB netlist:
	- read a board fixture and hyperparameter file (both YAML),
	- run the Bayesian or ordered backtracker,
	- print the resulting routing statistics,
	- validate a solution's geometric invariants against its problem.`,
}

// Execute adds all child commands to RootCmd and runs it. Called once by
// main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func check(err error) {
	if err != nil {
		fmt.Printf("error, %v\n", err)
		os.Exit(1)
	}
}
