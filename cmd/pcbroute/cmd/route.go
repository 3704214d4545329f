package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/arl/pcbroute/config"
	"github.com/arl/pcbroute/pcb"
	"github.com/arl/pcbroute/route"
	"github.com/spf13/cobra"
)

var routeCfgPath string

// routeCmd represents the route command.
var routeCmd = &cobra.Command{
	Use:   "route BOARD",
	Short: "route a PCB fixture and print statistics",
	Long: `Read a board fixture (YAML) and an optional hyperparameter file,
run the solver, and print the routing statistics: total routed length,
total via count, elapsed wall time and A* invocation count.`,
	Args: cobra.ExactArgs(1),
	Run:  doRoute,
}

func init() {
	RootCmd.AddCommand(routeCmd)
	routeCmd.Flags().StringVar(&routeCfgPath, "config", "", "hyperparameter YAML file (defaults to recommended values)")
}

func doRoute(cmd *cobra.Command, args []string) {
	boardData, err := ioutil.ReadFile(args[0])
	check(err)

	problem, err := pcb.LoadFixture(boardData)
	check(err)

	cfg := config.Default()
	if routeCfgPath != "" {
		cfgData, err := ioutil.ReadFile(routeCfgPath)
		check(err)
		cfg, err = config.Load(cfgData)
		check(err)
	}

	solution, stats, err := route.Solve(problem, cfg, nil)
	if err != nil {
		fmt.Println("routing failed:", err)
		if rerr, ok := err.(*route.Error); ok {
			fmt.Println("kind:", rerr.Kind)
		}
		os.Exit(1)
		return
	}

	fmt.Printf("solved %d connections\n", len(solution.DeterminedTraces))
	fmt.Printf("total routed length: %.3f\n", stats.TotalRoutedLength)
	fmt.Printf("total vias: %d\n", stats.TotalVias)
	fmt.Printf("elapsed: %s\n", stats.Elapsed)
	fmt.Printf("astar invocations: %d\n", stats.AstarInvocations)
}
