package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/arl/pcbroute/astar"
	"github.com/arl/pcbroute/geom"
	"github.com/arl/pcbroute/pcb"
	"github.com/spf13/cobra"
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate BOARD SOLUTION",
	Short: "check a solved board against the routing invariants",
	Long: `Read a board fixture and a solution fixture (both YAML), then check
the geometric invariants spec.md §8 names: every trace segment has a valid
direction, consecutive anchors agree on layer, and no fixed trace collides
with a pad or trace of a different net.`,
	Args: cobra.ExactArgs(2),
	Run:  doValidate,
}

func init() {
	RootCmd.AddCommand(validateCmd)
}

func doValidate(cmd *cobra.Command, args []string) {
	boardData, err := ioutil.ReadFile(args[0])
	check(err)
	problem, err := pcb.LoadFixture(boardData)
	check(err)

	solData, err := ioutil.ReadFile(args[1])
	check(err)
	solution, err := pcb.LoadSolutionFixture(solData, problem)
	check(err)

	failures := validateSolution(problem, solution)
	if len(failures) == 0 {
		fmt.Println("solution is valid")
		return
	}
	for _, f := range failures {
		fmt.Println("invalid:", f)
	}
	os.Exit(1)
}

func validateSolution(problem *pcb.Problem, solution *pcb.Solution) []string {
	var failures []string

	for _, id := range problem.AllConnectionIDs() {
		ft, ok := solution.DeterminedTraces[id]
		if !ok {
			failures = append(failures, fmt.Sprintf("connection %d has no fixed trace", id))
			continue
		}
		failures = append(failures, validateAnchors(id, ft.TracePath)...)
	}

	for _, ft := range solution.DeterminedTraces {
		obstacles := astar.BuildObstacles(problem, ft.NetName, solution.DeterminedTraces)
		if obstacles.PathCollides(ft.TracePath) {
			failures = append(failures, fmt.Sprintf("connection %d (net %s) collides with another net", ft.ConnectionID, ft.NetName))
		}
	}

	return failures
}

func validateAnchors(id pcb.ConnectionID, tp pcb.TracePath) []string {
	var failures []string
	for i := 0; i+1 < len(tp.Anchors); i++ {
		a, b := tp.Anchors[i], tp.Anchors[i+1]
		if a.EndLayer != b.StartLayer {
			failures = append(failures, fmt.Sprintf("connection %d: anchor %d end_layer != anchor %d start_layer", id, i, i+1))
		}
		if _, _, err := geom.FromPoints(a.Position, b.Position); err != nil {
			failures = append(failures, fmt.Sprintf("connection %d: segment %d->%d has no valid direction: %v", id, i, i+1, err))
		}
	}
	return failures
}
