package config

import (
	"fmt"
)

// PriorProbability returns a new candidate's prior at the given sample
// iteration (1-based), per spec.md §4.4's priors table.
func PriorProbability(iteration int, v Values) (float64, error) {
	switch iteration {
	case 1:
		return v.FirstIterationProbability, nil
	case 2:
		return (1 - v.FirstIterationProbability) * v.SecondIterationProbability / float64(v.SecondIterationNumTraces), nil
	default:
		return 0, fmt.Errorf("config: no prior-probability entry for iteration %d (table only covers iterations 1-2, see DESIGN.md Open Question c)", iteration)
	}
}

// NumTraces returns the candidate quota for the given sample iteration.
func NumTraces(iteration int, v Values) (uint, error) {
	switch iteration {
	case 1:
		return 1, nil
	case 2:
		return v.SecondIterationNumTraces, nil
	default:
		return 0, fmt.Errorf("config: no num-traces entry for iteration %d (table only covers iterations 1-2)", iteration)
	}
}

// RemainingProbability returns the probability mass not yet allocated by
// the end of the given sample iteration — the residual mass used when
// sampling "absent" during candidate generation.
func RemainingProbability(iteration int, v Values) (float64, error) {
	switch iteration {
	case 1:
		return 1 - v.FirstIterationProbability, nil
	case 2:
		return (1 - v.FirstIterationProbability) * (1 - v.SecondIterationProbability), nil
	default:
		return 0, fmt.Errorf("config: no remaining-probability entry for iteration %d (table only covers iterations 1-2)", iteration)
	}
}
