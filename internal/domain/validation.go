package domain

// ValidationResult scores one route-construction method over the same stop
// set. Results are diagnostic only and ephemeral per run.
type ValidationResult struct {
	Method            string
	TotalMeters       float64
	TotalMinutes      float64
	StopCount         int
	AvgMinutesPerStop float64
	// RedundancyCount is the number of stops whose rounded coordinate repeats
	// an earlier stop's in the same route.
	RedundancyCount int
	// PctFromOptimal is the distance deviation from the exact-solver baseline
	// in percent. Nil when the solver was unavailable, and zero for the
	// baseline itself.
	PctFromOptimal *float64
}

// Method names reported by the validator.
const (
	MethodNearestNeighbor = "Nearest Neighbor"
	MethodRandomOrder     = "Random Order"
	MethodEuclideanGreedy = "Euclidean Greedy"
	MethodExactSolver     = "Exact Solver"
)
