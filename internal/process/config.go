package process

import (
	"fmt"

	"github.com/rest-for-physics/tracklib/internal/config"
	"github.com/rest-for-physics/tracklib/internal/pathorder"
	"github.com/rest-for-physics/tracklib/internal/reduce"
)

// NewChainFromConfig builds the chain listed in cfg.
func NewChainFromConfig(cfg *config.ProcessConfig) (*Chain, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var ps []Process
	for _, name := range cfg.GetProcesses() {
		p, err := newProcess(cfg, name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		ps = append(ps, p)
	}
	return NewChain(ps...), nil
}

func newProcess(cfg *config.ProcessConfig, name string) (Process, error) {
	switch name {
	case config.ProcessReduction:
		return NewReductionProcess(reduce.Params{
			StartingDistance:   cfg.GetReductionStartingDistance(),
			MinimumDistance:    cfg.GetReductionMinimumDistance(),
			DistanceStepFactor: cfg.GetReductionDistanceStepFactor(),
			MaxNodes:           cfg.GetReductionMaxNodes(),
			MaxIterations:      cfg.GetReductionMaxIterations(),
			KMeans:             cfg.GetReductionKMeans(),
		})
	case config.ProcessPathMinimization:
		solver, err := pathorder.NewTourSolver(cfg.GetPathSolver(), cfg.GetPathSolverMaxNodes())
		if err != nil {
			return nil, err
		}
		return NewPathMinimizationProcess(pathorder.Orderer{
			Method:        cfg.GetPathMethod(),
			Cyclic:        cfg.GetPathCyclic(),
			MaxBruteForce: cfg.GetPathMaxBruteForce(),
			Solver:        solver,
		})
	case config.ProcessLinearization:
		return NewLinearizationProcess(cfg.GetLinearizationMaxNodes())
	case config.ProcessAlphaAnalysis:
		return NewAlphaAnalysisProcess(cfg.GetAlphaTrackBalance())
	case config.ProcessPointLike:
		return PointLikeAnalysisProcess{}, nil
	}
	return nil, fmt.Errorf("unknown process %q", name)
}
