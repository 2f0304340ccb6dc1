package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/rest-for-physics/tracklib/internal/fsutil"
	"github.com/rest-for-physics/tracklib/internal/pathorder"
)

// ExampleConfigPath is the sample process configuration shipped with the
// repository.
const ExampleConfigPath = "config/process.example.json"

// maxConfigSize caps configuration files at 1MB.
const maxConfigSize = 1 * 1024 * 1024

// Process names accepted in the "processes" list.
const (
	ProcessReduction        = "reduction"
	ProcessPathMinimization = "pathMinimization"
	ProcessLinearization    = "linearization"
	ProcessAlphaAnalysis    = "alphaAnalysis"
	ProcessPointLike        = "pointLikeAnalysis"
)

var knownProcesses = map[string]bool{
	ProcessReduction:        true,
	ProcessPathMinimization: true,
	ProcessLinearization:    true,
	ProcessAlphaAnalysis:    true,
	ProcessPointLike:        true,
}

// ProcessConfig is the JSON configuration of the event processing chain.
// Every field is optional; the Get* methods supply defaults for omitted
// fields so partial files are safe.
type ProcessConfig struct {
	// Processes lists the chain in execution order.
	Processes []string `json:"processes,omitempty"`
	Workers   *int     `json:"workers,omitempty"`

	// Reduction params
	ReductionStartingDistance   *float64 `json:"reduction_starting_distance,omitempty"`
	ReductionMinimumDistance    *float64 `json:"reduction_minimum_distance,omitempty"`
	ReductionDistanceStepFactor *float64 `json:"reduction_distance_step_factor,omitempty"`
	ReductionMaxNodes           *int     `json:"reduction_max_nodes,omitempty"`
	ReductionMaxIterations      *int     `json:"reduction_max_iterations,omitempty"`
	ReductionKMeans             *bool    `json:"reduction_kmeans,omitempty"`

	// Path minimization params
	PathMethod         *string `json:"path_method,omitempty"` // "default", "bruteforce" or "closestN"
	PathCyclic         *bool   `json:"path_cyclic,omitempty"`
	PathMaxBruteForce  *int    `json:"path_max_brute_force,omitempty"`
	PathSolver         *string `json:"path_solver,omitempty"` // "branchbound" or "heldkarp"
	PathSolverMaxNodes *int    `json:"path_solver_max_nodes,omitempty"`

	// Linearization params
	LinearizationMaxNodes *int `json:"linearization_max_nodes,omitempty"`

	// Alpha analysis params
	AlphaTrackBalance *float64 `json:"alpha_track_balance,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultProcessConfig returns a config with every field set to its default.
func DefaultProcessConfig() *ProcessConfig {
	return &ProcessConfig{
		Processes:                   []string{ProcessReduction, ProcessPathMinimization},
		Workers:                     ptrInt(1),
		ReductionStartingDistance:   ptrFloat64(0.5),
		ReductionMinimumDistance:    ptrFloat64(3),
		ReductionDistanceStepFactor: ptrFloat64(1.5),
		ReductionMaxNodes:           ptrInt(30),
		ReductionMaxIterations:      ptrInt(100),
		ReductionKMeans:             ptrBool(false),
		PathMethod:                  ptrString("default"),
		PathCyclic:                  ptrBool(false),
		PathMaxBruteForce:           ptrInt(pathorder.DefaultMaxBruteForce),
		PathSolver:                  ptrString("branchbound"),
		PathSolverMaxNodes:          ptrInt(pathorder.DefaultBranchBoundNodes),
		LinearizationMaxNodes:       ptrInt(6),
		AlphaTrackBalance:           ptrFloat64(0.65),
	}
}

// LoadProcessConfig loads a ProcessConfig from a JSON file on fsys.
// The file must have a .json extension and be at most 1MB.
func LoadProcessConfig(fsys fsutil.FileSystem, path string) (*ProcessConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &ProcessConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that are set.
func (c *ProcessConfig) Validate() error {
	for _, p := range c.Processes {
		if !knownProcesses[p] {
			return fmt.Errorf("unknown process %q", p)
		}
	}
	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
	}

	if c.ReductionStartingDistance != nil && !(*c.ReductionStartingDistance > 0) {
		return fmt.Errorf("reduction_starting_distance must be positive, got %f", *c.ReductionStartingDistance)
	}
	if c.ReductionMinimumDistance != nil && !(*c.ReductionMinimumDistance >= 0) {
		return fmt.Errorf("reduction_minimum_distance must be non-negative, got %f", *c.ReductionMinimumDistance)
	}
	if c.ReductionDistanceStepFactor != nil && !(*c.ReductionDistanceStepFactor > 1) {
		return fmt.Errorf("reduction_distance_step_factor must exceed 1, got %f", *c.ReductionDistanceStepFactor)
	}
	if c.ReductionMaxNodes != nil && *c.ReductionMaxNodes < 1 {
		return fmt.Errorf("reduction_max_nodes must be at least 1, got %d", *c.ReductionMaxNodes)
	}
	if c.ReductionMaxIterations != nil && *c.ReductionMaxIterations < 1 {
		return fmt.Errorf("reduction_max_iterations must be at least 1, got %d", *c.ReductionMaxIterations)
	}

	if c.PathMethod != nil {
		if _, err := pathorder.ParseMethod(*c.PathMethod); err != nil {
			return fmt.Errorf("invalid path_method: %w", err)
		}
	}
	if c.PathMaxBruteForce != nil && *c.PathMaxBruteForce < 1 {
		return fmt.Errorf("path_max_brute_force must be at least 1, got %d", *c.PathMaxBruteForce)
	}
	if c.PathSolverMaxNodes != nil && *c.PathSolverMaxNodes < 1 {
		return fmt.Errorf("path_solver_max_nodes must be at least 1, got %d", *c.PathSolverMaxNodes)
	}
	if _, err := pathorder.NewTourSolver(c.GetPathSolver(), c.GetPathSolverMaxNodes()); err != nil {
		return fmt.Errorf("invalid path_solver: %w", err)
	}

	if c.LinearizationMaxNodes != nil && *c.LinearizationMaxNodes < 2 {
		return fmt.Errorf("linearization_max_nodes must be at least 2, got %d", *c.LinearizationMaxNodes)
	}
	if c.AlphaTrackBalance != nil && (*c.AlphaTrackBalance < 0 || *c.AlphaTrackBalance > 1) {
		return fmt.Errorf("alpha_track_balance must be between 0 and 1, got %f", *c.AlphaTrackBalance)
	}
	return nil
}

// GetProcesses returns the process chain or the default chain.
func (c *ProcessConfig) GetProcesses() []string {
	if len(c.Processes) == 0 {
		return []string{ProcessReduction, ProcessPathMinimization}
	}
	return append([]string(nil), c.Processes...)
}

// GetWorkers returns the event worker count or the default.
func (c *ProcessConfig) GetWorkers() int {
	if c.Workers == nil {
		return 1
	}
	return *c.Workers
}

// GetReductionStartingDistance returns the reduction_starting_distance value or the default.
func (c *ProcessConfig) GetReductionStartingDistance() float64 {
	if c.ReductionStartingDistance == nil {
		return 0.5
	}
	return *c.ReductionStartingDistance
}

// GetReductionMinimumDistance returns the reduction_minimum_distance value or the default.
func (c *ProcessConfig) GetReductionMinimumDistance() float64 {
	if c.ReductionMinimumDistance == nil {
		return 3
	}
	return *c.ReductionMinimumDistance
}

// GetReductionDistanceStepFactor returns the reduction_distance_step_factor value or the default.
func (c *ProcessConfig) GetReductionDistanceStepFactor() float64 {
	if c.ReductionDistanceStepFactor == nil {
		return 1.5
	}
	return *c.ReductionDistanceStepFactor
}

// GetReductionMaxNodes returns the reduction_max_nodes value or the default.
func (c *ProcessConfig) GetReductionMaxNodes() int {
	if c.ReductionMaxNodes == nil {
		return 30
	}
	return *c.ReductionMaxNodes
}

// GetReductionMaxIterations returns the reduction_max_iterations value or the default.
func (c *ProcessConfig) GetReductionMaxIterations() int {
	if c.ReductionMaxIterations == nil {
		return 100
	}
	return *c.ReductionMaxIterations
}

// GetReductionKMeans returns the reduction_kmeans value or the default.
func (c *ProcessConfig) GetReductionKMeans() bool {
	if c.ReductionKMeans == nil {
		return false // default: merge only
	}
	return *c.ReductionKMeans
}

// GetPathMethod parses path_method, falling back to the default solver.
func (c *ProcessConfig) GetPathMethod() pathorder.Method {
	if c.PathMethod == nil {
		return pathorder.Exact
	}
	m, err := pathorder.ParseMethod(*c.PathMethod)
	if err != nil {
		return pathorder.Exact // default on parse error
	}
	return m
}

// GetPathCyclic returns the path_cyclic value or the default.
func (c *ProcessConfig) GetPathCyclic() bool {
	if c.PathCyclic == nil {
		return false
	}
	return *c.PathCyclic
}

// GetPathMaxBruteForce returns the path_max_brute_force value or the default.
func (c *ProcessConfig) GetPathMaxBruteForce() int {
	if c.PathMaxBruteForce == nil {
		return pathorder.DefaultMaxBruteForce
	}
	return *c.PathMaxBruteForce
}

// GetPathSolver returns the path_solver value or "branchbound".
func (c *ProcessConfig) GetPathSolver() string {
	if c.PathSolver == nil || *c.PathSolver == "" {
		return "branchbound"
	}
	return *c.PathSolver
}

// GetPathSolverMaxNodes returns the path_solver_max_nodes value or the
// default of the selected solver.
func (c *ProcessConfig) GetPathSolverMaxNodes() int {
	if c.PathSolverMaxNodes != nil {
		return *c.PathSolverMaxNodes
	}
	if s, err := pathorder.NewTourSolver(c.GetPathSolver(), 0); err == nil {
		if _, ok := s.(pathorder.HeldKarpSolver); ok {
			return pathorder.DefaultSolverNodes
		}
	}
	return pathorder.DefaultBranchBoundNodes
}

// GetLinearizationMaxNodes returns the linearization_max_nodes value or the default.
func (c *ProcessConfig) GetLinearizationMaxNodes() int {
	if c.LinearizationMaxNodes == nil {
		return 6
	}
	return *c.LinearizationMaxNodes
}

// GetAlphaTrackBalance returns the alpha_track_balance value or the default.
func (c *ProcessConfig) GetAlphaTrackBalance() float64 {
	if c.AlphaTrackBalance == nil {
		return 0.65
	}
	return *c.AlphaTrackBalance
}
