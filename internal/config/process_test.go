package config

import (
	"strings"
	"testing"

	"github.com/rest-for-physics/tracklib/internal/fsutil"
	"github.com/rest-for-physics/tracklib/internal/pathorder"
)

func TestDefaultProcessConfig(t *testing.T) {
	cfg := DefaultProcessConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.ReductionStartingDistance == nil || *cfg.ReductionStartingDistance != 0.5 {
		t.Errorf("Expected ReductionStartingDistance 0.5, got %v", cfg.ReductionStartingDistance)
	}
	if cfg.PathMethod == nil || *cfg.PathMethod != "default" {
		t.Errorf("Expected PathMethod 'default', got %v", cfg.PathMethod)
	}

	empty := &ProcessConfig{}
	if got := empty.GetProcesses(); len(got) != 2 || got[0] != ProcessReduction || got[1] != ProcessPathMinimization {
		t.Errorf("GetProcesses() = %v, want [reduction pathMinimization]", got)
	}
	if empty.GetWorkers() != 1 {
		t.Errorf("GetWorkers() = %d, want 1", empty.GetWorkers())
	}
	if empty.GetReductionMinimumDistance() != 3 {
		t.Errorf("GetReductionMinimumDistance() = %f, want 3", empty.GetReductionMinimumDistance())
	}
	if empty.GetReductionDistanceStepFactor() != 1.5 {
		t.Errorf("GetReductionDistanceStepFactor() = %f, want 1.5", empty.GetReductionDistanceStepFactor())
	}
	if empty.GetReductionMaxNodes() != 30 || empty.GetReductionMaxIterations() != 100 {
		t.Errorf("unexpected reduction node/iteration defaults %d/%d",
			empty.GetReductionMaxNodes(), empty.GetReductionMaxIterations())
	}
	if empty.GetReductionKMeans() {
		t.Error("GetReductionKMeans() = true, want false")
	}
	if empty.GetPathMethod() != pathorder.Exact {
		t.Errorf("GetPathMethod() = %v, want exact", empty.GetPathMethod())
	}
	if empty.GetPathCyclic() {
		t.Error("GetPathCyclic() = true, want false")
	}
	if empty.GetPathSolver() != "branchbound" {
		t.Errorf("GetPathSolver() = %q, want branchbound", empty.GetPathSolver())
	}
	if empty.GetPathMaxBruteForce() != 9 || empty.GetPathSolverMaxNodes() != 64 {
		t.Errorf("unexpected path limits %d/%d", empty.GetPathMaxBruteForce(), empty.GetPathSolverMaxNodes())
	}
	heldKarp := ProcessConfig{PathSolver: ptrString("heldkarp")}
	if heldKarp.GetPathSolverMaxNodes() != pathorder.DefaultSolverNodes {
		t.Errorf("Held-Karp GetPathSolverMaxNodes() = %d, want %d", heldKarp.GetPathSolverMaxNodes(), pathorder.DefaultSolverNodes)
	}
	if empty.GetLinearizationMaxNodes() != 6 {
		t.Errorf("GetLinearizationMaxNodes() = %d, want 6", empty.GetLinearizationMaxNodes())
	}
	if empty.GetAlphaTrackBalance() != 0.65 {
		t.Errorf("GetAlphaTrackBalance() = %f, want 0.65", empty.GetAlphaTrackBalance())
	}
}

func TestLoadProcessConfig(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	testJSON := `{
  "processes": ["reduction", "pathMinimization", "alphaAnalysis"],
  "workers": 3,
  "reduction_kmeans": true,
  "path_method": "bruteforce",
  "path_cyclic": true
}`
	if err := mfs.WriteFile("/cfg/chain.json", []byte(testJSON), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadProcessConfig(mfs, "/cfg/chain.json")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if got := cfg.GetProcesses(); len(got) != 3 || got[2] != ProcessAlphaAnalysis {
		t.Errorf("GetProcesses() = %v", got)
	}
	if cfg.GetWorkers() != 3 {
		t.Errorf("GetWorkers() = %d, want 3", cfg.GetWorkers())
	}
	if !cfg.GetReductionKMeans() {
		t.Error("GetReductionKMeans() = false, want true")
	}
	if cfg.GetPathMethod() != pathorder.BruteForce {
		t.Errorf("GetPathMethod() = %v, want bruteforce", cfg.GetPathMethod())
	}
	if !cfg.GetPathCyclic() {
		t.Error("GetPathCyclic() = false, want true")
	}
	// Omitted fields keep defaults.
	if cfg.GetReductionStartingDistance() != 0.5 {
		t.Errorf("GetReductionStartingDistance() = %f, want 0.5", cfg.GetReductionStartingDistance())
	}
}

func TestLoadProcessConfig_ExampleFile(t *testing.T) {
	cfg, err := LoadProcessConfig(fsutil.OSFileSystem{}, "../../"+ExampleConfigPath)
	if err != nil {
		t.Fatalf("Failed to load example config: %v", err)
	}
	if len(cfg.GetProcesses()) != 5 {
		t.Errorf("expected the example to list every process, got %v", cfg.GetProcesses())
	}
}

func TestLoadProcessConfig_Errors(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	_ = mfs.WriteFile("/cfg/chain.yaml", []byte("{}"), 0o644)
	_ = mfs.WriteFile("/cfg/bad.json", []byte("{not json"), 0o644)
	_ = mfs.WriteFile("/cfg/invalid.json", []byte(`{"reduction_distance_step_factor": 1}`), 0o644)
	_ = mfs.WriteFile("/cfg/huge.json", make([]byte, maxConfigSize+1), 0o644)

	tests := []struct {
		path string
		want string
	}{
		{"/cfg/chain.yaml", ".json extension"},
		{"/cfg/missing.json", "failed to stat"},
		{"/cfg/bad.json", "failed to parse"},
		{"/cfg/invalid.json", "invalid configuration"},
		{"/cfg/huge.json", "too large"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := LoadProcessConfig(mfs, tt.path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestProcessConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  ProcessConfig
	}{
		{"unknown process", ProcessConfig{Processes: []string{"viewer"}}},
		{"zero workers", ProcessConfig{Workers: ptrInt(0)}},
		{"zero starting distance", ProcessConfig{ReductionStartingDistance: ptrFloat64(0)}},
		{"negative minimum distance", ProcessConfig{ReductionMinimumDistance: ptrFloat64(-1)}},
		{"zero max nodes", ProcessConfig{ReductionMaxNodes: ptrInt(0)}},
		{"zero iterations", ProcessConfig{ReductionMaxIterations: ptrInt(0)}},
		{"unknown method", ProcessConfig{PathMethod: ptrString("annealing")}},
		{"brute force cap", ProcessConfig{PathMaxBruteForce: ptrInt(0)}},
		{"solver cap", ProcessConfig{PathSolverMaxNodes: ptrInt(pathorder.MaxBranchBoundNodes + 1)}},
		{"zero solver nodes", ProcessConfig{PathSolverMaxNodes: ptrInt(0)}},
		{"held-karp cap", ProcessConfig{PathSolver: ptrString("heldkarp"), PathSolverMaxNodes: ptrInt(pathorder.MaxSolverNodes + 1)}},
		{"unknown solver", ProcessConfig{PathSolver: ptrString("concorde")}},
		{"one linearization node", ProcessConfig{LinearizationMaxNodes: ptrInt(1)}},
		{"track balance", ProcessConfig{AlphaTrackBalance: ptrFloat64(1.5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
