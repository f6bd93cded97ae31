package benchmark

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-bbox/postprocess"
	"github.com/nvr-ai/go-bbox/profiler"
	"github.com/nvr-ai/go-bbox/util"
)

// Suite manages and executes benchmark scenarios
type Suite struct {
	scenarios  []Scenario
	outputDir  string
	maxSamples int
	tracker    *profiler.Tracker
	mu         sync.RWMutex
	results    []PerformanceMetrics
	detections []FrameReport
}

// NewSuiteArgs represents the arguments for creating a new benchmark suite.
type NewSuiteArgs struct {
	OutputPath string `json:"outputPath" yaml:"outputPath"`
	MaxSamples int    `json:"maxSamples" yaml:"maxSamples"`
}

// FrameReport is the outcome of detection-level NMS over one fixture file.
type FrameReport struct {
	Path     string        `json:"path"`
	Frame    int           `json:"frame"`
	Input    int           `json:"input"`
	Kept     int           `json:"kept"`
	Duration time.Duration `json:"duration"`
}

// Report is the document written by SaveResults.
type Report struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Results     []PerformanceMetrics `json:"results"`
	Detections  []FrameReport        `json:"detections,omitempty"`
}

// NewSuite creates a new benchmark suite.
//
// Arguments:
//   - args: The arguments for creating a new benchmark suite.
//
// Returns:
//   - *Suite: The benchmark suite.
func NewSuite(args NewSuiteArgs) *Suite {
	return &Suite{
		outputDir:  args.OutputPath,
		maxSamples: args.MaxSamples,
		tracker:    profiler.NewTracker(args.MaxSamples),
		scenarios:  make([]Scenario, 0),
		results:    make([]PerformanceMetrics, 0),
	}
}

// Tracker returns the tracker that accumulates timings across every run.
func (bs *Suite) Tracker() *profiler.Tracker {
	return bs.tracker
}

// AddScenario adds a test scenario to the benchmark suite
func (bs *Suite) AddScenario(scenario Scenario) error {
	if err := scenario.Validate(); err != nil {
		return err
	}

	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.scenarios = append(bs.scenarios, scenario)
	return nil
}

// Scenarios returns a copy of the queued scenarios.
func (bs *Suite) Scenarios() []Scenario {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return append([]Scenario(nil), bs.scenarios...)
}

// GetResults returns a copy of the results recorded so far.
func (bs *Suite) GetResults() []PerformanceMetrics {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return append([]PerformanceMetrics(nil), bs.results...)
}

// GetDetections returns a copy of the detection reports recorded so far.
func (bs *Suite) GetDetections() []FrameReport {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return append([]FrameReport(nil), bs.detections...)
}

// RunScenario executes a single benchmark scenario.
//
// The context is checked before every warmup run and iteration. When it is
// done the partial metrics are returned, marked Cancelled, together with the
// context error.
//
// Arguments:
//   - ctx: Context bounding the run.
//   - scenario: The scenario to run.
//
// Returns:
//   - *PerformanceMetrics: The metrics of the run. nil only if the scenario is invalid.
//   - error: ErrInvalidScenario, a workload error, or the context error.
func (bs *Suite) RunScenario(ctx context.Context, scenario Scenario) (*PerformanceMetrics, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	work, err := newWorkload(scenario)
	if err != nil {
		return nil, errors.Wrapf(err, "scenario %s", scenario.Name)
	}

	metrics := &PerformanceMetrics{
		RunID:     uuid.NewString(),
		Scenario:  scenario,
		Timestamp: time.Now(),
		CPUStats: CPUMetrics{
			NumCPU:     runtime.NumCPU(),
			GOMAXPROCS: runtime.GOMAXPROCS(0),
		},
	}

	// Warmup runs
	for i := 0; i < scenario.WarmupRuns; i++ {
		if err := ctx.Err(); err != nil {
			metrics.Cancelled = true
			return metrics, errors.Wrapf(err, "scenario %s warmup", scenario.Name)
		}
		if _, err := work.run(); err != nil {
			return nil, errors.Wrapf(err, "scenario %s warmup", scenario.Name)
		}
	}

	// Capture initial memory stats
	var startMem runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&startMem)

	run := profiler.NewTracker(bs.maxSamples)
	startTime := time.Now()

	var runErr error
	for i := 0; i < scenario.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			metrics.Cancelled = true
			runErr = errors.Wrapf(err, "scenario %s", scenario.Name)
			break
		}

		iterStart := time.Now()
		matches, err := work.run()
		elapsed := time.Since(iterStart)
		if err != nil {
			return nil, errors.Wrapf(err, "scenario %s iteration %d", scenario.Name, i)
		}

		run.Record(scenario.Name, elapsed)
		bs.tracker.Record(scenario.Name, elapsed)
		metrics.Matches += matches
		metrics.Iterations++
	}

	metrics.TotalDuration = time.Since(startTime)

	// Capture final memory stats
	var endMem runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&endMem)

	if metrics.Iterations > 0 && metrics.TotalDuration > 0 {
		metrics.OpsPerSecond = float64(metrics.Iterations) / metrics.TotalDuration.Seconds()
	}
	if stats, ok := run.Operation(scenario.Name); ok {
		metrics.Timing = stats
	}

	metrics.MemoryStats = MemoryMetrics{
		AllocBytes:      endMem.Alloc,
		TotalAllocBytes: endMem.TotalAlloc - startMem.TotalAlloc,
		SysBytes:        endMem.Sys,
		NumGC:           endMem.NumGC - startMem.NumGC,
		HeapAllocBytes:  endMem.HeapAlloc,
		HeapSysBytes:    endMem.HeapSys,
	}

	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		slog.Debug("scenario finished",
			"run_id", metrics.RunID,
			"scenario", scenario.Name,
			"operation", scenario.Operation,
			"iterations", metrics.Iterations,
			"mean", metrics.Timing.Mean,
			"cancelled", metrics.Cancelled)
	}

	return metrics, runErr
}

// RunAll runs every queued scenario in order and records the results.
//
// A cancelled scenario is still recorded with its partial metrics before
// RunAll returns the context error.
func (bs *Suite) RunAll(ctx context.Context) error {
	for _, scenario := range bs.Scenarios() {
		metrics, err := bs.RunScenario(ctx, scenario)
		if metrics != nil {
			bs.mu.Lock()
			bs.results = append(bs.results, *metrics)
			bs.mu.Unlock()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ProcessDetections runs detection-level NMS over every fixture file and
// records one FrameReport per file.
//
// Arguments:
//   - ctx: Checked before every file.
//   - files: Detection fixtures, typically from util.LoadDetectionDir.
//   - cfg: NMS configuration. nil means postprocess.DefaultNMSConfig().
//
// Returns:
//   - []FrameReport: One report per processed file.
//   - error: The context error, or the NMS error of the first failing file.
func (bs *Suite) ProcessDetections(ctx context.Context, files []util.DetectionFile, cfg *postprocess.NMSConfig) ([]FrameReport, error) {
	reports := make([]FrameReport, 0, len(files))
	defer func() {
		bs.mu.Lock()
		bs.detections = append(bs.detections, reports...)
		bs.mu.Unlock()
	}()

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return reports, errors.Wrap(err, "processing detections")
		}

		stop := bs.tracker.StartOperation("apply-nms")
		kept, err := postprocess.ApplyNMS(file.Results, cfg)
		elapsed := stop()
		if err != nil {
			return reports, errors.Wrapf(err, "%s", file.Path)
		}

		bs.tracker.RecordMetric("apply-nms/kept", float64(len(kept)))

		reports = append(reports, FrameReport{
			Path:     file.Path,
			Frame:    file.Frame,
			Input:    len(file.Results),
			Kept:     len(kept),
			Duration: elapsed,
		})
	}

	return reports, nil
}

// SaveResults writes every recorded result as indented JSON into the output
// directory and returns the path of the written file.
func (bs *Suite) SaveResults() (string, error) {
	if err := os.MkdirAll(bs.outputDir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create output directory")
	}

	report := Report{
		GeneratedAt: time.Now(),
		Results:     bs.GetResults(),
		Detections:  bs.GetDetections(),
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal results")
	}

	path := filepath.Join(bs.outputDir, "benchmark_results_"+report.GeneratedAt.Format("20060102_150405.000000000")+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write results file")
	}

	return path, nil
}
