package benchmark

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-bbox/box"
	"github.com/nvr-ai/go-bbox/postprocess"
	"github.com/nvr-ai/go-bbox/util"
)

func TestNewSuite(t *testing.T) {
	outputDir := t.TempDir()

	suite := NewSuite(NewSuiteArgs{OutputPath: outputDir})

	assert.NotNil(t, suite)
	assert.Equal(t, outputDir, suite.outputDir)
	assert.NotNil(t, suite.Tracker())
	assert.Empty(t, suite.Scenarios())
	assert.Empty(t, suite.GetResults())
}

func TestScenarioBuilder(t *testing.T) {
	scenario, err := NewScenarioBuilder("test_scenario").
		WithOperation(OpNMS).
		WithNumBoxes(64).
		WithIterations(50).
		WithWarmupRuns(5).
		WithThreshold(0.3).
		WithSeed(42).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, OpNMS, scenario.Operation)
	assert.Equal(t, 64, scenario.NumBoxes)
	assert.Equal(t, 50, scenario.Iterations)
	assert.Equal(t, 5, scenario.WarmupRuns)
	assert.Equal(t, 0.3, scenario.Threshold)
	assert.Equal(t, int64(42), scenario.Seed)
}

func TestScenarioBuilder_Defaults(t *testing.T) {
	scenario := NewScenarioBuilder("defaults").MustBuild()

	assert.Equal(t, OpIoU2D, scenario.Operation)
	assert.Equal(t, 100, scenario.NumBoxes)
	assert.Equal(t, 100, scenario.Iterations)
	assert.Equal(t, 10, scenario.WarmupRuns)
	assert.Equal(t, 0.5, scenario.Threshold)
}

func TestScenarioBuilder_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		builder *ScenarioBuilder
	}{
		{"Empty name", NewScenarioBuilder("")},
		{"Unknown operation", NewScenarioBuilder("x").WithOperation("giou")},
		{"No boxes", NewScenarioBuilder("x").WithNumBoxes(0)},
		{"No iterations", NewScenarioBuilder("x").WithIterations(0)},
		{"Negative warmup", NewScenarioBuilder("x").WithWarmupRuns(-1)},
		{"Threshold above one", NewScenarioBuilder("x").WithThreshold(1.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			assert.True(t, errors.Is(err, ErrInvalidScenario))
			assert.Panics(t, func() { tt.builder.MustBuild() })
		})
	}
}

func TestParseOperation(t *testing.T) {
	op, err := ParseOperation("IoU2D-Batch")
	require.NoError(t, err)
	assert.Equal(t, OpIoU2DBatch, op)

	_, err = ParseOperation("giou")
	assert.True(t, errors.Is(err, ErrUnknownOperation))
}

func TestPredefinedScenarios(t *testing.T) {
	quick := QuickScenarios()
	require.Len(t, quick.Scenarios, len(Operations()))
	for _, s := range quick.Scenarios {
		assert.NoError(t, s.Validate())
	}

	comprehensive := ComprehensiveScenarios()
	assert.Len(t, comprehensive.Scenarios, 3*len(Operations()))
}

func TestAddScenario(t *testing.T) {
	suite := NewSuite(NewSuiteArgs{OutputPath: t.TempDir()})

	require.NoError(t, suite.AddScenario(NewScenarioBuilder("a").MustBuild()))
	require.NoError(t, suite.AddScenario(NewScenarioBuilder("b").WithOperation(OpIoU3D).MustBuild()))
	assert.Error(t, suite.AddScenario(Scenario{Name: "bad"}))

	scenarios := suite.Scenarios()
	require.Len(t, scenarios, 2)
	assert.Equal(t, "a", scenarios[0].Name)
	assert.Equal(t, OpIoU3D, scenarios[1].Operation)
}

func TestRunScenario_AllOperations(t *testing.T) {
	suite := NewSuite(NewSuiteArgs{OutputPath: t.TempDir()})

	for _, op := range Operations() {
		t.Run(string(op), func(t *testing.T) {
			scenario := NewScenarioBuilder("run_"+string(op)).
				WithOperation(op).
				WithNumBoxes(40).
				WithIterations(3).
				WithWarmupRuns(1).
				MustBuild()

			metrics, err := suite.RunScenario(context.Background(), scenario)
			require.NoError(t, err)
			require.NotNil(t, metrics)

			assert.NotEmpty(t, metrics.RunID)
			assert.Equal(t, scenario, metrics.Scenario)
			assert.Equal(t, 3, metrics.Iterations)
			assert.False(t, metrics.Cancelled)
			assert.Equal(t, int64(3), metrics.Timing.Count)
			assert.Positive(t, metrics.OpsPerSecond)
			assert.Positive(t, metrics.CPUStats.NumCPU)
		})
	}

	_, ok := suite.Tracker().Operation("run_nms")
	assert.True(t, ok)
}

func TestRunScenario_Deterministic(t *testing.T) {
	suite := NewSuite(NewSuiteArgs{OutputPath: t.TempDir()})
	scenario := NewScenarioBuilder("nms").
		WithOperation(OpNMS).
		WithNumBoxes(200).
		WithIterations(2).
		WithWarmupRuns(0).
		WithThreshold(0.3).
		WithSeed(7).
		MustBuild()

	first, err := suite.RunScenario(context.Background(), scenario)
	require.NoError(t, err)
	second, err := suite.RunScenario(context.Background(), scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Matches, second.Matches)
	assert.Positive(t, first.Matches)
	assert.LessOrEqual(t, first.Matches, 2*200)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRunScenario_BatchMatchesCountSelf(t *testing.T) {
	suite := NewSuite(NewSuiteArgs{OutputPath: t.TempDir()})
	scenario := NewScenarioBuilder("batch").
		WithOperation(OpIoU2DBatch).
		WithNumBoxes(25).
		WithIterations(1).
		WithWarmupRuns(0).
		WithThreshold(0.99).
		MustBuild()

	metrics, err := suite.RunScenario(context.Background(), scenario)
	require.NoError(t, err)

	// Every box matches itself on the diagonal.
	assert.GreaterOrEqual(t, metrics.Matches, 25)
}

func TestRunScenario_Cancelled(t *testing.T) {
	suite := NewSuite(NewSuiteArgs{OutputPath: t.TempDir()})
	scenario := NewScenarioBuilder("cancelled").WithWarmupRuns(0).MustBuild()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	metrics, err := suite.RunScenario(ctx, scenario)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, metrics)
	assert.True(t, metrics.Cancelled)
	assert.Equal(t, 0, metrics.Iterations)
}

func TestRunScenario_Invalid(t *testing.T) {
	suite := NewSuite(NewSuiteArgs{OutputPath: t.TempDir()})

	metrics, err := suite.RunScenario(context.Background(), Scenario{Name: "bad", Operation: OpNMS})
	assert.Nil(t, metrics)
	assert.True(t, errors.Is(err, ErrInvalidScenario))
}

func TestRunAllAndSaveResults(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "results")
	suite := NewSuite(NewSuiteArgs{OutputPath: outputDir})

	for _, op := range Operations() {
		require.NoError(t, suite.AddScenario(NewScenarioBuilder("all_"+string(op)).
			WithOperation(op).
			WithNumBoxes(10).
			WithIterations(2).
			WithWarmupRuns(0).
			MustBuild()))
	}

	require.NoError(t, suite.RunAll(context.Background()))
	require.Len(t, suite.GetResults(), len(Operations()))

	path, err := suite.SaveResults()
	require.NoError(t, err)
	assert.Equal(t, outputDir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var report Report
	require.NoError(t, json.Unmarshal(data, &report))
	require.Len(t, report.Results, len(Operations()))
	assert.Equal(t, "all_iou2d", report.Results[0].Scenario.Name)
	assert.Equal(t, OpNMS, report.Results[3].Scenario.Operation)
	assert.NotEmpty(t, report.Results[0].RunID)
}

func TestRunAll_Timeout(t *testing.T) {
	suite := NewSuite(NewSuiteArgs{OutputPath: t.TempDir()})
	require.NoError(t, suite.AddScenario(NewScenarioBuilder("a").WithWarmupRuns(0).MustBuild()))
	require.NoError(t, suite.AddScenario(NewScenarioBuilder("b").WithWarmupRuns(0).MustBuild()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	err := suite.RunAll(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	results := suite.GetResults()
	require.Len(t, results, 1, "the interrupted scenario is still recorded")
	assert.True(t, results[0].Cancelled)
}

func detection(t *testing.T, x1, y1, x2, y2 float64, score float32, class int) postprocess.Result {
	t.Helper()
	b, err := box.FromTwoPoint(x1, y1, x2, y2)
	require.NoError(t, err)
	return postprocess.Result{Box: b, Score: score, Class: class}
}

func TestProcessDetections(t *testing.T) {
	suite := NewSuite(NewSuiteArgs{OutputPath: t.TempDir()})
	files := []util.DetectionFile{
		{Path: "frame-1.csv", Frame: 1, Results: []postprocess.Result{
			detection(t, 0, 0, 9, 9, 0.9, 0),
			detection(t, 1, 1, 10, 10, 0.8, 0),
			detection(t, 50, 50, 60, 60, 0.7, 0),
		}},
		{Path: "frame-2.csv", Frame: 2},
	}

	reports, err := suite.ProcessDetections(context.Background(), files, nil)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, 1, reports[0].Frame)
	assert.Equal(t, 3, reports[0].Input)
	assert.Equal(t, 2, reports[0].Kept)
	assert.Equal(t, 0, reports[1].Kept)
	assert.Equal(t, reports, suite.GetDetections())

	timing, ok := suite.Tracker().Operation("apply-nms")
	require.True(t, ok)
	assert.Equal(t, int64(2), timing.Count)
	assert.Equal(t, reports[0].Duration+reports[1].Duration, timing.Total)

	kept, ok := suite.Tracker().Metric("apply-nms/kept")
	require.True(t, ok)
	assert.Equal(t, 1.0, kept.Mean)
}

func TestProcessDetections_Cancelled(t *testing.T) {
	suite := NewSuite(NewSuiteArgs{OutputPath: t.TempDir()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports, err := suite.ProcessDetections(ctx, []util.DetectionFile{{Path: "frame-1.csv"}}, nil)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, reports)
}
