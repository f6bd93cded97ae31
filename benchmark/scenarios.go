package benchmark

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Operation names the engine exercised by a scenario.
type Operation string

const (
	// OpIoU2D scores consecutive pairs of 2D boxes with metrics.IoU2D.
	OpIoU2D Operation = "iou2d"
	// OpIoU2DBatch builds the full pairwise matrix with metrics.IoU2DBatch.
	OpIoU2DBatch Operation = "iou2d-batch"
	// OpIoU3D scores consecutive pairs of rotated cuboids with metrics.IoU3D.
	OpIoU3D Operation = "iou3d"
	// OpNMS suppresses a scored box list with postprocess.NMS.
	OpNMS Operation = "nms"
)

// Operations lists every supported operation.
func Operations() []Operation {
	return []Operation{OpIoU2D, OpIoU2DBatch, OpIoU3D, OpNMS}
}

// ParseOperation returns the operation named s.
func ParseOperation(s string) (Operation, error) {
	for _, op := range Operations() {
		if strings.EqualFold(string(op), s) {
			return op, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownOperation, "%q", s)
}

// Scenario describes one benchmark run.
//
// Threshold is the IoU above which a pair counts as a match, or the NMS
// threshold. Seed drives the box generator so runs are reproducible.
type Scenario struct {
	Name       string    `json:"name"        yaml:"name"`
	Operation  Operation `json:"operation"   yaml:"operation"`
	NumBoxes   int       `json:"num_boxes"   yaml:"num_boxes"`
	Iterations int       `json:"iterations"  yaml:"iterations"`
	WarmupRuns int       `json:"warmup_runs" yaml:"warmup_runs"`
	Threshold  float64   `json:"threshold"   yaml:"threshold"`
	Seed       int64     `json:"seed"        yaml:"seed"`
}

// Validate reports whether the scenario can be run.
func (s Scenario) Validate() error {
	if s.Name == "" {
		return errors.Wrap(ErrInvalidScenario, "name is required")
	}
	if _, err := ParseOperation(string(s.Operation)); err != nil {
		return errors.Wrapf(ErrInvalidScenario, "%s: %v", s.Name, err)
	}
	if s.NumBoxes < 1 {
		return errors.Wrapf(ErrInvalidScenario, "%s: num_boxes must be positive, got %d", s.Name, s.NumBoxes)
	}
	if s.Iterations < 1 {
		return errors.Wrapf(ErrInvalidScenario, "%s: iterations must be positive, got %d", s.Name, s.Iterations)
	}
	if s.WarmupRuns < 0 {
		return errors.Wrapf(ErrInvalidScenario, "%s: warmup_runs must not be negative, got %d", s.Name, s.WarmupRuns)
	}
	if s.Threshold < 0 || s.Threshold > 1 {
		return errors.Wrapf(ErrInvalidScenario, "%s: threshold must be in [0, 1], got %v", s.Name, s.Threshold)
	}
	return nil
}

// ScenarioBuilder helps build test scenarios with fluent API
type ScenarioBuilder struct {
	scenario Scenario
}

// NewScenarioBuilder creates a new scenario builder
func NewScenarioBuilder(name string) *ScenarioBuilder {
	return &ScenarioBuilder{
		scenario: Scenario{
			Name:       name,
			Operation:  OpIoU2D,
			NumBoxes:   100,
			Iterations: 100,
			WarmupRuns: 10,
			Threshold:  0.5,
			Seed:       1,
		},
	}
}

// WithOperation sets the operation to benchmark
func (sb *ScenarioBuilder) WithOperation(op Operation) *ScenarioBuilder {
	sb.scenario.Operation = op
	return sb
}

// WithNumBoxes sets the number of generated boxes
func (sb *ScenarioBuilder) WithNumBoxes(n int) *ScenarioBuilder {
	sb.scenario.NumBoxes = n
	return sb
}

// WithIterations sets the number of test iterations
func (sb *ScenarioBuilder) WithIterations(iterations int) *ScenarioBuilder {
	sb.scenario.Iterations = iterations
	return sb
}

// WithWarmupRuns sets the number of warmup runs
func (sb *ScenarioBuilder) WithWarmupRuns(warmups int) *ScenarioBuilder {
	sb.scenario.WarmupRuns = warmups
	return sb
}

// WithThreshold sets the IoU threshold
func (sb *ScenarioBuilder) WithThreshold(threshold float64) *ScenarioBuilder {
	sb.scenario.Threshold = threshold
	return sb
}

// WithSeed sets the seed of the box generator
func (sb *ScenarioBuilder) WithSeed(seed int64) *ScenarioBuilder {
	sb.scenario.Seed = seed
	return sb
}

// Build returns the configured scenario, or an error if it is invalid.
func (sb *ScenarioBuilder) Build() (Scenario, error) {
	if err := sb.scenario.Validate(); err != nil {
		return Scenario{}, err
	}
	return sb.scenario, nil
}

// MustBuild is like Build but panics on an invalid scenario.
func (sb *ScenarioBuilder) MustBuild() Scenario {
	s, err := sb.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// ScenarioSet represents a collection of related test scenarios
type ScenarioSet struct {
	Name        string     `json:"name"        yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Scenarios   []Scenario `json:"scenarios"   yaml:"scenarios"`
}

// QuickScenarios returns one small scenario per operation.
func QuickScenarios() *ScenarioSet {
	scenarios := make([]Scenario, 0, len(Operations()))
	for _, op := range Operations() {
		scenarios = append(scenarios, NewScenarioBuilder(fmt.Sprintf("quick_%s_100", op)).
			WithOperation(op).
			WithNumBoxes(100).
			WithIterations(50).
			WithWarmupRuns(5).
			MustBuild())
	}

	return &ScenarioSet{
		Name:        "Quick Performance Test",
		Description: "Every operation over 100 boxes",
		Scenarios:   scenarios,
	}
}

// ComprehensiveScenarios returns every operation at several box counts.
func ComprehensiveScenarios() *ScenarioSet {
	scenarios := make([]Scenario, 0)
	for _, op := range Operations() {
		for _, n := range []int{10, 100, 1000} {
			iterations := 100
			if op == OpIoU2DBatch && n >= 1000 {
				iterations = 10
			}
			scenarios = append(scenarios, NewScenarioBuilder(fmt.Sprintf("%s_%d", op, n)).
				WithOperation(op).
				WithNumBoxes(n).
				WithIterations(iterations).
				WithWarmupRuns(iterations/10).
				MustBuild())
		}
	}

	return &ScenarioSet{
		Name:        "Comprehensive Performance Test",
		Description: "Every operation over 10, 100 and 1000 boxes",
		Scenarios:   scenarios,
	}
}
