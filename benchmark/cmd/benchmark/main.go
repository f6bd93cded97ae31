package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/nvr-ai/go-bbox/benchmark"
	"github.com/nvr-ai/go-bbox/util"
)

func main() {
	var (
		configFile    = flag.String("config", "", "Path to YAML benchmark configuration file")
		outputDir     = flag.String("output", "", "Output directory for results (overrides the config)")
		quick         = flag.Bool("quick", false, "Run quick benchmark scenarios")
		comprehensive = flag.Bool("comprehensive", false, "Run comprehensive benchmark scenarios")
		detections    = flag.String("detections", "", "CSV detection fixture, or directory of frame-N.csv files, to run NMS over")
		timeout       = flag.Duration("timeout", 0, "Benchmark timeout duration (overrides the config)")
		report        = flag.Bool("report", false, "Print the profiler report after the run")
	)
	flag.Parse()

	// Load configuration if provided
	config := benchmark.DefaultConfig()
	if *configFile != "" {
		var err error
		config, err = benchmark.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	if *outputDir != "" {
		config.OutputDir = *outputDir
	}
	if *timeout > 0 {
		config.Timeout = *timeout
	}
	if *detections != "" {
		config.DetectionsPath = *detections
	}

	switch {
	case *comprehensive:
		config.Scenarios = benchmark.ComprehensiveScenarios().Scenarios
	case *quick:
		config.Scenarios = benchmark.QuickScenarios().Scenarios
	}

	suite := benchmark.NewSuite(benchmark.NewSuiteArgs{
		OutputPath: config.OutputDir,
		MaxSamples: config.MaxSamples,
	})
	for _, scenario := range config.Scenarios {
		if err := suite.AddScenario(scenario); err != nil {
			log.Fatalf("Invalid scenario: %v", err)
		}
	}
	fmt.Printf("Added %d scenarios\n", len(config.Scenarios))

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	fmt.Println("Starting benchmark execution...")
	start := time.Now()

	runErr := suite.RunAll(ctx)

	if runErr == nil && config.DetectionsPath != "" {
		files, err := loadDetectionFiles(config.DetectionsPath)
		if err != nil {
			log.Fatalf("Failed to load detections: %v", err)
		}
		_, runErr = suite.ProcessDetections(ctx, files, config.NMS)
	}

	path, err := suite.SaveResults()
	if err != nil {
		log.Fatalf("Failed to save results: %v", err)
	}
	if runErr != nil {
		log.Fatalf("Benchmark execution failed: %v (partial results saved to %s)", runErr, path)
	}

	fmt.Printf("Benchmark completed in %v\n", time.Since(start))

	// Print summary
	results := suite.GetResults()
	fmt.Printf("\n=== BENCHMARK RESULTS SUMMARY ===\n")
	fmt.Printf("Total scenarios: %d\n", len(results))
	fmt.Printf("Results saved to: %s\n", path)

	for _, result := range results {
		fmt.Printf("  %s: %.2f ops/s, mean %v, p95 %v, %d matches (%.2f MB allocated)\n",
			result.Scenario.Name,
			result.OpsPerSecond,
			result.Timing.Mean,
			result.Timing.P95,
			result.Matches,
			float64(result.MemoryStats.TotalAllocBytes)/(1024*1024))
	}

	if frames := suite.GetDetections(); len(frames) > 0 {
		fmt.Printf("\n=== DETECTIONS ===\n")
		for _, frame := range frames {
			fmt.Printf("  frame %d: kept %d of %d in %v\n", frame.Frame, frame.Kept, frame.Input, frame.Duration)
		}
	}

	if *report {
		fmt.Println()
		suite.Tracker().WriteReport(os.Stdout)
	}
}

// loadDetectionFiles reads a single fixture or a directory of fixtures.
func loadDetectionFiles(path string) ([]util.DetectionFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return util.LoadDetectionDir(path)
	}

	results, err := util.LoadDetections(path)
	if err != nil {
		return nil, err
	}
	return []util.DetectionFile{{Path: path, Results: results}}, nil
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "Benchmark tool for the IoU and NMS engines.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -quick\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "  %s -config ./benchmark.yaml -output ./results\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "  %s -detections ./frames -timeout 5m\n", filepath.Base(os.Args[0]))
	}
}
