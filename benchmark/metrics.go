// Package benchmark - Scenario-driven performance runs of the IoU and NMS engines.
package benchmark

import (
	"time"

	"github.com/nvr-ai/go-bbox/profiler"
)

// PerformanceMetrics captures detailed performance data
type PerformanceMetrics struct {
	RunID         string                  `json:"run_id"`
	Scenario      Scenario                `json:"scenario"`
	Timestamp     time.Time               `json:"timestamp"`
	TotalDuration time.Duration           `json:"total_duration"`
	Iterations    int                     `json:"iterations"` // Completed before the run ended.
	OpsPerSecond  float64                 `json:"ops_per_second"`
	Timing        profiler.OperationStats `json:"timing"`
	MemoryStats   MemoryMetrics           `json:"memory_stats"`
	CPUStats      CPUMetrics              `json:"cpu_stats"`
	Matches       int                     `json:"matches"` // Pairs above the threshold, or boxes kept by NMS, summed over iterations.
	Cancelled     bool                    `json:"cancelled"`
}

// MemoryMetrics captures memory usage statistics
type MemoryMetrics struct {
	AllocBytes      uint64 `json:"alloc_bytes"`
	TotalAllocBytes uint64 `json:"total_alloc_bytes"`
	SysBytes        uint64 `json:"sys_bytes"`
	NumGC           uint32 `json:"num_gc"`
	HeapAllocBytes  uint64 `json:"heap_alloc_bytes"`
	HeapSysBytes    uint64 `json:"heap_sys_bytes"`
}

// CPUMetrics captures CPU usage statistics
type CPUMetrics struct {
	NumCPU     int `json:"num_cpu"`
	GOMAXPROCS int `json:"gomaxprocs"`
}
