package postprocess

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-bbox/box"
)

// NMSConfig defines parameters for detection-level Non-Maximum Suppression.
type NMSConfig struct {
	IoUThreshold   float64 `json:"iou_threshold" yaml:"iou_threshold"`     // Overlap above which a detection is suppressed.
	ScoreThreshold float32 `json:"score_threshold" yaml:"score_threshold"` // Detections scoring below this are dropped first.
	ClassAware     bool    `json:"class_aware" yaml:"class_aware"`         // If true, suppress only within the same class.
	NumWorkers     int     `json:"num_workers" yaml:"num_workers"`         // Upper bound on classes suppressed concurrently.
	MaxDetections  int     `json:"max_detections" yaml:"max_detections"`   // Output cap; zero or less means no cap.
}

// DefaultNMSConfig returns the configuration used when none is given.
func DefaultNMSConfig() *NMSConfig {
	return &NMSConfig{
		IoUThreshold: 0.5,
		ClassAware:   true,
		NumWorkers:   runtime.NumCPU(),
	}
}

// ApplyNMS filters overlapping detections using Non-Maximum Suppression.
//
// Detections scoring below cfg.ScoreThreshold are dropped, then each group is
// suppressed with NMS at cfg.IoUThreshold. With cfg.ClassAware every class is
// its own group and groups run concurrently on up to cfg.NumWorkers
// goroutines; otherwise all detections form one group.
//
// Arguments:
//   - results: Detections in any order.
//   - cfg: NMS configuration. nil means DefaultNMSConfig().
//
// Returns:
//   - []Result: The kept detections sorted by descending score, ties in input
//     order, truncated to cfg.MaxDetections when that is positive.
//   - error: ErrInvalidScore if any score is NaN or infinite.
func ApplyNMS(results []Result, cfg *NMSConfig) ([]Result, error) {
	if cfg == nil {
		cfg = DefaultNMSConfig()
	}

	candidates := make([]int, 0, len(results))
	for i, r := range results {
		if math32.IsNaN(r.Score) || math32.IsInf(r.Score, 0) {
			return nil, errors.Wrapf(ErrInvalidScore, "detection %d has score %v", i, r.Score)
		}
		if r.Score >= cfg.ScoreThreshold {
			candidates = append(candidates, i)
		}
	}

	groups := groupByClass(results, candidates, cfg.ClassAware)

	kept := make([][]int, len(groups))
	workers := cfg.NumWorkers
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for g, members := range groups {
		wg.Add(1)
		sem <- struct{}{}
		go func(g int, members []int) {
			defer wg.Done()
			defer func() { <-sem }()

			idx, err := suppressGroup(results, members, cfg.IoUThreshold)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			kept[g] = idx
		}(g, members)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	var merged []int
	for _, idx := range kept {
		merged = append(merged, idx...)
	}
	sort.Slice(merged, func(a, b int) bool {
		sa, sb := results[merged[a]].Score, results[merged[b]].Score
		if sa != sb {
			return sa > sb
		}
		return merged[a] < merged[b]
	})

	if cfg.MaxDetections > 0 && len(merged) > cfg.MaxDetections {
		merged = merged[:cfg.MaxDetections]
	}

	out := make([]Result, len(merged))
	for i, idx := range merged {
		out[i] = results[idx]
	}

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug("nms applied",
			"input", len(results),
			"candidates", len(candidates),
			"groups", len(groups),
			"kept", len(out))
	}

	return out, nil
}

// groupByClass splits candidate indices into groups ordered by first appearance.
func groupByClass(results []Result, candidates []int, classAware bool) [][]int {
	if len(candidates) == 0 {
		return nil
	}
	if !classAware {
		return [][]int{candidates}
	}

	var groups [][]int
	slot := make(map[int]int)
	for _, i := range candidates {
		c := results[i].Class
		g, ok := slot[c]
		if !ok {
			g = len(groups)
			slot[c] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}

// suppressGroup runs NMS over the members of one group and maps the kept
// positions back to indices into results.
func suppressGroup(results []Result, members []int, threshold float64) ([]int, error) {
	boxes := make([]box.Box2D, len(members))
	scores := make([]float64, len(members))
	for k, i := range members {
		boxes[k] = results[i].Box
		scores[k] = float64(results[i].Score)
	}

	keep, err := NMS(box.FromBoxes(boxes...), scores, threshold)
	if err != nil {
		return nil, err
	}

	out := make([]int, len(keep))
	for k, p := range keep {
		out[k] = members[p]
	}
	return out, nil
}
