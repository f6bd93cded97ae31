package benchmark

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-bbox/box"
	"github.com/nvr-ai/go-bbox/metrics"
	"github.com/nvr-ai/go-bbox/postprocess"
)

const (
	frameSize  = 640.0
	minBoxSide = 8.0
	maxBoxSide = 128.0
	sceneSize  = 20.0
)

// workload is one prepared scenario: inputs are generated once and run is
// called for every warmup run and iteration.
type workload struct {
	run func() (int, error)
}

func newWorkload(s Scenario) (*workload, error) {
	rng := rand.New(rand.NewSource(s.Seed))

	switch s.Operation {
	case OpIoU2D:
		boxes, err := randomBoxes(rng, s.NumBoxes)
		if err != nil {
			return nil, err
		}
		return &workload{run: func() (int, error) {
			matches := 0
			for i := range boxes {
				if metrics.IoU2D(boxes[i], boxes[(i+1)%len(boxes)]) > s.Threshold {
					matches++
				}
			}
			return matches, nil
		}}, nil

	case OpIoU2DBatch:
		boxes, err := randomBoxes(rng, s.NumBoxes)
		if err != nil {
			return nil, err
		}
		list := box.FromBoxes(boxes...)
		return &workload{run: func() (int, error) {
			m := metrics.IoU2DBatch(list, list)
			matches := 0
			for _, v := range m.RawMatrix().Data {
				if v > s.Threshold {
					matches++
				}
			}
			return matches, nil
		}}, nil

	case OpIoU3D:
		cuboids, err := randomCuboids(rng, s.NumBoxes)
		if err != nil {
			return nil, err
		}
		return &workload{run: func() (int, error) {
			matches := 0
			for i := range cuboids {
				if metrics.IoU3D(cuboids[i], cuboids[(i+1)%len(cuboids)]) > s.Threshold {
					matches++
				}
			}
			return matches, nil
		}}, nil

	case OpNMS:
		boxes, err := randomBoxes(rng, s.NumBoxes)
		if err != nil {
			return nil, err
		}
		list := box.FromBoxes(boxes...)
		scores := make([]float64, len(boxes))
		for i := range scores {
			scores[i] = rng.Float64()
		}
		return &workload{run: func() (int, error) {
			keep, err := postprocess.NMS(list, scores, s.Threshold)
			return len(keep), err
		}}, nil
	}

	return nil, errors.Wrapf(ErrUnknownOperation, "%q", s.Operation)
}

// randomBoxes places n boxes inside a frameSize square frame.
func randomBoxes(rng *rand.Rand, n int) ([]box.Box2D, error) {
	out := make([]box.Box2D, n)
	for i := range out {
		w := minBoxSide + rng.Float64()*(maxBoxSide-minBoxSide)
		h := minBoxSide + rng.Float64()*(maxBoxSide-minBoxSide)
		x := rng.Float64() * (frameSize - w)
		y := rng.Float64() * (frameSize - h)

		b, err := box.FromWidthHeight(x, y, w, h)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// randomCuboids places n yaw-rotated cuboids resting on the ground of a sceneSize square scene.
func randomCuboids(rng *rand.Rand, n int) ([]box.Box3D, error) {
	out := make([]box.Box3D, n)
	for i := range out {
		l := 1 + rng.Float64()*4
		w := 1 + rng.Float64()*2
		h := 1 + rng.Float64()
		yaw := (rng.Float64()*2 - 1) * math.Pi

		b, err := box.NewBox3D(
			rng.Float64()*sceneSize, rng.Float64()*sceneSize, h,
			l, w, h,
			box.QuaternionFromEuler([3]float64{0, 0, yaw}),
		)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}
