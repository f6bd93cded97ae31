package util

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-bbox/box"
	"github.com/nvr-ai/go-bbox/postprocess"
)

// DetectionFile holds the detections recorded for one frame.
type DetectionFile struct {
	// Path is the path to the CSV file.
	Path string
	// Frame is the frame number parsed from the file name.
	Frame int
	// Results are the detections in file order.
	Results []postprocess.Result
}

// LoadDetections reads a detection fixture.
//
// Each non-empty line holds x1,y1,x2,y2,score and an optional class index.
// Lines whose first field starts with '#' are comments.
//
// Arguments:
// - path: Path to the CSV file.
//
// Returns:
// - []postprocess.Result: The detections in file order.
// - error: Error if the file cannot be read or a row is malformed; the message carries the line number.
func LoadDetections(path string) ([]postprocess.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadDetections(f, path)
}

// ReadDetections parses detection rows from r. name is only used in error messages.
func ReadDetections(r io.Reader, name string) ([]postprocess.Result, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var results []postprocess.Result
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "%s", name)
		}
		line, _ := reader.FieldPos(0)

		res, err := parseDetection(record)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", name, line)
		}
		results = append(results, res)
	}

	return results, nil
}

func parseDetection(record []string) (postprocess.Result, error) {
	if len(record) != 5 && len(record) != 6 {
		return postprocess.Result{}, errors.Errorf("expected 5 or 6 fields, got %d", len(record))
	}

	var coords [4]float64
	for i := range coords {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
		if err != nil {
			return postprocess.Result{}, errors.Wrapf(err, "field %d", i+1)
		}
		coords[i] = v
	}

	b, err := box.FromTwoPoint(coords[0], coords[1], coords[2], coords[3])
	if err != nil {
		return postprocess.Result{}, err
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(record[4]), 32)
	if err != nil {
		return postprocess.Result{}, errors.Wrap(err, "score")
	}

	class := 0
	if len(record) == 6 {
		class, err = strconv.Atoi(strings.TrimSpace(record[5]))
		if err != nil {
			return postprocess.Result{}, errors.Wrap(err, "class")
		}
	}

	return postprocess.Result{Box: b, Score: float32(score), Class: class}, nil
}

// LoadDetectionDir reads every frame-N.csv file in dir.
//
// Arguments:
// - dir: Directory path containing detection files.
//
// Returns:
// - []DetectionFile: One entry per file, sorted by frame number.
// - error: Error if loading fails.
func LoadDetectionDir(dir string) ([]DetectionFile, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []DetectionFile
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".csv" {
			continue
		}

		frame, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(file.Name(), "frame-"), ".csv"))
		if err != nil {
			return nil, errors.Wrapf(err, "frame number of %s", file.Name())
		}

		path := filepath.Join(dir, file.Name())
		results, err := LoadDetections(path)
		if err != nil {
			return nil, err
		}
		out = append(out, DetectionFile{Path: path, Frame: frame, Results: results})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Frame < out[j].Frame
	})

	return out, nil
}
