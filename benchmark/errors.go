package benchmark

import "github.com/pkg/errors"

var (
	// ErrUnknownOperation is returned for an operation name that is not supported.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrInvalidScenario is returned when a scenario cannot be run.
	ErrInvalidScenario = errors.New("invalid scenario")
)
