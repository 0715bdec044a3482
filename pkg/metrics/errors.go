package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors. Observation failures are treated
// as non-fatal by callers checking with errors.Is.
var (
	ErrObserveFailed = errors.New("metrics observe failed")
)
