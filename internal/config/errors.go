package config

import (
	"errors"
)

// Sentinel error kinds for this package, checkable with errors.Is from
// callers. Validation failures wrap ErrInvalidConfig; file and env
// layering failures wrap ErrLoadConfig.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
