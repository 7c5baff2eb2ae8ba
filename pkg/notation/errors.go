package notation

import (
	"errors"

	"github.com/opd-ai/notation-canvas/internal/config"
)

var (
	// ErrNoScript is returned when no layout script is configured.
	ErrNoScript = errors.New("no layout script")

	// ErrUnknownBackend is returned for a backend this build cannot render.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrInvalidConfig is wrapped by New when the configuration does not
	// validate.
	ErrInvalidConfig = config.ErrInvalidConfig
)
