//go:build noebiten

package notation

import (
	"context"
	"fmt"

	"github.com/opd-ai/notation-canvas/internal/config"
)

// runScreen is unavailable in noebiten builds.
func (r *Renderer) runScreen(ctx context.Context, cfg config.Config) error {
	return fmt.Errorf("%w: %s (built with noebiten)", ErrUnknownBackend, cfg.Output.Backend)
}
