// pkg/platform/resolver.go
package platform

import (
	"context"

	"github.com/arc-language/layerslim/pkg/core"
)

// ResolveRuntime picks the layer runtime.
// Priority:
// 1. runtime set in config
// 2. version reported by the configured interpreter
// 3. layout.DefaultRuntime
func ResolveRuntime(ctx context.Context, cfg *core.Config) (string, error) {
	if cfg.Runtime != "" {
		return ParseRuntime(cfg.Runtime)
	}
	p, err := Detect(ctx, cfg.Python)
	if err != nil {
		return "", err
	}
	return p.Runtime, nil
}
