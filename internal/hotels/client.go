// Package hotels fetches the ground-truth hotel records a recommendation is
// verified against.
package hotels

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/staycheck/internal/model"
	"github.com/ppiankov/staycheck/internal/util"
	"github.com/ppiankov/staycheck/internal/worker"
	"go.uber.org/zap"
)

// Client returns hotel records for a city or free-text query.
// Failures are always *model.FetchError.
type Client interface {
	Name() string
	Fetch(ctx context.Context, query string) ([]model.HotelRecord, error)
}

// New builds the configured client wrapped with timeout and retries.
// Without an API key the simulated client is used.
func New(cfg model.HotelsConfig, httpCfg model.HTTPConfig, logger *zap.Logger) (Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var inner Client
	switch strings.ToLower(cfg.Provider) {
	case "serpapi", "":
		if cfg.APIKey == "" {
			logger.Warn("SerpAPI key not configured, using simulated hotel data")
			inner = NewSimulatedClient()
			break
		}
		var limiter *worker.Limiter
		if cfg.RateLimit > 0 {
			limiter = worker.NewLimiter(cfg.RateLimit, 1)
		}
		inner = NewSerpAPIClient(cfg, util.NewHTTPClient(httpCfg), limiter)
	case "simulated":
		inner = NewSimulatedClient()
	default:
		return nil, fmt.Errorf("unsupported hotels provider: %s (supported: serpapi, simulated)", cfg.Provider)
	}

	return NewRetryingClient(inner, cfg, logger), nil
}
