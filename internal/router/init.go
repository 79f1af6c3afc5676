package router

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oksasatya/bath-journal/internal/container"
	handlers "github.com/oksasatya/bath-journal/internal/interface/http"
	"github.com/oksasatya/bath-journal/internal/interface/middleware"
	"github.com/oksasatya/bath-journal/internal/router/modules"
	"github.com/oksasatya/bath-journal/pkg/contract"
)

const apiPrefix = contract.APIPrefix

// InitModules wires every module from the container into the registry.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container, gatherer prometheus.Gatherer) {
	cfg := c.Config

	var allow middleware.AllowFunc
	if cfg.RateLimitBypassPrivate {
		allow = middleware.AllowPrivateIP()
	}
	limiter := middleware.RateLimit(c.Redis, cfg.RateLimitPerMinute, time.Minute, middleware.KeyByIP(), allow)
	writeLimiter := middleware.RateLimit(c.Redis, cfg.RateLimitWritesPerMinute, time.Minute, middleware.KeyByIPAndPath(), allow)

	r.Add(modules.NewBathModule(handlers.NewBathHandler(c.Service, c.Logger), limiter, writeLimiter))
	r.Add(modules.NewHealthModule(c.Store))
	if cfg.MetricsEnabled && gatherer != nil {
		r.AddRoot(modules.NewMetricsModule(gatherer))
	}
}
