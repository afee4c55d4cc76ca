package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/electrostore/pkg/cache"
	"github.com/shashiranjanraj/electrostore/pkg/ctx"
	"github.com/shashiranjanraj/electrostore/pkg/database"
	"github.com/shashiranjanraj/electrostore/pkg/resource"
)

// Probe checks the database and the cache. It backs both /healthz and the
// gRPC health service.
func Probe(c context.Context) error {
	if err := database.Ping(c); err != nil {
		return err
	}
	return cache.Ping(c)
}

// Health → GET /healthz
func Health(c *ctx.Context) {
	pctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	checks := resource.Map{"database": "ok", "cache": "ok", "cache_driver": cache.Driver()}
	status := http.StatusOK
	if err := database.Ping(pctx); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := cache.Ping(pctx); err != nil {
		checks["cache"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resource.Map{"status": status, "checks": checks})
}
