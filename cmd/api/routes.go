package main

import (
	"callcenter-ops/internal/httpapi"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers) {
	r.GET("/healthz", httpapi.Healthz)

	v1 := r.Group("/v1")
	{
		v1.POST("/cdrs", h.CreateCDR)
	}
}
