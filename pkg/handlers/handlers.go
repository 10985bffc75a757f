/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	commonconfig "github.com/brightmark/postdash/pkg/config"
	dbclient "github.com/brightmark/postdash/pkg/database/client"
	postdasherrors "github.com/brightmark/postdash/pkg/errors"
	generation_handlers "github.com/brightmark/postdash/pkg/handlers/generation-handlers"
	"github.com/brightmark/postdash/pkg/handlers/middleware"
	"github.com/brightmark/postdash/pkg/schedule"
	apiutils "github.com/brightmark/postdash/pkg/utils"
)

// InitHttpHandlers initializes the HTTP handlers for the API server.
// It creates a new Gin engine, sets up middleware including logging, recovery and auditing,
// and registers the generation API routes.
// Returns the configured Gin engine or an error if initialization fails.
func InitHttpHandlers(_ context.Context, dbClient dbclient.Interface) (*gin.Engine, error) {
	if dbClient == nil {
		return nil, postdasherrors.NewInternalError("database client is not initialized")
	}
	engine := gin.New()
	engine.Use(middleware.HandleLogging(), gin.Recovery())
	engine.NoRoute(func(c *gin.Context) {
		apiutils.AbortWithApiError(c, postdasherrors.NewNotFoundWithMessage(c.Request.RequestURI+" not found"))
	})
	if commonconfig.IsHealthCheckEnabled() {
		engine.GET("/healthz", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
	}

	generationHandler := InitGenerationHandlers(dbClient)
	generation_handlers.InitGenerationRouters(engine, generationHandler, middleware.AuditLog(dbClient))

	return engine, nil
}

// InitGenerationHandlers initializes the posting task generation handlers.
// It wires the database client and the posting calendar into a handler instance.
func InitGenerationHandlers(dbClient dbclient.Interface) *generation_handlers.Handler {
	return generation_handlers.NewHandler(dbClient, schedule.NewCalendar())
}
