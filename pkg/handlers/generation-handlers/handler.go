/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package generation_handlers

import (
	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	dbclient "github.com/brightmark/postdash/pkg/database/client"
	"github.com/brightmark/postdash/pkg/generation"
	apiutils "github.com/brightmark/postdash/pkg/utils"
)

// Handler handles HTTP requests for posting task generation.
type Handler struct {
	dbClient dbclient.Interface
	engine   *generation.Engine
}

// NewHandler creates a new generation handler.
func NewHandler(dbClient dbclient.Interface, calc generation.Calculator) *Handler {
	return &Handler{
		dbClient: dbClient,
		engine:   generation.NewEngine(dbClient, calc),
	}
}

// handle is a common handler wrapper for HTTP requests.
func handle(c *gin.Context, fn func(c *gin.Context) (interface{}, error)) {
	result, err := fn(c)
	if err != nil {
		klog.ErrorS(err, "handler error", "path", c.Request.URL.Path)
		apiutils.AbortWithApiError(c, err)
		return
	}
	if c.IsAborted() {
		return
	}
	c.JSON(200, result)
}
