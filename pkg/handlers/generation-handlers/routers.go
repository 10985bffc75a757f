/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package generation_handlers

import (
	"github.com/gin-gonic/gin"
)

// InitGenerationRouters registers the posting task generation routes.
func InitGenerationRouters(e *gin.Engine, h *Handler, middlewares ...gin.HandlerFunc) {
	group := e.Group("/api/v1", middlewares...)
	{
		group.GET("posting-tasks/preview", h.PreviewPostingTasks)
		group.POST("posting-tasks", h.CreatePostingTasks)
	}
}
