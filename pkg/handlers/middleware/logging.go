/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
)

// HandleLogging logs every request after it completes.
func HandleLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		duration := time.Since(startTime)
		klog.Infof("Request: Method=%s | Path=%s | Status=%d | IP=%s | Duration=%v",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			c.ClientIP(),
			duration,
		)
		for _, err := range c.Errors {
			klog.ErrorS(err.Err, "request failed", "method", c.Request.Method, "path", c.Request.URL.Path)
		}
	}
}
