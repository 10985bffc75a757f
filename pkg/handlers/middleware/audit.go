/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"k8s.io/klog/v2"

	commonconfig "github.com/brightmark/postdash/pkg/config"
	dbclient "github.com/brightmark/postdash/pkg/database/client"
)

const (
	// auditBufferSize is the capacity of the audit log buffer channel
	auditBufferSize = 1000
	// auditBatchSize is the number of logs to batch before writing
	auditBatchSize = 50
	// auditFlushInterval is the interval to flush audit logs even if batch is not full
	auditFlushInterval = 5 * time.Second
	// anonymousUser is recorded when the request carries no user identity
	anonymousUser = "anonymous"

	// UserNameKey is the gin context key an outer auth layer uses to pass the caller identity.
	UserNameKey = "userName"
)

// auditLogBuffer is a singleton buffer for batching audit logs
type auditLogBuffer struct {
	ch     chan *dbclient.AuditLog
	client dbclient.Interface
	once   sync.Once
}

var auditBuffer *auditLogBuffer

// initAuditBuffer initializes the audit log buffer and starts the background worker
func initAuditBuffer(client dbclient.Interface) *auditLogBuffer {
	buf := &auditLogBuffer{
		ch:     make(chan *dbclient.AuditLog, auditBufferSize),
		client: client,
	}
	buf.once.Do(func() {
		go buf.flushWorker()
	})
	return buf
}

// send adds an audit log to the buffer, returns false if buffer is full
func (b *auditLogBuffer) send(log *dbclient.AuditLog) bool {
	select {
	case b.ch <- log:
		return true
	default:
		klog.Warningf("audit log buffer full, dropping %s %s", log.HttpMethod, log.Path)
		return false
	}
}

// flushWorker is a background goroutine that batches and writes audit logs
func (b *auditLogBuffer) flushWorker() {
	ticker := time.NewTicker(auditFlushInterval)
	defer ticker.Stop()

	batch := make([]*dbclient.AuditLog, 0, auditBatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		b.writeBatch(batch)
		batch = batch[:0]
	}

	for {
		select {
		case log, ok := <-b.ch:
			if !ok {
				flush()
				return
			}
			batch = append(batch, log)
			if len(batch) >= auditBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// writeBatch writes a batch of audit logs to the database
func (b *auditLogBuffer) writeBatch(batch []*dbclient.AuditLog) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, log := range batch {
		err := b.client.InsertAuditLog(ctx, log)
		if err != nil {
			klog.ErrorS(err, "failed to insert audit log",
				"method", log.HttpMethod, "path", log.Path)
		}
	}
	klog.V(4).Infof("flushed %d audit logs to database", len(batch))
}

// AuditLog creates a middleware that logs write operations (POST, PUT, PATCH, DELETE) to the database.
// It uses a buffered channel and background worker to batch writes for better performance.
func AuditLog(client dbclient.Interface) gin.HandlerFunc {
	if !commonconfig.IsAuditEnable() || client == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if auditBuffer == nil {
		auditBuffer = initAuditBuffer(client)
		klog.Infof("audit log buffer initialized, batch size %d, flush interval %v",
			auditBatchSize, auditFlushInterval)
	}

	return func(c *gin.Context) {
		if !isWriteOperation(c.Request.Method) {
			c.Next()
			return
		}

		startTime := time.Now()
		c.Next()

		userName := anonymousUser
		if v, ok := c.Get(UserNameKey); ok {
			if s, ok := v.(string); ok && s != "" {
				userName = s
			}
		}

		auditBuffer.send(&dbclient.AuditLog{
			UserName:   userName,
			HttpMethod: c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: c.Writer.Status(),
			DurationMs: time.Since(startTime).Milliseconds(),
			CreatedAt:  pq.NullTime{Time: time.Now().UTC(), Valid: true},
		})
	}
}

// isWriteOperation checks if the HTTP method is a write operation
func isWriteOperation(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH", "DELETE":
		return true
	default:
		return false
	}
}
