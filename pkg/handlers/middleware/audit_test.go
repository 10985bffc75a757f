/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package middleware

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	dbclient "github.com/brightmark/postdash/pkg/database/client"
)

type recordingClient struct {
	dbclient.Interface

	mu   sync.Mutex
	logs []*dbclient.AuditLog
}

func (r *recordingClient) InsertAuditLog(_ context.Context, log *dbclient.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	return nil
}

func (r *recordingClient) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.logs)
}

func TestIsWriteOperation(t *testing.T) {
	assert.True(t, isWriteOperation("POST"))
	assert.True(t, isWriteOperation("PUT"))
	assert.True(t, isWriteOperation("PATCH"))
	assert.True(t, isWriteOperation("DELETE"))
	assert.False(t, isWriteOperation("GET"))
	assert.False(t, isWriteOperation("HEAD"))
	assert.False(t, isWriteOperation("OPTIONS"))
}

func TestAuditBufferFlushOnClose(t *testing.T) {
	client := &recordingClient{}
	buf := initAuditBuffer(client)

	for i := 0; i < 3; i++ {
		ok := buf.send(&dbclient.AuditLog{
			UserName:   "tester",
			HttpMethod: "POST",
			Path:       "/api/v1/posting-tasks",
			StatusCode: 200,
		})
		assert.True(t, ok)
	}
	close(buf.ch)

	assert.Eventually(t, func() bool {
		return client.count() == 3
	}, 3*time.Second, 10*time.Millisecond)
}

func TestAuditBufferDropsWhenFull(t *testing.T) {
	// A buffer with no worker draining it eventually rejects sends.
	buf := &auditLogBuffer{ch: make(chan *dbclient.AuditLog, 1)}

	assert.True(t, buf.send(&dbclient.AuditLog{HttpMethod: "POST", Path: "/a"}))
	assert.False(t, buf.send(&dbclient.AuditLog{HttpMethod: "POST", Path: "/b"}))
}
