/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"

	"k8s.io/klog/v2"
)

const (
	TAuditLog = "audit_log"
)

// InsertAuditLog persists one audit row. Best effort; callers batch upstream.
func (c *Client) InsertAuditLog(ctx context.Context, log *AuditLog) error {
	g, err := c.getGorm()
	if err != nil {
		return err
	}
	if err = g.WithContext(ctx).Create(log).Error; err != nil {
		klog.ErrorS(err, "failed to insert audit log", "path", log.Path)
		return err
	}
	return nil
}
