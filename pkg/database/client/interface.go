/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"

	sqrl "github.com/Masterminds/squirrel"
)

// Interface is the storage surface the handlers and the generation engine
// depend on; *Client is the production implementation.
type Interface interface {
	SelectTasks(ctx context.Context, query sqrl.Sqlizer, orderBy []string, limit, offset int) ([]*Task, error)
	CountTasks(ctx context.Context, query sqrl.Sqlizer) (int, error)
	GetTask(ctx context.Context, taskId int64) (*Task, error)
	SelectSourceTasks(ctx context.Context, assignmentId int64, assetTypes []AssetType) ([]*SourceTask, error)
	SelectExistingCopies(ctx context.Context, assignmentId int64, names []string, categoryIds []int64) ([]*ExistingCopy, error)
	CreateTasks(ctx context.Context, tasks []*Task) error

	FindLatestAssignment(ctx context.Context, clientId int64, templateId *int64) (*Assignment, error)
	GetClientAccount(ctx context.Context, clientId int64) (*ClientAccount, error)
	SelectFrequencyOverrides(ctx context.Context, assignmentId int64) (map[int64]*AssetFrequencyOverride, error)

	UpsertCategory(ctx context.Context, name string) (int64, error)
	GetCategoryByName(ctx context.Context, name string) (*Category, error)

	InsertAuditLog(ctx context.Context, log *AuditLog) error
}

var _ Interface = (*Client)(nil)
