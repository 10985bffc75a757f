/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/brightmark/postdash/pkg/crypto"
	dbutils "github.com/brightmark/postdash/pkg/database/utils"
	commonerrors "github.com/brightmark/postdash/pkg/errors"
)

const (
	TTask  = "task"
	TAsset = "asset"
)

// uniqueViolation is the postgres SQLSTATE for unique-constraint failures.
const uniqueViolation = "23505"

// SelectTasks retrieves task records matching the squirrel query.
func (c *Client) SelectTasks(ctx context.Context, query sqrl.Sqlizer, orderBy []string, limit, offset int) ([]*Task, error) {
	startTime := time.Now().UTC()
	defer func() {
		if query != nil {
			strQuery := dbutils.CvtToSqlStr(query)
			klog.Infof("select tasks, query: %s, orderBy: %v, limit: %d, offset: %d, cost (%v)",
				strQuery, orderBy, limit, offset, time.Since(startTime))
		}
	}()
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}

	sql, args, err := sqrl.Select("*").PlaceholderFormat(sqrl.Dollar).
		From(TTask).
		Where(query).
		OrderBy(orderBy...).
		Limit(uint64(limit)).
		Offset(uint64(offset)).ToSql()
	if err != nil {
		return nil, err
	}

	var tasks []*Task
	if c.RequestTimeout > 0 {
		ctx2, cancel := context.WithTimeout(ctx, c.RequestTimeout)
		defer cancel()
		err = db.SelectContext(ctx2, &tasks, sql, args...)
	} else {
		err = db.SelectContext(ctx, &tasks, sql, args...)
	}
	return tasks, err
}

// CountTasks returns the total count of tasks matching the criteria.
func (c *Client) CountTasks(ctx context.Context, query sqrl.Sqlizer) (int, error) {
	db, err := c.getDB()
	if err != nil {
		return 0, err
	}
	sql, args, err := sqrl.Select("COUNT(*)").PlaceholderFormat(sqrl.Dollar).From(TTask).Where(query).ToSql()
	if err != nil {
		return 0, err
	}
	var cnt int
	err = db.GetContext(ctx, &cnt, sql, args...)
	return cnt, err
}

// SelectSourceTasks returns the asset-linked tasks of an assignment together
// with each asset's type and default posting frequency. Only the given asset
// types qualify; stored credentials come back decrypted.
func (c *Client) SelectSourceTasks(ctx context.Context, assignmentId int64, assetTypes []AssetType) ([]*SourceTask, error) {
	if assignmentId <= 0 {
		return nil, commonerrors.NewBadRequest("assignment id is required")
	}
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}

	types := make([]string, 0, len(assetTypes))
	for _, at := range assetTypes {
		types = append(types, string(at))
	}
	sql, args, err := sqrl.Select("t.*", "a.type AS asset_type", "a.default_posting_frequency AS asset_default_frequency").
		PlaceholderFormat(sqrl.Dollar).
		From(TTask + " t").
		Join(TAsset + " a ON a.id = t.asset_id").
		Where(sqrl.And{
			sqrl.Eq{"t.assignment_id": assignmentId},
			sqrl.Eq{"a.type": types},
		}).
		OrderBy("t.id ASC").ToSql()
	if err != nil {
		return nil, err
	}

	var tasks []*SourceTask
	if c.RequestTimeout > 0 {
		ctx2, cancel := context.WithTimeout(ctx, c.RequestTimeout)
		defer cancel()
		err = db.SelectContext(ctx2, &tasks, sql, args...)
	} else {
		err = db.SelectContext(ctx, &tasks, sql, args...)
	}
	if err != nil {
		klog.ErrorS(err, "failed to select source tasks", "assignmentId", assignmentId)
		return nil, err
	}
	for _, task := range tasks {
		if err = decryptTaskPassword(&task.Task); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// SelectExistingCopies returns the (name, category) pairs already present in
// the assignment among the given names and categories. This is the
// de-duplication key lookup; a same-named task in an unrelated category does
// not come back.
func (c *Client) SelectExistingCopies(ctx context.Context, assignmentId int64, names []string, categoryIds []int64) ([]*ExistingCopy, error) {
	if len(names) == 0 || len(categoryIds) == 0 {
		return nil, nil
	}
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}

	dbTags := GetTaskFieldTags()
	sql, args, err := sqrl.Select(GetFieldTag(dbTags, "Name"), GetFieldTag(dbTags, "CategoryId")).
		PlaceholderFormat(sqrl.Dollar).
		From(TTask).
		Where(sqrl.And{
			sqrl.Eq{GetFieldTag(dbTags, "AssignmentId"): assignmentId},
			sqrl.Eq{GetFieldTag(dbTags, "Name"): names},
			sqrl.Eq{GetFieldTag(dbTags, "CategoryId"): categoryIds},
		}).ToSql()
	if err != nil {
		return nil, err
	}

	var existing []*ExistingCopy
	if err = db.SelectContext(ctx, &existing, sql, args...); err != nil {
		klog.ErrorS(err, "failed to select existing copies", "assignmentId", assignmentId)
		return nil, err
	}
	return existing, nil
}

// CreateTasks persists all rows in a single transaction; either every row is
// committed or none are. Credentials are encrypted at rest before insert.
func (c *Client) CreateTasks(ctx context.Context, tasks []*Task) error {
	if len(tasks) == 0 {
		return nil
	}
	g, err := c.getGorm()
	if err != nil {
		return err
	}
	for _, task := range tasks {
		if err = encryptTaskPassword(task); err != nil {
			return err
		}
	}
	err = g.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, task := range tasks {
			if err := tx.Create(task).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		klog.ErrorS(err, "failed to create task batch", "count", len(tasks))
		return err
	}
	return nil
}

// GetTask retrieves a task by id.
func (c *Client) GetTask(ctx context.Context, taskId int64) (*Task, error) {
	if taskId <= 0 {
		return nil, commonerrors.NewBadRequest("task id is required")
	}
	dbTags := GetTaskFieldTags()
	dbSql := sqrl.Eq{GetFieldTag(dbTags, "Id"): taskId}
	tasks, err := c.SelectTasks(ctx, dbSql, nil, 1, 0)
	if err != nil {
		klog.ErrorS(err, "failed to select task", "sql", dbutils.CvtToSqlStr(dbSql))
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, commonerrors.NewNotFound(commonerrors.KindTask, fmt.Sprintf("%d", taskId))
	}
	if err = decryptTaskPassword(tasks[0]); err != nil {
		return nil, err
	}
	return tasks[0], nil
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// either database driver, or gorm's translated form of one.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return true
	}
	return false
}

// encryptTaskPassword encrypts the password column in place when crypto is enabled.
func encryptTaskPassword(task *Task) error {
	if !task.Password.Valid || task.Password.String == "" {
		return nil
	}
	cipher, err := crypto.NewCrypto().Encrypt([]byte(task.Password.String))
	if err != nil {
		klog.ErrorS(err, "failed to encrypt task credentials", "name", task.Name)
		return commonerrors.NewInternalError("failed to encrypt task credentials")
	}
	task.Password.String = cipher
	return nil
}

// decryptTaskPassword decrypts the password column in place when crypto is enabled.
func decryptTaskPassword(task *Task) error {
	if !task.Password.Valid || task.Password.String == "" {
		return nil
	}
	plain, err := crypto.NewCrypto().Decrypt(task.Password.String)
	if err != nil {
		klog.ErrorS(err, "failed to decrypt task credentials", "name", task.Name)
		return commonerrors.NewInternalError("failed to decrypt task credentials")
	}
	task.Password.String = plain
	return nil
}
