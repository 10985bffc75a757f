/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"

	"gorm.io/gorm"
	"k8s.io/klog/v2"

	commonerrors "github.com/brightmark/postdash/pkg/errors"
)

const (
	TCategory = "category"
)

// UpsertCategory returns the id of the named category, creating the row if it
// does not exist yet. A concurrent insert of the same name is resolved by
// re-reading after the unique-constraint rejection.
func (c *Client) UpsertCategory(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, commonerrors.NewBadRequest("category name is required")
	}
	g, err := c.getGorm()
	if err != nil {
		return 0, err
	}

	category := &Category{Name: name}
	err = g.WithContext(ctx).Where(&Category{Name: name}).FirstOrCreate(category).Error
	if err != nil && IsUniqueViolation(err) {
		err = g.WithContext(ctx).Where(&Category{Name: name}).First(category).Error
	}
	if err != nil {
		klog.ErrorS(err, "failed to upsert category", "name", name)
		return 0, err
	}
	return category.Id, nil
}

// GetCategoryByName retrieves a category row, nil when absent.
func (c *Client) GetCategoryByName(ctx context.Context, name string) (*Category, error) {
	g, err := c.getGorm()
	if err != nil {
		return nil, err
	}
	category := &Category{}
	err = g.WithContext(ctx).Where(&Category{Name: name}).First(category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return category, nil
}
