/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"

	sqrl "github.com/Masterminds/squirrel"
	"k8s.io/klog/v2"

	commonerrors "github.com/brightmark/postdash/pkg/errors"
)

const (
	TAssetFrequencyOverride = "asset_frequency_override"
)

// SelectFrequencyOverrides returns the per-asset frequency overrides of an
// assignment keyed by asset id. At most one override exists per asset.
func (c *Client) SelectFrequencyOverrides(ctx context.Context, assignmentId int64) (map[int64]*AssetFrequencyOverride, error) {
	if assignmentId <= 0 {
		return nil, commonerrors.NewBadRequest("assignment id is required")
	}
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}

	dbTags := GetAssetFrequencyOverrideFieldTags()
	sql, args, err := sqrl.Select("*").PlaceholderFormat(sqrl.Dollar).
		From(TAssetFrequencyOverride).
		Where(sqrl.Eq{GetFieldTag(dbTags, "AssignmentId"): assignmentId}).ToSql()
	if err != nil {
		return nil, err
	}

	var overrides []*AssetFrequencyOverride
	if err = db.SelectContext(ctx, &overrides, sql, args...); err != nil {
		klog.ErrorS(err, "failed to select frequency overrides", "assignmentId", assignmentId)
		return nil, err
	}
	result := make(map[int64]*AssetFrequencyOverride, len(overrides))
	for _, o := range overrides {
		result[o.AssetId] = o
	}
	return result, nil
}
