/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"context"
	"fmt"

	sqrl "github.com/Masterminds/squirrel"
	"k8s.io/klog/v2"

	commonerrors "github.com/brightmark/postdash/pkg/errors"
)

const (
	TAssignment = "assignment"
	TClient     = "client"
)

// FindLatestAssignment resolves the most recent assignment for a client,
// optionally narrowed to a template. Returns AssignmentNotFound when the
// client has no matching assignment.
func (c *Client) FindLatestAssignment(ctx context.Context, clientId int64, templateId *int64) (*Assignment, error) {
	if clientId <= 0 {
		return nil, commonerrors.NewBadRequest("client id is required")
	}
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}

	dbTags := GetAssignmentFieldTags()
	dbSql := sqrl.And{
		sqrl.Eq{GetFieldTag(dbTags, "ClientId"): clientId},
	}
	if templateId != nil {
		dbSql = append(dbSql, sqrl.Eq{GetFieldTag(dbTags, "TemplateId"): *templateId})
	}
	sql, args, err := sqrl.Select("*").PlaceholderFormat(sqrl.Dollar).
		From(TAssignment).
		Where(dbSql).
		OrderBy(fmt.Sprintf("%s DESC", GetFieldTag(dbTags, "CreatedAt"))).
		Limit(1).ToSql()
	if err != nil {
		return nil, err
	}

	var assignments []*Assignment
	if err = db.SelectContext(ctx, &assignments, sql, args...); err != nil {
		klog.ErrorS(err, "failed to select latest assignment", "clientId", clientId)
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, commonerrors.NewNotFound(commonerrors.KindAssignment, fmt.Sprintf("client=%d", clientId))
	}
	return assignments[0], nil
}

// GetClientAccount retrieves a client account by id.
func (c *Client) GetClientAccount(ctx context.Context, clientId int64) (*ClientAccount, error) {
	if clientId <= 0 {
		return nil, commonerrors.NewBadRequest("client id is required")
	}
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}

	sql, args, err := sqrl.Select("*").PlaceholderFormat(sqrl.Dollar).
		From(TClient).
		Where(sqrl.Eq{"id": clientId}).
		Limit(1).ToSql()
	if err != nil {
		return nil, err
	}

	var accounts []*ClientAccount
	if err = db.SelectContext(ctx, &accounts, sql, args...); err != nil {
		klog.ErrorS(err, "failed to select client", "clientId", clientId)
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, commonerrors.NewNotFound(commonerrors.KindClient, fmt.Sprintf("%d", clientId))
	}
	return accounts[0], nil
}
