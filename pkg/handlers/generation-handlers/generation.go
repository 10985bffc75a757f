/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package generation_handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	dbclient "github.com/brightmark/postdash/pkg/database/client"
	postdasherrors "github.com/brightmark/postdash/pkg/errors"
	"github.com/brightmark/postdash/pkg/generation"
)

// PreviewPostingTasks reports what a commit would generate, without persisting.
func (h *Handler) PreviewPostingTasks(c *gin.Context) {
	handle(c, h.previewPostingTasks)
}

// CreatePostingTasks expands the source tasks and persists the net-new copies.
func (h *Handler) CreatePostingTasks(c *gin.Context) {
	handle(c, h.createPostingTasks)
}

func (h *Handler) previewPostingTasks(c *gin.Context) (interface{}, error) {
	req, err := parsePreviewQuery(c)
	if err != nil {
		return nil, err
	}
	result, err := h.engine.Preview(c.Request.Context(), *req)
	if err != nil {
		return nil, err
	}
	return &PreviewResponse{
		AssignmentId:    result.AssignmentId,
		Tasks:           result.Rows,
		CountsByStatus:  result.CountsByStatus,
		AllApproved:     result.AllApproved,
		TotalWillCreate: result.TotalWillCreate,
	}, nil
}

func (h *Handler) createPostingTasks(c *gin.Context) (interface{}, error) {
	req := &CommitRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		return nil, postdasherrors.NewBadRequest(fmt.Sprintf("invalid request body: %v", err))
	}
	assetType, err := parseAssetType(req.AssetType)
	if err != nil {
		return nil, err
	}
	result, err := h.engine.Commit(c.Request.Context(), generation.Request{
		ClientId:         req.ClientId,
		TemplateId:       req.TemplateId,
		AssetType:        assetType,
		PriorityOverride: req.PriorityOverride,
	})
	if err != nil {
		var notReady *generation.NotReadyError
		if errors.As(err, &notReady) {
			c.AbortWithStatusJSON(http.StatusBadRequest, &NotReadyResponse{
				ErrorCode:       postdasherrors.GenerationNotReady,
				ErrorMessage:    notReady.Error(),
				BlockingTaskIds: notReady.BlockingIds,
				CountsByStatus:  notReady.CountsByStatus,
			})
			return nil, nil
		}
		return nil, err
	}
	return &CommitResponse{
		AssignmentId: result.AssignmentId,
		Created:      result.Created,
		Skipped:      result.Skipped,
		Tasks:        result.Tasks,
		Message:      result.Message,
	}, nil
}

func parsePreviewQuery(c *gin.Context) (*generation.Request, error) {
	rawClientId := c.Query(ParamClientId)
	if rawClientId == "" {
		return nil, postdasherrors.NewBadRequest(ParamClientId + " is required")
	}
	clientId, err := strconv.ParseInt(rawClientId, 10, 64)
	if err != nil {
		return nil, postdasherrors.NewBadRequest(fmt.Sprintf("invalid %s: %q", ParamClientId, rawClientId))
	}
	req := &generation.Request{ClientId: clientId}
	if raw := c.Query(ParamTemplateId); raw != "" {
		templateId, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, postdasherrors.NewBadRequest(fmt.Sprintf("invalid %s: %q", ParamTemplateId, raw))
		}
		req.TemplateId = &templateId
	}
	assetType, err := parseAssetType(c.Query(ParamAssetType))
	if err != nil {
		return nil, err
	}
	req.AssetType = assetType
	return req, nil
}

func parseAssetType(raw string) (dbclient.AssetType, error) {
	if raw == "" {
		return "", nil
	}
	for _, at := range dbclient.SourceAssetTypes {
		if dbclient.AssetType(raw) == at {
			return at, nil
		}
	}
	return "", postdasherrors.NewBadRequest(fmt.Sprintf("unknown asset type: %q", raw))
}
