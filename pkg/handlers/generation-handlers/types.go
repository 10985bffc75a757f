/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package generation_handlers

import (
	dbclient "github.com/brightmark/postdash/pkg/database/client"
	"github.com/brightmark/postdash/pkg/generation"
)

// Query parameters of the preview endpoint.
const (
	ParamClientId   = "client_id"
	ParamTemplateId = "template_id"
	ParamAssetType  = "asset_type"
)

// CommitRequest is the body of the commit endpoint.
type CommitRequest struct {
	ClientId         int64  `json:"clientId" binding:"required"`
	TemplateId       *int64 `json:"templateId,omitempty"`
	AssetType        string `json:"assetType,omitempty"`
	PriorityOverride string `json:"priorityOverride,omitempty"`
}

// PreviewResponse reports the dry-run fan-out for an assignment.
type PreviewResponse struct {
	AssignmentId    int64                       `json:"assignmentId"`
	Tasks           []generation.PreviewRow     `json:"tasks"`
	CountsByStatus  map[dbclient.TaskStatus]int `json:"countsByStatus"`
	AllApproved     bool                        `json:"allApproved"`
	TotalWillCreate int                         `json:"totalWillCreate"`
}

// CommitResponse reports the authoritative commit outcome.
type CommitResponse struct {
	AssignmentId int64                   `json:"assignmentId"`
	Created      int                     `json:"created"`
	Skipped      int                     `json:"skipped"`
	Tasks        []generation.CreatedRow `json:"tasks"`
	Message      string                  `json:"message,omitempty"`
}

// NotReadyResponse is the structured rejection body of a gated commit. It
// carries the blocking ids and the status histogram so the caller can render
// actionable feedback.
type NotReadyResponse struct {
	ErrorCode       string                      `json:"errorCode"`
	ErrorMessage    string                      `json:"errorMessage"`
	BlockingTaskIds []int64                     `json:"blockingTaskIds"`
	CountsByStatus  map[dbclient.TaskStatus]int `json:"countsByStatus"`
}
