/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package client

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/lib/pq"
)

const (
	DESC = "desc"
	ASC  = "asc"

	CreatedAt = "created_at"
)

// TaskStatus is the lifecycle status of a task row.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusOverdue    TaskStatus = "overdue"
	TaskStatusCancelled  TaskStatus = "cancelled"
	TaskStatusReassigned TaskStatus = "reassigned"
	TaskStatusQCApproved TaskStatus = "qc_approved"
)

// AllTaskStatuses lists every status in histogram order.
var AllTaskStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusOverdue,
	TaskStatusCancelled,
	TaskStatusReassigned,
	TaskStatusQCApproved,
}

// AssetType classifies the content asset a source task is tied to.
type AssetType string

const (
	AssetTypeSocialSite AssetType = "social_site"
	AssetTypeWeb2Site   AssetType = "web2_site"
	AssetTypeOtherAsset AssetType = "other_asset"
)

// SourceAssetTypes are the asset types that participate in posting generation.
var SourceAssetTypes = []AssetType{
	AssetTypeSocialSite,
	AssetTypeWeb2Site,
	AssetTypeOtherAsset,
}

// Target categories for generated posting copies.
const (
	CategorySocialActivity = "Social Activity"
	CategoryBlogPosting    = "Blog Posting"
)

type Task struct {
	Id                   int64          `db:"id" gorm:"primaryKey"`
	TaskUid              string         `db:"task_uid"`
	Name                 string         `db:"name"`
	Status               string         `db:"status"`
	Priority             string         `db:"priority"`
	IdealDurationMinutes sql.NullInt64  `db:"ideal_duration_minutes"`
	CompletionLink       sql.NullString `db:"completion_link"`
	Username             sql.NullString `db:"username"`
	Email                sql.NullString `db:"email"`
	Password             sql.NullString `db:"password"`
	Notes                sql.NullString `db:"notes"`
	AssignmentId         int64          `db:"assignment_id"`
	ClientId             int64          `db:"client_id"`
	AssetId              sql.NullInt64  `db:"asset_id"`
	CategoryId           sql.NullInt64  `db:"category_id"`
	DueDate              pq.NullTime    `db:"due_date"`
	CycleNumber          sql.NullInt64  `db:"cycle_number"`
	CreatedAt            pq.NullTime    `db:"created_at"`
}

// GetTaskFieldTags returns the TaskFieldTags value.
func GetTaskFieldTags() map[string]string {
	t := Task{}
	return getFieldTags(t)
}

// SourceTask is a task row joined with its asset, the unit the generation
// engine expands from.
type SourceTask struct {
	Task
	AssetType             sql.NullString `db:"asset_type"`
	AssetDefaultFrequency sql.NullInt64  `db:"asset_default_frequency"`
}

// ExistingCopy is a (name, category) pair already occupied within an
// assignment, the projection the de-duplication filter works from.
type ExistingCopy struct {
	Name       string        `db:"name"`
	CategoryId sql.NullInt64 `db:"category_id"`
}

type Assignment struct {
	Id         int64       `db:"id" gorm:"primaryKey"`
	ClientId   int64       `db:"client_id"`
	TemplateId int64       `db:"template_id"`
	CreatedAt  pq.NullTime `db:"created_at"`
}

// GetAssignmentFieldTags returns the AssignmentFieldTags value.
func GetAssignmentFieldTags() map[string]string {
	a := Assignment{}
	return getFieldTags(a)
}

type Asset struct {
	Id                      int64          `db:"id" gorm:"primaryKey"`
	Type                    string         `db:"type"`
	Name                    sql.NullString `db:"name"`
	DefaultPostingFrequency sql.NullInt64  `db:"default_posting_frequency"`
}

type AssetFrequencyOverride struct {
	Id                int64         `db:"id" gorm:"primaryKey"`
	AssignmentId      int64         `db:"assignment_id"`
	AssetId           int64         `db:"asset_id"`
	RequiredFrequency sql.NullInt64 `db:"required_frequency"`
}

// GetAssetFrequencyOverrideFieldTags returns the AssetFrequencyOverrideFieldTags value.
func GetAssetFrequencyOverrideFieldTags() map[string]string {
	o := AssetFrequencyOverride{}
	return getFieldTags(o)
}

type Category struct {
	Id   int64  `db:"id" gorm:"primaryKey"`
	Name string `db:"name"`
}

// ClientAccount is the customer a campaign belongs to. The table keeps the
// short name "client"; the Go type avoids clashing with the database Client.
type ClientAccount struct {
	Id          int64       `db:"id" gorm:"primaryKey"`
	DisplayName string      `db:"display_name"`
	CreatedAt   pq.NullTime `db:"created_at"`
}

// TableName maps ClientAccount onto the client table.
func (ClientAccount) TableName() string {
	return TClient
}

type AuditLog struct {
	Id         int64       `db:"id" gorm:"primaryKey"`
	UserName   string      `db:"user_name"`
	HttpMethod string      `db:"http_method"`
	Path       string      `db:"path"`
	StatusCode int         `db:"status_code"`
	DurationMs int64       `db:"duration_ms"`
	CreatedAt  pq.NullTime `db:"created_at"`
}

// GetFieldTag returns the db tag for a struct field name, lowercased lookup.
func GetFieldTag(tags map[string]string, field string) string {
	return tags[strings.ToLower(field)]
}

// getFieldTags retrieves FieldTags for internal use.
func getFieldTags(obj interface{}) map[string]string {
	result := make(map[string]string)
	t := reflect.TypeOf(obj)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		result[strings.ToLower(field.Name)] = field.Tag.Get("db")
	}
	return result
}

// generateCommand generates SQL command string using reflection
// Iterates through struct fields and builds column and value lists
// Skips fields with specified ignoreTag
// Returns formatted SQL command with columns and values
func generateCommand(obj interface{}, format, ignoreTag string) string {
	t := reflect.TypeOf(obj)
	columns := make([]string, 0, t.NumField())
	values := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("db")
		if tag == "" || tag == ignoreTag {
			continue
		}
		columns = append(columns, tag)
		values = append(values, ":"+tag)
	}
	return fmt.Sprintf(format, strings.Join(columns, ", "), strings.Join(values, ", "))
}
