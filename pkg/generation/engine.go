/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package generation

import (
	"context"
	"database/sql"
	"time"

	"k8s.io/klog/v2"

	dbclient "github.com/brightmark/postdash/pkg/database/client"
	dbutils "github.com/brightmark/postdash/pkg/database/utils"
)

// Store is the storage surface the engine needs; *dbclient.Client satisfies
// it in production and tests inject a fake.
type Store interface {
	GetClientAccount(ctx context.Context, clientId int64) (*dbclient.ClientAccount, error)
	FindLatestAssignment(ctx context.Context, clientId int64, templateId *int64) (*dbclient.Assignment, error)
	SelectSourceTasks(ctx context.Context, assignmentId int64, assetTypes []dbclient.AssetType) ([]*dbclient.SourceTask, error)
	SelectFrequencyOverrides(ctx context.Context, assignmentId int64) (map[int64]*dbclient.AssetFrequencyOverride, error)
	SelectExistingCopies(ctx context.Context, assignmentId int64, names []string, categoryIds []int64) ([]*dbclient.ExistingCopy, error)
	UpsertCategory(ctx context.Context, name string) (int64, error)
	CreateTasks(ctx context.Context, tasks []*dbclient.Task) error
}

// Calculator is the external due-date collaborator. The engine treats its
// policy as a black box and only feeds it the source creation time and the
// cycle number parsed off the generated name.
type Calculator interface {
	DueDateFor(sourceCreatedAt time.Time, cycleNumber *int) time.Time
}

// Request scopes one preview or commit invocation.
type Request struct {
	ClientId         int64
	TemplateId       *int64
	AssetType        dbclient.AssetType
	PriorityOverride string
}

// PreviewRow describes how one source task would fan out.
type PreviewRow struct {
	SourceTaskId int64  `json:"sourceTaskId"`
	Name         string `json:"name"`
	BaseName     string `json:"baseName"`
	Status       string `json:"status"`
	Priority     string `json:"priority"`
	AssetType    string `json:"assetType"`
	Frequency    int    `json:"frequency"`
	Category     string `json:"category"`
}

// PreviewResult is the dry-run report. TotalWillCreate is an upper bound;
// the commit may create fewer when copies already exist.
type PreviewResult struct {
	AssignmentId    int64
	Rows            []PreviewRow
	CountsByStatus  map[dbclient.TaskStatus]int
	AllApproved     bool
	TotalWillCreate int
}

// CreatedRow summarizes one persisted copy.
type CreatedRow struct {
	Id          int64      `json:"id"`
	TaskUid     string     `json:"taskUid"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	CycleNumber *int       `json:"cycleNumber,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// CommitResult reports the authoritative outcome of a commit.
type CommitResult struct {
	AssignmentId int64
	Created      int
	Skipped      int
	Tasks        []CreatedRow
	Message      string
}

// Engine generates posting task copies from qc-approved source tasks.
type Engine struct {
	store Store
	calc  Calculator
}

func NewEngine(store Store, calc Calculator) *Engine {
	return &Engine{store: store, calc: calc}
}

func (e *Engine) assetFilter(req Request) []dbclient.AssetType {
	if req.AssetType != "" {
		return []dbclient.AssetType{req.AssetType}
	}
	return dbclient.SourceAssetTypes
}

func (e *Engine) resolveSources(ctx context.Context, req Request) (*dbclient.Assignment, []*dbclient.SourceTask, error) {
	if _, err := e.store.GetClientAccount(ctx, req.ClientId); err != nil {
		return nil, nil, err
	}
	assignment, err := e.store.FindLatestAssignment(ctx, req.ClientId, req.TemplateId)
	if err != nil {
		return nil, nil, err
	}
	sources, err := e.store.SelectSourceTasks(ctx, assignment.Id, e.assetFilter(req))
	if err != nil {
		return nil, nil, err
	}
	return assignment, sources, nil
}

// Preview runs the full pipeline without persistence.
func (e *Engine) Preview(ctx context.Context, req Request) (*PreviewResult, error) {
	assignment, sources, err := e.resolveSources(ctx, req)
	if err != nil {
		return nil, err
	}
	readiness := EvaluateReadiness(sources)
	result := &PreviewResult{
		AssignmentId:   assignment.Id,
		Rows:           make([]PreviewRow, 0, len(sources)),
		CountsByStatus: readiness.CountsByStatus,
		AllApproved:    readiness.AllApproved,
	}
	if len(sources) == 0 {
		return result, nil
	}
	overrides, err := e.store.SelectFrequencyOverrides(ctx, assignment.Id)
	if err != nil {
		return nil, err
	}
	for _, src := range sources {
		var override *dbclient.AssetFrequencyOverride
		if src.AssetId.Valid {
			override = overrides[src.AssetId.Int64]
		}
		assetType := dbutils.ParseNullString(src.AssetType)
		frequency := ResolveFrequency(src, override)
		result.Rows = append(result.Rows, PreviewRow{
			SourceTaskId: src.Id,
			Name:         src.Name,
			BaseName:     BaseName(src.Name),
			Status:       src.Status,
			Priority:     src.Priority,
			AssetType:    assetType,
			Frequency:    frequency,
			Category:     CategoryFor(dbclient.AssetType(assetType)),
		})
		result.TotalWillCreate += frequency
	}
	return result, nil
}

// Commit re-runs the readiness gate, expands, de-duplicates and persists the
// remaining copies in one transaction. An empty outcome is a valid terminal
// state, not an error.
func (e *Engine) Commit(ctx context.Context, req Request) (*CommitResult, error) {
	assignment, sources, err := e.resolveSources(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return &CommitResult{
			AssignmentId: assignment.Id,
			Message:      "no source tasks to generate from",
		}, nil
	}
	readiness := EvaluateReadiness(sources)
	if !readiness.AllApproved {
		return nil, &NotReadyError{
			BlockingIds:    readiness.BlockingIds,
			CountsByStatus: readiness.CountsByStatus,
		}
	}

	overrides, err := e.store.SelectFrequencyOverrides(ctx, assignment.Id)
	if err != nil {
		return nil, err
	}
	specs := Expand(sources, overrides, req.PriorityOverride)

	categoryIds := make(map[string]int64, 2)
	for _, name := range []string{dbclient.CategorySocialActivity, dbclient.CategoryBlogPosting} {
		id, err := e.store.UpsertCategory(ctx, name)
		if err != nil {
			return nil, err
		}
		categoryIds[name] = id
	}

	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.Name)
	}
	ids := []int64{categoryIds[dbclient.CategorySocialActivity], categoryIds[dbclient.CategoryBlogPosting]}
	existing, err := e.store.SelectExistingCopies(ctx, assignment.Id, names, ids)
	if err != nil {
		return nil, err
	}
	kept, skipped := FilterExisting(specs, existing, categoryIds)
	if len(kept) == 0 {
		return &CommitResult{
			AssignmentId: assignment.Id,
			Skipped:      skipped,
			Message:      "all posting copies already exist",
		}, nil
	}

	rows := make([]*dbclient.Task, 0, len(kept))
	for _, spec := range kept {
		rows = append(rows, e.buildTask(assignment, spec, categoryIds[spec.CategoryName]))
	}
	if err := e.store.CreateTasks(ctx, rows); err != nil {
		if dbclient.IsUniqueViolation(err) {
			klog.Infof("commit lost creation race for assignment %d, nothing to do", assignment.Id)
			return &CommitResult{
				AssignmentId: assignment.Id,
				Skipped:      skipped + len(kept),
				Message:      "posting copies were created concurrently",
			}, nil
		}
		return nil, err
	}

	result := &CommitResult{
		AssignmentId: assignment.Id,
		Created:      len(rows),
		Skipped:      skipped,
		Tasks:        make([]CreatedRow, 0, len(rows)),
	}
	for _, row := range rows {
		created := CreatedRow{
			Id:       row.Id,
			TaskUid:  row.TaskUid,
			Name:     row.Name,
			Category: categoryNameFor(categoryIds, row.CategoryId),
		}
		if row.CycleNumber.Valid {
			n := int(row.CycleNumber.Int64)
			created.CycleNumber = &n
		}
		if row.DueDate.Valid {
			due := row.DueDate.Time
			created.DueDate = &due
		}
		result.Tasks = append(result.Tasks, created)
	}
	return result, nil
}

func (e *Engine) buildTask(assignment *dbclient.Assignment, spec CopySpec, categoryId int64) *dbclient.Task {
	src := spec.Source
	task := &dbclient.Task{
		TaskUid:              CopyUid(assignment.Id, spec.Name, spec.CategoryName),
		Name:                 spec.Name,
		Status:               string(dbclient.TaskStatusPending),
		Priority:             spec.Priority,
		IdealDurationMinutes: src.IdealDurationMinutes,
		CompletionLink:       src.CompletionLink,
		Username:             src.Username,
		Email:                src.Email,
		Password:             src.Password,
		Notes:                src.Notes,
		AssignmentId:         assignment.Id,
		ClientId:             assignment.ClientId,
		CategoryId:           dbutils.NullInt64(categoryId),
	}
	var cyclePtr *int
	if cycle, ok := CycleNumber(spec.Name); ok {
		task.CycleNumber = dbutils.NullInt64(int64(cycle))
		cyclePtr = &cycle
	}
	if src.CreatedAt.Valid {
		task.DueDate = dbutils.NullTime(e.calc.DueDateFor(src.CreatedAt.Time, cyclePtr))
	}
	return task
}

func categoryNameFor(categoryIds map[string]int64, id sql.NullInt64) string {
	if !id.Valid {
		return ""
	}
	for name, categoryId := range categoryIds {
		if categoryId == id.Int64 {
			return name
		}
	}
	return ""
}
