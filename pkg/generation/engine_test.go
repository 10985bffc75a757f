/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package generation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"gotest.tools/assert"

	dbclient "github.com/brightmark/postdash/pkg/database/client"
	dbutils "github.com/brightmark/postdash/pkg/database/utils"
	postdasherrors "github.com/brightmark/postdash/pkg/errors"
)

type fakeStore struct {
	account    *dbclient.ClientAccount
	assignment *dbclient.Assignment
	sources    []*dbclient.SourceTask
	overrides  map[int64]*dbclient.AssetFrequencyOverride
	categories map[string]int64
	tasks      []*dbclient.Task
	nextId     int64

	// failAt rejects the whole batch when it holds at least that many rows.
	failAt  int
	raceErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		account:    &dbclient.ClientAccount{Id: 1, DisplayName: "Acme"},
		assignment: &dbclient.Assignment{Id: 7, ClientId: 1, TemplateId: 3},
		overrides:  map[int64]*dbclient.AssetFrequencyOverride{},
		categories: map[string]int64{},
	}
}

func (f *fakeStore) GetClientAccount(_ context.Context, clientId int64) (*dbclient.ClientAccount, error) {
	if f.account == nil || f.account.Id != clientId {
		return nil, postdasherrors.NewNotFound(postdasherrors.KindClient, fmt.Sprintf("%d", clientId))
	}
	return f.account, nil
}

func (f *fakeStore) FindLatestAssignment(_ context.Context, clientId int64, _ *int64) (*dbclient.Assignment, error) {
	if f.assignment == nil || f.assignment.ClientId != clientId {
		return nil, postdasherrors.NewNotFound(postdasherrors.KindAssignment, fmt.Sprintf("client %d", clientId))
	}
	return f.assignment, nil
}

func (f *fakeStore) SelectSourceTasks(_ context.Context, _ int64, assetTypes []dbclient.AssetType) ([]*dbclient.SourceTask, error) {
	wanted := make(map[dbclient.AssetType]struct{}, len(assetTypes))
	for _, at := range assetTypes {
		wanted[at] = struct{}{}
	}
	var out []*dbclient.SourceTask
	for _, src := range f.sources {
		if _, ok := wanted[dbclient.AssetType(dbutils.ParseNullString(src.AssetType))]; ok {
			out = append(out, src)
		}
	}
	return out, nil
}

func (f *fakeStore) SelectFrequencyOverrides(_ context.Context, _ int64) (map[int64]*dbclient.AssetFrequencyOverride, error) {
	return f.overrides, nil
}

func (f *fakeStore) SelectExistingCopies(_ context.Context, assignmentId int64, names []string, categoryIds []int64) ([]*dbclient.ExistingCopy, error) {
	nameSet := make(map[string]struct{}, len(names))
	for _, n := range names {
		nameSet[n] = struct{}{}
	}
	idSet := make(map[int64]struct{}, len(categoryIds))
	for _, id := range categoryIds {
		idSet[id] = struct{}{}
	}
	var out []*dbclient.ExistingCopy
	for _, task := range f.tasks {
		if task.AssignmentId != assignmentId || !task.CategoryId.Valid {
			continue
		}
		if _, ok := nameSet[task.Name]; !ok {
			continue
		}
		if _, ok := idSet[task.CategoryId.Int64]; !ok {
			continue
		}
		out = append(out, &dbclient.ExistingCopy{Name: task.Name, CategoryId: task.CategoryId})
	}
	return out, nil
}

func (f *fakeStore) UpsertCategory(_ context.Context, name string) (int64, error) {
	if id, ok := f.categories[name]; ok {
		return id, nil
	}
	id := int64(len(f.categories) + 1)
	f.categories[name] = id
	return id, nil
}

func (f *fakeStore) CreateTasks(_ context.Context, tasks []*dbclient.Task) error {
	if f.raceErr != nil {
		err := f.raceErr
		f.raceErr = nil
		return err
	}
	if f.failAt > 0 && len(tasks) >= f.failAt {
		return errors.New("insert failed")
	}
	for _, task := range tasks {
		f.nextId++
		task.Id = f.nextId
		f.tasks = append(f.tasks, task)
	}
	return nil
}

type fixedCalendar struct{}

func (fixedCalendar) DueDateFor(sourceCreatedAt time.Time, cycleNumber *int) time.Time {
	cycle := 1
	if cycleNumber != nil {
		cycle = *cycleNumber
	}
	return sourceCreatedAt.AddDate(0, 0, cycle*7)
}

func approvedSource(id int64, name string, assetId int64, assetType dbclient.AssetType, defaultFrequency int64) *dbclient.SourceTask {
	src := sourceForExpand(id, name, assetId, assetType, defaultFrequency)
	src.CreatedAt = dbutils.NullTime(time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC))
	return src
}

func newTestEngine(store *fakeStore) *Engine {
	return NewEngine(store, fixedCalendar{})
}

func TestCommitIdempotency(t *testing.T) {
	store := newFakeStore()
	store.sources = []*dbclient.SourceTask{
		approvedSource(1, "Instagram Post", 10, dbclient.AssetTypeSocialSite, 3),
	}
	engine := newTestEngine(store)
	req := Request{ClientId: 1}

	first, err := engine.Commit(context.Background(), req)
	assert.NilError(t, err)
	assert.Equal(t, first.Created, 3)
	assert.Equal(t, first.Skipped, 0)
	assert.Equal(t, len(store.tasks), 3)

	second, err := engine.Commit(context.Background(), req)
	assert.NilError(t, err)
	assert.Equal(t, second.Created, 0)
	assert.Equal(t, second.Skipped, 3)
	assert.Equal(t, len(store.tasks), 3)
}

func TestCommitGatingCreatesNothing(t *testing.T) {
	store := newFakeStore()
	approved := approvedSource(1, "Instagram Post", 10, dbclient.AssetTypeSocialSite, 2)
	pending := approvedSource(2, "Guest Post", 20, dbclient.AssetTypeWeb2Site, 2)
	pending.Status = string(dbclient.TaskStatusPending)
	store.sources = []*dbclient.SourceTask{approved, pending}
	engine := newTestEngine(store)

	_, err := engine.Commit(context.Background(), Request{ClientId: 1})

	var notReady *NotReadyError
	assert.Assert(t, errors.As(err, &notReady))
	assert.DeepEqual(t, notReady.BlockingIds, []int64{2})
	assert.Equal(t, notReady.CountsByStatus[dbclient.TaskStatusQCApproved], 1)
	assert.Equal(t, notReady.CountsByStatus[dbclient.TaskStatusPending], 1)
	assert.Equal(t, len(store.tasks), 0)
}

func TestCommitAtomicity(t *testing.T) {
	store := newFakeStore()
	store.sources = []*dbclient.SourceTask{
		approvedSource(1, "Instagram Post", 10, dbclient.AssetTypeSocialSite, 5),
	}
	store.failAt = 3
	engine := newTestEngine(store)

	_, err := engine.Commit(context.Background(), Request{ClientId: 1})

	assert.ErrorContains(t, err, "insert failed")
	assert.Equal(t, len(store.tasks), 0)
}

func TestCommitLostRaceIsNoop(t *testing.T) {
	store := newFakeStore()
	store.sources = []*dbclient.SourceTask{
		approvedSource(1, "Instagram Post", 10, dbclient.AssetTypeSocialSite, 2),
	}
	store.raceErr = &pq.Error{Code: "23505"}
	engine := newTestEngine(store)

	result, err := engine.Commit(context.Background(), Request{ClientId: 1})

	assert.NilError(t, err)
	assert.Equal(t, result.Created, 0)
	assert.Equal(t, result.Skipped, 2)
	assert.Equal(t, len(store.tasks), 0)
}

func TestCommitEmptySources(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store)

	result, err := engine.Commit(context.Background(), Request{ClientId: 1})

	assert.NilError(t, err)
	assert.Equal(t, result.Created, 0)
	assert.Equal(t, result.AssignmentId, int64(7))
	assert.Assert(t, result.Message != "")
}

func TestCommitCategoryRouting(t *testing.T) {
	store := newFakeStore()
	store.sources = []*dbclient.SourceTask{
		approvedSource(1, "Instagram Post", 10, dbclient.AssetTypeSocialSite, 1),
		approvedSource(2, "Guest Post", 20, dbclient.AssetTypeWeb2Site, 1),
	}
	engine := newTestEngine(store)

	result, err := engine.Commit(context.Background(), Request{ClientId: 1})
	assert.NilError(t, err)
	assert.Equal(t, result.Created, 2)

	byName := make(map[string]string, len(result.Tasks))
	for _, task := range result.Tasks {
		byName[task.Name] = task.Category
	}
	assert.Equal(t, byName["Instagram Post -1"], dbclient.CategorySocialActivity)
	assert.Equal(t, byName["Guest Post -1"], dbclient.CategoryBlogPosting)
}

func TestCommitCopiesFieldsAndSchedule(t *testing.T) {
	store := newFakeStore()
	src := approvedSource(1, "Instagram Post", 10, dbclient.AssetTypeSocialSite, 2)
	src.Priority = "low"
	src.Username = dbutils.NullString("acme-social")
	src.Password = dbutils.NullString("secret")
	src.Notes = dbutils.NullString("brand voice doc v2")
	store.sources = []*dbclient.SourceTask{src}
	engine := newTestEngine(store)

	result, err := engine.Commit(context.Background(), Request{ClientId: 1, PriorityOverride: "urgent"})
	assert.NilError(t, err)
	assert.Equal(t, result.Created, 2)

	for i, task := range store.tasks {
		assert.Equal(t, task.Status, string(dbclient.TaskStatusPending))
		assert.Equal(t, task.Priority, "urgent")
		assert.Equal(t, dbutils.ParseNullString(task.Username), "acme-social")
		assert.Equal(t, dbutils.ParseNullString(task.Password), "secret")
		assert.Equal(t, dbutils.ParseNullString(task.Notes), "brand voice doc v2")
		assert.Equal(t, task.AssignmentId, int64(7))
		assert.Equal(t, task.ClientId, int64(1))
		assert.Assert(t, !task.AssetId.Valid)
		assert.Equal(t, dbutils.ParseNullInt64(task.CycleNumber), int64(i+1))
		want := src.CreatedAt.Time.AddDate(0, 0, (i+1)*7)
		assert.Equal(t, task.DueDate.Time, want)
	}
}

func TestPreviewReportsUpperBound(t *testing.T) {
	store := newFakeStore()
	store.sources = []*dbclient.SourceTask{
		approvedSource(1, "Instagram Post", 10, dbclient.AssetTypeSocialSite, 3),
		approvedSource(2, "Guest Post", 20, dbclient.AssetTypeWeb2Site, 2),
	}
	engine := newTestEngine(store)
	req := Request{ClientId: 1}

	preview, err := engine.Preview(context.Background(), req)
	assert.NilError(t, err)
	assert.Equal(t, preview.AssignmentId, int64(7))
	assert.Assert(t, preview.AllApproved)
	assert.Equal(t, preview.TotalWillCreate, 5)
	assert.Equal(t, len(preview.Rows), 2)
	assert.Equal(t, preview.Rows[0].Frequency, 3)
	assert.Equal(t, preview.Rows[1].Category, dbclient.CategoryBlogPosting)

	// totalWillCreate is an upper bound on what a following commit creates.
	commit, err := engine.Commit(context.Background(), req)
	assert.NilError(t, err)
	assert.Assert(t, preview.TotalWillCreate >= commit.Created)
	assert.Equal(t, commit.Created, 5)

	// With copies already persisted the bound is strict.
	preview, err = engine.Preview(context.Background(), req)
	assert.NilError(t, err)
	commit, err = engine.Commit(context.Background(), req)
	assert.NilError(t, err)
	assert.Equal(t, preview.TotalWillCreate, 5)
	assert.Equal(t, commit.Created, 0)
}

func TestPreviewDoesNotGate(t *testing.T) {
	store := newFakeStore()
	pending := approvedSource(1, "Instagram Post", 10, dbclient.AssetTypeSocialSite, 2)
	pending.Status = string(dbclient.TaskStatusPending)
	store.sources = []*dbclient.SourceTask{pending}
	engine := newTestEngine(store)

	preview, err := engine.Preview(context.Background(), Request{ClientId: 1})

	assert.NilError(t, err)
	assert.Assert(t, !preview.AllApproved)
	assert.Equal(t, preview.TotalWillCreate, 2)
	assert.Equal(t, len(store.tasks), 0)
}

func TestPreviewAssetTypeFilter(t *testing.T) {
	store := newFakeStore()
	store.sources = []*dbclient.SourceTask{
		approvedSource(1, "Instagram Post", 10, dbclient.AssetTypeSocialSite, 3),
		approvedSource(2, "Guest Post", 20, dbclient.AssetTypeWeb2Site, 2),
	}
	engine := newTestEngine(store)

	preview, err := engine.Preview(context.Background(), Request{ClientId: 1, AssetType: dbclient.AssetTypeWeb2Site})

	assert.NilError(t, err)
	assert.Equal(t, len(preview.Rows), 1)
	assert.Equal(t, preview.Rows[0].Name, "Guest Post")
	assert.Equal(t, preview.TotalWillCreate, 2)
}

func TestUnknownClientNotFound(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store)

	_, err := engine.Preview(context.Background(), Request{ClientId: 99})

	assert.Assert(t, postdasherrors.IsNotFound(err))
}
