/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package generation

import (
	"fmt"
	"sort"
	"strings"

	dbclient "github.com/brightmark/postdash/pkg/database/client"
)

// Readiness is the QC gate verdict over a source-task set.
type Readiness struct {
	// CountsByStatus always carries all seven statuses, zero-filled.
	CountsByStatus map[dbclient.TaskStatus]int
	// AllApproved is true iff the set is non-empty and every task is qc_approved.
	AllApproved bool
	// BlockingIds lists the tasks still outside qc_approved, ascending.
	BlockingIds []int64
}

// EvaluateReadiness computes the status histogram and the approval verdict
// for a source-task set. Pure; it is re-run at commit time rather than
// trusting a stale preview.
func EvaluateReadiness(sources []*dbclient.SourceTask) Readiness {
	counts := make(map[dbclient.TaskStatus]int, len(dbclient.AllTaskStatuses))
	for _, status := range dbclient.AllTaskStatuses {
		counts[status] = 0
	}
	var blocking []int64
	for _, src := range sources {
		counts[dbclient.TaskStatus(src.Status)]++
		if dbclient.TaskStatus(src.Status) != dbclient.TaskStatusQCApproved {
			blocking = append(blocking, src.Id)
		}
	}
	sort.Slice(blocking, func(i, j int) bool { return blocking[i] < blocking[j] })
	return Readiness{
		CountsByStatus: counts,
		AllApproved:    len(sources) > 0 && len(blocking) == 0,
		BlockingIds:    blocking,
	}
}

// NotReadyError rejects a commit while source tasks are still outside
// qc_approved. It carries the data the caller needs to render "fix these N
// tasks first".
type NotReadyError struct {
	BlockingIds    []int64
	CountsByStatus map[dbclient.TaskStatus]int
}

func (e *NotReadyError) Error() string {
	ids := make([]string, 0, len(e.BlockingIds))
	for _, id := range e.BlockingIds {
		ids = append(ids, fmt.Sprintf("%d", id))
	}
	return fmt.Sprintf("%d source tasks are not qc approved: [%s]", len(e.BlockingIds), strings.Join(ids, ", "))
}
