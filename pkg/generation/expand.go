/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package generation

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	dbclient "github.com/brightmark/postdash/pkg/database/client"
	dbutils "github.com/brightmark/postdash/pkg/database/utils"
)

// CopySpec is one posting copy to be created: a generated name plus the
// source task it inherits its fields from.
type CopySpec struct {
	Source       *dbclient.SourceTask
	Name         string
	CycleIndex   int
	CategoryName string
	Priority     string
}

// Expand fans each source task out into its frequency-resolved copy specs.
// Copies of one source are emitted in ascending suffix order so the derived
// cycle numbers, and therefore the due dates, are deterministic.
func Expand(sources []*dbclient.SourceTask, overrides map[int64]*dbclient.AssetFrequencyOverride, priorityOverride string) []CopySpec {
	var specs []CopySpec
	for _, src := range sources {
		var override *dbclient.AssetFrequencyOverride
		if src.AssetId.Valid {
			override = overrides[src.AssetId.Int64]
		}
		frequency := ResolveFrequency(src, override)
		base := BaseName(src.Name)
		category := CategoryFor(dbclient.AssetType(dbutils.ParseNullString(src.AssetType)))
		priority := src.Priority
		if priorityOverride != "" {
			priority = priorityOverride
		}
		for n := 1; n <= frequency; n++ {
			specs = append(specs, CopySpec{
				Source:       src,
				Name:         CopyName(base, n),
				CycleIndex:   n,
				CategoryName: category,
				Priority:     priority,
			})
		}
	}
	return specs
}

// CopyUid derives the stable identity of a generated copy from its
// de-duplication key, so re-running generation addresses the same logical
// copy by the same uid.
func CopyUid(assignmentId int64, name, category string) string {
	sum := xxhash.Sum64String(fmt.Sprintf("%d/%s/%s", assignmentId, name, category))
	return fmt.Sprintf("pt-%016x", sum)
}
