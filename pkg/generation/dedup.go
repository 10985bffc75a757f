/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package generation

import (
	"fmt"

	dbclient "github.com/brightmark/postdash/pkg/database/client"
)

func dedupKey(name string, categoryId int64) string {
	return fmt.Sprintf("%d/%s", categoryId, name)
}

// FilterExisting drops the specs whose (name, category) already exist under
// the assignment and reports how many were skipped. categoryIds maps category
// names to their resolved ids.
func FilterExisting(specs []CopySpec, existing []*dbclient.ExistingCopy, categoryIds map[string]int64) (kept []CopySpec, skipped int) {
	taken := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		if !e.CategoryId.Valid {
			continue
		}
		taken[dedupKey(e.Name, e.CategoryId.Int64)] = struct{}{}
	}
	for _, spec := range specs {
		key := dedupKey(spec.Name, categoryIds[spec.CategoryName])
		if _, ok := taken[key]; ok {
			skipped++
			continue
		}
		// Guard against duplicate specs within a single batch as well.
		taken[key] = struct{}{}
		kept = append(kept, spec)
	}
	return kept, skipped
}
