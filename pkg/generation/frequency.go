/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package generation

import (
	dbclient "github.com/brightmark/postdash/pkg/database/client"
)

// ResolveFrequency decides how many copies one source task fans out into.
// Precedence: the assignment's per-asset override, then the asset's default
// posting frequency, then 1. Only positive values qualify; the result is
// always >= 1.
func ResolveFrequency(src *dbclient.SourceTask, override *dbclient.AssetFrequencyOverride) int {
	if override != nil && override.RequiredFrequency.Valid && override.RequiredFrequency.Int64 > 0 {
		return int(override.RequiredFrequency.Int64)
	}
	if src.AssetDefaultFrequency.Valid && src.AssetDefaultFrequency.Int64 > 0 {
		return int(src.AssetDefaultFrequency.Int64)
	}
	return 1
}
