/*
 * Copyright (C) 2025-2026, Brightmark, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package generation

import (
	"fmt"
	"regexp"
	"strconv"

	dbclient "github.com/brightmark/postdash/pkg/database/client"
)

var (
	// cycleSuffixPattern matches the trailing cycle suffix of a generated
	// name: optional whitespace, a hyphen, digits, end of string. This is
	// the single authoritative pattern for both stripping base names and
	// extracting cycle numbers.
	cycleSuffixPattern = regexp.MustCompile(`\s*-(\d+)$`)
)

// BaseName strips one trailing cycle suffix ("-<n>", optionally preceded by
// whitespace) from a task name, so re-deriving copy names from an already
// suffixed source never double-suffixes.
func BaseName(name string) string {
	return cycleSuffixPattern.ReplaceAllString(name, "")
}

// CycleNumber extracts the numeric cycle suffix of a generated name.
// Returns false for names without a "-<digits>" suffix, including names that
// merely end in a bare number.
func CycleNumber(name string) (int, bool) {
	m := cycleSuffixPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// CopyName renders the nth copy name for a base name, 1-indexed.
func CopyName(base string, n int) string {
	return fmt.Sprintf("%s -%d", base, n)
}

// CategoryFor maps an asset type to the posting category its copies land in.
// Blog-style web2 assets post under "Blog Posting"; everything else,
// including tasks with no asset type, posts under "Social Activity".
func CategoryFor(assetType dbclient.AssetType) string {
	if assetType == dbclient.AssetTypeWeb2Site {
		return dbclient.CategoryBlogPosting
	}
	return dbclient.CategorySocialActivity
}
